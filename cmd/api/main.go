package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskmaster/todos/cmd/api/commands"
)

// @title Todos API
// @version 1.0
// @description Personal task board with categories and drag-and-drop ordering

// @license.name MIT

// @host localhost:8080
// @BasePath /api

func main() {
	rootCmd := &cobra.Command{
		Use:          "todos",
		Short:        "Todos API server and terminal board",
		Long:         `Todos is a personal task board: a REST API over PostgreSQL plus a terminal client for filtering, editing and reordering todos.`,
		SilenceUsage: true,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewTUICommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
