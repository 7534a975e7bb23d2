package services

import "github.com/prometheus/client_golang/prometheus"

var (
	tasksCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "todos_tasks_created_total",
		Help: "Total number of tasks created",
	})

	tasksRepositioned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "todos_tasks_repositioned_total",
		Help: "Total number of task positions written by bulk reposition",
	})

	tasksDetached = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "todos_category_tasks_detached_total",
		Help: "Total number of tasks left uncategorized by category deletion",
	})
)

// Collectors returns the domain counters so the server can expose them on its registry.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{tasksCreated, tasksRepositioned, tasksDetached}
}
