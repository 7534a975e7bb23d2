package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/taskmaster/todos/internal/domain/entities"
	"github.com/taskmaster/todos/internal/infrastructure/logger"
)

// Postgres error codes the repositories translate into domain errors.
const (
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
	pqNotNullViolation    = "23502"
)

func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pqForeignKeyViolation:
		return entities.ErrCategoryNotFound
	case pqCheckViolation, pqNotNullViolation:
		return fmt.Errorf("%w: %s", entities.ErrInvalidInput, pqErr.Constraint)
	default:
		return err
	}
}

func expectOneRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows != 1 {
		return notFound
	}
	return nil
}

// observe logs the query duration. A missing row is an expected outcome, not a failure.
func observe(log *logger.Logger, query string, start time.Time, err error) {
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, entities.ErrTaskNotFound) || errors.Is(err, entities.ErrCategoryNotFound) {
		err = nil
	}
	log.LogDatabaseQuery(query, float64(time.Since(start).Microseconds())/1000, err)
}
