package board

import (
	"github.com/google/uuid"

	"github.com/taskmaster/todos/internal/domain/entities"
)

// Status narrows the list by completion state
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Statuses in the order the UI cycles through them.
var Statuses = []Status{StatusAll, StatusActive, StatusCompleted}

// Next cycles all -> active -> completed -> all.
func (s Status) Next() Status {
	switch s {
	case StatusAll, "":
		return StatusActive
	case StatusActive:
		return StatusCompleted
	default:
		return StatusAll
	}
}

// Filter holds the user's current view criteria. Zero values mean "any".
type Filter struct {
	Search     string
	CategoryID *uuid.UUID
	Priority   entities.Priority
	Status     Status
}

// Active reports whether any criterion narrows the list.
func (f Filter) Active() bool {
	return f.Search != "" || f.CategoryID != nil || f.Priority != "" || (f.Status != "" && f.Status != StatusAll)
}

// Predicate reports whether a task passes one filter criterion.
type Predicate func(*entities.Task) bool

// Predicates returns one independent predicate per criterion.
func (f Filter) Predicates() []Predicate {
	return []Predicate{
		MatchSearch(f.Search),
		MatchCategory(f.CategoryID),
		MatchPriority(f.Priority),
		MatchStatus(f.Status),
	}
}

func MatchSearch(term string) Predicate {
	return func(t *entities.Task) bool {
		return t.Matches(term)
	}
}

func MatchCategory(id *uuid.UUID) Predicate {
	return func(t *entities.Task) bool {
		return id == nil || t.InCategory(*id)
	}
}

func MatchPriority(p entities.Priority) Predicate {
	return func(t *entities.Task) bool {
		return p == "" || t.Priority == p
	}
}

func MatchStatus(s Status) Predicate {
	return func(t *entities.Task) bool {
		switch s {
		case StatusActive:
			return !t.Completed
		case StatusCompleted:
			return t.Completed
		default:
			return true
		}
	}
}

// Apply keeps the tasks that pass every predicate, preserving order.
func Apply(tasks []*entities.Task, preds ...Predicate) []*entities.Task {
	out := make([]*entities.Task, 0, len(tasks))
next:
	for _, t := range tasks {
		for _, p := range preds {
			if !p(t) {
				continue next
			}
		}
		out = append(out, t)
	}
	return out
}
