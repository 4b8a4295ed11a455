package models

import "time"

// Priority levels. Lower values sort first.
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// Todo is a task row owned by a single user. Priority ranges from 1 (high)
// to 3 (low).
type Todo struct {
	ID          int64
	Title       string
	Description string
	Completed   bool
	Priority    int
	CreatedAt   time.Time
	OwnerID     int64
}

// TodoPatch carries a partial update. Nil fields keep their stored values.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *int
}
