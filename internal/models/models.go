package models

import "time"

// Todo is a single task on the list. The id is assigned server-side at
// creation and never changes; createdAt comes from the database clock.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TodoPatch carries a partial update. Nil fields keep their current
// value; an empty title is ignored rather than applied.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Priority levels supported by the priority column.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriorities enumerates the accepted priority values.
var ValidPriorities = map[string]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
}
