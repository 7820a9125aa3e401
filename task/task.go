// Package task implements taskpad's task store.
//
// The Store is the sole owner of task state. It keeps the current list in
// memory, hands out copies, and persists the full list through a Persister
// before any mutating call returns.
//
// The public API mirrors the CLI commands:
//   - Add, Update, Remove for the task lifecycle
//   - List, Find for querying
//   - MarkNotified for the reminder scheduler
package task

import "time"

// MaxNameLength is the maximum allowed length for a task name.
const MaxNameLength = 500

// Task is a user-created to-do item with an optional deadline and note.
type Task struct {
	// ID is a unique identifier (8-char base32, derived from the name and creation time).
	ID string `json:"id"`

	// Name is the short summary of the task. Never empty.
	Name string `json:"name"`

	// Deadline is when the task is due (nil when there is none).
	Deadline *time.Time `json:"deadline,omitempty"`

	// Note holds free-form markdown.
	Note string `json:"note,omitempty"`

	// Notified is set once a deadline reminder has fired. Editing the task clears it.
	Notified bool `json:"notified"`

	// CreatedAt is when the task was added.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Remaining returns the time left until the deadline and whether the task
// has one. The duration is negative once the deadline has passed.
func (t Task) Remaining(now time.Time) (time.Duration, bool) {
	if t.Deadline == nil {
		return 0, false
	}
	return t.Deadline.Sub(now), true
}

// Overdue reports whether the task's deadline is at or before now.
func (t Task) Overdue(now time.Time) bool {
	remaining, ok := t.Remaining(now)
	return ok && remaining <= 0
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	if t.Deadline != nil {
		deadline := *t.Deadline
		t.Deadline = &deadline
	}
	return t
}

func cloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	cloned := make([]Task, len(tasks))
	for i := range tasks {
		cloned[i] = tasks[i].Clone()
	}
	return cloned
}

// TimePtr returns a pointer to the provided time.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// StringPtr returns a pointer to the provided string.
func StringPtr(s string) *string {
	return &s
}
