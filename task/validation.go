package task

import (
	"errors"
	"fmt"

	internalstrings "github.com/amonks/taskpad/internal/strings"
)

var (
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("invalid task")

	// ErrEmptyName is returned when a task name is empty or blank.
	ErrEmptyName = fmt.Errorf("%w: name cannot be empty", ErrInvalid)

	// ErrNameTooLong is returned when a task name exceeds MaxNameLength.
	ErrNameTooLong = fmt.Errorf("%w: name exceeds maximum length", ErrInvalid)

	// ErrConflictingDeadline is returned when an update both sets and clears the deadline.
	ErrConflictingDeadline = fmt.Errorf("%w: cannot set and clear the deadline at once", ErrInvalid)

	// ErrMissingID is returned when a stored task has no ID.
	ErrMissingID = fmt.Errorf("%w: id cannot be empty", ErrInvalid)

	// ErrDuplicateID is returned when two stored tasks share an ID.
	ErrDuplicateID = fmt.Errorf("%w: duplicate id", ErrInvalid)

	// ErrTaskNotFound is returned when a task with the given ID doesn't exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousTaskIDPrefix is returned when an ID prefix matches multiple tasks.
	ErrAmbiguousTaskIDPrefix = errors.New("ambiguous task ID prefix")

	// ErrCorruptState is returned when the persisted task list cannot be decoded.
	ErrCorruptState = errors.New("corrupt task state")

	// ErrStoreClosed is returned by operations on a closed Store.
	ErrStoreClosed = errors.New("task store is closed")
)

// ValidateName checks if the name is valid.
func ValidateName(name string) error {
	if internalstrings.IsBlank(name) {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %d > %d", ErrNameTooLong, len(name), MaxNameLength)
	}
	return nil
}

// ValidateTask checks a stored task: it needs an ID and a non-blank name.
// MaxNameLength applies to names passed to Add and Update, not to tasks
// already saved.
func ValidateTask(t *Task) error {
	if internalstrings.IsBlank(t.Name) {
		return fmt.Errorf("task %q: %w", t.ID, ErrEmptyName)
	}
	if t.ID == "" {
		return ErrMissingID
	}
	return nil
}

// ValidateTasks checks every task and the uniqueness of their IDs.
func ValidateTasks(tasks []Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i := range tasks {
		if err := ValidateTask(&tasks[i]); err != nil {
			return err
		}
		if _, ok := seen[tasks[i].ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, tasks[i].ID)
		}
		seen[tasks[i].ID] = struct{}{}
	}
	return nil
}
