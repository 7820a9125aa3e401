package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/amonks/taskpad/internal/ui"
	"github.com/amonks/taskpad/task"
	"github.com/charmbracelet/log"
)

var (
	// ErrPermissionDenied means the platform refused to show the alert.
	ErrPermissionDenied = errors.New("notification permission denied")

	// ErrUnavailable means no alert mechanism is available.
	ErrUnavailable = errors.New("notifications unavailable")
)

// Notifier delivers a reminder for a task whose deadline is near.
type Notifier interface {
	Notify(ctx context.Context, t task.Task, remaining time.Duration) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, t task.Task, remaining time.Duration) error

// Notify calls fn.
func (fn NotifierFunc) Notify(ctx context.Context, t task.Task, remaining time.Duration) error {
	return fn(ctx, t, remaining)
}

// IsDeliveryFailure reports whether err is a failure that should degrade
// silently rather than be reported.
func IsDeliveryFailure(err error) bool {
	return errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrUnavailable)
}

// LogNotifier writes each reminder to a logger.
type LogNotifier struct {
	Logger *log.Logger
}

// Notify logs the reminder at info level.
func (n LogNotifier) Notify(ctx context.Context, t task.Task, remaining time.Duration) error {
	logger := n.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Info("task due soon",
		"id", t.ID,
		"name", t.Name,
		"deadline", ui.FormatDeadline(t.Deadline, nil),
		"remaining", ui.FormatDurationShort(remaining),
	)
	return nil
}

// Multi delivers each reminder to every notifier in order and joins their
// errors.
type Multi []Notifier

// Notify calls each notifier, even after a failure.
func (m Multi) Notify(ctx context.Context, t task.Task, remaining time.Duration) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, t, remaining); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
