// Package reminder fires a one-shot alert for each task shortly before its
// deadline.
//
// A Scheduler scans the task list on a fixed interval. A task whose time
// remaining falls inside the reminder Window and that has not been notified
// yet gets exactly one Notify call, after which its notified flag is
// persisted. Editing a task clears the flag, so a moved deadline can fire
// again. Windows missed while the scheduler was not running are not retried.
package reminder

import (
	"fmt"
	"time"

	"github.com/amonks/taskpad/task"
)

// Defaults for the reminder band and scan cadence.
const (
	DefaultWindowLow  = 4 * time.Minute
	DefaultWindowHigh = 5 * time.Minute
	DefaultInterval   = time.Minute
)

// Window is the band of remaining time, (Low, High], in which a reminder fires.
type Window struct {
	Low  time.Duration
	High time.Duration
}

// DefaultWindow returns the 4-5 minute reminder band.
func DefaultWindow() Window {
	return Window{Low: DefaultWindowLow, High: DefaultWindowHigh}
}

// Validate checks 0 <= Low < High.
func (w Window) Validate() error {
	if w.Low < 0 || w.High <= w.Low {
		return fmt.Errorf("invalid reminder window %s..%s", w.Low, w.High)
	}
	return nil
}

// Contains reports whether remaining falls inside the band. Non-positive
// remaining time never matches.
func (w Window) Contains(remaining time.Duration) bool {
	return remaining > 0 && remaining > w.Low && remaining <= w.High
}

// State is a task's position in the reminder lifecycle.
type State int

const (
	// NotDue tasks have no deadline, a deadline outside the band, or a
	// deadline that has already passed.
	NotDue State = iota
	// Approaching tasks are inside the band and have not been notified.
	Approaching
	// Notified tasks have already had their reminder.
	Notified
)

func (s State) String() string {
	switch s {
	case NotDue:
		return "not-due"
	case Approaching:
		return "approaching"
	case Notified:
		return "notified"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// StateOf returns t's reminder state at now.
func StateOf(t task.Task, now time.Time, w Window) State {
	if t.Notified {
		return Notified
	}
	remaining, ok := t.Remaining(now)
	if !ok || !w.Contains(remaining) {
		return NotDue
	}
	return Approaching
}
