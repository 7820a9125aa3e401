package main

import (
	"time"

	"github.com/amonks/taskpad/internal/deadline"
)

// deadlineValue is a pflag.Value accepting any form deadline.Parse does.
// An empty string is a valid value meaning "no deadline".
type deadlineValue struct {
	raw   string
	value *time.Time
	now   func() time.Time
	loc   *time.Location
}

func newDeadlineValue() *deadlineValue {
	return &deadlineValue{now: time.Now, loc: time.Local}
}

func (d *deadlineValue) String() string {
	return d.raw
}

func (d *deadlineValue) Set(s string) error {
	parsed, err := deadline.Parse(s, d.now(), d.loc)
	if err != nil {
		return err
	}
	d.raw = s
	d.value = parsed
	return nil
}

func (d *deadlineValue) Type() string {
	return "deadline"
}

// Time returns the parsed deadline, or nil when unset or blank.
func (d *deadlineValue) Time() *time.Time {
	if d.value == nil {
		return nil
	}
	t := *d.value
	return &t
}
