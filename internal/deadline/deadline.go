// Package deadline parses the deadline formats accepted on the command line
// and in the task editor.
package deadline

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the editable form of a deadline.
const Layout = "2006-01-02 15:04"

const dateLayout = "2006-01-02"

// Parse reads a deadline. Accepted forms:
//
//	2026-03-14T15:00:00Z   RFC 3339
//	2026-03-14 15:00       local wall time in loc
//	2026-03-14             end of that day (23:59) in loc
//	+90m, +2h, +1h30m      relative to now
//
// A blank input returns nil.
func Parse(input string, now time.Time, loc *time.Location) (*time.Time, error) {
	value := strings.TrimSpace(input)
	if value == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}

	if rest, ok := strings.CutPrefix(value, "+"); ok {
		d, err := time.ParseDuration(rest)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid relative deadline %q: want e.g. +90m", input)
		}
		t := now.Add(d).Round(0)
		return &t, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation(Layout, value, loc); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		t = t.Add(23*time.Hour + 59*time.Minute)
		return &t, nil
	}
	return nil, fmt.Errorf("invalid deadline %q: want RFC 3339, %q, %q or +duration", input, Layout, dateLayout)
}

// Format renders t in the editable layout, or "" for nil.
func Format(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(Layout)
}
