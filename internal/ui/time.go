package ui

import (
	"fmt"
	"time"
)

// DeadlineLayout is the layout used to display deadlines.
const DeadlineLayout = "Mon Jan 2 2006 15:04"

// FormatTimeAgo returns a compact age string like "2m ago".
func FormatTimeAgo(then time.Time, now time.Time) string {
	if then.IsZero() || now.Before(then) {
		return "-"
	}
	return FormatDurationShort(now.Sub(then)) + " ago"
}

// FormatDurationShort formats a duration using short units (s/m/h/d).
func FormatDurationShort(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}

	duration = duration.Truncate(time.Second)
	seconds := int64(duration.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd", days)
}

// FormatRemaining describes the time left until deadline, e.g. "in 4m" or
// "3h overdue". Deadlines at or before now are overdue.
func FormatRemaining(deadline *time.Time, now time.Time) string {
	if deadline == nil {
		return "-"
	}
	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return FormatDurationShort(-remaining) + " overdue"
	}
	return "in " + FormatDurationShort(remaining)
}

// FormatDeadline formats deadline in loc, or "-" when there is none.
func FormatDeadline(deadline *time.Time, loc *time.Location) string {
	if deadline == nil {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	return deadline.In(loc).Format(DeadlineLayout)
}
