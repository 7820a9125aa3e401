package main

import (
	"time"

	"github.com/amonks/taskpad/internal/ui"
	"github.com/amonks/taskpad/reminder"
	"github.com/amonks/taskpad/task"
)

func formatTaskTable(tasks []task.Task, prefixLengths map[string]int, highlight func(string, int) string, now time.Time, loc *time.Location, window reminder.Window) string {
	builder := ui.NewTableBuilder([]string{"ID", "DEADLINE", "DUE", "REMINDER", "NAME"}, len(tasks))

	if prefixLengths == nil {
		prefixLengths = task.PrefixLengths(tasks)
	}

	for _, t := range tasks {
		builder.AddRow([]string{
			highlight(t.ID, ui.PrefixLength(prefixLengths, t.ID)),
			ui.FormatDeadline(t.Deadline, loc),
			ui.FormatRemaining(t.Deadline, now),
			reminderLabel(t, now, window),
			ui.TruncateTableCell(t.Name),
		})
	}

	return builder.String()
}

func reminderLabel(t task.Task, now time.Time, window reminder.Window) string {
	switch reminder.StateOf(t, now, window) {
	case reminder.Notified:
		return "sent"
	case reminder.Approaching:
		return "due"
	default:
		return "-"
	}
}
