package main

import (
	"fmt"
	"time"

	"github.com/amonks/taskpad/internal/ui"
	"github.com/amonks/taskpad/reminder"
	"github.com/amonks/taskpad/task"
	"github.com/amonks/taskpad/theme"
)

const detailLabelWidth = 10

type detailOptions struct {
	highlight func(string) string
	now       time.Time
	loc       *time.Location
	window    reminder.Window
	theme     theme.Theme
}

// printTaskDetail prints detailed information about a task.
func printTaskDetail(t task.Task, opts detailOptions) {
	fmt.Print(formatTaskDetail(t, opts))
}

func formatTaskDetail(t task.Task, opts detailOptions) string {
	highlight := opts.highlight
	if highlight == nil {
		highlight = func(id string) string { return id }
	}
	if opts.loc == nil {
		opts.loc = time.Local
	}

	name := hangingIndent(reflowParagraphs(t.Name, lineWidth-detailLabelWidth), detailLabelWidth)
	out := fmt.Sprintf("ID:       %s\n", highlight(t.ID))
	out += fmt.Sprintf("Name:     %s\n", name)
	if t.Deadline != nil {
		out += fmt.Sprintf("Deadline: %s (%s)\n", ui.FormatDeadline(t.Deadline, opts.loc), ui.FormatRemaining(t.Deadline, opts.now))
	} else {
		out += "Deadline: -\n"
	}
	out += fmt.Sprintf("Reminder: %s\n", reminder.StateOf(t, opts.now, opts.window))
	if !t.CreatedAt.IsZero() {
		out += fmt.Sprintf("Created:  %s\n", t.CreatedAt.In(opts.loc).Format("2006-01-02 15:04:05"))
	}
	if !t.UpdatedAt.IsZero() {
		out += fmt.Sprintf("Updated:  %s\n", t.UpdatedAt.In(opts.loc).Format("2006-01-02 15:04:05"))
	}
	if t.Note != "" {
		out += fmt.Sprintf("\nNote:\n%s\n", renderMarkdownOrDash(t.Note, lineWidth, opts.theme))
	}
	return out
}
