package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/taskpad/internal/ui"
	"github.com/amonks/taskpad/theme"
	"github.com/charmbracelet/lipgloss"
)

const minCellWidth = 5

// Options configures Render.
type Options struct {
	Theme theme.Theme

	// Now marks today and overdue tasks. Defaults to time.Now().
	Now time.Time

	// Width is the total grid width. Defaults to 7 cells of minCellWidth.
	Width int

	// Renderer defaults to lipgloss.DefaultRenderer().
	Renderer *lipgloss.Renderer
}

type palette struct {
	title, weekday, day, outside, today, busy, overdue lipgloss.Style
}

func newPalette(r *lipgloss.Renderer, th theme.Theme) palette {
	text, muted, accent, alert := lipgloss.Color("#1F2937"), lipgloss.Color("#9CA3AF"), lipgloss.Color("#2563EB"), lipgloss.Color("#DC2626")
	if th.IsDark() {
		text, muted, accent, alert = lipgloss.Color("#F3F4F6"), lipgloss.Color("#6B7280"), lipgloss.Color("#60A5FA"), lipgloss.Color("#F87171")
	}
	return palette{
		title:   r.NewStyle().Bold(true).Foreground(text),
		weekday: r.NewStyle().Foreground(muted),
		day:     r.NewStyle().Foreground(text),
		outside: r.NewStyle().Foreground(muted).Faint(true),
		today:   r.NewStyle().Bold(true).Reverse(true),
		busy:    r.NewStyle().Bold(true).Foreground(accent),
		overdue: r.NewStyle().Bold(true).Foreground(alert),
	}
}

// Render draws m as a month grid followed by an agenda of its tasks.
func Render(m Month, opts Options) string {
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	loc := m.Location
	if loc == nil {
		loc = time.Local
	}
	cellWidth := opts.Width / 7
	if cellWidth < minCellWidth {
		cellWidth = minCellWidth
	}
	p := newPalette(opts.Renderer, opts.Theme)

	var b strings.Builder
	b.WriteString(p.title.Width(cellWidth * 7).Align(lipgloss.Center).Render(m.Title()))
	b.WriteByte('\n')

	headers := make([]string, 7)
	for i := range headers {
		name := time.Weekday((int(m.WeekStart) + i) % 7).String()[:2]
		headers[i] = p.weekday.Width(cellWidth).Align(lipgloss.Center).Render(name)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, headers...))
	b.WriteByte('\n')

	for _, week := range m.Weeks {
		cells := make([]string, 7)
		for i, day := range week {
			cells[i] = renderDay(day, p, cellWidth, opts.Now, loc)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteByte('\n')
	}

	if agenda := renderAgenda(m, p, opts.Now, loc); agenda != "" {
		b.WriteByte('\n')
		b.WriteString(agenda)
	}
	return b.String()
}

func renderDay(day Day, p palette, width int, now time.Time, loc *time.Location) string {
	label := fmt.Sprintf("%d", day.Date.Day())
	if n := len(day.Tasks); n > 0 {
		label = fmt.Sprintf("%d•%d", day.Date.Day(), n)
	}

	style := p.day
	switch {
	case !day.InMonth:
		style = p.outside
	case hasOverdue(day, now):
		style = p.overdue
	case len(day.Tasks) > 0:
		style = p.busy
	}
	if SameDay(day.Date, now, loc) {
		style = style.Inherit(p.today)
	}
	return style.Width(width).Align(lipgloss.Center).Render(label)
}

func hasOverdue(day Day, now time.Time) bool {
	for _, t := range day.Tasks {
		if t.Overdue(now) {
			return true
		}
	}
	return false
}

func renderAgenda(m Month, p palette, now time.Time, loc *time.Location) string {
	var lines []string
	for _, day := range m.Days() {
		for _, t := range day.Tasks {
			when := t.Deadline.In(loc).Format("Jan 2 15:04")
			status := ui.FormatRemaining(t.Deadline, now)
			style := p.day
			if t.Overdue(now) {
				style = p.overdue
			}
			lines = append(lines, fmt.Sprintf("%s  %s  %s",
				p.busy.Render(when),
				style.Render(t.Name),
				p.weekday.Render("("+status+")"),
			))
		}
	}
	if len(m.Undated) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, p.title.Render("No deadline"))
		for _, t := range m.Undated {
			lines = append(lines, "  "+p.day.Render(t.Name))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
