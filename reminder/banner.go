package reminder

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/amonks/taskpad/internal/ui"
	"github.com/amonks/taskpad/task"
	"github.com/amonks/taskpad/theme"
	"github.com/charmbracelet/lipgloss"
)

// BannerNotifier prints a boxed alert to a terminal.
type BannerNotifier struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *lipgloss.Renderer
	theme    theme.Theme
}

// NewBannerNotifier returns a notifier writing banners to out in the given theme.
func NewBannerNotifier(out io.Writer, th theme.Theme) *BannerNotifier {
	return &BannerNotifier{
		out:      out,
		renderer: lipgloss.NewRenderer(out),
		theme:    th,
	}
}

// Notify writes the banner.
func (n *BannerNotifier) Notify(ctx context.Context, t task.Task, remaining time.Duration) error {
	if n.out == nil {
		return ErrUnavailable
	}
	banner := n.render(t, remaining)

	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := fmt.Fprintln(n.out, banner); err != nil {
		return fmt.Errorf("write banner: %w", err)
	}
	return nil
}

func (n *BannerNotifier) render(t task.Task, remaining time.Duration) string {
	accent := lipgloss.Color("#B45309")
	text := lipgloss.Color("#1F2937")
	if n.theme.IsDark() {
		accent = lipgloss.Color("#FBBF24")
		text = lipgloss.Color("#F9FAFB")
	}

	title := n.renderer.NewStyle().Bold(true).Foreground(accent).Render("Reminder")
	name := n.renderer.NewStyle().Bold(true).Foreground(text).Render(t.Name)
	detail := n.renderer.NewStyle().Foreground(text).Render(
		fmt.Sprintf("due in %s at %s", ui.FormatDurationShort(remaining), ui.FormatDeadline(t.Deadline, nil)),
	)

	return n.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, name, detail))
}
