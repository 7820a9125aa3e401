package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amonks/taskpad/calendar"
	"github.com/amonks/taskpad/internal/validation"
	"github.com/amonks/taskpad/task"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Show tasks on a month calendar",
	Args:    cobra.NoArgs,
	RunE:    runCalendar,
}

var weekStarts = []string{"sunday", "monday"}

var errInvalidWeekStart = errors.New("invalid week start")

var (
	calendarMonth     string
	calendarWeekStart string
)

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month to show as YYYY-MM (default: current month)")
	calendarCmd.Flags().StringVar(&calendarWeekStart, "week-start", "sunday", "First day of the week (sunday, monday)")
}

func parseMonth(value string, now time.Time) (int, time.Month, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now.Year(), now.Month(), nil
	}
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: want YYYY-MM", value)
	}
	return parsed.Year(), parsed.Month(), nil
}

func parseWeekStart(value string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	default:
		return 0, validation.FormatInvalidValueError(errInvalidWeekStart, value, weekStarts)
	}
}

func runCalendar(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	now := a.store.Now()
	year, month, err := parseMonth(calendarMonth, now.In(a.loc))
	if err != nil {
		return err
	}
	weekStart, err := parseWeekStart(calendarWeekStart)
	if err != nil {
		return err
	}

	items, err := a.store.List(task.ListFilter{})
	if err != nil {
		return err
	}

	m := calendar.Build(year, month, items, a.loc, weekStart)
	fmt.Print(calendar.Render(m, calendar.Options{
		Theme:    a.theme(),
		Now:      now,
		Renderer: lipgloss.NewRenderer(os.Stdout),
	}))
	return nil
}
