// Package calendar lays tasks out on a month grid.
package calendar

import (
	"time"

	"github.com/amonks/taskpad/task"
)

// Day is one cell of the month grid.
type Day struct {
	// Date is midnight of the day in the grid's location.
	Date time.Time

	// InMonth is false for leading and trailing days from adjacent months.
	InMonth bool

	// Tasks are the tasks due on this day, earliest first.
	Tasks []task.Task
}

// Week is seven consecutive days starting on the grid's week start.
type Week [7]Day

// Month is a calendar month with its tasks placed on days.
type Month struct {
	Year      int
	Month     time.Month
	Location  *time.Location
	WeekStart time.Weekday
	Weeks     []Week

	// Undated holds tasks without a deadline.
	Undated []task.Task
}

// Build returns the grid for year/month in loc, with weeks starting on
// weekStart. Tasks due on a day covered by the grid are placed on that day;
// other dated tasks are left out.
func Build(year int, month time.Month, tasks []task.Task, loc *time.Location, weekStart time.Weekday) Month {
	if loc == nil {
		loc = time.Local
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	weekCount := (offset + daysInMonth + 6) / 7

	m := Month{
		Year:      first.Year(),
		Month:     first.Month(),
		Location:  loc,
		WeekStart: weekStart,
		Weeks:     make([]Week, weekCount),
	}

	type cell struct{ week, day int }
	index := make(map[string]cell, weekCount*7)
	for w := range m.Weeks {
		for d := range 7 {
			date := time.Date(first.Year(), first.Month(), 1-offset+w*7+d, 0, 0, 0, 0, loc)
			m.Weeks[w][d] = Day{Date: date, InMonth: date.Month() == first.Month()}
			index[dateKey(date)] = cell{week: w, day: d}
		}
	}

	sorted := append([]task.Task(nil), tasks...)
	task.SortByDeadline(sorted)
	for _, t := range sorted {
		if t.Deadline == nil {
			m.Undated = append(m.Undated, t.Clone())
			continue
		}
		c, ok := index[dateKey(t.Deadline.In(loc))]
		if !ok {
			continue
		}
		day := &m.Weeks[c.week][c.day]
		day.Tasks = append(day.Tasks, t.Clone())
	}

	return m
}

// Days returns the in-month days in order.
func (m Month) Days() []Day {
	days := make([]Day, 0, 31)
	for _, week := range m.Weeks {
		for _, day := range week {
			if day.InMonth {
				days = append(days, day)
			}
		}
	}
	return days
}

// Title returns e.g. "March 2026".
func (m Month) Title() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// Prev returns the year and month before m.
func (m Month) Prev() (int, time.Month) {
	t := time.Date(m.Year, m.Month-1, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// Next returns the year and month after m.
func (m Month) Next() (int, time.Month) {
	t := time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return dateKey(a.In(loc)) == dateKey(b.In(loc))
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
