package task

import (
	"fmt"
	"sort"
	"strings"
	"time"

	internalstrings "github.com/amonks/taskpad/internal/strings"
)

// AddOptions configures a new task.
type AddOptions struct {
	// Deadline is when the task is due. Nil means no deadline.
	Deadline *time.Time

	// Note provides additional context.
	Note string
}

// Add creates a new task with the given name and persists it.
func (s *Store) Add(name string, opts AddOptions) (*Task, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	now := s.Now()
	name = strings.TrimSpace(name)
	created := Task{
		ID:        s.newID(name, now),
		Name:      name,
		Note:      internalstrings.TrimTrailingWhitespace(internalstrings.NormalizeNewlines(opts.Note)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if opts.Deadline != nil {
		created.Deadline = TimePtr(opts.Deadline.Round(0))
	}

	next := append(cloneTasks(s.tasks), created)
	if err := s.commit(next); err != nil {
		return nil, err
	}
	s.issued[strings.ToLower(created.ID)] = struct{}{}

	out := created.Clone()
	return &out, nil
}

// UpdateOptions specifies which fields to update.
// Nil pointer fields are not changed.
type UpdateOptions struct {
	Name     *string
	Deadline *time.Time
	Note     *string

	// ClearDeadline removes the deadline. It conflicts with Deadline.
	ClearDeadline bool
}

// Update modifies the task with exactly the given ID. Use Find to resolve
// a prefix first. Any update clears the task's notified flag so a new deadline can fire again.
func (s *Store) Update(id string, opts UpdateOptions) (*Task, error) {
	if opts.Name != nil {
		if err := ValidateName(*opts.Name); err != nil {
			return nil, err
		}
	}
	if opts.Deadline != nil && opts.ClearDeadline {
		return nil, ErrConflictingDeadline
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	idx, err := s.indexOf(id)
	if err != nil {
		return nil, err
	}

	next := cloneTasks(s.tasks)
	updated := &next[idx]
	if opts.Name != nil {
		updated.Name = strings.TrimSpace(*opts.Name)
	}
	if opts.Deadline != nil {
		updated.Deadline = TimePtr(opts.Deadline.Round(0))
	}
	if opts.ClearDeadline {
		updated.Deadline = nil
	}
	if opts.Note != nil {
		updated.Note = internalstrings.TrimTrailingWhitespace(internalstrings.NormalizeNewlines(*opts.Note))
	}
	updated.Notified = false
	updated.UpdatedAt = s.Now()

	if err := s.commit(next); err != nil {
		return nil, err
	}

	out := updated.Clone()
	return &out, nil
}

// Remove deletes the task with exactly the given ID. Use Find to resolve
// a prefix first.
func (s *Store) Remove(id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	idx, err := s.indexOf(id)
	if err != nil {
		return nil, err
	}

	removed := s.tasks[idx].Clone()
	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, cloneTasks(s.tasks[:idx])...)
	next = append(next, cloneTasks(s.tasks[idx+1:])...)
	if err := s.commit(next); err != nil {
		return nil, err
	}
	return &removed, nil
}

// Find returns the task with the given ID (or unique ID prefix).
func (s *Store) Find(id string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	idx, err := s.resolveIndex(id)
	if err != nil {
		return nil, err
	}
	out := s.tasks[idx].Clone()
	return &out, nil
}

// MarkNotified sets the notified flag on the tasks with the given exact IDs
// and returns the tasks that changed. IDs that no longer exist are skipped.
func (s *Store) MarkNotified(ids []string) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	next := cloneTasks(s.tasks)
	var changed []Task
	for i := range next {
		if _, ok := want[next[i].ID]; !ok || next[i].Notified {
			continue
		}
		next[i].Notified = true
		changed = append(changed, next[i].Clone())
	}
	if len(changed) == 0 {
		return nil, nil
	}

	if err := s.commit(next); err != nil {
		return nil, err
	}
	return changed, nil
}

// ListFilter configures which tasks to return.
type ListFilter struct {
	// Overdue keeps only tasks whose deadline has passed.
	Overdue bool

	// Pending keeps only tasks that have a deadline still in the future.
	Pending bool

	// From and To keep only tasks with a deadline in [From, To).
	// Zero values leave that side unbounded.
	From time.Time
	To   time.Time

	// Query keeps tasks whose name or note contains it, case-insensitively.
	Query string

	// Now overrides the store clock for Overdue and Pending.
	Now time.Time
}

// List returns a copy of the tasks matching filter, in insertion order.
func (s *Store) List(filter ListFilter) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	if filter.Overdue && filter.Pending {
		return nil, fmt.Errorf("%w: overdue and pending filters are exclusive", ErrInvalid)
	}

	now := filter.Now
	if now.IsZero() {
		now = s.Now()
	}
	query := strings.TrimSpace(filter.Query)

	result := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.Overdue && !t.Overdue(now) {
			continue
		}
		if filter.Pending && (t.Deadline == nil || t.Overdue(now)) {
			continue
		}
		if !filter.From.IsZero() || !filter.To.IsZero() {
			if t.Deadline == nil {
				continue
			}
			if !filter.From.IsZero() && t.Deadline.Before(filter.From) {
				continue
			}
			if !filter.To.IsZero() && !t.Deadline.Before(filter.To) {
				continue
			}
		}
		if query != "" && !internalstrings.ContainsFold(t.Name, query) && !internalstrings.ContainsFold(t.Note, query) {
			continue
		}
		result = append(result, t.Clone())
	}
	return result, nil
}

// SortByDeadline orders tasks by deadline, earliest first. Tasks without a
// deadline sort last; ties keep their relative order.
func SortByDeadline(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].Deadline, tasks[j].Deadline
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}
