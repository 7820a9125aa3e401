package task

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/amonks/taskpad/internal/ids"
	"github.com/charmbracelet/log"
)

// Persister loads and saves the full task list.
//
// Load returns an empty list when nothing has been saved yet, and an error
// wrapping ErrCorruptState when the saved data cannot be decoded.
type Persister interface {
	Load() ([]Task, error)
	Save(tasks []Task) error
}

// Store provides serialized access to the task list.
// It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	tasks     []Task
	persister Persister
	now       func() time.Time
	logger    *log.Logger
	closed    bool

	// issued holds every lowercased ID loaded or generated by this store,
	// including IDs of tasks removed since, so that none is handed out twice.
	issued map[string]struct{}
}

// OpenOptions configures how the store is opened.
type OpenOptions struct {
	// Persister stores the task list. Required.
	Persister Persister

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Logger receives load warnings. Defaults to log.Default().
	Logger *log.Logger

	// StrictLoad returns corrupt persisted state as an error instead of
	// logging it and starting with an empty list.
	StrictLoad bool
}

// Open loads the persisted task list and returns a Store serving it.
func Open(opts OpenOptions) (*Store, error) {
	if opts.Persister == nil {
		return nil, fmt.Errorf("open task store: persister is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	tasks, err := opts.Persister.Load()
	if err != nil {
		if opts.StrictLoad || !errors.Is(err, ErrCorruptState) {
			return nil, fmt.Errorf("load tasks: %w", err)
		}
		opts.Logger.Warn("discarding unreadable task list", "err", err)
		tasks = nil
	}

	tasks, problems := repairTasks(tasks)
	for _, problem := range problems {
		opts.Logger.Warn("repaired stored task", "err", problem)
	}

	issued := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		issued[strings.ToLower(t.ID)] = struct{}{}
	}

	return &Store{
		tasks:     tasks,
		persister: opts.Persister,
		now:       opts.Now,
		logger:    opts.Logger,
		issued:    issued,
	}, nil
}

// repairTasks returns a copy of a decoded list that is safe to serve.
// Tasks with a blank name are dropped, and tasks with a missing or duplicate
// ID get a fresh one. Every other task is kept as it was stored.
func repairTasks(tasks []Task) ([]Task, []error) {
	if tasks == nil {
		return nil, nil
	}

	var problems []error
	out := make([]Task, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	taken := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		taken[strings.ToLower(t.ID)] = true
	}

	for i, t := range tasks {
		err := ValidateTask(&t)
		if err == nil && seen[t.ID] {
			err = fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
		}
		switch {
		case errors.Is(err, ErrEmptyName):
			problems = append(problems, fmt.Errorf("dropped: %w", err))
			continue
		case err != nil:
			stamp := t.CreatedAt
			if stamp.IsZero() {
				stamp = time.Unix(0, int64(i))
			}
			t.ID = ids.GenerateUnique(t.Name, stamp, ids.DefaultLength, func(id string) bool {
				return taken[id]
			})
			taken[t.ID] = true
			problems = append(problems, fmt.Errorf("assigned id %s: %w", t.ID, err))
		}
		seen[t.ID] = true
		out = append(out, t.Clone())
	}
	return out, problems
}

// Close releases the store. The persister is closed if it implements io.Closer.
// Further calls on the store return ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if closer, ok := s.persister.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now().Round(0)
}

// commit persists next and, only once that succeeds, makes it the current
// list. Callers must hold s.mu.
func (s *Store) commit(next []Task) error {
	if err := s.persister.Save(cloneTasks(next)); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	s.tasks = next
	return nil
}

func (s *Store) checkOpen() error {
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// newID returns an ID for a task created now that this store has never
// issued or loaded. Callers must hold s.mu.
func (s *Store) newID(name string, now time.Time) string {
	return ids.GenerateUnique(name, now, ids.DefaultLength, func(id string) bool {
		_, ok := s.issued[id]
		return ok
	})
}

// indexOf returns the index of the task whose ID is exactly id.
// Callers must hold s.mu.
func (s *Store) indexOf(id string) (int, error) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// resolveIndex is indexOf for an ID or a unique ID prefix.
// Callers must hold s.mu.
func (s *Store) resolveIndex(id string) (int, error) {
	resolved, err := ResolveID(s.tasks, id)
	if err != nil {
		return -1, err
	}
	return s.indexOf(resolved)
}
