package main

import (
	"errors"
	"io"
	"sync"

	"github.com/amonks/taskpad/task"
	"github.com/charmbracelet/log"
)

// sharedStore reloads the persisted task list on every call, so that a
// long-running process sees tasks added by other tp invocations. Calls are
// serialized so that writes from this process never overwrite each other.
//
// An unreadable task list is reported once per distinct error rather than on
// every reload.
type sharedStore struct {
	mu        sync.Mutex
	persister task.Persister
	logger    *log.Logger
	corrupt   string
}

func newSharedStore(persister task.Persister, logger *log.Logger) *sharedStore {
	return &sharedStore{persister: persister, logger: logger}
}

func (s *sharedStore) with(fn func(*task.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := task.Open(task.OpenOptions{Persister: s.persister, Logger: s.logger, StrictLoad: true})
	switch {
	case errors.Is(err, task.ErrCorruptState):
		if err.Error() != s.corrupt {
			s.logger.Warn("discarding unreadable task list", "err", err)
			s.corrupt = err.Error()
		} else {
			s.logger.Debug("task list is still unreadable", "err", err)
		}
		store, err = task.Open(task.OpenOptions{Persister: s.persister, Logger: log.New(io.Discard)})
		if err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		s.corrupt = ""
	}
	defer store.Close()
	return fn(store)
}

func (s *sharedStore) Add(name string, opts task.AddOptions) (*task.Task, error) {
	var added *task.Task
	err := s.with(func(store *task.Store) error {
		var err error
		added, err = store.Add(name, opts)
		return err
	})
	return added, err
}

func (s *sharedStore) List(filter task.ListFilter) ([]task.Task, error) {
	var items []task.Task
	err := s.with(func(store *task.Store) error {
		var err error
		items, err = store.List(filter)
		return err
	})
	return items, err
}

func (s *sharedStore) MarkNotified(ids []string) ([]task.Task, error) {
	var changed []task.Task
	err := s.with(func(store *task.Store) error {
		var err error
		changed, err = store.MarkNotified(ids)
		return err
	})
	return changed, err
}
