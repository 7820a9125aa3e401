package task

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

var errSaveFailed = errors.New("disk full")

type memPersister struct {
	tasks   []Task
	loadErr error
	saveErr error
	saves   int
	closed  bool
}

func (p *memPersister) Load() ([]Task, error) {
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return cloneTasks(p.tasks), nil
}

func (p *memPersister) Save(tasks []Task) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.saves++
	p.tasks = cloneTasks(tasks)
	return nil
}

func (p *memPersister) Close() error {
	p.closed = true
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func openTestStore(t *testing.T, p *memPersister, clock *fakeClock) *Store {
	t.Helper()

	store, err := Open(OpenOptions{
		Persister: p,
		Now:       clock.Now,
		Logger:    log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
