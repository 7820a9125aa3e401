package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amonks/taskpad/task"
	"github.com/charmbracelet/log"
)

// Source is the task list the scheduler watches.
type Source interface {
	List(filter task.ListFilter) ([]task.Task, error)
	MarkNotified(ids []string) ([]task.Task, error)
}

// Options configures a Scheduler.
type Options struct {
	// Source supplies tasks and records notifications. Required.
	Source Source

	// Notifier delivers reminders. Required.
	Notifier Notifier

	// Window is the reminder band. Defaults to DefaultWindow().
	Window Window

	// Interval is the scan cadence. Defaults to DefaultInterval.
	Interval time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Scheduler periodically scans tasks and fires reminders.
type Scheduler struct {
	source   Source
	notifier Notifier
	window   Window
	interval time.Duration
	now      func() time.Time
	logger   *log.Logger

	// tickMu keeps ticks from overlapping.
	tickMu sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// ErrRunning is returned by Start when the scheduler is already running.
var ErrRunning = errors.New("reminder scheduler already running")

// New returns a scheduler. It does not start scanning until Run or Start.
func New(opts Options) (*Scheduler, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("reminder scheduler: source is required")
	}
	if opts.Notifier == nil {
		return nil, fmt.Errorf("reminder scheduler: notifier is required")
	}
	if opts.Window == (Window{}) {
		opts.Window = DefaultWindow()
	}
	if err := opts.Window.Validate(); err != nil {
		return nil, err
	}
	if opts.Interval == 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Interval < 0 {
		return nil, fmt.Errorf("reminder interval must be positive, got %s", opts.Interval)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Scheduler{
		source:   opts.Source,
		notifier: opts.Notifier,
		window:   opts.Window,
		interval: opts.Interval,
		now:      opts.Now,
		logger:   opts.Logger,
	}, nil
}

// Window returns the scheduler's reminder band.
func (s *Scheduler) Window() Window {
	return s.window
}

// Tick scans the task list once at now, notifies every approaching task, and
// persists their notified flags. It returns the tasks that were marked.
//
// Delivery failures do not stop a task from being marked; a reminder is
// attempted at most once.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) ([]task.Task, error) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tasks, err := s.source.List(task.ListFilter{Pending: true, Now: now})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	var attempted []string
	for _, t := range tasks {
		if StateOf(t, now, s.window) != Approaching {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		remaining, _ := t.Remaining(now)
		err := s.notifier.Notify(ctx, t, remaining)
		switch {
		case err == nil:
		case IsDeliveryFailure(err):
			s.logger.Debug("reminder not delivered", "id", t.ID, "err", err)
		default:
			s.logger.Warn("reminder failed", "id", t.ID, "err", err)
		}
		attempted = append(attempted, t.ID)
	}

	if len(attempted) == 0 {
		return nil, nil
	}
	marked, err := s.source.MarkNotified(attempted)
	if err != nil {
		return nil, fmt.Errorf("mark notified: %w", err)
	}
	return marked, nil
}

// Run ticks immediately and then every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Debug("reminder scheduler started",
		"interval", s.interval, "window_low", s.window.Low, "window_high", s.window.High)

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("reminder scheduler stopped")
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	fired, err := s.Tick(ctx, s.now())
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("reminder scan failed", "err", err)
		}
		return
	}
	if len(fired) > 0 {
		s.logger.Debug("reminders fired", "count", len(fired))
	}
}

// Start runs the scheduler in a new goroutine.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return ErrRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		_ = s.Run(runCtx)
	}()
	return nil
}

// Stop cancels a scheduler started with Start and waits for it to exit.
// No reminder fires after Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
