package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amonks/taskpad/internal/config"
	"github.com/amonks/taskpad/reminder"
	"github.com/amonks/taskpad/snapshot"
	"github.com/amonks/taskpad/theme"
	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Watch deadlines and print reminders",
	Long: `Watch deadlines and print a reminder for each task whose deadline is a
few minutes away. Runs until interrupted.

If reminder.command is set in taskpad.toml, it is also run for each reminder
with TASKPAD_TASK_ID, TASKPAD_TASK_NAME, TASKPAD_TASK_DEADLINE and
TASKPAD_TASK_REMAINING in its environment.`,
	Args: cobra.NoArgs,
	RunE: runRemind,
}

var remindOnce bool

func init() {
	rootCmd.AddCommand(remindCmd)
	remindCmd.Flags().BoolVar(&remindOnce, "once", false, "Scan once and exit")
}

func reminderWindow(cfg *config.Config) reminder.Window {
	if cfg == nil {
		return reminder.DefaultWindow()
	}
	return reminder.Window{Low: cfg.Reminder.WindowLow.Duration, High: cfg.Reminder.WindowHigh.Duration}
}

// newNotifier returns the notifiers configured for cfg, with primary first.
func newNotifier(cfg *config.Config, primary reminder.Notifier) reminder.Notifier {
	notifiers := reminder.Multi{primary}
	if cfg.Reminder.Command != "" {
		cwd, _ := os.Getwd()
		notifiers = append(notifiers, reminder.CommandNotifier{
			Script: cfg.Reminder.Command,
			Dir:    cwd,
			Stdout: os.Stderr,
			Stderr: os.Stderr,
		})
	}
	return notifiers
}

func newScheduler(cfg *config.Config, source reminder.Source, notifier reminder.Notifier) (*reminder.Scheduler, error) {
	return reminder.New(reminder.Options{
		Source:   source,
		Notifier: notifier,
		Window:   reminderWindow(cfg),
		Interval: cfg.Reminder.Interval.Duration,
		Logger:   logger,
	})
}

func runRemind(cmd *cobra.Command, args []string) error {
	cfg, blobs, err := openBlobs()
	if err != nil {
		return err
	}
	defer blobs.Close()

	th, err := theme.Load(blobs)
	if err != nil {
		logger.Warn("could not read theme", "err", err)
	}

	source := newSharedStore(snapshot.New(blobs), logger)
	scheduler, err := newScheduler(cfg, source, newNotifier(cfg, reminder.NewBannerNotifier(os.Stdout, th)))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if remindOnce {
		fired, err := scheduler.Tick(ctx, time.Now())
		if err != nil {
			return err
		}
		if len(fired) == 0 {
			fmt.Println("No reminders due.")
		}
		return nil
	}

	w := scheduler.Window()
	logger.Info("watching deadlines", "window", fmt.Sprintf("%s..%s", w.Low, w.High), "interval", cfg.Reminder.Interval.Duration)
	return scheduler.Run(ctx)
}
