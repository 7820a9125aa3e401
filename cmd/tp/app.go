package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amonks/taskpad/internal/blob"
	"github.com/amonks/taskpad/internal/config"
	"github.com/amonks/taskpad/internal/paths"
	"github.com/amonks/taskpad/snapshot"
	"github.com/amonks/taskpad/task"
	"github.com/amonks/taskpad/theme"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app bundles the state most commands need.
type app struct {
	cfg    *config.Config
	blobs  blob.Store
	store  *task.Store
	logger *log.Logger
	loc    *time.Location
}

var logger = log.Default()

func setupLogger(cmd *cobra.Command, args []string) error {
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "tp"})
	if level := strings.TrimSpace(rootLogLevel); level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q", level)
		}
		logger.SetLevel(parsed)
	}
	log.SetDefault(logger)
	return nil
}

func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rootStateDir) != "" {
		dir, err := paths.ExpandHome(strings.TrimSpace(rootStateDir))
		if err != nil {
			return nil, err
		}
		cfg.Storage.Driver = "file"
		cfg.Storage.Dir = dir
	}
	if strings.TrimSpace(rootLogLevel) == "" {
		if parsed, err := log.ParseLevel(cfg.Log.Level); err == nil {
			logger.SetLevel(parsed)
		} else {
			logger.Warn("ignoring unknown log level", "level", cfg.Log.Level)
		}
	}
	return cfg, nil
}

// openBlobs loads configuration and opens the configured blob store.
func openBlobs() (*config.Config, blob.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	blobs, err := blob.Open(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	return cfg, blobs, nil
}

// openApp opens the task store on top of the configured blob store.
func openApp() (*app, error) {
	cfg, blobs, err := openBlobs()
	if err != nil {
		return nil, err
	}

	store, err := task.Open(task.OpenOptions{
		Persister: snapshot.New(blobs),
		Logger:    logger,
	})
	if err != nil {
		blobs.Close()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		blobs:  blobs,
		store:  store,
		logger: logger,
		loc:    time.Local,
	}, nil
}

// Close releases the store and the blob store.
func (a *app) Close() error {
	return errors.Join(a.store.Close(), a.blobs.Close())
}

// theme returns the persisted theme, falling back to light on read errors.
func (a *app) theme() theme.Theme {
	th, err := theme.Load(a.blobs)
	if err != nil {
		a.logger.Warn("could not read theme", "err", err)
		return theme.Light
	}
	return th
}
