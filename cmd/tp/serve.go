package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/amonks/taskpad/api"
	"github.com/amonks/taskpad/reminder"
	"github.com/amonks/taskpad/snapshot"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the reminder scheduler",
	Long: `Run the HTTP API and the reminder scheduler until interrupted.

Endpoints:
  GET  /tasks     sample to-do items
  POST /validate  validate a to-do item against the task schema
  POST /robot     add or list tasks (bearer token when server.jwt-secret is set)
  GET  /health    liveness check`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr     string
	serveNoRemind bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address or port (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveNoRemind, "no-remind", false, "Do not run the reminder scheduler")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, blobs, err := openBlobs()
	if err != nil {
		return err
	}
	defer blobs.Close()

	addr, err := cfg.ResolveAddr(serveAddr)
	if err != nil {
		return err
	}

	store := newSharedStore(snapshot.New(blobs), logger)
	server, err := api.New(api.Options{
		Store:          store,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      []byte(cfg.Server.JWTSecret),
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !serveNoRemind {
		scheduler, err := newScheduler(cfg, store, newNotifier(cfg, reminder.LogNotifier{Logger: logger}))
		if err != nil {
			return err
		}
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	return server.Serve(ctx, addr)
}
