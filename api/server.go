// Package api serves taskpad's HTTP endpoints.
//
//	GET  /tasks     fixed sample data
//	POST /validate  check a to-do object against the task schema
//	GET  /robot     list the live task list
//	POST /robot     run a robot command ("add task", "list tasks")
//	GET  /health    liveness probe
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/amonks/taskpad/task"
	"github.com/charmbracelet/log"
	"github.com/rs/cors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// TaskStore is the subset of *task.Store the robot endpoint needs.
type TaskStore interface {
	Add(name string, opts task.AddOptions) (*task.Task, error)
	List(filter task.ListFilter) ([]task.Task, error)
}

// Options configures a Server.
type Options struct {
	// Store backs the robot endpoint. Required.
	Store TaskStore

	// AllowedOrigins for CORS. Defaults to "*".
	AllowedOrigins []string

	// JWTSecret, when set, requires a bearer token on /robot.
	JWTSecret []byte

	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Server handles taskpad HTTP requests.
type Server struct {
	store          TaskStore
	schema         *jsonschema.Schema
	allowedOrigins []string
	jwtSecret      []byte
	logger         *log.Logger
}

// New creates a server.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("api server: store is required")
	}
	schema, err := compileTaskSchema()
	if err != nil {
		return nil, err
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Server{
		store:          opts.Store,
		schema:         schema,
		allowedOrigins: origins,
		jwtSecret:      opts.JWTSecret,
		logger:         logger,
	}, nil
}

// Handler returns the HTTP handler for all endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", s.handleTasks)
	mux.HandleFunc("/validate", s.handleValidate)
	mux.Handle("/robot", s.requireAuth(http.HandlerFunc(s.handleRobot)))
	mux.HandleFunc("/health", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return s.recoverHandler(s.logRequests(c.Handler(mux)))
}

// Serve listens on addr and serves until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is done.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.Serve(ln)
	}()
	s.logger.Info("serving", "addr", "http://"+ln.Addr().String())

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", "err", err)
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		shutdownErr := server.Shutdown(shutdownCtx)
		cancel()
		listenErr := <-listenErrs
		if errors.Is(listenErr, http.ErrServerClosed) {
			listenErr = nil
		}
		return errors.Join(shutdownErr, listenErr)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}
