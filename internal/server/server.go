// Package server assembles the students API behind the veil boundary.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"
	"github.com/zoobzio/veil"
	"github.com/zoobzio/veil/bson"
	"github.com/zoobzio/veil/config"
	"github.com/zoobzio/veil/internal/student"
	"github.com/zoobzio/veil/json"
	"github.com/zoobzio/veil/msgpack"
	"github.com/zoobzio/veil/router"
	"github.com/zoobzio/veil/xml"
	"github.com/zoobzio/veil/yaml"
)

const shutdownTimeout = 10 * time.Second

// Options configures New.
type Options struct {
	Config *config.File
	Logger hclog.Logger
	Seed   bool // load sample students at startup
}

// Server is the HTTP students API.
type Server struct {
	cfg     *config.File
	logger  hclog.Logger
	handler http.Handler
	store   *student.Store
	metrics *Metrics
}

// New builds the obfuscator, opens storage and wires every route.
func New(ctx context.Context, opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("server: config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	obf, err := veil.NewObfuscator(opts.Config.Hashids)
	if err != nil {
		return nil, fmt.Errorf("build obfuscator: %w", err)
	}

	store, err := student.OpenStore(student.StoreConfig{
		Path:     opts.Config.Storage.Path,
		InMemory: opts.Config.Storage.InMemory,
	}, logger.Named("store"))
	if err != nil {
		return nil, err
	}

	svc := student.NewService(store)
	if opts.Seed {
		seeded, err := svc.Seed(ctx, student.SampleStudents()...)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed students: %w", err)
		}
		logger.Info("seeded students", "count", len(seeded))
	}

	api := router.New(veil.NewInterceptor(obf),
		json.New(), yaml.New(), xml.New(), msgpack.New(), bson.New())
	if err := student.NewHandler(svc).Register(api); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("register routes: %w", err)
	}

	metrics := NewMetrics()

	root := chi.NewRouter()
	root.Use(middleware.Recoverer)
	root.Use(requestID)
	root.Use(observe(logger.Named("http"), metrics))
	root.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	root.Method(http.MethodGet, "/metrics", metrics.Handler())
	root.Mount("/", api)

	return &Server{
		cfg:     opts.Config,
		logger:  logger,
		handler: root,
		store:   store,
		metrics: metrics,
	}, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          s.logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases storage.
func (s *Server) Close() error {
	return s.store.Close()
}
