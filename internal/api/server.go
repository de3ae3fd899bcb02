// Package api serves the converter over HTTP: synchronous conversions,
// asynchronous jobs with websocket progress, health and Prometheus
// metrics.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/FocuswithJustin/idml2docbook/core/hubxml"
	"github.com/FocuswithJustin/idml2docbook/internal/cache"
	"github.com/FocuswithJustin/idml2docbook/internal/logging"
	"github.com/FocuswithJustin/idml2docbook/internal/validation"
)

const shutdownTimeout = 30 * time.Second

// Server is the REST API server.
type Server struct {
	cfg     Config
	jobs    *JobStore
	hub     *Hub
	metrics *Metrics
	runner  *hubxml.Runner // nil when IDML input is not supported
	results *cache.TTLCache[string, ConvertResult]
	started time.Time

	base context.Context // parent of every job
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// New creates a server. runner may be nil, in which case only HubXML
// requests are accepted.
func New(cfg Config, runner *hubxml.Runner) (*Server, error) {
	if err := ValidateAuthConfig(cfg.Auth); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = validation.MaxFileSize
	}
	if cfg.ResultTTL == 0 {
		cfg.ResultTTL = DefaultResultTTL
	}
	if cfg.ResultSize <= 0 {
		cfg.ResultSize = DefaultResultSize
	}

	base, stop := context.WithCancel(context.Background())
	s := &Server{
		cfg:     cfg,
		jobs:    NewJobStore(),
		hub:     NewHub(),
		metrics: NewMetrics(),
		runner:  runner,
		started: time.Now(),
		base:    base,
		stop:    stop,
	}
	if cfg.ResultTTL > 0 {
		s.results = cache.New[string, ConvertResult](cfg.ResultTTL, cfg.ResultSize)
	}
	s.hub.onCount = func(n int) { s.metrics.wsClients.Set(float64(n)) }
	return s, nil
}

func (s *Server) maxUpload() int64 {
	// base64 inflates IDML uploads by a third
	return s.cfg.MaxUploadSize/3*4 + 4096
}

// Handler returns the routed handler with its middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/convert", s.handleConvert)
	mux.HandleFunc("/jobs", s.handleJobs)
	mux.HandleFunc("/jobs/{id}", s.handleJobByID)
	mux.HandleFunc("/ws", websocketHandler(s.hub, s.cfg.AllowedOrigins))

	var handler http.Handler = securityHeaders(mux)
	handler = AuthMiddleware(s.cfg.Auth, handler)
	handler = corsMiddleware(s.cfg.AllowedOrigins, handler)
	handler = logging.ObservedMiddleware(s.metrics.ObserveRequest)(handler)
	return logging.RequestIDMiddleware(handler)
}

// Serve runs the hub and serves on l until ctx is done, then shuts down
// gracefully and cancels unfinished jobs.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	go s.hub.Run()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-errc:
	}

	logging.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil && err == nil {
		err = serr
	}
	s.Close()
	return err
}

// ListenAndServe listens on the configured port and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return err
	}
	if s.cfg.Auth.Enabled {
		logging.Info("authentication enabled", "note", "API key required")
	} else {
		logging.Warn("authentication disabled", "note", "all requests allowed")
	}
	logging.ServerStartup("rest_api", "http", s.cfg.Port,
		"websocket_protocol", "ws",
		"idml", s.runner != nil,
		"allowed_origins", len(s.cfg.AllowedOrigins))
	return s.Serve(ctx, l)
}

// Close cancels running jobs, waits for them and stops the hub.
func (s *Server) Close() {
	s.jobs.CancelAll()
	s.stop()
	s.wg.Wait()
	s.hub.Stop()
}
