// Package server exposes the poster pipeline over HTTP.
//
//	POST /generate   album JSON in, poster image out (?format=jpeg|png)
//	POST /layout     album JSON in, planned geometry out as JSON
//	GET  /healthz    liveness
//	GET  /version    build information
//
// Validation failures answer 400 with a plain-text message such as
// "No name given".
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/albumposter/pkg/config"
	"github.com/matzehuels/albumposter/pkg/pipeline"
	"github.com/matzehuels/albumposter/pkg/poster/sink"
)

const shutdownTimeout = 10 * time.Second

// Server holds the router and the runner it dispatches to.
type Server struct {
	runner        *pipeline.Runner
	cfg           config.ServerConfig
	defaultFormat sink.Format
	logger        *log.Logger
	router        chi.Router
}

// New creates a Server. A nil logger uses log.Default().
func New(runner *pipeline.Runner, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	format, err := sink.ParseFormat(cfg.Render.DefaultFormat)
	if err != nil {
		format = sink.FormatJPEG
	}
	s := &Server{
		runner:        runner,
		cfg:           cfg.Server,
		defaultFormat: format,
		logger:        logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout.D(),
		WriteTimeout: s.cfg.WriteTimeout.D(),
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", s.cfg.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
