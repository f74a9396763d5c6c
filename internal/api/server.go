// internal/api/server.go

// Package api is the HTTP surface of the daemon: health, status,
// device commands, curve-control state, and Prometheus metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/stephan-aichholzer/lg-r290-control/internal/controller"
	"github.com/stephan-aichholzer/lg-r290-control/internal/registers"
	"github.com/stephan-aichholzer/lg-r290-control/internal/schedule"
	"github.com/stephan-aichholzer/lg-r290-control/internal/status"
)

// gracefulShutdownTimeout bounds the wait for in-flight requests on
// shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// DefaultStaleAfter is the snapshot age at which /health reports 503.
const DefaultStaleAfter = 30 * time.Second

// Commands is the controller contract the API drives.
type Commands interface {
	Status() controller.State
	SetPower(ctx context.Context, on bool) error
	SetTargetTemperature(ctx context.Context, temp float64) error
	SetOffset(ctx context.Context, offset int) error
	SetMode(ctx context.Context, m registers.ModeSetting) error
	SetEnabled(on bool)
	ReloadPolicy() error
}

// BankReader reads whole register banks for the raw debug endpoint.
type BankReader interface {
	ReadCoils(ctx context.Context, start registers.Point, qty uint16) ([]bool, error)
	ReadDiscreteInputs(ctx context.Context, start registers.Point, qty uint16) ([]bool, error)
	ReadInputRegisters(ctx context.Context, start registers.Point, qty uint16) ([]uint16, error)
	ReadHoldingRegisters(ctx context.Context, start registers.Point, qty uint16) ([]uint16, error)
}

// Deps holds everything the server serves from.
type Deps struct {
	Listen     string        // e.g. ":8000"
	StaleAfter time.Duration // zero takes DefaultStaleAfter

	Log       *slog.Logger
	Cache     status.Cache
	Commands  Commands
	Schedules *schedule.Store
	Raw       BankReader   // optional: raw endpoint returns 503 when nil
	Metrics   http.Handler // optional: /metrics returns 404 when nil
}

// Server is the HTTP API server.
type Server struct {
	deps Deps
	log  *slog.Logger
	srv  *http.Server
}

// New validates deps and builds the server. It does not listen yet.
func New(deps Deps) (*Server, error) {
	if deps.Listen == "" {
		return nil, errors.New("api: listen address required")
	}
	if deps.Cache == nil {
		return nil, errors.New("api: status cache required")
	}
	if deps.Commands == nil {
		return nil, errors.New("api: controller required")
	}
	if deps.StaleAfter == 0 {
		deps.StaleAfter = DefaultStaleAfter
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}

	s := &Server{deps: deps, log: deps.Log}
	s.srv = &http.Server{
		Addr:              deps.Listen,
		Handler:           s.buildRouter(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.log.Info("api shutting down")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api: shutdown: %w", err)
	}
	return ctx.Err()
}
