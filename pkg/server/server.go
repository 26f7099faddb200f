// Package server provides an HTTP server with managed lifecycle.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	apierrors "github.com/kart-io/support-desk/pkg/errors"
	httpopts "github.com/kart-io/support-desk/pkg/options/server/http"
	"github.com/kart-io/support-desk/pkg/server/middleware"
)

// Manager owns the gin engine and the underlying http.Server, and drives
// startup and graceful shutdown.
type Manager struct {
	opts   *httpopts.Options
	engine *gin.Engine
	server *http.Server

	mu      sync.Mutex
	started bool
}

// NewManager creates a new server manager with the given options.
// The engine comes preloaded with recovery, request-id and logging middleware.
func NewManager(opts *httpopts.Options) *Manager {
	if opts == nil {
		opts = httpopts.NewOptions()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    apierrors.ErrNotFound.Code,
			"message": "Route not found",
		})
	})

	return &Manager{
		opts:   opts,
		engine: engine,
	}
}

// Engine returns the underlying gin.Engine for route registration.
func (m *Manager) Engine() *gin.Engine {
	return m.engine
}

// Start starts the HTTP server. It returns once the listener goroutine is
// running; listen errors are reported through the returned channel by Run.
func (m *Manager) Start(ctx context.Context) (<-chan error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return nil, errors.New("server manager already started")
	}
	m.started = true

	m.server = &http.Server{
		Addr:         m.opts.Addr,
		Handler:      m.engine,
		ReadTimeout:  m.opts.ReadTimeout,
		WriteTimeout: m.opts.WriteTimeout,
		IdleTimeout:  m.opts.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", m.opts.Addr)
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return errCh, nil
}

// Stop gracefully shuts down the server within the configured timeout.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	server := m.server
	m.mu.Unlock()
	if server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, m.opts.ShutdownTimeout)
	defer cancel()

	logger.Infow("shutting down HTTP server")
	return server.Shutdown(shutdownCtx)
}

// Run starts the server and blocks until a termination signal is received
// or the listener fails, then performs a graceful shutdown.
func (m *Manager) Run(ctx context.Context) error {
	errCh, err := m.Start(ctx)
	if err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case sig := <-quit:
		logger.Infow("received signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Infow("context cancelled")
	}

	return m.Stop(context.Background())
}
