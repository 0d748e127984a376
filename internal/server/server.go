// Package server is the reference Remote Todo Service: a gin router over
// service.TodoService.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/service"
)

// Options tune the router.
type Options struct {
	// TestMode registers POST /api/test/truncate.
	TestMode bool
	// Release switches gin out of debug mode.
	Release bool
	// ShutdownTimeout bounds graceful shutdown; zero means 5s.
	ShutdownTimeout time.Duration
}

// Server owns the router and the HTTP listener.
type Server struct {
	svc    *service.TodoService
	opts   Options
	router *gin.Engine
}

// New builds the router. Nothing listens until Run.
func New(svc *service.TodoService, opts Options) *Server {
	if opts.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{svc: svc, opts: opts}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	_ = r.SetTrustedProxies(nil)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/todos", s.listTodos)
	api.POST("/todos", s.createTodo)
	api.GET("/todos/:id", s.getTodo)
	api.PUT("/todos/:id", s.updateTodo)
	api.DELETE("/todos/:id", s.deleteTodo)

	if s.opts.TestMode {
		api.POST("/test/truncate", s.truncateTodos)
	}

	r.NoRoute(func(c *gin.Context) {
		errorJSON(c, http.StatusNotFound, "not found")
	})

	s.router = r
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          log.StdErrorLogger(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Bool("test_mode", s.opts.TestMode).Msg("HTTP server starting")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
