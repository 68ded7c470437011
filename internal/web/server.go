// Package web serves the snapshot store over HTTP on the local machine: a
// small JSON API and a websocket stream that pushes each new snapshot.
package web

import (
	"bytes"
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rileyhilliard/sysmon/internal/alerts"
	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/export"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
)

const shutdownTimeout = 5 * time.Second

// Source is the part of snapshot.Store the server needs.
type Source interface {
	Read() snapshot.Snapshot
	Subscribe() (<-chan struct{}, func())
}

// Server is the local web presenter.
type Server struct {
	source   Source
	settings config.Provider
	log      logger.Logger
	engine   *gin.Engine
	hub      *Hub
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New builds the router. Rate limits come from the serve settings at
// construction time.
func New(source Source, settings config.Provider, opts ...Option) *Server {
	s := &Server{
		source:   source,
		settings: settings,
		log:      logger.NewEnvLogger("[web]"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = NewHub(source, s.log)

	serve := settings.Settings().Serve
	engine := gin.New()
	engine.Use(gin.Recovery(), LoggingMiddleware(s.log), SecurityHeadersMiddleware())
	engine.Use(RateLimitMiddleware(NewRateLimiter(serve.RateLimit, serve.Burst), s.log))
	s.engine = engine
	s.registerRoutes()
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/ws", s.hub.ServeWS)

	api := s.engine.Group("/api")
	{
		api.GET("/snapshot", s.handleSnapshot)
		api.GET("/history", s.handleHistory)
		api.GET("/alerts", s.handleAlerts)
		api.GET("/settings", s.handleSettings)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	snap := s.source.Read()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"ready":  snap.Ready(),
		"seq":    snap.Seq,
	})
}

// handleSnapshot returns the latest snapshot. ?format=yaml|text selects
// another report encoding.
func (s *Server) handleSnapshot(c *gin.Context) {
	snap, ok := s.readyOrUnavailable(c)
	if !ok {
		return
	}

	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatJSON)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if format == export.FormatJSON {
		c.JSON(http.StatusOK, snap)
		return
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, snap, format); err != nil {
		s.log.Error("encode %s report: %v", format, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode report"})
		return
	}
	c.Data(http.StatusOK, contentType(format), buf.Bytes())
}

func (s *Server) handleHistory(c *gin.Context) {
	snap, ok := s.readyOrUnavailable(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap.History)
}

func (s *Server) handleAlerts(c *gin.Context) {
	snap := s.source.Read()
	c.JSON(http.StatusOK, gin.H{
		"enabled": s.settings.Settings().NotificationsEnabled,
		"active":  nonNil(snap.Alerts),
		"log":     nonNil(snap.AlertLog),
	})
}

func (s *Server) handleSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.settings.Settings())
}

func (s *Server) readyOrUnavailable(c *gin.Context) (snapshot.Snapshot, bool) {
	snap := s.source.Read()
	if !snap.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no samples collected yet"})
		return snap, false
	}
	return snap, true
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if !IsLoopbackAddr(addr) {
		s.log.Warn("listening on %s, which is reachable from other hosts; there is no authentication", addr)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrServe,
			"Cannot listen on "+addr,
			"Pick another address with --addr or set serve.addr in the config")
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info("serving on http://%s", ln.Addr())

	select {
	case <-ctx.Done():
		stopHub()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.WrapWithCode(err, errors.ErrServe, "Web server did not shut down cleanly", "")
		}
		return nil
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrServe, "Web server stopped", "")
	}
}

func contentType(f export.Format) string {
	switch f {
	case export.FormatYAML:
		return "application/yaml; charset=utf-8"
	case export.FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

func nonNil(list []alerts.Alert) []alerts.Alert {
	if list == nil {
		return []alerts.Alert{}
	}
	return list
}

// IsLoopbackAddr reports whether addr binds only to the local machine.
func IsLoopbackAddr(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
