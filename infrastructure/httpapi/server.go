// Package httpapi exposes the tool registry over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"video-frame-analyzer/application/agent"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// shutdownTimeout bounds how long in-flight calls may finish after ctx ends
const shutdownTimeout = 10 * time.Second

// Server serves the agent manifest and tool calls
type Server struct {
	addr     string
	registry *agent.Registry
	manifest agent.Manifest
	logger   *zap.Logger
	engine   *gin.Engine
}

// NewServer creates a server and registers its routes
func NewServer(addr string, registry *agent.Registry, manifest agent.Manifest, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		addr:     addr,
		registry: registry,
		manifest: manifest,
		logger:   logger,
		engine:   gin.New(),
	}

	s.engine.Use(gin.Recovery(), requestLogger(logger))
	s.engine.GET("/healthz", s.health)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/v1")
	{
		v1.GET("/agent", s.getManifest)
		v1.GET("/tools", s.listTools)
		v1.POST("/tools/:name", s.callTool)
	}

	return s
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("tool server starting", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("tool server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP", "tools": len(s.registry.List())})
}

func (s *Server) getManifest(c *gin.Context) {
	c.JSON(http.StatusOK, s.manifest)
}

func (s *Server) listTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": s.registry.List()})
}

// callTool answers 404 for unknown tools. Every other outcome, including
// tool errors, is a 200 carrying the result mapping.
func (s *Server) callTool(c *gin.Context) {
	name := c.Param("name")
	if _, ok := s.registry.Get(name); !ok {
		c.JSON(http.StatusNotFound, s.registry.Execute(c.Request.Context(), name, nil))
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error_message": "Failed to read request body: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, s.registry.Execute(c.Request.Context(), name, body))
}

// requestLogger logs one line per request
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(started)),
		)
	}
}
