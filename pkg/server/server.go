// Package server exposes an index over HTTP.
package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-orderedindex/pkg/common/http/handler"
	"github.com/huynhanx03/go-orderedindex/pkg/index"
	"github.com/huynhanx03/go-orderedindex/pkg/settings"
)

const shutdownTimeout = 5 * time.Second

// Server serves one string index.
type Server struct {
	cfg    settings.Server
	idx    *index.Index[string, string]
	log    *zap.Logger
	engine *gin.Engine
}

// New builds the router for idx.
func New(cfg settings.Server, idx *index.Index[string, string], log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(cfg.Mode)

	s := &Server{cfg: cfg, idx: idx, log: log, engine: gin.New()}
	s.engine.Use(gin.Recovery(), requestLogger(log))
	s.routes()
	return s
}

func (s *Server) routes() {
	h := &handlers{idx: s.idx}

	v1 := s.engine.Group("/v1")
	{
		v1.GET("/keys/*key", handler.Wrap(h.get))
		v1.PUT("/keys/*key", handler.Wrap(h.put))
		v1.DELETE("/keys/*key", handler.Wrap(h.delete))
		v1.GET("/scan", handler.Wrap(h.scan))
		v1.GET("/stats", handler.Wrap(h.stats))
		v1.POST("/compact", handler.Wrap(h.compact))
		v1.GET("/verify", handler.Wrap(h.verify))
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server: listen failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server: shutdown failed")
	}
	s.log.Info("server stopped")
	return nil
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("request failed", append(fields, zap.String("error", c.Errors.String()))...)
			return
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}
		log.Debug("request", fields...)
	}
}
