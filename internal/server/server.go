// Package server exposes the scan pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"frscan/internal/logger"
	"frscan/internal/types"
)

// Analyzer scans an uploaded file or archive saved at path.
type Analyzer interface {
	Scan(ctx context.Context, path string) ([]types.Record, error)
}

type Options struct {
	UploadDir      string
	MaxUploadBytes int64
	// Model is reported by /healthz.
	Model string
	Log   hclog.Logger
}

// Server holds the Gin engine and the analyzer behind it.
type Server struct {
	engine   *gin.Engine
	analyzer Analyzer
	opts     Options
	log      hclog.Logger
}

func New(a Analyzer, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	if opts.UploadDir == "" {
		opts.UploadDir = "./temp_uploads"
	}
	s := &Server{engine: engine, analyzer: a, opts: opts, log: logger.OrNull(opts.Log)}
	engine.Use(cors(), s.accessLog())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "model": s.opts.Model})
	})
	s.engine.POST("/scan-upload/", s.handleScanUpload)
	s.engine.POST("/scan-upload", s.handleScanUpload)
}

// Handler returns the HTTP handler, accepting HTTP/2 cleartext as well.
func (s *Server) Handler() http.Handler {
	return h2c.NewHandler(s.engine, &http2.Server{})
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting API server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request", "method", c.Request.Method, "path", c.Request.URL.Path,
			"status", c.Writer.Status(), "elapsed", time.Since(start))
	}
}

// cors lets the browser upload form call the API from another origin.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := strings.TrimSpace(c.GetHeader("Origin")); origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Vary", "Origin")
		} else {
			h.Set("Access-Control-Allow-Origin", "*")
		}
		h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
