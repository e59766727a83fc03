// Package api exposes reconciliation of inline CSV payloads over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"transaction-reconciler/internal/domain"
	"transaction-reconciler/internal/gateway"
	"transaction-reconciler/internal/usecase"
)

// Reconciler runs a reconciliation between two locators.
type Reconciler interface {
	Reconcile(ctx context.Context, sourceLocator, systemLocator string) (*domain.ReconciliationReport, error)
}

// Server is the HTTP API server.
type Server struct {
	router       *gin.Engine
	httpServer   *http.Server
	logger       *zap.Logger
	reconciler   Reconciler
	maxBodyBytes int64
}

// NewServer wires routes around the given reconciler. The reconciler must
// only accept inline payloads; request bodies are never treated as paths.
func NewServer(addr string, maxBodyBytes int64, reconciler Reconciler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:       gin.New(),
		logger:       logger,
		reconciler:   reconciler,
		maxBodyBytes: maxBodyBytes,
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.router.GET("/healthz", s.handleHealth)
	s.router.POST("/v1/reconcile", s.handleReconcile)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down http server")
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)

		c.Next()

		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleReconcile(c *gin.Context) {
	if s.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes)
	}

	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Code: ErrCodeBadRequest, Message: "invalid request body: " + err.Error()})
		return
	}

	report, err := s.reconciler.Reconcile(c.Request.Context(), req.Source, req.System)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, report)
	case errors.Is(err, usecase.ErrNoData):
		c.JSON(http.StatusUnprocessableEntity, APIError{Code: ErrCodeNoData, Message: err.Error()})
	case errors.Is(err, gateway.ErrNoInput), errors.Is(err, gateway.ErrInputParse), errors.Is(err, gateway.ErrInputRead):
		c.JSON(http.StatusBadRequest, APIError{Code: ErrCodeInvalidInput, Message: err.Error()})
	default:
		s.logger.Error("reconciliation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIError{Code: ErrCodeInternalError, Message: "an internal error occurred"})
	}
}
