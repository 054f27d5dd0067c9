package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// httpShutdownTimeout bounds how long in-flight requests may finish.
const httpShutdownTimeout = 10 * time.Second

// HTTPService runs an http.Server as a lifecycle Service.
type HTTPService struct {
	server *http.Server
	logger *zap.Logger
}

// NewHTTPService wraps handler in a managed HTTP server on addr.
func NewHTTPService(addr string, handler http.Handler, logger *zap.Logger) *HTTPService {
	return &HTTPService{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start serves until Stop is called. A clean shutdown is not an error.
func (s *HTTPService) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests, then closes the listener.
func (s *HTTPService) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("http shutdown incomplete, closing", zap.Error(err))
		s.server.Close()
	}
}
