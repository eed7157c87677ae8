package ui

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"gopower/internal"
)

// Server runs an http.Handler until its context is canceled
type Server struct {
	http   *http.Server
	logger *internal.Logger
}

// NewServer creates a server listening on the given port
func NewServer(port string, handler http.Handler, logger *internal.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              net.JoinHostPort("", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down server")
	return s.http.Shutdown(shutdownCtx)
}
