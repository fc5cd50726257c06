package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/CHOJUNGHO96/algo-reference/internal/config"
)

// Server wraps an *http.Server to provide start/shutdown lifecycle.
type Server struct {
	httpServer *http.Server
}

const (
	maxHeaderBytes = 1 << 20 // 1 MB
	defaultPort    = "8000"

	fallbackReadHeaderTimeout = 10 * time.Second
)

// New prepares a server for handler on cfg.Port. Nothing listens until Run.
func New(cfg config.HTTPConfig, handler http.Handler) *Server {
	return &Server{httpServer: newHTTPServer(normalizeAddr(cfg.Port), handler, cfg)}
}

// Addr is the listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// newHTTPServer builds a configured *http.Server for the given address and handler.
func newHTTPServer(addr string, handler http.Handler, cfg config.HTTPConfig) *http.Server {
	readHeader := cfg.ReadHeaderTimeout
	if readHeader <= 0 {
		readHeader = fallbackReadHeaderTimeout
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeader,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// normalizeAddr ensures the provided port is a valid address (accepts "8080" or ":8080").
func normalizeAddr(port string) string {
	if port == "" {
		port = defaultPort
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// Run serves handler until Shutdown is called. A graceful stop returns nil.
func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
