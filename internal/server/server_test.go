package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/CHOJUNGHO96/algo-reference/internal/config"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"":               ":8000",
		"8080":           ":8080",
		":9090":          ":9090",
		"127.0.0.1:8000": "127.0.0.1:8000",
	}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Errorf("normalizeAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewHTTPServer_UsesConfiguredTimeouts(t *testing.T) {
	cfg := config.HTTPConfig{ReadHeaderTimeout: 3 * time.Second, WriteTimeout: 4 * time.Second, IdleTimeout: 5 * time.Second}
	srv := newHTTPServer(":0", http.NotFoundHandler(), cfg)
	if srv.ReadHeaderTimeout != 3*time.Second || srv.WriteTimeout != 4*time.Second || srv.IdleTimeout != 5*time.Second {
		t.Fatalf("timeouts not applied: %+v", srv)
	}
	if srv.MaxHeaderBytes != maxHeaderBytes {
		t.Fatalf("MaxHeaderBytes = %d", srv.MaxHeaderBytes)
	}

	srv = newHTTPServer(":0", http.NotFoundHandler(), config.HTTPConfig{})
	if srv.ReadHeaderTimeout != fallbackReadHeaderTimeout {
		t.Fatalf("zero read header timeout should fall back, got %v", srv.ReadHeaderTimeout)
	}
}

func TestRunStopsOnShutdown(t *testing.T) {
	srv := New(config.HTTPConfig{Port: "127.0.0.1:0"}, http.NotFoundHandler())
	if srv.Addr() != "127.0.0.1:0" {
		t.Fatalf("Addr = %q", srv.Addr())
	}

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	// Shutdown may win the race against ListenAndServe; both orders must end Run with nil.
	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v after graceful shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}
