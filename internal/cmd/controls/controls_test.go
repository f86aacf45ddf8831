package controls

import (
	"context"
	"flag"
	"io"
	"path/filepath"
	"testing"
	"time"

	server "github.com/louisbranch/controlkit/internal/services/controls/app"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("controls", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != ":8090" {
		t.Fatalf("expected default http addr :8090, got %q", cfg.HTTPAddr)
	}
	if cfg.GRPCAddr != ":8091" {
		t.Fatalf("expected default grpc addr :8091, got %q", cfg.GRPCAddr)
	}
	if cfg.DBPath != "data/controls.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.HealthCheck {
		t.Fatal("expected healthcheck off by default")
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("CONTROLKIT_HTTP_ADDR", "env-http")
	t.Setenv("CONTROLKIT_GRAVATAR_BASE_URL", "https://env.example.com/avatar/")

	fs := flag.NewFlagSet("controls", flag.ContinueOnError)
	args := []string{"-http-addr", "flag-http", "-db-path", "/tmp/c.db", "-healthcheck"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "flag-http" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.DBPath != "/tmp/c.db" {
		t.Fatalf("expected flag db path, got %q", cfg.DBPath)
	}
	if cfg.GravatarBaseURL != "https://env.example.com/avatar/" {
		t.Fatalf("expected env base url, got %q", cfg.GravatarBaseURL)
	}
	if !cfg.HealthCheck {
		t.Fatal("expected healthcheck flag to be set")
	}
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("controls", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := ParseConfig(fs, []string{"-port", "1"}); err == nil {
		t.Fatal("expected unknown flag error")
	}
}

func TestRunHealthCheckAgainstRunningServer(t *testing.T) {
	srv, err := server.New(server.Config{
		HTTPAddr: "127.0.0.1:0",
		GRPCAddr: "127.0.0.1:0",
		DBPath:   filepath.Join(t.TempDir(), "controls.db"),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
	})

	if err := Run(context.Background(), Config{GRPCAddr: srv.GRPCAddr(), HealthCheck: true}); err != nil {
		t.Fatalf("healthcheck: %v", err)
	}
}
