// Package server wires the controls runtime: HTTP API, gRPC health, and
// profile storage lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/louisbranch/controlkit/internal/platform/assets/gravatar"
	"github.com/louisbranch/controlkit/internal/platform/timeouts"
	httpapi "github.com/louisbranch/controlkit/internal/services/controls/api/http"
	controlsqlite "github.com/louisbranch/controlkit/internal/services/controls/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService is the gRPC health service name reported by the controls server.
const HealthService = "controlkit.controls"

// Config holds the listener addresses and storage settings for a server.
type Config struct {
	HTTPAddr        string
	GRPCAddr        string
	DBPath          string
	GravatarBaseURL string
}

// Server hosts the controls HTTP API, gRPC health, and storage lifecycle.
type Server struct {
	httpListener net.Listener
	grpcListener net.Listener
	httpServer   *http.Server
	grpcServer   *grpc.Server
	health       *health.Server
	store        *controlsqlite.Store
	closeOnce    sync.Once
}

// New creates a configured controls server.
func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "controls.db")
	}

	httpListener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}
	grpcListener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		_ = httpListener.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.GRPCAddr, err)
	}

	store, err := openProfileStore(cfg.DBPath)
	if err != nil {
		_ = httpListener.Close()
		_ = grpcListener.Close()
		return nil, err
	}

	handler := httpapi.NewHandler(store, gravatar.New(cfg.GravatarBaseURL))
	httpServer := &http.Server{
		Handler:           handler.Routes(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(HealthService, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		httpListener: httpListener,
		grpcListener: grpcListener,
		httpServer:   httpServer,
		grpcServer:   grpcServer,
		health:       healthServer,
		store:        store,
	}, nil
}

// Addr returns the HTTP listener address.
func (s *Server) Addr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// GRPCAddr returns the gRPC listener address.
func (s *Server) GRPCAddr() string {
	if s == nil || s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}

// Run creates and serves a controls server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve runs the HTTP and gRPC servers until context cancellation or the
// first server failure.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("controls http listening at %v", s.httpListener.Addr())
	log.Printf("controls grpc listening at %v", s.grpcListener.Addr())

	httpErr := make(chan error, 1)
	grpcErr := make(chan error, 1)
	go func() {
		httpErr <- s.httpServer.Serve(s.httpListener)
	}()
	go func() {
		grpcErr <- s.grpcServer.Serve(s.grpcListener)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case err := <-httpErr:
		httpErr <- err
		if !isServerClosed(err) {
			serveErr = fmt.Errorf("serve http: %w", err)
		}
	case err := <-grpcErr:
		grpcErr <- err
		if !isServerClosed(err) {
			serveErr = fmt.Errorf("serve gRPC: %w", err)
		}
	}

	if s.health != nil {
		s.health.Shutdown()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("controls http shutdown: %v", err)
	}
	s.grpcServer.GracefulStop()

	if err := <-httpErr; serveErr == nil && !isServerClosed(err) {
		serveErr = fmt.Errorf("serve http: %w", err)
	}
	if err := <-grpcErr; serveErr == nil && !isServerClosed(err) {
		serveErr = fmt.Errorf("serve gRPC: %w", err)
	}
	return serveErr
}

// Close releases server resources. It is safe to call more than once.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(s.close)
}

func (s *Server) close() {
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.httpListener != nil {
		_ = s.httpListener.Close()
	}
	if s.grpcListener != nil {
		_ = s.grpcListener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close controls store: %v", err)
		}
	}
}

func isServerClosed(err error) bool {
	return err == nil || errors.Is(err, http.ErrServerClosed) || errors.Is(err, grpc.ErrServerStopped)
}

func openProfileStore(path string) (*controlsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := controlsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open controls sqlite store: %w", err)
	}
	return store, nil
}
