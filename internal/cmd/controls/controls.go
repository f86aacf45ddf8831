// Package controls parses controls service flags and launches the service.
package controls

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	entrypoint "github.com/louisbranch/controlkit/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/controlkit/internal/platform/grpc"
	"github.com/louisbranch/controlkit/internal/platform/timeouts"
	server "github.com/louisbranch/controlkit/internal/services/controls/app"
)

// Config holds controls command configuration.
type Config struct {
	HTTPAddr        string `env:"HTTP_ADDR" envDefault:":8090"`
	GRPCAddr        string `env:"GRPC_ADDR" envDefault:":8091"`
	DBPath          string `env:"DB_PATH" envDefault:"data/controls.db"`
	GravatarBaseURL string `env:"GRAVATAR_BASE_URL"`
	// HealthCheck probes a running server's gRPC health instead of serving.
	HealthCheck bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args, registerFlags); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func registerFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The controls HTTP server address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "The controls gRPC health server address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The SQLite profile database path")
	fs.StringVar(&cfg.GravatarBaseURL, "gravatar-base-url", cfg.GravatarBaseURL, "The avatar service base URL")
	fs.BoolVar(&cfg.HealthCheck, "healthcheck", false, "Probe the gRPC health endpoint and exit")
}

// Run starts the controls service, or probes a running one when
// cfg.HealthCheck is set.
func Run(ctx context.Context, cfg Config) error {
	if cfg.HealthCheck {
		return probe(ctx, cfg.GRPCAddr)
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceControls, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			HTTPAddr:        cfg.HTTPAddr,
			GRPCAddr:        cfg.GRPCAddr,
			DBPath:          cfg.DBPath,
			GravatarBaseURL: cfg.GravatarBaseURL,
		})
	})
}

func probe(ctx context.Context, addr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	addr = strings.TrimSpace(addr)
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	conn, err := platformgrpc.NewClient(addr)
	if err != nil {
		return fmt.Errorf("dial controls health: %w", err)
	}
	defer conn.Close()

	probeCtx, cancel := context.WithTimeout(ctx, 5*timeouts.HealthProbe)
	defer cancel()
	return platformgrpc.WaitForHealth(probeCtx, conn, server.HealthService, log.Printf)
}
