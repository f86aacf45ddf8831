// Package cmd holds startup helpers shared by controlkit commands: env and
// flag parsing, telemetry lifecycle, and the process main loop.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/louisbranch/controlkit/internal/platform/config"
	"github.com/louisbranch/controlkit/internal/platform/otel"
)

const defaultOTelShutdownTimeout = 5 * time.Second

// ServiceControls names the controls service in telemetry and logs.
const ServiceControls = "controls"

// RunOptions tunes RunWithTelemetryAndOptions.
type RunOptions struct {
	// ShutdownTimeout bounds the final span flush. Zero uses five seconds.
	ShutdownTimeout time.Duration
}

// ParseConfig loads CONTROLKIT_-prefixed environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnvWithPrefix(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads env defaults into cfg, lets register bind flags
// to its fields, and then parses args, so flags win over env.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string, register func(*flag.FlagSet, *T)) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if register != nil {
		register(fs, cfg)
	}
	return ParseArgs(fs, args)
}

// LogPrefix returns the log prefix for service, e.g. "[CONTROLS] ".
func LogPrefix(service string) string {
	return "[" + strings.ToUpper(strings.TrimSpace(service)) + "] "
}

// Execute parses args with parse and hands the result to run.
func Execute[T any](ctx context.Context, fs *flag.FlagSet, args []string, parse func(*flag.FlagSet, []string) (T, error), run func(context.Context, T) error) error {
	if parse == nil || run == nil {
		return errors.New("parse and run functions are required")
	}
	cfg, err := parse(fs, args)
	if err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return run(ctx, cfg)
}

// Main runs a service process: it sets the log prefix, cancels on SIGINT or
// SIGTERM, and exits non-zero when parsing or running fails.
func Main[T any](service string, parse func(*flag.FlagSet, []string) (T, error), run func(context.Context, T) error) {
	log.SetPrefix(LogPrefix(service))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := Execute(ctx, flag.CommandLine, os.Args[1:], parse, run)
	stop()
	if err != nil {
		log.Fatalf("%s: %v", service, err)
	}
}

// RunWithTelemetry configures tracing and executes a service run loop.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	return RunWithTelemetryAndOptions(ctx, service, RunOptions{}, run)
}

// RunWithTelemetryAndOptions is RunWithTelemetry with explicit options.
func RunWithTelemetryAndOptions(ctx context.Context, service string, options RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer shutdownTelemetry(service, shutdown, options.ShutdownTimeout)
	return run(ctx)
}

func shutdownTelemetry(service string, shutdown func(context.Context) error, timeout time.Duration) {
	if timeout <= 0 {
		timeout = defaultOTelShutdownTimeout
	}
	// The run context is usually cancelled by now, so flush on a fresh one.
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Printf("%s otel shutdown: %v", service, err)
	}
}
