// Package grpc holds gRPC client helpers shared by controlkit commands.
package grpc

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DefaultClientDialOptions returns dial options for in-cluster plaintext
// clients, traced through otelgrpc.
func DefaultClientDialOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// NewClient creates a lazily connecting client for addr.
func NewClient(addr string, extra ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	target := strings.TrimSpace(addr)
	if target == "" {
		return nil, fmt.Errorf("gRPC address is required")
	}
	opts := append(DefaultClientDialOptions(), extra...)
	conn, err := gogrpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return conn, nil
}
