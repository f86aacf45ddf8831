// Package timeouts defines shared timeout constants used by the controls
// service transports.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

// HealthProbe caps a single gRPC health check call.
const HealthProbe = time.Second
