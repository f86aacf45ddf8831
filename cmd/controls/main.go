// Package main starts the controls service process lifecycle.
package main

import (
	controlscmd "github.com/louisbranch/controlkit/internal/cmd/controls"
	entrypoint "github.com/louisbranch/controlkit/internal/platform/cmd"
)

func main() {
	entrypoint.Main(entrypoint.ServiceControls, controlscmd.ParseConfig, controlscmd.Run)
}
