package loadcheck

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/bottleneck/pkg/logger"
)

// SetupLogging initialises the global logger. With verbose set, debug
// output is enabled.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.InitWith(w, "text"); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the load check tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Bottleneck Load Check
=====================

Submits random CPU, GPU and motherboard builds to a running service
concurrently and recomputes every report locally with the same engine.

Usage:
  go run ./cmd/loadcheck [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -builds int
        Number of builds to submit (default 5000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -seed uint
        Generator seed (default: current time)
  -catalog string
        Catalog YAML the service runs with (default: embedded)
  -verbose
        Log every failure and mismatch
  -help
        Show this help message

Exit status is 1 when any request failed or any report differed.

Examples:
  go run ./cmd/loadcheck -builds 20000 -workers 32
  go run ./cmd/loadcheck -seed 42 -verbose
`)
}
