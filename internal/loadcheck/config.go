// Package loadcheck drives a running bottleneck service with random builds
// and checks every report against a local computation over the same catalog.
package loadcheck

import (
	"errors"
	"time"

	"github.com/okian/bottleneck/internal/domain/types"
)

// Sentinel errors returned by Run.
var (
	ErrMismatch  = errors.New("reports differ from local computation")
	ErrFailures  = errors.New("requests failed")
	ErrUnhealthy = errors.New("service health check failed")
)

// Config holds configuration for a load check run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Builds      int           // Number of builds to submit
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	Seed        uint64        // Generator seed; the same seed yields the same builds
	CatalogPath string        // Catalog the service runs with; empty is the embedded one
	Verbose     bool          // Log every mismatch
}

// Outcome of one submitted build.
type Outcome struct {
	Build    types.BuildRequest
	Status   int
	Report   types.Report
	Err      error
	Mismatch []string
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Succeeded  int
	Failed     int
	Mismatched int
	RunID      string
	StartTime  time.Time
	Duration   time.Duration
}
