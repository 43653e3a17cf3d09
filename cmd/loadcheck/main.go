package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/bottleneck/internal/loadcheck"
)

// Default configuration constants.
const (
	defaultBuilds      = 5000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		builds      = flag.Int("builds", defaultBuilds, "Number of builds to submit")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed        = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Generator seed")
		catalogPath = flag.String("catalog", "", "Catalog YAML the service runs with (default: embedded)")
		verbose     = flag.Bool("verbose", false, "Log every failure and mismatch")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadcheck.ShowHelp()
		return
	}

	if err := loadcheck.SetupLogging(os.Stdout, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultTestTimeout)
	defer cancel()

	config := &loadcheck.Config{
		BaseURL:     *baseURL,
		Builds:      *builds,
		Workers:     *workers,
		Timeout:     *timeout,
		Seed:        *seed,
		CatalogPath: *catalogPath,
		Verbose:     *verbose,
	}

	if _, err := loadcheck.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Load check failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
