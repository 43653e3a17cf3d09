package loadcheck

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	service "github.com/okian/bottleneck/internal/app"
	"github.com/okian/bottleneck/internal/domain/catalog"
	"github.com/okian/bottleneck/pkg/logger"
)

// PercentageMultiplier turns a ratio into a percentage.
const PercentageMultiplier = 100

// Run executes a complete load check and returns its statistics. The error
// wraps ErrMismatch or ErrFailures when any build disagreed or failed.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	log := logger.Get().Named("loadcheck")
	stats := &Stats{StartTime: time.Now(), RunID: uuid.NewString()}

	log.Info(ctx, "starting load check",
		logger.String("run_id", stats.RunID),
		logger.String("baseURL", config.BaseURL),
		logger.Int("builds", config.Builds),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Any("seed", config.Seed))

	set, err := catalog.Load(ctx, config.CatalogPath)
	if err != nil {
		return stats, fmt.Errorf("load catalog: %w", err)
	}
	local := service.New(service.WithCatalog(set), service.WithLogger(log))
	if err := local.Start(ctx); err != nil {
		return stats, fmt.Errorf("start local engine: %w", err)
	}
	defer local.Stop()

	client := newHTTPClient(config.BaseURL, stats.RunID, config.Timeout)

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return stats, err
	}

	// Step 2: Generate builds
	builds := Generate(set, config.Builds, config.Seed)
	stats.Generated = len(builds)

	// Step 3: Submit concurrently and verify each report
	var submitted, succeeded, failed, mismatched atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Workers, 1))

	for i, build := range builds {
		g.Go(func() error {
			out := Outcome{Build: build}
			out.Report, out.Status, out.Err = client.Analyze(gctx, i, build)
			submitted.Add(1)
			if out.Err != nil {
				failed.Add(1)
				if config.Verbose {
					log.Warn(gctx, "build failed", logger.Int("index", i), logger.Error(out.Err))
				}
				return nil
			}
			succeeded.Add(1)

			want, err := local.Analyze(gctx, build)
			if err != nil {
				return fmt.Errorf("local analysis of build %d: %w", i, err)
			}
			if out.Mismatch = Compare(want, out.Report); len(out.Mismatch) > 0 {
				mismatched.Add(1)
				if config.Verbose {
					log.Warn(gctx, "report mismatch",
						logger.Int("index", i),
						logger.String("cpu", build.CPU),
						logger.String("gpu", build.GPU),
						logger.String("motherboard", build.Motherboard),
						logger.Any("diffs", out.Mismatch))
				}
			}
			return nil
		})
	}
	waitErr := g.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Succeeded = int(succeeded.Load())
	stats.Failed = int(failed.Load())
	stats.Mismatched = int(mismatched.Load())
	stats.Duration = time.Since(stats.StartTime)

	displayFinalStats(ctx, log, stats)

	if waitErr != nil {
		return stats, waitErr
	}
	var errs []error
	if stats.Mismatched > 0 {
		errs = append(errs, fmt.Errorf("%w: %d of %d", ErrMismatch, stats.Mismatched, stats.Succeeded))
	}
	if stats.Failed > 0 {
		errs = append(errs, fmt.Errorf("%w: %d of %d", ErrFailures, stats.Failed, stats.Submitted))
	}
	return stats, errors.Join(errs...)
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var successRate, buildsPerSecond float64

	if stats.Submitted > 0 {
		successRate = float64(stats.Succeeded) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		buildsPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.String("run_id", stats.RunID),
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("failed", stats.Failed),
		logger.Int("mismatched", stats.Mismatched),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("buildsPerSecond", buildsPerSecond))
}
