// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the MCP tools.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/okian/bottleneck/internal/domain/advisor"
	"github.com/okian/bottleneck/internal/domain/catalog"
	"github.com/okian/bottleneck/internal/domain/model"
	"github.com/okian/bottleneck/internal/domain/scoring"
	"github.com/okian/bottleneck/internal/domain/types"
	"github.com/okian/bottleneck/internal/version"
	"github.com/okian/bottleneck/pkg/logger"
	"github.com/okian/bottleneck/pkg/metrics"
)

const defaultMaxSearchResults = 500

// Sentinel errors returned by the Service.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrMissingField = errors.New("missing field")
)

// Service implements the API dependencies for the bottleneck engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalogs *catalog.Set
	advisor  *advisor.Advisor

	// Configuration
	catalogPath      string
	maxSearchResults int

	// State
	started  bool
	analyses atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCatalog uses an already loaded catalog set instead of loading one.
func WithCatalog(set *catalog.Set) Option {
	return func(s *Service) {
		if set != nil {
			s.catalogs = set
		}
	}
}

// WithCatalogPath loads the catalog from a YAML file at Start. An empty path
// keeps the embedded catalog.
func WithCatalogPath(path string) Option {
	return func(s *Service) {
		s.catalogPath = path
	}
}

// WithMaxSearchResults caps list and search responses.
func WithMaxSearchResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSearchResults = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxSearchResults: defaultMaxSearchResults,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the catalogs and prepares the advisor.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting bottleneck service...")

	if s.catalogs == nil {
		set, err := catalog.Load(ctx, s.catalogPath)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		s.catalogs = set
	}
	s.advisor = advisor.New(s.catalogs)

	counts := s.catalogs.Counts()
	for kind, n := range counts {
		metrics.UpdateCatalogEntries(string(kind), n)
	}

	s.started = true
	s.logger.Info(ctx, "bottleneck service started",
		logger.String("catalog", catalogSource(s.catalogPath)),
		logger.Int("cpus", counts[model.KindCPU]),
		logger.Int("gpus", counts[model.KindGPU]),
		logger.Int("motherboards", counts[model.KindMotherboard]),
	)

	return nil
}

// Stop marks the service as stopped. Catalogs stay readable.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "bottleneck service stopped",
		logger.Any("analyses", s.analyses.Load()),
	)
}

func (s *Service) ready() (*catalog.Set, *advisor.Advisor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.catalogs, s.advisor, nil
}

// Analyze resolves the three names and returns the full report. Every
// unknown name is reported at once, joined, each matching catalog.ErrNotFound.
func (s *Service) Analyze(ctx context.Context, req types.BuildRequest) (types.Report, error) {
	set, adv, err := s.ready()
	if err != nil {
		return types.Report{}, err
	}
	if missing := req.Missing(); len(missing) > 0 {
		return types.Report{}, fmt.Errorf("%w: %v", ErrMissingField, missing)
	}

	cpu, cpuErr := set.CPUs.Lookup(req.CPU)
	gpu, gpuErr := set.GPUs.Lookup(req.GPU)
	mb, mbErr := set.Motherboards.Lookup(req.Motherboard)
	if err := errors.Join(cpuErr, gpuErr, mbErr); err != nil {
		for kind, e := range map[model.Kind]error{model.KindCPU: cpuErr, model.KindGPU: gpuErr, model.KindMotherboard: mbErr} {
			if e != nil {
				metrics.RecordLookupNotFound(string(kind))
			}
		}
		s.logger.Debug(ctx, "build has unknown components", logger.Error(err))
		return types.Report{}, err
	}

	res := scoring.Compute(cpu, gpu, mb)
	advice := adv.Advise(advisor.Build{CPU: cpu, GPU: gpu, Motherboard: mb, Result: res})

	s.analyses.Add(1)
	metrics.RecordAnalysis(string(res.Side), res.Percentage, res.Compatible)
	if rec := advice.Recommendation; rec != nil {
		metrics.RecordRecommendation(string(rec.Kind), rec.Fallback)
	}

	s.logger.Debug(ctx, "build analysed",
		logger.String("cpu", cpu.Name),
		logger.String("gpu", gpu.Name),
		logger.String("motherboard", mb.Name),
		logger.Float64("percentage", res.Percentage),
		logger.String("side", string(res.Side)),
		logger.Bool("compatible", res.Compatible),
	)

	return types.Report{
		CPU:            cpu.Name,
		GPU:            gpu.Name,
		Motherboard:    mb.Name,
		Percentage:     res.Percentage,
		Side:           res.Side,
		Severity:       res.Severity,
		Compatible:     res.Compatible,
		Gap:            res.Gap,
		Breakdown:      res.Breakdown,
		Recommendation: advice.Recommendation,
		Suggestions:    advice.Suggestions,
	}, nil
}

// Search lists the records of one kind whose name contains query,
// case-insensitively, in catalog order. The limit is clamped to the
// configured maximum.
func (s *Service) Search(ctx context.Context, kind model.Kind, query string, limit int) ([]model.Named, error) {
	set, _, err := s.ready()
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.maxSearchResults {
		limit = s.maxSearchResults
	}

	switch kind {
	case model.KindCPU:
		return named(set.CPUs.Search(query, limit)), nil
	case model.KindGPU:
		return named(set.GPUs.Search(query, limit)), nil
	case model.KindMotherboard:
		return named(set.Motherboards.Search(query, limit)), nil
	default:
		return nil, fmt.Errorf("search: unknown component kind %q", kind)
	}
}

// Lookup returns one record by exact name.
func (s *Service) Lookup(ctx context.Context, kind model.Kind, name string) (model.Named, error) {
	set, _, err := s.ready()
	if err != nil {
		return nil, err
	}

	var rec model.Named
	switch kind {
	case model.KindCPU:
		rec, err = lookup(set.CPUs, name)
	case model.KindGPU:
		rec, err = lookup(set.GPUs, name)
	case model.KindMotherboard:
		rec, err = lookup(set.Motherboards, name)
	default:
		return nil, fmt.Errorf("lookup: unknown component kind %q", kind)
	}
	if errors.Is(err, catalog.ErrNotFound) {
		metrics.RecordLookupNotFound(string(kind))
	}
	return rec, err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{
		Catalog:  map[string]int{},
		Analyses: s.analyses.Load(),
		Version:  version.Short(),
		Started:  s.started,
	}
	if s.catalogs != nil {
		for kind, n := range s.catalogs.Counts() {
			stats.Catalog[string(kind)] = n
		}
	}
	return stats
}

func named[T model.Named](items []T) []model.Named {
	out := make([]model.Named, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func lookup[T model.Named](c *catalog.Catalog[T], name string) (model.Named, error) {
	rec, err := c.Lookup(name)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func catalogSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
