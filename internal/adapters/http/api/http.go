// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/okian/bottleneck/internal/adapters/updates"
	service "github.com/okian/bottleneck/internal/app"
	"github.com/okian/bottleneck/internal/domain/catalog"
	"github.com/okian/bottleneck/internal/domain/model"
	"github.com/okian/bottleneck/internal/domain/types"
	"github.com/okian/bottleneck/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Analyze(ctx context.Context, req types.BuildRequest) (types.Report, error)
	Search(ctx context.Context, kind model.Kind, query string, limit int) ([]model.Named, error)
	Lookup(ctx context.Context, kind model.Kind, name string) (model.Named, error)
	StatsProvider
}

// UpdateStatusProvider reports the outcome of the last release check.
type UpdateStatusProvider interface {
	Last() updates.Status
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	versionHandler    *VersionHandler
	componentHandlers map[model.Kind]*ComponentsHandler
	bottleneckHandler *BottleneckHandler

	limiter *rate.Limiter
	logger  logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimit puts a token bucket of rps and burst in front of the
// catalog and bottleneck routes. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithUpdates reports release check results on GET /version.
func WithUpdates(p UpdateStatusProvider) Option {
	return func(s *Server) {
		s.versionHandler = NewVersionHandler(p)
	}
}

// WithLogger sets a custom logger for request logging.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		versionHandler: NewVersionHandler(nil),
		componentHandlers: map[model.Kind]*ComponentsHandler{
			model.KindCPU:         NewComponentsHandler(deps, model.KindCPU),
			model.KindGPU:         NewComponentsHandler(deps, model.KindGPU),
			model.KindMotherboard: NewComponentsHandler(deps, model.KindMotherboard),
		},
		bottleneckHandler: NewBottleneckHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Operational routes skip the rate limiter.
	mux.Handle("GET /healthz", s.open(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.open(s.healthHandler.HandleHealth, "metrics"))
	mux.Handle("GET /stats", s.open(s.statsHandler.HandleStats, "stats"))
	mux.Handle("GET /version", s.open(s.versionHandler.HandleVersion, "version"))

	for _, kind := range model.Kinds {
		h := s.componentHandlers[kind]
		path := "/" + collection(kind)
		mux.Handle("GET "+path, s.limited(h.HandleList, collection(kind)))
		mux.Handle("GET "+path+"/{name...}", s.limited(h.HandleLookup, string(kind)))
	}

	mux.Handle("GET /bottleneck", s.limited(s.bottleneckHandler.HandleQuery, "bottleneck"))
	mux.Handle("POST /bottleneck", s.limited(s.bottleneckHandler.HandlePost, "bottleneck"))

	s.logger.Debug(ctx, "api routes registered", logger.Bool("rate_limited", s.limiter != nil))
}

func (s *Server) open(h http.HandlerFunc, endpoint string) http.Handler {
	return RequestIDMiddleware(MetricsMiddleware(h, endpoint), s.logger)
}

func (s *Server) limited(h http.HandlerFunc, endpoint string) http.Handler {
	return RequestIDMiddleware(MetricsMiddleware(RateLimitMiddleware(h, s.limiter), endpoint), s.logger)
}

func collection(kind model.Kind) string {
	if kind == model.KindMotherboard {
		return "motherboards"
	}
	return string(kind) + "s"
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, Missing: missingNames(err)})
}

// writeServiceError maps service and catalog errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrMissingField):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, flatten(err)))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// missingNames collects every catalog.NotFoundError in err's tree.
func missingNames(err error) []string {
	var names []string
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if nf, ok := e.(*catalog.NotFoundError); ok {
			names = append(names, nf.Name)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return names
}

// flatErr prints a joined error on one line for the JSON message.
type flatErr struct{ err error }

func (f flatErr) Error() string { return strings.ReplaceAll(f.err.Error(), "\n", "; ") }
func (f flatErr) Unwrap() error { return f.err }

func flatten(err error) error { return flatErr{err: err} }
