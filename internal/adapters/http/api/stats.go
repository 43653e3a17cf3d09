package api

import (
	"net/http"

	"github.com/okian/bottleneck/internal/adapters/updates"
	"github.com/okian/bottleneck/internal/domain/types"
	"github.com/okian/bottleneck/internal/version"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() types.Stats
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}

// VersionHandler reports build metadata and the last update check.
type VersionHandler struct {
	updates UpdateStatusProvider
}

// NewVersionHandler creates a version handler. p may be nil when update
// checks are disabled.
func NewVersionHandler(p UpdateStatusProvider) *VersionHandler {
	return &VersionHandler{updates: p}
}

type versionResponse struct {
	Build  map[string]string `json:"build"`
	Update *updates.Status   `json:"update,omitempty"`
}

// HandleVersion handles GET /version requests.
func (h *VersionHandler) HandleVersion(w http.ResponseWriter, r *http.Request) {
	resp := versionResponse{Build: version.Map()}
	if h.updates != nil {
		st := h.updates.Last()
		resp.Update = &st
	}
	writeJSON(w, http.StatusOK, resp)
}
