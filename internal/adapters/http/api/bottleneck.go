package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/bottleneck/internal/domain/types"
)

const maxBodyBytes = 64 << 10

// BottleneckDependencies defines the analysis operation.
type BottleneckDependencies interface {
	Analyze(ctx context.Context, req types.BuildRequest) (types.Report, error)
}

// BottleneckHandler handles build analysis requests.
type BottleneckHandler struct {
	deps BottleneckDependencies
}

// NewBottleneckHandler creates a new bottleneck handler.
func NewBottleneckHandler(deps BottleneckDependencies) *BottleneckHandler {
	return &BottleneckHandler{deps: deps}
}

// HandlePost handles POST /bottleneck with a JSON BuildRequest body.
func (h *BottleneckHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_bottleneck"

	var req types.BuildRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.analyze(w, r, op, req)
}

// HandleQuery handles GET /bottleneck?cpu=&gpu=&motherboard=.
func (h *BottleneckHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.analyze(w, r, "api.get_bottleneck", types.BuildRequest{
		CPU:         q.Get("cpu"),
		GPU:         q.Get("gpu"),
		Motherboard: q.Get("motherboard"),
	})
}

func (h *BottleneckHandler) analyze(w http.ResponseWriter, r *http.Request, op string, req types.BuildRequest) {
	report, err := h.deps.Analyze(r.Context(), req)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
