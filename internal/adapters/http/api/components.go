package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/bottleneck/internal/domain/model"
)

// ComponentDependencies defines the catalog read operations.
type ComponentDependencies interface {
	Search(ctx context.Context, kind model.Kind, query string, limit int) ([]model.Named, error)
	Lookup(ctx context.Context, kind model.Kind, name string) (model.Named, error)
}

// ComponentsHandler serves one catalog kind.
type ComponentsHandler struct {
	deps ComponentDependencies
	kind model.Kind
}

// NewComponentsHandler creates a handler for the given kind.
func NewComponentsHandler(deps ComponentDependencies, kind model.Kind) *ComponentsHandler {
	return &ComponentsHandler{deps: deps, kind: kind}
}

type listResponse struct {
	Kind  model.Kind    `json:"kind"`
	Query string        `json:"query,omitempty"`
	Count int           `json:"count"`
	Items []model.Named `json:"items"`
}

// HandleList handles GET /cpus, /gpus and /motherboards with optional
// ?q= substring filter and ?limit= cap.
func (h *ComponentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_components"

	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request",
				WrapKind(op, ErrBadRequest, errors.New("limit must be a non-negative integer")))
			return
		}
		limit = n
	}

	query := strings.TrimSpace(q.Get("q"))
	items, err := h.deps.Search(r.Context(), h.kind, query, limit)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Kind: h.kind, Query: query, Count: len(items), Items: items})
}

// HandleLookup handles GET /{kind}s/{name} requests.
func (h *ComponentsHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	const op = "api.lookup_component"

	name := r.PathValue("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing name")))
		return
	}
	rec, err := h.deps.Lookup(r.Context(), h.kind, name)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
