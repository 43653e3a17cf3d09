// Package types contains the request and response shapes shared by the
// HTTP and MCP adapters.
package types

import (
	"strings"

	"github.com/okian/bottleneck/internal/domain/advisor"
	"github.com/okian/bottleneck/internal/domain/scoring"
)

// BuildRequest names the three components of a build.
type BuildRequest struct {
	CPU         string `json:"cpu"`
	GPU         string `json:"gpu"`
	Motherboard string `json:"motherboard"`
}

// Missing returns the JSON names of the fields left blank, in field order.
func (r BuildRequest) Missing() []string {
	var missing []string
	if strings.TrimSpace(r.CPU) == "" {
		missing = append(missing, "cpu")
	}
	if strings.TrimSpace(r.GPU) == "" {
		missing = append(missing, "gpu")
	}
	if strings.TrimSpace(r.Motherboard) == "" {
		missing = append(missing, "motherboard")
	}
	return missing
}

// Report is the full analysis of one build.
type Report struct {
	CPU            string                  `json:"cpu"`
	GPU            string                  `json:"gpu"`
	Motherboard    string                  `json:"motherboard"`
	Percentage     float64                 `json:"percentage"`
	Side           scoring.Side            `json:"side"`
	Severity       scoring.Severity        `json:"severity"`
	Compatible     bool                    `json:"compatible"`
	Gap            int                     `json:"gap"`
	Breakdown      scoring.Breakdown       `json:"breakdown"`
	Recommendation *advisor.Recommendation `json:"recommendation,omitempty"`
	Suggestions    []advisor.Suggestion    `json:"suggestions"`
}

// SuggestionCodes lists the codes of the report's suggestions in order.
func (r Report) SuggestionCodes() []advisor.Code {
	codes := make([]advisor.Code, len(r.Suggestions))
	for i, s := range r.Suggestions {
		codes[i] = s.Code
	}
	return codes
}

// Stats summarises the running service.
type Stats struct {
	Catalog  map[string]int `json:"catalog"`
	Analyses int64          `json:"analyses"`
	Version  string         `json:"version"`
	Started  bool           `json:"started"`
}
