// Package advisor turns a scored build into ordered, human-readable
// suggestions, including a concrete upgrade for the limiting component.
package advisor

import (
	"github.com/okian/bottleneck/internal/domain/catalog"
	"github.com/okian/bottleneck/internal/domain/model"
	"github.com/okian/bottleneck/internal/domain/scoring"
)

// Code identifies a suggestion independently of its wording.
type Code string

// Suggestion codes, in the order the rules emit them.
const (
	CodeIncompatibleSocket Code = "incompatible_socket"
	CodeGPUBottleneck      Code = "gpu_bottleneck"
	CodeCPUBottleneck      Code = "cpu_bottleneck"
	CodeLowCoreCount       Code = "low_core_count"
	CodePCIeBandwidth      Code = "pcie_bandwidth"
	CodeLowVRAM            Code = "low_vram"
	CodeLowProfile         Code = "low_profile"
	CodeBalanced           Code = "balanced"
	CodeTuningTip          Code = "tuning_tip"
	CodeSolidBuild         Code = "solid_build"
)

// Suggestion is one advisory line.
type Suggestion struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Build is a resolved triple together with its score.
type Build struct {
	CPU         model.CPU
	GPU         model.GPU
	Motherboard model.Motherboard
	Result      scoring.Result
}

// Advice is the composer output. Recommendation is set only when a
// dominant-side advisory was emitted.
type Advice struct {
	Recommendation *Recommendation
	Suggestions    []Suggestion
}

// Rule is one guarded advisory.
type Rule interface {
	Code() Code
	Evaluate(a *Assessment) []Suggestion
}

// Assessment is the state rules read while composing advice. Suggestions
// holds what earlier rules already emitted.
type Assessment struct {
	Build
	Recommendation *Recommendation
	Suggestions    []Suggestion

	set *catalog.Set
}

// Advisor composes suggestions against one catalog set.
type Advisor struct {
	set   *catalog.Set
	rules []Rule
}

// New returns an Advisor that searches recommendations in set.
func New(set *catalog.Set) *Advisor {
	return &Advisor{set: set, rules: DefaultRules()}
}

// DefaultRules returns the advisories in emission order.
func DefaultRules() []Rule {
	return []Rule{
		&RuleIncompatibleSocket{},
		&RuleDominantSide{},
		&RuleLowCoreCount{},
		&RulePCIeBandwidth{},
		&RuleLowVRAM{},
		&RuleLowProfile{},
		&RuleBalanced{},
		&RuleSolidBuild{},
	}
}

// Advise runs every rule in order. The result always holds at least one
// suggestion.
func (a *Advisor) Advise(b Build) Advice {
	as := &Assessment{Build: b, set: a.set}
	for _, r := range a.rules {
		as.Suggestions = append(as.Suggestions, r.Evaluate(as)...)
	}
	return Advice{Recommendation: as.Recommendation, Suggestions: as.Suggestions}
}
