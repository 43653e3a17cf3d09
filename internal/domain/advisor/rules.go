package advisor

import (
	"fmt"

	"github.com/okian/bottleneck/internal/domain/scoring"
)

// Advisory guards. They compare against unrounded figures.
const (
	dominantFloor   = 10.0
	threadAdvisory  = 3.0
	pcieAdvisory    = 1.0
	lowVRAMBelowGB  = 8
	lowVRAMPerfFrom = 45
)

// RuleIncompatibleSocket warns when the CPU socket does not fit the board.
type RuleIncompatibleSocket struct{}

// Code implements Rule.
func (r *RuleIncompatibleSocket) Code() Code { return CodeIncompatibleSocket }

// Evaluate fires when the sockets differ.
func (r *RuleIncompatibleSocket) Evaluate(a *Assessment) []Suggestion {
	if a.Result.Compatible {
		return nil
	}
	return one(r.Code(), "INCOMPATIBLE: %s uses socket %s but %s requires socket %s. This system will NOT boot.",
		a.CPU.Name, a.CPU.Socket, a.Motherboard.Name, a.Motherboard.Socket)
}

// RuleDominantSide explains a clear bottleneck and names an upgrade for the
// weaker part. It also sets the assessment's Recommendation.
type RuleDominantSide struct{}

// Code implements Rule.
func (r *RuleDominantSide) Code() Code { return "dominant_side" }

// Evaluate fires when one side limits the build by at least 10%.
func (r *RuleDominantSide) Evaluate(a *Assessment) []Suggestion {
	if a.Result.Raw.Total < dominantFloor {
		return nil
	}
	pct := a.Result.Raw.Total
	switch a.Result.Side {
	case scoring.SideGPU:
		rec := RecommendGPU(a.set.GPUs.All(), a.CPU.PerfScore, a.GPU.Name)
		a.Recommendation = &rec
		return one(CodeGPUBottleneck,
			"GPU bottleneck (%.0f%%): your %s (CPU score %d) is significantly stronger than your %s (GPU score %d). "+
				"The GPU is the limiting factor. Upgrading to %s would balance this build.",
			pct, a.CPU.Name, a.CPU.PerfScore, a.GPU.Name, a.GPU.PerfScore, phrase(rec))
	case scoring.SideCPU:
		rec := RecommendCPU(a.set.CPUs.All(), a.GPU.PerfScore, a.CPU.Name, a.Motherboard.Socket)
		a.Recommendation = &rec
		return one(CodeCPUBottleneck,
			"CPU bottleneck (%.0f%%): your %s (GPU score %d) is significantly stronger than your %s (CPU score %d). "+
				"Upgrade to %s to unleash your GPU.",
			pct, a.GPU.Name, a.GPU.PerfScore, a.CPU.Name, a.CPU.PerfScore, phrase(rec))
	default:
		return nil
	}
}

// RuleLowCoreCount flags a CPU with too few cores for a strong GPU.
type RuleLowCoreCount struct{}

// Code implements Rule.
func (r *RuleLowCoreCount) Code() Code { return CodeLowCoreCount }

// Evaluate fires when the thread penalty exceeds 3 points.
func (r *RuleLowCoreCount) Evaluate(a *Assessment) []Suggestion {
	if a.Result.Raw.ThreadPenalty <= threadAdvisory {
		return nil
	}
	return one(r.Code(), "Low core count (%d cores): modern game engines need 6-8+ cores. "+
		"Your CPU may cause stuttering with this GPU.", a.CPU.Cores)
}

// RulePCIeBandwidth flags a Gen 3 or older board holding back a high-end GPU.
type RulePCIeBandwidth struct{}

// Code implements Rule.
func (r *RulePCIeBandwidth) Code() Code { return CodePCIeBandwidth }

// Evaluate fires when the PCIe penalty exceeds 1 point.
func (r *RulePCIeBandwidth) Evaluate(a *Assessment) []Suggestion {
	if a.Result.Raw.PCIePenalty <= pcieAdvisory {
		return nil
	}
	return one(r.Code(), "PCIe Gen %d bandwidth may limit your high-end GPU. "+
		"A PCIe Gen 4 or Gen 5 board removes this constraint.", a.Motherboard.PCIeGen)
}

// RuleLowVRAM flags a capable GPU with less than 8 GB of memory.
type RuleLowVRAM struct{}

// Code implements Rule.
func (r *RuleLowVRAM) Code() Code { return CodeLowVRAM }

// Evaluate fires for GPUs scoring 45 or more with under 8 GB.
func (r *RuleLowVRAM) Evaluate(a *Assessment) []Suggestion {
	if a.GPU.VRAMGB >= lowVRAMBelowGB || a.GPU.PerfScore < lowVRAMPerfFrom {
		return nil
	}
	return one(r.Code(), "Only %d GB VRAM: modern titles at 1440p/4K often need 10-12+ GB. "+
		"Expect texture pop-in or VRAM overflow stutters.", a.GPU.VRAMGB)
}

// RuleLowProfile reminds the builder about low profile case and cooling limits.
type RuleLowProfile struct{}

// Code implements Rule.
func (r *RuleLowProfile) Code() Code { return CodeLowProfile }

// Evaluate fires for low profile cards.
func (r *RuleLowProfile) Evaluate(a *Assessment) []Suggestion {
	if !a.GPU.LowProfile {
		return nil
	}
	return one(r.Code(), "Low profile GPU: make sure your case supports LP cards. "+
		"LP GPUs typically have reduced cooling headroom, so keep good airflow.")
}

// RuleBalanced emits two entries: the verdict and a tuning tip.
type RuleBalanced struct{}

// Code implements Rule.
func (r *RuleBalanced) Code() Code { return CodeBalanced }

// Evaluate fires only for balanced builds.
func (r *RuleBalanced) Evaluate(a *Assessment) []Suggestion {
	if a.Result.Side != scoring.SideBalanced {
		return nil
	}
	gap := a.Result.Gap
	if gap < 0 {
		gap = -gap
	}
	return []Suggestion{
		{
			Code: CodeBalanced,
			Message: fmt.Sprintf("Well-matched build! %s (%d) and %s (%d) are within %d pts; "+
				"neither component is significantly limiting the other.",
				a.CPU.Name, a.CPU.PerfScore, a.GPU.Name, a.GPU.PerfScore, gap),
		},
		{
			Code: CodeTuningTip,
			Message: "Enable XMP/EXPO in BIOS, use a fast NVMe SSD (PCIe 4.0+) and keep good case airflow " +
				"to squeeze out maximum performance.",
		},
	}
}

// RuleSolidBuild is the fallback when no earlier rule had anything to say.
type RuleSolidBuild struct{}

// Code implements Rule.
func (r *RuleSolidBuild) Code() Code { return CodeSolidBuild }

// Evaluate fires only when no suggestion was added before it.
func (r *RuleSolidBuild) Evaluate(a *Assessment) []Suggestion {
	if len(a.Suggestions) > 0 {
		return nil
	}
	return one(r.Code(), "Solid build. Fast RAM and NVMe SSD will complete the picture.")
}

func one(code Code, format string, args ...any) []Suggestion {
	return []Suggestion{{Code: code, Message: fmt.Sprintf(format, args...)}}
}

// phrase renders a recommendation for use after "upgrade to".
func phrase(rec Recommendation) string {
	if rec.Fallback {
		return rec.Name
	}
	return "the " + rec.Name
}
