// Package scoring turns a CPU, GPU and motherboard into a bottleneck estimate.
//
// The model compares the two perf scores (same 0-100 scale), maps the gap
// linearly to a percentage, adds two starvation penalties and classifies the
// weaker side. Compute is pure: no I/O, no shared state, bounded arithmetic.
package scoring

import (
	"math"

	"github.com/okian/bottleneck/internal/domain/model"
)

// Model constants. These are policy, not configuration.
const (
	gapToPercent = 0.55

	// MaxPercentage is the global ceiling on any reported bottleneck.
	MaxPercentage = 68.0
	// BalancedCeiling caps the percentage inside the dead zone.
	BalancedCeiling = 7.0
	// DeadZone is the |gap| band, in score points, classified as Balanced.
	DeadZone = 8

	threadCoreLimit = 4
	threadGPUFloor  = 60
	threadRate      = 0.12
	// ThreadPenaltyCap bounds the low-core-count penalty.
	ThreadPenaltyCap = 10.0

	pcieGenLimit = 3
	pcieGPUFloor = 75
	pcieRate     = 0.10
	// PCIePenaltyCap bounds the bus-bandwidth penalty.
	PCIePenaltyCap = 5.0
)

// Side names the component that limits the build.
type Side string

// Sides. GPU means the GPU is the weaker part holding back a stronger CPU.
const (
	SideCPU      Side = "CPU"
	SideGPU      Side = "GPU"
	SideBalanced Side = "Balanced"
)

// Breakdown is the per-factor view of a result, rounded to one decimal.
type Breakdown struct {
	CPUScore      int     `json:"cpu_score"`
	GPUScore      int     `json:"gpu_score"`
	Gap           float64 `json:"gap"`
	ThreadPenalty float64 `json:"thread_penalty"`
	PCIePenalty   float64 `json:"pcie_penalty"`
}

// Raw holds the unrounded figures. Advisory guards compare against these,
// never against the rounded presentation values.
type Raw struct {
	Base          float64
	ThreadPenalty float64
	PCIePenalty   float64
	Total         float64
}

// Result is the outcome of Compute.
type Result struct {
	Percentage float64   `json:"percentage"`
	Side       Side      `json:"side"`
	Severity   Severity  `json:"severity"`
	Breakdown  Breakdown `json:"breakdown"`
	Compatible bool      `json:"compatible"`
	Gap        int       `json:"gap"`
	Raw        Raw       `json:"-"`
}

// Compute estimates the bottleneck for one build. Records are trusted as
// catalog-valid.
func Compute(cpu model.CPU, gpu model.GPU, mb model.Motherboard) Result {
	gap := cpu.PerfScore - gpu.PerfScore
	base := math.Abs(float64(gap)) * gapToPercent
	thread := ThreadPenalty(cpu, gpu)
	pcie := PCIePenalty(gpu, mb)

	total := math.Min(base+thread+pcie, MaxPercentage)
	side := Classify(gap)
	if side == SideBalanced {
		total = math.Min(total, BalancedCeiling)
	}

	return Result{
		Percentage: Round1(total),
		Side:       side,
		Severity:   SeverityOf(side, total),
		Breakdown: Breakdown{
			CPUScore:      cpu.PerfScore,
			GPUScore:      gpu.PerfScore,
			Gap:           Round1(float64(gap)),
			ThreadPenalty: Round1(thread),
			PCIePenalty:   Round1(pcie),
		},
		Compatible: Compatible(cpu, mb),
		Gap:        gap,
		Raw: Raw{
			Base:          base,
			ThreadPenalty: thread,
			PCIePenalty:   pcie,
			Total:         total,
		},
	}
}

// ThreadPenalty models a low-core CPU starving a mid/high-tier GPU.
func ThreadPenalty(cpu model.CPU, gpu model.GPU) float64 {
	if cpu.Cores > threadCoreLimit || gpu.PerfScore < threadGPUFloor {
		return 0
	}
	return math.Min(float64(gpu.PerfScore-threadGPUFloor)*threadRate, ThreadPenaltyCap)
}

// PCIePenalty models a high-end GPU on a PCIe Gen 3 (or older) board.
func PCIePenalty(gpu model.GPU, mb model.Motherboard) float64 {
	if mb.PCIeGen > pcieGenLimit || gpu.PerfScore < pcieGPUFloor {
		return 0
	}
	return math.Min(float64(gpu.PerfScore-pcieGPUFloor)*pcieRate, PCIePenaltyCap)
}

// Classify maps a signed gap (cpu - gpu) to the limiting side.
func Classify(gap int) Side {
	switch {
	case gap > DeadZone:
		return SideGPU
	case gap < -DeadZone:
		return SideCPU
	default:
		return SideBalanced
	}
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
