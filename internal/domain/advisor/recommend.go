package advisor

import (
	"fmt"
	"iter"

	"github.com/okian/bottleneck/internal/domain/model"
)

const (
	// recommendSlack is how far below the target a candidate may score.
	recommendSlack = 6
	maxTarget      = 100

	gpuFallback = "a higher-tier GPU"
)

// Recommendation is the upgrade named in a dominant-side advisory.
type Recommendation struct {
	Kind     model.Kind `json:"kind"`
	Name     string     `json:"name"`
	Fallback bool       `json:"fallback"`
}

// RecommendGPU finds the GPU that best matches a CPU scoring target.
// Candidates must score at least target-6 and must not be the current card.
// The smallest |perf - target| wins; ties go to the earliest in gpus.
func RecommendGPU(gpus iter.Seq[model.GPU], target int, current string) Recommendation {
	target = min(target, maxTarget)
	best, found := nearest(gpus, target, func(g model.GPU) (int, bool) {
		return g.PerfScore, g.Name != current
	})
	if !found {
		return Recommendation{Kind: model.KindGPU, Name: gpuFallback, Fallback: true}
	}
	return Recommendation{Kind: model.KindGPU, Name: best.Name}
}

// RecommendCPU finds the CPU that best matches a GPU scoring target and fits
// the given socket. Same rules as RecommendGPU otherwise.
func RecommendCPU(cpus iter.Seq[model.CPU], target int, current, socket string) Recommendation {
	target = min(target, maxTarget)
	best, found := nearest(cpus, target, func(c model.CPU) (int, bool) {
		return c.PerfScore, c.Name != current && c.Socket == socket
	})
	if !found {
		return Recommendation{
			Kind:     model.KindCPU,
			Name:     fmt.Sprintf("a stronger CPU (socket %s)", socket),
			Fallback: true,
		}
	}
	return Recommendation{Kind: model.KindCPU, Name: best.Name}
}

// nearest is a single pass with a strict comparison, so the first of several
// equally distant candidates is kept.
func nearest[T any](seq iter.Seq[T], target int, eligible func(T) (int, bool)) (T, bool) {
	var (
		best     T
		bestDist = -1
	)
	for item := range seq {
		perf, ok := eligible(item)
		if !ok || perf < target-recommendSlack {
			continue
		}
		dist := abs(perf - target)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = item, dist
		}
	}
	return best, bestDist >= 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
