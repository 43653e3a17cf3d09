package loadcheck

import (
	"math/rand/v2"

	"github.com/okian/bottleneck/internal/domain/catalog"
	"github.com/okian/bottleneck/internal/domain/types"
)

// Generate returns n random builds drawn from set. Boards are picked
// independently of the CPU, so roughly the share of mismatched sockets in
// the catalog comes out incompatible.
func Generate(set *catalog.Set, n int, seed uint64) []types.BuildRequest {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	cpus := set.CPUs.Names()
	gpus := set.GPUs.Names()
	boards := set.Motherboards.Names()

	builds := make([]types.BuildRequest, n)
	for i := range builds {
		builds[i] = types.BuildRequest{
			CPU:         cpus[rng.IntN(len(cpus))],
			GPU:         gpus[rng.IntN(len(gpus))],
			Motherboard: boards[rng.IntN(len(boards))],
		}
	}
	return builds
}
