package targets

import (
	"math"
	"math/rand/v2"
)

type Weighted struct {
	Weight float64
	Size   SizeClass
}

// SpawnTable gives small/medium/large targets a 20/40/40 split.
var SpawnTable = []Weighted{
	{Weight: 0.2, Size: Small},
	{Weight: 0.4, Size: Medium},
	{Weight: 0.4, Size: Large},
}

// Pick maps r in [0,1) onto table. Buckets are half-open, so with SpawnTable
// r=0.2 is medium and r=0.6 is large.
func Pick(table []Weighted, r float64) SizeClass {
	if len(table) == 0 {
		panic("targets: empty weight table")
	}
	acc := 0.0
	for _, w := range table {
		// rounding keeps 0.2+0.4 from landing a hair above 0.6
		acc = math.Round((acc+w.Weight)*1e9) / 1e9
		if r < acc {
			return w.Size
		}
	}
	return table[len(table)-1].Size
}

// Roll draws a fresh size class from SpawnTable.
func Roll(rng *rand.Rand) SizeClass {
	return Pick(SpawnTable, rng.Float64())
}
