package resample

import (
	"github.com/armadaproject/bootstats/internal/bootstats/table"
)

// IndexSource yields uniformly distributed integers in [0, n). *rand.Rand satisfies it.
type IndexSource interface {
	Intn(n int) int
}

// Resampler draws one bootstrap sample from a table.
type Resampler interface {
	Resample(t *table.Table) *table.Table
}

// RandomResampler samples rows uniformly with replacement.
type RandomResampler struct {
	source IndexSource
}

func New(source IndexSource) *RandomResampler {
	return &RandomResampler{source: source}
}

// Resample returns a table with as many rows as t, each drawn independently and uniformly from t's rows.
// t is left untouched. An empty table yields an empty sample.
func (r *RandomResampler) Resample(t *table.Table) *table.Table {
	return t.Take(Indices(r.source, t.NumRows()))
}

// Indices draws n row indices from [0, n) with replacement.
func Indices(source IndexSource, n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = source.Intn(n)
	}
	return indices
}
