package stat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, 1.5, Mean([]float64{1, 2}))
}

func TestQuantile(t *testing.T) {
	tests := map[string]struct {
		p        float64
		x        []float64
		expected float64
	}{
		"single value":         {p: 0.025, x: []float64{7}, expected: 7},
		"median odd":           {p: 0.5, x: []float64{1, 2, 3}, expected: 2},
		"median even":          {p: 0.5, x: []float64{1, 2, 3, 4}, expected: 2.5},
		"lower tail":           {p: 0.025, x: []float64{0, 10}, expected: 0.25},
		"upper tail":           {p: 0.975, x: []float64{0, 10}, expected: 9.75},
		"exact order stat":     {p: 0.25, x: []float64{1, 2, 3, 4, 5}, expected: 2},
		"zero":                 {p: 0, x: []float64{1, 2, 3}, expected: 1},
		"one":                  {p: 1, x: []float64{1, 2, 3}, expected: 3},
		"interpolated hundred": {p: 0.975, x: seq(101), expected: 97.5},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Quantile(tc.p, tc.x), 1e-12)
		})
	}
	assert.True(t, math.IsNaN(Quantile(0.5, nil)))
}

func TestQuantile_Monotone(t *testing.T) {
	x := Sorted([]float64{5, 3, 9, 1, 1, 8, 2})
	prev := math.Inf(-1)
	for p := 0.0; p <= 1.0; p += 0.01 {
		q := Quantile(p, x)
		assert.GreaterOrEqual(t, q, prev)
		prev = q
	}
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 1.5, Median([]float64{1, 2}))
}

func TestSorted(t *testing.T) {
	x := []float64{3, 1, 2}
	assert.Equal(t, []float64{1, 2, 3}, Sorted(x))
	assert.Equal(t, []float64{3, 1, 2}, x)
}

func TestSorted_DropsNaN(t *testing.T) {
	sorted := Sorted([]float64{2, math.NaN(), 1, math.NaN()})
	assert.Equal(t, []float64{1, 2}, sorted)
	assert.Equal(t, 1.5, Median(sorted))
	assert.Empty(t, Sorted([]float64{math.NaN()}))
}

// seq returns 0, 1, ..., n-1.
func seq(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	return x
}
