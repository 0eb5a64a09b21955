package stat

import (
	"math"

	"golang.org/x/exp/slices"
	gonumstat "gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of x, or NaN if x is empty.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return gonumstat.Mean(x, nil)
}

// Quantile returns the p-quantile of the sorted sample x, interpolating linearly between the two nearest
// order statistics (h = (n-1)p; Hyndman and Fan definition 7). It returns NaN if x is empty.
// gonum's stat.Quantile offers only the Empirical and LinInterp (definition 4) estimators.
func Quantile(p float64, x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return x[0]
	}
	if p >= 1 {
		return x[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= n {
		return x[n-1]
	}
	frac := h - float64(lo)
	return x[lo] + frac*(x[lo+1]-x[lo])
}

// Median returns the median of the sorted sample x.
func Median(x []float64) float64 {
	return Quantile(0.5, x)
}

// Sorted returns a sorted copy of x without its NaN values.
func Sorted(x []float64) []float64 {
	sorted := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	slices.Sort(sorted)
	return sorted
}
