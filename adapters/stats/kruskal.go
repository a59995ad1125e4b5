package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// kruskalWallisH runs the Kruskal-Wallis H test across the given
// groups. H carries the tie correction; the p-value is the chi-squared
// upper tail with k-1 degrees of freedom.
func kruskalWallisH(groups [][]float64) (h, p float64) {
	k := len(groups)

	total := 0
	for _, g := range groups {
		total += len(g)
	}
	n := float64(total)

	pooled := make([]float64, 0, total)
	for _, g := range groups {
		pooled = append(pooled, g...)
	}
	ranks := computeRanks(pooled)

	// Sum of ranks per group, walking the pooled layout
	h = 0.0
	offset := 0
	for _, g := range groups {
		rSum := 0.0
		for i := range g {
			rSum += ranks[offset+i]
		}
		h += rSum * rSum / float64(len(g))
		offset += len(g)
	}
	h = 12/(n*(n+1))*h - 3*(n+1)

	// Tie correction
	correction := 1 - tieCorrectionSum(pooled)/(n*n*n-n)
	if correction <= 0 {
		// Every pooled value identical
		return 0, 1.0
	}
	h /= correction

	chi2 := distuv.ChiSquared{K: float64(k - 1)}
	p = chi2.Survival(h)
	if p > 1 {
		p = 1
	}
	if math.IsNaN(p) {
		p = 1
	}
	return h, p
}

// epsilonSquared computes the Kruskal-Wallis effect size H/(N-1).
// Undefined for N <= 1.
func epsilonSquared(h float64, n int) *float64 {
	if n <= 1 {
		return nil
	}
	e := h / float64(n-1)
	return &e
}
