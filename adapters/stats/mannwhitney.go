package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// mannWhitneyU runs a two-sided Mann-Whitney U rank-sum test. The
// returned U is the statistic of the first sample. The p-value uses the
// normal approximation with tie correction and continuity correction.
func mannWhitneyU(g1, g2 []float64) (u, p float64) {
	n1 := float64(len(g1))
	n2 := float64(len(g2))
	n := n1 + n2

	pooled := make([]float64, 0, len(g1)+len(g2))
	pooled = append(pooled, g1...)
	pooled = append(pooled, g2...)
	ranks := computeRanks(pooled)

	r1 := 0.0
	for i := range g1 {
		r1 += ranks[i]
	}

	u = r1 - n1*(n1+1)/2

	mu := n1 * n2 / 2
	tieSum := tieCorrectionSum(pooled)
	variance := n1 * n2 / 12 * ((n + 1) - tieSum/(n*(n-1)))

	if variance <= 0 {
		// All pooled values tied; no evidence either way
		return u, 1.0
	}

	z := u - mu
	// Continuity correction toward the mean
	if z > 0 {
		z -= 0.5
	} else if z < 0 {
		z += 0.5
	}
	z /= math.Sqrt(variance)

	normal := distuv.Normal{Mu: 0, Sigma: 1}
	p = 2 * normal.Survival(math.Abs(z))
	if p > 1 {
		p = 1
	}
	return u, p
}

// rankBiserial computes the rank-biserial correlation effect size
// r = 1 - 2U/(n1*n2).
func rankBiserial(u float64, n1, n2 int) float64 {
	return 1 - (2*u)/(float64(n1)*float64(n2))
}
