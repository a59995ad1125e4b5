// Package stats implements the descriptive and confirmatory statistics
// of the pipeline: per-item summaries, the Spearman matrix, the
// rank-based group tests and the multiple-comparison corrector.
package stats

import (
	"sort"
)

// computeRanks converts values to ranks (1-based), averaging ties.
func computeRanks(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return []float64{}
	}

	type pair struct {
		value float64
		index int
	}

	pairs := make([]pair, n)
	for i, val := range data {
		pairs[i] = pair{value: val, index: i}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)

	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}

		// Average rank across the tie group
		groupSize := j - i
		avgRank := float64(i+1) + float64(groupSize-1)/2.0

		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}

		i = j
	}

	return ranks
}

// tieCorrectionSum computes Σ(t³-t) over the tie groups of a sample,
// the shared term of the Mann-Whitney variance and Kruskal-Wallis
// corrections.
func tieCorrectionSum(data []float64) float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	sum := 0.0
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		t := float64(j - i)
		if t > 1 {
			sum += t*t*t - t
		}
		i = j
	}
	return sum
}
