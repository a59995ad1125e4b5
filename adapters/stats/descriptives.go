package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"golikert/domain/survey"
)

// ComputeDescriptives summarizes every universe item, in universe
// order. Items absent from the encoded table (or with zero valid
// responses) get the degenerate row: NaN median, nil mode, zero
// proportions.
func ComputeDescriptives(encoded *survey.EncodedTable, items []string, flagThreshold float64) []survey.DescriptiveRow {
	results := make([]survey.DescriptiveRow, 0, len(items))
	totalRows := encoded.NRows

	for _, item := range items {
		valid := encoded.ValidValues(item)
		n := len(valid)

		missingPct := 0.0
		if totalRows > 0 {
			missingPct = float64(totalRows-n) / float64(totalRows)
		}

		row := survey.DescriptiveRow{
			ItemID:             item,
			N:                  n,
			MissingPct:         missingPct,
			Median:             math.NaN(),
			FlaggedMissingness: missingPct > flagThreshold,
		}

		if n > 0 {
			median, err := mstats.Median(valid)
			if err == nil {
				row.Median = median
			}
			mode := computeMode(valid)
			row.Mode = &mode
			row.LevelPcts = levelProportions(valid)
		}

		results = append(results, row)
	}

	return results
}

// computeMode returns the most frequent value. Ties break toward the
// smallest value; ordinal encoding compares ascending.
func computeMode(values []float64) float64 {
	counts := make(map[float64]int, 5)
	for _, v := range values {
		counts[v]++
	}

	best := math.Inf(1)
	bestCount := 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best = v
			bestCount = c
		}
	}
	return best
}

// levelProportions counts the share of each ordinal level 1..5 among
// valid responses. Levels absent from the data contribute 0.
func levelProportions(values []float64) [5]float64 {
	var pcts [5]float64
	if len(values) == 0 {
		return pcts
	}

	for _, v := range values {
		for level := 1; level <= 5; level++ {
			if v == float64(level) {
				pcts[level-1]++
				break
			}
		}
	}

	n := float64(len(values))
	for i := range pcts {
		pcts[i] /= n
	}
	return pcts
}
