package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"golikert/domain/plan"
	"golikert/domain/survey"
)

// ResolveCorrelationItems resolves the item list for the configured
// correlation scope. indices_only yields the declared index identifiers,
// which is empty when no indices exist; that is an empty matrix, not an
// error.
func ResolveCorrelationItems(p *plan.AnalysisPlan) []string {
	switch p.Correlations.Scope {
	case plan.ScopeAllItems:
		return p.ItemsUniverse
	case plan.ScopeIndicesOnly:
		return p.IndexIDs()
	case plan.ScopeIndicesAndItems:
		return p.Correlations.ItemsExplicit
	}
	return nil
}

// ComputeCorrelations builds the pairwise Spearman rank-correlation
// matrix over the resolved items that are present in the encoded table.
// Each pair uses pairwise-complete observations, not row-complete-case.
func ComputeCorrelations(encoded *survey.EncodedTable, p *plan.AnalysisPlan) *survey.CorrelationMatrix {
	resolved := ResolveCorrelationItems(p)

	available := make([]string, 0, len(resolved))
	for _, item := range resolved {
		if encoded.HasColumn(item) {
			available = append(available, item)
		}
	}

	if len(available) == 0 {
		return &survey.CorrelationMatrix{}
	}

	k := len(available)
	values := make([][]float64, k)
	for i := range values {
		values[i] = make([]float64, k)
		values[i][i] = 1.0
	}

	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			rho := spearmanPairwise(encoded.Columns[available[i]], encoded.Columns[available[j]])
			values[i][j] = rho
			values[j][i] = rho
		}
	}

	return &survey.CorrelationMatrix{Items: available, Values: values}
}

// spearmanPairwise computes Spearman's rho over the rows where both
// columns are non-missing: rank both restricted samples, then Pearson
// over the ranks. Fewer than two complete pairs, or a constant column,
// yields NaN.
func spearmanPairwise(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if !math.IsNaN(x[i]) && !math.IsNaN(y[i]) {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}

	if len(xs) < 2 {
		return math.NaN()
	}

	xr := computeRanks(xs)
	yr := computeRanks(ys)

	rho := stat.Correlation(xr, yr, nil)

	// Clamp floating noise back into [-1, 1]
	if rho > 1.0 {
		rho = 1.0
	} else if rho < -1.0 {
		rho = -1.0
	}
	return rho
}
