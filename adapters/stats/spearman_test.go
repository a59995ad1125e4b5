package stats

import (
	"math"
	"testing"

	"golikert/domain/plan"
	"golikert/domain/survey"
)

func TestSpearmanPairwise_PerfectMonotone(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y := []float64{2, 4, 6, 8, 10, 12, 14, 16}

	rho := spearmanPairwise(x, y)
	if math.Abs(rho-1.0) > 1e-9 {
		t.Errorf("Expected rho 1 for perfect monotone increase, got %g", rho)
	}

	yDesc := []float64{16, 14, 12, 10, 8, 6, 4, 2}
	rho = spearmanPairwise(x, yDesc)
	if math.Abs(rho+1.0) > 1e-9 {
		t.Errorf("Expected rho -1 for perfect monotone decrease, got %g", rho)
	}
}

func TestSpearmanPairwise_PairwiseComplete(t *testing.T) {
	// Rows 1 and 3 are incomplete; the remaining pairs are perfectly
	// monotone, so rho is 1 despite the holes.
	x := []float64{1, math.NaN(), 3, 4, 5}
	y := []float64{2, 7, 6, math.NaN(), 10}

	rho := spearmanPairwise(x, y)
	if math.Abs(rho-1.0) > 1e-9 {
		t.Errorf("Expected rho 1 over complete pairs only, got %g", rho)
	}
}

func TestSpearmanPairwise_TooFewPairs(t *testing.T) {
	x := []float64{1, math.NaN(), math.NaN()}
	y := []float64{2, 3, math.NaN()}

	rho := spearmanPairwise(x, y)
	if !math.IsNaN(rho) {
		t.Errorf("Expected NaN with fewer than 2 complete pairs, got %g", rho)
	}
}

func TestResolveCorrelationItems_Scopes(t *testing.T) {
	p := &plan.AnalysisPlan{
		ItemsUniverse: []string{"q1", "q2", "q3"},
		Indices: []plan.IndexConfig{
			{ID: "idx_trust", Items: []string{"q1", "q2"}},
		},
		Correlations: plan.CorrelationsConfig{
			Scope:         plan.ScopeIndicesAndItems,
			ItemsExplicit: []string{"idx_trust", "q3"},
		},
	}

	p.Correlations.Scope = plan.ScopeAllItems
	if got := ResolveCorrelationItems(p); len(got) != 3 {
		t.Errorf("all_items should resolve the universe, got %v", got)
	}

	p.Correlations.Scope = plan.ScopeIndicesOnly
	if got := ResolveCorrelationItems(p); len(got) != 1 || got[0] != "idx_trust" {
		t.Errorf("indices_only should resolve index ids, got %v", got)
	}

	p.Correlations.Scope = plan.ScopeIndicesAndItems
	if got := ResolveCorrelationItems(p); len(got) != 2 {
		t.Errorf("indices_and_items should resolve items_explicit, got %v", got)
	}
}

func TestComputeCorrelations_MatrixShape(t *testing.T) {
	encoded := &survey.EncodedTable{
		NRows: 6,
		Columns: map[string][]float64{
			"q1": {1, 2, 3, 4, 5, 5},
			"q2": {2, 2, 3, 5, 4, 5},
		},
	}
	p := &plan.AnalysisPlan{
		ItemsUniverse: []string{"q1", "q2"},
		Correlations:  plan.CorrelationsConfig{Scope: plan.ScopeAllItems},
	}

	matrix := ComputeCorrelations(encoded, p)

	if len(matrix.Items) != 2 {
		t.Fatalf("Expected 2 items in matrix, got %d", len(matrix.Items))
	}
	if matrix.At(0, 0) != 1.0 || matrix.At(1, 1) != 1.0 {
		t.Error("Diagonal must be 1.0")
	}
	if matrix.At(0, 1) != matrix.At(1, 0) {
		t.Errorf("Matrix must be symmetric: %g vs %g", matrix.At(0, 1), matrix.At(1, 0))
	}
	if rho := matrix.At(0, 1); rho < -1 || rho > 1 {
		t.Errorf("Correlation outside [-1, 1]: %g", rho)
	}
}

func TestComputeCorrelations_IndicesOnlyEmptyMatrix(t *testing.T) {
	// Index ids never exist as data columns, so indices_only resolves to
	// an empty matrix rather than an error.
	encoded := &survey.EncodedTable{
		NRows:   3,
		Columns: map[string][]float64{"q1": {1, 2, 3}},
	}
	p := &plan.AnalysisPlan{
		ItemsUniverse: []string{"q1"},
		Indices: []plan.IndexConfig{
			{ID: "idx_trust", Items: []string{"q1"}},
		},
		Correlations: plan.CorrelationsConfig{Scope: plan.ScopeIndicesOnly},
	}

	matrix := ComputeCorrelations(encoded, p)
	if !matrix.IsEmpty() {
		t.Errorf("Expected empty matrix for indices_only scope, got %v", matrix.Items)
	}
}
