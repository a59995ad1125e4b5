package stats

import (
	"sort"

	"golikert/domain/plan"
	"golikert/domain/survey"
)

// ApplyFDRCorrection adjusts the non-null p-values of the confirmatory
// result set in place, filling PAdj and touching nothing else. With
// zero or one non-null p-value no correction is meaningful and each
// p-value is its own adjusted value.
func ApplyFDRCorrection(results []*survey.ConfirmatoryResult, settings plan.FDRSettings) {
	raw := make([]float64, 0, len(results))
	for _, r := range results {
		if r.P != nil {
			raw = append(raw, *r.P)
		}
	}

	if len(raw) <= 1 {
		for _, r := range results {
			if r.P != nil {
				adj := *r.P
				r.PAdj = &adj
			}
		}
		return
	}

	adjusted := Adjust(raw, settings.Method)

	idx := 0
	for _, r := range results {
		if r.P != nil {
			adj := adjusted[idx]
			r.PAdj = &adj
			idx++
		}
	}
}

// Adjust computes adjusted p-values for the chosen method, preserving
// the input order. Adjusted values are always >= the raw values and
// clamped to 1.
func Adjust(ps []float64, method plan.FDRMethod) []float64 {
	switch method {
	case plan.MethodBonferroni:
		return adjustBonferroni(ps)
	case plan.MethodHolm:
		return adjustHolm(ps)
	default:
		return adjustBH(ps)
	}
}

func adjustBonferroni(ps []float64) []float64 {
	m := float64(len(ps))
	adjusted := make([]float64, len(ps))
	for i, p := range ps {
		adjusted[i] = clamp(p * m)
	}
	return adjusted
}

// adjustHolm is the step-down method: sort ascending, scale the i-th
// smallest by (m-i), and keep the running maximum so adjusted values
// never decrease along the sorted order.
func adjustHolm(ps []float64) []float64 {
	m := len(ps)
	order := sortedOrder(ps)

	adjusted := make([]float64, m)
	runningMax := 0.0
	for i, origIdx := range order {
		candidate := float64(m-i) * ps[origIdx]
		if candidate > runningMax {
			runningMax = candidate
		}
		adjusted[origIdx] = clamp(runningMax)
	}
	return adjusted
}

// adjustBH is the Benjamini-Hochberg step-up method: sort ascending,
// scale the i-th smallest by m/(i+1), and enforce monotonicity from the
// largest down.
func adjustBH(ps []float64) []float64 {
	m := len(ps)
	order := sortedOrder(ps)

	scaled := make([]float64, m)
	for i, origIdx := range order {
		scaled[i] = float64(m) / float64(i+1) * ps[origIdx]
	}

	// Running minimum from the tail keeps adjusted values monotone
	runningMin := 1.0
	adjusted := make([]float64, m)
	for i := m - 1; i >= 0; i-- {
		if scaled[i] < runningMin {
			runningMin = scaled[i]
		}
		adjusted[order[i]] = clamp(runningMin)
	}
	return adjusted
}

// sortedOrder returns the original indices of ps in ascending p order.
// Ties keep their original relative order for determinism.
func sortedOrder(ps []float64) []int {
	order := make([]int, len(ps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ps[order[a]] < ps[order[b]]
	})
	return order
}

func clamp(p float64) float64 {
	if p > 1 {
		return 1
	}
	return p
}
