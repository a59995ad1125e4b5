package stats

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	mstats "github.com/montanaflynn/stats"

	"golikert/domain/plan"
	"golikert/domain/survey"
)

// Note texts are an external contract: downstream reports match on
// them. Keep the wording stable.
const (
	noteNoTests         = "No confirmatory tests defined"
	noteDescriptiveOnly = "Descriptive only (median)"
	noteIVNotFound      = "IV column not found"
)

// RunConfirmatoryTests executes every declared test against the
// filtered table. Exactly one result is appended per declared test; a
// data problem becomes a soft failure recorded in the note, never an
// error. With zero tests configured a single placeholder result is
// returned.
func RunConfirmatoryTests(table *survey.Table, encoded *survey.EncodedTable, p *plan.AnalysisPlan) []*survey.ConfirmatoryResult {
	if len(p.ConfirmatoryTests) == 0 {
		return []*survey.ConfirmatoryResult{{
			TestID:  "none",
			DV:      "N/A",
			Outcome: survey.OutcomeNoTests,
			N:       len(table.Rows),
			Note:    noteNoTests,
		}}
	}

	minN := p.GatingThresholds.MinGroupN
	results := make([]*survey.ConfirmatoryResult, 0, len(p.ConfirmatoryTests))

	for _, test := range p.ConfirmatoryTests {
		switch test.TestType {
		case plan.TestMannWhitney:
			results = append(results, runMannWhitney(table, encoded, test, minN))
		case plan.TestKruskalWallis:
			results = append(results, runKruskalWallis(table, encoded, test, minN))
		default:
			results = append(results, runDescriptive(table, encoded, test))
		}
	}

	return results
}

func runDescriptive(table *survey.Table, encoded *survey.EncodedTable, test plan.ConfirmatoryTest) *survey.ConfirmatoryResult {
	values, ok := dvColumn(table, encoded, test.DV)
	if !ok {
		return &survey.ConfirmatoryResult{
			TestID:  test.ID,
			DV:      test.DV,
			Outcome: survey.OutcomeFailed,
			Note:    fmt.Sprintf("DV column not found: %s", test.DV),
		}
	}

	valid := dropNaN(values)
	result := &survey.ConfirmatoryResult{
		TestID:  test.ID,
		DV:      test.DV,
		Outcome: survey.OutcomeOK,
		N:       len(valid),
		Note:    noteDescriptiveOnly,
	}
	if len(valid) > 0 {
		if median, err := mstats.Median(valid); err == nil {
			result.Statistic = &median
		}
	}
	return result
}

func runMannWhitney(table *survey.Table, encoded *survey.EncodedTable, test plan.ConfirmatoryTest, minN int) *survey.ConfirmatoryResult {
	result := &survey.ConfirmatoryResult{
		TestID: test.ID,
		DV:     test.DV,
		IV:     test.IVGrouping,
	}

	groups, names, ok := partitionGroups(table, encoded, test)
	if !ok {
		result.Outcome = survey.OutcomeFailed
		result.Note = noteIVNotFound
		return result
	}

	if len(names) != 2 {
		result.Outcome = survey.OutcomeFailed
		result.Note = fmt.Sprintf("Mann-Whitney requires exactly 2 groups, found %d", len(names))
		return result
	}

	g1 := dropNaN(groups[names[0]])
	g2 := dropNaN(groups[names[1]])

	if len(g1) < minN || len(g2) < minN {
		result.Outcome = survey.OutcomeSkipped
		result.N = len(g1) + len(g2)
		result.Note = fmt.Sprintf("Skipped: group n < %d", minN)
		return result
	}

	u, pVal := mannWhitneyU(g1, g2)
	r := rankBiserial(u, len(g1), len(g2))

	result.Outcome = survey.OutcomeOK
	result.Statistic = &u
	result.P = &pVal
	result.EffectSize = &r
	result.N = len(g1) + len(g2)
	result.Note = fmt.Sprintf("Mann-Whitney U (groups: %s vs %s)", names[0], names[1])
	return result
}

func runKruskalWallis(table *survey.Table, encoded *survey.EncodedTable, test plan.ConfirmatoryTest, minN int) *survey.ConfirmatoryResult {
	result := &survey.ConfirmatoryResult{
		TestID: test.ID,
		DV:     test.DV,
		IV:     test.IVGrouping,
	}

	groups, names, ok := partitionGroups(table, encoded, test)
	if !ok {
		result.Outcome = survey.OutcomeFailed
		result.Note = noteIVNotFound
		return result
	}

	// Retain only groups whose non-missing dv count clears the gate
	qualifying := make([][]float64, 0, len(names))
	for _, name := range names {
		valid := dropNaN(groups[name])
		if len(valid) >= minN {
			qualifying = append(qualifying, valid)
		}
	}

	if len(qualifying) < 2 {
		result.Outcome = survey.OutcomeSkipped
		result.Note = fmt.Sprintf("Skipped: fewer than 2 groups with n >= %d", minN)
		return result
	}

	h, pVal := kruskalWallisH(qualifying)

	totalN := 0
	for _, g := range qualifying {
		totalN += len(g)
	}

	result.Outcome = survey.OutcomeOK
	result.Statistic = &h
	result.P = &pVal
	result.EffectSize = epsilonSquared(h, totalN)
	result.N = totalN
	result.Note = fmt.Sprintf("Kruskal-Wallis (%d groups)", len(qualifying))
	return result
}

// partitionGroups splits dv values by the raw grouping column. Rows
// with a missing grouping value are excluded. Group names come back in
// their natural (ascending) key order. ok is false when the grouping or
// dv column is absent.
func partitionGroups(table *survey.Table, encoded *survey.EncodedTable, test plan.ConfirmatoryTest) (map[string][]float64, []string, bool) {
	if test.IVGrouping == "" || !table.HasColumn(test.IVGrouping) {
		return nil, nil, false
	}
	dv, ok := dvColumn(table, encoded, test.DV)
	if !ok {
		return nil, nil, false
	}

	groups := make(map[string][]float64)
	for i, row := range table.Rows {
		key := row[test.IVGrouping]
		if survey.IsMissing(key) {
			continue
		}
		groups[key] = append(groups[key], dv[i])
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	return groups, names, true
}

// dvColumn fetches the dependent variable as numbers: the encoded
// column when the dv is a universe item, otherwise a numeric parse of
// the raw column. ok is false when the column does not exist at all.
func dvColumn(table *survey.Table, encoded *survey.EncodedTable, dv string) ([]float64, bool) {
	if encoded.HasColumn(dv) {
		return encoded.Columns[dv], true
	}
	if !table.HasColumn(dv) {
		return nil, false
	}

	raw := table.Column(dv)
	values := make([]float64, len(raw))
	for i, cell := range raw {
		trimmed := strings.TrimSpace(cell)
		if trimmed == "" {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			values[i] = math.NaN()
			continue
		}
		values[i] = v
	}
	return values, true
}

func dropNaN(values []float64) []float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	return valid
}
