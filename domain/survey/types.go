// Package survey holds the in-memory data model of one pipeline run:
// the raw table, the encoded table and every result structure handed to
// the reporting layer. All entities are created fresh per run and
// discarded once the reports are written.
package survey

import (
	"math"
	"strings"
)

// Table is a column-keyed view of the raw survey file. Cell values stay
// as strings until the Likert encoder runs.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// HasColumn reports whether a header is present.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Column returns the raw string values of a column, one per row. Rows
// missing the key yield the empty string.
func (t *Table) Column(name string) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}

// IsMissing reports whether a raw cell counts as a missing response.
func IsMissing(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

// EncodedTable holds the numeric ordinal encoding of the Likert items.
// Missing responses are NaN.
type EncodedTable struct {
	NRows   int
	Columns map[string][]float64
}

// HasColumn reports whether an item was encoded.
func (t *EncodedTable) HasColumn(name string) bool {
	_, ok := t.Columns[name]
	return ok
}

// ValidValues returns the non-missing values of an encoded column.
func (t *EncodedTable) ValidValues(name string) []float64 {
	col, ok := t.Columns[name]
	if !ok {
		return nil
	}
	valid := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	return valid
}

// LoadResult is the audit summary of loading and QA filtering. Counts
// are monotonically non-increasing: NTotal >= NAfterAge >= NAfterAttention.
type LoadResult struct {
	Table           *Table
	NTotal          int
	NAfterAge       int
	NAfterAttention int
	IgnoredColumns  []string
}

// DescriptiveRow holds per-item summary statistics, one per universe
// item in universe order.
type DescriptiveRow struct {
	ItemID     string
	N          int
	MissingPct float64
	Median     float64 // NaN when N == 0
	Mode       *float64
	// LevelPcts[i] is the proportion of valid responses at ordinal
	// level i+1. Indexed container instead of per-level fields.
	LevelPcts          [5]float64
	FlaggedMissingness bool
}

// Outcome tags what happened to a confirmatory test.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeSkipped Outcome = "skipped" // gated by min_group_n
	OutcomeFailed  Outcome = "failed"  // data problem, e.g. missing column
	OutcomeNoTests Outcome = "no_tests"
)

// ConfirmatoryResult is the outcome of one declared test. Exactly one
// result exists per configured test; data problems are recorded here as
// soft failures, never raised. PAdj is filled in by the corrector and is
// the only field mutated after creation.
type ConfirmatoryResult struct {
	TestID     string
	DV         string
	IV         string // empty when the test has no grouping variable
	Outcome    Outcome
	Statistic  *float64
	P          *float64
	PAdj       *float64
	EffectSize *float64
	N          int
	Note       string
}

// CorrelationMatrix is a symmetric Spearman matrix over resolved items.
type CorrelationMatrix struct {
	Items  []string
	Values [][]float64
}

// IsEmpty reports whether no items resolved into the matrix.
func (m *CorrelationMatrix) IsEmpty() bool {
	return len(m.Items) == 0
}

// At returns the correlation between two resolved items by position.
func (m *CorrelationMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// ItemAggregate carries the per-item slice of the aggregates artifact.
type ItemAggregate struct {
	N            int                `json:"n"`
	Median       *float64           `json:"median"`
	Mode         *float64           `json:"mode"`
	ResponsePcts map[string]float64 `json:"response_pcts"`
}

// Aggregates is the privacy-bounded statistics artifact: aggregate
// numbers only, no row-level data, free text or timestamps. Its bytes
// are identical across personas.
type Aggregates struct {
	NRespondents int                      `json:"n_respondents"`
	NItems       int                      `json:"n_items"`
	Items        map[string]ItemAggregate `json:"items"`
}
