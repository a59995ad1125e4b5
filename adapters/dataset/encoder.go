package dataset

import (
	"math"
	"strconv"
	"strings"

	"golikert/domain/survey"
)

// The two response lexicons the survey tool emits. Both map five known
// Polish phrases onto the ordinal scale 1..5.
var likertAgreeMap = map[string]float64{
	"Zdecydowanie się nie zgadzam": 1,
	"Raczej się nie zgadzam":       2,
	"Ani tak, ani nie":             3,
	"Raczej się zgadzam":           4,
	"Zdecydowanie się zgadzam":     5,
}

var likertDegreeMap = map[string]float64{
	"Wcale":                  1,
	"W małym stopniu":        2,
	"W umiarkowanym stopniu": 3,
	"W dużym stopniu":        4,
	"W bardzo dużym stopniu": 5,
}

// agreeFallbackRatio is the coverage cutoff below which the agree
// lexicon is abandoned for the degree lexicon. Inherited behavior; the
// degree result is used regardless of its own coverage.
const agreeFallbackRatio = 0.5

// EncodeLikert normalizes every item column present in the table to
// numeric ordinals in {1..5}, with NaN marking missing responses. The
// encoding is deterministic: the same raw text always maps to the same
// ordinal under a fixed lexicon choice. Items absent from the table are
// silently skipped.
func EncodeLikert(table *survey.Table, items []string) *survey.EncodedTable {
	encoded := &survey.EncodedTable{
		NRows:   len(table.Rows),
		Columns: make(map[string][]float64, len(items)),
	}

	for _, item := range items {
		if !table.HasColumn(item) {
			continue
		}
		encoded.Columns[item] = encodeColumn(table.Column(item))
	}

	return encoded
}

// encodeColumn resolves one column's representation. Numeric string
// parsing wins if any value parses; otherwise the agree lexicon is
// tried, falling back to the degree lexicon when it covers less than
// half of the non-missing values.
func encodeColumn(raw []string) []float64 {
	if numeric, anyParsed := parseNumeric(raw); anyParsed {
		return numeric
	}

	agreeMapped, agreeHits := mapLexicon(raw, likertAgreeMap)
	nonMissing := countNonMissing(raw)

	if float64(agreeHits) < float64(nonMissing)*agreeFallbackRatio {
		degreeMapped, _ := mapLexicon(raw, likertDegreeMap)
		return degreeMapped
	}
	return agreeMapped
}

// parseNumeric attempts a numeric interpretation of the whole column.
// The interpretation is adopted if any single value parses; values that
// do not parse become missing.
func parseNumeric(raw []string) ([]float64, bool) {
	values := make([]float64, len(raw))
	anyParsed := false

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
		anyParsed = true
	}

	return values, anyParsed
}

// mapLexicon maps raw text against a lexicon, returning the encoded
// column and the number of successful mappings.
func mapLexicon(raw []string, lexicon map[string]float64) ([]float64, int) {
	values := make([]float64, len(raw))
	hits := 0

	for i, cell := range raw {
		trimmed := strings.TrimSpace(cell)
		if v, ok := lexicon[trimmed]; ok {
			values[i] = v
			hits++
		} else {
			values[i] = math.NaN()
		}
	}

	return values, hits
}

func countNonMissing(raw []string) int {
	n := 0
	for _, cell := range raw {
		if !survey.IsMissing(cell) {
			n++
		}
	}
	return n
}
