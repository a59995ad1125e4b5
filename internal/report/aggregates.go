package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"golikert/domain/plan"
	"golikert/domain/survey"
)

// BuildAggregates assembles the privacy-bounded aggregates structure
// from the descriptives and the plan only. No row-level data, free text
// or timestamps cross this boundary.
func BuildAggregates(nRespondents int, p *plan.AnalysisPlan, descriptives []survey.DescriptiveRow) *survey.Aggregates {
	items := make(map[string]survey.ItemAggregate, len(descriptives))

	for _, d := range descriptives {
		var median *float64
		if !math.IsNaN(d.Median) {
			m := d.Median
			median = &m
		}

		pcts := make(map[string]float64, 5)
		for level := 1; level <= 5; level++ {
			pcts[fmt.Sprintf("%d", level)] = d.LevelPcts[level-1]
		}

		items[d.ItemID] = survey.ItemAggregate{
			N:            d.N,
			Median:       median,
			Mode:         d.Mode,
			ResponsePcts: pcts,
		}
	}

	return &survey.Aggregates{
		NRespondents: nRespondents,
		NItems:       len(p.ItemsUniverse),
		Items:        items,
	}
}

// EncodeAggregates renders the aggregates as JSON with 2-space
// indentation and non-ASCII characters preserved literally. The output
// is byte-identical for identical inputs: map keys serialize sorted.
func EncodeAggregates(agg *survey.Aggregates) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(agg); err != nil {
		return nil, fmt.Errorf("failed to encode aggregates: %w", err)
	}
	return buf.Bytes(), nil
}
