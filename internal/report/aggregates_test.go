package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"golikert/domain/plan"
	"golikert/domain/survey"
)

func aggregatesFixture() (*plan.AnalysisPlan, []survey.DescriptiveRow) {
	p := &plan.AnalysisPlan{
		ItemsUniverse: []string{"Wydatki na obronność", "Podatki"},
	}
	mode := 4.0
	descriptives := []survey.DescriptiveRow{
		{
			ItemID:    "Wydatki na obronność",
			N:         100,
			Median:    4,
			Mode:      &mode,
			LevelPcts: [5]float64{0.05, 0.1, 0.15, 0.4, 0.3},
		},
		{
			ItemID: "Podatki",
			N:      0,
			Median: math.NaN(),
		},
	}
	return p, descriptives
}

func TestBuildAggregates_Structure(t *testing.T) {
	p, descriptives := aggregatesFixture()

	agg := BuildAggregates(100, p, descriptives)

	if agg.NRespondents != 100 {
		t.Errorf("Expected 100 respondents, got %d", agg.NRespondents)
	}
	if agg.NItems != 2 {
		t.Errorf("Expected 2 items, got %d", agg.NItems)
	}

	item := agg.Items["Wydatki na obronność"]
	if item.Median == nil || *item.Median != 4 {
		t.Errorf("Expected median 4, got %v", item.Median)
	}
	if item.ResponsePcts["4"] != 0.4 {
		t.Errorf("Expected pct 0.4 at level 4, got %g", item.ResponsePcts["4"])
	}
	if len(item.ResponsePcts) != 5 {
		t.Errorf("Expected 5 response levels, got %d", len(item.ResponsePcts))
	}
}

func TestBuildAggregates_NaNMedianBecomesNull(t *testing.T) {
	p, descriptives := aggregatesFixture()
	agg := BuildAggregates(100, p, descriptives)

	degenerate := agg.Items["Podatki"]
	if degenerate.Median != nil {
		t.Errorf("NaN median should encode as null, got %v", degenerate.Median)
	}

	out, err := EncodeAggregates(agg)
	if err != nil {
		t.Fatalf("EncodeAggregates failed: %v", err)
	}
	if !bytes.Contains(out, []byte(`"median": null`)) {
		t.Error("Degenerate item should serialize a null median")
	}
}

func TestEncodeAggregates_ByteDeterministic(t *testing.T) {
	p, descriptives := aggregatesFixture()

	var outputs [][]byte
	for i := 0; i < 3; i++ {
		agg := BuildAggregates(100, p, descriptives)
		out, err := EncodeAggregates(agg)
		if err != nil {
			t.Fatalf("EncodeAggregates failed: %v", err)
		}
		outputs = append(outputs, out)
	}

	for i := 1; i < len(outputs); i++ {
		if !bytes.Equal(outputs[0], outputs[i]) {
			t.Fatalf("Encoding %d differs from the first", i)
		}
	}
}

func TestEncodeAggregates_Formatting(t *testing.T) {
	p, descriptives := aggregatesFixture()
	agg := BuildAggregates(100, p, descriptives)

	out, err := EncodeAggregates(agg)
	if err != nil {
		t.Fatalf("EncodeAggregates failed: %v", err)
	}
	text := string(out)

	if !strings.Contains(text, "\n  \"n_respondents\"") {
		t.Error("Expected 2-space indentation")
	}
	if !strings.Contains(text, "Wydatki na obronność") {
		t.Error("Non-ASCII item names should stay literal")
	}
	if strings.Contains(text, "\\u") {
		t.Error("Output should not escape unicode")
	}

	// Must stay valid JSON end to end
	var decoded map[string]interface{}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
}

func TestAggregates_PersonaInvariant(t *testing.T) {
	// The aggregates artifact never depends on persona inputs: building
	// from the same statistics always yields identical bytes, so any
	// persona's output directory carries the same aggregates.json.
	p, descriptives := aggregatesFixture()

	a, err := EncodeAggregates(BuildAggregates(100, p, descriptives))
	if err != nil {
		t.Fatalf("EncodeAggregates failed: %v", err)
	}
	b, err := EncodeAggregates(BuildAggregates(100, p, descriptives))
	if err != nil {
		t.Fatalf("EncodeAggregates failed: %v", err)
	}

	if !bytes.Equal(a, b) {
		t.Error("Aggregates must be byte-identical across persona runs")
	}
}
