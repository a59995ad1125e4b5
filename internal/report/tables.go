package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"

	"golikert/domain/plan"
	"golikert/domain/survey"
	"golikert/internal/labels"
)

// DescriptivesCSV renders the full descriptive table, one row per
// universe item in universe order.
func DescriptivesCSV(descriptives []survey.DescriptiveRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"item_id", "n", "missing_pct", "median", "mode",
		"pct_1", "pct_2", "pct_3", "pct_4", "pct_5", "flagged_missingness",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, d := range descriptives {
		record := []string{
			d.ItemID,
			strconv.Itoa(d.N),
			formatFloat(d.MissingPct, 4),
			formatFloat(d.Median, 4),
			formatOptional(d.Mode, 4),
			formatFloat(d.LevelPcts[0], 4),
			formatFloat(d.LevelPcts[1], 4),
			formatFloat(d.LevelPcts[2], 4),
			formatFloat(d.LevelPcts[3], 4),
			formatFloat(d.LevelPcts[4], 4),
			strconv.FormatBool(d.FlaggedMissingness),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// ConfirmatoryCSV renders the confirmatory result table in declaration
// order, nulls as empty cells.
func ConfirmatoryCSV(results []*survey.ConfirmatoryResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"test_id", "dv", "iv", "statistic", "p", "p_adj", "effect_size", "n", "note"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range results {
		record := []string{
			r.TestID,
			r.DV,
			r.IV,
			formatOptional(r.Statistic, 4),
			formatOptional(r.P, 4),
			formatOptional(r.PAdj, 4),
			formatOptional(r.EffectSize, 4),
			strconv.Itoa(r.N),
			r.Note,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// CorrelationsCSV renders the Spearman matrix with item ids as both the
// header row and the first column. An empty matrix yields a lone empty
// header.
func CorrelationsCSV(matrix *survey.CorrelationMatrix) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{""}, matrix.Items...)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i, item := range matrix.Items {
		record := make([]string, 0, len(matrix.Items)+1)
		record = append(record, item)
		for j := range matrix.Items {
			record = append(record, formatFloat(matrix.At(i, j), 4))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// ChartDataCSV renders the data table backing one declared chart: the
// short label plus the five response-level percentages per item. Chart
// image rendering stays outside the pipeline; these tables are the
// interface it consumes.
func ChartDataCSV(chart plan.ChartConfig, descriptives []survey.DescriptiveRow, labelMap labels.LabelMap) ([]byte, error) {
	descMap := make(map[string]survey.DescriptiveRow, len(descriptives))
	for _, d := range descriptives {
		descMap[d.ItemID] = d
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"item_id", "label", "pct_1", "pct_2", "pct_3", "pct_4", "pct_5"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, item := range chart.Items {
		d, ok := descMap[item]
		if !ok {
			continue
		}
		record := []string{
			item,
			labelMap.Get(item),
			formatFloat(d.LevelPcts[0], 4),
			formatFloat(d.LevelPcts[1], 4),
			formatFloat(d.LevelPcts[2], 4),
			formatFloat(d.LevelPcts[3], 4),
			formatFloat(d.LevelPcts[4], 4),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// formatFloat rounds to the given number of decimals and strips
// trailing zeros. NaN renders as the empty cell.
func formatFloat(v float64, decimals int) string {
	if math.IsNaN(v) {
		return ""
	}
	scale := math.Pow10(decimals)
	rounded := math.Round(v*scale) / scale
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func formatOptional(v *float64, decimals int) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v, decimals)
}

// ChartDataName builds the figures/ path for a chart's data table.
func ChartDataName(chart plan.ChartConfig) string {
	return fmt.Sprintf("figures/%s_data.csv", chart.ID)
}
