package labels

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
)

// EncodeCSV renders the label map as CSV in the given item order.
// Columns: original_column_name, short_label, created_by. No timestamp:
// label artifacts are part of the deterministic output set.
func (m LabelMap) EncodeCSV(itemOrder []string, createdBy string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"original_column_name", "short_label", "created_by"}); err != nil {
		return nil, err
	}
	for _, item := range itemOrder {
		if err := w.Write([]string{item, m[item], createdBy}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to render label map CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJSON renders the label map as indented JSON with non-ASCII
// characters preserved literally.
func (m LabelMap) EncodeJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]string(m)); err != nil {
		return nil, fmt.Errorf("failed to render label map JSON: %w", err)
	}
	return buf.Bytes(), nil
}
