// Package dataset reads the raw survey table and applies the QA gates
// and Likert encoding declared in the analysis plan.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"golikert/domain/core"
	"golikert/domain/survey"
)

// Reader handles reading CSV and XLSX survey exports into a raw table.
type Reader struct{}

// NewReader creates a new survey file reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadTable reads the file at path into a column-keyed table. The file
// type is chosen by extension; anything that is not .xlsx is parsed as
// CSV. A missing file is a hard failure.
func (r *Reader) ReadTable(path string) (*survey.Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, core.NewDataFileNotFoundError(path)
	}

	if strings.ToLower(filepath.Ext(path)) == ".xlsx" {
		return r.readXLSX(path)
	}
	return r.readCSV(path)
}

func (r *Reader) readCSV(path string) (*survey.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file has no header row: %s", path)
	}

	return buildTable(records), nil
}

func (r *Reader) readXLSX(path string) (*survey.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets: %s", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read XLSX sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("XLSX sheet %q has no header row", sheets[0])
	}

	return buildTable(rows), nil
}

// buildTable converts header + record rows into the column-keyed table.
// Short records leave trailing cells empty, which the encoder treats as
// missing responses.
func buildTable(records [][]string) *survey.Table {
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	return &survey.Table{Headers: headers, Rows: rows}
}
