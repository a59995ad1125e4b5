package ports

import (
	"golikert/domain/survey"
)

// TableReader reads a delimited or spreadsheet file into a raw table.
type TableReader interface {
	ReadTable(path string) (*survey.Table, error)
}
