package dataset

import (
	"golikert/domain/core"
	"golikert/domain/plan"
	"golikert/domain/survey"
	"golikert/ports"
)

// LoadAndFilter reads the survey file and applies the QA gates in plan
// order: the age filter first, then the attention check. Both filters
// are exact string equality against the configured literals. Row counts
// are recorded at every gate for the audit log.
func LoadAndFilter(p *plan.AnalysisPlan, reader ports.TableReader, path string) (*survey.LoadResult, error) {
	table, err := reader.ReadTable(path)
	if err != nil {
		return nil, err
	}
	return Filter(p, table)
}

// Filter applies the sequential QA gates to an already-loaded table.
func Filter(p *plan.AnalysisPlan, table *survey.Table) (*survey.LoadResult, error) {
	// Every universe item and both QA columns must exist in the source.
	for _, item := range p.ItemsUniverse {
		if !table.HasColumn(item) {
			return nil, core.NewColumnMissingError("items_universe", item)
		}
	}
	qa := p.QAFilters
	if !table.HasColumn(qa.AgeColumn) {
		return nil, core.NewColumnMissingError("age", qa.AgeColumn)
	}
	if !table.HasColumn(qa.AttentionCheckColumn) {
		return nil, core.NewColumnMissingError("attention_check", qa.AttentionCheckColumn)
	}

	nTotal := len(table.Rows)

	// Gate 1: keep rows whose age column equals the configured literal.
	// The kept value is a bracket label, not a number.
	afterAge := filterRows(table.Rows, qa.AgeColumn, qa.AgeKeepValue)
	nAfterAge := len(afterAge)

	// Gate 2: keep rows that passed the attention check.
	afterAttention := filterRows(afterAge, qa.AttentionCheckColumn, qa.AttentionCheckExpected)
	nAfterAttention := len(afterAttention)

	filtered := &survey.Table{Headers: table.Headers, Rows: afterAttention}

	return &survey.LoadResult{
		Table:           filtered,
		NTotal:          nTotal,
		NAfterAge:       nAfterAge,
		NAfterAttention: nAfterAttention,
		IgnoredColumns:  ignoredColumns(p, table.Headers),
	}, nil
}

func filterRows(rows []map[string]string, column, keep string) []map[string]string {
	kept := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		if row[column] == keep {
			kept = append(kept, row)
		}
	}
	return kept
}

// ignoredColumns lists source columns outside the universe and the QA
// columns. Informational only; reported but never analyzed.
func ignoredColumns(p *plan.AnalysisPlan, headers []string) []string {
	universe := p.UniverseSet()
	qaColumns := map[string]bool{
		p.QAFilters.AgeColumn:            true,
		p.QAFilters.AttentionCheckColumn: true,
	}

	ignored := make([]string, 0)
	for _, col := range headers {
		if !universe[col] && !qaColumns[col] {
			ignored = append(ignored, col)
		}
	}
	return ignored
}
