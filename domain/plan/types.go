// Package plan defines the declarative analysis contract. Analysts
// describe items, QA filters, tests and thresholds in a YAML document;
// the pipeline never needs code changes for a new survey wave.
package plan

// CorrelationScope selects which items enter the correlation matrix.
type CorrelationScope string

const (
	ScopeAllItems        CorrelationScope = "all_items"
	ScopeIndicesOnly     CorrelationScope = "indices_only"
	ScopeIndicesAndItems CorrelationScope = "indices_and_items"
)

// TestType tags a confirmatory test with its statistical shape.
type TestType string

const (
	TestDescriptive   TestType = "descriptive"
	TestMannWhitney   TestType = "mann_whitney"
	TestKruskalWallis TestType = "kruskal_wallis"
)

// FDRMethod selects the multiple-comparison correction algorithm.
type FDRMethod string

const (
	MethodBH         FDRMethod = "bh"
	MethodBonferroni FDRMethod = "bonferroni"
	MethodHolm       FDRMethod = "holm"
)

// Persona selects the narrative voice of text outputs. Personas never
// affect statistics.
type Persona string

const (
	PersonaCampaign Persona = "campaign"
	PersonaMinfin   Persona = "minfin"
)

// QAFilters configures the sequential quality-assurance gates.
type QAFilters struct {
	AgeColumn              string `yaml:"age_column"`
	AgeKeepValue           string `yaml:"age_keep_value"`
	AttentionCheckColumn   string `yaml:"attention_check_column"`
	AttentionCheckExpected string `yaml:"attention_check_expected"`
}

// IndexConfig declares a derived composite score over multiple items.
type IndexConfig struct {
	ID               string   `yaml:"id"`
	LabelPL          string   `yaml:"label_pl"`
	DirectionLabelPL string   `yaml:"direction_label_pl"`
	Items            []string `yaml:"items"`
	ReverseItems     []string `yaml:"reverse_items"`
	ScoreMethod      string   `yaml:"score_method"`
	MinValidItems    int      `yaml:"min_valid_items"`
}

// CorrelationsConfig configures the rank-correlation matrix.
type CorrelationsConfig struct {
	Scope         CorrelationScope `yaml:"scope"`
	ItemsExplicit []string         `yaml:"items_explicit"`
}

// ConfirmatoryTest declares one pre-registered hypothesis test.
type ConfirmatoryTest struct {
	ID         string   `yaml:"id"`
	DV         string   `yaml:"dv"`
	IVGrouping string   `yaml:"iv_grouping"`
	TestType   TestType `yaml:"test_type"`
	Family     string   `yaml:"family"`
}

// GatingThresholds gates group tests on minimum sample sizes.
type GatingThresholds struct {
	MinGroupN int `yaml:"min_group_n"`
}

// MissingnessRules configures missing-data flagging.
type MissingnessRules struct {
	FlagThreshold float64 `yaml:"flag_threshold"`
	IndexNARule   string  `yaml:"index_na_rule"`
}

// FDRSettings configures multiple-comparison correction.
type FDRSettings struct {
	Q      float64   `yaml:"q"`
	Method FDRMethod `yaml:"method"`
}

// ChartConfig declares a chart over universe items. Chart ids are
// namespaced by a category prefix (A_, B_, C_).
type ChartConfig struct {
	ID    string   `yaml:"id"`
	Type  string   `yaml:"type"`
	Items []string `yaml:"items"`
}

// PersonaText carries the narrative fragments for one persona.
type PersonaText struct {
	ReportIntro string `yaml:"report_intro"`
	SlideCTA    string `yaml:"slide_cta"`
}

// AnalysisPlan is the root declarative contract. It is immutable once
// loaded; every downstream stage reads it and none mutates it.
type AnalysisPlan struct {
	Version           string                  `yaml:"version"`
	ItemsUniverse     []string                `yaml:"items_universe"`
	ItemLabels        map[string]string       `yaml:"item_labels"`
	QAFilters         QAFilters               `yaml:"qa_filters"`
	Indices           []IndexConfig           `yaml:"indices"`
	Correlations      CorrelationsConfig      `yaml:"correlations"`
	ConfirmatoryTests []ConfirmatoryTest      `yaml:"confirmatory_tests"`
	GatingThresholds  GatingThresholds        `yaml:"gating_thresholds"`
	MissingnessRules  MissingnessRules        `yaml:"missingness_rules"`
	FDRSettings       FDRSettings             `yaml:"fdr_settings"`
	Charts            []ChartConfig           `yaml:"charts"`
	PersonaTexts      map[Persona]PersonaText `yaml:"persona_texts"`
}

// ApplyDefaults fills optional fields the document may omit.
func (p *AnalysisPlan) ApplyDefaults() {
	for i := range p.Indices {
		if p.Indices[i].ScoreMethod == "" {
			p.Indices[i].ScoreMethod = "mean"
		}
		if p.Indices[i].MinValidItems == 0 {
			p.Indices[i].MinValidItems = 1
		}
	}
	for i := range p.ConfirmatoryTests {
		if p.ConfirmatoryTests[i].TestType == "" {
			p.ConfirmatoryTests[i].TestType = TestDescriptive
		}
		if p.ConfirmatoryTests[i].Family == "" {
			p.ConfirmatoryTests[i].Family = "confirmatory"
		}
	}
	if p.MissingnessRules.IndexNARule == "" {
		p.MissingnessRules.IndexNARule = "min_valid_items"
	}
}

// UniverseSet returns the items universe as a membership set.
func (p *AnalysisPlan) UniverseSet() map[string]bool {
	set := make(map[string]bool, len(p.ItemsUniverse))
	for _, item := range p.ItemsUniverse {
		set[item] = true
	}
	return set
}

// IndexIDs returns the declared index identifiers in declaration order.
func (p *AnalysisPlan) IndexIDs() []string {
	ids := make([]string, len(p.Indices))
	for i, idx := range p.Indices {
		ids[i] = idx.ID
	}
	return ids
}
