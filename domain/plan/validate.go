package plan

import (
	"fmt"
	"strings"

	"golikert/domain/core"
)

// ValidationError aggregates every violation found in a plan document so
// the author can fix the whole file in one pass.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("analysis plan invalid (%d violations):\n  - %s",
		len(e.Violations), strings.Join(e.Violations, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return core.ErrPlanInvalid
}

var validChartPrefixes = []string{"A_", "B_", "C_"}

var validChartTypes = map[string]bool{
	"diverging_bar": true,
	"stacked_bar":   true,
	"grouped_bar":   true,
}

// Validate checks every structural and cross-reference invariant of the
// plan. All checks run independently; nothing short-circuits on the
// first violation.
func (p *AnalysisPlan) Validate() error {
	var violations []string

	add := func(format string, args ...interface{}) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	// Universe: non-empty, unique members
	if len(p.ItemsUniverse) == 0 {
		add("items_universe must not be empty")
	}
	seen := make(map[string]bool, len(p.ItemsUniverse))
	for _, item := range p.ItemsUniverse {
		if seen[item] {
			add("items_universe contains duplicate item: %s", item)
		}
		seen[item] = true
	}
	universe := p.UniverseSet()

	// Labels reference only universe members
	for key := range p.ItemLabels {
		if !universe[key] {
			add("item_labels key not in items_universe: %s", key)
		}
	}

	// QA filter columns must be declared
	if p.QAFilters.AgeColumn == "" {
		add("qa_filters.age_column must not be empty")
	}
	if p.QAFilters.AttentionCheckColumn == "" {
		add("qa_filters.attention_check_column must not be empty")
	}

	// Indices: non-empty item lists, all members of the universe
	for _, idx := range p.Indices {
		if len(idx.Items) == 0 {
			add("index %s must have at least one item", idx.ID)
		}
		for _, item := range idx.Items {
			if !universe[item] {
				add("index %s item not in items_universe: %s", idx.ID, item)
			}
		}
		for _, item := range idx.ReverseItems {
			if !universe[item] {
				add("index %s reverse_item not in items_universe: %s", idx.ID, item)
			}
		}
	}

	// Correlation scope
	switch p.Correlations.Scope {
	case ScopeAllItems, ScopeIndicesOnly:
	case ScopeIndicesAndItems:
		if len(p.Correlations.ItemsExplicit) == 0 {
			add("correlations.items_explicit required when scope=%q", ScopeIndicesAndItems)
		}
	default:
		add("correlations.scope invalid: %q", p.Correlations.Scope)
	}

	// Confirmatory tests
	for _, test := range p.ConfirmatoryTests {
		switch test.TestType {
		case TestDescriptive, TestMannWhitney, TestKruskalWallis:
		default:
			add("test %s has invalid test_type: %q", test.ID, test.TestType)
		}
		if test.DV == "" {
			add("test %s must declare a dv", test.ID)
		}
	}

	// Charts: at least one, namespaced ids, items in universe
	if len(p.Charts) == 0 {
		add("charts must declare at least one chart")
	}
	for _, chart := range p.Charts {
		if !hasValidPrefix(chart.ID) {
			add("chart id must start with A_, B_, or C_: %s", chart.ID)
		}
		if !validChartTypes[chart.Type] {
			add("chart %s has invalid type: %q", chart.ID, chart.Type)
		}
		for _, item := range chart.Items {
			if !universe[item] {
				add("chart %s item not in items_universe: %s", chart.ID, item)
			}
		}
	}

	// Thresholds
	if p.GatingThresholds.MinGroupN <= 0 {
		add("gating_thresholds.min_group_n must be a positive integer, got %d", p.GatingThresholds.MinGroupN)
	}
	if p.MissingnessRules.FlagThreshold < 0 || p.MissingnessRules.FlagThreshold > 1 {
		add("missingness_rules.flag_threshold must be in [0,1], got %g", p.MissingnessRules.FlagThreshold)
	}

	// FDR settings
	if p.FDRSettings.Q <= 0 || p.FDRSettings.Q > 1 {
		add("fdr_settings.q must be in (0,1], got %g", p.FDRSettings.Q)
	}
	switch p.FDRSettings.Method {
	case MethodBH, MethodBonferroni, MethodHolm:
	default:
		add("fdr_settings.method invalid: %q", p.FDRSettings.Method)
	}

	// Persona texts are limited to the two known personas
	for persona := range p.PersonaTexts {
		if persona != PersonaCampaign && persona != PersonaMinfin {
			add("persona_texts has unknown persona: %q", persona)
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func hasValidPrefix(id string) bool {
	for _, prefix := range validChartPrefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}
