package report

import (
	"strings"
	"testing"

	"golikert/domain/plan"
	"golikert/domain/survey"
	"golikert/internal/labels"
)

func markdownPlan() *plan.AnalysisPlan {
	return &plan.AnalysisPlan{
		ItemsUniverse: []string{"q1", "q2"},
		MissingnessRules: plan.MissingnessRules{FlagThreshold: 0.2},
		FDRSettings:      plan.FDRSettings{Q: 0.05, Method: plan.MethodBH},
		Charts: []plan.ChartConfig{
			{ID: "A_mandate", Type: "diverging_bar", Items: []string{"q1"}},
			{ID: "B_cuts", Type: "stacked_bar", Items: []string{"q2"}},
			{ID: "C_inflation", Type: "grouped_bar", Items: []string{"q1", "q2"}},
		},
		PersonaTexts: map[plan.Persona]plan.PersonaText{
			plan.PersonaCampaign: {ReportIntro: "Wstęp kampanijny.", SlideCTA: "Wniosek kampanijny."},
			plan.PersonaMinfin:   {ReportIntro: "Wstęp ministerialny.", SlideCTA: "Wniosek ministerialny."},
		},
	}
}

func markdownDescriptives() []survey.DescriptiveRow {
	mode := 4.0
	return []survey.DescriptiveRow{
		{ItemID: "q1", N: 80, Median: 4, Mode: &mode, LevelPcts: [5]float64{0.05, 0.1, 0.15, 0.4, 0.3}},
		{ItemID: "q2", N: 75, Median: 2, Mode: &mode, MissingPct: 0.25, LevelPcts: [5]float64{0.3, 0.3, 0.2, 0.1, 0.1}, FlaggedMissingness: true},
	}
}

func TestQALog_FunnelAndFlags(t *testing.T) {
	p := markdownPlan()
	load := &survey.LoadResult{
		NTotal:          120,
		NAfterAge:       110,
		NAfterAttention: 95,
		IgnoredColumns:  []string{"Timestamp"},
	}
	labelMap := labels.LabelMap{"q1": "Pozycja 1", "q2": "Pozycja 2"}

	out := QALog(p, load, markdownDescriptives(), labelMap)

	for _, want := range []string{"| Wczytane z CSV | 120 |", "| Po filtrze wieku (18+) | 110 |", "| Po filtrze uwagi | 95 |"} {
		if !strings.Contains(out, want) {
			t.Errorf("QA log missing funnel row %q", want)
		}
	}
	if !strings.Contains(out, "Pozycja 2") || !strings.Contains(out, "25.0%") {
		t.Error("QA log should list the flagged item with its missingness")
	}
}

func TestReport_PersonaAffectsNarrativeOnly(t *testing.T) {
	p := markdownPlan()
	descriptives := markdownDescriptives()
	stat := 12.0
	pVal := 0.02
	confirmatory := []*survey.ConfirmatoryResult{
		{TestID: "H1", DV: "q1", Outcome: survey.OutcomeOK, Statistic: &stat, P: &pVal, N: 80, Note: "Mann-Whitney U (groups: A vs B)"},
	}
	labelMap := labels.LabelMap{"q1": "Pozycja 1", "q2": "Pozycja 2"}

	campaign := Report(p, descriptives, confirmatory, plan.PersonaCampaign, labelMap)
	minfin := Report(p, descriptives, confirmatory, plan.PersonaMinfin, labelMap)

	if campaign == minfin {
		t.Error("Reports should differ in narrative between personas")
	}
	if !strings.Contains(campaign, "Wstęp kampanijny.") || !strings.Contains(minfin, "Wstęp ministerialny.") {
		t.Error("Each report should carry its persona intro")
	}

	// The statistical table is persona-invariant
	for _, out := range []string{campaign, minfin} {
		if !strings.Contains(out, "| H1 |") {
			t.Error("Report should contain the confirmatory table row")
		}
		if !strings.Contains(out, "0.0200") {
			t.Error("Report should show the p-value with 4 decimals")
		}
	}
}

func TestReport_NoTestsPlaceholder(t *testing.T) {
	p := markdownPlan()
	confirmatory := []*survey.ConfirmatoryResult{
		{TestID: "none", DV: "N/A", Outcome: survey.OutcomeNoTests, Note: "No confirmatory tests defined"},
	}
	labelMap := labels.LabelMap{"q1": "Pozycja 1", "q2": "Pozycja 2"}

	out := Report(p, markdownDescriptives(), confirmatory, plan.PersonaCampaign, labelMap)

	if !strings.Contains(out, "Brak zdefiniowanych testów konfirmacyjnych.") {
		t.Error("Report should state that no tests were configured")
	}
	if strings.Contains(out, "| none |") {
		t.Error("Placeholder result must not render as a table row")
	}
}

func TestSlideSnippets_PersonaCTA(t *testing.T) {
	p := markdownPlan()
	descriptives := markdownDescriptives()
	labelMap := labels.LabelMap{"q1": "Pozycja 1", "q2": "Pozycja 2"}

	campaign := SlideSnippets(p, descriptives, plan.PersonaCampaign, labelMap)
	minfin := SlideSnippets(p, descriptives, plan.PersonaMinfin, labelMap)

	if !strings.Contains(campaign, "Wniosek kampanijny.") {
		t.Error("Campaign snippets should carry the campaign CTA")
	}
	if !strings.Contains(minfin, "Wniosek ministerialny.") {
		t.Error("Minfin snippets should carry the minfin CTA")
	}

	// Chart A highlight: q1 has the highest 4-5 agreement (70%)
	if !strings.Contains(campaign, "\"Pozycja 1\" (70% zgadza się)") {
		t.Errorf("Expected chart A highlight, got:\n%s", campaign)
	}
}

func TestMethodsAppendix_Parametrized(t *testing.T) {
	p := markdownPlan()
	out := MethodsAppendix(p)

	if !strings.Contains(out, "(20%)") {
		t.Error("Appendix should state the flag threshold")
	}
	if !strings.Contains(out, "Benjamini-Hochberg") || !strings.Contains(out, "0.05") {
		t.Error("Appendix should state the FDR method and q level")
	}

	p.FDRSettings.Method = plan.MethodHolm
	if !strings.Contains(MethodsAppendix(p), "Holm") {
		t.Error("Appendix should follow the configured method")
	}
}

func TestRenderHTML_Tables(t *testing.T) {
	md := "# Tytuł\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
	out := string(RenderHTML(md))

	if !strings.Contains(out, "<h1") || !strings.Contains(out, "<table>") {
		t.Errorf("Expected heading and table markup, got: %s", out)
	}
}
