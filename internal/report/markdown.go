package report

import (
	"fmt"
	"strings"

	"golikert/domain/plan"
	"golikert/domain/survey"
	"golikert/internal/labels"
)

// QALog renders qa_log.md: the dataset definition, the QA filter funnel
// and the missingness flags.
func QALog(p *plan.AnalysisPlan, load *survey.LoadResult, descriptives []survey.DescriptiveRow, labelMap labels.LabelMap) string {
	var b strings.Builder

	b.WriteString("# Dziennik kontroli jakości (QA Log)\n\n")
	b.WriteString("## Definicja zbioru danych\n\n")
	b.WriteString("### items_universe\n")
	fmt.Fprintf(&b, "- **Liczba pozycji**: %d\n", len(p.ItemsUniverse))
	b.WriteString("- **Lista pozycji**:\n")
	for i, item := range p.ItemsUniverse {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, labelMap.Get(item))
	}

	b.WriteString("\n### Kolumny pominięte (metadata)\n")
	fmt.Fprintf(&b, "- **Liczba**: %d\n", len(load.IgnoredColumns))
	b.WriteString("- Timestamp, dane demograficzne, pytania kontrolne\n\n")

	b.WriteString("## Filtrowanie QA\n\n")
	b.WriteString("| Etap | Liczba respondentów |\n")
	b.WriteString("|------|---------------------|\n")
	fmt.Fprintf(&b, "| Wczytane z CSV | %d |\n", load.NTotal)
	fmt.Fprintf(&b, "| Po filtrze wieku (18+) | %d |\n", load.NAfterAge)
	fmt.Fprintf(&b, "| Po filtrze uwagi | %d |\n\n", load.NAfterAttention)
	fmt.Fprintf(&b, "- **Usunięto (wiek < 18)**: %d\n", load.NTotal-load.NAfterAge)
	fmt.Fprintf(&b, "- **Usunięto (błąd uwagi)**: %d\n\n", load.NAfterAge-load.NAfterAttention)

	b.WriteString("## Flagi braków danych\n\n")
	fmt.Fprintf(&b, "Próg: %.0f%%\n", p.MissingnessRules.FlagThreshold*100)

	flagged := make([]survey.DescriptiveRow, 0)
	for _, d := range descriptives {
		if d.FlaggedMissingness {
			flagged = append(flagged, d)
		}
	}

	if len(flagged) > 0 {
		b.WriteString("\n| Pozycja | % braków |\n|---------|----------|\n")
		for _, d := range flagged {
			fmt.Fprintf(&b, "| %s | %.1f%% |\n", labelMap.Get(d.ItemID), d.MissingPct*100)
		}
	} else {
		b.WriteString("\nBrak pozycji z przekroczonym progiem braków danych.\n")
	}

	return b.String()
}

// Report renders report.md for one persona: the persona intro, the
// confirmatory results table and the exploratory descriptive section.
// Only the narrative fragments vary by persona.
func Report(p *plan.AnalysisPlan, descriptives []survey.DescriptiveRow, confirmatory []*survey.ConfirmatoryResult, persona plan.Persona, labelMap labels.LabelMap) string {
	personaText := p.PersonaTexts[persona]

	var b strings.Builder
	b.WriteString("# Raport: Priorytety budżetowe i bezpieczeństwo\n\n")
	b.WriteString(personaText.ReportIntro)
	b.WriteString("\n\n---\n\n## Wyniki konfirmacyjne\n\n")

	if len(confirmatory) > 0 && confirmatory[0].Outcome != survey.OutcomeNoTests {
		b.WriteString("| Test | Zmienna | Statystyka | p | p (skorygowane) | Wielkość efektu | n |\n")
		b.WriteString("|------|---------|------------|---|-----------------|-----------------|---|\n")
		for _, r := range confirmatory {
			dv := r.DV
			if len([]rune(dv)) > 30 {
				dv = string([]rune(dv)[:30])
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %d |\n",
				r.TestID, dv,
				mdFloat(r.Statistic, 2),
				mdFloat(r.P, 4),
				mdFloat(r.PAdj, 4),
				mdFloat(r.EffectSize, 3),
				r.N)
		}
	} else {
		b.WriteString("*Brak zdefiniowanych testów konfirmacyjnych.*\n")
	}

	b.WriteString("\n---\n\n## Wyniki eksploracyjne\n\n### Statystyki opisowe\n\n")
	b.WriteString("Poniżej przedstawiono statystyki opisowe dla wszystkich pozycji ankiety.\n\n")
	b.WriteString("| Pozycja | n | Mediana | Moda | % odpowiedzi 4-5 |\n")
	b.WriteString("|---------|---|---------|------|------------------|\n")

	shown := descriptives
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, d := range shown {
		label := labelMap.Get(d.ItemID)
		if len([]rune(label)) > 40 {
			label = string([]rune(label)[:40])
		}
		agreePct := (d.LevelPcts[3] + d.LevelPcts[4]) * 100
		mode := "—"
		if d.Mode != nil {
			mode = fmt.Sprintf("%.0f", *d.Mode)
		}
		fmt.Fprintf(&b, "| %s | %d | %.1f | %s | %.1f%% |\n", label, d.N, d.Median, mode, agreePct)
	}

	if len(descriptives) > 10 {
		fmt.Fprintf(&b, "\n*... i %d pozostałych pozycji (pełne dane w descriptives_table.csv)*\n", len(descriptives)-10)
	}

	b.WriteString("\n### Korelacje\n\n")
	b.WriteString("Macierz korelacji Spearmana dostępna w `correlations.csv` i `figures/`.\n\n")
	b.WriteString("---\n\n## Ograniczenia\n\n")
	b.WriteString("- Dane pochodzą z jednorazowego badania ankietowego\n")
	b.WriteString("- Skale Likerta traktowane są jako dane porządkowe (stosowano mediany i testy nieparametryczne)\n")
	b.WriteString("- Brak możliwości wnioskowania przyczynowego\n")

	return b.String()
}

// MethodsAppendix renders the static methodology appendix.
func MethodsAppendix(p *plan.AnalysisPlan) string {
	var b strings.Builder

	b.WriteString(`# Aneks metodologiczny

## Item Universe (Zbiór pozycji)

Analiza obejmuje wyłącznie pozycje zdefiniowane w ` + "`items_universe`" + ` w konfiguracji.
Każda pozycja musi dokładnie odpowiadać nagłówkowi kolumny w pliku CSV.

## Zasady kodowania

### Skala zgadzania się
- 1 = Zdecydowanie się nie zgadzam
- 2 = Raczej się nie zgadzam
- 3 = Ani tak, ani nie
- 4 = Raczej się zgadzam
- 5 = Zdecydowanie się zgadzam

### Skala stopnia
- 1 = Wcale
- 2 = W małym stopniu
- 3 = W umiarkowanym stopniu
- 4 = W dużym stopniu
- 5 = W bardzo dużym stopniu

### Odwracanie kodowania
Dla pozycji wymagających odwrócenia stosowana jest formuła: ` + "`6 - x`" + `

Kierunek interpretacji dla każdego indeksu jest podany w konfiguracji (` + "`direction_label_pl`" + `).

## Braki danych

`)
	fmt.Fprintf(&b, "- Braki danych są flagowane, gdy przekraczają próg `flag_threshold` (%.0f%%)\n",
		p.MissingnessRules.FlagThreshold*100)
	b.WriteString(`- Pozycje z brakami danych NIE są automatycznie usuwane
- Dla indeksów: wartość = NA, jeśli respondent ma mniej ważnych pozycji niż ` + "`min_valid_items`" + `

## Korekta wielokrotnych porównań

Dla rodzin z więcej niż jednym testem konfirmacyjnym stosowana jest korekta FDR:
`)
	fmt.Fprintf(&b, "- Metoda: %s\n- Poziom q: %g\n", fdrMethodName(p.FDRSettings.Method), p.FDRSettings.Q)
	b.WriteString(`
## Ograniczenia metodologiczne

1. **Dane porządkowe**: Skale Likerta są danymi porządkowymi, nie interwałowymi.
   - Stosujemy mediany jako miarę tendencji centralnej
   - Stosujemy testy nieparametryczne (Mann-Whitney U, Kruskal-Wallis)

2. **Brak wnioskowania przyczynowego**: Badanie przekrojowe nie pozwala na wnioski przyczynowe.

3. **Selektywność próby**: Próba może nie być reprezentatywna dla populacji ogólnej.
`)

	return b.String()
}

// SlideSnippets renders slide_snippets.md for one persona: the
// presentation-ready highlights per chart category plus the persona's
// call to action.
func SlideSnippets(p *plan.AnalysisPlan, descriptives []survey.DescriptiveRow, persona plan.Persona, labelMap labels.LabelMap) string {
	personaText := p.PersonaTexts[persona]

	descMap := make(map[string]survey.DescriptiveRow, len(descriptives))
	for _, d := range descriptives {
		descMap[d.ItemID] = d
	}

	aTop, aPct := topAgreement(chartItems(p, "A_"), descMap, labelMap)
	bTop, bPct := topAgreement(chartItems(p, "B_"), descMap, labelMap)
	cMin, cMax := medianRange(chartItems(p, "C_"), descMap)

	var b strings.Builder
	b.WriteString("# Fragmenty do prezentacji\n\n---\n\n")

	b.WriteString("## Wykres A: Mandat dla obronności vs finansowanie\n\n")
	b.WriteString("**Tytuł**: Postawy wobec wydatków na obronność\n\n")
	b.WriteString("**Kluczowe wnioski**:\n")
	fmt.Fprintf(&b, "1. Najwyższe poparcie: \"%s\" (%.0f%% zgadza się)\n", aTop, aPct)
	b.WriteString("2. Widoczne zróżnicowanie postaw wobec metod finansowania\n\n")
	b.WriteString("**Ograniczenie**: Dane pochodzą z jednorazowego badania;\nmogą nie odzwierciedlać stabilnych preferencji.\n\n---\n\n")

	b.WriteString("## Wykres B: Akceptowalne cięcia wydatków\n\n")
	b.WriteString("**Tytuł**: Akceptowalność ograniczenia wydatków w różnych obszarach\n\n")
	b.WriteString("**Kluczowe wnioski**:\n")
	fmt.Fprintf(&b, "1. Najwyższa akceptowalność cięć: \"%s\" (%.0f%%)\n", bTop, bPct)
	b.WriteString("2. Respondenci różnicują akceptowalność w zależności od obszaru\n\n")
	b.WriteString("**Ograniczenie**: Pytania hipotetyczne; rzeczywiste reakcje mogą się różnić.\n\n---\n\n")

	b.WriteString("## Wykres C: Przyczyny inflacji\n\n")
	b.WriteString("**Tytuł**: Postrzegane przyczyny wzrostu cen\n\n")
	b.WriteString("**Kluczowe wnioski**:\n")
	fmt.Fprintf(&b, "1. Mediany odpowiedzi wahają się od %.1f do %.1f\n", cMin, cMax)
	b.WriteString("2. Respondenci przypisują wzrost cen różnym czynnikom\n\n")
	b.WriteString("**Ograniczenie**: Subiektywne postrzeganie, nie obiektywna analiza przyczyn.\n\n---\n\n")

	b.WriteString("## Rekomendacja\n\n")
	b.WriteString(personaText.SlideCTA)
	b.WriteString("\n")

	return b.String()
}

// chartItems returns the items of the first chart in the given category.
func chartItems(p *plan.AnalysisPlan, prefix string) []string {
	for _, chart := range p.Charts {
		if strings.HasPrefix(chart.ID, prefix) {
			return chart.Items
		}
	}
	return nil
}

// topAgreement finds the item with the highest 4-5 agreement share.
func topAgreement(items []string, descMap map[string]survey.DescriptiveRow, labelMap labels.LabelMap) (string, float64) {
	best := ""
	bestPct := 0.0
	for _, item := range items {
		d, ok := descMap[item]
		if !ok {
			continue
		}
		pct := d.LevelPcts[3] + d.LevelPcts[4]
		if pct > bestPct {
			bestPct = pct
			best = item
		}
	}
	if best == "" {
		return "—", 0
	}
	return labelMap.Get(best), bestPct * 100
}

// medianRange returns the min and max item medians.
func medianRange(items []string, descMap map[string]survey.DescriptiveRow) (float64, float64) {
	min, max := 0.0, 0.0
	first := true
	for _, item := range items {
		d, ok := descMap[item]
		if !ok {
			continue
		}
		if first {
			min, max = d.Median, d.Median
			first = false
			continue
		}
		if d.Median < min {
			min = d.Median
		}
		if d.Median > max {
			max = d.Median
		}
	}
	return min, max
}

func mdFloat(v *float64, decimals int) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}

func fdrMethodName(method plan.FDRMethod) string {
	switch method {
	case plan.MethodBonferroni:
		return "Bonferroni"
	case plan.MethodHolm:
		return "Holm"
	default:
		return "Benjamini-Hochberg"
	}
}
