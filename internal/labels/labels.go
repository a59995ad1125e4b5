// Package labels produces short display labels for survey items. The
// label map is an explicit value passed into every consumer; there is
// no package-level cache, so concurrent runs never cross-contaminate.
package labels

import (
	"fmt"
	"regexp"
	"strings"

	"golikert/domain/plan"
)

// Character limits for short labels
const (
	MaxChars = 28
	HardMax  = 40
)

// LabelMap maps original column names to short display labels.
type LabelMap map[string]string

var (
	leadingNumberRe  = regexp.MustCompile(`^\d+\.\s*`)
	parentheticalRe  = regexp.MustCompile(`\s*\([^)]*\)`)
	trailingPunctSet = ".,;:"
)

// Generate builds the label map for every item in the universe.
// Configured labels win; anything else gets a deterministic fallback.
// Duplicate labels are disambiguated with numeric suffixes.
func Generate(p *plan.AnalysisPlan) LabelMap {
	m := make(LabelMap, len(p.ItemsUniverse))

	for _, item := range p.ItemsUniverse {
		if label, ok := p.ItemLabels[item]; ok {
			m[item] = label
		} else {
			m[item] = Fallback(item)
		}
	}

	ensureUnique(m, p.ItemsUniverse)
	return m
}

// Get returns the display label for an item, falling back to the
// generated short form when the map has no entry.
func (m LabelMap) Get(item string) string {
	if label, ok := m[item]; ok {
		return label
	}
	return Fallback(item)
}

// Fallback derives a short label from the raw item text:
// bracket content for budget tradeoff items, otherwise strip the
// question number and parentheticals and truncate at a word boundary.
func Fallback(item string) string {
	if start := strings.LastIndex(item, "["); start >= 0 {
		if end := strings.LastIndex(item, "]"); end > start {
			content := strings.TrimSpace(item[start+1 : end])
			return truncateRunes(content, MaxChars)
		}
	}

	text := leadingNumberRe.ReplaceAllString(strings.TrimSpace(item), "")
	text = parentheticalRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= MaxChars {
		return text
	}

	truncated := string(runes[:MaxChars])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > MaxChars/2 {
		return strings.TrimRight(truncated[:lastSpace], trailingPunctSet) + "…"
	}
	return strings.TrimRight(truncated, trailingPunctSet) + "…"
}

// ensureUnique appends " (i)" suffixes to labels shared by several
// items, walking items in universe order so the numbering is stable.
func ensureUnique(m LabelMap, universeOrder []string) {
	byLabel := make(map[string][]string)
	for _, item := range universeOrder {
		label := m[item]
		byLabel[label] = append(byLabel[label], item)
	}

	for label, items := range byLabel {
		if len(items) < 2 {
			continue
		}
		for i, item := range items {
			suffix := fmt.Sprintf(" (%d)", i+1)
			m[item] = truncateRunes(label, MaxChars-len(suffix)) + suffix
		}
	}
}

// Validate returns error messages for labels breaking the uniqueness or
// length requirements. An empty slice means the map is valid.
func Validate(m LabelMap) []string {
	var errs []string

	seen := make(map[string]int, len(m))
	for _, label := range m {
		seen[label]++
	}
	for label, count := range seen {
		if count > 1 {
			errs = append(errs, fmt.Sprintf("duplicate label: %q used %d times", label, count))
		}
	}

	for _, label := range m {
		if len([]rune(label)) > HardMax {
			errs = append(errs, fmt.Sprintf("label too long (%d chars): %s", len([]rune(label)), label))
		}
	}

	return errs
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
