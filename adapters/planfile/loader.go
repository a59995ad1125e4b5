// Package planfile loads and validates the YAML analysis plan.
package planfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"golikert/domain/core"
	"golikert/domain/plan"
)

// Load reads the plan document at path, applies defaults and validates
// every invariant. Any violation is a hard failure.
func Load(path string) (*plan.AnalysisPlan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewPlanNotFoundError(path)
		}
		return nil, fmt.Errorf("failed to read analysis plan: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates plan document bytes.
func Parse(raw []byte) (*plan.AnalysisPlan, error) {
	var p plan.AnalysisPlan
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: malformed document: %v", core.ErrPlanInvalid, err)
	}

	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
