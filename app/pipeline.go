// Package app wires the pipeline stages together: plan loading, QA
// filtering, Likert encoding, statistics and artifact writing. One Run
// is a single linear pass; independent runs may execute in parallel
// because every run owns its table and result lists.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"golikert/adapters/dataset"
	"golikert/adapters/planfile"
	"golikert/adapters/stats"
	"golikert/domain/plan"
	"golikert/domain/run"
	"golikert/domain/survey"
	"golikert/internal"
	"golikert/internal/labels"
	"golikert/internal/report"
	"golikert/ports"
)

// Pipeline executes survey analysis runs.
type Pipeline struct {
	logger *internal.Logger
	reader ports.TableReader
}

// NewPipeline creates a pipeline with the default file reader.
func NewPipeline(logger *internal.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		reader: dataset.NewReader(),
	}
}

// RunOptions selects the inputs and personas of one invocation.
type RunOptions struct {
	PlanPath    string
	DataPath    string
	OutputDir   string
	Personas    []plan.Persona
	CodeVersion string
}

// RunSummary carries every core output of a run for callers and tests.
type RunSummary struct {
	Plan         *plan.AnalysisPlan
	Load         *survey.LoadResult
	Descriptives []survey.DescriptiveRow
	Correlations *survey.CorrelationMatrix
	Confirmatory []*survey.ConfirmatoryResult
	Aggregates   *survey.Aggregates
	Manifests    []*run.Manifest
}

// Run executes the full pipeline. The statistics are computed once;
// persona-specific artifacts are then written concurrently, one output
// subdirectory per persona, each with its own label map so nothing
// leaks between personas.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*RunSummary, error) {
	analysisPlan, err := planfile.Load(opts.PlanPath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("plan valid: %d items in universe", len(analysisPlan.ItemsUniverse))

	load, err := dataset.LoadAndFilter(analysisPlan, p.reader, opts.DataPath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("loaded %d rows, %d after QA filters", load.NTotal, load.NAfterAttention)

	encoded := dataset.EncodeLikert(load.Table, analysisPlan.ItemsUniverse)

	descriptives := stats.ComputeDescriptives(encoded, analysisPlan.ItemsUniverse, analysisPlan.MissingnessRules.FlagThreshold)
	correlations := stats.ComputeCorrelations(encoded, analysisPlan)
	confirmatory := stats.RunConfirmatoryTests(load.Table, encoded, analysisPlan)
	stats.ApplyFDRCorrection(confirmatory, analysisPlan.FDRSettings)

	aggregates := report.BuildAggregates(len(load.Table.Rows), analysisPlan, descriptives)

	summary := &RunSummary{
		Plan:         analysisPlan,
		Load:         load,
		Descriptives: descriptives,
		Correlations: correlations,
		Confirmatory: confirmatory,
		Aggregates:   aggregates,
	}

	personas := opts.Personas
	if len(personas) == 0 {
		personas = []plan.Persona{plan.PersonaCampaign}
	}

	manifests := make([]*run.Manifest, len(personas))
	g, _ := errgroup.WithContext(ctx)
	for i, persona := range personas {
		i, persona := i, persona
		g.Go(func() error {
			dir := opts.OutputDir
			if len(personas) > 1 {
				dir = filepath.Join(opts.OutputDir, string(persona))
			}
			manifest, err := p.writeArtifacts(summary, persona, dir, opts)
			if err != nil {
				return fmt.Errorf("persona %s: %w", persona, err)
			}
			manifests[i] = manifest
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.Manifests = manifests
	return summary, nil
}

// writeArtifacts renders the complete artifact set for one persona. The
// manifest is written last so it hashes everything else.
func (p *Pipeline) writeArtifacts(summary *RunSummary, persona plan.Persona, dir string, opts RunOptions) (*run.Manifest, error) {
	concrete, err := report.NewArtifactStore(dir)
	if err != nil {
		return nil, err
	}
	var store ports.ArtifactWriter = concrete

	// Label map is a per-run value, never shared between personas.
	labelMap := labels.Generate(summary.Plan)

	labelCSV, err := labelMap.EncodeCSV(summary.Plan.ItemsUniverse, "config_or_fallback")
	if err != nil {
		return nil, err
	}
	if _, err := store.WriteArtifact("label_map.csv", labelCSV); err != nil {
		return nil, err
	}
	labelJSON, err := labelMap.EncodeJSON()
	if err != nil {
		return nil, err
	}
	if _, err := store.WriteArtifact("label_map.json", labelJSON); err != nil {
		return nil, err
	}

	qaLog := report.QALog(summary.Plan, summary.Load, summary.Descriptives, labelMap)
	if _, err := store.WriteArtifact("qa_log.md", []byte(qaLog)); err != nil {
		return nil, err
	}

	reportMD := report.Report(summary.Plan, summary.Descriptives, summary.Confirmatory, persona, labelMap)
	if _, err := store.WriteArtifact("report.md", []byte(reportMD)); err != nil {
		return nil, err
	}
	if _, err := store.WriteArtifact("report.html", report.RenderHTML(reportMD)); err != nil {
		return nil, err
	}

	appendix := report.MethodsAppendix(summary.Plan)
	if _, err := store.WriteArtifact("methods_appendix.md", []byte(appendix)); err != nil {
		return nil, err
	}

	snippets := report.SlideSnippets(summary.Plan, summary.Descriptives, persona, labelMap)
	if _, err := store.WriteArtifact("slide_snippets.md", []byte(snippets)); err != nil {
		return nil, err
	}

	descCSV, err := report.DescriptivesCSV(summary.Descriptives)
	if err != nil {
		return nil, err
	}
	if _, err := store.WriteArtifact("descriptives_table.csv", descCSV); err != nil {
		return nil, err
	}

	confCSV, err := report.ConfirmatoryCSV(summary.Confirmatory)
	if err != nil {
		return nil, err
	}
	if _, err := store.WriteArtifact("confirmatory_results.csv", confCSV); err != nil {
		return nil, err
	}

	corrCSV, err := report.CorrelationsCSV(summary.Correlations)
	if err != nil {
		return nil, err
	}
	if _, err := store.WriteArtifact("correlations.csv", corrCSV); err != nil {
		return nil, err
	}

	for _, chart := range summary.Plan.Charts {
		chartCSV, err := report.ChartDataCSV(chart, summary.Descriptives, labelMap)
		if err != nil {
			return nil, err
		}
		if _, err := store.WriteArtifact(report.ChartDataName(chart), chartCSV); err != nil {
			return nil, err
		}
	}

	aggJSON, err := report.EncodeAggregates(summary.Aggregates)
	if err != nil {
		return nil, err
	}
	if _, err := store.WriteArtifact("aggregates.json", aggJSON); err != nil {
		return nil, err
	}

	p.logger.Debug("persona %s: %d artifacts written to %s", persona, len(concrete.Written()), dir)

	return report.WriteManifest(concrete, summary.Plan, persona, opts.PlanPath, opts.DataPath, opts.CodeVersion)
}
