package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"golikert/domain/core"
	"golikert/domain/plan"
	"golikert/domain/run"
)

// WriteManifest hashes the inputs and every artifact written so far and
// writes manifest.json last, so the manifest covers the complete run.
func WriteManifest(
	store *ArtifactStore,
	p *plan.AnalysisPlan,
	persona plan.Persona,
	planPath, dataPath, codeVersion string,
) (*run.Manifest, error) {
	planHash, err := core.HashFile(planPath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash analysis plan: %w", err)
	}
	dataHash, err := core.HashFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash data file: %w", err)
	}

	artifacts := make(map[string]core.ArtifactHash)
	for _, name := range store.Written() {
		h, err := core.HashFile(filepath.Join(store.Dir(), name))
		if err != nil {
			return nil, fmt.Errorf("failed to hash artifact %s: %w", name, err)
		}
		artifacts[name] = core.ArtifactHash(h)
	}

	manifest := run.NewManifest(
		persona,
		p.Version,
		core.PlanHash(planHash),
		core.DataHash(dataHash),
		codeVersion,
		artifacts,
	)
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}

	if _, err := store.WriteArtifact("manifest.json", buf.Bytes()); err != nil {
		return nil, err
	}
	return manifest, nil
}
