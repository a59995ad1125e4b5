// Package run models the reproducibility manifest written at the end of
// every pipeline run. The manifest is the truth source for replay: same
// plan, same data and same code version must reproduce the same
// fingerprint.
package run

import (
	"time"

	"golikert/domain/core"
	"golikert/domain/plan"
)

// Manifest records everything needed to audit and reproduce a run.
type Manifest struct {
	RunID       core.RunID                   `json:"run_id"`
	Persona     plan.Persona                 `json:"persona"`
	PlanVersion string                       `json:"plan_version"`
	PlanHash    core.PlanHash                `json:"plan_hash"`
	DataHash    core.DataHash                `json:"data_hash"`
	CodeVersion string                       `json:"code_version"`
	Artifacts   map[string]core.ArtifactHash `json:"artifacts"`
	Fingerprint core.Hash                    `json:"fingerprint"`
	CreatedAt   time.Time                    `json:"created_at"`
}

// NewManifest builds a manifest and its determinism fingerprint. The
// fingerprint covers the plan, the data and every artifact hash, but
// never the run id or timestamp, so replayed runs fingerprint equal.
func NewManifest(
	persona plan.Persona,
	planVersion string,
	planHash core.PlanHash,
	dataHash core.DataHash,
	codeVersion string,
	artifacts map[string]core.ArtifactHash,
) *Manifest {
	return &Manifest{
		RunID:       core.RunID(core.NewID()),
		Persona:     persona,
		PlanVersion: planVersion,
		PlanHash:    planHash,
		DataHash:    dataHash,
		CodeVersion: codeVersion,
		Artifacts:   artifacts,
		Fingerprint: ComputeFingerprint(planHash, dataHash, codeVersion, artifacts),
		CreatedAt:   time.Now().UTC(),
	}
}

// ComputeFingerprint folds the determinism inputs into a single hash.
func ComputeFingerprint(
	planHash core.PlanHash,
	dataHash core.DataHash,
	codeVersion string,
	artifacts map[string]core.ArtifactHash,
) core.Hash {
	setHash := core.ComputeArtifactSetHash(artifacts)
	return core.NewHash([]byte(planHash.String() + dataHash.String() + codeVersion + setHash.String()))
}

// Validate checks the manifest is complete.
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("manifest", "run_id cannot be empty")
	}
	if m.PlanHash == "" {
		return core.NewValidationError("manifest", "plan_hash cannot be empty")
	}
	if m.DataHash == "" {
		return core.NewValidationError("manifest", "data_hash cannot be empty")
	}
	if m.CodeVersion == "" {
		return core.NewValidationError("manifest", "code_version cannot be empty")
	}
	return nil
}
