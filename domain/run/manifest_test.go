package run

import (
	"testing"

	"golikert/domain/core"
	"golikert/domain/plan"
)

func TestComputeFingerprint_Deterministic(t *testing.T) {
	// Golden test: identical inputs produce identical fingerprints
	artifacts := map[string]core.ArtifactHash{
		"report.md":       core.ArtifactHash(core.NewHash([]byte("report"))),
		"aggregates.json": core.ArtifactHash(core.NewHash([]byte("aggregates"))),
	}

	fp1 := ComputeFingerprint("plan-hash", "data-hash", "1.0.0", artifacts)
	fp2 := ComputeFingerprint("plan-hash", "data-hash", "1.0.0", artifacts)

	if fp1 != fp2 {
		t.Errorf("Fingerprints not identical: %s vs %s", fp1, fp2)
	}
}

func TestComputeFingerprint_SensitiveToInputs(t *testing.T) {
	artifacts := map[string]core.ArtifactHash{
		"report.md": core.ArtifactHash(core.NewHash([]byte("report"))),
	}
	base := ComputeFingerprint("plan-hash", "data-hash", "1.0.0", artifacts)

	if ComputeFingerprint("other-plan", "data-hash", "1.0.0", artifacts) == base {
		t.Error("Fingerprint should change with plan hash")
	}
	if ComputeFingerprint("plan-hash", "other-data", "1.0.0", artifacts) == base {
		t.Error("Fingerprint should change with data hash")
	}
	if ComputeFingerprint("plan-hash", "data-hash", "2.0.0", artifacts) == base {
		t.Error("Fingerprint should change with code version")
	}

	changed := map[string]core.ArtifactHash{
		"report.md": core.ArtifactHash(core.NewHash([]byte("different report"))),
	}
	if ComputeFingerprint("plan-hash", "data-hash", "1.0.0", changed) == base {
		t.Error("Fingerprint should change with artifact hashes")
	}
}

func TestNewManifest_ExcludesRunIDFromFingerprint(t *testing.T) {
	artifacts := map[string]core.ArtifactHash{
		"report.md": core.ArtifactHash(core.NewHash([]byte("report"))),
	}

	m1 := NewManifest(plan.PersonaCampaign, "1.0", "plan-hash", "data-hash", "1.0.0", artifacts)
	m2 := NewManifest(plan.PersonaCampaign, "1.0", "plan-hash", "data-hash", "1.0.0", artifacts)

	if m1.RunID == m2.RunID {
		t.Error("Distinct runs should get distinct run ids")
	}
	// Replay determinism: new run id and timestamp, same fingerprint
	if m1.Fingerprint != m2.Fingerprint {
		t.Errorf("Replayed run should fingerprint equal: %s vs %s", m1.Fingerprint, m2.Fingerprint)
	}
}

func TestManifest_Validate(t *testing.T) {
	m := NewManifest(plan.PersonaMinfin, "1.0", "plan-hash", "data-hash", "1.0.0", nil)
	if err := m.Validate(); err != nil {
		t.Fatalf("Complete manifest should validate, got: %v", err)
	}

	m.PlanHash = ""
	if err := m.Validate(); err == nil {
		t.Error("Manifest without plan hash should fail validation")
	}

	m = NewManifest(plan.PersonaMinfin, "1.0", "plan-hash", "data-hash", "", nil)
	if err := m.Validate(); err == nil {
		t.Error("Manifest without code version should fail validation")
	}
}
