package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golikert/internal"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	return NewServer(internal.NewDefaultLogger(), dir), dir
}

func TestHandleHealth(t *testing.T) {
	server, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestHandleValidatePlan_Valid(t *testing.T) {
	server, _ := testServer(t)

	body := `
items_universe: ["q1"]
qa_filters:
  age_column: "Wiek"
  attention_check_column: "Uwaga"
correlations:
  scope: all_items
gating_thresholds:
  min_group_n: 10
missingness_rules:
  flag_threshold: 0.2
fdr_settings:
  q: 0.05
  method: bh
charts:
  - id: A_chart
    type: diverging_bar
    items: ["q1"]
`
	req := httptest.NewRequest(http.MethodPost, "/api/plan/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp validationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response JSON: %v", err)
	}
	if !resp.Valid || resp.NItems != 1 {
		t.Errorf("Expected valid response with 1 item, got %+v", resp)
	}
}

func TestHandleValidatePlan_AggregatedViolations(t *testing.T) {
	server, _ := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/plan/validate", strings.NewReader("items_universe: []\ncharts: []\n"))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", rec.Code)
	}

	var resp validationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response JSON: %v", err)
	}
	if resp.Valid {
		t.Error("Invalid plan should report valid=false")
	}
	// The full violation list comes back, not just the first problem
	if len(resp.Violations) < 2 {
		t.Errorf("Expected aggregated violations, got %v", resp.Violations)
	}
}

func TestHandleValidatePlan_MalformedYAML(t *testing.T) {
	server, _ := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/plan/validate", strings.NewReader("items_universe: [unclosed"))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed document, got %d", rec.Code)
	}
}

func TestHandleAggregates(t *testing.T) {
	server, dir := testServer(t)

	payload := []byte(`{"n_respondents": 95}`)
	if err := os.WriteFile(filepath.Join(dir, "aggregates.json"), payload, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/aggregates", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "n_respondents") {
		t.Errorf("Expected aggregates payload, got %s", rec.Body.String())
	}
}

func TestOutputsFileServer(t *testing.T) {
	server, dir := testServer(t)

	if err := os.WriteFile(filepath.Join(dir, "report.md"), []byte("# Raport"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/outputs/report.md", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "# Raport" {
		t.Errorf("Unexpected body: %q", rec.Body.String())
	}
}
