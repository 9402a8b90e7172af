package diag

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/hangwatch/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

type scriptedProbe struct {
	name   string
	result domain.DiagnosticResult
	panics bool
}

func (p *scriptedProbe) Name() string { return p.name }

func (p *scriptedProbe) Run(context.Context) domain.DiagnosticResult {
	if p.panics {
		panic("probe exploded")
	}
	return p.result
}

func passResult(name string, recs ...string) domain.DiagnosticResult {
	r := domain.NewDiagnosticResult(name, "test")
	r.Resolve(domain.DiagnosticPass, "fine")
	r.Recommendations = recs
	return *r
}

func TestEngine_PanicBecomesFailResult(t *testing.T) {
	engine := NewEngine(t.TempDir(), nopLogger{}).WithProbes(
		&scriptedProbe{name: "Exploding", panics: true},
		&scriptedProbe{name: "Healthy", result: passResult("Healthy")},
	)

	results, err := engine.RunFull(context.Background())
	if err != nil {
		t.Fatalf("RunFull: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: one failing probe must not abort the suite", len(results))
	}
	if results[0].Status != domain.DiagnosticFail {
		t.Errorf("panicking probe status = %q, want fail", results[0].Status)
	}
	if results[1].Status != domain.DiagnosticPass {
		t.Errorf("healthy probe status = %q, want pass", results[1].Status)
	}
}

func TestEngine_NoResultLeftPending(t *testing.T) {
	// A probe that forgets to resolve must still not surface as pending.
	pending := *domain.NewDiagnosticResult("Forgetful", "test")
	engine := NewEngine(t.TempDir(), nopLogger{}).WithProbes(
		&scriptedProbe{name: "Forgetful", result: pending},
	)

	results, err := engine.RunFull(context.Background())
	if err != nil {
		t.Fatalf("RunFull: %v", err)
	}
	for _, r := range results {
		if r.Status == domain.DiagnosticPending {
			t.Errorf("result %q left pending after RunFull", r.Name)
		}
	}
}

func TestEngine_DeduplicatesRecommendations(t *testing.T) {
	engine := NewEngine(t.TempDir(), nopLogger{}).WithProbes(
		&scriptedProbe{name: "A", result: passResult("A", "trim PATH", "trim hooks")},
		&scriptedProbe{name: "B", result: passResult("B", "trim hooks", "trim PATH", "check disk")},
	)

	results, err := engine.RunFull(context.Background())
	if err != nil {
		t.Fatalf("RunFull: %v", err)
	}

	var all []string
	for _, r := range results {
		all = append(all, r.Recommendations...)
	}
	want := []string{"trim PATH", "trim hooks", "check disk"}
	if len(all) != len(want) {
		t.Fatalf("got recommendations %v, want %v", all, want)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("recommendation[%d] = %q, want %q (first occurrence wins, stable order)", i, all[i], want[i])
		}
	}
}

func TestEngine_WritesTimestampedReport(t *testing.T) {
	dir := t.TempDir()
	engine := NewEngine(dir, nopLogger{}).WithProbes(
		&scriptedProbe{name: "A", result: passResult("A")},
	)

	if _, err := engine.RunFull(context.Background()); err != nil {
		t.Fatalf("RunFull: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "diagnostic_report_*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("report files = %v (err %v), want exactly one", matches, err)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report domain.DiagnosticReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if report.PassCount != 1 || report.WarnCount != 0 || report.FailCount != 0 {
		t.Errorf("tallies = %d/%d/%d, want 1/0/0", report.PassCount, report.WarnCount, report.FailCount)
	}
	if len(report.Results) != 1 {
		t.Errorf("report carries %d results, want 1", len(report.Results))
	}
}

func TestEngine_ReportWriteFailureIsAbsorbed(t *testing.T) {
	// Pointing the report dir at a file makes MkdirAll fail.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(filepath.Join(blocker, "reports"), nopLogger{}).WithProbes(
		&scriptedProbe{name: "A", result: passResult("A")},
	)

	if _, err := engine.RunFull(context.Background()); err != nil {
		t.Fatalf("persistence failure must never fail the sweep: %v", err)
	}
}
