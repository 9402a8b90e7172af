// Package diag implements the read-only diagnostic sweep: a fixed sequence
// of independent, individually-timeboxed system probes run when a hang is
// suspected. Probes never mutate the host; a failing probe becomes a single
// fail result and never aborts the rest of the suite.
package diag

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/ports"
)

// Engine runs the probe sequence strictly sequentially so total diagnostic
// time stays predictable.
type Engine struct {
	probes    []ports.DiagnosticProbe
	reportDir string
	logger    ports.Logger
	now       func() time.Time
}

// NewEngine builds the engine with the default probe sequence.
func NewEngine(reportDir string, logger ports.Logger) *Engine {
	return &Engine{
		probes: []ports.DiagnosticProbe{
			NewShellEnvironmentProbe(),
			NewShellProfileProbe(),
			NewPathProbe(os.Getenv),
			NewGitProbe(""),
			NewPerformanceProbe(),
			NewResourcesProbe(),
		},
		reportDir: reportDir,
		logger:    logger,
		now:       time.Now,
	}
}

// WithProbes replaces the probe sequence, for tests.
func (e *Engine) WithProbes(probes ...ports.DiagnosticProbe) *Engine {
	e.probes = probes
	return e
}

// RunFull executes every probe group, deduplicates recommendations across
// results (stable order, first occurrence wins), and persists one
// timestamped report. Report write failures are logged, never returned.
func (e *Engine) RunFull(ctx context.Context) ([]domain.DiagnosticResult, error) {
	results := make([]domain.DiagnosticResult, 0, len(e.probes))
	for _, probe := range e.probes {
		result := e.runProbe(ctx, probe)
		if result.Elapsed > domain.ProbeGroupCanary {
			// Canary for probes that are themselves slow or hanging.
			e.logger.Warn("diagnostic probe exceeded canary threshold", map[string]interface{}{
				"probe": probe.Name(), "elapsed": result.Elapsed.String(),
			})
		}
		results = append(results, result)
	}

	dedupeRecommendations(results)

	report := e.buildReport(results)
	if err := e.writeReport(report); err != nil {
		e.logger.Warn("diagnostic report not persisted", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return results, nil
}

// runProbe is the failure boundary: a panic inside one probe group becomes
// a single fail result for that group.
func (e *Engine) runProbe(ctx context.Context, probe ports.DiagnosticProbe) (result domain.DiagnosticResult) {
	started := e.now()
	defer func() {
		if r := recover(); r != nil {
			result = domain.DiagnosticResult{
				Name:     probe.Name(),
				Category: "internal",
				Status:   domain.DiagnosticFail,
				Message:  fmt.Sprintf("probe panicked: %v", r),
				Elapsed:  e.now().Sub(started),
			}
		}
	}()

	result = probe.Run(ctx)
	result.Elapsed = e.now().Sub(started)
	if result.Status == domain.DiagnosticPending {
		result.Status = domain.DiagnosticWarning
		if result.Message == "" {
			result.Message = "probe returned no status"
		}
	}
	return result
}

func dedupeRecommendations(results []domain.DiagnosticResult) {
	seen := make(map[string]struct{})
	for i := range results {
		kept := results[i].Recommendations[:0]
		for _, rec := range results[i].Recommendations {
			if _, dup := seen[rec]; dup {
				continue
			}
			seen[rec] = struct{}{}
			kept = append(kept, rec)
		}
		results[i].Recommendations = kept
	}
}

func (e *Engine) buildReport(results []domain.DiagnosticResult) domain.DiagnosticReport {
	hostname, _ := os.Hostname()
	report := domain.DiagnosticReport{
		ID:          uuid.NewString(),
		GeneratedAt: e.now(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		Hostname:    hostname,
		Results:     results,
	}
	for _, r := range results {
		switch r.Status {
		case domain.DiagnosticPass:
			report.PassCount++
		case domain.DiagnosticWarning:
			report.WarnCount++
		case domain.DiagnosticFail:
			report.FailCount++
		}
	}
	return report
}

var _ ports.DiagnosticService = (*Engine)(nil)
