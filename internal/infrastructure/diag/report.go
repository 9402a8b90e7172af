package diag

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/doeshing/hangwatch/internal/domain"
)

// writeReport persists one timestamped JSON artifact per diagnostic run.
func (e *Engine) writeReport(report domain.DiagnosticReport) error {
	if e.reportDir == "" {
		return nil
	}
	if err := os.MkdirAll(e.reportDir, domain.DirectoryPermissions); err != nil {
		return err
	}
	name := fmt.Sprintf("diagnostic_report_%d.json", report.GeneratedAt.Unix())
	path := filepath.Join(e.reportDir, name)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	e.logger.Info("diagnostic report written", map[string]interface{}{"path": path})
	return nil
}

// ReportDir returns where report artifacts are written. Used by the CLI to
// echo the artifact location.
func (e *Engine) ReportDir() string {
	return e.reportDir
}
