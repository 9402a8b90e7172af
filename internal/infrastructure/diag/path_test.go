package diag

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doeshing/hangwatch/internal/domain"
)

func fakeEnv(path string) func(string) string {
	return func(key string) string {
		if key == "PATH" {
			return path
		}
		return ""
	}
}

func TestPathProbe_HealthyPath(t *testing.T) {
	dir := t.TempDir()
	probe := NewPathProbe(fakeEnv(dir))

	result := probe.Run(context.Background())

	if result.Status != domain.DiagnosticPass {
		t.Errorf("status = %q, want pass (message %q)", result.Status, result.Message)
	}
}

func TestPathProbe_OversizedPathWithDuplicateAndInvalid(t *testing.T) {
	// A ~9000-character PATH containing exactly one duplicate and one
	// nonexistent entry within the validated prefix.
	real := t.TempDir()
	missing := filepath.Join(real, "does-not-exist")
	sep := string(os.PathListSeparator)

	entries := []string{real, missing, real} // duplicate of the first
	longName := strings.Repeat("p", 180)
	for i := 0; i < 27; i++ { // fill the validated prefix with real dirs
		dir := filepath.Join(real, longName+string(rune('a'+i)))
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		entries = append(entries, dir)
	}
	for len(strings.Join(entries, sep)) < 9000 { // beyond the prefix: never validated
		entries = append(entries, filepath.Join(real, "overflow", longName))
	}
	probe := NewPathProbe(fakeEnv(strings.Join(entries, sep)))

	result := probe.Run(context.Background())

	if result.Status != domain.DiagnosticWarning {
		t.Fatalf("status = %q, want warning", result.Status)
	}
	if dup, _ := result.Detail("duplicate_entries"); dup != "1" {
		t.Errorf("duplicate_entries = %q, want 1", dup)
	}
	if inv, _ := result.Detail("invalid_entries"); inv != "1" {
		t.Errorf("invalid_entries = %q, want 1", inv)
	}
}

func TestPathProbe_ValidationIsBounded(t *testing.T) {
	sep := string(os.PathListSeparator)
	entries := make([]string, 80)
	for i := range entries {
		entries[i] = "/nonexistent/dir" + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}

	stats := 0
	probe := NewPathProbe(fakeEnv(strings.Join(entries, sep)))
	probe.stat = func(path string) (os.FileInfo, error) {
		stats++
		return os.Stat(path)
	}

	result := probe.Run(context.Background())

	if stats > domain.MaxPathEntriesValidated {
		t.Errorf("validated %d entries, bound is %d", stats, domain.MaxPathEntriesValidated)
	}
	if checked, _ := result.Detail("entries_validated"); checked != "30" {
		t.Errorf("entries_validated = %q, want 30", checked)
	}
	if result.Status != domain.DiagnosticWarning {
		t.Errorf("status = %q, want warning for an oversized PATH", result.Status)
	}
}
