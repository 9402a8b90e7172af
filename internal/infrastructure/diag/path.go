package diag

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/ports"
)

// PathProbe splits the PATH-like variable into entries and validates a
// bounded prefix of them, so pathological values cannot cause unbounded work.
type PathProbe struct {
	getenv func(string) string
	stat   func(string) (os.FileInfo, error)
}

// NewPathProbe builds the probe; getenv is injectable for tests.
func NewPathProbe(getenv func(string) string) *PathProbe {
	return &PathProbe{getenv: getenv, stat: os.Stat}
}

func (p *PathProbe) Name() string { return "PathConfiguration" }

func (p *PathProbe) Run(_ context.Context) domain.DiagnosticResult {
	result := domain.NewDiagnosticResult(p.Name(), "environment")

	raw := p.getenv("PATH")
	entries := splitPathList(raw)
	result.AddDetail("entry_count", strconv.Itoa(len(entries)))
	result.AddDetail("total_length", strconv.Itoa(len(raw)))

	// Only the first entries are validated: existence checks on a
	// pathological PATH must stay bounded.
	checked := entries
	if len(checked) > domain.MaxPathEntriesValidated {
		checked = checked[:domain.MaxPathEntriesValidated]
	}

	seen := make(map[string]struct{}, len(checked))
	var duplicates, invalid []string
	for _, entry := range checked {
		if entry == "" {
			continue
		}
		if _, dup := seen[entry]; dup {
			duplicates = append(duplicates, entry)
			continue
		}
		seen[entry] = struct{}{}
		if info, err := p.stat(entry); err != nil || !info.IsDir() {
			invalid = append(invalid, entry)
		}
	}

	result.AddDetail("entries_validated", strconv.Itoa(len(checked)))
	result.AddDetail("duplicate_entries", strconv.Itoa(len(duplicates)))
	result.AddDetail("invalid_entries", strconv.Itoa(len(invalid)))
	if len(duplicates) > 0 {
		result.AddDetail("duplicate_samples", sample(duplicates, 3))
		result.Recommend("remove duplicate PATH entries; each lookup scans every entry")
	}
	if len(invalid) > 0 {
		result.AddDetail("invalid_samples", sample(invalid, 3))
		result.Recommend("remove nonexistent PATH entries; failed stats slow command resolution")
	}

	switch {
	case len(entries) > domain.MaxPathEntriesBeforeWarn:
		result.Recommend("PATH has grown very long; consolidate tool directories")
		result.Resolve(domain.DiagnosticWarning, fmt.Sprintf("%d PATH entries (threshold %d)",
			len(entries), domain.MaxPathEntriesBeforeWarn))
	case len(raw) > domain.MaxPathLengthBeforeWarn:
		result.Resolve(domain.DiagnosticWarning, fmt.Sprintf("PATH is %d characters (threshold %d)",
			len(raw), domain.MaxPathLengthBeforeWarn))
	case len(duplicates) > 0 || len(invalid) > 0:
		result.Resolve(domain.DiagnosticWarning, fmt.Sprintf("%d duplicate and %d invalid entries",
			len(duplicates), len(invalid)))
	default:
		result.Resolve(domain.DiagnosticPass, "PATH configuration looks healthy")
	}
	return *result
}

func splitPathList(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, string(os.PathListSeparator))
}

// sample joins up to n entries, truncating each for display.
func sample(entries []string, n int) string {
	if len(entries) > n {
		entries = entries[:n]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		if len(e) > 60 {
			e = e[:57] + "..."
		}
		out[i] = e
	}
	return strings.Join(out, ", ")
}

var _ ports.DiagnosticProbe = (*PathProbe)(nil)
