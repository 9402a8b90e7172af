package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/doeshing/hangwatch/internal/domain"
)

var (
	passStyle = color.New(color.FgGreen)
	warnStyle = color.New(color.FgYellow)
	failStyle = color.New(color.FgRed)
)

// RenderResult prints one execution outcome.
func RenderResult(out io.Writer, result domain.CommandResult) {
	status := "completed"
	switch {
	case result.Killed:
		status = "killed"
	case result.TimedOut:
		status = "timed out"
	}
	fmt.Fprintf(out, "\n%s (exit %d, %.2fs)\n", status, result.ExitCode, result.Duration)
	if result.Stdout != "" {
		fmt.Fprintln(out, "\nstdout:")
		fmt.Fprintln(out, strings.TrimRight(result.Stdout, "\n"))
	}
	if result.Stderr != "" {
		fmt.Fprintln(out, "\nstderr:")
		fmt.Fprintln(out, strings.TrimRight(result.Stderr, "\n"))
	}
}

// RenderDiagnostics prints the categorized, recommendation-annotated report.
func RenderDiagnostics(out io.Writer, results []domain.DiagnosticResult) {
	for _, r := range results {
		style := passStyle
		switch r.Status {
		case domain.DiagnosticWarning:
			style = warnStyle
		case domain.DiagnosticFail:
			style = failStyle
		}
		style.Fprintf(out, "[%s]", strings.ToUpper(string(r.Status)))
		fmt.Fprintf(out, " %s (%s) - %s [%s]\n", r.Name, r.Category, r.Message,
			r.Elapsed.Round(time.Millisecond))
		for _, d := range r.Details {
			fmt.Fprintf(out, "    %s: %s\n", d.Key, d.Value)
		}
		for _, rec := range r.Recommendations {
			fmt.Fprintf(out, "    -> %s\n", rec)
		}
	}

	var pass, warn, fail int
	for _, r := range results {
		switch r.Status {
		case domain.DiagnosticPass:
			pass++
		case domain.DiagnosticWarning:
			warn++
		case domain.DiagnosticFail:
			fail++
		}
	}
	fmt.Fprintf(out, "\n%d pass, %d warning, %d fail\n", pass, warn, fail)
}

// RenderSummary prints statistics plus the slow-command ranking.
func RenderSummary(out io.Writer, stats domain.Statistics) {
	fmt.Fprintf(out, "total runs:       %d\n", stats.TotalRuns)
	fmt.Fprintf(out, "timed out:        %d (%.1f%%)\n", stats.TimedOutRuns, stats.TimeoutRate)
	fmt.Fprintf(out, "killed:           %d\n", stats.KilledRuns)
	fmt.Fprintf(out, "diagnostic runs:  %d\n", stats.DiagnosticRuns)
	if stats.TotalRuns > 0 {
		fmt.Fprintf(out, "duration avg/min/max: %.2fs / %.2fs / %.2fs\n",
			stats.AvgDuration, stats.MinDuration, stats.MaxDuration)
	}
	if len(stats.Slowest) > 0 {
		fmt.Fprintf(out, "\nslowest commands (> %.0fs):\n", domain.SlowCommandThreshold)
		for i, rec := range stats.Slowest {
			fmt.Fprintf(out, "  %2d. %7.2fs  %s\n", i+1, rec.Duration, truncateCommand(rec.Command))
		}
	}
}

// RenderHistory prints stored results, most recent first.
func RenderHistory(out io.Writer, records []domain.CommandResult, limit int) {
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		flags := ""
		if rec.TimedOut {
			flags += " timeout"
		}
		if rec.Killed {
			flags += " killed"
		}
		if rec.DiagnosticRun {
			flags += " diagnosed"
		}
		fmt.Fprintf(out, "%s  exit=%-3d %6.2fs%s  %s\n",
			rec.StartedAt.Format(time.RFC3339), rec.ExitCode, rec.Duration, flags,
			truncateCommand(rec.Command))
	}
}

func truncateCommand(cmd string) string {
	if len(cmd) <= domain.CommandPreviewWidth {
		return cmd
	}
	return cmd[:domain.CommandPreviewWidth-3] + "..."
}
