package diag

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/infrastructure/runner"
	"github.com/doeshing/hangwatch/internal/ports"
)

// perf bands
const (
	bandFast     = "fast"
	bandSlow     = "slow"
	bandVerySlow = "very_slow"
	bandTimeout  = "timeout"
)

// perfBattery is the fixed set of common VCS commands timed by the probe.
var perfBattery = [][]string{
	{"git", "status", "--porcelain"},
	{"git", "log", "--oneline", "-1"},
	{"git", "diff", "--stat"},
	{"git", "branch", "--list"},
}

// PerformanceProbe times a fixed battery of VCS commands plus shell startup,
// classifying each into latency bands.
type PerformanceProbe struct {
	ceiling time.Duration
}

// NewPerformanceProbe builds the probe with the default per-command ceiling.
func NewPerformanceProbe() *PerformanceProbe {
	return &PerformanceProbe{ceiling: domain.ProbeCommandCeiling}
}

func (p *PerformanceProbe) Name() string { return "CommandPerformance" }

func (p *PerformanceProbe) Run(ctx context.Context) domain.DiagnosticResult {
	result := domain.NewDiagnosticResult(p.Name(), "performance")

	degraded := 0
	if _, err := exec.LookPath("git"); err == nil {
		for _, argv := range perfBattery {
			band, elapsed := p.timeCommand(ctx, argv[0], argv[1:]...)
			result.AddDetail(joinArgv(argv), fmt.Sprintf("%s (%s)", band, elapsed.Round(time.Millisecond)))
			if band != bandFast {
				degraded++
			}
		}
	} else {
		result.AddDetail("git_battery", "skipped: git not found")
	}

	// Shell startup latency is its own probe point: a slow dotfile chain
	// delays every command hangwatch supervises.
	shell := runner.DetectShell()
	interpreter, args := shellStartupArgv(shell)
	band, elapsed := p.timeCommand(ctx, interpreter, args...)
	result.AddDetail("shell_startup", fmt.Sprintf("%s (%s)", band, elapsed.Round(time.Millisecond)))
	if band != bandFast {
		degraded++
		result.Recommend("shell startup is slow; check startup files with the shell environment probe")
	}

	if degraded > 0 {
		result.Resolve(domain.DiagnosticWarning, fmt.Sprintf("%d command(s) outside the fast band", degraded))
	} else {
		result.Resolve(domain.DiagnosticPass, "command latency within expected bands")
	}
	return *result
}

func (p *PerformanceProbe) timeCommand(ctx context.Context, name string, args ...string) (string, time.Duration) {
	cmdCtx, cancel := context.WithTimeout(ctx, p.ceiling)
	defer cancel()

	start := time.Now()
	err := exec.CommandContext(cmdCtx, name, args...).Run()
	elapsed := time.Since(start)

	if cmdCtx.Err() != nil {
		return bandTimeout, elapsed
	}
	_ = err // non-zero exits still measure real latency
	return classify(elapsed), elapsed
}

func classify(elapsed time.Duration) string {
	switch {
	case elapsed < time.Second:
		return bandFast
	case elapsed < 3*time.Second:
		return bandSlow
	default:
		return bandVerySlow
	}
}

func shellStartupArgv(shell domain.ShellKind) (string, []string) {
	switch shell {
	case domain.ShellBash:
		return "bash", []string{"-i", "-c", "exit"}
	case domain.ShellPowershell:
		return "powershell", []string{"-Command", "exit"}
	case domain.ShellCmd:
		return "cmd", []string{"/C", "exit"}
	default:
		return "/bin/sh", []string{"-c", "exit"}
	}
}

func joinArgv(argv []string) string {
	out := argv[0]
	for _, a := range argv[1:] {
		out += " " + a
	}
	return out
}

var _ ports.DiagnosticProbe = (*PerformanceProbe)(nil)
