package diag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/pkg/filesystem"
	"github.com/doeshing/hangwatch/internal/ports"
)

// ShellEnvironmentProbe identifies the active shell, counts environment
// variables, and inspects platform startup files for size.
type ShellEnvironmentProbe struct {
	environ func() []string
	home    string
}

// NewShellEnvironmentProbe builds the probe against the real environment.
func NewShellEnvironmentProbe() *ShellEnvironmentProbe {
	return &ShellEnvironmentProbe{environ: os.Environ, home: filesystem.UserHomeDir()}
}

func (p *ShellEnvironmentProbe) Name() string { return "ShellEnvironment" }

func (p *ShellEnvironmentProbe) Run(ctx context.Context) domain.DiagnosticResult {
	result := domain.NewDiagnosticResult(p.Name(), "shell")

	result.AddDetail("active_shell", activeShellName())

	envCount := len(p.environ())
	result.AddDetail("env_var_count", strconv.Itoa(envCount))

	oversized := 0
	for _, file := range startupFiles(p.home) {
		info, err := statBounded(ctx, file, domain.ProbeFileCeiling)
		if err != nil {
			continue
		}
		result.AddDetail(filepath.Base(file), humanize.IBytes(uint64(info.Size())))
		if info.Size() > domain.MaxStartupFileBytes {
			oversized++
			result.Recommend(fmt.Sprintf("startup file %s is %s; trim it to speed up shell startup",
				file, humanize.IBytes(uint64(info.Size()))))
		}
	}

	switch {
	case envCount > domain.MaxEnvVarsBeforeWarn:
		result.Recommend("environment holds an unusually large number of variables; audit exported values")
		result.Resolve(domain.DiagnosticWarning, fmt.Sprintf("%d environment variables (threshold %d)",
			envCount, domain.MaxEnvVarsBeforeWarn))
	case oversized > 0:
		result.Resolve(domain.DiagnosticWarning, fmt.Sprintf("%d oversized startup file(s)", oversized))
	default:
		result.Resolve(domain.DiagnosticPass, "shell environment looks healthy")
	}
	return *result
}

// ShellProfileProbe inspects well-known PowerShell profile locations. It is
// meaningful only on Windows hosts.
type ShellProfileProbe struct {
	home string
}

// NewShellProfileProbe builds the probe.
func NewShellProfileProbe() *ShellProfileProbe {
	return &ShellProfileProbe{home: filesystem.UserHomeDir()}
}

func (p *ShellProfileProbe) Name() string { return "ShellProfile" }

func (p *ShellProfileProbe) Run(ctx context.Context) domain.DiagnosticResult {
	result := domain.NewDiagnosticResult(p.Name(), "shell")

	if runtime.GOOS != "windows" {
		result.Resolve(domain.DiagnosticPass, "not a PowerShell host; skipped")
		return *result
	}

	found := 0
	oversized := 0
	for _, profile := range powershellProfiles(p.home) {
		info, err := statBounded(ctx, profile, domain.ProbeFileCeiling)
		if err != nil {
			continue
		}
		found++
		result.AddDetail(filepath.Base(profile), humanize.IBytes(uint64(info.Size())))
		if info.Size() > domain.MaxStartupFileBytes {
			oversized++
			result.Recommend(fmt.Sprintf("PowerShell profile %s is large; move slow imports out of it", profile))
		}
	}
	result.AddDetail("profiles_found", strconv.Itoa(found))

	if oversized > 0 {
		result.Resolve(domain.DiagnosticWarning, fmt.Sprintf("%d oversized profile(s)", oversized))
	} else {
		result.Resolve(domain.DiagnosticPass, fmt.Sprintf("%d profile(s) inspected", found))
	}
	return *result
}

func activeShellName() string {
	if runtime.GOOS == "windows" {
		if os.Getenv("PSModulePath") != "" {
			return "powershell"
		}
		return "cmd"
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return filepath.Base(shell)
	}
	return "sh"
}

func startupFiles(home string) []string {
	if runtime.GOOS == "windows" {
		return powershellProfiles(home)
	}
	return []string{
		filepath.Join(home, ".bashrc"),
		filepath.Join(home, ".bash_profile"),
		filepath.Join(home, ".zshrc"),
		filepath.Join(home, ".zprofile"),
		filepath.Join(home, ".profile"),
	}
}

// powershellProfiles lists the four well-known profile locations.
func powershellProfiles(home string) []string {
	psHome := os.Getenv("PSHOME")
	return []string{
		filepath.Join(psHome, "profile.ps1"),
		filepath.Join(psHome, "Microsoft.PowerShell_profile.ps1"),
		filepath.Join(home, "Documents", "WindowsPowerShell", "profile.ps1"),
		filepath.Join(home, "Documents", "WindowsPowerShell", "Microsoft.PowerShell_profile.ps1"),
	}
}

// statBounded stats a path under a ceiling so a wedged filesystem (network
// mounts) cannot stall the sweep.
func statBounded(ctx context.Context, path string, ceiling time.Duration) (os.FileInfo, error) {
	type statResult struct {
		info os.FileInfo
		err  error
	}
	ch := make(chan statResult, 1)
	go func() {
		info, err := os.Stat(path)
		ch <- statResult{info, err}
	}()

	timer := time.NewTimer(ceiling)
	defer timer.Stop()
	select {
	case res := <-ch:
		return res.info, res.err
	case <-timer.C:
		return nil, context.DeadlineExceeded
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

var (
	_ ports.DiagnosticProbe = (*ShellEnvironmentProbe)(nil)
	_ ports.DiagnosticProbe = (*ShellProfileProbe)(nil)
)
