package diag

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/ports"
)

// GitProbe checks git availability and inspects the local hook directory
// for large non-sample hooks, a frequent source of stalled VCS commands.
type GitProbe struct {
	workingDir string
}

// NewGitProbe builds the probe rooted at workingDir (cwd when empty).
func NewGitProbe(workingDir string) *GitProbe {
	if workingDir == "" {
		workingDir, _ = os.Getwd()
	}
	return &GitProbe{workingDir: workingDir}
}

func (p *GitProbe) Name() string { return "GitEnvironment" }

func (p *GitProbe) Run(ctx context.Context) domain.DiagnosticResult {
	result := domain.NewDiagnosticResult(p.Name(), "vcs")

	gitPath, err := exec.LookPath("git")
	if err != nil {
		result.Resolve(domain.DiagnosticWarning, "git binary not found on PATH")
		return *result
	}
	result.AddDetail("git_path", gitPath)

	verCtx, cancel := context.WithTimeout(ctx, domain.ProbeFileCeiling)
	defer cancel()
	out, err := exec.CommandContext(verCtx, "git", "--version").Output()
	if err != nil {
		result.Resolve(domain.DiagnosticWarning, fmt.Sprintf("git --version failed: %v", err))
		return *result
	}
	result.AddDetail("git_version", strings.TrimSpace(string(out)))

	heavy := p.inspectHooks(result)
	if heavy > 0 {
		result.Recommend("large git hooks run on every commit and fetch; profile or slim them")
		result.Resolve(domain.DiagnosticWarning, fmt.Sprintf("%d heavyweight hook(s) found", heavy))
	} else {
		result.Resolve(domain.DiagnosticPass, "git environment looks healthy")
	}
	return *result
}

// inspectHooks counts installed hooks above the size threshold, skipping
// the *.sample stubs git ships by default.
func (p *GitProbe) inspectHooks(result *domain.DiagnosticResult) int {
	hooksDir := filepath.Join(p.workingDir, ".git", "hooks")
	entries, err := os.ReadDir(hooksDir)
	if err != nil {
		result.AddDetail("hooks_dir", "absent")
		return 0
	}

	installed, heavy := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".sample") {
			continue
		}
		installed++
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Size() > domain.MaxHookFileBytes {
			heavy++
			result.AddDetail("hook_"+entry.Name(), humanize.IBytes(uint64(info.Size())))
		}
	}
	result.AddDetail("hooks_installed", strconv.Itoa(installed))
	return heavy
}

var _ ports.DiagnosticProbe = (*GitProbe)(nil)
