// Package runner launches caller-supplied command strings through a real
// shell interpreter, attached to their own process group so the whole
// subtree can be terminated atomically.
package runner

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/ports"
)

// Handle tracks one launched child process.
type Handle struct {
	id     string
	cmd    *exec.Cmd
	stdout *lockedBuffer
	stderr *lockedBuffer

	done    chan struct{}
	waitErr error

	mu         sync.Mutex
	terminated bool
}

// ID implements ports.ProcessHandle.
func (h *Handle) ID() string { return h.id }

// Exited implements ports.ProcessHandle.
func (h *Handle) Exited() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// lockedBuffer serializes writes from the child's pipe goroutines against
// reads that may happen while the child is still running (timeout salvage).
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// ShellRunner implements ports.ProcessRunner on the host shell.
type ShellRunner struct {
	logger ports.Logger
	grace  time.Duration
}

// New builds a ShellRunner with the default termination grace period.
func New(logger ports.Logger) *ShellRunner {
	return &ShellRunner{logger: logger, grace: domain.TerminateGracePeriod}
}

// Start implements ports.ProcessRunner.
func (r *ShellRunner) Start(command string, shell domain.ShellKind, workingDir string, sanitizeEnv bool) (ports.ProcessHandle, error) {
	interpreter, args := interpreterArgs(resolveShell(shell), command)
	cmd := exec.Command(interpreter, args...)
	if workingDir != "" {
		cmd.Dir = workingDir
	}
	if sanitizeEnv {
		cmd.Env = SanitizedEnviron()
	}

	h := &Handle{
		id:     uuid.NewString(),
		cmd:    cmd,
		stdout: &lockedBuffer{},
		stderr: &lockedBuffer{},
		done:   make(chan struct{}),
	}
	cmd.Stdout = h.stdout
	cmd.Stderr = h.stderr
	configureProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	go func() {
		h.waitErr = cmd.Wait()
		close(h.done)
	}()

	r.logger.Debug("child started", map[string]interface{}{
		"handle": h.id, "pid": cmd.Process.Pid, "shell": interpreter,
	})
	return h, nil
}

// Wait implements ports.ProcessRunner.
func (r *ShellRunner) Wait(handle ports.ProcessHandle, timeout time.Duration) domain.ExecutionOutcome {
	h, ok := handle.(*Handle)
	if !ok {
		return domain.LaunchError("unknown handle type")
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-h.done:
		return domain.Completed(exitCode(h.cmd, h.waitErr), h.stdout.String(), h.stderr.String())
	case <-timer.C:
		return domain.TimedOut()
	}
}

// Terminate implements ports.ProcessRunner. It interrupts the whole process
// group, waits the grace period, then escalates to a group kill. Safe to
// call repeatedly and on handles whose child already exited.
func (r *ShellRunner) Terminate(handle ports.ProcessHandle) error {
	h, ok := handle.(*Handle)
	if !ok {
		return errors.New("unknown handle type")
	}
	if h.Exited() {
		return nil
	}

	h.mu.Lock()
	already := h.terminated
	h.terminated = true
	h.mu.Unlock()
	if already {
		return nil
	}

	if err := interruptGroup(h.cmd); err != nil {
		r.logger.Debug("group interrupt failed", map[string]interface{}{
			"handle": h.id, "error": err.Error(),
		})
	}

	timer := time.NewTimer(r.grace)
	defer timer.Stop()
	select {
	case <-h.done:
		return nil
	case <-timer.C:
	}

	return killGroup(h.cmd)
}

// Salvage returns whatever output the child has flushed so far.
func (r *ShellRunner) Salvage(handle ports.ProcessHandle) (stdout, stderr string) {
	if h, ok := handle.(*Handle); ok {
		return h.stdout.String(), h.stderr.String()
	}
	return "", ""
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	if waitErr != nil {
		return domain.SyntheticExitCode
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return 0
}

func resolveShell(shell domain.ShellKind) domain.ShellKind {
	if shell == "" || shell == domain.ShellAuto {
		return DetectShell()
	}
	return shell
}

// DetectShell picks an interpreter from the environment.
func DetectShell() domain.ShellKind {
	if isWindows() {
		if os.Getenv("PSModulePath") != "" {
			return domain.ShellPowershell
		}
		return domain.ShellCmd
	}
	switch shellBase(os.Getenv("SHELL")) {
	case "bash":
		return domain.ShellBash
	default:
		return domain.ShellPosix
	}
}

func shellBase(path string) string {
	if path == "" {
		return ""
	}
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

func interpreterArgs(shell domain.ShellKind, command string) (string, []string) {
	switch shell {
	case domain.ShellBash:
		return "bash", []string{"-c", command}
	case domain.ShellPowershell:
		return "powershell", []string{"-NoProfile", "-Command", command}
	case domain.ShellCmd:
		return "cmd", []string{"/C", command}
	default:
		return "/bin/sh", []string{"-c", command}
	}
}

var _ ports.ProcessRunner = (*ShellRunner)(nil)
