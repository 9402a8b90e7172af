// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the application to remain independent of specific
// implementations like process launchers, terminals, or storage backends.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., ProcessRunner, HistoryRepository)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/doeshing/hangwatch/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.hangwatch/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ProcessHandle is an opaque reference to one launched child process. It is
// exclusively owned by the Execute call that created it.
type ProcessHandle interface {
	// ID identifies the handle for logging.
	ID() string
	// Exited reports whether the child has already terminated, without blocking.
	Exited() bool
}

// ProcessRunner launches and terminates child processes as a process group,
// so the whole subtree can be signaled atomically.
type ProcessRunner interface {
	// Start launches the command through the selected shell interpreter.
	// With sanitizeEnv, shell customization hooks are stripped from the
	// child environment; otherwise the environment is inherited.
	Start(command string, shell domain.ShellKind, workingDir string, sanitizeEnv bool) (ProcessHandle, error)
	// Wait blocks until the child exits or the timeout elapses. The returned
	// outcome is Completed or TimedOut; it never reports LaunchError.
	Wait(handle ProcessHandle, timeout time.Duration) domain.ExecutionOutcome
	// Terminate sends a graceful group-wide interrupt, waits a bounded grace
	// period, then escalates to an unconditional group-wide kill. Idempotent
	// on an already-exited handle.
	Terminate(handle ProcessHandle) error
}

// Watchdog renders live elapsed-time feedback alongside a blocking wait.
type Watchdog interface {
	// Start begins ticking for the given command and timeout.
	Start(command string, timeout time.Duration)
	// Stop halts the ticker cooperatively; the join is bounded so shutdown
	// can never hang the tool.
	Stop()
}

// DecisionReader obtains one recovery decision with a bounded wait.
// Implementations must treat an external interrupt as choosing kill.
type DecisionReader interface {
	// ReadDecision blocks up to the timeout. ok is false when no input
	// arrived in time, in which case the caller applies the fail-safe
	// default (kill).
	ReadDecision(ctx context.Context, timeout time.Duration) (decision domain.Decision, ok bool)
}

// DiagnosticProbe is one independent, timeboxed check producing exactly one
// result. A panic inside Run is converted by the engine into a fail result.
type DiagnosticProbe interface {
	Name() string
	Run(ctx context.Context) domain.DiagnosticResult
}

// DiagnosticService runs the full probe sequence and persists a report.
type DiagnosticService interface {
	RunFull(ctx context.Context) ([]domain.DiagnosticResult, error)
}

// HistoryRepository is the bounded, append-only log of past command results.
type HistoryRepository interface {
	// Append stores a terminal result, evicting the oldest entry once the
	// store holds its maximum number of entries.
	Append(result domain.CommandResult) error
	// Records returns stored entries in insertion order (oldest first).
	Records() ([]domain.CommandResult, error)
	// Clear removes all entries.
	Clear() error
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
