// Package domain defines core business entities and value objects for hangwatch.
//
// The domain layer is independent of infrastructure concerns and represents pure
// business logic and data structures: execution results, recovery decisions,
// diagnostic findings and derived statistics.
package domain

import "time"

// ShellKind enumerates the interpreters a command can be handed to.
type ShellKind string

const (
	ShellAuto       ShellKind = "auto"
	ShellPosix      ShellKind = "sh"
	ShellBash       ShellKind = "bash"
	ShellPowershell ShellKind = "powershell"
	ShellCmd        ShellKind = "cmd"
)

// ResultState tracks the CommandResult lifecycle. A result is created pending,
// transitions exactly once to a terminal state, and is immutable afterward.
type ResultState string

const (
	StatePending  ResultState = "pending"
	StateComplete ResultState = "complete"
	StateTimedOut ResultState = "timed_out"
)

// CommandResult captures one supervised execution's timeline and outcome.
type CommandResult struct {
	ID            string      `json:"id"`
	Command       string      `json:"command"`
	StartedAt     time.Time   `json:"started_at"`
	EndedAt       time.Time   `json:"ended_at,omitempty"`
	Duration      float64     `json:"duration_seconds"`
	ExitCode      int         `json:"exit_code"`
	Stdout        string      `json:"stdout,omitempty"`
	Stderr        string      `json:"stderr,omitempty"`
	TimedOut      bool        `json:"timed_out"`
	Killed        bool        `json:"killed"`
	DiagnosticRun bool        `json:"diagnostic_run"`
	State         ResultState `json:"state"`
}

// Terminal reports whether the result has reached a final state.
func (r CommandResult) Terminal() bool {
	return r.State == StateComplete || r.State == StateTimedOut
}

// Finalize moves a pending result to its terminal state and derives duration.
// Calling it on an already-terminal result is a no-op.
func (r *CommandResult) Finalize(endedAt time.Time, state ResultState) {
	if r.Terminal() {
		return
	}
	if endedAt.Before(r.StartedAt) {
		endedAt = r.StartedAt
	}
	r.EndedAt = endedAt
	r.Duration = endedAt.Sub(r.StartedAt).Seconds()
	r.State = state
}

// OutcomeKind tags an ExecutionOutcome.
type OutcomeKind int

const (
	OutcomeCompleted OutcomeKind = iota
	OutcomeTimedOut
	OutcomeLaunchError
)

// ExecutionOutcome is the tagged result of waiting on a child process.
// Exactly one variant applies: Completed carries exit code and captured
// output, TimedOut carries nothing, LaunchError carries the failure text.
type ExecutionOutcome struct {
	Kind     OutcomeKind
	ExitCode int
	Stdout   string
	Stderr   string
	Err      string
}

// Completed builds a terminal outcome for a finished child.
func Completed(exitCode int, stdout, stderr string) ExecutionOutcome {
	return ExecutionOutcome{Kind: OutcomeCompleted, ExitCode: exitCode, Stdout: stdout, Stderr: stderr}
}

// TimedOut builds the outcome for a wait that exceeded its deadline.
func TimedOut() ExecutionOutcome {
	return ExecutionOutcome{Kind: OutcomeTimedOut}
}

// LaunchError builds the outcome for a child that never started.
func LaunchError(msg string) ExecutionOutcome {
	return ExecutionOutcome{Kind: OutcomeLaunchError, ExitCode: SyntheticExitCode, Err: msg}
}

// Decision is one of the five recovery choices offered on timeout.
type Decision string

const (
	DecisionRetry    Decision = "retry"
	DecisionKill     Decision = "kill"
	DecisionDiagnose Decision = "diagnose"
	DecisionContinue Decision = "continue"
	DecisionQuit     Decision = "quit"
)

// ParseDecision maps user input to a Decision. Accepts the full word or its
// first letter, case-insensitive.
func ParseDecision(input string) (Decision, bool) {
	switch normalizeDecision(input) {
	case "r", "retry":
		return DecisionRetry, true
	case "k", "kill":
		return DecisionKill, true
	case "d", "diagnose":
		return DecisionDiagnose, true
	case "c", "continue":
		return DecisionContinue, true
	case "q", "quit":
		return DecisionQuit, true
	}
	return "", false
}

func normalizeDecision(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			continue
		}
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// ExecuteRequest carries the caller's parameters into the monitor.
type ExecuteRequest struct {
	Command     string
	Shell       ShellKind
	WorkingDir  string
	Timeout     time.Duration
	Interactive bool
}
