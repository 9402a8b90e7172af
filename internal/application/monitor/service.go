// Package monitor implements the command-execution supervision state machine:
// launch, watchdog, timeout, recovery decision, terminate or retry.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/ports"
)

// ErrQuit is returned when the user chooses quit at the recovery prompt.
// The command result is still finalized and recorded before it propagates.
var ErrQuit = errors.New("monitor: quit requested")

// Service supervises one command at a time. Overlapping Execute calls on the
// same Service serialize on an internal mutex rather than corrupting the
// exclusively-owned process handle.
type Service struct {
	Runner      ports.ProcessRunner
	Watchdog    ports.Watchdog
	Decider     ports.DecisionReader
	Diagnostics ports.DiagnosticService
	History     ports.HistoryRepository
	Logger      ports.Logger

	// RetryLimit caps consecutive retry decisions; 0 opts into uncapped.
	RetryLimit int
	// InputWait bounds the recovery prompt.
	InputWait time.Duration

	mu  sync.Mutex
	now func() time.Time
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Execute launches the command and supervises it until a terminal result.
// It never returns an error because the user's command failed; only ErrQuit
// and wiring errors propagate. The terminal result is always appended to
// history first.
func (s *Service) Execute(ctx context.Context, req domain.ExecuteRequest) (domain.CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Timeout <= 0 {
		req.Timeout = domain.DefaultCommandTimeout
	}
	inputWait := s.InputWait
	if inputWait <= 0 {
		inputWait = domain.DecisionInputWait
	}

	result := domain.CommandResult{
		ID:      uuid.NewString(),
		Command: req.Command,
		State:   domain.StatePending,
	}

	sanitize := false // flipped on by a retry decision
	retries := 0

	for {
		result.StartedAt = s.clock()
		result.TimedOut = false
		result.Killed = false
		result.Stdout, result.Stderr = "", ""

		handle, err := s.Runner.Start(req.Command, req.Shell, req.WorkingDir, sanitize)
		if err != nil {
			// LaunchFailure: terminal immediately, failure text as stderr.
			result.ExitCode = domain.SyntheticExitCode
			result.Stderr = err.Error()
			result.Finalize(s.clock(), domain.StateComplete)
			s.record(result)
			return result, nil
		}

		s.Watchdog.Start(req.Command, req.Timeout)
		outcome := s.Runner.Wait(handle, req.Timeout)
		s.Watchdog.Stop()

		if outcome.Kind == domain.OutcomeCompleted {
			s.complete(&result, outcome)
			s.record(result)
			return result, nil
		}

		// Timed out: consult the recovery decider until the handle resolves
		// or the flow restarts.
		result.TimedOut = true
		again, err := s.recover(ctx, req, &result, handle, inputWait, &retries, &sanitize)
		if !again {
			s.record(result)
			return result, err
		}
	}
}

// recover drives the five-way decision loop for one timed-out handle.
// It returns again=true when the whole flow should relaunch (retry).
func (s *Service) recover(ctx context.Context, req domain.ExecuteRequest, result *domain.CommandResult,
	handle ports.ProcessHandle, inputWait time.Duration, retries *int, sanitize *bool) (bool, error) {

	for {
		decision := domain.DecisionKill
		if req.Interactive && s.Decider != nil {
			if d, ok := s.Decider.ReadDecision(ctx, inputWait); ok {
				decision = d
			} else {
				// Fail-safe: prefer terminating a possibly-runaway process
				// over leaving it unattended.
				s.Logger.Warn("no decision received, defaulting to kill", map[string]interface{}{
					"command": req.Command,
				})
			}
		}

		switch decision {
		case domain.DecisionRetry:
			if s.RetryLimit > 0 && *retries >= s.RetryLimit {
				s.Logger.Warn("retry limit reached, killing instead", map[string]interface{}{
					"limit": s.RetryLimit,
				})
				s.kill(result, handle, "retry limit reached")
				return false, nil
			}
			*retries++
			_ = s.Runner.Terminate(handle)
			*sanitize = true
			s.Logger.Info("relaunching with sanitized environment", map[string]interface{}{
				"attempt": *retries,
			})
			return true, nil

		case domain.DecisionKill:
			s.kill(result, handle, "process killed after timeout")
			return false, nil

		case domain.DecisionDiagnose:
			// The child keeps running; the watchdog stays stopped so the
			// report never interleaves with the menu.
			if s.Diagnostics != nil {
				if _, err := s.Diagnostics.RunFull(ctx); err != nil {
					s.Logger.Warn("diagnostic sweep failed", map[string]interface{}{
						"error": err.Error(),
					})
				}
				result.DiagnosticRun = true
			}
			if handle.Exited() {
				outcome := s.Runner.Wait(handle, time.Millisecond)
				if outcome.Kind == domain.OutcomeCompleted {
					s.complete(result, outcome)
					return false, nil
				}
			}
			// Re-present the same menu.

		case domain.DecisionContinue:
			// Exactly one more full-length wait; a second timeout escalates
			// to kill with no third round.
			s.Watchdog.Start(req.Command, req.Timeout)
			outcome := s.Runner.Wait(handle, req.Timeout)
			s.Watchdog.Stop()
			if outcome.Kind == domain.OutcomeCompleted {
				s.complete(result, outcome)
				return false, nil
			}
			s.kill(result, handle, "second timeout, no further waits offered")
			return false, nil

		case domain.DecisionQuit:
			s.kill(result, handle, "quit requested while command was hung")
			return false, ErrQuit
		}
	}
}

// complete finalizes a result from a completed outcome. A result that timed
// out earlier keeps its TimedOut flag even when the child finished later.
func (s *Service) complete(result *domain.CommandResult, outcome domain.ExecutionOutcome) {
	result.ExitCode = outcome.ExitCode
	result.Stdout = outcome.Stdout
	result.Stderr = outcome.Stderr
	state := domain.StateComplete
	if result.TimedOut {
		state = domain.StateTimedOut
	}
	result.Finalize(s.clock(), state)
}

// kill terminates the handle, then attempts one bounded final wait to
// salvage already-flushed output before recording the synthetic exit.
func (s *Service) kill(result *domain.CommandResult, handle ports.ProcessHandle, reason string) {
	_ = s.Runner.Terminate(handle)
	result.Killed = true

	outcome := s.Runner.Wait(handle, domain.KillSalvageWait)
	if outcome.Kind == domain.OutcomeCompleted {
		result.Stdout = outcome.Stdout
		result.Stderr = outcome.Stderr
	}
	result.ExitCode = domain.SyntheticExitCode
	if result.Stderr == "" {
		result.Stderr = reason
	}
	result.Finalize(s.clock(), domain.StateTimedOut)
}

// record appends the terminal result; persistence failures are logged and
// must never block command execution.
func (s *Service) record(result domain.CommandResult) {
	if s.History == nil {
		return
	}
	if err := s.History.Append(result); err != nil {
		s.Logger.Warn("history not persisted", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
