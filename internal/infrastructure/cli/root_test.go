package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/doeshing/hangwatch/internal/app"
	"github.com/doeshing/hangwatch/internal/application/monitor"
	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/ports"
)

type rootFakeHandle struct{}

func (rootFakeHandle) ID() string   { return "h1" }
func (rootFakeHandle) Exited() bool { return true }

// rootFakeRunner completes instantly and records the command it was given.
type rootFakeRunner struct {
	command string
}

func (r *rootFakeRunner) Start(command string, _ domain.ShellKind, _ string, _ bool) (ports.ProcessHandle, error) {
	r.command = command
	return rootFakeHandle{}, nil
}

func (r *rootFakeRunner) Wait(ports.ProcessHandle, time.Duration) domain.ExecutionOutcome {
	return domain.Completed(0, "", "")
}

func (r *rootFakeRunner) Terminate(ports.ProcessHandle) error { return nil }

type rootFakeWatchdog struct{}

func (rootFakeWatchdog) Start(string, time.Duration) {}
func (rootFakeWatchdog) Stop()                       {}

type rootNopLogger struct{}

func (rootNopLogger) Debug(string, map[string]interface{})        {}
func (rootNopLogger) Info(string, map[string]interface{})         {}
func (rootNopLogger) Warn(string, map[string]interface{})         {}
func (rootNopLogger) Error(string, error, map[string]interface{}) {}

func TestRoot_ForwardsFlagLikeTokensToCommandString(t *testing.T) {
	runner := &rootFakeRunner{}
	container := &app.Container{
		Monitor: &monitor.Service{
			Runner:   runner,
			Watchdog: rootFakeWatchdog{},
			Logger:   rootNopLogger{},
		},
		Config: domain.Config{
			Execution: domain.ExecutionSettings{TimeoutSeconds: 60},
		},
	}

	root := newRoot(container)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	// Dashes after the first positional belong to the supervised command,
	// not to hangwatch.
	root.SetArgs([]string{"ls", "-la", "--color=never"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if runner.command != "ls -la --color=never" {
		t.Errorf("supervised command = %q, want %q", runner.command, "ls -la --color=never")
	}
}

func TestRoot_NoArgsShowsHelp(t *testing.T) {
	container := &app.Container{
		Monitor: &monitor.Service{
			Runner:   &rootFakeRunner{},
			Watchdog: rootFakeWatchdog{},
			Logger:   rootNopLogger{},
		},
	}

	root := newRoot(container)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(nil)

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.Len() == 0 {
		t.Error("bare invocation should print usage")
	}
}
