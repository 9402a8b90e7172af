package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/hangwatch/internal/domain"
)

func TestReadDecision_ParsesFirstValidLine(t *testing.T) {
	var out bytes.Buffer
	p := NewDecisionPrompt(strings.NewReader("k\n"), &out)

	decision, ok := p.ReadDecision(context.Background(), time.Second)
	if !ok {
		t.Fatal("ok = false, want a decision")
	}
	if decision != domain.DecisionKill {
		t.Errorf("decision = %q, want kill", decision)
	}
	if !strings.Contains(out.String(), "[r]etry") {
		t.Error("menu was not printed")
	}
}

func TestReadDecision_RepromptsOnInvalidInput(t *testing.T) {
	var out bytes.Buffer
	p := NewDecisionPrompt(strings.NewReader("x\nretry\n"), &out)

	decision, ok := p.ReadDecision(context.Background(), time.Second)
	if !ok || decision != domain.DecisionRetry {
		t.Fatalf("decision = %q ok=%v, want retry after reprompt", decision, ok)
	}
	if !strings.Contains(out.String(), `unrecognized choice "x"`) {
		t.Errorf("output = %q, want an unrecognized-choice notice", out.String())
	}
}

func TestReadDecision_TimesOutWithoutInput(t *testing.T) {
	var out bytes.Buffer
	// a reader that never produces a line
	r, _ := io.Pipe()
	p := NewDecisionPrompt(r, &out)

	start := time.Now()
	_, ok := p.ReadDecision(context.Background(), 50*time.Millisecond)
	if ok {
		t.Fatal("ok = true, want timeout")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v, want bounded wait", elapsed)
	}
}

func TestReadDecision_ClosedInputReportsNoAnswer(t *testing.T) {
	var out bytes.Buffer
	p := NewDecisionPrompt(strings.NewReader(""), &out)

	if _, ok := p.ReadDecision(context.Background(), time.Second); ok {
		t.Error("ok = true on closed input, want false")
	}
}

func TestReadDecision_InterruptResolvesToKill(t *testing.T) {
	var out bytes.Buffer
	r, _ := io.Pipe()
	p := NewDecisionPrompt(r, &out)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	decision, ok := p.ReadDecision(ctx, 10*time.Second)
	if !ok || decision != domain.DecisionKill {
		t.Errorf("decision = %q ok=%v, want kill on interrupt", decision, ok)
	}
}

func TestReadDecision_SecondRoundSeesFreshInput(t *testing.T) {
	var out bytes.Buffer
	pr, pw := io.Pipe()
	p := NewDecisionPrompt(pr, &out)

	// first round expires with no input
	if _, ok := p.ReadDecision(context.Background(), 50*time.Millisecond); ok {
		t.Fatal("first round should time out")
	}

	go func() {
		pw.Write([]byte("c\n"))
	}()
	decision, ok := p.ReadDecision(context.Background(), 5*time.Second)
	if !ok || decision != domain.DecisionContinue {
		t.Errorf("decision = %q ok=%v, want continue on second round", decision, ok)
	}
}
