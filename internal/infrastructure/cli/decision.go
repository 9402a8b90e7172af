package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/ports"
)

var (
	bannerStyle = color.New(color.FgRed, color.Bold)
	menuStyle   = color.New(color.FgWhite)
)

// DecisionPrompt reads one recovery decision from the terminal with a
// bounded wait. Input is pumped by a single background goroutine so a read
// abandoned at one timeout cannot swallow the next round's answer.
type DecisionPrompt struct {
	out   io.Writer
	lines chan string
	once  sync.Once
	in    io.Reader
}

// NewDecisionPrompt constructs a prompt over stdio.
func NewDecisionPrompt(in io.Reader, out io.Writer) *DecisionPrompt {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &DecisionPrompt{in: in, out: out, lines: make(chan string)}
}

func (p *DecisionPrompt) pump() {
	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		p.lines <- scanner.Text()
	}
	close(p.lines)
}

// ReadDecision implements ports.DecisionReader. An external interrupt (ctx
// cancellation) resolves to kill; an expired wait reports ok=false so the
// caller applies its own fail-safe.
func (p *DecisionPrompt) ReadDecision(ctx context.Context, timeout time.Duration) (domain.Decision, bool) {
	p.once.Do(func() { go p.pump() })
	p.printMenu(timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case line, open := <-p.lines:
			if !open {
				// stdin closed: nobody is answering.
				return "", false
			}
			if decision, ok := domain.ParseDecision(line); ok {
				return decision, true
			}
			fmt.Fprintf(p.out, "unrecognized choice %q\n", line)
			p.printMenu(timeout)
		case <-timer.C:
			return "", false
		case <-ctx.Done():
			return domain.DecisionKill, true
		}
	}
}

func (p *DecisionPrompt) printMenu(timeout time.Duration) {
	fmt.Fprintln(p.out)
	bannerStyle.Fprintln(p.out, "command appears to be hung")
	menuStyle.Fprintf(p.out, "  [r]etry     relaunch with a sanitized environment\n")
	menuStyle.Fprintf(p.out, "  [k]ill      terminate the process group\n")
	menuStyle.Fprintf(p.out, "  [d]iagnose  run a read-only system sweep, then ask again\n")
	menuStyle.Fprintf(p.out, "  [c]ontinue  wait one more full timeout\n")
	menuStyle.Fprintf(p.out, "  [q]uit      terminate and exit\n")
	fmt.Fprintf(p.out, "choice (kill in %s if no answer): ", timeout)
}

var _ ports.DecisionReader = (*DecisionPrompt)(nil)
