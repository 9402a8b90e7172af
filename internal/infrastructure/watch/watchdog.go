// Package watch renders a live elapsed-time line alongside a blocking wait,
// switching to a warning variant once the configured timeout is exceeded.
package watch

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/ports"
)

var (
	runningStyle = color.New(color.FgCyan)
	warningStyle = color.New(color.FgYellow, color.Bold)
)

// TimeoutWatchdog ticks every 500 ms while a command runs. It is display
// only: timeout detection for control flow happens in the runner's Wait.
// As a safety net it stops itself once elapsed time reaches twice the
// timeout, even without an external Stop.
type TimeoutWatchdog struct {
	tick   time.Duration
	join   time.Duration
	writer io.Writer
	tty    bool

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	// finished is per run: an abandoned ticker (wedged writer outliving the
	// bounded join) must not be able to trip up the next Start.
	finished chan struct{}
}

// New creates a watchdog writing to w (stderr when nil).
func New(w io.Writer) *TimeoutWatchdog {
	tty := false
	if w == nil {
		w = os.Stderr
		tty = isatty.IsTerminal(os.Stderr.Fd())
	}
	return &TimeoutWatchdog{
		tick:   domain.WatchdogTick,
		join:   domain.WatchdogJoinBound,
		writer: w,
		tty:    tty,
	}
}

// ForceTTY overrides terminal detection, for tests.
func (w *TimeoutWatchdog) ForceTTY(on bool) { w.tty = on }

// Start begins the ticker for one command.
func (w *TimeoutWatchdog) Start(command string, timeout time.Duration) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.finished = make(chan struct{})
	stop, finished := w.stopChan, w.finished
	w.mu.Unlock()

	preview := truncate(command, domain.CommandPreviewWidth)
	started := time.Now()
	ceiling := 2 * timeout

	go func() {
		defer close(finished)
		ticker := time.NewTicker(w.tick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				w.clearLine()
				return
			case <-ticker.C:
				elapsed := time.Since(started)
				if elapsed >= ceiling {
					// Hard ceiling: stop ourselves even without a signal.
					w.clearLine()
					return
				}
				w.render(preview, elapsed, elapsed > timeout)
			}
		}
	}()
}

// Stop halts the ticker cooperatively. The join is bounded so a wedged
// writer can never hang shutdown.
func (w *TimeoutWatchdog) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	finished := w.finished
	w.mu.Unlock()

	select {
	case <-finished:
	case <-time.After(w.join):
	}
}

func (w *TimeoutWatchdog) render(preview string, elapsed time.Duration, warning bool) {
	if !w.tty {
		return
	}
	line := fmt.Sprintf("running %s  %s", preview, mmss(elapsed))
	if warning {
		line = warningStyle.Sprintf("TIMEOUT EXCEEDED %s  %s", preview, mmss(elapsed))
	} else {
		line = runningStyle.Sprint(line)
	}
	fmt.Fprintf(w.writer, "\r\033[K%s", line)
}

func (w *TimeoutWatchdog) clearLine() {
	if !w.tty {
		return
	}
	fmt.Fprint(w.writer, "\r\033[K")
}

func mmss(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

var _ ports.Watchdog = (*TimeoutWatchdog)(nil)
