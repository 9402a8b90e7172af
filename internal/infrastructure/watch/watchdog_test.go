package watch

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer lets the ticker goroutine write while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestWatchdog(w *syncBuffer) *TimeoutWatchdog {
	wd := New(w)
	wd.tick = 10 * time.Millisecond
	wd.ForceTTY(true)
	return wd
}

func TestWatchdog_RendersElapsedLine(t *testing.T) {
	buf := &syncBuffer{}
	wd := newTestWatchdog(buf)

	wd.Start("sleep 5", time.Minute)
	time.Sleep(50 * time.Millisecond)
	wd.Stop()

	if out := buf.String(); !strings.Contains(out, "running") {
		t.Errorf("output = %q, want a running line", out)
	}
}

func TestWatchdog_SwitchesToWarningPastTimeout(t *testing.T) {
	buf := &syncBuffer{}
	wd := newTestWatchdog(buf)

	wd.Start("sleep 5", 20*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	wd.Stop()

	if out := buf.String(); !strings.Contains(out, "TIMEOUT EXCEEDED") {
		t.Errorf("output = %q, want the warning variant", out)
	}
}

func TestWatchdog_StopsItselfAtCeiling(t *testing.T) {
	buf := &syncBuffer{}
	wd := newTestWatchdog(buf)

	// ceiling = 2 * timeout = 40 ms; the ticker must exit on its own
	wd.Start("sleep 5", 20*time.Millisecond)
	time.Sleep(120 * time.Millisecond)

	before := len(buf.String())
	time.Sleep(60 * time.Millisecond)
	if after := len(buf.String()); after != before {
		t.Error("watchdog still rendering past the hard ceiling")
	}
	wd.Stop()
}

func TestWatchdog_StartAndStopAreIdempotent(t *testing.T) {
	buf := &syncBuffer{}
	wd := newTestWatchdog(buf)

	wd.Start("echo one", time.Minute)
	wd.Start("echo two", time.Minute)
	wd.Stop()
	wd.Stop()

	// restartable after a full cycle
	wd.Start("echo three", time.Minute)
	wd.Stop()
}

func TestWatchdog_StopJoinIsBounded(t *testing.T) {
	buf := &syncBuffer{}
	wd := newTestWatchdog(buf)
	wd.join = 50 * time.Millisecond

	wd.Start("sleep 5", time.Minute)

	done := make(chan struct{})
	go func() {
		wd.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return within the join bound")
	}
}

// wedgedWriter blocks every Write until released.
type wedgedWriter struct {
	release chan struct{}
}

func (w *wedgedWriter) Write(p []byte) (int, error) {
	<-w.release
	return len(p), nil
}

func TestWatchdog_RestartableAfterAbandonedJoin(t *testing.T) {
	wedged := &wedgedWriter{release: make(chan struct{})}
	defer close(wedged.release)

	wd := New(wedged)
	wd.tick = 10 * time.Millisecond
	wd.join = 30 * time.Millisecond
	wd.ForceTTY(true)

	wd.Start("sleep 5", time.Minute)
	time.Sleep(30 * time.Millisecond) // let the ticker wedge inside Write
	wd.Stop()                         // join times out, goroutine abandoned

	// A fresh run must start and stop within the join bound while the old
	// goroutine is still stuck in the writer.
	wd.Start("sleep 5", time.Minute)
	time.Sleep(30 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		wd.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("restart after an abandoned join did not stop cleanly")
	}
}

func TestWatchdog_SilentWithoutTTY(t *testing.T) {
	buf := &syncBuffer{}
	wd := New(buf)
	wd.tick = 10 * time.Millisecond

	wd.Start("sleep 5", time.Minute)
	time.Sleep(50 * time.Millisecond)
	wd.Stop()

	if out := buf.String(); out != "" {
		t.Errorf("non-tty output = %q, want empty", out)
	}
}

func TestMMSS(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{time.Minute, "01:00"},
		{125 * time.Second, "02:05"},
	}
	for _, tt := range tests {
		if got := mmss(tt.d); got != tt.want {
			t.Errorf("mmss(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 40); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	long := strings.Repeat("a", 100)
	got := truncate(long, 40)
	if len(got) != 40 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate long = %q (len %d), want 40 chars ending in ...", got, len(got))
	}
}
