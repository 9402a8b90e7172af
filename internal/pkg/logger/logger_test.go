package logger

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

func capture(verbose bool) (*StdLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := NewStd(verbose)
	l.out = log.New(buf, "", 0)
	return l, buf
}

func TestStdLogger_VerboseGatesDiagnosticLevels(t *testing.T) {
	l, buf := capture(false)

	l.Debug("launch detail", nil)
	l.Info("relaunching", nil)
	if buf.Len() != 0 {
		t.Errorf("quiet logger emitted diagnostics: %q", buf.String())
	}

	l.Warn("no decision received", nil)
	l.Error("sweep failed", errors.New("boom"), nil)
	out := buf.String()
	if !strings.Contains(out, "[WARN] no decision received") {
		t.Errorf("warning missing from %q", out)
	}
	if !strings.Contains(out, "[ERROR] sweep failed error=boom") {
		t.Errorf("error missing from %q", out)
	}
}

func TestStdLogger_FieldsAreSorted(t *testing.T) {
	l, buf := capture(true)

	l.Info("child started", map[string]interface{}{
		"shell":  "/bin/sh",
		"handle": "h1",
		"pid":    42,
	})

	want := "[INFO] child started handle=h1 pid=42 shell=/bin/sh"
	if got := strings.TrimRight(buf.String(), "\n"); got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}
