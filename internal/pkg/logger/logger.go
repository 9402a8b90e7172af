// Package logger provides the default ports.Logger adapter. Diagnostic
// levels are gated behind verbose mode; warnings and errors always reach
// stderr because they describe supervised processes the user cares about.
package logger

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
)

// StdLogger writes level-prefixed key=value lines to stderr.
type StdLogger struct {
	verbose bool
	out     *log.Logger
}

// NewStd creates a StdLogger. Debug and Info are emitted only when verbose.
func NewStd(verbose bool) *StdLogger {
	return &StdLogger{
		verbose: verbose,
		out:     log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if l.verbose {
		l.emit("DEBUG", msg, fields)
	}
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if l.verbose {
		l.emit("INFO", msg, fields)
	}
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	l.emit("WARN", msg, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	if err != nil {
		if fields == nil {
			fields = map[string]interface{}{}
		}
		fields["error"] = err.Error()
	}
	l.emit("ERROR", msg, fields)
}

func (l *StdLogger) emit(level, msg string, fields map[string]interface{}) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", level, msg)
	for _, key := range sortedKeys(fields) {
		fmt.Fprintf(&b, " %s=%v", key, fields[key])
	}
	l.out.Println(b.String())
}

// sortedKeys keeps field order deterministic across runs.
func sortedKeys(fields map[string]interface{}) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
