package runner

import (
	"os"
	"strings"
)

// shell customization hooks that are common hang sources when they spawn
// prompts, completions, or network calls on startup
var sanitizedVars = map[string]struct{}{
	"PROMPT_COMMAND": {},
	"PS1":            {},
	"PS2":            {},
	"BASH_ENV":       {},
	"ENV":            {},
	"ZDOTDIR":        {},
	"VIRTUAL_ENV":    {},
	"PROMPT":         {},
	"RPROMPT":        {},
	"precmd":         {},
	"preexec":        {},
}

// SanitizedEnviron returns the current environment with shell customization
// variables stripped, for relaunching after a suspected hang.
func SanitizedEnviron() []string {
	env := os.Environ()
	out := make([]string, 0, len(env))
	for _, kv := range env {
		name, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if _, strip := sanitizedVars[name]; strip {
			continue
		}
		out = append(out, kv)
	}
	return out
}
