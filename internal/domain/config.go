package domain

import "time"

// Config is the root structure of ~/.hangwatch/config.yaml.
type Config struct {
	ConfigFormatVersion string             `yaml:"config_format_version"`
	Execution           ExecutionSettings  `yaml:"execution"`
	History             HistorySettings    `yaml:"history"`
	Diagnostics         DiagnosticSettings `yaml:"diagnostics"`
}

// ExecutionSettings control the monitor loop.
type ExecutionSettings struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Shell          string `yaml:"shell"`
	// RetryLimit is a pointer so an omitted key stays distinguishable from
	// an explicit 0, which opts into uncapped retries.
	RetryLimit       *int `yaml:"retry_limit"`
	InputWaitSeconds int  `yaml:"input_wait_seconds"`
}

// HistorySettings select and bound the history backend.
type HistorySettings struct {
	Backend    string `yaml:"backend"` // "sqlite" or "file"
	MaxEntries int    `yaml:"max_entries"`
}

// DiagnosticSettings control report persistence.
type DiagnosticSettings struct {
	ReportDir string `yaml:"report_dir"`
}

// Timeout returns the configured wait as a duration.
func (e ExecutionSettings) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// InputWait returns the bounded decision-read window.
func (e ExecutionSettings) InputWait() time.Duration {
	return time.Duration(e.InputWaitSeconds) * time.Second
}

// Retries returns the retry cap, applying the default when the key was
// omitted. Only an explicit retry_limit: 0 yields uncapped retries.
func (e ExecutionSettings) Retries() int {
	if e.RetryLimit == nil {
		return DefaultRetryLimit
	}
	return *e.RetryLimit
}
