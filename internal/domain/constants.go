package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultCommandTimeout is the default wall-clock budget for a command
	DefaultCommandTimeout = 60 * time.Second
	// WatchdogTick is the interval between live status renders
	WatchdogTick = 500 * time.Millisecond
	// WatchdogJoinBound caps how long stopping the watchdog may block
	WatchdogJoinBound = 2 * time.Second
	// TerminateGracePeriod is the wait between group interrupt and group kill
	TerminateGracePeriod = 3 * time.Second
	// DecisionInputWait bounds the interactive recovery prompt
	DecisionInputWait = 30 * time.Second
	// KillSalvageWait bounds the final wait after a kill decision, to
	// salvage any output the child already flushed
	KillSalvageWait = 5 * time.Second
)

// Probe ceilings
const (
	// ProbeFileCeiling bounds each profile/startup file inspection
	ProbeFileCeiling = 5 * time.Second
	// ProbeCommandCeiling bounds each timed command in the performance probe
	ProbeCommandCeiling = 8 * time.Second
	// ProbeResourceCeiling bounds each system resource query
	ProbeResourceCeiling = 3 * time.Second
	// ProbeGroupCanary is the wall-time above which a probe group is logged
	// as suspiciously slow (never failed)
	ProbeGroupCanary = 15 * time.Second
)

// Limit constants
const (
	// DefaultHistoryCap is the FIFO capacity of the history store
	DefaultHistoryCap = 100
	// DefaultRetryLimit caps consecutive retry decisions; 0 means uncapped
	DefaultRetryLimit = 3
	// MaxEnvVarsBeforeWarn is the environment size a shell probe tolerates
	MaxEnvVarsBeforeWarn = 500
	// MaxStartupFileBytes is the startup file size a shell probe tolerates
	MaxStartupFileBytes = 10 * 1024
	// MaxPathEntriesBeforeWarn is the PATH entry count tolerated
	MaxPathEntriesBeforeWarn = 50
	// MaxPathLengthBeforeWarn is the total PATH length tolerated
	MaxPathLengthBeforeWarn = 8192
	// MaxPathEntriesValidated bounds per-entry existence checks on
	// pathological PATH values
	MaxPathEntriesValidated = 30
	// MaxHookFileBytes is the git hook size tolerated before warning
	MaxHookFileBytes = 1024
	// SlowCommandThreshold is the duration above which a run enters the
	// slowest ranking (seconds)
	SlowCommandThreshold = 5.0
	// SlowestRankingSize is how many slow commands the summary shows
	SlowestRankingSize = 10
	// CommandPreviewWidth truncates the watchdog's command echo
	CommandPreviewWidth = 48
)

// SyntheticExitCode marks results where no real exit status exists
// (launch failure, forced kill).
const SyntheticExitCode = -1

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
