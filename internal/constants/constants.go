// Package constants provides application-wide constant values
// used throughout the component logger. These constants define
// environment names, dispatcher and sink defaults, and other fixed
// values to ensure consistency across the codebase.
package constants

import "time"

const (
	// NonProductionEnvironment is the environment name for non-production environments.
	NonProductionEnvironment = "development"
	// DefaultTimeout is the default timeout for flushing asynchronous file writes.
	DefaultTimeout = 5 * time.Second
	// DefaultWorkers is the number of file-write workers shared by all component loggers.
	DefaultWorkers = 3
	// DefaultQueueSize is the capacity of the dispatcher channel before tasks spill
	// into the overflow backlog.
	DefaultQueueSize = 1024
	// DefaultMaxLines is the default number of lines a component file log retains.
	DefaultMaxLines = 10000
	// DefaultLogDirName is the directory, under the system temp dir, holding file logs.
	DefaultLogDirName = "complog"
	// LogFileExtension is the extension of per-component file logs.
	LogFileExtension = ".log"
	// DiagnosticTag is the console tag used for the logger's own diagnostics.
	DiagnosticTag = "ComponentLogger"
)
