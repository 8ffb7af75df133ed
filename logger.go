// Package complog defines a per-component logging facade for Go applications.
//
// Every subsystem of an application (a "component") obtains its own named logger
// and owns an independent severity threshold. Each accepted entry is written twice:
//
// - synchronously to a console sink, on the caller's goroutine
// - asynchronously to a bounded, line-limited file sink, through a small shared
// worker pool that never blocks the caller
//
// This package holds the severity model, the line formatter and the interfaces of
// the collaborators the core depends on (console sink, file sink, build context).
// The concrete logger and registry live in the component package; the process-wide
// default registry lives in the log package.
//
// Basic usage:
//
//	registry, err := component.NewRegistry(complog.DefaultConfig())
//	if err != nil {
//		panic(err)
//	}
//
//	netLog := registry.GetLogger("Net", complog.StaticBuildContext(true))
//	netLog.SetLevel(complog.WarnLevel)
//	netLog.Log(complog.ErrorLevel, "Net", "connection refused")
//	netLog.LogError(complog.WarnLevel, "Net", "retrying", err)
//
// File writes are best-effort. Call Flush on the registry before exit when the tail
// of the file log matters:
//
//	defer registry.Flush(ctx)
package complog

import (
	"strings"

	"github.com/hyp3rd/ewrap"
)

// Level represents the severity of a log message.
// Levels are ordered from least to most verbose; OffLevel is a sentinel that
// suppresses output and is never a verbosity of its own.
type Level uint8

const (
	// OffLevel suppresses every log call when used as a threshold.
	// Entries submitted with OffLevel are discarded.
	OffLevel Level = iota
	// ErrorLevel represents error messages.
	ErrorLevel
	// WarnLevel represents warning messages.
	WarnLevel
	// InfoLevel represents general operational information.
	InfoLevel
	// DebugLevel represents debugging information.
	DebugLevel
	// VerboseLevel represents verbose debugging information.
	VerboseLevel
)

// ErrInvalidLevel is returned when a level name cannot be parsed.
var ErrInvalidLevel = ewrap.New("invalid log level")

// String returns the string representation of a log level.
func (l Level) String() string {
	switch l {
	case OffLevel:
		return "OFF"
	case ErrorLevel:
		return "ERROR"
	case WarnLevel:
		return "WARN"
	case InfoLevel:
		return "INFO"
	case DebugLevel:
		return "DEBUG"
	case VerboseLevel:
		return "VERBOSE"
	default:
		return "UNKNOWN"
	}
}

// Letter returns the single character used to tag console lines.
func (l Level) Letter() string {
	switch l {
	case ErrorLevel:
		return "E"
	case WarnLevel:
		return "W"
	case InfoLevel:
		return "I"
	case DebugLevel:
		return "D"
	case VerboseLevel:
		return "V"
	default:
		return "?"
	}
}

// IsValid returns true if the given Level is a valid log level, and false otherwise.
func (l Level) IsValid() bool {
	return l <= VerboseLevel
}

// IsVerbosity reports whether l is a real verbosity class, i.e. valid and not OffLevel.
func (l Level) IsVerbosity() bool {
	return l >= ErrorLevel && l <= VerboseLevel
}

// Admits reports whether an entry of the given severity passes a threshold of l.
// OffLevel on either side never passes.
func (l Level) Admits(entry Level) bool {
	if !l.IsVerbosity() || !entry.IsVerbosity() {
		return false
	}

	return entry <= l
}

// ParseLevel parses a level name. Matching is case-insensitive; "warning" is an alias
// for WARN and "trace" an alias for VERBOSE.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "off", "none":
		return OffLevel, nil
	case "error":
		return ErrorLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "info":
		return InfoLevel, nil
	case "debug":
		return DebugLevel, nil
	case "verbose", "trace":
		return VerboseLevel, nil
	default:
		return OffLevel, ewrap.Wrap(ErrInvalidLevel, level).WithMetadata("level", level)
	}
}

// ThresholdPolicy selects how a logger's threshold gates its two sinks.
type ThresholdPolicy uint8

const (
	// ThresholdGateAll drops entries more verbose than the threshold from both sinks.
	ThresholdGateAll ThresholdPolicy = iota
	// ThresholdConsolePassthrough only honours an OFF threshold: every other entry
	// reaches both sinks whatever the configured threshold is.
	ThresholdConsolePassthrough
)

// IsValid reports whether the policy value is recognised.
func (p ThresholdPolicy) IsValid() bool {
	switch p {
	case ThresholdGateAll, ThresholdConsolePassthrough:
		return true
	default:
		return false
	}
}

// String returns the configuration name of the policy.
func (p ThresholdPolicy) String() string {
	switch p {
	case ThresholdGateAll:
		return "gate_all"
	case ThresholdConsolePassthrough:
		return "console_passthrough"
	default:
		return "unknown"
	}
}

// ParseThresholdPolicy parses a policy configuration name.
func ParseThresholdPolicy(policy string) (ThresholdPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "", "gate_all", "gate-all":
		return ThresholdGateAll, nil
	case "console_passthrough", "console-passthrough", "passthrough":
		return ThresholdConsolePassthrough, nil
	default:
		return ThresholdGateAll, ewrap.New("invalid threshold policy").WithMetadata("policy", policy)
	}
}

// Allows reports whether an entry passes threshold under the policy.
func (p ThresholdPolicy) Allows(threshold, entry Level) bool {
	if !entry.IsVerbosity() || threshold == OffLevel {
		return false
	}

	if p == ThresholdConsolePassthrough {
		return true
	}

	return threshold.Admits(entry)
}
