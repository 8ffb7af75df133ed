package complog

import (
	"strings"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/complog/internal/constants"
)

// ConsoleSink is the synchronous, severity-tagged platform log channel.
// Write is fire-and-forget: implementations must not panic on I/O failures
// and nothing they report is surfaced to callers of the logger.
type ConsoleSink interface {
	Write(level Level, tag, message string, err error)
}

// ConsoleSinkFunc adapts a function to the ConsoleSink interface.
type ConsoleSinkFunc func(level Level, tag, message string, err error)

// Write implements ConsoleSink.
func (f ConsoleSinkFunc) Write(level Level, tag, message string, err error) {
	f(level, tag, message, err)
}

// FileSink is a bounded store of formatted log lines owned by one component logger.
// A MaxLines of zero disables the sink. Appends may arrive concurrently from
// several dispatcher workers; implementations serialize them.
type FileSink interface {
	// Append stores one line, evicting the oldest ones past MaxLines.
	Append(line string) error
	// SetMaxLines changes the retained-line bound.
	SetMaxLines(n int)
	// MaxLines returns the retained-line bound.
	MaxLines() int
}

// FileSinkFactory builds the file sink of a component. An error leaves the
// component logger console-only for its lifetime.
type FileSinkFactory func(component string) (FileSink, error)

// ErrBuildContextUnknown is returned when a build context cannot tell whether the
// running build is debuggable.
var ErrBuildContextUnknown = ewrap.New("build context cannot determine debug mode")

// BuildContext tells a registry whether the running build is debuggable.
// It is consulted once per component logger, to pick the initial threshold.
type BuildContext interface {
	Debuggable() (bool, error)
}

// BuildContextFunc adapts a function to the BuildContext interface.
type BuildContextFunc func() (bool, error)

// Debuggable implements BuildContext.
func (f BuildContextFunc) Debuggable() (bool, error) {
	return f()
}

// StaticBuildContext is a BuildContext with a fixed answer.
type StaticBuildContext bool

// Debuggable implements BuildContext.
func (s StaticBuildContext) Debuggable() (bool, error) {
	return bool(s), nil
}

// EnvironmentBuildContext derives debuggability from a deployment environment name.
// The non-production environment is debuggable, any other named environment is not,
// and an empty name is reported as ErrBuildContextUnknown.
type EnvironmentBuildContext string

// Debuggable implements BuildContext.
func (e EnvironmentBuildContext) Debuggable() (bool, error) {
	env := strings.ToLower(strings.TrimSpace(string(e)))
	if env == "" {
		return true, ErrBuildContextUnknown
	}

	return env == constants.NonProductionEnvironment, nil
}

// InitialLevel resolves the starting threshold of a component logger: DEBUG for a
// debuggable build and ERROR otherwise. A nil context or a lookup failure counts
// as debuggable.
func InitialLevel(build BuildContext) Level {
	if build == nil {
		return DebugLevel
	}

	debuggable, err := build.Debuggable()
	if err != nil || debuggable {
		return DebugLevel
	}

	return ErrorLevel
}
