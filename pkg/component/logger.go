// Package component provides the per-component loggers and the registry that owns them.
//
// A Registry maps component names to Logger instances, creating each one on first
// lookup. Every Logger gates entries by its own threshold, writes accepted entries
// to the console sink on the caller's goroutine and hands the file write to the
// registry's shared worker pool, so logging never waits on file I/O.
package component

import (
	"fmt"
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/complog"
)

// Dispatcher runs file-write tasks asynchronously. Submit must not block.
type Dispatcher interface {
	Submit(task func()) error
}

// Logger is the logger of one component. It is safe for concurrent use.
type Logger struct {
	name       string
	mu         sync.RWMutex // guards level and serializes file-bound changes
	level      complog.Level
	policy     complog.ThresholdPolicy
	fileSink   complog.FileSink
	console    complog.ConsoleSink
	dispatcher Dispatcher
	onError    func(error)
}

// Name returns the component name.
func (l *Logger) Name() string {
	return l.name
}

// FileSink returns the component's file sink, or nil when it could not be created.
func (l *Logger) FileSink() complog.FileSink {
	return l.fileSink
}

// Level returns the current threshold.
func (l *Logger) Level() complog.Level {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.level
}

// SetLevel sets the threshold.
func (l *Logger) SetLevel(level complog.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.level = level
}

// DisableFileLogging sets the file sink bound to zero. Console output is unaffected.
func (l *Logger) DisableFileLogging() {
	l.setMaxLines(0)
}

// EnableFileLogging sets the number of lines the file sink retains.
// A non-positive bound disables file logging.
func (l *Logger) EnableFileLogging(maxLines int) {
	l.setMaxLines(max(maxLines, 0))
}

// IsFileLoggingEnabled reports whether the file sink exists and retains lines.
func (l *Logger) IsFileLoggingEnabled() bool {
	if l.fileSink == nil {
		return false
	}

	return l.fileSink.MaxLines() > 0
}

// Log writes message at level.
func (l *Logger) Log(level complog.Level, tag, message string) {
	l.log(level, tag, message, nil)
}

// LogError writes message and the trace of err at level. A nil err is the same as Log.
func (l *Logger) LogError(level complog.Level, tag, message string, err error) {
	l.log(level, tag, message, err)
}

// Logf formats and writes a message at level.
func (l *Logger) Logf(level complog.Level, tag, format string, args ...any) {
	if !l.enabled(level) {
		return
	}

	l.log(level, tag, fmt.Sprintf(format, args...), nil)
}

// Error logs a message at error level.
func (l *Logger) Error(tag, message string) {
	l.log(complog.ErrorLevel, tag, message, nil)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(tag, message string) {
	l.log(complog.WarnLevel, tag, message, nil)
}

// Info logs a message at info level.
func (l *Logger) Info(tag, message string) {
	l.log(complog.InfoLevel, tag, message, nil)
}

// Debug logs a message at debug level.
func (l *Logger) Debug(tag, message string) {
	l.log(complog.DebugLevel, tag, message, nil)
}

// Verbose logs a message at verbose level.
func (l *Logger) Verbose(tag, message string) {
	l.log(complog.VerboseLevel, tag, message, nil)
}

func (l *Logger) setMaxLines(n int) {
	if l.fileSink == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.fileSink.SetMaxLines(n)
}

func (l *Logger) enabled(level complog.Level) bool {
	return l.policy.Allows(l.Level(), level)
}

// log gates the entry once, then fans it out: console first, file second.
func (l *Logger) log(level complog.Level, tag, message string, err error) {
	if !l.enabled(level) {
		return
	}

	l.writeConsole(level, tag, message, err)
	l.dispatchFile(level, tag, message, err)
}

func (l *Logger) writeConsole(level complog.Level, tag, message string, err error) {
	if l.console == nil {
		return
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			l.reportError(ewrap.New("console sink panicked").
				WithMetadata("component", l.name).
				WithMetadata("panic", fmt.Sprint(recovered)))
		}
	}()

	l.console.Write(level, tag, message, err)
}

func (l *Logger) dispatchFile(level complog.Level, tag, message string, err error) {
	sink := l.fileSink
	if sink == nil || l.dispatcher == nil {
		return
	}

	submitErr := l.dispatcher.Submit(func() {
		appendErr := sink.Append(complog.FormatLine(level, tag, message, err))
		if appendErr != nil {
			l.reportError(ewrap.Wrap(appendErr, "appending to file sink").WithMetadata("component", l.name))
		}
	})
	if submitErr != nil {
		l.reportError(ewrap.Wrap(submitErr, "dispatching file write").WithMetadata("component", l.name))
	}
}

func (l *Logger) reportError(err error) {
	if l.onError != nil {
		l.onError(err)
	}
}
