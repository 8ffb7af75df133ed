// Package output provides the concrete sinks behind the component loggers.
//
// ConsoleWriter is the synchronous console sink:
// - one "<time> <L>/<tag>: <message>" line per entry, followed by the error trace
// - automatic color detection for terminals
// - per-level ANSI styling
//
// LineFile is the bounded file sink:
// - one record per entry, at most MaxLines records retained
// - oldest records evicted first, the file compacted lazily
// - safe concurrent appends from the dispatcher workers
package output

import (
	"bytes"
	"io"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/hyp3rd/ewrap"
	"github.com/mattn/go-isatty"

	"github.com/hyp3rd/complog"
)

const defaultBufferSize = 512

// ConsoleConfig configures a ConsoleWriter.
type ConsoleConfig struct {
	// Output is the destination; os.Stderr when nil.
	Output io.Writer
	// Mode controls colors.
	Mode complog.ColorMode
	// TimeFormat prefixes each line with a timestamp; empty disables it.
	TimeFormat string
	// Colors maps each level to its ANSI color; nil uses complog.DefaultLevelColors.
	Colors map[complog.Level]string
	// ErrorHandler is called when a write to Output fails.
	ErrorHandler func(error)
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// ConsoleWriter is a console sink that writes one line per entry, with color
// support for terminals.
type ConsoleWriter struct {
	out          io.Writer
	mode         complog.ColorMode
	isTerminal   bool
	timeFormat   string
	errorHandler func(error)
	now          func() time.Time
	buffer       *bytes.Buffer
	mu           sync.Mutex
	colors       map[complog.Level]string
}

// NewConsoleWriter creates a ConsoleWriter.
// If the configured output is nil, it defaults to os.Stderr.
func NewConsoleWriter(config ConsoleConfig) *ConsoleWriter {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	colors := config.Colors
	if colors == nil {
		colors = complog.DefaultLevelColors()
	}

	return &ConsoleWriter{
		out:          out,
		mode:         config.Mode,
		isTerminal:   IsTerminal(out),
		timeFormat:   config.TimeFormat,
		errorHandler: config.ErrorHandler,
		now:          now,
		buffer:       bytes.NewBuffer(make([]byte, 0, defaultBufferSize)),
		colors:       colors,
	}
}

// Write implements complog.ConsoleSink. Failures are reported to the error handler
// and never returned.
func (w *ConsoleWriter) Write(level complog.Level, tag, message string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buffer.Reset()

	colored := false

	if w.shouldUseColors() {
		if color, ok := w.colors[level]; ok && color != "" {
			w.buffer.WriteString(color)

			colored = true
		}
	}

	if w.timeFormat != "" {
		w.buffer.WriteString(w.now().Format(w.timeFormat))
		w.buffer.WriteByte(' ')
	}

	w.buffer.WriteString(level.Letter())
	w.buffer.WriteByte('/')
	w.buffer.WriteString(tag)
	w.buffer.WriteString(": ")
	w.buffer.WriteString(message)

	if err != nil {
		w.buffer.WriteByte('\n')
		w.buffer.WriteString(complog.StackTrace(err))
	}

	if colored {
		w.buffer.WriteString(complog.Reset)
	}

	w.buffer.WriteByte('\n')

	_, writeErr := w.out.Write(w.buffer.Bytes())
	if writeErr != nil && w.errorHandler != nil {
		w.errorHandler(ewrap.Wrap(writeErr, "failed writing to console output"))
	}
}

// Sync synchronizes the underlying io.Writer if it implements the Sync() error interface.
// Standard streams are skipped.
func (w *ConsoleWriter) Sync() error {
	if f, ok := w.out.(*os.File); ok && isStandardStream(f) {
		return nil
	}

	if syncer, ok := w.out.(interface{ Sync() error }); ok {
		err := syncer.Sync()
		if err != nil {
			return ewrap.Wrap(err, "syncing console writer")
		}
	}

	return nil
}

// shouldUseColors determines if color output should be used based on mode and terminal support.
//
//nolint:exhaustive // ColorModeAuto is handled as default.
func (w *ConsoleWriter) shouldUseColors() bool {
	switch w.mode {
	case complog.ColorModeAlways:
		return true
	case complog.ColorModeNever:
		return false
	default:
		return w.isTerminal
	}
}

func isStandardStream(f *os.File) bool {
	return f == os.Stdout || f == os.Stderr
}

// IsTerminal checks if the given writer is a terminal. It returns true if the writer is
// connected to a terminal, and false otherwise. This function is used to determine
// whether to enable color support for console output.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		if f.Fd() == uintptr(syscall.Stdout) || f.Fd() == uintptr(syscall.Stderr) {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}

	return false
}

var _ complog.ConsoleSink = (*ConsoleWriter)(nil)
