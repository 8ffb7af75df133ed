package complog

import (
	"errors"
	"strings"
)

const (
	lineFormatPrefix  = "LEVEL: "
	lineTagPrefix     = ", TAG: "
	lineMessagePrefix = ", MESSAGE: "
	lineErrorPrefix   = ", EXCEPTION: "
	causedByPrefix    = "Caused by: "
)

type stackTracer interface {
	Stack() string
}

// FormatLine renders one file log line.
//
// Without an error the layout is "LEVEL: <level>, TAG: <tag>, MESSAGE: <message>";
// with an error ", EXCEPTION: <trace>" is appended, where trace is StackTrace(err).
func FormatLine(level Level, tag, message string, err error) string {
	var builder strings.Builder

	builder.Grow(len(lineFormatPrefix) + len(tag) + len(message) + len(lineTagPrefix) + len(lineMessagePrefix) + len("VERBOSE"))

	builder.WriteString(lineFormatPrefix)
	builder.WriteString(level.String())
	builder.WriteString(lineTagPrefix)
	builder.WriteString(tag)
	builder.WriteString(lineMessagePrefix)
	builder.WriteString(message)

	if err != nil {
		builder.WriteString(lineErrorPrefix)
		builder.WriteString(StackTrace(err))
	}

	return builder.String()
}

// StackTrace renders the full textual trace of err: its message, the stack it
// carries (if any) and every wrapped cause on its own "Caused by:" line.
// A nil error renders as the empty string.
func StackTrace(err error) string {
	if err == nil {
		return ""
	}

	var builder strings.Builder

	seen := make(map[string]struct{})

	for current, first := err, true; current != nil; current, first = errors.Unwrap(current), false {
		text := current.Error()

		if !first {
			// Wrapping errors usually embed their cause's text; only report
			// causes that add something.
			if _, ok := seen[text]; ok {
				continue
			}

			builder.WriteByte('\n')
			builder.WriteString(causedByPrefix)
		}

		seen[text] = struct{}{}

		builder.WriteString(text)

		if tracer, ok := current.(stackTracer); ok {
			if stack := strings.TrimRight(tracer.Stack(), "\n"); stack != "" {
				builder.WriteByte('\n')
				builder.WriteString(stack)
			}
		}
	}

	return builder.String()
}
