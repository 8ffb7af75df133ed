package constants

import "strings"

// ConsoleOutput names a console destination in configuration.
type ConsoleOutput string

const (
	// ConsoleStdout writes console lines to standard output.
	ConsoleStdout ConsoleOutput = "stdout"
	// ConsoleStderr writes console lines to standard error, the default.
	ConsoleStderr ConsoleOutput = "stderr"
	// ConsoleDiscard drops console lines while keeping the console sink in place.
	ConsoleDiscard ConsoleOutput = "discard"
)

// ParseConsoleOutput normalizes name and reports whether it is a known destination.
func ParseConsoleOutput(name string) (ConsoleOutput, bool) {
	output := ConsoleOutput(strings.ToLower(strings.TrimSpace(name)))

	switch output {
	case ConsoleStdout, ConsoleStderr, ConsoleDiscard:
		return output, true
	default:
		return output, false
	}
}
