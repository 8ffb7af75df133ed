package output

import (
	"github.com/hyp3rd/ewrap"
)

// Common errors for the output package.
var (
	// ErrSinkClosed is returned when appending to a closed file sink.
	ErrSinkClosed = ewrap.New("file sink is closed")

	// ErrNoLogDir is returned by a file sink factory without a log directory.
	ErrNoLogDir = ewrap.New("log directory not configured")
)
