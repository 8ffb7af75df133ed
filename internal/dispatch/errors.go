package dispatch

import (
	"github.com/hyp3rd/ewrap"
)

// Common errors for the dispatch package.
var (
	// ErrPoolClosed is returned when submitting to or flushing a closed pool.
	ErrPoolClosed = ewrap.New("dispatcher pool is closed")

	// ErrFlushTimeout is returned when a flush or close operation times out.
	ErrFlushTimeout = ewrap.New("dispatcher flush timed out")

	// ErrTaskPanicked is reported to the panic handler when a task panics.
	ErrTaskPanicked = ewrap.New("dispatcher task panicked")
)
