package complog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hyp3rd/ewrap"
	"github.com/stretchr/testify/assert"
)

type tracedError struct {
	msg   string
	stack string
}

func (e tracedError) Error() string { return e.msg }

func (e tracedError) Stack() string { return e.stack }

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		tag     string
		message string
		err     error
		want    string
	}{
		{
			name:    "plain entry",
			level:   InfoLevel,
			tag:     "Net",
			message: "connected",
			want:    "LEVEL: INFO, TAG: Net, MESSAGE: connected",
		},
		{
			name:    "entry with error",
			level:   ErrorLevel,
			tag:     "Net",
			message: "connecting",
			err:     errors.New("boom"),
			want:    "LEVEL: ERROR, TAG: Net, MESSAGE: connecting, EXCEPTION: boom",
		},
		{
			name:  "empty tag and message",
			level: VerboseLevel,
			want:  "LEVEL: VERBOSE, TAG: , MESSAGE: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLine(tt.level, tt.tag, tt.message, tt.err))
		})
	}
}

func TestStackTrace(t *testing.T) {
	root := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: root, want: "connection refused"},
		{
			name: "wrapped causes",
			err:  fmt.Errorf("sync failed: %w", fmt.Errorf("dial: %w", root)),
			want: "sync failed: dial: connection refused\n" +
				"Caused by: dial: connection refused\n" +
				"Caused by: connection refused",
		},
		{
			name: "duplicate cause text is skipped",
			err:  wrapSameText{root},
			want: "connection refused",
		},
		{
			name: "carried stack",
			err:  tracedError{msg: "boom", stack: "main.run()\n\tmain.go:12\n"},
			want: "boom\nmain.run()\n\tmain.go:12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StackTrace(tt.err))
		})
	}
}

func TestStackTraceOfEwrapError(t *testing.T) {
	err := ewrap.Wrap(errors.New("disk full"), "appending")

	trace := StackTrace(err)

	assert.Contains(t, trace, "appending")
	assert.Contains(t, trace, "disk full")
}

type wrapSameText struct {
	cause error
}

func (w wrapSameText) Error() string { return w.cause.Error() }

func (w wrapSameText) Unwrap() error { return w.cause }
