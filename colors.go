package complog

import (
	"strings"

	"github.com/hyp3rd/ewrap"
)

// ANSI escape sequences used to color console lines.
//
//nolint:revive // the names say it all.
const (
	Black   = "\x1b[30m"
	Red     = "\x1b[31m"
	Green   = "\x1b[32m"
	Yellow  = "\x1b[33m"
	Blue    = "\x1b[34m"
	Magenta = "\x1b[35m"
	Cyan    = "\x1b[36m"
	White   = "\x1b[37m"

	BoldBlack   = "\x1b[30;1m"
	BoldRed     = "\x1b[31;1m"
	BoldGreen   = "\x1b[32;1m"
	BoldYellow  = "\x1b[33;1m"
	BoldBlue    = "\x1b[34;1m"
	BoldMagenta = "\x1b[35;1m"
	BoldCyan    = "\x1b[36;1m"
	BoldWhite   = "\x1b[37;1m"

	// Reset ends a colored span.
	Reset = "\x1b[0m"
)

// ErrInvalidColor is returned by ParseColor for an unknown color name.
var ErrInvalidColor = ewrap.New("invalid color")

// DefaultLevelColors returns the ANSI color of each verbosity on the console.
func DefaultLevelColors() map[Level]string {
	return map[Level]string{
		VerboseLevel: White,
		DebugLevel:   Blue,
		InfoLevel:    Green,
		WarnLevel:    BoldYellow,
		ErrorLevel:   BoldRed,
	}
}

// ParseColor maps a color name such as "red" or "bold_yellow" to its escape
// sequence. Matching is case-insensitive and "bold-" or "bold " work as well.
func ParseColor(name string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", "", "_", "", " ", "").Replace(normalized)

	bold := strings.HasPrefix(normalized, "bold")
	base := strings.TrimPrefix(normalized, "bold")

	var regular, emphasized string

	switch base {
	case "black":
		regular, emphasized = Black, BoldBlack
	case "red":
		regular, emphasized = Red, BoldRed
	case "green":
		regular, emphasized = Green, BoldGreen
	case "yellow":
		regular, emphasized = Yellow, BoldYellow
	case "blue":
		regular, emphasized = Blue, BoldBlue
	case "magenta":
		regular, emphasized = Magenta, BoldMagenta
	case "cyan":
		regular, emphasized = Cyan, BoldCyan
	case "white":
		regular, emphasized = White, BoldWhite
	default:
		return "", ewrap.Wrap(ErrInvalidColor, "parsing color").WithMetadata("color", name)
	}

	if bold {
		return emphasized, nil
	}

	return regular, nil
}
