// Package utils provides internal utility functions used throughout the component logger.
//
// The utilities confine per-component log files to the configured log directory:
// component names are arbitrary strings chosen by callers, so they are sanitized
// before becoming file names and the resulting path is checked against traversal.
package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hyp3rd/ewrap"
)

const maxFileNameLength = 128

// SafeFileName maps a component name to a file name made of letters, digits, '-',
// '_' and '.' only. Every other rune becomes '_'. Leading dots are replaced so the
// result is never hidden or a relative directory reference.
func SafeFileName(name string) string {
	if name == "" {
		return "_"
	}

	var builder strings.Builder

	builder.Grow(len(name))

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			builder.WriteRune(r)
		default:
			builder.WriteByte('_')
		}
	}

	safe := builder.String()
	if strings.HasPrefix(safe, ".") {
		safe = "_" + safe[1:]
	}

	if len(safe) > maxFileNameLength {
		safe = safe[:maxFileNameLength]
	}

	return safe
}

// SecurePath joins base and name and returns an absolute path that is guaranteed to
// stay inside base. This function helps prevent path traversal attacks and
// unauthorized file access.
//
// The function performs several security checks, including:
// - Rejecting an empty base directory or file name
// - Normalizing the path using filepath.Clean
// - Preventing directory traversal sequences (..)
// - Verifying that any symlinks in the path don't escape the base directory
func SecurePath(base, name string) (string, error) {
	if base == "" {
		return "", ewrap.New("base directory cannot be empty")
	}

	if name == "" {
		return "", ewrap.New("path cannot be empty")
	}

	cleanName := filepath.Clean(name)

	if cleanName == ".." || strings.HasPrefix(cleanName, ".."+string(filepath.Separator)) ||
		strings.Contains(cleanName, string(filepath.Separator)+".."+string(filepath.Separator)) {
		return "", ewrap.New("invalid path contains directory traversal sequence").
			WithMetadata("path", name)
	}

	if filepath.IsAbs(cleanName) {
		return "", ewrap.New("absolute paths are not allowed").WithMetadata("path", name)
	}

	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return "", ewrap.Wrap(err, "resolving base directory").WithMetadata("base", base)
	}

	fullPath := filepath.Join(absBase, cleanName)

	if !within(absBase, fullPath) {
		return "", ewrap.New("path resolves to location outside of base directory").
			WithMetadata("path", name)
	}

	// Handle symlinks - resolve and verify they don't escape the base directory
	resolvedPath, err := filepath.EvalSymlinks(fullPath)
	if err == nil { // Only check if the path exists and can be resolved
		resolvedBase, baseErr := filepath.EvalSymlinks(absBase)
		if baseErr != nil {
			resolvedBase = absBase
		}

		if !within(resolvedBase, resolvedPath) {
			return "", ewrap.New("path resolves to location outside of base directory").
				WithMetadata("path", name)
		}
	}

	return fullPath, nil
}

// EnsureDir creates dir (and parents) with owner-only permissions.
func EnsureDir(dir string) error {
	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		return ewrap.Wrapf(err, "creating log directory").WithMetadata("path", dir)
	}

	return nil
}

func within(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
