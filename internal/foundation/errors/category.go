package errors

import (
	"log/slog"
	"maps"
	"slices"
)

// ErrorCategory classifies an error for exit codes and log routing.
type ErrorCategory string

const (
	// CategoryConfig covers malformed option values and unreadable tool configuration.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// CategoryEncoding covers failures reported by the QR encoding collaborator.
	CategoryEncoding ErrorCategory = "encoding"

	// CategoryFileSystem covers reading sources and writing rendered output.
	CategoryFileSystem ErrorCategory = "filesystem"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ExitCode is the process status the CLI exits with for this category.
func (c ErrorCategory) ExitCode() int {
	switch c {
	case CategoryValidation:
		return 2
	case CategoryConfig:
		return 7
	case CategoryEncoding, CategoryFileSystem:
		return 11
	case CategoryInternal:
		return 10
	case CategoryRuntime:
		return 12
	default:
		return 1
	}
}

// Fatal reports whether errors of this category abort the run instead of a
// single document.
func (c ErrorCategory) Fatal() bool {
	switch c {
	case CategoryConfig, CategoryRuntime, CategoryInternal:
		return true
	default:
		return false
	}
}

// Fields is the structured context attached to a ClassifiedError.
type Fields map[string]any

// with returns a copy of f with key set.
func (f Fields) with(key string, value any) Fields {
	out := make(Fields, len(f)+1)
	maps.Copy(out, f)
	out[key] = value
	return out
}

// Attrs renders the fields as slog attributes in key order.
func (f Fields) Attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(f))
	for _, k := range slices.Sorted(maps.Keys(f)) {
		attrs = append(attrs, slog.Any(k, f[k]))
	}
	return attrs
}
