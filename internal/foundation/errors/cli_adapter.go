package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter prints a command error and exits with its category's code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr, exit: os.Exit}
}

// ExitCodeFor returns 0 for nil, the category's code for classified errors and 1 otherwise.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if classified, ok := AsClassified(err); ok {
		return classified.category.ExitCode()
	}
	return 1
}

// FormatError renders err for stderr. Verbose mode prints the full chain.
func (a *CLIErrorAdapter) FormatError(err error) string {
	classified, ok := AsClassified(err)
	switch {
	case err == nil:
		return ""
	case !ok:
		return "Error: " + err.Error()
	case a.verbose:
		return classified.Error()
	}

	switch classified.category {
	case CategoryConfig, CategoryValidation:
		if classified.cause != nil {
			return fmt.Sprintf("%s: %v", classified.message, classified.cause)
		}
		return classified.message
	case CategoryInternal:
		return "Internal error occurred (use -v for details)"
	default:
		return fmt.Sprintf("%s: %s", classified.category, classified.message)
	}
}

// HandleError logs fatal or unclassified errors (all errors when verbose),
// prints the formatted message and exits.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	classified, ok := AsClassified(err)
	switch {
	case !ok:
		a.logger.Error("Unclassified error", "error", err)
	case a.verbose || classified.category.Fatal():
		a.logger.LogAttrs(context.Background(), slog.LevelError, classified.message, classified.LogAttrs()...)
	}

	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}
