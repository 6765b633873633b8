package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter prints a failed command's error and exits with its category code.
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

// ExitCodeFor maps err to a process exit code. Unclassified errors exit 1
// rather than the internal code.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	category := GetCategory(err)
	if category == CategoryInternal && !IsClassified(err) {
		return 1
	}
	return category.ExitCode()
}

// FormatError renders the one-line message shown on stderr. Verbose mode
// prints the full chain.
func (a *CLIErrorAdapter) FormatError(err error) string {
	switch ce, ok := AsClassified(err); {
	case err == nil:
		return ""
	case a.verbose || !ok:
		return "Error: " + err.Error()
	default:
		if path, ok := ce.fields.String("path"); ok {
			return fmt.Sprintf("Error: %s (%s)", ce.message, path)
		}
		if ce.cause != nil {
			return fmt.Sprintf("Error: %s: %v", ce.message, ce.cause)
		}
		return "Error: " + ce.message
	}
}

// HandleError logs err, prints it and exits. It is a no-op for nil.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.log(err)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) log(err error) {
	level := slog.LevelError
	attrs := []slog.Attr{slog.String("category", string(GetCategory(err)))}
	if ce, ok := AsClassified(err); ok {
		if ce.severity == SeverityWarning {
			level = slog.LevelWarn
		}
		if ce.recovery != RecoverNone {
			attrs = append(attrs, slog.String("recovery", string(ce.recovery)))
		}
		for k, v := range ce.fields {
			attrs = append(attrs, slog.Any(k, v))
		}
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	a.logger.LogAttrs(context.Background(), level, "Command failed", attrs...)
}
