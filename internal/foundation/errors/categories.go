package errors

import "maps"

// ErrorCategory classifies a failure for exit-code mapping and log routing.
type ErrorCategory string

const (
	CategoryValidation  ErrorCategory = "validation"   // flags, options, tool config
	CategoryConfigParse ErrorCategory = "config_parse" // malformed JSON or YAML
	CategoryTemplate    ErrorCategory = "template"     // resolution, clone, cache index
	CategoryFileSystem  ErrorCategory = "filesystem"
	CategoryToolchain   ErrorCategory = "toolchain"
	CategoryNavigation  ErrorCategory = "navigation"
	CategoryInternal    ErrorCategory = "internal"
)

// exitCodes maps categories to process exit codes. Anything unlisted exits 1.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation:  2,
	CategoryConfigParse: 7,
	CategoryTemplate:    8,
	CategoryInternal:    10,
	CategoryFileSystem:  11,
	CategoryToolchain:   12,
}

// ExitCode returns the process exit code for c.
func (c ErrorCategory) ExitCode() int {
	if code, ok := exitCodes[c]; ok {
		return code
	}
	return 1
}

// ErrorSeverity indicates how far a failure propagates.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // aborts the pipeline
	SeverityError   ErrorSeverity = "error"   // fails the current command
	SeverityWarning ErrorSeverity = "warning" // logged, the run continues
)

// Recovery hints at what makes a failed command succeed next time.
type Recovery string

const (
	RecoverNone  Recovery = "none"
	RecoverFix   Recovery = "fix"   // the user has to change input or environment
	RecoverRerun Recovery = "rerun" // transient, running again may work
)

// Fields is structured context attached to an error and emitted as log attributes.
type Fields map[string]any

// String returns the string stored under key.
func (f Fields) String(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok
}

func (f Fields) with(key string, value any) Fields {
	out := make(Fields, len(f)+1)
	maps.Copy(out, f)
	out[key] = value
	return out
}
