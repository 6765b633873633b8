package toolchain

import (
	"errors"
	"fmt"
	"strings"

	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
)

// ErrToolchainFailed is matched by every Error.
var ErrToolchainFailed = errors.New("toolchain command failed")

// Error reports a failed runner invocation.
type Error struct {
	Runner  ID
	Command []string
	Output  string
	Err     error

	// canceled is the context error when the process died because its
	// context ended.
	canceled error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s: %v", e.Runner, strings.Join(e.Command, " "), e.Err)
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches ErrToolchainFailed, and the context error for a process that was
// killed by cancellation.
func (e *Error) Is(target error) bool {
	return target == ErrToolchainFailed || (e.canceled != nil && target == e.canceled)
}

// Category classifies the error for exit-code mapping.
func (e *Error) Category() ferrors.ErrorCategory { return ferrors.CategoryToolchain }
