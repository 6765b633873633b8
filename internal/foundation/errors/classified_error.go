package errors

import (
	"errors"
	"fmt"
)

// ClassifiedError is a pipeline failure with a category, severity and fields.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	recovery Recovery
	message  string
	cause    error
	fields   Fields
}

func (e *ClassifiedError) Error() string {
	prefix := fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
	if e.cause == nil {
		return prefix
	}
	return prefix + ": " + e.cause.Error()
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }
func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }
func (e *ClassifiedError) Recovery() Recovery      { return e.recovery }
func (e *ClassifiedError) Message() string         { return e.message }
func (e *ClassifiedError) Fields() Fields          { return e.fields }

// Is matches another ClassifiedError with the same category and message.
func (e *ClassifiedError) Is(target error) bool {
	other, ok := target.(*ClassifiedError)
	return ok && e.category == other.category && e.message == other.message
}

// categorized lets typed errors from other packages (toolchain.Error) carry a
// category without being built here.
type categorized interface {
	Category() ErrorCategory
}

// AsClassified finds the first ClassifiedError in the chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var ce *ClassifiedError
	ok := errors.As(err, &ce)
	return ce, ok
}

// IsClassified reports whether the chain contains a ClassifiedError.
func IsClassified(err error) bool {
	_, ok := AsClassified(err)
	return ok
}

// GetCategory returns the category of the first categorized error in the
// chain, or CategoryInternal.
func GetCategory(err error) ErrorCategory {
	var c categorized
	if errors.As(err, &c) {
		return c.Category()
	}
	return CategoryInternal
}

// HasCategory reports whether err classifies as category.
func HasCategory(err error, category ErrorCategory) bool {
	return GetCategory(err) == category
}

// GetSeverity returns the severity of the first ClassifiedError, or SeverityError.
func GetSeverity(err error) ErrorSeverity {
	if ce, ok := AsClassified(err); ok {
		return ce.severity
	}
	return SeverityError
}
