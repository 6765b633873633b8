package errors

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts a builder for a fatal error in category.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityFatal,
		recovery: RecoverNone,
		message:  message,
	}}
}

// WrapError starts a builder whose error unwraps to cause.
func WrapError(cause error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.err.cause = cause
	return b
}

func (b *ErrorBuilder) WithSeverity(s ErrorSeverity) *ErrorBuilder {
	b.err.severity = s
	return b
}

func (b *ErrorBuilder) WithRecovery(r Recovery) *ErrorBuilder {
	b.err.recovery = r
	return b
}

// WithContext attaches a field. "path" is also shown in the CLI message.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.fields = b.err.fields.with(key, value)
	return b
}

// Warning downgrades the error so callers log it and continue.
func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }

// UserAction marks the error as fixable only by the user.
func (b *ErrorBuilder) UserAction() *ErrorBuilder { return b.WithRecovery(RecoverFix) }

// Build returns a copy of the accumulated error.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	return &e
}

// ValidationError reports bad flags, options or tool configuration.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).UserAction()
}

// ConfigParseError reports a configuration file that does not decode.
func ConfigParseError(message string) *ErrorBuilder {
	return NewError(CategoryConfigParse, message).UserAction()
}

func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

func ToolchainError(message string) *ErrorBuilder {
	return NewError(CategoryToolchain, message)
}

// NavigationError is never fatal; a failed sidebar keeps the template's own.
func NavigationError(message string) *ErrorBuilder {
	return NewError(CategoryNavigation, message).Warning()
}

func TemplateError(message string) *ErrorBuilder {
	return NewError(CategoryTemplate, message)
}

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message)
}
