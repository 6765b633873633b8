// Package errors classifies pipeline failures.
//
// Each fatal failure surfaces as a ClassifiedError, or as a typed error that
// reports a Category (toolchain.Error). The CLI adapter turns the category
// into an exit code and the severity into a log level:
//
//	validation 2, config_parse 7, template 8, internal 10,
//	filesystem 11, toolchain 12, anything else 1.
//
// Navigation errors are warnings. The pipeline logs them and keeps going.
//
//	err := errors.WrapError(cause, errors.CategoryConfigParse, "malformed site configuration").
//		WithContext("path", configPath).
//		Build()
package errors
