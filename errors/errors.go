package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured pipeline error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeConsistency  = "CONSISTENCY_ERROR"
	CodeExternalTool = "EXTERNAL_TOOL_ERROR"
	CodeConfig       = "CONFIG_INVALID"
	CodeIO           = "IO_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Validation reports a user input that breaks a precondition, e.g. an unknown sample id.
func Validation(format string, args ...interface{}) *AppError {
	return New(CodeValidation, fmt.Sprintf(format, args...))
}

// Consistency reports a data-integrity failure such as a join changing the row count.
func Consistency(format string, args ...interface{}) *AppError {
	return New(CodeConsistency, fmt.Sprintf(format, args...))
}

// Config reports an invalid option combination.
func Config(format string, args ...interface{}) *AppError {
	return New(CodeConfig, fmt.Sprintf(format, args...))
}

// IO wraps a failed read or write of the named path.
func IO(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeIO,
		Message: fmt.Sprintf("i/o failure on %q", path),
		Cause:   cause,
	}
}

// ExternalTool reports a non-zero exit of an external program. The log path is
// part of the message so the user knows where to look.
func ExternalTool(tool, logPath string, cause error) *AppError {
	msg := fmt.Sprintf("%s failed", tool)
	if logPath != "" {
		msg = fmt.Sprintf("%s failed, see log %q", tool, logPath)
	}
	return &AppError{
		Code:    CodeExternalTool,
		Message: msg,
		Cause:   cause,
	}
}

// Wrap wraps an error with additional context, keeping the code of an inner AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the code of the outermost AppError in the chain, or "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return GetCode(err) == code
}
