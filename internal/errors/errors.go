package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"gopower/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping any code already assigned
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    codeOf(err),
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

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:  code,
		Cause: err,
	}
}

// IsAppError checks if an error is or wraps an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError, or classifies a domain error.
// Anything unrecognized is UNKNOWN.
func GetCode(err error) string {
	if err == nil {
		return ""
	}
	if code := codeOf(err); code != CodeInternalError {
		return code
	}
	if IsAppError(err) {
		return CodeInternalError
	}
	return "UNKNOWN"
}

func codeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case stderrors.Is(err, core.ErrInvalidSpec):
		return CodeInvalidSpec
	case stderrors.Is(err, core.ErrRootBracket):
		return CodeRootBracket
	case stderrors.Is(err, core.ErrNoConvergence):
		return CodeNoConvergence
	case stderrors.Is(err, core.ErrNotFound):
		return CodeNotFound
	case core.IsInputError(err):
		return CodeInvalidInput
	}
	return CodeInternalError
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeInvalidSpec     = "INVALID_SPEC"
	CodeRootBracket     = "ROOT_BRACKET"
	CodeNoConvergence   = "NO_CONVERGENCE"
)

// HTTPStatus maps an error to the status code returned by the API
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeInvalidSpec, CodeInvalidInput, CodeValidationError:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRootBracket, CodeNoConvergence:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// ExitCode maps an error to a process exit status for the CLI.
// 2 is input, 3 is numerical, 1 is everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetCode(err) {
	case CodeInvalidSpec, CodeInvalidInput, CodeValidationError, CodeConfigInvalid:
		return 2
	case CodeRootBracket, CodeNoConvergence:
		return 3
	}
	return 1
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
