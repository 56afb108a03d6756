package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code, so that
// errors.Is(err, &AppError{Code: ErrCodeInitFailed}) works through wrapping.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Retryable:  IsRetryableCode(code),
	}
}

// IsCode reports whether any error in err's tree, joined errors and
// causes included, is an *AppError with code.
func IsCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &AppError{Code: code})
}

// CodeOf returns the code of the outermost *AppError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// Join is errors.Join re-exported so callers need a single errors import.
func Join(errs ...error) error { return stderrors.Join(errs...) }

// --- Lifecycle error constructors ---

// ConfigLoad creates an error for a configuration file that could not be read.
func ConfigLoad(path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConfigLoad, Message: fmt.Sprintf("load config file %q failed", path),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"path": path}, Cause: cause,
	}
}

// ConfigSectionMissing creates an error for an absent configuration section.
func ConfigSectionMissing(section string) *AppError {
	return &AppError{
		Code: ErrCodeConfigSectionMissing, Message: fmt.Sprintf("config section %q not found", section),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"section": section},
	}
}

// InvalidConfig creates an error for a section that failed to decode or validate.
func InvalidConfig(section string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("config section %q is invalid", section),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"section": section}, Cause: cause,
	}
}

// DuplicateComponent creates an error for a (type, label) pair registered twice.
func DuplicateComponent(typeName, label string) *AppError {
	return &AppError{
		Code: ErrCodeDuplicateComponent, Message: fmt.Sprintf("component type:%s, label:%s already registered", typeName, label),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"type": typeName, "label": label},
	}
}

// HandlerNotRegistered creates an error for a command without a command handler.
func HandlerNotRegistered(command string) *AppError {
	return &AppError{
		Code: ErrCodeHandlerNotRegistered, Message: fmt.Sprintf("no command handler registered for command %s", command),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"command": command},
	}
}

// ComponentNotFound creates an error for a lookup that found nothing.
func ComponentNotFound(typeName, label string) *AppError {
	return &AppError{
		Code: ErrCodeComponentNotFound, Message: fmt.Sprintf("component not found: type_name=%s, label=%s", typeName, label),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"type": typeName, "label": label},
	}
}

// TypeMismatch creates an error for a lookup whose stored component has another type.
func TypeMismatch(typeName, actual, label string) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch, Message: fmt.Sprintf("component type mismatch for label %s: want %s, have %s", label, typeName, actual),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"type": typeName, "actual": actual, "label": label},
	}
}

// ConstructFailed wraps an error returned by a component factory.
func ConstructFailed(key string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConstructFailed, Message: fmt.Sprintf("construct component %s failed", key),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"component": key}, Cause: cause,
	}
}

// InitFailed wraps an error returned by a component's Init.
func InitFailed(key string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeInitFailed, Message: fmt.Sprintf("init component %s failed", key),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"component": key}, Cause: cause,
	}
}

// ShutdownFailed wraps an error returned by a component's Shutdown.
func ShutdownFailed(key string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeShutdownFailed, Message: fmt.Sprintf("shutdown component %s failed", key),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"component": key}, Cause: cause,
	}
}

// TaskFailed wraps an error returned by the caller's task.
func TaskFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeTaskFailed, Message: "task failed",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// HookFailed wraps an error returned by the index-th hook of stage.
func HookFailed(stage string, index int, cause error) *AppError {
	return &AppError{
		Code: ErrCodeHookFailed, Message: fmt.Sprintf("%s hook %d failed", stage, index),
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
		Details: map[string]any{"stage": stage, "index": index},
	}
}

// Unavailable creates an error for a backing service that could not be reached.
func Unavailable(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeUnavailable, Message: fmt.Sprintf("unable to reach %s", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service}, Cause: cause,
	}
}

// Internal creates a new AppError for an unexpected internal failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
