package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Startup errors. All of them abort the run before the task executes.
const (
	// ErrCodeConfigLoad indicates the configuration document could not be loaded.
	ErrCodeConfigLoad ErrorCode = "CONFIG_LOAD"
	// ErrCodeConfigSectionMissing indicates a component asked for a section that is absent.
	ErrCodeConfigSectionMissing ErrorCode = "CONFIG_SECTION_MISSING"
	// ErrCodeInvalidConfig indicates a configuration section failed to decode or validate.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeHandlerNotRegistered indicates a command was supplied with no command handler.
	ErrCodeHandlerNotRegistered ErrorCode = "HANDLER_NOT_REGISTERED"
	// ErrCodeConstructFailed indicates a factory returned an error.
	ErrCodeConstructFailed ErrorCode = "CONSTRUCT_FAILED"
	// ErrCodeInitFailed indicates a component's Init returned an error.
	ErrCodeInitFailed ErrorCode = "INIT_FAILED"
)

// Registration errors.
const (
	// ErrCodeDuplicateComponent indicates a (type, label) pair was registered twice.
	ErrCodeDuplicateComponent ErrorCode = "DUPLICATE_COMPONENT"
)

// Lookup errors. Recoverable; callers decide.
const (
	// ErrCodeComponentNotFound indicates no component is stored under the key.
	ErrCodeComponentNotFound ErrorCode = "COMPONENT_NOT_FOUND"
	// ErrCodeTypeMismatch indicates the stored component is not of the requested type.
	ErrCodeTypeMismatch ErrorCode = "COMPONENT_TYPE_MISMATCH"
)

// Teardown and runtime errors.
const (
	// ErrCodeShutdownFailed indicates a component's Shutdown returned an error.
	ErrCodeShutdownFailed ErrorCode = "SHUTDOWN_FAILED"
	// ErrCodeTaskFailed indicates the caller-supplied task returned an error.
	ErrCodeTaskFailed ErrorCode = "TASK_FAILED"
	// ErrCodeHookFailed indicates an OnStart, OnReady or OnStop hook returned an error.
	ErrCodeHookFailed ErrorCode = "HOOK_FAILED"
	// ErrCodeUnavailable indicates a backing service could not be reached.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeUnavailable: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
