package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error_Format(t *testing.T) {
	err := ComponentNotFound("database.Component", "default")
	s := err.Error()
	if !strings.Contains(s, "COMPONENT_NOT_FOUND") {
		t.Errorf("expected error string to contain code, got %q", s)
	}
	if !strings.Contains(s, "label=default") {
		t.Errorf("expected error string to contain label, got %q", s)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := InitFailed("redis.Component[default]", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_IsByCode(t *testing.T) {
	wrapped := fmt.Errorf("startup: %w", ConstructFailed("x", nil))
	if !stderrors.Is(wrapped, &AppError{Code: ErrCodeConstructFailed}) {
		t.Error("expected errors.Is to match by code through wrapping")
	}
	if stderrors.Is(wrapped, &AppError{Code: ErrCodeInitFailed}) {
		t.Error("expected different code not to match")
	}
}

func TestIsCode(t *testing.T) {
	inner := ComponentNotFound("db", "default")
	outer := ConstructFailed("http", inner)

	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"outer code", outer, ErrCodeConstructFailed, true},
		{"inner code through cause", outer, ErrCodeComponentNotFound, true},
		{"wrapped by fmt", fmt.Errorf("run: %w", outer), ErrCodeComponentNotFound, true},
		{"absent code", outer, ErrCodeShutdownFailed, false},
		{"plain error", fmt.Errorf("boom"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCode(tc.err, tc.code); got != tc.want {
				t.Errorf("IsCode() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsCode_JoinedErrors(t *testing.T) {
	err := Join(ShutdownFailed("a", fmt.Errorf("x")), ShutdownFailed("b", fmt.Errorf("y")))
	if !IsCode(err, ErrCodeShutdownFailed) {
		t.Error("expected joined shutdown errors to carry SHUTDOWN_FAILED")
	}
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(fmt.Errorf("wrap: %w", DuplicateComponent("T", "default")))
	if !ok || code != ErrCodeDuplicateComponent {
		t.Errorf("CodeOf() = %q, %v", code, ok)
	}
	if _, ok := CodeOf(fmt.Errorf("plain")); ok {
		t.Error("expected no code for plain error")
	}
}

func TestLifecycleMessagesNameTheirSubject(t *testing.T) {
	cause := fmt.Errorf("boom")
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
		want string
	}{
		{"handler", HandlerNotRegistered("migrate"), ErrCodeHandlerNotRegistered, "no command handler registered for command migrate"},
		{"hook", HookFailed("on_start", 2, cause), ErrCodeHookFailed, "on_start hook 2 failed"},
		{"not found", ComponentNotFound("db.Component", "default"), ErrCodeComponentNotFound, "type_name=db.Component, label=default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if !strings.Contains(tt.err.Error(), tt.want) {
				t.Errorf("Error() = %q, want it to contain %q", tt.err.Error(), tt.want)
			}
		})
	}
	if hf := HookFailed("on_ready", 0, cause); !stderrors.Is(hf, cause) || hf.Details["stage"] != "on_ready" {
		t.Errorf("expected cause and stage kept, got %v %v", hf, hf.Details)
	}
}

func TestLookupErrorsCarryTypeAndLabel(t *testing.T) {
	nf := ComponentNotFound("server.Component", "api")
	if nf.Details["type"] != "server.Component" || nf.Details["label"] != "api" {
		t.Errorf("unexpected details: %v", nf.Details)
	}
	if nf.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", nf.HTTPStatus)
	}

	tm := TypeMismatch("server.Component", "redis.Component", "api")
	if tm.Details["actual"] != "redis.Component" {
		t.Errorf("unexpected details: %v", tm.Details)
	}
}

func TestRetryable(t *testing.T) {
	if !Unavailable("redis", nil).Retryable {
		t.Error("SERVICE_UNAVAILABLE should be retryable")
	}
	if New(ErrCodeInitFailed, "x").Retryable {
		t.Error("INIT_FAILED should not be retryable")
	}
}

func TestWithDetail(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestToResponse(t *testing.T) {
	resp := Internal(fmt.Errorf("boom")).ToResponse()
	if resp.Error.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", resp.Error.Code)
	}
	if _, ok := AsAppError(fmt.Errorf("w: %w", Internal(nil))); !ok {
		t.Error("expected AsAppError to find wrapped AppError")
	}
}

func TestIsCode_MixedJoin(t *testing.T) {
	err := Join(InitFailed("db", fmt.Errorf("dial")), ShutdownFailed("log", fmt.Errorf("flush")))
	if !IsCode(err, ErrCodeInitFailed) || !IsCode(err, ErrCodeShutdownFailed) {
		t.Error("expected both codes to be found in a mixed join")
	}
	if IsCode(err, ErrCodeConfigLoad) {
		t.Error("expected absent code to be reported false")
	}
}
