package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrapf(cause, WorkspaceError, "failed to create workspace: %v", cause)

	if !stderrors.Is(err, cause) {
		t.Fatalf("expected wrapped error to unwrap to cause")
	}
	if GetCode(err) != WorkspaceError {
		t.Fatalf("unexpected code: %d", GetCode(err))
	}
	if err.Error() != "failed to create workspace: disk full" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestGetCodeForeignError(t *testing.T) {
	if GetCode(nil) != Success {
		t.Fatalf("nil error should map to Success")
	}
	if GetCode(stderrors.New("boom")) != InternalServerError {
		t.Fatalf("foreign error should map to InternalServerError")
	}
	if !Is(New(LanguageNotSupported), LanguageNotSupported) {
		t.Fatalf("Is should match own code")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		Forbidden:            http.StatusForbidden,
		LanguageNotSupported: http.StatusBadRequest,
		EntryNameNotFound:    http.StatusBadRequest,
		TooManyInputs:        http.StatusBadRequest,
		TooManyRequests:      http.StatusTooManyRequests,
		WorkspaceError:       http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := code.HTTPStatus(); got != want {
			t.Fatalf("code %d: expected %d, got %d", code, want, got)
		}
	}
}

func TestDefaultMessage(t *testing.T) {
	if New(Forbidden).Error() != "Access forbidden" {
		t.Fatalf("unexpected default message")
	}
	if ErrorCode(1).Message() != "Unknown error" {
		t.Fatalf("unknown code should have fallback message")
	}
}
