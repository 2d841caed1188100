package core

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{Code: "TEST_ERROR", Message: "test message"}
	if err.Error() != "[TEST_ERROR] test message" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Code: "WRAP", Message: "wrapped", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose cause")
	}
}

func TestWrapError_MatchesBase(t *testing.T) {
	cause := errors.New("missing key")
	wrapped := WrapError(ErrConfigMissing, cause)

	if !errors.Is(wrapped, ErrConfigMissing) {
		t.Error("wrapped error should match base by code")
	}
	if wrapped.Cause != cause {
		t.Error("cause not set")
	}
}
