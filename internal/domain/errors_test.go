package domain

import (
	"errors"
	"testing"
)

func TestBindErrorWrapsCause(t *testing.T) {
	cause := errors.New("endpoint unavailable")
	err := NewBindError("connector-1", cause)

	if !errors.Is(err, cause) {
		t.Error("expected bind error to wrap its cause")
	}
	if !errors.Is(err, ErrBindFailed) {
		t.Error("expected bind error to match ErrBindFailed")
	}
	if !IsBindFailed(err) {
		t.Error("expected IsBindFailed to match")
	}
	if !IsBindError(err) {
		t.Error("expected IsBindError to match")
	}

	var bindErr *BindError
	if !errors.As(err, &bindErr) {
		t.Fatal("expected errors.As to extract BindError")
	}
	if bindErr.Target != "connector-1" {
		t.Errorf("expected target connector-1, got %s", bindErr.Target)
	}
}

func TestConfigErrorWrapsInvalidConfig(t *testing.T) {
	err := NewConfigError("monitor.poll_interval", "must be positive")

	if !IsInvalidConfig(err) {
		t.Error("expected config error to match ErrInvalidConfig")
	}
	if err.Error() != "config monitor.poll_interval: must be positive" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestSentinelPredicates(t *testing.T) {
	if !IsAlreadyBound(ErrAlreadyBound) {
		t.Error("expected IsAlreadyBound to match sentinel")
	}
	if !IsRebindFailed(ErrRebindFailed) {
		t.Error("expected IsRebindFailed to match sentinel")
	}
	if !IsTimeout(ErrTimeout) {
		t.Error("expected IsTimeout to match sentinel")
	}
	if IsBindFailed(errors.New("other")) {
		t.Error("expected unrelated error to not match")
	}
}
