package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyBound  = errors.New("connector already bound")
	ErrNotBound      = errors.New("connector not bound")
	ErrBindFailed    = errors.New("bind attempt failed")
	ErrRebindFailed  = errors.New("rebind attempt failed")
	ErrTimeout       = errors.New("wait timed out")
	ErrNoResults     = errors.New("no results published yet")
	ErrInvalidConfig = errors.New("invalid configuration")
)

type BindError struct {
	Target string
	Err    error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Target, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

func (e *BindError) Is(target error) bool {
	return target == ErrBindFailed
}

func NewBindError(target string, err error) *BindError {
	return &BindError{
		Target: target,
		Err:    err,
	}
}

type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

func IsAlreadyBound(err error) bool {
	return errors.Is(err, ErrAlreadyBound)
}

func IsBindFailed(err error) bool {
	return errors.Is(err, ErrBindFailed)
}

func IsRebindFailed(err error) bool {
	return errors.Is(err, ErrRebindFailed)
}

func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

func IsBindError(err error) bool {
	var bindErr *BindError
	return errors.As(err, &bindErr)
}
