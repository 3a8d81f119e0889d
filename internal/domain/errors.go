package domain

import (
	"errors"
	"fmt"
)

// Failure kinds. Every expected rejection of a game action wraps one of these.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInsufficientItems = errors.New("insufficient items")
	ErrCooldownActive    = errors.New("cooldown active")
	ErrLevelTooLow       = errors.New("level too low")
	ErrInvalidTarget     = errors.New("invalid target")
	ErrStateConflict     = errors.New("state conflict")
)

// Failure is a recoverable, user-facing rejection. No state has been mutated
// when a Failure is returned.
type Failure struct {
	Kind    error
	Message string
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return f.Kind.Error()
	}
	return f.Message
}

func (f *Failure) Unwrap() error { return f.Kind }

// Fail builds a Failure of the given kind with a formatted message.
func Fail(kind error, format string, args ...any) error {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsFailure reports whether err is an expected rejection rather than a fault.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}

// FailureKind returns the kind of a Failure, or nil for faults.
func FailureKind(err error) error {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return nil
}

// KindName is a stable label for metrics and API payloads.
func KindName(kind error) string {
	switch kind {
	case ErrInsufficientFunds:
		return "insufficient_funds"
	case ErrInsufficientItems:
		return "insufficient_items"
	case ErrCooldownActive:
		return "cooldown_active"
	case ErrLevelTooLow:
		return "level_too_low"
	case ErrInvalidTarget:
		return "invalid_target"
	case ErrStateConflict:
		return "state_conflict"
	default:
		return "error"
	}
}
