package models

import (
	"errors"
	"fmt"
)

// Business-visible failure kinds. Callers branch on these with errors.Is /
// errors.As; they are never collapsed into a generic failure.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrBalanceNotFound     = errors.New("balance not found")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidTransition   = errors.New("invalid account status transition")
	ErrInsufficientBalance = errors.New("insufficient authorization balance")
	ErrVersionConflict     = errors.New("row was modified concurrently")
	ErrSameAccount         = errors.New("transfer requires two distinct accounts")
)

// ValidationError reports a single malformed input field.
type ValidationError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}
