// Package errors provides structured error handling with typed error codes.
//
// Error codes are grouped by the component that raises them:
//   - General errors (1-99)
//   - Validation errors (100-199): configuration and order validation
//   - Data errors (200-299): market data loading and alignment
//   - Signal errors (300-399): moving average and crossover evaluation
//   - Strategy errors (400-499): controller and strategy runtime
//   - Trading errors (500-599): simulated order execution
//   - Backtest errors (600-699): engine setup and result writing
//
// Usage:
//
//	err := errors.Newf(errors.ErrCodeInvalidConfiguration, "fast period must be positive, got %d", fast)
//
//	if errors.HasCode(err, errors.ErrCodeInvalidConfiguration) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error carries an ErrorCode, a message and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches code and message to cause. The cause stays reachable through errors.Is and errors.As.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// Error renders "[code] message" followed by the cause, if any.
func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}

	return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HasCode reports whether the outermost *Error in err's chain has code.
func HasCode(err error, code ErrorCode) bool {
	var typed *Error
	if !errors.As(err, &typed) {
		return false
	}

	return typed.Code == code
}

// InsufficientDataError means a moving average window has not filled yet.
// Callers treat it as "no signal" rather than a failure.
type InsufficientDataError struct {
	Required int
	Actual   int
	Symbol   string
	Message  string
}

func NewInsufficientDataErrorf(required, actual int, symbol, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError reports whether err's chain holds an InsufficientDataError.
func IsInsufficientDataError(err error) bool {
	var insufficient *InsufficientDataError

	return errors.As(err, &insufficient)
}
