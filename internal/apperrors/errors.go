package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller does not own the resource it is acting on.
var ErrForbidden = errors.New("forbidden")

// ErrProviderUnavailable indicates that every configured rate provider failed.
// It is recovered locally by the synthetic fallback and never returned to API callers.
var ErrProviderUnavailable = errors.New("rate provider unavailable")

// ErrRateUnavailable indicates that no rate could be produced, not even a synthetic one.
var ErrRateUnavailable = errors.New("rate unavailable")

// ErrInsufficientFunds indicates that the source account cannot cover the exchange amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrSlippageExceeded indicates that the rate moved beyond the tolerance since the quote was accepted.
var ErrSlippageExceeded = errors.New("slippage tolerance exceeded")

// ErrSettlementFailure indicates that the atomic settlement unit failed and was rolled back.
var ErrSettlementFailure = errors.New("settlement failure")

// ErrSettlementRejected is returned by a settlement confirmer that permanently refuses an order.
var ErrSettlementRejected = errors.New("settlement rejected by counterparty")

// ErrReversalBlocked indicates that a failed order's balances cannot be put back
// because an account no longer holds the funds the settlement moved.
var ErrReversalBlocked = errors.New("settlement reversal blocked")

// ErrQuoteExpired indicates that the quote's validity window has passed. It matches ErrValidation.
var ErrQuoteExpired = fmt.Errorf("quote expired: %w", ErrValidation)

// ErrQuoteConsumed indicates that the quote already backs a settled order. It matches ErrDuplicate.
var ErrQuoteConsumed = fmt.Errorf("quote already used: %w", ErrDuplicate)

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with the given code, message and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}
