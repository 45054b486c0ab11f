// internal/util/errors.go
package util

import "errors"

// Error kinds returned across the service boundary.
// Callers match them with errors.Is; store and driver errors never escape wrapped.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input provided")
	ErrDuplicateEntry = errors.New("duplicate entry") // unique constraint hit on insert

	ErrUnauthorized            = errors.New("unauthorized")
	ErrUserNotFound            = errors.New("user not found")
	ErrReceiverAccountNotFound = errors.New("could not find receiver's account")
	ErrSenderAccountNotFound   = errors.New("you don't have an account with this currency")
	ErrReceiverUserNotFound    = errors.New("could not find receiver's user")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrRateUnavailable         = errors.New("exchange rate unavailable")
	ErrPersistenceFailure      = errors.New("persistence failure")
)

// IsError reports whether err is, or wraps, target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
