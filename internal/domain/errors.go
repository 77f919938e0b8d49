package domain

import "errors"

// Domain errors returned by the public API; check with errors.Is.
var (
	// ErrNoRecipients is returned when an empty recipient list is submitted.
	ErrNoRecipients = errors.New("spraay: no recipients")

	// ErrValidation is returned when a recipient list fails validation.
	ErrValidation = errors.New("spraay: recipient validation failed")

	// ErrInsufficientBalance is returned by pre-flight checks when the wallet
	// cannot cover the transfers plus fees.
	ErrInsufficientBalance = errors.New("spraay: insufficient balance")
)
