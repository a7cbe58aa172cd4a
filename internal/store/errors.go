package store

import "errors"

var (
	// ErrNotFound indicates the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientPoints indicates a debit larger than the current balance.
	// The balance is left untouched.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrAlreadyGranted indicates a grant on a redemption that is not PENDENTE.
	ErrAlreadyGranted = errors.New("redemption already granted")
)
