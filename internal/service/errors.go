package service

import "errors"

var (
	// ErrStorage covers allocation and persistence failures. Callers must not
	// expose the wrapped detail to customers.
	ErrStorage       = errors.New("order storage unavailable")
	ErrOrderNotFound = errors.New("order not found")
)
