package domain

import "errors"

var (
	// ErrInvalidArgument marks caller input that cannot be evaluated.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStoreNotFound is returned when a store does not exist or is inactive.
	ErrStoreNotFound = errors.New("store not found")
)
