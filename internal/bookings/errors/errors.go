package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrArenaNotFound = errors.New("arena not found")

	ErrArenaInactive = errors.New("arena is not active")

	ErrLockHeld = errors.New("arena lock held by another request")

	ErrStaleStatus = errors.New("booking status changed since it was read")
)
