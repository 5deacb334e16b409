package errors

import "errors"

var (
	ErrInvalidSlot = errors.New("coach slot has an invalid time range")

	ErrMissingCoach = errors.New("coach slot has no coach ID")
)
