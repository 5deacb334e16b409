package errors

import "errors"

var (
	ErrNotFound = errors.New("arena not found")

	ErrInvalidID = errors.New("invalid arena ID format")

	ErrDuplicateName = errors.New("arena with this name already exists")
)
