package domain

import "errors"

// Shared sentinel errors. Entity-specific sentinels live next to their types.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
