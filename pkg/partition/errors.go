package partition

import "errors"

var (
	ErrMissingColumn = errors.New("key column not found")
	ErrInvalidBound  = errors.New("size bound must be at least 1")
	ErrUnknownMode   = errors.New("unknown split mode")
)
