package jobs

import "errors"

var (
	ErrNotFound     = errors.New("job analysis not found")
	ErrInvalidInput = errors.New("invalid input")
)
