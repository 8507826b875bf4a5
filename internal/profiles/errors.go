package profiles

import "errors"

var (
	ErrNoActiveProfile = errors.New("no active profile")
	ErrActiveExists    = errors.New("user already has an active profile")
	ErrVersionNotFound = errors.New("profile version not found")
	ErrInvalidInput    = errors.New("invalid profile data")
)
