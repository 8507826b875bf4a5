package users

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInactiveAccount    = errors.New("inactive user account")
	ErrInvalidInput       = errors.New("invalid input")
)
