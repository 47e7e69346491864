package services

import "errors"

var (
	// 400
	ErrMissingField       = errors.New("missing required field")
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidDomain      = errors.New("only gmail.com addresses are allowed")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidValue       = errors.New("invalid value")

	// 401
	ErrInvalidCredentials = errors.New("invalid username or password")

	// 404
	ErrUserNotFound = errors.New("user not found")
	ErrNotFound     = errors.New("not found")

	// 409
	ErrDuplicateAccount = errors.New("an account with this username already exists")
)
