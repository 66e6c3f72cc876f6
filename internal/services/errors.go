package services

import "errors"

var (
	// ErrNotFound is the uniform miss outcome. The invitation resolver in
	// particular never says which lookup failed, so a guessed URL leaks
	// nothing about which part of it was correct.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned by ownership and permission checks
	ErrForbidden = errors.New("forbidden")

	// ErrEmailTaken is returned when registering an already-known email
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid email or password")
)
