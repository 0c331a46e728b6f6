// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by username or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when attempting to create a user with a username that already exists.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrIntegrityViolation is returned when storage rejects a user for any other constraint.
	ErrIntegrityViolation = errors.New("integrity violation")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNotLoggedIn is returned by CheckSession when the request carries no usable session.
	ErrNotLoggedIn = errors.New("not logged in")
)
