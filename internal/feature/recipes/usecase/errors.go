// Package usecase implements the business logic for the recipes feature.
package usecase

import "errors"

// ErrIntegrityViolation is returned by the repository when storage rejects a recipe
// (foreign key, check, not-null or unique constraint).
var ErrIntegrityViolation = errors.New("recipe integrity violation")
