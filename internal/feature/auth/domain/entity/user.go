// Package entity defines the domain entities for the auth feature.
package entity

import (
	"time"

	"recipe_backend/internal/shared/apperror"
	"recipe_backend/internal/shared/validation"
)

const (
	// MaxUsernameLength is the column size of users.username.
	MaxUsernameLength = 80
	// MaxProfileFieldLength bounds bio and image_url.
	MaxProfileFieldLength = 255
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

// PasswordHasher turns a plaintext password into a one-way digest.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// User represents a registered user in the system.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Username is unique across all users.
	Username string `gorm:"uniqueIndex;size:80;not null"`

	// PasswordHash is the bcrypt digest of the password.
	// It is only ever set by NewUser and is never serialized.
	PasswordHash string `gorm:"column:password_hash;size:128;not null" json:"-"`

	Bio      *string `gorm:"size:255"`
	ImageURL *string `gorm:"column:image_url;size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser validates the profile fields and hashes password.
// Field problems are returned as validation errors; hashing failures are returned as is.
func NewUser(username, password string, hasher PasswordHasher, bio, imageURL *string) (*User, error) {
	if !validation.Present(username) {
		return nil, apperror.NewValidationError("Username is required.", nil)
	}
	if !validation.MaxLength(username, MaxUsernameLength) {
		return nil, apperror.NewValidationError("Username must be at most 80 characters long.", nil)
	}
	if len(password) > MaxPasswordBytes {
		return nil, apperror.NewValidationError("Password must be at most 72 bytes long.", nil)
	}
	if bio != nil && !validation.MaxLength(*bio, MaxProfileFieldLength) {
		return nil, apperror.NewValidationError("Bio must be at most 255 characters long.", nil)
	}
	if imageURL != nil && !validation.MaxLength(*imageURL, MaxProfileFieldLength) {
		return nil, apperror.NewValidationError("Image URL must be at most 255 characters long.", nil)
	}

	digest, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	return &User{
		Username:     username,
		PasswordHash: digest,
		Bio:          bio,
		ImageURL:     imageURL,
	}, nil
}
