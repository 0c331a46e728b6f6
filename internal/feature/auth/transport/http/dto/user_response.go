package dto

import "recipe_backend/internal/feature/auth/domain/entity"

// UserRes is the public representation of a user. The password hash is never included.
type UserRes struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	ImageURL *string `json:"image_url"`
}

// NewUserRes converts a user entity into its public representation.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:       u.ID,
		Username: u.Username,
		Bio:      u.Bio,
		ImageURL: u.ImageURL,
	}
}
