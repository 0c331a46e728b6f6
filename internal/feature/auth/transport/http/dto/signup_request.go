// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// SignupReq represents the request body for the /signup endpoint.
// Presence is checked by the usecase so that each missing field gets its own message.
type SignupReq struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Bio      *string `json:"bio"`
	ImageURL *string `json:"image_url"`
}
