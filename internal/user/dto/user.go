package dto

import (
	"io"

	userdomain "vidtube-backend/internal/user/domain"
)

// FileUpload carries one multipart image from the delivery layer to the
// registration/profile usecases.
type FileUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

type RegisterRequest struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     *FileUpload
	CoverImage *FileUpload
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// AuthResponse returns the redacted user plus the token pair. The same
// tokens are also set as cookies by the delivery layer.
type AuthResponse struct {
	User         *userdomain.User `json:"user"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
