package usecase

import (
	"context"

	userdomain "vidtube-backend/internal/user/domain"
	userdto "vidtube-backend/internal/user/dto"
)

// UserUsecase covers registration, the session lifecycle and profile
// mutations. Returned users are always redacted.
type UserUsecase interface {
	Register(ctx context.Context, req *userdto.RegisterRequest) (*userdomain.User, error)
	Login(req *userdto.LoginRequest) (*userdto.AuthResponse, error)
	Logout(userID string) error
	Refresh(presentedToken string) (*userdto.AuthResponse, error)
	ChangePassword(userID string, req *userdto.ChangePasswordRequest) error
	CurrentUser(userID string) (*userdomain.User, error)
	UpdateAccount(userID string, req *userdto.UpdateAccountRequest) (*userdomain.User, error)
	UpdateAvatar(ctx context.Context, userID string, file *userdto.FileUpload) (*userdomain.User, error)
	UpdateCoverImage(ctx context.Context, userID string, file *userdto.FileUpload) (*userdomain.User, error)
	ValidateAccess(tokenString string) (*userdomain.User, error)
}
