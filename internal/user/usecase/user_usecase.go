package usecase

import (
	"context"
	"net/http"
	"strings"

	userdomain "vidtube-backend/internal/user/domain"
	userdto "vidtube-backend/internal/user/dto"
	"vidtube-backend/internal/user/repository"
	"vidtube-backend/pkg/response"
	"vidtube-backend/pkg/storage"
	"vidtube-backend/pkg/token"

	"go.uber.org/zap"
)

// userUsecase implements UserUsecase
type userUsecase struct {
	userRepo repository.UserRepository
	issuer   *token.Issuer
	storage  storage.Storage
	logger   *zap.Logger
}

// NewUserUsecase creates a new instance of userUsecase
func NewUserUsecase(userRepo repository.UserRepository, issuer *token.Issuer, store storage.Storage, logger *zap.Logger) UserUsecase {
	return &userUsecase{
		userRepo: userRepo,
		issuer:   issuer,
		storage:  store,
		logger:   logger,
	}
}

// normalizeIdentifier trims and lowercases; applied both at registration and
// at every lookup so identifier matching is case-insensitive.
func normalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (u *userUsecase) Register(ctx context.Context, req *userdto.RegisterRequest) (*userdomain.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := normalizeIdentifier(req.Email)
	username := normalizeIdentifier(req.Username)

	if fullName == "" || email == "" || username == "" || strings.TrimSpace(req.Password) == "" {
		return nil, response.BadRequest("all fields are required")
	}
	if req.Avatar == nil {
		return nil, response.BadRequest("avatar file is required")
	}

	exists, err := u.userRepo.ExistsByUsernameOrEmail(username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, response.Conflict("user with email or username already exists")
	}

	avatarURL, err := u.storage.Upload(ctx, "avatars", req.Avatar.Filename, req.Avatar.Reader, req.Avatar.ContentType)
	if err != nil {
		u.logger.Error("avatar upload failed", zap.Error(err))
		return nil, response.BadRequest("avatar file is required")
	}
	if avatarURL == "" {
		return nil, response.BadRequest("avatar file is required")
	}

	coverImageURL := ""
	if req.CoverImage != nil {
		coverImageURL, err = u.storage.Upload(ctx, "covers", req.CoverImage.Filename, req.CoverImage.Reader, req.CoverImage.ContentType)
		if err != nil {
			u.logger.Warn("cover image upload failed", zap.Error(err))
			coverImageURL = ""
		}
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &userdomain.User{
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Avatar:     avatarURL,
		CoverImage: coverImageURL,
		Password:   hashedPassword,
	}

	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}

	created, err := u.userRepo.FindByID(user.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, response.Internal("something went wrong while registering the user")
	}

	return created.Redacted(), nil
}

func (u *userUsecase) Login(req *userdto.LoginRequest) (*userdto.AuthResponse, error) {
	username := normalizeIdentifier(req.Username)
	email := normalizeIdentifier(req.Email)
	if username == "" && email == "" {
		return nil, response.BadRequest("username or email is required")
	}

	user, err := u.userRepo.FindByIdentifier(username, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.NotFound("user does not exist")
	}

	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, response.Unauthorized("invalid user credentials")
	}

	pair, err := u.generateTokenPair(user.ID)
	if err != nil {
		return nil, err
	}

	// Login is a fresh credential proof, so it overwrites any stored token
	// unconditionally and invalidates the previous session.
	updated, err := u.userRepo.UpdateFields(user.ID, map[string]interface{}{"refresh_token": pair.RefreshToken})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, response.NotFound("user does not exist")
	}

	return &userdto.AuthResponse{
		User:         updated.Redacted(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Logout clears the stored refresh token. Safe to call twice: clearing an
// already-empty field is a no-op.
func (u *userUsecase) Logout(userID string) error {
	return u.userRepo.ClearRefreshToken(userID)
}

func (u *userUsecase) Refresh(presentedToken string) (*userdto.AuthResponse, error) {
	if presentedToken == "" {
		return nil, response.Unauthorized("unauthorized request")
	}

	userID, err := u.issuer.DecodeRefresh(presentedToken)
	if err != nil {
		return nil, response.Unauthorized("invalid refresh token")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.Unauthorized("invalid refresh token")
	}

	if user.RefreshToken == "" || user.RefreshToken != presentedToken {
		return nil, response.Unauthorized("refresh token is expired or used")
	}

	pair, err := u.generateTokenPair(user.ID)
	if err != nil {
		return nil, err
	}

	swapped, err := u.userRepo.SwapRefreshToken(user.ID, presentedToken, pair.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// Lost the rotation race: someone else consumed this token first.
		return nil, response.Unauthorized("refresh token is expired or used")
	}

	return &userdto.AuthResponse{
		User:         user.Redacted(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (u *userUsecase) ChangePassword(userID string, req *userdto.ChangePasswordRequest) error {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return response.NotFound("user does not exist")
	}

	if !repository.CheckPasswordHash(req.OldPassword, user.Password) {
		return response.Unauthorized("invalid old password")
	}

	hashed, err := repository.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	_, err = u.userRepo.UpdateFields(userID, map[string]interface{}{"password": hashed})
	return err
}

func (u *userUsecase) CurrentUser(userID string) (*userdomain.User, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.NotFound("user does not exist")
	}
	return user.Redacted(), nil
}

func (u *userUsecase) UpdateAccount(userID string, req *userdto.UpdateAccountRequest) (*userdomain.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := normalizeIdentifier(req.Email)
	if fullName == "" || email == "" {
		return nil, response.BadRequest("all fields are required")
	}

	existing, err := u.userRepo.FindByIdentifier("", email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != userID {
		return nil, response.Conflict("email already in use")
	}

	updated, err := u.userRepo.UpdateFields(userID, map[string]interface{}{
		"full_name": fullName,
		"email":     email,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, response.NotFound("user does not exist")
	}
	return updated.Redacted(), nil
}

func (u *userUsecase) UpdateAvatar(ctx context.Context, userID string, file *userdto.FileUpload) (*userdomain.User, error) {
	return u.updateImage(ctx, userID, file, "avatars", "avatar")
}

func (u *userUsecase) UpdateCoverImage(ctx context.Context, userID string, file *userdto.FileUpload) (*userdomain.User, error) {
	return u.updateImage(ctx, userID, file, "covers", "cover_image")
}

func (u *userUsecase) updateImage(ctx context.Context, userID string, file *userdto.FileUpload, folder, column string) (*userdomain.User, error) {
	if file == nil {
		return nil, response.BadRequest("image file is required")
	}

	url, err := u.storage.Upload(ctx, folder, file.Filename, file.Reader, file.ContentType)
	if err != nil {
		u.logger.Error("image upload failed", zap.String("folder", folder), zap.Error(err))
		return nil, response.BadRequest("error while uploading image")
	}

	updated, err := u.userRepo.UpdateFields(userID, map[string]interface{}{column: url})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, response.NotFound("user does not exist")
	}
	return updated.Redacted(), nil
}

func (u *userUsecase) ValidateAccess(tokenString string) (*userdomain.User, error) {
	userID, err := u.issuer.DecodeAccess(tokenString)
	if err != nil {
		return nil, response.Unauthorized("invalid access token")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.Unauthorized("invalid access token")
	}
	return user, nil
}

// generateTokenPair coalesces signing failures into a single client-facing
// error while keeping the cause in the logs.
func (u *userUsecase) generateTokenPair(userID string) (*userdto.TokenPair, error) {
	accessToken, err := u.issuer.IssueAccess(userID)
	if err != nil {
		u.logger.Error("access token generation failed", zap.Error(err))
		return nil, response.WrapError(http.StatusInternalServerError, "something went wrong while generating tokens", err)
	}

	refreshToken, err := u.issuer.IssueRefresh(userID)
	if err != nil {
		u.logger.Error("refresh token generation failed", zap.Error(err))
		return nil, response.WrapError(http.StatusInternalServerError, "something went wrong while generating tokens", err)
	}

	return &userdto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
