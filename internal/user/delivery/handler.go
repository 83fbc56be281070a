package delivery

import (
	"mime/multipart"
	"net/http"

	userdto "vidtube-backend/internal/user/dto"
	"vidtube-backend/internal/user/usecase"
	"vidtube-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUsecase  usecase.UserUsecase
	cookieSecure bool
}

func NewUserHandler(userUsecase usecase.UserUsecase, cookieSecure bool) *UserHandler {
	return &UserHandler{
		userUsecase:  userUsecase,
		cookieSecure: cookieSecure,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	req := &userdto.RegisterRequest{
		FullName: c.PostForm("fullname"),
		Email:    c.PostForm("email"),
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}

	avatar, closeAvatar, err := formFile(c, "avatar")
	if err == nil {
		defer closeAvatar()
		req.Avatar = avatar
	}

	cover, closeCover, err := formFile(c, "coverImage")
	if err == nil {
		defer closeCover()
		req.CoverImage = cover
	}

	user, err := h.userUsecase.Register(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, user, "user registered successfully")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req userdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BadRequest("password is required"))
		return
	}

	res, err := h.userUsecase.Login(&req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	h.setTokenCookies(c, res.AccessToken, res.RefreshToken)
	response.OK(c, http.StatusOK, res, "user logged in successfully")
}

func (h *UserHandler) Logout(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.userUsecase.Logout(userID); err != nil {
		response.Fail(c, err)
		return
	}

	h.clearTokenCookies(c)
	response.OK(c, http.StatusOK, nil, "user logged out successfully")
}

func (h *UserHandler) RefreshToken(c *gin.Context) {
	// Cookie takes precedence over the request body.
	presented, err := c.Cookie("refreshToken")
	if err != nil || presented == "" {
		var req userdto.RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	res, err := h.userUsecase.Refresh(presented)
	if err != nil {
		response.Fail(c, err)
		return
	}

	h.setTokenCookies(c, res.AccessToken, res.RefreshToken)
	response.OK(c, http.StatusOK, userdto.TokenPair{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}, "access token refreshed")
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req userdto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BadRequest("old and new password are required"))
		return
	}

	if err := h.userUsecase.ChangePassword(c.GetString("userID"), &req); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, nil, "password changed successfully")
}

func (h *UserHandler) CurrentUser(c *gin.Context) {
	user, err := h.userUsecase.CurrentUser(c.GetString("userID"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, user, "current user fetched successfully")
}

func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req userdto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BadRequest("all fields are required"))
		return
	}

	user, err := h.userUsecase.UpdateAccount(c.GetString("userID"), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, user, "account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	file, closeFile, err := formFile(c, "avatar")
	if err != nil {
		response.Fail(c, response.BadRequest("avatar file is required"))
		return
	}
	defer closeFile()

	user, err := h.userUsecase.UpdateAvatar(c.Request.Context(), c.GetString("userID"), file)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, user, "avatar updated successfully")
}

func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	file, closeFile, err := formFile(c, "coverImage")
	if err != nil {
		response.Fail(c, response.BadRequest("cover image file is required"))
		return
	}
	defer closeFile()

	user, err := h.userUsecase.UpdateCoverImage(c.Request.Context(), c.GetString("userID"), file)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, user, "cover image updated successfully")
}

func formFile(c *gin.Context, name string) (*userdto.FileUpload, func(), error) {
	header, err := c.FormFile(name)
	if err != nil {
		return nil, nil, err
	}

	var file multipart.File
	file, err = header.Open()
	if err != nil {
		return nil, nil, err
	}

	return &userdto.FileUpload{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, func() { file.Close() }, nil
}
