package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	userdomain "vidtube-backend/internal/user/domain"
	userdto "vidtube-backend/internal/user/dto"
	"vidtube-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUsecase lets each test control exactly one operation.
type stubUsecase struct {
	registerFn       func(req *userdto.RegisterRequest) (*userdomain.User, error)
	loginFn          func(req *userdto.LoginRequest) (*userdto.AuthResponse, error)
	logoutFn         func(userID string) error
	refreshFn        func(presented string) (*userdto.AuthResponse, error)
	validateAccessFn func(tokenString string) (*userdomain.User, error)
}

func (s *stubUsecase) Register(ctx context.Context, req *userdto.RegisterRequest) (*userdomain.User, error) {
	return s.registerFn(req)
}

func (s *stubUsecase) Login(req *userdto.LoginRequest) (*userdto.AuthResponse, error) {
	return s.loginFn(req)
}

func (s *stubUsecase) Logout(userID string) error {
	return s.logoutFn(userID)
}

func (s *stubUsecase) Refresh(presented string) (*userdto.AuthResponse, error) {
	return s.refreshFn(presented)
}

func (s *stubUsecase) ChangePassword(userID string, req *userdto.ChangePasswordRequest) error {
	return nil
}

func (s *stubUsecase) CurrentUser(userID string) (*userdomain.User, error) {
	return &userdomain.User{ID: userID, Username: "alice"}, nil
}

func (s *stubUsecase) UpdateAccount(userID string, req *userdto.UpdateAccountRequest) (*userdomain.User, error) {
	return &userdomain.User{ID: userID}, nil
}

func (s *stubUsecase) UpdateAvatar(ctx context.Context, userID string, file *userdto.FileUpload) (*userdomain.User, error) {
	return &userdomain.User{ID: userID}, nil
}

func (s *stubUsecase) UpdateCoverImage(ctx context.Context, userID string, file *userdto.FileUpload) (*userdomain.User, error) {
	return &userdomain.User{ID: userID}, nil
}

func (s *stubUsecase) ValidateAccess(tokenString string) (*userdomain.User, error) {
	if s.validateAccessFn != nil {
		return s.validateAccessFn(tokenString)
	}
	return nil, response.Unauthorized("invalid access token")
}

func newTestRouter(uc *stubUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(uc, true)
	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/refresh-token", h.RefreshToken)
	r.POST("/logout", AuthMiddleware(uc), h.Logout)
	r.GET("/current-user", AuthMiddleware(uc), h.CurrentUser)
	return r
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(body.Bytes(), &env))
	return env
}

func cookieByName(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginSetsSecureCookies(t *testing.T) {
	uc := &stubUsecase{
		loginFn: func(req *userdto.LoginRequest) (*userdto.AuthResponse, error) {
			return &userdto.AuthResponse{
				User:         &userdomain.User{ID: "user-1", Username: "alice"},
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
			}, nil
		},
	}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusOK, env.StatusCode)

	res := w.Result()
	access := cookieByName(res, "accessToken")
	require.NotNil(t, access)
	assert.Equal(t, "access-token", access.Value)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)

	refresh := cookieByName(res, "refreshToken")
	require.NotNil(t, refresh)
	assert.Equal(t, "refresh-token", refresh.Value)
	assert.True(t, refresh.HttpOnly)
	assert.True(t, refresh.Secure)
}

func TestLoginFailureUsesEnvelope(t *testing.T) {
	uc := &stubUsecase{
		loginFn: func(req *userdto.LoginRequest) (*userdto.AuthResponse, error) {
			return nil, response.Unauthorized("invalid user credentials")
		},
	}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w.Body)
	assert.False(t, env.Success)
	assert.Equal(t, "invalid user credentials", env.Message)
	assert.Empty(t, w.Result().Cookies())
}

func TestRefreshPrefersCookieOverBody(t *testing.T) {
	var presented string
	uc := &stubUsecase{
		refreshFn: func(p string) (*userdto.AuthResponse, error) {
			presented = p
			return &userdto.AuthResponse{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/refresh-token", strings.NewReader(`{"refreshToken":"from-body"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "from-cookie"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from-cookie", presented)

	refresh := cookieByName(w.Result(), "refreshToken")
	require.NotNil(t, refresh)
	assert.Equal(t, "new-refresh", refresh.Value)
}

func TestRefreshFallsBackToBody(t *testing.T) {
	var presented string
	uc := &stubUsecase{
		refreshFn: func(p string) (*userdto.AuthResponse, error) {
			presented = p
			return &userdto.AuthResponse{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/refresh-token", strings.NewReader(`{"refreshToken":"from-body"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from-body", presented)
}

func TestLogoutClearsCookies(t *testing.T) {
	uc := &stubUsecase{
		logoutFn: func(userID string) error { return nil },
		validateAccessFn: func(tokenString string) (*userdomain.User, error) {
			return &userdomain.User{ID: "user-1"}, nil
		},
	}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "access-token"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	res := w.Result()
	access := cookieByName(res, "accessToken")
	require.NotNil(t, access)
	assert.Empty(t, access.Value)
	assert.Less(t, access.MaxAge, 0)

	refresh := cookieByName(res, "refreshToken")
	require.NotNil(t, refresh)
	assert.Empty(t, refresh.Value)
	assert.Less(t, refresh.MaxAge, 0)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r := newTestRouter(&stubUsecase{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/current-user", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w.Body)
	assert.False(t, env.Success)
}

func TestAuthMiddlewareAcceptsBearerHeader(t *testing.T) {
	uc := &stubUsecase{
		validateAccessFn: func(tokenString string) (*userdomain.User, error) {
			if tokenString != "good-token" {
				return nil, response.Unauthorized("invalid access token")
			}
			return &userdomain.User{ID: "user-1", Username: "alice"}, nil
		},
	}
	r := newTestRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/current-user", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body)
	assert.True(t, env.Success)
}

func TestRegisterMultipart(t *testing.T) {
	var got *userdto.RegisterRequest
	uc := &stubUsecase{
		registerFn: func(req *userdto.RegisterRequest) (*userdomain.User, error) {
			got = req
			return &userdomain.User{ID: "user-1", Username: "alice"}, nil
		},
	}
	r := newTestRouter(uc)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("fullname", "Alice A"))
	require.NoError(t, mw.WriteField("email", "a@x.com"))
	require.NoError(t, mw.WriteField("username", "alice"))
	require.NoError(t, mw.WriteField("password", "secret1"))
	fw, err := mw.CreateFormFile("avatar", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/register", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "Alice A", got.FullName)
	require.NotNil(t, got.Avatar)
	assert.Equal(t, "avatar.png", got.Avatar.Filename)
	assert.Nil(t, got.CoverImage)
}
