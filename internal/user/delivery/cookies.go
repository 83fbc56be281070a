package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

func (h *UserHandler) setTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, accessToken, 0, "/", "", h.cookieSecure, true)
	c.SetCookie(refreshTokenCookie, refreshToken, 0, "/", "", h.cookieSecure, true)
}

func (h *UserHandler) clearTokenCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, "", -1, "/", "", h.cookieSecure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", h.cookieSecure, true)
}
