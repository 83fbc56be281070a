package delivery

import (
	"strings"

	"vidtube-backend/internal/user/usecase"
	"vidtube-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the access token from the accessToken cookie or
// the Authorization header (cookie takes precedence) and loads the user into
// the request context.
func AuthMiddleware(userUsecase usecase.UserUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, _ := c.Cookie(accessTokenCookie)
		if tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			response.Fail(c, response.Unauthorized("unauthorized request"))
			c.Abort()
			return
		}

		user, err := userUsecase.ValidateAccess(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized("invalid access token"))
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Next()
	}
}
