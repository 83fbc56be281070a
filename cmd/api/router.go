package api

import (
	"net/http"

	"vidtube-backend/internal/user/delivery"
	userUsecase "vidtube-backend/internal/user/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, userUc userUsecase.UserUsecase, cookieSecure bool) {
	userHandler := delivery.NewUserHandler(userUc, cookieSecure)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		users := api.Group("/v1/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/refresh-token", userHandler.RefreshToken)
			users.POST("/logout", delivery.AuthMiddleware(userUc), userHandler.Logout)
			users.POST("/change-password", delivery.AuthMiddleware(userUc), userHandler.ChangePassword)
			users.GET("/current-user", delivery.AuthMiddleware(userUc), userHandler.CurrentUser)
			users.PATCH("/update-account", delivery.AuthMiddleware(userUc), userHandler.UpdateAccount)
			users.PATCH("/avatar", delivery.AuthMiddleware(userUc), userHandler.UpdateAvatar)
			users.PATCH("/cover-image", delivery.AuthMiddleware(userUc), userHandler.UpdateCoverImage)
		}
	}
}
