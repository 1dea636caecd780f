package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/fzn99-cell/RHConnect/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)
		auth.POST("/forgot-password", middleware.RateLimitByIP(0.05, 2), handler.ForgotPassword)
		auth.POST("/reset-password", middleware.RateLimitByIP(0.1, 3), handler.ResetPassword)
		auth.POST("/logout", handler.Logout)
		auth.GET("/me", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), handler.Me)
	}
}
