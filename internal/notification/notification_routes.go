package notification

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fzn99-cell/RHConnect/internal/middleware"
	"github.com/fzn99-cell/RHConnect/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	notifications := r.Group("/self/notifications")
	notifications.Use(middleware.AuthMiddleware())
	notifications.Use(middleware.ContextLogger(logger))
	{
		notifications.GET("",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "notification", "read"),
			handler.ListMine,
		)

		notifications.GET("/stream",
			middleware.RBACAuthorize(rbacService, "notification", "read"),
			handler.Stream,
		)
	}
}
