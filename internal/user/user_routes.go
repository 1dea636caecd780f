package user

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
	admin := r.Group("/admin/users")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.ContextLogger(logger))
	{
		admin.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "admin_user", "read"),
			handler.List,
		)

		admin.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "admin_user", "create"),
			middleware.Idempotency(),
			handler.Create,
		)

		admin.PATCH("/:userId",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "admin_user", "update"),
			handler.Patch,
		)

		admin.PATCH("/:userId/change-password",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, "admin_user", "update"),
			handler.ResetPassword,
		)

		admin.DELETE("/:userId",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, "admin_user", "delete"),
			handler.Delete,
		)
	}

	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	users.Use(middleware.ContextLogger(logger))
	{
		users.GET("/:userId",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "user", "read"),
			handler.GetById,
		)

		users.PATCH("/:userId",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "admin_user", "update"),
			handler.Patch,
		)
	}

	self := r.Group("/self")
	self.Use(middleware.AuthMiddleware())
	self.Use(middleware.ContextLogger(logger))
	{
		self.GET("/profile",
			middleware.RateLimitByUser(5, 20),
			handler.GetMyProfile,
		)

		self.PATCH("/profile",
			middleware.RateLimitByUser(1, 3),
			handler.PatchMyProfile,
		)

		self.PATCH("/change-password",
			middleware.RateLimitByUser(0.2, 1),
			handler.ChangeMyPassword,
		)
	}
}
