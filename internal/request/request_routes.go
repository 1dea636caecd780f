package request

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
	requests := r.Group("/requests")
	requests.Use(middleware.AuthMiddleware())
	requests.Use(middleware.ContextLogger(logger))
	{
		requests.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "request", "create"),
			middleware.Idempotency(),
			handler.Submit,
		)

		requests.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "request", "read"),
			handler.GetAll,
		)

		requests.GET("/pending-counts",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "request", "read"),
			handler.PendingCounts,
		)

		requests.GET("/user/:userId",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "request", "read"),
			handler.ByUser,
		)

		requests.GET("/:requestId",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "request", "read"),
			handler.ByID,
		)

		requests.POST("/:requestId/review",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "request", "review"),
			handler.Review,
		)
	}

	self := r.Group("/self/requests")
	self.Use(middleware.AuthMiddleware())
	self.Use(middleware.ContextLogger(logger))
	{
		self.GET("",
			middleware.RateLimitByUser(5, 20),
			handler.ListMine,
		)

		self.GET("/:requestId",
			middleware.RateLimitByUser(5, 20),
			handler.GetMine,
		)

		self.PATCH("/:requestId",
			middleware.RateLimitByUser(1, 3),
			handler.PatchMine,
		)

		self.DELETE("/:requestId",
			middleware.RateLimitByUser(0.5, 2),
			handler.DeleteMine,
		)
	}
}
