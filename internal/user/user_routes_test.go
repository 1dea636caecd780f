package user

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/fzn99-cell/RHConnect/internal/rbac"
)

func TestRegisterRoutes_PatchUserByID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	enforcer, err := rbac.NewEnforcer()
	assert.NoError(t, err)

	router := gin.New()
	RegisterRoutes(router.Group("/api"), NewHandler(nil), rbac.NewService(enforcer), zap.NewNop())

	found := false
	for _, route := range router.Routes() {
		if route.Method == http.MethodPatch && route.Path == "/api/users/:userId" {
			found = true
		}
	}
	assert.True(t, found, "PATCH /api/users/:userId must be registered")
}
