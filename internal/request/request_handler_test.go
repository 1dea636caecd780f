package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fzn99-cell/RHConnect/internal/user"
)

func TestRequestHandler_PendingCounts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("session user never narrows the counts", func(t *testing.T) {
		f := newFixture(t)

		var gotSubmitter string
		f.repo.pendingCountsFn = func(ctx context.Context, types []string, department, submitterID string) ([]TypeCount, error) {
			gotSubmitter = submitterID
			return []TypeCount{{RequestType: TypePayslip, Count: 4}}, nil
		}

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/requests/pending-counts", nil)
		c.Set("role", user.RoleHR)
		c.Set("department", "hiring")
		c.Set("user_id", uuid.NewString())

		NewHandler(f.svc).PendingCounts(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, gotSubmitter)
	})

	t.Run("userId query parameter narrows the counts", func(t *testing.T) {
		f := newFixture(t)
		targetID := uuid.NewString()

		var gotSubmitter string
		f.repo.pendingCountsFn = func(ctx context.Context, types []string, department, submitterID string) ([]TypeCount, error) {
			gotSubmitter = submitterID
			return nil, nil
		}

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/requests/pending-counts?userId="+targetID, nil)
		c.Set("role", user.RoleAdmin)
		c.Set("user_id", uuid.NewString())

		NewHandler(f.svc).PendingCounts(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, targetID, gotSubmitter)
	})
}

func TestRequestHandler_SubmitIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	f.repo.createFn = func(ctx context.Context, r *Request) error { return nil }
	f.users.findByRolesFn = func(ctx context.Context, roles []string) ([]user.User, error) {
		return nil, nil
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	rdb, redisMock := redismock.NewClientMock()
	redisMock.MatchExpectationsInOrder(false)

	cacheKey := "idemp:/api/requests:" + uuid.NewString() + ":retry-1"
	lockKey := cacheKey + ":lock"
	redisMock.Regexp().ExpectSet(cacheKey, `.*Demande soumise avec succès.*`, 24*time.Hour).SetVal("OK")
	redisMock.ExpectDel(lockKey).SetVal(1)

	form := url.Values{}
	form.Set("requestType", TypeComplaint)
	form.Set("description", "Réclamation")
	req := httptest.NewRequest(http.MethodPost, "/api/requests", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", uuid.NewString())
	c.Set("idempotency_cache_key", cacheKey)
	c.Set("idempotency_lock_key", lockKey)

	NewHandlerWithRedis(f.svc, rdb).Submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, redisMock.ExpectationsWereMet())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
