package request

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"github.com/fzn99-cell/RHConnect/internal/user"
)

func TestRequestService_PendingCountsCache(t *testing.T) {
	ctx := context.Background()

	newCachedFixture := func(t *testing.T) (*fixture, redismock.ClientMock) {
		t.Helper()

		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		rdb, redisMock := redismock.NewClientMock()

		f := &fixture{
			db:    db,
			repo:  &fakeRequestRepository{},
			users: &fakeUserRepository{},
			audit: &fakeAuditRepository{},
			notif: &fakeNotificationRepository{},
			out:   &fakeOutboxRepository{},
			store: &fakeStore{},
		}
		f.svc = NewService(db, f.repo, f.users, f.audit, f.notif, f.out, f.store, nil, rdb)
		return f, redisMock
	}

	t.Run("cache hit skips the database", func(t *testing.T) {
		f, redisMock := newCachedFixture(t)

		f.repo.pendingCountsFn = func(ctx context.Context, types []string, department, submitterID string) ([]TypeCount, error) {
			t.Fatal("repository must not be queried on a cache hit")
			return nil, nil
		}

		key := pendingCountsKeyPrefix + user.RoleHR + "::"
		redisMock.ExpectGet(key).SetVal(`{"payslip":4}`)

		counts, err := f.svc.PendingCounts(ctx, user.RoleHR, "hiring", "")
		assert.NoError(t, err)
		assert.Equal(t, int64(4), counts[TypePayslip])
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss queries and stores the result", func(t *testing.T) {
		f, redisMock := newCachedFixture(t)

		f.repo.pendingCountsFn = func(ctx context.Context, types []string, department, submitterID string) ([]TypeCount, error) {
			return []TypeCount{{RequestType: TypeLeave, Count: 2}}, nil
		}

		key := pendingCountsKeyPrefix + user.RoleTL + ":technical:"
		payload, err := json.Marshal(map[string]int64{TypeLeave: 2})
		assert.NoError(t, err)

		redisMock.ExpectGet(key).RedisNil()
		redisMock.ExpectSet(key, payload, 30*time.Second).SetVal("OK")

		counts, err := f.svc.PendingCounts(ctx, user.RoleTL, "technical", "")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), counts[TypeLeave])
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}
