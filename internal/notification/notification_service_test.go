package notification

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeNotificationRepo struct {
	findByUserFn func(ctx context.Context, userID string, page, limit int) ([]Notification, int64, error)
}

func (f *fakeNotificationRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeNotificationRepo) Create(ctx context.Context, n *Notification) error {
	return nil
}
func (f *fakeNotificationRepo) FindByUser(ctx context.Context, userID string, page, limit int) ([]Notification, int64, error) {
	return f.findByUserFn(ctx, userID, page, limit)
}
func (f *fakeNotificationRepo) FindByRequest(ctx context.Context, requestID string) ([]Notification, error) {
	return nil, nil
}

func TestNotificationService_ListMine(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success maps rows and meta", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		repo.findByUserFn = func(ctx context.Context, uid string, page, limit int) ([]Notification, int64, error) {
			assert.Equal(t, userID.String(), uid)
			return []Notification{
				{ID: uuid.New(), UserID: userID, Title: "Demande traitée", Message: "Votre demande a été approuvée."},
			}, 1, nil
		}

		svc := NewService(repo)
		resp, meta, err := svc.ListMine(ctx, userID, ListNotificationsFilter{Page: 1, Limit: 20})

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Demande traitée", resp[0].Title)
		assert.Equal(t, int64(1), meta.Total)
	})

	t.Run("defaults and caps page size", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		repo.findByUserFn = func(ctx context.Context, uid string, page, limit int) ([]Notification, int64, error) {
			assert.Equal(t, 1, page)
			assert.Equal(t, 100, limit)
			return nil, 0, nil
		}

		svc := NewService(repo)
		_, _, err := svc.ListMine(ctx, userID, ListNotificationsFilter{Limit: 500})
		assert.NoError(t, err)
	})
}
