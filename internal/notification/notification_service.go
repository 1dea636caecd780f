package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fzn99-cell/RHConnect/internal/shared/apperror"
	"github.com/fzn99-cell/RHConnect/internal/shared/response"
)

type Service interface {
	ListMine(ctx context.Context, userID uuid.UUID, filter ListNotificationsFilter) ([]NotificationResponse, *response.PaginationMeta, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

// ListMine returns the caller's notifications, newest first.
func (s *service) ListMine(ctx context.Context, userID uuid.UUID, filter ListNotificationsFilter) ([]NotificationResponse, *response.PaginationMeta, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	notifications, total, err := s.repo.FindByUser(ctx, userID.String(), filter.Page, filter.Limit)
	if err != nil {
		s.logger.Error("list notifications failed", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to list notifications", 500)
	}

	meta := response.NewPaginationMeta(total, filter.Page, filter.Limit)
	return mapToListResponse(notifications), &meta, nil
}
