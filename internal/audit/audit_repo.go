package audit

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/fzn99-cell/RHConnect/internal/shared/connection"
)

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Audit) error
	FindByRequest(ctx context.Context, requestID string) ([]Audit, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.GORMOverTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, a *Audit) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByRequest(ctx context.Context, requestID string) ([]Audit, error) {
	var audits []Audit
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("changed_at ASC").
		Find(&audits).Error
	return audits, err
}
