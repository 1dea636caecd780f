package request

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fzn99-cell/RHConnect/internal/shared/connection"
)

// ListQuery is the repository-level filter after role gating: a nil
// Types slice means no type restriction.
type ListQuery struct {
	Types    []string
	Status   string
	UserID   string
	Page     int
	Limit    int
	SortBy   string // column name, already whitelisted by the service
	SortDesc bool
}

// TypeCount is one row of the grouped pending-count query.
type TypeCount struct {
	RequestType string
	Count       int64
}

//go:generate mockgen -source=request_repo.go -destination=mock/request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Request) error
	CreateDetail(ctx context.Context, detail any) error
	ReplaceFile(ctx context.Context, requestID uuid.UUID, f *File) error
	FindAll(ctx context.Context, q ListQuery) ([]Request, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Request, error)
	FindByUser(ctx context.Context, userID uuid.UUID, q ListQuery) ([]Request, int64, error)
	PendingCounts(ctx context.Context, types []string, department, userID string) ([]TypeCount, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
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

func (r *repository) Create(ctx context.Context, req *Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) CreateDetail(ctx context.Context, detail any) error {
	return r.db.WithContext(ctx).Create(detail).Error
}

// ReplaceFile enforces the latest-attachment-wins policy.
func (r *repository) ReplaceFile(ctx context.Context, requestID uuid.UUID, f *File) error {
	if err := r.db.WithContext(ctx).
		Delete(&File{}, "request_id = ?", requestID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(f).Error
}

func withPreloads(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Leave").
		Preload("SickLeave").
		Preload("Payslip").
		Preload("WorkCertificate").
		Preload("MedicalFileUpdate").
		Preload("Files")
}

func applyListQuery(db *gorm.DB, q ListQuery) *gorm.DB {
	out := db
	if len(q.Types) > 0 {
		out = out.Where("request_type IN ?", q.Types)
	}
	if q.Status != "" {
		out = out.Where("status = ?", q.Status)
	}
	if q.UserID != "" {
		out = out.Where("user_id = ?", q.UserID)
	}
	return out
}

func (r *repository) FindAll(ctx context.Context, q ListQuery) ([]Request, int64, error) {
	base := applyListQuery(r.db.WithContext(ctx).Model(&Request{}), q)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "submitted_at"
	}
	order := sortBy + " ASC"
	if q.SortDesc {
		order = sortBy + " DESC"
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}

	var requests []Request
	err := withPreloads(applyListQuery(r.db.WithContext(ctx), q)).
		Order(order).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error
	return requests, total, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	var req Request
	err := withPreloads(r.db.WithContext(ctx)).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID, q ListQuery) ([]Request, int64, error) {
	q.UserID = userID.String()
	q.SortBy = "submitted_at"
	q.SortDesc = true
	return r.FindAll(ctx, q)
}

// PendingCounts groups pending requests by type. A non-empty department
// additionally narrows to submitters from that department (tl scoping).
func (r *repository) PendingCounts(ctx context.Context, types []string, department, userID string) ([]TypeCount, error) {
	q := r.db.WithContext(ctx).
		Model(&Request{}).
		Select("requests.request_type AS request_type, COUNT(*) AS count").
		Where("requests.status = ?", StatusPending)

	if len(types) > 0 {
		q = q.Where("requests.request_type IN ?", types)
	}
	if userID != "" {
		q = q.Where("requests.user_id = ?", userID)
	}
	if department != "" {
		q = q.
			Joins("JOIN users ON users.id = requests.user_id").
			Where("users.department = ?", department)
	}

	var counts []TypeCount
	err := q.Group("requests.request_type").Scan(&counts).Error
	return counts, err
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&Request{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete removes the base row with its detail and file rows.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	for _, detail := range []any{
		&LeaveDetail{}, &SickLeaveDetail{}, &PayslipDetail{},
		&WorkCertificateDetail{}, &MedicalFileUpdateDetail{},
	} {
		if err := r.db.WithContext(ctx).Delete(detail, "request_id = ?", id).Error; err != nil {
			return err
		}
	}
	if err := r.db.WithContext(ctx).Delete(&File{}, "request_id = ?", id).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&Request{}, "id = ?", id).Error
}
