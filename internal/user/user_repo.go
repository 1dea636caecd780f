package user

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/fzn99-cell/RHConnect/internal/shared/connection"
)

// RelationCounts mirrors the admin detail view (requests, notifications,
// audit entries the user authored).
type RelationCounts struct {
	Requests      int64
	Notifications int64
	Audits        int64
}

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindAll(ctx context.Context, filter ListUsersFilter) ([]User, int64, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByRoles(ctx context.Context, roles []string) ([]User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	Update(ctx context.Context, u *User) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	RelationCounts(ctx context.Context, id string) (RelationCounts, error)
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

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListUsersFilter) ([]User, int64, error) {
	q := r.db.WithContext(ctx).Model(&User{})

	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var users []User
	err := q.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	return &u, err
}

func (r *repository) FindByRoles(ctx context.Context, roles []string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("role IN ?", roles).
		Find(&users).Error
	return users, err
}

func (r *repository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&User{}, "id = ?", id).Error
}

func (r *repository) RelationCounts(ctx context.Context, id string) (RelationCounts, error) {
	var counts RelationCounts

	if err := r.db.WithContext(ctx).
		Table("requests").
		Where("user_id = ?", id).
		Count(&counts.Requests).Error; err != nil {
		return counts, err
	}
	if err := r.db.WithContext(ctx).
		Table("notifications").
		Where("user_id = ?", id).
		Count(&counts.Notifications).Error; err != nil {
		return counts, err
	}
	err := r.db.WithContext(ctx).
		Table("audits").
		Where("changed_by = ?", id).
		Count(&counts.Audits).Error
	return counts, err
}
