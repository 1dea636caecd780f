package user

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fzn99-cell/RHConnect/internal/mailer"
	"github.com/fzn99-cell/RHConnect/internal/notification"
	usererrors "github.com/fzn99-cell/RHConnect/internal/user/errors"
)

type fakeUserRepo struct {
	createFn         func(ctx context.Context, u *User) error
	findAllFn        func(ctx context.Context, filter ListUsersFilter) ([]User, int64, error)
	findByIDFn       func(ctx context.Context, id string) (*User, error)
	countByRoleFn    func(ctx context.Context, role string) (int64, error)
	updateFieldsFn   func(ctx context.Context, id string, fields map[string]any) error
	deleteFn         func(ctx context.Context, id string) error
	relationCountsFn func(ctx context.Context, id string) (RelationCounts, error)
}

func (f *fakeUserRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeUserRepo) Create(ctx context.Context, u *User) error {
	return f.createFn(ctx, u)
}
func (f *fakeUserRepo) FindAll(ctx context.Context, filter ListUsersFilter) ([]User, int64, error) {
	return f.findAllFn(ctx, filter)
}
func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) FindByRoles(ctx context.Context, roles []string) ([]User, error) {
	return nil, nil
}
func (f *fakeUserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	return f.countByRoleFn(ctx, role)
}
func (f *fakeUserRepo) Update(ctx context.Context, u *User) error { return nil }
func (f *fakeUserRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return f.updateFieldsFn(ctx, id, fields)
}
func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}
func (f *fakeUserRepo) RelationCounts(ctx context.Context, id string) (RelationCounts, error) {
	return f.relationCountsFn(ctx, id)
}

type fakeNotifRepo struct {
	created []notification.Notification
}

func (f *fakeNotifRepo) WithTx(tx *sql.Tx) notification.Repository { return f }
func (f *fakeNotifRepo) Create(ctx context.Context, n *notification.Notification) error {
	f.created = append(f.created, *n)
	return nil
}
func (f *fakeNotifRepo) FindByUser(ctx context.Context, userID string, page, limit int) ([]notification.Notification, int64, error) {
	return nil, 0, nil
}
func (f *fakeNotifRepo) FindByRequest(ctx context.Context, requestID string) ([]notification.Notification, error) {
	return nil, nil
}

type fakeMailSender struct {
	sent []mailer.Message
}

func (f *fakeMailSender) Send(msg mailer.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func sptr(s string) *string { return &s }

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success hashes password and sends welcome email", func(t *testing.T) {
		repo := &fakeUserRepo{}
		notif := &fakeNotifRepo{}
		sender := &fakeMailSender{}

		var created *User
		repo.createFn = func(ctx context.Context, u *User) error {
			u.ID = uuid.New()
			created = u
			return nil
		}

		svc := NewService(repo, notif, sender)
		resp, err := svc.Create(ctx, CreateUserRequest{
			Email:     "  Marie.Dupont@Corp.Test ",
			Password:  "secret-password",
			FirstName: "Marie",
			LastName:  "Dupont",
			Role:      RoleHR,
		})

		assert.NoError(t, err)
		assert.Equal(t, "marie.dupont@corp.test", created.Email)
		assert.NotEqual(t, "secret-password", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret-password")))
		assert.Equal(t, "Marie Dupont", *created.FullName)
		assert.Equal(t, DepartmentNone, created.Department)
		assert.Equal(t, StatusActive, created.Status)
		assert.Equal(t, RoleHR, resp.Role)

		// Welcome email carries the initial credentials.
		assert.Len(t, sender.sent, 1)
		assert.Equal(t, "marie.dupont@corp.test", sender.sent[0].To)
		assert.True(t, strings.Contains(sender.sent[0].Body, "secret-password"))

		assert.Len(t, notif.created, 1)
		assert.Equal(t, "Compte créé", notif.created[0].Title)
	})

	t.Run("role defaults to employee", func(t *testing.T) {
		repo := &fakeUserRepo{}
		repo.createFn = func(ctx context.Context, u *User) error {
			assert.Equal(t, RoleEmployee, u.Role)
			return nil
		}

		svc := NewService(repo, &fakeNotifRepo{}, &fakeMailSender{})
		_, err := svc.Create(ctx, CreateUserRequest{Email: "a@b.test", Password: "password123"})
		assert.NoError(t, err)
	})

	t.Run("negative second admin refused", func(t *testing.T) {
		repo := &fakeUserRepo{}
		repo.countByRoleFn = func(ctx context.Context, role string) (int64, error) {
			return 1, nil
		}

		svc := NewService(repo, &fakeNotifRepo{}, &fakeMailSender{})
		_, err := svc.Create(ctx, CreateUserRequest{Email: "a@b.test", Password: "password123", Role: RoleAdmin})
		assert.ErrorIs(t, err, usererrors.ErrAdminAlreadyExists)
	})

	t.Run("negative unknown role", func(t *testing.T) {
		svc := NewService(&fakeUserRepo{}, &fakeNotifRepo{}, &fakeMailSender{})
		_, err := svc.Create(ctx, CreateUserRequest{Email: "a@b.test", Password: "password123", Role: "superuser"})
		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
	})
}

func TestUserService_Patch(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	existing := func() *User {
		return &User{
			ID:        id,
			Email:     "emp@corp.test",
			FirstName: sptr("Jean"),
			LastName:  sptr("Martin"),
			FullName:  sptr("Jean Martin"),
			Role:      RoleEmployee,
		}
	}

	t.Run("admin patch recomputes full name", func(t *testing.T) {
		repo := &fakeUserRepo{}
		repo.findByIDFn = func(ctx context.Context, uid string) (*User, error) {
			return existing(), nil
		}
		var applied map[string]any
		repo.updateFieldsFn = func(ctx context.Context, uid string, fields map[string]any) error {
			applied = fields
			return nil
		}

		svc := NewService(repo, &fakeNotifRepo{}, &fakeMailSender{})
		_, err := svc.Patch(ctx, id.String(), PatchUserRequest{
			Updates: map[string]any{"firstName": "Pierre", "role": RoleTL},
		})

		assert.NoError(t, err)
		assert.Equal(t, "Pierre", applied["first_name"])
		assert.Equal(t, RoleTL, applied["role"])
		assert.Equal(t, "Pierre Martin", applied["full_name"])
	})

	t.Run("forbidden keys are dropped", func(t *testing.T) {
		svc := NewService(&fakeUserRepo{}, &fakeNotifRepo{}, &fakeMailSender{})

		// Only blacklisted keys: nothing survives the filter.
		_, err := svc.Patch(ctx, id.String(), PatchUserRequest{
			Updates: map[string]any{"email": "hacked@x.test", "password": "x", "id": "y"},
		})
		assert.ErrorIs(t, err, usererrors.ErrNoUpdatableFields)
	})

	t.Run("self patch cannot touch role or department", func(t *testing.T) {
		svc := NewService(&fakeUserRepo{}, &fakeNotifRepo{}, &fakeMailSender{})

		_, err := svc.PatchMyProfile(ctx, id.String(), map[string]any{
			"role":       RoleAdmin,
			"department": DepartmentFinance,
			"status":     StatusOnLeave,
			"email":      "new@x.test",
		})
		assert.ErrorIs(t, err, usererrors.ErrNoUpdatableFields)
	})

	t.Run("self patch updates profile fields", func(t *testing.T) {
		repo := &fakeUserRepo{}
		repo.findByIDFn = func(ctx context.Context, uid string) (*User, error) {
			return existing(), nil
		}
		var applied map[string]any
		repo.updateFieldsFn = func(ctx context.Context, uid string, fields map[string]any) error {
			applied = fields
			return nil
		}

		svc := NewService(repo, &fakeNotifRepo{}, &fakeMailSender{})
		_, err := svc.PatchMyProfile(ctx, id.String(), map[string]any{"phone": "+33600000000"})

		assert.NoError(t, err)
		assert.Equal(t, "+33600000000", applied["phone"])
	})

	t.Run("negative invalid role value", func(t *testing.T) {
		svc := NewService(&fakeUserRepo{}, &fakeNotifRepo{}, &fakeMailSender{})
		_, err := svc.Patch(ctx, id.String(), PatchUserRequest{
			Updates: map[string]any{"role": "owner"},
		})
		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
	})

	t.Run("negative invalid department value", func(t *testing.T) {
		svc := NewService(&fakeUserRepo{}, &fakeNotifRepo{}, &fakeMailSender{})
		_, err := svc.Patch(ctx, id.String(), PatchUserRequest{
			Updates: map[string]any{"department": "space"},
		})
		assert.ErrorIs(t, err, usererrors.ErrInvalidDepartment)
	})
}

func TestUserService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	repo := &fakeUserRepo{}
	repo.findByIDFn = func(ctx context.Context, uid string) (*User, error) {
		return &User{ID: id}, nil
	}
	var applied map[string]any
	repo.updateFieldsFn = func(ctx context.Context, uid string, fields map[string]any) error {
		applied = fields
		return nil
	}

	svc := NewService(repo, &fakeNotifRepo{}, &fakeMailSender{})
	err := svc.ResetPassword(ctx, id.String(), ResetPasswordRequest{NewPassword: "fresh-password"})

	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(applied["password"].(string)), []byte("fresh-password")))

	// A forced reset also unlocks the account and voids any reset code.
	assert.Nil(t, applied["verification_token"])
	assert.Nil(t, applied["lock_until"])
	assert.Equal(t, 0, applied["failed_login_attempts"])
}

func TestUserService_ChangeMyPassword(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	newRepo := func() *fakeUserRepo {
		repo := &fakeUserRepo{}
		repo.findByIDFn = func(ctx context.Context, uid string) (*User, error) {
			return &User{ID: id, Password: string(hash)}, nil
		}
		repo.updateFieldsFn = func(ctx context.Context, uid string, fields map[string]any) error {
			return nil
		}
		return repo
	}

	t.Run("success", func(t *testing.T) {
		svc := NewService(newRepo(), &fakeNotifRepo{}, &fakeMailSender{})
		err := svc.ChangeMyPassword(ctx, id.String(), ChangeMyPasswordRequest{
			OldPassword: "old-password",
			NewPassword: "brand-new-pass",
		})
		assert.NoError(t, err)
	})

	t.Run("negative wrong old password", func(t *testing.T) {
		svc := NewService(newRepo(), &fakeNotifRepo{}, &fakeMailSender{})
		err := svc.ChangeMyPassword(ctx, id.String(), ChangeMyPasswordRequest{
			OldPassword: "guess",
			NewPassword: "brand-new-pass",
		})
		assert.ErrorIs(t, err, usererrors.ErrWrongOldPassword)
	})
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()

	repo := &fakeUserRepo{}
	repo.findAllFn = func(ctx context.Context, filter ListUsersFilter) ([]User, int64, error) {
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 10, filter.Limit)
		return []User{{ID: uuid.New(), Email: "a@b.test"}}, 1, nil
	}

	svc := NewService(repo, &fakeNotifRepo{}, &fakeMailSender{})
	resp, meta, err := svc.List(ctx, ListUsersFilter{})

	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, int64(1), meta.Total)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("negative unknown user", func(t *testing.T) {
		repo := &fakeUserRepo{}
		repo.findByIDFn = func(ctx context.Context, uid string) (*User, error) {
			return nil, gorm.ErrRecordNotFound
		}

		svc := NewService(repo, &fakeNotifRepo{}, &fakeMailSender{})
		err := svc.Delete(ctx, id.String())
		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})

	t.Run("success", func(t *testing.T) {
		repo := &fakeUserRepo{}
		repo.findByIDFn = func(ctx context.Context, uid string) (*User, error) {
			return &User{ID: id}, nil
		}
		deleted := false
		repo.deleteFn = func(ctx context.Context, uid string) error {
			deleted = true
			return nil
		}

		svc := NewService(repo, &fakeNotifRepo{}, &fakeMailSender{})
		assert.NoError(t, svc.Delete(ctx, id.String()))
		assert.True(t, deleted)
	})
}
