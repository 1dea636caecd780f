package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fzn99-cell/RHConnect/internal/auth"
	autherrors "github.com/fzn99-cell/RHConnect/internal/auth/errors"
	"github.com/fzn99-cell/RHConnect/internal/mailer"
	"github.com/fzn99-cell/RHConnect/internal/user"
)

type fakeAuthRepository struct {
	getByEmailFn        func(ctx context.Context, email string) (*user.User, error)
	getByIDFn           func(ctx context.Context, id uuid.UUID) (*user.User, error)
	recordFailedLoginFn func(ctx context.Context, id uuid.UUID, attempts int, lockUntil *time.Time) error
	clearLoginLockFn    func(ctx context.Context, id uuid.UUID) error
	setResetCodeFn      func(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error
	updatePasswordFn    func(ctx context.Context, id uuid.UUID, passwordHash string) error
}

func (f *fakeAuthRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepository) RecordFailedLogin(ctx context.Context, id uuid.UUID, attempts int, lockUntil *time.Time) error {
	if f.recordFailedLoginFn != nil {
		return f.recordFailedLoginFn(ctx, id, attempts, lockUntil)
	}
	return nil
}

func (f *fakeAuthRepository) ClearLoginLock(ctx context.Context, id uuid.UUID) error {
	if f.clearLoginLockFn != nil {
		return f.clearLoginLockFn(ctx, id)
	}
	return nil
}

func (f *fakeAuthRepository) SetResetCode(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	if f.setResetCodeFn != nil {
		return f.setResetCodeFn(ctx, id, code, expiresAt)
	}
	return nil
}

func (f *fakeAuthRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	if f.updatePasswordFn != nil {
		return f.updatePasswordFn(ctx, id, passwordHash)
	}
	return nil
}

type fakeSender struct {
	sendFn func(msg mailer.Message) error
	sent   []mailer.Message
}

func (f *fakeSender) Send(msg mailer.Message) error {
	f.sent = append(f.sent, msg)
	if f.sendFn != nil {
		return f.sendFn(msg)
	}
	return nil
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	pw, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	assert.NoError(t, err)
	return string(pw)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	password := "password123"
	userID := uuid.New()

	baseUser := func() *user.User {
		return &user.User{
			ID:         userID,
			Email:      "employee@rhconnect.fr",
			Password:   hashPassword(t, password),
			Role:       user.RoleEmployee,
			Department: user.DepartmentTechnical,
		}
	}

	t.Run("success", func(t *testing.T) {
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				assert.Equal(t, "employee@rhconnect.fr", email)
				return baseUser(), nil
			},
		}
		svc := auth.NewService(repo, &fakeSender{})

		token, resp, err := svc.Login(ctx, "employee@rhconnect.fr", password)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, userID.String(), resp.ID)
		assert.Equal(t, user.RoleEmployee, resp.Role)
	})

	t.Run("success clears previous failed attempts", func(t *testing.T) {
		cleared := false
		u := baseUser()
		u.FailedLoginAttempts = 2

		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return u, nil
			},
			clearLoginLockFn: func(ctx context.Context, id uuid.UUID) error {
				assert.Equal(t, userID, id)
				cleared = true
				return nil
			},
		}
		svc := auth.NewService(repo, &fakeSender{})

		_, _, err := svc.Login(ctx, u.Email, password)

		assert.NoError(t, err)
		assert.True(t, cleared)
	})

	t.Run("wrong password increments counter", func(t *testing.T) {
		var gotAttempts int
		var gotLock *time.Time

		u := baseUser()
		u.FailedLoginAttempts = 1

		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return u, nil
			},
			recordFailedLoginFn: func(ctx context.Context, id uuid.UUID, attempts int, lockUntil *time.Time) error {
				gotAttempts = attempts
				gotLock = lockUntil
				return nil
			},
		}
		svc := auth.NewService(repo, &fakeSender{})

		_, _, err := svc.Login(ctx, u.Email, "wrongpass")

		assert.Equal(t, autherrors.ErrInvalidCredentials, err)
		assert.Equal(t, 2, gotAttempts)
		assert.Nil(t, gotLock)
	})

	t.Run("third failure locks the account and resets the counter", func(t *testing.T) {
		var gotAttempts int
		var gotLock *time.Time

		u := baseUser()
		u.FailedLoginAttempts = 2

		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return u, nil
			},
			recordFailedLoginFn: func(ctx context.Context, id uuid.UUID, attempts int, lockUntil *time.Time) error {
				gotAttempts = attempts
				gotLock = lockUntil
				return nil
			},
		}
		svc := auth.NewService(repo, &fakeSender{})

		_, _, err := svc.Login(ctx, u.Email, "wrongpass")

		assert.Equal(t, autherrors.ErrInvalidCredentials, err)
		assert.Equal(t, 0, gotAttempts)
		assert.NotNil(t, gotLock)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), *gotLock, 5*time.Second)
	})

	t.Run("locked account is refused before password check", func(t *testing.T) {
		until := time.Now().Add(10 * time.Minute)
		u := baseUser()
		u.LockUntil = &until

		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return u, nil
			},
		}
		svc := auth.NewService(repo, &fakeSender{})

		// Even the correct password must not get through while locked.
		_, _, err := svc.Login(ctx, u.Email, password)

		assert.Equal(t, autherrors.ErrAccountLocked, err)
	})

	t.Run("expired lock is ignored", func(t *testing.T) {
		until := time.Now().Add(-time.Minute)
		u := baseUser()
		u.LockUntil = &until

		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return u, nil
			},
		}
		svc := auth.NewService(repo, &fakeSender{})

		token, _, err := svc.Login(ctx, u.Email, password)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{}, &fakeSender{})

		_, _, err := svc.Login(ctx, "ghost@rhconnect.fr", password)

		assert.Equal(t, autherrors.ErrUserNotFound, err)
	})
}

func TestAuthService_ForgotPassword(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	first := "Amina"

	t.Run("success stores code and emails it", func(t *testing.T) {
		var storedCode string
		var storedExpiry time.Time

		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return &user.User{ID: userID, Email: "amina@rhconnect.fr", FirstName: &first}, nil
			},
			setResetCodeFn: func(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
				storedCode = code
				storedExpiry = expiresAt
				return nil
			},
		}
		sender := &fakeSender{}
		svc := auth.NewService(repo, sender)

		err := svc.ForgotPassword(ctx, "amina@rhconnect.fr")

		assert.NoError(t, err)
		assert.Len(t, storedCode, 6)
		assert.WithinDuration(t, time.Now().Add(time.Hour), storedExpiry, 5*time.Second)
		assert.Len(t, sender.sent, 1)
		assert.Equal(t, "amina@rhconnect.fr", sender.sent[0].To)
		assert.Contains(t, sender.sent[0].Body, storedCode)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc := auth.NewService(&fakeAuthRepository{}, &fakeSender{})

		err := svc.ForgotPassword(ctx, "ghost@rhconnect.fr")

		assert.Equal(t, autherrors.ErrUserNotFound, err)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	code := "123456"

	userWithCode := func(expiry time.Time) *user.User {
		return &user.User{
			ID:                         userID,
			Email:                      "amina@rhconnect.fr",
			VerificationToken:          &code,
			VerificationTokenExpiresAt: &expiry,
		}
	}

	t.Run("success", func(t *testing.T) {
		var newHash string
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return userWithCode(time.Now().Add(30 * time.Minute)), nil
			},
			updatePasswordFn: func(ctx context.Context, id uuid.UUID, passwordHash string) error {
				assert.Equal(t, userID, id)
				newHash = passwordHash
				return nil
			},
		}
		svc := auth.NewService(repo, &fakeSender{})

		err := svc.ResetPassword(ctx, auth.ResetPasswordRequest{
			Email:       "amina@rhconnect.fr",
			Token:       code,
			NewPassword: "brand-new-pass",
		})

		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("brand-new-pass")))
	})

	t.Run("wrong code", func(t *testing.T) {
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return userWithCode(time.Now().Add(30 * time.Minute)), nil
			},
		}
		svc := auth.NewService(repo, &fakeSender{})

		err := svc.ResetPassword(ctx, auth.ResetPasswordRequest{
			Email:       "amina@rhconnect.fr",
			Token:       "000000",
			NewPassword: "brand-new-pass",
		})

		assert.Equal(t, autherrors.ErrInvalidResetCode, err)
	})

	t.Run("expired code", func(t *testing.T) {
		repo := &fakeAuthRepository{
			getByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
				return userWithCode(time.Now().Add(-time.Minute)), nil
			},
		}
		svc := auth.NewService(repo, &fakeSender{})

		err := svc.ResetPassword(ctx, auth.ResetPasswordRequest{
			Email:       "amina@rhconnect.fr",
			Token:       code,
			NewPassword: "brand-new-pass",
		})

		assert.Equal(t, autherrors.ErrInvalidResetCode, err)
	})
}
