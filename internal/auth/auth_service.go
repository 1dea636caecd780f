package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	autherrors "github.com/fzn99-cell/RHConnect/internal/auth/errors"
	"github.com/fzn99-cell/RHConnect/internal/mailer"
	"github.com/fzn99-cell/RHConnect/internal/user"
)

const (
	maxFailedLogins = 3
	lockDuration    = 15 * time.Minute
	resetCodeTTL    = time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (token string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type service struct {
	repo   Repository
	sender mailer.Sender
	logger *zap.Logger
}

func NewService(repo Repository, sender mailer.Sender, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, sender: sender, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (string, AuthResponse, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", AuthResponse{}, autherrors.ErrUserNotFound
		}
		return "", AuthResponse{}, err
	}

	// Locked accounts are refused before the password is even checked.
	if u.LockUntil != nil && u.LockUntil.After(time.Now()) {
		return "", AuthResponse{}, autherrors.ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		attempts := u.FailedLoginAttempts + 1
		var lockUntil *time.Time
		if attempts >= maxFailedLogins {
			until := time.Now().Add(lockDuration)
			lockUntil = &until
			attempts = 0 // counter restarts once the lock is placed
		}

		if err := s.repo.RecordFailedLogin(ctx, u.ID, attempts, lockUntil); err != nil {
			s.logger.Error("record failed login attempt failed", zap.Error(err), zap.String("user_id", u.ID.String()))
		}
		if lockUntil != nil {
			s.logger.Warn("account locked after repeated failed logins",
				zap.String("user_id", u.ID.String()),
				zap.Time("lock_until", *lockUntil),
			)
		}

		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if u.FailedLoginAttempts > 0 || u.LockUntil != nil {
		if err := s.repo.ClearLoginLock(ctx, u.ID); err != nil {
			s.logger.Error("clear login lock failed", zap.Error(err), zap.String("user_id", u.ID.String()))
		}
	}

	token, err := s.generateToken(u)
	if err != nil {
		return "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return token, AuthResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		FullName:   u.FullName,
	}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidToken
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	return &AuthResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		FullName:   u.FullName,
	}, nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return autherrors.ErrUserNotFound
		}
		return err
	}

	code, err := generateResetCode()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(resetCodeTTL)
	if err := s.repo.SetResetCode(ctx, u.ID, code, expiresAt); err != nil {
		return err
	}

	name := "utilisateur"
	if u.FirstName != nil && *u.FirstName != "" {
		name = *u.FirstName
	}
	resetURL := fmt.Sprintf("%s/reset-password?email=%s", os.Getenv("FRONTEND_URL"), u.Email)

	msg := mailer.Message{
		To:      u.Email,
		Subject: "Réinitialisation du mot de passe",
		Body: fmt.Sprintf(
			"Bonjour %s,\n\nVoici votre code pour réinitialiser votre mot de passe :\n\nCode : %s\n\nOu ouvrez le lien suivant :\n%s\n\nCe code expire dans une heure.",
			name, code, resetURL,
		),
	}
	if err := s.sender.Send(msg); err != nil {
		return err
	}

	s.logger.Info("password reset code issued", zap.String("user_id", u.ID.String()))
	return nil
}

func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return autherrors.ErrInvalidResetCode
		}
		return err
	}

	if u.VerificationToken == nil ||
		*u.VerificationToken != req.Token ||
		u.VerificationTokenExpiresAt == nil ||
		u.VerificationTokenExpiresAt.Before(time.Now()) {
		return autherrors.ErrInvalidResetCode
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, u.ID, string(hashed)); err != nil {
		return err
	}

	s.logger.Info("password reset completed", zap.String("user_id", u.ID.String()))
	return nil
}

func tokenExpiry() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("TOKEN_EXPIRY_HOURS"))
	if err != nil || hours <= 0 {
		hours = 24 * 7
	}
	return time.Duration(hours) * time.Hour
}

func (s *service) generateToken(u *user.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    u.ID.String(),
		"role":       u.Role,
		"department": u.Department,
		"email":      u.Email,
		"exp":        time.Now().Add(tokenExpiry()).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// generateResetCode draws a 6 digit one-time code from crypto/rand.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
