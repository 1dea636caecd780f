package user

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fzn99-cell/RHConnect/internal/mailer"
	"github.com/fzn99-cell/RHConnect/internal/notification"
	"github.com/fzn99-cell/RHConnect/internal/shared/response"
	usererrors "github.com/fzn99-cell/RHConnect/internal/user/errors"
)

// Admin-editable columns keyed by their JSON names. Anything not listed
// here is silently dropped from a patch payload.
var adminPatchableColumns = map[string]string{
	"firstName":                 "first_name",
	"lastName":                  "last_name",
	"avatar":                    "avatar",
	"phone":                     "phone",
	"country":                   "country",
	"city":                      "city",
	"hireDate":                  "hire_date",
	"notificationPreference":    "notification_preference",
	"confidentialityPreference": "confidentiality_preference",
	"department":                "department",
	"role":                      "role",
	"status":                    "status",
}

// Self-service profile edits are narrower: no role, department, status
// or identity fields.
var selfPatchableColumns = map[string]string{
	"firstName":                 "first_name",
	"lastName":                  "last_name",
	"avatar":                    "avatar",
	"phone":                     "phone",
	"country":                   "country",
	"city":                      "city",
	"notificationPreference":    "notification_preference",
	"confidentialityPreference": "confidentiality_preference",
}

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, filter ListUsersFilter) ([]UserResponse, *response.PaginationMeta, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	GetByID(ctx context.Context, userID string) (UserDetailResponse, error)
	Patch(ctx context.Context, userID string, req PatchUserRequest) (UserResponse, error)
	ResetPassword(ctx context.Context, userID string, req ResetPasswordRequest) error
	Delete(ctx context.Context, userID string) error

	GetMyProfile(ctx context.Context, userID string) (UserResponse, error)
	PatchMyProfile(ctx context.Context, userID string, updates map[string]any) (UserResponse, error)
	ChangeMyPassword(ctx context.Context, userID string, req ChangeMyPasswordRequest) error
}

type service struct {
	repo             Repository
	notificationRepo notification.Repository
	sender           mailer.Sender
	logger           *zap.Logger
}

func NewService(
	repo Repository,
	notificationRepo notification.Repository,
	sender mailer.Sender,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		repo:             repo,
		notificationRepo: notificationRepo,
		sender:           sender,
		logger:           l,
	}
}

func (s *service) List(ctx context.Context, filter ListUsersFilter) ([]UserResponse, *response.PaginationMeta, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	users, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, nil, mapRepositoryError(err)
	}

	meta := response.NewPaginationMeta(total, filter.Page, filter.Limit)
	return mapToListResponse(users), &meta, nil
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	role := req.Role
	if role == "" {
		role = RoleEmployee
	}
	if !IsValidRole(role) {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	// At most one admin account may exist, and it cannot be created again
	// through this endpoint once seeded.
	if role == RoleAdmin {
		count, err := s.repo.CountByRole(ctx, RoleAdmin)
		if err != nil {
			return UserResponse{}, mapRepositoryError(err)
		}
		if count > 0 {
			return UserResponse{}, usererrors.ErrAdminAlreadyExists
		}
	} else if !allowedRolesForCreation[role] {
		return UserResponse{}, usererrors.ErrRoleNotCreatable
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	department := req.Department
	if department == "" {
		department = DepartmentNone
	}
	status := req.Status
	if status == "" {
		status = StatusActive
	}

	u := &User{
		Email:                     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:                  string(hashed),
		FirstName:                 optional(req.FirstName),
		LastName:                  optional(req.LastName),
		Avatar:                    optional(req.Avatar),
		Phone:                     optional(req.Phone),
		Country:                   optional(req.Country),
		City:                      optional(req.City),
		Department:                department,
		Role:                      role,
		Status:                    status,
		NotificationPreference:    true,
		ConfidentialityPreference: true,
	}
	u.FullName = DisplayName(u.FirstName, u.LastName)

	if req.NotificationPreference != nil {
		u.NotificationPreference = *req.NotificationPreference
	}
	if req.ConfidentialityPreference != nil {
		u.ConfidentialityPreference = *req.ConfidentialityPreference
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	// Welcome email carries the initial password; the notification row is
	// best-effort, account creation already succeeded.
	s.sendWelcomeEmail(u, req.Password)

	if err := s.notificationRepo.Create(ctx, &notification.Notification{
		UserID:  u.ID,
		Title:   "Compte créé",
		Message: "Votre compte utilisateur a été créé avec succès.",
	}); err != nil {
		s.logger.Error("create account notification failed", zap.Error(err), zap.String("user_id", u.ID.String()))
	}

	s.logger.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
	)
	return mapToResponse(*u), nil
}

func (s *service) sendWelcomeEmail(u *User, plainPassword string) {
	name := ""
	if u.FullName != nil {
		name = *u.FullName
	}
	msg := mailer.Message{
		To:      u.Email,
		ToName:  name,
		Subject: "Bienvenue dans l'application - Vos identifiants",
		Body: fmt.Sprintf(
			"Bonjour %s,\n\nVotre compte a été créé avec succès.\nVoici vos identifiants pour vous connecter:\n\nEmail: %s\nMot de passe: %s\n\nMerci de changer votre mot de passe après votre première connexion.",
			name, u.Email, plainPassword,
		),
	}
	if err := s.sender.Send(msg); err != nil {
		s.logger.Error("send welcome email failed", zap.Error(err), zap.String("user_id", u.ID.String()))
	}
}

func (s *service) GetByID(ctx context.Context, userID string) (UserDetailResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return UserDetailResponse{}, mapRepositoryError(err)
	}

	counts, err := s.repo.RelationCounts(ctx, userID)
	if err != nil {
		return UserDetailResponse{}, mapRepositoryError(err)
	}

	return UserDetailResponse{
		UserResponse:      mapToResponse(*u),
		RequestCount:      counts.Requests,
		NotificationCount: counts.Notifications,
		AuditCount:        counts.Audits,
	}, nil
}

func (s *service) Patch(ctx context.Context, userID string, req PatchUserRequest) (UserResponse, error) {
	return s.patch(ctx, userID, req.Updates, adminPatchableColumns)
}

func (s *service) PatchMyProfile(ctx context.Context, userID string, updates map[string]any) (UserResponse, error) {
	return s.patch(ctx, userID, updates, selfPatchableColumns)
}

func (s *service) patch(ctx context.Context, userID string, updates map[string]any, allowed map[string]string) (UserResponse, error) {
	fields := make(map[string]any, len(updates))
	for key, value := range updates {
		if column, ok := allowed[key]; ok {
			fields[column] = value
		}
	}
	if len(fields) == 0 {
		return UserResponse{}, usererrors.ErrNoUpdatableFields
	}

	if err := validatePatchValues(fields); err != nil {
		return UserResponse{}, err
	}

	target, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	// A name change recomputes the stored full name from the final parts.
	if _, ok := fields["first_name"]; ok {
		target.FirstName = optionalFromAny(fields["first_name"])
	}
	if _, ok := fields["last_name"]; ok {
		target.LastName = optionalFromAny(fields["last_name"])
	}
	fullName := DisplayName(target.FirstName, target.LastName)
	if fullName != nil {
		fields["full_name"] = *fullName
	} else {
		fields["full_name"] = nil
	}

	if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	updated, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("user updated", zap.String("user_id", userID))
	return mapToResponse(*updated), nil
}

func validatePatchValues(fields map[string]any) error {
	if v, ok := fields["role"]; ok {
		role, isString := v.(string)
		if !isString || !IsValidRole(role) {
			return usererrors.ErrInvalidRole
		}
	}
	if v, ok := fields["status"]; ok {
		status, isString := v.(string)
		if !isString || (status != StatusActive && status != StatusOnLeave) {
			return usererrors.ErrInvalidStatus
		}
	}
	if v, ok := fields["department"]; ok {
		department, isString := v.(string)
		if !isString || !validDepartments[department] {
			return usererrors.ErrInvalidDepartment
		}
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, userID string, req ResetPasswordRequest) error {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return mapRepositoryError(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// A forced reset also clears any lockout and pending reset code.
	err = s.repo.UpdateFields(ctx, userID, map[string]any{
		"password":                      string(hashed),
		"verification_token":            nil,
		"verification_token_expires_at": nil,
		"failed_login_attempts":         0,
		"lock_until":                    nil,
	})
	if err != nil {
		return mapRepositoryError(err)
	}

	s.logger.Info("user password force-reset", zap.String("user_id", userID))
	return nil
}

func (s *service) Delete(ctx context.Context, userID string) error {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return mapRepositoryError(err)
	}

	s.logger.Info("user deleted", zap.String("user_id", userID))
	return nil
}

func (s *service) GetMyProfile(ctx context.Context, userID string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) ChangeMyPassword(ctx context.Context, userID string, req ChangeMyPasswordRequest) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.OldPassword)); err != nil {
		return usererrors.ErrWrongOldPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateFields(ctx, userID, map[string]any{"password": string(hashed)}); err != nil {
		return mapRepositoryError(err)
	}

	s.logger.Info("user changed own password", zap.String("user_id", userID))
	return nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optionalFromAny(v any) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
