package usererrors

import (
	"net/http"

	"github.com/fzn99-cell/RHConnect/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"invalid role",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid status",
		http.StatusBadRequest,
	)
	ErrInvalidDepartment = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department",
		http.StatusBadRequest,
	)
	ErrRoleNotCreatable = apperror.New(
		apperror.CodeForbidden,
		"creation of this role is not allowed",
		http.StatusForbidden,
	)
	ErrAdminAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"an administrator already exists",
		http.StatusConflict,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"a user with this email already exists",
		http.StatusConflict,
	)
	ErrPasswordTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"password must be at least 8 characters",
		http.StatusBadRequest,
	)
	ErrNoUpdatableFields = apperror.New(
		apperror.CodeInvalidInput,
		"no valid fields to update",
		http.StatusBadRequest,
	)
	ErrWrongOldPassword = apperror.New(
		apperror.CodeInvalidInput,
		"old password is incorrect",
		http.StatusBadRequest,
	)
)
