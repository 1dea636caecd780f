package autherrors

import (
	"net/http"

	"github.com/fzn99-cell/RHConnect/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid credentials",
		http.StatusUnauthorized,
	)

	ErrAccountLocked = apperror.New(
		apperror.CodeForbidden,
		"Account is locked, contact your admin team",
		http.StatusForbidden,
	)

	ErrInvalidResetCode = apperror.New(
		apperror.CodeInvalidInput,
		"Reset code is invalid or expired",
		http.StatusBadRequest,
	)

	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to generate authentication token",
		http.StatusInternalServerError,
	)

	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid or expired token",
		http.StatusUnauthorized,
	)

	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Session expired, please log in again",
		http.StatusUnauthorized,
	)
)
