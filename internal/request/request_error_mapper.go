package request

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	requesterrors "github.com/fzn99-cell/RHConnect/internal/request/errors"
	"github.com/fzn99-cell/RHConnect/internal/shared/apperror"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return requesterrors.ErrRequestNotFound
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	return apperror.Wrap(err, apperror.CodeInternalError, "request storage failure", http.StatusInternalServerError)
}
