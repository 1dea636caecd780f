package requesterrors

import (
	"net/http"

	"github.com/fzn99-cell/RHConnect/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"request not found",
		http.StatusNotFound,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid request id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid request type",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be approved or rejected",
		http.StatusBadRequest,
	)
	ErrInvalidSubRequestData = apperror.New(
		apperror.CodeInvalidInput,
		"subRequestData must be valid JSON",
		http.StatusBadRequest,
	)
	ErrLeaveDatesRequired = apperror.New(
		apperror.CodeInvalidInput,
		"start and end dates are required",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"dates must use the YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start date must not be after end date",
		http.StatusBadRequest,
	)
	ErrDeliveryModeRequired = apperror.New(
		apperror.CodeInvalidInput,
		"delivery mode is required",
		http.StatusBadRequest,
	)
	ErrMRIDRequired = apperror.New(
		apperror.CodeInvalidInput,
		"medical record id is required",
		http.StatusBadRequest,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"request is no longer pending",
		http.StatusBadRequest,
	)
	ErrPayslipFileRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a PDF or PNG file is required to approve a payslip request",
		http.StatusBadRequest,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"request does not belong to you",
		http.StatusForbidden,
	)
	ErrRoleCannotList = apperror.New(
		apperror.CodeForbidden,
		"your role cannot list requests",
		http.StatusForbidden,
	)
)
