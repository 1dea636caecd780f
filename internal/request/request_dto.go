package request

import (
	"time"

	"github.com/fzn99-cell/RHConnect/internal/audit"
	"github.com/fzn99-cell/RHConnect/internal/notification"
)

// SubmitRequestForm is the multipart body of a submission; the optional
// file arrives as the "file" form field next to these.
type SubmitRequestForm struct {
	RequestType    string `form:"requestType" binding:"required"`
	Description    string `form:"description" binding:"required"`
	SubRequestData string `form:"subRequestData"`
}

// SubRequestData is the decoded per-type payload. Which fields are
// required depends on the request type.
type SubRequestData struct {
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	SickDays     *int    `json:"sickDays"`
	DeliveryMode string  `json:"deliveryMode"`
	Purpose      *string `json:"purpose"`
	MRID         string  `json:"mrid"`
	Notes        *string `json:"notes"`
}

type ReviewRequestForm struct {
	NewStatus string `form:"newStatus" binding:"required"`
	Comment   string `form:"comment"`
}

type ListRequestsFilter struct {
	Status      string `form:"status"`
	RequestType string `form:"requestType"`
	UserID      string `form:"userId"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
	SortField   string `form:"sortField"`
	SortOrder   string `form:"sortOrder"`
}

type PatchMyRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

type FileResponse struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	StoredName   string `json:"storedName"`
	FilePath     string `json:"filePath"`
	DownloadURL  string `json:"downloadUrl"`
}

type LeaveDetailResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type SickLeaveDetailResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	SickDays  *int   `json:"sickDays"`
}

type PayslipDetailResponse struct {
	DeliveryMode string `json:"deliveryMode"`
}

type WorkCertificateDetailResponse struct {
	Purpose *string `json:"purpose"`
}

type MedicalFileUpdateDetailResponse struct {
	MRID  string  `json:"mrid"`
	Notes *string `json:"notes"`
}

type RequestResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	RequestType string  `json:"requestType"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Comment     *string `json:"comment"`
	SubmittedAt string  `json:"submittedAt"`
	UpdatedAt   string  `json:"updatedAt"`

	SubRequest any            `json:"subRequest,omitempty"`
	Files      []FileResponse `json:"files"`
}

// RequestDetailResponse is the full view: the base row plus its audit
// trail and the notifications it produced.
type RequestDetailResponse struct {
	RequestResponse
	Audits        []AuditEntryResponse                `json:"audits"`
	Notifications []notification.NotificationResponse `json:"notifications"`
}

type AuditEntryResponse struct {
	ID        string  `json:"id"`
	Field     string  `json:"field"`
	OldValue  *string `json:"oldValue"`
	NewValue  *string `json:"newValue"`
	ChangedBy string  `json:"changedBy"`
	ChangedAt string  `json:"changedAt"`
}

func mapFileToResponse(f File, hostURL string) FileResponse {
	return FileResponse{
		ID:           f.ID.String(),
		OriginalName: f.OriginalName,
		StoredName:   f.StoredName,
		FilePath:     f.FilePath,
		DownloadURL:  hostURL + "/uploads/" + f.FilePath,
	}
}

func mapSubDetail(r Request) any {
	switch detail := r.SubDetail().(type) {
	case *LeaveDetail:
		return LeaveDetailResponse{
			StartDate: detail.StartDate.Format("2006-01-02"),
			EndDate:   detail.EndDate.Format("2006-01-02"),
		}
	case *SickLeaveDetail:
		return SickLeaveDetailResponse{
			StartDate: detail.StartDate.Format("2006-01-02"),
			EndDate:   detail.EndDate.Format("2006-01-02"),
			SickDays:  detail.SickDays,
		}
	case *PayslipDetail:
		return PayslipDetailResponse{DeliveryMode: detail.DeliveryMode}
	case *WorkCertificateDetail:
		return WorkCertificateDetailResponse{Purpose: detail.Purpose}
	case *MedicalFileUpdateDetail:
		return MedicalFileUpdateDetailResponse{MRID: detail.MRID, Notes: detail.Notes}
	default:
		return nil
	}
}

func mapToResponse(r Request, hostURL string) RequestResponse {
	files := make([]FileResponse, 0, len(r.Files))
	for _, f := range r.Files {
		files = append(files, mapFileToResponse(f, hostURL))
	}

	return RequestResponse{
		ID:          r.ID.String(),
		UserID:      r.UserID.String(),
		RequestType: r.RequestType,
		Description: r.Description,
		Status:      r.Status,
		Comment:     r.Comment,
		SubmittedAt: r.SubmittedAt.Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
		SubRequest:  mapSubDetail(r),
		Files:       files,
	}
}

func mapToListResponse(requests []Request, hostURL string) []RequestResponse {
	out := make([]RequestResponse, len(requests))
	for i, r := range requests {
		out[i] = mapToResponse(r, hostURL)
	}
	return out
}

func mapAuditToResponse(a audit.Audit) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        a.ID.String(),
		Field:     a.Field,
		OldValue:  a.OldValue,
		NewValue:  a.NewValue,
		ChangedBy: a.ChangedBy.String(),
		ChangedAt: a.ChangedAt.Format(time.RFC3339),
	}
}
