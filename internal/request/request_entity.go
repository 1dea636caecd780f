package request

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeLeave             = "leave"
	TypeSickLeave         = "sickLeave"
	TypePayslip           = "payslip"
	TypeWorkCertificate   = "workCertificate"
	TypeMedicalFileUpdate = "medicalFileUpdate"
	TypeComplaint         = "complaint"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var validTypes = map[string]bool{
	TypeLeave:             true,
	TypeSickLeave:         true,
	TypePayslip:           true,
	TypeWorkCertificate:   true,
	TypeMedicalFileUpdate: true,
	TypeComplaint:         true,
}

func IsValidType(requestType string) bool {
	return validTypes[requestType]
}

// Request is the base row; exactly one detail row accompanies it, chosen
// by RequestType (complaint carries none).
type Request struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	RequestType string    `gorm:"column:request_type;type:varchar(30);not null;index"`
	Description string    `gorm:"column:description;type:text;not null"`
	Status      string    `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	Comment     *string   `gorm:"column:comment;type:text"`

	SubmittedAt time.Time `gorm:"column:submitted_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Leave             *LeaveDetail             `gorm:"foreignKey:RequestID"`
	SickLeave         *SickLeaveDetail         `gorm:"foreignKey:RequestID"`
	Payslip           *PayslipDetail           `gorm:"foreignKey:RequestID"`
	WorkCertificate   *WorkCertificateDetail   `gorm:"foreignKey:RequestID"`
	MedicalFileUpdate *MedicalFileUpdateDetail `gorm:"foreignKey:RequestID"`
	Files             []File                   `gorm:"foreignKey:RequestID"`
}

func (Request) TableName() string {
	return "requests"
}

// SubDetail returns the variant matching RequestType, or nil for
// complaint (and for rows whose detail was not loaded).
func (r *Request) SubDetail() any {
	switch r.RequestType {
	case TypeLeave:
		if r.Leave != nil {
			return r.Leave
		}
	case TypeSickLeave:
		if r.SickLeave != nil {
			return r.SickLeave
		}
	case TypePayslip:
		if r.Payslip != nil {
			return r.Payslip
		}
	case TypeWorkCertificate:
		if r.WorkCertificate != nil {
			return r.WorkCertificate
		}
	case TypeMedicalFileUpdate:
		if r.MedicalFileUpdate != nil {
			return r.MedicalFileUpdate
		}
	}
	return nil
}

type LeaveDetail struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID uuid.UUID `gorm:"column:request_id;type:uuid;not null;uniqueIndex"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null"`
}

func (LeaveDetail) TableName() string {
	return "leave_requests"
}

type SickLeaveDetail struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID uuid.UUID `gorm:"column:request_id;type:uuid;not null;uniqueIndex"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null"`
	SickDays  *int      `gorm:"column:sick_days"`
}

func (SickLeaveDetail) TableName() string {
	return "sick_leave_requests"
}

type PayslipDetail struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID    uuid.UUID `gorm:"column:request_id;type:uuid;not null;uniqueIndex"`
	DeliveryMode string    `gorm:"column:delivery_mode;type:varchar(30);not null"`
}

func (PayslipDetail) TableName() string {
	return "payslip_requests"
}

type WorkCertificateDetail struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID uuid.UUID `gorm:"column:request_id;type:uuid;not null;uniqueIndex"`
	Purpose   *string   `gorm:"column:purpose;type:text"`
}

func (WorkCertificateDetail) TableName() string {
	return "work_certificate_requests"
}

type MedicalFileUpdateDetail struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID uuid.UUID `gorm:"column:request_id;type:uuid;not null;uniqueIndex"`
	MRID      string    `gorm:"column:mrid;type:varchar(100);not null"`
	Notes     *string   `gorm:"column:notes;type:text"`
}

func (MedicalFileUpdateDetail) TableName() string {
	return "medical_file_update_requests"
}

// File is the single attachment of a request; inserting a new one first
// removes any prior rows (latest wins).
type File struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID    uuid.UUID `gorm:"column:request_id;type:uuid;not null;index"`
	OriginalName string    `gorm:"column:original_name;type:text;not null"`
	StoredName   string    `gorm:"column:stored_name;type:text;not null"`
	FilePath     string    `gorm:"column:file_path;type:text;not null"`
	UploadedAt   time.Time `gorm:"column:uploaded_at;autoCreateTime"`
}

func (File) TableName() string {
	return "files"
}
