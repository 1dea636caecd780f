package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Closed role set; visibility and permitted actions hang off these.
const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleTL       = "tl"
	RoleNurse    = "nurse"
	RoleEmployee = "employee"
)

const (
	StatusActive  = "active"
	StatusOnLeave = "onLeave"
)

const (
	DepartmentNone       = "none"
	DepartmentHiring     = "hiring"
	DepartmentTechnical  = "technical"
	DepartmentNurse      = "nurse"
	DepartmentFinance    = "finance"
	DepartmentOperations = "operations"
	DepartmentMarketing  = "marketing"
)

var validRoles = map[string]bool{
	RoleAdmin:    true,
	RoleHR:       true,
	RoleTL:       true,
	RoleNurse:    true,
	RoleEmployee: true,
}

var validDepartments = map[string]bool{
	DepartmentNone:       true,
	DepartmentHiring:     true,
	DepartmentTechnical:  true,
	DepartmentNurse:      true,
	DepartmentFinance:    true,
	DepartmentOperations: true,
	DepartmentMarketing:  true,
}

// Roles an admin may hand out; admin itself is special-cased (at most one).
var allowedRolesForCreation = map[string]bool{
	RoleHR:       true,
	RoleTL:       true,
	RoleNurse:    true,
	RoleEmployee: true,
}

func IsValidRole(role string) bool {
	return validRoles[role]
}

type User struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Email    string    `gorm:"column:email;type:text;not null;uniqueIndex:uq_user_email"`
	Password string    `gorm:"column:password;type:text;not null"`

	FirstName *string `gorm:"column:first_name;type:varchar(100)"`
	LastName  *string `gorm:"column:last_name;type:varchar(100)"`
	FullName  *string `gorm:"column:full_name;type:varchar(200)"`
	Avatar    *string `gorm:"column:avatar;type:text"`
	Phone     *string `gorm:"column:phone;type:varchar(30)"`
	Country   *string `gorm:"column:country;type:varchar(100)"`
	City      *string `gorm:"column:city;type:varchar(100)"`

	HireDate *time.Time `gorm:"column:hire_date;type:date"`

	NotificationPreference    bool `gorm:"column:notification_preference;not null;default:true"`
	ConfidentialityPreference bool `gorm:"column:confidentiality_preference;not null;default:true"`

	Department string `gorm:"column:department;type:varchar(30);not null;default:'none';index"`
	Role       string `gorm:"column:role;type:varchar(20);not null;default:'employee';index"`
	Status     string `gorm:"column:status;type:varchar(20);not null;default:'active'"`

	// Login lockout bookkeeping
	FailedLoginAttempts int        `gorm:"column:failed_login_attempts;not null;default:0"`
	LockUntil           *time.Time `gorm:"column:lock_until"`

	// One-time password reset code
	VerificationToken          *string    `gorm:"column:verification_token;type:varchar(10)"`
	VerificationTokenExpiresAt *time.Time `gorm:"column:verification_token_expires_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName is the recomputed full name persisted alongside the parts.
func DisplayName(firstName, lastName *string) *string {
	first := ""
	if firstName != nil {
		first = *firstName
	}
	last := ""
	if lastName != nil {
		last = *lastName
	}

	full := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if full == "" {
		return nil
	}
	return &full
}
