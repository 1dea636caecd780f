package user

import "time"

type ListUsersFilter struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Role   string `form:"role"`
	Status string `form:"status"`
	Search string `form:"search"`
}

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar"`
	Phone     string `json:"phone"`

	Department string `json:"department"`
	Role       string `json:"role"`
	Status     string `json:"status"`

	NotificationPreference    *bool  `json:"notificationPreference"`
	ConfidentialityPreference *bool  `json:"confidentialityPreference"`
	Country                   string `json:"country"`
	City                      string `json:"city"`
}

// PatchUserRequest carries a free-form field map; the service drops
// blacklisted keys server-side rather than trusting the client shape.
type PatchUserRequest struct {
	Updates map[string]any `json:"updates" binding:"required"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type ChangeMyPasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	FullName  *string `json:"fullName,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Country   *string `json:"country,omitempty"`
	City      *string `json:"city,omitempty"`
	HireDate  *string `json:"hireDate,omitempty"`

	NotificationPreference    bool `json:"notificationPreference"`
	ConfidentialityPreference bool `json:"confidentialityPreference"`

	Department string `json:"department"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// UserDetailResponse adds relation counts for the admin detail view.
type UserDetailResponse struct {
	UserResponse
	RequestCount      int64 `json:"requestCount"`
	NotificationCount int64 `json:"notificationCount"`
	AuditCount        int64 `json:"auditCount"`
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName,
		Avatar:    u.Avatar,
		Phone:     u.Phone,
		Country:   u.Country,
		City:      u.City,

		NotificationPreference:    u.NotificationPreference,
		ConfidentialityPreference: u.ConfidentialityPreference,

		Department: u.Department,
		Role:       u.Role,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  u.UpdatedAt.Format(time.RFC3339),
	}
	if u.HireDate != nil {
		v := u.HireDate.Format("2006-01-02")
		resp.HireDate = &v
	}
	return resp
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp
}
