package notification

import "time"

type ListNotificationsFilter struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type NotificationResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	RequestID *string `json:"requestId"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	CreatedAt string  `json:"createdAt"`
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		UserID:    n.UserID.String(),
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.RequestID != nil {
		id := n.RequestID.String()
		resp.RequestID = &id
	}
	return resp
}

// MapToResponse is exported for modules that embed notifications in
// their own detail views.
func MapToResponse(n Notification) NotificationResponse {
	return mapToResponse(n)
}

func mapToListResponse(notifications []Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, mapToResponse(n))
	}
	return out
}
