package events

import "time"

const RequestLifecycleTopic = "hr.request.lifecycle.v1"

const (
	EventTypeRequestSubmitted = "request_submitted"
	EventTypeRequestReviewed  = "request_reviewed"
)

// Recipient is one mailbox a lifecycle email goes to.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RequestSubmittedEvent fans out to the reviewers of a freshly submitted request.
type RequestSubmittedEvent struct {
	EventType     string      `json:"event_type"`
	RequestID     string      `json:"request_id"`
	RequestType   string      `json:"request_type"`
	SubmittedBy   string      `json:"submitted_by"`
	SubmitterName string      `json:"submitter_name"`
	Description   string      `json:"description"`
	Recipients    []Recipient `json:"recipients"`
	OccurredAt    time.Time   `json:"occurred_at"`
}

// RequestReviewedEvent informs the submitter of the outcome of a review.
type RequestReviewedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	RequestType string    `json:"request_type"`
	Status      string    `json:"status"`
	ReviewedBy  string    `json:"reviewed_by"`
	Comment     *string   `json:"comment"`
	Recipient   Recipient `json:"recipient"`
	OccurredAt  time.Time `json:"occurred_at"`
}
