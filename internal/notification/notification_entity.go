package notification

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	RequestID *uuid.UUID `gorm:"column:request_id;type:uuid;index"`
	Title     string     `gorm:"column:title;type:varchar(200);not null"`
	Message   string     `gorm:"column:message;type:text;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
