package audit

import (
	"time"

	"github.com/google/uuid"
)

// Audit is an append-only record of one field change on a request.
// Rows are never updated or deleted.
type Audit struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID uuid.UUID `gorm:"column:request_id;type:uuid;not null;index"`
	Field     string    `gorm:"column:field;type:varchar(50);not null"`
	OldValue  *string   `gorm:"column:old_value;type:text"`
	NewValue  *string   `gorm:"column:new_value;type:text"`
	ChangedBy uuid.UUID `gorm:"column:changed_by;type:uuid;not null"`
	ChangedAt time.Time `gorm:"column:changed_at;autoCreateTime"`
}

func (Audit) TableName() string {
	return "audits"
}
