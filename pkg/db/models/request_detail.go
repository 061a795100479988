package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestDetail is one key/value line on a service request: either a reserved
// scheduling/payment key or an item label with a quantity value. Keys are
// unique per request.
type RequestDetail struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID uuid.UUID `gorm:"column:request_id;type:uuid;not null;index:idx_request_details_request_key,unique,priority:1"`
	Key       string    `gorm:"column:key;type:text;not null;index:idx_request_details_request_key,unique,priority:2"`
	Value     string    `gorm:"column:value;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
