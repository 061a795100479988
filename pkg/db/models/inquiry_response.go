package models

import (
	"time"

	"github.com/google/uuid"
)

// InquiryResponse is an append-only admin reply. Internal notes are never
// returned to the inquiring user.
type InquiryResponse struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	InquiryID      uuid.UUID `gorm:"column:inquiry_id;type:uuid;not null;index"`
	AdminID        uuid.UUID `gorm:"column:admin_id;type:uuid;not null"`
	Content        string    `gorm:"column:content;type:text;not null"`
	IsInternalNote bool      `gorm:"column:is_internal_note;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
