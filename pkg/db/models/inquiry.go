package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaslink/gaslink-backend/pkg/enums"
)

// Inquiry is a user-filed support ticket. Status is mutated only by admins.
type Inquiry struct {
	ID        uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	StoreID   *uuid.UUID            `gorm:"column:store_id;type:uuid"`
	Title     string                `gorm:"column:title;type:text;not null"`
	Content   string                `gorm:"column:content;type:text;not null"`
	Category  enums.InquiryCategory `gorm:"column:category;type:text;not null"`
	Priority  enums.InquiryPriority `gorm:"column:priority;type:text;not null;default:'normal'"`
	Status    enums.InquiryStatus   `gorm:"column:status;type:text;not null;default:'received'"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`

	Responses []InquiryResponse `gorm:"foreignKey:InquiryID"`
}
