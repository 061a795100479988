package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is a customer-registered business location requests are filed against.
// Stores are never deleted.
type Store struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Name        string    `gorm:"column:name;type:text;not null"`
	Address     string    `gorm:"column:address;type:text;not null"`
	RoadAddress *string   `gorm:"column:road_address;type:text"`
	Lat         *float64  `gorm:"column:lat"`
	Lng         *float64  `gorm:"column:lng"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
