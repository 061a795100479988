package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaslink/gaslink-backend/pkg/enums"
)

// Service is a read-only catalog offering seeded at deploy time.
type Service struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code      enums.ServiceCode `gorm:"column:code;type:text;not null;uniqueIndex"`
	Name      string            `gorm:"column:name;type:text;not null"`
	HasItems  bool              `gorm:"column:has_items;not null;default:false"`
	SortOrder int               `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`

	Items []ServiceItem `gorm:"foreignKey:ServiceID"`
}
