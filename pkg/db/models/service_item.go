package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceItem is one orderable line for a service, e.g. a burner row/hole
// configuration. UnitPriceWon is the catalog price in KRW.
type ServiceItem struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ServiceID    uuid.UUID `gorm:"column:service_id;type:uuid;not null;index"`
	Label        string    `gorm:"column:label;type:text;not null"`
	UnitPriceWon int64     `gorm:"column:unit_price_won;not null;default:0"`
	SortOrder    int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
