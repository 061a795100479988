package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaslink/gaslink-backend/pkg/enums"
)

// ServiceRequest is a user's order for one service at one store. Status is
// mirrored by exactly one of the three transition timestamps; requested rows
// rely on CreatedAt alone.
type ServiceRequest struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	StoreID     uuid.UUID           `gorm:"column:store_id;type:uuid;not null;index"`
	ServiceID   uuid.UUID           `gorm:"column:service_id;type:uuid;not null;index"`
	Status      enums.RequestStatus `gorm:"column:status;type:text;not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	WorkingAt   *time.Time          `gorm:"column:working_at"`
	CompletedAt *time.Time          `gorm:"column:completed_at"`
	CanceledAt  *time.Time          `gorm:"column:canceled_at"`

	Details []RequestDetail `gorm:"foreignKey:RequestID"`
}
