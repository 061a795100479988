package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaslink/gaslink-backend/pkg/enums"
)

// Profile is the canonical identity row. Regular users carry only a phone
// number; the password hash is set for admin accounts signing in by email.
type Profile struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Phone          string         `gorm:"column:phone;type:text;not null;uniqueIndex"`
	Email          *string        `gorm:"column:email;type:text"`
	Name           *string        `gorm:"column:name;type:text"`
	PasswordHash   *string        `gorm:"column:password_hash;type:text"`
	Role           enums.UserRole `gorm:"column:role;type:text;not null;default:'user'"`
	DefaultStoreID *uuid.UUID     `gorm:"column:default_store_id;type:uuid"`
	LastLoginAt    *time.Time     `gorm:"column:last_login_at"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
