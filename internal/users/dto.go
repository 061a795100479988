package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
)

// ProfileDTO is the transport shape that omits credentials.
type ProfileDTO struct {
	ID             uuid.UUID      `json:"id"`
	Phone          string         `json:"phone"`
	Email          *string        `json:"email,omitempty"`
	Name           *string        `json:"name,omitempty"`
	Role           enums.UserRole `json:"role"`
	DefaultStoreID *uuid.UUID     `json:"default_store_id,omitempty"`
	LastLoginAt    *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// CreateProfileDTO holds the data required by the repo to persist a new profile.
type CreateProfileDTO struct {
	Phone        string
	Email        *string
	Name         *string
	PasswordHash *string
	Role         enums.UserRole
}

func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}

	return &ProfileDTO{
		ID:             p.ID,
		Phone:          p.Phone,
		Email:          p.Email,
		Name:           p.Name,
		Role:           p.Role,
		DefaultStoreID: p.DefaultStoreID,
		LastLoginAt:    p.LastLoginAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (c CreateProfileDTO) ToModel() *models.Profile {
	role := c.Role
	if role == "" {
		role = enums.UserRoleUser
	}

	return &models.Profile{
		Phone:        c.Phone,
		Email:        c.Email,
		Name:         c.Name,
		PasswordHash: c.PasswordHash,
		Role:         role,
	}
}
