package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
)

// StoreDTO is the transport shape for a registered business location.
type StoreDTO struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	RoadAddress *string   `json:"road_address,omitempty"`
	Lat         *float64  `json:"lat,omitempty"`
	Lng         *float64  `json:"lng,omitempty"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateStoreDTO holds the data required by the repo to persist a new store.
type CreateStoreDTO struct {
	UserID      uuid.UUID
	Name        string
	Address     string
	RoadAddress *string
	Lat         *float64
	Lng         *float64
}

func FromModel(s *models.Store) *StoreDTO {
	if s == nil {
		return nil
	}
	return &StoreDTO{
		ID:          s.ID,
		UserID:      s.UserID,
		Name:        s.Name,
		Address:     s.Address,
		RoadAddress: s.RoadAddress,
		Lat:         s.Lat,
		Lng:         s.Lng,
		CreatedAt:   s.CreatedAt,
	}
}

func (c CreateStoreDTO) ToModel() *models.Store {
	return &models.Store{
		UserID:      c.UserID,
		Name:        c.Name,
		Address:     c.Address,
		RoadAddress: c.RoadAddress,
		Lat:         c.Lat,
		Lng:         c.Lng,
	}
}
