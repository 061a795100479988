package stores

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	pkgerrors "github.com/gaslink/gaslink-backend/pkg/errors"
)

type storeRepository interface {
	Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.Store, error)
}

type profileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	SetDefaultStore(ctx context.Context, id, storeID uuid.UUID) error
}

// CreateStoreInput captures the payload for registering a store.
type CreateStoreInput struct {
	Name        string   `json:"name" validate:"required"`
	Address     string   `json:"address" validate:"required"`
	RoadAddress *string  `json:"road_address,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
}

// Service exposes store operations for the consumer app.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateStoreInput) (*StoreDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]StoreDTO, error)
	SetDefault(ctx context.Context, userID, storeID uuid.UUID) error
}

type service struct {
	repo     storeRepository
	profiles profileRepository
}

// NewService builds a store service with the provided repositories.
func NewService(repo storeRepository, profiles profileRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "store repository required")
	}
	if profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profile repository required")
	}
	return &service{repo: repo, profiles: profiles}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateStoreInput) (*StoreDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	store, err := s.repo.Create(ctx, CreateStoreDTO{
		UserID:      userID,
		Name:        name,
		Address:     address,
		RoadAddress: input.RoadAddress,
		Lat:         input.Lat,
		Lng:         input.Lng,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create store")
	}

	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}

	dto := FromModel(store)
	// The first registered store becomes the delivery default.
	if profile.DefaultStoreID == nil {
		if err := s.profiles.SetDefaultStore(ctx, userID, store.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set default store")
		}
		dto.IsDefault = true
	}
	return dto, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]StoreDTO, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}

	stores, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stores")
	}

	result := make([]StoreDTO, 0, len(stores))
	for i := range stores {
		dto := FromModel(&stores[i])
		if profile.DefaultStoreID != nil && *profile.DefaultStoreID == dto.ID {
			dto.IsDefault = true
		}
		result = append(result, *dto)
	}
	return result, nil
}

func (s *service) SetDefault(ctx context.Context, userID, storeID uuid.UUID) error {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}
	if store.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "store belongs to another user")
	}
	if err := s.profiles.SetDefaultStore(ctx, userID, storeID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set default store")
	}
	return nil
}
