package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	pkgerrors "github.com/gaslink/gaslink-backend/pkg/errors"
)

type profileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type storeOwnershipChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// UpdateMeInput carries the self-service profile mutations.
type UpdateMeInput struct {
	Email          *string    `json:"email,omitempty"`
	Name           *string    `json:"name,omitempty"`
	DefaultStoreID *uuid.UUID `json:"default_store_id,omitempty"`
}

// Service exposes the profile self-service surface.
type Service interface {
	Me(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateMeInput) (*ProfileDTO, error)
}

type service struct {
	repo   profileRepository
	stores storeOwnershipChecker
}

// NewService builds a profile service with the provided repositories.
func NewService(repo profileRepository, stores storeOwnershipChecker) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profile repository required")
	}
	if stores == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "store repository required")
	}
	return &service{repo: repo, stores: stores}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return FromModel(profile), nil
}

func (s *service) UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateMeInput) (*ProfileDTO, error) {
	updates := map[string]any{}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != "" && !strings.Contains(email, "@") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
		}
		if email == "" {
			updates["email"] = nil
		} else {
			updates["email"] = email
		}
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			updates["name"] = nil
		} else {
			updates["name"] = name
		}
	}
	if input.DefaultStoreID != nil {
		store, err := s.stores.FindByID(ctx, *input.DefaultStoreID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "store not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
		}
		if store.UserID != userID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store belongs to another user")
		}
		updates["default_store_id"] = store.ID
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateProfile(ctx, userID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
		}
	}
	return s.Me(ctx, userID)
}
