package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	pkgerrors "github.com/gaslink/gaslink-backend/pkg/errors"
)

type catalogRepository interface {
	List(ctx context.Context) ([]models.Service, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
}

// Service exposes read access to the seeded catalog.
type Service interface {
	List(ctx context.Context) ([]ServiceDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ServiceDTO, error)
}

type service struct {
	repo catalogRepository
}

// NewService builds a catalog service with the provided repository.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]ServiceDTO, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list services")
	}
	result := make([]ServiceDTO, 0, len(services))
	for i := range services {
		result = append(result, *FromModel(&services[i]))
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ServiceDTO, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load service")
	}
	return FromModel(svc), nil
}
