package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
)

// Repository handles catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to catalog operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// List returns the full catalog in display order, items included.
func (r *Repository) List(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, label ASC")
		}).
		Order("sort_order ASC, code ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// FindByID loads one service with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, label ASC")
		}).
		First(&service, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// FindByCode loads one service by its stable code.
func (r *Repository) FindByCode(ctx context.Context, code enums.ServiceCode) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// Upsert inserts the service (and its items) if its code is not present yet.
// Seeding is idempotent: existing codes are left untouched.
func (r *Repository) Upsert(ctx context.Context, service *models.Service) (bool, error) {
	var existing models.Service
	err := r.db.WithContext(ctx).Where("code = ?", service.Code).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := r.db.WithContext(ctx).Create(service).Error; err != nil {
		return false, err
	}
	return true, nil
}
