package requests

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
	"github.com/gaslink/gaslink-backend/pkg/pagination"
)

// Repository defines service-request persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, req *models.ServiceRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error)
	ListByUser(ctx context.Context, params ListByUserParams) ([]models.ServiceRequest, *pagination.Cursor, error)
	TransitionStatus(ctx context.Context, params TransitionParams) (bool, error)
	DeleteNonReservedDetails(ctx context.Context, requestID uuid.UUID) error
	InsertDetails(ctx context.Context, details []models.RequestDetail) error
	UpdateReservedDetail(ctx context.Context, requestID uuid.UUID, key, value string) (bool, error)
	Search(ctx context.Context, params SearchParams) ([]models.ServiceRequest, *pagination.Cursor, error)
	CountByStatus(ctx context.Context) (map[enums.RequestStatus]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// ListByUserParams pages a user's own requests, newest first.
type ListByUserParams struct {
	UserID uuid.UUID
	Limit  int
	Cursor *pagination.Cursor
}

// TransitionParams describes a guarded status move. The update applies only
// when the row still carries From, so concurrent transitions lose cleanly.
type TransitionParams struct {
	RequestID uuid.UUID
	From      enums.RequestStatus
	To        enums.RequestStatus
	StampAt   time.Time
}

// SearchParams filters the admin request listing.
type SearchParams struct {
	Status     *enums.RequestStatus
	ServiceID  *uuid.UUID
	PhoneQuery string
	Limit      int
	Cursor     *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to request operations.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts the parent row together with its detail rows. GORM cascades
// the association inside the caller's transaction.
func (r *repository) Create(ctx context.Context, req *models.ServiceRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	if err := r.db.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) ListByUser(ctx context.Context, params ListByUserParams) ([]models.ServiceRequest, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Where("user_id = ?", params.UserID)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.ServiceRequest
	if err := query.
		Preload("Details").
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	return trimPage(rows, limit)
}

func (r *repository) TransitionStatus(ctx context.Context, params TransitionParams) (bool, error) {
	updates := map[string]any{"status": params.To}
	switch params.To {
	case enums.RequestStatusInProgress:
		updates["working_at"] = params.StampAt
	case enums.RequestStatusCompleted:
		updates["completed_at"] = params.StampAt
	case enums.RequestStatusCanceled:
		updates["canceled_at"] = params.StampAt
	}

	result := r.db.WithContext(ctx).
		Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", params.RequestID, params.From).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) DeleteNonReservedDetails(ctx context.Context, requestID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("request_id = ? AND key NOT IN ?", requestID, enums.ReservedDetailKeys()).
		Delete(&models.RequestDetail{}).Error
}

func (r *repository) InsertDetails(ctx context.Context, details []models.RequestDetail) error {
	if len(details) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&details).Error
}

// UpdateReservedDetail rewrites one reserved key's value, only where a row for
// that key already exists.
func (r *repository) UpdateReservedDetail(ctx context.Context, requestID uuid.UUID, key, value string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.RequestDetail{}).
		Where("request_id = ? AND key = ?", requestID, key).
		Update("value", value)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) Search(ctx context.Context, params SearchParams) ([]models.ServiceRequest, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.ServiceRequest{})
	if params.Status != nil {
		query = query.Where("service_requests.status = ?", *params.Status)
	}
	if params.ServiceID != nil {
		query = query.Where("service_requests.service_id = ?", *params.ServiceID)
	}
	if term := strings.TrimSpace(params.PhoneQuery); term != "" {
		query = query.
			Joins("JOIN profiles ON profiles.id = service_requests.user_id").
			Where("profiles.phone LIKE ?", "%"+term+"%")
	}
	if params.Cursor != nil {
		query = query.Where("(service_requests.created_at, service_requests.id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.ServiceRequest
	if err := query.
		Preload("Details").
		Order("service_requests.created_at DESC, service_requests.id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	return trimPage(rows, limit)
}

func (r *repository) CountByStatus(ctx context.Context) (map[enums.RequestStatus]int64, error) {
	type statusCount struct {
		Status enums.RequestStatus
		Count  int64
	}
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.ServiceRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[enums.RequestStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ServiceRequest{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func trimPage(rows []models.ServiceRequest, limit int) ([]models.ServiceRequest, *pagination.Cursor, error) {
	var next *pagination.Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return rows, next, nil
}
