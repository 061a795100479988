package requests

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
	"github.com/gaslink/gaslink-backend/pkg/pricing"
)

// ItemInput is one ordered line from the request wizard.
type ItemInput struct {
	Label    string `json:"label" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// CreateRequestInput is the submission payload of the request wizard.
type CreateRequestInput struct {
	StoreID       uuid.UUID   `json:"store_id" validate:"required"`
	ServiceID     uuid.UUID   `json:"service_id" validate:"required"`
	Items         []ItemInput `json:"items"`
	VisitDate     string      `json:"visit_date" validate:"required"`
	VisitTime     string      `json:"visit_time" validate:"required"`
	PaymentMethod string      `json:"payment_method" validate:"required"`
	ExtraNote     *string     `json:"extra_note,omitempty"`
}

// UpdateDetailsInput is the edit-request payload, allowed while status is 접수.
type UpdateDetailsInput struct {
	Items     []ItemInput `json:"items"`
	VisitDate string      `json:"visit_date" validate:"required"`
	VisitTime string      `json:"visit_time" validate:"required"`
	ExtraNote *string     `json:"extra_note,omitempty"`
}

// DetailDTO is one stored key/value line.
type DetailDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// RequestDTO is the transport shape of a service request.
type RequestDTO struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	StoreID       uuid.UUID           `json:"store_id"`
	ServiceID     uuid.UUID           `json:"service_id"`
	Status        enums.RequestStatus `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	WorkingAt     *time.Time          `json:"working_at,omitempty"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	CanceledAt    *time.Time          `json:"canceled_at,omitempty"`
	Details       []DetailDTO         `json:"details"`
	TotalPriceWon int64               `json:"total_price_won"`
	TimelineStep  int                 `json:"timeline_step"`
}

// ListResult is one page of requests plus the follow-up cursor.
type ListResult struct {
	Items  []RequestDTO `json:"items"`
	Cursor string       `json:"cursor,omitempty"`
}

func FromModel(req *models.ServiceRequest) *RequestDTO {
	if req == nil {
		return nil
	}
	details := make([]DetailDTO, 0, len(req.Details))
	for _, row := range req.Details {
		details = append(details, DetailDTO{Key: row.Key, Value: row.Value})
	}
	return &RequestDTO{
		ID:            req.ID,
		UserID:        req.UserID,
		StoreID:       req.StoreID,
		ServiceID:     req.ServiceID,
		Status:        req.Status,
		CreatedAt:     req.CreatedAt,
		WorkingAt:     req.WorkingAt,
		CompletedAt:   req.CompletedAt,
		CanceledAt:    req.CanceledAt,
		Details:       details,
		TotalPriceWon: totalFromDetails(req.Details),
		TimelineStep:  TimelineStep(req),
	}
}

// totalFromDetails recomputes the display total from stored detail rows.
// Reserved keys are excluded inside pricing.Total; quantities parse from the
// stored "N개" form.
func totalFromDetails(details []models.RequestDetail) int64 {
	items := make([]pricing.Item, 0, len(details))
	for _, row := range details {
		if enums.IsReservedDetailKey(row.Key) {
			continue
		}
		items = append(items, pricing.Item{
			Label:    row.Key,
			Quantity: pricing.ParseQuantity(row.Value),
		})
	}
	return pricing.Total(items).Round(0).IntPart()
}
