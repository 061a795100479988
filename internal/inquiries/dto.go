package inquiries

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
)

// CreateInquiryInput is the user-facing ticket payload.
type CreateInquiryInput struct {
	StoreID  *uuid.UUID `json:"store_id,omitempty"`
	Title    string     `json:"title" validate:"required"`
	Content  string     `json:"content" validate:"required"`
	Category string     `json:"category" validate:"required"`
	Priority string     `json:"priority,omitempty"`
}

// RespondInput is an admin reply or internal note.
type RespondInput struct {
	Content        string `json:"content" validate:"required"`
	IsInternalNote bool   `json:"is_internal_note"`
}

// ResponseDTO is the transport shape of an admin reply.
type ResponseDTO struct {
	ID             uuid.UUID `json:"id"`
	AdminID        uuid.UUID `json:"admin_id"`
	Content        string    `json:"content"`
	IsInternalNote bool      `json:"is_internal_note"`
	CreatedAt      time.Time `json:"created_at"`
}

// InquiryDTO is the transport shape of a support ticket.
type InquiryDTO struct {
	ID        uuid.UUID             `json:"id"`
	UserID    uuid.UUID             `json:"user_id"`
	StoreID   *uuid.UUID            `json:"store_id,omitempty"`
	Title     string                `json:"title"`
	Content   string                `json:"content"`
	Category  enums.InquiryCategory `json:"category"`
	Priority  enums.InquiryPriority `json:"priority"`
	Status    enums.InquiryStatus   `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	Responses []ResponseDTO         `json:"responses"`
}

// ListResult is one page of inquiries plus the follow-up cursor.
type ListResult struct {
	Items  []InquiryDTO `json:"items"`
	Cursor string       `json:"cursor,omitempty"`
}

// FromModel converts an inquiry; internal notes are dropped unless
// includeInternal is set (admin reads).
func FromModel(inquiry *models.Inquiry, includeInternal bool) *InquiryDTO {
	if inquiry == nil {
		return nil
	}
	responses := make([]ResponseDTO, 0, len(inquiry.Responses))
	for _, response := range inquiry.Responses {
		if response.IsInternalNote && !includeInternal {
			continue
		}
		responses = append(responses, ResponseDTO{
			ID:             response.ID,
			AdminID:        response.AdminID,
			Content:        response.Content,
			IsInternalNote: response.IsInternalNote,
			CreatedAt:      response.CreatedAt,
		})
	}
	return &InquiryDTO{
		ID:        inquiry.ID,
		UserID:    inquiry.UserID,
		StoreID:   inquiry.StoreID,
		Title:     inquiry.Title,
		Content:   inquiry.Content,
		Category:  inquiry.Category,
		Priority:  inquiry.Priority,
		Status:    inquiry.Status,
		CreatedAt: inquiry.CreatedAt,
		UpdatedAt: inquiry.UpdatedAt,
		Responses: responses,
	}
}
