package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/gaslink/gaslink-backend/pkg/enums"
)

// RequestCreatedEvent signals a new service request was filed.
type RequestCreatedEvent struct {
	RequestID   uuid.UUID           `json:"request_id"`
	UserID      uuid.UUID           `json:"user_id"`
	StoreID     uuid.UUID           `json:"store_id"`
	ServiceID   uuid.UUID           `json:"service_id"`
	ServiceName string              `json:"service_name"`
	Status      enums.RequestStatus `json:"status"`
}

// RequestStatusChangedEvent is emitted on every lifecycle transition
// (started, completed, canceled).
type RequestStatusChangedEvent struct {
	RequestID   uuid.UUID           `json:"request_id"`
	UserID      uuid.UUID           `json:"user_id"`
	ServiceName string              `json:"service_name"`
	Status      enums.RequestStatus `json:"status"`
	ChangedAt   time.Time           `json:"changed_at"`
}

// InquiryRespondedEvent tells the notification consumer an admin replied.
type InquiryRespondedEvent struct {
	InquiryID    uuid.UUID `json:"inquiry_id"`
	ResponseID   uuid.UUID `json:"response_id"`
	UserID       uuid.UUID `json:"user_id"`
	InquiryTitle string    `json:"inquiry_title"`
}
