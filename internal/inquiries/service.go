package inquiries

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
	pkgerrors "github.com/gaslink/gaslink-backend/pkg/errors"
	"github.com/gaslink/gaslink-backend/pkg/outbox"
	"github.com/gaslink/gaslink-backend/pkg/outbox/payloads"
	"github.com/gaslink/gaslink-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the inquiry operations for both the app and the back office.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInquiryInput) (*InquiryDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID, limit int, cursor string) (*ListResult, error)
	GetForUser(ctx context.Context, userID, inquiryID uuid.UUID) (*InquiryDTO, error)
	AdminList(ctx context.Context, status string, limit int, cursor string) (*ListResult, error)
	AdminGet(ctx context.Context, inquiryID uuid.UUID) (*InquiryDTO, error)
	SetStatus(ctx context.Context, inquiryID uuid.UUID, status string) error
	Respond(ctx context.Context, adminID, inquiryID uuid.UUID, input RespondInput) (*ResponseDTO, error)
}

// ServiceParams bundles the dependencies for the inquiry service.
type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Outbox outboxPublisher
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds an inquiry service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inquiry repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "outbox publisher required")
	}
	return &service{repo: params.Repo, tx: params.Tx, outbox: params.Outbox}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInquiryInput) (*InquiryDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}
	category, err := enums.ParseInquiryCategory(input.Category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}

	priority := enums.InquiryPriorityNormal
	if input.Priority != "" {
		priority, err = enums.ParseInquiryPriority(input.Priority)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
		}
	}

	inquiry := &models.Inquiry{
		UserID:   userID,
		StoreID:  input.StoreID,
		Title:    title,
		Content:  content,
		Category: category,
		Priority: priority,
		Status:   enums.InquiryStatusReceived,
	}
	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inquiry")
	}
	return FromModel(inquiry, false), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, limit int, cursor string) (*ListResult, error) {
	return s.list(ctx, ListParams{UserID: &userID, Limit: limit}, cursor, false)
}

func (s *service) GetForUser(ctx context.Context, userID, inquiryID uuid.UUID) (*InquiryDTO, error) {
	inquiry, err := s.load(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if inquiry.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
	}
	return FromModel(inquiry, false), nil
}

func (s *service) AdminList(ctx context.Context, status string, limit int, cursor string) (*ListResult, error) {
	params := ListParams{Limit: limit}
	if status != "" {
		parsed, err := enums.ParseInquiryStatus(status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		params.Status = &parsed
	}
	return s.list(ctx, params, cursor, true)
}

func (s *service) AdminGet(ctx context.Context, inquiryID uuid.UUID) (*InquiryDTO, error) {
	inquiry, err := s.load(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	return FromModel(inquiry, true), nil
}

func (s *service) SetStatus(ctx context.Context, inquiryID uuid.UUID, status string) error {
	parsed, err := enums.ParseInquiryStatus(status)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	updated, err := s.repo.UpdateStatus(ctx, inquiryID, parsed)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inquiry status")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
	}
	return nil
}

// Respond appends an admin reply. Visible replies flip received tickets to
// in_progress and emit the notification event; internal notes do neither.
func (s *service) Respond(ctx context.Context, adminID, inquiryID uuid.UUID, input RespondInput) (*ResponseDTO, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}

	inquiry, err := s.load(ctx, inquiryID)
	if err != nil {
		return nil, err
	}

	response := &models.InquiryResponse{
		InquiryID:      inquiry.ID,
		AdminID:        adminID,
		Content:        content,
		IsInternalNote: input.IsInternalNote,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.AddResponse(ctx, response); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add response")
		}
		if input.IsInternalNote {
			return nil
		}
		if inquiry.Status == enums.InquiryStatusReceived {
			if _, err := repo.UpdateStatus(ctx, inquiry.ID, enums.InquiryStatusInProgress); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inquiry status")
			}
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventInquiryResponded,
			AggregateType: enums.AggregateInquiry,
			AggregateID:   inquiry.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: adminID, Role: string(enums.UserRoleAdmin)},
			Data: payloads.InquiryRespondedEvent{
				InquiryID:    inquiry.ID,
				ResponseID:   response.ID,
				UserID:       inquiry.UserID,
				InquiryTitle: inquiry.Title,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return &ResponseDTO{
		ID:             response.ID,
		AdminID:        response.AdminID,
		Content:        response.Content,
		IsInternalNote: response.IsInternalNote,
		CreatedAt:      response.CreatedAt,
	}, nil
}

func (s *service) list(ctx context.Context, params ListParams, cursor string, includeInternal bool) (*ListResult, error) {
	if cursor != "" {
		parsed, err := pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		}
		params.Cursor = parsed
	}

	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inquiries")
	}

	result := &ListResult{Items: make([]InquiryDTO, 0, len(rows))}
	for i := range rows {
		result.Items = append(result.Items, *FromModel(&rows[i], includeInternal))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) load(ctx context.Context, inquiryID uuid.UUID) (*models.Inquiry, error) {
	inquiry, err := s.repo.FindByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inquiry")
	}
	return inquiry, nil
}
