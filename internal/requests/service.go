package requests

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
	pkgerrors "github.com/gaslink/gaslink-backend/pkg/errors"
	"github.com/gaslink/gaslink-backend/pkg/outbox"
	"github.com/gaslink/gaslink-backend/pkg/outbox/payloads"
	"github.com/gaslink/gaslink-backend/pkg/pagination"
	"github.com/gaslink/gaslink-backend/pkg/pricing"
)

const (
	visitDateLayout = "2006-01-02"
	visitTimeLayout = "15:04"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type storeFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type catalogFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
}

// Service defines the request lifecycle operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateRequestInput) (*RequestDTO, error)
	Get(ctx context.Context, userID, requestID uuid.UUID) (*RequestDTO, error)
	AdminGet(ctx context.Context, requestID uuid.UUID) (*RequestDTO, error)
	List(ctx context.Context, userID uuid.UUID, limit int, cursor string) (*ListResult, error)
	UpdateDetails(ctx context.Context, userID, requestID uuid.UUID, input UpdateDetailsInput) (*RequestDTO, error)
	Cancel(ctx context.Context, userID, requestID uuid.UUID) error
	Start(ctx context.Context, adminID, requestID uuid.UUID) error
	Complete(ctx context.Context, adminID, requestID uuid.UUID) error
}

// ServiceParams bundles the dependencies for the request service.
type ServiceParams struct {
	Repo    Repository
	Stores  storeFinder
	Catalog catalogFinder
	Tx      txRunner
	Outbox  outboxPublisher
}

type service struct {
	repo    Repository
	stores  storeFinder
	catalog catalogFinder
	tx      txRunner
	outbox  outboxPublisher
}

// NewService builds a request service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "request repository required")
	}
	if params.Stores == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "store repository required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "outbox publisher required")
	}
	return &service{
		repo:    params.Repo,
		stores:  params.Stores,
		catalog: params.Catalog,
		tx:      params.Tx,
		outbox:  params.Outbox,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateRequestInput) (*RequestDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	store, err := s.stores.FindByID(ctx, input.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}
	if store.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store belongs to another user")
	}

	catalogService, err := s.catalog.FindByID(ctx, input.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load service")
	}

	items, err := validateItems(input.Items, catalogService)
	if err != nil {
		return nil, err
	}
	if err := validateVisitDate(input.VisitDate); err != nil {
		return nil, err
	}
	if err := validateVisitTime(input.VisitTime); err != nil {
		return nil, err
	}
	paymentMethod, parseErr := enums.ParsePaymentMethod(input.PaymentMethod)
	if parseErr != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	req := &models.ServiceRequest{
		UserID:    userID,
		StoreID:   store.ID,
		ServiceID: catalogService.ID,
		Status:    enums.RequestStatusRequested,
		Details:   buildDetailRows(items, input.VisitDate, input.VisitTime, paymentMethod, input.ExtraNote),
	}

	// Parent and detail rows commit or roll back as one unit, together with
	// the outbox row.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, req); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create request")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRequestCreated,
			AggregateType: enums.AggregateServiceRequest,
			AggregateID:   req.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: userID, Role: string(enums.UserRoleUser)},
			Data: payloads.RequestCreatedEvent{
				RequestID:   req.ID,
				UserID:      userID,
				StoreID:     store.ID,
				ServiceID:   catalogService.ID,
				ServiceName: catalogService.Name,
				Status:      enums.RequestStatusRequested,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return FromModel(req), nil
}

func (s *service) Get(ctx context.Context, userID, requestID uuid.UUID) (*RequestDTO, error) {
	req, err := s.loadOwned(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}
	return FromModel(req), nil
}

// AdminGet loads a request without an ownership check, for the back office.
func (s *service) AdminGet(ctx context.Context, requestID uuid.UUID) (*RequestDTO, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load request")
	}
	return FromModel(req), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, limit int, cursor string) (*ListResult, error) {
	var parsed *pagination.Cursor
	if cursor != "" {
		var err error
		parsed, err = pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		}
	}

	rows, next, err := s.repo.ListByUser(ctx, ListByUserParams{UserID: userID, Limit: limit, Cursor: parsed})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list requests")
	}

	result := &ListResult{Items: make([]RequestDTO, 0, len(rows))}
	for i := range rows {
		result.Items = append(result.Items, *FromModel(&rows[i]))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) UpdateDetails(ctx context.Context, userID, requestID uuid.UUID, input UpdateDetailsInput) (*RequestDTO, error) {
	req, err := s.loadOwned(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != enums.RequestStatusRequested {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request is no longer editable")
	}

	catalogService, err := s.catalog.FindByID(ctx, req.ServiceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load service")
	}

	// All rejections happen before the first write.
	items, err := validateItems(input.Items, catalogService)
	if err != nil {
		return nil, err
	}
	if err := validateVisitDate(input.VisitDate); err != nil {
		return nil, err
	}
	if err := validateVisitTime(input.VisitTime); err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteNonReservedDetails(ctx, req.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete item rows")
		}
		itemRows := make([]models.RequestDetail, 0, len(items))
		for _, item := range items {
			itemRows = append(itemRows, models.RequestDetail{
				RequestID: req.ID,
				Key:       item.Label,
				Value:     pricing.FormatQuantity(item.Quantity),
			})
		}
		if err := repo.InsertDetails(ctx, itemRows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert item rows")
		}

		// Reserved keys are only rewritten where the row already exists;
		// a request created without an extra note never grows one here.
		reserved := map[string]string{
			enums.DetailKeyVisitDate: input.VisitDate,
			enums.DetailKeyVisitTime: input.VisitTime,
		}
		if input.ExtraNote != nil {
			reserved[enums.DetailKeyExtraNote] = strings.TrimSpace(*input.ExtraNote)
		}
		for key, value := range reserved {
			if _, err := repo.UpdateReservedDetail(ctx, req.ID, key, value); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update reserved detail")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload request")
	}
	return FromModel(updated), nil
}

func (s *service) Cancel(ctx context.Context, userID, requestID uuid.UUID) error {
	req, err := s.loadOwned(ctx, userID, requestID)
	if err != nil {
		return err
	}
	return s.transition(ctx, req, transitionSpec{
		from:      enums.RequestStatusRequested,
		to:        enums.RequestStatusCanceled,
		event:     enums.EventRequestCanceled,
		actorID:   userID,
		actorRole: enums.UserRoleUser,
		conflict:  "only requested orders can be canceled",
	})
}

func (s *service) Start(ctx context.Context, adminID, requestID uuid.UUID) error {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return err
	}
	return s.transition(ctx, req, transitionSpec{
		from:      enums.RequestStatusRequested,
		to:        enums.RequestStatusInProgress,
		event:     enums.EventRequestStarted,
		actorID:   adminID,
		actorRole: enums.UserRoleAdmin,
		conflict:  "only requested orders can be started",
	})
}

func (s *service) Complete(ctx context.Context, adminID, requestID uuid.UUID) error {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return err
	}
	return s.transition(ctx, req, transitionSpec{
		from:      enums.RequestStatusInProgress,
		to:        enums.RequestStatusCompleted,
		event:     enums.EventRequestCompleted,
		actorID:   adminID,
		actorRole: enums.UserRoleAdmin,
		conflict:  "only in-progress orders can be completed",
	})
}

type transitionSpec struct {
	from      enums.RequestStatus
	to        enums.RequestStatus
	event     enums.OutboxEventType
	actorID   uuid.UUID
	actorRole enums.UserRole
	conflict  string
}

func (s *service) transition(ctx context.Context, req *models.ServiceRequest, spec transitionSpec) error {
	catalogService, err := s.catalog.FindByID(ctx, req.ServiceID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load service")
	}
	now := time.Now().UTC()

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		updated, err := repo.TransitionStatus(ctx, TransitionParams{
			RequestID: req.ID,
			From:      spec.from,
			To:        spec.to,
			StampAt:   now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update request status")
		}
		if !updated {
			return pkgerrors.New(pkgerrors.CodeStateConflict, spec.conflict)
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     spec.event,
			AggregateType: enums.AggregateServiceRequest,
			AggregateID:   req.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: spec.actorID, Role: string(spec.actorRole)},
			Data: payloads.RequestStatusChangedEvent{
				RequestID:   req.ID,
				UserID:      req.UserID,
				ServiceName: catalogService.Name,
				Status:      spec.to,
				ChangedAt:   now,
			},
		})
	})
}

func (s *service) load(ctx context.Context, requestID uuid.UUID) (*models.ServiceRequest, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load request")
	}
	return req, nil
}

func (s *service) loadOwned(ctx context.Context, userID, requestID uuid.UUID) (*models.ServiceRequest, error) {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
	}
	return req, nil
}

func validateItems(items []ItemInput, catalogService *models.Service) ([]ItemInput, error) {
	hasCatalog := catalogService.HasItems || len(catalogService.Items) > 0
	if hasCatalog && len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item must be selected")
	}

	seen := make(map[string]struct{}, len(items))
	cleaned := make([]ItemInput, 0, len(items))
	for _, item := range items {
		label := strings.TrimSpace(item.Label)
		if label == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item label is required")
		}
		if enums.IsReservedDetailKey(label) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item label collides with a reserved key")
		}
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		if _, dup := seen[label]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate item label")
		}
		seen[label] = struct{}{}
		cleaned = append(cleaned, ItemInput{Label: label, Quantity: item.Quantity})
	}
	return cleaned, nil
}

func validateVisitDate(value string) error {
	if strings.TrimSpace(value) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "visit date is required")
	}
	if _, err := time.Parse(visitDateLayout, value); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "visit date must be a valid calendar date")
	}
	return nil
}

func validateVisitTime(value string) error {
	if strings.TrimSpace(value) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "visit time is required")
	}
	parsed, err := time.Parse(visitTimeLayout, value)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "visit time must be HH:MM")
	}
	if parsed.Minute()%10 != 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "visit time minutes must be in 10-minute steps")
	}
	return nil
}

func buildDetailRows(items []ItemInput, visitDate, visitTime string, payment enums.PaymentMethod, extraNote *string) []models.RequestDetail {
	rows := make([]models.RequestDetail, 0, len(items)+4)
	for _, item := range items {
		rows = append(rows, models.RequestDetail{
			Key:   item.Label,
			Value: pricing.FormatQuantity(item.Quantity),
		})
	}
	rows = append(rows,
		models.RequestDetail{Key: enums.DetailKeyVisitDate, Value: visitDate},
		models.RequestDetail{Key: enums.DetailKeyVisitTime, Value: visitTime},
		models.RequestDetail{Key: enums.DetailKeyPaymentMethod, Value: payment.Label()},
	)
	if extraNote != nil {
		if note := strings.TrimSpace(*extraNote); note != "" {
			rows = append(rows, models.RequestDetail{Key: enums.DetailKeyExtraNote, Value: note})
		}
	}
	return rows
}
