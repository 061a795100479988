package requests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
	pkgerrors "github.com/gaslink/gaslink-backend/pkg/errors"
	"github.com/gaslink/gaslink-backend/pkg/outbox"
	"github.com/gaslink/gaslink-backend/pkg/pagination"
)

type fakeRequestRepo struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error)

	created          []*models.ServiceRequest
	transitions      []TransitionParams
	transitionResult bool
	deletedFor       []uuid.UUID
	insertedDetails  [][]models.RequestDetail
	reservedUpdates  map[string]string
	reservedExists   map[string]bool
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		transitionResult: true,
		reservedUpdates:  map[string]string{},
		reservedExists:   map[string]bool{},
	}
}

func (f *fakeRequestRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRequestRepo) Create(ctx context.Context, req *models.ServiceRequest) error {
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	f.created = append(f.created, req)
	return nil
}

func (f *fakeRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRequestRepo) ListByUser(ctx context.Context, params ListByUserParams) ([]models.ServiceRequest, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (f *fakeRequestRepo) TransitionStatus(ctx context.Context, params TransitionParams) (bool, error) {
	f.transitions = append(f.transitions, params)
	return f.transitionResult, nil
}

func (f *fakeRequestRepo) DeleteNonReservedDetails(ctx context.Context, requestID uuid.UUID) error {
	f.deletedFor = append(f.deletedFor, requestID)
	return nil
}

func (f *fakeRequestRepo) InsertDetails(ctx context.Context, details []models.RequestDetail) error {
	f.insertedDetails = append(f.insertedDetails, details)
	return nil
}

func (f *fakeRequestRepo) UpdateReservedDetail(ctx context.Context, requestID uuid.UUID, key, value string) (bool, error) {
	f.reservedUpdates[key] = value
	return f.reservedExists[key], nil
}

func (f *fakeRequestRepo) Search(ctx context.Context, params SearchParams) ([]models.ServiceRequest, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (f *fakeRequestRepo) CountByStatus(ctx context.Context) (map[enums.RequestStatus]int64, error) {
	return nil, nil
}

func (f *fakeRequestRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return 0, nil
}

type fakeStoreFinder struct {
	stores map[uuid.UUID]*models.Store
}

func (f *fakeStoreFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store, ok := f.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return store, nil
}

type fakeCatalogFinder struct {
	services map[uuid.UUID]*models.Service
}

func (f *fakeCatalogFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return svc, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fakeOutbox struct {
	events []outbox.DomainEvent
}

func (f *fakeOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fixture struct {
	svc       Service
	repo      *fakeRequestRepo
	outbox    *fakeOutbox
	userID    uuid.UUID
	storeID   uuid.UUID
	burnerID  uuid.UUID
	contractID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userID := uuid.New()
	storeID := uuid.New()
	burnerID := uuid.New()
	contractID := uuid.New()

	repo := newFakeRequestRepo()
	ob := &fakeOutbox{}
	svc, err := NewService(ServiceParams{
		Repo: repo,
		Stores: &fakeStoreFinder{stores: map[uuid.UUID]*models.Store{
			storeID: {ID: storeID, UserID: userID, Name: "한강식당", Address: "서울 마포구"},
		}},
		Catalog: &fakeCatalogFinder{services: map[uuid.UUID]*models.Service{
			burnerID: {
				ID:       burnerID,
				Code:     enums.ServiceCodeBurner,
				Name:     "화구 교체",
				HasItems: true,
				Items: []models.ServiceItem{
					{Label: "(일반화구) 1열 1구", UnitPriceWon: 19000},
					{Label: "(일반화구) 1열 2구", UnitPriceWon: 28000},
				},
			},
			contractID: {ID: contractID, Code: enums.ServiceCodeContract, Name: "안전관리 계약"},
		}},
		Tx:     fakeTxRunner{},
		Outbox: ob,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return &fixture{
		svc:        svc,
		repo:       repo,
		outbox:     ob,
		userID:     userID,
		storeID:    storeID,
		burnerID:   burnerID,
		contractID: contractID,
	}
}

func validCreateInput(f *fixture) CreateRequestInput {
	return CreateRequestInput{
		StoreID:       f.storeID,
		ServiceID:     f.burnerID,
		Items:         []ItemInput{{Label: "(일반화구) 1열 1구", Quantity: 2}},
		VisitDate:     "2026-09-15",
		VisitTime:     "14:30",
		PaymentMethod: "cash",
	}
}

func detailValue(details []DetailDTO, key string) (string, bool) {
	for _, row := range details {
		if row.Key == key {
			return row.Value, true
		}
	}
	return "", false
}

func TestCreateRequest(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), f.userID, validCreateInput(f))
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if len(f.repo.created) != 1 {
		t.Fatalf("expected one created request, got %d", len(f.repo.created))
	}
	if dto.Status != enums.RequestStatusRequested {
		t.Fatalf("expected status 접수, got %q", dto.Status)
	}

	if value, ok := detailValue(dto.Details, "(일반화구) 1열 1구"); !ok || value != "2개" {
		t.Fatalf("expected item row with value 2개, got %q (%v)", value, ok)
	}
	if value, _ := detailValue(dto.Details, enums.DetailKeyVisitDate); value != "2026-09-15" {
		t.Fatalf("expected visit date row, got %q", value)
	}
	if value, _ := detailValue(dto.Details, enums.DetailKeyPaymentMethod); value != "현금" {
		t.Fatalf("expected payment row 현금, got %q", value)
	}
	if dto.TotalPriceWon != 38000 {
		t.Fatalf("expected total 38000, got %d", dto.TotalPriceWon)
	}

	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventRequestCreated {
		t.Fatalf("expected request.created event, got %+v", f.outbox.events)
	}
}

func TestCreateRequestRequiresItemsWhenCatalogNonEmpty(t *testing.T) {
	f := newFixture(t)
	input := validCreateInput(f)
	input.Items = nil

	_, err := f.svc.Create(context.Background(), f.userID, input)
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.repo.created) != 0 {
		t.Fatal("expected no request row written")
	}
}

func TestCreateRequestAllowsNoItemsForItemlessService(t *testing.T) {
	f := newFixture(t)
	input := validCreateInput(f)
	input.ServiceID = f.contractID
	input.Items = nil

	dto, err := f.svc.Create(context.Background(), f.userID, input)
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if dto.TotalPriceWon != 0 {
		t.Fatalf("expected zero total, got %d", dto.TotalPriceWon)
	}
}

func TestCreateRequestInvalidCalendarDate(t *testing.T) {
	f := newFixture(t)
	input := validCreateInput(f)
	input.VisitDate = "2026-02-30"

	_, err := f.svc.Create(context.Background(), f.userID, input)
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRequestInvalidVisitTime(t *testing.T) {
	f := newFixture(t)

	for _, visitTime := range []string{"25:00", "14:05", "abc"} {
		input := validCreateInput(f)
		input.VisitTime = visitTime
		_, err := f.svc.Create(context.Background(), f.userID, input)
		if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %q, got %v", visitTime, err)
		}
	}
}

func TestCreateRequestForeignStore(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), validCreateInput(f))
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func editableRequest(f *fixture) *models.ServiceRequest {
	now := time.Now()
	return &models.ServiceRequest{
		ID:        uuid.New(),
		UserID:    f.userID,
		StoreID:   f.storeID,
		ServiceID: f.burnerID,
		Status:    enums.RequestStatusRequested,
		CreatedAt: now,
		Details: []models.RequestDetail{
			{Key: "(일반화구) 1열 1구", Value: "2개"},
			{Key: enums.DetailKeyVisitDate, Value: "2026-09-15"},
			{Key: enums.DetailKeyVisitTime, Value: "14:30"},
			{Key: enums.DetailKeyPaymentMethod, Value: "현금"},
		},
	}
}

func TestUpdateDetailsRejectsZeroItemsBeforeAnyWrite(t *testing.T) {
	f := newFixture(t)
	req := editableRequest(f)
	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
		return req, nil
	}

	_, err := f.svc.UpdateDetails(context.Background(), f.userID, req.ID, UpdateDetailsInput{
		VisitDate: "2026-09-16",
		VisitTime: "10:00",
	})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.repo.deletedFor) != 0 || len(f.repo.insertedDetails) != 0 {
		t.Fatal("expected no writes when zero items rejected")
	}
}

func TestUpdateDetailsReplacesItemRows(t *testing.T) {
	f := newFixture(t)
	req := editableRequest(f)
	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
		return req, nil
	}
	f.repo.reservedExists[enums.DetailKeyVisitDate] = true
	f.repo.reservedExists[enums.DetailKeyVisitTime] = true

	_, err := f.svc.UpdateDetails(context.Background(), f.userID, req.ID, UpdateDetailsInput{
		Items:     []ItemInput{{Label: "(일반화구) 1열 2구", Quantity: 1}},
		VisitDate: "2026-09-16",
		VisitTime: "10:00",
	})
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}

	if len(f.repo.deletedFor) != 1 || f.repo.deletedFor[0] != req.ID {
		t.Fatalf("expected item rows deleted once, got %v", f.repo.deletedFor)
	}
	if len(f.repo.insertedDetails) != 1 || len(f.repo.insertedDetails[0]) != 1 {
		t.Fatalf("expected one inserted item row, got %v", f.repo.insertedDetails)
	}
	inserted := f.repo.insertedDetails[0][0]
	if inserted.Key != "(일반화구) 1열 2구" || inserted.Value != "1개" {
		t.Fatalf("unexpected inserted row %+v", inserted)
	}
	if f.repo.reservedUpdates[enums.DetailKeyVisitDate] != "2026-09-16" {
		t.Fatalf("expected visit date update, got %v", f.repo.reservedUpdates)
	}
	if f.repo.reservedUpdates[enums.DetailKeyVisitTime] != "10:00" {
		t.Fatalf("expected visit time update, got %v", f.repo.reservedUpdates)
	}
	if _, touched := f.repo.reservedUpdates[enums.DetailKeyExtraNote]; touched {
		t.Fatal("expected extra note untouched when not provided")
	}
}

func TestUpdateDetailsOnlyWhileRequested(t *testing.T) {
	f := newFixture(t)
	req := editableRequest(f)
	now := time.Now()
	req.Status = enums.RequestStatusInProgress
	req.WorkingAt = &now
	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
		return req, nil
	}

	_, err := f.svc.UpdateDetails(context.Background(), f.userID, req.ID, UpdateDetailsInput{
		Items:     []ItemInput{{Label: "(일반화구) 1열 1구", Quantity: 1}},
		VisitDate: "2026-09-16",
		VisitTime: "10:00",
	})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCancelRequest(t *testing.T) {
	f := newFixture(t)
	req := editableRequest(f)
	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
		return req, nil
	}

	if err := f.svc.Cancel(context.Background(), f.userID, req.ID); err != nil {
		t.Fatalf("unexpected cancel error: %v", err)
	}

	if len(f.repo.transitions) != 1 {
		t.Fatalf("expected one transition, got %d", len(f.repo.transitions))
	}
	tr := f.repo.transitions[0]
	if tr.From != enums.RequestStatusRequested || tr.To != enums.RequestStatusCanceled {
		t.Fatalf("expected 접수→취소, got %q→%q", tr.From, tr.To)
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventRequestCanceled {
		t.Fatalf("expected request.canceled event, got %+v", f.outbox.events)
	}
}

func TestCancelForeignRequestHidden(t *testing.T) {
	f := newFixture(t)
	req := editableRequest(f)
	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
		return req, nil
	}

	err := f.svc.Cancel(context.Background(), uuid.New(), req.ID)
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign request, got %v", err)
	}
}

func TestStartGuardsTransition(t *testing.T) {
	f := newFixture(t)
	req := editableRequest(f)
	req.Status = enums.RequestStatusCompleted
	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
		return req, nil
	}
	f.repo.transitionResult = false

	err := f.svc.Start(context.Background(), uuid.New(), req.ID)
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(f.outbox.events) != 0 {
		t.Fatalf("expected no event on refused transition, got %+v", f.outbox.events)
	}
}

func TestCompleteEmitsStatusEvent(t *testing.T) {
	f := newFixture(t)
	req := editableRequest(f)
	now := time.Now()
	req.Status = enums.RequestStatusInProgress
	req.WorkingAt = &now
	f.repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
		return req, nil
	}

	if err := f.svc.Complete(context.Background(), uuid.New(), req.ID); err != nil {
		t.Fatalf("unexpected complete error: %v", err)
	}
	if len(f.outbox.events) != 1 || f.outbox.events[0].EventType != enums.EventRequestCompleted {
		t.Fatalf("expected request.completed event, got %+v", f.outbox.events)
	}
	tr := f.repo.transitions[0]
	if tr.From != enums.RequestStatusInProgress || tr.To != enums.RequestStatusCompleted {
		t.Fatalf("expected 진행중→완료, got %q→%q", tr.From, tr.To)
	}
}
