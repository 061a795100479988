package inquiries

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

type fakeInquiryRepo struct {
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.Inquiry, error)
	listFn     func(ctx context.Context, params ListParams) ([]models.Inquiry, *pagination.Cursor, error)

	created       []*models.Inquiry
	responses     []*models.InquiryResponse
	statusUpdates map[uuid.UUID]enums.InquiryStatus
	updateFound   bool
}

func newFakeInquiryRepo() *fakeInquiryRepo {
	return &fakeInquiryRepo{statusUpdates: map[uuid.UUID]enums.InquiryStatus{}, updateFound: true}
}

func (f *fakeInquiryRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeInquiryRepo) Create(ctx context.Context, inquiry *models.Inquiry) error {
	inquiry.ID = uuid.New()
	inquiry.CreatedAt = time.Now()
	f.created = append(f.created, inquiry)
	return nil
}

func (f *fakeInquiryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInquiryRepo) List(ctx context.Context, params ListParams) ([]models.Inquiry, *pagination.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeInquiryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InquiryStatus) (bool, error) {
	f.statusUpdates[id] = status
	return f.updateFound, nil
}

func (f *fakeInquiryRepo) AddResponse(ctx context.Context, response *models.InquiryResponse) error {
	response.ID = uuid.New()
	response.CreatedAt = time.Now()
	f.responses = append(f.responses, response)
	return nil
}

func (f *fakeInquiryRepo) CountByStatus(ctx context.Context) (map[enums.InquiryStatus]int64, error) {
	return nil, nil
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

func newInquiryService(t *testing.T, repo Repository) (Service, *fakeOutbox) {
	t.Helper()
	ob := &fakeOutbox{}
	svc, err := NewService(ServiceParams{Repo: repo, Tx: fakeTxRunner{}, Outbox: ob})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, ob
}

func TestCreateInquiry(t *testing.T) {
	repo := newFakeInquiryRepo()
	svc, _ := newInquiryService(t, repo)
	userID := uuid.New()

	dto, err := svc.Create(context.Background(), userID, CreateInquiryInput{
		Title:    "가스레인지 소음 문의",
		Content:  "점화 시 소리가 큽니다.",
		Category: "service",
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if dto.Status != enums.InquiryStatusReceived {
		t.Fatalf("expected received status, got %q", dto.Status)
	}
	if dto.Priority != enums.InquiryPriorityNormal {
		t.Fatalf("expected normal priority default, got %q", dto.Priority)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one created inquiry, got %d", len(repo.created))
	}
}

func TestCreateInquiryInvalidCategory(t *testing.T) {
	svc, _ := newInquiryService(t, newFakeInquiryRepo())
	_, err := svc.Create(context.Background(), uuid.New(), CreateInquiryInput{
		Title:    "제목",
		Content:  "내용",
		Category: "refund",
	})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetForUserFiltersInternalNotes(t *testing.T) {
	userID := uuid.New()
	inquiry := &models.Inquiry{
		ID:     uuid.New(),
		UserID: userID,
		Title:  "문의",
		Status: enums.InquiryStatusInProgress,
		Responses: []models.InquiryResponse{
			{ID: uuid.New(), Content: "고객 답변", IsInternalNote: false},
			{ID: uuid.New(), Content: "내부 메모", IsInternalNote: true},
		},
	}
	repo := newFakeInquiryRepo()
	repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
		return inquiry, nil
	}
	svc, _ := newInquiryService(t, repo)

	dto, err := svc.GetForUser(context.Background(), userID, inquiry.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if len(dto.Responses) != 1 || dto.Responses[0].Content != "고객 답변" {
		t.Fatalf("expected internal note filtered, got %+v", dto.Responses)
	}

	adminView, err := svc.AdminGet(context.Background(), inquiry.ID)
	if err != nil {
		t.Fatalf("unexpected admin get error: %v", err)
	}
	if len(adminView.Responses) != 2 {
		t.Fatalf("expected admin to see internal notes, got %+v", adminView.Responses)
	}
}

func TestGetForUserForeignInquiry(t *testing.T) {
	inquiry := &models.Inquiry{ID: uuid.New(), UserID: uuid.New()}
	repo := newFakeInquiryRepo()
	repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
		return inquiry, nil
	}
	svc, _ := newInquiryService(t, repo)

	_, err := svc.GetForUser(context.Background(), uuid.New(), inquiry.ID)
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign inquiry, got %v", err)
	}
}

func TestRespondEmitsEventAndAdvancesStatus(t *testing.T) {
	inquiry := &models.Inquiry{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Title:  "환불 문의",
		Status: enums.InquiryStatusReceived,
	}
	repo := newFakeInquiryRepo()
	repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
		return inquiry, nil
	}
	svc, ob := newInquiryService(t, repo)
	adminID := uuid.New()

	dto, err := svc.Respond(context.Background(), adminID, inquiry.ID, RespondInput{Content: "처리해 드리겠습니다."})
	if err != nil {
		t.Fatalf("unexpected respond error: %v", err)
	}
	if dto.AdminID != adminID {
		t.Fatalf("expected admin id on response, got %s", dto.AdminID)
	}
	if repo.statusUpdates[inquiry.ID] != enums.InquiryStatusInProgress {
		t.Fatalf("expected status advanced to in_progress, got %q", repo.statusUpdates[inquiry.ID])
	}
	if len(ob.events) != 1 || ob.events[0].EventType != enums.EventInquiryResponded {
		t.Fatalf("expected inquiry.responded event, got %+v", ob.events)
	}
}

func TestRespondInternalNoteStaysSilent(t *testing.T) {
	inquiry := &models.Inquiry{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: enums.InquiryStatusReceived,
	}
	repo := newFakeInquiryRepo()
	repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
		return inquiry, nil
	}
	svc, ob := newInquiryService(t, repo)

	_, err := svc.Respond(context.Background(), uuid.New(), inquiry.ID, RespondInput{
		Content:        "내부 확인 필요",
		IsInternalNote: true,
	})
	if err != nil {
		t.Fatalf("unexpected respond error: %v", err)
	}
	if len(ob.events) != 0 {
		t.Fatalf("expected no event for internal note, got %+v", ob.events)
	}
	if _, touched := repo.statusUpdates[inquiry.ID]; touched {
		t.Fatal("expected status untouched for internal note")
	}
}

func TestSetStatusUnknownInquiry(t *testing.T) {
	repo := newFakeInquiryRepo()
	repo.updateFound = false
	svc, _ := newInquiryService(t, repo)

	err := svc.SetStatus(context.Background(), uuid.New(), "done")
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdminListInvalidStatusFilter(t *testing.T) {
	svc, _ := newInquiryService(t, newFakeInquiryRepo())
	_, err := svc.AdminList(context.Background(), "archived", 10, "")
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
