package admin

import (
	"context"
	"testing"
	"time"

	"github.com/gaslink/gaslink-backend/internal/requests"
	"github.com/gaslink/gaslink-backend/internal/stores"
	"github.com/gaslink/gaslink-backend/internal/users"
	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
	pkgerrors "github.com/gaslink/gaslink-backend/pkg/errors"
	"github.com/gaslink/gaslink-backend/pkg/pagination"
)

type fakeRequestCounter struct {
	searchFn func(ctx context.Context, params requests.SearchParams) ([]models.ServiceRequest, *pagination.Cursor, error)
}

func (f *fakeRequestCounter) Search(ctx context.Context, params requests.SearchParams) ([]models.ServiceRequest, *pagination.Cursor, error) {
	if f.searchFn != nil {
		return f.searchFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeRequestCounter) CountByStatus(ctx context.Context) (map[enums.RequestStatus]int64, error) {
	return map[enums.RequestStatus]int64{
		enums.RequestStatusRequested: 4,
		enums.RequestStatusCompleted: 9,
	}, nil
}

func (f *fakeRequestCounter) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return 2, nil
}

type fakeStoreSearcher struct{}

func (fakeStoreSearcher) Count(ctx context.Context) (int64, error) { return 12, nil }

func (fakeStoreSearcher) Search(ctx context.Context, params stores.SearchParams) ([]models.Store, *pagination.Cursor, error) {
	return nil, nil, nil
}

type fakeProfileSearcher struct{}

func (fakeProfileSearcher) Count(ctx context.Context) (int64, error) { return 30, nil }

func (fakeProfileSearcher) Search(ctx context.Context, params users.SearchParams) ([]models.Profile, *pagination.Cursor, error) {
	return nil, nil, nil
}

type fakeInquiryCounter struct{}

func (fakeInquiryCounter) CountByStatus(ctx context.Context) (map[enums.InquiryStatus]int64, error) {
	return map[enums.InquiryStatus]int64{enums.InquiryStatusReceived: 3}, nil
}

func newAdminService(t *testing.T, reqs requestCounter) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Requests:  reqs,
		Stores:    fakeStoreSearcher{},
		Profiles:  fakeProfileSearcher{},
		Inquiries: fakeInquiryCounter{},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestDashboardAggregates(t *testing.T) {
	svc := newAdminService(t, &fakeRequestCounter{})

	dash, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected dashboard error: %v", err)
	}
	if dash.RequestsByStatus[enums.RequestStatusRequested] != 4 {
		t.Fatalf("expected 4 requested, got %d", dash.RequestsByStatus[enums.RequestStatusRequested])
	}
	if dash.RequestsByStatus[enums.RequestStatusCanceled] != 0 {
		t.Fatal("expected zero-filled canceled bucket")
	}
	if dash.RequestsToday != 2 {
		t.Fatalf("expected 2 requests today, got %d", dash.RequestsToday)
	}
	if dash.TotalStores != 12 || dash.TotalUsers != 30 {
		t.Fatalf("expected 12 stores and 30 users, got %d/%d", dash.TotalStores, dash.TotalUsers)
	}
	if dash.InquiriesByStatus[enums.InquiryStatusHeld] != 0 {
		t.Fatal("expected zero-filled held bucket")
	}
}

func TestListRequestsStatusFilter(t *testing.T) {
	var captured requests.SearchParams
	svc := newAdminService(t, &fakeRequestCounter{
		searchFn: func(ctx context.Context, params requests.SearchParams) ([]models.ServiceRequest, *pagination.Cursor, error) {
			captured = params
			return nil, nil, nil
		},
	})

	_, err := svc.ListRequests(context.Background(), RequestListParams{Status: "진행중", PhoneSearch: "1012"})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if captured.Status == nil || *captured.Status != enums.RequestStatusInProgress {
		t.Fatalf("expected status filter 진행중, got %+v", captured.Status)
	}
	if captured.PhoneQuery != "1012" {
		t.Fatalf("expected phone query forwarded, got %q", captured.PhoneQuery)
	}
}

func TestListRequestsInvalidStatus(t *testing.T) {
	svc := newAdminService(t, &fakeRequestCounter{})
	_, err := svc.ListRequests(context.Background(), RequestListParams{Status: "shipped"})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
