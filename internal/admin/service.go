package admin

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gaslink/gaslink-backend/internal/requests"
	"github.com/gaslink/gaslink-backend/internal/stores"
	"github.com/gaslink/gaslink-backend/internal/users"
	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
	pkgerrors "github.com/gaslink/gaslink-backend/pkg/errors"
	"github.com/gaslink/gaslink-backend/pkg/pagination"
)

type requestCounter interface {
	Search(ctx context.Context, params requests.SearchParams) ([]models.ServiceRequest, *pagination.Cursor, error)
	CountByStatus(ctx context.Context) (map[enums.RequestStatus]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type storeSearcher interface {
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, params stores.SearchParams) ([]models.Store, *pagination.Cursor, error)
}

type profileSearcher interface {
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, params users.SearchParams) ([]models.Profile, *pagination.Cursor, error)
}

type inquiryCounter interface {
	CountByStatus(ctx context.Context) (map[enums.InquiryStatus]int64, error)
}

// Dashboard is the back-office landing aggregate.
type Dashboard struct {
	RequestsByStatus  map[enums.RequestStatus]int64 `json:"requests_by_status"`
	RequestsToday     int64                         `json:"requests_today"`
	TotalStores       int64                         `json:"total_stores"`
	TotalUsers        int64                         `json:"total_users"`
	InquiriesByStatus map[enums.InquiryStatus]int64 `json:"inquiries_by_status"`
}

// RequestListParams filters the admin request listing.
type RequestListParams struct {
	Status      string
	ServiceID   *uuid.UUID
	PhoneSearch string
	Limit       int
	Cursor      string
}

// RequestListResult is one admin page of requests.
type RequestListResult struct {
	Items  []requests.RequestDTO `json:"items"`
	Cursor string                `json:"cursor,omitempty"`
}

// StoreListResult is one admin page of stores.
type StoreListResult struct {
	Items  []stores.StoreDTO `json:"items"`
	Cursor string            `json:"cursor,omitempty"`
}

// UserListResult is one admin page of profiles.
type UserListResult struct {
	Items  []users.ProfileDTO `json:"items"`
	Cursor string             `json:"cursor,omitempty"`
}

// Service exposes the back-office read surface.
type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	ListRequests(ctx context.Context, params RequestListParams) (*RequestListResult, error)
	ListStores(ctx context.Context, query string, limit int, cursor string) (*StoreListResult, error)
	ListUsers(ctx context.Context, query string, limit int, cursor string) (*UserListResult, error)
}

// ServiceParams bundles the repositories behind the back office.
type ServiceParams struct {
	Requests  requestCounter
	Stores    storeSearcher
	Profiles  profileSearcher
	Inquiries inquiryCounter
}

type service struct {
	requests  requestCounter
	stores    storeSearcher
	profiles  profileSearcher
	inquiries inquiryCounter
}

// NewService builds the admin service with the provided repositories.
func NewService(params ServiceParams) (Service, error) {
	if params.Requests == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "request repository required")
	}
	if params.Stores == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "store repository required")
	}
	if params.Profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profile repository required")
	}
	if params.Inquiries == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inquiry repository required")
	}
	return &service{
		requests:  params.Requests,
		stores:    params.Stores,
		profiles:  params.Profiles,
		inquiries: params.Inquiries,
	}, nil
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	requestCounts, err := s.requests.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count requests")
	}

	// "Today" is measured in KST, the deployment's home timezone.
	now := time.Now().In(seoulLocation())
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	requestsToday, err := s.requests.CountCreatedSince(ctx, startOfDay)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count today's requests")
	}

	totalStores, err := s.stores.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count stores")
	}
	totalUsers, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	inquiryCounts, err := s.inquiries.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count inquiries")
	}

	return &Dashboard{
		RequestsByStatus:  fillRequestStatuses(requestCounts),
		RequestsToday:     requestsToday,
		TotalStores:       totalStores,
		TotalUsers:        totalUsers,
		InquiriesByStatus: fillInquiryStatuses(inquiryCounts),
	}, nil
}

func (s *service) ListRequests(ctx context.Context, params RequestListParams) (*RequestListResult, error) {
	search := requests.SearchParams{
		ServiceID:  params.ServiceID,
		PhoneQuery: params.PhoneSearch,
		Limit:      params.Limit,
	}
	if params.Status != "" {
		status, err := enums.ParseRequestStatus(params.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		search.Status = &status
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		}
		search.Cursor = cursor
	}

	rows, next, err := s.requests.Search(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search requests")
	}

	result := &RequestListResult{Items: make([]requests.RequestDTO, 0, len(rows))}
	for i := range rows {
		result.Items = append(result.Items, *requests.FromModel(&rows[i]))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) ListStores(ctx context.Context, query string, limit int, cursor string) (*StoreListResult, error) {
	params := stores.SearchParams{Query: query, Limit: limit}
	if cursor != "" {
		parsed, err := pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		}
		params.Cursor = parsed
	}

	rows, next, err := s.stores.Search(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search stores")
	}

	result := &StoreListResult{Items: make([]stores.StoreDTO, 0, len(rows))}
	for i := range rows {
		result.Items = append(result.Items, *stores.FromModel(&rows[i]))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) ListUsers(ctx context.Context, query string, limit int, cursor string) (*UserListResult, error) {
	params := users.SearchParams{Query: query, Limit: limit}
	if cursor != "" {
		parsed, err := pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		}
		params.Cursor = parsed
	}

	rows, next, err := s.profiles.Search(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search users")
	}

	result := &UserListResult{Items: make([]users.ProfileDTO, 0, len(rows))}
	for i := range rows {
		result.Items = append(result.Items, *users.FromModel(&rows[i]))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func fillRequestStatuses(counts map[enums.RequestStatus]int64) map[enums.RequestStatus]int64 {
	filled := map[enums.RequestStatus]int64{
		enums.RequestStatusRequested:  0,
		enums.RequestStatusInProgress: 0,
		enums.RequestStatusCompleted:  0,
		enums.RequestStatusCanceled:   0,
	}
	for status, count := range counts {
		filled[status] = count
	}
	return filled
}

func fillInquiryStatuses(counts map[enums.InquiryStatus]int64) map[enums.InquiryStatus]int64 {
	filled := map[enums.InquiryStatus]int64{
		enums.InquiryStatusReceived:   0,
		enums.InquiryStatusInProgress: 0,
		enums.InquiryStatusDone:       0,
		enums.InquiryStatusHeld:       0,
	}
	for status, count := range counts {
		filled[status] = count
	}
	return filled
}

func seoulLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}
