package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	pkgerrors "github.com/gaslink/gaslink-backend/pkg/errors"
)

type fakeProfileRepo struct {
	profile *models.Profile
	updates map[string]any
}

func (f *fakeProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if f.profile == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.profile, nil
}

func (f *fakeProfileRepo) UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	f.updates = updates
	return nil
}

type fakeStoreChecker struct {
	store *models.Store
}

func (f *fakeStoreChecker) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if f.store == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.store, nil
}

func TestMeNotFound(t *testing.T) {
	svc, _ := NewService(&fakeProfileRepo{}, &fakeStoreChecker{})
	_, err := svc.Me(context.Background(), uuid.New())
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateMeSetsEmail(t *testing.T) {
	userID := uuid.New()
	repo := &fakeProfileRepo{profile: &models.Profile{ID: userID, Phone: "+82 1012345678"}}
	svc, _ := NewService(repo, &fakeStoreChecker{})

	email := " Owner@Gaslink.KR "
	_, err := svc.UpdateMe(context.Background(), userID, UpdateMeInput{Email: &email})
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if repo.updates["email"] != "owner@gaslink.kr" {
		t.Fatalf("expected normalized email update, got %v", repo.updates)
	}
}

func TestUpdateMeRejectsForeignDefaultStore(t *testing.T) {
	userID := uuid.New()
	repo := &fakeProfileRepo{profile: &models.Profile{ID: userID}}
	foreign := &models.Store{ID: uuid.New(), UserID: uuid.New()}
	svc, _ := NewService(repo, &fakeStoreChecker{store: foreign})

	_, err := svc.UpdateMe(context.Background(), userID, UpdateMeInput{DefaultStoreID: &foreign.ID})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if repo.updates != nil {
		t.Fatalf("expected no update issued, got %v", repo.updates)
	}
}

func TestUpdateMeInvalidEmail(t *testing.T) {
	svc, _ := NewService(&fakeProfileRepo{profile: &models.Profile{ID: uuid.New()}}, &fakeStoreChecker{})
	email := "not-an-email"
	_, err := svc.UpdateMe(context.Background(), uuid.New(), UpdateMeInput{Email: &email})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
