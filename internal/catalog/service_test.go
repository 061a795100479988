package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
	pkgerrors "github.com/gaslink/gaslink-backend/pkg/errors"
	"github.com/gaslink/gaslink-backend/pkg/pricing"
)

type fakeCatalogRepo struct {
	services []models.Service
}

func (f *fakeCatalogRepo) List(ctx context.Context) ([]models.Service, error) {
	return f.services, nil
}

func (f *fakeCatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	for i := range f.services {
		if f.services[i].ID == id {
			return &f.services[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestListIncludesItems(t *testing.T) {
	repo := &fakeCatalogRepo{
		services: []models.Service{
			{
				ID:       uuid.New(),
				Code:     enums.ServiceCodeBurner,
				Name:     "화구 교체",
				HasItems: true,
				Items: []models.ServiceItem{
					{ID: uuid.New(), Label: "(일반화구) 1열 1구", UnitPriceWon: 19000, SortOrder: 1},
				},
			},
			{ID: uuid.New(), Code: enums.ServiceCodeQuote, Name: "시공 견적"},
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 services, got %d", len(list))
	}
	if len(list[0].Items) != 1 || list[0].Items[0].UnitPriceWon != 19000 {
		t.Fatalf("expected burner item with price, got %+v", list[0].Items)
	}
	if len(list[1].Items) != 0 {
		t.Fatalf("expected quote service without items, got %+v", list[1].Items)
	}
}

func TestGetUnknownService(t *testing.T) {
	svc, _ := NewService(&fakeCatalogRepo{})
	_, err := svc.Get(context.Background(), uuid.New())
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDefaultCatalogMatchesPricingTable(t *testing.T) {
	for _, service := range DefaultCatalog() {
		if service.HasItems && len(service.Items) == 0 {
			t.Fatalf("service %s flagged has_items but seeds none", service.Code)
		}
		if !service.HasItems && len(service.Items) != 0 {
			t.Fatalf("service %s seeds items without has_items", service.Code)
		}
		for _, item := range service.Items {
			price := pricing.UnitPrice(item.Label)
			if price.IsZero() {
				t.Fatalf("seed item %q missing from pricing table", item.Label)
			}
			if price.IntPart() != item.UnitPriceWon {
				t.Fatalf("seed item %q price %d disagrees with pricing table %s", item.Label, item.UnitPriceWon, price)
			}
		}
	}
}
