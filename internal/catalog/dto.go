package catalog

import (
	"github.com/google/uuid"

	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
)

// ServiceItemDTO is one orderable line in a service's item catalog.
type ServiceItemDTO struct {
	ID           uuid.UUID `json:"id"`
	Label        string    `json:"label"`
	UnitPriceWon int64     `json:"unit_price_won"`
	SortOrder    int       `json:"sort_order"`
}

// ServiceDTO is the transport shape for a catalog offering.
type ServiceDTO struct {
	ID        uuid.UUID         `json:"id"`
	Code      enums.ServiceCode `json:"code"`
	Name      string            `json:"name"`
	HasItems  bool              `json:"has_items"`
	SortOrder int               `json:"sort_order"`
	Items     []ServiceItemDTO  `json:"items"`
}

func FromModel(s *models.Service) *ServiceDTO {
	if s == nil {
		return nil
	}
	items := make([]ServiceItemDTO, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, ServiceItemDTO{
			ID:           item.ID,
			Label:        item.Label,
			UnitPriceWon: item.UnitPriceWon,
			SortOrder:    item.SortOrder,
		})
	}
	return &ServiceDTO{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		HasItems:  s.HasItems,
		SortOrder: s.SortOrder,
		Items:     items,
	}
}
