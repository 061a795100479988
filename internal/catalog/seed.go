package catalog

import (
	"github.com/gaslink/gaslink-backend/pkg/db/models"
	"github.com/gaslink/gaslink-backend/pkg/enums"
	"github.com/gaslink/gaslink-backend/pkg/pricing"
)

// DefaultCatalog returns the seed rows for a fresh deployment. Item labels
// must stay in lockstep with the pricing table; prices are resolved through
// it so the two cannot drift.
func DefaultCatalog() []models.Service {
	return []models.Service{
		{
			Code:      enums.ServiceCodeBurner,
			Name:      "화구 교체",
			HasItems:  true,
			SortOrder: 1,
			Items: itemRows(
				"(일반화구) 1열 1구",
				"(일반화구) 1열 2구",
				"(일반화구) 2열 3구",
				"(일반화구) 2열 4구",
				"(매립형) 2구",
				"(매립형) 3구",
			),
		},
		{
			Code:      enums.ServiceCodeValve,
			Name:      "밸브 교체",
			HasItems:  true,
			SortOrder: 2,
			Items:     itemRows("중간밸브 교체", "퓨즈콕 교체"),
		},
		{
			Code:      enums.ServiceCodeAlarm,
			Name:      "가스누설 경보기",
			HasItems:  true,
			SortOrder: 3,
			Items:     itemRows("가스누설 경보기 설치"),
		},
		{
			Code:      enums.ServiceCodePipe,
			Name:      "배관 철거",
			SortOrder: 4,
		},
		{
			Code:      enums.ServiceCodeLeak,
			Name:      "가스 누출 점검",
			SortOrder: 5,
		},
		{
			Code:      enums.ServiceCodeQuote,
			Name:      "시공 견적",
			SortOrder: 6,
		},
		{
			Code:      enums.ServiceCodeContract,
			Name:      "안전관리 계약",
			SortOrder: 7,
		},
	}
}

func itemRows(labels ...string) []models.ServiceItem {
	items := make([]models.ServiceItem, 0, len(labels))
	for i, label := range labels {
		items = append(items, models.ServiceItem{
			Label:        label,
			UnitPriceWon: pricing.UnitPrice(label).IntPart(),
			SortOrder:    i + 1,
		})
	}
	return items
}
