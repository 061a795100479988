// Package pricing is the single authoritative item-label price table. Every
// surface that shows a request total (user detail, admin detail, create
// preview) computes through here instead of carrying its own copy.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gaslink/gaslink-backend/pkg/enums"
)

// unitPricesWon maps catalog item labels to their unit price in KRW.
var unitPricesWon = map[string]int64{
	"(일반화구) 1열 1구": 19000,
	"(일반화구) 1열 2구": 28000,
	"(일반화구) 2열 3구": 42000,
	"(일반화구) 2열 4구": 55000,
	"(매립형) 2구":     65000,
	"(매립형) 3구":     78000,
	"중간밸브 교체":      15000,
	"퓨즈콕 교체":       12000,
	"가스누설 경보기 설치":  45000,
}

// Item pairs a catalog label with an ordered quantity.
type Item struct {
	Label    string
	Quantity int
}

// UnitPrice returns the catalog price for a label. Unknown labels price at
// zero so stale client payloads never fail a total computation.
func UnitPrice(label string) decimal.Decimal {
	won, ok := unitPricesWon[label]
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromInt(won)
}

// Total sums quantity x unit price across the provided items, skipping
// reserved detail keys that may be mixed into a raw detail-row dump.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if enums.IsReservedDetailKey(item.Label) {
			continue
		}
		if item.Quantity <= 0 {
			continue
		}
		total = total.Add(UnitPrice(item.Label).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// FormatQuantity renders a quantity the way detail rows store it, e.g. "2개".
func FormatQuantity(quantity int) string {
	return fmt.Sprintf("%d개", quantity)
}

// ParseQuantity reverses FormatQuantity; malformed values count as zero.
func ParseQuantity(value string) int {
	var n int
	if _, err := fmt.Sscanf(value, "%d개", &n); err != nil {
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}
