package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gaslink/gaslink-backend/pkg/enums"
)

func TestTotalBurnerScenario(t *testing.T) {
	items := []Item{{Label: "(일반화구) 1열 1구", Quantity: 2}}

	got := Total(items)
	want := decimal.NewFromInt(38000)
	if !got.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, got)
	}
	if FormatQuantity(2) != "2개" {
		t.Fatalf("unexpected quantity format %q", FormatQuantity(2))
	}
}

func TestTotalSkipsUnknownAndReservedKeys(t *testing.T) {
	items := []Item{
		{Label: "(일반화구) 1열 1구", Quantity: 1},
		{Label: "존재하지 않는 품목", Quantity: 5},
		{Label: enums.DetailKeyVisitDate, Quantity: 3},
		{Label: enums.DetailKeyPaymentMethod, Quantity: 1},
	}

	got := Total(items)
	want := decimal.NewFromInt(19000)
	if !got.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, got)
	}
}

func TestTotalIgnoresNonPositiveQuantities(t *testing.T) {
	items := []Item{
		{Label: "중간밸브 교체", Quantity: 0},
		{Label: "퓨즈콕 교체", Quantity: -2},
	}
	if got := Total(items); !got.IsZero() {
		t.Fatalf("expected zero total, got %s", got)
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"2개", 2},
		{"10개", 10},
		{"", 0},
		{"abc", 0},
		{"-3개", 0},
	}
	for _, tc := range cases {
		if got := ParseQuantity(tc.in); got != tc.want {
			t.Fatalf("ParseQuantity(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
