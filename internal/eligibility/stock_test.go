package eligibility

import (
	"slices"
	"testing"

	"printcost/internal/domain"
)

func stockProduct(brand string) domain.Product {
	return domain.Product{
		ID:     "p-5001",
		Code:   "5001-01",
		Brand:  brand,
		Colors: []string{"001", "002", "003"},
		Prices: []domain.ProductPrice{
			{ColorType: "white", Size: "S", Price: 700},
			{ColorType: "white", Size: "M", Price: 700},
			{ColorType: "color", Size: "S", Price: 800},
			{ColorType: "color", Size: "M", Price: 800},
		},
	}
}

func TestStockPolicyTrackedBrand(t *testing.T) {
	stock := StockTable{
		StockKey("5001-01", "002", "M"): 4,
		StockKey("5001-01", "003", "S"): 0,
	}
	policy := NewStockPolicy(stock, nil, false)
	product := stockProduct("United Athle")

	if got := AvailableColors(product, policy); !slices.Equal(got, []string{"002"}) {
		t.Fatalf("colors = %v, want [002]", got)
	}
	if got := AvailableSizesForColor(product, "002", policy); !slices.Equal(got, []string{"M"}) {
		t.Fatalf("sizes = %v, want [M]", got)
	}
	if got := ResolveColor(product, "001", policy); got != "002" {
		t.Fatalf("resolved color = %q, want 002", got)
	}
	if got := ResolveSize(product, "002", "S", policy); got != "M" {
		t.Fatalf("resolved size = %q, want M", got)
	}
	if got := ResolveSize(product, "003", "S", policy); got != "" {
		t.Fatalf("resolved size = %q, want empty", got)
	}
}

func TestStockPolicyUntrackedBrandAndPrivileged(t *testing.T) {
	policy := NewStockPolicy(StockTable{}, nil, false)

	other := stockProduct("Gildan")
	if got := AvailableColors(other, policy); len(got) != 3 {
		t.Fatalf("untracked brand colors = %v, want all", got)
	}
	if got := ResolveColor(other, "003", policy); got != "003" {
		t.Fatalf("current color should be kept, got %q", got)
	}

	privileged := NewStockPolicy(StockTable{}, nil, true)
	if got := AvailableSizesForColor(stockProduct("Print Star"), "001", privileged); len(got) != 2 {
		t.Fatalf("privileged sizes = %v, want all", got)
	}
}
