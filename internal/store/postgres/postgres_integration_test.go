package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"printcost/internal/domain"
	"printcost/internal/store"
	"printcost/internal/store/seed"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	databaseURL := os.Getenv("PRINTCOST_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set PRINTCOST_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL, Options{ConnectTimeout: 10 * time.Second}, zap.NewNop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := s.Seed(ctx, seed.Default(), nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func TestSeededCatalogAndRulesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	products, err := s.ListProducts(ctx)
	if err != nil || len(products) == 0 {
		t.Fatalf("list products: %v (len=%d)", err, len(products))
	}
	product, err := s.GetProduct(ctx, products[0].ID)
	if err != nil || len(product.Prices) == 0 {
		t.Fatalf("get product: %v (%+v)", err, product)
	}

	pricing, err := s.GetPricingData(ctx)
	if err != nil || len(pricing.PrintCostRules) == 0 {
		t.Fatalf("pricing data: %v", err)
	}
	if _, err := s.GetDtfData(ctx); err != nil {
		t.Fatalf("dtf data: %v", err)
	}
	if _, err := s.GetPartner(ctx, "missing-partner"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQuoteAndStockPersistence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	stamp := time.Now().UnixNano()
	quoteID := fmt.Sprintf("quote-it-%d", stamp)
	stockKey := fmt.Sprintf("IT-%d-001-M", stamp)
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = $1`, quoteID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM stock_levels WHERE stock_key = $1`, stockKey)
	})

	created, err := s.CreateQuote(ctx, domain.Quote{
		ID:       quoteID,
		Customer: domain.Customer{Name: "Integration", Email: "it@example.com"},
		Items:    []domain.OrderDetail{{ProductID: "p-ua-5001", Color: "White", Size: "M", Quantity: 2, UnitPrice: 720}},
		Cost:     domain.CostDetails{TotalCost: 1440, TotalCostWithTax: 3084},
	})
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}
	if _, err := s.CreateQuote(ctx, *created); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected duplicate quote id to be rejected, got %v", err)
	}

	got, err := s.GetQuote(ctx, quoteID)
	if err != nil {
		t.Fatalf("get quote: %v", err)
	}
	if got.Cost.TotalCostWithTax != 3084 || len(got.Items) != 1 {
		t.Fatalf("unexpected quote %+v", got)
	}

	if err := s.SetStock(ctx, stockKey, 7); err != nil {
		t.Fatalf("set stock: %v", err)
	}
	stock, err := s.GetStock(ctx)
	if err != nil || stock[stockKey] != 7 {
		t.Fatalf("stock = %d (err=%v), want 7", stock[stockKey], err)
	}
}
