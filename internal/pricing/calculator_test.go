package pricing

import (
	"testing"

	"printcost/internal/domain"
)

func testPricingData() domain.PricingData {
	return domain.PricingData{
		SetupCostRules: []domain.SetupCostRule{
			{PlateType: domain.PlateTypeNormal, BaseCost: 0, CostPerColor: 3000},
			{PlateType: domain.PlateTypeDecomposition, BaseCost: 5000, CostPerColor: 4000},
		},
		PrintCostRules: []domain.PrintCostRule{
			{Size: "A4", MinQuantity: 1, BasePrice: 500, ExtraColorPrice: 200},
			{Size: "A4", MinQuantity: 50, BasePrice: 400, ExtraColorPrice: 150},
			{Location: "back", Size: "A4", MinQuantity: 1, BasePrice: 600, ExtraColorPrice: 250},
		},
		SpecialInkOptions: []domain.SpecialInkOption{
			{Type: "gold", DisplayName: "Gold", Cost: 2000, AppliesTo: domain.InkAppliesToSetup},
			{Type: "glow", DisplayName: "Glow", Cost: 50, AppliesTo: domain.InkAppliesToPrint},
		},
		ShippingRules: []domain.ShippingRule{
			{MinSubtotal: 0, Cost: 1500},
			{MinSubtotal: 30000, Cost: 0},
		},
		TaxRate: 0.1,
	}
}

func TestCalculate_GarmentSetupPrintAndTax(t *testing.T) {
	result := Calculate(Input{
		Items: []domain.OrderDetail{
			{ProductID: "p1", Color: "White", Size: "M", Quantity: 10, UnitPrice: 1000},
		},
		Designs: []domain.PrintDesign{
			{ID: "d1", Location: "front", Size: "A4", Colors: 2, PlateType: domain.PlateTypeNormal},
		},
		Data: testPricingData(),
	})

	if result.TshirtCost != 10000 {
		t.Fatalf("tshirt cost = %d, want 10000", result.TshirtCost)
	}
	if result.SetupCost != 6000 {
		t.Fatalf("setup cost = %d, want 6000", result.SetupCost)
	}
	if result.PrintCost != 7000 {
		t.Fatalf("print cost = %d, want 7000", result.PrintCost)
	}
	if result.TotalCost != 23000 {
		t.Fatalf("total cost = %d, want 23000", result.TotalCost)
	}
	if result.ShippingCost != 1500 {
		t.Fatalf("shipping = %d, want 1500", result.ShippingCost)
	}
	if result.Tax != 2300 {
		t.Fatalf("tax = %d, want 2300", result.Tax)
	}
	if result.TotalCostWithTax != 26800 {
		t.Fatalf("total with tax = %d, want 26800", result.TotalCostWithTax)
	}
	if result.CostPerShirt != 2300 {
		t.Fatalf("cost per shirt = %d, want 2300", result.CostPerShirt)
	}
	if result.PrintCostDetail.ByLocation["front"] != 7000 {
		t.Fatalf("by location front = %d, want 7000", result.PrintCostDetail.ByLocation["front"])
	}
}

func TestCalculate_OverridePrintQuantityOnlyAffectsPrint(t *testing.T) {
	result := Calculate(Input{
		Items: []domain.OrderDetail{
			{ProductID: "p1", Color: "White", Size: "M", Quantity: 10, UnitPrice: 1000},
		},
		Designs: []domain.PrintDesign{
			{ID: "d1", Location: "front", Size: "A4", Colors: 2, PlateType: domain.PlateTypeNormal},
		},
		Data:                  testPricingData(),
		OverridePrintQuantity: 60,
	})

	if result.PrintQuantity != 60 {
		t.Fatalf("print quantity = %d, want 60", result.PrintQuantity)
	}
	if result.PrintCost != 33000 {
		t.Fatalf("print cost = %d, want 33000", result.PrintCost)
	}
	if result.TshirtCost != 10000 {
		t.Fatalf("tshirt cost = %d, want 10000", result.TshirtCost)
	}
	if result.TotalQuantity != 10 {
		t.Fatalf("total quantity = %d, want 10", result.TotalQuantity)
	}
}

func TestCalculate_SpecialInksAndLocationSpecificTier(t *testing.T) {
	result := Calculate(Input{
		Items: []domain.OrderDetail{
			{ProductID: "p1", Color: "Black", Size: "L", Quantity: 10, UnitPrice: 0},
		},
		Designs: []domain.PrintDesign{{
			ID:        "d1",
			Location:  "back",
			Size:      "A4",
			Colors:    3,
			PlateType: domain.PlateTypeDecomposition,
			SpecialInks: []domain.SpecialInk{
				{Type: "gold", Count: 1},
				{Type: "glow", Count: 2},
			},
		}},
		Data: testPricingData(),
	})

	if result.PrintCost != 12000 {
		t.Fatalf("print cost = %d, want 12000", result.PrintCost)
	}
	if result.SetupCost != 19000 {
		t.Fatalf("setup cost = %d, want 19000", result.SetupCost)
	}
	if result.SpecialInkCost != 3000 {
		t.Fatalf("special ink cost = %d, want 3000", result.SpecialInkCost)
	}
	if result.PrintCostDetail.Base != 6000 {
		t.Fatalf("print base = %d, want 6000", result.PrintCostDetail.Base)
	}
	if result.PrintCostDetail.ByInk["glow"] != 1000 {
		t.Fatalf("glow ink = %d, want 1000", result.PrintCostDetail.ByInk["glow"])
	}
	if result.PrintCostDetail.ByInk["extra_color"] != 5000 {
		t.Fatalf("extra color = %d, want 5000", result.PrintCostDetail.ByInk["extra_color"])
	}
	if result.SetupCostDetail.ByPlateType[domain.PlateTypeDecomposition] != 19000 {
		t.Fatalf("decomposition setup = %d, want 19000", result.SetupCostDetail.ByPlateType[domain.PlateTypeDecomposition])
	}
}

func TestCalculate_BringInModeSuppressesGarments(t *testing.T) {
	result := Calculate(Input{
		Items: []domain.OrderDetail{
			{ProductID: "p1", Color: "White", Size: "M", Quantity: 10, UnitPrice: 1000},
		},
		Designs: []domain.PrintDesign{
			{ID: "d1", Location: "front", Size: "A4", Colors: 1, PlateType: domain.PlateTypeNormal},
		},
		Data:          testPricingData(),
		IsBringInMode: true,
	})

	if result.TshirtCost != 0 {
		t.Fatalf("tshirt cost = %d, want 0", result.TshirtCost)
	}
	if result.PrintCost != 5000 || result.SetupCost != 3000 {
		t.Fatalf("print/setup = %d/%d, want 5000/3000", result.PrintCost, result.SetupCost)
	}
}

func TestCalculate_ZeroQuantityNeverDividesByZero(t *testing.T) {
	result := Calculate(Input{
		Designs: []domain.PrintDesign{
			{ID: "d1", Location: "front", Size: "A4", Colors: 2, PlateType: domain.PlateTypeNormal},
		},
		Data: testPricingData(),
	})

	if result.TotalQuantity != 0 {
		t.Fatalf("total quantity = %d, want 0", result.TotalQuantity)
	}
	if result.CostPerShirt != 0 {
		t.Fatalf("cost per shirt = %d, want 0", result.CostPerShirt)
	}
	if result.PrintCost != 0 {
		t.Fatalf("print cost = %d, want 0", result.PrintCost)
	}
	if result.SetupCost != 6000 {
		t.Fatalf("setup cost = %d, want 6000", result.SetupCost)
	}
}

func TestCalculate_EmptyOrderIsZeroFilled(t *testing.T) {
	result := Calculate(Input{Data: testPricingData()})
	if result.TotalCost != 0 || result.ShippingCost != 0 || result.TotalCostWithTax != 0 {
		t.Fatalf("expected zero breakdown, got %+v", result)
	}
	if result.PrintCostDetail.BySize == nil || result.SetupCostDetail.ByPlateType == nil {
		t.Fatalf("expected allocated detail maps")
	}
}

func TestCalculate_FreeShippingAboveThreshold(t *testing.T) {
	result := Calculate(Input{
		Items: []domain.OrderDetail{
			{ProductID: "p1", Color: "White", Size: "M", Quantity: 40, UnitPrice: 1000},
		},
		Data: testPricingData(),
	})
	if result.ShippingCost != 0 {
		t.Fatalf("shipping = %d, want 0", result.ShippingCost)
	}
	if result.TotalCostWithTax != 44000 {
		t.Fatalf("total with tax = %d, want 44000", result.TotalCostWithTax)
	}
}

func TestRoundingIsHalfUp(t *testing.T) {
	if got := MulRate(23005, 0.1); got != 2301 {
		t.Fatalf("MulRate = %d, want 2301", got)
	}
	if got := DivRound(10, 4); got != 3 {
		t.Fatalf("DivRound = %d, want 3", got)
	}
	if got := DivRound(10, 0); got != 0 {
		t.Fatalf("DivRound by zero = %d, want 0", got)
	}
}

func TestResolveUnitPrice_PartnerRate(t *testing.T) {
	product := domain.Product{
		ID: "p1",
		Prices: []domain.ProductPrice{
			{ColorType: "white", Size: "M", Price: 800, ListPrice: 1200},
			{ColorType: "color", Size: "M", Price: 900, ListPrice: 1350},
		},
	}
	palette := []domain.ColorEntry{
		{Code: "001", Name: "White", Type: "white"},
		{Code: "002", Name: "Black", Type: "color"},
	}

	price, ok := ResolveUnitPrice(product, palette, "002", "M", nil)
	if !ok || price != 900 {
		t.Fatalf("catalog price = %d (ok=%t), want 900", price, ok)
	}

	price, ok = ResolveUnitPrice(product, palette, "002", "M", &domain.Partner{ID: "pt", Rate: 0.55})
	if !ok || price != 743 {
		t.Fatalf("partner price = %d (ok=%t), want 743", price, ok)
	}

	price, _ = ResolveUnitPrice(product, palette, "001", "M", &domain.Partner{ID: "pt", Rate: 0})
	if price != 800 {
		t.Fatalf("zero-rate partner price = %d, want 800", price)
	}

	if _, ok := ResolveUnitPrice(product, palette, "001", "XL", nil); ok {
		t.Fatalf("expected missing size to be unresolved")
	}
}

func TestPrintCostTable_GreatestQualifyingTier(t *testing.T) {
	table := PrintCostTable(testPricingData().PrintCostRules)

	rule, ok := table.Lookup("front", "A4", 49)
	if !ok || rule.MinQuantity != 1 {
		t.Fatalf("tier for 49 = %+v (ok=%t), want min 1", rule, ok)
	}
	rule, ok = table.Lookup("front", "A4", 50)
	if !ok || rule.MinQuantity != 50 {
		t.Fatalf("tier for 50 = %+v (ok=%t), want min 50", rule, ok)
	}
	if _, ok := table.Lookup("front", "A3", 50); ok {
		t.Fatalf("expected no tier for unknown size")
	}
}
