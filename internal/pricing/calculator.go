package pricing

import (
	"github.com/shopspring/decimal"

	"printcost/internal/domain"
)

// Input is everything the estimator needs to price an order.
type Input struct {
	Items   []domain.OrderDetail
	Designs []domain.PrintDesign
	Data    domain.PricingData
	// OverridePrintQuantity replaces the order quantity for print costs when > 0.
	OverridePrintQuantity int
	// IsBringInMode suppresses garment costs; the customer supplies blanks.
	IsBringInMode bool
	// DtfCost is the already-priced total of DTF transfers on the order.
	DtfCost int64
}

// Calculate turns an order and the pricing rules into a cost breakdown.
// It has no side effects and never fails; an order with nothing to price
// yields a zero-filled breakdown.
func Calculate(in Input) domain.CostDetails {
	details := ZeroCostDetails()

	totalQuantity := TotalQuantity(in.Items)
	printQuantity := totalQuantity
	if in.OverridePrintQuantity > 0 {
		printQuantity = in.OverridePrintQuantity
	}
	details.TotalQuantity = totalQuantity
	details.PrintQuantity = printQuantity

	if len(in.Items) == 0 && len(in.Designs) == 0 && in.DtfCost <= 0 {
		return details
	}

	if !in.IsBringInMode {
		details.TshirtCost = GarmentCost(in.Items)
	}

	inks := SpecialInkTable(in.Data.SpecialInkOptions)

	setupCost, setupDetail := SetupCost(in.Designs, SetupCostTable(in.Data.SetupCostRules), inks)
	details.SetupCost = setupCost
	details.SetupCostDetail = setupDetail

	printCost, printInk, printDetail := PrintCost(in.Designs, printQuantity, PrintCostTable(in.Data.PrintCostRules), inks)
	details.PrintCost = printCost
	details.PrintCostDetail = printDetail

	details.SpecialInkCost = setupDetail.SpecialInk + printInk
	if in.DtfCost > 0 {
		details.DtfCost = in.DtfCost
	}

	details.TotalCost = details.TshirtCost + details.SetupCost + details.PrintCost + details.DtfCost
	details.ShippingCost = ShippingTable(in.Data.ShippingRules).Lookup(details.TotalCost)
	details.Tax = MulRate(details.TotalCost, in.Data.TaxRate)
	details.TotalCostWithTax = details.TotalCost + details.Tax + details.ShippingCost
	details.CostPerShirt = DivRound(details.TotalCost, totalQuantity)

	return details
}

// ZeroCostDetails returns an empty breakdown with its maps allocated.
func ZeroCostDetails() domain.CostDetails {
	return domain.CostDetails{
		PrintCostDetail: domain.PrintCostDetail{
			ByItem:      []domain.ItemPrintCost{},
			BySize:      map[string]int64{},
			ByInk:       map[string]int64{},
			ByLocation:  map[string]int64{},
			ByPlateType: map[string]int64{},
		},
		SetupCostDetail: domain.SetupCostDetail{
			ByDesign:    []domain.DesignSetupCost{},
			ByPlateType: map[string]int64{},
		},
	}
}

// LineTotal prices count units at a fractional per-unit price.
func LineTotal(unitPrice float64, count int) int64 {
	if count <= 0 || unitPrice <= 0 {
		return 0
	}
	return Round(decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(count))))
}
