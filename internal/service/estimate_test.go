package service

import (
	"context"
	"testing"

	"printcost/internal/domain"
	"printcost/internal/dtf"
	"printcost/internal/store/memory"
)

type marginRepo struct {
	*memory.Store
	margin float64
}

func (r *marginRepo) GetPricingData(ctx context.Context) (domain.PricingData, error) {
	data, err := r.Store.GetPricingData(ctx)
	data.DtfProfitMargin = r.margin
	data.DtfRoundUpTo10 = false
	return data, err
}

func TestDtfMarginMatchesBetweenEstimateAndCalculate(t *testing.T) {
	svc := New(&marginRepo{Store: memory.NewSeeded(nil), margin: 3}, Options{})
	inputs := domain.DtfInputs{LogoWidthMm: 80, LogoHeightMm: 80, LogoQuantity: 10}

	est, err := svc.Estimate(customerCtx, domain.EstimateRequest{DtfDesigns: []domain.DtfDesign{{ID: "logo", Inputs: inputs}}})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	calc, err := svc.CalculateDtf(customerCtx, domain.DtfRequest{Inputs: inputs})
	if err != nil || calc.Result == nil {
		t.Fatalf("calculate dtf: %v", err)
	}

	fromEstimate := est.DtfResults["logo"]
	if fromEstimate == nil || fromEstimate.SellingPricePerItem != calc.Result.SellingPricePerItem {
		t.Fatalf("selling price differs: estimate %+v, calculate %+v", fromEstimate, calc.Result)
	}
	if want := dtf.SellingPrice(calc.Result.CostPerItem, 3, false); calc.Result.SellingPricePerItem != want {
		t.Fatalf("selling price = %v, want %v from the pricing-data margin", calc.Result.SellingPricePerItem, want)
	}

	settings := domain.PrintSettings{FilmWidthMm: 300, LogoMarginMm: 5, PrintSpeedMetersPerHour: 5, MonthlyWorkHours: 160, PressTimeMinutes: 1, PressHourlyRate: 2400, ProfitMargin: 2}
	explicit, err := svc.CalculateDtf(customerCtx, domain.DtfRequest{Inputs: inputs, Settings: &settings})
	if err != nil || explicit.Result == nil {
		t.Fatalf("calculate with explicit settings: %v", err)
	}
	if want := dtf.SellingPrice(explicit.Result.CostPerItem, 2, false); explicit.Result.SellingPricePerItem != want {
		t.Fatalf("explicit settings selling price = %v, want %v", explicit.Result.SellingPricePerItem, want)
	}
}
