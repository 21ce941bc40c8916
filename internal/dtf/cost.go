package dtf

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"printcost/internal/domain"
)

// setupHours is added to every run for loading film and warming the printer.
const setupHours = 0.5

// CalculateDtfCost prices a batch of identical transfers. It returns nil when
// the inputs are not yet computable: a non-positive dimension or quantity, a
// logo wider than the film, or no print speed.
func CalculateDtfCost(inputs domain.DtfInputs, data domain.DtfData, settings domain.PrintSettings, logger *zap.Logger) *domain.DtfCalculationResult {
	if logger == nil {
		logger = zap.NewNop()
	}
	if inputs.LogoWidthMm <= 0 || inputs.LogoHeightMm <= 0 || inputs.LogoQuantity <= 0 {
		return nil
	}

	layout := CalculateLayout(inputs.LogoWidthMm, inputs.LogoHeightMm, inputs.LogoQuantity, settings)
	if layout.LogosPerRow <= 0 {
		return nil
	}
	if settings.PrintSpeedMetersPerHour <= 0 {
		return nil
	}

	qty := float64(inputs.LogoQuantity)
	length := layout.TotalFilmLengthMeters
	areaCm2 := (inputs.LogoWidthMm / 10) * (inputs.LogoHeightMm / 10)

	var film, whiteInk, colorInk, powder float64
	if c, ok := consumable(data, domain.ConsumableFilm); ok {
		film = c.UnitPrice / 100 * length
	}
	areaCost := func(kind string) float64 {
		c, ok := consumable(data, kind)
		if !ok {
			return 0
		}
		return areaCm2 * qty * c.UnitPrice / 1000 * c.ConsumptionRate
	}
	whiteInk = areaCost(domain.ConsumableWhiteInk)
	colorInk = areaCost(domain.ConsumableColorInk)
	powder = areaCost(domain.ConsumablePowder)

	printHours := length / settings.PrintSpeedMetersPerHour
	workHours := printHours + setupHours

	var depreciationPerHour, watts float64
	for _, eq := range data.Equipment {
		watts += eq.PowerConsumptionW
		if eq.DepreciationYears <= 0 || settings.MonthlyWorkHours <= 0 {
			continue
		}
		depreciationPerHour += eq.PurchasePrice / (eq.DepreciationYears * 12) / settings.MonthlyWorkHours
	}
	equipment := depreciationPerHour * workHours

	var electricity float64
	if len(data.ElectricityRates) > 0 {
		electricity = watts * workHours / 1000 * data.ElectricityRates[0].Tier2Rate
	}

	var labor, setupFee float64
	if len(data.LaborCosts) > 0 {
		labor = data.LaborCosts[0].CostPerHour * workHours
		setupFee = data.LaborCosts[0].SetupFee
	}

	perPress, ok := PressTable(data.PressTimeCosts).Lookup(settings.PressTimeMinutes)
	if !ok {
		perPress = settings.PressHourlyRate / 60 * settings.PressTimeMinutes
		logger.Warn("no press tier for press time, using hourly rate",
			zap.Float64("press_minutes", settings.PressTimeMinutes),
			zap.Float64("hourly_rate", settings.PressHourlyRate),
			zap.Float64("price_per_press", perPress),
		)
	}
	press := perPress * qty

	total := film + whiteInk + colorInk + powder + equipment + electricity + labor + setupFee + press
	costPerItem := total / qty

	return &domain.DtfCalculationResult{
		CostPerItem:         costPerItem,
		SellingPricePerItem: SellingPrice(costPerItem, settings.ProfitMargin, settings.RoundUpTo10),
		DetailsPerItem: domain.DtfCostDetails{
			Film:                   film / qty,
			WhiteInk:               whiteInk / qty,
			ColorInk:               colorInk / qty,
			Powder:                 powder / qty,
			Setup:                  setupFee / qty,
			EquipmentAndPrintLabor: (equipment + labor) / qty,
			Electricity:            electricity / qty,
			Press:                  perPress,
		},
		TotalFilmLengthMeters: length,
		PrintTimeHours:        printHours,
		Layout:                layout,
	}
}

// SellingPrice applies the profit margin to a unit cost, optionally rounding
// up to the next multiple of 10. A non-positive margin sells at cost.
func SellingPrice(costPerItem, profitMargin float64, roundUpTo10 bool) float64 {
	if profitMargin <= 0 {
		profitMargin = 1
	}
	price := decimal.NewFromFloat(costPerItem).Mul(decimal.NewFromFloat(profitMargin))
	if roundUpTo10 {
		ten := decimal.NewFromInt(10)
		price = price.Div(ten).Ceil().Mul(ten)
	}
	return price.InexactFloat64()
}
