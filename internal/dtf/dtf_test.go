package dtf

import (
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"printcost/internal/domain"
)

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func testSettings() domain.PrintSettings {
	return domain.PrintSettings{
		FilmWidthMm:             300,
		LogoMarginMm:            0,
		PrintSpeedMetersPerHour: 2,
		MonthlyWorkHours:        160,
		PressTimeMinutes:        1,
		PressHourlyRate:         1200,
		ProfitMargin:            1.5,
	}
}

func testDtfData() domain.DtfData {
	return domain.DtfData{
		Consumables: []domain.DtfConsumable{
			{Type: domain.ConsumableFilm, UnitPrice: 10000, ConsumptionRate: 1, Unit: "roll"},
			{Type: domain.ConsumableWhiteInk, UnitPrice: 2, ConsumptionRate: 1, Unit: "ml"},
			{Type: domain.ConsumableColorInk, UnitPrice: 3, ConsumptionRate: 0.5, Unit: "ml"},
			{Type: domain.ConsumablePowder, UnitPrice: 1, ConsumptionRate: 1, Unit: "g"},
		},
		Equipment: []domain.DtfEquipment{
			{Name: "printer", PurchasePrice: 1920000, DepreciationYears: 5, PowerConsumptionW: 1000},
		},
		LaborCosts:       []domain.DtfLaborCost{{Name: "operator", CostPerHour: 1500, SetupFee: 500}},
		ElectricityRates: []domain.DtfElectricityRate{{Name: "standard", Tier2Rate: 30}},
		PressTimeCosts: []domain.DtfPressTimeCost{
			{Minutes: 1, PricePerPress: 50},
			{Minutes: 2, PricePerPress: 80},
		},
	}
}

func TestCalculateLayout(t *testing.T) {
	layout := CalculateLayout(100, 100, 10, domain.PrintSettings{FilmWidthMm: 300, LogoMarginMm: 0})
	if layout.LogosPerRow != 3 {
		t.Fatalf("logos per row = %d, want 3", layout.LogosPerRow)
	}
	if layout.RowsNeeded != 4 {
		t.Fatalf("rows needed = %d, want 4", layout.RowsNeeded)
	}
	if !nearlyEqual(layout.TotalFilmLengthMeters, 0.4) {
		t.Fatalf("film length = %f, want 0.4", layout.TotalFilmLengthMeters)
	}
}

func TestCalculateLayoutWithMargin(t *testing.T) {
	layout := CalculateLayout(90, 50, 7, domain.PrintSettings{FilmWidthMm: 300, LogoMarginMm: 10})
	if layout.LogosPerRow != 3 || layout.RowsNeeded != 3 {
		t.Fatalf("layout = %+v, want 3 per row x 3 rows", layout)
	}
	if !nearlyEqual(layout.TotalFilmLengthMeters, 0.18) {
		t.Fatalf("film length = %f, want 0.18", layout.TotalFilmLengthMeters)
	}
}

func TestCalculateDtfCostReturnsNilWhenNotComputable(t *testing.T) {
	data := testDtfData()
	settings := testSettings()

	if got := CalculateDtfCost(domain.DtfInputs{LogoWidthMm: 100, LogoHeightMm: 100, LogoQuantity: 0}, data, settings, nil); got != nil {
		t.Fatalf("expected nil for zero quantity, got %+v", got)
	}
	if got := CalculateDtfCost(domain.DtfInputs{LogoWidthMm: 400, LogoHeightMm: 100, LogoQuantity: 5}, data, settings, nil); got != nil {
		t.Fatalf("expected nil when logo is wider than film, got %+v", got)
	}
	settings.PrintSpeedMetersPerHour = 0
	if got := CalculateDtfCost(domain.DtfInputs{LogoWidthMm: 100, LogoHeightMm: 100, LogoQuantity: 5}, data, settings, nil); got != nil {
		t.Fatalf("expected nil without print speed, got %+v", got)
	}
}

func TestCalculateDtfCostBreakdown(t *testing.T) {
	result := CalculateDtfCost(domain.DtfInputs{LogoWidthMm: 100, LogoHeightMm: 100, LogoQuantity: 10}, testDtfData(), testSettings(), zap.NewNop())
	if result == nil {
		t.Fatalf("expected result")
	}

	if !nearlyEqual(result.PrintTimeHours, 0.2) {
		t.Fatalf("print hours = %f, want 0.2", result.PrintTimeHours)
	}
	if !nearlyEqual(result.DetailsPerItem.Film, 4) {
		t.Fatalf("film per item = %f, want 4", result.DetailsPerItem.Film)
	}
	if !nearlyEqual(result.DetailsPerItem.WhiteInk, 0.2) || !nearlyEqual(result.DetailsPerItem.ColorInk, 0.15) || !nearlyEqual(result.DetailsPerItem.Powder, 0.1) {
		t.Fatalf("ink/powder per item = %+v", result.DetailsPerItem)
	}
	if !nearlyEqual(result.DetailsPerItem.EquipmentAndPrintLabor, 119) {
		t.Fatalf("equipment+labor per item = %f, want 119", result.DetailsPerItem.EquipmentAndPrintLabor)
	}
	if !nearlyEqual(result.DetailsPerItem.Electricity, 2.1) {
		t.Fatalf("electricity per item = %f, want 2.1", result.DetailsPerItem.Electricity)
	}
	if !nearlyEqual(result.DetailsPerItem.Setup, 50) || !nearlyEqual(result.DetailsPerItem.Press, 50) {
		t.Fatalf("setup/press per item = %+v", result.DetailsPerItem)
	}
	if !nearlyEqual(result.CostPerItem, 225.55) {
		t.Fatalf("cost per item = %f, want 225.55", result.CostPerItem)
	}
	if !nearlyEqual(result.SellingPricePerItem, 338.325) {
		t.Fatalf("selling price = %f, want 338.325", result.SellingPricePerItem)
	}
	if result.Layout.RowsNeeded != 4 {
		t.Fatalf("rows = %d, want 4", result.Layout.RowsNeeded)
	}
}

func TestSellingPriceRoundUp(t *testing.T) {
	if got := SellingPrice(101, 1, true); got != 110 {
		t.Fatalf("rounded selling price = %f, want 110", got)
	}
	if got := SellingPrice(101, 1, false); got != 101 {
		t.Fatalf("selling price = %f, want 101", got)
	}
	if got := SellingPrice(110, 1, true); got != 110 {
		t.Fatalf("exact multiple = %f, want 110", got)
	}
}

func TestPressFallbackLogsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	data := testDtfData()
	data.PressTimeCosts = []domain.DtfPressTimeCost{{Minutes: 2, PricePerPress: 80}}

	result := CalculateDtfCost(domain.DtfInputs{LogoWidthMm: 100, LogoHeightMm: 100, LogoQuantity: 10}, data, testSettings(), zap.New(core))
	if result == nil {
		t.Fatalf("expected result")
	}
	if !nearlyEqual(result.DetailsPerItem.Press, 20) {
		t.Fatalf("fallback press = %f, want 20", result.DetailsPerItem.Press)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
}

func TestPressTableLookup(t *testing.T) {
	table := PressTable(testDtfData().PressTimeCosts)
	if price, ok := table.Lookup(1.5); !ok || price != 50 {
		t.Fatalf("lookup(1.5) = %f (ok=%t), want 50", price, ok)
	}
	if price, ok := table.Lookup(5); !ok || price != 80 {
		t.Fatalf("lookup(5) = %f (ok=%t), want 80", price, ok)
	}
	if _, ok := table.Lookup(0.5); ok {
		t.Fatalf("expected miss below the first tier")
	}
}

func TestResolvePrintSpeed(t *testing.T) {
	printers := []domain.DtfPrinter{{ID: "xp600", Name: "XP600", MaxWidthMm: 300}}
	speeds := []domain.DtfPrintSpeed{
		{PrinterID: "xp600", Resolution: "720x1200", SpeedSqmPerHour: 1.2, InkDensity: 1},
		{PrinterID: "xp600", Resolution: "720x1200", SpeedSqmPerHour: 0.9, InkDensity: 2},
	}

	speed, ok := ResolvePrintSpeed(printers, speeds, "", "720x1200", 2, 300)
	if !ok || !nearlyEqual(speed, 3) {
		t.Fatalf("speed = %f (ok=%t), want 3", speed, ok)
	}
	speed, ok = ResolvePrintSpeed(printers, speeds, "xp600", "", 0, 300)
	if !ok || !nearlyEqual(speed, 4) {
		t.Fatalf("speed = %f (ok=%t), want 4", speed, ok)
	}
	if _, ok := ResolvePrintSpeed(printers, speeds, "other", "", 0, 300); ok {
		t.Fatalf("expected unknown printer to miss")
	}
}
