// Package seed holds the demo catalog, pricing rules and accounts loaded by
// the in-memory store and by an empty Postgres database.
package seed

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"printcost/internal/domain"
)

// Dataset is everything a fresh store starts with.
type Dataset struct {
	Products      []domain.Product
	Pricing       domain.PricingData
	Stock         map[string]int
	Dtf           domain.DtfData
	PrintSettings domain.PrintSettings
	Partners      []domain.Partner
}

func Default() Dataset {
	return Dataset{
		Products:      products(),
		Pricing:       pricing(),
		Stock:         stock(),
		Dtf:           dtfData(),
		PrintSettings: printSettings(),
		Partners: []domain.Partner{
			{ID: "pt-aoi", Name: "Studio Aoi", Rate: 0.6},
			{ID: "pt-list", Name: "List Price Partner", Rate: 0},
		},
	}
}

func tshirtPrices(sizes []string, white, color, whiteList, colorList int64) []domain.ProductPrice {
	prices := make([]domain.ProductPrice, 0, len(sizes)*2)
	for _, size := range sizes {
		prices = append(prices,
			domain.ProductPrice{ColorType: "white", Size: size, Price: white, ListPrice: whiteList},
			domain.ProductPrice{ColorType: "color", Size: size, Price: color, ListPrice: colorList},
		)
	}
	return prices
}

func products() []domain.Product {
	adult := []string{"S", "M", "L", "XL"}
	return []domain.Product{
		{
			ID: "p-ua-5001", Code: "5001-01", Name: "5.6oz Hi-Quality T-Shirt", VariantName: "Adult",
			Brand: "United Athle", CategoryID: "tshirt", Tags: []string{"cotton"},
			Colors: []string{"001", "002", "015"},
			Prices: tshirtPrices(adult, 720, 820, 1100, 1250),
			JANCode: "4580142040013", Description: "Standard heavyweight cotton tee.",
		},
		{
			ID: "p-ps-085", Code: "00085-CVT", Name: "Heavyweight T-Shirt", VariantName: "Adult",
			Brand: "Print Star", CategoryID: "tshirt", Tags: []string{"cotton"},
			Colors: []string{"001", "005"},
			Prices: tshirtPrices(adult, 560, 640, 880, 990),
			JANCode: "4938428000852", Description: "Budget cotton tee.",
		},
		{
			ID: "p-gd-76000b", Code: "76000B", Name: "Premium Cotton Youth Tee", VariantName: "Kids",
			Brand: "Gildan", CategoryID: "tshirt", Tags: []string{"kids"},
			Colors: []string{"001", "002"},
			Prices: tshirtPrices([]string{"100", "110", "120", "130"}, 480, 540, 700, 780),
			Description: "Youth tee, imported; not stock managed.",
		},
		{
			ID: "p-ua-1460", Code: "1460-01", Name: "Canvas Tote Bag", VariantName: "M",
			Brand: "United Athle", CategoryID: "tote", Tags: []string{"canvas"},
			Colors: []string{"001", "002"},
			Prices: []domain.ProductPrice{
				{Size: "F", Price: 420, ListPrice: 650},
			},
			Description: "12oz canvas tote.",
		},
	}
}

func pricing() domain.PricingData {
	return domain.PricingData{
		PrintLocations: []domain.PrintLocation{
			{ID: "front", DisplayName: "Front"},
			{ID: "back", DisplayName: "Back"},
			{ID: "left_chest", DisplayName: "Left chest"},
			{ID: "sleeve", DisplayName: "Sleeve"},
		},
		PrintSizes: []string{"10cm", "A5", "A4", "A3", "B3"},
		PrintSizeConstraints: []domain.PrintSizeConstraint{
			{Type: domain.ConstraintTypeLocation, ID: "left_chest", Sizes: []string{"10cm", "A5"}},
			{Type: domain.ConstraintTypeLocation, ID: "sleeve", Sizes: []string{"10cm"}},
			{Type: domain.ConstraintTypeTag, ID: "kids", Sizes: []string{"10cm", "A5", "A4"}},
			{Type: domain.ConstraintTypeTag, ID: "canvas", Sizes: []string{"A5", "A4", "A3"}},
		},
		CategoryPrintLocations: map[string][]string{
			"tote": {"front", "back"},
		},
		SpecialInkOptions: []domain.SpecialInkOption{
			{Type: "gold", DisplayName: "Gold", Cost: 3000, AppliesTo: domain.InkAppliesToSetup},
			{Type: "silver", DisplayName: "Silver", Cost: 3000, AppliesTo: domain.InkAppliesToSetup},
			{Type: "glow", DisplayName: "Glow in the dark", Cost: 80, AppliesTo: domain.InkAppliesToPrint},
			{Type: "foam", DisplayName: "Foam", Cost: 120, AppliesTo: domain.InkAppliesToPrint},
		},
		SetupCostRules: []domain.SetupCostRule{
			{PlateType: domain.PlateTypeNormal, BaseCost: 0, CostPerColor: 4000},
			{PlateType: domain.PlateTypeDecomposition, BaseCost: 6000, CostPerColor: 5000},
		},
		PrintCostRules: []domain.PrintCostRule{
			{Size: "10cm", MinQuantity: 1, BasePrice: 300, ExtraColorPrice: 150},
			{Size: "10cm", MinQuantity: 30, BasePrice: 250, ExtraColorPrice: 100},
			{Location: "sleeve", Size: "10cm", MinQuantity: 1, BasePrice: 400, ExtraColorPrice: 200},
			{Size: "A5", MinQuantity: 1, BasePrice: 400, ExtraColorPrice: 200},
			{Size: "A5", MinQuantity: 30, BasePrice: 320, ExtraColorPrice: 150},
			{Size: "A4", MinQuantity: 1, BasePrice: 600, ExtraColorPrice: 300},
			{Size: "A4", MinQuantity: 30, BasePrice: 450, ExtraColorPrice: 200},
			{Size: "A4", MinQuantity: 100, BasePrice: 300, ExtraColorPrice: 150},
			{Size: "A3", MinQuantity: 1, BasePrice: 800, ExtraColorPrice: 400},
			{Size: "A3", MinQuantity: 30, BasePrice: 600, ExtraColorPrice: 300},
			{Size: "A3", MinQuantity: 100, BasePrice: 450, ExtraColorPrice: 200},
			{Size: "B3", MinQuantity: 1, BasePrice: 1000, ExtraColorPrice: 500},
			{Size: "B3", MinQuantity: 100, BasePrice: 700, ExtraColorPrice: 350},
		},
		ShippingRules: []domain.ShippingRule{
			{MinSubtotal: 0, Cost: 1500},
			{MinSubtotal: 30000, Cost: 800},
			{MinSubtotal: 50000, Cost: 0},
		},
		TaxRate: 0.1,
		SizeSortOrder: map[string]int{
			"100": 1, "110": 2, "120": 3, "130": 4,
			"S": 10, "M": 11, "L": 12, "XL": 13, "XXL": 14,
			"F": 20,
		},
		ColorPalettes: map[string][]domain.ColorEntry{
			"United Athle": {
				{Code: "001", Name: "White", Type: "white"},
				{Code: "002", Name: "Black", Type: "color"},
				{Code: "015", Name: "Navy", Type: "color"},
			},
			"Print Star": {
				{Code: "001", Name: "White", Type: "white"},
				{Code: "005", Name: "Black", Type: "color"},
			},
			"Gildan": {
				{Code: "001", Name: "White", Type: "white"},
				{Code: "002", Name: "Black", Type: "color"},
			},
		},
		StockBrands:     []string{"United Athle", "Print Star"},
		DtfProfitMargin: 1.8,
		DtfRoundUpTo10:  true,
	}
}

func stock() map[string]int {
	levels := map[string]int{}
	for _, color := range []string{"001", "002", "015"} {
		for _, size := range []string{"S", "M", "L", "XL"} {
			levels[fmt.Sprintf("5001-01-%s-%s", color, size)] = 120
		}
	}
	levels["5001-01-015-XL"] = 0
	for _, color := range []string{"001", "005"} {
		for _, size := range []string{"S", "M", "L", "XL"} {
			levels[fmt.Sprintf("00085-CVT-%s-%s", color, size)] = 60
		}
	}
	levels["00085-CVT-005-L"] = 0
	levels["1460-01-001-F"] = 40
	levels["1460-01-002-F"] = 0
	return levels
}

func dtfData() domain.DtfData {
	return domain.DtfData{
		Consumables: []domain.DtfConsumable{
			{Type: domain.ConsumableFilm, UnitPrice: 12000, ConsumptionRate: 1, Unit: "roll_100m"},
			{Type: domain.ConsumableWhiteInk, UnitPrice: 8, ConsumptionRate: 1.2, Unit: "ml"},
			{Type: domain.ConsumableColorInk, UnitPrice: 6, ConsumptionRate: 0.8, Unit: "ml"},
			{Type: domain.ConsumablePowder, UnitPrice: 2, ConsumptionRate: 1, Unit: "g"},
		},
		Equipment: []domain.DtfEquipment{
			{Name: "DTF printer", PurchasePrice: 1980000, DepreciationYears: 5, PowerConsumptionW: 1200},
			{Name: "Powder shaker", PurchasePrice: 600000, DepreciationYears: 5, PowerConsumptionW: 2500},
			{Name: "Heat press", PurchasePrice: 180000, DepreciationYears: 3, PowerConsumptionW: 1500},
		},
		LaborCosts: []domain.DtfLaborCost{
			{Name: "Operator", CostPerHour: 1500, SetupFee: 1000},
		},
		ElectricityRates: []domain.DtfElectricityRate{
			{Name: "Low voltage", Tier2Rate: 31},
		},
		PressTimeCosts: []domain.DtfPressTimeCost{
			{Minutes: 0.5, PricePerPress: 40},
			{Minutes: 1, PricePerPress: 60},
			{Minutes: 2, PricePerPress: 100},
		},
		Printers: []domain.DtfPrinter{
			{ID: "xp600", Name: "Epson XP600 dual head", MaxWidthMm: 300},
			{ID: "i3200", Name: "Epson i3200 quad head", MaxWidthMm: 600},
		},
		PrintSpeeds: []domain.DtfPrintSpeed{
			{PrinterID: "xp600", Resolution: "720x1200", SpeedSqmPerHour: 1.5, InkDensity: 1},
			{PrinterID: "xp600", Resolution: "720x1200", SpeedSqmPerHour: 1.0, InkDensity: 2},
			{PrinterID: "xp600", Resolution: "720x2400", SpeedSqmPerHour: 0.8, InkDensity: 1},
			{PrinterID: "i3200", Resolution: "720x1200", SpeedSqmPerHour: 8, InkDensity: 1},
		},
	}
}

func printSettings() domain.PrintSettings {
	return domain.PrintSettings{
		FilmWidthMm:             300,
		LogoMarginMm:            5,
		PrintSpeedMetersPerHour: 5,
		MonthlyWorkHours:        160,
		PressTimeMinutes:        1,
		PressHourlyRate:         2400,
		ProfitMargin:            1.8,
		RoundUpTo10:             true,
	}
}

// Users builds the demo accounts. Passwords come from SEED_ADMIN_PASSWORD,
// SEED_PARTNER_PASSWORD and SEED_CUSTOMER_PASSWORD; unset values fall back to
// dev defaults with a warning.
func Users(logger *zap.Logger) ([]domain.UserAccount, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	partnerPwd := envOr("SEED_PARTNER_PASSWORD", "partner123")
	customerPwd := envOr("SEED_CUSTOMER_PASSWORD", "customer123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_PARTNER_PASSWORD") == "" || os.Getenv("SEED_CUSTOMER_PASSWORD") == "" {
		logger.Warn("using default dev credentials for seeded users")
	}

	now := time.Now().UTC()
	users := make([]domain.UserAccount, 0, 3)
	for _, u := range []struct {
		username  string
		password  string
		role      string
		partnerID string
	}{
		{"admin", adminPwd, domain.RoleAdmin, ""},
		{"aoi", partnerPwd, domain.RolePartner, "pt-aoi"},
		{"customer", customerPwd, domain.RoleCustomer, ""},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash seed password for %s: %w", u.username, err)
		}
		users = append(users, domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			PartnerID: u.partnerID,
			Active:    true,
			CreatedAt: now,
		})
	}
	return users, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
