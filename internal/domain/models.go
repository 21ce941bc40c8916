package domain

import "time"

const (
	PlateTypeNormal        = "normal"
	PlateTypeDecomposition = "decomposition"
)

const (
	ConstraintTypeLocation = "location"
	ConstraintTypeTag      = "tag"
)

const (
	InkAppliesToSetup = "setup"
	InkAppliesToPrint = "print"
)

const (
	RoleAdmin    = "admin"
	RolePartner  = "partner"
	RoleCustomer = "customer"
)

const (
	ConsumableFilm     = "film"
	ConsumableWhiteInk = "white_ink"
	ConsumableColorInk = "color_ink"
	ConsumablePowder   = "powder"
)

type OrderDetail struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Color       string `json:"color"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

type SpecialInk struct {
	Type  string `json:"type"`
	Count int    `json:"count" validate:"gte=1"`
}

type PrintDesign struct {
	ID          string       `json:"id"`
	Location    string       `json:"location"`
	Size        string       `json:"size"`
	Colors      int          `json:"colors"`
	SpecialInks []SpecialInk `json:"special_inks" validate:"dive"`
	PlateType   string       `json:"plate_type"`
}

type ProductPrice struct {
	ColorType string `json:"color_type"`
	Size      string `json:"size"`
	Price     int64  `json:"price"`
	ListPrice int64  `json:"list_price"`
}

type Product struct {
	ID          string         `json:"id"`
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	VariantName string         `json:"variant_name"`
	Brand       string         `json:"brand"`
	CategoryID  string         `json:"category_id"`
	Tags        []string       `json:"tags"`
	Colors      []string       `json:"colors"`
	Prices      []ProductPrice `json:"prices"`
	JANCode     string         `json:"jan_code"`
	Description string         `json:"description"`
}

// Sizes lists the distinct sizes priced for the product, in price-table order.
func (p Product) Sizes() []string {
	seen := make(map[string]struct{}, len(p.Prices))
	sizes := make([]string, 0, len(p.Prices))
	for _, price := range p.Prices {
		if _, ok := seen[price.Size]; ok {
			continue
		}
		seen[price.Size] = struct{}{}
		sizes = append(sizes, price.Size)
	}
	return sizes
}

type ColorEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type PrintLocation struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type PrintSizeConstraint struct {
	Type  string   `json:"type"`
	ID    string   `json:"id"`
	Sizes []string `json:"sizes"`
}

type SpecialInkOption struct {
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	Cost        int64  `json:"cost"`
	AppliesTo   string `json:"applies_to"`
}

type SetupCostRule struct {
	PlateType    string `json:"plate_type"`
	BaseCost     int64  `json:"base_cost"`
	CostPerColor int64  `json:"cost_per_color"`
}

type PrintCostRule struct {
	Location        string `json:"location,omitempty"`
	Size            string `json:"size"`
	MinQuantity     int    `json:"min_quantity"`
	BasePrice       int64  `json:"base_price"`
	ExtraColorPrice int64  `json:"extra_color_price"`
}

type ShippingRule struct {
	MinSubtotal int64 `json:"min_subtotal"`
	Cost        int64 `json:"cost"`
}

type PricingData struct {
	PrintLocations         []PrintLocation         `json:"print_locations"`
	PrintSizes             []string                `json:"print_sizes"`
	PrintSizeConstraints   []PrintSizeConstraint   `json:"print_size_constraints"`
	CategoryPrintLocations map[string][]string     `json:"category_print_locations"`
	SpecialInkOptions      []SpecialInkOption      `json:"special_ink_options"`
	SetupCostRules         []SetupCostRule         `json:"setup_cost_rules"`
	PrintCostRules         []PrintCostRule         `json:"print_cost_rules"`
	ShippingRules          []ShippingRule          `json:"shipping_rules"`
	TaxRate                float64                 `json:"tax_rate"`
	SizeSortOrder          map[string]int          `json:"size_sort_order"`
	ColorPalettes          map[string][]ColorEntry `json:"color_palettes"`
	StockBrands            []string                `json:"stock_brands"`
	DtfProfitMargin        float64                 `json:"dtf_profit_margin"`
	DtfRoundUpTo10         bool                    `json:"dtf_round_up_to_10"`
}

// LocationIDs returns the print location ids in display order.
func (d PricingData) LocationIDs() []string {
	ids := make([]string, 0, len(d.PrintLocations))
	for _, loc := range d.PrintLocations {
		ids = append(ids, loc.ID)
	}
	return ids
}

type Partner struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

type PrintSettings struct {
	FilmWidthMm             float64 `json:"film_width_mm"`
	LogoMarginMm            float64 `json:"logo_margin_mm"`
	PrintSpeedMetersPerHour float64 `json:"print_speed_meters_per_hour"`
	MonthlyWorkHours        float64 `json:"monthly_work_hours"`
	PressTimeMinutes        float64 `json:"press_time_minutes"`
	PressHourlyRate         float64 `json:"press_hourly_rate"`
	ProfitMargin            float64 `json:"profit_margin"`
	RoundUpTo10             bool    `json:"round_up_to_10"`
}

type DtfInputs struct {
	LogoWidthMm  float64 `json:"logo_width_mm"`
	LogoHeightMm float64 `json:"logo_height_mm"`
	LogoQuantity int     `json:"logo_quantity"`
}

type DtfConsumable struct {
	Type            string  `json:"type"`
	UnitPrice       float64 `json:"unit_price"`
	ConsumptionRate float64 `json:"consumption_rate"`
	Unit            string  `json:"unit"`
}

type DtfEquipment struct {
	Name              string  `json:"name"`
	PurchasePrice     float64 `json:"purchase_price"`
	DepreciationYears float64 `json:"depreciation_years"`
	PowerConsumptionW float64 `json:"power_consumption_w"`
}

type DtfLaborCost struct {
	Name        string  `json:"name"`
	CostPerHour float64 `json:"cost_per_hour"`
	SetupFee    float64 `json:"setup_fee"`
}

type DtfElectricityRate struct {
	Name      string  `json:"name"`
	Tier2Rate float64 `json:"tier2_rate"`
}

type DtfPressTimeCost struct {
	Minutes       float64 `json:"minutes"`
	PricePerPress float64 `json:"price_per_press"`
}

type DtfPrinter struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	MaxWidthMm float64 `json:"max_width_mm"`
}

type DtfPrintSpeed struct {
	PrinterID       string  `json:"printer_id"`
	Resolution      string  `json:"resolution"`
	SpeedSqmPerHour float64 `json:"speed_sqm_per_hour"`
	InkDensity      float64 `json:"ink_density"`
}

type DtfData struct {
	Consumables      []DtfConsumable      `json:"consumables"`
	Equipment        []DtfEquipment       `json:"equipment"`
	LaborCosts       []DtfLaborCost       `json:"labor_costs"`
	ElectricityRates []DtfElectricityRate `json:"electricity_rates"`
	PressTimeCosts   []DtfPressTimeCost   `json:"press_time_costs"`
	Printers         []DtfPrinter         `json:"printers"`
	PrintSpeeds      []DtfPrintSpeed      `json:"print_speeds"`
}

type DtfLayout struct {
	LogosPerRow           int     `json:"logos_per_row"`
	RowsNeeded            int     `json:"rows_needed"`
	TotalFilmLengthMeters float64 `json:"total_film_length_meters"`
}

type DtfCostDetails struct {
	Film                   float64 `json:"film"`
	WhiteInk               float64 `json:"white_ink"`
	ColorInk               float64 `json:"color_ink"`
	Powder                 float64 `json:"powder"`
	Setup                  float64 `json:"setup"`
	EquipmentAndPrintLabor float64 `json:"equipment_and_print_labor"`
	Electricity            float64 `json:"electricity"`
	Press                  float64 `json:"press"`
}

type DtfCalculationResult struct {
	CostPerItem           float64        `json:"cost_per_item"`
	SellingPricePerItem   float64        `json:"selling_price_per_item"`
	DetailsPerItem        DtfCostDetails `json:"details_per_item"`
	TotalFilmLengthMeters float64        `json:"total_film_length_meters"`
	PrintTimeHours        float64        `json:"print_time_hours"`
	Layout                DtfLayout      `json:"layout"`
}

type ItemPrintCost struct {
	DesignID  string `json:"design_id"`
	Location  string `json:"location"`
	Size      string `json:"size"`
	Colors    int    `json:"colors"`
	PlateType string `json:"plate_type"`
	UnitCost  int64  `json:"unit_cost"`
	Quantity  int    `json:"quantity"`
	Total     int64  `json:"total"`
}

type PrintCostDetail struct {
	Base        int64            `json:"base"`
	ByItem      []ItemPrintCost  `json:"by_item"`
	BySize      map[string]int64 `json:"by_size"`
	ByInk       map[string]int64 `json:"by_ink"`
	ByLocation  map[string]int64 `json:"by_location"`
	ByPlateType map[string]int64 `json:"by_plate_type"`
}

type DesignSetupCost struct {
	DesignID   string `json:"design_id"`
	PlateType  string `json:"plate_type"`
	Colors     int    `json:"colors"`
	Plate      int64  `json:"plate"`
	SpecialInk int64  `json:"special_ink"`
	Total      int64  `json:"total"`
}

type SetupCostDetail struct {
	ByDesign    []DesignSetupCost `json:"by_design"`
	ByPlateType map[string]int64  `json:"by_plate_type"`
	SpecialInk  int64             `json:"special_ink"`
}

type CostDetails struct {
	TotalCost        int64           `json:"total_cost"`
	Tax              int64           `json:"tax"`
	TotalCostWithTax int64           `json:"total_cost_with_tax"`
	CostPerShirt     int64           `json:"cost_per_shirt"`
	TshirtCost       int64           `json:"tshirt_cost"`
	SetupCost        int64           `json:"setup_cost"`
	PrintCost        int64           `json:"print_cost"`
	DtfCost          int64           `json:"dtf_cost"`
	SpecialInkCost   int64           `json:"special_ink_cost"`
	ShippingCost     int64           `json:"shipping_cost"`
	TotalQuantity    int             `json:"total_quantity"`
	PrintQuantity    int             `json:"print_quantity"`
	PrintCostDetail  PrintCostDetail `json:"print_cost_detail"`
	SetupCostDetail  SetupCostDetail `json:"setup_cost_detail"`
}

// DtfDesign is a DTF transfer priced alongside the screen-printed order.
type DtfDesign struct {
	ID     string    `json:"id"`
	Inputs DtfInputs `json:"inputs"`
}

type EstimateRequest struct {
	Items                 []OrderDetail `json:"items" validate:"dive"`
	Designs               []PrintDesign `json:"designs" validate:"dive"`
	DtfDesigns            []DtfDesign   `json:"dtf_designs,omitempty" validate:"dive"`
	OverridePrintQuantity int           `json:"override_print_quantity,omitempty" validate:"gte=0"`
	IsBringInMode         bool          `json:"is_bring_in_mode,omitempty"`
	IsReorder             bool          `json:"is_reorder,omitempty"`
}

type EstimateResponse struct {
	Cost       CostDetails                      `json:"cost"`
	DtfResults map[string]*DtfCalculationResult `json:"dtf_results,omitempty"`
	Privileged bool                             `json:"privileged"`
}

type AddItemRequest struct {
	Items     []OrderDetail `json:"items"`
	ProductID string        `json:"product_id" validate:"required"`
	ColorCode string        `json:"color_code" validate:"required"`
	Size      string        `json:"size" validate:"required"`
	Quantity  int           `json:"quantity" validate:"gt=0"`
}

// ItemQuantityRequest names an existing line by its identity. A zero quantity
// removes the line.
type ItemQuantityRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Color     string `json:"color" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

type AddItemResponse struct {
	Items []OrderDetail `json:"items"`
}

type DesignSaveRequest struct {
	Items     []OrderDetail `json:"items,omitempty"`
	Designs   []PrintDesign `json:"designs"`
	Design    PrintDesign   `json:"design"`
	IsReorder bool          `json:"is_reorder,omitempty"`
}

type DesignSaveResponse struct {
	Designs []PrintDesign `json:"designs"`
	Design  PrintDesign   `json:"design"`
}

type EligibilityRequest struct {
	Items     []OrderDetail `json:"items"`
	Location  string        `json:"location"`
	ProductID string        `json:"product_id,omitempty"`
	ColorCode string        `json:"color_code,omitempty"`
	Size      string        `json:"size,omitempty"`
}

type EligibilityResponse struct {
	Locations     []string `json:"locations"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors,omitempty"`
	ProductSizes  []string `json:"product_sizes,omitempty"`
	SelectedColor string   `json:"selected_color,omitempty"`
	SelectedSize  string   `json:"selected_size,omitempty"`
	Privileged    bool     `json:"privileged"`
}

type DtfRequest struct {
	Inputs     DtfInputs `json:"inputs"`
	PrinterID  string    `json:"printer_id,omitempty"`
	Resolution string    `json:"resolution,omitempty"`
	InkDensity float64   `json:"ink_density,omitempty" validate:"gte=0"`
	// Settings overrides the stored defaults when non-nil.
	Settings *PrintSettings `json:"settings,omitempty"`
}

type DtfResponse struct {
	Result *DtfCalculationResult `json:"result"`
}

type Customer struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Company string `json:"company,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type QuoteRequest struct {
	Customer Customer        `json:"customer"`
	Estimate EstimateRequest `json:"estimate"`
	Notes    string          `json:"notes,omitempty"`
}

type Quote struct {
	ID         string                           `json:"id"`
	Customer   Customer                         `json:"customer"`
	Items      []OrderDetail                    `json:"items"`
	Designs    []PrintDesign                    `json:"designs"`
	DtfDesigns []DtfDesign                      `json:"dtf_designs,omitempty"`
	Cost       CostDetails                      `json:"cost"`
	DtfResults map[string]*DtfCalculationResult `json:"dtf_results,omitempty"`
	IsReorder  bool                             `json:"is_reorder"`
	IsBringIn  bool                             `json:"is_bring_in"`
	Notes      string                           `json:"notes,omitempty"`
	CreatedBy  string                           `json:"created_by"`
	CreatedAt  time.Time                        `json:"created_at"`
}

type Snapshot struct {
	Items                 []OrderDetail `json:"items"`
	Designs               []PrintDesign `json:"designs"`
	DtfDesigns            []DtfDesign   `json:"dtf_designs,omitempty"`
	Customer              *Customer     `json:"customer,omitempty"`
	OverridePrintQuantity int           `json:"override_print_quantity,omitempty"`
	IsBringInMode         bool          `json:"is_bring_in_mode,omitempty"`
	IsReorder             bool          `json:"is_reorder,omitempty"`
	SavedAt               time.Time     `json:"saved_at"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type AccountCreateRequest struct {
	Username  string `json:"username" validate:"required,min=4,max=64"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"required,oneof=admin partner customer"`
	PartnerID string `json:"partner_id,omitempty" validate:"required_if=Role partner"`
}

type Actor struct {
	Username  string
	Role      string
	PartnerID string
}

// Privileged reports whether the actor bypasses stock and print eligibility rules.
func (a Actor) Privileged() bool {
	return a.Role == RoleAdmin || (a.Role == RolePartner && a.PartnerID != "")
}

type UserAccount struct {
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	PartnerID string    `json:"partner_id,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditLog struct {
	ID            string    `json:"id"`
	ActorUsername string    `json:"actor_username"`
	ActorRole     string    `json:"actor_role"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}
