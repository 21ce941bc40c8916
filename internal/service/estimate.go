package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"printcost/internal/domain"
	"printcost/internal/dtf"
	"printcost/internal/eligibility"
	"printcost/internal/order"
	"printcost/internal/pricing"
	"printcost/internal/store"
)

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products(ctx)
}

func (s *Service) PricingData(ctx context.Context) (domain.PricingData, error) {
	return s.pricingData(ctx)
}

type evaluation struct {
	actor      domain.Actor
	items      []domain.OrderDetail
	designs    []domain.PrintDesign
	dtfDesigns []domain.DtfDesign
	bringIn    bool
	response   domain.EstimateResponse
}

// Estimate prices an order. Line prices are re-resolved from the catalog for
// the calling actor, so a unit price stored in a session may change before the
// quote is saved. The print-quantity override and bring-in mode are
// honored for admins only.
func (s *Service) Estimate(ctx context.Context, req domain.EstimateRequest) (domain.EstimateResponse, error) {
	ev, err := s.evaluate(ctx, req)
	if err != nil {
		return domain.EstimateResponse{}, err
	}
	return ev.response, nil
}

func (s *Service) evaluate(ctx context.Context, req domain.EstimateRequest) (evaluation, error) {
	actor := actorOrAnonymous(ctx)

	data, err := s.pricingData(ctx)
	if err != nil {
		return evaluation{}, err
	}
	catalog, err := s.products(ctx)
	if err != nil {
		return evaluation{}, err
	}
	partner, err := s.partnerFor(ctx, actor)
	if err != nil {
		return evaluation{}, err
	}

	items, err := priceItems(req.Items, catalog, data, partner)
	if err != nil {
		return evaluation{}, err
	}

	in := pricing.Input{
		Items:   items,
		Designs: req.Designs,
		Data:    data,
	}
	if actor.Role == domain.RoleAdmin {
		in.OverridePrintQuantity = req.OverridePrintQuantity
		in.IsBringInMode = req.IsBringInMode
	}

	dtfDesigns := withDtfIDs(req.DtfDesigns)
	dtfCost, dtfResults, err := s.priceDtf(ctx, dtfDesigns, data)
	if err != nil {
		return evaluation{}, err
	}
	in.DtfCost = dtfCost

	cost := pricing.Calculate(in)
	if in.OverridePrintQuantity > 0 || in.IsBringInMode {
		s.logAudit(ctx, "estimate_override", "estimate", "", fmt.Sprintf("override_print_quantity=%d,bring_in=%t,total=%d",
			in.OverridePrintQuantity, in.IsBringInMode, cost.TotalCostWithTax))
	}

	return evaluation{
		actor:      actor,
		items:      items,
		designs:    req.Designs,
		dtfDesigns: dtfDesigns,
		bringIn:    in.IsBringInMode,
		response: domain.EstimateResponse{
			Cost:       cost,
			DtfResults: dtfResults,
			Privileged: actor.Privileged(),
		},
	}, nil
}

func priceItems(items []domain.OrderDetail, catalog []domain.Product, data domain.PricingData, partner *domain.Partner) ([]domain.OrderDetail, error) {
	keys := order.NewSortKeys(catalog, data)
	byID := make(map[string]domain.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	out := make([]domain.OrderDetail, 0, len(items))
	for _, item := range items {
		if item.Quantity < 0 {
			return nil, fmt.Errorf("%w: negative quantity for %s", store.ErrInvalidInput, item.ProductID)
		}
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown product %q", store.ErrInvalidInput, item.ProductID)
		}
		price, ok := pricing.ResolveUnitPrice(product, data.ColorPalettes[product.Brand], keys.ColorCode(item), item.Size, partner)
		if !ok {
			return nil, fmt.Errorf("%w: %s %s/%s", ErrPriceNotFound, product.Code, item.Color, item.Size)
		}
		item.UnitPrice = price
		item.ProductName = product.Name
		out = append(out, item)
	}
	return order.SortItems(out, keys), nil
}

func withDtfIDs(designs []domain.DtfDesign) []domain.DtfDesign {
	out := slices.Clone(designs)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return out
}

// priceDtf sums the selling price of every computable DTF design. Designs
// that cannot be computed yet map to a nil result and add nothing.
func (s *Service) priceDtf(ctx context.Context, designs []domain.DtfDesign, pricingData domain.PricingData) (int64, map[string]*domain.DtfCalculationResult, error) {
	if len(designs) == 0 {
		return 0, nil, nil
	}
	data, err := s.dtfData(ctx)
	if err != nil {
		return 0, nil, err
	}
	settings, err := s.dtfSettings(ctx, pricingData)
	if err != nil {
		return 0, nil, err
	}

	var total int64
	results := make(map[string]*domain.DtfCalculationResult, len(designs))
	for _, design := range designs {
		result := dtf.CalculateDtfCost(design.Inputs, data, settings, s.logger)
		results[design.ID] = result
		if result != nil {
			total += pricing.LineTotal(result.SellingPricePerItem, design.Inputs.LogoQuantity)
		}
	}
	return total, results, nil
}

// dtfSettings returns the stored print settings with the DTF margin and
// round-up from the pricing data applied. A non-positive margin in the pricing
// data leaves the stored values in place.
func (s *Service) dtfSettings(ctx context.Context, pricingData domain.PricingData) (domain.PrintSettings, error) {
	settings, err := s.printSettings(ctx)
	if err != nil {
		return domain.PrintSettings{}, err
	}
	if pricingData.DtfProfitMargin > 0 {
		settings.ProfitMargin = pricingData.DtfProfitMargin
		settings.RoundUpTo10 = pricingData.DtfRoundUpTo10
	}
	return settings, nil
}

// AddItem resolves the unit price of a new line for the calling actor, checks
// stock and merges it into the order.
func (s *Service) AddItem(ctx context.Context, req domain.AddItemRequest) (domain.AddItemResponse, error) {
	items, err := s.addItem(ctx, req.Items, req)
	if err != nil {
		return domain.AddItemResponse{}, err
	}
	return domain.AddItemResponse{Items: items}, nil
}

func (s *Service) addItem(ctx context.Context, items []domain.OrderDetail, req domain.AddItemRequest) ([]domain.OrderDetail, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", store.ErrInvalidInput)
	}
	actor := actorOrAnonymous(ctx)

	data, err := s.pricingData(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	product, err := findProduct(catalog, req.ProductID)
	if err != nil {
		return nil, err
	}
	partner, err := s.partnerFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	palette := data.ColorPalettes[product.Brand]
	price, ok := pricing.ResolveUnitPrice(product, palette, req.ColorCode, req.Size, partner)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s/%s", ErrPriceNotFound, product.Code, req.ColorCode, req.Size)
	}

	stock, err := s.repo.GetStock(ctx)
	if err != nil {
		return nil, err
	}
	policy := eligibility.NewStockPolicy(eligibility.StockTable(stock), data.StockBrands, actor.Privileged())
	if !policy.Available(product, req.ColorCode, req.Size) {
		return nil, fmt.Errorf("%w: %s", ErrOutOfStock, eligibility.StockKey(product.Code, req.ColorCode, req.Size))
	}

	line := domain.OrderDetail{
		ProductID:   product.ID,
		ProductName: product.Name,
		Color:       colorName(palette, req.ColorCode),
		Size:        req.Size,
		Quantity:    req.Quantity,
		UnitPrice:   price,
	}
	return order.AddItem(items, line, order.NewSortKeys(catalog, data)), nil
}

func findProduct(catalog []domain.Product, id string) (domain.Product, error) {
	for _, p := range catalog {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("product %q: %w", id, store.ErrNotFound)
}

func colorName(palette []domain.ColorEntry, code string) string {
	for _, entry := range palette {
		if entry.Code == code {
			return entry.Name
		}
	}
	return code
}

// SaveDesign validates a design against the order and returns the updated
// design list. Unprivileged actors are held to the location and size
// eligibility rules.
func (s *Service) SaveDesign(ctx context.Context, req domain.DesignSaveRequest) (domain.DesignSaveResponse, error) {
	designs, saved, err := s.saveDesign(ctx, req.Items, req.Designs, req.Design, req.IsReorder)
	if err != nil {
		return domain.DesignSaveResponse{}, err
	}
	return domain.DesignSaveResponse{Designs: designs, Design: saved}, nil
}

func (s *Service) saveDesign(ctx context.Context, items []domain.OrderDetail, designs []domain.PrintDesign, design domain.PrintDesign, reorder bool) ([]domain.PrintDesign, domain.PrintDesign, error) {
	if reorder {
		return nil, domain.PrintDesign{}, order.ErrDesignsReadOnly
	}
	if err := s.checkPlacement(ctx, actorOrAnonymous(ctx), items, design); err != nil {
		return nil, domain.PrintDesign{}, err
	}

	if design.ID == "" {
		design.ID = order.NewDesign().ID
	}
	updated, err := order.AddDesign(designs, design)
	if err != nil {
		return nil, domain.PrintDesign{}, err
	}
	idx := slices.IndexFunc(updated, func(d domain.PrintDesign) bool { return d.ID == design.ID })
	return updated, updated[idx], nil
}

// checkPlacement holds unprivileged actors to the locations and print sizes
// the products on the order allow. Designs without a location are left to
// order.ValidateDesign.
func (s *Service) checkPlacement(ctx context.Context, actor domain.Actor, items []domain.OrderDetail, designs ...domain.PrintDesign) error {
	if actor.Privileged() {
		return nil
	}
	data, err := s.pricingData(ctx)
	if err != nil {
		return err
	}
	catalog, err := s.products(ctx)
	if err != nil {
		return err
	}
	products := eligibility.ProductsInOrder(items, catalog)
	locations := eligibility.AvailableLocations(products, data, false)
	for _, design := range designs {
		if design.Location == "" {
			continue
		}
		if !slices.Contains(locations, design.Location) {
			return fmt.Errorf("%w: %s", ErrLocationNotAvailable, design.Location)
		}
		if design.Size != "" && !slices.Contains(eligibility.AvailableSizes(design.Location, products, data, false), design.Size) {
			return fmt.Errorf("%w: %s/%s", ErrSizeNotAvailable, design.Location, design.Size)
		}
	}
	return nil
}

// validateDesigns checks a whole design list the way saving the designs one
// by one would. Every design must carry a distinct id.
func (s *Service) validateDesigns(ctx context.Context, actor domain.Actor, items []domain.OrderDetail, designs []domain.PrintDesign) error {
	seen := make(map[string]struct{}, len(designs))
	for i, design := range designs {
		if _, dup := seen[design.ID]; dup || design.ID == "" {
			return fmt.Errorf("%w: design ids must be unique and non-empty", store.ErrInvalidInput)
		}
		seen[design.ID] = struct{}{}
		if err := order.ValidateDesign(designs[:i], design); err != nil {
			return err
		}
	}
	return s.checkPlacement(ctx, actor, items, designs...)
}

// withDesignIDs gives every design without an id a synthetic one.
func withDesignIDs(designs []domain.PrintDesign) []domain.PrintDesign {
	out := slices.Clone(designs)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = order.NewDesign().ID
		}
	}
	return out
}

// Eligibility answers which locations, print sizes, colors and garment sizes
// the order currently allows.
func (s *Service) Eligibility(ctx context.Context, req domain.EligibilityRequest) (domain.EligibilityResponse, error) {
	actor := actorOrAnonymous(ctx)
	privileged := actor.Privileged()

	data, err := s.pricingData(ctx)
	if err != nil {
		return domain.EligibilityResponse{}, err
	}
	catalog, err := s.products(ctx)
	if err != nil {
		return domain.EligibilityResponse{}, err
	}

	products := eligibility.ProductsInOrder(req.Items, catalog)
	resp := domain.EligibilityResponse{
		Locations:  eligibility.AvailableLocations(products, data, privileged),
		Sizes:      []string{},
		Privileged: privileged,
	}
	if req.Location != "" {
		resp.Sizes = eligibility.AvailableSizes(req.Location, products, data, privileged)
	}

	if req.ProductID == "" {
		return resp, nil
	}
	product, err := findProduct(catalog, req.ProductID)
	if err != nil {
		return domain.EligibilityResponse{}, err
	}
	stock, err := s.repo.GetStock(ctx)
	if err != nil {
		return domain.EligibilityResponse{}, err
	}
	policy := eligibility.NewStockPolicy(eligibility.StockTable(stock), data.StockBrands, privileged)
	resp.Colors = eligibility.AvailableColors(product, policy)
	resp.SelectedColor = eligibility.ResolveColor(product, req.ColorCode, policy)
	resp.ProductSizes = eligibility.AvailableSizesForColor(product, resp.SelectedColor, policy)
	resp.SelectedSize = eligibility.ResolveSize(product, resp.SelectedColor, req.Size, policy)
	return resp, nil
}

// CalculateDtf prices a standalone DTF job with the same margin an estimate
// would use. Explicit settings on the request replace the stored ones
// wholesale. A nil result means the inputs are not computable yet.
func (s *Service) CalculateDtf(ctx context.Context, req domain.DtfRequest) (domain.DtfResponse, error) {
	data, err := s.dtfData(ctx)
	if err != nil {
		return domain.DtfResponse{}, err
	}
	var settings domain.PrintSettings
	if req.Settings != nil {
		settings = *req.Settings
	} else {
		pricingData, err := s.pricingData(ctx)
		if err != nil {
			return domain.DtfResponse{}, err
		}
		if settings, err = s.dtfSettings(ctx, pricingData); err != nil {
			return domain.DtfResponse{}, err
		}
	}

	if req.PrinterID != "" || req.Resolution != "" {
		speed, ok := dtf.ResolvePrintSpeed(data.Printers, data.PrintSpeeds, req.PrinterID, req.Resolution, req.InkDensity, settings.FilmWidthMm)
		if !ok {
			return domain.DtfResponse{}, fmt.Errorf("%w: no print speed for printer %q at %q, density %s",
				store.ErrInvalidInput, req.PrinterID, req.Resolution, strconv.FormatFloat(req.InkDensity, 'f', -1, 64))
		}
		settings.PrintSpeedMetersPerHour = speed
	}

	return domain.DtfResponse{Result: dtf.CalculateDtfCost(req.Inputs, data, settings, s.logger)}, nil
}
