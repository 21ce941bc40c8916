package pricing

import "printcost/internal/domain"

// SetupCostTable resolves plate setup costs by plate type.
type SetupCostTable []domain.SetupCostRule

// Lookup returns the rule for plateType. An empty plate type is treated as normal.
func (t SetupCostTable) Lookup(plateType string) (domain.SetupCostRule, bool) {
	if plateType == "" {
		plateType = domain.PlateTypeNormal
	}
	for _, rule := range t {
		if rule.PlateType == plateType {
			return rule, true
		}
	}
	return domain.SetupCostRule{}, false
}

// PrintCostTable resolves tiered per-unit print prices.
type PrintCostTable []domain.PrintCostRule

// Lookup picks the rule for size at the given print quantity. Rules bound to
// location win over wildcard rules; within the winning group the rule with the
// greatest MinQuantity <= quantity is chosen.
func (t PrintCostTable) Lookup(location, size string, quantity int) (domain.PrintCostRule, bool) {
	if rule, ok := t.bestTier(location, size, quantity); ok {
		return rule, true
	}
	return t.bestTier("", size, quantity)
}

func (t PrintCostTable) bestTier(location, size string, quantity int) (domain.PrintCostRule, bool) {
	var best domain.PrintCostRule
	found := false
	for _, rule := range t {
		if rule.Size != size || rule.Location != location {
			continue
		}
		if rule.MinQuantity > quantity {
			continue
		}
		if !found || rule.MinQuantity > best.MinQuantity {
			best = rule
			found = true
		}
	}
	return best, found
}

// UnitCost is the per-garment print price of a design with the given color count.
func UnitCost(rule domain.PrintCostRule, colors int) int64 {
	extra := colors - 1
	if extra < 0 {
		extra = 0
	}
	return rule.BasePrice + rule.ExtraColorPrice*int64(extra)
}

// SpecialInkTable resolves special ink surcharges by ink type.
type SpecialInkTable []domain.SpecialInkOption

func (t SpecialInkTable) Lookup(inkType string) (domain.SpecialInkOption, bool) {
	for _, option := range t {
		if option.Type == inkType {
			return option, true
		}
	}
	return domain.SpecialInkOption{}, false
}

// ShippingTable resolves the shipping charge for an order value.
type ShippingTable []domain.ShippingRule

// Lookup returns the cost of the rule with the greatest MinSubtotal <= subtotal.
// Without a qualifying rule shipping is free.
func (t ShippingTable) Lookup(subtotal int64) int64 {
	var best domain.ShippingRule
	found := false
	for _, rule := range t {
		if rule.MinSubtotal > subtotal {
			continue
		}
		if !found || rule.MinSubtotal > best.MinSubtotal {
			best = rule
			found = true
		}
	}
	if !found {
		return 0
	}
	return best.Cost
}
