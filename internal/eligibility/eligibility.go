// Package eligibility decides which print locations, print sizes, garment
// colors and garment sizes an order may use.
package eligibility

import (
	"slices"

	"printcost/internal/domain"
)

type idSet map[string]struct{}

func newIDSet(values []string) idSet {
	set := make(idSet, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// intersect returns a ∩ b where a nil set means "unrestricted".
func intersect(a, b idSet) idSet {
	if a == nil {
		return b
	}
	out := make(idSet)
	for v := range a {
		if _, ok := b[v]; ok {
			out[v] = struct{}{}
		}
	}
	return out
}

func filterOrdered(all []string, allowed idSet) []string {
	out := make([]string, 0, len(all))
	for _, v := range all {
		if allowed == nil {
			out = append(out, v)
			continue
		}
		if _, ok := allowed[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// ProductsInOrder returns the distinct catalog products referenced by items,
// in first-seen order. Unknown product ids are skipped.
func ProductsInOrder(items []domain.OrderDetail, catalog []domain.Product) []domain.Product {
	byID := make(map[string]domain.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.Product, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		if p, ok := byID[item.ProductID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// AvailableSizes lists the print sizes a design at location may use. The
// location's constraints are intersected with each product's tag
// constraints; a product with several matching tags must satisfy all of them.
// With no applicable constraint every size is allowed. An empty result is
// valid and means no size fits.
func AvailableSizes(location string, products []domain.Product, data domain.PricingData, privileged bool) []string {
	if privileged {
		return slices.Clone(data.PrintSizes)
	}

	var allowed idSet
	for _, c := range data.PrintSizeConstraints {
		if c.Type == domain.ConstraintTypeLocation && c.ID == location && location != "" {
			allowed = intersect(allowed, newIDSet(c.Sizes))
		}
	}

	for _, product := range products {
		var productAllowed idSet
		for _, c := range data.PrintSizeConstraints {
			if c.Type != domain.ConstraintTypeTag || !slices.Contains(product.Tags, c.ID) {
				continue
			}
			productAllowed = intersect(productAllowed, newIDSet(c.Sizes))
		}
		if productAllowed != nil {
			allowed = intersect(allowed, productAllowed)
		}
	}

	return filterOrdered(data.PrintSizes, allowed)
}

// AvailableLocations lists the print locations open to the order. It is the
// union of the allow-lists of the categories present; a category without a
// list imposes nothing. If at least one category defines a list and the
// union is empty, printing is blocked and the result is empty.
func AvailableLocations(products []domain.Product, data domain.PricingData, privileged bool) []string {
	all := data.LocationIDs()
	if privileged {
		return all
	}

	var union idSet
	seen := make(map[string]struct{}, len(products))
	for _, product := range products {
		if _, ok := seen[product.CategoryID]; ok {
			continue
		}
		seen[product.CategoryID] = struct{}{}
		locations, ok := data.CategoryPrintLocations[product.CategoryID]
		if !ok {
			continue
		}
		if union == nil {
			union = make(idSet)
		}
		for _, loc := range locations {
			union[loc] = struct{}{}
		}
	}

	return filterOrdered(all, union)
}
