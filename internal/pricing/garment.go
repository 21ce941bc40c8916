package pricing

import "printcost/internal/domain"

// ColorType returns the price class of colorCode in a brand palette.
func ColorType(palette []domain.ColorEntry, colorCode string) string {
	for _, entry := range palette {
		if entry.Code == colorCode {
			return entry.Type
		}
	}
	return ""
}

// FindPrice returns the catalog price row for a color/size combination.
// Rows without a color type apply to every color of that size.
func FindPrice(product domain.Product, colorType, size string) (domain.ProductPrice, bool) {
	var fallback domain.ProductPrice
	hasFallback := false
	for _, price := range product.Prices {
		if price.Size != size {
			continue
		}
		if price.ColorType == colorType {
			return price, true
		}
		if price.ColorType == "" && !hasFallback {
			fallback = price
			hasFallback = true
		}
	}
	return fallback, hasFallback
}

// ResolveUnitPrice returns the unit price stored on a new order line. A partner
// with a positive rate pays round(listPrice * rate); everyone else pays the
// catalog price.
func ResolveUnitPrice(product domain.Product, palette []domain.ColorEntry, colorCode, size string, partner *domain.Partner) (int64, bool) {
	price, ok := FindPrice(product, ColorType(palette, colorCode), size)
	if !ok {
		return 0, false
	}
	if partner != nil && partner.Rate > 0 {
		return MulRate(price.ListPrice, partner.Rate), true
	}
	return price.Price, true
}

// GarmentCost sums unit price times quantity over all order lines.
func GarmentCost(items []domain.OrderDetail) int64 {
	total := int64(0)
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// TotalQuantity sums the quantities of all order lines.
func TotalQuantity(items []domain.OrderDetail) int {
	total := 0
	for _, item := range items {
		if item.Quantity > 0 {
			total += item.Quantity
		}
	}
	return total
}
