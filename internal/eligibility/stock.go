package eligibility

import (
	"fmt"
	"slices"

	"printcost/internal/domain"
)

// DefaultStockBrands are the brands whose availability follows the stock table.
var DefaultStockBrands = []string{"United Athle", "Print Star"}

// StockTable maps "{productCode}-{colorCode}-{sizeCode}" to units on hand.
type StockTable map[string]int

func StockKey(productCode, colorCode, sizeCode string) string {
	return fmt.Sprintf("%s-%s-%s", productCode, colorCode, sizeCode)
}

func (t StockTable) InStock(productCode, colorCode, sizeCode string) bool {
	return t[StockKey(productCode, colorCode, sizeCode)] > 0
}

// StockPolicy answers whether a color/size of a product can be ordered.
type StockPolicy struct {
	Stock      StockTable
	Brands     []string
	Privileged bool
}

func NewStockPolicy(stock StockTable, brands []string, privileged bool) StockPolicy {
	if len(brands) == 0 {
		brands = DefaultStockBrands
	}
	return StockPolicy{Stock: stock, Brands: brands, Privileged: privileged}
}

// Tracked reports whether brand availability is governed by the stock table.
func (p StockPolicy) Tracked(brand string) bool {
	return slices.Contains(p.Brands, brand)
}

func (p StockPolicy) Available(product domain.Product, colorCode, size string) bool {
	if p.Privileged || !p.Tracked(product.Brand) {
		return true
	}
	return p.Stock.InStock(product.Code, colorCode, size)
}

// AvailableColors lists the product colors with at least one orderable size.
func AvailableColors(product domain.Product, policy StockPolicy) []string {
	sizes := product.Sizes()
	out := make([]string, 0, len(product.Colors))
	for _, color := range product.Colors {
		for _, size := range sizes {
			if policy.Available(product, color, size) {
				out = append(out, color)
				break
			}
		}
	}
	return out
}

func AvailableSizesForColor(product domain.Product, colorCode string, policy StockPolicy) []string {
	sizes := product.Sizes()
	out := make([]string, 0, len(sizes))
	for _, size := range sizes {
		if policy.Available(product, colorCode, size) {
			out = append(out, size)
		}
	}
	return out
}

// ResolveColor keeps current when it is still orderable and otherwise
// advances to the first orderable color. It returns "" when none is.
func ResolveColor(product domain.Product, current string, policy StockPolicy) string {
	return pick(AvailableColors(product, policy), current)
}

// ResolveSize is ResolveColor for the sizes of one color.
func ResolveSize(product domain.Product, colorCode, current string, policy StockPolicy) string {
	return pick(AvailableSizesForColor(product, colorCode, policy), current)
}

func pick(options []string, current string) string {
	if current != "" && slices.Contains(options, current) {
		return current
	}
	if len(options) == 0 {
		return ""
	}
	return options[0]
}
