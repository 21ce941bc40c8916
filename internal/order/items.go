package order

import (
	"slices"
	"strings"

	"printcost/internal/domain"
)

const (
	unmappedSizeRank  = 99
	unmappedColorCode = "9999"
)

// SortKeys carries the catalog lookups used to order line items.
type SortKeys struct {
	productCodes  map[string]string
	productBrands map[string]string
	sizeRank      map[string]int
	palettes      map[string][]domain.ColorEntry
}

func NewSortKeys(products []domain.Product, data domain.PricingData) SortKeys {
	keys := SortKeys{
		productCodes:  make(map[string]string, len(products)),
		productBrands: make(map[string]string, len(products)),
		sizeRank:      data.SizeSortOrder,
		palettes:      data.ColorPalettes,
	}
	for _, product := range products {
		keys.productCodes[product.ID] = product.Code
		keys.productBrands[product.ID] = product.Brand
	}
	return keys
}

func (k SortKeys) productCode(item domain.OrderDetail) string {
	if code, ok := k.productCodes[item.ProductID]; ok && code != "" {
		return code
	}
	return item.ProductID
}

func (k SortKeys) rank(size string) int {
	if rank, ok := k.sizeRank[size]; ok {
		return rank
	}
	return unmappedSizeRank
}

// ColorCode resolves the display color of an item to its brand palette code.
func (k SortKeys) ColorCode(item domain.OrderDetail) string {
	for _, entry := range k.palettes[k.productBrands[item.ProductID]] {
		if entry.Name == item.Color || entry.Code == item.Color {
			return entry.Code
		}
	}
	return unmappedColorCode
}

func (k SortKeys) compare(a, b domain.OrderDetail) int {
	if c := strings.Compare(k.productCode(a), k.productCode(b)); c != 0 {
		return c
	}
	if ra, rb := k.rank(a.Size), k.rank(b.Size); ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	return strings.Compare(k.ColorCode(a), k.ColorCode(b))
}

// SortItems returns a sorted copy of items: product code, then size rank,
// then palette color code.
func SortItems(items []domain.OrderDetail, keys SortKeys) []domain.OrderDetail {
	sorted := slices.Clone(items)
	if sorted == nil {
		sorted = []domain.OrderDetail{}
	}
	slices.SortStableFunc(sorted, keys.compare)
	return sorted
}

func sameLine(a, b domain.OrderDetail) bool {
	return a.ProductID == b.ProductID && a.Color == b.Color && a.Size == b.Size
}

// AddItem merges newItem into items, summing quantities for an existing
// (product, color, size) line. The input slice is not modified.
func AddItem(items []domain.OrderDetail, newItem domain.OrderDetail, keys SortKeys) []domain.OrderDetail {
	result := slices.Clone(items)
	merged := false
	for i := range result {
		if sameLine(result[i], newItem) {
			result[i].Quantity += newItem.Quantity
			merged = true
			break
		}
	}
	if !merged {
		result = append(result, newItem)
	}
	return SortItems(result, keys)
}

// RemoveItem drops the line matching target's identity.
func RemoveItem(items []domain.OrderDetail, target domain.OrderDetail, keys SortKeys) []domain.OrderDetail {
	result := make([]domain.OrderDetail, 0, len(items))
	for _, item := range items {
		if sameLine(item, target) {
			continue
		}
		result = append(result, item)
	}
	return SortItems(result, keys)
}

// UpdateQuantity sets the quantity of the line matching target's identity.
// A quantity <= 0 removes the line.
func UpdateQuantity(items []domain.OrderDetail, target domain.OrderDetail, quantity int, keys SortKeys) []domain.OrderDetail {
	if quantity <= 0 {
		return RemoveItem(items, target, keys)
	}
	result := slices.Clone(items)
	for i := range result {
		if sameLine(result[i], target) {
			result[i].Quantity = quantity
		}
	}
	return SortItems(result, keys)
}
