package pricing

import "printcost/internal/domain"

const extraColorInkKey = "extra_color"

// SetupCost computes the setup breakdown for every design.
func SetupCost(designs []domain.PrintDesign, setupRules SetupCostTable, inks SpecialInkTable) (int64, domain.SetupCostDetail) {
	detail := domain.SetupCostDetail{
		ByDesign:    make([]domain.DesignSetupCost, 0, len(designs)),
		ByPlateType: make(map[string]int64),
	}
	total := int64(0)

	for _, design := range designs {
		if design.Colors <= 0 {
			continue
		}
		plateType := design.PlateType
		if plateType == "" {
			plateType = domain.PlateTypeNormal
		}

		plate := int64(0)
		if rule, ok := setupRules.Lookup(plateType); ok {
			plate = rule.BaseCost + rule.CostPerColor*int64(design.Colors)
		}

		inkCost := int64(0)
		for _, ink := range design.SpecialInks {
			option, ok := inks.Lookup(ink.Type)
			if !ok || option.AppliesTo != domain.InkAppliesToSetup || ink.Count <= 0 {
				continue
			}
			inkCost += int64(ink.Count) * option.Cost
		}

		designTotal := plate + inkCost
		detail.ByDesign = append(detail.ByDesign, domain.DesignSetupCost{
			DesignID:   design.ID,
			PlateType:  plateType,
			Colors:     design.Colors,
			Plate:      plate,
			SpecialInk: inkCost,
			Total:      designTotal,
		})
		detail.ByPlateType[plateType] += designTotal
		detail.SpecialInk += inkCost
		total += designTotal
	}

	return total, detail
}

// PrintCost computes per-unit print costs for every design scaled by printQuantity.
// The returned special ink amount is the share of the total caused by
// print-time special ink surcharges.
func PrintCost(designs []domain.PrintDesign, printQuantity int, printRules PrintCostTable, inks SpecialInkTable) (int64, int64, domain.PrintCostDetail) {
	detail := domain.PrintCostDetail{
		ByItem:      make([]domain.ItemPrintCost, 0, len(designs)),
		BySize:      make(map[string]int64),
		ByInk:       make(map[string]int64),
		ByLocation:  make(map[string]int64),
		ByPlateType: make(map[string]int64),
	}
	if printQuantity <= 0 {
		return 0, 0, detail
	}

	qty := int64(printQuantity)
	total := int64(0)
	specialInk := int64(0)

	for _, design := range designs {
		if design.Colors <= 0 {
			continue
		}
		plateType := design.PlateType
		if plateType == "" {
			plateType = domain.PlateTypeNormal
		}

		base := int64(0)
		extra := int64(0)
		if rule, ok := printRules.Lookup(design.Location, design.Size, printQuantity); ok {
			base = rule.BasePrice
			extra = UnitCost(rule, design.Colors) - rule.BasePrice
		}

		inkUnit := int64(0)
		for _, ink := range design.SpecialInks {
			option, ok := inks.Lookup(ink.Type)
			if !ok || option.AppliesTo != domain.InkAppliesToPrint || ink.Count <= 0 {
				continue
			}
			surcharge := int64(ink.Count) * option.Cost
			inkUnit += surcharge
			detail.ByInk[ink.Type] += surcharge * qty
		}

		unit := base + extra + inkUnit
		designTotal := unit * qty

		detail.Base += base * qty
		if extra > 0 {
			detail.ByInk[extraColorInkKey] += extra * qty
		}
		detail.ByItem = append(detail.ByItem, domain.ItemPrintCost{
			DesignID:  design.ID,
			Location:  design.Location,
			Size:      design.Size,
			Colors:    design.Colors,
			PlateType: plateType,
			UnitCost:  unit,
			Quantity:  printQuantity,
			Total:     designTotal,
		})
		detail.BySize[design.Size] += designTotal
		detail.ByLocation[design.Location] += designTotal
		detail.ByPlateType[plateType] += designTotal

		specialInk += inkUnit * qty
		total += designTotal
	}

	return total, specialInk, detail
}
