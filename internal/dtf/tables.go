package dtf

import "printcost/internal/domain"

// PressTable resolves the per-press price for a press time.
type PressTable []domain.DtfPressTimeCost

// Lookup returns the price of the tier with the greatest Minutes <= minutes.
func (t PressTable) Lookup(minutes float64) (float64, bool) {
	var best domain.DtfPressTimeCost
	found := false
	for _, tier := range t {
		if tier.Minutes > minutes {
			continue
		}
		if !found || tier.Minutes > best.Minutes {
			best = tier
			found = true
		}
	}
	return best.PricePerPress, found
}

func consumable(data domain.DtfData, kind string) (domain.DtfConsumable, bool) {
	for _, c := range data.Consumables {
		if c.Type == kind {
			return c, true
		}
	}
	return domain.DtfConsumable{}, false
}

// ResolvePrintSpeed converts a printer's area throughput into meters of film
// per hour. An empty printerID selects the first printer; an inkDensity of 0
// accepts any density for the resolution.
func ResolvePrintSpeed(printers []domain.DtfPrinter, speeds []domain.DtfPrintSpeed, printerID, resolution string, inkDensity, filmWidthMm float64) (float64, bool) {
	if filmWidthMm <= 0 || len(printers) == 0 {
		return 0, false
	}
	if printerID == "" {
		printerID = printers[0].ID
	}

	for _, speed := range speeds {
		if speed.PrinterID != printerID {
			continue
		}
		if resolution != "" && speed.Resolution != resolution {
			continue
		}
		if inkDensity > 0 && speed.InkDensity != inkDensity {
			continue
		}
		if speed.SpeedSqmPerHour <= 0 {
			continue
		}
		return speed.SpeedSqmPerHour / (filmWidthMm / 1000), true
	}
	return 0, false
}
