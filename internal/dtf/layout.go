// Package dtf prices direct-to-film transfers: film packing, consumables,
// machine time, labor and pressing.
package dtf

import (
	"math"

	"printcost/internal/domain"
)

// CalculateLayout packs logos onto the film in rows of identical logos
// without rotation. LogosPerRow is 0 when a logo is wider than the film.
func CalculateLayout(logoWidthMm, logoHeightMm float64, logoQuantity int, settings domain.PrintSettings) domain.DtfLayout {
	margin := settings.LogoMarginMm
	if logoWidthMm <= 0 || logoHeightMm <= 0 || logoQuantity <= 0 {
		return domain.DtfLayout{}
	}

	perRow := int(math.Floor((settings.FilmWidthMm + margin) / (logoWidthMm + margin)))
	if perRow <= 0 {
		return domain.DtfLayout{}
	}
	rows := (logoQuantity + perRow - 1) / perRow

	return domain.DtfLayout{
		LogosPerRow:           perRow,
		RowsNeeded:            rows,
		TotalFilmLengthMeters: float64(rows) * (logoHeightMm + margin) / 1000,
	}
}
