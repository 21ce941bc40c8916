package order

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"printcost/internal/domain"
)

var (
	ErrLocationRequired   = errors.New("print location is required")
	ErrInvalidColorCount  = errors.New("colors must be at least 1")
	ErrDuplicatePlacement = errors.New("another design already uses this location and size")
	ErrInkCountExceeded   = errors.New("special ink count exceeds the number of colors")
	ErrInvalidInkCount    = errors.New("special ink count must be at least 1")
	ErrDesignNotFound     = errors.New("design not found")
	ErrDesignsReadOnly    = errors.New("designs cannot be changed on a reorder")
)

// NewDesign returns an empty single-color design with a fresh id.
func NewDesign() domain.PrintDesign {
	return domain.PrintDesign{
		ID:          uuid.NewString(),
		Colors:      1,
		SpecialInks: []domain.SpecialInk{},
		PlateType:   domain.PlateTypeNormal,
	}
}

// ValidateDesign checks candidate against the designs already on the order
// and returns the first rule it breaks. The candidate's own entry, matched by
// id, is ignored for the placement check.
func ValidateDesign(designs []domain.PrintDesign, candidate domain.PrintDesign) error {
	if candidate.Location == "" {
		return ErrLocationRequired
	}
	if candidate.Colors <= 0 {
		return ErrInvalidColorCount
	}
	for _, existing := range designs {
		if existing.ID == candidate.ID {
			continue
		}
		if existing.Location == candidate.Location && existing.Size == candidate.Size {
			return fmt.Errorf("%w: %s/%s", ErrDuplicatePlacement, candidate.Location, candidate.Size)
		}
	}
	inks := 0
	for _, ink := range candidate.SpecialInks {
		if ink.Count < 1 {
			return fmt.Errorf("%w: %s has %d", ErrInvalidInkCount, ink.Type, ink.Count)
		}
		inks += ink.Count
	}
	if inks > candidate.Colors {
		return fmt.Errorf("%w: %d > %d", ErrInkCountExceeded, inks, candidate.Colors)
	}
	return nil
}

// AddDesign validates candidate and appends it, assigning an id when missing.
// On error the input slice is returned unchanged.
func AddDesign(designs []domain.PrintDesign, candidate domain.PrintDesign) ([]domain.PrintDesign, error) {
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	if slices.ContainsFunc(designs, func(d domain.PrintDesign) bool { return d.ID == candidate.ID }) {
		return UpdateDesign(designs, candidate)
	}
	if err := ValidateDesign(designs, candidate); err != nil {
		return designs, err
	}
	return append(slices.Clone(designs), normalizeDesign(candidate)), nil
}

// UpdateDesign replaces the design with candidate's id.
func UpdateDesign(designs []domain.PrintDesign, candidate domain.PrintDesign) ([]domain.PrintDesign, error) {
	idx := slices.IndexFunc(designs, func(d domain.PrintDesign) bool { return d.ID == candidate.ID })
	if idx < 0 {
		return designs, ErrDesignNotFound
	}
	if err := ValidateDesign(designs, candidate); err != nil {
		return designs, err
	}
	result := slices.Clone(designs)
	result[idx] = normalizeDesign(candidate)
	return result, nil
}

func RemoveDesign(designs []domain.PrintDesign, id string) ([]domain.PrintDesign, error) {
	idx := slices.IndexFunc(designs, func(d domain.PrintDesign) bool { return d.ID == id })
	if idx < 0 {
		return designs, ErrDesignNotFound
	}
	return slices.Delete(slices.Clone(designs), idx, idx+1), nil
}

func normalizeDesign(design domain.PrintDesign) domain.PrintDesign {
	if design.PlateType == "" {
		design.PlateType = domain.PlateTypeNormal
	}
	if design.SpecialInks == nil {
		design.SpecialInks = []domain.SpecialInk{}
	}
	return design
}
