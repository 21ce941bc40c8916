package order

import (
	"errors"
	"testing"

	"printcost/internal/domain"
)

func TestValidateDesignRejectsInkCountAboveColors(t *testing.T) {
	design := domain.PrintDesign{
		ID:          "d1",
		Location:    "front",
		Size:        "A4",
		Colors:      2,
		SpecialInks: []domain.SpecialInk{{Type: "gold", Count: 3}},
	}
	if err := ValidateDesign(nil, design); !errors.Is(err, ErrInkCountExceeded) {
		t.Fatalf("expected ErrInkCountExceeded, got %v", err)
	}
}

func TestValidateDesignRejectsNonPositiveInkCounts(t *testing.T) {
	cases := []struct {
		name string
		inks []domain.SpecialInk
	}{
		{name: "zero", inks: []domain.SpecialInk{{Type: "gold", Count: 0}}},
		{name: "negative offsets oversized", inks: []domain.SpecialInk{{Type: "gold", Count: 3}, {Type: "glow", Count: -2}}},
	}
	for _, tc := range cases {
		design := domain.PrintDesign{ID: "d1", Location: "front", Size: "A4", Colors: 2, SpecialInks: tc.inks}
		if err := ValidateDesign(nil, design); !errors.Is(err, ErrInvalidInkCount) {
			t.Fatalf("%s: expected ErrInvalidInkCount, got %v", tc.name, err)
		}
	}
}

func TestValidateDesignRequiresLocationAndColors(t *testing.T) {
	if err := ValidateDesign(nil, domain.PrintDesign{ID: "d1", Size: "A4", Colors: 1}); !errors.Is(err, ErrLocationRequired) {
		t.Fatalf("expected ErrLocationRequired, got %v", err)
	}
	if err := ValidateDesign(nil, domain.PrintDesign{ID: "d1", Location: "front", Size: "A4"}); !errors.Is(err, ErrInvalidColorCount) {
		t.Fatalf("expected ErrInvalidColorCount, got %v", err)
	}
}

func TestAddDesignRejectsDuplicatePlacement(t *testing.T) {
	designs, err := AddDesign(nil, domain.PrintDesign{ID: "d1", Location: "front", Size: "A4", Colors: 1})
	if err != nil {
		t.Fatalf("add first design: %v", err)
	}

	next, err := AddDesign(designs, domain.PrintDesign{ID: "d2", Location: "front", Size: "A4", Colors: 2})
	if !errors.Is(err, ErrDuplicatePlacement) {
		t.Fatalf("expected ErrDuplicatePlacement, got %v", err)
	}
	if len(next) != 1 {
		t.Fatalf("rejected save must not change designs, got %d", len(next))
	}
}

func TestUpdateDesignKeepsOwnPlacement(t *testing.T) {
	designs := []domain.PrintDesign{
		{ID: "d1", Location: "front", Size: "A4", Colors: 1, PlateType: domain.PlateTypeNormal},
		{ID: "d2", Location: "back", Size: "A3", Colors: 1, PlateType: domain.PlateTypeNormal},
	}

	edited := designs[0]
	edited.Colors = 3
	updated, err := UpdateDesign(designs, edited)
	if err != nil {
		t.Fatalf("re-saving own placement should succeed, got %v", err)
	}
	if updated[0].Colors != 3 {
		t.Fatalf("colors = %d, want 3", updated[0].Colors)
	}
	if designs[0].Colors != 1 {
		t.Fatalf("input slice mutated")
	}

	moved := designs[1]
	moved.Location = "front"
	moved.Size = "A4"
	if _, err := UpdateDesign(designs, moved); !errors.Is(err, ErrDuplicatePlacement) {
		t.Fatalf("expected ErrDuplicatePlacement, got %v", err)
	}
}

func TestNewDesignAndRemove(t *testing.T) {
	design := NewDesign()
	if design.ID == "" || design.Colors != 1 || design.PlateType != domain.PlateTypeNormal {
		t.Fatalf("unexpected new design %+v", design)
	}
	design.Location = "front"
	design.Size = "A4"

	designs, err := AddDesign(nil, design)
	if err != nil {
		t.Fatalf("add design: %v", err)
	}
	designs, err = RemoveDesign(designs, design.ID)
	if err != nil || len(designs) != 0 {
		t.Fatalf("remove design: %v (len=%d)", err, len(designs))
	}
	if _, err := RemoveDesign(designs, design.ID); !errors.Is(err, ErrDesignNotFound) {
		t.Fatalf("expected ErrDesignNotFound, got %v", err)
	}
}
