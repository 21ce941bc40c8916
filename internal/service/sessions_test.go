package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"printcost/internal/domain"
	"printcost/internal/order"
	"printcost/internal/store"
)

func TestUpdateSessionItemQuantity(t *testing.T) {
	svc, _ := newTestService(Options{})
	id := uuid.NewString()

	if _, err := svc.AddSessionItem(customerCtx, id, domain.AddItemRequest{ProductID: "p-ua-5001", ColorCode: "001", Size: "M", Quantity: 4}); err != nil {
		t.Fatalf("add session item: %v", err)
	}

	snap, err := svc.UpdateSessionItemQuantity(customerCtx, id, domain.ItemQuantityRequest{ProductID: "p-ua-5001", Color: "White", Size: "M", Quantity: 9})
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if len(snap.Items) != 1 || snap.Items[0].Quantity != 9 {
		t.Fatalf("expected quantity 9, got %+v", snap.Items)
	}

	if _, err := svc.UpdateSessionItemQuantity(customerCtx, id, domain.ItemQuantityRequest{ProductID: "p-ua-5001", Color: "Black", Size: "M", Quantity: 1}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a missing line, got %v", err)
	}
	if _, err := svc.UpdateSessionItemQuantity(customerCtx, id, domain.ItemQuantityRequest{ProductID: "p-ua-5001", Color: "White", Size: "M", Quantity: -1}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a negative quantity, got %v", err)
	}

	snap, err = svc.UpdateSessionItemQuantity(customerCtx, id, domain.ItemQuantityRequest{ProductID: "p-ua-5001", Color: "White", Size: "M", Quantity: 0})
	if err != nil {
		t.Fatalf("zero quantity: %v", err)
	}
	if len(snap.Items) != 0 {
		t.Fatalf("zero quantity should remove the line, got %+v", snap.Items)
	}
}

func TestRemoveSessionDesign(t *testing.T) {
	svc, _ := newTestService(Options{})
	id := uuid.NewString()

	snap, err := svc.SaveSessionDesign(customerCtx, id, domain.PrintDesign{Location: "front", Size: "A4", Colors: 1})
	if err != nil {
		t.Fatalf("save design: %v", err)
	}
	designID := snap.Designs[0].ID

	if _, err := svc.RemoveSessionDesign(customerCtx, id, "missing"); !errors.Is(err, order.ErrDesignNotFound) {
		t.Fatalf("expected ErrDesignNotFound, got %v", err)
	}
	snap, err = svc.RemoveSessionDesign(customerCtx, id, designID)
	if err != nil {
		t.Fatalf("remove design: %v", err)
	}
	if len(snap.Designs) != 0 {
		t.Fatalf("expected no designs, got %+v", snap.Designs)
	}
}

func TestPutSessionValidatesDesignsAndItems(t *testing.T) {
	svc, _ := newTestService(Options{})
	id := uuid.NewString()

	_, err := svc.PutSession(customerCtx, id, domain.Snapshot{
		Items: whiteTees(5),
		Designs: []domain.PrintDesign{
			{ID: "d1", Location: "front", Size: "A4", Colors: 1},
			{ID: "d2", Location: "front", Size: "A4", Colors: 1},
		},
	})
	if !errors.Is(err, order.ErrDuplicatePlacement) {
		t.Fatalf("expected ErrDuplicatePlacement, got %v", err)
	}
	if _, err := svc.PutSession(customerCtx, id, domain.Snapshot{Items: whiteTees(0)}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero quantity, got %v", err)
	}

	loaded, err := svc.GetSession(customerCtx, id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if len(loaded.Items) != 0 || len(loaded.Designs) != 0 {
		t.Fatalf("rejected snapshots must not be saved, got %+v", loaded)
	}
}

func TestReorderSessionDesignsAreReadOnly(t *testing.T) {
	svc, _ := newTestService(Options{})
	id := uuid.NewString()
	designs := []domain.PrintDesign{{ID: "d1", Location: "front", Size: "A4", Colors: 1, PlateType: domain.PlateTypeNormal}}

	if _, err := svc.PutSession(customerCtx, id, domain.Snapshot{Items: whiteTees(5), Designs: designs, IsReorder: true}); err != nil {
		t.Fatalf("put reorder session: %v", err)
	}

	if _, err := svc.RemoveSessionDesign(customerCtx, id, "d1"); !errors.Is(err, order.ErrDesignsReadOnly) {
		t.Fatalf("expected ErrDesignsReadOnly on remove, got %v", err)
	}
	if _, err := svc.PutSession(customerCtx, id, domain.Snapshot{Items: whiteTees(5), IsReorder: true}); !errors.Is(err, order.ErrDesignsReadOnly) {
		t.Fatalf("expected ErrDesignsReadOnly when dropping designs, got %v", err)
	}

	snap, err := svc.PutSession(customerCtx, id, domain.Snapshot{Items: whiteTees(8), Designs: designs})
	if err != nil {
		t.Fatalf("put with unchanged designs: %v", err)
	}
	if !snap.IsReorder || snap.Items[0].Quantity != 8 {
		t.Fatalf("expected reorder flag kept and quantity updated, got %+v", snap)
	}
}
