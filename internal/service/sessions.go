package service

import (
	"context"
	"fmt"
	"slices"

	"printcost/internal/domain"
	"printcost/internal/order"
	"printcost/internal/store"
)

func (s *Service) GetSession(ctx context.Context, id string) (domain.Snapshot, error) {
	return s.sessions.Get(ctx, id)
}

// PutSession replaces the saved session. Lines and designs are held to the
// same rules as adding them one at a time, and the designs of a reorder
// cannot change.
func (s *Service) PutSession(ctx context.Context, id string, snapshot domain.Snapshot) (domain.Snapshot, error) {
	for _, item := range snapshot.Items {
		if item.Quantity <= 0 {
			return domain.Snapshot{}, fmt.Errorf("%w: quantity must be positive for %s", store.ErrInvalidInput, item.ProductID)
		}
	}
	snapshot.Designs = withDesignIDs(snapshot.Designs)
	if err := s.validateDesigns(ctx, actorOrAnonymous(ctx), snapshot.Items, snapshot.Designs); err != nil {
		return domain.Snapshot{}, err
	}

	return s.sessions.Update(ctx, id, func(snap *domain.Snapshot) error {
		if snap.IsReorder {
			if !slices.EqualFunc(snap.Designs, snapshot.Designs, sameDesign) {
				return order.ErrDesignsReadOnly
			}
			snapshot.IsReorder = true
		}
		*snap = snapshot
		return nil
	})
}

func sameDesign(a, b domain.PrintDesign) bool {
	return a.ID == b.ID && a.Location == b.Location && a.Size == b.Size &&
		a.Colors == b.Colors && a.PlateType == b.PlateType && slices.Equal(a.SpecialInks, b.SpecialInks)
}

func (s *Service) DeleteSession(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// AddSessionItem adds a line to the saved estimator session. The session is
// left untouched when the item is rejected.
func (s *Service) AddSessionItem(ctx context.Context, id string, req domain.AddItemRequest) (domain.Snapshot, error) {
	return s.sessions.Update(ctx, id, func(snap *domain.Snapshot) error {
		items, err := s.addItem(ctx, snap.Items, req)
		if err != nil {
			return err
		}
		snap.Items = items
		return nil
	})
}

// UpdateSessionItemQuantity sets the quantity of a line on the saved session.
// A zero quantity removes the line.
func (s *Service) UpdateSessionItemQuantity(ctx context.Context, id string, req domain.ItemQuantityRequest) (domain.Snapshot, error) {
	if req.Quantity < 0 {
		return domain.Snapshot{}, fmt.Errorf("%w: quantity must not be negative", store.ErrInvalidInput)
	}
	data, err := s.pricingData(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	catalog, err := s.products(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	target := domain.OrderDetail{ProductID: req.ProductID, Color: req.Color, Size: req.Size}

	return s.sessions.Update(ctx, id, func(snap *domain.Snapshot) error {
		found := slices.ContainsFunc(snap.Items, func(item domain.OrderDetail) bool {
			return item.ProductID == target.ProductID && item.Color == target.Color && item.Size == target.Size
		})
		if !found {
			return fmt.Errorf("line %s %s/%s: %w", req.ProductID, req.Color, req.Size, store.ErrNotFound)
		}
		snap.Items = order.UpdateQuantity(snap.Items, target, req.Quantity, order.NewSortKeys(catalog, data))
		return nil
	})
}

// SaveSessionDesign adds or replaces a design on the saved session.
func (s *Service) SaveSessionDesign(ctx context.Context, id string, design domain.PrintDesign) (domain.Snapshot, error) {
	return s.sessions.Update(ctx, id, func(snap *domain.Snapshot) error {
		designs, _, err := s.saveDesign(ctx, snap.Items, snap.Designs, design, snap.IsReorder)
		if err != nil {
			return err
		}
		snap.Designs = designs
		return nil
	})
}

// RemoveSessionDesign drops a design from the saved session.
func (s *Service) RemoveSessionDesign(ctx context.Context, id string, designID string) (domain.Snapshot, error) {
	return s.sessions.Update(ctx, id, func(snap *domain.Snapshot) error {
		if snap.IsReorder {
			return order.ErrDesignsReadOnly
		}
		designs, err := order.RemoveDesign(snap.Designs, designID)
		if err != nil {
			return err
		}
		snap.Designs = designs
		return nil
	})
}
