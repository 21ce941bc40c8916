package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"printcost/internal/domain"
	"printcost/internal/export"
	"printcost/internal/store"
	"printcost/internal/xid"
)

// CreateQuote validates the designs, prices the estimate, persists it as a
// quote and notifies the customer and staff. Notification failures are logged
// only.
func (s *Service) CreateQuote(ctx context.Context, req domain.QuoteRequest) (domain.Quote, error) {
	req.Customer.Name = strings.TrimSpace(req.Customer.Name)
	req.Customer.Email = strings.TrimSpace(req.Customer.Email)
	if req.Customer.Name == "" {
		return domain.Quote{}, fmt.Errorf("%w: customer name is required", store.ErrInvalidInput)
	}
	if len(req.Estimate.Items) == 0 && len(req.Estimate.Designs) == 0 && len(req.Estimate.DtfDesigns) == 0 {
		return domain.Quote{}, fmt.Errorf("%w: quote has nothing to price", store.ErrInvalidInput)
	}

	req.Estimate.Designs = withDesignIDs(req.Estimate.Designs)
	if err := s.validateDesigns(ctx, actorOrAnonymous(ctx), req.Estimate.Items, req.Estimate.Designs); err != nil {
		return domain.Quote{}, err
	}

	ev, err := s.evaluate(ctx, req.Estimate)
	if err != nil {
		return domain.Quote{}, err
	}

	designs := ev.designs
	if designs == nil {
		designs = []domain.PrintDesign{}
	}
	quote := domain.Quote{
		ID:         xid.New("quote"),
		Customer:   req.Customer,
		Items:      ev.items,
		Designs:    designs,
		DtfDesigns: ev.dtfDesigns,
		Cost:       ev.response.Cost,
		DtfResults: ev.response.DtfResults,
		IsReorder:  req.Estimate.IsReorder,
		IsBringIn:  ev.bringIn,
		Notes:      strings.TrimSpace(req.Notes),
		CreatedBy:  ev.actor.Username,
		CreatedAt:  s.now(),
	}

	created, err := s.repo.CreateQuote(ctx, quote)
	if err != nil {
		return domain.Quote{}, err
	}
	s.logAudit(ctx, "quote_create", "quote", created.ID, fmt.Sprintf("customer=%s,total=%d,qty=%d",
		created.Customer.Name, created.Cost.TotalCostWithTax, created.Cost.TotalQuantity))

	attachment, err := export.QuoteWorkbookBytes(*created)
	if err != nil {
		s.logger.Warn("failed to render quote workbook", zap.String("quote_id", created.ID), zap.Error(err))
		attachment = nil
	}
	s.notify(ctx, *created, attachment)

	return *created, nil
}

// notify runs the quote notifiers under their own deadline. The request
// context's cancellation is dropped so a client disconnect does not cut a
// notification short.
func (s *Service) notify(ctx context.Context, quote domain.Quote, attachment []byte) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()
	if err := s.notifier.QuoteCreated(ctx, quote, attachment); err != nil {
		s.logger.Warn("quote notification failed", zap.String("quote_id", quote.ID), zap.Error(err))
	}
}

// GetQuote returns a quote by id. Quote ids are unguessable and act as the
// access token for customers.
func (s *Service) GetQuote(ctx context.Context, id string) (domain.Quote, error) {
	id = strings.TrimSpace(id)
	if !xid.Valid("quote", id) {
		return domain.Quote{}, store.ErrNotFound
	}
	quote, err := s.repo.GetQuote(ctx, id)
	if err != nil {
		return domain.Quote{}, err
	}
	return *quote, nil
}

func (s *Service) ListQuotes(ctx context.Context, limit int) ([]domain.Quote, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	return s.repo.ListQuotes(ctx, limit)
}

// ExportQuote renders the quote workbook and its download name.
func (s *Service) ExportQuote(ctx context.Context, id string) (string, []byte, error) {
	quote, err := s.GetQuote(ctx, id)
	if err != nil {
		return "", nil, err
	}
	data, err := export.QuoteWorkbookBytes(quote)
	if err != nil {
		return "", nil, fmt.Errorf("export quote %s: %w", quote.ID, err)
	}
	s.logAudit(ctx, "quote_export", "quote", quote.ID, "")
	return export.Filename(quote), data, nil
}

func (s *Service) ListAuditLogs(ctx context.Context, date string, limit int) ([]domain.AuditLog, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 100
	}

	var from time.Time
	if strings.TrimSpace(date) == "" {
		from = s.now().Add(-24 * time.Hour)
	} else {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", store.ErrInvalidInput)
		}
		from = parsed.UTC()
	}
	to := from.Add(24 * time.Hour)

	return s.repo.ListAuditLogs(ctx, from, to, limit)
}
