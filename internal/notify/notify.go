// Package notify tells customers and staff about newly created quotes.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"printcost/internal/domain"
)

// Notifier is called after a quote has been persisted. Attachment holds the
// rendered workbook and may be nil.
type Notifier interface {
	QuoteCreated(ctx context.Context, quote domain.Quote, attachment []byte) error
}

type Noop struct{}

func (Noop) QuoteCreated(context.Context, domain.Quote, []byte) error { return nil }

// Multi fans a notification out to every notifier and joins their errors.
// Each error is prefixed with the notifier that produced it; logging is left
// to the caller.
type Multi struct {
	notifiers []Notifier
}

func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) Len() int {
	return len(m.notifiers)
}

func (m *Multi) QuoteCreated(ctx context.Context, quote domain.Quote, attachment []byte) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.QuoteCreated(ctx, quote, attachment); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", n, err))
		}
	}
	return errors.Join(errs...)
}

func summary(quote domain.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quote %s\n", quote.ID)
	fmt.Fprintf(&b, "Customer: %s", quote.Customer.Name)
	if quote.Customer.Company != "" {
		fmt.Fprintf(&b, " (%s)", quote.Customer.Company)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Items: %d pcs, %d designs\n", quote.Cost.TotalQuantity, len(quote.Designs)+len(quote.DtfDesigns))
	fmt.Fprintf(&b, "Total: ¥%d (tax ¥%d, shipping ¥%d)\n", quote.Cost.TotalCostWithTax, quote.Cost.Tax, quote.Cost.ShippingCost)
	fmt.Fprintf(&b, "Per shirt: ¥%d\n", quote.Cost.CostPerShirt)
	if quote.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", quote.Notes)
	}
	return b.String()
}
