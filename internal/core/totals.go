package core

import "github.com/shopspring/decimal"

// InvoiceTotals is the computed money summary of an invoice.
// Total is kept separate from Subtotal as the hook for future taxes or
// fees; today the two are equal.
type InvoiceTotals struct {
	LineTotals []decimal.Decimal
	Subtotal   decimal.Decimal
	Total      decimal.Decimal
}

// LineTotal computes quantity × unit price for a single item.
func (it InvoiceLineItem) LineTotal() decimal.Decimal {
	return it.Quantity.Mul(it.UnitPrice)
}

// ComputeInvoiceTotals validates the items and computes per-line totals and
// the invoice subtotal. An empty item list returns ErrNoLineItems; a
// non-positive quantity returns ErrInvalidQuantity; a negative unit price
// returns ErrInvalidAmount.
func ComputeInvoiceTotals(items []InvoiceLineItem) (InvoiceTotals, error) {
	if len(items) == 0 {
		return InvoiceTotals{}, ErrNoLineItems
	}

	totals := InvoiceTotals{LineTotals: make([]decimal.Decimal, len(items))}
	subtotal := decimal.Zero
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return InvoiceTotals{}, err
		}
		lt := it.LineTotal()
		totals.LineTotals[i] = lt
		subtotal = subtotal.Add(lt)
	}

	totals.Subtotal = subtotal
	totals.Total = subtotal
	return totals, nil
}
