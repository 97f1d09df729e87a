package core

import (
	"fmt"
	"strings"
	"time"
)

// StatusClass is a derived coarse classification of an invoice, computed
// from the raw status plus age. It is never stored.
type StatusClass string

const (
	StatusClassPaid    StatusClass = "paid"
	StatusClassUnpaid  StatusClass = "unpaid"
	StatusClassOverdue StatusClass = "overdue"
	StatusClassVoid    StatusClass = "void"
)

// overdueDays is the fixed age threshold for the overdue class.
const overdueDays = 30

// ParseStatusClass maps a query value to a StatusClass. Empty means "no
// class filter"; anything outside the four known classes is rejected
// rather than silently matching everything.
func ParseStatusClass(s string) (StatusClass, error) {
	switch class := StatusClass(s); class {
	case "", StatusClassPaid, StatusClassUnpaid, StatusClassOverdue, StatusClassVoid:
		return class, nil
	default:
		return "", fmt.Errorf("status class %q: %w", s, ErrInvalidStatus)
	}
}

// InvoiceFilter holds the active predicates for FilterInvoices. Zero values
// mean "not filtering on this". All active predicates combine with AND.
type InvoiceFilter struct {
	Text        string
	StatusClass StatusClass
	DateFrom    Date
	DateTo      Date
	CustomerID  string
}

// MatchesStatusClass evaluates the derived classification at `now`:
//
//	paid     status == paid
//	void     status == void
//	unpaid   status not in {paid, void} (includes overdue invoices)
//	overdue  unpaid and created more than 30 days before now
func MatchesStatusClass(inv Invoice, class StatusClass, now time.Time) bool {
	switch class {
	case StatusClassPaid:
		return inv.Status == InvoicePaid
	case StatusClassVoid:
		return inv.Status == InvoiceVoid
	case StatusClassUnpaid:
		return inv.Status != InvoicePaid && inv.Status != InvoiceVoid
	case StatusClassOverdue:
		if inv.Status == InvoicePaid || inv.Status == InvoiceVoid {
			return false
		}
		return inv.CreatedAt.Before(now.AddDate(0, 0, -overdueDays))
	}
	return true
}

// FilterInvoices applies the filter over the invoices, preserving their
// relative order. The customers map resolves customer display labels for
// text search. DateTo is inclusive of the whole calendar day: the upper
// bound is dateTo + 1 day compared exclusively, so an invoice created at
// 23:50 on the boundary day is kept. An inverted date range returns
// ErrInvalidRange; bounds are never swapped silently.
func FilterInvoices(invoices []Invoice, customers map[string]Customer, f InvoiceFilter, now time.Time) ([]Invoice, error) {
	if !f.DateFrom.IsZero() && !f.DateTo.IsZero() && f.DateFrom.After(f.DateTo.Time) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, f.DateFrom.Key(), f.DateTo.Key())
	}

	text := strings.ToLower(strings.TrimSpace(f.Text))

	out := make([]Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if f.StatusClass != "" && !MatchesStatusClass(inv, f.StatusClass, now) {
			continue
		}
		if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
			continue
		}
		if !f.DateFrom.IsZero() && DateOf(inv.CreatedAt).Before(f.DateFrom.Time) {
			continue
		}
		if !f.DateTo.IsZero() && !inv.CreatedAt.Before(f.DateTo.AddDays(1).Time) {
			continue
		}
		if text != "" && !matchesText(inv, customers, text) {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func matchesText(inv Invoice, customers map[string]Customer, text string) bool {
	if strings.Contains(strings.ToLower(inv.InvoiceNo), text) {
		return true
	}
	if c, ok := customers[inv.CustomerID]; ok {
		return strings.Contains(strings.ToLower(c.Label()), text)
	}
	return false
}
