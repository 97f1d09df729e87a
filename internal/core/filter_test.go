package core

import (
	"errors"
	"testing"
	"time"
)

var filterNow = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

func inv(no string, status InvoiceStatus, created time.Time, customerID string) Invoice {
	return Invoice{ID: no, InvoiceNo: no, Status: status, CreatedAt: created, CustomerID: customerID}
}

func TestMatchesStatusClass(t *testing.T) {
	cases := []struct {
		name    string
		status  InvoiceStatus
		ageDays int
		class   StatusClass
		want    bool
	}{
		{"paid is paid", InvoicePaid, 1, StatusClassPaid, true},
		{"issued is not paid", InvoiceIssued, 1, StatusClassPaid, false},
		{"issued is unpaid", InvoiceIssued, 1, StatusClassUnpaid, true},
		{"draft is unpaid", InvoiceDraft, 1, StatusClassUnpaid, true},
		{"void is not unpaid", InvoiceVoid, 90, StatusClassUnpaid, false},
		{"void is not overdue", InvoiceVoid, 90, StatusClassOverdue, false},
		{"paid is not overdue", InvoicePaid, 90, StatusClassOverdue, false},
		{"issued 31 days old is overdue", InvoiceIssued, 31, StatusClassOverdue, true},
		{"issued 29 days old is not overdue", InvoiceIssued, 29, StatusClassOverdue, false},
		{"old unpaid still counts as unpaid", InvoiceIssued, 45, StatusClassUnpaid, true},
		{"void matches void", InvoiceVoid, 1, StatusClassVoid, true},
	}
	for _, tc := range cases {
		created := filterNow.AddDate(0, 0, -tc.ageDays)
		got := MatchesStatusClass(inv("INV-1", tc.status, created, ""), tc.class, filterNow)
		if got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestFilterInvoicesEndOfDayInclusive(t *testing.T) {
	late := time.Date(2026, 3, 15, 23, 50, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 16, 0, 10, 0, 0, time.UTC)
	invoices := []Invoice{
		inv("INV-1", InvoiceIssued, late, ""),
		inv("INV-2", InvoiceIssued, nextDay, ""),
	}

	got, err := FilterInvoices(invoices, nil, InvoiceFilter{DateTo: NewDate(2026, 3, 15)}, filterNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].InvoiceNo != "INV-1" {
		t.Fatalf("expected only INV-1 (boundary day inclusive), got %+v", got)
	}
}

func TestFilterInvoicesDateFrom(t *testing.T) {
	invoices := []Invoice{
		inv("INV-1", InvoiceIssued, time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC), ""),
		inv("INV-2", InvoiceIssued, time.Date(2026, 3, 10, 0, 5, 0, 0, time.UTC), ""),
	}
	got, err := FilterInvoices(invoices, nil, InvoiceFilter{DateFrom: NewDate(2026, 3, 10)}, filterNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].InvoiceNo != "INV-2" {
		t.Fatalf("expected only INV-2, got %+v", got)
	}
}

func TestFilterInvoicesInvertedRange(t *testing.T) {
	_, err := FilterInvoices(nil, nil, InvoiceFilter{
		DateFrom: NewDate(2026, 3, 10),
		DateTo:   NewDate(2026, 3, 9),
	}, filterNow)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestFilterInvoicesText(t *testing.T) {
	customers := map[string]Customer{
		"c1": {ID: "c1", FirstName: "Ada", LastName: "Lovelace"},
		"c2": {ID: "c2", FirstName: "Grace", LastName: "Hopper"},
	}
	invoices := []Invoice{
		inv("INV-100", InvoiceIssued, filterNow, "c1"),
		inv("INV-200", InvoiceIssued, filterNow, "c2"),
		inv("INV-300", InvoiceIssued, filterNow, ""),
	}

	cases := []struct {
		text string
		want []string
	}{
		{"inv-1", []string{"INV-100"}},
		{"lovelace", []string{"INV-100"}},
		{"hopper, grace", []string{"INV-200"}},
		{"INV", []string{"INV-100", "INV-200", "INV-300"}},
		{"nobody", nil},
	}
	for _, tc := range cases {
		got, err := FilterInvoices(invoices, customers, InvoiceFilter{Text: tc.text}, filterNow)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.text, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("%q: expected %d rows, got %d", tc.text, len(tc.want), len(got))
		}
		for i, w := range tc.want {
			if got[i].InvoiceNo != w {
				t.Fatalf("%q: position %d expected %s, got %s", tc.text, i, w, got[i].InvoiceNo)
			}
		}
	}
}

func TestFilterInvoicesCombinedAndOrder(t *testing.T) {
	customers := map[string]Customer{"c1": {ID: "c1", FirstName: "Ada", LastName: "Lovelace"}}
	invoices := []Invoice{
		inv("INV-3", InvoiceIssued, filterNow.AddDate(0, 0, -40), "c1"),
		inv("INV-1", InvoiceIssued, filterNow.AddDate(0, 0, -35), "c1"),
		inv("INV-2", InvoicePaid, filterNow.AddDate(0, 0, -35), "c1"),
	}

	got, err := FilterInvoices(invoices, customers, InvoiceFilter{
		StatusClass: StatusClassOverdue,
		CustomerID:  "c1",
	}, filterNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Original relative order preserved.
	if len(got) != 2 || got[0].InvoiceNo != "INV-3" || got[1].InvoiceNo != "INV-1" {
		t.Fatalf("expected [INV-3 INV-1], got %+v", got)
	}
}

func TestParseStatusClass(t *testing.T) {
	for _, s := range []string{"", "paid", "unpaid", "overdue", "void"} {
		class, err := ParseStatusClass(s)
		if err != nil {
			t.Fatalf("ParseStatusClass(%q): %v", s, err)
		}
		if string(class) != s {
			t.Errorf("ParseStatusClass(%q) = %q", s, class)
		}
	}

	if _, err := ParseStatusClass("pending"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("unknown class: err = %v, want ErrInvalidStatus", err)
	}
}
