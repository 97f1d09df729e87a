package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"innkeeper/internal/core"
	"innkeeper/internal/export/memory"
	"innkeeper/internal/report"
	"innkeeper/internal/storage"
)

func newReportService(store *stubReportStore, settingsStore *stubSettingsStore) *ReportService {
	svc := NewReportService(store, testSettings(settingsStore), nil, testLogger())
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestBuildDailyReport(t *testing.T) {
	store := &stubReportStore{
		payments: []core.PaymentRecord{
			{Amount: dec("100.00"), PaidAt: time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)},
			{Amount: dec("50.50"), PaidAt: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)},
		},
		expenses: []core.ExpenseRecord{
			{Description: "Linen", Amount: dec("20.00"), Category: core.CategorySupplies, ExpenseDate: day("2026-03-02")},
		},
	}
	svc := newReportService(store, &stubSettingsStore{})

	rep, err := svc.BuildDailyReport(context.Background(), day("2026-03-01"), day("2026-03-05"))
	if err != nil {
		t.Fatalf("BuildDailyReport: %v", err)
	}
	if len(rep.Buckets) != 5 {
		t.Fatalf("buckets = %d, want 5", len(rep.Buckets))
	}
	if got := core.FormatAmount(rep.Totals.Income); got != "150.50" {
		t.Errorf("total income = %s, want 150.50", got)
	}
	if got := core.FormatAmount(rep.Totals.Net); got != "130.50" {
		t.Errorf("total net = %s, want 130.50", got)
	}
}

func TestBuildDailyReportInvalidRange(t *testing.T) {
	svc := newReportService(&stubReportStore{}, &stubSettingsStore{})

	_, err := svc.BuildDailyReport(context.Background(), day("2026-03-05"), day("2026-03-01"))
	if !errors.Is(err, core.ErrInvalidRange) {
		t.Errorf("err = %v, want ErrInvalidRange", err)
	}
}

func TestBuildDailyReportPropagatesStoreError(t *testing.T) {
	store := &stubReportStore{err: errors.New("db gone")}
	svc := newReportService(store, &stubSettingsStore{})

	_, err := svc.BuildDailyReport(context.Background(), day("2026-03-01"), day("2026-03-05"))
	if err == nil || !strings.Contains(err.Error(), "db gone") {
		t.Errorf("err = %v, want wrapped store error", err)
	}
}

func TestDailyReportCSV(t *testing.T) {
	store := &stubReportStore{
		payments: []core.PaymentRecord{
			{Amount: dec("75.00"), PaidAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
		},
	}
	svc := newReportService(store, &stubSettingsStore{})

	filename, data, err := svc.DailyReportCSV(context.Background(), day("2026-03-01"), day("2026-03-02"))
	if err != nil {
		t.Fatalf("DailyReportCSV: %v", err)
	}
	if filename != "report_2026-03-01_to_2026-03-02.csv" {
		t.Errorf("filename = %q", filename)
	}
	lines := strings.Split(data, "\n")
	if lines[0] != "date,income,expenses,net,bookings,occupancy" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Errorf("lines = %d, want header + 2 days", len(lines))
	}
	if !strings.HasPrefix(lines[1], "2026-03-01,75.00,") {
		t.Errorf("first data line = %q", lines[1])
	}
}

func TestExportDailyReport(t *testing.T) {
	store := &stubReportStore{
		payments: []core.PaymentRecord{
			{Amount: dec("75.00"), PaidAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
		},
	}
	sink := memory.New()
	svc := NewReportService(store, testSettings(&stubSettingsStore{}), sink, testLogger())

	ref, err := svc.ExportDailyReport(context.Background(), day("2026-03-01"), day("2026-03-01"))
	if err != nil {
		t.Fatalf("ExportDailyReport: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q", ref)
	}

	reports := sink.Reports()
	if len(reports) != 1 || len(reports[0].Rows) != 1 {
		t.Fatalf("reports = %+v", reports)
	}
	if reports[0].Rows[0][1] != "75.00" {
		t.Errorf("exported income = %q", reports[0].Rows[0][1])
	}
}

func TestExportDailyReportWithoutSink(t *testing.T) {
	svc := newReportService(&stubReportStore{}, &stubSettingsStore{})

	if _, err := svc.ExportDailyReport(context.Background(), day("2026-03-01"), day("2026-03-01")); err == nil {
		t.Error("ExportDailyReport without a sink should fail")
	}
}

func TestDashboard(t *testing.T) {
	store := &stubReportStore{
		payments: []core.PaymentRecord{
			{Amount: dec("100.00"), PaidAt: time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)},
			{Amount: dec("50.00"), PaidAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
			{Amount: dec("30.00"), PaidAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)},
		},
		expenses: []core.ExpenseRecord{
			{Description: "Soap", Amount: dec("40.00"), Category: core.CategorySupplies, ExpenseDate: day("2026-03-05")},
		},
		reservations: []core.ReservationSummary{
			{CreatedAt: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), CheckIn: day("2026-03-14"), CheckOut: day("2026-03-16"), Status: core.ReservationCheckedIn},
			{CreatedAt: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), CheckIn: day("2026-03-14"), CheckOut: day("2026-03-16"), Status: core.ReservationCancelled},
		},
		rooms: 10,
		checkouts: []storage.CheckoutRow{
			{ReservationID: "r1", RoomNumber: "101", GuestName: "Rossi, Ada", CheckOut: day("2026-03-16")},
		},
		lowStock: []storage.InventoryItem{
			{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"}, {Name: "f"}, {Name: "g"},
		},
	}
	svc := newReportService(store, &stubSettingsStore{})

	snap, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if got := core.FormatAmount(snap.IncomeToday); got != "100.00" {
		t.Errorf("income today = %s", got)
	}
	if got := core.FormatAmount(snap.IncomeMonth); got != "150.00" {
		t.Errorf("income month = %s", got)
	}
	if got := core.FormatAmount(snap.IncomeYear); got != "180.00" {
		t.Errorf("income year = %s", got)
	}
	if got := core.FormatAmount(snap.NetMonth); got != "110.00" {
		t.Errorf("net month = %s", got)
	}
	if snap.OccupiedRooms != 1 {
		t.Errorf("occupied = %d, want 1 (cancelled stay excluded)", snap.OccupiedRooms)
	}
	if snap.RoomCount != 10 {
		t.Errorf("rooms = %d", snap.RoomCount)
	}
	if len(snap.Series) != dashboardSeriesDays {
		t.Errorf("series days = %d, want %d", len(snap.Series), dashboardSeriesDays)
	}
	if len(snap.LowStock) != dashboardLowStockLimit {
		t.Errorf("low stock = %d, want capped at %d", len(snap.LowStock), dashboardLowStockLimit)
	}
	if len(snap.Categories) != 1 || snap.Categories[0].Category != core.CategorySupplies {
		t.Errorf("categories = %+v", snap.Categories)
	}
}

func TestPrintSystemReportRequiresSection(t *testing.T) {
	svc := newReportService(&stubReportStore{}, &stubSettingsStore{})

	_, err := svc.PrintSystemReport(context.Background(), SystemReportOptions{
		From: day("2026-03-01"), To: day("2026-03-05"),
	})
	if !errors.Is(err, report.ErrNoSections) {
		t.Errorf("err = %v, want ErrNoSections", err)
	}
}

func TestPrintSystemReport(t *testing.T) {
	store := &stubReportStore{
		payments: []core.PaymentRecord{
			{Amount: dec("200.00"), PaidAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)},
		},
		balances: []storage.BalanceRow{
			{ReservationID: "r1", GuestName: "Rossi, Ada", RoomNumber: "101",
				Status: core.ReservationCheckedIn, TotalAmount: dec("240.00"), BalanceDue: dec("240.00")},
		},
		invoices: []core.Invoice{
			{ID: "i1", InvoiceNo: "2026-0001", Status: core.InvoiceIssued,
				CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Total: dec("99.00")},
		},
	}
	settingsStore := &stubSettingsStore{settings: storage.HotelSettings{HotelName: "Seaside Inn", CurrencyCode: "EUR"}}
	svc := newReportService(store, settingsStore)

	html, err := svc.PrintSystemReport(context.Background(), SystemReportOptions{
		From: day("2026-03-01"), To: day("2026-03-05"),
		Financial: true, Billing: true,
	})
	if err != nil {
		t.Fatalf("PrintSystemReport: %v", err)
	}

	for _, want := range []string{
		"Seaside Inn",
		"Financial summary",
		"Billing overview",
		"200.00",
		"Rossi, Ada",
		"2026-0001",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}
	if strings.Contains(html, "Staff") {
		t.Error("unselected section should not render")
	}
}
