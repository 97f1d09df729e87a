package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"innkeeper/internal/core"
	"innkeeper/internal/export"
	applog "innkeeper/internal/log"
	"innkeeper/internal/report"
	"innkeeper/internal/storage"
)

// ReportService computes the reporting read models: the daily series,
// category totals, the dashboard snapshot and the printable documents.
type ReportService struct {
	store    ReportStore
	settings *SettingsService
	sink     export.ReportSink
	logger   *applog.Logger
	now      func() time.Time
}

func NewReportService(store ReportStore, settings *SettingsService, sink export.ReportSink, logger *applog.Logger) *ReportService {
	return &ReportService{
		store:    store,
		settings: settings,
		sink:     sink,
		logger:   logger.WithComponent(applog.ComponentReports),
		now:      time.Now,
	}
}

// DailyReport holds the dense per-day series plus its fold.
type DailyReport struct {
	From    core.Date
	To      core.Date
	Buckets []core.DailyBucket
	Totals  core.SeriesTotals
}

// BuildDailyReport fetches payments, expenses and reservations for the range
// in parallel and feeds them through the daily aggregator.
func (s *ReportService) BuildDailyReport(ctx context.Context, from, to core.Date) (DailyReport, error) {
	if from.After(to.Time) {
		return DailyReport{}, fmt.Errorf("range %s..%s: %w", from.Key(), to.Key(), core.ErrInvalidRange)
	}

	var (
		payments     []core.PaymentRecord
		expenses     []core.ExpenseRecord
		reservations []core.ReservationSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		payments, err = s.store.ListPayments(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.store.ListExpenses(gctx, from, to)
		return err
	})
	g.Go(func() (err error) {
		reservations, err = s.store.ListReservationSummaries(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return DailyReport{}, fmt.Errorf("fetch report rows: %w", err)
	}

	buckets, err := core.AggregateDaily(payments, expenses, reservations, from, to)
	if err != nil {
		return DailyReport{}, err
	}

	s.logger.DebugContext(ctx, "Built daily report",
		applog.FieldRangeFrom, from.Key(),
		applog.FieldRangeTo, to.Key(),
		applog.FieldRowCount, len(buckets))

	return DailyReport{
		From:    from,
		To:      to,
		Buckets: buckets,
		Totals:  core.TotalsOf(buckets),
	}, nil
}

// CategoryReport returns expense totals per category for the range.
func (s *ReportService) CategoryReport(ctx context.Context, from, to core.Date) ([]core.CategoryTotal, error) {
	if from.After(to.Time) {
		return nil, fmt.Errorf("range %s..%s: %w", from.Key(), to.Key(), core.ErrInvalidRange)
	}
	expenses, err := s.store.ListExpenses(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch expenses: %w", err)
	}
	return core.AggregateCategories(expenses, from, to), nil
}

func dailyReportRows(rep DailyReport) []report.Row {
	rows := make([]report.Row, 0, len(rep.Buckets))
	for _, b := range rep.Buckets {
		rows = append(rows, report.Row{
			{Key: "date", Value: b.Day.Key()},
			{Key: "income", Value: core.FormatAmount(b.Income)},
			{Key: "expenses", Value: core.FormatAmount(b.Expenses)},
			{Key: "net", Value: core.FormatAmount(b.Net)},
			{Key: "bookings", Value: strconv.Itoa(b.Bookings)},
			{Key: "occupancy", Value: strconv.Itoa(b.Occupancy)},
		})
	}
	return rows
}

// DailyReportCSV renders the daily report as CSV and returns the suggested
// download filename alongside the payload.
func (s *ReportService) DailyReportCSV(ctx context.Context, from, to core.Date) (string, string, error) {
	rep, err := s.BuildDailyReport(ctx, from, to)
	if err != nil {
		return "", "", err
	}
	filename := fmt.Sprintf("report_%s_to_%s.csv", from.Key(), to.Key())
	return filename, report.CSV(dailyReportRows(rep)), nil
}

// ExportDailyReport appends the daily report to the configured sink.
func (s *ReportService) ExportDailyReport(ctx context.Context, from, to core.Date) (string, error) {
	if s.sink == nil {
		return "", fmt.Errorf("no report sink configured")
	}
	rep, err := s.BuildDailyReport(ctx, from, to)
	if err != nil {
		return "", err
	}

	header := []string{"date", "income", "expenses", "net", "bookings", "occupancy"}
	rows := make([][]string, 0, len(rep.Buckets))
	for _, b := range rep.Buckets {
		rows = append(rows, []string{
			b.Day.Key(),
			core.FormatAmount(b.Income),
			core.FormatAmount(b.Expenses),
			core.FormatAmount(b.Net),
			strconv.Itoa(b.Bookings),
			strconv.Itoa(b.Occupancy),
		})
	}

	title := fmt.Sprintf("Daily report %s to %s", from.Key(), to.Key())
	ref, err := s.sink.AppendReport(ctx, title, header, rows)
	if err != nil {
		return "", fmt.Errorf("export daily report: %w", err)
	}

	s.logger.InfoContext(ctx, "Exported daily report",
		applog.FieldRangeFrom, from.Key(),
		applog.FieldRangeTo, to.Key(),
		applog.FieldRowCount, len(rows),
		"ref", ref)
	return ref, nil
}

const (
	dashboardSeriesDays    = 30
	dashboardCheckoutDays  = 7
	dashboardCheckoutLimit = 5
	dashboardLowStockLimit = 5
)

// DashboardSnapshot is the landing-page read model.
type DashboardSnapshot struct {
	IncomeToday   decimal.Decimal
	IncomeMonth   decimal.Decimal
	IncomeYear    decimal.Decimal
	ExpensesMonth decimal.Decimal
	NetMonth      decimal.Decimal

	OccupiedRooms int
	RoomCount     int

	UpcomingCheckouts []storage.CheckoutRow
	LowStock          []storage.InventoryItem
	Series            []core.DailyBucket
	Categories        []core.CategoryTotal
}

// Dashboard assembles the snapshot with all fetches running in parallel.
func (s *ReportService) Dashboard(ctx context.Context) (DashboardSnapshot, error) {
	today := core.DateOf(s.now())
	yearStart := core.NewDate(today.Year(), 1, 1)
	monthStart := core.NewDate(today.Year(), int(today.Month()), 1)
	windowStart := today.AddDays(-(dashboardSeriesDays - 1))

	var (
		yearPayments  []core.PaymentRecord
		monthExpenses []core.ExpenseRecord
		winPayments   []core.PaymentRecord
		winExpenses   []core.ExpenseRecord
		winRes        []core.ReservationSummary
		roomCount     int
		checkouts     []storage.CheckoutRow
		lowStock      []storage.InventoryItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		yearPayments, err = s.store.ListPayments(gctx, yearStart, today)
		return err
	})
	g.Go(func() (err error) {
		monthExpenses, err = s.store.ListExpenses(gctx, monthStart, today)
		return err
	})
	g.Go(func() (err error) {
		winPayments, err = s.store.ListPayments(gctx, windowStart, today)
		return err
	})
	g.Go(func() (err error) {
		winExpenses, err = s.store.ListExpenses(gctx, windowStart, today)
		return err
	})
	g.Go(func() (err error) {
		winRes, err = s.store.ListReservationSummaries(gctx, windowStart, today)
		return err
	})
	g.Go(func() (err error) {
		roomCount, err = s.store.CountRooms(gctx)
		return err
	})
	g.Go(func() (err error) {
		checkouts, err = s.store.ListUpcomingCheckouts(gctx, today, today.AddDays(dashboardCheckoutDays), dashboardCheckoutLimit)
		return err
	})
	g.Go(func() (err error) {
		lowStock, err = s.store.ListLowStockItems(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardSnapshot{}, fmt.Errorf("fetch dashboard rows: %w", err)
	}

	var incomeToday, incomeMonth, incomeYear decimal.Decimal
	for _, p := range yearPayments {
		day := core.DateOf(p.PaidAt)
		incomeYear = incomeYear.Add(p.Amount)
		if !day.Before(monthStart.Time) {
			incomeMonth = incomeMonth.Add(p.Amount)
		}
		if day.Equal(today.Time) {
			incomeToday = incomeToday.Add(p.Amount)
		}
	}

	expensesMonth := decimal.Zero
	for _, e := range monthExpenses {
		expensesMonth = expensesMonth.Add(e.Amount)
	}

	occupied := 0
	for _, r := range winRes {
		if r.Status.Active() && r.Occupies(today) {
			occupied++
		}
	}

	series, err := core.AggregateDaily(winPayments, winExpenses, winRes, windowStart, today)
	if err != nil {
		return DashboardSnapshot{}, err
	}

	if len(lowStock) > dashboardLowStockLimit {
		lowStock = lowStock[:dashboardLowStockLimit]
	}

	return DashboardSnapshot{
		IncomeToday:       core.Round2(incomeToday),
		IncomeMonth:       core.Round2(incomeMonth),
		IncomeYear:        core.Round2(incomeYear),
		ExpensesMonth:     core.Round2(expensesMonth),
		NetMonth:          core.Round2(incomeMonth.Sub(expensesMonth)),
		OccupiedRooms:     occupied,
		RoomCount:         roomCount,
		UpcomingCheckouts: checkouts,
		LowStock:          lowStock,
		Series:            series,
		Categories:        core.AggregateCategories(monthExpenses, monthStart, today),
	}, nil
}

// SystemReportOptions selects which sections the printed report includes.
type SystemReportOptions struct {
	From core.Date
	To   core.Date

	Financial bool
	Expenses  bool
	Staff     bool
	Inventory bool
	Billing   bool
}

func (o SystemReportOptions) anySelected() bool {
	return o.Financial || o.Expenses || o.Staff || o.Inventory || o.Billing
}

const latestInvoicesLimit = 50

// PrintSystemReport renders the selected sections as a print-ready document.
func (s *ReportService) PrintSystemReport(ctx context.Context, opts SystemReportOptions) (string, error) {
	if !opts.anySelected() {
		return "", fmt.Errorf("select at least one report section: %w", report.ErrNoSections)
	}
	if opts.From.After(opts.To.Time) {
		return "", fmt.Errorf("range %s..%s: %w", opts.From.Key(), opts.To.Key(), core.ErrInvalidRange)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", err
	}

	doc := report.Document{
		Title:    settings.HotelName,
		Subtitle: fmt.Sprintf("System report %s to %s", opts.From.Key(), opts.To.Key()),
	}

	if opts.Financial {
		sec, err := s.financialSection(ctx, opts.From, opts.To)
		if err != nil {
			return "", err
		}
		doc.Sections = append(doc.Sections, sec)
	}
	if opts.Expenses {
		sec, err := s.expensesSection(ctx, opts.From, opts.To)
		if err != nil {
			return "", err
		}
		doc.Sections = append(doc.Sections, sec)
	}
	if opts.Staff {
		sec, err := s.staffSection(ctx)
		if err != nil {
			return "", err
		}
		doc.Sections = append(doc.Sections, sec)
	}
	if opts.Inventory {
		sec, err := s.inventorySection(ctx)
		if err != nil {
			return "", err
		}
		doc.Sections = append(doc.Sections, sec)
	}
	if opts.Billing {
		sec, err := s.billingSection(ctx)
		if err != nil {
			return "", err
		}
		doc.Sections = append(doc.Sections, sec)
	}

	html, err := report.Render(doc, s.now())
	if err != nil {
		return "", fmt.Errorf("render system report: %w", err)
	}

	s.logger.InfoContext(ctx, "Printed system report",
		applog.FieldRangeFrom, opts.From.Key(),
		applog.FieldRangeTo, opts.To.Key(),
		applog.FieldSections, len(doc.Sections))
	return html, nil
}

func (s *ReportService) financialSection(ctx context.Context, from, to core.Date) (report.Section, error) {
	rep, err := s.BuildDailyReport(ctx, from, to)
	if err != nil {
		return report.Section{}, err
	}

	rows := make([][]string, 0, len(rep.Buckets))
	for _, b := range rep.Buckets {
		rows = append(rows, []string{
			b.Day.Key(),
			core.FormatAmount(b.Income),
			core.FormatAmount(b.Expenses),
			core.FormatAmount(b.Net),
			strconv.Itoa(b.Bookings),
			strconv.Itoa(b.Occupancy),
		})
	}

	body := report.Badge("Income "+core.FormatAmount(rep.Totals.Income)) +
		report.Badge("Expenses "+core.FormatAmount(rep.Totals.Expenses)) +
		report.Badge("Net "+core.FormatAmount(rep.Totals.Net)) +
		report.Table(
			[]string{"Date", "Income", "Expenses", "Net", "Bookings", "Occupancy"},
			rows, 1, 2, 3, 4, 5)

	return report.Section{Title: "Financial summary", Body: body}, nil
}

func (s *ReportService) expensesSection(ctx context.Context, from, to core.Date) (report.Section, error) {
	expenses, err := s.store.ListExpenses(ctx, from, to)
	if err != nil {
		return report.Section{}, fmt.Errorf("fetch expenses: %w", err)
	}
	if len(expenses) == 0 {
		return report.Section{Title: "Expenses", Body: report.Note("No expenses in range.")}, nil
	}

	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{
			e.ExpenseDate.Key(), e.Description, string(e.Category), core.FormatAmount(e.Amount),
		})
	}
	body := report.Table([]string{"Date", "Description", "Category", "Amount"}, rows, 3)
	return report.Section{Title: "Expenses", Body: body}, nil
}

func (s *ReportService) staffSection(ctx context.Context) (report.Section, error) {
	records, err := s.store.ListHRRecords(ctx)
	if err != nil {
		return report.Section{}, fmt.Errorf("fetch hr records: %w", err)
	}
	if len(records) == 0 {
		return report.Section{Title: "Staff", Body: report.Note("No staff records.")}, nil
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		end := "-"
		if r.EndDate != nil {
			end = r.EndDate.Key()
		}
		rows = append(rows, []string{
			r.FullName, r.RoleTitle, core.FormatAmount(r.SalaryMonthly), r.StartDate.Key(), end,
		})
	}
	body := report.Table([]string{"Name", "Role", "Monthly salary", "Start", "End"}, rows, 2)
	return report.Section{Title: "Staff", Body: body}, nil
}

func (s *ReportService) inventorySection(ctx context.Context) (report.Section, error) {
	items, err := s.store.ListInventoryItems(ctx)
	if err != nil {
		return report.Section{}, fmt.Errorf("fetch inventory: %w", err)
	}
	low, err := s.store.ListLowStockItems(ctx)
	if err != nil {
		return report.Section{}, fmt.Errorf("fetch low stock: %w", err)
	}

	lowIDs := make(map[string]bool, len(low))
	for _, it := range low {
		lowIDs[it.ID] = true
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		flag := ""
		if lowIDs[it.ID] {
			flag = "LOW"
		}
		rows = append(rows, []string{
			it.Name, it.Unit, it.CurrentStock.String(), it.ReorderLevel.String(), flag,
		})
	}

	body := report.Badge(fmt.Sprintf("%d items", len(items))) +
		report.Badge(fmt.Sprintf("%d low", len(low))) +
		report.Table([]string{"Item", "Unit", "Stock", "Reorder at", ""}, rows, 2, 3)
	if len(items) == 0 {
		body = report.Note("No inventory items.")
	}
	return report.Section{Title: "Inventory", Body: body}, nil
}

func (s *ReportService) billingSection(ctx context.Context) (report.Section, error) {
	balances, err := s.store.ListOutstandingBalances(ctx)
	if err != nil {
		return report.Section{}, fmt.Errorf("fetch balances: %w", err)
	}
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return report.Section{}, fmt.Errorf("fetch invoices: %w", err)
	}
	if len(invoices) > latestInvoicesLimit {
		invoices = invoices[:latestInvoicesLimit]
	}

	var body string
	if len(balances) == 0 {
		body += report.Note("No outstanding balances.")
	} else {
		rows := make([][]string, 0, len(balances))
		for _, b := range balances {
			rows = append(rows, []string{
				b.GuestName, b.RoomNumber, string(b.Status),
				core.FormatAmount(b.TotalAmount), core.FormatAmount(b.BalanceDue),
			})
		}
		body += report.Table([]string{"Guest", "Room", "Status", "Total", "Balance due"}, rows, 3, 4)
	}

	if len(invoices) > 0 {
		rows := make([][]string, 0, len(invoices))
		for _, inv := range invoices {
			rows = append(rows, []string{
				inv.InvoiceNo, string(inv.Status),
				inv.CreatedAt.Format("2006-01-02"), core.FormatAmount(inv.Total),
			})
		}
		body += report.Table([]string{"Invoice", "Status", "Date", "Total"}, rows, 3)
	}

	return report.Section{Title: "Billing overview", Body: body}, nil
}
