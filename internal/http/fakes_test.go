package http

import (
	"context"

	"innkeeper/internal/core"
	applog "innkeeper/internal/log"
	"innkeeper/internal/services"
	"innkeeper/internal/storage"
)

type fakeReports struct {
	snapshot services.DashboardSnapshot
	daily    services.DailyReport
	cats     []core.CategoryTotal
	csvName  string
	csvBody  string
	html     string
	ref      string
	err      error

	lastOpts services.SystemReportOptions
}

func (f *fakeReports) Dashboard(context.Context) (services.DashboardSnapshot, error) {
	return f.snapshot, f.err
}

func (f *fakeReports) BuildDailyReport(_ context.Context, from, to core.Date) (services.DailyReport, error) {
	if f.err != nil {
		return services.DailyReport{}, f.err
	}
	rep := f.daily
	rep.From, rep.To = from, to
	return rep, nil
}

func (f *fakeReports) CategoryReport(context.Context, core.Date, core.Date) ([]core.CategoryTotal, error) {
	return f.cats, f.err
}

func (f *fakeReports) DailyReportCSV(context.Context, core.Date, core.Date) (string, string, error) {
	return f.csvName, f.csvBody, f.err
}

func (f *fakeReports) ExportDailyReport(context.Context, core.Date, core.Date) (string, error) {
	return f.ref, f.err
}

func (f *fakeReports) PrintSystemReport(_ context.Context, opts services.SystemReportOptions) (string, error) {
	f.lastOpts = opts
	return f.html, f.err
}

type fakeBilling struct {
	rows    []services.InvoiceRow
	invoice core.Invoice
	html    string
	payID   string
	err     error

	lastFilter  core.InvoiceFilter
	lastInput   services.CreateInvoiceInput
	lastPayment services.RecordPaymentInput
}

func (f *fakeBilling) CreateInvoice(_ context.Context, input services.CreateInvoiceInput) (core.Invoice, error) {
	f.lastInput = input
	return f.invoice, f.err
}

func (f *fakeBilling) ListInvoices(_ context.Context, filter core.InvoiceFilter) ([]services.InvoiceRow, error) {
	f.lastFilter = filter
	return f.rows, f.err
}

func (f *fakeBilling) GetInvoice(_ context.Context, id string) (services.InvoiceRow, error) {
	for _, row := range f.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return services.InvoiceRow{}, storage.ErrNotFound
}

func (f *fakeBilling) PrintInvoice(context.Context, string) (string, error) {
	return f.html, f.err
}

func (f *fakeBilling) MarkInvoicePaid(context.Context, string) error { return f.err }
func (f *fakeBilling) VoidInvoice(context.Context, string) error     { return f.err }

func (f *fakeBilling) RecordPayment(_ context.Context, input services.RecordPaymentInput) (string, error) {
	f.lastPayment = input
	return f.payID, f.err
}

type fakeProperty struct {
	expenses     []core.ExpenseRecord
	reservations []storage.Reservation
	inventory    []storage.InventoryItem
	hr           []storage.HRRecord
	customers    []core.Customer
	roomTypes    []storage.RoomType
	rooms        []storage.Room
	newID        string
	err          error

	lastMove     services.StockMoveInput
	lastHRRecord storage.HRRecord
	lastRoomType storage.RoomType
	lastRoom     storage.Room
}

func (f *fakeProperty) CreateExpense(context.Context, core.ExpenseRecord) (string, error) {
	return f.newID, f.err
}

func (f *fakeProperty) ListExpenses(context.Context, core.Date, core.Date) ([]core.ExpenseRecord, error) {
	return f.expenses, f.err
}

func (f *fakeProperty) CreateReservation(_ context.Context, input services.CreateReservationInput) (storage.Reservation, error) {
	if f.err != nil {
		return storage.Reservation{}, f.err
	}
	return storage.Reservation{
		ID:              f.newID,
		CustomerID:      input.CustomerID,
		RoomID:          input.RoomID,
		CheckIn:         input.CheckIn,
		CheckOut:        input.CheckOut,
		NightlyRateUsed: input.NightlyRate,
		Status:          core.ReservationConfirmed,
	}, nil
}

func (f *fakeProperty) ListReservations(context.Context, core.Date, core.Date) ([]storage.Reservation, error) {
	return f.reservations, f.err
}

func (f *fakeProperty) UpdateReservationStatus(context.Context, string, core.ReservationStatus) error {
	return f.err
}

func (f *fakeProperty) CreateCustomer(context.Context, core.Customer) (string, error) {
	return f.newID, f.err
}

func (f *fakeProperty) CreateInventoryItem(context.Context, storage.InventoryItem) (string, error) {
	return f.newID, f.err
}

func (f *fakeProperty) ListInventoryItems(context.Context) ([]storage.InventoryItem, error) {
	return f.inventory, f.err
}

func (f *fakeProperty) ListLowStockItems(context.Context) ([]storage.InventoryItem, error) {
	return f.inventory, f.err
}

func (f *fakeProperty) RecordStockMove(_ context.Context, input services.StockMoveInput) error {
	f.lastMove = input
	return f.err
}

func (f *fakeProperty) ListHRRecords(context.Context) ([]storage.HRRecord, error) {
	return f.hr, f.err
}

func (f *fakeProperty) CreateHRRecord(_ context.Context, rec storage.HRRecord) (string, error) {
	f.lastHRRecord = rec
	return f.newID, f.err
}

func (f *fakeProperty) ListCustomers(context.Context) ([]core.Customer, error) {
	return f.customers, f.err
}

func (f *fakeProperty) CreateRoomType(_ context.Context, rt storage.RoomType) (string, error) {
	f.lastRoomType = rt
	return f.newID, f.err
}

func (f *fakeProperty) ListRoomTypes(context.Context) ([]storage.RoomType, error) {
	return f.roomTypes, f.err
}

func (f *fakeProperty) CreateRoom(_ context.Context, rm storage.Room) (string, error) {
	f.lastRoom = rm
	return f.newID, f.err
}

func (f *fakeProperty) ListRooms(context.Context) ([]storage.Room, error) {
	return f.rooms, f.err
}

type fakeSettings struct {
	settings storage.HotelSettings
	err      error

	sawDeadline bool
}

func (f *fakeSettings) Get(ctx context.Context) (storage.HotelSettings, error) {
	_, f.sawDeadline = ctx.Deadline()
	return f.settings, f.err
}

func (f *fakeSettings) Update(_ context.Context, settings storage.HotelSettings) error {
	if f.err != nil {
		return f.err
	}
	f.settings = settings
	return nil
}

type fakeActivity struct {
	logs []storage.ActivityLog
	err  error
}

func (f *fakeActivity) ListActivityLogs(context.Context, int) ([]storage.ActivityLog, error) {
	return f.logs, f.err
}

type fixtures struct {
	reports  *fakeReports
	billing  *fakeBilling
	property *fakeProperty
	settings *fakeSettings
	activity *fakeActivity
}

func newTestServer(fx fixtures) *Server {
	if fx.reports == nil {
		fx.reports = &fakeReports{}
	}
	if fx.billing == nil {
		fx.billing = &fakeBilling{}
	}
	if fx.property == nil {
		fx.property = &fakeProperty{}
	}
	if fx.settings == nil {
		fx.settings = &fakeSettings{settings: storage.HotelSettings{HotelName: "Hotel", CurrencyCode: "USD"}}
	}
	if fx.activity == nil {
		fx.activity = &fakeActivity{}
	}
	return NewServer(Options{
		Addr:     ":0",
		Reports:  fx.reports,
		Billing:  fx.billing,
		Property: fx.property,
		Settings: fx.settings,
		Activity: fx.activity,
		Logger:   applog.New(applog.DefaultConfig()),
	})
}
