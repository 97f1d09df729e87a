package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"innkeeper/internal/amqp"
	"innkeeper/internal/core"
	applog "innkeeper/internal/log"
	"innkeeper/internal/storage"
)

func testLogger() *applog.Logger {
	return applog.New(applog.DefaultConfig())
}

func dec(t string) decimal.Decimal {
	return decimal.RequireFromString(t)
}

func day(s string) core.Date {
	d, err := core.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

type stubPublisher struct {
	events []*amqp.ActivityEvent
	err    error
}

func (p *stubPublisher) PublishActivity(_ context.Context, event *amqp.ActivityEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type stubReportStore struct {
	payments     []core.PaymentRecord
	expenses     []core.ExpenseRecord
	reservations []core.ReservationSummary
	rooms        int
	checkouts    []storage.CheckoutRow
	lowStock     []storage.InventoryItem
	inventory    []storage.InventoryItem
	hr           []storage.HRRecord
	balances     []storage.BalanceRow
	invoices     []core.Invoice
	customers    []core.Customer
	err          error
}

func (s *stubReportStore) ListPayments(_ context.Context, from, to core.Date) ([]core.PaymentRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []core.PaymentRecord
	for _, p := range s.payments {
		d := core.DateOf(p.PaidAt)
		if !d.Before(from.Time) && !d.After(to.Time) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubReportStore) ListExpenses(_ context.Context, from, to core.Date) ([]core.ExpenseRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []core.ExpenseRecord
	for _, e := range s.expenses {
		if !e.ExpenseDate.Before(from.Time) && !e.ExpenseDate.After(to.Time) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubReportStore) ListReservationSummaries(_ context.Context, _, _ core.Date) ([]core.ReservationSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.reservations, nil
}

func (s *stubReportStore) CountRooms(_ context.Context) (int, error) { return s.rooms, s.err }

func (s *stubReportStore) ListUpcomingCheckouts(_ context.Context, _, _ core.Date, _ int) ([]storage.CheckoutRow, error) {
	return s.checkouts, s.err
}

func (s *stubReportStore) ListLowStockItems(_ context.Context) ([]storage.InventoryItem, error) {
	return s.lowStock, s.err
}

func (s *stubReportStore) ListInventoryItems(_ context.Context) ([]storage.InventoryItem, error) {
	return s.inventory, s.err
}

func (s *stubReportStore) ListHRRecords(_ context.Context) ([]storage.HRRecord, error) {
	return s.hr, s.err
}

func (s *stubReportStore) ListOutstandingBalances(_ context.Context) ([]storage.BalanceRow, error) {
	return s.balances, s.err
}

func (s *stubReportStore) ListInvoices(_ context.Context) ([]core.Invoice, error) {
	return s.invoices, s.err
}

func (s *stubReportStore) ListCustomers(_ context.Context) ([]core.Customer, error) {
	return s.customers, s.err
}

type stubSettingsStore struct {
	settings storage.HotelSettings
	getCalls int
	err      error
}

func (s *stubSettingsStore) GetHotelSettings(_ context.Context) (storage.HotelSettings, error) {
	s.getCalls++
	return s.settings, s.err
}

func (s *stubSettingsStore) UpdateHotelSettings(_ context.Context, settings storage.HotelSettings) error {
	if s.err != nil {
		return s.err
	}
	s.settings = settings
	return nil
}

func testSettings(store *stubSettingsStore) *SettingsService {
	return NewSettingsService(store, time.Minute, testLogger())
}

type stubBillingStore struct {
	invoices    []core.Invoice
	customers   []core.Customer
	reservation storage.Reservation
	yearCount   int

	createdInvoice *core.Invoice
	statusUpdates  map[string]core.InvoiceStatus
	payments       []storage.Payment
	err            error
}

func (s *stubBillingStore) ListInvoices(_ context.Context) ([]core.Invoice, error) {
	return s.invoices, s.err
}

func (s *stubBillingStore) GetInvoice(_ context.Context, id string) (core.Invoice, error) {
	for _, inv := range s.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return core.Invoice{}, storage.ErrNotFound
}

func (s *stubBillingStore) CreateInvoice(_ context.Context, inv core.Invoice) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.createdInvoice = &inv
	return "inv-new", nil
}

func (s *stubBillingStore) UpdateInvoiceStatus(_ context.Context, id string, status core.InvoiceStatus) error {
	if s.statusUpdates == nil {
		s.statusUpdates = map[string]core.InvoiceStatus{}
	}
	s.statusUpdates[id] = status
	return s.err
}

func (s *stubBillingStore) CountInvoicesInYear(_ context.Context, _ int) (int, error) {
	return s.yearCount, s.err
}

func (s *stubBillingStore) ListCustomers(_ context.Context) ([]core.Customer, error) {
	return s.customers, s.err
}

func (s *stubBillingStore) GetCustomer(_ context.Context, id string) (core.Customer, error) {
	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Customer{}, storage.ErrNotFound
}

func (s *stubBillingStore) GetReservation(_ context.Context, id string) (storage.Reservation, error) {
	if s.reservation.ID != id {
		return storage.Reservation{}, storage.ErrNotFound
	}
	return s.reservation, nil
}

func (s *stubBillingStore) RecordPayment(_ context.Context, p storage.Payment) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.payments = append(s.payments, p)
	return "pay-new", nil
}

type stubPropertyStore struct {
	expenses     []core.ExpenseRecord
	reservations []storage.Reservation
	inventory    []storage.InventoryItem
	lowStock     []storage.InventoryItem
	hr           []storage.HRRecord

	roomTypes []storage.RoomType
	rooms     []storage.Room
	customers []core.Customer

	createdExpense     *core.ExpenseRecord
	createdReservation *storage.Reservation
	createdItem        *storage.InventoryItem
	createdHRRecord    *storage.HRRecord
	createdRoomType    *storage.RoomType
	createdRoom        *storage.Room
	statusUpdates      map[string]core.ReservationStatus
	stockMoves         []StockMoveInput
	err                error
}

func (s *stubPropertyStore) CreateExpense(_ context.Context, e core.ExpenseRecord, _ time.Time) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.createdExpense = &e
	return "exp-new", nil
}

func (s *stubPropertyStore) ListExpenses(_ context.Context, _, _ core.Date) ([]core.ExpenseRecord, error) {
	return s.expenses, s.err
}

func (s *stubPropertyStore) CreateReservation(_ context.Context, res storage.Reservation) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.createdReservation = &res
	return "res-new", nil
}

func (s *stubPropertyStore) ListReservations(_ context.Context, _, _ core.Date) ([]storage.Reservation, error) {
	return s.reservations, s.err
}

func (s *stubPropertyStore) GetReservation(_ context.Context, id string) (storage.Reservation, error) {
	for _, r := range s.reservations {
		if r.ID == id {
			return r, nil
		}
	}
	return storage.Reservation{}, storage.ErrNotFound
}

func (s *stubPropertyStore) UpdateReservationStatus(_ context.Context, id string, status core.ReservationStatus) error {
	if s.statusUpdates == nil {
		s.statusUpdates = map[string]core.ReservationStatus{}
	}
	s.statusUpdates[id] = status
	return s.err
}

func (s *stubPropertyStore) CreateInventoryItem(_ context.Context, it storage.InventoryItem, _ time.Time) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.createdItem = &it
	return "item-new", nil
}

func (s *stubPropertyStore) ListInventoryItems(_ context.Context) ([]storage.InventoryItem, error) {
	return s.inventory, s.err
}

func (s *stubPropertyStore) ListLowStockItems(_ context.Context) ([]storage.InventoryItem, error) {
	return s.lowStock, s.err
}

func (s *stubPropertyStore) ApplyStockMove(_ context.Context, itemID, direction string, qty decimal.Decimal, notes string, _ time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.stockMoves = append(s.stockMoves, StockMoveInput{ItemID: itemID, Direction: direction, Quantity: qty, Notes: notes})
	return nil
}

func (s *stubPropertyStore) ListHRRecords(_ context.Context) ([]storage.HRRecord, error) {
	return s.hr, s.err
}

func (s *stubPropertyStore) GetCustomer(_ context.Context, id string) (core.Customer, error) {
	return core.Customer{ID: id, FirstName: "Ada", LastName: "Rossi"}, nil
}

func (s *stubPropertyStore) CreateCustomer(_ context.Context, _ core.Customer, _ time.Time) (string, error) {
	return "cust-new", s.err
}

func (s *stubPropertyStore) ListCustomers(_ context.Context) ([]core.Customer, error) {
	return s.customers, s.err
}

func (s *stubPropertyStore) InsertHRRecord(_ context.Context, rec storage.HRRecord) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.createdHRRecord = &rec
	return "hr-new", nil
}

func (s *stubPropertyStore) CreateRoomType(_ context.Context, rt storage.RoomType) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.createdRoomType = &rt
	return "rt-new", nil
}

func (s *stubPropertyStore) ListRoomTypes(_ context.Context) ([]storage.RoomType, error) {
	return s.roomTypes, s.err
}

func (s *stubPropertyStore) CreateRoom(_ context.Context, rm storage.Room) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.createdRoom = &rm
	return "room-new", nil
}

func (s *stubPropertyStore) ListRooms(_ context.Context) ([]storage.Room, error) {
	return s.rooms, s.err
}
