package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"innkeeper/internal/amqp"
	"innkeeper/internal/core"
	"innkeeper/internal/storage"
)

// Storage ports. SQLiteRepository satisfies all of them; tests plug in stubs.
type (
	ReportStore interface {
		ListPayments(ctx context.Context, from, to core.Date) ([]core.PaymentRecord, error)
		ListExpenses(ctx context.Context, from, to core.Date) ([]core.ExpenseRecord, error)
		ListReservationSummaries(ctx context.Context, from, to core.Date) ([]core.ReservationSummary, error)
		CountRooms(ctx context.Context) (int, error)
		ListUpcomingCheckouts(ctx context.Context, from, until core.Date, limit int) ([]storage.CheckoutRow, error)
		ListLowStockItems(ctx context.Context) ([]storage.InventoryItem, error)
		ListInventoryItems(ctx context.Context) ([]storage.InventoryItem, error)
		ListHRRecords(ctx context.Context) ([]storage.HRRecord, error)
		ListOutstandingBalances(ctx context.Context) ([]storage.BalanceRow, error)
		ListInvoices(ctx context.Context) ([]core.Invoice, error)
		ListCustomers(ctx context.Context) ([]core.Customer, error)
	}

	BillingStore interface {
		ListInvoices(ctx context.Context) ([]core.Invoice, error)
		GetInvoice(ctx context.Context, id string) (core.Invoice, error)
		CreateInvoice(ctx context.Context, inv core.Invoice) (string, error)
		UpdateInvoiceStatus(ctx context.Context, id string, status core.InvoiceStatus) error
		CountInvoicesInYear(ctx context.Context, year int) (int, error)
		ListCustomers(ctx context.Context) ([]core.Customer, error)
		GetCustomer(ctx context.Context, id string) (core.Customer, error)
		GetReservation(ctx context.Context, id string) (storage.Reservation, error)
		RecordPayment(ctx context.Context, p storage.Payment) (string, error)
	}

	PropertyStore interface {
		CreateExpense(ctx context.Context, e core.ExpenseRecord, createdAt time.Time) (string, error)
		ListExpenses(ctx context.Context, from, to core.Date) ([]core.ExpenseRecord, error)
		CreateReservation(ctx context.Context, res storage.Reservation) (string, error)
		ListReservations(ctx context.Context, from, to core.Date) ([]storage.Reservation, error)
		GetReservation(ctx context.Context, id string) (storage.Reservation, error)
		UpdateReservationStatus(ctx context.Context, id string, status core.ReservationStatus) error
		CreateInventoryItem(ctx context.Context, it storage.InventoryItem, createdAt time.Time) (string, error)
		ListInventoryItems(ctx context.Context) ([]storage.InventoryItem, error)
		ListLowStockItems(ctx context.Context) ([]storage.InventoryItem, error)
		ApplyStockMove(ctx context.Context, itemID, direction string, qty decimal.Decimal, notes string, occurredAt time.Time) error
		ListHRRecords(ctx context.Context) ([]storage.HRRecord, error)
		InsertHRRecord(ctx context.Context, rec storage.HRRecord) (string, error)
		GetCustomer(ctx context.Context, id string) (core.Customer, error)
		CreateCustomer(ctx context.Context, c core.Customer, createdAt time.Time) (string, error)
		ListCustomers(ctx context.Context) ([]core.Customer, error)
		CreateRoomType(ctx context.Context, rt storage.RoomType) (string, error)
		ListRoomTypes(ctx context.Context) ([]storage.RoomType, error)
		CreateRoom(ctx context.Context, rm storage.Room) (string, error)
		ListRooms(ctx context.Context) ([]storage.Room, error)
	}

	SettingsStore interface {
		GetHotelSettings(ctx context.Context) (storage.HotelSettings, error)
		UpdateHotelSettings(ctx context.Context, s storage.HotelSettings) error
	}

	// ActivityPublisher pushes audit events out. Implemented by amqp.Client.
	ActivityPublisher interface {
		PublishActivity(ctx context.Context, event *amqp.ActivityEvent) error
	}
)
