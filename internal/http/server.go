// Package http exposes the admin API: JSON endpoints for the day-to-day
// records, CSV and Sheets export, and print-ready HTML documents.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"innkeeper/internal/core"
	applog "innkeeper/internal/log"
	"innkeeper/internal/middleware/ratelimit"
	"innkeeper/internal/middleware/security"
	"innkeeper/internal/middleware/trace"
	"innkeeper/internal/services"
	"innkeeper/internal/storage"
)

// ReportAPI is the slice of ReportService the handlers need.
type ReportAPI interface {
	Dashboard(ctx context.Context) (services.DashboardSnapshot, error)
	BuildDailyReport(ctx context.Context, from, to core.Date) (services.DailyReport, error)
	CategoryReport(ctx context.Context, from, to core.Date) ([]core.CategoryTotal, error)
	DailyReportCSV(ctx context.Context, from, to core.Date) (string, string, error)
	ExportDailyReport(ctx context.Context, from, to core.Date) (string, error)
	PrintSystemReport(ctx context.Context, opts services.SystemReportOptions) (string, error)
}

type BillingAPI interface {
	CreateInvoice(ctx context.Context, input services.CreateInvoiceInput) (core.Invoice, error)
	ListInvoices(ctx context.Context, filter core.InvoiceFilter) ([]services.InvoiceRow, error)
	GetInvoice(ctx context.Context, id string) (services.InvoiceRow, error)
	PrintInvoice(ctx context.Context, id string) (string, error)
	MarkInvoicePaid(ctx context.Context, id string) error
	VoidInvoice(ctx context.Context, id string) error
	RecordPayment(ctx context.Context, input services.RecordPaymentInput) (string, error)
}

type PropertyAPI interface {
	CreateExpense(ctx context.Context, e core.ExpenseRecord) (string, error)
	ListExpenses(ctx context.Context, from, to core.Date) ([]core.ExpenseRecord, error)
	CreateReservation(ctx context.Context, input services.CreateReservationInput) (storage.Reservation, error)
	ListReservations(ctx context.Context, from, to core.Date) ([]storage.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id string, to core.ReservationStatus) error
	CreateCustomer(ctx context.Context, c core.Customer) (string, error)
	CreateInventoryItem(ctx context.Context, it storage.InventoryItem) (string, error)
	ListInventoryItems(ctx context.Context) ([]storage.InventoryItem, error)
	ListLowStockItems(ctx context.Context) ([]storage.InventoryItem, error)
	RecordStockMove(ctx context.Context, input services.StockMoveInput) error
	ListHRRecords(ctx context.Context) ([]storage.HRRecord, error)
	CreateHRRecord(ctx context.Context, rec storage.HRRecord) (string, error)
	ListCustomers(ctx context.Context) ([]core.Customer, error)
	CreateRoomType(ctx context.Context, rt storage.RoomType) (string, error)
	ListRoomTypes(ctx context.Context) ([]storage.RoomType, error)
	CreateRoom(ctx context.Context, rm storage.Room) (string, error)
	ListRooms(ctx context.Context) ([]storage.Room, error)
}

type SettingsAPI interface {
	Get(ctx context.Context) (storage.HotelSettings, error)
	Update(ctx context.Context, settings storage.HotelSettings) error
}

type ActivityAPI interface {
	ListActivityLogs(ctx context.Context, limit int) ([]storage.ActivityLog, error)
}

// Server wires the service layer behind the admin HTTP surface.
type Server struct {
	http.Server

	reports  ReportAPI
	billing  BillingAPI
	property PropertyAPI
	settings SettingsAPI
	activity ActivityAPI

	logger   *applog.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	now      func() time.Time

	shutdownOnce sync.Once
}

type Options struct {
	Addr     string
	Reports  ReportAPI
	Billing  BillingAPI
	Property PropertyAPI
	Settings SettingsAPI
	Activity ActivityAPI
	Logger   *applog.Logger

	// RequestsPerMinute limits mutating requests per client; 0 uses the
	// ratelimit package default.
	RequestsPerMinute int

	// RequestTimeout bounds each handler's context; 0 disables it.
	RequestTimeout time.Duration
}

func NewServer(opts Options) *Server {
	logger := opts.Logger.WithComponent(applog.ComponentHTTP)
	detector := security.NewDetector()
	limiter := ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RequestsPerMinute})

	s := &Server{
		reports:  opts.Reports,
		billing:  opts.Billing,
		property: opts.Property,
		settings: opts.Settings,
		activity: opts.Activity,
		logger:   logger,
		limiter:  limiter,
		detector: detector,
		now:      time.Now,
	}

	mux := http.NewServeMux()
	s.routes(mux)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(logger.Logger, detector.ExtractClientIP)

	var handler http.Handler = mux
	if opts.RequestTimeout > 0 {
		handler = withRequestTimeout(handler, opts.RequestTimeout)
	}
	handler = limiter.Middleware(detector.ExtractClientIP)(handler)
	handler = s.withProbeDetection(handler)
	handler = tracer.Middleware(handler)
	handler = headers.Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/reports/daily", s.handleDailyReport)
	mux.HandleFunc("GET /api/reports/categories", s.handleCategoryReport)
	mux.HandleFunc("GET /api/reports/daily.csv", s.handleDailyReportCSV)
	mux.HandleFunc("POST /api/reports/export", s.handleExportReport)
	mux.HandleFunc("GET /print/report", s.handlePrintSystemReport)

	mux.HandleFunc("GET /api/invoices", s.handleListInvoices)
	mux.HandleFunc("POST /api/invoices", s.handleCreateInvoice)
	mux.HandleFunc("GET /api/invoices/{id}", s.handleGetInvoice)
	mux.HandleFunc("POST /api/invoices/{id}/paid", s.handleMarkInvoicePaid)
	mux.HandleFunc("POST /api/invoices/{id}/void", s.handleVoidInvoice)
	mux.HandleFunc("GET /print/invoices/{id}", s.handlePrintInvoice)
	mux.HandleFunc("POST /api/payments", s.handleRecordPayment)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/reservations", s.handleListReservations)
	mux.HandleFunc("POST /api/reservations", s.handleCreateReservation)
	mux.HandleFunc("POST /api/reservations/{id}/status", s.handleReservationStatus)
	mux.HandleFunc("GET /api/customers", s.handleListCustomers)
	mux.HandleFunc("POST /api/customers", s.handleCreateCustomer)

	mux.HandleFunc("GET /api/room-types", s.handleListRoomTypes)
	mux.HandleFunc("POST /api/room-types", s.handleCreateRoomType)
	mux.HandleFunc("GET /api/rooms", s.handleListRooms)
	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)

	mux.HandleFunc("GET /api/inventory", s.handleListInventory)
	mux.HandleFunc("GET /api/inventory/low-stock", s.handleLowStock)
	mux.HandleFunc("POST /api/inventory", s.handleCreateInventoryItem)
	mux.HandleFunc("POST /api/inventory/{id}/moves", s.handleStockMove)
	mux.HandleFunc("GET /api/hr", s.handleListHR)
	mux.HandleFunc("POST /api/hr", s.handleCreateHRRecord)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)
	mux.HandleFunc("GET /api/activity", s.handleListActivity)
}

// withRequestTimeout bounds each handler's context so one stuck query
// cannot hold a connection past the configured budget.
func withRequestTimeout(next http.Handler, d time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withProbeDetection logs scanner-looking requests; it never blocks them.
func (s *Server) withProbeDetection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.IsSuspicious(r) {
			s.logger.WarnContext(r.Context(), "Suspicious request",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Settings sit in the database; a successful read means the store is up.
	if _, err := s.settings.Get(r.Context()); err != nil {
		http.Error(w, "store not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops the limiter cleanup goroutine and drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
