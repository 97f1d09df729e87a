package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"innkeeper/internal/core"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateInvoice  = errors.New("invoice number already exists")
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func scanAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse stored amount %q: %w", s, err)
	}
	return d, nil
}

func scanDate(s string) (core.Date, error) {
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse stored date %q: %w", s, err)
	}
	return d, nil
}

func scanTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// ListPayments returns payments with paid_at inside [from, to] (whole days).
func (r *SQLiteRepository) ListPayments(ctx context.Context, from, to core.Date) ([]core.PaymentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT amount, paid_at FROM payments
		 WHERE paid_at >= ? AND paid_at < ?
		 ORDER BY paid_at`,
		from.Time.Format(timeLayout), to.AddDays(1).Time.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []core.PaymentRecord
	for rows.Next() {
		var amount, paidAt string
		if err := rows.Scan(&amount, &paidAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p := core.PaymentRecord{}
		if p.Amount, err = scanAmount(amount); err != nil {
			return nil, err
		}
		if p.PaidAt, err = scanTime(paidAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListExpenses returns expenses with expense_date inside [from, to].
func (r *SQLiteRepository) ListExpenses(ctx context.Context, from, to core.Date) ([]core.ExpenseRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT description, amount, category, expense_date FROM expenses
		 WHERE expense_date >= ? AND expense_date <= ?
		 ORDER BY expense_date`,
		from.Key(), to.Key())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseRecord
	for rows.Next() {
		var amount, day string
		var e core.ExpenseRecord
		var cat string
		if err := rows.Scan(&e.Description, &amount, &cat, &day); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Category = core.ExpenseCategory(cat)
		if e.Amount, err = scanAmount(amount); err != nil {
			return nil, err
		}
		if e.ExpenseDate, err = scanDate(day); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListReservationSummaries returns reservations that were either created within
// [from, to] or whose stay interval overlaps it, so both booking counts and
// per-day occupancy can be derived from one result set.
func (r *SQLiteRepository) ListReservationSummaries(ctx context.Context, from, to core.Date) ([]core.ReservationSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT created_at, check_in_date, check_out_date, status FROM reservations
		 WHERE (created_at >= ? AND created_at < ?)
		    OR (check_in_date <= ? AND check_out_date > ?)`,
		from.Time.Format(timeLayout), to.AddDays(1).Time.Format(timeLayout),
		to.Key(), from.Key())
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var out []core.ReservationSummary
	for rows.Next() {
		var created, checkIn, checkOut, status string
		if err := rows.Scan(&created, &checkIn, &checkOut, &status); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		var s core.ReservationSummary
		if s.CreatedAt, err = scanTime(created); err != nil {
			return nil, err
		}
		if s.CheckIn, err = scanDate(checkIn); err != nil {
			return nil, err
		}
		if s.CheckOut, err = scanDate(checkOut); err != nil {
			return nil, err
		}
		s.Status = core.ReservationStatus(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Reservation is the full stored reservation row.
type Reservation struct {
	ID              string
	CustomerID      string
	RoomID          string
	CheckIn         core.Date
	CheckOut        core.Date
	Nights          int
	NightlyRateUsed decimal.Decimal
	TotalAmount     decimal.Decimal
	BalanceDue      decimal.Decimal
	Status          core.ReservationStatus
	Notes           string
	CreatedAt       time.Time
}

func (r *SQLiteRepository) scanReservation(row interface{ Scan(...any) error }) (Reservation, error) {
	var res Reservation
	var checkIn, checkOut, rate, total, balance, status, created string
	err := row.Scan(&res.ID, &res.CustomerID, &res.RoomID, &checkIn, &checkOut,
		&res.Nights, &rate, &total, &balance, &status, &res.Notes, &created)
	if err != nil {
		return res, err
	}
	if res.CheckIn, err = scanDate(checkIn); err != nil {
		return res, err
	}
	if res.CheckOut, err = scanDate(checkOut); err != nil {
		return res, err
	}
	if res.NightlyRateUsed, err = scanAmount(rate); err != nil {
		return res, err
	}
	if res.TotalAmount, err = scanAmount(total); err != nil {
		return res, err
	}
	if res.BalanceDue, err = scanAmount(balance); err != nil {
		return res, err
	}
	res.Status = core.ReservationStatus(status)
	if res.CreatedAt, err = scanTime(created); err != nil {
		return res, err
	}
	return res, nil
}

const reservationCols = `id, customer_id, room_id, check_in_date, check_out_date,
	nights, nightly_rate_used, total_amount, balance_due, status, notes, created_at`

func (r *SQLiteRepository) GetReservation(ctx context.Context, id string) (Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id)
	res, err := r.scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return res, fmt.Errorf("reservation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return res, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

func (r *SQLiteRepository) ListReservations(ctx context.Context, from, to core.Date) ([]Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations
		 WHERE check_in_date <= ? AND check_out_date > ?
		 ORDER BY check_in_date, created_at`,
		to.Key(), from.Key())
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		res, err := r.scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateReservation(ctx context.Context, res Reservation) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reservations (`+reservationCols+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.CustomerID, res.RoomID,
		res.CheckIn.Key(), res.CheckOut.Key(), res.Nights,
		res.NightlyRateUsed.String(), res.TotalAmount.String(), res.BalanceDue.String(),
		string(res.Status), res.Notes, res.CreatedAt.Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("create reservation: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateReservationStatus(ctx context.Context, id string, status core.ReservationStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("reservation %s: %w", id, ErrNotFound)
	}
	return nil
}

// Payment is the stored payment row.
type Payment struct {
	ID            string
	ReservationID string
	Amount        decimal.Decimal
	Method        string
	Reference     string
	PaidAt        time.Time
	CreatedAt     time.Time
}

// RecordPayment inserts the payment and reduces the reservation balance in one
// transaction. The balance never goes below zero.
func (r *SQLiteRepository) RecordPayment(ctx context.Context, p Payment) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin payment tx: %w", err)
	}
	defer tx.Rollback()

	var balanceStr string
	err = tx.QueryRowContext(ctx,
		`SELECT balance_due FROM reservations WHERE id = ?`, p.ReservationID).Scan(&balanceStr)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("reservation %s: %w", p.ReservationID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read balance: %w", err)
	}
	balance, err := scanAmount(balanceStr)
	if err != nil {
		return "", err
	}

	newBalance := balance.Sub(p.Amount)
	if newBalance.IsNegative() {
		newBalance = decimal.Zero
	}

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, reservation_id, amount, method, reference, paid_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, p.ReservationID, p.Amount.String(), p.Method, p.Reference,
		p.PaidAt.Format(timeLayout), p.CreatedAt.Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("insert payment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE reservations SET balance_due = ? WHERE id = ?`,
		newBalance.String(), p.ReservationID)
	if err != nil {
		return "", fmt.Errorf("update balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit payment tx: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.ExpenseRecord, createdAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount, category, expense_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, e.Description, e.Amount.String(), string(e.Category),
		e.ExpenseDate.Key(), createdAt.Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("create expense: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name FROM customers ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []core.Customer
	for rows.Next() {
		var c core.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCustomer(ctx context.Context, id string) (core.Customer, error) {
	var c core.Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name FROM customers WHERE id = ?`, id).
		Scan(&c.ID, &c.FirstName, &c.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateCustomer(ctx context.Context, c core.Customer, createdAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (id, first_name, last_name, created_at) VALUES (?, ?, ?, ?)`,
		id, c.FirstName, c.LastName, createdAt.Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return id, nil
}

const invoiceCols = `id, invoice_no, status, customer_id, subtotal, total, created_at`

func (r *SQLiteRepository) scanInvoice(row interface{ Scan(...any) error }) (core.Invoice, error) {
	var inv core.Invoice
	var status, subtotal, total, created string
	err := row.Scan(&inv.ID, &inv.InvoiceNo, &status, &inv.CustomerID, &subtotal, &total, &created)
	if err != nil {
		return inv, err
	}
	inv.Status = core.InvoiceStatus(status)
	if inv.Subtotal, err = scanAmount(subtotal); err != nil {
		return inv, err
	}
	if inv.Total, err = scanAmount(total); err != nil {
		return inv, err
	}
	if inv.CreatedAt, err = scanTime(created); err != nil {
		return inv, err
	}
	return inv, nil
}

// ListInvoices returns all invoices newest first, without line items.
func (r *SQLiteRepository) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invoiceCols+` FROM billing_invoices ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []core.Invoice
	for rows.Next() {
		inv, err := r.scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// GetInvoice returns one invoice with its line items in stored order.
func (r *SQLiteRepository) GetInvoice(ctx context.Context, id string) (core.Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invoiceCols+` FROM billing_invoices WHERE id = ?`, id)
	inv, err := r.scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return inv, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return inv, fmt.Errorf("get invoice: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT description, quantity, unit_price FROM billing_invoice_items
		 WHERE invoice_id = ? ORDER BY position`, id)
	if err != nil {
		return inv, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item core.InvoiceLineItem
		var qty, price string
		if err := rows.Scan(&item.Description, &qty, &price); err != nil {
			return inv, fmt.Errorf("scan invoice item: %w", err)
		}
		if item.Quantity, err = scanAmount(qty); err != nil {
			return inv, err
		}
		if item.UnitPrice, err = scanAmount(price); err != nil {
			return inv, err
		}
		inv.Items = append(inv.Items, item)
	}
	return inv, rows.Err()
}

// CreateInvoice stores the invoice header and its items atomically.
func (r *SQLiteRepository) CreateInvoice(ctx context.Context, inv core.Invoice) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin invoice tx: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO billing_invoices (id, invoice_no, status, customer_id, subtotal, total, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, inv.InvoiceNo, string(inv.Status), inv.CustomerID,
		inv.Subtotal.String(), inv.Total.String(), inv.CreatedAt.Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("insert invoice: %w", err)
	}

	for i, item := range inv.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO billing_invoice_items (id, invoice_id, description, quantity, unit_price, line_total, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), id, item.Description,
			item.Quantity.String(), item.UnitPrice.String(),
			core.Round2(item.LineTotal()).String(), i)
		if err != nil {
			return "", fmt.Errorf("insert invoice item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit invoice tx: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateInvoiceStatus(ctx context.Context, id string, status core.InvoiceStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE billing_invoices SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountInvoicesInYear supports sequential invoice numbering per calendar year.
func (r *SQLiteRepository) CountInvoicesInYear(ctx context.Context, year int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM billing_invoices WHERE created_at >= ? AND created_at < ?`,
		fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-01-01", year+1)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// InventoryItem is the stored inventory row.
type InventoryItem struct {
	ID           string
	Name         string
	Unit         string
	CurrentStock decimal.Decimal
	ReorderLevel decimal.Decimal
}

func (r *SQLiteRepository) listInventory(ctx context.Context, query string, args ...any) ([]InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var out []InventoryItem
	for rows.Next() {
		var it InventoryItem
		var stock, reorder string
		if err := rows.Scan(&it.ID, &it.Name, &it.Unit, &stock, &reorder); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		if it.CurrentStock, err = scanAmount(stock); err != nil {
			return nil, err
		}
		if it.ReorderLevel, err = scanAmount(reorder); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListInventoryItems(ctx context.Context) ([]InventoryItem, error) {
	return r.listInventory(ctx,
		`SELECT id, name, unit, current_stock, reorder_level FROM inventory_items ORDER BY name`)
}

// ListLowStockItems returns items at or below their reorder level. Stock
// quantities are stored as text, so the comparison happens on decoded values.
func (r *SQLiteRepository) ListLowStockItems(ctx context.Context) ([]InventoryItem, error) {
	items, err := r.ListInventoryItems(ctx)
	if err != nil {
		return nil, err
	}
	var low []InventoryItem
	for _, it := range items {
		if it.CurrentStock.LessThanOrEqual(it.ReorderLevel) {
			low = append(low, it)
		}
	}
	return low, nil
}

func (r *SQLiteRepository) CreateInventoryItem(ctx context.Context, it InventoryItem, createdAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inventory_items (id, name, unit, current_stock, reorder_level, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, it.Name, it.Unit, it.CurrentStock.String(), it.ReorderLevel.String(),
		createdAt.Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("create inventory item: %w", err)
	}
	return id, nil
}

// ApplyStockMove records an in/out transaction and adjusts current_stock
// atomically. Outbound moves that would take stock negative are rejected.
func (r *SQLiteRepository) ApplyStockMove(ctx context.Context, itemID, direction string, qty decimal.Decimal, notes string, occurredAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin stock tx: %w", err)
	}
	defer tx.Rollback()

	var stockStr string
	err = tx.QueryRowContext(ctx,
		`SELECT current_stock FROM inventory_items WHERE id = ?`, itemID).Scan(&stockStr)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("inventory item %s: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read stock: %w", err)
	}
	stock, err := scanAmount(stockStr)
	if err != nil {
		return err
	}

	var newStock decimal.Decimal
	switch direction {
	case "in":
		newStock = stock.Add(qty)
	case "out":
		newStock = stock.Sub(qty)
		if newStock.IsNegative() {
			return fmt.Errorf("item %s has %s in stock: %w", itemID, stock, ErrInsufficientStock)
		}
	default:
		return fmt.Errorf("stock direction %q: %w", direction, core.ErrInvalidStatus)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO inventory_transactions (id, inventory_item_id, direction, quantity, notes, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), itemID, direction, qty.String(), notes, occurredAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert stock move: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE inventory_items SET current_stock = ? WHERE id = ?`, newStock.String(), itemID)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stock tx: %w", err)
	}
	return nil
}

// HRRecord is a staff roster row.
type HRRecord struct {
	ID            string
	FullName      string
	RoleTitle     string
	Email         string
	Phone         string
	SalaryMonthly decimal.Decimal
	StartDate     core.Date
	EndDate       *core.Date
}

func (r *SQLiteRepository) ListHRRecords(ctx context.Context) ([]HRRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, full_name, role_title, email, phone, salary_monthly, start_date, end_date
		 FROM hr_records ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("list hr records: %w", err)
	}
	defer rows.Close()

	var out []HRRecord
	for rows.Next() {
		var rec HRRecord
		var salary, start string
		var end sql.NullString
		if err := rows.Scan(&rec.ID, &rec.FullName, &rec.RoleTitle, &rec.Email, &rec.Phone, &salary, &start, &end); err != nil {
			return nil, fmt.Errorf("scan hr record: %w", err)
		}
		if rec.SalaryMonthly, err = scanAmount(salary); err != nil {
			return nil, err
		}
		if rec.StartDate, err = scanDate(start); err != nil {
			return nil, err
		}
		if end.Valid {
			d, err := scanDate(end.String)
			if err != nil {
				return nil, err
			}
			rec.EndDate = &d
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) InsertHRRecord(ctx context.Context, rec HRRecord) (string, error) {
	id := uuid.NewString()
	var end any
	if rec.EndDate != nil {
		end = rec.EndDate.Key()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO hr_records (id, full_name, role_title, email, phone, salary_monthly, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.FullName, rec.RoleTitle, rec.Email, rec.Phone,
		rec.SalaryMonthly.String(), rec.StartDate.Key(), end)
	if err != nil {
		return "", fmt.Errorf("insert hr record: %w", err)
	}
	return id, nil
}

// HotelSettings is the single property configuration row.
type HotelSettings struct {
	HotelName    string
	LegalName    string
	Address      string
	Phone        string
	Email        string
	CurrencyCode string
}

func (r *SQLiteRepository) GetHotelSettings(ctx context.Context) (HotelSettings, error) {
	var s HotelSettings
	err := r.db.QueryRowContext(ctx,
		`SELECT hotel_name, legal_name, address, phone, email, currency_code
		 FROM hotel_settings WHERE id = 1`).
		Scan(&s.HotelName, &s.LegalName, &s.Address, &s.Phone, &s.Email, &s.CurrencyCode)
	if errors.Is(err, sql.ErrNoRows) {
		return s, fmt.Errorf("hotel settings: %w", ErrNotFound)
	}
	if err != nil {
		return s, fmt.Errorf("get hotel settings: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) UpdateHotelSettings(ctx context.Context, s HotelSettings) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE hotel_settings SET hotel_name = ?, legal_name = ?, address = ?, phone = ?, email = ?, currency_code = ?
		 WHERE id = 1`,
		s.HotelName, s.LegalName, s.Address, s.Phone, s.Email, s.CurrencyCode)
	if err != nil {
		return fmt.Errorf("update hotel settings: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) CountRooms(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rooms: %w", err)
	}
	return n, nil
}

// RoomType groups rooms that share a base nightly rate.
type RoomType struct {
	ID           string
	Name         string
	BaseRate     decimal.Decimal
	MaxOccupancy int
}

func (r *SQLiteRepository) CreateRoomType(ctx context.Context, rt RoomType) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO room_types (id, name, base_rate, max_occupancy) VALUES (?, ?, ?, ?)`,
		id, rt.Name, rt.BaseRate.String(), rt.MaxOccupancy)
	if err != nil {
		return "", fmt.Errorf("create room type: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListRoomTypes(ctx context.Context) ([]RoomType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, base_rate, max_occupancy FROM room_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	defer rows.Close()

	var out []RoomType
	for rows.Next() {
		var rt RoomType
		var rate string
		if err := rows.Scan(&rt.ID, &rt.Name, &rate, &rt.MaxOccupancy); err != nil {
			return nil, fmt.Errorf("scan room type: %w", err)
		}
		if rt.BaseRate, err = scanAmount(rate); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// Room is one bookable unit. RateOverride, when set, replaces the type's
// base rate for new reservations.
type Room struct {
	ID           string
	RoomNumber   string
	RoomTypeID   string
	RateOverride *decimal.Decimal
	Status       string
}

func (r *SQLiteRepository) CreateRoom(ctx context.Context, rm Room) (string, error) {
	id := uuid.NewString()
	var override any
	if rm.RateOverride != nil {
		override = rm.RateOverride.String()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (id, room_number, room_type_id, rate_override, status)
		 VALUES (?, ?, ?, ?, ?)`,
		id, rm.RoomNumber, rm.RoomTypeID, override, rm.Status)
	if err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListRooms(ctx context.Context) ([]Room, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, room_number, room_type_id, rate_override, status FROM rooms ORDER BY room_number`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var out []Room
	for rows.Next() {
		var rm Room
		var override sql.NullString
		if err := rows.Scan(&rm.ID, &rm.RoomNumber, &rm.RoomTypeID, &override, &rm.Status); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		if override.Valid {
			rate, err := scanAmount(override.String)
			if err != nil {
				return nil, err
			}
			rm.RateOverride = &rate
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// CheckoutRow is a departure due within the dashboard lookahead window.
type CheckoutRow struct {
	ReservationID string
	RoomNumber    string
	GuestName     string
	CheckOut      core.Date
}

func (r *SQLiteRepository) ListUpcomingCheckouts(ctx context.Context, from, until core.Date, limit int) ([]CheckoutRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT res.id, rm.room_number, c.last_name || ', ' || c.first_name, res.check_out_date
		 FROM reservations res
		 JOIN rooms rm ON rm.id = res.room_id
		 JOIN customers c ON c.id = res.customer_id
		 WHERE res.status IN ('confirmed', 'checked_in')
		   AND res.check_out_date >= ? AND res.check_out_date <= ?
		 ORDER BY res.check_out_date
		 LIMIT ?`,
		from.Key(), until.Key(), limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming checkouts: %w", err)
	}
	defer rows.Close()

	var out []CheckoutRow
	for rows.Next() {
		var row CheckoutRow
		var day string
		if err := rows.Scan(&row.ReservationID, &row.RoomNumber, &row.GuestName, &day); err != nil {
			return nil, fmt.Errorf("scan checkout: %w", err)
		}
		if row.CheckOut, err = scanDate(day); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// BalanceRow is a reservation that still owes money.
type BalanceRow struct {
	ReservationID string
	GuestName     string
	RoomNumber    string
	Status        core.ReservationStatus
	TotalAmount   decimal.Decimal
	BalanceDue    decimal.Decimal
}

func (r *SQLiteRepository) ListOutstandingBalances(ctx context.Context) ([]BalanceRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT res.id, c.last_name || ', ' || c.first_name, rm.room_number,
		        res.status, res.total_amount, res.balance_due
		 FROM reservations res
		 JOIN customers c ON c.id = res.customer_id
		 JOIN rooms rm ON rm.id = res.room_id
		 WHERE CAST(res.balance_due AS REAL) > 0
		   AND res.status NOT IN ('cancelled')
		 ORDER BY res.check_in_date`)
	if err != nil {
		return nil, fmt.Errorf("list outstanding balances: %w", err)
	}
	defer rows.Close()

	var out []BalanceRow
	for rows.Next() {
		var row BalanceRow
		var status, total, balance string
		if err := rows.Scan(&row.ReservationID, &row.GuestName, &row.RoomNumber, &status, &total, &balance); err != nil {
			return nil, fmt.Errorf("scan balance row: %w", err)
		}
		row.Status = core.ReservationStatus(status)
		if row.TotalAmount, err = scanAmount(total); err != nil {
			return nil, err
		}
		if row.BalanceDue, err = scanAmount(balance); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ActivityLog is one audit trail entry.
type ActivityLog struct {
	ID        string
	Actor     string
	Action    string
	Entity    string
	EntityID  string
	Metadata  string
	CreatedAt time.Time
}

func (r *SQLiteRepository) InsertActivityLog(ctx context.Context, e ActivityLog) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_logs (id, actor, action, entity, entity_id, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Actor, e.Action, e.Entity, e.EntityID, e.Metadata, e.CreatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListActivityLogs(ctx context.Context, limit int) ([]ActivityLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, actor, action, entity, entity_id, metadata, created_at
		 FROM activity_logs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()

	var out []ActivityLog
	for rows.Next() {
		var e ActivityLog
		var created string
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Entity, &e.EntityID, &e.Metadata, &created); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		if e.CreatedAt, err = scanTime(created); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
