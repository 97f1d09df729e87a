package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryUtilities   ExpenseCategory = "utilities"
	CategoryMaintenance ExpenseCategory = "maintenance"
	CategorySupplies    ExpenseCategory = "supplies"
	CategoryPayroll     ExpenseCategory = "payroll"
	CategoryMarketing   ExpenseCategory = "marketing"
	CategoryTaxes       ExpenseCategory = "taxes"
	CategoryOther       ExpenseCategory = "other"
)

const (
	ReservationDraft      ReservationStatus = "draft"
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

const (
	InvoiceDraft  InvoiceStatus = "draft"
	InvoiceIssued InvoiceStatus = "issued"
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceVoid   InvoiceStatus = "void"
)

type (
	ExpenseCategory   string
	ReservationStatus string
	InvoiceStatus     string

	// Date is a calendar date with no time-of-day component.
	// The embedded time.Time is always midnight UTC.
	Date struct {
		time.Time
	}

	// PaymentRecord is a full settlement against a reservation.
	PaymentRecord struct {
		Amount decimal.Decimal
		PaidAt time.Time
	}

	ExpenseRecord struct {
		Description string
		Amount      decimal.Decimal
		Category    ExpenseCategory
		ExpenseDate Date
	}

	// ReservationSummary carries the fields needed for booking counts and
	// occupancy overlap. Occupancy uses the half-open interval
	// [CheckIn, CheckOut).
	ReservationSummary struct {
		CreatedAt time.Time
		CheckIn   Date
		CheckOut  Date
		Status    ReservationStatus
	}

	InvoiceLineItem struct {
		Description string
		Quantity    decimal.Decimal
		UnitPrice   decimal.Decimal
	}

	Invoice struct {
		ID         string
		InvoiceNo  string
		Status     InvoiceStatus
		CustomerID string
		CreatedAt  time.Time
		Subtotal   decimal.Decimal
		Total      decimal.Decimal
		Items      []InvoiceLineItem
	}

	Customer struct {
		ID        string
		FirstName string
		LastName  string
	}

	// DailyBucket is one calendar-day slot in the dense daily series.
	DailyBucket struct {
		Day       Date
		Income    decimal.Decimal
		Expenses  decimal.Decimal
		Net       decimal.Decimal
		Bookings  int
		Occupancy int
	}

	CategoryTotal struct {
		Category ExpenseCategory
		Total    decimal.Decimal
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidCategory  = errors.New("invalid expense category")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidRange     = errors.New("range start is after range end")
	ErrInvalidDates     = errors.New("check-out must be after check-in")
	ErrEmptyDescription = errors.New("empty description")
	ErrNoLineItems      = errors.New("invoice needs at least one line item")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date. Truncation uses the
// timestamp's own wall clock so the same wall-clock day never shifts across
// a day boundary.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Key returns the YYYY-MM-DD form used for bucketing and display.
func (d Date) Key() string {
	return d.Format("2006-01-02")
}

// AddDays returns the date n calendar days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// DaysUntil returns the number of calendar days from d to other.
// Negative when other is before d.
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

func (c ExpenseCategory) Validate() error {
	switch c {
	case CategoryUtilities, CategoryMaintenance, CategorySupplies,
		CategoryPayroll, CategoryMarketing, CategoryTaxes, CategoryOther:
		return nil
	}
	return ErrInvalidCategory
}

func (s ReservationStatus) Validate() error {
	switch s {
	case ReservationDraft, ReservationConfirmed, ReservationCheckedIn,
		ReservationCheckedOut, ReservationCancelled:
		return nil
	}
	return ErrInvalidStatus
}

// Active reports whether the reservation counts toward occupancy.
func (s ReservationStatus) Active() bool {
	return s == ReservationConfirmed || s == ReservationCheckedIn
}

func (s InvoiceStatus) Validate() error {
	switch s {
	case InvoiceDraft, InvoiceIssued, InvoicePaid, InvoiceVoid:
		return nil
	}
	return ErrInvalidStatus
}

func (p PaymentRecord) Validate() error {
	if p.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if p.PaidAt.IsZero() {
		return errors.New("paid_at cannot be zero")
	}
	return nil
}

func (e ExpenseRecord) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if err := e.Category.Validate(); err != nil {
		return err
	}
	if e.ExpenseDate.IsZero() {
		return errors.New("expense date cannot be zero")
	}
	return nil
}

func (r ReservationSummary) Validate() error {
	if err := r.Status.Validate(); err != nil {
		return err
	}
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return errors.New("reservation dates cannot be zero")
	}
	if !r.CheckOut.After(r.CheckIn.Time) {
		return ErrInvalidDates
	}
	return nil
}

// Occupies reports whether the reservation occupies day d under the
// half-open interval [CheckIn, CheckOut).
func (r ReservationSummary) Occupies(d Date) bool {
	return !d.Before(r.CheckIn.Time) && d.Before(r.CheckOut.Time)
}

func (it InvoiceLineItem) Validate() error {
	if len(strings.TrimSpace(it.Description)) == 0 {
		return ErrEmptyDescription
	}
	if !it.Quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	if it.UnitPrice.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Label is the display form used for search matching: "{last}, {first}".
func (c Customer) Label() string {
	return c.LastName + ", " + c.FirstName
}
