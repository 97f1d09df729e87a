package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"innkeeper/internal/amqp"
	"innkeeper/internal/core"
	applog "innkeeper/internal/log"
	"innkeeper/internal/report"
	"innkeeper/internal/storage"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// BillingService owns invoices and payments.
type BillingService struct {
	store    BillingStore
	settings *SettingsService
	pub      ActivityPublisher
	logger   *applog.Logger
	now      func() time.Time
}

func NewBillingService(store BillingStore, settings *SettingsService, pub ActivityPublisher, logger *applog.Logger) *BillingService {
	return &BillingService{
		store:    store,
		settings: settings,
		pub:      pub,
		logger:   logger.WithComponent(applog.ComponentBilling),
		now:      time.Now,
	}
}

type CreateInvoiceInput struct {
	CustomerID string
	Items      []core.InvoiceLineItem
}

// CreateInvoice computes totals for the line items, assigns the next
// sequential number for the current year and stores the invoice as issued.
func (s *BillingService) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (core.Invoice, error) {
	if input.CustomerID == "" {
		return core.Invoice{}, fmt.Errorf("invoice needs a customer")
	}
	if _, err := s.store.GetCustomer(ctx, input.CustomerID); err != nil {
		return core.Invoice{}, err
	}

	totals, err := core.ComputeInvoiceTotals(input.Items)
	if err != nil {
		return core.Invoice{}, err
	}

	createdAt := s.now()
	count, err := s.store.CountInvoicesInYear(ctx, createdAt.Year())
	if err != nil {
		return core.Invoice{}, err
	}

	inv := core.Invoice{
		InvoiceNo:  fmt.Sprintf("%04d-%04d", createdAt.Year(), count+1),
		Status:     core.InvoiceIssued,
		CustomerID: input.CustomerID,
		CreatedAt:  createdAt,
		Subtotal:   totals.Subtotal,
		Total:      totals.Total,
		Items:      input.Items,
	}

	id, err := s.store.CreateInvoice(ctx, inv)
	if err != nil {
		return core.Invoice{}, err
	}
	inv.ID = id

	s.logger.InfoContext(ctx, "Invoice created",
		applog.FieldInvoiceNo, inv.InvoiceNo,
		applog.FieldCustomerID, inv.CustomerID,
		applog.FieldAmount, core.FormatAmount(inv.Total))
	publishActivity(ctx, s.pub, s.logger,
		amqp.NewActivityEvent("create", "invoice", id).
			WithMetadata("invoice_no", inv.InvoiceNo).
			WithMetadata("total", core.FormatAmount(inv.Total)))

	return inv, nil
}

// InvoiceRow is an invoice joined with its derived class and customer label.
type InvoiceRow struct {
	core.Invoice
	CustomerLabel string
	StatusClass   core.StatusClass
}

func statusClassOf(inv core.Invoice, now time.Time) core.StatusClass {
	for _, class := range []core.StatusClass{
		core.StatusClassVoid, core.StatusClassPaid, core.StatusClassOverdue, core.StatusClassUnpaid,
	} {
		if core.MatchesStatusClass(inv, class, now) {
			return class
		}
	}
	return core.StatusClassUnpaid
}

// ListInvoices applies the filter and decorates results for display.
func (s *BillingService) ListInvoices(ctx context.Context, filter core.InvoiceFilter) ([]InvoiceRow, error) {
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch invoices: %w", err)
	}
	customers, err := s.customerIndex(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	filtered, err := core.FilterInvoices(invoices, customers, filter, now)
	if err != nil {
		return nil, err
	}

	rows := make([]InvoiceRow, 0, len(filtered))
	for _, inv := range filtered {
		row := InvoiceRow{Invoice: inv, StatusClass: statusClassOf(inv, now)}
		if c, ok := customers[inv.CustomerID]; ok {
			row.CustomerLabel = c.Label()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// GetInvoice loads one invoice with its derived class and customer label.
func (s *BillingService) GetInvoice(ctx context.Context, id string) (InvoiceRow, error) {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return InvoiceRow{}, err
	}
	row := InvoiceRow{Invoice: inv, StatusClass: statusClassOf(inv, s.now())}
	if c, err := s.store.GetCustomer(ctx, inv.CustomerID); err == nil {
		row.CustomerLabel = c.Label()
	}
	return row, nil
}

func (s *BillingService) customerIndex(ctx context.Context) (map[string]core.Customer, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch customers: %w", err)
	}
	index := make(map[string]core.Customer, len(customers))
	for _, c := range customers {
		index[c.ID] = c
	}
	return index, nil
}

// PrintInvoice renders one invoice as a print-ready document.
func (s *BillingService) PrintInvoice(ctx context.Context, id string) (string, error) {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return "", err
	}
	customer, err := s.store.GetCustomer(ctx, inv.CustomerID)
	if err != nil {
		return "", err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", err
	}

	billTo := report.Note("Bill to: " + customer.Label())

	itemRows := make([][]string, 0, len(inv.Items))
	for _, item := range inv.Items {
		itemRows = append(itemRows, []string{
			item.Description,
			item.Quantity.String(),
			core.FormatAmount(item.UnitPrice),
			core.FormatAmount(core.Round2(item.LineTotal())),
		})
	}
	items := report.Table([]string{"Description", "Qty", "Unit price", "Amount"}, itemRows, 1, 2, 3)

	currency := settings.CurrencyCode
	totals := report.Badge(fmt.Sprintf("Subtotal %s %s", core.FormatAmount(inv.Subtotal), currency)) +
		report.Badge(fmt.Sprintf("Total %s %s", core.FormatAmount(inv.Total), currency)) +
		report.Badge("Status "+string(inv.Status))

	footer := settings.LegalName
	if footer == "" {
		footer = settings.HotelName
	}
	if settings.Address != "" {
		footer += " | " + settings.Address
	}
	if settings.Phone != "" {
		footer += " | " + settings.Phone
	}
	if settings.Email != "" {
		footer += " | " + settings.Email
	}

	doc := report.Document{
		Title:    settings.HotelName,
		Subtitle: "Invoice " + inv.InvoiceNo,
		Sections: []report.Section{
			{Title: "Invoice " + inv.InvoiceNo, Body: billTo + items + totals},
			{Title: "Issued by", Body: report.Note(footer)},
		},
	}

	html, err := report.Render(doc, s.now())
	if err != nil {
		return "", fmt.Errorf("render invoice: %w", err)
	}
	return html, nil
}

// MarkInvoicePaid transitions issued -> paid.
func (s *BillingService) MarkInvoicePaid(ctx context.Context, id string) error {
	return s.transitionInvoice(ctx, id, core.InvoicePaid, map[core.InvoiceStatus]bool{
		core.InvoiceIssued: true,
	})
}

// VoidInvoice transitions draft/issued -> void.
func (s *BillingService) VoidInvoice(ctx context.Context, id string) error {
	return s.transitionInvoice(ctx, id, core.InvoiceVoid, map[core.InvoiceStatus]bool{
		core.InvoiceDraft:  true,
		core.InvoiceIssued: true,
	})
}

func (s *BillingService) transitionInvoice(ctx context.Context, id string, to core.InvoiceStatus, allowedFrom map[core.InvoiceStatus]bool) error {
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	if !allowedFrom[inv.Status] {
		return fmt.Errorf("invoice %s is %s: %w", inv.InvoiceNo, inv.Status, ErrInvalidTransition)
	}
	if err := s.store.UpdateInvoiceStatus(ctx, id, to); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Invoice status changed",
		applog.FieldInvoiceNo, inv.InvoiceNo,
		"from", string(inv.Status),
		"to", string(to))
	publishActivity(ctx, s.pub, s.logger,
		amqp.NewActivityEvent("status", "invoice", id).
			WithMetadata("invoice_no", inv.InvoiceNo).
			WithMetadata("status", string(to)))
	return nil
}

type RecordPaymentInput struct {
	ReservationID string
	Amount        decimal.Decimal // zero means full balance
	Method        string
	Reference     string
}

var validMethods = map[string]bool{
	"cash": true, "transfer": true, "card": true, "other": true,
}

// RecordPayment settles a reservation. With a zero amount the full
// outstanding balance is collected; the balance hits zero in the same
// transaction as the payment insert.
func (s *BillingService) RecordPayment(ctx context.Context, input RecordPaymentInput) (string, error) {
	if input.Method == "" {
		input.Method = "cash"
	}
	if !validMethods[input.Method] {
		return "", fmt.Errorf("payment method %q: %w", input.Method, core.ErrInvalidStatus)
	}

	res, err := s.store.GetReservation(ctx, input.ReservationID)
	if err != nil {
		return "", err
	}

	amount := input.Amount
	if amount.IsZero() {
		amount = res.BalanceDue
	}
	if !amount.IsPositive() {
		return "", fmt.Errorf("payment amount %s: %w", amount, core.ErrInvalidAmount)
	}

	now := s.now()
	id, err := s.store.RecordPayment(ctx, storage.Payment{
		ReservationID: input.ReservationID,
		Amount:        core.Round2(amount),
		Method:        input.Method,
		Reference:     input.Reference,
		PaidAt:        now,
		CreatedAt:     now,
	})
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "Payment recorded",
		applog.FieldReservationID, input.ReservationID,
		applog.FieldAmount, core.FormatAmount(amount),
		"method", input.Method)
	publishActivity(ctx, s.pub, s.logger,
		amqp.NewActivityEvent("record", "payment", id).
			WithMetadata("reservation_id", input.ReservationID).
			WithMetadata("amount", core.FormatAmount(amount)))

	return id, nil
}
