package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func ts(y, m, d, hh, mm int) time.Time {
	return time.Date(y, time.Month(m), d, hh, mm, 0, 0, time.UTC)
}

func TestAggregateDailyDensity(t *testing.T) {
	from := NewDate(2026, 2, 1)
	to := NewDate(2026, 2, 10)

	// A single payment in the middle: every other day must still appear.
	payments := []PaymentRecord{{Amount: dec("120.00"), PaidAt: ts(2026, 2, 5, 14, 30)}}

	buckets, err := AggregateDaily(payments, nil, nil, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 10 {
		t.Fatalf("expected 10 buckets, got %d", len(buckets))
	}
	for i, b := range buckets {
		want := from.AddDays(i)
		if b.Day.Key() != want.Key() {
			t.Fatalf("bucket %d: expected day %s, got %s", i, want.Key(), b.Day.Key())
		}
	}
	if !buckets[4].Income.Equal(dec("120.00")) {
		t.Fatalf("expected 120.00 on day 5, got %s", buckets[4].Income)
	}
	if !buckets[0].Income.IsZero() || buckets[0].Bookings != 0 || buckets[0].Occupancy != 0 {
		t.Fatalf("expected zero bucket on empty day, got %+v", buckets[0])
	}
}

func TestAggregateDailySingleDayRange(t *testing.T) {
	d := NewDate(2026, 3, 1)
	buckets, err := AggregateDaily(nil, nil, nil, d, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
}

func TestAggregateDailyInvalidRange(t *testing.T) {
	_, err := AggregateDaily(nil, nil, nil, NewDate(2026, 2, 2), NewDate(2026, 2, 1))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestAggregateDailySumInvariant(t *testing.T) {
	from := NewDate(2026, 1, 1)
	to := NewDate(2026, 1, 31)

	payments := []PaymentRecord{
		{Amount: dec("10.10"), PaidAt: ts(2026, 1, 1, 0, 1)},
		{Amount: dec("20.20"), PaidAt: ts(2026, 1, 1, 23, 59)},
		{Amount: dec("0.01"), PaidAt: ts(2026, 1, 15, 12, 0)},
		{Amount: dec("99.99"), PaidAt: ts(2026, 1, 31, 8, 0)},
	}

	buckets, err := AggregateDaily(payments, nil, nil, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := decimal.Zero
	for _, b := range buckets {
		sum = sum.Add(b.Income)
	}
	if !sum.Equal(dec("130.30")) {
		t.Fatalf("income sum expected 130.30, got %s", sum)
	}
}

func TestAggregateDailyOccupancyHalfOpen(t *testing.T) {
	from := NewDate(2026, 2, 1)
	to := NewDate(2026, 2, 3)

	res := []ReservationSummary{{
		CreatedAt: ts(2026, 1, 20, 10, 0),
		CheckIn:   NewDate(2026, 2, 1),
		CheckOut:  NewDate(2026, 2, 3),
		Status:    ReservationConfirmed,
	}}

	buckets, err := AggregateDaily(nil, nil, res, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{1, 1, 0} // check-out day excluded
	for i, b := range buckets {
		if b.Occupancy != want[i] {
			t.Fatalf("day %s: occupancy expected %d, got %d", b.Day.Key(), want[i], b.Occupancy)
		}
	}
}

func TestAggregateDailyBookingsAndStatuses(t *testing.T) {
	from := NewDate(2026, 2, 1)
	to := NewDate(2026, 2, 2)

	res := []ReservationSummary{
		{CreatedAt: ts(2026, 2, 1, 9, 0), CheckIn: NewDate(2026, 2, 10), CheckOut: NewDate(2026, 2, 12), Status: ReservationConfirmed},
		{CreatedAt: ts(2026, 2, 1, 10, 0), CheckIn: NewDate(2026, 2, 10), CheckOut: NewDate(2026, 2, 12), Status: ReservationCheckedIn},
		// Cancelled and draft rows never count.
		{CreatedAt: ts(2026, 2, 1, 11, 0), CheckIn: NewDate(2026, 2, 10), CheckOut: NewDate(2026, 2, 12), Status: ReservationCancelled},
		{CreatedAt: ts(2026, 2, 2, 11, 0), CheckIn: NewDate(2026, 2, 10), CheckOut: NewDate(2026, 2, 12), Status: ReservationDraft},
	}

	buckets, err := AggregateDaily(nil, nil, res, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buckets[0].Bookings != 2 {
		t.Fatalf("day 1 bookings expected 2, got %d", buckets[0].Bookings)
	}
	if buckets[1].Bookings != 0 {
		t.Fatalf("day 2 bookings expected 0, got %d", buckets[1].Bookings)
	}
}

func TestAggregateDailyNet(t *testing.T) {
	from := NewDate(2026, 4, 1)
	to := NewDate(2026, 4, 1)

	payments := []PaymentRecord{{Amount: dec("100.555"), PaidAt: ts(2026, 4, 1, 10, 0)}}
	expenses := []ExpenseRecord{{Description: "bulbs", Amount: dec("40.25"), Category: CategoryMaintenance, ExpenseDate: NewDate(2026, 4, 1)}}

	buckets, err := AggregateDaily(payments, expenses, nil, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := buckets[0]
	// Sum first, round once: 100.555 - 40.25 = 60.305 -> 60.31 (half-up).
	if !b.Net.Equal(dec("60.31")) {
		t.Fatalf("net expected 60.31, got %s", b.Net)
	}
	if !b.Income.Equal(dec("100.56")) {
		t.Fatalf("income expected 100.56, got %s", b.Income)
	}
	if !b.Expenses.Equal(dec("40.25")) {
		t.Fatalf("expenses expected 40.25, got %s", b.Expenses)
	}
}

func TestTotalsOf(t *testing.T) {
	buckets := []DailyBucket{
		{Income: dec("10.00"), Expenses: dec("4.00"), Net: dec("6.00")},
		{Income: dec("5.50"), Expenses: dec("1.25"), Net: dec("4.25")},
	}
	totals := TotalsOf(buckets)
	if !totals.Income.Equal(dec("15.50")) || !totals.Expenses.Equal(dec("5.25")) || !totals.Net.Equal(dec("10.25")) {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}
