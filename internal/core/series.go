package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AggregateDaily buckets payments, expenses, and reservation events into one
// DailyBucket per calendar day from `from` to `to` inclusive, in ascending
// order. The series is dense: days with no events still produce a bucket
// with zero values. The day list derived from the range, not the event
// data, determines the output length.
//
// Payments bucket by the calendar date of PaidAt. Expenses bucket by their
// ExpenseDate. Bookings count reservations by the calendar date of
// CreatedAt, considering only rows that are confirmed or checked_in as
// supplied; a later cancellation does not retroactively erase demand from
// the creation day. Occupancy on day d counts active reservations whose
// half-open stay interval [CheckIn, CheckOut) contains d.
//
// Income, expense, and net values are summed exactly and rounded to two
// decimals per bucket. Returns ErrInvalidRange when from is after to.
func AggregateDaily(payments []PaymentRecord, expenses []ExpenseRecord, reservations []ReservationSummary, from, to Date) ([]DailyBucket, error) {
	if from.After(to.Time) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, from.Key(), to.Key())
	}

	incomeByDay := make(map[string]decimal.Decimal)
	for _, p := range payments {
		k := DateOf(p.PaidAt).Key()
		incomeByDay[k] = incomeByDay[k].Add(p.Amount)
	}

	expenseByDay := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		k := e.ExpenseDate.Key()
		expenseByDay[k] = expenseByDay[k].Add(e.Amount)
	}

	bookingsByDay := make(map[string]int)
	var active []ReservationSummary
	for _, r := range reservations {
		if !r.Status.Active() {
			continue
		}
		bookingsByDay[DateOf(r.CreatedAt).Key()]++
		active = append(active, r)
	}

	days := from.DaysUntil(to) + 1
	buckets := make([]DailyBucket, 0, days)
	for d := from; !d.After(to.Time); d = d.AddDays(1) {
		k := d.Key()
		income := incomeByDay[k]
		spent := expenseByDay[k]

		occupancy := 0
		for _, r := range active {
			if r.Occupies(d) {
				occupancy++
			}
		}

		buckets = append(buckets, DailyBucket{
			Day:       d,
			Income:    Round2(income),
			Expenses:  Round2(spent),
			Net:       Round2(income.Sub(spent)),
			Bookings:  bookingsByDay[k],
			Occupancy: occupancy,
		})
	}

	return buckets, nil
}

// SeriesTotals sums the per-day values of a daily series.
type SeriesTotals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// TotalsOf folds a daily series into range totals.
func TotalsOf(buckets []DailyBucket) SeriesTotals {
	t := SeriesTotals{}
	for _, b := range buckets {
		t.Income = t.Income.Add(b.Income)
		t.Expenses = t.Expenses.Add(b.Expenses)
		t.Net = t.Net.Add(b.Net)
	}
	return t
}
