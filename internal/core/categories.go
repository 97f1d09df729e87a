package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AggregateCategories groups the expenses falling inside [from, to]
// (inclusive on both ends) by category and returns one CategoryTotal per
// category present, sorted by descending total. Equal totals keep
// first-seen order so repeated runs over the same rows are deterministic.
// Categories with no expenses in the period are omitted: unlike the daily
// series, this output is sparse.
func AggregateCategories(expenses []ExpenseRecord, from, to Date) []CategoryTotal {
	byCategory := make(map[ExpenseCategory]decimal.Decimal)
	var order []ExpenseCategory

	for _, e := range expenses {
		d := e.ExpenseDate
		if d.Before(from.Time) || d.After(to.Time) {
			continue
		}
		if _, seen := byCategory[e.Category]; !seen {
			order = append(order, e.Category)
		}
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
	}

	totals := make([]CategoryTotal, 0, len(order))
	for _, c := range order {
		totals = append(totals, CategoryTotal{Category: c, Total: Round2(byCategory[c])})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total.GreaterThan(totals[j].Total)
	})
	return totals
}
