package core

import "testing"

func TestAggregateCategoriesSortAndTies(t *testing.T) {
	from := NewDate(2026, 5, 1)
	to := NewDate(2026, 5, 31)

	expenses := []ExpenseRecord{
		{Description: "power", Amount: dec("100"), Category: CategoryUtilities, ExpenseDate: NewDate(2026, 5, 2)},
		{Description: "towels", Amount: dec("100"), Category: CategorySupplies, ExpenseDate: NewDate(2026, 5, 3)},
		{Description: "city tax", Amount: dec("50"), Category: CategoryTaxes, ExpenseDate: NewDate(2026, 5, 4)},
	}

	totals := AggregateCategories(expenses, from, to)
	if len(totals) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(totals))
	}
	// Equal totals preserve first-seen order.
	want := []ExpenseCategory{CategoryUtilities, CategorySupplies, CategoryTaxes}
	for i, w := range want {
		if totals[i].Category != w {
			t.Fatalf("position %d: expected %s, got %s", i, w, totals[i].Category)
		}
	}
	if !totals[0].Total.Equal(dec("100")) || !totals[2].Total.Equal(dec("50")) {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestAggregateCategoriesSparse(t *testing.T) {
	totals := AggregateCategories(nil, NewDate(2026, 5, 1), NewDate(2026, 5, 31))
	if len(totals) != 0 {
		t.Fatalf("expected no categories, got %d", len(totals))
	}
}

func TestAggregateCategoriesPeriodBounds(t *testing.T) {
	from := NewDate(2026, 5, 10)
	to := NewDate(2026, 5, 20)

	expenses := []ExpenseRecord{
		{Description: "before", Amount: dec("1"), Category: CategoryOther, ExpenseDate: NewDate(2026, 5, 9)},
		{Description: "first day", Amount: dec("2"), Category: CategoryOther, ExpenseDate: NewDate(2026, 5, 10)},
		{Description: "last day", Amount: dec("3"), Category: CategoryOther, ExpenseDate: NewDate(2026, 5, 20)},
		{Description: "after", Amount: dec("4"), Category: CategoryOther, ExpenseDate: NewDate(2026, 5, 21)},
	}

	totals := AggregateCategories(expenses, from, to)
	if len(totals) != 1 {
		t.Fatalf("expected 1 category, got %d", len(totals))
	}
	if !totals[0].Total.Equal(dec("5")) {
		t.Fatalf("expected 5 (both inclusive bounds), got %s", totals[0].Total)
	}
}

func TestAggregateCategoriesAccumulates(t *testing.T) {
	from := NewDate(2026, 6, 1)
	to := NewDate(2026, 6, 30)

	expenses := []ExpenseRecord{
		{Description: "a", Amount: dec("10.105"), Category: CategoryPayroll, ExpenseDate: NewDate(2026, 6, 1)},
		{Description: "b", Amount: dec("10.105"), Category: CategoryPayroll, ExpenseDate: NewDate(2026, 6, 2)},
	}

	totals := AggregateCategories(expenses, from, to)
	// 10.105 + 10.105 = 20.21 exactly; rounding only after the sum.
	if !totals[0].Total.Equal(dec("20.21")) {
		t.Fatalf("expected 20.21, got %s", totals[0].Total)
	}
}
