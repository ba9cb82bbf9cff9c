// backend/src/processors/expense_processor_test.go
package processors

import (
	"math"
	"testing"

	"github.com/username/rentfolio/backend/src/models"
)

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func findExpense(t *testing.T, expenses []models.BookingExpense, id string) models.BookingExpense {
	t.Helper()
	for _, e := range expenses {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("expense %q not found in ledger %+v", id, expenses)
	return models.BookingExpense{}
}

func TestExpenseProcessorStandardProperty(t *testing.T) {
	p := NewExpenseProcessor(DefaultRateTable())

	b := mkBooking("bk1", "Alice", "Marbella Old Town", "2025-01-10", "2025-01-14")
	b.TotalAmount = 1000
	b.IsFirstBookingOfStay = true
	p.Process(&b)

	wantOrder := []struct {
		id       string
		category string
		amount   float64
	}{
		{"transaction-bk1", models.CategoryManagementTransaction, 13.00},
		{"commission-bk1", models.CategoryManagementCommission, 220.00},
		{"vat-bk1", models.CategoryManagementVAT, 46.20},
		{"cleaning-bk1", models.CategoryCleaning, 90.00},
		{"welcome-wine-bk1", models.CategoryManagementWine, 2.00},
		{"welcome-coffee-bk1", models.CategoryManagementCoffee, 0.60},
		{"welcome-water-bk1", models.CategoryManagementWater, 0.72},
		{"welcome-tea-bk1", models.CategoryManagementTea, 0.60},
		{"welcome-slippers-bk1", models.CategoryManagementSlippers, 1.20},
	}

	if len(b.Expenses) != len(wantOrder) {
		t.Fatalf("ledger has %d entries, want %d: %+v", len(b.Expenses), len(wantOrder), b.Expenses)
	}
	for i, want := range wantOrder {
		got := b.Expenses[i]
		if got.ID != want.id {
			t.Errorf("entry %d: ID = %q, want %q", i, got.ID, want.id)
		}
		if got.Category != want.category {
			t.Errorf("entry %d: Category = %q, want %q", i, got.Category, want.category)
		}
		if !floatEq(got.Amount, want.amount) {
			t.Errorf("entry %d (%s): Amount = %v, want %v", i, want.id, got.Amount, want.amount)
		}
		if got.Date != b.DateArrival {
			t.Errorf("entry %d (%s): Date = %q, want arrival date %q", i, want.id, got.Date, b.DateArrival)
		}
	}
}

func TestExpenseProcessorGuestCommissionProperty(t *testing.T) {
	p := NewExpenseProcessor(DefaultRateTable())

	b := mkBooking("bk2", "Bob", "ALOHA • Garden + Rooftop View Marbella Stay", "2025-02-01", "2025-02-05")
	b.TotalAmount = 500
	b.People = 1
	b.IsFirstBookingOfStay = true
	p.Process(&b)

	commission := findExpense(t, b.Expenses, "commission-bk2")
	if !floatEq(commission.Amount, 90.00) {
		t.Errorf("commission = %v, want 90 (default 18%% rate)", commission.Amount)
	}

	ld := findExpense(t, b.Expenses, "ld-commission-bk2")
	if ld.Category != models.CategoryOther {
		t.Errorf("ld-commission category = %q, want %q", ld.Category, models.CategoryOther)
	}
	if !floatEq(ld.Amount, 60.00) {
		t.Errorf("ld-commission = %v, want (500-100)*0.15 = 60", ld.Amount)
	}
}

func TestExpenseProcessorConsecutiveStay(t *testing.T) {
	p := NewExpenseProcessor(DefaultRateTable())

	b := mkBooking("bk3", "Carla", "ALOHA • Garden + Rooftop View Marbella Stay", "2025-03-05", "2025-03-08")
	b.TotalAmount = 500
	b.IsConsecutiveStay = true
	b.IsFirstBookingOfStay = false
	p.Process(&b)

	for _, e := range b.Expenses {
		if e.ID == "cleaning-bk3" {
			t.Errorf("consecutive stay must not carry a cleaning entry, got %+v", e)
		}
		if e.ID == "welcome-wine-bk3" {
			t.Errorf("non-first booking must not carry welcome entries, got %+v", e)
		}
	}

	// With the cleaning fee waived the surcharge base is the full total.
	ld := findExpense(t, b.Expenses, "ld-commission-bk3")
	if !floatEq(ld.Amount, 75.00) {
		t.Errorf("ld-commission = %v, want 500*0.15 = 75", ld.Amount)
	}
}

func TestExpenseProcessorZeroTotal(t *testing.T) {
	p := NewExpenseProcessor(DefaultRateTable())

	b := mkBooking("bk4", "Dan", "Marbella Old Town", "2025-04-01", "2025-04-03")
	b.TotalAmount = 0
	b.IsFirstBookingOfStay = true
	p.Process(&b)

	for _, e := range b.Expenses {
		switch e.ID {
		case "transaction-bk4", "commission-bk4", "vat-bk4":
			t.Errorf("zero-total booking must not carry percentage entries, got %+v", e)
		}
		if e.Amount == 0 {
			t.Errorf("ledger must never contain zero-amount entries, got %+v", e)
		}
	}
	// Flat fees still apply.
	findExpense(t, b.Expenses, "cleaning-bk4")
	findExpense(t, b.Expenses, "welcome-wine-bk4")
}

func TestExpenseProcessorUnknownProperty(t *testing.T) {
	p := NewExpenseProcessor(DefaultRateTable())

	b := mkBooking("bk5", "Eve", "Casa Desconocida", "2025-05-01", "2025-05-04")
	b.TotalAmount = 200
	b.IsFirstBookingOfStay = true
	p.Process(&b)

	commission := findExpense(t, b.Expenses, "commission-bk5")
	if !floatEq(commission.Amount, 36.00) {
		t.Errorf("unknown property commission = %v, want default 18%% = 36", commission.Amount)
	}
	for _, e := range b.Expenses {
		if e.ID == "cleaning-bk5" {
			t.Errorf("unknown property has no cleaning fee, got %+v", e)
		}
		if e.ID == "ld-commission-bk5" {
			t.Errorf("unknown property must not carry the owner surcharge, got %+v", e)
		}
	}
}

func TestExpenseProcessorDeterministic(t *testing.T) {
	p := NewExpenseProcessor(DefaultRateTable())

	first := mkBooking("bk6", "Frank", "Playa de la Fontanilla Marbella", "2025-06-01", "2025-06-05")
	first.TotalAmount = 750.50
	first.IsFirstBookingOfStay = true
	second := first

	p.Process(&first)
	p.Process(&second)

	if len(first.Expenses) != len(second.Expenses) {
		t.Fatalf("repeat derivation changed ledger length: %d vs %d", len(first.Expenses), len(second.Expenses))
	}
	for i := range first.Expenses {
		if first.Expenses[i] != second.Expenses[i] {
			t.Errorf("entry %d differs between runs: %+v vs %+v", i, first.Expenses[i], second.Expenses[i])
		}
	}
}
