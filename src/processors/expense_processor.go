// backend/src/processors/expense_processor.go
package processors

import (
	"fmt"

	"github.com/username/rentfolio/backend/src/models"
)

// RateTable holds every business rate used to derive a booking's expense
// ledger. Rates are configuration, not assumptions baked into conditionals:
// the processor receives a table so tests (and eventually a settings
// screen) can swap it out.
type RateTable struct {
	TransactionFeeRate    float64
	DefaultCommissionRate float64
	// CommissionRateByProperty overrides the default rate for named
	// properties.
	CommissionRateByProperty map[string]float64
	// VATRate applies to the commission amount, not the booking total.
	VATRate float64
	// CleaningFeeByProperty is a flat per-turnover fee. Unknown properties
	// default to 0.
	CleaningFeeByProperty map[string]float64
	// GuestCommissionProperty is the single property whose owner contract
	// adds a surcharge on top of the standard commission.
	GuestCommissionProperty string
	GuestCommissionRate     float64
	// Welcome package: wine is a flat one-time amount per stay, the rest
	// scale with the guest count.
	WelcomeWine             float64
	WelcomeCoffeePerGuest   float64
	WelcomeWaterPerGuest    float64
	WelcomeTeaPerGuest      float64
	WelcomeSlippersPerGuest float64
}

// DefaultRateTable returns the current management contract rates.
func DefaultRateTable() RateTable {
	return RateTable{
		TransactionFeeRate:    0.013,
		DefaultCommissionRate: 0.18,
		CommissionRateByProperty: map[string]float64{
			"Marbella Old Town": 0.22,
		},
		VATRate: 0.21,
		CleaningFeeByProperty: map[string]float64{
			"Marbella Old Town":                           90,
			"Playa de la Fontanilla Marbella":             60,
			"Jardines Tropicales-Puerto Banús":            30,
			"ALOHA • Garden + Rooftop View Marbella Stay": 100,
		},
		GuestCommissionProperty: "ALOHA • Garden + Rooftop View Marbella Stay",
		GuestCommissionRate:     0.15,
		WelcomeWine:             2.00,
		WelcomeCoffeePerGuest:   0.30,
		WelcomeWaterPerGuest:    0.36,
		WelcomeTeaPerGuest:      0.30,
		WelcomeSlippersPerGuest: 0.60,
	}
}

// CommissionRate returns the commission rate for a property name.
func (t RateTable) CommissionRate(houseName string) float64 {
	if rate, ok := t.CommissionRateByProperty[houseName]; ok {
		return rate
	}
	return t.DefaultCommissionRate
}

// CleaningFee returns the flat cleaning fee for a property name, 0 when the
// property is not in the table.
func (t RateTable) CleaningFee(houseName string) float64 {
	return t.CleaningFeeByProperty[houseName]
}

// expenseProcessorImpl implements the ExpenseProcessor interface.
type expenseProcessorImpl struct {
	rates RateTable
}

// NewExpenseProcessor creates an ExpenseProcessor over the given rate table.
func NewExpenseProcessor(rates RateTable) ExpenseProcessor {
	return &expenseProcessorImpl{rates: rates}
}

// Process computes the ordered expense ledger for one fully-flagged booking
// and attaches it. The generator is total: unknown properties degrade to a
// cleaning fee of 0 and the default commission rate, never an error.
// Zero-amount entries are omitted, not stored as zero.
func (p *expenseProcessorImpl) Process(b *models.Booking) {
	expenses := []models.BookingExpense{}
	add := func(kind, category string, amount float64, description string) {
		if amount == 0 {
			return
		}
		expenses = append(expenses, models.BookingExpense{
			ID:          kind + "-" + b.ID,
			Category:    category,
			Amount:      amount,
			Description: description,
			Date:        b.DateArrival,
		})
	}

	if b.TotalAmount > 0 {
		add("transaction", models.CategoryManagementTransaction,
			b.TotalAmount*p.rates.TransactionFeeRate,
			fmt.Sprintf("Payment processing fee (%g%%)", p.rates.TransactionFeeRate*100))

		commissionRate := p.rates.CommissionRate(b.HouseName)
		commission := b.TotalAmount * commissionRate
		add("commission", models.CategoryManagementCommission, commission,
			fmt.Sprintf("Management commission (%g%%)", commissionRate*100))

		add("vat", models.CategoryManagementVAT, commission*p.rates.VATRate,
			fmt.Sprintf("VAT on commission (%g%%)", p.rates.VATRate*100))
	}

	// The effective cleaning fee is zero for consecutive stays: the guest
	// never left, so no turnover happened.
	cleaningFee := p.rates.CleaningFee(b.HouseName)
	if b.IsConsecutiveStay {
		cleaningFee = 0
	}
	add("cleaning", models.CategoryCleaning, cleaningFee, "Professional cleaning service")

	if b.HouseName == p.rates.GuestCommissionProperty && b.TotalAmount > 0 {
		add("ld-commission", models.CategoryOther,
			(b.TotalAmount-cleaningFee)*p.rates.GuestCommissionRate,
			fmt.Sprintf("L&D Guest Commission (%g%%)", p.rates.GuestCommissionRate*100))
	}

	// Welcome package costs are charged once per physical stay, on the
	// booking that starts it.
	if b.IsFirstBookingOfStay {
		add("welcome-wine", models.CategoryManagementWine, p.rates.WelcomeWine,
			"Welcome wine (one-time)")
		add("welcome-coffee", models.CategoryManagementCoffee,
			p.rates.WelcomeCoffeePerGuest*float64(b.People),
			fmt.Sprintf("Coffee capsules (%d guests, one-time)", b.People))
		add("welcome-water", models.CategoryManagementWater,
			p.rates.WelcomeWaterPerGuest*float64(b.People),
			fmt.Sprintf("Water bottles (%d guests, one-time)", b.People))
		add("welcome-tea", models.CategoryManagementTea,
			p.rates.WelcomeTeaPerGuest*float64(b.People),
			fmt.Sprintf("Tea bags (%d guests, one-time)", b.People))
		add("welcome-slippers", models.CategoryManagementSlippers,
			p.rates.WelcomeSlippersPerGuest*float64(b.People),
			fmt.Sprintf("Guest slippers (%d pairs, one-time)", b.People))
	}

	b.Expenses = expenses
}
