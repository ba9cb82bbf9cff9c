// backend/src/processors/interfaces.go
package processors

import (
	"time"

	"github.com/username/rentfolio/backend/src/models"
)

// StayProcessor derives the continuity flags (consecutive stay, first
// booking of stay, previous stay back-reference) for a batch of normalized
// bookings.
type StayProcessor interface {
	Process(bookings []models.Booking) []models.Booking
}

// ExpenseProcessor generates the itemized expense ledger for one
// fully-flagged booking.
type ExpenseProcessor interface {
	Process(booking *models.Booking)
}

// SummaryProcessor folds a booking set into the reporting structures.
// The reference date and year are explicit parameters so results are
// deterministic and tests can pin them.
type SummaryProcessor interface {
	GroupByProperty(bookings []models.Booking) map[string][]models.Booking
	FinancialSummary(bookings []models.Booking, today time.Time) *models.FinancialSummary
	MonthlyStats(bookings []models.Booking, year int) []models.MonthlyStat
	ChartData(byProperty map[string][]models.Booking, year int, today time.Time) models.ChartData
}
