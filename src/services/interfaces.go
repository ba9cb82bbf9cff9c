// backend/src/services/interfaces.go
package services

import (
	"errors"
	"io"
	"time"

	"github.com/username/rentfolio/backend/src/models"
)

// ImportResult describes the outcome of one ProcessImport call. Bookings
// carry the full normalized batch (with ledgers) regardless of how many
// rows were persisted; persistence problems surface as warnings, not
// failures. Already-derived bookings are reported, never rolled back.
type ImportResult struct {
	Bookings      []models.Booking `json:"bookings"`
	InsertedCount int              `json:"insertedCount"`
	SkippedCount  int              `json:"skippedCount"`
	Warnings      []string         `json:"warnings,omitempty"`
}

// Define common service errors
var (
	ErrParsingFailed = errors.New("csv parsing failed")
	ErrNoImportData  = errors.New("no imported booking data available")
)

// ImportService defines the interface for the booking import pipeline and
// the report getters over the latest imported batch. Report methods take
// the reference date/year explicitly so output is deterministic.
type ImportService interface {
	ProcessImport(bookingFile io.Reader, guestDetailsFile io.Reader, source, filename string, filesize int64) (*ImportResult, error)

	GetBookings() ([]models.Booking, error)
	GetBookingsByProperty() (map[string][]models.Booking, error)
	GetFinancialSummary(today time.Time) (*models.FinancialSummary, error)
	GetMonthlyStats(year int) ([]models.MonthlyStat, error)
	GetChartData(year int, today time.Time) (models.ChartData, error)

	InvalidateCache()
}
