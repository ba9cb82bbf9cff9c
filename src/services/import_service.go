// backend/src/services/import_service.go
package services

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/rentfolio/backend/src/logger"
	"github.com/username/rentfolio/backend/src/model"
	"github.com/username/rentfolio/backend/src/models"
	"github.com/username/rentfolio/backend/src/parsers"
	"github.com/username/rentfolio/backend/src/parsers/guestinfo"
	"github.com/username/rentfolio/backend/src/processors"
	"github.com/username/rentfolio/backend/src/security/validation"
)

const (
	ckLatestBookings       = "latest_parsed_bookings"
	ckFinancialSummary     = "agg_financial_summary_%s"
	ckMonthlyStats         = "agg_monthly_stats_%d"
	ckChartData            = "agg_chart_data_%d_%s"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type importServiceImpl struct {
	db               *sql.DB
	stayProcessor    processors.StayProcessor
	expenseProcessor processors.ExpenseProcessor
	summaryProcessor processors.SummaryProcessor
	reportCache      *cache.Cache
}

// NewImportService wires the import pipeline. The db handle is the external
// persistence collaborator; derivation itself never touches it.
func NewImportService(
	db *sql.DB,
	stayProcessor processors.StayProcessor,
	expenseProcessor processors.ExpenseProcessor,
	summaryProcessor processors.SummaryProcessor,
	reportCache *cache.Cache,
) ImportService {
	return &importServiceImpl{
		db:               db,
		stayProcessor:    stayProcessor,
		expenseProcessor: expenseProcessor,
		summaryProcessor: summaryProcessor,
		reportCache:      reportCache,
	}
}

// ProcessImport runs the full pipeline for one uploaded export: parse,
// derive continuity flags and expense ledgers, join optional guest details,
// persist, and cache the batch for the report endpoints.
func (s *importServiceImpl) ProcessImport(bookingFile io.Reader, guestDetailsFile io.Reader, source, filename string, filesize int64) (*ImportResult, error) {
	overallStartTime := time.Now()
	logger.L.Info("ProcessImport START", "source", source, "filename", filename, "filesize", filesize)

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	bookings, err := parser.Parse(bookingFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	if len(bookings) == 0 {
		return nil, fmt.Errorf("%w: no valid records found in file", ErrParsingFailed)
	}

	bookings = s.stayProcessor.Process(bookings)
	for i := range bookings {
		s.expenseProcessor.Process(&bookings[i])
	}

	var warnings []string
	if guestDetailsFile != nil {
		joinWarnings := s.joinGuestDetails(bookings, guestDetailsFile)
		warnings = append(warnings, joinWarnings...)
	}

	inserted, skipped, persistWarnings := s.persistBookings(bookings)
	warnings = append(warnings, persistWarnings...)

	s.reportCache.Flush()
	s.reportCache.Set(ckLatestBookings, bookings, cache.NoExpiration)

	logger.L.Info("ProcessImport END",
		"source", source,
		"parsedCount", len(bookings),
		"insertedCount", inserted,
		"skippedCount", skipped,
		"warningCount", len(warnings),
		"duration", time.Since(overallStartTime).String())

	return &ImportResult{
		Bookings:      bookings,
		InsertedCount: inserted,
		SkippedCount:  skipped,
		Warnings:      warnings,
	}, nil
}

// joinGuestDetails parses the secondary spreadsheet and attaches detail
// records to bookings by guest name + arrival date. Problems degrade to
// warnings; the import itself never fails on the secondary input.
func (s *importServiceImpl) joinGuestDetails(bookings []models.Booking, file io.Reader) []string {
	rows, warnings, err := guestinfo.NewParser().Parse(file)
	if err != nil {
		logger.L.Warn("Guest details file unreadable, continuing without it", "error", err)
		return []string{fmt.Sprintf("guest details ignored: %v", err)}
	}

	byKey := make(map[string]models.GuestDetailRow, len(rows))
	for _, row := range rows {
		byKey[row.Key()] = row
	}

	matched := 0
	for i := range bookings {
		b := &bookings[i]
		row, ok := byKey[b.Name+"-"+b.DateArrival]
		if !ok {
			continue
		}
		b.GuestDetails = &models.GuestDetails{
			Birthplace:         row.Birthplace,
			Nationality:        row.Nationality,
			Passport:           row.Passport,
			Address:            validation.SanitizeText(row.Address),
			AccompanyingGuests: row.AccompanyingGuests,
		}
		matched++
	}
	logger.L.Info("Guest details joined", "rows", len(rows), "matched", matched)
	return warnings
}

// persistBookings writes the derived batch to the store, skipping rows that
// already exist under the (property, guest, arrival, departure) identity.
// Row-level persistence failures become warnings so one bad row never sinks
// the batch; rows persisted before a failure stay persisted.
func (s *importServiceImpl) persistBookings(bookings []models.Booking) (inserted, skipped int, warnings []string) {
	if s.db == nil {
		return 0, 0, []string{"persistence unavailable: no database handle"}
	}

	for i := range bookings {
		b := &bookings[i]

		property, err := model.GetPropertyByName(s.db, b.HouseName)
		if errors.Is(err, sql.ErrNoRows) {
			warnings = append(warnings, fmt.Sprintf("property not found: %s", b.HouseName))
			continue
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("property lookup failed for %s: %v", b.HouseName, err))
			continue
		}

		exists, err := model.BookingExists(s.db, property.ID, b.Name, b.DateArrival, b.DateDeparture)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("duplicate check failed for booking %s: %v", b.ID, err))
			continue
		}
		if exists {
			skipped++
			continue
		}

		// Free-text fields are sanitized at the persistence boundary only;
		// the in-memory batch keeps the source text untouched.
		stored := *b
		stored.Name = validation.SanitizeText(b.Name)
		storedNotes := make([]string, len(b.GuestNotes))
		for j, note := range b.GuestNotes {
			storedNotes[j] = validation.SanitizeText(note)
		}
		stored.GuestNotes = storedNotes

		rowID, err := model.InsertBooking(s.db, property.ID, &stored)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to insert booking %s (%s): %v", b.Name, b.DateArrival, err))
			continue
		}
		for j := range b.Expenses {
			if err := model.InsertExpense(s.db, rowID, &b.Expenses[j]); err != nil {
				warnings = append(warnings, fmt.Sprintf("failed to insert expense for booking %s: %v", rowID, err))
			}
		}
		inserted++
	}
	return inserted, skipped, warnings
}

// latestBookings returns the cached batch from the most recent import,
// falling back to the store (with continuity flags recomputed) after a
// restart.
func (s *importServiceImpl) latestBookings() ([]models.Booking, error) {
	if cached, found := s.reportCache.Get(ckLatestBookings); found {
		return cached.([]models.Booking), nil
	}

	if s.db == nil {
		return nil, ErrNoImportData
	}
	bookings, err := model.FetchAllBookings(s.db)
	if err != nil {
		logger.L.Error("Failed to load bookings from store", "error", err)
		return nil, ErrNoImportData
	}
	if len(bookings) == 0 {
		return nil, ErrNoImportData
	}

	// Flags are derived state and are not persisted.
	bookings = s.stayProcessor.Process(bookings)
	s.reportCache.Set(ckLatestBookings, bookings, cache.NoExpiration)
	return bookings, nil
}

func (s *importServiceImpl) GetBookings() ([]models.Booking, error) {
	return s.latestBookings()
}

func (s *importServiceImpl) GetBookingsByProperty() (map[string][]models.Booking, error) {
	bookings, err := s.latestBookings()
	if err != nil {
		return nil, err
	}
	return s.summaryProcessor.GroupByProperty(bookings), nil
}

func (s *importServiceImpl) GetFinancialSummary(today time.Time) (*models.FinancialSummary, error) {
	cacheKey := fmt.Sprintf(ckFinancialSummary, today.Format("2006-01-02"))
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*models.FinancialSummary), nil
	}

	bookings, err := s.latestBookings()
	if err != nil {
		return nil, err
	}
	summary := s.summaryProcessor.FinancialSummary(bookings, today)
	s.reportCache.Set(cacheKey, summary, DefaultCacheExpiration)
	return summary, nil
}

func (s *importServiceImpl) GetMonthlyStats(year int) ([]models.MonthlyStat, error) {
	cacheKey := fmt.Sprintf(ckMonthlyStats, year)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.MonthlyStat), nil
	}

	bookings, err := s.latestBookings()
	if err != nil {
		return nil, err
	}
	stats := s.summaryProcessor.MonthlyStats(bookings, year)
	s.reportCache.Set(cacheKey, stats, DefaultCacheExpiration)
	return stats, nil
}

func (s *importServiceImpl) GetChartData(year int, today time.Time) (models.ChartData, error) {
	cacheKey := fmt.Sprintf(ckChartData, year, today.Format("2006-01-02"))
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(models.ChartData), nil
	}

	bookings, err := s.latestBookings()
	if err != nil {
		return nil, err
	}
	grouped := s.summaryProcessor.GroupByProperty(bookings)

	// Registered properties without bookings still get zeroed series so
	// every known property key resolves to a stats entry.
	if s.db != nil {
		if names, err := model.ListPropertyNames(s.db); err != nil {
			logger.L.Warn("Could not list properties for chart skeleton", "error", err)
		} else {
			for _, name := range names {
				if _, ok := grouped[name]; !ok {
					grouped[name] = nil
				}
			}
		}
	}

	chart := s.summaryProcessor.ChartData(grouped, year, today)
	s.reportCache.Set(cacheKey, chart, DefaultCacheExpiration)
	return chart, nil
}

// InvalidateCache drops every cached batch and report.
func (s *importServiceImpl) InvalidateCache() {
	s.reportCache.Flush()
	logger.L.Debug("Report cache invalidated")
}
