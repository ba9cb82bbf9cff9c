// backend/src/services/import_service_test.go
package services

import (
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/rentfolio/backend/src/logger"
	"github.com/username/rentfolio/backend/src/processors"
	_ "modernc.org/sqlite"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

const testSchema = `
CREATE TABLE properties (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL,
    lodgify_id TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE bookings (
    id TEXT PRIMARY KEY,
    property_id TEXT NOT NULL REFERENCES properties(id),
    guest_name TEXT NOT NULL,
    guest_email TEXT,
    guest_phone TEXT,
    guest_country TEXT NOT NULL DEFAULT 'N/A',
    guest_birthplace TEXT,
    guest_nationality TEXT,
    guest_passport TEXT,
    guest_address TEXT,
    accompanying_guests TEXT,
    arrival_date TEXT NOT NULL,
    departure_date TEXT NOT NULL,
    nights INTEGER NOT NULL DEFAULT 0,
    guests INTEGER NOT NULL DEFAULT 1,
    total_amount REAL NOT NULL DEFAULT 0,
    source TEXT NOT NULL DEFAULT 'CSV Import',
    status TEXT NOT NULL DEFAULT 'confirmed',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX idx_bookings_identity
    ON bookings (property_id, guest_name, arrival_date, departure_date);
CREATE TABLE expenses (
    id TEXT PRIMARY KEY,
    booking_id TEXT NOT NULL REFERENCES bookings(id),
    category TEXT NOT NULL,
    amount REAL NOT NULL,
    description TEXT,
    date TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	seed := `INSERT INTO properties (id, name, type) VALUES
		('p1', 'Marbella Old Town', 'L&D Guest'),
		('p2', 'ALOHA • Garden + Rooftop View Marbella Stay', 'L&D Guest Commission')`
	if _, err := db.Exec(seed); err != nil {
		t.Fatalf("seed properties: %v", err)
	}
	return db
}

func newTestService(db *sql.DB) ImportService {
	return NewImportService(
		db,
		processors.NewStayProcessor(),
		processors.NewExpenseProcessor(processors.DefaultRateTable()),
		processors.NewSummaryProcessor(),
		cache.New(DefaultCacheExpiration, CacheCleanupInterval),
	)
}

const importCSV = `Name,DateArrival,DateDeparture,HouseName,People,TotalAmount
Alice Smith,2025-01-10,2025-01-14,Marbella Old Town,2,"1000,00"
Bob Jones,2025-02-01,2025-02-05,ALOHA • Garden + Rooftop View Marbella Stay,1,500
`

func TestProcessImportPersistsBatch(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)

	result, err := svc.ProcessImport(strings.NewReader(importCSV), nil, "lodgify", "export.csv", int64(len(importCSV)))
	if err != nil {
		t.Fatalf("ProcessImport returned error: %v", err)
	}
	if result.InsertedCount != 2 || result.SkippedCount != 0 {
		t.Errorf("inserted/skipped = %d/%d, want 2/0 (warnings: %v)", result.InsertedCount, result.SkippedCount, result.Warnings)
	}
	if len(result.Bookings) != 2 {
		t.Fatalf("result carries %d bookings, want 2", len(result.Bookings))
	}
	if len(result.Bookings[0].Expenses) == 0 {
		t.Errorf("derived batch is missing expense ledgers: %+v", result.Bookings[0])
	}

	var storedBookings, storedExpenses int
	if err := db.QueryRow("SELECT COUNT(*) FROM bookings").Scan(&storedBookings); err != nil {
		t.Fatalf("count bookings: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM expenses").Scan(&storedExpenses); err != nil {
		t.Fatalf("count expenses: %v", err)
	}
	if storedBookings != 2 {
		t.Errorf("store holds %d bookings, want 2", storedBookings)
	}
	if storedExpenses == 0 {
		t.Errorf("store holds no expenses")
	}
}

func TestProcessImportSkipsDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)

	if _, err := svc.ProcessImport(strings.NewReader(importCSV), nil, "lodgify", "export.csv", 0); err != nil {
		t.Fatalf("first import: %v", err)
	}
	result, err := svc.ProcessImport(strings.NewReader(importCSV), nil, "lodgify", "export.csv", 0)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if result.InsertedCount != 0 || result.SkippedCount != 2 {
		t.Errorf("re-import inserted/skipped = %d/%d, want 0/2", result.InsertedCount, result.SkippedCount)
	}
}

func TestProcessImportUnknownPropertyWarns(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)

	csvData := "Name,DateArrival,DateDeparture,HouseName,TotalAmount\nEve,2025-03-01,2025-03-04,Casa Desconocida,200\n"
	result, err := svc.ProcessImport(strings.NewReader(csvData), nil, "lodgify", "export.csv", 0)
	if err != nil {
		t.Fatalf("ProcessImport returned error: %v", err)
	}
	if result.InsertedCount != 0 {
		t.Errorf("inserted %d rows for an unknown property, want 0", result.InsertedCount)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Casa Desconocida") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning naming the unknown property, got %v", result.Warnings)
	}
}

func TestProcessImportJoinsGuestDetails(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)

	details := "Name,DateArrival,Nationality,Passport\nAlice Smith,2025-01-10,British,AB123456\n"
	result, err := svc.ProcessImport(strings.NewReader(importCSV), strings.NewReader(details), "lodgify", "export.csv", 0)
	if err != nil {
		t.Fatalf("ProcessImport returned error: %v", err)
	}

	var alice *struct{ nationality string }
	for _, b := range result.Bookings {
		if b.Name == "Alice Smith" {
			if b.GuestDetails == nil {
				t.Fatalf("Alice's booking is missing joined details")
			}
			alice = &struct{ nationality string }{b.GuestDetails.Nationality}
		} else if b.GuestDetails != nil {
			t.Errorf("unmatched booking %s picked up details: %+v", b.Name, b.GuestDetails)
		}
	}
	if alice == nil || alice.nationality != "British" {
		t.Errorf("joined details wrong: %+v", alice)
	}
}

func TestProcessImportUnknownSource(t *testing.T) {
	svc := newTestService(newTestDB(t))

	_, err := svc.ProcessImport(strings.NewReader(importCSV), nil, "nosuchsource", "export.csv", 0)
	if !errors.Is(err, ErrParsingFailed) {
		t.Errorf("unknown source error = %v, want ErrParsingFailed", err)
	}
}

func TestProcessImportEmptyFile(t *testing.T) {
	svc := newTestService(newTestDB(t))

	_, err := svc.ProcessImport(strings.NewReader("Name,DateArrival\n"), nil, "lodgify", "export.csv", 0)
	if !errors.Is(err, ErrParsingFailed) {
		t.Errorf("empty file error = %v, want ErrParsingFailed", err)
	}
}

func TestGetBookingsReloadsFromStore(t *testing.T) {
	db := newTestDB(t)

	first := newTestService(db)
	if _, err := first.ProcessImport(strings.NewReader(importCSV), nil, "lodgify", "export.csv", 0); err != nil {
		t.Fatalf("import: %v", err)
	}

	// A fresh service instance simulates a restart with an empty cache.
	second := newTestService(db)
	bookings, err := second.GetBookings()
	if err != nil {
		t.Fatalf("GetBookings after restart: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("reloaded %d bookings, want 2", len(bookings))
	}
	for _, b := range bookings {
		if len(b.Expenses) == 0 {
			t.Errorf("reloaded booking %s has no stored ledger", b.Name)
		}
	}
}

func TestGetBookingsNoData(t *testing.T) {
	svc := newTestService(newTestDB(t))

	if _, err := svc.GetBookings(); !errors.Is(err, ErrNoImportData) {
		t.Errorf("empty store error = %v, want ErrNoImportData", err)
	}
}

func TestReportsOverImportedData(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	if _, err := svc.ProcessImport(strings.NewReader(importCSV), nil, "lodgify", "export.csv", 0); err != nil {
		t.Fatalf("import: %v", err)
	}

	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	summary, err := svc.GetFinancialSummary(today)
	if err != nil {
		t.Fatalf("GetFinancialSummary: %v", err)
	}
	if summary.TotalEarnings != 1500 {
		t.Errorf("TotalEarnings = %v, want 1500", summary.TotalEarnings)
	}
	if summary.EarnedToDate != 1500 {
		t.Errorf("EarnedToDate = %v, want 1500 (both stays departed)", summary.EarnedToDate)
	}

	stats, err := svc.GetMonthlyStats(2025)
	if err != nil {
		t.Fatalf("GetMonthlyStats: %v", err)
	}
	if len(stats) != 12 {
		t.Fatalf("got %d month buckets, want 12", len(stats))
	}
	if stats[0].Income != 1000 || stats[1].Income != 500 {
		t.Errorf("monthly income = jan %v feb %v, want 1000/500", stats[0].Income, stats[1].Income)
	}

	chart, err := svc.GetChartData(2025, today)
	if err != nil {
		t.Fatalf("GetChartData: %v", err)
	}
	if _, ok := chart["overall"]; !ok {
		t.Errorf("chart is missing the overall entry")
	}
	if _, ok := chart["Marbella Old Town"]; !ok {
		t.Errorf("chart is missing Marbella Old Town")
	}
	aloha, ok := chart["ALOHA • Garden + Rooftop View Marbella Stay"]
	if !ok || aloha == nil {
		t.Fatalf("chart is missing the seeded ALOHA property")
	}
}

func TestChartIncludesBookinglessProperties(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.Exec(`INSERT INTO properties (id, name, type) VALUES ('p3', 'Jardines Tropicales-Puerto Banús', 'L&D Guest')`); err != nil {
		t.Fatalf("seed extra property: %v", err)
	}

	svc := newTestService(db)
	if _, err := svc.ProcessImport(strings.NewReader(importCSV), nil, "lodgify", "export.csv", 0); err != nil {
		t.Fatalf("import: %v", err)
	}

	chart, err := svc.GetChartData(2025, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetChartData: %v", err)
	}
	jardines, ok := chart["Jardines Tropicales-Puerto Banús"]
	if !ok || jardines == nil {
		t.Fatalf("registered property without bookings is missing from the chart")
	}
	for _, point := range jardines.MonthlyRevenue {
		if point.Revenue != 0 {
			t.Errorf("bookingless property shows revenue %v in %s", point.Revenue, point.Month)
		}
	}
}
