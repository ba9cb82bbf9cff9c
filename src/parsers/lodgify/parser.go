// backend/src/parsers/lodgify/parser.go
package lodgify

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/username/rentfolio/backend/src/models"
)

// LodgifyParser implements the parsers.Parser interface for Lodgify booking
// export CSVs. Columns are resolved by header name, so exports with
// reordered or extra columns still parse.
type LodgifyParser struct{}

// NewParser creates a new instance of the LodgifyParser.
func NewParser() *LodgifyParser {
	return &LodgifyParser{}
}

func normalizeDecimalString(s string) string {
	// 1. Trim whitespace and quotes
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Trim(cleaned, "\"")

	// 2. Lodgify exports use a comma as the decimal separator
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	return cleaned
}

// parseAmount coerces a locale-formatted decimal string to a float.
// Unparseable or absent values become 0; row-level numeric noise must never
// block the import.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(normalizeDecimalString(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseCount coerces an integer field, falling back to the given default
// when the value is absent, unparseable, or below the minimum of 1 that a
// guest count requires.
func parseCount(s string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// Parse reads a Lodgify CSV export and converts each row into a Booking
// with all scalar fields populated. Only a missing/unreadable header or an
// empty file is a hard error; malformed values inside a row degrade to safe
// defaults.
func (p *LodgifyParser) Parse(file io.Reader) ([]models.Booking, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields per record

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("lodgify parser: failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff") // tolerate a UTF-8 BOM
		}
		colIndex[name] = i
	}
	if _, ok := colIndex["Name"]; !ok {
		return nil, fmt.Errorf("lodgify parser: header is missing the Name column")
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("lodgify parser: failed to read all CSV records: %w", err)
	}

	field := func(record []string, name string) string {
		idx, ok := colIndex[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	bookings := make([]models.Booking, 0, len(records))
	for _, record := range records {
		raw := models.RawBookingRow{
			Id:              field(record, "Id"),
			Type:            field(record, "Type"),
			Source:          field(record, "Source"),
			SourceText:      field(record, "SourceText"),
			Name:            field(record, "Name"),
			DateArrival:     field(record, "DateArrival"),
			DateDeparture:   field(record, "DateDeparture"),
			Nights:          field(record, "Nights"),
			HouseName:       field(record, "HouseName"),
			HouseId:         field(record, "House_Id"),
			RoomTypes:       field(record, "RoomTypes"),
			People:          field(record, "People"),
			DateCreated:     field(record, "DateCreated"),
			TotalAmount:     field(record, "TotalAmount"),
			Currency:        field(record, "Currency"),
			Status:          field(record, "Status"),
			Email:           field(record, "Email"),
			Phone:           field(record, "Phone"),
			CountryName:     field(record, "CountryName"),
			Notes:           field(record, "Notes"),
			RoomRatesTotal:  field(record, "RoomRatesTotal"),
			PromotionsTotal: field(record, "PromotionsTotal"),
			FeesTotal:       field(record, "FeesTotal"),
			TaxesTotal:      field(record, "TaxesTotal"),
			AddOnsTotal:     field(record, "AddOnsTotal"),
			AmountPaid:      field(record, "AmountPaid"),
			BalanceDue:      field(record, "BalanceDue"),
			OwnerFirstName:  field(record, "OwnerFirstName"),
			OwnerLastName:   field(record, "OwnerLastName"),
			OwnerEmail:      field(record, "OwnerEmail"),
			OwnerPayout:     field(record, "OwnerPayout"),
		}
		bookings = append(bookings, normalizeRow(raw))
	}

	return bookings, nil
}

// normalizeRow builds a Booking from one raw row. It is a pure function and
// never fails: invalid numeric text silently becomes zero (guest count
// becomes 1), a documented lossy behavior that keeps the dashboard
// available over hard failure.
func normalizeRow(raw models.RawBookingRow) models.Booking {
	countryName := raw.CountryName
	if countryName == "" {
		countryName = "N/A"
	}

	guestNotes := []string{}
	if raw.Notes != "" {
		// Imports carry at most one note, but downstream layers append more.
		guestNotes = append(guestNotes, raw.Notes)
	}

	nights, _ := strconv.Atoi(strings.TrimSpace(raw.Nights))

	return models.Booking{
		ID:            raw.Id,
		Type:          raw.Type,
		Source:        raw.Source,
		SourceText:    raw.SourceText,
		Name:          raw.Name,
		DateArrival:   raw.DateArrival,
		DateDeparture: raw.DateDeparture,
		Nights:        nights,
		HouseName:     raw.HouseName,
		HouseID:       raw.HouseId,
		RoomTypes:     raw.RoomTypes,
		People:        parseCount(raw.People, 1),
		DateCreated:   raw.DateCreated,
		TotalAmount:   parseAmount(raw.TotalAmount),
		Currency:      raw.Currency,
		Status:        raw.Status,
		Email:         raw.Email,
		Phone:         raw.Phone,
		CountryName:   countryName,

		RoomRatesTotal:  parseAmount(raw.RoomRatesTotal),
		PromotionsTotal: parseAmount(raw.PromotionsTotal),
		FeesTotal:       parseAmount(raw.FeesTotal),
		TaxesTotal:      parseAmount(raw.TaxesTotal),
		AddOnsTotal:     parseAmount(raw.AddOnsTotal),
		AmountPaid:      parseAmount(raw.AmountPaid),
		BalanceDue:      parseAmount(raw.BalanceDue),

		OwnerFirstName: raw.OwnerFirstName,
		OwnerLastName:  raw.OwnerLastName,
		OwnerEmail:     raw.OwnerEmail,
		OwnerPayout:    parseAmount(raw.OwnerPayout),

		GuestNotes: guestNotes,
		HasReview:  false,
		Expenses:   []models.BookingExpense{},
	}
}
