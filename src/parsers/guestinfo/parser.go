// backend/src/parsers/guestinfo/parser.go
package guestinfo

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/username/rentfolio/backend/src/models"
)

// GuestInfoParser reads the optional guest-details spreadsheet (exported as
// CSV) that enriches bookings with identity data. Rows join to bookings by
// guest name + arrival date.
type GuestInfoParser struct{}

// NewParser creates a new instance of the GuestInfoParser.
func NewParser() *GuestInfoParser {
	return &GuestInfoParser{}
}

// Parse returns the detail rows plus a list of non-fatal warnings (e.g. a
// malformed AccompanyingGuests JSON blob, which degrades to null rather
// than failing the import).
func (p *GuestInfoParser) Parse(file io.Reader) ([]models.GuestDetailRow, []string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("guestinfo parser: failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		colIndex[name] = i
	}
	if _, ok := colIndex["Name"]; !ok {
		return nil, nil, fmt.Errorf("guestinfo parser: header is missing the Name column")
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("guestinfo parser: failed to read all CSV records: %w", err)
	}

	field := func(record []string, name string) string {
		idx, ok := colIndex[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var warnings []string
	rows := make([]models.GuestDetailRow, 0, len(records))
	for _, record := range records {
		row := models.GuestDetailRow{
			Name:        field(record, "Name"),
			DateArrival: field(record, "DateArrival"),
			Birthplace:  field(record, "Birthplace"),
			Nationality: field(record, "Nationality"),
			Passport:    field(record, "Passport"),
			Address:     field(record, "Address"),
		}
		if row.Name == "" {
			continue
		}

		if encoded := field(record, "AccompanyingGuests"); encoded != "" {
			if json.Valid([]byte(encoded)) {
				row.AccompanyingGuests = json.RawMessage(encoded)
			} else {
				warnings = append(warnings, fmt.Sprintf("invalid AccompanyingGuests JSON for guest %q (%s)", row.Name, row.DateArrival))
			}
		}

		rows = append(rows, row)
	}

	return rows, warnings, nil
}
