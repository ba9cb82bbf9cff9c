// backend/src/parsers/parsers.go
package parsers

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/rentfolio/backend/src/models"
	"github.com/username/rentfolio/backend/src/parsers/lodgify"
)

// Parser converts a booking export file into normalized Booking records.
// Parsers populate scalar fields only; continuity flags and expense ledgers
// are derived later by the processors.
type Parser interface {
	Parse(file io.Reader) ([]models.Booking, error)
}

// GetParser returns the parser registered for the given export source.
func GetParser(source string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "lodgify":
		return lodgify.NewParser(), nil
	default:
		return nil, fmt.Errorf("unsupported booking source: %q", source)
	}
}
