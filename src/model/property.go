// backend/src/model/property.go
package model

import (
	"database/sql"

	"github.com/google/uuid"
)

// Property types mirror the management contract kinds in the store.
const (
	PropertyTypeGuest           = "L&D Guest"
	PropertyTypeGuestCommission = "L&D Guest Commission"
)

type Property struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	LodgifyID sql.NullString `json:"lodgify_id,omitempty"`
}

// GetPropertyByName looks a property up by its exact display name (the
// HouseName column of the booking export). Returns sql.ErrNoRows when the
// property is not registered.
func GetPropertyByName(db *sql.DB, name string) (*Property, error) {
	var p Property
	err := db.QueryRow(
		`SELECT id, name, type, lodgify_id FROM properties WHERE name = ?`, name,
	).Scan(&p.ID, &p.Name, &p.Type, &p.LodgifyID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPropertyNames returns every registered property name, sorted. The
// aggregator uses this so properties without bookings still get zeroed
// report entries.
func ListPropertyNames(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM properties ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CreateProperty registers a new property and returns it.
func CreateProperty(db *sql.DB, name, propertyType string) (*Property, error) {
	p := &Property{
		ID:   uuid.New().String(),
		Name: name,
		Type: propertyType,
	}
	_, err := db.Exec(
		`INSERT INTO properties (id, name, type) VALUES (?, ?, ?)`,
		p.ID, p.Name, p.Type,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
