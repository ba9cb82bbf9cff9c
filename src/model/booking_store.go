// backend/src/model/booking_store.go
package model

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/username/rentfolio/backend/src/models"
)

// BookingExists reports whether a booking with the same persistence
// identity (property, guest name, arrival and departure dates) is already
// stored. Imports use this to skip rows instead of upserting.
func BookingExists(db *sql.DB, propertyID, guestName, arrival, departure string) (bool, error) {
	var id string
	err := db.QueryRow(
		`SELECT id FROM bookings
		 WHERE property_id = ? AND guest_name = ? AND arrival_date = ? AND departure_date = ?`,
		propertyID, guestName, arrival, departure,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertBooking stores one normalized booking under the given property and
// returns the generated row id.
func InsertBooking(db *sql.DB, propertyID string, b *models.Booking) (string, error) {
	id := uuid.New().String()

	status := strings.ToLower(b.Status)
	if status == "" {
		status = "confirmed"
	}
	source := b.Source
	if source == "" {
		source = "CSV Import"
	}

	var birthplace, nationality, passport, address interface{}
	var accompanying interface{}
	if d := b.GuestDetails; d != nil {
		birthplace = nullableString(d.Birthplace)
		nationality = nullableString(d.Nationality)
		passport = nullableString(d.Passport)
		address = nullableString(d.Address)
		if len(d.AccompanyingGuests) > 0 {
			accompanying = string(d.AccompanyingGuests)
		}
	}

	_, err := db.Exec(
		`INSERT INTO bookings
		 (id, property_id, guest_name, guest_email, guest_phone, guest_country,
		  guest_birthplace, guest_nationality, guest_passport, guest_address, accompanying_guests,
		  arrival_date, departure_date, nights, guests, total_amount, source, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, propertyID, b.Name, nullableString(b.Email), nullableString(b.Phone), b.CountryName,
		birthplace, nationality, passport, address, accompanying,
		b.DateArrival, b.DateDeparture, b.Nights, b.People, b.TotalAmount, source, status,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// InsertExpense stores one ledger entry against a persisted booking.
func InsertExpense(db *sql.DB, bookingID string, e *models.BookingExpense) error {
	_, err := db.Exec(
		`INSERT INTO expenses (id, booking_id, category, amount, description, date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), bookingID, e.Category, e.Amount, e.Description, e.Date,
	)
	return err
}

// FetchAllBookings rebuilds Booking records (with their stored ledgers)
// from the store, ordered by arrival date then guest name. Continuity flags
// are not stored and must be recomputed by the stay processor.
func FetchAllBookings(db *sql.DB) ([]models.Booking, error) {
	rows, err := db.Query(
		`SELECT b.id, p.name, b.guest_name, b.guest_email, b.guest_phone, b.guest_country,
		        b.guest_birthplace, b.guest_nationality, b.guest_passport, b.guest_address,
		        b.accompanying_guests, b.arrival_date, b.departure_date, b.nights, b.guests,
		        b.total_amount, b.source, b.status
		 FROM bookings b
		 JOIN properties p ON p.id = b.property_id
		 ORDER BY b.arrival_date, b.guest_name, b.departure_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	index := make(map[string]int)
	for rows.Next() {
		var b models.Booking
		var id string
		var email, phone, birthplace, nationality, passport, address, accompanying, source sql.NullString
		if err := rows.Scan(
			&id, &b.HouseName, &b.Name, &email, &phone, &b.CountryName,
			&birthplace, &nationality, &passport, &address,
			&accompanying, &b.DateArrival, &b.DateDeparture, &b.Nights, &b.People,
			&b.TotalAmount, &source, &b.Status,
		); err != nil {
			return nil, err
		}
		b.ID = id
		b.Email = email.String
		b.Phone = phone.String
		b.Source = source.String
		b.GuestNotes = []string{}
		b.Expenses = []models.BookingExpense{}
		if birthplace.Valid || nationality.Valid || passport.Valid || address.Valid || accompanying.Valid {
			details := &models.GuestDetails{
				Birthplace:  birthplace.String,
				Nationality: nationality.String,
				Passport:    passport.String,
				Address:     address.String,
			}
			if accompanying.Valid {
				details.AccompanyingGuests = json.RawMessage(accompanying.String)
			}
			b.GuestDetails = details
		}
		index[id] = len(bookings)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	expenseRows, err := db.Query(
		`SELECT booking_id, id, category, amount, description, date
		 FROM expenses ORDER BY booking_id, id`)
	if err != nil {
		return nil, err
	}
	defer expenseRows.Close()

	for expenseRows.Next() {
		var bookingID string
		var e models.BookingExpense
		var description sql.NullString
		if err := expenseRows.Scan(&bookingID, &e.ID, &e.Category, &e.Amount, &description, &e.Date); err != nil {
			return nil, err
		}
		e.Description = description.String
		if i, ok := index[bookingID]; ok {
			bookings[i].Expenses = append(bookings[i].Expenses, e)
		}
	}
	return bookings, expenseRows.Err()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
