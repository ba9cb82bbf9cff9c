// backend/src/models/booking.go
package models

import "encoding/json"

// Expense categories form a closed set. Every ledger entry produced by the
// expense processor carries exactly one of these.
const (
	CategoryCleaning              = "Cleaning"
	CategoryManagementTransaction = "Management-Transaction"
	CategoryManagementCommission  = "Management-Commission"
	CategoryManagementVAT         = "Management-VAT"
	CategoryManagementWine        = "Management-Wine"
	CategoryManagementCoffee      = "Management-Coffee"
	CategoryManagementWater       = "Management-Water"
	CategoryManagementTea         = "Management-Tea"
	CategoryManagementSlippers    = "Management-Slippers"
	CategoryOther                 = "Other"
)

// AllExpenseCategories lists the closed category set in a stable order.
// Aggregation output pre-seeds every category with zero so chart consumers
// always find a value, even for categories with no entries.
var AllExpenseCategories = []string{
	CategoryCleaning,
	CategoryManagementTransaction,
	CategoryManagementCommission,
	CategoryManagementVAT,
	CategoryManagementWine,
	CategoryManagementCoffee,
	CategoryManagementWater,
	CategoryManagementTea,
	CategoryManagementSlippers,
	CategoryOther,
}

// RawBookingRow holds the direct string values from a single row of a
// Lodgify booking export. Fields are mapped by header name, so column
// order in the file does not matter.
type RawBookingRow struct {
	Id, Type, Source, SourceText, Name                            string
	DateArrival, DateDeparture, Nights, HouseName, HouseId        string
	RoomTypes, People, DateCreated, TotalAmount, Currency, Status string
	Email, Phone, CountryName, Notes                              string
	RoomRatesTotal, PromotionsTotal, FeesTotal, TaxesTotal        string
	AddOnsTotal, AmountPaid, BalanceDue                           string
	OwnerFirstName, OwnerLastName, OwnerEmail, OwnerPayout        string
}

// BookingExpense is a single entry in a booking's expense ledger.
// The ID is derived deterministically from the booking id and the entry
// kind, so re-deriving the ledger from the same source yields identical IDs.
type BookingExpense struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// PreviousStay records the stay immediately preceding a booking (in
// arrival-date order) for the same guest name, when the two stays are
// separated by a positive gap in days. It exists for guest-history display
// only and never feeds financial rules.
type PreviousStay struct {
	HouseName     string `json:"houseName"`
	DateDeparture string `json:"dateDeparture"`
	DaysGap       int    `json:"daysGap"`
}

// BookingRating carries per-channel review scores patched in by the UI
// layer. The import pipeline never populates it.
type BookingRating struct {
	Booking *float64 `json:"booking,omitempty"`
	Airbnb  *float64 `json:"airbnb,omitempty"`
}

// GuestDetails holds the optional enrichment joined from the secondary
// guest-details spreadsheet. AccompanyingGuests is kept as raw JSON since
// the upstream sheet encodes it as a free-form JSON array.
type GuestDetails struct {
	Birthplace         string          `json:"birthplace,omitempty"`
	Nationality        string          `json:"nationality,omitempty"`
	Passport           string          `json:"passport,omitempty"`
	Address            string          `json:"address,omitempty"`
	AccompanyingGuests json.RawMessage `json:"accompanyingGuests,omitempty"`
}

// Booking is the normalized representation of one export row, enriched with
// continuity flags and its derived expense ledger. Bookings are value
// objects: once built by the import pipeline their core fields are never
// mutated.
//
// All dates are calendar-date strings in ISO form (YYYY-MM-DD), preserved
// from the source without timezone conversion. Nights is informational as
// exported and is not re-derived from the date range.
type Booking struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"`
	Source        string  `json:"source"`
	SourceText    string  `json:"sourceText"`
	Name          string  `json:"name"`
	DateArrival   string  `json:"dateArrival"`
	DateDeparture string  `json:"dateDeparture"`
	Nights        int     `json:"nights"`
	HouseName     string  `json:"houseName"`
	HouseID       string  `json:"houseId"`
	RoomTypes     string  `json:"roomTypes"`
	People        int     `json:"people"`
	DateCreated   string  `json:"dateCreated"`
	TotalAmount   float64 `json:"totalAmount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	CountryName   string  `json:"countryName"`

	RoomRatesTotal  float64 `json:"roomRatesTotal"`
	PromotionsTotal float64 `json:"promotionsTotal"`
	FeesTotal       float64 `json:"feesTotal"`
	TaxesTotal      float64 `json:"taxesTotal"`
	AddOnsTotal     float64 `json:"addOnsTotal"`
	AmountPaid      float64 `json:"amountPaid"`
	BalanceDue      float64 `json:"balanceDue"`

	OwnerFirstName string  `json:"ownerFirstName"`
	OwnerLastName  string  `json:"ownerLastName"`
	OwnerEmail     string  `json:"ownerEmail"`
	OwnerPayout    float64 `json:"ownerPayout"`

	GuestNotes []string       `json:"guestNotes"`
	HasReview  bool           `json:"hasReview"`
	Rating     *BookingRating `json:"rating,omitempty"`

	Expenses []BookingExpense `json:"expenses"`

	IsFirstBookingOfStay bool          `json:"isFirstBookingOfStay"`
	IsConsecutiveStay    bool          `json:"isConsecutiveStay"`
	PreviousStay         *PreviousStay `json:"previousStay,omitempty"`

	GuestDetails *GuestDetails `json:"guestDetails,omitempty"`
}

// GuestDetailRow is one row of the optional guest-details spreadsheet,
// joined to bookings by guest name + arrival date.
type GuestDetailRow struct {
	Name               string
	DateArrival        string
	Birthplace         string
	Nationality        string
	Passport           string
	Address            string
	AccompanyingGuests json.RawMessage
}

// Key returns the composite join key used to match a detail row to a booking.
func (r GuestDetailRow) Key() string {
	return r.Name + "-" + r.DateArrival
}
