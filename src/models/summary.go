// backend/src/models/summary.go
package models

// FinancialSummary is the flat financial rollup over a booking set.
// EarnedToDate counts only bookings whose departure date is strictly before
// the caller-supplied reference date.
type FinancialSummary struct {
	TotalEarnings      float64            `json:"totalEarnings"`
	EarnedToDate       float64            `json:"earnedToDate"`
	Expenses           float64            `json:"expenses"`
	NetProfit          float64            `json:"netProfit"`
	ExpensesByCategory map[string]float64 `json:"expensesByCategory"`
	BookingsByGuest    map[string]float64 `json:"bookingsByGuest"`
}

// MonthlyStat is one bucket of the fixed 12-month calendar skeleton.
// Month is keyed YYYY-MM; every month of the reference year is present even
// when no bookings fall in it, so chart axes stay stable.
type MonthlyStat struct {
	Month        string  `json:"month"`
	Income       float64 `json:"income"`
	Expenses     float64 `json:"expenses"`
	Profit       float64 `json:"profit"`
	OccupiedDays int     `json:"occupiedDays"`
	EmptyDays    int     `json:"emptyDays"`
	TotalDays    int     `json:"totalDays"`
	BookingCount int     `json:"bookingCount"`
}

// MonthlyRevenuePoint / MonthlyExpensePoint / MonthlyOccupancyPoint are the
// per-month series consumed by the chart layer. Month is keyed YYYY-MM.
type MonthlyRevenuePoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type MonthlyExpensePoint struct {
	Month    string  `json:"month"`
	Expenses float64 `json:"expenses"`
}

type MonthlyOccupancyPoint struct {
	Month     string  `json:"month"`
	Occupancy float64 `json:"occupancy"`
}

// PropertyChartData is the full reporting series for one property.
// Expense points bucket by each expense's own date, not the booking's
// arrival month; occupancy is percent of distinct covered days per month.
type PropertyChartData struct {
	MonthlyRevenue     []MonthlyRevenuePoint   `json:"monthlyRevenue"`
	MonthlyExpenses    []MonthlyExpensePoint   `json:"monthlyExpenses"`
	MonthlyOccupancy   []MonthlyOccupancyPoint `json:"monthlyOccupancy"`
	TotalRevenue       float64                 `json:"totalRevenue"`
	TotalExpenses      float64                 `json:"totalExpenses"`
	ExpensesByCategory map[string]float64      `json:"expensesByCategory"`
	PastBookings       []Booking               `json:"pastBookings"`
	FutureBookings     []Booking               `json:"futureBookings"`
}

// OverallKey is the pseudo-property aggregating every real property.
const OverallKey = "overall"

// ChartData maps property name -> chart series, plus the OverallKey entry.
type ChartData map[string]*PropertyChartData
