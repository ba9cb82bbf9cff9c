// backend/src/processors/summary_processor.go
package processors

import (
	"fmt"
	"sort"
	"time"

	"github.com/username/rentfolio/backend/src/models"
	"github.com/username/rentfolio/backend/src/utils"
)

// summaryProcessorImpl implements the SummaryProcessor interface.
type summaryProcessorImpl struct{}

// NewSummaryProcessor creates a new instance of SummaryProcessor.
func NewSummaryProcessor() SummaryProcessor {
	return &summaryProcessorImpl{}
}

// truncateToDay drops the time-of-day component of the reference date so
// past/future bucketing works on calendar days.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// monthKeys returns the fixed 12-month skeleton for a year, keyed YYYY-MM.
// Every month is always present so chart axes stay stable across datasets.
func monthKeys(year int) []string {
	keys := make([]string, 12)
	for m := 0; m < 12; m++ {
		keys[m] = fmt.Sprintf("%04d-%02d", year, m+1)
	}
	return keys
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func seededCategoryTotals() map[string]float64 {
	totals := make(map[string]float64, len(models.AllExpenseCategories))
	for _, c := range models.AllExpenseCategories {
		totals[c] = 0
	}
	return totals
}

// GroupByProperty buckets the booking set by property name, preserving
// input order within each group.
func (p *summaryProcessorImpl) GroupByProperty(bookings []models.Booking) map[string][]models.Booking {
	grouped := make(map[string][]models.Booking)
	for _, b := range bookings {
		grouped[b.HouseName] = append(grouped[b.HouseName], b)
	}
	return grouped
}

// FinancialSummary rolls the booking set up into the flat dashboard totals.
// EarnedToDate covers bookings departed strictly before the reference date.
func (p *summaryProcessorImpl) FinancialSummary(bookings []models.Booking, today time.Time) *models.FinancialSummary {
	today = truncateToDay(today)

	summary := &models.FinancialSummary{
		ExpensesByCategory: seededCategoryTotals(),
		BookingsByGuest:    make(map[string]float64),
	}

	for _, b := range bookings {
		summary.BookingsByGuest[b.Name] += b.TotalAmount
		summary.TotalEarnings += b.TotalAmount

		if dep, ok := parseDay(b.DateDeparture); ok && dep.Before(today) {
			summary.EarnedToDate += b.TotalAmount
		}

		for _, e := range b.Expenses {
			summary.Expenses += e.Amount
			summary.ExpensesByCategory[e.Category] += e.Amount
		}
	}

	summary.NetProfit = summary.EarnedToDate - summary.Expenses
	return summary
}

// monthlyAccum is the working state for one month bucket.
type monthlyAccum struct {
	revenue      float64
	expenses     float64
	bookingCount int
	occupiedDays map[string]struct{}
}

// MonthlyStats buckets income, expenses and occupancy into the 12-month
// skeleton of the given year. Income and expenses bucket by the booking's
// arrival month; occupied days are deduplicated per month so overlapping
// bookings never double-count.
func (p *summaryProcessorImpl) MonthlyStats(bookings []models.Booking, year int) []models.MonthlyStat {
	keys := monthKeys(year)
	accum := make(map[string]*monthlyAccum, len(keys))
	for _, key := range keys {
		accum[key] = &monthlyAccum{occupiedDays: make(map[string]struct{})}
	}

	for _, b := range bookings {
		arr, okArr := parseDay(b.DateArrival)
		dep, okDep := parseDay(b.DateDeparture)

		if okArr && okDep {
			markOccupiedDays(accum, arr, dep)
		}

		if !okArr {
			continue
		}
		monthKey := arr.Format("2006-01")
		bucket, inYear := accum[monthKey]
		if !inYear {
			continue
		}
		bucket.revenue += b.TotalAmount
		bucket.bookingCount++
		for _, e := range b.Expenses {
			bucket.expenses += e.Amount
		}
	}

	stats := make([]models.MonthlyStat, 0, len(keys))
	for m, key := range keys {
		bucket := accum[key]
		totalDays := daysInMonth(year, time.Month(m+1))
		stats = append(stats, models.MonthlyStat{
			Month:        key,
			Income:       bucket.revenue,
			Expenses:     bucket.expenses,
			Profit:       bucket.revenue - bucket.expenses,
			OccupiedDays: len(bucket.occupiedDays),
			EmptyDays:    totalDays - len(bucket.occupiedDays),
			TotalDays:    totalDays,
			BookingCount: bucket.bookingCount,
		})
	}
	return stats
}

// markOccupiedDays walks the arrival..departure range (inclusive on both
// ends) and records each covered day in its month's bucket. Days outside
// the skeleton year are ignored.
func markOccupiedDays(accum map[string]*monthlyAccum, arrival, departure time.Time) {
	if departure.Before(arrival) {
		return
	}
	for day := arrival; !day.After(departure); day = day.AddDate(0, 0, 1) {
		if bucket, ok := accum[day.Format("2006-01")]; ok {
			bucket.occupiedDays[day.Format("2006-01-02")] = struct{}{}
		}
	}
}

// ChartData builds the per-property reporting series plus the "overall"
// pseudo-property. Revenue buckets by arrival month; each expense buckets
// by its OWN date month (an expense recorded outside the booking's arrival
// month lands in its own month). Occupancy is the share of distinct covered
// days per month. Properties with zero bookings still yield all-zero
// entries.
func (p *summaryProcessorImpl) ChartData(byProperty map[string][]models.Booking, year int, today time.Time) models.ChartData {
	today = truncateToDay(today)
	keys := monthKeys(year)
	chart := make(models.ChartData, len(byProperty)+1)

	for property, bookings := range byProperty {
		accum := make(map[string]*monthlyAccum, len(keys))
		for _, key := range keys {
			accum[key] = &monthlyAccum{occupiedDays: make(map[string]struct{})}
		}

		data := &models.PropertyChartData{
			ExpensesByCategory: seededCategoryTotals(),
			PastBookings:       []models.Booking{},
			FutureBookings:     []models.Booking{},
		}

		for _, b := range bookings {
			arr, okArr := parseDay(b.DateArrival)
			dep, okDep := parseDay(b.DateDeparture)

			if okDep && dep.Before(today) {
				data.PastBookings = append(data.PastBookings, b)
			} else {
				data.FutureBookings = append(data.FutureBookings, b)
			}

			if okArr && okDep {
				markOccupiedDays(accum, arr, dep)
			}

			// Totals only count bookings whose arrival falls inside the
			// skeleton year; the ledger entries then spread over their own
			// months.
			if !okArr {
				continue
			}
			arrivalBucket, inYear := accum[arr.Format("2006-01")]
			if !inYear {
				continue
			}
			arrivalBucket.revenue += b.TotalAmount
			data.TotalRevenue += b.TotalAmount

			for _, e := range b.Expenses {
				if edate, ok := parseDay(e.Date); ok {
					if bucket, inSkeleton := accum[edate.Format("2006-01")]; inSkeleton {
						bucket.expenses += e.Amount
					}
				}
				data.TotalExpenses += e.Amount
				data.ExpensesByCategory[e.Category] += e.Amount
			}
		}

		for m, key := range keys {
			bucket := accum[key]
			occupancy := float64(len(bucket.occupiedDays)) / float64(daysInMonth(year, time.Month(m+1))) * 100
			data.MonthlyRevenue = append(data.MonthlyRevenue, models.MonthlyRevenuePoint{Month: key, Revenue: bucket.revenue})
			data.MonthlyExpenses = append(data.MonthlyExpenses, models.MonthlyExpensePoint{Month: key, Expenses: bucket.expenses})
			data.MonthlyOccupancy = append(data.MonthlyOccupancy, models.MonthlyOccupancyPoint{Month: key, Occupancy: utils.RoundFloat(occupancy, 2)})
		}

		chart[property] = data
	}

	chart[models.OverallKey] = p.overallChartData(chart, keys)
	return chart
}

// overallChartData sums every property's series point-wise; occupancy is
// averaged across properties rather than summed. Properties are visited in
// sorted name order so repeated runs produce identical output.
func (p *summaryProcessorImpl) overallChartData(chart models.ChartData, keys []string) *models.PropertyChartData {
	overall := &models.PropertyChartData{
		ExpensesByCategory: seededCategoryTotals(),
		PastBookings:       []models.Booking{},
		FutureBookings:     []models.Booking{},
	}

	names := make([]string, 0, len(chart))
	for name := range chart {
		names = append(names, name)
	}
	sort.Strings(names)

	for m, key := range keys {
		var revenue, expenses, occupancy float64
		for _, name := range names {
			data := chart[name]
			revenue += data.MonthlyRevenue[m].Revenue
			expenses += data.MonthlyExpenses[m].Expenses
			occupancy += data.MonthlyOccupancy[m].Occupancy
		}
		if len(names) > 0 {
			occupancy /= float64(len(names))
		}
		overall.MonthlyRevenue = append(overall.MonthlyRevenue, models.MonthlyRevenuePoint{Month: key, Revenue: revenue})
		overall.MonthlyExpenses = append(overall.MonthlyExpenses, models.MonthlyExpensePoint{Month: key, Expenses: expenses})
		overall.MonthlyOccupancy = append(overall.MonthlyOccupancy, models.MonthlyOccupancyPoint{Month: key, Occupancy: utils.RoundFloat(occupancy, 2)})
	}

	for _, name := range names {
		data := chart[name]
		overall.TotalRevenue += data.TotalRevenue
		overall.TotalExpenses += data.TotalExpenses
		for category, amount := range data.ExpensesByCategory {
			overall.ExpensesByCategory[category] += amount
		}
		overall.PastBookings = append(overall.PastBookings, data.PastBookings...)
		overall.FutureBookings = append(overall.FutureBookings, data.FutureBookings...)
	}

	return overall
}
