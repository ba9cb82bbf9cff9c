// backend/src/processors/stay_processor.go
package processors

import (
	"sort"
	"time"

	"github.com/username/rentfolio/backend/src/models"
)

// stayProcessorImpl implements the StayProcessor interface.
type stayProcessorImpl struct{}

// NewStayProcessor creates a new instance of StayProcessor.
func NewStayProcessor() StayProcessor {
	return &stayProcessorImpl{}
}

// parseDay parses a calendar-date string (the first 10 characters of an ISO
// date). The second return value reports whether the date was usable.
func parseDay(s string) (time.Time, bool) {
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// sameCalendarDay reports whether two date strings name the same calendar
// day. Continuity comparison is calendar-date equality, never timestamp
// proximity. Unparseable dates are never equal to anything.
func sameCalendarDay(a, b string) bool {
	da, okA := parseDay(a)
	db, okB := parseDay(b)
	return okA && okB && da.Equal(db)
}

// daysBetween returns the whole-day difference to - from.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// Process groups the batch by guest name, sorts each group by arrival date
// (stable, ties keep input order) and fills in the continuity flags.
//
// IsConsecutiveStay is an existence check over the whole group: any other
// booking of the same guest whose departure equals this arrival makes the
// booking a continuation. PreviousStay instead uses strict sort-order
// adjacency with a positive gap. The two notions are deliberately kept as
// separate computations; they are not symmetric for guests with
// interleaved stays at different properties.
func (p *stayProcessorImpl) Process(bookings []models.Booking) []models.Booking {
	groups := make(map[string][]int)
	for i := range bookings {
		groups[bookings[i].Name] = append(groups[bookings[i].Name], i)
	}

	for _, idxs := range groups {
		sort.SliceStable(idxs, func(a, b int) bool {
			da, _ := parseDay(bookings[idxs[a]].DateArrival)
			db, _ := parseDay(bookings[idxs[b]].DateArrival)
			return da.Before(db)
		})

		for pos, i := range idxs {
			cur := &bookings[i]

			continuesOther := false
			for _, j := range idxs {
				if j == i {
					continue
				}
				if sameCalendarDay(bookings[j].DateDeparture, cur.DateArrival) {
					continuesOther = true
					break
				}
			}
			cur.IsConsecutiveStay = continuesOther

			// Evaluated as its own predicate rather than reusing the flag
			// above; the reference behavior computes both independently.
			startsFresh := true
			for _, j := range idxs {
				if j == i {
					continue
				}
				if sameCalendarDay(bookings[j].DateDeparture, cur.DateArrival) {
					startsFresh = false
					break
				}
			}
			cur.IsFirstBookingOfStay = startsFresh

			cur.PreviousStay = nil
			if pos > 0 && !cur.IsConsecutiveStay {
				prev := bookings[idxs[pos-1]]
				prevDep, okDep := parseDay(prev.DateDeparture)
				arr, okArr := parseDay(cur.DateArrival)
				if okDep && okArr {
					if gap := daysBetween(prevDep, arr); gap > 0 {
						cur.PreviousStay = &models.PreviousStay{
							HouseName:     prev.HouseName,
							DateDeparture: prev.DateDeparture,
							DaysGap:       gap,
						}
					}
				}
			}
		}
	}

	return bookings
}
