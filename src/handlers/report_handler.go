// backend/src/handlers/report_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/username/rentfolio/backend/src/logger"
	"github.com/username/rentfolio/backend/src/services"
	"github.com/username/rentfolio/backend/src/utils"
)

type ReportHandler struct {
	importService services.ImportService
}

func NewReportHandler(service services.ImportService) *ReportHandler {
	return &ReportHandler{importService: service}
}

// referenceDate resolves the pinned "today" for a report request. Clients
// (and tests) pass ?date=YYYY-MM-DD; absent that, the server clock is read
// once here at the handler boundary so the core stays deterministic.
func referenceDate(r *http.Request) (time.Time, error) {
	if raw := r.URL.Query().Get("date"); raw != "" {
		return time.Parse("2006-01-02", raw)
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}

// referenceYear resolves the 12-month skeleton year, defaulting to the
// reference date's year.
func referenceYear(r *http.Request, today time.Time) (int, error) {
	if raw := r.URL.Query().Get("year"); raw != "" {
		return strconv.Atoi(raw)
	}
	return today.Year(), nil
}

// HandleGetFinancialSummary serves the flat financial rollup.
func (h *ReportHandler) HandleGetFinancialSummary(w http.ResponseWriter, r *http.Request) {
	today, err := referenceDate(r)
	if err != nil {
		utils.SendJSONError(w, "invalid date parameter, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	summary, err := h.importService.GetFinancialSummary(today)
	if err != nil {
		replyBookingDataError(w, r, err, "Error retrieving financial summary")
		return
	}

	logger.FromContext(r.Context()).Debug("Served financial summary", "date", today.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// HandleGetMonthlyStats serves the 12-month calendar skeleton with income,
// expenses and occupancy per month.
func (h *ReportHandler) HandleGetMonthlyStats(w http.ResponseWriter, r *http.Request) {
	today, err := referenceDate(r)
	if err != nil {
		utils.SendJSONError(w, "invalid date parameter, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	year, err := referenceYear(r, today)
	if err != nil {
		utils.SendJSONError(w, "invalid year parameter", http.StatusBadRequest)
		return
	}

	stats, err := h.importService.GetMonthlyStats(year)
	if err != nil {
		replyBookingDataError(w, r, err, "Error retrieving monthly stats")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// HandleGetChartData serves the per-property chart series plus the
// "overall" pseudo-property.
func (h *ReportHandler) HandleGetChartData(w http.ResponseWriter, r *http.Request) {
	today, err := referenceDate(r)
	if err != nil {
		utils.SendJSONError(w, "invalid date parameter, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	year, err := referenceYear(r, today)
	if err != nil {
		utils.SendJSONError(w, "invalid year parameter", http.StatusBadRequest)
		return
	}

	chart, err := h.importService.GetChartData(year, today)
	if err != nil {
		replyBookingDataError(w, r, err, "Error retrieving chart data")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chart)
}
