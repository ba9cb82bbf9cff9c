// backend/src/handlers/booking_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/username/rentfolio/backend/src/logger"
	"github.com/username/rentfolio/backend/src/services"
	"github.com/username/rentfolio/backend/src/utils"
)

type BookingHandler struct {
	importService services.ImportService
}

func NewBookingHandler(service services.ImportService) *BookingHandler {
	return &BookingHandler{importService: service}
}

// HandleGetBookings returns the flat booking list of the latest import,
// each booking carrying its embedded expense ledger.
func (h *BookingHandler) HandleGetBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.importService.GetBookings()
	if err != nil {
		replyBookingDataError(w, r, err, "Error retrieving bookings")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}

// HandleGetBookingsByProperty returns the latest batch grouped by property
// name.
func (h *BookingHandler) HandleGetBookingsByProperty(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.importService.GetBookingsByProperty()
	if err != nil {
		replyBookingDataError(w, r, err, "Error retrieving bookings by property")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(grouped)
}

// replyBookingDataError maps the common "nothing imported yet" case to 404
// and everything else to a 500.
func replyBookingDataError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	if errors.Is(err, services.ErrNoImportData) {
		utils.SendJSONError(w, "no booking data available; upload an export first", http.StatusNotFound)
		return
	}
	logger.FromContext(r.Context()).Error(logMsg, "error", err)
	utils.SendJSONError(w, logMsg, http.StatusInternalServerError)
}
