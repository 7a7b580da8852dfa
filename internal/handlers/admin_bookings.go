package handlers

import (
	"log/slog"
	"net/http"

	"github.com/astra29104/Travelbolt/internal/booking"
	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/gorilla/mux"
)

// AdminBookingView adds the allowed next states for the status form.
type AdminBookingView struct {
	BookingView
	Next []models.BookingStatus
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	tab := r.URL.Query().Get("tab")
	if !validTab(tab) {
		tab = "all"
	}
	bookings, err := h.Catalog.Bookings.ListForUser(r.Context(), "")
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	views, err := bookingViews(r.Context(), h.Catalog, catalog.FilterByTab(bookings, tab))
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	rows := make([]AdminBookingView, len(views))
	for i, v := range views {
		rows[i] = AdminBookingView{BookingView: v, Next: booking.NextStatuses(v.Status)}
	}
	h.render(w, r, http.StatusOK, "admin_bookings.html", map[string]interface{}{
		"Bookings": rows,
		"Tabs":     booking.Tabs,
		"Tab":      tab,
	})
}

func (h *AdminHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status := models.BookingStatus(r.FormValue("status"))
	if _, err := h.Booking.SetStatus(r.Context(), id, status); err != nil {
		h.redirectBack(w, r, err, "Error updating the booking status.", "/admin/bookings")
		return
	}
	slog.Info("Booking status updated", "booking_id", id, "status", status)
	h.flash(w, r, "success", "Booking updated!")
	http.Redirect(w, r, "/admin/bookings", http.StatusSeeOther)
}
