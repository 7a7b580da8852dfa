package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/astra29104/Travelbolt/internal/auth"
	"github.com/astra29104/Travelbolt/internal/booking"
	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/gorilla/mux"
)

const pendingBookingKey = "pending_booking"

// PendingBooking is the package, guide and date picked on the package page,
// kept in the session until the customer confirms.
type PendingBooking struct {
	PackageID string
	GuideID   string
	Start     string
}

// BookingView is a booking with the records it refers to.
type BookingView struct {
	models.Booking
	Package     models.Package
	Guide       models.Guide
	Customer    models.User
	Cancellable bool
}

type BookingHandler struct {
	Base
	Catalog *catalog.Catalog
	Booking *booking.Service
}

// Prepare stores the selection and shows the confirmation page.
func (h *BookingHandler) Prepare(w http.ResponseWriter, r *http.Request) {
	pending := PendingBooking{
		PackageID: r.FormValue("package_id"),
		GuideID:   r.FormValue("guide_id"),
		Start:     r.FormValue("start"),
	}
	if pending.PackageID == "" {
		h.flash(w, r, "error", "Please select a package.")
		http.Redirect(w, r, "/destinations", http.StatusSeeOther)
		return
	}
	back := packageURL(pending)
	if pending.GuideID == "" || pending.Start == "" {
		h.flash(w, r, "error", "Please select a guide and a travel date.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	session, _ := h.SessionStore.Get(r, auth.SessionName)
	session.Values[pendingBookingKey] = pending
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/booking-confirmation", http.StatusSeeOther)
}

func (h *BookingHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	pending, ok := h.pending(r)
	if !ok {
		h.flash(w, r, "error", "There is no booking to confirm. Please choose a package first.")
		http.Redirect(w, r, "/destinations", http.StatusSeeOther)
		return
	}
	start, err := models.ParseDate(pending.Start)
	if err != nil {
		h.redirectBack(w, r, err, "Please choose a valid travel date.", packageURL(pending))
		return
	}
	offer, err := h.Booking.Offer(r.Context(), pending.PackageID, pending.GuideID, start)
	if err != nil {
		h.redirectBack(w, r, err, "Could not load the booking details.", packageURL(pending))
		return
	}
	dest, err := h.Catalog.Destinations.Get(r.Context(), offer.Package.DestinationID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "booking_confirmation.html", map[string]interface{}{
		"Offer":       offer,
		"Destination": dest,
		"BackURL":     packageURL(pending),
	})
}

// Confirm creates the booking from the pending selection.
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	pending, ok := h.pending(r)
	if !ok {
		h.flash(w, r, "error", "There is no booking to confirm. Please choose a package first.")
		http.Redirect(w, r, "/destinations", http.StatusSeeOther)
		return
	}
	start, err := models.ParseDate(pending.Start)
	if err != nil {
		h.redirectBack(w, r, err, "Please choose a valid travel date.", packageURL(pending))
		return
	}

	created, err := h.Booking.Book(r.Context(), booking.Request{
		UserID:    sess.UserID,
		PackageID: pending.PackageID,
		GuideID:   pending.GuideID,
		Start:     start,
	})
	if errors.Is(err, booking.ErrGuideUnavailable) {
		h.flash(w, r, "error", "The selected guide is not available for these dates. Please choose another date or guide.")
		http.Redirect(w, r, packageURL(pending), http.StatusSeeOther)
		return
	}
	if err != nil {
		h.redirectBack(w, r, err, "Could not create your booking. Please try again.", "/booking-confirmation")
		return
	}

	session, _ := h.SessionStore.Get(r, auth.SessionName)
	delete(session.Values, pendingBookingKey)
	session.AddFlash(FlashMessage{Type: "success", Message: "Your trip is booked! Total " + formatMoney(created.TotalCost) + "."})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	http.Redirect(w, r, "/bookings", http.StatusSeeOther)
}

// List shows the customer's bookings, filtered by the tab query parameter.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	tab := r.URL.Query().Get("tab")
	if !validTab(tab) {
		tab = "all"
	}
	bookings, err := h.Catalog.Bookings.ListForUser(r.Context(), sess.UserID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	views, err := bookingViews(r.Context(), h.Catalog, catalog.FilterByTab(bookings, tab))
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "bookings.html", map[string]interface{}{
		"Bookings": views,
		"Tabs":     booking.Tabs,
		"Tab":      tab,
	})
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	id := mux.Vars(r)["id"]
	_, err := h.Booking.Cancel(r.Context(), sess.UserID, id)
	switch {
	case errors.Is(err, booking.ErrNotOwner):
		slog.Warn("Cancel attempted on another user's booking", "user_id", sess.UserID, "booking_id", id)
		h.notFound(w, r)
		return
	case err != nil:
		h.redirectBack(w, r, err, "Could not cancel the booking.", "/bookings")
		return
	}
	h.flash(w, r, "success", "Booking cancelled.")
	http.Redirect(w, r, "/bookings?tab=cancelled", http.StatusSeeOther)
}

func (h *BookingHandler) pending(r *http.Request) (PendingBooking, bool) {
	session, _ := h.SessionStore.Get(r, auth.SessionName)
	pending, ok := session.Values[pendingBookingKey].(PendingBooking)
	return pending, ok && pending.PackageID != ""
}

func packageURL(p PendingBooking) string {
	q := url.Values{}
	if p.GuideID != "" {
		q.Set("guide_id", p.GuideID)
	}
	if p.Start != "" {
		q.Set("start", p.Start)
	}
	u := "/packages/" + url.PathEscape(p.PackageID)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func validTab(tab string) bool {
	for _, t := range booking.Tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// bookingViews joins bookings with their package, guide and customer.
func bookingViews(ctx context.Context, c *catalog.Catalog, bookings []models.Booking) ([]BookingView, error) {
	if len(bookings) == 0 {
		return nil, nil
	}
	packages, err := c.Packages.List(ctx)
	if err != nil {
		return nil, err
	}
	guides, err := c.Guides.List(ctx)
	if err != nil {
		return nil, err
	}
	users, err := c.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	pkgByID := make(map[string]models.Package, len(packages))
	for _, p := range packages {
		pkgByID[p.ID] = p
	}
	guideByID := make(map[string]models.Guide, len(guides))
	for _, g := range guides {
		guideByID[g.ID] = g
	}
	userByID := make(map[string]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	views := make([]BookingView, len(bookings))
	for i, b := range bookings {
		views[i] = BookingView{
			Booking:     b,
			Package:     pkgByID[b.PackageID],
			Guide:       guideByID[b.GuideID],
			Customer:    userByID[b.UserID],
			Cancellable: booking.Cancellable(b),
		}
	}
	return views, nil
}
