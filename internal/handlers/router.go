package handlers

import (
	"net/http"

	"github.com/astra29104/Travelbolt/internal/auth"
	"github.com/astra29104/Travelbolt/internal/booking"
	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

// App is everything the storefront routes depend on.
type App struct {
	Catalog      *catalog.Catalog
	Booking      *booking.Service
	Accounts     *auth.Accounts
	SessionStore sessions.Store
	Templates    *TemplateCache

	// LoginLimiter throttles login and signup posts; nil disables it.
	LoginLimiter *RateLimiter

	// BookingLimiter throttles booking confirmation posts; nil disables it.
	BookingLimiter *RateLimiter
}

// NewRouter wires every storefront and admin route. The returned handler
// loads the signed-in user; CSRF and logging are added by the caller.
func NewRouter(app App) http.Handler {
	base := Base{SessionStore: app.SessionStore, Templates: app.Templates}
	sess := &auth.Sessions{Store: app.SessionStore, Users: app.Catalog.Users}

	storefront := &StorefrontHandler{Base: base, Catalog: app.Catalog, Booking: app.Booking}
	account := &AccountHandler{Base: base, Accounts: app.Accounts, Sessions: sess, Catalog: app.Catalog}
	bookings := &BookingHandler{Base: base, Catalog: app.Catalog, Booking: app.Booking}
	admin := &AdminHandler{Base: base, Catalog: app.Catalog, Booking: app.Booking}

	limit := throttle(app.LoginLimiter)
	limitBooking := throttle(app.BookingLimiter)
	user := base.RequireUser
	adm := base.RequireAdmin

	r := mux.NewRouter()

	// Public Routes
	r.HandleFunc("/", storefront.Home).Methods(http.MethodGet)
	r.HandleFunc("/destinations", storefront.Destinations).Methods(http.MethodGet)
	r.HandleFunc("/destinations/{id}", storefront.Destination).Methods(http.MethodGet)
	r.HandleFunc("/packages/{id}", storefront.Package).Methods(http.MethodGet)

	r.HandleFunc("/login", account.LoginGet).Methods(http.MethodGet)
	r.HandleFunc("/login", limit(account.LoginPost)).Methods(http.MethodPost)
	r.HandleFunc("/signup", account.SignupGet).Methods(http.MethodGet)
	r.HandleFunc("/signup", limit(account.SignupPost)).Methods(http.MethodPost)
	r.HandleFunc("/logout", account.Logout).Methods(http.MethodPost)

	// Customer Routes
	r.HandleFunc("/profile", user(account.Profile)).Methods(http.MethodGet)
	r.HandleFunc("/profile", user(account.UpdateProfile)).Methods(http.MethodPost)
	r.HandleFunc("/booking-confirmation", user(bookings.Confirmation)).Methods(http.MethodGet)
	r.HandleFunc("/booking-confirmation", user(bookings.Prepare)).Methods(http.MethodPost)
	r.HandleFunc("/booking-confirmation/confirm", user(limitBooking(bookings.Confirm))).Methods(http.MethodPost)
	r.HandleFunc("/bookings", user(bookings.List)).Methods(http.MethodGet)
	r.HandleFunc("/bookings/{id}/cancel", user(bookings.Cancel)).Methods(http.MethodPost)

	// Admin Routes
	r.HandleFunc("/admin", adm(admin.Dashboard)).Methods(http.MethodGet)

	r.HandleFunc("/admin/destinations", adm(admin.ListDestinations)).Methods(http.MethodGet)
	r.HandleFunc("/admin/destinations", adm(admin.SaveDestination)).Methods(http.MethodPost)
	r.HandleFunc("/admin/destinations/new", adm(admin.DestinationForm)).Methods(http.MethodGet)
	r.HandleFunc("/admin/destinations/{id}", adm(admin.DestinationForm)).Methods(http.MethodGet)
	r.HandleFunc("/admin/destinations/{id}", adm(admin.SaveDestination)).Methods(http.MethodPost)

	r.HandleFunc("/admin/places", adm(admin.ListPlaces)).Methods(http.MethodGet)
	r.HandleFunc("/admin/places", adm(admin.SavePlace)).Methods(http.MethodPost)
	r.HandleFunc("/admin/places/new", adm(admin.PlaceForm)).Methods(http.MethodGet)
	r.HandleFunc("/admin/places/{id}", adm(admin.PlaceForm)).Methods(http.MethodGet)
	r.HandleFunc("/admin/places/{id}", adm(admin.SavePlace)).Methods(http.MethodPost)

	r.HandleFunc("/admin/packages", adm(admin.ListPackages)).Methods(http.MethodGet)
	r.HandleFunc("/admin/packages", adm(admin.SavePackage)).Methods(http.MethodPost)
	r.HandleFunc("/admin/packages/new", adm(admin.PackageForm)).Methods(http.MethodGet)
	r.HandleFunc("/admin/packages/{id}", adm(admin.PackageForm)).Methods(http.MethodGet)
	r.HandleFunc("/admin/packages/{id}", adm(admin.SavePackage)).Methods(http.MethodPost)

	r.HandleFunc("/admin/guides", adm(admin.ListGuides)).Methods(http.MethodGet)
	r.HandleFunc("/admin/guides", adm(admin.SaveGuide)).Methods(http.MethodPost)
	r.HandleFunc("/admin/guides/new", adm(admin.GuideForm)).Methods(http.MethodGet)
	r.HandleFunc("/admin/guides/{id}", adm(admin.GuideForm)).Methods(http.MethodGet)
	r.HandleFunc("/admin/guides/{id}", adm(admin.SaveGuide)).Methods(http.MethodPost)

	r.HandleFunc("/admin/bookings", adm(admin.ListBookings)).Methods(http.MethodGet)
	r.HandleFunc("/admin/bookings/{id}/status", adm(admin.UpdateBookingStatus)).Methods(http.MethodPost)

	r.HandleFunc("/admin/{kind}/{id}/delete", adm(admin.ConfirmDelete)).Methods(http.MethodGet)
	r.HandleFunc("/admin/{kind}/{id}/delete", adm(admin.Delete)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(storefront.NotFound)

	return sess.Middleware(r)
}

func throttle(rl *RateLimiter) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if rl == nil {
			return next
		}
		return rl.Middleware(next)
	}
}
