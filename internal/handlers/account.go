package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/astra29104/Travelbolt/internal/auth"
	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/models"
)

type AccountHandler struct {
	Base
	Accounts *auth.Accounts
	Sessions *auth.Sessions
	Catalog  *catalog.Catalog
}

func (h *AccountHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.FromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "login.html", map[string]interface{}{
		"Next": safeNext(r.URL.Query().Get("next")),
	})
}

func (h *AccountHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	next := safeNext(r.FormValue("next"))

	user, err := h.Accounts.Login(r.Context(), email, r.FormValue("password"))
	if err != nil {
		slog.Info("Login failed", "email", maskEmail(email))
		h.redirectBack(w, r, err, "Login failed. Please try again.", "/login?next="+url.QueryEscape(next))
		return
	}
	if err := h.Sessions.Begin(w, r, user); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}
	h.flash(w, r, "success", "Welcome back, "+user.Name+"!")
	slog.Info("Login successful", "user_id", user.ID, "admin", user.IsAdmin)
	if next == "/" && user.IsAdmin {
		next = "/admin"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AccountHandler) SignupGet(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "signup.html", nil)
}

func (h *AccountHandler) SignupPost(w http.ResponseWriter, r *http.Request) {
	age, _ := formInt(r, "age")
	user, err := h.Accounts.Signup(r.Context(), auth.SignupInput{
		Name:            r.FormValue("name"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
		Age:             age,
		Location:        r.FormValue("location"),
	})
	if err != nil {
		h.redirectBack(w, r, err, "Could not create your account. Please try again.", "/signup")
		return
	}
	if err := h.Sessions.Begin(w, r, user); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}
	h.flash(w, r, "success", "Welcome to Travelbolt, "+user.Name+"!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.End(w, r); err != nil {
		slog.Error("Failed to clear session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	bookings, err := h.Catalog.Bookings.ListForUser(r.Context(), sess.UserID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	upcoming := 0
	for _, b := range bookings {
		if b.State() == models.StatusUpcoming {
			upcoming++
		}
	}
	h.render(w, r, http.StatusOK, "profile.html", map[string]interface{}{
		"Profile":       sess.User,
		"BookingCount":  len(bookings),
		"UpcomingCount": upcoming,
	})
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	age, _ := formInt(r, "age")
	if _, err := h.Accounts.UpdateProfile(r.Context(), sess.UserID, r.FormValue("name"), age, r.FormValue("location")); err != nil {
		h.redirectBack(w, r, err, "Could not update your profile.", "/profile")
		return
	}
	h.flash(w, r, "success", "Profile updated!")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// maskEmail masks the local part for logs.
func maskEmail(email string) string {
	email = catalog.NormalizeEmail(email)
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return email
	}
	return email[:1] + "***" + email[at:]
}
