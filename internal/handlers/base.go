// Package handlers serves the storefront and the admin back-office.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/astra29104/Travelbolt/internal/auth"
	"github.com/astra29104/Travelbolt/internal/store"
	"github.com/astra29104/Travelbolt/internal/validation"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

// Base carries what every handler needs to render a page.
type Base struct {
	SessionStore sessions.Store
	Templates    *TemplateCache
}

// render executes a page with the common layout data: CSRF field, flashes
// and the signed-in user.
func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]interface{}) {
	tmpl := b.Templates.Get(name)
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	session, _ := b.SessionStore.Get(r, auth.SessionName)
	data["CsrfField"] = csrf.TemplateField(r)
	data["Flashes"] = GetFlash(session)
	if s, ok := auth.FromContext(r.Context()); ok {
		data["User"] = s.User
		data["IsAdmin"] = s.IsAdmin()
	}
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, layoutTemplate, data); err != nil {
		slog.Error("Failed to render template", "name", name, "error", err)
	}
}

func (b *Base) flash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	session, _ := b.SessionStore.Get(r, auth.SessionName)
	session.AddFlash(FlashMessage{Type: kind, Message: msg})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
}

// flashError turns err into user-facing flashes: one per invalid field,
// or a generic message for store failures.
func (b *Base) flashError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if v, ok := validation.As(err); ok {
		for _, msg := range v.Messages() {
			b.flash(w, r, "error", msg)
		}
		return
	}
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		b.flash(w, r, "error", capitalize(authErr.Reason)+".")
		return
	}
	slog.Error(fallback, "error", err)
	b.flash(w, r, "error", fallback)
}

// redirectBack flashes err and sends the browser to target.
func (b *Base) redirectBack(w http.ResponseWriter, r *http.Request, err error, fallback, target string) {
	b.flashError(w, r, err, fallback)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (b *Base) notFound(w http.ResponseWriter, r *http.Request) {
	b.render(w, r, http.StatusNotFound, "not_found.html", nil)
}

// storeError renders the 404 page for missing records and a 500 otherwise.
func (b *Base) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if store.IsNotFound(err) {
		b.notFound(w, r)
		return
	}
	slog.Error("Store request failed", "path", r.URL.Path, "error", err)
	http.Error(w, "Something went wrong. Please try again later.", http.StatusInternalServerError)
}

func formInt(r *http.Request, key string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(key)))
	return n, err == nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
