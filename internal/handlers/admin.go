package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/astra29104/Travelbolt/internal/booking"
	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/validation"
	"github.com/gorilla/mux"
)

type AdminHandler struct {
	Base
	Catalog *catalog.Catalog
	Booking *booking.Service
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Catalog.Dashboard(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "admin.html", map[string]interface{}{
		"Stats":    stats,
		"Statuses": []models.BookingStatus{models.StatusUpcoming, models.StatusCompleted, models.StatusCancelled},
	})
}

// renderForm re-renders an admin form with the submitted record and the
// validation messages.
func (h *AdminHandler) renderForm(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}, err error) {
	status := http.StatusOK
	if err != nil {
		v, ok := validation.As(err)
		if !ok {
			h.redirectBack(w, r, err, "Error saving to the database.", r.URL.Path)
			return
		}
		status = http.StatusUnprocessableEntity
		data["Errors"] = v.Messages()
	}
	destinations, listErr := h.Catalog.Destinations.List(r.Context())
	if listErr != nil {
		h.storeError(w, r, listErr)
		return
	}
	data["Destinations"] = destinations
	data["Categories"] = models.Categories
	h.render(w, r, status, name, data)
}

// formReader parses form fields, collecting conversion errors.
type formReader struct {
	r    *http.Request
	errs validation.Errors
}

func newFormReader(r *http.Request) *formReader {
	return &formReader{r: r, errs: validation.Errors{}}
}

func (f *formReader) str(key string) string {
	return strings.TrimSpace(f.r.FormValue(key))
}

func (f *formReader) int(key, label string) int {
	raw := f.str(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f.errs.Add(key, label+" must be a whole number.")
	}
	return n
}

func (f *formReader) float(key, label string) float64 {
	raw := f.str(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		f.errs.Add(key, label+" must be a number.")
	}
	return v
}

// merge combines conversion errors with err from domain validation.
func (f *formReader) merge(err error) error {
	if v, ok := validation.As(err); ok {
		for field, msg := range v.Fields {
			f.errs.Add(field, msg)
		}
		return f.errs.Err()
	}
	if err != nil {
		return err
	}
	return f.errs.Err()
}

// resource describes a deletable catalog table for the confirm step.
type resource struct {
	Label   string
	ListURL string
	name    func(ctx context.Context, id string) (string, error)
	remove  func(ctx context.Context, id string) error
}

func (h *AdminHandler) resources() map[string]resource {
	c := h.Catalog
	return map[string]resource{
		"destinations": {
			Label: "destination", ListURL: "/admin/destinations",
			name: func(ctx context.Context, id string) (string, error) {
				d, err := c.Destinations.Get(ctx, id)
				return d.Name, err
			},
			remove: c.Destinations.Delete,
		},
		"places": {
			Label: "place", ListURL: "/admin/places",
			name: func(ctx context.Context, id string) (string, error) {
				p, err := c.Places.Get(ctx, id)
				return p.Name, err
			},
			remove: c.Places.Delete,
		},
		"packages": {
			Label: "package", ListURL: "/admin/packages",
			name: func(ctx context.Context, id string) (string, error) {
				p, err := c.Packages.Get(ctx, id)
				return p.Title, err
			},
			remove: c.Packages.Delete,
		},
		"guides": {
			Label: "guide", ListURL: "/admin/guides",
			name: func(ctx context.Context, id string) (string, error) {
				g, err := c.Guides.Get(ctx, id)
				return g.Name, err
			},
			remove: c.Guides.Delete,
		},
	}
}

// ConfirmDelete shows the explicit confirmation step for a delete.
func (h *AdminHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, ok := h.resources()[vars["kind"]]
	if !ok {
		h.notFound(w, r)
		return
	}
	name, err := res.name(r.Context(), vars["id"])
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "admin_confirm_delete.html", map[string]interface{}{
		"Resource": res,
		"Name":     name,
		"Action":   r.URL.Path,
	})
}

// Delete removes a record once the confirm page was submitted with confirm=yes.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, ok := h.resources()[vars["kind"]]
	if !ok {
		h.notFound(w, r)
		return
	}
	id := vars["id"]
	if r.FormValue("confirm") != "yes" {
		h.flash(w, r, "error", "Please confirm the delete.")
		http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
		return
	}
	if err := res.remove(r.Context(), id); err != nil {
		h.redirectBack(w, r, err, "Error deleting the "+res.Label+".", res.ListURL)
		return
	}
	slog.Info("Admin deleted record", "kind", vars["kind"], "id", id)
	h.flash(w, r, "success", capitalize(res.Label)+" deleted.")
	http.Redirect(w, r, res.ListURL, http.StatusSeeOther)
}
