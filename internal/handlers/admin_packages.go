package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/itinerary"
	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/gorilla/mux"
)

func (h *AdminHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	destinationID := r.URL.Query().Get("destination_id")
	var (
		packages []models.Package
		err      error
	)
	if destinationID != "" {
		packages, err = h.Catalog.Packages.ForDestination(ctx, destinationID)
	} else {
		packages, err = h.Catalog.Packages.List(ctx)
	}
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	destinations, err := h.Catalog.Destinations.List(ctx)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "admin_packages.html", map[string]interface{}{
		"Packages":      packages,
		"Destinations":  destinations,
		"DestinationID": destinationID,
		"Names":         destinationNames(destinations),
	})
}

// PackageForm renders the package editor. ?duration=N resizes the day list
// before anything is saved.
func (h *AdminHandler) PackageForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pkg := models.Package{DestinationID: r.URL.Query().Get("destination_id"), Duration: 1}
	var days itinerary.Days
	action := "/admin/packages"
	if id, ok := mux.Vars(r)["id"]; ok {
		var err error
		if pkg, err = h.Catalog.Packages.Get(ctx, id); err != nil {
			h.storeError(w, r, err)
			return
		}
		if days, err = h.Catalog.Packages.Days(ctx, pkg); err != nil {
			h.storeError(w, r, err)
			return
		}
		action = "/admin/packages/" + id
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("duration")); err == nil && n > 0 {
		pkg.Duration = n
	}
	h.renderForm(w, r, "admin_package_form.html", map[string]interface{}{
		"Action": action,
		"Form":   pkg,
		"Days":   days.Resize(pkg.Duration),
	}, nil)
}

// SavePackage stores the package and its itinerary together. Submitting
// with action=resize only re-renders the editor for the new duration.
func (h *AdminHandler) SavePackage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	f := newFormReader(r)
	pkg := models.Package{
		ID:            mux.Vars(r)["id"],
		DestinationID: f.str("destination_id"),
		Title:         f.str("title"),
		Description:   f.str("description"),
		Duration:      f.int("duration", "Duration"),
		Price:         f.float("price", "Price"),
		Rating:        f.float("rating", "Rating"),
		MainImageURL:  f.str("main_image_url"),
	}
	days := make(itinerary.Days, 0, len(r.PostForm["day"]))
	for _, d := range r.PostForm["day"] {
		days = append(days, strings.TrimSpace(d))
	}
	data := map[string]interface{}{"Action": r.URL.Path, "Form": pkg}

	if r.FormValue("action") == "resize" {
		data["Days"] = days.Resize(pkg.Duration)
		h.renderForm(w, r, "admin_package_form.html", data, nil)
		return
	}

	var err error
	if len(f.errs) > 0 {
		err = f.merge(catalog.ValidatePackage(pkg))
	} else {
		_, err = h.Catalog.Packages.SavePackageWithItinerary(r.Context(), pkg, days)
	}
	if err != nil {
		data["Days"] = days.Resize(pkg.Duration)
		h.renderForm(w, r, "admin_package_form.html", data, err)
		return
	}
	h.flash(w, r, "success", "Package saved!")
	http.Redirect(w, r, "/admin/packages?destination_id="+pkg.DestinationID, http.StatusSeeOther)
}
