package handlers

import (
	"net/http"

	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/gorilla/mux"
)

func (h *AdminHandler) ListGuides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	destinationID := r.URL.Query().Get("destination_id")
	var (
		guides []models.Guide
		err    error
	)
	if destinationID != "" {
		guides, err = h.Catalog.Guides.ForDestination(ctx, destinationID)
	} else {
		guides, err = h.Catalog.Guides.List(ctx)
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
	h.render(w, r, http.StatusOK, "admin_guides.html", map[string]interface{}{
		"Guides":        guides,
		"Destinations":  destinations,
		"DestinationID": destinationID,
		"Names":         destinationNames(destinations),
	})
}

func (h *AdminHandler) GuideForm(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Action": "/admin/guides",
		"Form":   models.Guide{DestinationID: r.URL.Query().Get("destination_id")},
	}
	if id, ok := mux.Vars(r)["id"]; ok {
		guide, err := h.Catalog.Guides.Get(r.Context(), id)
		if err != nil {
			h.storeError(w, r, err)
			return
		}
		data["Action"] = "/admin/guides/" + id
		data["Form"] = guide
	}
	h.renderForm(w, r, "admin_guide_form.html", data, nil)
}

func (h *AdminHandler) SaveGuide(w http.ResponseWriter, r *http.Request) {
	f := newFormReader(r)
	guide := models.Guide{
		ID:              mux.Vars(r)["id"],
		DestinationID:   f.str("destination_id"),
		Name:            f.str("name"),
		Email:           catalog.NormalizeEmail(f.str("email")),
		ExperienceYears: f.int("experience_years", "Experience"),
		Languages:       models.SplitList(f.str("languages")),
		Rating:          f.float("rating", "Rating"),
		PricePerDay:     f.float("price_per_day", "Price per day"),
		ImageURL:        f.str("image_url"),
	}
	var err error
	switch {
	case len(f.errs) > 0:
		err = f.merge(catalog.ValidateGuide(guide))
	case guide.ID == "":
		_, err = h.Catalog.Guides.Create(r.Context(), guide)
	default:
		_, err = h.Catalog.Guides.Save(r.Context(), guide.ID, guide)
	}
	if err != nil {
		h.renderForm(w, r, "admin_guide_form.html", map[string]interface{}{
			"Action": r.URL.Path,
			"Form":   guide,
		}, err)
		return
	}
	h.flash(w, r, "success", "Guide saved!")
	http.Redirect(w, r, "/admin/guides?destination_id="+guide.DestinationID, http.StatusSeeOther)
}
