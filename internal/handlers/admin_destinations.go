package handlers

import (
	"net/http"

	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/gorilla/mux"
)

func (h *AdminHandler) ListDestinations(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.Catalog.Destinations.List(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "admin_destinations.html", map[string]interface{}{
		"Destinations": destinations,
	})
}

func (h *AdminHandler) DestinationForm(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{"Action": "/admin/destinations", "Form": models.Destination{}}
	if id, ok := mux.Vars(r)["id"]; ok {
		dest, err := h.Catalog.Destinations.Get(r.Context(), id)
		if err != nil {
			h.storeError(w, r, err)
			return
		}
		data["Action"] = "/admin/destinations/" + id
		data["Form"] = dest
	}
	h.renderForm(w, r, "admin_destination_form.html", data, nil)
}

func (h *AdminHandler) SaveDestination(w http.ResponseWriter, r *http.Request) {
	f := newFormReader(r)
	dest := models.Destination{
		Name:        f.str("name"),
		Description: f.str("description"),
		Category:    f.str("category"),
		ImageURL:    f.str("image_url"),
	}
	id := mux.Vars(r)["id"]
	var err error
	if id == "" {
		_, err = h.Catalog.Destinations.Create(r.Context(), dest)
	} else {
		_, err = h.Catalog.Destinations.Save(r.Context(), id, dest)
	}
	if err != nil {
		dest.ID = id
		h.renderForm(w, r, "admin_destination_form.html", map[string]interface{}{
			"Action": r.URL.Path,
			"Form":   dest,
		}, err)
		return
	}
	h.flash(w, r, "success", "Destination saved!")
	http.Redirect(w, r, "/admin/destinations", http.StatusSeeOther)
}

func (h *AdminHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	destinationID := r.URL.Query().Get("destination_id")
	var (
		places []models.DestinationPlace
		err    error
	)
	if destinationID != "" {
		places, err = h.Catalog.Places.ForDestination(ctx, destinationID)
	} else {
		places, err = h.Catalog.Places.List(ctx)
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
	h.render(w, r, http.StatusOK, "admin_places.html", map[string]interface{}{
		"Places":        places,
		"Destinations":  destinations,
		"DestinationID": destinationID,
		"Names":         destinationNames(destinations),
	})
}

func (h *AdminHandler) PlaceForm(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Action": "/admin/places",
		"Form":   models.DestinationPlace{DestinationID: r.URL.Query().Get("destination_id")},
	}
	if id, ok := mux.Vars(r)["id"]; ok {
		place, err := h.Catalog.Places.Get(r.Context(), id)
		if err != nil {
			h.storeError(w, r, err)
			return
		}
		data["Action"] = "/admin/places/" + id
		data["Form"] = place
	}
	h.renderForm(w, r, "admin_place_form.html", data, nil)
}

func (h *AdminHandler) SavePlace(w http.ResponseWriter, r *http.Request) {
	f := newFormReader(r)
	place := models.DestinationPlace{
		DestinationID: f.str("destination_id"),
		Name:          f.str("name"),
		Description:   f.str("description"),
		ImageURL:      f.str("image_url"),
	}
	id := mux.Vars(r)["id"]
	var err error
	if id == "" {
		_, err = h.Catalog.Places.Create(r.Context(), place)
	} else {
		_, err = h.Catalog.Places.Save(r.Context(), id, place)
	}
	if err != nil {
		place.ID = id
		h.renderForm(w, r, "admin_place_form.html", map[string]interface{}{
			"Action": r.URL.Path,
			"Form":   place,
		}, err)
		return
	}
	h.flash(w, r, "success", "Place saved!")
	http.Redirect(w, r, "/admin/places?destination_id="+place.DestinationID, http.StatusSeeOther)
}

func destinationNames(destinations []models.Destination) map[string]string {
	names := make(map[string]string, len(destinations))
	for _, d := range destinations {
		names[d.ID] = d.Name
	}
	return names
}
