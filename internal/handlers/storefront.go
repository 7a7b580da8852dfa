package handlers

import (
	"net/http"
	"strings"

	"github.com/astra29104/Travelbolt/internal/booking"
	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/validation"
	"github.com/gorilla/mux"
)

const featuredDestinations = 6

type StorefrontHandler struct {
	Base
	Catalog *catalog.Catalog
	Booking *booking.Service
}

func (h *StorefrontHandler) Home(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.Catalog.Destinations.List(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if len(destinations) > featuredDestinations {
		destinations = destinations[:featuredDestinations]
	}
	h.render(w, r, http.StatusOK, "home.html", map[string]interface{}{
		"Destinations": destinations,
		"Categories":   models.Categories,
	})
}

func (h *StorefrontHandler) Destinations(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("search"))
	category := r.URL.Query().Get("category")
	if category == "" {
		category = "All"
	}
	destinations, err := h.Catalog.Destinations.Search(r.Context(), query, category)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "destinations.html", map[string]interface{}{
		"Destinations": destinations,
		"Categories":   append([]string{"All"}, models.Categories...),
		"Search":       query,
		"Category":     category,
	})
}

func (h *StorefrontHandler) Destination(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]
	dest, err := h.Catalog.Destinations.Get(ctx, id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	places, err := h.Catalog.Places.ForDestination(ctx, id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	packages, err := h.Catalog.Packages.ForDestination(ctx, id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	guides, err := h.Catalog.Guides.ForDestination(ctx, id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "destination.html", map[string]interface{}{
		"Destination": dest,
		"Places":      places,
		"Packages":    packages,
		"Guides":      guides,
	})
}

// Package shows a package with its itinerary. With guide_id and start in the
// query it also shows the quote and whether the guide is free.
func (h *StorefrontHandler) Package(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]
	q := r.URL.Query()
	guideID := q.Get("guide_id")
	start, dateErr := models.ParseDate(q.Get("start"))

	offer, err := h.Booking.Offer(ctx, id, guideID, start)
	if _, invalid := validation.As(err); invalid {
		h.flashError(w, r, err, "")
		offer, err = h.Booking.Offer(ctx, id, "", start)
		guideID = ""
	}
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	days, err := h.Catalog.Packages.Days(ctx, offer.Package)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	dest, err := h.Catalog.Destinations.Get(ctx, offer.Package.DestinationID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	guides, err := h.Catalog.Guides.ForDestination(ctx, offer.Package.DestinationID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	data := map[string]interface{}{
		"Package":     offer.Package,
		"Destination": dest,
		"Days":        days,
		"Guides":      guides,
		"GuideID":     guideID,
		"Start":       start.String(),
		"MinDate":     models.Today(h.Booking.Now()).String(),
		"Offer":       offer,
		"CanBook":     offer.Guide != nil && !start.IsZero() && offer.Available,
	}
	if dateErr != nil {
		data["DateError"] = "Please choose a valid travel date."
	}
	h.render(w, r, http.StatusOK, "package.html", data)
}

func (h *StorefrontHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r)
}
