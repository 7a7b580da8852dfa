// Package api serves the read-only catalog as JSON.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/astra29104/Travelbolt/internal/booking"
	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/itinerary"
	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/store"
	"github.com/astra29104/Travelbolt/internal/validation"
	"github.com/gin-gonic/gin"
)

// Handler holds the services behind the JSON routes.
type Handler struct {
	Catalog *catalog.Catalog
	Booking *booking.Service
}

func NewHandler(c *catalog.Catalog, b *booking.Service) *Handler {
	return &Handler{Catalog: c, Booking: b}
}

// Router registers every route on a new gin engine.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	api := router.Group("/api")
	{
		api.GET("/destinations", h.ListDestinations)
		api.GET("/destinations/:id/packages", h.ListPackages)
		api.GET("/destinations/:id/guides", h.ListGuides)
		api.GET("/packages/:id", h.GetPackage)
		api.GET("/quote", h.Quote)
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

// ListDestinations handles GET /api/destinations?category=&search=.
func (h *Handler) ListDestinations(c *gin.Context) {
	destinations, err := h.Catalog.Destinations.Search(c.Request.Context(), c.Query("search"), c.Query("category"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(destinations))
}

func (h *Handler) ListPackages(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.Catalog.Destinations.Get(ctx, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	packages, err := h.Catalog.Packages.ForDestination(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(packages))
}

func (h *Handler) ListGuides(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.Catalog.Destinations.Get(ctx, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	guides, err := h.Catalog.Guides.ForDestination(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(guides))
}

type packageResponse struct {
	Package   models.Package `json:"package"`
	Itinerary itinerary.Days `json:"itinerary"`
}

// GetPackage returns a package with its itinerary sized to the duration.
func (h *Handler) GetPackage(c *gin.Context) {
	ctx := c.Request.Context()
	pkg, err := h.Catalog.Packages.Get(ctx, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	days, err := h.Catalog.Packages.Days(ctx, pkg)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, packageResponse{Package: pkg, Itinerary: days})
}

type quoteResponse struct {
	PackageID   string      `json:"package_id"`
	GuideID     string      `json:"guide_id,omitempty"`
	PackageCost float64     `json:"package_cost"`
	GuideCost   float64     `json:"guide_cost"`
	TotalCost   float64     `json:"total_cost"`
	StartDate   models.Date `json:"start_date"`
	EndDate     models.Date `json:"end_date"`
	Available   bool        `json:"available"`
}

// Quote handles GET /api/quote?package_id=&guide_id=&start=.
func (h *Handler) Quote(c *gin.Context) {
	packageID := c.Query("package_id")
	if packageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "package_id is required"})
		return
	}
	start, err := models.ParseDate(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be a YYYY-MM-DD date"})
		return
	}
	offer, err := h.Booking.Offer(c.Request.Context(), packageID, c.Query("guide_id"), start)
	if err != nil {
		fail(c, err)
		return
	}
	resp := quoteResponse{
		PackageID:   offer.Package.ID,
		PackageCost: offer.Quote.PackageCost,
		GuideCost:   offer.Quote.GuideCost,
		TotalCost:   offer.Quote.Total,
		StartDate:   offer.Quote.Start,
		EndDate:     offer.Quote.End,
		Available:   offer.Available,
	}
	if offer.Guide != nil {
		resp.GuideID = offer.Guide.ID
	}
	c.JSON(http.StatusOK, resp)
}

// fail maps domain and store errors onto HTTP statuses.
func fail(c *gin.Context, err error) {
	if v, ok := validation.As(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": v.Fields})
		return
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	default:
		slog.Error("API request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		slog.Info("API Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"ip", c.ClientIP(),
		)
	}
}
