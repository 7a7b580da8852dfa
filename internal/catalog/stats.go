package catalog

import (
	"context"
	"sort"

	"github.com/astra29104/Travelbolt/internal/models"
)

type DashboardStats struct {
	TotalDestinations    int
	TotalPlaces          int
	TotalPackages        int
	TotalGuides          int
	TotalBookings        int
	Revenue              float64 // total cost of non-cancelled bookings
	BookingsByStatus     map[models.BookingStatus]int
	PackageBookingCounts []PackageBookingCount
}

type PackageBookingCount struct {
	PackageID    string
	Title        string
	BookingCount int
}

// Dashboard refreshes every mirror and summarises it for the admin home page.
func (c *Catalog) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		BookingsByStatus: make(map[models.BookingStatus]int),
	}

	destinations, err := c.Destinations.List(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalDestinations = len(destinations)

	places, err := c.Places.List(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalPlaces = len(places)

	guides, err := c.Guides.List(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalGuides = len(guides)

	packages, err := c.Packages.List(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalPackages = len(packages)

	bookings, err := c.Bookings.List(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalBookings = len(bookings)

	perPackage := make(map[string]int, len(packages))
	for _, b := range bookings {
		state := b.State()
		stats.BookingsByStatus[state]++
		if state != models.StatusCancelled {
			stats.Revenue += b.TotalCost
		}
		perPackage[b.PackageID]++
	}
	for _, p := range packages {
		stats.PackageBookingCounts = append(stats.PackageBookingCounts, PackageBookingCount{
			PackageID:    p.ID,
			Title:        p.Title,
			BookingCount: perPackage[p.ID],
		})
	}
	sort.SliceStable(stats.PackageBookingCounts, func(i, j int) bool {
		return stats.PackageBookingCounts[i].BookingCount > stats.PackageBookingCounts[j].BookingCount
	})
	return stats, nil
}
