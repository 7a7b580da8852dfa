// Package booking prices trips, checks guide availability and drives the
// booking status lifecycle.
package booking

import "github.com/astra29104/Travelbolt/internal/models"

// TotalCost is the package price plus the guide's daily rate for every day
// of the package. A nil guide costs nothing.
func TotalCost(pkg models.Package, guide *models.Guide) float64 {
	return pkg.Price + GuideCost(pkg, guide)
}

func GuideCost(pkg models.Package, guide *models.Guide) float64 {
	if guide == nil {
		return 0
	}
	return guide.PricePerDay * float64(pkg.Duration)
}

// EndDate is the last day of a trip of duration days starting on start.
func EndDate(start models.Date, duration int) models.Date {
	if start.IsZero() {
		return start
	}
	if duration < 1 {
		duration = 1
	}
	return start.AddDays(duration - 1)
}

// Quote is the price breakdown shown before a booking is confirmed.
type Quote struct {
	PackageCost float64
	GuideCost   float64
	Total       float64
	Start       models.Date
	End         models.Date
}

func NewQuote(pkg models.Package, guide *models.Guide, start models.Date) Quote {
	return Quote{
		PackageCost: pkg.Price,
		GuideCost:   GuideCost(pkg, guide),
		Total:       TotalCost(pkg, guide),
		Start:       start,
		End:         EndDate(start, pkg.Duration),
	}
}
