package booking

import (
	"context"
	"fmt"

	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/store"
)

// BookingLister is the slice of the booking repository availability needs.
type BookingLister interface {
	List(ctx context.Context, filters ...store.Filter) ([]models.Booking, error)
}

// ActiveStatuses block a guide's calendar.
var ActiveStatuses = []interface{}{string(models.StatusUpcoming), string(models.StatusConfirmed)}

// GuideAvailable reports whether guideID has no active booking overlapping
// [start, end], both days inclusive. Without both dates there is nothing to
// check and the guide counts as available. A failed lookup reports false.
func GuideAvailable(ctx context.Context, bookings BookingLister, guideID string, start, end models.Date) (bool, error) {
	if start.IsZero() || end.IsZero() {
		return true, nil
	}
	overlapping, err := bookings.List(ctx,
		store.Eq("guide_id", guideID),
		store.In("status", ActiveStatuses...),
		store.Lte("start_date", end),
		store.Gte("end_date", start),
	)
	if err != nil {
		return false, fmt.Errorf("check availability of guide %s: %w", guideID, err)
	}
	return len(overlapping) == 0, nil
}

// Overlaps is the inclusive interval test; GuideAvailable's range filter
// expresses the same predicate in the store query.
func Overlaps(aStart, aEnd, bStart, bEnd models.Date) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
