package catalog

import (
	"context"

	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/store"
)

type Bookings struct {
	*Repository[models.Booking]
}

func NewBookings(client store.Client) *Bookings {
	return &Bookings{NewRepository[models.Booking](client, "bookings")}
}

// ListForUser lists a user's bookings, or every booking when userID is empty.
func (b *Bookings) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	if userID == "" {
		return b.List(ctx)
	}
	return b.List(ctx, store.Eq("user_id", userID))
}

func (b *Bookings) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error) {
	return b.Update(ctx, id, store.Values{"status": string(status)})
}

// FilterByTab keeps bookings in the given listing tab. "all" and "" keep everything.
func FilterByTab(bookings []models.Booking, tab string) []models.Booking {
	if tab == "" || tab == "all" {
		return bookings
	}
	var out []models.Booking
	for _, b := range bookings {
		if string(b.State()) == tab {
			out = append(out, b)
		}
	}
	return out
}
