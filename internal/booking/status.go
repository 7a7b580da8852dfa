package booking

import (
	"fmt"

	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/validation"
)

// transitions lists the legal next states. completed and cancelled are terminal.
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.StatusUpcoming: {models.StatusCompleted, models.StatusCancelled},
}

// Transition checks that a booking in state from may move to to.
func Transition(from, to models.BookingStatus) error {
	if from == models.StatusConfirmed && to == models.StatusUpcoming {
		return nil
	}
	from = from.Normalize()
	if !to.Valid() {
		return validation.Field("status", fmt.Sprintf("Unknown booking status %q.", to))
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return validation.Field("status", fmt.Sprintf("A %s booking cannot become %s.", from, to))
}

// Cancellable reports whether the owner may still cancel b.
func Cancellable(b models.Booking) bool {
	return b.State() == models.StatusUpcoming
}

// Tabs are the booking list filters in display order.
var Tabs = []string{"all", string(models.StatusUpcoming), string(models.StatusCompleted), string(models.StatusCancelled)}

// NextStatuses lists the states a booking in from may move to.
func NextStatuses(from models.BookingStatus) []models.BookingStatus {
	return append([]models.BookingStatus(nil), transitions[from.Normalize()]...)
}
