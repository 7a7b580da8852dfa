package booking

import (
	"reflect"
	"testing"

	"github.com/astra29104/Travelbolt/internal/models"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from, to models.BookingStatus
		ok       bool
	}{
		{models.StatusUpcoming, models.StatusCompleted, true},
		{models.StatusUpcoming, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusUpcoming, true},
		{models.StatusCompleted, models.StatusUpcoming, false},
		{models.StatusCancelled, models.StatusCompleted, false},
		{models.StatusUpcoming, models.StatusUpcoming, false},
		{models.StatusUpcoming, "refunded", false},
	}
	for _, tt := range tests {
		err := Transition(tt.from, tt.to)
		if (err == nil) != tt.ok {
			t.Errorf("Transition(%s, %s) err = %v, want ok=%v", tt.from, tt.to, err, tt.ok)
		}
	}
}

func TestNextStatuses(t *testing.T) {
	want := []models.BookingStatus{models.StatusCompleted, models.StatusCancelled}
	if got := NextStatuses(models.StatusConfirmed); !reflect.DeepEqual(got, want) {
		t.Errorf("NextStatuses(confirmed) = %v, want %v", got, want)
	}
	if got := NextStatuses(models.StatusCancelled); len(got) != 0 {
		t.Errorf("NextStatuses(cancelled) = %v, want none", got)
	}

	got := NextStatuses(models.StatusUpcoming)
	got[0] = "mutated"
	if NextStatuses(models.StatusUpcoming)[0] != models.StatusCompleted {
		t.Error("NextStatuses exposed the transition table")
	}
}

func TestCancellable(t *testing.T) {
	for status, want := range map[models.BookingStatus]bool{
		models.StatusUpcoming:  true,
		models.StatusConfirmed: true,
		models.StatusCompleted: false,
		models.StatusCancelled: false,
	} {
		if got := Cancellable(models.Booking{Status: status}); got != want {
			t.Errorf("Cancellable(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	d := func(day int) models.Date { return models.NewDate(2024, 6, day) }
	if !Overlaps(d(1), d(5), d(5), d(9)) {
		t.Error("shared last day does not overlap")
	}
	if Overlaps(d(1), d(5), d(6), d(9)) {
		t.Error("adjacent ranges overlap")
	}
}
