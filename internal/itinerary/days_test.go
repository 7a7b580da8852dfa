package itinerary

import (
	"reflect"
	"strings"
	"testing"

	"github.com/astra29104/Travelbolt/internal/validation"
)

func TestResize(t *testing.T) {
	days := Days{"a", "b", "c"}
	tests := []struct {
		n    int
		want Days
	}{
		{5, Days{"a", "b", "c", "", ""}},
		{2, Days{"a", "b"}},
		{3, Days{"a", "b", "c"}},
		{0, Days{}},
		{-1, Days{}},
	}
	for _, tt := range tests {
		got := days.Resize(tt.n)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Resize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
	if !reflect.DeepEqual(days, Days{"a", "b", "c"}) {
		t.Errorf("Resize modified its receiver: %q", days)
	}
}

func TestResizeCopies(t *testing.T) {
	days := Days{"a", "b"}
	grown := days.Resize(2)
	grown[0] = "changed"
	if days[0] != "a" {
		t.Error("Resize shares its backing array")
	}
}

func TestValidate(t *testing.T) {
	if err := (Days{"x", "y"}).Validate(); err != nil {
		t.Errorf("complete days: %v", err)
	}
	err := Days{"", "y", "  "}.Validate()
	v, ok := validation.As(err)
	if !ok {
		t.Fatalf("err = %v, want validation error", err)
	}
	if msg := v.Fields["itinerary"]; !strings.Contains(msg, "day 1, 3") {
		t.Errorf("message = %q, want missing days 1 and 3", msg)
	}
}
