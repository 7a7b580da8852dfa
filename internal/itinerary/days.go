// Package itinerary keeps a package's per-day plan in step with its duration.
package itinerary

import (
	"fmt"
	"strings"

	"github.com/astra29104/Travelbolt/internal/validation"
)

// Days holds one description per itinerary day, day 1 first.
type Days []string

// Resize returns a copy of d with exactly n entries. Growing appends empty
// days; shrinking keeps the first n. Retained entries are unchanged.
func (d Days) Resize(n int) Days {
	if n < 0 {
		n = 0
	}
	out := make(Days, n)
	copy(out, d)
	return out
}

// Validate fails unless every day has a description.
func (d Days) Validate() error {
	var missing []string
	for i, desc := range d {
		if strings.TrimSpace(desc) == "" {
			missing = append(missing, fmt.Sprint(i+1))
		}
	}
	if len(missing) > 0 {
		return validation.Field("itinerary",
			"Please fill in all itinerary descriptions (missing day "+strings.Join(missing, ", ")+").")
	}
	return nil
}
