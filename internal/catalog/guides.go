package catalog

import (
	"context"
	"regexp"
	"strings"

	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/store"
	"github.com/astra29104/Travelbolt/internal/validation"
)

type Guides struct {
	*Repository[models.Guide]
}

func NewGuides(client store.Client) *Guides {
	return &Guides{NewRepository[models.Guide](client, "guides")}
}

func (g *Guides) ForDestination(ctx context.Context, destinationID string) ([]models.Guide, error) {
	return g.List(ctx, store.Eq("destination_id", destinationID))
}

func (g *Guides) Create(ctx context.Context, guide models.Guide) (models.Guide, error) {
	if err := ValidateGuide(guide); err != nil {
		return models.Guide{}, err
	}
	return g.Repository.Create(ctx, guide)
}

func (g *Guides) Save(ctx context.Context, id string, guide models.Guide) (models.Guide, error) {
	if err := ValidateGuide(guide); err != nil {
		return models.Guide{}, err
	}
	return g.Repository.Update(ctx, id, store.ValuesOf(guide, store.ColumnID, store.ColumnCreatedAt, store.ColumnUpdatedAt))
}

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// ValidEmail is a loose shape check on a lower-cased address.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(strings.ToLower(email))
}

func ValidateGuide(guide models.Guide) error {
	errs := validation.Errors{}
	if guide.DestinationID == "" {
		errs.Add("destination_id", "Please select a destination.")
	}
	if strings.TrimSpace(guide.Name) == "" {
		errs.Add("name", "Name is required.")
	}
	if !ValidEmail(guide.Email) {
		errs.Add("email", "Please enter a valid email address.")
	}
	if guide.ExperienceYears < 0 {
		errs.Add("experience_years", "Experience cannot be negative.")
	}
	if len(guide.Languages) == 0 {
		errs.Add("languages", "At least one language is required.")
	}
	if guide.PricePerDay < 0 {
		errs.Add("price_per_day", "Price per day cannot be negative.")
	}
	if guide.Rating < 0 || guide.Rating > 5 {
		errs.Add("rating", "Rating must be between 0 and 5.")
	}
	return errs.Err()
}
