package catalog

import (
	"context"
	"net/url"
	"strings"

	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/store"
	"github.com/astra29104/Travelbolt/internal/validation"
)

type Destinations struct {
	*Repository[models.Destination]
}

func NewDestinations(client store.Client) *Destinations {
	return &Destinations{NewRepository[models.Destination](client, "destinations")}
}

func (d *Destinations) Create(ctx context.Context, dest models.Destination) (models.Destination, error) {
	if err := ValidateDestination(dest); err != nil {
		return models.Destination{}, err
	}
	return d.Repository.Create(ctx, dest)
}

func (d *Destinations) Save(ctx context.Context, id string, dest models.Destination) (models.Destination, error) {
	if err := ValidateDestination(dest); err != nil {
		return models.Destination{}, err
	}
	return d.Repository.Update(ctx, id, store.ValuesOf(dest, store.ColumnID, store.ColumnCreatedAt, store.ColumnUpdatedAt))
}

// Search lists destinations whose name or description contains query
// (case-insensitive) and, unless category is empty or "All", whose
// category matches.
func (d *Destinations) Search(ctx context.Context, query, category string) ([]models.Destination, error) {
	all, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterDestinations(all, query, category), nil
}

func FilterDestinations(all []models.Destination, query, category string) []models.Destination {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Destination
	for _, dest := range all {
		if category != "" && category != "All" && dest.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(dest.Name), q) &&
			!strings.Contains(strings.ToLower(dest.Description), q) {
			continue
		}
		out = append(out, dest)
	}
	return out
}

func ValidateDestination(dest models.Destination) error {
	errs := validation.Errors{}
	if strings.TrimSpace(dest.Name) == "" {
		errs.Add("name", "Name is required.")
	}
	if !models.ValidCategory(dest.Category) {
		errs.Add("category", "Please select a valid category.")
	}
	if dest.ImageURL != "" && !validURL(dest.ImageURL) {
		errs.Add("image_url", "Image URL must be an absolute http(s) URL.")
	}
	return errs.Err()
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
