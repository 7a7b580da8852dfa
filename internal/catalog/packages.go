package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/astra29104/Travelbolt/internal/itinerary"
	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/store"
	"github.com/astra29104/Travelbolt/internal/validation"
)

type Packages struct {
	*Repository[models.Package]
	itineraries *Repository[models.Itinerary]
}

func NewPackages(client store.Client) *Packages {
	return &Packages{
		Repository:  NewRepository[models.Package](client, "packages"),
		itineraries: NewRepository[models.Itinerary](client, "package_itinerary"),
	}
}

func (p *Packages) ForDestination(ctx context.Context, destinationID string) ([]models.Package, error) {
	return p.List(ctx, store.Eq("destination_id", destinationID))
}

func (p *Packages) Create(ctx context.Context, pkg models.Package) (models.Package, error) {
	if err := ValidatePackage(pkg); err != nil {
		return models.Package{}, err
	}
	return p.Repository.Create(ctx, pkg)
}

// Itinerary returns the package's itinerary; found is false when none was saved yet.
func (p *Packages) Itinerary(ctx context.Context, packageID string) (it models.Itinerary, found bool, err error) {
	return p.itineraries.FindOne(ctx, store.Eq("package_id", packageID))
}

// Days returns the saved day list resized to the package duration.
func (p *Packages) Days(ctx context.Context, pkg models.Package) (itinerary.Days, error) {
	it, _, err := p.Itinerary(ctx, pkg.ID)
	if err != nil {
		return nil, err
	}
	return itinerary.Days(it.Description).Resize(pkg.Duration), nil
}

// SaveItinerary creates or replaces the itinerary of packageID. days must
// be complete; its length becomes no_of_days.
func (p *Packages) SaveItinerary(ctx context.Context, packageID string, days itinerary.Days) (models.Itinerary, error) {
	if err := days.Validate(); err != nil {
		return models.Itinerary{}, err
	}
	existing, found, err := p.Itinerary(ctx, packageID)
	if err != nil {
		return models.Itinerary{}, err
	}
	desc := models.StringList(append([]string(nil), days...))
	if found {
		return p.itineraries.Update(ctx, existing.ID, store.Values{
			"no_of_days":  len(days),
			"description": desc,
		})
	}
	return p.itineraries.Create(ctx, models.Itinerary{
		PackageID:   packageID,
		NoOfDays:    len(days),
		Description: desc,
	})
}

// SavePackageWithItinerary creates pkg when it has no id and updates it
// otherwise, then stores its itinerary. Nothing is written unless both the
// package and a day list of exactly pkg.Duration complete entries validate.
func (p *Packages) SavePackageWithItinerary(ctx context.Context, pkg models.Package, days itinerary.Days) (models.Package, error) {
	errs := validation.Errors{}
	if err := ValidatePackage(pkg); err != nil {
		v, _ := validation.As(err)
		for f, msg := range v.Fields {
			errs.Add(f, msg)
		}
	}
	if pkg.Duration > 0 && len(days) != pkg.Duration {
		errs.Add("itinerary", fmt.Sprintf("Itinerary must have %d days, got %d.", pkg.Duration, len(days)))
	} else if err := days.Validate(); err != nil {
		v, _ := validation.As(err)
		for f, msg := range v.Fields {
			errs.Add(f, msg)
		}
	}
	if err := errs.Err(); err != nil {
		return models.Package{}, err
	}

	var saved models.Package
	var err error
	if pkg.ID == "" {
		saved, err = p.Repository.Create(ctx, pkg)
	} else {
		saved, err = p.Repository.Update(ctx, pkg.ID, packageValues(pkg))
	}
	if err != nil {
		return models.Package{}, err
	}
	if _, err := p.SaveItinerary(ctx, saved.ID, days); err != nil {
		return saved, fmt.Errorf("save itinerary for package %s: %w", saved.ID, err)
	}
	return saved, nil
}

func packageValues(pkg models.Package) store.Values {
	return store.ValuesOf(pkg, store.ColumnID, store.ColumnCreatedAt, store.ColumnUpdatedAt)
}

func ValidatePackage(pkg models.Package) error {
	errs := validation.Errors{}
	if pkg.DestinationID == "" {
		errs.Add("destination_id", "Please select a destination.")
	}
	if strings.TrimSpace(pkg.Title) == "" {
		errs.Add("title", "Title is required.")
	}
	if pkg.Duration < 1 {
		errs.Add("duration", "Duration must be at least one day.")
	}
	if pkg.Price < 0 {
		errs.Add("price", "Price cannot be negative.")
	}
	if pkg.Rating < 0 || pkg.Rating > 5 {
		errs.Add("rating", "Rating must be between 0 and 5.")
	}
	if pkg.MainImageURL != "" && !validURL(pkg.MainImageURL) {
		errs.Add("main_image_url", "Image URL must be an absolute http(s) URL.")
	}
	return errs.Err()
}
