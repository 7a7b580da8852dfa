package catalog

import (
	"context"
	"strings"

	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/store"
	"github.com/astra29104/Travelbolt/internal/validation"
)

type Places struct {
	*Repository[models.DestinationPlace]
}

func NewPlaces(client store.Client) *Places {
	return &Places{NewRepository[models.DestinationPlace](client, "destination_places")}
}

func (p *Places) ForDestination(ctx context.Context, destinationID string) ([]models.DestinationPlace, error) {
	return p.List(ctx, store.Eq("destination_id", destinationID))
}

func (p *Places) Create(ctx context.Context, place models.DestinationPlace) (models.DestinationPlace, error) {
	if err := ValidatePlace(place); err != nil {
		return models.DestinationPlace{}, err
	}
	return p.Repository.Create(ctx, place)
}

func (p *Places) Save(ctx context.Context, id string, place models.DestinationPlace) (models.DestinationPlace, error) {
	if err := ValidatePlace(place); err != nil {
		return models.DestinationPlace{}, err
	}
	return p.Repository.Update(ctx, id, store.ValuesOf(place, store.ColumnID, store.ColumnCreatedAt, store.ColumnUpdatedAt))
}

func ValidatePlace(place models.DestinationPlace) error {
	errs := validation.Errors{}
	if place.DestinationID == "" {
		errs.Add("destination_id", "Please select a destination.")
	}
	if strings.TrimSpace(place.Name) == "" {
		errs.Add("name", "Name is required.")
	}
	if strings.TrimSpace(place.ImageURL) == "" {
		errs.Add("image_url", "Image URL is required.")
	} else if !validURL(place.ImageURL) {
		errs.Add("image_url", "Image URL must be an absolute http(s) URL.")
	}
	return errs.Err()
}
