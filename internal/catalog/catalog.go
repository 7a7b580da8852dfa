package catalog

import "github.com/astra29104/Travelbolt/internal/store"

// Catalog bundles the repositories of every table over one client.
type Catalog struct {
	Users        *Users
	Destinations *Destinations
	Places       *Places
	Packages     *Packages
	Guides       *Guides
	Bookings     *Bookings
}

func New(client store.Client) *Catalog {
	return &Catalog{
		Users:        NewUsers(client),
		Destinations: NewDestinations(client),
		Places:       NewPlaces(client),
		Packages:     NewPackages(client),
		Guides:       NewGuides(client),
		Bookings:     NewBookings(client),
	}
}
