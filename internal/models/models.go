package models

import (
	"time"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"password_hash"` // bcrypt
	Age          int       `db:"age" json:"age"`
	Location     string    `db:"location" json:"location"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type Destination struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"` // one of Categories
	ImageURL    string    `db:"image_url" json:"image_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type DestinationPlace struct {
	ID            string    `db:"id" json:"id"`
	DestinationID string    `db:"destination_id" json:"destination_id"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	ImageURL      string    `db:"image_url" json:"image_url"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type Package struct {
	ID            string    `db:"id" json:"id"`
	DestinationID string    `db:"destination_id" json:"destination_id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	Duration      int       `db:"duration" json:"duration"` // days
	Price         float64   `db:"price" json:"price"`
	Rating        float64   `db:"rating" json:"rating"`
	MainImageURL  string    `db:"main_image_url" json:"main_image_url"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Itinerary holds one description per day of its package.
type Itinerary struct {
	ID          string     `db:"id" json:"id"`
	PackageID   string     `db:"package_id" json:"package_id"`
	NoOfDays    int        `db:"no_of_days" json:"no_of_days"`
	Description StringList `db:"description" json:"description"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

type Guide struct {
	ID              string     `db:"id" json:"id"`
	DestinationID   string     `db:"destination_id" json:"destination_id"`
	Name            string     `db:"name" json:"name"`
	Email           string     `db:"email" json:"email"`
	ExperienceYears int        `db:"experience_years" json:"experience_years"`
	Languages       StringList `db:"languages" json:"languages"`
	Rating          float64    `db:"rating" json:"rating"`
	PricePerDay     float64    `db:"price_per_day" json:"price_per_day"`
	ImageURL        string     `db:"image_url" json:"image_url"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

type Booking struct {
	ID        string        `db:"id" json:"id"`
	UserID    string        `db:"user_id" json:"user_id"`
	PackageID string        `db:"package_id" json:"package_id"`
	GuideID   string        `db:"guide_id" json:"guide_id"`
	StartDate Date          `db:"start_date" json:"start_date"`
	EndDate   Date          `db:"end_date" json:"end_date"`
	Status    BookingStatus `db:"status" json:"status"`
	TotalCost float64       `db:"total_cost" json:"total_cost"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

func (u User) RecordID() string             { return u.ID }
func (d Destination) RecordID() string      { return d.ID }
func (p DestinationPlace) RecordID() string { return p.ID }
func (p Package) RecordID() string          { return p.ID }
func (i Itinerary) RecordID() string        { return i.ID }
func (g Guide) RecordID() string            { return g.ID }
func (b Booking) RecordID() string          { return b.ID }

// State is the booking's status with legacy values normalised.
func (b Booking) State() BookingStatus {
	return b.Status.Normalize()
}

// Categories are the destination categories offered by the storefront.
var Categories = []string{"Beaches", "Mountains", "Historical", "Nature"}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
