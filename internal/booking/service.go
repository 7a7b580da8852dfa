package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/validation"
)

var (
	ErrGuideUnavailable = errors.New("booking: guide is not available for the selected dates")
	ErrNotOwner         = errors.New("booking: booking belongs to another user")
)

// BookingStore is the part of the bookings repository the flow writes through.
type BookingStore interface {
	BookingLister
	Get(ctx context.Context, id string) (models.Booking, error)
	Create(ctx context.Context, b models.Booking) (models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error)
}

// Service runs the booking flow on top of the catalog repositories.
type Service struct {
	Packages *catalog.Packages
	Guides   *catalog.Guides
	Bookings BookingStore
	Now      func() time.Time
}

func NewService(c *catalog.Catalog) *Service {
	return &Service{
		Packages: c.Packages,
		Guides:   c.Guides,
		Bookings: c.Bookings,
		Now:      time.Now,
	}
}

// Offer is a priced, availability-checked selection of package, guide and dates.
type Offer struct {
	Package   models.Package
	Guide     *models.Guide
	Quote     Quote
	Available bool
}

// Offer prices a selection. guideID may be empty. Availability is looked up
// fresh on every call; a lookup failure is logged and reported as unavailable.
func (s *Service) Offer(ctx context.Context, packageID, guideID string, start models.Date) (*Offer, error) {
	pkg, err := s.Packages.Get(ctx, packageID)
	if err != nil {
		return nil, err
	}
	offer := &Offer{Package: pkg, Available: true}
	if guideID != "" {
		guide, err := s.Guides.Get(ctx, guideID)
		if err != nil {
			return nil, err
		}
		if guide.DestinationID != pkg.DestinationID {
			return nil, validation.Field("guide_id", "This guide does not cover the package's destination.")
		}
		offer.Guide = &guide
	}
	offer.Quote = NewQuote(pkg, offer.Guide, start)
	if offer.Guide != nil {
		available, err := GuideAvailable(ctx, s.Bookings, offer.Guide.ID, offer.Quote.Start, offer.Quote.End)
		if err != nil {
			slog.Warn("Guide availability check failed", "guide_id", offer.Guide.ID, "error", err)
		}
		offer.Available = available
	}
	return offer, nil
}

type Request struct {
	UserID    string
	PackageID string
	GuideID   string
	Start     models.Date
}

// Book re-prices the request, re-checks the guide's calendar and stores an
// upcoming booking.
func (s *Service) Book(ctx context.Context, req Request) (models.Booking, error) {
	errs := validation.Errors{}
	if req.UserID == "" {
		errs.Add("user_id", "Please log in to book a trip.")
	}
	if req.PackageID == "" {
		errs.Add("package_id", "Please select a package.")
	}
	if req.GuideID == "" {
		errs.Add("guide_id", "Please select a guide.")
	}
	if req.Start.IsZero() {
		errs.Add("start_date", "Please select a travel date.")
	} else if req.Start.Before(models.Today(s.Now())) {
		errs.Add("start_date", "Travel date cannot be in the past.")
	}
	if err := errs.Err(); err != nil {
		return models.Booking{}, err
	}

	offer, err := s.Offer(ctx, req.PackageID, req.GuideID, req.Start)
	if err != nil {
		return models.Booking{}, err
	}
	available, err := GuideAvailable(ctx, s.Bookings, req.GuideID, offer.Quote.Start, offer.Quote.End)
	if err != nil {
		return models.Booking{}, err
	}
	if !available {
		return models.Booking{}, ErrGuideUnavailable
	}

	created, err := s.Bookings.Create(ctx, models.Booking{
		UserID:    req.UserID,
		PackageID: req.PackageID,
		GuideID:   req.GuideID,
		StartDate: offer.Quote.Start,
		EndDate:   offer.Quote.End,
		Status:    models.StatusUpcoming,
		TotalCost: offer.Quote.Total,
	})
	if err != nil {
		return models.Booking{}, fmt.Errorf("book package %s: %w", req.PackageID, err)
	}
	slog.Info("Booking created", "booking_id", created.ID, "user_id", created.UserID,
		"guide_id", created.GuideID, "start", created.StartDate.String(), "total", created.TotalCost)
	return created, nil
}

// Cancel lets the owner cancel an upcoming booking.
func (s *Service) Cancel(ctx context.Context, userID, bookingID string) (models.Booking, error) {
	b, err := s.Bookings.Get(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if b.UserID != userID {
		return models.Booking{}, ErrNotOwner
	}
	if !Cancellable(b) {
		return models.Booking{}, validation.Field("status", "Only upcoming bookings can be cancelled.")
	}
	return s.Bookings.UpdateStatus(ctx, bookingID, models.StatusCancelled)
}

// SetStatus is the back-office status change; it must be a legal transition.
func (s *Service) SetStatus(ctx context.Context, bookingID string, status models.BookingStatus) (models.Booking, error) {
	b, err := s.Bookings.Get(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if err := Transition(b.Status, status); err != nil {
		return models.Booking{}, err
	}
	return s.Bookings.UpdateStatus(ctx, bookingID, status)
}
