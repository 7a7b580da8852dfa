package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/astra29104/Travelbolt/internal/itinerary"
	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/store"
	"github.com/astra29104/Travelbolt/internal/validation"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	s, err := store.NewSQL("sqlite", filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("NewSQL: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate("../../migrations/sqlite"); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return New(s)
}

func mustDestination(t *testing.T, c *Catalog, name, category string) models.Destination {
	t.Helper()
	d, err := c.Destinations.Create(context.Background(), models.Destination{Name: name, Category: category})
	if err != nil {
		t.Fatalf("create destination %s: %v", name, err)
	}
	return d
}

func TestRepositoryMirror(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)

	goa := mustDestination(t, c, "Goa", "Beaches")
	manali := mustDestination(t, c, "Manali", "Mountains")

	snap := c.Destinations.Snapshot()
	if len(snap) != 2 || snap[0].ID != manali.ID || snap[1].ID != goa.ID {
		t.Fatalf("mirror after creates = %+v, want Manali then Goa", snap)
	}

	goa.Description = "Beaches and forts"
	if _, err := c.Destinations.Save(ctx, goa.ID, goa); err != nil {
		t.Fatalf("Save: %v", err)
	}
	snap = c.Destinations.Snapshot()
	if snap[1].Description != "Beaches and forts" {
		t.Errorf("mirror not updated: %+v", snap[1])
	}

	if err := c.Destinations.Delete(ctx, manali.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	err := c.Destinations.Delete(ctx, manali.ID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
	snap = c.Destinations.Snapshot()
	if len(snap) != 1 || snap[0].ID != goa.ID {
		t.Errorf("mirror after deletes = %+v, want only Goa", snap)
	}
}

func TestRepositoryListRefreshesMirror(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)
	goa := mustDestination(t, c, "Goa", "Beaches")
	mustDestination(t, c, "Hampi", "Historical")

	// A second catalog over the same store starts with an empty mirror.
	other := New(c.Destinations.client)
	if len(other.Destinations.Snapshot()) != 0 {
		t.Fatal("fresh mirror is not empty")
	}
	if _, err := other.Destinations.List(ctx, store.Eq("id", goa.ID)); err != nil {
		t.Fatal(err)
	}
	if len(other.Destinations.Snapshot()) != 0 {
		t.Error("filtered List touched the mirror")
	}
	all, err := other.Destinations.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || len(other.Destinations.Snapshot()) != 2 {
		t.Errorf("unfiltered List = %d rows, mirror %d", len(all), len(other.Destinations.Snapshot()))
	}
}

func TestGetMissing(t *testing.T) {
	c := newTestCatalog(t)
	_, err := c.Packages.Get(context.Background(), "missing")
	if !store.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestValidationRejectsBeforeWrite(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)

	_, err := c.Destinations.Create(ctx, models.Destination{Name: "Atlantis", Category: "Underwater"})
	if v, ok := validation.As(err); !ok || v.Fields["category"] == "" {
		t.Errorf("bad category err = %v", err)
	}
	dest := mustDestination(t, c, "Goa", "Beaches")
	_, err = c.Guides.Create(ctx, models.Guide{DestinationID: dest.ID, Name: "Ravi", Email: "not-an-email", PricePerDay: 100})
	if v, ok := validation.As(err); !ok || v.Fields["email"] == "" || v.Fields["languages"] == "" {
		t.Errorf("bad guide err = %v", err)
	}
	_, err = c.Places.Create(ctx, models.DestinationPlace{DestinationID: dest.ID, Name: "Fort"})
	if v, ok := validation.As(err); !ok || v.Fields["image_url"] == "" {
		t.Errorf("place without image err = %v", err)
	}
	if n := len(c.Guides.Snapshot()) + len(c.Places.Snapshot()); n != 0 {
		t.Errorf("invalid records reached the mirror: %d", n)
	}
}

func TestFilterDestinations(t *testing.T) {
	all := []models.Destination{
		{Name: "Goa", Description: "Sunny beaches", Category: "Beaches"},
		{Name: "Manali", Description: "Snow peaks", Category: "Mountains"},
		{Name: "Gokarna", Description: "Quiet coves", Category: "Beaches"},
	}
	tests := []struct {
		query, category string
		want            int
	}{
		{"", "All", 3},
		{"", "", 3},
		{"", "Beaches", 2},
		{"go", "All", 2},
		{"SNOW", "", 1},
		{"go", "Mountains", 0},
	}
	for _, tt := range tests {
		if got := FilterDestinations(all, tt.query, tt.category); len(got) != tt.want {
			t.Errorf("FilterDestinations(%q, %q) = %d results, want %d", tt.query, tt.category, len(got), tt.want)
		}
	}
}

func TestSavePackageWithItinerary(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)
	dest := mustDestination(t, c, "Manali", "Mountains")

	pkg := models.Package{DestinationID: dest.ID, Title: "Snow trek", Duration: 3, Price: 15000}
	_, err := c.Packages.SavePackageWithItinerary(ctx, pkg, itinerary.Days{"Arrive", "Trek"})
	if _, ok := validation.As(err); !ok {
		t.Fatalf("short itinerary err = %v, want validation error", err)
	}
	if all, _ := c.Packages.List(ctx); len(all) != 0 {
		t.Fatalf("package written despite invalid itinerary: %+v", all)
	}

	saved, err := c.Packages.SavePackageWithItinerary(ctx, pkg, itinerary.Days{"Arrive", "Trek", "Depart"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	it, found, err := c.Packages.Itinerary(ctx, saved.ID)
	if err != nil || !found {
		t.Fatalf("Itinerary found=%v err=%v", found, err)
	}
	if it.NoOfDays != 3 || it.Description[2] != "Depart" {
		t.Errorf("itinerary = %+v", it)
	}

	saved.Duration = 2
	if _, err := c.Packages.SavePackageWithItinerary(ctx, saved, itinerary.Days{"Arrive", "Depart"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _, _ := c.Packages.Itinerary(ctx, saved.ID)
	if again.ID != it.ID || again.NoOfDays != 2 {
		t.Errorf("itinerary after update = %+v, want same row with 2 days", again)
	}

	saved.Duration = 4
	days, err := c.Packages.Days(ctx, saved)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 4 || days[1] != "Depart" || days[3] != "" {
		t.Errorf("Days = %q", days)
	}
}

func TestUsersByEmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)
	if _, err := c.Users.Create(ctx, models.User{Name: "Jane", Email: "jane@x.com", PasswordHash: "h", Age: 30, Location: "Pune"}); err != nil {
		t.Fatal(err)
	}
	u, found, err := c.Users.ByEmail(ctx, "  Jane@X.com ")
	if err != nil || !found || u.Name != "Jane" {
		t.Errorf("ByEmail = %+v found=%v err=%v", u, found, err)
	}
	if _, found, _ := c.Users.ByEmail(ctx, "john@x.com"); found {
		t.Error("unknown email found")
	}
}

func TestFilterByTab(t *testing.T) {
	bookings := []models.Booking{
		{ID: "1", Status: models.StatusUpcoming},
		{ID: "2", Status: models.StatusConfirmed},
		{ID: "3", Status: models.StatusCompleted},
		{ID: "4", Status: models.StatusCancelled},
	}
	if got := FilterByTab(bookings, "upcoming"); len(got) != 2 {
		t.Errorf("upcoming = %d, want 2 (legacy confirmed included)", len(got))
	}
	if got := FilterByTab(bookings, "all"); len(got) != 4 {
		t.Errorf("all = %d", len(got))
	}
	if got := FilterByTab(bookings, "cancelled"); len(got) != 1 || got[0].ID != "4" {
		t.Errorf("cancelled = %+v", got)
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(t)
	dest := mustDestination(t, c, "Goa", "Beaches")
	pkg, err := c.Packages.Create(ctx, models.Package{DestinationID: dest.ID, Title: "Beach week", Duration: 5, Price: 15000})
	if err != nil {
		t.Fatal(err)
	}
	guide, err := c.Guides.Create(ctx, models.Guide{DestinationID: dest.ID, Name: "Ravi", Email: "ravi@x.com", Languages: models.StringList{"English"}, PricePerDay: 2000})
	if err != nil {
		t.Fatal(err)
	}
	user, err := c.Users.Create(ctx, models.User{Name: "Jane", Email: "jane@x.com", PasswordHash: "h", Age: 30, Location: "Pune"})
	if err != nil {
		t.Fatal(err)
	}
	for i, status := range []models.BookingStatus{models.StatusUpcoming, models.StatusCancelled, models.StatusConfirmed} {
		start := models.NewDate(2030, 1, 1+i*10)
		_, err := c.Bookings.Create(ctx, models.Booking{
			UserID: user.ID, PackageID: pkg.ID, GuideID: guide.ID,
			StartDate: start, EndDate: start.AddDays(4), Status: status, TotalCost: 25000,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	stats, err := c.Dashboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalDestinations != 1 || stats.TotalPackages != 1 || stats.TotalGuides != 1 || stats.TotalBookings != 3 {
		t.Errorf("totals = %+v", stats)
	}
	if stats.BookingsByStatus[models.StatusUpcoming] != 2 || stats.BookingsByStatus[models.StatusCancelled] != 1 {
		t.Errorf("by status = %v", stats.BookingsByStatus)
	}
	if stats.Revenue != 50000 {
		t.Errorf("Revenue = %v, want 50000", stats.Revenue)
	}
	if len(stats.PackageBookingCounts) != 1 || stats.PackageBookingCounts[0].BookingCount != 3 {
		t.Errorf("per package = %+v", stats.PackageBookingCounts)
	}
}
