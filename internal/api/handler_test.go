package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/astra29104/Travelbolt/internal/booking"
	"github.com/astra29104/Travelbolt/internal/catalog"
	"github.com/astra29104/Travelbolt/internal/itinerary"
	"github.com/astra29104/Travelbolt/internal/models"
	"github.com/astra29104/Travelbolt/internal/store"
	"github.com/gin-gonic/gin"
)

type fixture struct {
	router *gin.Engine
	dest   models.Destination
	pkg    models.Package
	guide  models.Guide
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	s, err := store.NewSQL("sqlite", filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("NewSQL: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate("../../migrations/sqlite"); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	cat := catalog.New(s)
	svc := booking.NewService(cat)
	svc.Now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }

	f := &fixture{router: NewHandler(cat, svc).Router()}
	if f.dest, err = cat.Destinations.Create(ctx, models.Destination{Name: "Goa", Category: "Beaches"}); err != nil {
		t.Fatal(err)
	}
	if _, err = cat.Destinations.Create(ctx, models.Destination{Name: "Manali", Category: "Mountains"}); err != nil {
		t.Fatal(err)
	}
	f.pkg, err = cat.Packages.SavePackageWithItinerary(ctx,
		models.Package{DestinationID: f.dest.ID, Title: "Beach week", Duration: 5, Price: 15000},
		itinerary.Days{"Arrive", "Forts", "Spice farm", "Beaches", "Depart"})
	if err != nil {
		t.Fatal(err)
	}
	if f.guide, err = cat.Guides.Create(ctx, models.Guide{DestinationID: f.dest.ID, Name: "Ravi", Email: "ravi@x.com", Languages: models.StringList{"Konkani"}, PricePerDay: 2000}); err != nil {
		t.Fatal(err)
	}
	return f
}

func (f *fixture) get(t *testing.T, path string, out interface{}) int {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("GET %s: decode %q: %v", path, w.Body.String(), err)
		}
	}
	return w.Code
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	var body map[string]string
	if code := f.get(t, "/health", &body); code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("health = %d %v", code, body)
	}
}

func TestListDestinations(t *testing.T) {
	f := newFixture(t)

	var all []models.Destination
	if code := f.get(t, "/api/destinations", &all); code != http.StatusOK || len(all) != 2 {
		t.Errorf("all = %d, %d destinations", code, len(all))
	}
	var beaches []models.Destination
	f.get(t, "/api/destinations?category=Beaches", &beaches)
	if len(beaches) != 1 || beaches[0].Name != "Goa" {
		t.Errorf("beaches = %+v", beaches)
	}
	var none []models.Destination
	f.get(t, "/api/destinations?search=atlantis", &none)
	if none == nil || len(none) != 0 {
		t.Errorf("empty search = %v, want []", none)
	}
}

func TestDestinationChildren(t *testing.T) {
	f := newFixture(t)

	var packages []models.Package
	if code := f.get(t, "/api/destinations/"+f.dest.ID+"/packages", &packages); code != http.StatusOK || len(packages) != 1 {
		t.Errorf("packages = %d, %+v", code, packages)
	}
	var guides []models.Guide
	if code := f.get(t, "/api/destinations/"+f.dest.ID+"/guides", &guides); code != http.StatusOK || len(guides) != 1 || guides[0].Languages[0] != "Konkani" {
		t.Errorf("guides = %d, %+v", code, guides)
	}
	if code := f.get(t, "/api/destinations/missing/guides", nil); code != http.StatusNotFound {
		t.Errorf("missing destination = %d, want 404", code)
	}
}

func TestGetPackage(t *testing.T) {
	f := newFixture(t)

	var resp packageResponse
	if code := f.get(t, "/api/packages/"+f.pkg.ID, &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Package.Title != "Beach week" || len(resp.Itinerary) != 5 || resp.Itinerary[2] != "Spice farm" {
		t.Errorf("package = %+v", resp)
	}
	if code := f.get(t, "/api/packages/missing", nil); code != http.StatusNotFound {
		t.Errorf("missing package = %d, want 404", code)
	}
}

func TestQuote(t *testing.T) {
	f := newFixture(t)

	var q quoteResponse
	code := f.get(t, "/api/quote?package_id="+f.pkg.ID+"&guide_id="+f.guide.ID+"&start=2024-06-01", &q)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if q.TotalCost != 25000 || q.GuideCost != 10000 || !q.Available {
		t.Errorf("quote = %+v", q)
	}
	if q.StartDate.String() != "2024-06-01" || q.EndDate.String() != "2024-06-05" {
		t.Errorf("dates = %s..%s", q.StartDate, q.EndDate)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/quote", http.StatusBadRequest},
		{"/api/quote?package_id=" + f.pkg.ID + "&start=June", http.StatusBadRequest},
		{"/api/quote?package_id=missing", http.StatusNotFound},
		{"/api/quote?package_id=" + f.pkg.ID + "&guide_id=missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		if code := f.get(t, tt.path, nil); code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, code, tt.want)
		}
	}
}
