package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/astra29104/Travelbolt/internal/models"
)

func newTestSQL(t *testing.T) *SQL {
	t.Helper()
	s, err := NewSQL("sqlite", filepath.Join(t.TempDir(), "travel.db"))
	if err != nil {
		t.Fatalf("NewSQL: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate("../../migrations/sqlite"); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return s
}

// steppingClock returns a clock that advances one second per call.
func steppingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestSQLRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQL(t)

	var created models.Destination
	err := s.Insert(ctx, "destinations", Values{
		"name": "Goa", "description": "Sun and sand", "category": "Beaches", "image_url": "",
	}, &created)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("Insert returned %+v, want id and created_at", created)
	}

	var rows []models.Destination
	if err := s.Select(ctx, "destinations", Query{Filters: []Filter{Eq("name", "Goa")}}, &rows); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != created.ID {
		t.Fatalf("Select = %+v, want the inserted row", rows)
	}

	var updated models.Destination
	if err := s.Update(ctx, "destinations", []Filter{Eq(ColumnID, created.ID)}, Values{"category": "Nature"}, &updated); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Category != "Nature" || updated.Name != "Goa" {
		t.Errorf("Update returned %+v", updated)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Errorf("updated_at went backwards: %v < %v", updated.UpdatedAt, created.UpdatedAt)
	}

	if err := s.Delete(ctx, "destinations", []Filter{Eq(ColumnID, created.ID)}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "destinations", []Filter{Eq(ColumnID, created.ID)}); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
	if err := s.Update(ctx, "destinations", []Filter{Eq(ColumnID, created.ID)}, Values{"name": "x"}, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update of deleted row err = %v, want ErrNotFound", err)
	}
}

func TestSQLOrderLimitAndIn(t *testing.T) {
	ctx := context.Background()
	s := newTestSQL(t)
	s.now = steppingClock()

	ids := map[string]string{}
	for _, name := range []string{"Goa", "Manali", "Hampi"} {
		var d models.Destination
		if err := s.Insert(ctx, "destinations", Values{"name": name, "category": "Nature"}, &d); err != nil {
			t.Fatalf("Insert %s: %v", name, err)
		}
		ids[name] = d.ID
	}

	var newest []models.Destination
	q := Query{Order: []Order{{Column: ColumnCreatedAt, Desc: true}}, Limit: 2}
	if err := s.Select(ctx, "destinations", q, &newest); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(newest) != 2 || newest[0].Name != "Hampi" || newest[1].Name != "Manali" {
		t.Errorf("newest first = %+v, want Hampi, Manali", newest)
	}

	var picked []models.Destination
	q = Query{Filters: []Filter{In(ColumnID, ids["Goa"], ids["Hampi"])}, Order: []Order{{Column: "name"}}}
	if err := s.Select(ctx, "destinations", q, &picked); err != nil {
		t.Fatalf("Select in: %v", err)
	}
	if len(picked) != 2 || picked[0].Name != "Goa" || picked[1].Name != "Hampi" {
		t.Errorf("in filter = %+v, want Goa, Hampi", picked)
	}

	var none []models.Destination
	if err := s.Select(ctx, "destinations", Query{Filters: []Filter{In(ColumnID)}}, &none); err != nil {
		t.Fatalf("Select empty in: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("empty in filter matched %d rows", len(none))
	}
}

func TestSQLSchemaChecks(t *testing.T) {
	ctx := context.Background()
	s := newTestSQL(t)

	tests := []struct {
		name string
		err  error
	}{
		{"unknown table", s.Insert(ctx, "islands", Values{"name": "x"}, nil)},
		{"unknown column", s.Insert(ctx, "destinations", Values{"name": "x", "altitude": 3}, nil)},
		{"managed column", s.Insert(ctx, "destinations", Values{"name": "x", "created_at": time.Now()}, nil)},
		{"empty values", s.Update(ctx, "destinations", []Filter{Eq(ColumnID, "1")}, Values{}, nil)},
		{"unknown filter", s.Select(ctx, "destinations", Query{Filters: []Filter{Eq("altitude", 1)}}, &[]models.Destination{})},
		{"unknown order", s.Select(ctx, "destinations", Query{Order: []Order{{Column: "altitude"}}}, &[]models.Destination{})},
		{"update id", s.Update(ctx, "destinations", []Filter{Eq(ColumnID, "1")}, Values{"id": "2"}, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", tt.err)
			}
		})
	}
}

func TestSQLConstraintErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestSQL(t)

	user := Values{"name": "Jane", "email": "jane@x.com", "password_hash": "h", "age": 30, "location": "Pune", "is_admin": false}
	if err := s.Insert(ctx, "users", user, nil); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Insert(ctx, "users", user, nil); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate email err = %v, want ErrConflict", err)
	}

	err := s.Insert(ctx, "destination_places", Values{"destination_id": "missing", "name": "Fort"}, nil)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("dangling foreign key err = %v, want ErrConflict", err)
	}
}

func TestSQLCascadeDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestSQL(t)

	var dest models.Destination
	if err := s.Insert(ctx, "destinations", Values{"name": "Hampi", "category": "Historical"}, &dest); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(ctx, "destination_places", Values{"destination_id": dest.ID, "name": "Virupaksha Temple", "image_url": "https://img/v.jpg"}, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "destinations", []Filter{Eq(ColumnID, dest.ID)}); err != nil {
		t.Fatal(err)
	}
	var places []models.DestinationPlace
	if err := s.Select(ctx, "destination_places", Query{}, &places); err != nil {
		t.Fatal(err)
	}
	if len(places) != 0 {
		t.Errorf("places survived their destination: %+v", places)
	}
}

func TestSQLListColumnsAndDates(t *testing.T) {
	ctx := context.Background()
	s := newTestSQL(t)

	var dest models.Destination
	if err := s.Insert(ctx, "destinations", Values{"name": "Goa", "category": "Beaches"}, &dest); err != nil {
		t.Fatal(err)
	}
	var guide models.Guide
	err := s.Insert(ctx, "guides", Values{
		"destination_id": dest.ID, "name": "Ravi", "email": "ravi@x.com",
		"languages": models.StringList{"English", "Hindi"}, "price_per_day": 2000.0,
	}, &guide)
	if err != nil {
		t.Fatal(err)
	}
	if len(guide.Languages) != 2 || guide.Languages[1] != "Hindi" {
		t.Errorf("Languages = %v", guide.Languages)
	}

	var pkg models.Package
	if err := s.Insert(ctx, "packages", Values{"destination_id": dest.ID, "title": "Beach week", "duration": 5, "price": 15000.0}, &pkg); err != nil {
		t.Fatal(err)
	}
	var user models.User
	if err := s.Insert(ctx, "users", Values{"name": "Jane", "email": "jane@x.com", "password_hash": "h"}, &user); err != nil {
		t.Fatal(err)
	}
	var b models.Booking
	err = s.Insert(ctx, "bookings", Values{
		"user_id": user.ID, "package_id": pkg.ID, "guide_id": guide.ID,
		"start_date": models.NewDate(2024, 6, 1), "end_date": models.NewDate(2024, 6, 5),
		"status": string(models.StatusUpcoming), "total_cost": 25000.0,
	}, &b)
	if err != nil {
		t.Fatal(err)
	}
	if b.StartDate.String() != "2024-06-01" || b.EndDate.String() != "2024-06-05" {
		t.Errorf("dates = %s..%s", b.StartDate, b.EndDate)
	}

	var overlapping []models.Booking
	q := Query{Filters: []Filter{
		Eq("guide_id", guide.ID),
		Lte("start_date", models.NewDate(2024, 6, 5)),
		Gte("end_date", models.NewDate(2024, 6, 5)),
	}}
	if err := s.Select(ctx, "bookings", q, &overlapping); err != nil {
		t.Fatal(err)
	}
	if len(overlapping) != 1 {
		t.Errorf("date range filter matched %d bookings, want 1", len(overlapping))
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestSQL(t)
	if err := s.Migrate("../../migrations/sqlite"); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var n int
	if err := s.DB.Get(&n, `SELECT COUNT(*) FROM schema_migrations`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("schema_migrations has %d rows, want 1", n)
	}
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	if _, err := Open("mysql://localhost/db", ""); err == nil {
		t.Error("Open accepted a mysql URL")
	}
	if _, err := Open("https://project.example.co", ""); err == nil {
		t.Error("Open accepted a hosted URL without a key")
	}
}
