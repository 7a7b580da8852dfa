package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/astra29104/Travelbolt/internal/models"
)

// fakeTableAPI records the last request and answers with a canned response.
type fakeTableAPI struct {
	status int
	body   string

	method string
	path   string
	query  map[string][]string
	header http.Header
	sent   map[string]interface{}
}

func (f *fakeTableAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.method = r.Method
	f.path = r.URL.Path
	f.query = r.URL.Query()
	f.header = r.Header.Clone()
	f.sent = nil
	if b, _ := io.ReadAll(r.Body); len(b) > 0 {
		json.Unmarshal(b, &f.sent)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	io.WriteString(w, f.body)
}

func newTestREST(t *testing.T, api *fakeTableAPI) *REST {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	c, err := NewREST(srv.URL, "anon-key", srv.Client())
	if err != nil {
		t.Fatalf("NewREST: %v", err)
	}
	return c
}

func TestRESTSelectEncodesQuery(t *testing.T) {
	api := &fakeTableAPI{status: http.StatusOK, body: `[{"id":"b1","user_id":"u1","package_id":"p1","guide_id":"g1","start_date":"2024-06-01","end_date":"2024-06-05","status":"upcoming","total_cost":25000,"created_at":"2024-05-01T10:00:00Z","updated_at":"2024-05-01T10:00:00Z"}]`}
	c := newTestREST(t, api)

	var rows []models.Booking
	q := Query{
		Filters: []Filter{
			Eq("guide_id", "g1"),
			In("status", "upcoming", "confirmed"),
			Lte("start_date", models.NewDate(2024, 6, 5)),
			Gte("end_date", models.NewDate(2024, 6, 1)),
		},
		Order: []Order{{Column: ColumnCreatedAt, Desc: true}},
		Limit: 10,
	}
	if err := c.Select(context.Background(), "bookings", q, &rows); err != nil {
		t.Fatalf("Select: %v", err)
	}

	if api.method != http.MethodGet || api.path != "/rest/v1/bookings" {
		t.Errorf("request = %s %s", api.method, api.path)
	}
	want := map[string]string{
		"guide_id":   "eq.g1",
		"status":     "in.(upcoming,confirmed)",
		"start_date": "lte.2024-06-05",
		"end_date":   "gte.2024-06-01",
		"order":      "created_at.desc",
		"limit":      "10",
		"select":     selectList("bookings"),
	}
	for k, v := range want {
		if got := api.query[k]; len(got) != 1 || got[0] != v {
			t.Errorf("query %s = %v, want %q", k, got, v)
		}
	}
	if api.header.Get("apikey") != "anon-key" || api.header.Get("Authorization") != "Bearer anon-key" {
		t.Errorf("auth headers = %v", api.header)
	}
	if len(rows) != 1 || rows[0].StartDate.String() != "2024-06-01" || rows[0].Status != models.StatusUpcoming {
		t.Errorf("rows = %+v", rows)
	}
}

func TestRESTInsertReturnsRepresentation(t *testing.T) {
	api := &fakeTableAPI{status: http.StatusCreated, body: `[{"id":"d1","name":"Goa","description":"","category":"Beaches","image_url":"","created_at":"2024-05-01T10:00:00Z","updated_at":"2024-05-01T10:00:00Z"}]`}
	c := newTestREST(t, api)

	var d models.Destination
	if err := c.Insert(context.Background(), "destinations", Values{"name": "Goa", "category": "Beaches"}, &d); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if api.method != http.MethodPost || api.header.Get("Prefer") != "return=representation" {
		t.Errorf("request = %s Prefer=%q", api.method, api.header.Get("Prefer"))
	}
	if api.sent["name"] != "Goa" {
		t.Errorf("sent = %v", api.sent)
	}
	if d.ID != "d1" || d.Name != "Goa" {
		t.Errorf("decoded = %+v", d)
	}
}

func TestRESTUpdateAndDeleteNotFound(t *testing.T) {
	api := &fakeTableAPI{status: http.StatusOK, body: `[]`}
	c := newTestREST(t, api)
	ctx := context.Background()

	err := c.Update(ctx, "destinations", []Filter{Eq(ColumnID, "gone")}, Values{"name": "x"}, &models.Destination{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update err = %v, want ErrNotFound", err)
	}
	if api.method != http.MethodPatch || api.query["id"][0] != "eq.gone" {
		t.Errorf("request = %s %v", api.method, api.query)
	}
	if _, ok := api.sent[ColumnUpdatedAt]; !ok {
		t.Errorf("Update did not stamp updated_at: %v", api.sent)
	}

	if err := c.Delete(ctx, "destinations", []Filter{Eq(ColumnID, "gone")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete err = %v, want ErrNotFound", err)
	}

	api.body = `[{"id":"d1"}]`
	if err := c.Delete(ctx, "destinations", []Filter{Eq(ColumnID, "d1")}); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestRESTErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusConflict, `{"code":"23505","message":"duplicate key value violates unique constraint"}`, ErrConflict},
		{http.StatusBadRequest, `{"code":"22P02","message":"invalid input syntax"}`, ErrInvalid},
		{http.StatusNotAcceptable, `{"code":"PGRST116","message":"no rows"}`, ErrNotFound},
		{http.StatusUnauthorized, `{"message":"Invalid API key"}`, ErrUnavailable},
		{http.StatusBadGateway, ``, ErrUnavailable},
	}
	for _, tt := range tests {
		api := &fakeTableAPI{status: tt.status, body: tt.body}
		c := newTestREST(t, api)
		err := c.Insert(context.Background(), "users", Values{"name": "Jane"}, nil)
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: err = %v, want %v", tt.status, err, tt.want)
		}
	}
}

func TestRESTRejectsUnknownFields(t *testing.T) {
	api := &fakeTableAPI{status: http.StatusOK, body: `[{"id":"d1","name":"Goa","altitude":3}]`}
	c := newTestREST(t, api)
	var rows []models.Destination
	err := c.Select(context.Background(), "destinations", Query{}, &rows)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestNewRESTValidation(t *testing.T) {
	if _, err := NewREST("https://x.example.co", "", nil); err == nil {
		t.Error("empty key accepted")
	}
	if _, err := NewREST("ftp://x.example.co", "k", nil); err == nil {
		t.Error("ftp endpoint accepted")
	}
}

func TestFilterExprQuotesListItems(t *testing.T) {
	got := filterExpr(In("name", "a,b", "plain"))
	if want := `in.("a,b",plain)`; got != want {
		t.Errorf("filterExpr = %s, want %s", got, want)
	}
}
