// Package catalog holds the per-table repositories. Each repository keeps an
// in-memory mirror of its table that is updated from the record the store
// returns for every successful write.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/astra29104/Travelbolt/internal/store"
)

// Record is implemented by every model stored in a table.
type Record interface {
	RecordID() string
}

var newestFirst = []store.Order{{Column: store.ColumnCreatedAt, Desc: true}}

// Repository is the list/create/update/delete contract shared by all tables.
type Repository[T Record] struct {
	client store.Client
	table  string

	mu    sync.RWMutex
	items []T
}

func NewRepository[T Record](client store.Client, table string) *Repository[T] {
	return &Repository[T]{client: client, table: table}
}

func (r *Repository[T]) Table() string { return r.table }

// List returns matching records newest first. An unfiltered List replaces
// the mirror; filtered results are returned without touching it.
func (r *Repository[T]) List(ctx context.Context, filters ...store.Filter) ([]T, error) {
	var rows []T
	if err := r.client.Select(ctx, r.table, store.Query{Filters: filters, Order: newestFirst}, &rows); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	if len(filters) == 0 {
		r.mu.Lock()
		r.items = append([]T(nil), rows...)
		r.mu.Unlock()
	}
	return rows, nil
}

// Get fetches one record by id.
func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	rows, err := r.find(ctx, store.Eq(store.ColumnID, id))
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, fmt.Errorf("get %s %s: %w", r.table, id, &store.Error{Kind: store.KindNotFound, Table: r.table, Op: "select"})
	}
	return rows[0], nil
}

// FindOne returns the first record matching filters and whether one exists.
func (r *Repository[T]) FindOne(ctx context.Context, filters ...store.Filter) (T, bool, error) {
	var zero T
	rows, err := r.find(ctx, filters...)
	if err != nil || len(rows) == 0 {
		return zero, false, err
	}
	return rows[0], true, nil
}

func (r *Repository[T]) find(ctx context.Context, filters ...store.Filter) ([]T, error) {
	var rows []T
	if err := r.client.Select(ctx, r.table, store.Query{Filters: filters, Limit: 1}, &rows); err != nil {
		return nil, fmt.Errorf("find %s: %w", r.table, err)
	}
	return rows, nil
}

// Create inserts rec and prepends the stored record to the mirror.
func (r *Repository[T]) Create(ctx context.Context, rec T) (T, error) {
	var created T
	values := store.ValuesOf(rec, store.ColumnID, store.ColumnCreatedAt, store.ColumnUpdatedAt)
	if err := r.client.Insert(ctx, r.table, values, &created); err != nil {
		return created, fmt.Errorf("create %s: %w", r.table, err)
	}
	r.mu.Lock()
	r.items = append([]T{created}, r.items...)
	r.mu.Unlock()
	return created, nil
}

// Update applies patch to the record with id and replaces it in the mirror.
func (r *Repository[T]) Update(ctx context.Context, id string, patch store.Values) (T, error) {
	var updated T
	if err := r.client.Update(ctx, r.table, []store.Filter{store.Eq(store.ColumnID, id)}, patch, &updated); err != nil {
		return updated, fmt.Errorf("update %s %s: %w", r.table, id, err)
	}
	r.mu.Lock()
	for i := range r.items {
		if r.items[i].RecordID() == id {
			r.items[i] = updated
			break
		}
	}
	r.mu.Unlock()
	return updated, nil
}

// Delete removes the record with id from the store and then the mirror.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, r.table, []store.Filter{store.Eq(store.ColumnID, id)}); err != nil {
		return fmt.Errorf("delete %s %s: %w", r.table, id, err)
	}
	r.mu.Lock()
	for i := range r.items {
		if r.items[i].RecordID() == id {
			r.items = append(r.items[:i:i], r.items[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the mirror.
func (r *Repository[T]) Snapshot() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]T(nil), r.items...)
}
