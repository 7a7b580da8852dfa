// Package store is the boundary to the tabular data backend. Every backend
// speaks the same four primitives over the tables declared in schema.go.
package store

import (
	"context"
	"reflect"
	"strings"
)

// Op is a filter comparison operator.
type Op string

const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpIn  Op = "in"
)

// Filter is a single column predicate. Filters in a query are ANDed.
type Filter struct {
	Column string
	Op     Op
	Value  interface{}
}

func Eq(column string, v interface{}) Filter  { return Filter{Column: column, Op: OpEq, Value: v} }
func Neq(column string, v interface{}) Filter { return Filter{Column: column, Op: OpNeq, Value: v} }
func Lte(column string, v interface{}) Filter { return Filter{Column: column, Op: OpLte, Value: v} }
func Gte(column string, v interface{}) Filter { return Filter{Column: column, Op: OpGte, Value: v} }
func Lt(column string, v interface{}) Filter  { return Filter{Column: column, Op: OpLt, Value: v} }
func Gt(column string, v interface{}) Filter  { return Filter{Column: column, Op: OpGt, Value: v} }

// In matches rows whose column equals any of vs. An empty In matches nothing.
func In(column string, vs ...interface{}) Filter {
	return Filter{Column: column, Op: OpIn, Value: vs}
}

type Order struct {
	Column string
	Desc   bool
}

type Query struct {
	Filters []Filter
	Order   []Order
	Limit   int
}

// Values maps column names to values for inserts and updates.
type Values map[string]interface{}

// Client is implemented by the SQL and hosted REST backends.
//
// Select decodes matching rows into dest, a pointer to a slice of records.
// Insert and Update decode the stored row into dest, a pointer to a record;
// dest may be nil. Update and Delete fail with ErrNotFound when no row matches.
type Client interface {
	Select(ctx context.Context, table string, q Query, dest interface{}) error
	Insert(ctx context.Context, table string, values Values, dest interface{}) error
	Update(ctx context.Context, table string, filters []Filter, values Values, dest interface{}) error
	Delete(ctx context.Context, table string, filters []Filter) error
	Close() error
}

// ValuesOf converts a record struct into Values keyed by its db tags,
// skipping the named columns.
func ValuesOf(record interface{}, omit ...string) Values {
	skip := make(map[string]bool, len(omit))
	for _, c := range omit {
		skip[c] = true
	}
	v := reflect.Indirect(reflect.ValueOf(record))
	t := v.Type()
	values := make(Values, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := strings.Split(f.Tag.Get("db"), ",")[0]
		if tag == "" || tag == "-" || skip[tag] {
			continue
		}
		values[tag] = v.Field(i).Interface()
	}
	return values
}
