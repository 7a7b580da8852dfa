package store

import (
	"fmt"
	"strings"
)

// Managed columns are assigned by the backend, never by callers.
const (
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
)

// Tables lists the columns of every table in select order.
var Tables = map[string][]string{
	"users": {
		"id", "name", "email", "password_hash", "age", "location", "is_admin", "created_at", "updated_at",
	},
	"destinations": {
		"id", "name", "description", "category", "image_url", "created_at", "updated_at",
	},
	"destination_places": {
		"id", "destination_id", "name", "description", "image_url", "created_at", "updated_at",
	},
	"packages": {
		"id", "destination_id", "title", "description", "duration", "price", "rating", "main_image_url", "created_at", "updated_at",
	},
	"package_itinerary": {
		"id", "package_id", "no_of_days", "description", "created_at", "updated_at",
	},
	"guides": {
		"id", "destination_id", "name", "email", "experience_years", "languages", "rating", "price_per_day", "image_url", "created_at", "updated_at",
	},
	"bookings": {
		"id", "user_id", "package_id", "guide_id", "start_date", "end_date", "status", "total_cost", "created_at", "updated_at",
	},
}

func columns(table string) ([]string, error) {
	cols, ok := Tables[table]
	if !ok {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	return cols, nil
}

func selectList(table string) string {
	return strings.Join(Tables[table], ",")
}

func hasColumn(table, column string) bool {
	for _, c := range Tables[table] {
		if c == column {
			return true
		}
	}
	return false
}

func isManaged(column string) bool {
	return column == ColumnID || column == ColumnCreatedAt || column == ColumnUpdatedAt
}

// checkQuery rejects unknown tables and columns before anything reaches a backend.
func checkQuery(op, table string, q Query) error {
	if _, err := columns(table); err != nil {
		return newError(KindInvalid, op, table, err)
	}
	for _, f := range q.Filters {
		if !hasColumn(table, f.Column) {
			return newError(KindInvalid, op, table, fmt.Errorf("unknown filter column %q", f.Column))
		}
		if f.Op == OpIn {
			if _, ok := f.Value.([]interface{}); !ok {
				return newError(KindInvalid, op, table, fmt.Errorf("in filter on %q needs a list", f.Column))
			}
		}
	}
	for _, o := range q.Order {
		if !hasColumn(table, o.Column) {
			return newError(KindInvalid, op, table, fmt.Errorf("unknown order column %q", o.Column))
		}
	}
	return nil
}

// checkValues rejects unknown and managed columns in writes. An insert may
// carry an explicit id.
func checkValues(op, table string, values Values, allowID bool) error {
	if _, err := columns(table); err != nil {
		return newError(KindInvalid, op, table, err)
	}
	if len(values) == 0 {
		return newError(KindInvalid, op, table, fmt.Errorf("no values"))
	}
	for col := range values {
		if !hasColumn(table, col) {
			return newError(KindInvalid, op, table, fmt.Errorf("unknown column %q", col))
		}
		if isManaged(col) && !(allowID && col == ColumnID) {
			return newError(KindInvalid, op, table, fmt.Errorf("column %q is managed by the store", col))
		}
	}
	return nil
}
