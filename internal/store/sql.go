package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQL is a Client backed by a relational database through sqlx.
// Supported drivers are "sqlite" and "postgres".
type SQL struct {
	DB     *sqlx.DB
	driver string
	now    func() time.Time
}

func NewSQL(driver, dataSourceName string) (*SQL, error) {
	if driver == "sqlite" && !strings.Contains(dataSourceName, "_pragma=foreign_keys") {
		sep := "?"
		if strings.Contains(dataSourceName, "?") {
			sep = "&"
		}
		dataSourceName += sep + "_pragma=foreign_keys(1)"
	}
	db, err := sqlx.Open(driver, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == "sqlite" {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach %s database: %w", driver, err)
	}
	return &SQL{DB: db, driver: driver, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *SQL) Driver() string { return s.driver }

func (s *SQL) Close() error { return s.DB.Close() }

func (s *SQL) Select(ctx context.Context, table string, q Query, dest interface{}) error {
	if err := checkQuery("select", table, q); err != nil {
		return err
	}
	query, args := s.selectSQL(table, selectList(table), q)
	if err := s.DB.SelectContext(ctx, dest, query, args...); err != nil {
		return s.classify("select", table, err)
	}
	return nil
}

func (s *SQL) Insert(ctx context.Context, table string, values Values, dest interface{}) error {
	if err := checkValues("insert", table, values, true); err != nil {
		return err
	}
	row := make(Values, len(values)+3)
	for k, v := range values {
		row[k] = v
	}
	id, _ := row[ColumnID].(string)
	if id == "" {
		id = uuid.New().String()
		row[ColumnID] = id
	}
	now := s.now()
	row[ColumnCreatedAt] = now
	row[ColumnUpdatedAt] = now

	cols := sortedColumns(row)
	args := make([]interface{}, len(cols))
	for i, c := range cols {
		args[i] = row[c]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders(len(cols)))

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return s.classify("insert", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.DB.Rebind(query), args...); err != nil {
		return s.classify("insert", table, err)
	}
	if dest != nil {
		if err := s.getByID(ctx, tx, table, id, dest); err != nil {
			return s.classify("insert", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return s.classify("insert", table, err)
	}
	return nil
}

func (s *SQL) Update(ctx context.Context, table string, filters []Filter, values Values, dest interface{}) error {
	if err := checkQuery("update", table, Query{Filters: filters}); err != nil {
		return err
	}
	if err := checkValues("update", table, values, false); err != nil {
		return err
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return s.classify("update", table, err)
	}
	defer tx.Rollback()

	// Resolve ids first so the row can be read back even if a filtered
	// column is among the updated ones.
	var ids []string
	idQuery, idArgs := s.selectSQL(table, ColumnID, Query{Filters: filters})
	if err := tx.SelectContext(ctx, &ids, idQuery, idArgs...); err != nil {
		return s.classify("update", table, err)
	}
	if len(ids) == 0 {
		return newError(KindNotFound, "update", table, nil)
	}

	row := make(Values, len(values)+1)
	for k, v := range values {
		row[k] = v
	}
	row[ColumnUpdatedAt] = s.now()
	cols := sortedColumns(row)
	sets := make([]string, len(cols))
	args := make([]interface{}, 0, len(cols)+len(ids))
	for i, c := range cols {
		sets[i] = c + " = ?"
		args = append(args, row[c])
	}
	for _, id := range ids {
		args = append(args, id)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id IN (%s)",
		table, strings.Join(sets, ", "), placeholders(len(ids)))
	if _, err := tx.ExecContext(ctx, s.DB.Rebind(query), args...); err != nil {
		return s.classify("update", table, err)
	}
	if dest != nil {
		if err := s.getByID(ctx, tx, table, ids[0], dest); err != nil {
			return s.classify("update", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return s.classify("update", table, err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, table string, filters []Filter) error {
	if err := checkQuery("delete", table, Query{Filters: filters}); err != nil {
		return err
	}
	where, args := s.whereSQL(filters)
	query := "DELETE FROM " + table + where
	res, err := s.DB.ExecContext(ctx, s.DB.Rebind(query), args...)
	if err != nil {
		return s.classify("delete", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.classify("delete", table, err)
	}
	if n == 0 {
		return newError(KindNotFound, "delete", table, nil)
	}
	return nil
}

func (s *SQL) getByID(ctx context.Context, tx *sqlx.Tx, table, id string, dest interface{}) error {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", selectList(table), table)
	return tx.GetContext(ctx, dest, s.DB.Rebind(query), id)
}

func (s *SQL) selectSQL(table, cols string, q Query) (string, []interface{}) {
	where, args := s.whereSQL(q.Filters)
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s%s", cols, table, where)
	if len(q.Order) > 0 {
		parts := make([]string, len(q.Order))
		for i, o := range q.Order {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts[i] = o.Column + " " + dir
		}
		b.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	return s.DB.Rebind(b.String()), args
}

var sqlOps = map[Op]string{
	OpEq: "=", OpNeq: "<>", OpLt: "<", OpLte: "<=", OpGt: ">", OpGte: ">=",
}

func (s *SQL) whereSQL(filters []Filter) (string, []interface{}) {
	if len(filters) == 0 {
		return "", nil
	}
	conds := make([]string, 0, len(filters))
	var args []interface{}
	for _, f := range filters {
		if f.Op == OpIn {
			vs := f.Value.([]interface{})
			if len(vs) == 0 {
				conds = append(conds, "1 = 0")
				continue
			}
			conds = append(conds, fmt.Sprintf("%s IN (%s)", f.Column, placeholders(len(vs))))
			args = append(args, vs...)
			continue
		}
		conds = append(conds, fmt.Sprintf("%s %s ?", f.Column, sqlOps[f.Op]))
		args = append(args, f.Value)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// classify maps driver errors onto store error kinds.
func (s *SQL) classify(op, table string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return newError(KindNotFound, op, table, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return newError(KindUnavailable, op, table, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "23": // integrity constraint violation
			if pqErr.Code == "23502" || pqErr.Code == "23514" {
				return newError(KindInvalid, op, table, err)
			}
			return newError(KindConflict, op, table, err)
		case "22", "42":
			return newError(KindInvalid, op, table, err)
		}
		return newError(KindUnavailable, op, table, err)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"), strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return newError(KindConflict, op, table, err)
	case strings.Contains(msg, "NOT NULL constraint failed"), strings.Contains(msg, "CHECK constraint failed"):
		return newError(KindInvalid, op, table, err)
	}
	return newError(KindUnavailable, op, table, err)
}

func sortedColumns(values Values) []string {
	cols := make([]string, 0, len(values))
	for c := range values {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
