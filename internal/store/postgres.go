package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/theyard/yard/internal/common"
	"github.com/theyard/yard/internal/dbx"
)

var errNoTable = errors.New("table name is required")

// PostgresStore runs Queries against the hosted Postgres database.
// Identifiers are always quoted, so mixed-case table names such as "CheckIn"
// are preserved.
type PostgresStore struct {
	db dbx.DBTX
}

func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens a pgx-backed *sql.DB and checks connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

// whereClause renders filters as `"a" = $n AND ...` starting at placeholder start.
func whereClause(filters []Filter, start int) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	parts := make([]string, len(filters))
	args := make([]any, len(filters))
	for i, f := range filters {
		parts[i] = quoteIdent(f.Column) + " = $" + strconv.Itoa(start+i)
		args[i] = f.Value
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func sortedColumns(row Row) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func buildSelect(q Query) (string, []any) {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	if len(q.Columns) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(quoteIdents(q.Columns))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(quoteIdent(q.Table))

	where, args := whereClause(q.Filters, 1)
	sb.WriteString(where)

	if len(q.Order) > 0 {
		parts := make([]string, len(q.Order))
		for i, o := range q.Order {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts[i] = quoteIdent(o.Column) + " " + dir
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(q.Limit))
	}

	return sb.String(), args
}

func buildInsert(table string, row Row) (string, []any) {
	cols := sortedColumns(row)
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = row[c]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), quoteIdents(cols), strings.Join(placeholders, ", "))
	return query, args
}

func buildUpsert(table string, row Row, c Conflict) (string, []any) {
	query, args := buildInsert(table, row)

	inConflict := make(map[string]struct{}, len(c.Columns))
	for _, col := range c.Columns {
		inConflict[col] = struct{}{}
	}

	var sets []string
	if !c.IgnoreDuplicates {
		for _, col := range sortedColumns(row) {
			if _, ok := inConflict[col]; ok {
				continue
			}
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", quoteIdent(col), quoteIdent(col)))
		}
	}

	query += " ON CONFLICT (" + quoteIdents(c.Columns) + ")"
	if len(sets) == 0 {
		query += " DO NOTHING"
	} else {
		query += " DO UPDATE SET " + strings.Join(sets, ", ")
	}
	return query, args
}

func buildUpdate(table string, values Row, filters []Filter) (string, []any) {
	cols := sortedColumns(values)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(filters))
	for i, c := range cols {
		sets[i] = quoteIdent(c) + " = $" + strconv.Itoa(i+1)
		args = append(args, values[c])
	}

	where, wargs := whereClause(filters, len(cols)+1)
	args = append(args, wargs...)

	return "UPDATE " + quoteIdent(table) + " SET " + strings.Join(sets, ", ") + where, args
}

func buildCount(table string, filters []Filter) (string, []any) {
	where, args := whereClause(filters, 1)
	return "SELECT COUNT(*) FROM " + quoteIdent(table) + where, args
}

func (s *PostgresStore) Select(ctx context.Context, q Query) ([]Row, error) {
	if q.Table == "" {
		return nil, errNoTable
	}

	query, args := buildSelect(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (s *PostgresStore) Single(ctx context.Context, q Query) (Row, error) {
	q.Limit = 1
	rows, err := s.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, common.ErrorNotFound
	}
	return rows[0], nil
}

func (s *PostgresStore) Insert(ctx context.Context, table string, row Row) error {
	if table == "" {
		return errNoTable
	}
	query, args := buildInsert(table, row)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) Upsert(ctx context.Context, table string, row Row, conflict Conflict) error {
	if table == "" {
		return errNoTable
	}
	if len(conflict.Columns) == 0 {
		return errors.New("upsert needs conflict columns")
	}
	query, args := buildUpsert(table, row, conflict)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, table string, values Row, filters ...Filter) (int64, error) {
	if table == "" {
		return 0, errNoTable
	}
	if len(filters) == 0 {
		return 0, errors.New("update without filters is not allowed")
	}
	query, args := buildUpdate(table, values, filters)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Count(ctx context.Context, table string, filters ...Filter) (int, error) {
	if table == "" {
		return 0, errNoTable
	}
	query, args := buildCount(table, filters)
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return int(n), nil
}
