// Package store is the row-oriented gateway to the remote data store.
//
// Screens never build SQL. They describe what they need with a Query
// (table, equality filters, ordering, limit) and map the returned Rows into
// domain types with Fetch or FetchOne. Two backends implement Store:
// PostgresStore for the hosted database and MemoryStore for tests and the
// offline demo.
package store

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Row is one record keyed by column name.
type Row map[string]any

// Filter is an equality predicate: Column = Value.
type Filter struct {
	Column string
	Value  any
}

// Eq is shorthand for Filter{Column: column, Value: value}.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

type Order struct {
	Column string
	Desc   bool
}

// Query selects Columns (all when empty) from Table.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	Order   []Order
	Limit   int
}

// Conflict configures Upsert. With IgnoreDuplicates an existing row keyed by
// Columns is left untouched, otherwise its remaining columns are overwritten.
type Conflict struct {
	Columns          []string
	IgnoreDuplicates bool
}

type Store interface {
	Select(ctx context.Context, q Query) ([]Row, error)
	// Single returns the first matching row or common.ErrorNotFound.
	Single(ctx context.Context, q Query) (Row, error)
	Insert(ctx context.Context, table string, row Row) error
	Upsert(ctx context.Context, table string, row Row, conflict Conflict) error
	// Update sets values on every row matching filters and reports how many
	// rows changed. At least one filter is required.
	Update(ctx context.Context, table string, values Row, filters ...Filter) (int64, error)
	Count(ctx context.Context, table string, filters ...Filter) (int, error)
}

func (r Row) Has(col string) bool {
	v, ok := r[col]
	return ok && v != nil
}

func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func (r Row) Int(col string) int {
	switch v := r[col].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	case []byte:
		n, _ := strconv.Atoi(string(v))
		return n
	default:
		return 0
	}
}

func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Time reads timestamp and date columns. Text values in RFC 3339, Postgres
// or YYYY-MM-DD form are parsed; anything else yields the zero time.
func (r Row) Time(col string) time.Time {
	switch v := r[col].(type) {
	case time.Time:
		return v
	case string:
		return parseTime(v)
	case []byte:
		return parseTime(string(v))
	default:
		return time.Time{}
	}
}

// TimePtr is Time for nullable columns.
func (r Row) TimePtr(col string) *time.Time {
	t := r.Time(col)
	if t.IsZero() {
		return nil
	}
	return &t
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
