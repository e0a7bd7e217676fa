package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/theyard/yard/internal/common"
)

// ErrDuplicateKey mirrors the unique-violation a real database reports.
var ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

// DefaultKeys are the unique keys of the Yard tables.
var DefaultKeys = map[string][]string{
	"User":         {"id"},
	"Pet":          {"id"},
	"CheckIn":      {"id"},
	"Subscription": {"userId"},
	"Terms":        {"version"},
}

// MemoryStore keeps rows in process. Tables spring into existence on first
// insert. Rows are copied on the way in and out.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]Row
	keys   map[string][]string
}

func NewMemoryStore() *MemoryStore {
	keys := make(map[string][]string, len(DefaultKeys))
	for t, k := range DefaultKeys {
		keys[t] = k
	}
	return &MemoryStore{tables: make(map[string][]Row), keys: keys}
}

// Seed appends rows without key checks.
func (m *MemoryStore) Seed(table string, rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.tables[table] = append(m.tables[table], r.clone())
	}
}

func (m *MemoryStore) keyOf(table string) []string {
	if k, ok := m.keys[table]; ok {
		return k
	}
	return []string{"id"}
}

func matches(row Row, filters []Filter) bool {
	for _, f := range filters {
		if !equalValues(row[f.Column], f.Value) {
			return false
		}
	}
	return true
}

func (m *MemoryStore) findByKey(table string, cols []string, row Row) int {
	for _, c := range cols {
		if !row.Has(c) {
			return -1
		}
	}
	for i, existing := range m.tables[table] {
		same := true
		for _, c := range cols {
			if !equalValues(existing[c], row[c]) {
				same = false
				break
			}
		}
		if same {
			return i
		}
	}
	return -1
}

func (m *MemoryStore) Select(ctx context.Context, q Query) ([]Row, error) {
	if q.Table == "" {
		return nil, errNoTable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	var out []Row
	for _, r := range m.tables[q.Table] {
		if matches(r, q.Filters) {
			out = append(out, r.clone())
		}
	}
	m.mu.RUnlock()

	if len(q.Order) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.Order {
				c := compareValues(out[i][o.Column], out[j][o.Column])
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}

	if len(q.Columns) > 0 {
		for i, r := range out {
			projected := make(Row, len(q.Columns))
			for _, c := range q.Columns {
				projected[c] = r[c]
			}
			out[i] = projected
		}
	}

	return out, nil
}

func (m *MemoryStore) Single(ctx context.Context, q Query) (Row, error) {
	q.Limit = 1
	rows, err := m.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, common.ErrorNotFound
	}
	return rows[0], nil
}

func (m *MemoryStore) Insert(ctx context.Context, table string, row Row) error {
	if table == "" {
		return errNoTable
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findByKey(table, m.keyOf(table), row) >= 0 {
		return fmt.Errorf("%w on %s", ErrDuplicateKey, table)
	}
	m.tables[table] = append(m.tables[table], row.clone())
	return nil
}

func (m *MemoryStore) Upsert(ctx context.Context, table string, row Row, conflict Conflict) error {
	if table == "" {
		return errNoTable
	}
	if len(conflict.Columns) == 0 {
		return errors.New("upsert needs conflict columns")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.findByKey(table, conflict.Columns, row)
	switch {
	case i < 0:
		m.tables[table] = append(m.tables[table], row.clone())
	case conflict.IgnoreDuplicates:
	default:
		for k, v := range row {
			m.tables[table][i][k] = v
		}
	}
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, table string, values Row, filters ...Filter) (int64, error) {
	if table == "" {
		return 0, errNoTable
	}
	if len(filters) == 0 {
		return 0, errors.New("update without filters is not allowed")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, r := range m.tables[table] {
		if !matches(r, filters) {
			continue
		}
		for k, v := range values {
			r[k] = v
		}
		n++
	}
	return n, nil
}

func (m *MemoryStore) Count(ctx context.Context, table string, filters ...Filter) (int, error) {
	if table == "" {
		return 0, errNoTable
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, r := range m.tables[table] {
		if matches(r, filters) {
			n++
		}
	}
	return n, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return compareValues(a, b) == 0
}

// compareValues orders nil first, then numbers, times and finally the
// string form of anything else.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
