package store

import "context"

// Mapper converts a raw row into T.
type Mapper[T any] func(Row) (T, error)

// Fetch runs q and maps every row.
func Fetch[T any](ctx context.Context, s Store, q Query, m Mapper[T]) ([]T, error) {
	rows, err := s.Select(ctx, q)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		v, err := m(row)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// FetchOne runs q through Single and maps the row. A missing row surfaces as
// common.ErrorNotFound so callers can treat it as an empty state.
func FetchOne[T any](ctx context.Context, s Store, q Query, m Mapper[T]) (T, error) {
	var zero T

	row, err := s.Single(ctx, q)
	if err != nil {
		return zero, err
	}
	return m(row)
}
