// Package view holds per-screen data state.
package view

import (
	"context"
	"sync"
)

// Loader fetches the data behind one screen.
type Loader[T any] func(ctx context.Context) (T, error)

// Resource tracks one loader's latest result. Every screen keeps its rows in
// a Resource and re-runs the same loader on refresh.
type Resource[T any] struct {
	load Loader[T]

	mu      sync.RWMutex
	loading bool
	loaded  bool
	data    T
	err     error
}

func NewResource[T any](load Loader[T]) *Resource[T] {
	return &Resource[T]{load: load}
}

// Load runs the loader. On failure the previous data is kept and Err is set.
func (r *Resource[T]) Load(ctx context.Context) (T, error) {
	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()

	data, err := r.load(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	r.err = err
	if err == nil {
		r.data = data
		r.loaded = true
	}
	return data, err
}

// Refresh re-issues the same query.
func (r *Resource[T]) Refresh(ctx context.Context) (T, error) {
	return r.Load(ctx)
}

// State is a snapshot for rendering.
type State[T any] struct {
	Loading bool
	Loaded  bool
	Data    T
	Err     error
}

func (r *Resource[T]) State() State[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return State[T]{Loading: r.loading, Loaded: r.loaded, Data: r.data, Err: r.err}
}
