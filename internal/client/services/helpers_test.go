package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/theyard/yard/internal/client/upload"
	"github.com/theyard/yard/internal/store"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// failingStore wraps a MemoryStore and fails every call on the named table.
type failingStore struct {
	*store.MemoryStore
	table string
	err   error
}

func (f *failingStore) Select(ctx context.Context, q store.Query) ([]store.Row, error) {
	if q.Table == f.table {
		return nil, f.err
	}
	return f.MemoryStore.Select(ctx, q)
}

func (f *failingStore) Single(ctx context.Context, q store.Query) (store.Row, error) {
	if q.Table == f.table {
		return nil, f.err
	}
	return f.MemoryStore.Single(ctx, q)
}

func (f *failingStore) Insert(ctx context.Context, table string, row store.Row) error {
	if table == f.table {
		return f.err
	}
	return f.MemoryStore.Insert(ctx, table, row)
}

func (f *failingStore) Upsert(ctx context.Context, table string, row store.Row, c store.Conflict) error {
	if table == f.table {
		return f.err
	}
	return f.MemoryStore.Upsert(ctx, table, row, c)
}

var errBoom = errors.New("boom")

type fakeUploader struct {
	mu    sync.Mutex
	names []string
	fail  string
	block chan struct{}
}

func (u *fakeUploader) Upload(ctx context.Context, doc upload.Document) (string, error) {
	if u.block != nil {
		<-u.block
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.names = append(u.names, doc.Name)
	if doc.Name == u.fail {
		return "", &upload.ProviderError{Provider: "fake", Status: 400, Message: "Invalid file"}
	}
	return "https://files.test/" + doc.Name, nil
}

func seedSubscription(st *store.MemoryStore, userID, status string, end time.Time, allowed int) {
	st.Seed(tableSubscription, store.Row{
		"id":               "sub-" + userID,
		"userId":           userID,
		"priceId":          "price_1Q6aumGpnjr9yNMYtwh7nf8y",
		"status":           status,
		"currentPeriodEnd": end,
		"allowedPets":      allowed,
	})
}

func seedPet(st *store.MemoryStore, id, owner, name string, created time.Time) {
	st.Seed(tablePet, store.Row{
		"id":          id,
		"ownerUserId": owner,
		"name":        name,
		"age":         3,
		"breed":       "Beagle",
		"gender":      "female",
		"createdAt":   created,
	})
}
