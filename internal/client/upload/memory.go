package upload

import (
	"context"
	"sync"
	"time"
)

// MemoryUploader keeps documents in process. It backs the demo backend.
type MemoryUploader struct {
	mu   sync.Mutex
	docs map[string]Document
	now  func() time.Time
}

func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{docs: make(map[string]Document), now: time.Now}
}

func (u *MemoryUploader) Upload(ctx context.Context, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	url := "memory://" + StorageKey(u.now().UTC(), doc.Name)

	u.mu.Lock()
	u.docs[url] = doc
	u.mu.Unlock()
	return url, nil
}

// Get returns a stored document by the URL Upload returned.
func (u *MemoryUploader) Get(url string) (Document, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	d, ok := u.docs[url]
	return d, ok
}
