// Package upload stores pet certificate documents in object storage and
// returns their durable URLs.
package upload

import (
	"context"
	"strings"
)

// Document is one file picked on the add-pet form.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

type Uploader interface {
	Upload(ctx context.Context, doc Document) (url string, err error)
}

// ProviderError is a rejection reported by the storage provider. Message is
// the provider's own text.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	return e.Message
}

func safeName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		return "upload.pdf"
	}
	return name
}
