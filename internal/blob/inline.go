package blob

import (
	"context"
	"errors"
)

// InlineStore keeps the image inside the URL itself as a base64 data URL.
// The record store then carries the whole photo.
type InlineStore struct{}

// NewInlineStore creates an inline store.
func NewInlineStore() *InlineStore {
	return &InlineStore{}
}

func (s *InlineStore) Put(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty upload")
	}
	return EncodeDataURL(data, DetectContentType(data, contentType)), nil
}

func (s *InlineStore) Get(ctx context.Context, url string) (*Object, error) {
	return ParseDataURL(url)
}
