// Package blob stores uploaded images and reads them back by URL.
package blob

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/kozaktomas/group-memory/internal/constants"
)

// ErrUnavailable is returned when a blob cannot be fetched or its content is
// corrupt, including a malformed data URL.
var ErrUnavailable = errors.New("blob unavailable")

// Object is a fetched blob.
type Object struct {
	Data        []byte
	ContentType string
}

// Store accepts uploads and returns a durable URL that Get can resolve later.
type Store interface {
	// Put stores data and returns its URL
	Put(ctx context.Context, data []byte, filename, contentType string) (string, error)
	// Get fetches the blob behind url
	Get(ctx context.Context, url string) (*Object, error)
}

// Getter is the read half of Store.
type Getter interface {
	Get(ctx context.Context, url string) (*Object, error)
}

var dataURLMimeRegexp = regexp.MustCompile(`:(.*?);`)

// EncodeDataURL returns data as a base64 data URL.
func EncodeDataURL(data []byte, contentType string) string {
	if contentType == "" {
		contentType = constants.DefaultContentType
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL decodes a base64 data URL. The header and payload must be
// separated by exactly one comma. A header without a MIME type falls back to
// image/png.
func ParseDataURL(url string) (*Object, error) {
	if !strings.HasPrefix(url, "data:") {
		return nil, fmt.Errorf("%w: not a data URL", ErrUnavailable)
	}
	parts := strings.Split(url, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: malformed data URL", ErrUnavailable)
	}

	contentType := constants.DefaultContentType
	if m := dataURLMimeRegexp.FindStringSubmatch(parts[0]); m != nil && m[1] != "" {
		contentType = m[1]
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload: %v", ErrUnavailable, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data URL", ErrUnavailable)
	}
	return &Object{Data: data, ContentType: contentType}, nil
}

// readLimited reads r up to MaxBlobFetchSize bytes. Larger content is
// rejected rather than truncated.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, constants.MaxBlobFetchSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if len(data) > constants.MaxBlobFetchSize {
		return nil, fmt.Errorf("%w: blob exceeds %d bytes", ErrUnavailable, constants.MaxBlobFetchSize)
	}
	return data, nil
}

// DetectContentType returns contentType if it names an image, otherwise the
// sniffed type of data.
func DetectContentType(data []byte, contentType string) string {
	if strings.HasPrefix(contentType, "image/") {
		return contentType
	}
	return http.DetectContentType(data)
}

// IsImage reports whether the content type is an image type.
func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
