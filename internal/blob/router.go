package blob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kozaktomas/group-memory/internal/config"
)

// Supported backends.
const (
	BackendInline = "inline"
	BackendFile   = "file"
	BackendS3     = "s3"
)

// Router writes to the configured backend and reads any URL scheme it knows,
// so groups created under an earlier backend stay readable.
type Router struct {
	backend string
	primary Store
	inline  *InlineStore
	file    *FileStore
	s3      *S3Store
	http    Getter
}

// New builds the router for cfg.
func New(ctx context.Context, cfg *config.BlobConfig, fetchTimeout time.Duration) (*Router, error) {
	r := &Router{
		backend: strings.ToLower(cfg.Backend),
		inline:  NewInlineStore(),
		http:    NewHTTPGetter(fetchTimeout),
	}

	switch r.backend {
	case BackendInline, "":
		r.backend = BackendInline
		r.primary = r.inline
	case BackendFile:
		fs, err := NewFileStore(cfg.Dir, cfg.PublicURL)
		if err != nil {
			return nil, err
		}
		r.file = fs
		r.primary = fs
	case BackendS3:
		s3s, err := NewS3Store(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		r.s3 = s3s
		r.primary = s3s
	default:
		return nil, fmt.Errorf("unsupported blob backend: %s", cfg.Backend)
	}
	return r, nil
}

// NewRouter assembles a router from explicit parts. Nil parts are skipped.
func NewRouter(backend string, primary Store, file *FileStore, s3s *S3Store, httpGetter Getter) *Router {
	return &Router{
		backend: backend,
		primary: primary,
		inline:  NewInlineStore(),
		file:    file,
		s3:      s3s,
		http:    httpGetter,
	}
}

// Backend returns the name of the backend used for writes.
func (r *Router) Backend() string {
	return r.backend
}

// Files returns the filesystem store, or nil when another backend is active.
func (r *Router) Files() *FileStore {
	return r.file
}

func (r *Router) Put(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	return r.primary.Put(ctx, data, filename, contentType)
}

func (r *Router) Get(ctx context.Context, url string) (*Object, error) {
	switch {
	case strings.HasPrefix(url, "data:"):
		return r.inline.Get(ctx, url)
	case r.file != nil && r.file.Owns(url):
		return r.file.Get(ctx, url)
	case strings.HasPrefix(url, "s3://"):
		if r.s3 == nil {
			return nil, fmt.Errorf("%w: s3 backend is not configured", ErrUnavailable)
		}
		return r.s3.Get(ctx, url)
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		if r.http == nil {
			return nil, fmt.Errorf("%w: remote fetching is disabled", ErrUnavailable)
		}
		return r.http.Get(ctx, url)
	default:
		return nil, fmt.Errorf("%w: unsupported blob URL", ErrUnavailable)
	}
}
