package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kozaktomas/group-memory/internal/constants"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestParseDataURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantType string
		wantErr  bool
	}{
		{"png", "data:image/png;base64,aGVsbG8=", "image/png", false},
		{"jpeg", "data:image/jpeg;base64,aGVsbG8=", "image/jpeg", false},
		{"no mime falls back to png", "data:;base64,aGVsbG8=", "image/png", false},
		{"no comma", "data:image/png;base64", "", true},
		{"two commas", "data:image/png;base64,aGVs,bG8=", "", true},
		{"bad base64", "data:image/png;base64,###", "", true},
		{"empty payload", "data:image/png;base64,", "", true},
		{"not a data url", "https://example.com/a.png", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := ParseDataURL(tc.url)
			if tc.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Errorf("expected ErrUnavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if obj.ContentType != tc.wantType {
				t.Errorf("content type = %s, want %s", obj.ContentType, tc.wantType)
			}
			if string(obj.Data) != "hello" {
				t.Errorf("data = %q, want hello", obj.Data)
			}
		})
	}
}

func TestInlineStore_RoundTrip(t *testing.T) {
	s := NewInlineStore()
	ctx := context.Background()

	url, err := s.Put(ctx, pngHeader, "group.png", "")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("unexpected URL prefix %q", url[:30])
	}

	obj, err := s.Get(ctx, url)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(obj.Data, pngHeader) {
		t.Error("data mismatch after round trip")
	}

	if _, err := s.Put(ctx, nil, "x.png", "image/png"); err == nil {
		t.Error("expected error for empty upload")
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "/blobs/")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	url, err := s.Put(ctx, pngHeader, "Group.PNG", "image/png")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.HasPrefix(url, "/blobs/") || !strings.HasSuffix(url, ".png") {
		t.Errorf("unexpected URL %q", url)
	}
	if !s.Owns(url) {
		t.Error("expected store to own its URL")
	}

	obj, err := s.Get(ctx, url)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if obj.ContentType != "image/png" {
		t.Errorf("content type = %s, want image/png", obj.ContentType)
	}
	if !bytes.Equal(obj.Data, pngHeader) {
		t.Error("data mismatch")
	}

	t.Run("missing key", func(t *testing.T) {
		if _, err := s.Open("does-not-exist.png"); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		for _, key := range []string{"../secret", "a/b.png", `..\x`, ".hidden", ""} {
			if _, err := s.Open(key); !errors.Is(err, ErrUnavailable) {
				t.Errorf("Open(%q): expected ErrUnavailable, got %v", key, err)
			}
		}
	})

	t.Run("foreign url", func(t *testing.T) {
		if _, err := s.Get(ctx, "/other/abc.png"); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		want        string
	}{
		{"photo.JPG", "image/jpeg", ".jpg"},
		{"photo", "image/jpeg", ".jpg"},
		{"", "image/png", ".png"},
		{"", "image/webp", ".webp"},
		{"", "", ""},
	}
	for _, tc := range tests {
		if got := extensionFor(tc.filename, tc.contentType); got != tc.want {
			t.Errorf("extensionFor(%q, %q) = %q, want %q", tc.filename, tc.contentType, got, tc.want)
		}
	}
}

// fakeS3 is an in-memory S3API.
type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	getErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, _ := io.ReadAll(in.Body)
	k := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[k] = data
	f.types[k] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	k := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	data, ok := f.objects[k]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(data)),
		ContentType: aws.String(f.types[k]),
	}, nil
}

func TestS3Store(t *testing.T) {
	fake := newFakeS3()
	s := NewS3StoreWithClient(fake, "photos", "/groups/")
	ctx := context.Background()

	url, err := s.Put(ctx, pngHeader, "g.png", "image/png")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.HasPrefix(url, "s3://photos/groups/") {
		t.Errorf("unexpected URL %q", url)
	}

	obj, err := s.Get(ctx, url)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if obj.ContentType != "image/png" || !bytes.Equal(obj.Data, pngHeader) {
		t.Errorf("unexpected object: %s, %d bytes", obj.ContentType, len(obj.Data))
	}

	if _, err := s.Get(ctx, "s3://photos"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for malformed URL, got %v", err)
	}

	fake.getErr = errors.New("access denied")
	if _, err := s.Get(ctx, url); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable on client error, got %v", err)
	}
}

func TestHTTPGetter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/group.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(pngHeader)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	g := NewHTTPGetter(5 * time.Second)
	ctx := context.Background()

	obj, err := g.Get(ctx, server.URL+"/group.png")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if obj.ContentType != "image/png" {
		t.Errorf("content type = %s", obj.ContentType)
	}

	if _, err := g.Get(ctx, server.URL+"/missing.png"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for 404, got %v", err)
	}
}

func TestHTTPGetter_SizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		wantErr bool
	}{
		{"at limit", constants.MaxBlobFetchSize, false},
		{"one byte over", constants.MaxBlobFetchSize + 1, true},
		{"far over", constants.MaxBlobFetchSize + 1024, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/jpeg")
				w.Write(pngHeader)
				io.CopyN(w, zeroReader{}, tc.size-int64(len(pngHeader)))
			}))
			defer server.Close()

			obj, err := NewHTTPGetter(30*time.Second).Get(context.Background(), server.URL+"/big.jpg")
			if tc.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Fatalf("expected ErrUnavailable, got %v", err)
				}
				if !strings.Contains(err.Error(), "exceeds") {
					t.Errorf("expected size error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if int64(len(obj.Data)) != tc.size {
				t.Errorf("expected %d bytes, got %d", tc.size, len(obj.Data))
			}
		})
	}
}

func TestS3Store_SizeLimit(t *testing.T) {
	fake := newFakeS3()
	fake.objects["photos/big.jpg"] = make([]byte, constants.MaxBlobFetchSize+1)
	fake.types["photos/big.jpg"] = "image/jpeg"
	fake.objects["photos/ok.jpg"] = make([]byte, constants.MaxBlobFetchSize)
	fake.types["photos/ok.jpg"] = "image/jpeg"
	store := NewS3StoreWithClient(fake, "photos", "")

	_, err := store.Get(context.Background(), "s3://photos/big.jpg")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for oversized object, got %v", err)
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("expected size error, got %v", err)
	}

	obj, err := store.Get(context.Background(), "s3://photos/ok.jpg")
	if err != nil {
		t.Fatalf("object at the limit should be accepted: %v", err)
	}
	if len(obj.Data) != constants.MaxBlobFetchSize {
		t.Errorf("expected %d bytes, got %d", constants.MaxBlobFetchSize, len(obj.Data))
	}
}

// zeroReader yields zero bytes forever.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestRouter_Dispatch(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), "/blobs")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	fake := newFakeS3()
	s3s := NewS3StoreWithClient(fake, "bucket", "")
	r := NewRouter(BackendFile, fs, fs, s3s, nil)
	ctx := context.Background()

	fileURL, err := r.Put(ctx, pngHeader, "a.png", "image/png")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.HasPrefix(fileURL, "/blobs/") {
		t.Errorf("expected file URL, got %q", fileURL)
	}
	s3URL, _ := s3s.Put(ctx, pngHeader, "b.png", "image/png")

	for _, url := range []string{fileURL, s3URL, EncodeDataURL(pngHeader, "image/png")} {
		if _, err := r.Get(ctx, url); err != nil {
			t.Errorf("Get(%q) failed: %v", url, err)
		}
	}

	for _, url := range []string{"https://example.com/a.png", "ftp://x/y", "data:broken"} {
		if _, err := r.Get(ctx, url); !errors.Is(err, ErrUnavailable) {
			t.Errorf("Get(%q): expected ErrUnavailable, got %v", url, err)
		}
	}

	if r.Backend() != BackendFile || r.Files() != fs {
		t.Error("unexpected router accessors")
	}
}
