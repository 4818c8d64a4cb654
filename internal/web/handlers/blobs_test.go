package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/group-memory/internal/blob"
)

func TestBlobsHandler_Get(t *testing.T) {
	files, err := blob.NewFileStore(t.TempDir(), "/api/v1/blobs")
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	url, err := files.Put(t.Context(), pngBytes, "band.png", "image/png")
	if err != nil {
		t.Fatalf("failed to put blob: %v", err)
	}
	key := strings.TrimPrefix(url, "/api/v1/blobs/")

	handler := NewBlobsHandler(files)

	req := requestWithChiParams(httptest.NewRequest("GET", url, nil), map[string]string{"key": key})
	recorder := httptest.NewRecorder()
	handler.Get(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "image/png")
	if !bytes.Equal(recorder.Body.Bytes(), pngBytes) {
		t.Error("expected blob bytes")
	}
}

func TestBlobsHandler_NotFound(t *testing.T) {
	files, err := blob.NewFileStore(t.TempDir(), "/api/v1/blobs")
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	tests := []struct {
		name    string
		handler *BlobsHandler
		key     string
	}{
		{"missing key", NewBlobsHandler(files), "nope.png"},
		{"dot file", NewBlobsHandler(files), ".env"},
		{"file backend disabled", NewBlobsHandler(nil), "x.png"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := requestWithChiParams(httptest.NewRequest("GET", "/api/v1/blobs/"+tc.key, nil), map[string]string{"key": tc.key})
			recorder := httptest.NewRecorder()
			tc.handler.Get(recorder, req)

			assertStatusCode(t, recorder, http.StatusNotFound)
			assertJSONError(t, recorder, "blob not found")
		})
	}
}
