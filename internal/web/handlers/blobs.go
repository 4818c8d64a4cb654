package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/group-memory/internal/blob"
)

// BlobsHandler serves blobs written by the file backend
type BlobsHandler struct {
	files *blob.FileStore // nil unless the file backend is active
}

// NewBlobsHandler creates a new blobs handler
func NewBlobsHandler(files *blob.FileStore) *BlobsHandler {
	return &BlobsHandler{files: files}
}

// Get streams a blob by key
func (h *BlobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.files == nil {
		respondError(w, http.StatusNotFound, "blob not found")
		return
	}

	obj, err := h.files.Open(chi.URLParam(r, "key"))
	if err != nil {
		respondError(w, http.StatusNotFound, "blob not found")
		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Cache-Control", "private, max-age=86400, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(obj.Data)
}
