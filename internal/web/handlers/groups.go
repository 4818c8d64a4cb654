package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/group-memory/internal/blob"
	"github.com/kozaktomas/group-memory/internal/constants"
	"github.com/kozaktomas/group-memory/internal/database"
)

// GroupsHandler handles group endpoints
type GroupsHandler struct {
	store database.GroupStore
	blobs blob.Store
}

// NewGroupsHandler creates a new groups handler
func NewGroupsHandler(store database.GroupStore, blobs blob.Store) *GroupsHandler {
	return &GroupsHandler{
		store: store,
		blobs: blobs,
	}
}

// List returns all groups, newest first
func (h *GroupsHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.store.ListGroups(r.Context())
	if err != nil {
		slog.Error("failed to list groups", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list groups")
		return
	}

	result := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		result = append(result, toGroupResponse(g))
	}
	respondJSON(w, http.StatusOK, result)
}

// Create stores the uploaded photo and creates a group referencing it
func (h *GroupsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if utf8.RuneCountInString(name) > constants.MaxNameLength {
		respondError(w, http.StatusBadRequest, "name is too long")
		return
	}

	img, err := readUpload(r, "image")
	if errors.Is(err, errNoFile) {
		respondError(w, http.StatusBadRequest, "image is required")
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read image")
		return
	}
	if !blob.IsImage(img.ContentType) {
		respondError(w, http.StatusBadRequest, "image must be an image file")
		return
	}

	// The photo must be stored before the group row references it.
	url, err := h.blobs.Put(r.Context(), img.Data, img.Filename, img.ContentType)
	if err != nil {
		slog.Error("failed to store group photo", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	group, err := h.store.CreateGroup(r.Context(), name, url)
	if errors.Is(err, database.ErrInvalidInput) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to create group", "name", sanitizeForLog(name), "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create group")
		return
	}

	slog.Info("group created", "group_id", group.ID, "name", sanitizeForLog(group.Name))
	respondJSON(w, http.StatusCreated, toGroupDetail(*group))
}

// Get returns a group with its members
func (h *GroupsHandler) Get(w http.ResponseWriter, r *http.Request) {
	group, ok := h.loadGroup(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toGroupDetail(*group))
}

// Image streams the group photo with its content type
func (h *GroupsHandler) Image(w http.ResponseWriter, r *http.Request) {
	group, ok := h.loadGroup(w, r)
	if !ok {
		return
	}

	obj, err := h.blobs.Get(r.Context(), group.ImageURL)
	if err != nil {
		slog.Warn("group photo unavailable", "group_id", group.ID, "error", err)
		respondError(w, http.StatusBadGateway, "group image unavailable")
		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(obj.Data)
}

// loadGroup resolves the {id} URL parameter. It writes the error response
// and returns false when the group cannot be loaded.
func (h *GroupsHandler) loadGroup(w http.ResponseWriter, r *http.Request) (*database.Group, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "group id is required")
		return nil, false
	}

	group, err := h.store.GetGroup(r.Context(), id)
	if err != nil {
		slog.Error("failed to get group", "group_id", sanitizeForLog(id), "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get group")
		return nil, false
	}
	if group == nil {
		respondError(w, http.StatusNotFound, "group not found")
		return nil, false
	}
	return group, true
}
