package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/group-memory/internal/constants"
	"github.com/kozaktomas/group-memory/internal/database"
)

// MembersHandler handles member endpoints
type MembersHandler struct {
	store database.GroupWriter
}

// NewMembersHandler creates a new members handler
func NewMembersHandler(store database.GroupWriter) *MembersHandler {
	return &MembersHandler{store: store}
}

// AddMemberRequest is the body of POST /groups/{id}/members
type AddMemberRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Add appends a member to a group
func (h *MembersHandler) Add(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		respondError(w, http.StatusBadRequest, "group id is required")
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, constants.MaxUploadSize)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if utf8.RuneCountInString(req.Name) > constants.MaxNameLength {
		respondError(w, http.StatusBadRequest, "name is too long")
		return
	}
	if utf8.RuneCountInString(req.Description) > constants.MaxDescriptionLength {
		respondError(w, http.StatusBadRequest, "description is too long")
		return
	}

	member, err := h.store.AddMember(r.Context(), groupID, req.Name, req.Description)
	switch {
	case errors.Is(err, database.ErrGroupNotFound):
		respondError(w, http.StatusNotFound, "group not found")
		return
	case errors.Is(err, database.ErrDuplicateMember):
		respondError(w, http.StatusConflict, "a member with this name already exists in the group")
		return
	case errors.Is(err, database.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("failed to add member", "group_id", sanitizeForLog(groupID), "error", err)
		respondError(w, http.StatusInternalServerError, "failed to add member")
		return
	}

	slog.Info("member added", "group_id", groupID, "member_id", member.ID)
	respondJSON(w, http.StatusCreated, toMemberResponse(*member))
}
