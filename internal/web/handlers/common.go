package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kozaktomas/group-memory/internal/database"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// GroupResponse represents a group in API responses
type GroupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int       `json:"member_count"`
}

// GroupDetailResponse is a group with its roster
type GroupDetailResponse struct {
	GroupResponse
	Members []MemberResponse `json:"members"`
}

func toMemberResponse(m database.Member) MemberResponse {
	return MemberResponse{
		ID:          m.ID,
		GroupID:     m.GroupID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

// toGroupResponse converts a group. Inline data URLs are replaced with the
// image endpoint so list responses stay small.
func toGroupResponse(g database.Group) GroupResponse {
	resp := GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		ImageURL:    g.ImageURL,
		CreatedAt:   g.CreatedAt,
		MemberCount: g.MemberCount,
	}
	if strings.HasPrefix(g.ImageURL, "data:") {
		resp.ImageURL = "/api/v1/groups/" + g.ID + "/image"
	}
	return resp
}

func toGroupDetail(g database.Group) GroupDetailResponse {
	resp := GroupDetailResponse{
		GroupResponse: toGroupResponse(g),
		Members:       make([]MemberResponse, 0, len(g.Members)),
	}
	for _, m := range g.Members {
		resp.Members = append(resp.Members, toMemberResponse(m))
	}
	resp.MemberCount = len(g.Members)
	return resp
}
