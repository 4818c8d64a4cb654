package handlers

import (
	"context"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/group-memory/internal/ai"
	"github.com/kozaktomas/group-memory/internal/ask"
	"github.com/kozaktomas/group-memory/internal/constants"
)

// Asker answers questions about a group.
type Asker interface {
	Ask(ctx context.Context, req ask.Request) ask.Result
}

// AskHandler handles the ask endpoint
type AskHandler struct {
	asker Asker
}

// NewAskHandler creates a new ask handler
func NewAskHandler(asker Asker) *AskHandler {
	return &AskHandler{asker: asker}
}

// AskResponse is the result of an ask
type AskResponse struct {
	Mode      string          `json:"mode"`
	Outcome   string          `json:"outcome"`
	Message   string          `json:"message"`
	Member    *MemberResponse `json:"member"`
	Ambiguous bool            `json:"ambiguous"`
}

// Ask identifies a person on the uploaded photo or answers a question about
// the group. Failures are reported in the body with status 200.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	if groupID == "" {
		respondError(w, http.StatusBadRequest, "group id is required")
		return
	}

	if err := parseMultipart(w, r); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	prompt := r.FormValue("prompt")
	if utf8.RuneCountInString(prompt) > constants.MaxPromptLength {
		respondError(w, http.StatusBadRequest, "prompt is too long")
		return
	}

	req := ask.Request{GroupID: groupID, Question: prompt}

	img, err := readUpload(r, "image")
	switch {
	case errors.Is(err, errNoFile):
		// question only
	case err != nil:
		respondError(w, http.StatusBadRequest, "failed to read image")
		return
	default:
		req.Image = &ai.Image{Data: img.Data, MIMEType: img.ContentType}
	}

	res := h.asker.Ask(r.Context(), req)

	resp := AskResponse{
		Mode:      string(res.Mode),
		Outcome:   string(res.Outcome),
		Message:   res.Message,
		Ambiguous: res.Ambiguous,
	}
	if res.Member != nil {
		m := toMemberResponse(*res.Member)
		resp.Member = &m
	}
	respondJSON(w, http.StatusOK, resp)
}
