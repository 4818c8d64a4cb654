// Package ask implements the ask operation: it builds a prompt from a group's
// roster, sends it with the group photo to the model and interprets the reply.
package ask

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kozaktomas/group-memory/internal/ai"
	"github.com/kozaktomas/group-memory/internal/blob"
	"github.com/kozaktomas/group-memory/internal/constants"
	"github.com/kozaktomas/group-memory/internal/database"
)

// Outcome classifies the result of an ask.
type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeInvalidInput     Outcome = "invalid_input"
	OutcomeNotFound         Outcome = "not_found"
	OutcomeNoMembers        Outcome = "no_members"
	OutcomeNotConfigured    Outcome = "not_configured"
	OutcomeImageUnavailable Outcome = "image_unavailable"
	OutcomeModelError       Outcome = "model_error"
	OutcomeUnparseable      Outcome = "unparseable"
	OutcomeStoreError       Outcome = "store_error"
)

// Request is one ask. Image is the optional target photo; when present the
// request runs in identification mode.
type Request struct {
	GroupID  string
	Image    *ai.Image
	Question string
}

// HasImage reports whether a non-empty target image is attached.
func (r Request) HasImage() bool {
	return r.Image != nil && len(r.Image.Data) > 0
}

// IsEmpty reports whether the request has neither an image nor a question.
// A whitespace-only question counts as no question.
func (r Request) IsEmpty() bool {
	return !r.HasImage() && strings.TrimSpace(r.Question) == ""
}

// Result is returned for every ask. Failures are described by Outcome and a
// localized Message, never by an error.
type Result struct {
	Mode      Mode
	Outcome   Outcome
	Message   string
	Member    *database.Member
	Ambiguous bool
}

// Options tune a Service.
type Options struct {
	// Provider labels metrics and logs, e.g. "gemini".
	Provider string
	// Timeout bounds a single model call. Zero means no extra deadline.
	Timeout time.Duration
	// MaxImageSize downscales images before sending when > 0.
	MaxImageSize int
	// ModelErr is logged when the model could not be built.
	ModelErr error
	Messages *Messages
	Metrics  *Metrics
}

// Service runs asks. It is safe for concurrent use.
type Service struct {
	groups database.GroupReader
	blobs  blob.Getter
	model  ai.Model
	opts   Options
	msgs   *Messages
}

// NewService creates the service. model may be nil when no credential is
// configured; asks then end with OutcomeNotConfigured.
func NewService(groups database.GroupReader, blobs blob.Getter, model ai.Model, opts Options) *Service {
	msgs := opts.Messages
	if msgs == nil {
		msgs = NewMessages("")
	}
	return &Service{groups: groups, blobs: blobs, model: model, opts: opts, msgs: msgs}
}

// Messages returns the service's message catalog.
func (s *Service) Messages() *Messages {
	return s.msgs
}

// ModelName returns the configured model, empty when not configured.
func (s *Service) ModelName() string {
	if s.model == nil {
		return ""
	}
	return s.model.Name()
}

// Ask answers req. Every failure is converted into a Result.
func (s *Service) Ask(ctx context.Context, req Request) Result {
	mode := ModeFor(req)
	res := s.ask(ctx, mode, req)
	res.Mode = mode

	s.opts.Metrics.observeAsk(mode, res.Outcome)
	slog.Info("ask completed",
		"group_id", req.GroupID,
		"mode", mode,
		"outcome", res.Outcome,
		"model", s.ModelName(),
		"member_matched", res.Member != nil,
		"ambiguous", res.Ambiguous,
	)
	return res
}

func (s *Service) fail(outcome Outcome) Result {
	return Result{Outcome: outcome, Message: s.msgs.For(outcome)}
}

func (s *Service) ask(ctx context.Context, mode Mode, req Request) Result {
	if req.IsEmpty() {
		return s.fail(OutcomeInvalidInput)
	}

	var target ai.Image
	if req.HasImage() {
		target = *req.Image
		target.MIMEType = blob.DetectContentType(target.Data, target.MIMEType)
		if !blob.IsImage(target.MIMEType) {
			return Result{Outcome: OutcomeInvalidInput, Message: s.msgs.InvalidImage()}
		}
	}

	group, err := s.groups.GetGroup(ctx, req.GroupID)
	if err != nil {
		slog.Error("failed to load group", "group_id", req.GroupID, "error", err)
		return s.fail(OutcomeStoreError)
	}
	if group == nil {
		return s.fail(OutcomeNotFound)
	}
	if len(group.Members) == 0 {
		return s.fail(OutcomeNoMembers)
	}

	if s.model == nil {
		slog.Error("AI model is not configured", "provider", s.opts.Provider, "error", s.opts.ModelErr)
		return s.fail(OutcomeNotConfigured)
	}

	obj, err := s.blobs.Get(ctx, group.ImageURL)
	if err != nil {
		slog.Error("failed to fetch group photo", "group_id", group.ID, "error", err)
		return s.fail(OutcomeImageUnavailable)
	}

	groupImage, err := ai.Downscale(ai.Image{Data: obj.Data, MIMEType: obj.ContentType}, s.opts.MaxImageSize)
	if err != nil {
		slog.Error("failed to resize group photo", "group_id", group.ID, "error", err)
		return s.fail(OutcomeImageUnavailable)
	}
	images := []ai.Image{groupImage}

	if mode == ModeIdentify {
		target, err = ai.Downscale(target, s.opts.MaxImageSize)
		if err != nil {
			slog.Warn("failed to resize target photo", "group_id", group.ID, "error", err)
			return Result{Outcome: OutcomeInvalidInput, Message: s.msgs.InvalidImage()}
		}
		images = append(images, target)
	}

	prompt, err := BuildPromptIn(s.msgs.Language(), group.Members, req)
	switch {
	case errors.Is(err, ErrEmptyRequest):
		return s.fail(OutcomeInvalidInput)
	case errors.Is(err, ErrEmptyRoster):
		return s.fail(OutcomeNoMembers)
	case err != nil:
		slog.Error("failed to build prompt", "group_id", group.ID, "error", err)
		return s.fail(OutcomeModelError)
	}

	raw, err := s.generate(ctx, prompt.Text, images)
	if err != nil {
		slog.Error("model call failed",
			"group_id", group.ID,
			"model", s.model.Name(),
			"timeout", errors.Is(err, context.DeadlineExceeded),
			"error", err,
		)
		return s.fail(OutcomeModelError)
	}
	slog.Debug("model reply", "group_id", group.ID, "mode", mode, "reply", raw)

	in := Interpret(mode, raw, group, s.msgs)
	return Result{
		Outcome:   in.Outcome,
		Message:   in.Message,
		Member:    in.Member,
		Ambiguous: in.Ambiguous,
	}
}

func (s *Service) generate(ctx context.Context, prompt string, images []ai.Image) (string, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.model.Generate(ctx, prompt, images)
	s.opts.Metrics.observeModel(s.opts.Provider, time.Since(start))
	if err == nil && len(raw) > constants.MaxModelReplySize {
		return "", ai.ErrReplyTooLarge
	}
	return raw, err
}
