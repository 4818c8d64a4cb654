package ask

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/kozaktomas/group-memory/internal/database"
)

//go:embed prompts/*.txt
var promptsFS embed.FS

var promptTemplates = template.Must(template.ParseFS(promptsFS, "prompts/*.txt"))

var (
	// ErrEmptyRequest is returned when a request has neither an image nor a question.
	ErrEmptyRequest = errors.New("request has neither an image nor a question")
	// ErrEmptyRoster is returned when the group has no members.
	ErrEmptyRoster = errors.New("group has no members")
)

// Mode selects how the model is asked.
type Mode string

const (
	// ModeIdentify matches a target photo against the roster.
	ModeIdentify Mode = "identify"
	// ModeQuery answers a free-form question about the group photo.
	ModeQuery Mode = "query"
)

// Prompt is the rendered instruction for one model call.
type Prompt struct {
	Mode Mode
	Text string
}

// Reply languages.
const (
	LanguageJapanese = "Japanese"
	LanguageEnglish  = "English"
)

type promptData struct {
	Roster   string
	Question string
	Language string
}

// FormatRoster renders one line per member in roster order.
func FormatRoster(roster []database.Member) string {
	lines := make([]string, 0, len(roster))
	for _, m := range roster {
		desc := m.Description
		if desc == "" {
			desc = "None"
		}
		lines = append(lines, fmt.Sprintf("- Name: %s, Description: %s", m.Name, desc))
	}
	return strings.Join(lines, "\n")
}

// ModeFor returns the mode a request runs in.
func ModeFor(req Request) Mode {
	if req.HasImage() {
		return ModeIdentify
	}
	return ModeQuery
}

// BuildPrompt builds a prompt with Japanese replies.
func BuildPrompt(roster []database.Member, req Request) (Prompt, error) {
	return BuildPromptIn(LanguageJapanese, roster, req)
}

// BuildPromptIn builds the prompt for req, asking for replies in language.
// The request is validated before the roster.
func BuildPromptIn(language string, roster []database.Member, req Request) (Prompt, error) {
	if req.IsEmpty() {
		return Prompt{}, ErrEmptyRequest
	}
	if len(roster) == 0 {
		return Prompt{}, ErrEmptyRoster
	}

	mode := ModeFor(req)
	name := "query.txt"
	if mode == ModeIdentify {
		name = "identify.txt"
	}

	var buf bytes.Buffer
	err := promptTemplates.ExecuteTemplate(&buf, name, promptData{
		Roster:   FormatRoster(roster),
		Question: req.Question,
		Language: language,
	})
	if err != nil {
		return Prompt{}, fmt.Errorf("render %s prompt: %w", mode, err)
	}
	return Prompt{Mode: mode, Text: buf.String()}, nil
}
