package ask

import (
	"errors"
	"strings"
	"testing"

	"github.com/kozaktomas/group-memory/internal/ai"
	"github.com/kozaktomas/group-memory/internal/database"
)

var testRoster = []database.Member{
	{Name: "Kaito", Description: "likes hiking"},
	{Name: "Aoi"},
}

func TestFormatRoster(t *testing.T) {
	got := FormatRoster(testRoster)
	want := "- Name: Kaito, Description: likes hiking\n- Name: Aoi, Description: None"
	if got != want {
		t.Errorf("FormatRoster() =\n%s\nwant\n%s", got, want)
	}
	if FormatRoster(nil) != "" {
		t.Error("expected empty roster to render as empty string")
	}
}

func TestBuildPrompt_Modes(t *testing.T) {
	target := &ai.Image{Data: []byte("img"), MIMEType: "image/jpeg"}

	tests := []struct {
		name     string
		req      Request
		wantMode Mode
		contains []string
		absent   []string
	}{
		{
			name:     "identify with hint",
			req:      Request{Image: target, Question: "What does he like?"},
			wantMode: ModeIdentify,
			contains: []string{
				`"matchedMemberName"`,
				`User Question/Hint: "What does he like?"`,
				"- Name: Kaito, Description: likes hiking",
				"A natural Japanese response",
			},
		},
		{
			name:     "identify without question",
			req:      Request{Image: target},
			wantMode: ModeIdentify,
			contains: []string{`User Question/Hint: ""`},
		},
		{
			name:     "query",
			req:      Request{Question: "Who wears a hat?"},
			wantMode: ModeQuery,
			contains: []string{
				`User Question: "Who wears a hat?"`,
				"Reply in natural Japanese.",
				"- Name: Aoi, Description: None",
			},
			absent: []string{"matchedMemberName"},
		},
		{
			name:     "empty image counts as absent",
			req:      Request{Image: &ai.Image{}, Question: "Who?"},
			wantMode: ModeQuery,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := BuildPrompt(testRoster, tc.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Mode != tc.wantMode {
				t.Errorf("mode = %s, want %s", p.Mode, tc.wantMode)
			}
			for _, s := range tc.contains {
				if !strings.Contains(p.Text, s) {
					t.Errorf("prompt missing %q:\n%s", s, p.Text)
				}
			}
			for _, s := range tc.absent {
				if strings.Contains(p.Text, s) {
					t.Errorf("prompt unexpectedly contains %q", s)
				}
			}
		})
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	req := Request{Question: "Who is tallest?"}
	a, _ := BuildPrompt(testRoster, req)
	b, _ := BuildPrompt(testRoster, req)
	if a != b {
		t.Error("expected identical prompts for identical input")
	}
}

func TestBuildPromptIn_English(t *testing.T) {
	p, err := BuildPromptIn(LanguageEnglish, testRoster, Request{Question: "Who?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(p.Text, "Reply in natural English.") {
		t.Errorf("expected English reply instruction:\n%s", p.Text)
	}
}

func TestBuildPrompt_Errors(t *testing.T) {
	tests := []struct {
		name   string
		roster []database.Member
		req    Request
		want   error
	}{
		{"empty request", testRoster, Request{}, ErrEmptyRequest},
		{"whitespace question", testRoster, Request{Question: "  \n"}, ErrEmptyRequest},
		{"empty request wins over empty roster", nil, Request{}, ErrEmptyRequest},
		{"empty roster", nil, Request{Question: "Who?"}, ErrEmptyRoster},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildPrompt(tc.roster, tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
