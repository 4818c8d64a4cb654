package ask

import (
	"encoding/json"
	"log/slog"

	"github.com/kozaktomas/group-memory/internal/database"
)

// ExtractJSON returns the first balanced {...} object in text. Braces inside
// JSON string literals, including escaped quotes, do not count. It reports
// false when no balanced object exists; the result is not validated as JSON.
//
// The scan is a single pass: an unclosed '{' stays on the stack while later
// objects close above it, so the earliest-opening balanced object wins.
func ExtractJSON(text string) (string, bool) {
	var open []int
	bestStart, bestEnd := -1, -1
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			// Quotes outside any object cannot start an object's string.
			inString = len(open) > 0
		case '{':
			open = append(open, i)
		case '}':
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			if len(open) == 0 {
				return text[start : i+1], true
			}
			if bestStart < 0 || start < bestStart {
				bestStart, bestEnd = start, i
			}
		}
	}
	if bestStart < 0 {
		return "", false
	}
	return text[bestStart : bestEnd+1], true
}

// identifyReply is the object the identification prompt asks for.
// matchedMemberName is decoded loosely: anything but a string means no match.
type identifyReply struct {
	MatchedMemberName any    `json:"matchedMemberName"`
	Reply             string `json:"reply"`
}

// Interpretation is the outcome of reading one model reply.
type Interpretation struct {
	Outcome   Outcome
	Message   string
	Member    *database.Member
	Ambiguous bool
	// MatchedName is the name the model returned, empty if none.
	MatchedName string
}

// Interpret turns a raw model reply into a user-facing result. Query replies
// are returned verbatim. Identification replies must carry a JSON object;
// its member name is resolved against group's roster.
func Interpret(mode Mode, raw string, group *database.Group, msgs *Messages) Interpretation {
	if mode == ModeQuery {
		return Interpretation{Outcome: OutcomeOK, Message: raw}
	}

	obj, ok := ExtractJSON(raw)
	if !ok {
		slog.Warn("model reply contains no JSON object", "group_id", group.ID)
		return Interpretation{Outcome: OutcomeUnparseable, Message: msgs.For(OutcomeUnparseable)}
	}

	var parsed identifyReply
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		slog.Warn("model reply JSON is invalid", "group_id", group.ID, "error", err)
		return Interpretation{Outcome: OutcomeUnparseable, Message: msgs.For(OutcomeUnparseable)}
	}

	result := Interpretation{Outcome: OutcomeOK, Message: parsed.Reply}
	if parsed.Reply == "" {
		result.Message = msgs.NoResult()
	}

	name, _ := parsed.MatchedMemberName.(string)
	if name == "" {
		return result
	}
	result.MatchedName = name

	switch matches := group.MembersNamed(name); len(matches) {
	case 0:
	case 1:
		member := matches[0]
		result.Member = &member
	default:
		slog.Warn("model matched an ambiguous member name",
			"group_id", group.ID, "name", name, "candidates", len(matches))
		result.Ambiguous = true
	}
	return result
}
