package database

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Group is a registered group photo together with the people on it.
type Group struct {
	ID        string
	Name      string
	ImageURL  string // blob reference: data: URL, file blob URL, s3:// or http(s)://
	CreatedAt time.Time
	Members   []Member // insertion order; nil when loaded by ListGroups

	// MemberCount is populated by ListGroups so the overview does not need
	// to load every roster.
	MemberCount int
}

// Member is a named person registered against a group.
type Member struct {
	ID          string
	GroupID     string
	Name        string
	Description string // optional free-text hint for the model
	CreatedAt   time.Time
}

// NormalizeName trims surrounding whitespace and converts to NFC, so that
// composed and decomposed forms of the same kana or accented letter compare
// equal. Case is preserved.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// MembersNamed returns all members whose name equals name exactly, up to
// Unicode canonical equivalence. More than one result means the roster is
// ambiguous for that name.
func (g *Group) MembersNamed(name string) []Member {
	name = norm.NFC.String(name)
	var found []Member
	for _, m := range g.Members {
		if norm.NFC.String(m.Name) == name {
			found = append(found, m)
		}
	}
	return found
}
