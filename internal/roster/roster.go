// Package roster reads YAML roster files used to bulk import a group.
//
// Example:
//
//	name: Hiking Club
//	image: photos/club.jpg
//	members:
//	  - name: Kaito
//	    description: likes hiking
//	  - name: Aoi
package roster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kozaktomas/group-memory/internal/constants"
	"github.com/kozaktomas/group-memory/internal/database"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRoster is returned for rosters that cannot be imported.
var ErrInvalidRoster = errors.New("invalid roster")

// Roster is one group with its members.
type Roster struct {
	Name    string   `yaml:"name"`
	Image   string   `yaml:"image"`
	Members []Member `yaml:"members"`
}

type Member struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Parse decodes and validates a roster document.
func Parse(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads a roster file. A relative image path is resolved against the
// directory of the roster file.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !filepath.IsAbs(r.Image) {
		r.Image = filepath.Join(filepath.Dir(path), r.Image)
	}
	return r, nil
}

// Validate checks required fields, length limits and duplicate names.
func (r *Roster) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Image = strings.TrimSpace(r.Image)

	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRoster)
	}
	if utf8.RuneCountInString(r.Name) > constants.MaxNameLength {
		return fmt.Errorf("%w: name is too long", ErrInvalidRoster)
	}
	if r.Image == "" {
		return fmt.Errorf("%w: image is required", ErrInvalidRoster)
	}

	seen := make(map[string]int, len(r.Members))
	for i := range r.Members {
		m := &r.Members[i]
		m.Name = database.NormalizeName(m.Name)
		m.Description = strings.TrimSpace(m.Description)

		switch {
		case m.Name == "":
			return fmt.Errorf("%w: member %d has no name", ErrInvalidRoster, i+1)
		case utf8.RuneCountInString(m.Name) > constants.MaxNameLength:
			return fmt.Errorf("%w: member %d name is too long", ErrInvalidRoster, i+1)
		case utf8.RuneCountInString(m.Description) > constants.MaxDescriptionLength:
			return fmt.Errorf("%w: member %q description is too long", ErrInvalidRoster, m.Name)
		}
		if prev, ok := seen[m.Name]; ok {
			return fmt.Errorf("%w: members %d and %d are both named %q", ErrInvalidRoster, prev+1, i+1, m.Name)
		}
		seen[m.Name] = i
	}
	return nil
}
