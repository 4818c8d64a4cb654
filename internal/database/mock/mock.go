// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/kozaktomas/group-memory/internal/database"
)

// Ensure MockGroupStore implements database.GroupStore
var _ database.GroupStore = (*MockGroupStore)(nil)

// MockGroupStore is an in-memory implementation of database.GroupStore.
// Unlike the SQL store it allows seeding duplicate member names through
// SeedGroup, so ambiguity handling can be tested.
type MockGroupStore struct {
	mu     sync.RWMutex
	groups []*database.Group // insertion order
	nextID int
	now    func() time.Time

	// Error injection
	ListGroupsError  error
	GetGroupError    error
	CreateGroupError error
	AddMemberError   error

	// Call counters
	GetGroupCalls int
	Closed        bool
}

// NewMockGroupStore creates an empty mock store.
func NewMockGroupStore() *MockGroupStore {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	return &MockGroupStore{
		now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	}
}

func (m *MockGroupStore) newID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

// SeedGroup adds a group with the given members as-is, bypassing validation.
func (m *MockGroupStore) SeedGroup(name, imageURL string, members ...database.Member) *database.Group {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := &database.Group{
		ID:        m.newID("group"),
		Name:      name,
		ImageURL:  imageURL,
		CreatedAt: m.now(),
	}
	for _, mem := range members {
		if mem.ID == "" {
			mem.ID = m.newID("member")
		}
		mem.GroupID = g.ID
		if mem.CreatedAt.IsZero() {
			mem.CreatedAt = m.now()
		}
		g.Members = append(g.Members, mem)
	}
	m.groups = append(m.groups, g)
	return copyGroup(g, true)
}

func (m *MockGroupStore) find(id string) *database.Group {
	for _, g := range m.groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func copyGroup(g *database.Group, withMembers bool) *database.Group {
	c := *g
	c.MemberCount = len(g.Members)
	if withMembers {
		c.Members = slices.Clone(g.Members)
		if c.Members == nil {
			c.Members = []database.Member{}
		}
	} else {
		c.Members = nil
	}
	return &c
}

// ListGroups returns groups newest first without members.
func (m *MockGroupStore) ListGroups(ctx context.Context) ([]database.Group, error) {
	if m.ListGroupsError != nil {
		return nil, m.ListGroupsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]database.Group, 0, len(m.groups))
	for i := len(m.groups) - 1; i >= 0; i-- {
		result = append(result, *copyGroup(m.groups[i], false))
	}
	return result, nil
}

// GetGroup returns a copy of the group, nil if not found.
func (m *MockGroupStore) GetGroup(ctx context.Context, id string) (*database.Group, error) {
	m.mu.Lock()
	m.GetGroupCalls++
	m.mu.Unlock()

	if m.GetGroupError != nil {
		return nil, m.GetGroupError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	g := m.find(id)
	if g == nil {
		return nil, nil
	}
	return copyGroup(g, true), nil
}

// CreateGroup stores a new group.
func (m *MockGroupStore) CreateGroup(ctx context.Context, name, imageURL string) (*database.Group, error) {
	if m.CreateGroupError != nil {
		return nil, m.CreateGroupError
	}
	name = strings.TrimSpace(name)
	if name == "" || imageURL == "" {
		return nil, fmt.Errorf("%w: group name and image are required", database.ErrInvalidInput)
	}
	return m.SeedGroup(name, imageURL), nil
}

// AddMember appends a member, rejecting duplicate names like the SQL store.
func (m *MockGroupStore) AddMember(ctx context.Context, groupID, name, description string) (*database.Member, error) {
	if m.AddMemberError != nil {
		return nil, m.AddMemberError
	}
	name = database.NormalizeName(name)
	if groupID == "" || name == "" {
		return nil, fmt.Errorf("%w: group id and member name are required", database.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	g := m.find(groupID)
	if g == nil {
		return nil, database.ErrGroupNotFound
	}
	if len(g.MembersNamed(name)) > 0 {
		return nil, database.ErrDuplicateMember
	}

	mem := database.Member{
		ID:          m.newID("member"),
		GroupID:     groupID,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   m.now(),
	}
	g.Members = append(g.Members, mem)
	return &mem, nil
}

// Close marks the store closed.
func (m *MockGroupStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
