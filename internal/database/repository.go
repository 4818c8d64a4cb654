package database

import (
	"context"
	"errors"
)

var (
	// ErrGroupNotFound is returned by AddMember when the owning group does not exist.
	ErrGroupNotFound = errors.New("group not found")
	// ErrDuplicateMember is returned when a group already has a member with the same name.
	ErrDuplicateMember = errors.New("member name already exists in group")
	// ErrInvalidInput is returned for missing required fields.
	ErrInvalidInput = errors.New("invalid input")
)

// GroupReader provides read-only access to groups and their rosters
type GroupReader interface {
	// ListGroups returns all groups, newest first, without members
	ListGroups(ctx context.Context) ([]Group, error)
	// GetGroup returns a group with its members in insertion order, nil if not found
	GetGroup(ctx context.Context, id string) (*Group, error)
}

// GroupWriter provides write access to groups and members
type GroupWriter interface {
	GroupReader

	// CreateGroup stores a new group referencing an already uploaded image
	CreateGroup(ctx context.Context, name, imageURL string) (*Group, error)
	// AddMember appends a member to the group roster
	AddMember(ctx context.Context, groupID, name, description string) (*Member, error)
}

// GroupStore is the full record store used by the application.
type GroupStore interface {
	GroupWriter

	// Close releases any resources held by the store.
	Close() error
}
