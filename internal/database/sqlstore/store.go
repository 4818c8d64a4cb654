// Package sqlstore implements database.GroupStore on top of database/sql for
// SQLite, PostgreSQL and MySQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/group-memory/internal/config"
	"github.com/kozaktomas/group-memory/internal/database"
)

// Ensure Store implements database.GroupStore
var _ database.GroupStore = (*Store)(nil)

// Store is a dialect-aware SQL record store.
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// Open connects to the configured database, verifies the connection and
// applies pending migrations.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn, err := dialect.DSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid %s DSN: %w", dialect.Name(), err)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool.
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	// Verify connection.
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := New(db, dialect)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// New wraps an already opened database. Migrations are not run.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect, now: time.Now}
}

// DB returns the underlying sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the store's SQL dialect.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

// q rewrites placeholders for the active dialect.
func (s *Store) q(query string) string {
	return s.dialect.RewriteQuery(query)
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// CreateGroup stores a new group.
func (s *Store) CreateGroup(ctx context.Context, name, imageURL string) (*database.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" || imageURL == "" {
		return nil, fmt.Errorf("%w: group name and image are required", database.ErrInvalidInput)
	}

	g := &database.Group{
		ID:        uuid.New().String(),
		Name:      name,
		ImageURL:  imageURL,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	_, err := s.db.ExecContext(ctx,
		s.q("INSERT INTO member_groups (id, name, image_url, created_at) VALUES (?, ?, ?, ?)"),
		g.ID, g.Name, g.ImageURL, toMillis(g.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	return g, nil
}

// AddMember appends a member to an existing group. Names must be unique
// within the group (exact, case-sensitive).
func (s *Store) AddMember(ctx context.Context, groupID, name, description string) (*database.Member, error) {
	name = database.NormalizeName(name)
	if groupID == "" || name == "" {
		return nil, fmt.Errorf("%w: group id and member name are required", database.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, s.q("SELECT COUNT(*) FROM member_groups WHERE id = ?"), groupID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check group: %w", err)
	}
	if exists == 0 {
		return nil, database.ErrGroupNotFound
	}

	var dupes int
	err = tx.QueryRowContext(ctx,
		s.q("SELECT COUNT(*) FROM group_members WHERE group_id = ? AND name = ?"), groupID, name,
	).Scan(&dupes)
	if err != nil {
		return nil, fmt.Errorf("check member name: %w", err)
	}
	if dupes > 0 {
		return nil, database.ErrDuplicateMember
	}

	m := &database.Member{
		ID:          uuid.New().String(),
		GroupID:     groupID,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}

	_, err = tx.ExecContext(ctx,
		s.q("INSERT INTO group_members (id, group_id, name, description, created_at) VALUES (?, ?, ?, ?, ?)"),
		m.ID, m.GroupID, m.Name, m.Description, toMillis(m.CreatedAt),
	)
	if err != nil {
		// A concurrent insert of the same name loses on the unique index.
		if s.dialect.IsUniqueViolation(err) {
			return nil, database.ErrDuplicateMember
		}
		return nil, fmt.Errorf("insert member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return m, nil
}

// ListGroups returns all groups newest first, with member counts.
func (s *Store) ListGroups(ctx context.Context) ([]database.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.image_url, g.created_at, COUNT(m.seq)
		FROM member_groups g
		LEFT JOIN group_members m ON m.group_id = g.id
		GROUP BY g.seq, g.id, g.name, g.image_url, g.created_at
		ORDER BY g.created_at DESC, g.seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	groups := []database.Group{}
	for rows.Next() {
		var g database.Group
		var created int64
		if err := rows.Scan(&g.ID, &g.Name, &g.ImageURL, &created, &g.MemberCount); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		g.CreatedAt = fromMillis(created)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	return groups, nil
}

// GetGroup returns the group with its members, or nil if it does not exist.
func (s *Store) GetGroup(ctx context.Context, id string) (*database.Group, error) {
	var g database.Group
	var created int64
	err := s.db.QueryRowContext(ctx,
		s.q("SELECT id, name, image_url, created_at FROM member_groups WHERE id = ?"), id,
	).Scan(&g.ID, &g.Name, &g.ImageURL, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	g.CreatedAt = fromMillis(created)

	members, err := s.members(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Members = members
	g.MemberCount = len(members)
	return &g, nil
}

func (s *Store) members(ctx context.Context, groupID string) ([]database.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q("SELECT id, group_id, name, description, created_at FROM group_members WHERE group_id = ? ORDER BY seq"),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	members := []database.Member{}
	for rows.Next() {
		var m database.Member
		var created int64
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Name, &m.Description, &created); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.CreatedAt = fromMillis(created)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}
