// Package store provides sqlite storage for users and songs.
package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/osa030/harmony/internal/domain/song"
)

// Roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Errors
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidSong = errors.New("youtube url is required")
)

// User is an identity known to the service.
type User struct {
	ID        string
	Name      string
	Email     string
	GoogleID  string
	Role      string
	CreatedAt time.Time
}

// IsAdmin reports whether the user may create global songs.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Store is the sqlite-backed storage.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database at path and applies pending migrations.
// The path can be ":memory:" for an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if path == ":memory:" {
		// Every connection of an in-memory database is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertUser finds the user by email, creating it when missing. The role is
// updated on every login so that changes to the admin list take effect.
func (s *Store) UpsertUser(ctx context.Context, name, email, googleID, role string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}

	u, err := s.userByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		u = &User{
			ID:        uuid.NewString(),
			Name:      name,
			Email:     email,
			GoogleID:  googleID,
			Role:      role,
			CreatedAt: s.now().UTC(),
		}
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO users (id, name, email, google_id, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			u.ID, u.Name, u.Email, u.GoogleID, u.Role, u.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "failed to insert user")
		}
		return u, nil
	case err != nil:
		return nil, err
	}

	if u.Role != role {
		if _, err := s.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, u.ID); err != nil {
			return nil, errors.Wrap(err, "failed to update user role")
		}
		u.Role = role
	}
	return u, nil
}

// GetUser returns the user with id.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, google_id, role, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *Store) userByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, google_id, role, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.GoogleID, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan user")
	}
	return &u, nil
}

// ListSongs returns the songs owned by userID plus all global songs, newest
// first. A non-empty search keeps songs whose title contains it, ignoring case.
func (s *Store) ListSongs(ctx context.Context, userID, search string) ([]song.Song, error) {
	query := `
	SELECT id, title, artist, youtube_url, thumbnail, COALESCE(user_id, ''), is_global, created_at
	FROM songs
	WHERE (user_id = ? OR is_global = 1)`
	args := []any{userID}

	if search = strings.TrimSpace(search); search != "" {
		query += ` AND instr(lower(title), lower(?)) > 0`
		args = append(args, search)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query songs")
	}
	defer rows.Close()

	songs := make([]song.Song, 0)
	for rows.Next() {
		var sg song.Song
		if err := rows.Scan(&sg.ID, &sg.Title, &sg.Artist, &sg.YouTubeURL, &sg.Thumbnail,
			&sg.UserID, &sg.IsGlobal, &sg.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan song")
		}
		songs = append(songs, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate songs")
	}
	return songs, nil
}

// CreateSong stores a song. Global songs have no owner.
func (s *Store) CreateSong(ctx context.Context, userID string, ns song.NewSong, global bool) (*song.Song, error) {
	link := strings.TrimSpace(ns.YouTubeURL)
	if link == "" {
		return nil, ErrInvalidSong
	}

	sg := &song.Song{
		ID:         uuid.NewString(),
		Title:      ns.Title,
		Artist:     ns.Artist,
		YouTubeURL: link,
		Thumbnail:  ns.Thumbnail,
		IsGlobal:   global,
		CreatedAt:  s.now().UTC(),
	}

	var owner any
	if !global {
		sg.UserID = userID
		owner = userID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO songs (id, title, artist, youtube_url, thumbnail, user_id, is_global, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sg.ID, sg.Title, sg.Artist, sg.YouTubeURL, sg.Thumbnail, owner, sg.IsGlobal, sg.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert song")
	}
	return sg, nil
}
