package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	// Register the pure-Go sqlite driver under the "sqlite" name.
	_ "modernc.org/sqlite"
)

// Repository defines the profile store operations the dispatcher depends on.
type Repository interface {
	GuardianChatID(ctx context.Context, uid string) (string, error)
	SetGuardianChatID(ctx context.Context, uid, chatID string) error
}

var (
	// ErrNoGuardian is returned when the user has no registered guardian
	// contact. A missing profile row and an empty stored value are the same
	// user-actionable state, distinct from a failing read.
	ErrNoGuardian = errors.New("guardian contact not registered")
	// errUIDRequired is returned when an empty user id is provided.
	errUIDRequired = errors.New("uid must be provided")
	// errChatIDRequired is returned when an empty chat id is provided.
	errChatIDRequired = errors.New("chat id must be provided")
)

// Store persists user profiles in SQLite.
type Store struct {
	// db is the underlying database handle.
	db *sql.DB
}

// Open opens (or creates) the profile database at the provided path and
// ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("profile database path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open profile db: %w", err)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping profile db: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS users (
    uid              TEXT PRIMARY KEY,
    guardian_chat_id TEXT,
    updated_at       INTEGER NOT NULL
);`

	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ensure profile schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// GuardianChatID returns the guardian contact registered for the user.
// It returns ErrNoGuardian both when the profile row is missing and when
// the stored value is empty; any other error is a real store failure.
func (s *Store) GuardianChatID(ctx context.Context, uid string) (string, error) {
	if strings.TrimSpace(uid) == "" {
		return "", errUIDRequired
	}

	var chatID sql.NullString

	row := s.db.QueryRowContext(ctx, `SELECT guardian_chat_id FROM users WHERE uid = ?`, uid)
	if err := row.Scan(&chatID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoGuardian
		}

		return "", fmt.Errorf("read profile %q: %w", uid, err)
	}

	value := strings.TrimSpace(chatID.String)
	if !chatID.Valid || value == "" {
		return "", ErrNoGuardian
	}

	return value, nil
}

// SetGuardianChatID registers (or replaces) the guardian contact for the
// user, creating the profile row when needed.
func (s *Store) SetGuardianChatID(ctx context.Context, uid, chatID string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return errUIDRequired
	}

	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return errChatIDRequired
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO users (uid, guardian_chat_id, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(uid) DO UPDATE SET
		   guardian_chat_id = excluded.guardian_chat_id,
		   updated_at       = excluded.updated_at`,
		uid,
		chatID,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write profile %q: %w", uid, err)
	}

	return nil
}
