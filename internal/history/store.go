// Package history persists delivered notifications in SQLite so the
// dashboard and CLI can show them across hub restarts.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/grovetools/chime/errors"
	"github.com/grovetools/chime/logging"
	"github.com/grovetools/chime/pkg/api"
)

// DefaultLimit bounds the history when no limit is configured.
const DefaultLimit = 100

const schema = `
CREATE TABLE IF NOT EXISTS notifications (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    session_id TEXT NOT NULL DEFAULT '',
    cwd TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    is_read INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_notifications_created
    ON notifications(created_at);

CREATE INDEX IF NOT EXISTS idx_notifications_unread
    ON notifications(is_read) WHERE is_read = 0;
`

// Store is the SQLite-backed notification history. All methods are safe
// for concurrent use; writes serialize on a single connection.
type Store struct {
	db    *sql.DB
	limit int
	log   *logrus.Entry
}

// Open opens (or creates) the history database at path. The store keeps
// at most limit entries, evicting the oldest on insert.
func Open(path string, limit int) (*Store, error) {
	if limit < 1 {
		limit = DefaultLimit
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeHistoryStore, "could not create history directory")
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeHistoryStore, "could not open history database")
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeHistoryStore, "history database is not usable")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeHistoryStore, "could not apply history schema")
	}

	return &Store{
		db:    db,
		limit: limit,
		log:   logging.NewLogger("history"),
	}, nil
}

// Record stores a delivered notification and evicts entries beyond the
// configured limit, oldest first.
func (s *Store) Record(n api.Notification) (api.HistoryEntry, error) {
	entry := api.HistoryEntry{
		ID:        uuid.New().String(),
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		SessionID: n.SessionID,
		Cwd:       n.Cwd,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(
		`INSERT INTO notifications (id, kind, title, body, session_id, cwd, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
		entry.ID, entry.Kind, entry.Title, entry.Body, entry.SessionID, entry.Cwd,
		entry.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return api.HistoryEntry{}, errors.Wrap(err, errors.ErrCodeHistoryStore, "could not record notification")
	}

	// rowid breaks ties between entries created in the same millisecond.
	_, err = s.db.Exec(
		`DELETE FROM notifications WHERE rowid NOT IN (
		    SELECT rowid FROM notifications ORDER BY created_at DESC, rowid DESC LIMIT ?
		 )`,
		s.limit,
	)
	if err != nil {
		s.log.Warnf("Failed to prune history: %v", err)
	}

	return entry, nil
}

// List returns stored notifications newest first. A limit of zero or
// less, or above the configured bound, falls back to the bound. When
// unreadOnly is set, read entries are filtered out.
func (s *Store) List(limit int, unreadOnly bool) ([]api.HistoryEntry, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}

	query := `SELECT id, kind, title, body, session_id, cwd, created_at, is_read
	          FROM notifications`
	if unreadOnly {
		query += ` WHERE is_read = 0`
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeHistoryStore, "could not list history")
	}
	defer rows.Close()

	entries := make([]api.HistoryEntry, 0, limit)
	for rows.Next() {
		var (
			entry     api.HistoryEntry
			createdMs int64
			isRead    int
		)
		if err := rows.Scan(&entry.ID, &entry.Kind, &entry.Title, &entry.Body,
			&entry.SessionID, &entry.Cwd, &createdMs, &isRead); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeHistoryStore, "could not scan history row")
		}
		entry.CreatedAt = time.UnixMilli(createdMs)
		entry.Read = isRead != 0
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeHistoryStore, "history iteration failed")
	}
	return entries, nil
}

// MarkRead marks a single entry as read. Unknown ids are a no-op.
func (s *Store) MarkRead(id string) error {
	if _, err := s.db.Exec(`UPDATE notifications SET is_read = 1 WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, errors.ErrCodeHistoryStore, "could not mark notification read")
	}
	return nil
}

// MarkAllRead marks every stored entry as read.
func (s *Store) MarkAllRead() error {
	if _, err := s.db.Exec(`UPDATE notifications SET is_read = 1 WHERE is_read = 0`); err != nil {
		return errors.Wrap(err, errors.ErrCodeHistoryStore, "could not mark history read")
	}
	return nil
}

// Clear removes every stored entry.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM notifications`); err != nil {
		return errors.Wrap(err, errors.ErrCodeHistoryStore, "could not clear history")
	}
	return nil
}

// UnreadCount returns the number of unread entries.
func (s *Store) UnreadCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE is_read = 0`).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeHistoryStore, "could not count unread notifications")
	}
	return count, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
