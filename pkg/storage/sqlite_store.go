package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store wraps an embedded SQLite database holding the activity journal and a
// few runtime timestamps. It uses modernc.org/sqlite for CGO-less builds.
type Store struct {
	dbPath string
	db     *sql.DB
}

var errNotInitialized = errors.New("store not initialized")

// NewStore creates a new Store pointing to dbPath. Call Init() before using it.
func NewStore(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

// Init opens the SQLite database, configures pragmas, and ensures the schema exists.
func (s *Store) Init() error {
	if s.db != nil {
		return nil
	}
	if s.dbPath == "" {
		return fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0o755); err != nil {
		return fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}

	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
		`PRAGMA synchronous=NORMAL;`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// ActivityRecord is one journaled user action.
type ActivityRecord struct {
	ID         string
	RecordedAt time.Time
	Status     string
	Category   string
	UserID     string
	UserTag    string
	Action     string
	GuildID    string
	GuildName  string
	ChannelID  string
	Detail     string
}

// RecordActivity inserts rec and returns its generated id.
func (s *Store) RecordActivity(rec ActivityRecord) (string, error) {
	if s.db == nil {
		return "", errNotInitialized
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO activity (id, recorded_at, status, category, user_id, user_tag, action, guild_id, guild_name, channel_id, detail)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RecordedAt.UTC(), rec.Status, rec.Category, rec.UserID, rec.UserTag,
		rec.Action, rec.GuildID, rec.GuildName, rec.ChannelID, rec.Detail,
	)
	if err != nil {
		return "", fmt.Errorf("insert activity: %w", err)
	}
	return rec.ID, nil
}

// CountForUser returns how many journal rows reference userID.
func (s *Store) CountForUser(userID string) (int, error) {
	if s.db == nil {
		return 0, errNotInitialized
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM activity WHERE user_id=?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count activity: %w", err)
	}
	return n, nil
}

// RecentForUser returns the newest rows of userID, newest first.
func (s *Store) RecentForUser(userID string, limit int) ([]ActivityRecord, error) {
	if s.db == nil {
		return nil, errNotInitialized
	}
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.Query(
		`SELECT id, recorded_at, status, category, user_id, user_tag, action, guild_id, guild_name, channel_id, detail
         FROM activity WHERE user_id=? ORDER BY recorded_at DESC, rowid DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var out []ActivityRecord
	for rows.Next() {
		var rec ActivityRecord
		if err := rows.Scan(
			&rec.ID, &rec.RecordedAt, &rec.Status, &rec.Category, &rec.UserID, &rec.UserTag,
			&rec.Action, &rec.GuildID, &rec.GuildName, &rec.ChannelID, &rec.Detail,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PurgeUser deletes every row of userID and returns how many were removed.
func (s *Store) PurgeUser(userID string) (int64, error) {
	if s.db == nil {
		return 0, errNotInitialized
	}
	res, err := s.db.Exec(`DELETE FROM activity WHERE user_id=?`, userID)
	if err != nil {
		return 0, fmt.Errorf("purge user activity: %w", err)
	}
	return res.RowsAffected()
}

// DeleteGuild deletes every row recorded in guildID.
func (s *Store) DeleteGuild(guildID string) (int64, error) {
	if s.db == nil {
		return 0, errNotInitialized
	}
	res, err := s.db.Exec(`DELETE FROM activity WHERE guild_id=?`, guildID)
	if err != nil {
		return 0, fmt.Errorf("delete guild activity: %w", err)
	}
	return res.RowsAffected()
}

// SetLastStart records the time the bot last connected.
func (s *Store) SetLastStart(t time.Time) error {
	return s.setRuntimeMeta("last_start", t)
}

// GetLastStart returns the previously recorded connect time, if any.
func (s *Store) GetLastStart() (time.Time, bool, error) {
	return s.getRuntimeMeta("last_start")
}

func (s *Store) setRuntimeMeta(key string, t time.Time) error {
	if s.db == nil {
		return errNotInitialized
	}
	if t.IsZero() {
		t = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO runtime_meta (key, ts) VALUES (?, ?)
         ON CONFLICT(key) DO UPDATE SET ts=excluded.ts`,
		key, t.UTC(),
	)
	return err
}

func (s *Store) getRuntimeMeta(key string) (time.Time, bool, error) {
	if s.db == nil {
		return time.Time{}, false, errNotInitialized
	}
	row := s.db.QueryRow(`SELECT ts FROM runtime_meta WHERE key=?`, key)
	var ts time.Time
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return ts, true, nil
}

func ensureSchema(db *sql.DB) error {
	const createActivity = `
CREATE TABLE IF NOT EXISTS activity (
  id          TEXT PRIMARY KEY,
  recorded_at TIMESTAMP NOT NULL,
  status      TEXT NOT NULL,
  category    TEXT NOT NULL DEFAULT '',
  user_id     TEXT NOT NULL,
  user_tag    TEXT,
  action      TEXT NOT NULL,
  guild_id    TEXT NOT NULL DEFAULT '',
  guild_name  TEXT,
  channel_id  TEXT,
  detail      TEXT
);
CREATE INDEX IF NOT EXISTS idx_activity_user ON activity(user_id);
CREATE INDEX IF NOT EXISTS idx_activity_guild ON activity(guild_id);`

	const createRuntimeMeta = `
CREATE TABLE IF NOT EXISTS runtime_meta (
  key TEXT PRIMARY KEY,
  ts  TIMESTAMP NOT NULL
);`

	for _, stmt := range []string{createActivity, createRuntimeMeta} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
