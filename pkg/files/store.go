package files

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/small-frappuccino/rolepanel/pkg/log"
	"github.com/small-frappuccino/rolepanel/pkg/util"
)

var guildIDPattern = regexp.MustCompile(`^[0-9A-Za-z_-]{1,64}$`)

// Store persists one GuildConfig per guild as <dir>/<guildId>.json.
//
// There is no locking across load and save: two interactions mutating the same
// guild concurrently resolve last-write-wins.
type Store struct {
	dir   string
	now   func() time.Time
	newID func() string
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces GenerateEntryID for migrated entries.
func WithIDGenerator(newID func() string) StoreOption {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewStore creates a store rooted at dir. The directory is created on first save.
func NewStore(dir string, opts ...StoreOption) *Store {
	s := &Store{dir: dir, now: time.Now, newID: GenerateEntryID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory holding the documents.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) manager(guildID string) (*util.JSONManager, error) {
	if !guildIDPattern.MatchString(guildID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGuild, guildID)
	}
	return util.NewJSONManagerIn(s.dir, guildID+".json")
}

// Load returns the guild's document, migrated to the current schema.
// A missing or unreadable document yields defaults; Load never fails.
func (s *Store) Load(guildID string) *GuildConfig {
	cfg, migrated, err := s.loadExisting(guildID)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.StoreLogger().Warn("Guild document unreadable, using defaults", "guildID", guildID, "error", err)
		}
		return DefaultGuildConfig(guildID, s.now())
	}
	if migrated {
		if err := s.Save(guildID, cfg); err != nil {
			log.StoreLogger().Error("Failed to persist migrated guild document", "guildID", guildID, "error", err)
		} else {
			log.StoreLogger().Info("Guild document migrated", "guildID", guildID, "schemaVersion", CurrentSchemaVersion)
		}
	}
	return cfg
}

// loadExisting decodes and migrates a stored document without saving it.
func (s *Store) loadExisting(guildID string) (*GuildConfig, bool, error) {
	m, err := s.manager(guildID)
	if err != nil {
		return nil, false, err
	}
	var raw rawDocument
	if err := m.Load(&raw); err != nil {
		return nil, false, err
	}
	if raw == nil {
		return nil, false, fmt.Errorf("document %s is not an object", m.Path())
	}
	migrated := Migrate(raw, MigrationEnv{NewID: s.newID})

	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, false, fmt.Errorf("re-encode migrated document: %w", err)
	}
	var cfg GuildConfig
	if err := json.Unmarshal(buf, &cfg); err != nil {
		return nil, false, fmt.Errorf("decode guild document: %w", err)
	}
	cfg.GuildID = guildID
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = s.now()
	}
	cfg.normalize()
	return &cfg, migrated, nil
}

// Save stamps UpdatedAt and overwrites the guild's document atomically.
// UpdatedAt never moves backwards, even when the clock does.
func (s *Store) Save(guildID string, cfg *GuildConfig) error {
	if cfg == nil {
		return errors.New("nil guild config")
	}
	m, err := s.manager(guildID)
	if err != nil {
		return err
	}
	now := s.now()
	if !now.After(cfg.UpdatedAt) {
		now = cfg.UpdatedAt.Add(time.Millisecond)
	}
	cfg.UpdatedAt = now
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	cfg.GuildID = guildID
	cfg.SchemaVersion = CurrentSchemaVersion
	cfg.normalize()

	if err := m.Save(cfg); err != nil {
		return NewConfigError("save", m.Path(), err)
	}
	return nil
}

// Exists reports whether the guild has a persisted document.
func (s *Store) Exists(guildID string) bool {
	m, err := s.manager(guildID)
	if err != nil {
		return false
	}
	return m.Exists()
}

// Erase deletes the guild's document. Erasing a missing document is a no-op.
func (s *Store) Erase(guildID string) error {
	m, err := s.manager(guildID)
	if err != nil {
		return err
	}
	if err := m.Remove(); err != nil {
		return NewConfigError("erase", m.Path(), err)
	}
	return nil
}

// Guilds lists the guild ids that have a document, sorted.
func (s *Store) Guilds() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, NewConfigError("list", s.dir, err)
	}
	var ids []string
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		id := strings.TrimSuffix(de.Name(), ".json")
		if guildIDPattern.MatchString(id) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// PurgeUser removes userID from the admin users of every stored document and
// returns how many documents changed. Unparsable documents are skipped.
func (s *Store) PurgeUser(userID string) (int, error) {
	ids, err := s.Guilds()
	if err != nil {
		return 0, err
	}
	count := 0
	var errs []error
	for _, guildID := range ids {
		cfg, _, err := s.loadExisting(guildID)
		if err != nil {
			log.StoreLogger().Warn("Skipping unreadable guild document during purge", "guildID", guildID, "error", err)
			continue
		}
		if !cfg.RemoveAdmin(AdminRef{Kind: AdminUser, ID: userID}) {
			continue
		}
		if err := s.Save(guildID, cfg); err != nil {
			errs = append(errs, err)
			continue
		}
		count++
	}
	return count, errors.Join(errs...)
}
