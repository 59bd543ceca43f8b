package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/small-frappuccino/rolepanel/pkg/discord/commands/help"
	"github.com/small-frappuccino/rolepanel/pkg/discord/panelsession"
	"github.com/small-frappuccino/rolepanel/pkg/discord/presence"
	"github.com/small-frappuccino/rolepanel/pkg/theme"
	"github.com/small-frappuccino/rolepanel/pkg/util"
	"gopkg.in/yaml.v3"
)

// Settings are the process-wide options. Per-guild options live in the
// guild documents.
type Settings struct {
	DataDir  string `yaml:"data_dir,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
	// LogConsole mirrors the JSON log to stdout.
	LogConsole bool `yaml:"log_console,omitempty"`

	SessionTimeout time.Duration `yaml:"session_timeout,omitempty"`

	PresenceEnabled  bool          `yaml:"presence_enabled"`
	PresenceInterval time.Duration `yaml:"presence_interval,omitempty"`

	// TimeZone formats the footers of log channel embeds.
	TimeZone string `yaml:"time_zone,omitempty"`

	SupportURL string `yaml:"support_url,omitempty"`
	InviteURL  string `yaml:"invite_url,omitempty"`

	// Theme selects the embed colors; Themes adds named palettes to pick from.
	Theme  string        `yaml:"theme,omitempty"`
	Themes []theme.Theme `yaml:"themes,omitempty"`

	// InfosGuildID and InfosChannelID enable /infos; both are required.
	InfosGuildID   string `yaml:"infos_guild_id,omitempty"`
	InfosChannelID string `yaml:"infos_channel_id,omitempty"`
}

// DefaultSettings returns the settings used when no file or variable overrides them.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:         "info",
		SessionTimeout:   panelsession.DefaultTimeout,
		PresenceEnabled:  true,
		PresenceInterval: presence.DefaultInterval,
		TimeZone:         "Europe/Paris",
		SupportURL:       help.DefaultSupportURL,
	}
}

// LoadSettings reads path over the defaults, then applies ROLEPANEL_*
// variables. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return s, fmt.Errorf("read settings %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("parse settings %s: %w", path, err)
			}
		}
	}
	s.applyEnv()
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func (s *Settings) applyEnv() {
	s.DataDir = util.EnvString("ROLEPANEL_DATA_DIR", s.DataDir)
	s.LogLevel = util.EnvString("ROLEPANEL_LOG_LEVEL", s.LogLevel)
	if util.EnvBool("ROLEPANEL_LOG_CONSOLE") {
		s.LogConsole = true
	}
	s.SessionTimeout = util.EnvDuration("ROLEPANEL_SESSION_TIMEOUT", s.SessionTimeout)
	if util.EnvBool("ROLEPANEL_DISABLE_PRESENCE") {
		s.PresenceEnabled = false
	}
	s.PresenceInterval = util.EnvDuration("ROLEPANEL_PRESENCE_INTERVAL", s.PresenceInterval)
	s.TimeZone = util.EnvString("ROLEPANEL_TIME_ZONE", s.TimeZone)
	s.SupportURL = util.EnvString("ROLEPANEL_SUPPORT_URL", s.SupportURL)
	s.InviteURL = util.EnvString("ROLEPANEL_INVITE_URL", s.InviteURL)
	s.Theme = util.EnvString("ROLEPANEL_THEME", s.Theme)
	s.InfosGuildID = util.EnvString("ROLEPANEL_INFOS_GUILD_ID", s.InfosGuildID)
	s.InfosChannelID = util.EnvString("ROLEPANEL_INFOS_CHANNEL_ID", s.InfosChannelID)
}

// Validate rejects values the bot cannot run with.
func (s Settings) Validate() error {
	var errs []error
	if s.SessionTimeout < time.Second {
		errs = append(errs, fmt.Errorf("session_timeout must be at least 1s, got %s", s.SessionTimeout))
	}
	if s.PresenceEnabled && s.PresenceInterval < time.Second {
		errs = append(errs, fmt.Errorf("presence_interval must be at least 1s, got %s", s.PresenceInterval))
	}
	if _, err := time.LoadLocation(s.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("time_zone %q: %w", s.TimeZone, err))
	}
	if (s.InfosGuildID == "") != (s.InfosChannelID == "") {
		errs = append(errs, errors.New("infos_guild_id and infos_channel_id must be set together"))
	}
	return errors.Join(errs...)
}

// Location returns the configured time zone, or UTC when it cannot be loaded.
func (s Settings) Location() *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(s.TimeZone))
	if err != nil {
		return time.UTC
	}
	return loc
}

// InfosTarget returns where /infos publishes.
func (s Settings) InfosTarget() help.InfosTarget {
	return help.InfosTarget{
		GuildID:    s.InfosGuildID,
		ChannelID:  s.InfosChannelID,
		InviteURL:  s.InviteURL,
		SupportURL: s.SupportURL,
	}
}

// ApplyTheme registers the configured palettes and activates Theme.
func (s Settings) ApplyTheme() error {
	for i := range s.Themes {
		if err := theme.Register(&s.Themes[i]); err != nil {
			return err
		}
	}
	return theme.SetCurrent(s.Theme)
}
