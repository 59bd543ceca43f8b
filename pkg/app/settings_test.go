package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/small-frappuccino/rolepanel/pkg/theme"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	got, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	want := DefaultSettings()
	if got.SessionTimeout != 5*time.Minute || got.PresenceInterval != 10*time.Second || !got.PresenceEnabled {
		t.Fatalf("unexpected timers %+v", got)
	}
	if got.TimeZone != want.TimeZone || got.SupportURL != want.SupportURL {
		t.Fatalf("unexpected defaults %+v", got)
	}
}

func TestLoadSettingsFileThenEnv(t *testing.T) {
	path := writeSettings(t, `
data_dir: /srv/rolepanel
log_level: debug
session_timeout: 2m
presence_enabled: false
time_zone: UTC
infos_guild_id: "111"
infos_channel_id: "222"
`)
	t.Setenv("ROLEPANEL_SESSION_TIMEOUT", "90s")
	t.Setenv("ROLEPANEL_DATA_DIR", "/tmp/override")

	got, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if got.DataDir != "/tmp/override" || got.LogLevel != "debug" || got.PresenceEnabled {
		t.Fatalf("unexpected settings %+v", got)
	}
	if got.SessionTimeout != 90*time.Second {
		t.Fatalf("environment should win over the file, got %s", got.SessionTimeout)
	}
	target := got.InfosTarget()
	if !target.Enabled() || target.GuildID != "111" || target.ChannelID != "222" {
		t.Fatalf("unexpected infos target %+v", target)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %s", got.Location())
	}
}

func TestLoadSettingsRejectsInvalidValues(t *testing.T) {
	path := writeSettings(t, `
session_timeout: 10ms
time_zone: Mars/Olympus
infos_guild_id: "111"
`)
	_, err := LoadSettings(path)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"session_timeout", "time_zone", "infos_channel_id"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadSettingsMalformedYAML(t *testing.T) {
	path := writeSettings(t, "session_timeout: [\n")
	if _, err := LoadSettings(path); err == nil || !strings.Contains(err.Error(), "parse settings") {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

func TestApplyThemeRegistersPalettes(t *testing.T) {
	t.Cleanup(func() { _ = theme.SetCurrent("") })
	s := DefaultSettings()
	s.Theme = "settings-test-dark"
	s.Themes = []theme.Theme{{Name: "settings-test-dark", Primary: 0x202225}}

	if err := s.ApplyTheme(); err != nil {
		t.Fatalf("ApplyTheme: %v", err)
	}
	if theme.Primary() != 0x202225 {
		t.Fatalf("expected the configured primary color, got %#x", theme.Primary())
	}

	s.Themes = nil
	s.Theme = "unknown-palette"
	if err := s.ApplyTheme(); err == nil {
		t.Fatal("expected an error for an unknown theme")
	}
}
