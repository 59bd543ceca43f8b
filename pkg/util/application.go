package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ConfiguredAppName is set by the host before startup; it drives every derived path.
	ConfiguredAppName string

	// ApplicationSupportPath and ApplicationCachesPath are recalculated by SetAppName.
	ApplicationSupportPath string
	ApplicationCachesPath  string

	// dataDirOverride replaces the default data directory when non-empty.
	dataDirOverride string
)

// AppVersion is reported in the startup embed and the log.
var AppVersion = "dev"

func init() {
	ApplicationSupportPath = GetApplicationSupportPath()
	ApplicationCachesPath = GetApplicationCachesPath()
}

// SetAppName sets a configured application name and recomputes base paths.
func SetAppName(name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	ConfiguredAppName = sanitizeName(name)
	ApplicationSupportPath = GetApplicationSupportPath()
	ApplicationCachesPath = GetApplicationCachesPath()
}

// SetDataDir overrides the directory holding guild documents, activity logs and the journal.
// An empty value restores the default (<ConfigBase>/data).
func SetDataDir(dir string) {
	dataDirOverride = strings.TrimSpace(dir)
}

// EffectiveAppName returns the configured application name or the default.
func EffectiveAppName() string {
	if n := strings.TrimSpace(ConfiguredAppName); n != "" {
		return n
	}
	return "rolepanel"
}

// GetApplicationSupportPath returns the base path for configuration files:
//   - Linux/Unix:  ~/.config/<AppName>
//   - macOS:       ~/Library/Preferences/<AppName>
//   - Windows:     %APPDATA%/<AppName>
func GetApplicationSupportPath() string {
	app := EffectiveAppName()
	if dir := strings.TrimSpace(platformConfigDir(app)); dir != "" {
		return dir
	}
	return filepath.Join(".", "config", app)
}

// GetApplicationCachesPath returns the base path for cache files.
func GetApplicationCachesPath() string {
	app := EffectiveAppName()
	if dir := strings.TrimSpace(platformCacheDir(app)); dir != "" {
		return dir
	}
	return filepath.Join(".", "cache", app)
}

// GetDataDir returns the root of the persisted bot state.
func GetDataDir() string {
	if dataDirOverride != "" {
		return dataDirOverride
	}
	return filepath.Join(ApplicationSupportPath, "data")
}

// GetGuildConfigDir returns the directory holding one JSON document per guild.
// Layout: <Data>/configs
func GetGuildConfigDir() string {
	return filepath.Join(GetDataDir(), "configs")
}

// GetActivityLogDir returns the directory of the daily activity logs.
// Layout: <Data>/logs/activity
func GetActivityLogDir() string {
	return filepath.Join(GetDataDir(), "logs", "activity")
}

// GetJournalDBPath returns the SQLite path of the activity journal.
// Layout: <Data>/journal/activity.db
func GetJournalDBPath() string {
	return filepath.Join(GetDataDir(), "journal", "activity.db")
}

// GetSettingsFilePath returns the default YAML settings path.
// Layout: <ConfigBase>/settings.yaml
func GetSettingsFilePath() string {
	return filepath.Join(ApplicationSupportPath, "settings.yaml")
}

// GetLogFilePath returns the path to the rotating application log:
//   - Linux/Unix:  ~/.log/<AppName>/<AppName>.log
//   - macOS:       ~/Library/Logs/<AppName>/<AppName>.log
//   - Windows:     %APPDATA%/<AppName>/Logs/<AppName>.log
func GetLogFilePath() string {
	app := EffectiveAppName()
	base := strings.TrimSpace(platformLogDir(app))
	if base == "" {
		base = filepath.Join(".", "logs", app)
	}
	return filepath.Join(base, app+".log")
}

// EnsureDataDirs creates the data directories as needed. Safe to call multiple times.
func EnsureDataDirs() error {
	dirs := []string{
		GetGuildConfigDir(),
		GetActivityLogDir(),
		filepath.Dir(GetJournalDBPath()),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", d, err)
		}
	}
	return nil
}

func sanitizeName(s string) string {
	out := strings.TrimSpace(s)
	out = strings.ReplaceAll(out, "/", "-")
	out = strings.ReplaceAll(out, string(filepath.Separator), "-")
	if out == "" {
		return "rolepanel"
	}
	return out
}
