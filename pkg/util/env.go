package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnvWithLocalBinFallback returns the value of tokenEnvName.
//
// It loads a .env from the working directory and then $HOME/.local/bin/.env,
// both with non-overwriting semantics, so variables already present in the
// process environment always win. The error describes where it looked.
func LoadEnvWithLocalBinFallback(tokenEnvName string) (string, error) {
	if info, err := os.Stat(".env"); err == nil && !info.IsDir() {
		_ = godotenv.Load(".env")
	}

	home, homeErr := os.UserHomeDir()
	var envPath string
	if homeErr == nil && home != "" {
		envPath = filepath.Join(home, ".local", "bin", ".env")
		if info, statErr := os.Stat(envPath); statErr == nil && !info.IsDir() {
			_ = godotenv.Load(envPath)
		}
	}

	if v := os.Getenv(tokenEnvName); v != "" {
		return v, nil
	}

	if envPath == "" {
		return "", fmt.Errorf("environment variable %q not set and home directory unresolved", tokenEnvName)
	}
	return "", fmt.Errorf("environment variable %q not set; attempted to load fallback file %s", tokenEnvName, envPath)
}

// EnvBool reports whether the variable holds a truthy value (1, true, yes, on).
func EnvBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on", "y":
		return true
	}
	return false
}

// EnvString returns the trimmed variable or def when blank.
func EnvString(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

// EnvInt64 parses the variable as an integer, falling back to def.
func EnvInt64(name string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// EnvDuration parses the variable with time.ParseDuration, falling back to def.
func EnvDuration(name string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
