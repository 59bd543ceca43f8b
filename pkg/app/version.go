package app

import (
	"fmt"
	"strings"

	"github.com/small-frappuccino/rolepanel/pkg/util"
)

// AppVersion is the version reported at startup.
func AppVersion() string {
	return util.AppVersion
}

// SetAppVersion sets the version reported at startup, usually from -ldflags.
func SetAppVersion(v string) {
	if v = strings.TrimSpace(v); v != "" {
		util.AppVersion = v
	}
}

func formatStartupMessage(appName, appVersion string) string {
	appName = strings.TrimSpace(appName)
	appVersion = strings.TrimSpace(appVersion)
	if appVersion == "" || appVersion == "dev" {
		return fmt.Sprintf("🚀 Starting %s...", appName)
	}
	return fmt.Sprintf("🚀 Starting %s %s...", appName, appVersion)
}
