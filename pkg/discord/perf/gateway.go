package perf

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/small-frappuccino/rolepanel/pkg/log"
	"github.com/small-frappuccino/rolepanel/pkg/util"
)

const (
	envSlowHandlerMs     = "ROLEPANEL_SLOW_HANDLER_MS"
	defaultSlowHandlerMs = int64(500)
)

var (
	thresholdOnce sync.Once
	threshold     time.Duration
)

// Threshold returns the duration above which a handler is reported as slow.
// Zero disables reporting.
func Threshold() time.Duration {
	thresholdOnce.Do(func() {
		ms := util.EnvInt64(envSlowHandlerMs, defaultSlowHandlerMs)
		if ms <= 0 {
			return
		}
		threshold = time.Duration(ms) * time.Millisecond
	})
	return threshold
}

// Track starts timing event and returns the function that ends it.
// Only handlers slower than Threshold are logged.
func Track(event string, attrs ...any) func() {
	return trackWith(Threshold(), log.DiscordLogger(), event, attrs...)
}

func trackWith(limit time.Duration, logger *slog.Logger, event string, attrs ...any) func() {
	if limit <= 0 || logger == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		d := time.Since(start)
		if d < limit {
			return
		}
		name := strings.TrimSpace(event)
		if name == "" {
			name = "unknown"
		}
		args := append([]any{"event", name, "duration_ms", d.Milliseconds()}, attrs...)
		logger.Warn("Slow handler", args...)
	}
}
