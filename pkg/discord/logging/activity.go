package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/discord/commands/core"
	"github.com/small-frappuccino/rolepanel/pkg/files"
	"github.com/small-frappuccino/rolepanel/pkg/log"
	"github.com/small-frappuccino/rolepanel/pkg/storage"
)

// Status is the outcome of a logged interaction.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusDenied  Status = "denied"
)

// Activity is one logged interaction.
type Activity struct {
	Status Status
	// Category gates the channel notification; the empty category always passes.
	Category files.LogCategory
	// Visual marks read-only actions (opening menus) that logVisual can silence.
	Visual bool

	Label   string
	Options string
	Detail  string

	GuildID   string
	GuildName string
	ChannelID string
	UserID    string
	UserTag   string

	At time.Time
}

// FromContext fills the identity fields of an Activity from an interaction.
// Slash commands get "/name" and their options; components need a Label.
func FromContext(ctx *core.Context, status Status, detail string) Activity {
	a := Activity{
		Status:    status,
		Detail:    detail,
		GuildID:   ctx.GuildID,
		GuildName: ctx.GuildName(),
		ChannelID: ctx.ChannelID,
		UserID:    ctx.UserID,
		Label:     core.InteractionLabel(ctx.Interaction),
		Options:   componentOptionsText,
	}
	if u := ctx.User(); u != nil {
		a.UserTag = u.String()
	}
	if core.IsSlashCommandInteraction(ctx.Interaction) {
		var pairs [][2]string
		for _, opt := range ctx.Interaction.ApplicationCommandData().Options {
			pairs = append(pairs, [2]string{opt.Name, fmt.Sprint(opt.Value)})
		}
		a.Options = FormatOptions(pairs)
	}
	return a
}

// WithLabel overrides the action label, as components log under a readable name.
func (a Activity) WithLabel(label string) Activity {
	a.Label = label
	return a
}

// WithCategory sets the notification category.
func (a Activity) WithCategory(category files.LogCategory) Activity {
	a.Category = category
	return a
}

// AsVisual marks the activity as a read-only action.
func (a Activity) AsVisual() Activity {
	a.Visual = true
	return a
}

// ConfigSource gives the logger the guild's log channel and category flags.
type ConfigSource interface {
	Load(guildID string) *files.GuildConfig
}

// Journal persists activity rows for the privacy flows.
type Journal interface {
	RecordActivity(rec storage.ActivityRecord) (string, error)
}

// Notifier delivers an embed to a channel.
type Notifier interface {
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

// ActivityLogger writes every activity to the daily file and the journal,
// then mirrors it to the guild's log channel when the guild allows it.
type ActivityLogger struct {
	dir      string
	configs  ConfigSource
	journal  Journal
	notifier Notifier
	location *time.Location
	now      func() time.Time

	// mu serializes appends so lines from concurrent handlers never interleave.
	mu sync.Mutex
}

// Option customizes an ActivityLogger.
type Option func(*ActivityLogger)

// WithJournal enables the SQLite journal.
func WithJournal(j Journal) Option {
	return func(l *ActivityLogger) { l.journal = j }
}

// WithNotifier enables channel notifications.
func WithNotifier(n Notifier) Option {
	return func(l *ActivityLogger) { l.notifier = n }
}

// WithLocation sets the time zone of the notification footer.
func WithLocation(loc *time.Location) Option {
	return func(l *ActivityLogger) {
		if loc != nil {
			l.location = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *ActivityLogger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewActivityLogger writes daily files under dir.
func NewActivityLogger(dir string, configs ConfigSource, opts ...Option) *ActivityLogger {
	l := &ActivityLogger{
		dir:      dir,
		configs:  configs,
		location: time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record logs a. Failures are logged and never returned: activity logging
// must not change the outcome of the interaction it describes.
func (l *ActivityLogger) Record(ctx context.Context, a Activity) {
	if l == nil {
		return
	}
	if a.At.IsZero() {
		a.At = l.now()
	}

	if err := l.appendLine(a); err != nil {
		log.ErrorLogger().Error("Failed to append activity log", "guildID", a.GuildID, "error", err)
	}

	if l.journal != nil {
		_, err := l.journal.RecordActivity(storage.ActivityRecord{
			RecordedAt: a.At,
			Status:     string(a.Status),
			Category:   string(a.Category),
			UserID:     a.UserID,
			UserTag:    a.UserTag,
			Action:     a.Label,
			GuildID:    a.GuildID,
			GuildName:  a.GuildName,
			ChannelID:  a.ChannelID,
			Detail:     a.Detail,
		})
		if err != nil {
			log.StoreLogger().Warn("Failed to journal activity", "guildID", a.GuildID, "error", err)
		}
	}

	if ctx.Err() != nil {
		return
	}
	l.notify(a)
}

func (l *ActivityLogger) notify(a Activity) {
	if l.notifier == nil || l.configs == nil || a.GuildID == "" {
		return
	}
	cfg := l.configs.Load(a.GuildID)
	if !ShouldNotify(cfg, a) {
		return
	}
	if err := l.notifier.SendEmbed(cfg.LogChannelID, l.BuildEmbed(a)); err != nil {
		log.DiscordLogger().Warn("Failed to send activity notification",
			"guildID", a.GuildID,
			"channelID", cfg.LogChannelID,
			"error", err,
		)
	}
}

// ShouldNotify applies the guild's log channel, category and visual flags.
func ShouldNotify(cfg *files.GuildConfig, a Activity) bool {
	if cfg == nil || strings.TrimSpace(cfg.LogChannelID) == "" {
		return false
	}
	if !cfg.LogCategoryEnabled(a.Category) {
		return false
	}
	if a.Visual && !cfg.LogVisual {
		return false
	}
	return true
}

// FormatLine renders the daily log line, without the trailing newline.
func FormatLine(a Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] User: %s (%s) | Cmd: %s | Guild: %s (%s) | Channel: %s",
		a.At.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		strings.ToUpper(string(a.Status)),
		a.UserTag, a.UserID,
		a.Label,
		a.GuildName, a.GuildID,
		a.ChannelID,
	)
	if a.Detail != "" {
		b.WriteString(" | Detail: ")
		b.WriteString(a.Detail)
	}
	return b.String()
}

// DailyLogPath returns the file receiving lines recorded at t (UTC day).
func (l *ActivityLogger) DailyLogPath(t time.Time) string {
	return filepath.Join(l.dir, t.UTC().Format("2006-01-02")+".log")
}

func (l *ActivityLogger) appendLine(a Activity) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create activity log dir: %w", err)
	}
	f, err := os.OpenFile(l.DailyLogPath(a.At), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open activity log: %w", err)
	}
	if _, err := f.WriteString(FormatLine(a) + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("write activity log: %w", err)
	}
	return f.Close()
}
