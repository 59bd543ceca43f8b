package app

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/discord/logging"
	"github.com/small-frappuccino/rolepanel/pkg/discord/perf"
	"github.com/small-frappuccino/rolepanel/pkg/files"
	"github.com/small-frappuccino/rolepanel/pkg/log"
)

// GuildDocuments is the part of the document store the lifecycle touches.
type GuildDocuments interface {
	Load(guildID string) *files.GuildConfig
	Exists(guildID string) bool
	Erase(guildID string) error
}

// GuildJournal drops a guild's activity rows.
type GuildJournal interface {
	DeleteGuild(guildID string) (int64, error)
}

// LogChannels posts embeds to log channels.
type LogChannels interface {
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

// Lifecycle reacts to gateway events that are not interactions.
type Lifecycle struct {
	docs      GuildDocuments
	journal   GuildJournal
	channels  LogChannels
	mentions  func() []string
	location  *time.Location
	startedAt time.Time

	readyOnce sync.Once
	// onFirstReady runs once, before the ready announcement.
	onFirstReady []func()
}

func NewLifecycle(docs GuildDocuments, journal GuildJournal, channels LogChannels, mentions func() []string, loc *time.Location, startedAt time.Time) *Lifecycle {
	if loc == nil {
		loc = time.UTC
	}
	if mentions == nil {
		mentions = func() []string { return nil }
	}
	return &Lifecycle{
		docs:      docs,
		journal:   journal,
		channels:  channels,
		mentions:  mentions,
		location:  loc,
		startedAt: startedAt,
	}
}

// OnFirstReady queues fn to run on the first Ready event only.
func (l *Lifecycle) OnFirstReady(fn func()) {
	l.onFirstReady = append(l.onFirstReady, fn)
}

// Attach registers the event handlers on s and returns a function removing them.
func (l *Lifecycle) Attach(s *discordgo.Session) func() {
	removeReady := s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		l.Ready(r.User, r.Guilds)
	})
	removeDelete := s.AddHandler(func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		l.GuildDelete(g.Guild)
	})
	return func() {
		removeReady()
		removeDelete()
	}
}

// Ready logs the connected guilds and, on the first call, runs the ready
// hooks and announces the start in every configured log channel.
// Reconnections only log.
func (l *Lifecycle) Ready(bot *discordgo.User, guilds []*discordgo.Guild) {
	logger := log.DiscordLogger()
	name := ""
	if bot != nil {
		name = bot.String()
	}
	logger.Info("Bot connected", "user", name, "guilds", len(guilds))
	for _, g := range guilds {
		logger.Info("Guild available", "guildID", g.ID, "name", g.Name)
	}

	l.readyOnce.Do(func() {
		defer perf.Track("ready_hooks", "guilds", len(guilds))()
		for _, fn := range l.onFirstReady {
			fn()
		}
		l.announce(bot, guilds)
	})
}

func (l *Lifecycle) announce(bot *discordgo.User, guilds []*discordgo.Guild) {
	if l.channels == nil {
		return
	}
	embed := logging.ReadyEmbed(bot, len(guilds), l.mentions(), l.startedAt, l.location)
	for _, g := range guilds {
		cfg := l.docs.Load(g.ID)
		if cfg.LogChannelID == "" {
			continue
		}
		if err := l.channels.SendEmbed(cfg.LogChannelID, embed); err != nil {
			log.DiscordLogger().Warn("Failed to send startup log", "guildID", g.ID, "channelID", cfg.LogChannelID, "error", err)
		}
	}
}

// GuildDelete erases everything kept about a guild the bot left. Outages
// (Unavailable) keep the data.
func (l *Lifecycle) GuildDelete(g *discordgo.Guild) {
	if g == nil || g.Unavailable {
		return
	}
	logger := log.ApplicationLogger()

	if l.docs.Exists(g.ID) {
		if err := l.docs.Erase(g.ID); err != nil {
			logger.Error("Failed to erase guild document", "guildID", g.ID, "error", err)
		} else {
			logger.Info("Guild document erased", "guildID", g.ID, "name", g.Name)
		}
	}
	if l.journal != nil {
		n, err := l.journal.DeleteGuild(g.ID)
		if err != nil {
			logger.Error("Failed to erase guild journal", "guildID", g.ID, "error", err)
			return
		}
		if n > 0 {
			logger.Info("Guild journal erased", "guildID", g.ID, "rows", n)
		}
	}
}
