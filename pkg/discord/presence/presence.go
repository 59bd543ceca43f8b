// Package presence rotates the bot's "playing" status.
package presence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	"github.com/small-frappuccino/rolepanel/pkg/log"
)

// DefaultInterval is the time each status stays visible.
const DefaultInterval = 10 * time.Second

// Stats feeds the status texts.
type Stats struct {
	Guilds    int
	Users     int
	StartedAt time.Time
}

// Activities returns the rotation, in display order, for s at now.
func Activities(s Stats, now time.Time) []string {
	uptime := int(now.Sub(s.StartedAt) / time.Minute)
	if uptime < 0 {
		uptime = 0
	}
	return []string{
		"Gestion de serveurs",
		fmt.Sprintf("%d serveur(s)", s.Guilds),
		fmt.Sprintf("%d utilisateur(s)", s.Users),
		fmt.Sprintf("En ligne depuis %d minute(s)", uptime),
		"Besoin d'aide ? Utilisez /help",
		fmt.Sprintf("Surveille %d communauté(s)", s.Guilds),
	}
}

// StateStats counts guilds and members from the session cache.
func StateStats(s *discordgo.Session, startedAt time.Time) func() Stats {
	return func() Stats {
		st := Stats{StartedAt: startedAt}
		if s == nil || s.State == nil {
			return st
		}
		s.State.RLock()
		defer s.State.RUnlock()
		st.Guilds = len(s.State.Guilds)
		for _, g := range s.State.Guilds {
			st.Users += g.MemberCount
		}
		return st
	}
}

// Updater sets the visible status. *discordgo.Session satisfies it.
type Updater interface {
	UpdateGameStatus(idle int, name string) error
}

// Rotator cycles through Activities on a cron schedule.
type Rotator struct {
	updater  Updater
	stats    func() Stats
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	next int
	cron *cron.Cron
}

func NewRotator(updater Updater, stats func() Stats, interval time.Duration) *Rotator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Rotator{updater: updater, stats: stats, interval: interval, now: time.Now}
}

// Start shows the first status and schedules the rotation. Calling Start on
// a running Rotator is a no-op.
func (r *Rotator) Start() error {
	r.mu.Lock()
	if r.cron != nil {
		r.mu.Unlock()
		return nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", r.interval), r.Tick); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("schedule presence rotation: %w", err)
	}
	r.cron = c
	r.mu.Unlock()

	r.Tick()
	c.Start()
	log.DiscordLogger().Info("Presence rotation started", "interval", r.interval.String())
	return nil
}

// Tick shows the next status of the rotation.
func (r *Rotator) Tick() {
	r.mu.Lock()
	activities := Activities(r.stats(), r.now())
	name := activities[r.next%len(activities)]
	r.next++
	r.mu.Unlock()

	if err := r.updater.UpdateGameStatus(0, name); err != nil {
		log.DiscordLogger().Warn("Failed to update presence", "status", name, "error", err)
	}
}

// Stop halts the rotation and returns a context done when a running tick ends.
func (r *Rotator) Stop() context.Context {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()
	if c == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return c.Stop()
}
