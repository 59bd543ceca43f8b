package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/discord/commands"
	"github.com/small-frappuccino/rolepanel/pkg/discord/logging"
	"github.com/small-frappuccino/rolepanel/pkg/discord/panelsession"
	"github.com/small-frappuccino/rolepanel/pkg/discord/presence"
	"github.com/small-frappuccino/rolepanel/pkg/discord/session"
	"github.com/small-frappuccino/rolepanel/pkg/files"
	"github.com/small-frappuccino/rolepanel/pkg/log"
	"github.com/small-frappuccino/rolepanel/pkg/storage"
	"github.com/small-frappuccino/rolepanel/pkg/util"
)

// Options are the command-line choices of Run.
type Options struct {
	// AppName affects config, data and log paths.
	AppName string
	// TokenEnv is the environment variable containing the bot token.
	TokenEnv string
	// SettingsPath overrides <ConfigBase>/settings.yaml.
	SettingsPath string
	// DataDir overrides the data directory of the settings.
	DataDir string

	// SyncCommands registers the slash commands with Discord once ready.
	SyncCommands bool
	// ClearCommands removes every global command and exits.
	ClearCommands bool
}

// Run bootstraps the bot and blocks until SIGINT or SIGTERM.
// Environment: the TokenEnv variable is read from the process environment
// first; if empty, a fallback $HOME/.local/bin/.env file is loaded and the
// variable re-checked.
func Run(opts Options) error {
	started := time.Now()

	// App name first (affects paths)
	util.SetAppName(opts.AppName)

	token, loadErr := util.LoadEnvWithLocalBinFallback(opts.TokenEnv)

	settingsPath := opts.SettingsPath
	if settingsPath == "" {
		settingsPath = util.GetSettingsFilePath()
	}
	settings, err := LoadSettings(settingsPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if opts.DataDir != "" {
		settings.DataDir = opts.DataDir
	}
	util.SetDataDir(settings.DataDir)

	// Logger next so subsequent steps can log meaningfully
	if err := log.SetupLogger(log.Options{
		FilePath: util.GetLogFilePath(),
		Level:    log.ParseLevel(settings.LogLevel),
		Console:  settings.LogConsole,
	}); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	appLog := log.ApplicationLogger()
	if loadErr != nil {
		appLog.Warn("Token environment not loaded", "error", loadErr)
	}
	if err := settings.ApplyTheme(); err != nil {
		appLog.Warn("Failed to apply theme, using default", "theme", settings.Theme, "error", err)
	}
	appLog.Info(formatStartupMessage(util.EffectiveAppName(), AppVersion()), "settings", settingsPath, "dataDir", util.GetDataDir())

	// Token must be present
	if token == "" {
		return fmt.Errorf("%s not set in environment or .env file", opts.TokenEnv)
	}

	if err := util.EnsureDataDirs(); err != nil {
		return fmt.Errorf("create data directories: %w", err)
	}

	docs := files.NewStore(util.GetGuildConfigDir())

	journal := storage.NewStore(util.GetJournalDBPath())
	if err := journal.Init(); err != nil {
		return fmt.Errorf("initialize SQLite journal: %w", err)
	}
	defer func() { _ = journal.Close() }()
	if last, ok, err := journal.GetLastStart(); err == nil && ok {
		appLog.Info("Previous start", "at", last.Format(time.RFC3339), "downtime", started.Sub(last).Round(time.Second).String())
	}
	if err := journal.SetLastStart(started); err != nil {
		appLog.Warn("Failed to record start time", "error", err)
	}

	ctx, stop := util.InterruptContext(context.Background())
	defer stop()

	discordSession, err := session.Create(token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}

	notifier := logging.NewNotificationSender(discordSession)
	activity := logging.NewActivityLogger(util.GetActivityLogDir(), docs,
		logging.WithJournal(journal),
		logging.WithNotifier(notifier),
		logging.WithLocation(settings.Location()),
	)
	sessions := panelsession.NewRegistry(settings.SessionTimeout)

	commandHandler := commands.NewCommandHandler(discordSession, commands.Dependencies{
		Documents:  docs,
		Journal:    journal,
		Activity:   activity,
		Sessions:   sessions,
		SupportURL: settings.SupportURL,
		Infos:      settings.InfosTarget(),
	})

	if opts.ClearCommands {
		// No announcement: the process exits once the commands are gone.
		quiet := NewLifecycle(docs, nil, nil, nil, settings.Location(), started)
		ready := make(chan struct{})
		quiet.OnFirstReady(func() { close(ready) })
		return clearCommands(ctx, quiet, commandHandler, discordSession, ready)
	}

	lifecycle := NewLifecycle(docs, journal, notifier, commandHandler.Mentions, settings.Location(), started)

	commandHandler.RegisterCommands()
	if opts.SyncCommands {
		lifecycle.OnFirstReady(func() {
			if err := commandHandler.SetupCommands(); err != nil {
				log.ErrorLogger().Error("Failed to sync slash commands", "error", err)
			}
		})
	}

	rotator := presence.NewRotator(discordSession, presence.StateStats(discordSession, started), settings.PresenceInterval)
	if settings.PresenceEnabled {
		lifecycle.OnFirstReady(func() {
			if err := rotator.Start(); err != nil {
				log.ErrorLogger().Error("Failed to start presence rotation", "error", err)
			}
		})
	}

	detach := lifecycle.Attach(discordSession)
	defer detach()

	if err := session.Connect(ctx, discordSession); err != nil {
		return err
	}
	defer func() { _ = discordSession.Close() }()

	appLog.Info(fmt.Sprintf("🎯 %s initialized successfully in %s", util.EffectiveAppName(), time.Since(started).Round(time.Millisecond)))
	appLog.Info(fmt.Sprintf("🤖 %s running. Press Ctrl+C to stop...", util.EffectiveAppName()))

	util.WaitForInterrupt(ctx, nil)
	appLog.Info(fmt.Sprintf("🛑 Stopping %s...", util.EffectiveAppName()))

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeoutCause(context.Background(), 30*time.Second, fmt.Errorf("application shutdown"))
	defer shutdownCancel()

	select {
	case <-rotator.Stop().Done():
	case <-shutdownCtx.Done():
		appLog.Warn("Presence rotation did not stop in time", "cause", context.Cause(shutdownCtx))
	}
	commandHandler.Shutdown()
	if n := sessions.Active(); n > 0 {
		appLog.Info("Dropping open config panels", "count", n)
	}
	sessions.StopAll()
	return nil
}

// clearCommands connects, waits for the first Ready and removes every
// global command.
func clearCommands(ctx context.Context, lifecycle *Lifecycle, handler *commands.CommandHandler, s *discordgo.Session, ready <-chan struct{}) error {
	detach := lifecycle.Attach(s)
	defer detach()

	if err := session.Connect(ctx, s); err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	select {
	case <-ready:
	case <-ctx.Done():
		return context.Cause(ctx)
	}
	if err := handler.ClearCommands(); err != nil {
		return fmt.Errorf("clear commands: %w", err)
	}
	return nil
}
