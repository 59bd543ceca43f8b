package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/discord/commands/config"
	"github.com/small-frappuccino/rolepanel/pkg/discord/commands/core"
	"github.com/small-frappuccino/rolepanel/pkg/discord/commands/help"
	"github.com/small-frappuccino/rolepanel/pkg/discord/commands/rgpd"
	"github.com/small-frappuccino/rolepanel/pkg/discord/logging"
	"github.com/small-frappuccino/rolepanel/pkg/discord/panelsession"
	"github.com/small-frappuccino/rolepanel/pkg/discord/roles"
	"github.com/small-frappuccino/rolepanel/pkg/files"
	"github.com/small-frappuccino/rolepanel/pkg/log"
	"github.com/small-frappuccino/rolepanel/pkg/storage"
)

// Dependencies are the stores and services shared by every command.
type Dependencies struct {
	Documents *files.Store
	Journal   *storage.Store
	Activity  *logging.ActivityLogger
	Sessions  *panelsession.Registry

	SupportURL string
	Infos      help.InfosTarget
}

// CommandHandler is the main handler that coordinates all bot commands
type CommandHandler struct {
	session        *discordgo.Session
	deps           Dependencies
	commandManager *core.CommandManager
	detach         func()
}

// NewCommandHandler creates a new CommandHandler instance
func NewCommandHandler(session *discordgo.Session, deps Dependencies) *CommandHandler {
	return &CommandHandler{
		session: session,
		deps:    deps,
	}
}

// RegisterCommands builds the router with every command and component
// handler and attaches it to the session. Safe to call once.
func (ch *CommandHandler) RegisterCommands() {
	ch.commandManager = core.NewCommandManager(ch.session)
	router := ch.commandManager.GetRouter()
	deps := ch.deps

	configHandler := config.NewHandler(deps.Documents, deps.Sessions, deps.Activity)
	router.RegisterCommand(configHandler.Command())
	router.RegisterComponent(configHandler)

	rgpdHandler := rgpd.NewHandler(deps.Documents, deps.Journal, deps.Activity)
	router.RegisterCommand(rgpdHandler.Command())
	router.RegisterComponent(rgpdHandler)

	router.RegisterComponent(roles.NewToggleHandler(deps.Documents, deps.Activity, nil))

	router.RegisterCommand(help.NewHelpCommand(deps.SupportURL, deps.Activity))
	if deps.Infos.Enabled() {
		router.RegisterCommand(help.NewInfosCommand(deps.Infos, deps.Activity))
	}

	router.SetErrorReporter(func(ctx *core.Context, err error) {
		deps.Activity.Record(context.Background(), logging.FromContext(ctx, logging.StatusError, err.Error()))
	})

	ch.detach = ch.commandManager.AttachHandler()
	log.ApplicationLogger().Info("Commands and component handlers registered",
		"commands", len(router.GetRegistry().GetAllCommands()),
		"infos", deps.Infos.Enabled(),
	)
}

// SetupCommands syncs the registered slash commands with Discord.
func (ch *CommandHandler) SetupCommands() error {
	if ch.commandManager == nil {
		return fmt.Errorf("commands not registered")
	}
	if err := ch.commandManager.SetupCommands(); err != nil {
		return fmt.Errorf("failed to setup commands: %w", err)
	}
	log.ApplicationLogger().Info("Bot commands setup completed successfully")
	return nil
}

// ClearCommands removes every global command of the application.
func (ch *CommandHandler) ClearCommands() error {
	if ch.commandManager == nil {
		ch.commandManager = core.NewCommandManager(ch.session)
	}
	return ch.commandManager.ClearCommands()
}

// Mentions returns clickable mentions of the registered commands.
func (ch *CommandHandler) Mentions() []string {
	if ch.commandManager == nil {
		return nil
	}
	return ch.commandManager.Mentions()
}

// Shutdown detaches the interaction handler; open panels are left as they are.
func (ch *CommandHandler) Shutdown() {
	log.ApplicationLogger().Info("Shutting down command handler...")
	if ch.detach != nil {
		ch.detach()
		ch.detach = nil
	}
}
