package core

import (
	"errors"
	"fmt"
	"runtime/debug"
	"slices"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/errutil"
	"github.com/small-frappuccino/rolepanel/pkg/log"
)

// ErrorReporter recebe falhas inesperadas de handlers (ex.: para o log de atividade)
type ErrorReporter func(ctx *Context, err error)

// CommandRouter gerencia o roteamento e execução de comandos
type CommandRouter struct {
	registry       *CommandRegistry
	contextBuilder *ContextBuilder
	responder      *Responder
	reportError    ErrorReporter
}

// NewCommandRouter cria um novo roteador de comandos
func NewCommandRouter(session *discordgo.Session) *CommandRouter {
	return &CommandRouter{
		registry:       NewCommandRegistry(),
		contextBuilder: NewContextBuilder(session),
		responder:      NewResponder(session),
	}
}

// RegisterCommand registra um comando simples
func (cr *CommandRouter) RegisterCommand(cmd Command) {
	cr.registry.Register(cmd)
}

// RegisterComponent registra um handler de componentes e modais
func (cr *CommandRouter) RegisterComponent(h ComponentHandler) {
	cr.registry.RegisterComponent(h)
}

// SetErrorReporter define quem recebe erros inesperados
func (cr *CommandRouter) SetErrorReporter(fn ErrorReporter) {
	cr.reportError = fn
}

// HandleInteraction roteia interações para os handlers apropriados
func (cr *CommandRouter) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch {
	case IsSlashCommandInteraction(i):
		cr.handleSlashCommand(i)
	case IsComponentInteraction(i):
		cr.handleComponent(i)
	}
}

// handleSlashCommand processa comandos slash
func (cr *CommandRouter) handleSlashCommand(i *discordgo.InteractionCreate) {
	ctx := cr.contextBuilder.BuildContext(i)
	commandName := i.ApplicationCommandData().Name

	ctx.Logger.Debug("Processing slash command")

	cmd, exists := cr.registry.GetCommand(commandName)
	if !exists {
		ctx.Logger.Error("Command not found")
		_ = cr.responder.Ephemeral(i, "❌ Commande inconnue.")
		return
	}

	if cmd.RequiresGuild() && ctx.GuildID == "" {
		ctx.Logger.Warn("Command used outside of guild")
		_ = cr.responder.Ephemeral(i, "❌ Cette commande doit être utilisée dans un serveur.")
		return
	}

	cr.run(ctx, cmd.Handle)
}

// handleComponent processa botões, menus e modais pelo prefixo do custom id
func (cr *CommandRouter) handleComponent(i *discordgo.InteractionCreate) {
	ctx := cr.contextBuilder.BuildContext(i)
	prefix := CustomIDPrefix(ctx.CustomID())

	handler, exists := cr.registry.GetComponent(prefix)
	if !exists {
		ctx.Logger.Debug("No component handler for prefix", "prefix", prefix)
		return
	}
	cr.run(ctx, handler.HandleComponent)
}

// run executa o handler garantindo que toda falha seja respondida uma única vez.
func (cr *CommandRouter) run(ctx *Context, fn func(*Context) error) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			log.ErrorLogger().Error("Interaction handler panicked",
				"action", InteractionLabel(ctx.Interaction),
				"panic", r,
				"stack", string(debug.Stack()),
			)
			cr.fail(ctx, err)
		}
	}()

	if err := fn(ctx); err != nil {
		cr.fail(ctx, err)
	}
}

func (cr *CommandRouter) fail(ctx *Context, err error) {
	if errutil.IsAlreadyAcknowledged(err) {
		ctx.Logger.Debug("Interaction already acknowledged", "error", err)
		return
	}

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		ctx.Logger.Warn("Command rejected", "error", err)
		if cmdErr.Ephemeral {
			_ = cr.responder.Error(ctx.Interaction, cmdErr.Message)
		} else {
			_ = cr.responder.Public(ctx.Interaction, cmdErr.Message)
		}
		return
	}

	ctx.Logger.Error("Interaction handler failed", "error", err)
	if cr.reportError != nil {
		cr.reportError(ctx, err)
	}
	if rerr := cr.responder.Error(ctx.Interaction, GenericErrorMessage); rerr != nil {
		ctx.Logger.Warn("Failed to report handler error to user", "error", rerr)
	}
}

// GetRegistry returns the command registry
func (cr *CommandRouter) GetRegistry() *CommandRegistry {
	return cr.registry
}

// CommandManager gerencia o ciclo de vida dos comandos no Discord
type CommandManager struct {
	session *discordgo.Session
	router  *CommandRouter
}

// NewCommandManager cria um novo gerenciador de comandos
func NewCommandManager(session *discordgo.Session) *CommandManager {
	return &CommandManager{
		session: session,
		router:  NewCommandRouter(session),
	}
}

// GetRouter retorna o roteador de comandos
func (cm *CommandManager) GetRouter() *CommandRouter {
	return cm.router
}

// AttachHandler registra o roteador como handler de interações da sessão
func (cm *CommandManager) AttachHandler() func() {
	return cm.session.AddHandler(cm.router.HandleInteraction)
}

func (cm *CommandManager) appID() (string, error) {
	if cm.session.State == nil || cm.session.State.User == nil {
		return "", errors.New("session has no application user; is it open?")
	}
	return cm.session.State.User.ID, nil
}

// SetupCommands sincroniza os comandos globais com o Discord
func (cm *CommandManager) SetupCommands() error {
	logger := log.ApplicationLogger().With("component", "command_manager")

	appID, err := cm.appID()
	if err != nil {
		return err
	}

	registered, err := cm.session.ApplicationCommands(appID, "")
	if err != nil {
		return fmt.Errorf("failed to fetch registered commands: %w", err)
	}

	regByName := make(map[string]*discordgo.ApplicationCommand, len(registered))
	for _, rc := range registered {
		regByName[rc.Name] = rc
	}

	codeCommands := cm.router.registry.GetAllCommands()

	created, updated, unchanged := 0, 0, 0
	for name, cmd := range codeCommands {
		desired := ApplicationCommand(cmd)

		if existing, ok := regByName[name]; ok {
			if CompareCommands(existing, desired) {
				logger.Debug("Command unchanged, skipping", "command", name)
				unchanged++
				continue
			}
			if _, err := cm.session.ApplicationCommandEdit(appID, "", existing.ID, desired); err != nil {
				return fmt.Errorf("error updating command '%s': %w", name, err)
			}
			logger.Info("Command updated", "command", name)
			updated++
			continue
		}

		if _, err := cm.session.ApplicationCommandCreate(appID, "", desired); err != nil {
			return fmt.Errorf("error creating command '%s': %w", name, err)
		}
		logger.Info("Command created", "command", name)
		created++
	}

	// Remover comandos órfãos (existem no Discord mas não no código)
	deleted := 0
	for _, rc := range registered {
		if _, exists := codeCommands[rc.Name]; exists {
			continue
		}
		if err := cm.session.ApplicationCommandDelete(appID, "", rc.ID); err != nil {
			logger.Warn("Error removing orphan command", "command", rc.Name, "error", err)
			continue
		}
		logger.Info("Orphan command removed", "command", rc.Name)
		deleted++
	}

	logger.Info("Command synchronization completed",
		"created", created,
		"updated", updated,
		"deleted", deleted,
		"unchanged", unchanged,
		"total", len(codeCommands),
		"mode", "incremental",
	)
	return nil
}

// ClearCommands remove todos os comandos globais da aplicação
func (cm *CommandManager) ClearCommands() error {
	appID, err := cm.appID()
	if err != nil {
		return err
	}
	if _, err := cm.session.ApplicationCommandBulkOverwrite(appID, "", []*discordgo.ApplicationCommand{}); err != nil {
		return fmt.Errorf("failed to clear commands: %w", err)
	}
	log.ApplicationLogger().Info("All global commands removed")
	return nil
}

// Mentions returns "</name:id>" for every registered command, falling back to "`/name`".
func (cm *CommandManager) Mentions() []string {
	byName := map[string]string{}
	if appID, err := cm.appID(); err == nil {
		if registered, err := cm.session.ApplicationCommands(appID, ""); err == nil {
			for _, rc := range registered {
				byName[rc.Name] = rc.ID
			}
		}
	}

	names := make([]string, 0, len(cm.router.registry.commands))
	for name := range cm.router.registry.commands {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := byName[name]; ok {
			out = append(out, fmt.Sprintf("</%s:%s>", name, id))
		} else {
			out = append(out, fmt.Sprintf("`/%s`", name))
		}
	}
	return out
}
