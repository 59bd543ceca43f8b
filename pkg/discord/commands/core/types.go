package core

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/access"
)

// Command representa um comando slash
type Command interface {
	Name() string
	Description() string
	Options() []*discordgo.ApplicationCommandOption
	Handle(ctx *Context) error
	// RequiresGuild restringe o comando ao contexto de servidor.
	RequiresGuild() bool
	// RequiresPermissions esconde o comando de quem não tem Manage Guild.
	RequiresPermissions() bool
}

// ComponentHandler trata botões, menus de seleção e modais cujo custom id
// começa com Prefix() seguido de ':'.
type ComponentHandler interface {
	Prefix() string
	HandleComponent(ctx *Context) error
}

// Context fornece contexto unificado para execução de comandos e componentes
type Context struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Logger      *slog.Logger
	GuildID     string
	ChannelID   string
	UserID      string
	OwnerID     string
	Actor       access.Actor
}

// IsOwner reports whether the actor owns the guild.
func (ctx *Context) IsOwner() bool {
	return access.IsOwner(ctx.Actor, ctx.OwnerID)
}

// User returns the invoking user, whether the interaction came from a guild or a DM.
func (ctx *Context) User() *discordgo.User {
	i := ctx.Interaction
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// GuildName returns the cached guild name, or "" when the state does not know it.
func (ctx *Context) GuildName() string {
	if ctx.GuildID == "" || ctx.Session == nil || ctx.Session.State == nil {
		return ""
	}
	if g, err := ctx.Session.State.Guild(ctx.GuildID); err == nil && g != nil {
		return g.Name
	}
	return ""
}

// CustomID returns the custom id of a component or modal interaction.
func (ctx *Context) CustomID() string {
	switch ctx.Interaction.Type {
	case discordgo.InteractionMessageComponent:
		return ctx.Interaction.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return ctx.Interaction.ModalSubmitData().CustomID
	}
	return ""
}

// CommandError representa erros específicos de comandos
type CommandError struct {
	Message   string
	Ephemeral bool
}

func (e *CommandError) Error() string {
	return e.Message
}

// NewCommandError cria um novo erro de comando
func NewCommandError(message string, ephemeral bool) *CommandError {
	return &CommandError{
		Message:   message,
		Ephemeral: ephemeral,
	}
}

// CommandRegistry gerencia registro de comandos e handlers de componentes
type CommandRegistry struct {
	commands   map[string]Command
	components map[string]ComponentHandler
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands:   make(map[string]Command),
		components: make(map[string]ComponentHandler),
	}
}

// Register registra um comando no registry
func (r *CommandRegistry) Register(cmd Command) {
	r.commands[cmd.Name()] = cmd
}

// RegisterComponent registra um handler de componentes pelo prefixo
func (r *CommandRegistry) RegisterComponent(h ComponentHandler) {
	r.components[h.Prefix()] = h
}

// GetCommand retorna um comando pelo nome
func (r *CommandRegistry) GetCommand(name string) (Command, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetComponent retorna o handler registrado para o prefixo
func (r *CommandRegistry) GetComponent(prefix string) (ComponentHandler, bool) {
	h, exists := r.components[prefix]
	return h, exists
}

// GetAllCommands retorna todos os comandos registrados
func (r *CommandRegistry) GetAllCommands() map[string]Command {
	return r.commands
}
