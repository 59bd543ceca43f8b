package core

import (
	"encoding/json"

	"github.com/bwmarrin/discordgo"
)

// manageGuildPermission é a permissão padrão dos comandos de configuração
var manageGuildPermission int64 = discordgo.PermissionManageGuild

// ApplicationCommand builds the registration payload for cmd.
func ApplicationCommand(cmd Command) *discordgo.ApplicationCommand {
	ac := &discordgo.ApplicationCommand{
		Name:        cmd.Name(),
		Description: cmd.Description(),
		Options:     cmd.Options(),
	}
	if cmd.RequiresPermissions() {
		perm := manageGuildPermission
		ac.DefaultMemberPermissions = &perm
	}
	if cmd.RequiresGuild() {
		contexts := []discordgo.InteractionContextType{discordgo.InteractionContextGuild}
		ac.Contexts = &contexts
	}
	return ac
}

type comparableCommand struct {
	Name                     string                                `json:"name"`
	Description              string                                `json:"description"`
	Options                  []*discordgo.ApplicationCommandOption `json:"options"`
	DefaultMemberPermissions *int64                                `json:"default_member_permissions"`
	Contexts                 []discordgo.InteractionContextType    `json:"contexts"`
}

func toComparable(c *discordgo.ApplicationCommand) comparableCommand {
	out := comparableCommand{
		Name:                     c.Name,
		Description:              c.Description,
		Options:                  c.Options,
		DefaultMemberPermissions: c.DefaultMemberPermissions,
	}
	if len(out.Options) == 0 {
		out.Options = nil
	}
	if c.Contexts != nil && len(*c.Contexts) > 0 {
		out.Contexts = *c.Contexts
	}
	return out
}

// CompareCommands compares two commands to check if they are semantically equal
func CompareCommands(a, b *discordgo.ApplicationCommand) bool {
	ba, _ := json.Marshal(toComparable(a))
	bb, _ := json.Marshal(toComparable(b))
	return string(ba) == string(bb)
}
