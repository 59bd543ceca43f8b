// Package help holds the informational commands /help and /infos.
package help

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/discord/commands/core"
	"github.com/small-frappuccino/rolepanel/pkg/discord/logging"
	"github.com/small-frappuccino/rolepanel/pkg/theme"
)

// DefaultSupportURL is the support server invite shown by /help and /infos.
const DefaultSupportURL = "https://discord.gg/Ma7Gn4ez7M"

// Recorder receives command activity.
type Recorder interface {
	Record(ctx context.Context, a logging.Activity)
}

// HelpCommand lists what the bot can do.
type HelpCommand struct {
	supportURL string
	activity   Recorder
}

// NewHelpCommand builds /help; an empty supportURL uses DefaultSupportURL.
func NewHelpCommand(supportURL string, activity Recorder) *HelpCommand {
	if supportURL == "" {
		supportURL = DefaultSupportURL
	}
	return &HelpCommand{supportURL: supportURL, activity: activity}
}

func (c *HelpCommand) Name() string { return "help" }
func (c *HelpCommand) Description() string {
	return "Affiche les informations utiles pour utiliser le bot."
}
func (c *HelpCommand) Options() []*discordgo.ApplicationCommandOption { return nil }
func (c *HelpCommand) RequiresGuild() bool                           { return false }
func (c *HelpCommand) RequiresPermissions() bool                     { return false }

// HelpEmbed describes the commands and configuration areas.
func HelpEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🤖 Aide - Commandes disponibles",
		Description: "Voici les commandes principales et leur utilisation :\n\n" +
			"• **/config** : Panneau de configuration complet (rôles, logs, admins).\n" +
			"• **/rgpd** : Consulter ou supprimer les données du serveur.\n" +
			"• **🎭 Rôle \"Réaction\"** : Ajouter, modifier, retirer, lister, ordonner, personnaliser, déployer.\n" +
			"• **📋 Salon de logs** : Choisir un salon, activer/désactiver les logs, toggle logs visuels.\n" +
			"• **🔑 Admins bot** : Ajouter/retirer des utilisateurs ou rôles autorisés à configurer le bot.",
		Color: theme.Primary(),
	}
}

func (c *HelpCommand) Handle(ctx *core.Context) error {
	err := ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{HelpEmbed()},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Rejoindre le serveur de support", Style: discordgo.LinkButton, URL: c.supportURL},
				}},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		return err
	}
	if c.activity != nil {
		c.activity.Record(context.Background(), logging.FromContext(ctx, logging.StatusSuccess, "").AsVisual())
	}
	return nil
}
