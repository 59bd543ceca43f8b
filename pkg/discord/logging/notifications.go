package logging

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/theme"
)

const (
	ErrSendMessage = "error sending message: %w"

	footerTimeLayout = "02/01/2006 15:04:05"
)

// NotificationSender posts embeds to log channels.
type NotificationSender struct {
	session *discordgo.Session
}

func NewNotificationSender(session *discordgo.Session) *NotificationSender {
	return &NotificationSender{
		session: session,
	}
}

// SendEmbed posts one embed to channelID.
func (ns *NotificationSender) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	if _, err := ns.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf(ErrSendMessage, err)
	}
	return nil
}

func statusPresentation(s Status) (title string, color int) {
	switch s {
	case StatusError:
		return "❌ Erreur commande", theme.ActivityError()
	case StatusDenied:
		return "🔒 Accès refusé", theme.ActivityDenied()
	default:
		return "✅ Commande exécutée", theme.ActivitySuccess()
	}
}

// FormatFooterTime renders t like "17/10/2026 14:03:05" in loc.
func FormatFooterTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(footerTimeLayout)
}

// BuildEmbed renders the log channel notification for a.
func (l *ActivityLogger) BuildEmbed(a Activity) *discordgo.MessageEmbed {
	title, color := statusPresentation(a.Status)
	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👤 Utilisateur", Value: formatUserLabel(a.UserTag, a.UserID), Inline: true},
			{Name: "⌨️ Commande", Value: formatCommandLabel(a.Label), Inline: true},
			{Name: "📂 Salon", Value: formatChannelLabel(a.ChannelID), Inline: true},
			{Name: "⚙️ Options", Value: optionsOrDefault(a.Options)},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Serveur : %s • %s", a.GuildName, FormatFooterTime(a.At, l.location)),
		},
	}
	if strings.TrimSpace(a.Detail) != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "📝 Détail", Value: a.Detail})
	}
	return embed
}

// ReadyEmbed is posted to every configured log channel once the gateway is ready.
func ReadyEmbed(bot *discordgo.User, guildCount int, mentions []string, startedAt time.Time, loc *time.Location) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "✅ Bot connecté",
		Description: fmt.Sprintf("En ligne sur **%d** serveur(s).", guildCount),
		Color:       theme.Success(),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Démarré le " + FormatFooterTime(startedAt, loc),
		},
	}
	if bot != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    bot.String(),
			IconURL: bot.AvatarURL(""),
		}
	}
	if len(mentions) > 0 {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "📋 Commandes disponibles", Value: strings.Join(mentions, "\n")},
		}
	}
	return embed
}
