package config

import (
	"github.com/bwmarrin/discordgo"
)

// Platform is the slice of the Discord API the configuration panel drives.
type Platform interface {
	Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	EditResponse(i *discordgo.Interaction, panel Panel) error
	OriginalResponse(i *discordgo.Interaction) (*discordgo.Message, error)

	SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
	EditMessage(edit *discordgo.MessageEdit) error
	DeleteMessage(channelID, messageID string) error

	Directory(guildID string) Directory
}

// SessionPlatform implements Platform over a live discordgo session.
type SessionPlatform struct {
	session *discordgo.Session
}

// NewSessionPlatform wraps s.
func NewSessionPlatform(s *discordgo.Session) *SessionPlatform {
	return &SessionPlatform{session: s}
}

func (p *SessionPlatform) Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return p.session.InteractionRespond(i, resp)
}

func (p *SessionPlatform) EditResponse(i *discordgo.Interaction, panel Panel) error {
	embeds := panel.Embeds
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}
	components := panel.Components
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	_, err := p.session.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	})
	return err
}

func (p *SessionPlatform) OriginalResponse(i *discordgo.Interaction) (*discordgo.Message, error) {
	return p.session.InteractionResponse(i)
}

func (p *SessionPlatform) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	return p.session.ChannelMessageSendComplex(channelID, msg)
}

func (p *SessionPlatform) EditMessage(edit *discordgo.MessageEdit) error {
	_, err := p.session.ChannelMessageEditComplex(edit)
	return err
}

func (p *SessionPlatform) DeleteMessage(channelID, messageID string) error {
	return p.session.ChannelMessageDelete(channelID, messageID)
}

func (p *SessionPlatform) Directory(guildID string) Directory {
	return &sessionDirectory{session: p.session, guildID: guildID}
}

// sessionDirectory resolves names from the state cache, then REST.
type sessionDirectory struct {
	session *discordgo.Session
	guildID string
}

func (d *sessionDirectory) RoleName(roleID string) string {
	if d.session.State != nil {
		if r, err := d.session.State.Role(d.guildID, roleID); err == nil && r != nil {
			return r.Name
		}
	}
	roles, err := d.session.GuildRoles(d.guildID)
	if err != nil {
		return ""
	}
	for _, r := range roles {
		if r.ID == roleID {
			return r.Name
		}
	}
	return ""
}

func (d *sessionDirectory) UserTag(userID string) string {
	if d.session.State != nil {
		if m, err := d.session.State.Member(d.guildID, userID); err == nil && m != nil && m.User != nil {
			return m.User.String()
		}
	}
	m, err := d.session.GuildMember(d.guildID, userID)
	if err != nil || m == nil || m.User == nil {
		return ""
	}
	return m.User.String()
}
