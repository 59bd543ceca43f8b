// Package panel builds the self-service role message deployed in a guild channel.
package panel

import (
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/files"
)

// RoleButtonPrefix is the custom id prefix of the deployed role buttons.
const RoleButtonPrefix = "role"

// EmptyStateText replaces the entries when none are configured.
const EmptyStateText = "-# Aucun rôle configuré. Utilisez `/config` pour en ajouter."

// buttonsPerRow is the platform limit of buttons in one action row.
const buttonsPerRow = 5

var customEmojiPattern = regexp.MustCompile(`^<(a?):(\w+):(\d+)>$`)

// ParseEmoji converts "<:name:id>", "<a:name:id>" or a unicode glyph into a
// component emoji. An empty string yields nil.
func ParseEmoji(s string) *discordgo.ComponentEmoji {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if m := customEmojiPattern.FindStringSubmatch(s); m != nil {
		return &discordgo.ComponentEmoji{Name: m[2], ID: m[3], Animated: m[1] == "a"}
	}
	return &discordgo.ComponentEmoji{Name: s}
}

// RoleButtonID returns the custom id of the button toggling roleID.
func RoleButtonID(roleID string) string {
	return RoleButtonPrefix + ":" + roleID
}

// RoleButton builds the toggle button of one entry.
func RoleButton(entry files.RoleEntry) discordgo.Button {
	return discordgo.Button{
		CustomID: RoleButtonID(entry.RoleID),
		Label:    entry.Label,
		Style:    discordgo.SecondaryButton,
		Emoji:    ParseEmoji(entry.Emoji),
	}
}

func separator(divider bool, size discordgo.SeparatorSpacingSize) discordgo.Separator {
	return discordgo.Separator{Divider: &divider, Spacing: &size}
}

func text(content string) discordgo.TextDisplay {
	return discordgo.TextDisplay{Content: content}
}

// BuildComponents returns the single container of the deployed message.
func BuildComponents(cfg *files.GuildConfig) []discordgo.MessageComponent {
	container := discordgo.Container{}
	if cfg.AccentColor != nil {
		c := *cfg.AccentColor
		container.AccentColor = &c
	}

	add := func(c ...discordgo.MessageComponent) {
		container.Components = append(container.Components, c...)
	}

	add(text("## " + cfg.Title))
	add(separator(true, discordgo.SeparatorSpacingSizeLarge))

	if len(cfg.Entries) == 0 {
		add(text(EmptyStateText))
	} else {
		switch cfg.Layout {
		case files.LayoutRow:
			add(rowLayout(cfg.Entries)...)
		case files.LayoutSection:
			add(sectionLayout(cfg.Entries, cfg.Dividers)...)
		default:
			add(columnLayout(cfg.Entries, cfg.Dividers)...)
		}
	}

	add(separator(true, discordgo.SeparatorSpacingSizeLarge))
	add(text("-# " + cfg.Footer))

	return []discordgo.MessageComponent{container}
}

// columnLayout: one description and one button per entry.
func columnLayout(entries []files.RoleEntry, dividers bool) []discordgo.MessageComponent {
	var out []discordgo.MessageComponent
	for i, e := range entries {
		if i > 0 {
			out = append(out, separator(dividers, discordgo.SeparatorSpacingSizeSmall))
		}
		out = append(out,
			text(e.Description),
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{RoleButton(e)}},
		)
	}
	return out
}

// rowLayout: every description in one block, then buttons five per row.
// The dividers flag does not apply here.
func rowLayout(entries []files.RoleEntry) []discordgo.MessageComponent {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		prefix := ""
		if e.Emoji != "" {
			prefix = e.Emoji + " "
		}
		lines = append(lines, prefix+"**"+e.Label+"** — "+e.Description)
	}

	out := []discordgo.MessageComponent{
		text(strings.Join(lines, "\n")),
		separator(false, discordgo.SeparatorSpacingSizeSmall),
	}
	for start := 0; start < len(entries); start += buttonsPerRow {
		end := min(start+buttonsPerRow, len(entries))
		row := discordgo.ActionsRow{}
		for _, e := range entries[start:end] {
			row.Components = append(row.Components, RoleButton(e))
		}
		out = append(out, row)
	}
	return out
}

// sectionLayout: description with the button as accessory.
func sectionLayout(entries []files.RoleEntry, dividers bool) []discordgo.MessageComponent {
	var out []discordgo.MessageComponent
	for i, e := range entries {
		if i > 0 {
			out = append(out, separator(dividers, discordgo.SeparatorSpacingSizeSmall))
		}
		out = append(out, discordgo.Section{
			Components: []discordgo.MessageComponent{text(e.Description)},
			Accessory:  RoleButton(e),
		})
	}
	return out
}

// BuildMessage returns the payload sent when deploying.
func BuildMessage(cfg *files.GuildConfig) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Components: BuildComponents(cfg),
		Flags:      discordgo.MessageFlagsIsComponentsV2,
	}
}

// BuildEdit returns the payload replacing an already deployed message.
func BuildEdit(cfg *files.GuildConfig, channelID, messageID string) *discordgo.MessageEdit {
	components := BuildComponents(cfg)
	edit := discordgo.NewMessageEdit(channelID, messageID)
	edit.Components = &components
	edit.Flags = discordgo.MessageFlagsIsComponentsV2
	return edit
}
