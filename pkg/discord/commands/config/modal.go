package config

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/files"
)

// Text input ids shared by the modals.
const (
	fieldDescription = "description"
	fieldLabel       = "label"
	fieldEmoji       = "emoji"
	fieldTitle       = "titre"
	fieldFooter      = "footer"
	fieldColor       = "couleur"
)

// Modal is a text collection form.
type Modal struct {
	CustomID string
	Title    string
	Rows     []discordgo.MessageComponent
}

// Response returns the interaction response opening m.
func (m Modal) Response() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   m.CustomID,
			Title:      m.Title,
			Components: m.Rows,
		},
	}
}

func textInput(customID, label, value string, required bool, maxLength int) discordgo.ActionsRow {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.TextInput{
			CustomID:  customID,
			Label:     label,
			Style:     discordgo.TextInputShort,
			Value:     value,
			Required:  required,
			MaxLength: maxLength,
		},
	}}
}

// AddEntryModal collects the texts of a new entry for roleID. The label is
// prefilled with the role's display name.
func AddEntryModal(roleID, roleName string) Modal {
	return Modal{
		CustomID: IDWith(VerbRoleAddSubmit, roleID),
		Title:    "Ajouter un rôle",
		Rows: []discordgo.MessageComponent{
			textInput(fieldDescription, "Description (texte au-dessus du bouton)", "", true, files.MaxDescriptionLength),
			textInput(fieldLabel, "Texte du bouton (défaut : nom du rôle)", roleName, false, files.MaxLabelLength),
			textInput(fieldEmoji, "Emoji (optionnel)", "", false, files.MaxEmojiLength),
		},
	}
}

// EditEntryModal edits the texts of an existing entry.
func EditEntryModal(entry files.RoleEntry) Modal {
	return Modal{
		CustomID: IDWith(VerbRoleEditSubmit, entry.ID),
		Title:    "Modifier les textes",
		Rows: []discordgo.MessageComponent{
			textInput(fieldDescription, "Description", entry.Description, true, files.MaxDescriptionLength),
			textInput(fieldLabel, "Texte du bouton", entry.Label, true, files.MaxLabelLength),
			textInput(fieldEmoji, "Emoji (vide pour retirer)", entry.Emoji, false, files.MaxEmojiLength),
		},
	}
}

// AppearanceModal edits the title, footer and accent color of the deployed panel.
func AppearanceModal(cfg *files.GuildConfig) Modal {
	return Modal{
		CustomID: ID(VerbPersoSubmit),
		Title:    "Personnaliser le message",
		Rows: []discordgo.MessageComponent{
			textInput(fieldTitle, "Titre du message", cfg.Title, false, files.MaxTitleLength),
			textInput(fieldFooter, "Footer du message", cfg.Footer, false, files.MaxFooterLength),
			textInput(fieldColor, `Couleur hex (ex: #FF5733) ou "aucune"`, files.FormatAccentColor(cfg.AccentColor), false, 20),
		},
	}
}

// modalValues flattens submitted text inputs by custom id. Rows decoded from
// the gateway arrive as pointers; rows built in memory are values.
func modalValues(components []discordgo.MessageComponent) map[string]string {
	out := make(map[string]string)
	var visit func(c discordgo.MessageComponent)
	visit = func(c discordgo.MessageComponent) {
		switch v := c.(type) {
		case *discordgo.ActionsRow:
			for _, child := range v.Components {
				visit(child)
			}
		case discordgo.ActionsRow:
			for _, child := range v.Components {
				visit(child)
			}
		case *discordgo.TextInput:
			out[v.CustomID] = strings.TrimSpace(v.Value)
		case discordgo.TextInput:
			out[v.CustomID] = strings.TrimSpace(v.Value)
		}
	}
	for _, c := range components {
		visit(c)
	}
	return out
}
