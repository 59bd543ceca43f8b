package config

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/discord/panel"
	"github.com/small-frappuccino/rolepanel/pkg/files"
	"github.com/small-frappuccino/rolepanel/pkg/theme"
	"github.com/small-frappuccino/rolepanel/pkg/util"
)

const (
	RolesPerPage  = 8
	AdminsPerPage = 15

	// maxSelectOptions is the platform limit of options in one select menu.
	maxSelectOptions = 25
)

// Panel is one screen of the configuration UI.
type Panel struct {
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// ScreenKind names the screens Render can produce.
type ScreenKind int

const (
	ScreenMain ScreenKind = iota
	ScreenRoleList
	ScreenRoleDetail
	ScreenRoleEdit
	ScreenRoleRemoveConfirm
	ScreenRoleAdd
	ScreenPersonalization
	ScreenDeploy
	ScreenLogSettings
	ScreenAdminList
	ScreenAdminAdd
	ScreenAdminRemove
)

// Screen selects what Render draws.
type Screen struct {
	Kind    ScreenKind
	Page    int
	EntryID string
}

// Directory resolves display names inside one guild. Unknown ids return "".
type Directory interface {
	RoleName(roleID string) string
	UserTag(userID string) string
}

// Render draws screen s from cfg. It has no side effects.
func Render(cfg *files.GuildConfig, s Screen, dir Directory) Panel {
	switch s.Kind {
	case ScreenRoleList:
		return roleListPanel(cfg, s.Page)
	case ScreenRoleDetail:
		return roleDetailPanel(cfg, s.EntryID)
	case ScreenRoleEdit:
		return roleEditPanel(cfg, s.EntryID)
	case ScreenRoleRemoveConfirm:
		return roleRemoveConfirmPanel(cfg, s.EntryID)
	case ScreenRoleAdd:
		return roleAddPanel(cfg)
	case ScreenPersonalization:
		return personalizationPanel(cfg)
	case ScreenDeploy:
		return deployPanel(cfg)
	case ScreenLogSettings:
		return logSettingsPanel(cfg)
	case ScreenAdminList:
		return adminListPanel(cfg, s.Page)
	case ScreenAdminAdd:
		return adminAddPanel()
	case ScreenAdminRemove:
		return adminRemovePanel(cfg, dir, s.Page)
	default:
		return mainPanel()
	}
}

// ## Building blocks

func embedPanel(title, description string, color int, rows ...discordgo.MessageComponent) Panel {
	return Panel{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       title,
			Description: description,
			Color:       color,
		}},
		Components: rows,
	}
}

func emoji(name string) *discordgo.ComponentEmoji {
	if name == "" {
		return nil
	}
	return &discordgo.ComponentEmoji{Name: name}
}

func button(customID, label, emojiName string, style discordgo.ButtonStyle, disabled bool) discordgo.Button {
	return discordgo.Button{
		CustomID: customID,
		Label:    label,
		Emoji:    emoji(emojiName),
		Style:    style,
		Disabled: disabled,
	}
}

func row(components ...discordgo.MessageComponent) discordgo.ActionsRow {
	return discordgo.ActionsRow{Components: components}
}

func backRow() discordgo.ActionsRow {
	return row(button(ID(VerbBack), "← Retour", "", discordgo.SecondaryButton, false))
}

func roleBackRow() discordgo.ActionsRow {
	return row(button(ID(VerbRoleBack), "← Retour", "", discordgo.SecondaryButton, false))
}

func adminBackRow() discordgo.ActionsRow {
	return row(button(ID(VerbAdminBack), "← Retour", "", discordgo.SecondaryButton, false))
}

func pagerRow(v Verb, page, totalPages int) discordgo.ActionsRow {
	return row(
		button(PageID(v, page-1), "◀ Précédent", "", discordgo.SecondaryButton, page == 0),
		button(PageID(v, page+1), "Suivant ▶", "", discordgo.SecondaryButton, page >= totalPages-1),
	)
}

// clampPage returns the page count of n items and page clamped into range.
func clampPage(n, perPage, page int) (int, int) {
	totalPages := max(1, (n+perPage-1)/perPage)
	return min(max(page, 0), totalPages-1), totalPages
}

func onOff(v bool) string {
	if v {
		return "✅"
	}
	return "❌"
}

func toggleStyle(v bool) discordgo.ButtonStyle {
	if v {
		return discordgo.SuccessButton
	}
	return discordgo.SecondaryButton
}

func layoutLabel(l files.Layout) string {
	switch l {
	case files.LayoutRow:
		return "📏 Ligne"
	case files.LayoutSection:
		return "📑 Section"
	default:
		return "📐 Colonne"
	}
}

// ## Main

func mainPanel() Panel {
	return embedPanel("⚙️ Configuration du bot", "Sélectionnez une action ci-dessous.", theme.Primary(),
		row(
			button(ID(VerbRoleMenu), "Rôle Réaction", "🎭", discordgo.PrimaryButton, false),
			button(ID(VerbLogs), "Salon de logs", "📋", discordgo.PrimaryButton, false),
		),
		row(
			button(ID(VerbAdminMenu), "Admins bot", "🔑", discordgo.PrimaryButton, false),
			button(ID(VerbClose), "Fermer", "✖️", discordgo.DangerButton, false),
		),
	)
}

// ## Roles

func roleListPanel(cfg *files.GuildConfig, page int) Panel {
	entries := cfg.Entries
	page, totalPages := clampPage(len(entries), RolesPerPage, page)

	var desc strings.Builder
	desc.WriteString("Gérez le sélecteur de rôles de ce serveur.\n")
	if len(entries) == 0 {
		desc.WriteString("\n*Aucun rôle configuré.*")
	} else {
		start := page * RolesPerPage
		end := min(start+RolesPerPage, len(entries))
		lines := make([]string, 0, end-start)
		for i, e := range entries[start:end] {
			prefix := ""
			if e.Emoji != "" {
				prefix = e.Emoji + " "
			}
			lines = append(lines, fmt.Sprintf("**%d.** %s**%s** (<@&%s>)\n   └ *%s*", start+i+1, prefix, e.Label, e.RoleID, e.Description))
		}
		desc.WriteString("\n" + strings.Join(lines, "\n\n"))
		if totalPages > 1 {
			fmt.Fprintf(&desc, "\n\n-# Page %d/%d", page+1, totalPages)
		}
	}

	var rows []discordgo.MessageComponent
	if len(entries) > 0 {
		options := make([]discordgo.SelectMenuOption, 0, min(len(entries), maxSelectOptions))
		for i, e := range entries {
			if i == maxSelectOptions {
				break
			}
			options = append(options, discordgo.SelectMenuOption{
				Label:       util.Truncate(fmt.Sprintf("%d. %s", i+1, e.Label), 100),
				Description: util.Truncate(e.Description, 100),
				Value:       e.ID,
				Emoji:       panel.ParseEmoji(e.Emoji),
			})
		}
		rows = append(rows, row(discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    ID(VerbRoleSelect),
			Placeholder: "Sélectionner un rôle pour le modifier…",
			Options:     options,
		}))
	}
	rows = append(rows, row(
		button(ID(VerbRoleAdd), "Ajouter", "➕", discordgo.SuccessButton, !cfg.CanAddEntry()),
		button(ID(VerbPerso), "Personnaliser", "🎨", discordgo.PrimaryButton, false),
		button(ID(VerbDeploy), "Déployer", "🚀", discordgo.SuccessButton, len(entries) == 0),
		button(ID(VerbBack), "← Retour", "", discordgo.SecondaryButton, false),
	))
	if totalPages > 1 {
		rows = append(rows, pagerRow(VerbRolePage, page, totalPages))
	}

	title := fmt.Sprintf("🎭 Rôle Réaction (%d/%d)", len(entries), files.MaxEntries)
	return embedPanel(title, desc.String(), theme.Primary(), rows...)
}

func roleDetailPanel(cfg *files.GuildConfig, entryID string) Panel {
	idx := cfg.EntryIndex(entryID)
	if idx < 0 {
		return entryNotFoundPanel(entryID)
	}
	e := cfg.Entries[idx]

	title := "🎭 " + e.Label
	if e.Emoji != "" {
		title = "🎭 " + e.Emoji + " " + e.Label
	}
	desc := fmt.Sprintf("**Rôle :** <@&%s>\n**Description :** %s\n**Emoji :** %s\n**Position :** %d/%d\n**ID :** `%s`",
		e.RoleID, e.Description, emojiOrNone(e.Emoji), idx+1, len(cfg.Entries), e.ID)

	return embedPanel(title, desc, theme.Primary(), row(
		button(IDWith(VerbRoleOpenEdit, e.ID), "Modifier", "✏️", discordgo.PrimaryButton, false),
		button(IDWith(VerbRoleOpenRemove, e.ID), "Retirer", "➖", discordgo.DangerButton, false),
		button(IDWith(VerbRoleMoveUp, e.ID), "Monter", "⬆️", discordgo.SecondaryButton, idx == 0),
		button(IDWith(VerbRoleMoveDown, e.ID), "Descendre", "⬇️", discordgo.SecondaryButton, idx == len(cfg.Entries)-1),
		button(ID(VerbRoleBack), "← Retour", "", discordgo.SecondaryButton, false),
	))
}

func emojiOrNone(e string) string {
	if e == "" {
		return "*Aucun*"
	}
	return e
}

func roleEditPanel(cfg *files.GuildConfig, entryID string) Panel {
	e, ok := cfg.EntryByID(entryID)
	if !ok {
		return entryNotFoundPanel(entryID)
	}
	desc := fmt.Sprintf("**Rôle :** <@&%s>\n**Description :** %s\n**Label :** %s\n**Emoji :** %s\n**ID :** `%s`\n\n"+
		"Changez le rôle ci-dessous ou cliquez sur **Modifier les textes**.",
		e.RoleID, e.Description, e.Label, emojiOrNone(e.Emoji), e.ID)

	return embedPanel("✏️ Modifier : "+e.Label, desc, theme.Primary(),
		row(discordgo.SelectMenu{
			MenuType:    discordgo.RoleSelectMenu,
			CustomID:    IDWith(VerbRoleChange, e.ID),
			Placeholder: "Changer le rôle…",
		}),
		row(
			button(IDWith(VerbRoleEditTexts, e.ID), "Modifier les textes", "✏️", discordgo.PrimaryButton, false),
			button(ID(VerbRoleBack), "← Retour", "", discordgo.SecondaryButton, false),
		),
	)
}

func roleRemoveConfirmPanel(cfg *files.GuildConfig, entryID string) Panel {
	e, ok := cfg.EntryByID(entryID)
	if !ok {
		return entryNotFoundPanel(entryID)
	}
	desc := fmt.Sprintf("Voulez-vous vraiment retirer **%s** (<@&%s>) du sélecteur ?", e.Label, e.RoleID)
	return embedPanel("➖ Confirmer la suppression", desc, theme.Error(), row(
		button(IDWith(VerbRoleRemoveConfirm, e.ID), "Confirmer", "🗑️", discordgo.DangerButton, false),
		button(ID(VerbRoleBack), "← Annuler", "", discordgo.SecondaryButton, false),
	))
}

func roleAddPanel(cfg *files.GuildConfig) Panel {
	if !cfg.CanAddEntry() {
		return entryLimitPanel()
	}
	return embedPanel("➕ Ajouter un rôle", "Sélectionnez le rôle à ajouter au sélecteur.", theme.Success(),
		row(discordgo.SelectMenu{
			MenuType:    discordgo.RoleSelectMenu,
			CustomID:    ID(VerbRoleAddSelect),
			Placeholder: "Choisir un rôle…",
		}),
		roleBackRow(),
	)
}

// ## Personalization

func personalizationPanel(cfg *files.GuildConfig) Panel {
	color := FormatColor(cfg.AccentColor)
	divState := "Désactivés"
	if cfg.Dividers {
		divState = "Activés"
	}
	desc := fmt.Sprintf("**Disposition actuelle :** %s\n**Séparateurs :** %s %s\n**Titre :** %s\n**Footer :** %s\n**Couleur :** `%s`\n\n"+
		"Changez la disposition ci-dessous ou modifiez les textes.",
		layoutLabel(cfg.Layout), onOff(cfg.Dividers), divState, cfg.Title, cfg.Footer, color)

	layoutOption := func(label, description string, value files.Layout, emojiName string) discordgo.SelectMenuOption {
		return discordgo.SelectMenuOption{
			Label:       label,
			Description: description,
			Value:       string(value),
			Emoji:       emoji(emojiName),
			Default:     cfg.Layout == value,
		}
	}

	return embedPanel("🎨 Personnaliser le message", desc, theme.Primary(),
		row(discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    ID(VerbPersoLayout),
			Placeholder: "Choisir une disposition…",
			Options: []discordgo.SelectMenuOption{
				layoutOption("Colonne", "Un bouton par ligne avec sa description (défaut)", files.LayoutColumn, "📐"),
				layoutOption("Ligne", "Boutons groupés par lignes de 5, descriptions au-dessus", files.LayoutRow, "📏"),
				layoutOption("Section", "Description et bouton côte à côte", files.LayoutSection, "📑"),
			},
		}),
		row(button(ID(VerbPersoDividers), "Séparateurs : "+onOff(cfg.Dividers), "", toggleStyle(cfg.Dividers), false)),
		row(
			button(ID(VerbPersoTexts), "Modifier les textes", "✏️", discordgo.PrimaryButton, false),
			button(ID(VerbRoleBack), "← Retour", "", discordgo.SecondaryButton, false),
		),
	)
}

// FormatColor renders an accent color as "#RRGGBB", or "Aucune".
func FormatColor(c *int) string {
	if c == nil {
		return "Aucune"
	}
	return files.FormatAccentColor(c)
}

// ## Deploy

func deployPanel(cfg *files.GuildConfig) Panel {
	status := "Aucun message déployé"
	if cfg.HasDeployment() {
		status = fmt.Sprintf("Message déployé dans <#%s>", cfg.ChannelID)
	}

	buttons := []discordgo.MessageComponent{}
	if cfg.HasDeployment() {
		buttons = append(buttons, button(ID(VerbDeployUpdate), "Mettre à jour", "🔄", discordgo.PrimaryButton, false))
	}
	buttons = append(buttons, button(ID(VerbRoleBack), "← Retour", "", discordgo.SecondaryButton, false))

	return embedPanel("🚀 Déployer le sélecteur",
		status+"\n\nSélectionnez un salon pour déployer ou redéployer le message.",
		theme.Primary(),
		row(discordgo.SelectMenu{
			MenuType:     discordgo.ChannelSelectMenu,
			CustomID:     ID(VerbDeployChannel),
			Placeholder:  "Choisir un salon…",
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		}),
		row(buttons...),
	)
}

// ## Logs

func logSettingsPanel(cfg *files.GuildConfig) Panel {
	current := "Aucun salon configuré"
	if cfg.LogChannelID != "" {
		current = fmt.Sprintf("Salon : <#%s>", cfg.LogChannelID)
	}
	desc := fmt.Sprintf("%s\n\n%s **Rôle Réaction**\n%s **RGPD**\n%s **Admins Bot**\n%s **Logs visuels** *(ouverture menus, consultations)*\n\n"+
		"Sélectionnez un salon et activez / désactivez chaque catégorie.",
		current, onOff(cfg.LogRoles), onOff(cfg.LogRgpd), onOff(cfg.LogAdmin), onOff(cfg.LogVisual))

	allOn := cfg.AllLogCategoriesEnabled()
	toggleAll := button(ID(VerbLogsToggleAll), "Tout activer", "✅", discordgo.SuccessButton, false)
	if allOn {
		toggleAll = button(ID(VerbLogsToggleAll), "Tout désactiver", "🚫", discordgo.DangerButton, false)
	}

	return embedPanel("📋 Salon de logs", desc, theme.Primary(),
		row(discordgo.SelectMenu{
			MenuType:     discordgo.ChannelSelectMenu,
			CustomID:     ID(VerbLogsChannel),
			Placeholder:  "Choisir un salon…",
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		}),
		row(
			button(ID(VerbLogsCategoryRoles), "Rôle Réaction : "+onOff(cfg.LogRoles), "", toggleStyle(cfg.LogRoles), false),
			button(ID(VerbLogsCategoryRgpd), "RGPD : "+onOff(cfg.LogRgpd), "", toggleStyle(cfg.LogRgpd), false),
			button(ID(VerbLogsCategoryAdmin), "Admins : "+onOff(cfg.LogAdmin), "", toggleStyle(cfg.LogAdmin), false),
		),
		row(
			button(ID(VerbLogsVisual), "Logs visuels : "+onOff(cfg.LogVisual), "", toggleStyle(cfg.LogVisual), false),
			toggleAll,
		),
		backRow(),
	)
}

// ## Admins

func adminMention(ref files.AdminRef) string {
	if ref.Kind == files.AdminRole {
		return "🎭 <@&" + ref.ID + ">"
	}
	return "👤 <@" + ref.ID + ">"
}

func adminListPanel(cfg *files.GuildConfig, page int) Panel {
	admins := cfg.Admins()
	page, totalPages := clampPage(len(admins), AdminsPerPage, page)

	var desc strings.Builder
	desc.WriteString("Gérez les administrateurs du bot sur ce serveur.\n")
	if len(admins) == 0 {
		desc.WriteString("\n*Aucun admin configuré.*\nSeul le **propriétaire du serveur** peut configurer le bot.")
	} else {
		start := page * AdminsPerPage
		end := min(start+AdminsPerPage, len(admins))
		lines := make([]string, 0, end-start)
		for _, ref := range admins[start:end] {
			lines = append(lines, "  "+adminMention(ref))
		}
		desc.WriteString("\n" + strings.Join(lines, "\n") + "\n\n-# + le propriétaire du serveur (toujours)")
		if totalPages > 1 {
			fmt.Fprintf(&desc, "\n-# Page %d/%d", page+1, totalPages)
		}
	}

	rows := []discordgo.MessageComponent{row(
		button(ID(VerbAdminAdd), "Ajouter", "➕", discordgo.SuccessButton, false),
		button(ID(VerbAdminRemove), "Retirer", "➖", discordgo.DangerButton, !cfg.HasAdmins()),
		button(ID(VerbBack), "← Retour", "", discordgo.SecondaryButton, false),
	)}
	if totalPages > 1 {
		rows = append(rows, pagerRow(VerbAdminPage, page, totalPages))
	}
	return embedPanel("🔑 Admins du bot", desc.String(), theme.Primary(), rows...)
}

func adminAddPanel() Panel {
	return embedPanel("➕ Ajouter un admin", "Sélectionnez un utilisateur ou un rôle à ajouter aux admins du bot.", theme.Success(),
		row(discordgo.SelectMenu{
			MenuType:    discordgo.UserSelectMenu,
			CustomID:    ID(VerbAdminAddUser),
			Placeholder: "Choisir un utilisateur…",
		}),
		row(discordgo.SelectMenu{
			MenuType:    discordgo.RoleSelectMenu,
			CustomID:    ID(VerbAdminAddRole),
			Placeholder: "Choisir un rôle…",
		}),
		adminBackRow(),
	)
}

// adminRemovePanel offers one page of the unified admin list; the select
// menu holds at most maxSelectOptions entries.
func adminRemovePanel(cfg *files.GuildConfig, dir Directory, page int) Panel {
	admins := cfg.Admins()
	if len(admins) == 0 {
		return embedPanel("➖ Retirer un admin", "Aucun admin configuré. Il n'y a rien à retirer.", theme.Warning(), adminBackRow())
	}

	page, totalPages := clampPage(len(admins), maxSelectOptions, page)
	start := page * maxSelectOptions
	end := min(start+maxSelectOptions, len(admins))

	options := make([]discordgo.SelectMenuOption, 0, end-start)
	for _, ref := range admins[start:end] {
		var label, glyph string
		switch ref.Kind {
		case files.AdminRole:
			glyph = "🎭"
			if dir != nil {
				label = dir.RoleName(ref.ID)
			}
			if label == "" {
				label = fmt.Sprintf("Rôle (%s)", ref.ID)
			}
		default:
			glyph = "👤"
			if dir != nil {
				label = dir.UserTag(ref.ID)
			}
			if label == "" {
				label = fmt.Sprintf("Utilisateur (%s)", ref.ID)
			}
		}
		options = append(options, discordgo.SelectMenuOption{
			Label: util.Truncate(label, 100),
			Value: files.EncodeAdminRef(ref),
			Emoji: emoji(glyph),
		})
	}

	desc := "Sélectionnez l'admin à retirer."
	if totalPages > 1 {
		desc += fmt.Sprintf("\n-# Page %d/%d", page+1, totalPages)
	}
	rows := []discordgo.MessageComponent{
		row(discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    ID(VerbAdminRemoveSelect),
			Placeholder: "Choisir un admin à retirer…",
			Options:     options,
		}),
	}
	if totalPages > 1 {
		rows = append(rows, pagerRow(VerbAdminRemovePage, page, totalPages))
	}
	rows = append(rows, adminBackRow())
	return embedPanel("➖ Retirer un admin", desc, theme.Error(), rows...)
}

// ## Notices

func entryNotFoundPanel(entryID string) Panel {
	return embedPanel("❌ Entrée introuvable", fmt.Sprintf("L'entrée `%s` n'existe plus.", entryID), theme.Error(), roleBackRow())
}

func entryLimitPanel() Panel {
	return embedPanel("❌ Limite atteinte", fmt.Sprintf("Maximum **%d rôles** par sélecteur.", files.MaxEntries), theme.Error(), roleBackRow())
}

func nothingChangedPanel() Panel {
	return embedPanel("ℹ️ Aucune modification", "Les valeurs sont identiques.", theme.Primary(), roleBackRow())
}

// ClosedPanel replaces a panel closed by its user.
func ClosedPanel() Panel {
	return embedPanel("✖️ Panneau fermé", "Utilisez `/config` pour en ouvrir un nouveau.", theme.Muted())
}

// ExpiredPanel replaces a panel left idle past the session timeout.
func ExpiredPanel(timeoutText string) Panel {
	return embedPanel("⏰ Session expirée",
		fmt.Sprintf("Ce panneau de configuration a expiré après %s d'inactivité.\nUtilisez `/config` pour en ouvrir un nouveau.", timeoutText),
		theme.Muted())
}
