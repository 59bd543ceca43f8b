package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/access"
	"github.com/small-frappuccino/rolepanel/pkg/discord/commands/core"
	"github.com/small-frappuccino/rolepanel/pkg/discord/logging"
	"github.com/small-frappuccino/rolepanel/pkg/discord/panel"
	"github.com/small-frappuccino/rolepanel/pkg/discord/panelsession"
	"github.com/small-frappuccino/rolepanel/pkg/errutil"
	"github.com/small-frappuccino/rolepanel/pkg/files"
	"github.com/small-frappuccino/rolepanel/pkg/log"
)

// Activity labels, as shown in the log channel.
const (
	labelRoleAdd     = "/config rôle ajouter"
	labelRoleEdit    = "/config rôle modifier"
	labelRoleRemove  = "/config rôle retirer"
	labelPerso       = "/config rôle personnaliser"
	labelDeploy      = "/config rôle déployer"
	labelLogs        = "/config logs"
	labelAdminAdd    = "/config admin-ajouter"
	labelAdminRemove = "/config admin-retirer"
)

const (
	entryGoneMessage     = "❌ Entrée introuvable."
	unknownActionMessage = "❌ Action inconnue."

	// fallbackRoleName labels a new entry whose role name cannot be resolved.
	fallbackRoleName = "Rôle"
)

// Documents loads and persists guild configurations.
type Documents interface {
	Load(guildID string) *files.GuildConfig
	Save(guildID string, cfg *files.GuildConfig) error
}

// Recorder receives one activity per logged transition.
type Recorder interface {
	Record(ctx context.Context, a logging.Activity)
}

// Handler owns the /config command and every "config:" component.
type Handler struct {
	docs     Documents
	sessions *panelsession.Registry
	activity Recorder
	platform Platform
	newID    func() string
}

// Option customizes a Handler.
type Option func(*Handler)

// WithPlatform replaces the session-backed platform.
func WithPlatform(p Platform) Option {
	return func(h *Handler) { h.platform = p }
}

// WithIDGenerator replaces files.GenerateEntryID.
func WithIDGenerator(fn func() string) Option {
	return func(h *Handler) {
		if fn != nil {
			h.newID = fn
		}
	}
}

// NewHandler builds the configuration panel handler.
func NewHandler(docs Documents, sessions *panelsession.Registry, activity Recorder, opts ...Option) *Handler {
	if sessions == nil {
		sessions = panelsession.NewRegistry(0)
	}
	h := &Handler{
		docs:     docs,
		sessions: sessions,
		activity: activity,
		newID:    files.GenerateEntryID,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Prefix implements core.ComponentHandler.
func (h *Handler) Prefix() string { return Prefix }

func (h *Handler) platformFor(ctx *core.Context) Platform {
	if h.platform != nil {
		return h.platform
	}
	return NewSessionPlatform(ctx.Session)
}

func (h *Handler) record(ctx *core.Context, a *logging.Activity) {
	if h.activity == nil || a == nil {
		return
	}
	h.activity.Record(context.Background(), *a)
}

func (h *Handler) save(guildID string, cfg *files.GuildConfig) error {
	if err := h.docs.Save(guildID, cfg); err != nil {
		return fmt.Errorf("save guild config %s: %w", guildID, err)
	}
	return nil
}

// sessionKey identifies the panel message an interaction belongs to.
func sessionKey(i *discordgo.Interaction) string {
	if i.Message != nil && i.Message.ID != "" {
		return i.Message.ID
	}
	return i.ID
}

// touch (re)arms the inactivity timer of the panel behind i. On expiry the
// panel is replaced through i's token; failures are dropped.
func (h *Handler) touch(p Platform, key string, i *discordgo.Interaction) {
	expired := ExpiredPanel(FormatTimeout(h.sessions.Timeout()))
	h.sessions.Touch(key, func() {
		if err := p.EditResponse(i, expired); err != nil {
			log.DiscordLogger().Debug("Expired panel not replaced", "session", key, "error", err)
		}
	})
}

// ## Responses

func ephemeralResponse(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}

func updateResponse(p Panel) *discordgo.InteractionResponse {
	components := p.Components
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     p.Embeds,
			Components: components,
		},
	}
}

func deferredUpdate() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
}

// ## Interaction payload

func selectedValue(ctx *core.Context) string {
	if ctx.Interaction.Type != discordgo.InteractionMessageComponent {
		return ""
	}
	values := ctx.Interaction.MessageComponentData().Values
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func submittedValues(ctx *core.Context) map[string]string {
	if ctx.Interaction.Type != discordgo.InteractionModalSubmit {
		return map[string]string{}
	}
	return modalValues(ctx.Interaction.ModalSubmitData().Components)
}

// ## Dispatch

// outcome is the panel a transition renders and the activity it logs.
type outcome struct {
	panel    Panel
	activity *logging.Activity
}

func show(p Panel) (outcome, error) {
	return outcome{panel: p}, nil
}

func (h *Handler) succeeded(ctx *core.Context, label, detail string, category files.LogCategory) *logging.Activity {
	a := logging.FromContext(ctx, logging.StatusSuccess, detail).WithLabel(label).WithCategory(category)
	return &a
}

func (h *Handler) failed(ctx *core.Context, label, detail string, category files.LogCategory) *logging.Activity {
	a := logging.FromContext(ctx, logging.StatusError, detail).WithLabel(label).WithCategory(category)
	return &a
}

// HandleComponent decodes the custom id, applies the gates and runs one transition.
func (h *Handler) HandleComponent(ctx *core.Context) error {
	action, err := ParseAction(ctx.CustomID())
	if err != nil {
		ctx.Logger.Warn("Unparseable config action", "error", err)
		return core.NewCommandError(unknownActionMessage, true)
	}

	p := h.platformFor(ctx)
	i := ctx.Interaction.Interaction

	// Owner-gated verbs never load the document nor touch the panel.
	if action.Verb.OwnerOnly() {
		if err := access.RequireOwner(ctx.Actor, ctx.OwnerID); err != nil {
			return h.deny(ctx, p, action, "Réservé au propriétaire", err)
		}
	}

	cfg := h.docs.Load(ctx.GuildID)
	if err := access.RequireAccess(ctx.Actor, ctx.OwnerID, cfg); err != nil {
		return h.deny(ctx, p, action, "Pas admin du bot", err)
	}

	key := sessionKey(i)
	if action.Verb == VerbClose {
		h.sessions.Cancel(key)
		return p.Respond(i, updateResponse(ClosedPanel()))
	}
	h.touch(p, key, i)

	dir := p.Directory(ctx.GuildID)
	if action.Verb.OpensModal() {
		return h.openModal(ctx, p, cfg, action, dir)
	}

	if err := p.Respond(i, deferredUpdate()); err != nil {
		return fmt.Errorf("acknowledge %s: %w", action.Verb, err)
	}
	out, err := h.transition(ctx, p, cfg, action, dir)
	if err != nil {
		return err
	}
	// The transition already happened; log it even if the panel edit fails.
	h.record(ctx, out.activity)
	if err := p.EditResponse(i, out.panel); err != nil {
		return fmt.Errorf("edit panel after %s: %w", action.Verb, err)
	}
	return nil
}

// deny logs a refused action and answers with the refusal text of err.
func (h *Handler) deny(ctx *core.Context, p Platform, action Action, detail string, err error) error {
	msg := access.DeniedMessage
	var denied access.DeniedError
	if errors.As(err, &denied) {
		msg = denied.Message()
	}
	a := logging.FromContext(ctx, logging.StatusDenied, detail).
		WithLabel("/config " + action.Verb.String()).
		WithCategory(files.LogCategoryAdmin)
	h.record(ctx, &a)
	return p.Respond(ctx.Interaction.Interaction, ephemeralResponse(msg))
}

// openModal answers the verbs that collect text. Preconditions that fail
// replace the panel instead of opening the form.
func (h *Handler) openModal(ctx *core.Context, p Platform, cfg *files.GuildConfig, action Action, dir Directory) error {
	i := ctx.Interaction.Interaction
	switch action.Verb {
	case VerbRoleAddSelect:
		roleID := selectedValue(ctx)
		if !cfg.CanAddEntry() {
			return p.Respond(i, updateResponse(entryLimitPanel()))
		}
		if cfg.HasRole(roleID) {
			return p.Respond(i, updateResponse(roleAlreadyPresentPanel(roleID)))
		}
		name := dir.RoleName(roleID)
		if name == "" {
			name = fallbackRoleName
		}
		return p.Respond(i, AddEntryModal(roleID, name).Response())

	case VerbRoleEditTexts:
		entry, ok := cfg.EntryByID(action.Arg)
		if !ok {
			return p.Respond(i, ephemeralResponse(entryGoneMessage))
		}
		return p.Respond(i, EditEntryModal(entry).Response())

	case VerbPersoTexts:
		return p.Respond(i, AppearanceModal(cfg).Response())
	}
	return fmt.Errorf("verb %s does not open a modal", action.Verb)
}

func (h *Handler) transition(ctx *core.Context, p Platform, cfg *files.GuildConfig, action Action, dir Directory) (outcome, error) {
	switch action.Verb {
	case VerbBack:
		return show(mainPanel())

	case VerbRoleMenu, VerbRoleBack:
		return show(roleListPanel(cfg, 0))
	case VerbRolePage:
		return show(roleListPanel(cfg, action.Page))
	case VerbRoleSelect:
		return show(roleDetailPanel(cfg, selectedValue(ctx)))
	case VerbRoleOpenEdit:
		return show(roleEditPanel(cfg, action.Arg))
	case VerbRoleOpenRemove:
		return show(roleRemoveConfirmPanel(cfg, action.Arg))
	case VerbRoleMoveUp:
		return h.moveEntry(ctx, cfg, action.Arg, -1)
	case VerbRoleMoveDown:
		return h.moveEntry(ctx, cfg, action.Arg, +1)
	case VerbRoleAdd:
		return show(roleAddPanel(cfg))
	case VerbRoleAddSubmit:
		return h.addEntry(ctx, cfg, action.Arg, dir)
	case VerbRoleChange:
		return h.changeEntryRole(ctx, cfg, action.Arg)
	case VerbRoleEditSubmit:
		return h.updateEntryTexts(ctx, cfg, action.Arg)
	case VerbRoleRemoveConfirm:
		return h.removeEntry(ctx, cfg, action.Arg)

	case VerbPerso:
		return show(personalizationPanel(cfg))
	case VerbPersoLayout:
		return h.setLayout(ctx, p, cfg)
	case VerbPersoDividers:
		return h.toggleDividers(ctx, p, cfg)
	case VerbPersoSubmit:
		return h.applyAppearance(ctx, cfg)

	case VerbDeploy:
		return show(deployPanel(cfg))
	case VerbDeployChannel:
		return h.deploy(ctx, p, cfg)
	case VerbDeployUpdate:
		return h.updateDeployment(ctx, p, cfg)

	case VerbLogs:
		return show(logSettingsPanel(cfg))
	case VerbLogsChannel:
		return h.setLogChannel(ctx, cfg)
	case VerbLogsCategoryRoles:
		return h.toggleLogCategory(ctx, cfg, files.LogCategoryRoles, "Rôle Réaction")
	case VerbLogsCategoryRgpd:
		return h.toggleLogCategory(ctx, cfg, files.LogCategoryRgpd, "RGPD")
	case VerbLogsCategoryAdmin:
		return h.toggleLogCategory(ctx, cfg, files.LogCategoryAdmin, "Admins")
	case VerbLogsToggleAll:
		on := cfg.ToggleAllLogCategories()
		if err := h.save(ctx.GuildID, cfg); err != nil {
			return outcome{}, err
		}
		return outcome{
			panel:    logSettingsPanel(cfg),
			activity: h.succeeded(ctx, labelLogs, "Tous les logs "+stateLabel(on), files.LogCategoryNone),
		}, nil
	case VerbLogsVisual:
		on := cfg.ToggleVisualLogs()
		if err := h.save(ctx.GuildID, cfg); err != nil {
			return outcome{}, err
		}
		return outcome{
			panel:    logSettingsPanel(cfg),
			activity: h.succeeded(ctx, labelLogs, "Logs visuels "+stateLabel(on), files.LogCategoryNone),
		}, nil

	case VerbAdminMenu, VerbAdminBack:
		return show(adminListPanel(cfg, 0))
	case VerbAdminPage:
		return show(adminListPanel(cfg, action.Page))
	case VerbAdminAdd:
		return show(adminAddPanel())
	case VerbAdminAddUser:
		return h.addAdmin(ctx, cfg, files.AdminUser)
	case VerbAdminAddRole:
		return h.addAdmin(ctx, cfg, files.AdminRole)
	case VerbAdminRemove:
		return show(adminRemovePanel(cfg, dir, 0))
	case VerbAdminRemovePage:
		return show(adminRemovePanel(cfg, dir, action.Page))
	case VerbAdminRemoveSelect:
		return h.removeAdmin(ctx, cfg)
	}
	return outcome{}, fmt.Errorf("config verb %s has no transition", action.Verb)
}

// ## Role entries

func (h *Handler) moveEntry(ctx *core.Context, cfg *files.GuildConfig, entryID string, delta int) (outcome, error) {
	moved, err := cfg.MoveEntry(entryID, delta)
	if files.IsNotFound(err) {
		return show(entryNotFoundPanel(entryID))
	}
	if err != nil {
		return outcome{}, err
	}
	if moved {
		if err := h.save(ctx.GuildID, cfg); err != nil {
			return outcome{}, err
		}
	}
	return show(roleDetailPanel(cfg, entryID))
}

func (h *Handler) addEntry(ctx *core.Context, cfg *files.GuildConfig, roleID string, dir Directory) (outcome, error) {
	values := submittedValues(ctx)
	label := values[fieldLabel]
	if label == "" {
		if label = dir.RoleName(roleID); label == "" {
			label = fallbackRoleName
		}
	}
	entry := files.RoleEntry{
		ID:          h.newID(),
		RoleID:      roleID,
		Label:       label,
		Description: values[fieldDescription],
		Emoji:       values[fieldEmoji],
	}

	var verr files.ValidationError
	switch err := cfg.AddEntry(entry); {
	case errors.Is(err, files.ErrEntryLimit):
		return show(entryLimitPanel())
	case errors.Is(err, files.ErrDuplicateRole):
		return show(roleAlreadyPresentPanel(roleID))
	case errors.As(err, &verr):
		return show(invalidInputPanel(err))
	case err != nil:
		return outcome{}, err
	}
	if err := h.save(ctx.GuildID, cfg); err != nil {
		return outcome{}, err
	}

	return outcome{
		panel: successPanel("✅ Rôle ajouté",
			fmt.Sprintf("**%s** (<@&%s>) a été ajouté au sélecteur.\nID : `%s`", entry.Label, roleID, entry.ID),
			roleBackRow()),
		activity: h.succeeded(ctx, labelRoleAdd,
			fmt.Sprintf("Rôle ajouté : %s (%s) [%s]", entry.Label, roleID, entry.ID), files.LogCategoryRoles),
	}, nil
}

func (h *Handler) changeEntryRole(ctx *core.Context, cfg *files.GuildConfig, entryID string) (outcome, error) {
	roleID := selectedValue(ctx)
	changed, err := cfg.ChangeEntryRole(entryID, roleID)
	var verr files.ValidationError
	switch {
	case files.IsNotFound(err):
		return show(entryNotFoundPanel(entryID))
	case errors.Is(err, files.ErrDuplicateRole):
		return show(roleAlreadyUsedPanel(roleID))
	case errors.As(err, &verr):
		return show(invalidInputPanel(err))
	case err != nil:
		return outcome{}, err
	}

	entry, _ := cfg.EntryByID(entryID)
	out := outcome{panel: successPanel("✅ Rôle mis à jour",
		fmt.Sprintf("L'entrée **%s** utilise maintenant <@&%s>.", entry.Label, roleID),
		roleBackRow())}
	if changed {
		if err := h.save(ctx.GuildID, cfg); err != nil {
			return outcome{}, err
		}
		out.activity = h.succeeded(ctx, labelRoleEdit,
			fmt.Sprintf("Rôle modifié [%s] → %s", entryID, roleID), files.LogCategoryRoles)
	}
	return out, nil
}

func (h *Handler) updateEntryTexts(ctx *core.Context, cfg *files.GuildConfig, entryID string) (outcome, error) {
	values := submittedValues(ctx)
	changes, err := cfg.UpdateEntryTexts(entryID, files.EntryTextUpdate{
		Description: values[fieldDescription],
		Label:       values[fieldLabel],
		Emoji:       values[fieldEmoji],
	})
	var verr files.ValidationError
	switch {
	case files.IsNotFound(err):
		return show(entryNotFoundPanel(entryID))
	case errors.As(err, &verr):
		return show(invalidInputPanel(err))
	case err != nil:
		return outcome{}, err
	}
	if len(changes) == 0 {
		return show(nothingChangedPanel())
	}
	if err := h.save(ctx.GuildID, cfg); err != nil {
		return outcome{}, err
	}

	entry, _ := cfg.EntryByID(entryID)
	lines := entryChangeLines(changes)
	return outcome{
		panel: successPanel("✅ Textes mis à jour",
			fmt.Sprintf("Entrée **%s** modifiée :\n%s", entry.Label, bullets(lines)),
			roleBackRow()),
		activity: h.succeeded(ctx, labelRoleEdit,
			fmt.Sprintf("Textes modifiés [%s] : %s", entryID, strings.Join(lines, ", ")), files.LogCategoryRoles),
	}, nil
}

func (h *Handler) removeEntry(ctx *core.Context, cfg *files.GuildConfig, entryID string) (outcome, error) {
	removed, err := cfg.RemoveEntry(entryID)
	if files.IsNotFound(err) {
		return show(entryNotFoundPanel(entryID))
	}
	if err != nil {
		return outcome{}, err
	}
	if err := h.save(ctx.GuildID, cfg); err != nil {
		return outcome{}, err
	}
	return outcome{
		panel: successPanel("✅ Rôle retiré",
			fmt.Sprintf("**%s** a été retiré du sélecteur.", removed.Label),
			roleBackRow()),
		activity: h.succeeded(ctx, labelRoleRemove,
			fmt.Sprintf("Rôle retiré : %s [%s]", removed.Label, entryID), files.LogCategoryRoles),
	}, nil
}

// ## Personalization

// refreshDeployment re-renders the deployed message in place. It is best
// effort: a missing message or channel is logged and skipped.
func (h *Handler) refreshDeployment(p Platform, cfg *files.GuildConfig) {
	if !cfg.HasDeployment() {
		return
	}
	if err := p.EditMessage(panel.BuildEdit(cfg, cfg.ChannelID, cfg.MessageID)); err != nil {
		log.DiscordLogger().Debug("Deployed panel not refreshed",
			"guildID", cfg.GuildID, "channelID", cfg.ChannelID, "messageID", cfg.MessageID, "error", err)
	}
}

func (h *Handler) setLayout(ctx *core.Context, p Platform, cfg *files.GuildConfig) (outcome, error) {
	layout := files.Layout(selectedValue(ctx))
	changed, err := cfg.SetLayout(layout)
	if err != nil {
		return show(invalidInputPanel(err))
	}
	if changed {
		if err := h.save(ctx.GuildID, cfg); err != nil {
			return outcome{}, err
		}
		h.refreshDeployment(p, cfg)
	}
	return outcome{
		panel: successPanel("✅ Disposition mise à jour",
			fmt.Sprintf("Le sélecteur utilisera maintenant la disposition **%s**.", layoutLabel(layout)),
			roleBackRow()),
		activity: h.succeeded(ctx, labelPerso, "Disposition → "+string(layout), files.LogCategoryRoles),
	}, nil
}

func (h *Handler) toggleDividers(ctx *core.Context, p Platform, cfg *files.GuildConfig) (outcome, error) {
	on := cfg.ToggleDividers()
	if err := h.save(ctx.GuildID, cfg); err != nil {
		return outcome{}, err
	}
	h.refreshDeployment(p, cfg)
	return outcome{
		panel:    personalizationPanel(cfg),
		activity: h.succeeded(ctx, labelPerso, "Séparateurs "+stateLabel(on), files.LogCategoryRoles),
	}, nil
}

func (h *Handler) applyAppearance(ctx *core.Context, cfg *files.GuildConfig) (outcome, error) {
	values := submittedValues(ctx)
	changes, err := cfg.ApplyAppearance(files.AppearanceUpdate{
		Title:  values[fieldTitle],
		Footer: values[fieldFooter],
		Color:  values[fieldColor],
	})
	var verr files.ValidationError
	switch {
	case errors.Is(err, files.ErrInvalidColor):
		return show(invalidColorPanel(values[fieldColor]))
	case errors.As(err, &verr):
		return show(invalidInputPanel(err))
	case err != nil:
		return outcome{}, err
	}
	if len(changes) == 0 {
		return show(nothingChangedPanel())
	}
	if err := h.save(ctx.GuildID, cfg); err != nil {
		return outcome{}, err
	}

	lines := appearanceChangeLines(changes)
	return outcome{
		panel:    successPanel("✅ Apparence mise à jour", strings.Join(lines, "\n"), roleBackRow()),
		activity: h.succeeded(ctx, labelPerso, strings.Join(lines, " | "), files.LogCategoryRoles),
	}, nil
}

// ## Deploy

func (h *Handler) deploy(ctx *core.Context, p Platform, cfg *files.GuildConfig) (outcome, error) {
	channelID := selectedValue(ctx)
	msg, err := p.SendMessage(channelID, panel.BuildMessage(cfg))
	if err != nil {
		ctx.Logger.Warn("Panel deploy failed", "channelID", channelID, "error", err)
		return outcome{
			panel:    deployErrorPanel(err),
			activity: h.failed(ctx, labelDeploy, err.Error(), files.LogCategoryRoles),
		}, nil
	}

	// The superseded message only goes away when the panel moved channels.
	if cfg.HasDeployment() && cfg.ChannelID != channelID {
		if derr := p.DeleteMessage(cfg.ChannelID, cfg.MessageID); derr != nil {
			ctx.Logger.Debug("Superseded panel not deleted",
				"channelID", cfg.ChannelID, "messageID", cfg.MessageID, "error", derr)
		}
	}

	cfg.SetDeployment(channelID, msg.ID)
	if err := h.save(ctx.GuildID, cfg); err != nil {
		return outcome{}, err
	}
	return outcome{
		panel: successPanel("✅ Message déployé",
			fmt.Sprintf("Le sélecteur a été déployé dans <#%s>.", channelID),
			roleBackRow()),
		activity: h.succeeded(ctx, labelDeploy, fmt.Sprintf("Déployé dans <#%s>", channelID), files.LogCategoryRoles),
	}, nil
}

func (h *Handler) updateDeployment(ctx *core.Context, p Platform, cfg *files.GuildConfig) (outcome, error) {
	if !cfg.HasDeployment() {
		return show(noDeploymentPanel())
	}
	if err := p.EditMessage(panel.BuildEdit(cfg, cfg.ChannelID, cfg.MessageID)); err != nil {
		ctx.Logger.Warn("Panel update failed", "channelID", cfg.ChannelID, "messageID", cfg.MessageID, "error", err)
		// A vanished message or channel can never be edited again.
		gone := errutil.IsUnknownMessage(err) || errutil.IsUnknownChannel(err)
		if gone {
			cfg.ClearDeployment()
			if serr := h.save(ctx.GuildID, cfg); serr != nil {
				return outcome{}, serr
			}
		}
		return outcome{
			panel:    updateErrorPanel(err, gone),
			activity: h.failed(ctx, labelDeploy, errutil.Describe(err), files.LogCategoryRoles),
		}, nil
	}
	return outcome{
		panel: successPanel("✅ Message mis à jour",
			fmt.Sprintf("Le sélecteur dans <#%s> a été mis à jour.", cfg.ChannelID),
			roleBackRow()),
		activity: h.succeeded(ctx, labelDeploy, fmt.Sprintf("Mis à jour dans <#%s>", cfg.ChannelID), files.LogCategoryRoles),
	}, nil
}

// ## Logs

func (h *Handler) setLogChannel(ctx *core.Context, cfg *files.GuildConfig) (outcome, error) {
	channelID := selectedValue(ctx)
	cfg.LogChannelID = channelID
	if err := h.save(ctx.GuildID, cfg); err != nil {
		return outcome{}, err
	}
	return outcome{
		panel: successPanel("✅ Salon de logs mis à jour",
			fmt.Sprintf("Les logs seront envoyés dans <#%s>.", channelID),
			backRow()),
		activity: h.succeeded(ctx, labelLogs, fmt.Sprintf("Salon de logs défini : <#%s>", channelID), files.LogCategoryNone),
	}, nil
}

func (h *Handler) toggleLogCategory(ctx *core.Context, cfg *files.GuildConfig, category files.LogCategory, name string) (outcome, error) {
	on, err := cfg.ToggleLogCategory(category)
	if err != nil {
		return outcome{}, err
	}
	if err := h.save(ctx.GuildID, cfg); err != nil {
		return outcome{}, err
	}
	return outcome{
		panel:    logSettingsPanel(cfg),
		activity: h.succeeded(ctx, labelLogs, fmt.Sprintf("Logs %s %s", name, stateLabel(on)), files.LogCategoryNone),
	}, nil
}

// ## Admins

func (h *Handler) addAdmin(ctx *core.Context, cfg *files.GuildConfig, kind files.AdminKind) (outcome, error) {
	ref := files.AdminRef{Kind: kind, ID: selectedValue(ctx)}
	added, err := cfg.AddAdmin(ref)
	if err != nil {
		return show(invalidInputPanel(err))
	}
	if !added {
		return show(adminAlreadyPanel(ref))
	}
	if err := h.save(ctx.GuildID, cfg); err != nil {
		return outcome{}, err
	}

	what := "utilisateur"
	if kind == files.AdminRole {
		what = "rôle"
	}
	return outcome{
		panel: successPanel("✅ Admin ajouté",
			fmt.Sprintf("%s a été ajouté aux admins du bot.", adminMention(ref)),
			adminBackRow()),
		activity: h.succeeded(ctx, labelAdminAdd, fmt.Sprintf("Admin ajouté : %s %s", what, ref.ID), files.LogCategoryAdmin),
	}, nil
}

func (h *Handler) removeAdmin(ctx *core.Context, cfg *files.GuildConfig) (outcome, error) {
	ref, err := files.ParseAdminRef(selectedValue(ctx))
	if err != nil {
		return show(invalidInputPanel(err))
	}
	if !cfg.RemoveAdmin(ref) {
		return show(adminNotFoundPanel(ref))
	}
	if err := h.save(ctx.GuildID, cfg); err != nil {
		return outcome{}, err
	}
	return outcome{
		panel: successPanel("✅ Admin retiré",
			fmt.Sprintf("%s a été retiré des admins du bot.", adminMention(ref)),
			adminBackRow()),
		activity: h.succeeded(ctx, labelAdminRemove, "Admin retiré : "+files.EncodeAdminRef(ref), files.LogCategoryAdmin),
	}, nil
}
