// Package rgpd implements the /rgpd privacy panel: users can see what the
// bot keeps about them and erase it.
package rgpd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/discord/commands/core"
	"github.com/small-frappuccino/rolepanel/pkg/discord/logging"
	"github.com/small-frappuccino/rolepanel/pkg/files"
	"github.com/small-frappuccino/rolepanel/pkg/storage"
	"github.com/small-frappuccino/rolepanel/pkg/theme"
)

const (
	Prefix = "rgpd"

	viewID   = Prefix + ":view"
	deleteID = Prefix + ":delete"
)

const (
	noDataMessage       = "Aucune donnée trouvée vous concernant."
	nothingToDelete     = "Aucune donnée trouvée à supprimer."
	deletedMessage      = "Vos données ont été supprimées avec succès."
	ownerDeletedMessage = "Toutes les données ont été supprimées par le propriétaire du serveur."
	failureMessage      = "❌ Une erreur est survenue lors du traitement de votre demande."

	// recentLimit is how many journal rows the view lists.
	recentLimit = 5
)

// Documents is the part of the document store the panel needs.
type Documents interface {
	Load(guildID string) *files.GuildConfig
	Save(guildID string, cfg *files.GuildConfig) error
	PurgeUser(userID string) (int, error)
}

// Journal holds the per-user activity rows.
type Journal interface {
	CountForUser(userID string) (int, error)
	RecentForUser(userID string, limit int) ([]storage.ActivityRecord, error)
	PurgeUser(userID string) (int64, error)
}

// Recorder receives the panel's activity.
type Recorder interface {
	Record(ctx context.Context, a logging.Activity)
}

// Replier answers an interaction. *discordgo.Session satisfies it.
type Replier interface {
	InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Handler serves both the /rgpd command and its buttons.
type Handler struct {
	docs     Documents
	journal  Journal
	activity Recorder
	replier  Replier
}

// Option customizes a Handler.
type Option func(*Handler)

// WithReplier answers interactions through r instead of the context's session.
func WithReplier(r Replier) Option {
	return func(h *Handler) { h.replier = r }
}

func NewHandler(docs Documents, journal Journal, activity Recorder, opts ...Option) *Handler {
	h := &Handler{docs: docs, journal: journal, activity: activity}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Prefix() string { return Prefix }

// Command returns the /rgpd slash command.
func (h *Handler) Command() core.Command { return &rgpdCommand{h: h} }

type rgpdCommand struct{ h *Handler }

func (c *rgpdCommand) Name() string { return "rgpd" }
func (c *rgpdCommand) Description() string {
	return "Consulter ou supprimer vos données RGPD."
}
func (c *rgpdCommand) Options() []*discordgo.ApplicationCommandOption { return nil }
func (c *rgpdCommand) RequiresGuild() bool                           { return true }
func (c *rgpdCommand) RequiresPermissions() bool                     { return false }

func (c *rgpdCommand) Handle(ctx *core.Context) error {
	return c.h.reply(ctx, &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{MenuEmbed()},
		Components: MenuComponents(),
		Flags:      discordgo.MessageFlagsEphemeral,
	})
}

// MenuEmbed is the privacy panel opened by /rgpd.
func MenuEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🔒 RGPD — Protection des données",
		Description: "Conformément au Règlement Général sur la Protection des Données, vous pouvez :\n" +
			"• **Voir vos données stockées**\n" +
			"• **Supprimer vos données**\n\n" +
			"Utilisez les boutons ci-dessous pour effectuer une action.",
		Color: theme.Primary(),
	}
}

func MenuComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{CustomID: viewID, Label: "Voir mes données", Style: discordgo.PrimaryButton},
			discordgo.Button{CustomID: deleteID, Label: "Supprimer mes données", Style: discordgo.DangerButton},
		}},
	}
}

// HandleComponent implements core.ComponentHandler.
func (h *Handler) HandleComponent(ctx *core.Context) error {
	var err error
	switch ctx.CustomID() {
	case viewID:
		err = h.view(ctx)
	case deleteID:
		err = h.erase(ctx)
	default:
		return core.NewCommandError("❌ Action inconnue.", true)
	}
	if err == nil {
		return nil
	}

	ctx.Logger.Error("Privacy request failed", "action", ctx.CustomID(), "error", err)
	h.record(ctx, logging.StatusError, err.Error())
	var rerr *replyError
	if errors.As(err, &rerr) {
		// The interaction was answered (or the answer was lost); it takes no second one.
		return nil
	}
	return h.reply(ctx, ephemeral(failureMessage))
}

// replyError is a failed answer to the interaction.
type replyError struct{ err error }

func (e *replyError) Error() string { return "reply: " + e.err.Error() }
func (e *replyError) Unwrap() error { return e.err }

// Summary is what the bot stores about one user in one guild.
type Summary struct {
	AdminUser      bool
	AdminRoles     []string
	JournalEntries int
	// Recent holds the newest journal rows, newest first.
	Recent []storage.ActivityRecord
}

// Empty reports whether nothing is stored.
func (s Summary) Empty() bool {
	return !s.AdminUser && len(s.AdminRoles) == 0 && s.JournalEntries == 0
}

func (h *Handler) summarize(ctx *core.Context) (Summary, error) {
	cfg := h.docs.Load(ctx.GuildID)
	s := Summary{AdminUser: cfg.IsAdminUser(ctx.UserID)}
	for _, roleID := range ctx.Actor.RoleIDs {
		if cfg.IsAdminRole(roleID) {
			s.AdminRoles = append(s.AdminRoles, roleID)
		}
	}
	slices.Sort(s.AdminRoles)

	if h.journal != nil {
		n, err := h.journal.CountForUser(ctx.UserID)
		if err != nil {
			return s, fmt.Errorf("count journal rows: %w", err)
		}
		s.JournalEntries = n
		if n > 0 {
			recent, err := h.journal.RecentForUser(ctx.UserID, recentLimit)
			if err != nil {
				return s, fmt.Errorf("list journal rows: %w", err)
			}
			s.Recent = recent
		}
	}
	return s, nil
}

// SummaryEmbed renders s for its owner.
func SummaryEmbed(s Summary) *discordgo.MessageEmbed {
	lines := []string{fmt.Sprintf("• **Admin du bot** : %s", yesNo(s.AdminUser))}
	if len(s.AdminRoles) > 0 {
		mentions := make([]string, len(s.AdminRoles))
		for i, r := range s.AdminRoles {
			mentions[i] = "<@&" + r + ">"
		}
		lines = append(lines, "• **Rôles admin détenus** : "+strings.Join(mentions, ", "))
	}
	lines = append(lines, fmt.Sprintf("• **Entrées du journal d'activité** : %d", s.JournalEntries))
	if len(s.Recent) > 0 {
		lines = append(lines, "", "**Dernières actions :**")
		for _, rec := range s.Recent {
			lines = append(lines, fmt.Sprintf("• <t:%d:f> · `%s` · %s", rec.RecordedAt.Unix(), rec.Action, rec.Status))
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "📊 Vos données RGPD",
		Description: "Voici les données stockées vous concernant :\n\n" + strings.Join(lines, "\n"),
		Color:       theme.Primary(),
	}
}

func yesNo(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}

func (h *Handler) view(ctx *core.Context) error {
	s, err := h.summarize(ctx)
	if err != nil {
		return err
	}
	// Recorded after counting so the summary reflects what existed before the view.
	h.record(ctx, logging.StatusSuccess, "Consultation des données")
	if s.Empty() {
		return h.reply(ctx, ephemeral(noDataMessage))
	}
	return h.reply(ctx, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{SummaryEmbed(s)},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
}

func (h *Handler) erase(ctx *core.Context) error {
	before, err := h.summarize(ctx)
	if err != nil {
		return err
	}
	// The activity row is written before the purge so the purge removes it too.
	h.record(ctx, logging.StatusSuccess, "Suppression des données")

	docs, err := h.docs.PurgeUser(ctx.UserID)
	var rows int64
	if h.journal != nil {
		n, jerr := h.journal.PurgeUser(ctx.UserID)
		rows = n
		err = errors.Join(err, jerr)
	}
	if err != nil {
		return fmt.Errorf("purge user %s: %w", ctx.UserID, err)
	}
	ctx.Logger.Info("User data purged", "documents", docs, "journalRows", rows)

	if ctx.IsOwner() {
		cfg := h.docs.Load(ctx.GuildID)
		cfg.Entries = []files.RoleEntry{}
		if err := h.docs.Save(ctx.GuildID, cfg); err != nil {
			return fmt.Errorf("clear guild entries: %w", err)
		}
		return h.reply(ctx, &discordgo.InteractionResponseData{Content: ownerDeletedMessage})
	}

	if before.Empty() && docs == 0 {
		return h.reply(ctx, ephemeral(nothingToDelete))
	}
	return h.reply(ctx, ephemeral(deletedMessage))
}

func ephemeral(content string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{Content: content, Flags: discordgo.MessageFlagsEphemeral}
}

func (h *Handler) reply(ctx *core.Context, data *discordgo.InteractionResponseData) error {
	r := h.replier
	if r == nil {
		r = ctx.Session
	}
	err := r.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		return &replyError{err: err}
	}
	return nil
}

func (h *Handler) record(ctx *core.Context, status logging.Status, detail string) {
	if h.activity == nil {
		return
	}
	h.activity.Record(context.Background(),
		logging.FromContext(ctx, status, detail).WithCategory(files.LogCategoryRgpd))
}
