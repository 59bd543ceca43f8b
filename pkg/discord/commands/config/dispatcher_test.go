package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/access"
	"github.com/small-frappuccino/rolepanel/pkg/discord/commands/core"
	"github.com/small-frappuccino/rolepanel/pkg/discord/logging"
	"github.com/small-frappuccino/rolepanel/pkg/discord/panelsession"
	"github.com/small-frappuccino/rolepanel/pkg/files"
)

const (
	testGuild = "g1"
	testOwner = "owner"
)

type deletedMessage struct{ channelID, messageID string }

// fakePlatform records every call; failures are injected per method.
type fakePlatform struct {
	mu        sync.Mutex
	responses []*discordgo.InteractionResponse
	edits     []Panel
	sent      map[string]*discordgo.MessageSend
	msgEdits  []*discordgo.MessageEdit
	deleted   []deletedMessage
	roles     map[string]string

	sendErr     error
	editErr     error
	deleteErr   error
	respEditErr error
	nextMsgID   string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		sent:      make(map[string]*discordgo.MessageSend),
		roles:     map[string]string{"R1": "VIP", "R2": "News"},
		nextMsgID: "deployed1",
	}
}

func (f *fakePlatform) Respond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakePlatform) EditResponse(_ *discordgo.Interaction, p Panel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.respEditErr != nil {
		return f.respEditErr
	}
	f.edits = append(f.edits, p)
	return nil
}

func (f *fakePlatform) OriginalResponse(*discordgo.Interaction) (*discordgo.Message, error) {
	return &discordgo.Message{ID: "reply1"}, nil
}

func (f *fakePlatform) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent[channelID] = msg
	return &discordgo.Message{ID: f.nextMsgID, ChannelID: channelID}, nil
}

func (f *fakePlatform) EditMessage(edit *discordgo.MessageEdit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgEdits = append(f.msgEdits, edit)
	return f.editErr
}

func (f *fakePlatform) DeleteMessage(channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, deletedMessage{channelID, messageID})
	return f.deleteErr
}

func (f *fakePlatform) Directory(string) Directory { return f }

func (f *fakePlatform) RoleName(roleID string) string { return f.roles[roleID] }
func (f *fakePlatform) UserTag(string) string         { return "" }

func (f *fakePlatform) lastEdit(t *testing.T) Panel {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.edits) == 0 {
		t.Fatal("expected the panel to be edited")
	}
	return f.edits[len(f.edits)-1]
}

func (f *fakePlatform) lastResponse(t *testing.T) *discordgo.InteractionResponse {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.responses) == 0 {
		t.Fatal("expected an interaction response")
	}
	return f.responses[len(f.responses)-1]
}

type recordedActivities struct {
	mu   sync.Mutex
	list []logging.Activity
}

func (r *recordedActivities) Record(_ context.Context, a logging.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, a)
}

func (r *recordedActivities) all() []logging.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]logging.Activity(nil), r.list...)
}

type harness struct {
	store    *files.Store
	platform *fakePlatform
	activity *recordedActivities
	sessions *panelsession.Registry
	handler  *Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := files.NewStore(t.TempDir())
	h := &harness{
		store:    store,
		platform: newFakePlatform(),
		activity: &recordedActivities{},
		sessions: panelsession.NewRegistry(time.Minute),
	}
	ids := 0
	h.handler = NewHandler(store, h.sessions, h.activity,
		WithPlatform(h.platform),
		WithIDGenerator(func() string {
			ids++
			return "e" + strings.Repeat("0", 6) + string(rune('0'+ids))
		}),
	)
	t.Cleanup(h.sessions.StopAll)
	return h
}

func testContext(userID string, i *discordgo.Interaction) *core.Context {
	i.GuildID = testGuild
	i.ChannelID = "c1"
	i.Member = &discordgo.Member{User: &discordgo.User{ID: userID, Username: userID}}
	return &core.Context{
		Interaction: &discordgo.InteractionCreate{Interaction: i},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		GuildID:     testGuild,
		ChannelID:   "c1",
		UserID:      userID,
		OwnerID:     testOwner,
		Actor:       access.Actor{UserID: userID},
	}
}

func (h *harness) click(t *testing.T, userID, customID string, values ...string) {
	t.Helper()
	ctx := testContext(userID, &discordgo.Interaction{
		ID:      "i-" + customID,
		Type:    discordgo.InteractionMessageComponent,
		Message: &discordgo.Message{ID: "reply1"},
		Data:    discordgo.MessageComponentInteractionData{CustomID: customID, Values: values},
	})
	if err := h.handler.HandleComponent(ctx); err != nil {
		t.Fatalf("HandleComponent(%s): %v", customID, err)
	}
}

func (h *harness) submit(t *testing.T, userID, customID string, fields map[string]string) {
	t.Helper()
	var rows []discordgo.MessageComponent
	for id, v := range fields {
		rows = append(rows, &discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.TextInput{CustomID: id, Value: v},
		}})
	}
	ctx := testContext(userID, &discordgo.Interaction{
		ID:      "i-" + customID,
		Type:    discordgo.InteractionModalSubmit,
		Message: &discordgo.Message{ID: "reply1"},
		Data:    discordgo.ModalSubmitInteractionData{CustomID: customID, Components: rows},
	})
	if err := h.handler.HandleComponent(ctx); err != nil {
		t.Fatalf("HandleComponent(%s): %v", customID, err)
	}
}

func buttonByID(p Panel, customID string) (discordgo.Button, bool) {
	for _, c := range p.Components {
		row, ok := c.(discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if b, ok := rc.(discordgo.Button); ok && b.CustomID == customID {
				return b, true
			}
		}
	}
	return discordgo.Button{}, false
}

func TestFreshGuildAddEntryEnablesDeploy(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.click(t, testOwner, ID(VerbRoleMenu))
	list := h.platform.lastEdit(t)
	if !strings.Contains(list.Embeds[0].Description, "*Aucun rôle configuré.*") {
		t.Fatalf("expected empty state, got %q", list.Embeds[0].Description)
	}
	if b, ok := buttonByID(list, ID(VerbDeploy)); !ok || !b.Disabled {
		t.Fatal("deploy must be disabled without entries")
	}

	h.click(t, testOwner, ID(VerbRoleAddSelect), "R1")
	if resp := h.platform.lastResponse(t); resp.Type != discordgo.InteractionResponseModal || resp.Data.CustomID != "config:role-add-modal:R1" {
		t.Fatalf("expected the add modal, got %+v", resp)
	}

	h.submit(t, testOwner, "config:role-add-modal:R1", map[string]string{
		fieldDescription: "desc",
		fieldLabel:       "",
		fieldEmoji:       "",
	})
	done := h.platform.lastEdit(t)
	if done.Embeds[0].Title != "✅ Rôle ajouté" {
		t.Fatalf("unexpected panel %q", done.Embeds[0].Title)
	}

	cfg := h.store.Load(testGuild)
	if len(cfg.Entries) != 1 || cfg.Entries[0].RoleID != "R1" || cfg.Entries[0].Label != "VIP" {
		t.Fatalf("unexpected entries %+v", cfg.Entries)
	}

	h.click(t, testOwner, ID(VerbRoleBack))
	list = h.platform.lastEdit(t)
	if !strings.Contains(list.Embeds[0].Description, "**1.** **VIP** (<@&R1>)") {
		t.Fatalf("entry not listed at position 1: %q", list.Embeds[0].Description)
	}
	if b, ok := buttonByID(list, ID(VerbDeploy)); !ok || b.Disabled {
		t.Fatal("deploy must be enabled with one entry")
	}

	acts := h.activity.all()
	if len(acts) != 1 || acts[0].Detail != "Rôle ajouté : VIP (R1) [e0000001]" || acts[0].Category != files.LogCategoryRoles {
		t.Fatalf("unexpected activity %+v", acts)
	}
}

func TestNonOwnerCannotAddAdmin(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	cfg := h.store.Load(testGuild)
	cfg.AdminUsers = []string{"helper"}
	if err := h.store.Save(testGuild, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	before := h.store.Load(testGuild)

	for _, user := range []string{"helper", "stranger"} {
		h.click(t, user, ID(VerbAdminAddUser), "mallory")
		resp := h.platform.lastResponse(t)
		if resp.Data == nil || resp.Data.Flags != discordgo.MessageFlagsEphemeral || resp.Data.Content != access.OwnerOnlyMessage {
			t.Fatalf("%s: expected ephemeral refusal, got %+v", user, resp)
		}
	}
	h.click(t, "helper", ID(VerbAdminAdd))
	if got := h.platform.lastResponse(t).Data.Content; got != access.OwnerOnlyMessage {
		t.Fatalf("unexpected refusal %q", got)
	}

	after := h.store.Load(testGuild)
	if !after.UpdatedAt.Equal(before.UpdatedAt) || len(after.AdminUsers) != 1 {
		t.Fatalf("document must be unchanged, got %+v", after.AdminUsers)
	}
	if len(h.platform.edits) != 0 {
		t.Fatal("refusals must not touch the panel")
	}
	if h.sessions.Active() != 0 {
		t.Fatal("refusals must not arm the session timer")
	}
	for _, a := range h.activity.all() {
		if a.Status != logging.StatusDenied {
			t.Fatalf("only denials may be logged, got %+v", a)
		}
	}
}

func TestStrangerDenied(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.click(t, "stranger", ID(VerbRoleMenu))
	if got := h.platform.lastResponse(t).Data.Content; got != access.DeniedMessage {
		t.Fatalf("unexpected response %q", got)
	}
	acts := h.activity.all()
	if len(acts) != 1 || acts[0].Detail != "Pas admin du bot" || acts[0].Status != logging.StatusDenied {
		t.Fatalf("unexpected activity %+v", acts)
	}
}

func TestOwnerAddsAndRemovesAdmin(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.click(t, testOwner, ID(VerbAdminAddRole), "R9")
	if got := h.platform.lastEdit(t).Embeds[0].Description; got != "🎭 <@&R9> a été ajouté aux admins du bot." {
		t.Fatalf("unexpected confirmation %q", got)
	}
	h.click(t, testOwner, ID(VerbAdminAddRole), "R9")
	if got := h.platform.lastEdit(t).Embeds[0].Title; got != "⚠️ Déjà admin" {
		t.Fatalf("duplicate add should warn, got %q", got)
	}
	if cfg := h.store.Load(testGuild); len(cfg.AdminRoles) != 1 {
		t.Fatalf("duplicate add must be a no-op, got %v", cfg.AdminRoles)
	}

	h.click(t, testOwner, ID(VerbAdminRemoveSelect), "role:R9")
	if cfg := h.store.Load(testGuild); len(cfg.AdminRoles) != 0 {
		t.Fatalf("admin role not removed: %v", cfg.AdminRoles)
	}
	h.click(t, testOwner, ID(VerbAdminRemoveSelect), "role:R9")
	if got := h.platform.lastEdit(t).Embeds[0].Title; got != "❌ Admin introuvable" {
		t.Fatalf("stale removal should report not found, got %q", got)
	}
}

func TestOwnerRemovesAdminBeyondFirstPage(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	cfg := h.store.Load(testGuild)
	for i := 0; i < 30; i++ {
		cfg.AdminUsers = append(cfg.AdminUsers, fmt.Sprintf("u%02d", i))
	}
	if err := h.store.Save(testGuild, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	h.click(t, "u03", PageID(VerbAdminRemovePage, 1))
	if got := h.platform.lastResponse(t).Data; got == nil || got.Content != access.OwnerOnlyMessage {
		t.Fatalf("admins must not page the removal list, got %+v", got)
	}

	h.click(t, testOwner, PageID(VerbAdminRemovePage, 1))
	menu := rowsOf(h.platform.lastEdit(t))[0].Components[0].(discordgo.SelectMenu)
	if n := len(menu.Options); n != 5 || menu.Options[4].Value != "user:u29" {
		t.Fatalf("unexpected second page %+v", menu.Options)
	}

	h.click(t, testOwner, ID(VerbAdminRemoveSelect), menu.Options[4].Value)
	if cfg := h.store.Load(testGuild); cfg.IsAdminUser("u29") || len(cfg.AdminUsers) != 29 {
		t.Fatalf("u29 not removed: %v", cfg.AdminUsers)
	}
}

func TestToggleAllLogCategories(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.click(t, testOwner, ID(VerbLogsToggleAll))
	cfg := h.store.Load(testGuild)
	if cfg.LogRoles || cfg.LogRgpd || cfg.LogAdmin {
		t.Fatal("all-on must turn every category off")
	}

	h.click(t, testOwner, ID(VerbLogsCategoryRgpd))
	h.click(t, testOwner, ID(VerbLogsToggleAll))
	cfg = h.store.Load(testGuild)
	if !cfg.LogRoles || !cfg.LogRgpd || !cfg.LogAdmin {
		t.Fatal("anything-off must turn every category on")
	}
	if b, ok := buttonByID(h.platform.lastEdit(t), ID(VerbLogsToggleAll)); !ok || b.Label != "Tout désactiver" {
		t.Fatalf("unexpected toggle-all button %+v", b)
	}
}

func seedEntries(t *testing.T, h *harness, n int) *files.GuildConfig {
	t.Helper()
	cfg := h.store.Load(testGuild)
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		if err := cfg.AddEntry(files.RoleEntry{ID: id, RoleID: "role-" + id, Label: "L" + id, Description: "D" + id}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := h.store.Save(testGuild, cfg); err != nil {
		t.Fatalf("seed save: %v", err)
	}
	return cfg
}

func entryOrder(cfg *files.GuildConfig) string {
	var b strings.Builder
	for _, e := range cfg.Entries {
		b.WriteString(e.ID)
	}
	return b.String()
}

func TestMoveEntryBoundaries(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	seedEntries(t, h, 3)

	h.click(t, testOwner, IDWith(VerbRoleMoveUp, "a"))
	h.click(t, testOwner, IDWith(VerbRoleMoveDown, "c"))
	if got := entryOrder(h.store.Load(testGuild)); got != "abc" {
		t.Fatalf("boundary moves must be no-ops, got %s", got)
	}

	h.click(t, testOwner, IDWith(VerbRoleMoveUp, "b"))
	if got := entryOrder(h.store.Load(testGuild)); got != "bac" {
		t.Fatalf("expected bac, got %s", got)
	}
	detail := h.platform.lastEdit(t)
	if b, ok := buttonByID(detail, IDWith(VerbRoleMoveUp, "b")); !ok || !b.Disabled {
		t.Fatal("move up must be disabled on the first entry")
	}
	h.click(t, testOwner, IDWith(VerbRoleMoveDown, "b"))
	if got := entryOrder(h.store.Load(testGuild)); got != "abc" {
		t.Fatalf("up then down must restore order, got %s", got)
	}
}

func TestStaleEntryRendersNotFound(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	seedEntries(t, h, 1)

	h.click(t, testOwner, IDWith(VerbRoleRemoveConfirm, "a"))
	h.click(t, testOwner, IDWith(VerbRoleRemoveConfirm, "a"))
	if got := h.platform.lastEdit(t).Embeds[0].Title; got != "❌ Entrée introuvable" {
		t.Fatalf("expected not found panel, got %q", got)
	}

	h.click(t, testOwner, IDWith(VerbRoleEditTexts, "a"))
	if got := h.platform.lastResponse(t).Data.Content; got != entryGoneMessage {
		t.Fatalf("expected ephemeral notice, got %q", got)
	}
}

func TestAppearanceInvalidColorLeavesDocument(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	before := h.store.Load(testGuild)

	h.submit(t, testOwner, ID(VerbPersoSubmit), map[string]string{
		fieldTitle:  "Nouveau titre",
		fieldFooter: "",
		fieldColor:  "notacolor",
	})
	if got := h.platform.lastEdit(t).Embeds[0].Title; got != "❌ Couleur invalide" {
		t.Fatalf("expected invalid color panel, got %q", got)
	}
	after := h.store.Load(testGuild)
	if after.Title != before.Title || after.AccentColor != nil {
		t.Fatal("a bad color must leave the document unchanged")
	}

	h.submit(t, testOwner, ID(VerbPersoSubmit), map[string]string{fieldColor: "#1A2B3C"})
	after = h.store.Load(testGuild)
	if after.AccentColor == nil || *after.AccentColor != 0x1A2B3C {
		t.Fatalf("color not applied: %v", after.AccentColor)
	}
	if got := h.platform.lastEdit(t).Embeds[0].Description; got != "Couleur mise à jour : `#1A2B3C`." {
		t.Fatalf("unexpected confirmation %q", got)
	}
}

func TestUnchangedTextsRenderNothingChanged(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	seedEntries(t, h, 1)
	before := h.store.Load(testGuild)

	h.submit(t, testOwner, IDWith(VerbRoleEditSubmit, "a"), map[string]string{
		fieldDescription: "Da",
		fieldLabel:       "La",
		fieldEmoji:       "",
	})
	if got := h.platform.lastEdit(t).Embeds[0].Title; got != "ℹ️ Aucune modification" {
		t.Fatalf("expected nothing changed, got %q", got)
	}
	if after := h.store.Load(testGuild); !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatal("nothing changed must not persist")
	}
	if len(h.activity.all()) != 0 {
		t.Fatal("nothing changed must not log")
	}
}

func TestDeployToNewChannelDeletesOldMessage(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	cfg := seedEntries(t, h, 1)
	cfg.SetDeployment("old-ch", "old-msg")
	if err := h.store.Save(testGuild, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	h.platform.deleteErr = errors.New("unknown message")

	h.click(t, testOwner, ID(VerbDeployChannel), "new-ch")

	if _, ok := h.platform.sent["new-ch"]; !ok {
		t.Fatal("panel not sent to the new channel")
	}
	if len(h.platform.deleted) != 1 || h.platform.deleted[0] != (deletedMessage{"old-ch", "old-msg"}) {
		t.Fatalf("expected a delete attempt on the old message, got %+v", h.platform.deleted)
	}
	got := h.store.Load(testGuild)
	if got.ChannelID != "new-ch" || got.MessageID != "deployed1" {
		t.Fatalf("deployment not recorded: %s/%s", got.ChannelID, got.MessageID)
	}
	if title := h.platform.lastEdit(t).Embeds[0].Title; title != "✅ Message déployé" {
		t.Fatalf("a failed delete must not fail the deploy, got %q", title)
	}
}

func TestDeploySameChannelKeepsOldMessage(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	cfg := seedEntries(t, h, 1)
	cfg.SetDeployment("ch", "old-msg")
	if err := h.store.Save(testGuild, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	h.click(t, testOwner, ID(VerbDeployChannel), "ch")
	if len(h.platform.deleted) != 0 {
		t.Fatalf("same-channel redeploy must not delete, got %+v", h.platform.deleted)
	}
}

func TestDeployUpdateFailureReportsError(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	cfg := seedEntries(t, h, 1)
	cfg.SetDeployment("ch", "msg")
	if err := h.store.Save(testGuild, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	h.platform.editErr = errors.New("Unknown Message")

	h.click(t, testOwner, ID(VerbDeployUpdate))
	if got := h.platform.lastEdit(t); got.Embeds[0].Title != "❌ Erreur de mise à jour" ||
		!strings.Contains(got.Embeds[0].Description, "Redéployez") {
		t.Fatalf("unexpected panel %+v", got.Embeds[0])
	}
	acts := h.activity.all()
	if len(acts) != 1 || acts[0].Status != logging.StatusError {
		t.Fatalf("expected an error activity, got %+v", acts)
	}
	if got := h.store.Load(testGuild); !got.HasDeployment() {
		t.Fatal("a transient failure must keep the deployment pointer")
	}
}

func discordError(status, code int, msg string) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status},
		Message:  &discordgo.APIErrorMessage{Code: code, Message: msg},
	}
}

func TestDeployUpdateOnDeletedMessageClearsPointer(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	cfg := seedEntries(t, h, 1)
	cfg.SetDeployment("ch", "msg")
	if err := h.store.Save(testGuild, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	h.platform.editErr = discordError(http.StatusNotFound, discordgo.ErrCodeUnknownMessage, "Unknown Message")

	h.click(t, testOwner, ID(VerbDeployUpdate))
	got := h.store.Load(testGuild)
	if got.HasDeployment() || got.ChannelID != "" || got.MessageID != "" {
		t.Fatalf("stale pointer kept: %s/%s", got.ChannelID, got.MessageID)
	}
	if desc := h.platform.lastEdit(t).Embeds[0].Description; !strings.Contains(desc, "n'existe plus") {
		t.Fatalf("unexpected panel %q", desc)
	}
	acts := h.activity.all()
	if len(acts) != 1 || acts[0].Detail != "Unknown Message" {
		t.Fatalf("unexpected activity %+v", acts)
	}

	h.click(t, testOwner, ID(VerbDeployUpdate))
	if title := h.platform.lastEdit(t).Embeds[0].Title; title != "❌ Aucun message existant" {
		t.Fatalf("a cleared pointer should ask for a deploy, got %q", title)
	}
}

func TestDeployWithoutPermissionExplains(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	seedEntries(t, h, 1)
	h.platform.sendErr = discordError(http.StatusForbidden, discordgo.ErrCodeMissingPermissions, "Missing Permissions")

	h.click(t, testOwner, ID(VerbDeployChannel), "ch")
	desc := h.platform.lastEdit(t).Embeds[0].Description
	if !strings.Contains(desc, "Missing Permissions") || !strings.Contains(desc, "envoyer des messages") {
		t.Fatalf("unexpected panel %q", desc)
	}

	h.platform.sendErr = errors.New("connection reset")
	h.click(t, testOwner, ID(VerbDeployChannel), "ch")
	if desc := h.platform.lastEdit(t).Embeds[0].Description; !strings.Contains(desc, "Réessayez") {
		t.Fatalf("unexpected panel %q", desc)
	}
}

func TestActivityRecordedWhenPanelEditFails(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.platform.respEditErr = errors.New("Unknown Webhook")

	ctx := testContext(testOwner, &discordgo.Interaction{
		ID:      "i-add",
		Type:    discordgo.InteractionMessageComponent,
		Message: &discordgo.Message{ID: "reply1"},
		Data:    discordgo.MessageComponentInteractionData{CustomID: ID(VerbAdminAddUser), Values: []string{"u1"}},
	})
	if err := h.handler.HandleComponent(ctx); err == nil {
		t.Fatal("expected the panel edit error")
	}
	if cfg := h.store.Load(testGuild); !cfg.IsAdminUser("u1") {
		t.Fatal("the mutation must be saved")
	}
	acts := h.activity.all()
	if len(acts) != 1 || acts[0].Status != logging.StatusSuccess || acts[0].Category != files.LogCategoryAdmin {
		t.Fatalf("the saved mutation must be logged, got %+v", acts)
	}
}

func TestLayoutChangeRefreshesDeployedMessage(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	cfg := seedEntries(t, h, 2)
	cfg.SetDeployment("ch", "msg")
	if err := h.store.Save(testGuild, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	h.platform.editErr = errors.New("gone")

	h.click(t, testOwner, ID(VerbPersoLayout), string(files.LayoutSection))
	if len(h.platform.msgEdits) != 1 || h.platform.msgEdits[0].ID != "msg" {
		t.Fatalf("expected one refresh attempt, got %d", len(h.platform.msgEdits))
	}
	if got := h.store.Load(testGuild).Layout; got != files.LayoutSection {
		t.Fatalf("layout not saved: %s", got)
	}
	if got := h.platform.lastEdit(t).Embeds[0].Title; got != "✅ Disposition mise à jour" {
		t.Fatalf("refresh failure must stay silent, got %q", got)
	}
}

func TestCloseCancelsSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	h.click(t, testOwner, ID(VerbRoleMenu))
	if h.sessions.Active() != 1 {
		t.Fatalf("expected an armed session, got %d", h.sessions.Active())
	}
	h.click(t, testOwner, ID(VerbClose))
	if h.sessions.Active() != 0 {
		t.Fatal("close must cancel the session timer")
	}
	resp := h.platform.lastResponse(t)
	if resp.Type != discordgo.InteractionResponseUpdateMessage || resp.Data.Embeds[0].Title != "✖️ Panneau fermé" || len(resp.Data.Components) != 0 {
		t.Fatalf("unexpected close response %+v", resp)
	}
}

func TestSessionExpiryReplacesPanel(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sessions := panelsession.NewRegistry(20 * time.Millisecond)
	t.Cleanup(sessions.StopAll)
	handler := NewHandler(h.store, sessions, h.activity, WithPlatform(h.platform))

	ctx := testContext(testOwner, &discordgo.Interaction{
		ID:   "cmd1",
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: "config"},
	})
	if err := handler.Command().Handle(ctx); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	resp := h.platform.lastResponse(t)
	if resp.Data.Flags != discordgo.MessageFlagsEphemeral || resp.Data.Embeds[0].Title != "⚙️ Configuration du bot" {
		t.Fatalf("unexpected /config reply %+v", resp.Data)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.platform.mu.Lock()
		n := len(h.platform.edits)
		h.platform.mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := h.platform.lastEdit(t).Embeds[0].Title; got != "⏰ Session expirée" {
		t.Fatalf("expected the expired panel, got %q", got)
	}
	acts := h.activity.all()
	if len(acts) != 1 || !acts[0].Visual || acts[0].Detail != "Menu config ouvert" {
		t.Fatalf("unexpected activity %+v", acts)
	}
}

func TestUnknownActionRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := testContext(testOwner, &discordgo.Interaction{
		Type: discordgo.InteractionMessageComponent,
		Data: discordgo.MessageComponentInteractionData{CustomID: "config:nope"},
	})
	var cmdErr *core.CommandError
	if err := h.handler.HandleComponent(ctx); !errors.As(err, &cmdErr) || !cmdErr.Ephemeral {
		t.Fatalf("expected an ephemeral command error, got %v", err)
	}
}

func TestConfigCommandRefusesStrangers(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	ctx := testContext("stranger", &discordgo.Interaction{
		ID:   "i-cmd",
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: "config"},
	})
	if err := h.handler.Command().Handle(ctx); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	resp := h.platform.lastResponse(t)
	if resp.Data == nil || resp.Data.Content != access.DeniedMessage || resp.Data.Flags != discordgo.MessageFlagsEphemeral {
		t.Fatalf("unexpected refusal %+v", resp)
	}
	if h.sessions.Active() != 0 {
		t.Fatal("a refused /config must not open a session")
	}
	acts := h.activity.all()
	if len(acts) != 1 || acts[0].Status != logging.StatusDenied {
		t.Fatalf("expected one denial, got %+v", acts)
	}
}
