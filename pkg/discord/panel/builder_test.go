package panel

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/small-frappuccino/rolepanel/pkg/files"
)

func configWith(n int, layout files.Layout) *files.GuildConfig {
	cfg := files.DefaultGuildConfig("g1", time.Unix(0, 0))
	cfg.Layout = layout
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		cfg.Entries = append(cfg.Entries, files.RoleEntry{
			ID:          id + "0000000",
			RoleID:      "r" + id,
			Label:       "Label " + id,
			Description: "Desc " + id,
		})
	}
	return cfg
}

func containerOf(t *testing.T, cfg *files.GuildConfig) discordgo.Container {
	t.Helper()
	comps := BuildComponents(cfg)
	if len(comps) != 1 {
		t.Fatalf("expected exactly one top-level component, got %d", len(comps))
	}
	c, ok := comps[0].(discordgo.Container)
	if !ok {
		t.Fatalf("expected a container, got %T", comps[0])
	}
	return c
}

func TestEmptyState(t *testing.T) {
	t.Parallel()
	c := containerOf(t, configWith(0, files.LayoutColumn))

	if len(c.Components) != 5 {
		t.Fatalf("expected title, divider, empty text, divider, footer; got %d components", len(c.Components))
	}
	if got := c.Components[0].(discordgo.TextDisplay).Content; got != "## "+files.DefaultTitle {
		t.Fatalf("unexpected title %q", got)
	}
	if got := c.Components[2].(discordgo.TextDisplay).Content; got != EmptyStateText {
		t.Fatalf("unexpected empty state %q", got)
	}
	if got := c.Components[4].(discordgo.TextDisplay).Content; got != "-# "+files.DefaultFooter {
		t.Fatalf("unexpected footer %q", got)
	}
	if c.AccentColor != nil {
		t.Fatal("default config has no accent color")
	}
}

func TestColumnLayoutSeparators(t *testing.T) {
	t.Parallel()
	cfg := configWith(3, files.LayoutColumn)
	cfg.Dividers = false
	c := containerOf(t, cfg)

	// title, large sep, 3x(text,row), 2 small seps, large sep, footer
	if len(c.Components) != 2+6+2+2 {
		t.Fatalf("unexpected component count %d", len(c.Components))
	}
	sep, ok := c.Components[4].(discordgo.Separator)
	if !ok {
		t.Fatalf("expected separator between entries, got %T", c.Components[4])
	}
	if *sep.Divider || *sep.Spacing != discordgo.SeparatorSpacingSizeSmall {
		t.Fatalf("between-entry separator should be small and follow the dividers flag")
	}
	row := c.Components[3].(discordgo.ActionsRow)
	btn := row.Components[0].(discordgo.Button)
	if btn.CustomID != "role:ra" || btn.Style != discordgo.SecondaryButton {
		t.Fatalf("unexpected button %+v", btn)
	}
}

func TestRowLayoutChunksButtons(t *testing.T) {
	t.Parallel()
	cfg := configWith(7, files.LayoutRow)
	cfg.Entries[0].Emoji = "🔔"
	c := containerOf(t, cfg)

	desc := c.Components[2].(discordgo.TextDisplay).Content
	lines := strings.Split(desc, "\n")
	if len(lines) != 7 || lines[0] != "🔔 **Label a** — Desc a" {
		t.Fatalf("unexpected description block %q", desc)
	}

	var rows []discordgo.ActionsRow
	for _, comp := range c.Components {
		if r, ok := comp.(discordgo.ActionsRow); ok {
			rows = append(rows, r)
		}
	}
	if len(rows) != 2 || len(rows[0].Components) != 5 || len(rows[1].Components) != 2 {
		t.Fatalf("expected rows of 5 and 2 buttons, got %d rows", len(rows))
	}
}

func TestSectionLayout(t *testing.T) {
	t.Parallel()
	cfg := configWith(2, files.LayoutSection)
	color := 0xFF5733
	cfg.AccentColor = &color
	c := containerOf(t, cfg)

	if c.AccentColor == nil || *c.AccentColor != color {
		t.Fatal("accent color not applied")
	}
	sec, ok := c.Components[2].(discordgo.Section)
	if !ok {
		t.Fatalf("expected a section, got %T", c.Components[2])
	}
	if sec.Accessory.(discordgo.Button).CustomID != "role:ra" {
		t.Fatalf("unexpected accessory %+v", sec.Accessory)
	}
	if sep := c.Components[3].(discordgo.Separator); !*sep.Divider {
		t.Fatal("dividers default to visible")
	}
}

func TestParseEmoji(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want *discordgo.ComponentEmoji
	}{
		{"", nil},
		{"🎮", &discordgo.ComponentEmoji{Name: "🎮"}},
		{"<:pepe:123>", &discordgo.ComponentEmoji{Name: "pepe", ID: "123"}},
		{"<a:dance:456>", &discordgo.ComponentEmoji{Name: "dance", ID: "456", Animated: true}},
	}
	for _, tc := range cases {
		got := ParseEmoji(tc.in)
		if (got == nil) != (tc.want == nil) || (got != nil && *got != *tc.want) {
			t.Fatalf("ParseEmoji(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestBuildMessageFlags(t *testing.T) {
	t.Parallel()
	msg := BuildMessage(configWith(1, files.LayoutColumn))
	if msg.Flags != discordgo.MessageFlagsIsComponentsV2 {
		t.Fatalf("expected components v2 flag, got %d", msg.Flags)
	}
	if _, err := json.Marshal(msg); err != nil {
		t.Fatalf("payload must marshal: %v", err)
	}

	edit := BuildEdit(configWith(1, files.LayoutColumn), "c1", "m1")
	if edit.Channel != "c1" || edit.ID != "m1" || edit.Components == nil {
		t.Fatalf("unexpected edit %+v", edit)
	}
}
