package files

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configWithEntries(n int) *GuildConfig {
	cfg := DefaultGuildConfig("g", time.Unix(0, 0))
	for i := 0; i < n; i++ {
		cfg.Entries = append(cfg.Entries, RoleEntry{
			ID:          fmt.Sprintf("e%d", i),
			RoleID:      fmt.Sprintf("R%d", i),
			Label:       fmt.Sprintf("L%d", i),
			Description: "d",
		})
	}
	return cfg
}

func TestAddEntryLimit(t *testing.T) {
	t.Parallel()

	cfg := configWithEntries(MaxEntries - 1)
	require.NoError(t, cfg.AddEntry(RoleEntry{ID: "new", RoleID: "RX", Label: "X", Description: "x"}))
	assert.Len(t, cfg.Entries, MaxEntries)

	before := cfg.Clone()
	err := cfg.AddEntry(RoleEntry{ID: "over", RoleID: "RY", Label: "Y", Description: "y"})
	require.ErrorIs(t, err, ErrEntryLimit)
	assert.Equal(t, before.Entries, cfg.Entries)
}

func TestAddEntryValidation(t *testing.T) {
	t.Parallel()

	cfg := configWithEntries(1)
	require.ErrorIs(t, cfg.AddEntry(RoleEntry{ID: "x", RoleID: "R0", Label: "dup", Description: "d"}), ErrDuplicateRole)

	var verr ValidationError
	err := cfg.AddEntry(RoleEntry{ID: "x", RoleID: "R9", Label: strings.Repeat("a", MaxLabelLength+1), Description: "d"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "label", verr.Field)

	err = cfg.AddEntry(RoleEntry{ID: "x", RoleID: "R9", Label: "ok", Description: ""})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "description", verr.Field)

	assert.Len(t, cfg.Entries, 1)
}

func TestMoveEntryBoundariesAndRestore(t *testing.T) {
	t.Parallel()

	cfg := configWithEntries(3)
	original := cfg.Clone().Entries

	moved, err := cfg.MoveEntry("e0", -1)
	require.NoError(t, err)
	assert.False(t, moved)
	moved, err = cfg.MoveEntry("e2", 1)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, original, cfg.Entries)

	moved, err = cfg.MoveEntry("e1", -1)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, "e1", cfg.Entries[0].ID)
	_, err = cfg.MoveEntry("e1", 1)
	require.NoError(t, err)
	assert.Equal(t, original, cfg.Entries)

	_, err = cfg.MoveEntry("gone", 1)
	assert.True(t, IsNotFound(err))
}

func TestRemoveEntry(t *testing.T) {
	t.Parallel()

	cfg := configWithEntries(3)
	removed, err := cfg.RemoveEntry("e1")
	require.NoError(t, err)
	assert.Equal(t, "R1", removed.RoleID)
	assert.Equal(t, []string{"e0", "e2"}, []string{cfg.Entries[0].ID, cfg.Entries[1].ID})

	_, err = cfg.RemoveEntry("e1")
	assert.True(t, IsNotFound(err))
}

func TestChangeEntryRole(t *testing.T) {
	t.Parallel()

	cfg := configWithEntries(2)
	changed, err := cfg.ChangeEntryRole("e0", "R0")
	require.NoError(t, err)
	assert.False(t, changed, "same role is a no-op")

	_, err = cfg.ChangeEntryRole("e0", "R1")
	require.ErrorIs(t, err, ErrDuplicateRole)

	changed, err = cfg.ChangeEntryRole("e0", "R5")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "R5", cfg.Entries[0].RoleID)
}

func TestUpdateEntryTexts(t *testing.T) {
	t.Parallel()

	cfg := configWithEntries(1)
	cfg.Entries[0].Emoji = "🎮"

	changes, err := cfg.UpdateEntryTexts("e0", EntryTextUpdate{Description: "d", Label: "L0", Emoji: "🎮"})
	require.NoError(t, err)
	assert.Empty(t, changes, "identical values report nothing")

	changes, err = cfg.UpdateEntryTexts("e0", EntryTextUpdate{Description: "new", Label: "", Emoji: ""})
	require.NoError(t, err)
	assert.Equal(t, []FieldChange{{Field: "description", Value: "new"}, {Field: "emoji", Value: ""}}, changes)
	assert.Equal(t, "L0", cfg.Entries[0].Label)
	assert.Empty(t, cfg.Entries[0].Emoji)

	_, err = cfg.UpdateEntryTexts("e0", EntryTextUpdate{Description: strings.Repeat("x", MaxDescriptionLength+1)})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "new", cfg.Entries[0].Description)
}

func TestApplyAppearance(t *testing.T) {
	t.Parallel()

	cfg := configWithEntries(0)
	changes, err := cfg.ApplyAppearance(AppearanceUpdate{Title: "T", Color: "#1A2B3C"})
	require.NoError(t, err)
	require.Len(t, changes, 2)
	require.NotNil(t, cfg.AccentColor)
	assert.Equal(t, 0x1A2B3C, *cfg.AccentColor)
	assert.Equal(t, "T", cfg.Title)
	assert.Equal(t, DefaultFooter, cfg.Footer)

	changes, err = cfg.ApplyAppearance(AppearanceUpdate{Color: "aucune"})
	require.NoError(t, err)
	assert.Equal(t, []FieldChange{{Field: "color", Value: ""}}, changes)
	assert.Nil(t, cfg.AccentColor)

	before := cfg.Clone()
	_, err = cfg.ApplyAppearance(AppearanceUpdate{Title: "Other", Color: "notacolor"})
	require.ErrorIs(t, err, ErrInvalidColor)
	assert.Equal(t, before, cfg, "a rejected color leaves the document unchanged")

	changes, err = cfg.ApplyAppearance(AppearanceUpdate{Title: "T"})
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestToggleAllLogCategories(t *testing.T) {
	t.Parallel()

	cfg := configWithEntries(0)
	assert.False(t, cfg.ToggleAllLogCategories())
	assert.False(t, cfg.LogRoles || cfg.LogRgpd || cfg.LogAdmin)

	_, err := cfg.ToggleLogCategory(LogCategoryRgpd)
	require.NoError(t, err)
	assert.True(t, cfg.ToggleAllLogCategories())
	assert.True(t, cfg.AllLogCategoriesEnabled())

	assert.True(t, cfg.LogCategoryEnabled(LogCategoryNone))
	_, err = cfg.ToggleLogCategory("bogus")
	assert.Error(t, err)
}

func TestAdminSets(t *testing.T) {
	t.Parallel()

	cfg := configWithEntries(0)
	added, err := cfg.AddAdmin(AdminRef{Kind: AdminUser, ID: "U1"})
	require.NoError(t, err)
	assert.True(t, added)
	added, err = cfg.AddAdmin(AdminRef{Kind: AdminUser, ID: "U1"})
	require.NoError(t, err)
	assert.False(t, added, "duplicate add is a no-op")
	_, err = cfg.AddAdmin(AdminRef{Kind: AdminRole, ID: "G1"})
	require.NoError(t, err)

	assert.Equal(t, []AdminRef{{AdminUser, "U1"}, {AdminRole, "G1"}}, cfg.Admins())

	ref, err := ParseAdminRef(EncodeAdminRef(AdminRef{Kind: AdminRole, ID: "G1"}))
	require.NoError(t, err)
	assert.True(t, cfg.RemoveAdmin(ref))
	assert.False(t, cfg.RemoveAdmin(ref))
	assert.True(t, cfg.HasAdmins())

	_, err = ParseAdminRef("channel:1")
	assert.Error(t, err)
	_, err = ParseAdminRef("user:")
	assert.Error(t, err)
}

func TestDeploymentPointerStaysPaired(t *testing.T) {
	t.Parallel()

	cfg := configWithEntries(0)
	cfg.SetDeployment("C1", "M1")
	assert.True(t, cfg.HasDeployment())
	cfg.SetDeployment("C2", "")
	assert.False(t, cfg.HasDeployment())
	assert.Empty(t, cfg.ChannelID)
}
