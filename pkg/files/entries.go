package files

import (
	"fmt"
	"slices"
	"strings"

	"github.com/small-frappuccino/rolepanel/pkg/util"
)

// FieldChange records one field a mutation actually changed.
type FieldChange struct {
	Field string
	Value string
}

// AdminKind distinguishes the two admin sets.
type AdminKind string

const (
	AdminUser AdminKind = "user"
	AdminRole AdminKind = "role"
)

// AdminRef names one member of either admin set.
type AdminRef struct {
	Kind AdminKind
	ID   string
}

// ## Entries

// EntryIndex returns the position of the entry with id, or -1.
func (gc *GuildConfig) EntryIndex(id string) int {
	return slices.IndexFunc(gc.Entries, func(e RoleEntry) bool { return e.ID == id })
}

// EntryByID returns a copy of the entry with id.
func (gc *GuildConfig) EntryByID(id string) (RoleEntry, bool) {
	idx := gc.EntryIndex(id)
	if idx < 0 {
		return RoleEntry{}, false
	}
	return gc.Entries[idx], true
}

// EntryByRole returns the entry targeting roleID.
func (gc *GuildConfig) EntryByRole(roleID string) (RoleEntry, bool) {
	idx := slices.IndexFunc(gc.Entries, func(e RoleEntry) bool { return e.RoleID == roleID })
	if idx < 0 {
		return RoleEntry{}, false
	}
	return gc.Entries[idx], true
}

// HasRole reports whether any entry targets roleID.
func (gc *GuildConfig) HasRole(roleID string) bool {
	_, ok := gc.EntryByRole(roleID)
	return ok
}

// CanAddEntry reports whether another entry fits.
func (gc *GuildConfig) CanAddEntry() bool {
	return len(gc.Entries) < MaxEntries
}

// AddEntry validates and appends entry. The caller assigns entry.ID.
func (gc *GuildConfig) AddEntry(entry RoleEntry) error {
	if !gc.CanAddEntry() {
		return ErrEntryLimit
	}
	if strings.TrimSpace(entry.ID) == "" {
		return NewValidationError("id", entry.ID, "entry id is required")
	}
	if strings.TrimSpace(entry.RoleID) == "" {
		return NewValidationError("roleId", entry.RoleID, "role is required")
	}
	if gc.HasRole(entry.RoleID) {
		return ErrDuplicateRole
	}
	if err := validateEntryTexts(entry.Label, entry.Description, entry.Emoji); err != nil {
		return err
	}
	gc.Entries = append(gc.Entries, entry)
	return nil
}

// RemoveEntry splices the entry out and returns it.
func (gc *GuildConfig) RemoveEntry(id string) (RoleEntry, error) {
	idx := gc.EntryIndex(id)
	if idx < 0 {
		return RoleEntry{}, NotFoundError{Kind: "entry", ID: id}
	}
	removed := gc.Entries[idx]
	gc.Entries = slices.Delete(gc.Entries, idx, idx+1)
	return removed, nil
}

// MoveEntry swaps the entry with its neighbour delta positions away (-1 up, +1 down).
// Moving past either end is a no-op and reports false.
func (gc *GuildConfig) MoveEntry(id string, delta int) (bool, error) {
	idx := gc.EntryIndex(id)
	if idx < 0 {
		return false, NotFoundError{Kind: "entry", ID: id}
	}
	target := idx + delta
	if delta == 0 || target < 0 || target >= len(gc.Entries) {
		return false, nil
	}
	gc.Entries[idx], gc.Entries[target] = gc.Entries[target], gc.Entries[idx]
	return true, nil
}

// ChangeEntryRole points the entry at roleID. A role used by a different entry is rejected.
func (gc *GuildConfig) ChangeEntryRole(id, roleID string) (bool, error) {
	idx := gc.EntryIndex(id)
	if idx < 0 {
		return false, NotFoundError{Kind: "entry", ID: id}
	}
	if strings.TrimSpace(roleID) == "" {
		return false, NewValidationError("roleId", roleID, "role is required")
	}
	if gc.Entries[idx].RoleID == roleID {
		return false, nil
	}
	if gc.HasRole(roleID) {
		return false, ErrDuplicateRole
	}
	gc.Entries[idx].RoleID = roleID
	return true, nil
}

// EntryTextUpdate carries submitted text fields. Blank description or label keeps
// the current value; a blank emoji clears it.
type EntryTextUpdate struct {
	Description string
	Label       string
	Emoji       string
}

// UpdateEntryTexts applies update and returns the fields that changed.
func (gc *GuildConfig) UpdateEntryTexts(id string, update EntryTextUpdate) ([]FieldChange, error) {
	idx := gc.EntryIndex(id)
	if idx < 0 {
		return nil, NotFoundError{Kind: "entry", ID: id}
	}
	entry := gc.Entries[idx]
	desc := strings.TrimSpace(update.Description)
	label := strings.TrimSpace(update.Label)
	emoji := strings.TrimSpace(update.Emoji)

	var changes []FieldChange
	if desc != "" && desc != entry.Description {
		entry.Description = desc
		changes = append(changes, FieldChange{Field: "description", Value: desc})
	}
	if label != "" && label != entry.Label {
		entry.Label = label
		changes = append(changes, FieldChange{Field: "label", Value: label})
	}
	if emoji != entry.Emoji {
		entry.Emoji = emoji
		changes = append(changes, FieldChange{Field: "emoji", Value: emoji})
	}
	if len(changes) == 0 {
		return nil, nil
	}
	if err := validateEntryTexts(entry.Label, entry.Description, entry.Emoji); err != nil {
		return nil, err
	}
	gc.Entries[idx] = entry
	return changes, nil
}

func validateEntryTexts(label, description, emoji string) error {
	if n := util.RuneLen(label); n == 0 || n > MaxLabelLength {
		return NewValidationError("label", label, fmt.Sprintf("must be 1-%d characters", MaxLabelLength))
	}
	if n := util.RuneLen(description); n == 0 || n > MaxDescriptionLength {
		return NewValidationError("description", description, fmt.Sprintf("must be 1-%d characters", MaxDescriptionLength))
	}
	if util.RuneLen(emoji) > MaxEmojiLength {
		return NewValidationError("emoji", emoji, fmt.Sprintf("must be at most %d characters", MaxEmojiLength))
	}
	return nil
}

// ## Appearance

// AppearanceUpdate carries the personalization text fields. Blank values keep
// the current title, footer and color.
type AppearanceUpdate struct {
	Title  string
	Footer string
	Color  string
}

// ApplyAppearance validates the whole update before touching the document, so a
// bad color leaves title and footer unchanged too.
func (gc *GuildConfig) ApplyAppearance(update AppearanceUpdate) ([]FieldChange, error) {
	title := strings.TrimSpace(update.Title)
	footer := strings.TrimSpace(update.Footer)
	colorInput := strings.TrimSpace(update.Color)

	if util.RuneLen(title) > MaxTitleLength {
		return nil, NewValidationError("title", title, fmt.Sprintf("must be at most %d characters", MaxTitleLength))
	}
	if util.RuneLen(footer) > MaxFooterLength {
		return nil, NewValidationError("footer", footer, fmt.Sprintf("must be at most %d characters", MaxFooterLength))
	}

	var (
		colorSet   bool
		colorClear bool
		colorValue int
	)
	if colorInput != "" {
		v, clear, err := ParseAccentColor(colorInput)
		if err != nil {
			return nil, err
		}
		colorSet, colorClear, colorValue = !clear, clear, v
	}

	var changes []FieldChange
	if title != "" && title != gc.Title {
		gc.Title = title
		changes = append(changes, FieldChange{Field: "title", Value: title})
	}
	if footer != "" && footer != gc.Footer {
		gc.Footer = footer
		changes = append(changes, FieldChange{Field: "footer", Value: footer})
	}
	switch {
	case colorClear && gc.AccentColor != nil:
		gc.AccentColor = nil
		changes = append(changes, FieldChange{Field: "color", Value: ""})
	case colorSet && (gc.AccentColor == nil || *gc.AccentColor != colorValue):
		v := colorValue
		gc.AccentColor = &v
		changes = append(changes, FieldChange{Field: "color", Value: FormatAccentColor(&v)})
	}
	return changes, nil
}

// SetLayout changes the deployed layout and reports whether it changed.
func (gc *GuildConfig) SetLayout(layout Layout) (bool, error) {
	if !layout.Valid() {
		return false, NewValidationError("layout", string(layout), "unknown layout")
	}
	if gc.Layout == layout {
		return false, nil
	}
	gc.Layout = layout
	return true, nil
}

// ToggleDividers flips the divider flag and returns the new value.
func (gc *GuildConfig) ToggleDividers() bool {
	gc.Dividers = !gc.Dividers
	return gc.Dividers
}

// ## Deployment

// HasDeployment reports whether a deployed panel location is recorded.
func (gc *GuildConfig) HasDeployment() bool {
	return gc.MessageID != "" && gc.ChannelID != ""
}

// SetDeployment records the deployed panel location.
func (gc *GuildConfig) SetDeployment(channelID, messageID string) {
	if channelID == "" || messageID == "" {
		gc.ClearDeployment()
		return
	}
	gc.ChannelID, gc.MessageID = channelID, messageID
}

// ClearDeployment forgets the deployed panel.
func (gc *GuildConfig) ClearDeployment() {
	gc.ChannelID, gc.MessageID = "", ""
}

// ## Logging flags

// LogCategoryEnabled reports whether notifications of category are sent.
// The empty category is always enabled.
func (gc *GuildConfig) LogCategoryEnabled(category LogCategory) bool {
	switch category {
	case LogCategoryRoles:
		return gc.LogRoles
	case LogCategoryRgpd:
		return gc.LogRgpd
	case LogCategoryAdmin:
		return gc.LogAdmin
	}
	return true
}

// ToggleLogCategory flips one category flag and returns the new value.
func (gc *GuildConfig) ToggleLogCategory(category LogCategory) (bool, error) {
	switch category {
	case LogCategoryRoles:
		gc.LogRoles = !gc.LogRoles
		return gc.LogRoles, nil
	case LogCategoryRgpd:
		gc.LogRgpd = !gc.LogRgpd
		return gc.LogRgpd, nil
	case LogCategoryAdmin:
		gc.LogAdmin = !gc.LogAdmin
		return gc.LogAdmin, nil
	}
	return false, NewValidationError("category", string(category), "unknown log category")
}

// AllLogCategoriesEnabled reports whether roles, rgpd and admin logs are all on.
func (gc *GuildConfig) AllLogCategoriesEnabled() bool {
	return gc.LogRoles && gc.LogRgpd && gc.LogAdmin
}

// ToggleAllLogCategories turns every category off when all are on, otherwise on.
func (gc *GuildConfig) ToggleAllLogCategories() bool {
	v := !gc.AllLogCategoriesEnabled()
	gc.LogRoles, gc.LogRgpd, gc.LogAdmin = v, v, v
	return v
}

// ToggleVisualLogs flips the visual flag and returns the new value.
func (gc *GuildConfig) ToggleVisualLogs() bool {
	gc.LogVisual = !gc.LogVisual
	return gc.LogVisual
}

// ## Admins

// IsAdminUser reports whether userID is in the admin user set.
func (gc *GuildConfig) IsAdminUser(userID string) bool {
	return slices.Contains(gc.AdminUsers, userID)
}

// IsAdminRole reports whether roleID is in the admin role set.
func (gc *GuildConfig) IsAdminRole(roleID string) bool {
	return slices.Contains(gc.AdminRoles, roleID)
}

// AddAdmin inserts ref into its set; a duplicate is a no-op reported as false.
func (gc *GuildConfig) AddAdmin(ref AdminRef) (bool, error) {
	if strings.TrimSpace(ref.ID) == "" {
		return false, NewValidationError("admin", ref.ID, "identifier is required")
	}
	switch ref.Kind {
	case AdminUser:
		if gc.IsAdminUser(ref.ID) {
			return false, nil
		}
		gc.AdminUsers = append(gc.AdminUsers, ref.ID)
	case AdminRole:
		if gc.IsAdminRole(ref.ID) {
			return false, nil
		}
		gc.AdminRoles = append(gc.AdminRoles, ref.ID)
	default:
		return false, NewValidationError("kind", string(ref.Kind), "unknown admin kind")
	}
	return true, nil
}

// RemoveAdmin deletes ref from its set and reports whether it was present.
func (gc *GuildConfig) RemoveAdmin(ref AdminRef) bool {
	var set *[]string
	switch ref.Kind {
	case AdminUser:
		set = &gc.AdminUsers
	case AdminRole:
		set = &gc.AdminRoles
	default:
		return false
	}
	idx := slices.Index(*set, ref.ID)
	if idx < 0 {
		return false
	}
	*set = slices.Delete(*set, idx, idx+1)
	return true
}

// Admins lists admin users then admin roles.
func (gc *GuildConfig) Admins() []AdminRef {
	out := make([]AdminRef, 0, len(gc.AdminUsers)+len(gc.AdminRoles))
	for _, id := range gc.AdminUsers {
		out = append(out, AdminRef{Kind: AdminUser, ID: id})
	}
	for _, id := range gc.AdminRoles {
		out = append(out, AdminRef{Kind: AdminRole, ID: id})
	}
	return out
}

// HasAdmins reports whether either admin set is non-empty.
func (gc *GuildConfig) HasAdmins() bool {
	return len(gc.AdminUsers) > 0 || len(gc.AdminRoles) > 0
}

// EncodeAdminRef renders ref as "user:<id>" or "role:<id>".
func EncodeAdminRef(ref AdminRef) string {
	return string(ref.Kind) + ":" + ref.ID
}

// ParseAdminRef is the inverse of EncodeAdminRef.
func ParseAdminRef(s string) (AdminRef, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return AdminRef{}, NewValidationError("admin", s, "expected kind:id")
	}
	switch AdminKind(kind) {
	case AdminUser, AdminRole:
		return AdminRef{Kind: AdminKind(kind), ID: id}, nil
	}
	return AdminRef{}, NewValidationError("admin", s, "unknown admin kind")
}
