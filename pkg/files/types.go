package files

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ## Limits

const (
	// MaxEntries is the number of buttons a deployed panel can carry.
	MaxEntries = 25

	MaxLabelLength       = 80
	MaxDescriptionLength = 200
	MaxEmojiLength       = 50
	MaxTitleLength       = 200
	MaxFooterLength      = 200
)

const (
	DefaultTitle  = "Attribuez / retirez vous des rôles de notifications"
	DefaultFooter = "Nous vous souhaitons un excellent séjour sur le serveur !"
)

// ## Config Types

// Layout selects how a deployed panel arranges its entries.
type Layout string

const (
	LayoutColumn  Layout = "column"
	LayoutRow     Layout = "row"
	LayoutSection Layout = "section"
)

// Valid reports whether l is one of the known layouts.
func (l Layout) Valid() bool {
	switch l {
	case LayoutColumn, LayoutRow, LayoutSection:
		return true
	}
	return false
}

// LogCategory gates activity notifications per feature area.
type LogCategory string

const (
	LogCategoryNone  LogCategory = ""
	LogCategoryRoles LogCategory = "roles"
	LogCategoryRgpd  LogCategory = "rgpd"
	LogCategoryAdmin LogCategory = "admin"
)

// RoleEntry is one self-assignable role offered by the panel.
type RoleEntry struct {
	// ID is generated at creation and never changes; actions reference entries by it.
	ID          string `json:"id"`
	RoleID      string `json:"roleId"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Emoji       string `json:"emoji,omitempty"`
}

// GuildConfig is the persisted document of one guild.
type GuildConfig struct {
	SchemaVersion int    `json:"schemaVersion"`
	GuildID       string `json:"guildId"`

	Title       string      `json:"title"`
	Footer      string      `json:"footer"`
	AccentColor *int        `json:"accentColor"`
	Layout      Layout      `json:"layout"`
	Dividers    bool        `json:"dividers"`
	Entries     []RoleEntry `json:"entries"`

	// MessageID and ChannelID locate the deployed panel; both set or both empty.
	MessageID string `json:"messageId"`
	ChannelID string `json:"channelId"`

	LogChannelID string `json:"logChannelId"`
	LogRoles     bool   `json:"logRoles"`
	LogRgpd      bool   `json:"logRgpd"`
	LogAdmin     bool   `json:"logAdmin"`
	LogVisual    bool   `json:"logVisual"`

	AdminUsers []string `json:"adminUsers"`
	AdminRoles []string `json:"adminRoles"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultGuildConfig returns the document used for a guild that has none.
func DefaultGuildConfig(guildID string, now time.Time) *GuildConfig {
	return &GuildConfig{
		SchemaVersion: CurrentSchemaVersion,
		GuildID:       guildID,
		Title:         DefaultTitle,
		Footer:        DefaultFooter,
		Layout:        LayoutColumn,
		Dividers:      true,
		Entries:       []RoleEntry{},
		LogRoles:      true,
		LogRgpd:       true,
		LogAdmin:      true,
		LogVisual:     true,
		AdminUsers:    []string{},
		AdminRoles:    []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Clone returns a deep copy.
func (gc *GuildConfig) Clone() *GuildConfig {
	cp := *gc
	if gc.AccentColor != nil {
		c := *gc.AccentColor
		cp.AccentColor = &c
	}
	cp.Entries = slices.Clone(gc.Entries)
	cp.AdminUsers = slices.Clone(gc.AdminUsers)
	cp.AdminRoles = slices.Clone(gc.AdminRoles)
	return &cp
}

// normalize repairs values a hand-edited or truncated document may carry.
func (gc *GuildConfig) normalize() {
	if gc.Title == "" {
		gc.Title = DefaultTitle
	}
	if gc.Footer == "" {
		gc.Footer = DefaultFooter
	}
	if !gc.Layout.Valid() {
		gc.Layout = LayoutColumn
	}
	if gc.Entries == nil {
		gc.Entries = []RoleEntry{}
	}
	if gc.AdminUsers == nil {
		gc.AdminUsers = []string{}
	}
	if gc.AdminRoles == nil {
		gc.AdminRoles = []string{}
	}
	if gc.MessageID == "" || gc.ChannelID == "" {
		gc.MessageID, gc.ChannelID = "", ""
	}
}

// ## Error Types

// ValidationError represents a rejected input with field context.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field string, value interface{}, message string) ValidationError {
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NotFoundError reports a reference to an entry or admin that no longer exists.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// ConfigError represents persistence failures.
type ConfigError struct {
	Operation string
	Path      string
	Cause     error
}

func (e ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config %s failed for %s: %v", e.Operation, e.Path, e.Cause)
	}
	return fmt.Sprintf("config %s failed for %s", e.Operation, e.Path)
}

func (e ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new configuration error.
func NewConfigError(operation, path string, cause error) ConfigError {
	return ConfigError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// ## General Errors

var (
	ErrEntryLimit    = errors.New("entry limit reached")
	ErrDuplicateRole = errors.New("role already referenced by another entry")
	ErrInvalidColor  = errors.New("invalid accent color")
	ErrInvalidGuild  = errors.New("invalid guild id")
)

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
