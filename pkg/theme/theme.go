package theme

import (
	"fmt"
	"sync"
)

// Color is the int value used by discordgo.MessageEmbed.Color
type Color = int

// Theme holds all color roles used by panels and notifications.
type Theme struct {
	// Human-friendly name for the theme (unique within the registry).
	Name string

	// Core roles
	Primary Color // panels and informational screens
	Success Color
	Warning Color // duplicates, nothing-to-do notices
	Error   Color
	Muted   Color // closed and expired panels

	// Activity notifications
	ActivitySuccess Color
	ActivityError   Color
	ActivityDenied  Color
}

// Clone returns a copy of the Theme.
func (t *Theme) Clone() *Theme {
	cp := *t
	return &cp
}

// ensureDefaults fills zero-valued fields so themes can override only a subset.
func (t *Theme) ensureDefaults() {
	if t.Primary == 0 {
		t.Primary = 0x5865F2
	}
	if t.Success == 0 {
		t.Success = 0x57F287
	}
	if t.Warning == 0 {
		t.Warning = 0xFEE75C
	}
	if t.Error == 0 {
		t.Error = 0xED4245
	}
	if t.Muted == 0 {
		t.Muted = 0x95A5A6
	}
	if t.ActivitySuccess == 0 {
		t.ActivitySuccess = t.Success
	}
	if t.ActivityError == 0 {
		t.ActivityError = t.Error
	}
	if t.ActivityDenied == 0 {
		t.ActivityDenied = t.Warning
	}
}

func defaultTheme() *Theme {
	th := &Theme{Name: "default"}
	th.ensureDefaults()
	return th
}

var (
	mu        sync.RWMutex
	registry  = map[string]*Theme{}
	currentTh = defaultTheme()
)

// Register adds a theme to the registry. It returns an error if the name is empty or already registered.
func Register(t *Theme) error {
	if t == nil {
		return fmt.Errorf("theme: cannot register nil theme")
	}
	if t.Name == "" || t.Name == "default" {
		return fmt.Errorf("theme: a non-default name is required")
	}
	cp := t.Clone()
	cp.ensureDefaults()

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[cp.Name]; exists {
		return fmt.Errorf("theme: theme %q already registered", cp.Name)
	}
	registry[cp.Name] = cp
	return nil
}

// SetCurrent switches the active theme by name. Empty or "default" restores the built-in theme.
func SetCurrent(name string) error {
	mu.Lock()
	defer mu.Unlock()
	if name == "" || name == "default" {
		currentTh = defaultTheme()
		return nil
	}
	th, ok := registry[name]
	if !ok {
		return fmt.Errorf("theme: theme %q not found", name)
	}
	currentTh = th.Clone()
	return nil
}

// Current returns a copy of the current theme.
func Current() *Theme {
	mu.RLock()
	defer mu.RUnlock()
	return currentTh.Clone()
}

func Primary() Color         { return Current().Primary }
func Success() Color         { return Current().Success }
func Warning() Color         { return Current().Warning }
func Error() Color           { return Current().Error }
func Muted() Color           { return Current().Muted }
func ActivitySuccess() Color { return Current().ActivitySuccess }
func ActivityError() Color   { return Current().ActivityError }
func ActivityDenied() Color  { return Current().ActivityDenied }
