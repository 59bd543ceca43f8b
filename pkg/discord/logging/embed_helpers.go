package logging

import (
	"fmt"
	"strings"
)

const noOptionsText = "*aucune option*"

// componentOptionsText is shown in place of options for buttons, menus and modals.
const componentOptionsText = "*—*"

func formatUserLabel(tag, userID string) string {
	tag = strings.TrimSpace(tag)
	userID = strings.TrimSpace(userID)
	if tag == "" {
		tag = "Inconnu"
	}
	if userID == "" {
		return tag
	}
	return fmt.Sprintf("%s\n`%s`", tag, userID)
}

func formatChannelLabel(channelID string) string {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return "*—*"
	}
	return "<#" + channelID + ">"
}

func formatCommandLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		label = "?"
	}
	return "`" + label + "`"
}

func optionsOrDefault(options string) string {
	if strings.TrimSpace(options) == "" {
		return noOptionsText
	}
	return options
}

// FormatOptions renders slash command options as "name: `value`" pairs.
// Values are cut to 80 characters.
func FormatOptions(pairs [][2]string) string {
	if len(pairs) == 0 {
		return noOptionsText
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		v := []rune(p[1])
		if len(v) > 80 {
			v = v[:80]
		}
		parts = append(parts, fmt.Sprintf("%s: `%s`", p[0], string(v)))
	}
	return strings.Join(parts, ", ")
}
