package files

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// ParseAccentColor accepts "#RRGGBB", "RRGGBB" or the clear tokens "aucune"/"none".
// clear is true for the tokens; any other input must be six hex digits.
func ParseAccentColor(input string) (value int, clear bool, err error) {
	s := strings.TrimSpace(input)
	switch strings.ToLower(s) {
	case "aucune", "none":
		return 0, true, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if !hexColorPattern.MatchString(hex) {
		return 0, false, fmt.Errorf("%w: %w", ErrInvalidColor, NewValidationError("color", input, "expected a hex code like #FF5733"))
	}
	v, perr := strconv.ParseInt(hex, 16, 32)
	if perr != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrInvalidColor, perr)
	}
	return int(v), false, nil
}

// FormatAccentColor renders c as "#RRGGBB", or "" when unset.
func FormatAccentColor(c *int) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("#%06X", *c)
}
