package ui

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColorRE = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsHexColor reports whether s is a #RRGGBB color string.
func IsHexColor(s string) bool {
	return hexColorRE.MatchString(s)
}

// RGBToHex converts an R,G,B triple to a lowercase "#rrggbb" string.
func RGBToHex(rgb [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

// HexToRGB parses a "#RRGGBB" string (case-insensitive) into an R,G,B
// triple. It is the inverse of RGBToHex up to letter case.
func HexToRGB(s string) ([3]uint8, error) {
	var rgb [3]uint8
	if !IsHexColor(s) {
		return rgb, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.ToLower(s), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return rgb, fmt.Errorf("parsing hex color %q: %w", s, err)
	}
	return [3]uint8{r, g, b}, nil
}
