package drawing

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

const DefaultColor = "#FF0000"

// ColorPresets maps preset names to their hex value.
var ColorPresets = map[string]string{
	"red":     "#FF0000",
	"green":   "#00FF00",
	"blue":    "#0000FF",
	"yellow":  "#FFFF00",
	"magenta": "#FF00FF",
	"cyan":    "#00FFFF",
	"white":   "#FFFFFF",
	"black":   "#000000",
	"orange":  "#FF9500",
}

// ResolveColor maps a preset name or a hex value (with or without '#') to a canonical
// upper-case "#RRGGBB" or "#RRGGBBAA" string.
func ResolveColor(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if hex, ok := ColorPresets[strings.ToLower(token)]; ok {
		return hex, true
	}
	c, err := ParseHex(token)
	if err != nil {
		return "", false
	}
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B), true
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A), true
}

// ParseHex parses "#RGB", "#RRGGBB" or "#RRGGBBAA"; the leading '#' is optional.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
