// Package colorutil validates hex colors and converts them to the HSL
// triplets used by CSS custom properties.
package colorutil

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ValidHex reports whether s is a #RRGGBB color
func ValidHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := colorful.Hex(s)
	return err == nil
}

// HSL converts a #RRGGBB color to "H S% L%" with integer components, the
// format expected inside hsl() by the web panel's stylesheet.
func HSL(hex string) (string, error) {
	if !ValidHex(hex) {
		return "", fmt.Errorf("invalid hex color %q", hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", err
	}
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return fmt.Sprintf("%d %d%% %d%%",
		int(math.Round(h)), int(math.Round(s*100)), int(math.Round(l*100))), nil
}
