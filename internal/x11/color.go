package x11

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Frame colors used when a window is not highlighted.
const (
	ColorIdleChrome = 0x7f8c8d
	ColorContent    = 0x1f2933
	ColorTitle      = 0xf5f7fa
)

// Plain X windows cannot be translucent, so alpha is flattened against this
// backdrop.
var backdrop = colorful.Color{R: 1, G: 1, B: 1}

// ParsePixel converts a CSS-like color ("#rgb", "#rrggbb", "rgb(r, g, b)" or
// "rgba(r, g, b, a)") into a 24-bit pixel value.
func ParsePixel(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return 0, err
		}
		return pixel(c), nil
	}

	var body string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		body = s[len("rgba(") : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		body = s[len("rgb(") : len(s)-1]
	default:
		return 0, fmt.Errorf("unsupported color %q", s)
	}

	parts := strings.Split(body, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return 0, fmt.Errorf("color %q: expected 3 or 4 components", s)
	}
	var rgb [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return 0, fmt.Errorf("color %q: component %d must be 0-255", s, i+1)
		}
		rgb[i] = float64(v) / 255
	}
	alpha := 1.0
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return 0, fmt.Errorf("color %q: alpha must be between 0 and 1", s)
		}
		alpha = a
	}

	c := backdrop.BlendRgb(colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, alpha)
	return pixel(c), nil
}

func pixel(c colorful.Color) uint32 {
	r, g, b := c.Clamped().RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}
