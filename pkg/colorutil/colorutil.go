// Package colorutil provides the editor's color type and hex string handling.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is an 8-bit-per-channel RGBA color. The zero value is Transparent.
type Color struct {
	R, G, B, A uint8
}

// TransparentName is the text sentinel meaning "no color".
const TransparentName = "transparent"

// Common colors used throughout the application.
var (
	Transparent = Color{}
	Black       = Color{R: 0, G: 0, B: 0, A: 255}
	White       = Color{R: 255, G: 255, B: 255, A: 255}
	Red         = Color{R: 255, G: 0, B: 0, A: 255}
	Green       = Color{R: 0, G: 255, B: 0, A: 255}
	Blue        = Color{R: 0, G: 0, B: 255, A: 255}
)

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// IsTransparent reports whether the color contributes nothing when composited.
func (c Color) IsTransparent() bool {
	return c.A == 0
}

// String renders #RRGGBB for opaque colors, #RRGGBBAA otherwise, and
// "transparent" for the zero value.
func (c Color) String() string {
	switch {
	case c == Transparent:
		return TransparentName
	case c.A == 255:
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	default:
		return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
	}
}

// NRGBA converts to the standard library's non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// FromColor converts any color.Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// ParseHex parses "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA" or "transparent".
func ParseHex(s string) (Color, error) {
	if strings.EqualFold(s, TransparentName) {
		return Transparent, nil
	}
	if len(s) < 2 || s[0] != '#' {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	hex := s[1:]

	var v [8]uint8
	for i := 0; i < len(hex); i++ {
		n, ok := hexDigit(hex[i])
		if !ok || i >= len(v) {
			return Color{}, fmt.Errorf("invalid color %q", s)
		}
		v[i] = n
	}

	switch len(hex) {
	case 3:
		return Color{R: v[0] * 17, G: v[1] * 17, B: v[2] * 17, A: 255}, nil
	case 4:
		return Color{R: v[0] * 17, G: v[1] * 17, B: v[2] * 17, A: v[3] * 17}, nil
	case 6:
		return Color{R: v[0]<<4 | v[1], G: v[2]<<4 | v[3], B: v[4]<<4 | v[5], A: 255}, nil
	case 8:
		return Color{R: v[0]<<4 | v[1], G: v[2]<<4 | v[3], B: v[4]<<4 | v[5], A: v[6]<<4 | v[7]}, nil
	}
	return Color{}, fmt.Errorf("invalid color %q", s)
}

// Parse accepts anything ParseHex does plus SVG 1.1 colour names such as
// "cornflowerblue". Names are case-insensitive.
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if c, err := ParseHex(s); err == nil {
		return c, nil
	}
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return FromColor(named), nil
	}
	return Color{}, fmt.Errorf("invalid color %q", s)
}

// MustParseHex is ParseHex for constants; it panics on malformed input.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// MarshalText writes the String form; JSON and TOML both use it.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
