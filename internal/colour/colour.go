// Package colour provides the colour arithmetic used by the mapping engine:
// hex parsing, RGB/HSL conversion, circular hue distance and the simple
// luminance proxy the classifier keys its dark/light decisions on.
package colour

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidColour is returned when a hex colour string cannot be parsed.
// Callers are expected to supply well-formed values; this is never silently
// corrected.
var ErrInvalidColour = errors.New("invalid colour")

// DarkThreshold is the LuminanceProxy value below which a colour is
// considered dark.
const DarkThreshold = 128

// RGB represents a colour in 8-bit RGB.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1e2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ParseHex parses a hex colour string into RGB. Accepts 3, 6 and 8 digit
// forms with or without a leading "#"; an 8 digit value's alpha byte is
// discarded. Anything else fails with ErrInvalidColour.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(h) {
	case 3:
		// Expand shorthand: "abc" -> "aabbcc".
		expanded := make([]byte, 6)
		for i := 0; i < 3; i++ {
			expanded[i*2] = h[i]
			expanded[i*2+1] = h[i]
		}
		h = string(expanded)
	case 6, 8:
		// Handled below.
	default:
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColour, s)
	}

	var bytes [4]uint8
	for i := 0; i < len(h)/2; i++ {
		hi, ok1 := hexNibble(h[i*2])
		lo, ok2 := hexNibble(h[i*2+1])
		if !ok1 || !ok2 {
			return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColour, s)
		}
		bytes[i] = hi<<4 | lo
	}

	return RGB{R: bytes[0], G: bytes[1], B: bytes[2]}, nil
}

// hexNibble decodes a single hex digit.
func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// RGBToHSL converts RGB to HSL colour space.
// Returns hue (0-360), saturation (0-1), lightness (0-1).
func RGBToHSL(rgb RGB) (h, s, l float64) {
	r := float64(rgb.R) / 255.0
	g := float64(rgb.G) / 255.0
	b := float64(rgb.B) / 255.0

	maxVal := math.Max(r, math.Max(g, b))
	minVal := math.Min(r, math.Min(g, b))
	delta := maxVal - minVal

	// Lightness.
	l = (maxVal + minVal) / 2.0

	// Saturation.
	if delta == 0 {
		s = 0
		h = 0
		return
	}

	if l < 0.5 {
		s = delta / (maxVal + minVal)
	} else {
		s = delta / (2.0 - maxVal - minVal)
	}

	// Hue.
	switch maxVal {
	case r:
		h = (g - b) / delta
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/delta + 2
	case b:
		h = (r-g)/delta + 4
	}

	h *= 60
	return
}

// Hue returns only the HSL hue of a colour (0-360).
func Hue(rgb RGB) float64 {
	h, _, _ := RGBToHSL(rgb)
	return h
}

// LuminanceProxy returns the plain average of the three RGB bytes (0-255).
// This is deliberately not a perceptual (gamma-corrected) luminance: the
// classifier's thresholds were tuned against raw byte averages, so the
// simple form is kept.
func LuminanceProxy(rgb RGB) float64 {
	return (float64(rgb.R) + float64(rgb.G) + float64(rgb.B)) / 3.0
}

// IsDark reports whether a colour falls below the dark threshold on the
// luminance proxy scale.
func IsDark(rgb RGB) bool {
	return LuminanceProxy(rgb) < DarkThreshold
}

// HueDistance calculates the angular distance between two hues on the colour
// wheel. Returns a value between 0 and 180 degrees (shortest path around the
// wheel).
func HueDistance(a, b float64) float64 {
	diff := math.Abs(a - b)
	if diff > 180 {
		diff = 360 - diff // Handle wraparound
	}
	return diff
}

// RGBDistance returns the Euclidean distance between two colours in RGB
// space. Used as a tie-break when hue distances are equal.
func RGBDistance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// RotateHue rotates a hue by the given number of degrees, normalised into
// [0, 360).
func RotateHue(h, degrees float64) float64 {
	r := math.Mod(h+degrees, 360)
	if r < 0 {
		r += 360
	}
	return r
}
