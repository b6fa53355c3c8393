package theme

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var ErrInvalidHex = errors.New("invalid hex color: want #rrggbb")

// Color is an 8-bit per channel RGB triple.
type Color struct {
	R, G, B uint8
}

// HSL holds hue, saturation and lightness, each in [0,1].
type HSL struct {
	H, S, L float64
}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, ErrInvalidHex
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, ErrInvalidHex
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustHex is ParseHex for constants.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(fmt.Sprintf("theme: %q: %v", s, err))
	}
	return c
}

// Hex returns the lowercase "#rrggbb" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// Luminance is the Rec. 709 weighted luminance on the 0..255 scale.
func (c Color) Luminance() float64 {
	return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
}

// HSL converts to hue/saturation/lightness.
func (c Color) HSL() HSL {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	hi, low := math.Max(r, math.Max(g, b)), math.Min(r, math.Min(g, b))
	out := HSL{L: (hi + low) / 2}
	if hi == low {
		return out
	}
	d := hi - low
	if out.L > 0.5 {
		out.S = d / (2 - hi - low)
	} else {
		out.S = d / (hi + low)
	}
	switch hi {
	case r:
		out.H = (g - b) / d
		if g < b {
			out.H += 6
		}
	case g:
		out.H = (b-r)/d + 2
	default:
		out.H = (r-g)/d + 4
	}
	out.H /= 6
	return out
}

// RGB converts back to a rounded, clamped Color.
func (h HSL) RGB() Color {
	if h.S == 0 {
		v := channel(h.L)
		return Color{R: v, G: v, B: v}
	}
	var q float64
	if h.L < 0.5 {
		q = h.L * (1 + h.S)
	} else {
		q = h.L + h.S - h.L*h.S
	}
	p := 2*h.L - q
	return Color{
		R: channel(hueToRGB(p, q, h.H+1.0/3)),
		G: channel(hueToRGB(p, q, h.H)),
		B: channel(hueToRGB(p, q, h.H-1.0/3)),
	}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func channel(v float64) uint8 {
	return uint8(lo.Clamp(math.Round(v*255), 0, 255))
}

// Clamp01 limits v to [0,1].
func Clamp01(v float64) float64 {
	return lo.Clamp(v, 0, 1)
}

// HueDistance is the circular distance between two hues on the unit wheel.
func HueDistance(h1, h2 float64) float64 {
	d := math.Abs(h1 - h2)
	return math.Min(d, 1-d)
}

// Shift adjusts saturation and lightness, clamping both to [0,1].
func (h HSL) Shift(sat, light float64) HSL {
	return HSL{H: h.H, S: Clamp01(h.S + sat), L: Clamp01(h.L + light)}
}

// Rotate moves the hue by delta, wrapping around the wheel.
func (h HSL) Rotate(delta float64) HSL {
	h.H = math.Mod(h.H+delta, 1)
	if h.H < 0 {
		h.H++
	}
	return h
}

// Gothify darkens and saturates c: the "goth polish" applied to accents.
func Gothify(c Color, satBoost, lightShift float64) Color {
	return c.HSL().Shift(satBoost, lightShift).RGB()
}

// Accent tone adjustments.
const (
	PrimarySatBoost     = 0.18
	PrimaryLightShift   = -0.12
	SecondarySatBoost   = 0.12
	SecondaryLightShift = -0.10
)
