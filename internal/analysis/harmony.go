package analysis

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HarmonyColors holds colors related to a base color on the HSL wheel.
// Every entry shares the base color's saturation and lightness; only the
// hue is rotated.
type HarmonyColors struct {
	// Complementary sits opposite the base hue (h+180).
	Complementary string `json:"complementary"`

	// Analogous are the neighbors at h-30 and h+30.
	Analogous [2]string `json:"analogous"`

	// Triadic are the even spacings at h+120 and h+240.
	Triadic [2]string `json:"triadic"`
}

// harmonyFromRGB derives the color harmonies for a base RGB color.
//
// The base color is converted to HSL, each harmony hue is rotated on the
// wheel (wrapping modulo 360), and the result converts back to RGB at the
// base color's saturation and lightness. Pure function, no stored state.
func harmonyFromRGB(r, g, b uint8) HarmonyColors {
	base := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	h, s, l := base.Hsl()

	return HarmonyColors{
		Complementary: rotateHue(h, 180, s, l),
		Analogous: [2]string{
			rotateHue(h, -30, s, l),
			rotateHue(h, 30, s, l),
		},
		Triadic: [2]string{
			rotateHue(h, 120, s, l),
			rotateHue(h, 240, s, l),
		},
	}
}

// rotateHue shifts a hue by offset degrees and formats the resulting color
// as "#RRGGBB" at the given saturation and lightness.
func rotateHue(h, offset, s, l float64) string {
	hue := math.Mod(h+offset, 360)
	if hue < 0 {
		hue += 360
	}
	r, g, b := colorful.Hsl(hue, s, l).Clamped().RGB255()
	return hexRGB(r, g, b)
}
