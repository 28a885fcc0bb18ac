// Package style defines the visual style value types and the ordered,
// reserved-name-protected style lists used by workspaces.
//
// Styles are referenced by name everywhere else in the engine. That keeps the
// persisted file human-readable and lets a style set be swapped wholesale
// (for example after an external style editor commits changes) without
// walking and re-pointing every node and pin.
package style

import "math"

// Color is a normalized RGBA color with channels in [0, 1].
//
// The file format stores channels as 0–255 integers; conversion rounds with
// round(channel * 255) so that repeated round-trips do not drift.
type Color struct {
	R, G, B, A float64
}

// RGBA8 returns the four channels as 0–255 integers.
func (c Color) RGBA8() (r, g, b, a int) {
	return channelTo8(c.R), channelTo8(c.G), channelTo8(c.B), channelTo8(c.A)
}

// FromRGBA8 builds a normalized color from 0–255 channel values.
// Out-of-range inputs are clamped.
func FromRGBA8(r, g, b, a int) Color {
	return Color{
		R: channelFrom8(r),
		G: channelFrom8(g),
		B: channelFrom8(b),
		A: channelFrom8(a),
	}
}

// PackRGBA packs the color into a single uint32 as 0xAABBGGRR byte order,
// the representation used by rgba-typed settings.
func (c Color) PackRGBA() uint32 {
	r, g, b, a := c.RGBA8()
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// UnpackRGBA unpacks a 0xAABBGGRR value into a normalized color.
func UnpackRGBA(v uint32) Color {
	return FromRGBA8(int(v&0xff), int(v>>8&0xff), int(v>>16&0xff), int(v>>24&0xff))
}

func channelTo8(v float64) int {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return int(math.Round(v * 255))
}

func channelFrom8(v int) float64 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 1
	}
	return float64(v) / 255
}

// NodeStyle is the visual style of a diagram node.
type NodeStyle struct {
	Background  Color
	Border      Color
	Text        Color
	BorderWidth float64
	Rounding    float64
}

// PinDisplay selects how a pin is drawn.
type PinDisplay int

const (
	// PinDisplayShape draws the pin as a filled shape.
	PinDisplayShape PinDisplay = iota
	// PinDisplayImage draws the pin as a named image.
	PinDisplayImage
)

// String returns the wire-format name of the display mode.
func (d PinDisplay) String() string {
	if d == PinDisplayImage {
		return "Image"
	}
	return "Shape"
}

// ParsePinDisplay converts a wire-format name to a PinDisplay.
// Unknown names fall back to Shape; the display mode is cosmetic and not
// worth failing an element over.
func ParsePinDisplay(s string) PinDisplay {
	if s == "Image" {
		return PinDisplayImage
	}
	return PinDisplayShape
}

// PinStyle is the visual style of a pin.
type PinStyle struct {
	Display PinDisplay
	Fill    Color
	Outline Color
	Radius  float64
	Image   string // image resource name, Display == PinDisplayImage
}
