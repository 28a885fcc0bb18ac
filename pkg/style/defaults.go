package style

import (
	"github.com/isochrone/isochrone/pkg/config"
)

// DefaultNodeStyles builds the node style list with every reserved default
// from the configuration table installed. Reserved styles are recreated here
// on every new or loaded workspace; they are never read from disk.
func DefaultNodeStyles(cfg *config.Config) *List[NodeStyle] {
	l := NewList[NodeStyle](cfg)
	for i, name := range cfg.Styles.NodeDefaults {
		l.addReserved(name, defaultNodeStyle(i))
	}
	return l
}

// DefaultPinStyles builds the pin style list with every reserved default
// installed.
func DefaultPinStyles(cfg *config.Config) *List[PinStyle] {
	l := NewList[PinStyle](cfg)
	for i, name := range cfg.Styles.PinDefaults {
		l.addReserved(name, defaultPinStyle(i))
	}
	return l
}

// Palette for the inbuilt styles. Indexed by position in the defaults table
// so alternate reserved-name sets in tests still get distinct visuals.
var defaultNodePalette = []NodeStyle{
	{
		Background:  FromRGBA8(38, 70, 83, 255),
		Border:      FromRGBA8(233, 196, 106, 255),
		Text:        FromRGBA8(255, 255, 255, 255),
		BorderWidth: 1.5,
		Rounding:    4,
	},
	{
		Background:  FromRGBA8(42, 57, 80, 255),
		Border:      FromRGBA8(138, 177, 125, 255),
		Text:        FromRGBA8(255, 255, 255, 255),
		BorderWidth: 1.5,
		Rounding:    4,
	},
	{
		Background:  FromRGBA8(60, 60, 60, 64),
		Border:      FromRGBA8(180, 180, 180, 255),
		Text:        FromRGBA8(220, 220, 220, 255),
		BorderWidth: 1,
		Rounding:    0,
	},
}

var defaultPinPalette = []PinStyle{
	{Display: PinDisplayShape, Fill: FromRGBA8(42, 157, 143, 255), Outline: FromRGBA8(20, 20, 20, 255), Radius: 5},
	{Display: PinDisplayShape, Fill: FromRGBA8(231, 111, 81, 255), Outline: FromRGBA8(20, 20, 20, 255), Radius: 5},
	{Display: PinDisplayShape, Fill: FromRGBA8(244, 162, 97, 255), Outline: FromRGBA8(20, 20, 20, 255), Radius: 4},
}

func defaultNodeStyle(i int) NodeStyle {
	return defaultNodePalette[i%len(defaultNodePalette)]
}

func defaultPinStyle(i int) PinStyle {
	return defaultPinPalette[i%len(defaultPinPalette)]
}
