package vrd

import (
	"fmt"
	"strings"
)

// Color is a named draw color. It is encoded by ordinal, so the order of the
// constants below is part of the file format.
type Color uint32

const (
	AliceBlue Color = iota
	PaleGoldenrod
	Orchid
	OrangeRed
	Orange
	OliveDrab
	Olive
	OldLace
	Navy
	NavajoWhite
	Moccasin
	MistyRose
	MintCream
	MidnightBlue
	MediumVioletRed
	MediumTurquoise
	MediumSpringGreen
	MediumSlateBlue
	LightSkyBlue
	LightSlateGray
	LightSteelBlue
	LightYellow
	Lime
	LimeGreen
	PaleGreen
	Linen
	Maroon
	MediumAquamarine
	MediumBlue
	MediumOrchid
	MediumPurple
	MediumSeaGreen
	Magenta
	PaleTurquoise
	PaleVioletRed
	PapayaWhip
	SlateGray
	Snow
	SpringGreen
	SteelBlue
	Tan
	Teal
	SlateBlue
	Thistle
	Transparent
	Turquoise
	Violet
	Wheat
	White
	WhiteSmoke
	Tomato
	LightSeaGreen
	SkyBlue
	Sienna
	PeachPuff
	Peru
	Pink
	Plum
	PowderBlue
	Purple
	Silver
	Red
	RoyalBlue
	SaddleBrown
	Salmon
	SandyBrown
	SeaGreen
	SeaShell
	RosyBrown
	Yellow
	LightSalmon
	LightGreen
	DarkRed
	DarkOrchid
	DarkOrange
	DarkOliveGreen
	DarkMagenta
	DarkKhaki
	DarkGreen
	DarkGray
	DarkGoldenrod
	DarkCyan
	DarkBlue
	Cyan
	Crimson
	Cornsilk
	CornflowerBlue
	Coral
	Chocolate
	AntiqueWhite
	Aqua
	Aquamarine
	Azure
	Beige
	Bisque
	DarkSalmon
	Black
	Blue
	BlueViolet
	Brown
	BurlyWood
	CadetBlue
	Chartreuse
	BlanchedAlmond
	DarkSeaGreen
	DarkSlateBlue
	DarkSlateGray
	HotPink
	IndianRed
	Indigo
	Ivory
	Khaki
	Lavender
	Honeydew
	LavenderBlush
	LemonChiffon
	LightBlue
	LightCoral
	LightCyan
	LightGoldenrodYellow
	LightGray
	LawnGreen
	LightPink
	GreenYellow
	Gray
	DarkTurquoise
	DarkViolet
	DeepPink
	DeepSkyBlue
	DimGray
	DodgerBlue
	Green
	Firebrick
	ForestGreen
	Fuchsia
	Gainsboro
	GhostWhite
	Gold
	Goldenrod
	FloralWhite
	YellowGreen
)

// NumColors is the number of defined colors.
const NumColors = 141

var colorNames = [NumColors]string{
	"AliceBlue",
	"PaleGoldenrod",
	"Orchid",
	"OrangeRed",
	"Orange",
	"OliveDrab",
	"Olive",
	"OldLace",
	"Navy",
	"NavajoWhite",
	"Moccasin",
	"MistyRose",
	"MintCream",
	"MidnightBlue",
	"MediumVioletRed",
	"MediumTurquoise",
	"MediumSpringGreen",
	"MediumSlateBlue",
	"LightSkyBlue",
	"LightSlateGray",
	"LightSteelBlue",
	"LightYellow",
	"Lime",
	"LimeGreen",
	"PaleGreen",
	"Linen",
	"Maroon",
	"MediumAquamarine",
	"MediumBlue",
	"MediumOrchid",
	"MediumPurple",
	"MediumSeaGreen",
	"Magenta",
	"PaleTurquoise",
	"PaleVioletRed",
	"PapayaWhip",
	"SlateGray",
	"Snow",
	"SpringGreen",
	"SteelBlue",
	"Tan",
	"Teal",
	"SlateBlue",
	"Thistle",
	"Transparent",
	"Turquoise",
	"Violet",
	"Wheat",
	"White",
	"WhiteSmoke",
	"Tomato",
	"LightSeaGreen",
	"SkyBlue",
	"Sienna",
	"PeachPuff",
	"Peru",
	"Pink",
	"Plum",
	"PowderBlue",
	"Purple",
	"Silver",
	"Red",
	"RoyalBlue",
	"SaddleBrown",
	"Salmon",
	"SandyBrown",
	"SeaGreen",
	"SeaShell",
	"RosyBrown",
	"Yellow",
	"LightSalmon",
	"LightGreen",
	"DarkRed",
	"DarkOrchid",
	"DarkOrange",
	"DarkOliveGreen",
	"DarkMagenta",
	"DarkKhaki",
	"DarkGreen",
	"DarkGray",
	"DarkGoldenrod",
	"DarkCyan",
	"DarkBlue",
	"Cyan",
	"Crimson",
	"Cornsilk",
	"CornflowerBlue",
	"Coral",
	"Chocolate",
	"AntiqueWhite",
	"Aqua",
	"Aquamarine",
	"Azure",
	"Beige",
	"Bisque",
	"DarkSalmon",
	"Black",
	"Blue",
	"BlueViolet",
	"Brown",
	"BurlyWood",
	"CadetBlue",
	"Chartreuse",
	"BlanchedAlmond",
	"DarkSeaGreen",
	"DarkSlateBlue",
	"DarkSlateGray",
	"HotPink",
	"IndianRed",
	"Indigo",
	"Ivory",
	"Khaki",
	"Lavender",
	"Honeydew",
	"LavenderBlush",
	"LemonChiffon",
	"LightBlue",
	"LightCoral",
	"LightCyan",
	"LightGoldenrodYellow",
	"LightGray",
	"LawnGreen",
	"LightPink",
	"GreenYellow",
	"Gray",
	"DarkTurquoise",
	"DarkViolet",
	"DeepPink",
	"DeepSkyBlue",
	"DimGray",
	"DodgerBlue",
	"Green",
	"Firebrick",
	"ForestGreen",
	"Fuchsia",
	"Gainsboro",
	"GhostWhite",
	"Gold",
	"Goldenrod",
	"FloralWhite",
	"YellowGreen",
}

func (c Color) String() string {
	if c < NumColors {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", uint32(c))
}

// Valid reports whether c is one of the named colors.
func (c Color) Valid() bool {
	return c < NumColors
}

// ParseColor looks a color up by name, ignoring case.
func ParseColor(name string) (Color, error) {
	for i, n := range colorNames {
		if strings.EqualFold(n, name) {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("vrd: unknown color %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("vrd: invalid color %d", uint32(c))
	}
	return []byte(colorNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
