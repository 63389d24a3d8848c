package termcore

import "image/color"

// DefaultPalette is the base ANSI palette: 16 named colors (0-15), the
// 6x6x6 color cube (16-231), and 24 grayscale steps (232-255). It is the
// one genuinely global, immutable table in the package — every Screen
// resolves ColorPalette references against it.
var DefaultPalette = [256]color.RGBA{
	{0, 0, 0, 255},
	{205, 49, 49, 255},
	{13, 188, 121, 255},
	{229, 229, 16, 255},
	{36, 114, 200, 255},
	{188, 63, 188, 255},
	{17, 168, 205, 255},
	{229, 229, 229, 255},

	{102, 102, 102, 255},
	{241, 76, 76, 255},
	{35, 209, 139, 255},
	{245, 245, 67, 255},
	{59, 142, 234, 255},
	{214, 112, 214, 255},
	{41, 184, 219, 255},
	{255, 255, 255, 255},
}

func init() {
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				DefaultPalette[i] = color.RGBA{R: uint8(r * 51), G: uint8(g * 51), B: uint8(b * 51), A: 255}
				i++
			}
		}
	}
	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		DefaultPalette[232+j] = color.RGBA{R: gray, G: gray, B: gray, A: 255}
	}
}

// DefaultForeground is the default text color.
var DefaultForeground = color.RGBA{229, 229, 229, 255}

// DefaultBackground is the default background color.
var DefaultBackground = color.RGBA{0, 0, 0, 255}

// DefaultCursorColor is the default cursor rendering color.
var DefaultCursorColor = color.RGBA{229, 229, 229, 255}

// Resolve converts a Cell's Color reference to a concrete RGBA for display,
// given whether it is the foreground or background channel and whether BOLD
// is in effect for the foreground (the classical "bold brightens" display
// hint: an intensive fg channel with a low palette index is promoted to its
// bright counterpart 8-15 positions later).
func Resolve(c Color, fg, intensive bool) color.RGBA {
	switch c.Space {
	case ColorPalette:
		idx := int(c.Value)
		if fg && intensive && idx < 8 {
			idx += 8
		}
		return DefaultPalette[idx]
	case ColorRGB:
		r, g, b := c.RGB()
		return color.RGBA{R: r, G: g, B: b, A: 255}
	default:
		if fg {
			return DefaultForeground
		}
		return DefaultBackground
	}
}
