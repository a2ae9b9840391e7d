package render

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// MainTheme tightens the default theme for dense result rows.
type MainTheme struct {
	fyne.Theme
}

var themeSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNameInlineIcon:         16,
	theme.SizeNameInnerPadding:       6,
	theme.SizeNameLineSpacing:        3,
	theme.SizeNamePadding:            4,
	theme.SizeNameScrollBar:          8,
	theme.SizeNameScrollBarSmall:     2,
	theme.SizeNameSeparatorThickness: 1,
	theme.SizeNameText:               14,
	theme.SizeNameHeadingText:        24,
	theme.SizeNameSubHeadingText:     18,
	theme.SizeNameCaptionText:        12,
	theme.SizeNameInputBorder:        2,
}

func (m MainTheme) Size(name fyne.ThemeSizeName) float32 {
	if size, ok := themeSizes[name]; ok {
		return size
	}
	return m.base().Size(name)
}

func (m MainTheme) base() fyne.Theme {
	if m.Theme != nil {
		return m.Theme
	}
	return theme.DefaultTheme()
}

// shade pairs the light and dark variant of a color.
type shade struct {
	light, dark color.NRGBA
}

func gray(v uint8) color.NRGBA {
	return color.NRGBA{R: v, G: v, B: v, A: 0xff}
}

var themeColors = map[fyne.ThemeColorName]shade{
	theme.ColorNameSelection:       {light: color.NRGBA{R: 0x3d, G: 0x9f, B: 0xff, A: 0xff}, dark: color.NRGBA{R: 0x3d, G: 0x9f, B: 0xff, A: 0xff}},
	theme.ColorNameForeground:      {light: gray(0x20), dark: gray(0xe0)},
	theme.ColorNameBackground:      {light: gray(0xf8), dark: gray(0x1a)},
	theme.ColorNameInputBackground: {light: gray(0xff), dark: gray(0x2d)},
	theme.ColorNamePlaceHolder:     {light: gray(0x90), dark: gray(0x80)},
	theme.ColorNameDisabled:        {light: gray(0xa0), dark: gray(0x60)},
}

func (m MainTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	s, ok := themeColors[name]
	if !ok {
		return m.base().Color(name, variant)
	}
	if variant == theme.VariantDark {
		return s.dark
	}
	return s.light
}

// RatingColor is the text color of a rating class.
func RatingColor(class string) color.Color {
	switch class {
	case RatingGood:
		return color.NRGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
	case RatingOkay:
		return color.NRGBA{R: 0xff, G: 0xb3, B: 0x00, A: 0xff}
	case RatingBad:
		return color.NRGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff}
	default:
		return gray(0x90)
	}
}
