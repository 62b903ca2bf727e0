package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// liteSizes overrides the default theme sizes so a long job list fits on screen
var liteSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNamePadding:         3,
	theme.SizeNameInnerPadding:    6,
	theme.SizeNameLineSpacing:     2,
	theme.SizeNameScrollBar:       12,
	theme.SizeNameText:            13,
	theme.SizeNameHeadingText:     16,
	theme.SizeNameSubHeadingText:  14,
	theme.SizeNameCaptionText:     10,
	theme.SizeNameInputRadius:     3,
	theme.SizeNameSelectionRadius: 2,
}

// LiteTheme is the default theme with tighter spacing and status colors
// that match the job states shown in the list.
type LiteTheme struct {
	base fyne.Theme
}

// NewLiteTheme creates the application theme
func NewLiteTheme() fyne.Theme {
	return &LiteTheme{base: theme.DefaultTheme()}
}

// Color returns theme colors
func (t *LiteTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return color.NRGBA{R: 56, G: 142, B: 60, A: 255}
	case theme.ColorNameError:
		return color.NRGBA{R: 198, G: 40, B: 40, A: 255}
	case theme.ColorNameWarning:
		return color.NRGBA{R: 239, G: 108, B: 0, A: 255}
	case theme.ColorNamePrimary:
		// YouTube red for the progress bars and the Start button
		return color.NRGBA{R: 204, G: 0, B: 0, A: 255}
	}
	return t.base.Color(name, variant)
}

// Font returns theme fonts
func (t *LiteTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon returns theme icons
func (t *LiteTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *LiteTheme) Size(name fyne.ThemeSizeName) float32 {
	if size, ok := liteSizes[name]; ok {
		return size
	}
	return t.base.Size(name)
}
