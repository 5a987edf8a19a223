// Package ui provides the PolyPack desktop application.
//
// This file defines a compact Fyne theme for a dense layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// PolyPackTheme wraps the default Fyne theme with compact sizing overrides
// and an optional fixed light/dark variant.
type PolyPackTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	fixed   bool
}

// NewPolyPackTheme creates a theme that follows the system variant.
func NewPolyPackTheme() *PolyPackTheme {
	return &PolyPackTheme{base: theme.DefaultTheme()}
}

// NewPolyPackThemeFor creates a theme for a config theme name
// ("light", "dark" or "system").
func NewPolyPackThemeFor(name string) *PolyPackTheme {
	t := NewPolyPackTheme()
	t.SetMode(name)
	return t
}

// SetMode fixes the variant for "light" and "dark"; anything else follows
// the system.
func (t *PolyPackTheme) SetMode(name string) {
	switch name {
	case "light":
		t.variant, t.fixed = theme.VariantLight, true
	case "dark":
		t.variant, t.fixed = theme.VariantDark, true
	default:
		t.fixed = false
	}
}

// Color delegates to the base theme, overriding the variant when fixed.
func (t *PolyPackTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.fixed {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *PolyPackTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *PolyPackTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *PolyPackTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
