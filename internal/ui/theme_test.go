package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

func TestThemeModes(t *testing.T) {
	tests := []struct {
		name    string
		fixed   bool
		variant fyne.ThemeVariant
	}{
		{"light", true, theme.VariantLight},
		{"dark", true, theme.VariantDark},
		{"system", false, 0},
		{"", false, 0},
	}
	for _, tt := range tests {
		th := NewPolyPackThemeFor(tt.name)
		if th.fixed != tt.fixed {
			t.Errorf("%q: fixed = %v, want %v", tt.name, th.fixed, tt.fixed)
		}
		if tt.fixed && th.variant != tt.variant {
			t.Errorf("%q: variant = %v, want %v", tt.name, th.variant, tt.variant)
		}
	}
}

func TestThemeCompactSizes(t *testing.T) {
	th := NewPolyPackTheme()
	if got := th.Size(theme.SizeNameText); got != 12 {
		t.Errorf("text size = %.0f, want 12", got)
	}
	if got := th.Size(theme.SizeNamePadding); got != 3 {
		t.Errorf("padding = %.0f, want 3", got)
	}
}
