package ui

import (
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

func isColorEmpty(c lipgloss.AdaptiveColor) bool {
	return c.Light == "" && c.Dark == ""
}

// TestDefaultTheme verifies the theme carries its renderer and non-empty colors
func TestDefaultTheme(t *testing.T) {
	renderer := lipgloss.NewRenderer(nil)
	theme := DefaultTheme(renderer)

	if theme.Renderer != renderer {
		t.Error("DefaultTheme renderer mismatch")
	}
	if isColorEmpty(theme.Primary) {
		t.Error("Primary color is empty")
	}
	if isColorEmpty(theme.Folder) {
		t.Error("Folder color is empty")
	}
	if isColorEmpty(theme.Error) {
		t.Error("Error color is empty")
	}
}

// TestTypeColor verifies node type to color resolution
func TestTypeColor(t *testing.T) {
	theme := DefaultTheme(lipgloss.NewRenderer(nil))

	tests := []struct {
		typ  string
		want lipgloss.AdaptiveColor
	}{
		{"folder", theme.Folder},
		{"file", theme.File},
		{"layer", theme.Layer},
		{"widget", theme.Custom},
		{"", theme.Custom},
	}
	for _, tt := range tests {
		if got := theme.TypeColor(tt.typ); got != tt.want {
			t.Errorf("TypeColor(%q) = %v, expected %v", tt.typ, got, tt.want)
		}
	}
}

// TestColorProfileDetection verifies init() produced a valid profile value
func TestColorProfileDetection(t *testing.T) {
	valid := map[colorprofile.Profile]bool{
		colorprofile.Unknown:   true,
		colorprofile.NoTTY:     true,
		colorprofile.ASCII:     true,
		colorprofile.ANSI:      true,
		colorprofile.ANSI256:   true,
		colorprofile.TrueColor: true,
	}
	if !valid[TermProfile] {
		t.Errorf("TermProfile has unexpected value: %d", TermProfile)
	}
}

// TestThemeFgANSI verifies low-color terminals fall back to ANSI white
func TestThemeFgANSI(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	TermProfile = colorprofile.ANSI
	got := ThemeFg("#FF5555")
	ansiColor, ok := got.(lipgloss.ANSIColor)
	if !ok {
		t.Fatalf("expected ANSIColor in ANSI mode, got %T", got)
	}
	if ansiColor != 7 {
		t.Errorf("expected ANSI white (7), got %d", ansiColor)
	}
}

// TestThemeFgTrueColor verifies capable terminals keep the hex color
func TestThemeFgTrueColor(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	TermProfile = colorprofile.TrueColor
	if _, ok := ThemeFg("#FF5555").(lipgloss.ANSIColor); ok {
		t.Error("expected hex color in TrueColor mode, got ANSIColor")
	}
}
