package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme bundles the adaptive colors and pre-computed styles used by the tree
// browser. Styles are created once at startup, not per frame.
type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Node types
	Folder lipgloss.AdaptiveColor
	File   lipgloss.AdaptiveColor
	Layer  lipgloss.AdaptiveColor
	Custom lipgloss.AdaptiveColor

	// UI elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Marked   lipgloss.Style
	Header   lipgloss.Style

	MutedText    lipgloss.Style
	ToggleOn     lipgloss.Style
	ToggleOff    lipgloss.Style
	ToggleAction lipgloss.Style
	StatusBar    lipgloss.Style
	StatusError  lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},

		Folder: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		File:   lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Layer:  lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"},
		Custom: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Error:     lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Marked = r.NewStyle().
		Foreground(t.Primary).
		Italic(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.ToggleOn = r.NewStyle().Foreground(ThemeFg("#50FA7B")).Bold(true)
	t.ToggleOff = r.NewStyle().Foreground(t.Muted)
	t.ToggleAction = r.NewStyle().Foreground(ThemeFg("#FFD700"))
	t.StatusBar = r.NewStyle().Foreground(t.Subtext)
	t.StatusError = r.NewStyle().Foreground(t.Error).Bold(true)

	return t
}

// TypeColor maps a node type to its display color.
func (t Theme) TypeColor(typeName string) lipgloss.AdaptiveColor {
	switch typeName {
	case "folder":
		return t.Folder
	case "file":
		return t.File
	case "layer":
		return t.Layer
	default:
		return t.Custom
	}
}
