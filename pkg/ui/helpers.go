package ui

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/lampmaker/guistuff/pkg/model"
)

// truncateCells truncates a string to a maximum visual width (terminal
// cells), appending suffix when truncation happens. Uses go-runewidth so wide
// characters count correctly.
func truncateCells(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	return runewidth.Truncate(s, maxWidth-suffixWidth, "") + suffix
}

// padCells pads s with spaces on the right to the given visual width.
func padCells(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + spaces(width-w)
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// typeGlyph maps a node icon key ("folder/open", "file/leaf") to its glyph.
// Unknown types share the generic glyphs.
func typeGlyph(iconKey string) string {
	switch iconKey {
	case "folder/open":
		return "▼ 📂"
	case "folder/closed":
		return "▶ 📁"
	case "folder/leaf":
		return "  📁"
	case "file/leaf", "file/open", "file/closed":
		return "  📄"
	case "layer/open":
		return "▼ ◈"
	case "layer/closed":
		return "▶ ◈"
	case "layer/leaf":
		return "  ◈"
	default:
		return genericGlyph(iconKey)
	}
}

func genericGlyph(iconKey string) string {
	switch {
	case len(iconKey) > 5 && iconKey[len(iconKey)-5:] == "/open":
		return "▼ •"
	case len(iconKey) > 7 && iconKey[len(iconKey)-7:] == "/closed":
		return "▶ •"
	default:
		return "  •"
	}
}

// formatToggleValue renders a value toggle's state as a short cell, e.g.
// "[✓]" for true, "[ ]" for false, "[normal]" for strings.
func formatToggleValue(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "[✓]"
		}
		return "[ ]"
	default:
		return fmt.Sprintf("[%v]", x)
	}
}

// nodeDescription summarizes a node for the status bar.
func nodeDescription(n *model.Node) string {
	if n == nil {
		return ""
	}
	desc := fmt.Sprintf("%s (%s)", n.Label, n.EffectiveType())
	if len(n.Children) > 0 {
		desc += fmt.Sprintf(", %d children", len(n.Children))
	}
	return desc
}
