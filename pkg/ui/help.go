package ui

import "github.com/charmbracelet/glamour"

const helpMarkdown = `# Tree Browser

## Navigation
| Key | Action |
|-----|--------|
| j/k, ↓/↑ | move cursor |
| g / G | jump to top / bottom |
| l/→ | expand node |
| h/← | collapse node, or jump to parent |
| enter | toggle expand/collapse |

## Editing
| Key | Action |
|-----|--------|
| space | select / deselect node |
| 1-9 | click Nth toggle column |
| a | add a child (pick the type by number) |
| m | mark move source, then m again on the new parent |
| x | remove node and its subtree |
| y | copy node path to clipboard |
| Y | copy the subtree as JSON |
| s | save the document |
| esc | cancel the move or add gesture |

## Other
| Key | Action |
|-----|--------|
| ? | toggle this help |
| q | quit |
`

// renderHelp renders the markdown help overlay, caching the result since the
// content never changes.
func (a *App) renderHelp() string {
	if a.helpView != "" {
		return a.helpView
	}

	width := a.width
	if width > 80 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		a.helpView = helpMarkdown
		return a.helpView
	}

	out, err := r.Render(helpMarkdown)
	if err != nil {
		out = helpMarkdown
	}
	a.helpView = out + a.theme.MutedText.Render("press any key to close")
	return a.helpView
}
