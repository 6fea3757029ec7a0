package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"

	"github.com/lampmaker/guistuff/pkg/analysis"
	"github.com/lampmaker/guistuff/pkg/debug"
	"github.com/lampmaker/guistuff/pkg/model"
	"github.com/lampmaker/guistuff/pkg/tree"
	"github.com/lampmaker/guistuff/pkg/treepath"
)

// FileChangedMsg is sent when the document changes on disk.
type FileChangedMsg struct{}

// ReloadFunc re-reads the document from disk for live reload.
type ReloadFunc func() ([]*model.Node, error)

// AppOption configures the App.
type AppOption func(*App)

// WithDocumentPath records where the document lives so view state can be
// persisted next to it.
func WithDocumentPath(path string) AppOption {
	return func(a *App) {
		a.docPath = path
	}
}

// WithPersistState enables saving expand/selection state on quit and
// restoring it on reload.
func WithPersistState(persist bool) AppOption {
	return func(a *App) {
		a.persistState = persist
	}
}

// WithReload installs the live-reload callback invoked on FileChangedMsg.
func WithReload(fn ReloadFunc) AppOption {
	return func(a *App) {
		a.reload = fn
	}
}

// WithSave installs the callback invoked by the save key with the current
// forest.
func WithSave(fn func(roots []*model.Node) error) AppOption {
	return func(a *App) {
		a.save = fn
	}
}

// WithAppTheme overrides the default theme.
func WithAppTheme(t Theme) AppOption {
	return func(a *App) {
		a.theme = t
	}
}

// App is the terminal tree browser. It owns a tree.Model and translates key
// presses into model operations; the model's render hook keeps the displayed
// snapshot current.
type App struct {
	tree  *tree.Model
	theme Theme
	keys  keyMap

	snap   *tree.Snapshot
	cursor int
	vp     viewport.Model
	ready  bool
	width  int
	height int

	status    string
	statusErr bool

	// moveSource is the marked path of an in-flight move gesture, or "".
	moveSource string

	// pendingAdd holds the allowed child types while waiting for the user
	// to pick one by number.
	pendingAdd   bool
	pendingTypes []string

	showHelp bool
	helpView string

	docPath      string
	persistState bool
	reload       ReloadFunc
	save         func(roots []*model.Node) error
}

// NewApp builds the browser over a forest and finalized schema. Multi-select
// is controlled through the tree option so the selection contract lives in
// one place.
func NewApp(roots []*model.Node, schema *model.Schema, multiSelect bool, opts ...AppOption) *App {
	a := &App{
		theme: DefaultTheme(lipgloss.DefaultRenderer()),
		keys:  defaultKeyMap(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.tree = tree.New(roots, schema,
		tree.WithMultiSelect(multiSelect),
		tree.WithHooks(tree.Hooks{
			OnRender: func(snap *tree.Snapshot) {
				a.snap = snap
			},
			OnToggleClick: func(ev tree.ToggleEvent) {
				if ev.Kind == tree.KindToggle {
					a.setStatus(fmt.Sprintf("%s: %v → %v", ev.Name, ev.OldValue, ev.NewValue))
				}
			},
			OnNodeDrop: func(ev tree.DropEvent) {
				debug.Log("drop %s: %s -> %s %s", ev.Action, ev.SourcePath, ev.TargetPath, ev.Reason)
			},
		}),
	)

	if a.persistState && a.docPath != "" {
		if st, err := LoadViewState(StatePath(a.docPath)); err == nil {
			selected := st.Apply(a.tree.Roots())
			a.tree.SetSelection(selected)
		} else {
			debug.Log("view state load failed: %v", err)
		}
	}

	a.snap = a.tree.Snapshot()
	return a
}

// Tree exposes the underlying model, mainly for tests and save-on-quit.
func (a *App) Tree() *tree.Model {
	return a.tree
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := msg.Height - 3 // header + status bar
		if contentHeight < 1 {
			contentHeight = 1
		}
		if !a.ready {
			a.vp = viewport.New(msg.Width, contentHeight)
			a.ready = true
		} else {
			a.vp.Width = msg.Width
			a.vp.Height = contentHeight
		}
		return a, nil

	case FileChangedMsg:
		a.handleFileChanged()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showHelp {
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, a.quit()
		default:
			a.showHelp = false
		}
		return a, nil
	}

	if a.pendingAdd {
		return a.handlePendingAdd(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, a.quit()

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true

	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)

	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)

	case key.Matches(msg, a.keys.Top):
		a.cursor = 0
		a.scrollToCursor()

	case key.Matches(msg, a.keys.Bottom):
		a.cursor = len(a.snap.Rows) - 1
		a.scrollToCursor()

	case key.Matches(msg, a.keys.Expand):
		if row, ok := a.cursorRow(); ok && row.HasChildren {
			a.tree.SetExpanded(row.Path, true)
		}

	case key.Matches(msg, a.keys.Collapse):
		a.collapseOrAscend()

	case key.Matches(msg, a.keys.Toggle):
		if row, ok := a.cursorRow(); ok && row.HasChildren {
			a.tree.SetExpanded(row.Path, !row.Expanded)
			a.clampCursor()
		}

	case key.Matches(msg, a.keys.Select):
		a.toggleSelect()

	case key.Matches(msg, a.keys.AddChild):
		a.beginAdd()

	case key.Matches(msg, a.keys.Move):
		a.markOrDrop()

	case key.Matches(msg, a.keys.Remove):
		a.removeAtCursor()

	case key.Matches(msg, a.keys.CopyPath):
		a.copyPath()

	case key.Matches(msg, a.keys.CopyJSON):
		a.copySubtreeJSON()

	case key.Matches(msg, a.keys.Save):
		a.saveDocument()

	case key.Matches(msg, a.keys.Cancel):
		a.cancelGesture()

	default:
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= 9 {
			a.clickToggleColumn(n - 1)
		}
	}
	return a, nil
}

// handlePendingAdd consumes the type-picking step of the add-child gesture.
func (a *App) handlePendingAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Cancel) || key.Matches(msg, a.keys.Quit) {
		a.pendingAdd = false
		a.pendingTypes = nil
		a.setStatus("add cancelled")
		return a, nil
	}
	n, err := strconv.Atoi(msg.String())
	if err != nil || n < 1 || n > len(a.pendingTypes) {
		return a, nil
	}
	childType := a.pendingTypes[n-1]
	a.pendingAdd = false
	a.pendingTypes = nil

	row, ok := a.cursorRow()
	if !ok {
		return a, nil
	}
	if res := a.tree.AddChild(row.Path, childType, nil); !res.OK {
		a.setError(res.Reason)
	} else {
		a.setStatus(fmt.Sprintf("added %s under %s", childType, row.Label))
	}
	a.clampCursor()
	return a, nil
}

func (a *App) quit() tea.Cmd {
	if a.persistState && a.docPath != "" {
		st := CaptureViewState(a.tree.Roots(), a.tree.Selection())
		if err := SaveViewState(st, StatePath(a.docPath)); err != nil {
			debug.Log("view state save failed: %v", err)
		}
	}
	return tea.Quit
}

func (a *App) moveCursor(delta int) {
	a.cursor += delta
	a.clampCursor()
	a.scrollToCursor()
}

func (a *App) clampCursor() {
	if a.cursor >= len(a.snap.Rows) {
		a.cursor = len(a.snap.Rows) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) scrollToCursor() {
	if !a.ready {
		return
	}
	if a.cursor < a.vp.YOffset {
		a.vp.SetYOffset(a.cursor)
	} else if a.cursor >= a.vp.YOffset+a.vp.Height {
		a.vp.SetYOffset(a.cursor - a.vp.Height + 1)
	}
}

func (a *App) cursorRow() (tree.Row, bool) {
	return a.snap.RowAt(a.cursor)
}

// collapseOrAscend collapses an expanded node, otherwise jumps to the parent.
func (a *App) collapseOrAscend() {
	row, ok := a.cursorRow()
	if !ok {
		return
	}
	if row.Expanded && row.HasChildren {
		a.tree.SetExpanded(row.Path, false)
		return
	}
	parent, _, ok := treepath.Split(row.Path)
	if !ok || parent == "" {
		return
	}
	if i := a.snap.IndexOfPath(parent); i >= 0 {
		a.cursor = i
		a.scrollToCursor()
	}
}

func (a *App) toggleSelect() {
	row, ok := a.cursorRow()
	if !ok {
		return
	}
	if row.Selected {
		var kept []string
		for _, p := range a.tree.Selection() {
			if p != row.Path {
				kept = append(kept, p)
			}
		}
		a.tree.SetSelection(kept)
	} else {
		a.tree.Select(row.Path)
	}
	a.snap = a.tree.Snapshot()
}

func (a *App) beginAdd() {
	row, ok := a.cursorRow()
	if !ok {
		return
	}
	allowed := a.tree.Schema().AllowedChildrenOf(row.Node)
	if len(allowed) == 0 {
		a.setError(fmt.Sprintf("%q does not accept children", row.Label))
		return
	}
	a.pendingAdd = true
	a.pendingTypes = allowed
}

// markOrDrop handles both halves of the move gesture: the first press marks
// the source, the second performs the drop on the cursor row.
func (a *App) markOrDrop() {
	row, ok := a.cursorRow()
	if !ok {
		return
	}
	if a.moveSource == "" {
		a.moveSource = row.Path
		a.tree.ReportDrag(tree.DropActionStart, row.Path, "")
		a.setStatus(fmt.Sprintf("moving %s, press m on the new parent", row.Label))
		return
	}

	source := a.moveSource
	a.moveSource = ""
	res := a.tree.Move(source, row.Path)
	a.tree.ReportDrag(tree.DropActionEnd, source, row.Path)
	if !res.Valid {
		a.setError(res.Reason)
		return
	}
	a.setStatus(fmt.Sprintf("moved under %s", row.Label))
	a.clampCursor()
}

func (a *App) removeAtCursor() {
	row, ok := a.cursorRow()
	if !ok {
		return
	}
	if a.moveSource != "" && treepath.IsDescendantOrSelf(a.moveSource, row.Path) {
		a.cancelGesture()
	}
	if res := a.tree.Remove(row.Path); !res.OK {
		a.setError(res.Reason)
		return
	}
	a.setStatus(fmt.Sprintf("removed %s", row.Label))
	a.clampCursor()
}

func (a *App) copyPath() {
	row, ok := a.cursorRow()
	if !ok {
		return
	}
	if err := clipboard.WriteAll(row.Path); err != nil {
		a.setError(fmt.Sprintf("clipboard: %v", err))
		return
	}
	a.setStatus(fmt.Sprintf("copied %s", row.Path))
}

func (a *App) copySubtreeJSON() {
	row, ok := a.cursorRow()
	if !ok {
		return
	}
	data, err := json.MarshalIndent(row.Node, "", "  ")
	if err != nil {
		a.setError(fmt.Sprintf("encode subtree: %v", err))
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		a.setError(fmt.Sprintf("clipboard: %v", err))
		return
	}
	a.setStatus(fmt.Sprintf("copied %s subtree as JSON", row.Label))
}

func (a *App) saveDocument() {
	if a.save == nil {
		a.setError("saving is not configured")
		return
	}
	if err := a.save(a.tree.Roots()); err != nil {
		a.setError(fmt.Sprintf("save failed: %v", err))
		return
	}
	a.setStatus("document saved")
}

func (a *App) cancelGesture() {
	if a.moveSource != "" {
		a.tree.ReportDrag(tree.DropActionEnd, a.moveSource, "")
		a.moveSource = ""
		a.setStatus("move cancelled")
	}
	a.pendingAdd = false
	a.pendingTypes = nil
}

// clickToggleColumn fires a toggle click for the Nth visible toggle column on
// the cursor row. Invisible cells ignore the click, same as a renderer that
// never drew them.
func (a *App) clickToggleColumn(col int) {
	row, ok := a.cursorRow()
	if !ok || col >= len(row.Toggles) {
		return
	}
	cell := row.Toggles[col]
	if !cell.Visible {
		return
	}
	if res := a.tree.ToggleClick(row.Path, cell.Name); !res.OK {
		a.setError(res.Reason)
	}
}

// handleFileChanged reloads the document and carries the view state across
// via node IDs.
func (a *App) handleFileChanged() {
	if a.reload == nil {
		return
	}
	roots, err := a.reload()
	if err != nil {
		a.setError(fmt.Sprintf("reload failed: %v", err))
		return
	}
	a.cancelGesture()
	st := CaptureViewState(a.tree.Roots(), a.tree.Selection())
	selected := st.Apply(roots)
	a.tree.SetRoots(roots)
	a.tree.SetSelection(selected)
	a.snap = a.tree.Snapshot()
	a.clampCursor()
	a.setStatus("document reloaded")
}

func (a *App) setStatus(msg string) {
	a.status = msg
	a.statusErr = false
}

func (a *App) setError(msg string) {
	a.status = msg
	a.statusErr = true
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.showHelp {
		return a.renderHelp()
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	lines := make([]string, 0, len(a.snap.Rows))
	for i, row := range a.snap.Rows {
		lines = append(lines, a.renderRow(row, i == a.cursor))
	}
	if len(lines) == 0 {
		lines = append(lines, a.theme.MutedText.Render("  (empty tree, press a to add)"))
	}
	a.vp.SetContent(strings.Join(lines, "\n"))
	b.WriteString(a.vp.View())
	b.WriteString("\n")
	b.WriteString(a.renderStatusBar())
	return b.String()
}

func (a *App) renderHeader() string {
	title := "guistuff"
	if a.docPath != "" {
		title = a.docPath
	}
	stats := analysis.Compute(a.tree.Roots())
	summary := fmt.Sprintf("%d nodes, depth %d", stats.NodeCount, stats.MaxDepth)
	return a.theme.Header.Render(truncateCells(title, a.width-len(summary)-4, "…")) +
		" " + a.theme.MutedText.Render(summary)
}

func (a *App) renderRow(row tree.Row, isCursor bool) string {
	var b strings.Builder
	b.WriteString(spaces(row.Depth * 2))
	b.WriteString(typeGlyph(row.IconKey))
	b.WriteString(" ")

	label := truncateCells(row.Label, 40, "…")
	labelStyle := a.theme.Base.Foreground(a.theme.TypeColor(row.Type))
	if row.Path == a.moveSource {
		labelStyle = a.theme.Marked
		label += " (moving)"
	}
	if row.Selected {
		b.WriteString(a.theme.ToggleOn.Render("* "))
	}
	b.WriteString(labelStyle.Render(label))

	for _, cell := range row.Toggles {
		if !cell.Visible {
			continue
		}
		b.WriteString(" ")
		switch cell.Kind {
		case model.KindAction:
			b.WriteString(a.theme.ToggleAction.Render("[+" + cell.Name + "]"))
		default:
			style := a.theme.ToggleOff
			if v, ok := cell.Value.(bool); !ok || v {
				style = a.theme.ToggleOn
			}
			b.WriteString(style.Render(cell.Name + formatToggleValue(cell.Value)))
		}
	}

	line := b.String()
	if isCursor {
		return a.theme.Selected.Render(padCells(line, a.width-4))
	}
	return line
}

func (a *App) renderStatusBar() string {
	if a.pendingAdd {
		var opts []string
		for i, t := range a.pendingTypes {
			opts = append(opts, fmt.Sprintf("%d:%s", i+1, t))
		}
		return a.theme.StatusBar.Render("add child: " + strings.Join(opts, "  ") + "  (esc cancels)")
	}
	if a.status != "" {
		if a.statusErr {
			return a.theme.StatusError.Render(a.status)
		}
		return a.theme.StatusBar.Render(a.status)
	}
	if row, ok := a.cursorRow(); ok {
		return a.theme.StatusBar.Render(nodeDescription(row.Node) + "  ? for help")
	}
	return a.theme.StatusBar.Render("? for help")
}
