package ui

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/lampmaker/guistuff/pkg/model"
	"github.com/lampmaker/guistuff/pkg/treepath"
)

// StateFileName is the view state file kept next to the document.
const StateFileName = "tree-state.json"

// ViewState is the persisted per-document view state. Nodes are keyed by
// their stable ID, not by path: paths shift with structural edits while IDs
// survive them. Nodes without an ID are simply not persisted.
type ViewState struct {
	Expanded map[string]bool `json:"expanded,omitempty"`
	Selected []string        `json:"selected,omitempty"` // node IDs, not paths
}

// CaptureViewState collects expand state and selection from a forest.
func CaptureViewState(roots []*model.Node, selectedPaths []string) ViewState {
	st := ViewState{Expanded: make(map[string]bool)}

	treepath.Walk(roots, func(n *model.Node, path string) bool {
		if n.ID != "" && n.Expanded != nil {
			st.Expanded[n.ID] = *n.Expanded
		}
		return true
	})

	for _, p := range selectedPaths {
		if n, ok := treepath.Resolve(roots, p); ok && n.ID != "" {
			st.Selected = append(st.Selected, n.ID)
		}
	}
	return st
}

// Apply restores expand state onto a (possibly edited or reloaded) forest and
// returns the paths of the still-present selected nodes.
func (st ViewState) Apply(roots []*model.Node) (selectedPaths []string) {
	selectedIDs := make(map[string]bool, len(st.Selected))
	for _, id := range st.Selected {
		selectedIDs[id] = true
	}

	treepath.Walk(roots, func(n *model.Node, path string) bool {
		if n.ID == "" {
			return true
		}
		if expanded, ok := st.Expanded[n.ID]; ok {
			n.SetExpanded(expanded)
		}
		if selectedIDs[n.ID] {
			selectedPaths = append(selectedPaths, path)
		}
		return true
	})
	return selectedPaths
}

// StatePath returns the view state file path for a document path.
func StatePath(documentPath string) string {
	return filepath.Join(filepath.Dir(documentPath), StateFileName)
}

// LoadViewState reads persisted view state. A missing file yields the zero
// state without error.
func LoadViewState(path string) (ViewState, error) {
	var st ViewState
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("reading view state: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return ViewState{}, fmt.Errorf("parsing view state: %w", err)
	}
	return st, nil
}

// SaveViewState writes view state next to the document.
func SaveViewState(st ViewState, path string) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding view state: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing view state: %w", err)
	}
	return nil
}
