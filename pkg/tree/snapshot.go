package tree

import (
	"github.com/lampmaker/guistuff/pkg/metrics"
	"github.com/lampmaker/guistuff/pkg/model"
	"github.com/lampmaker/guistuff/pkg/treepath"
)

// ToggleCell is the resolved state of one toggle column on one row.
// Value is only meaningful for value toggles.
type ToggleCell struct {
	Name    string
	Visible bool
	Value   any
	Kind    model.ToggleKind
}

// Row is one visible node in render order. Paths in a snapshot are valid
// until the next structural mutation (watch RenderSeq).
type Row struct {
	Path        string
	Depth       int
	Node        *model.Node
	Label       string
	Type        string
	IconKey     string
	Expanded    bool
	HasChildren bool
	Selected    bool
	Toggles     []ToggleCell
}

// Snapshot is the read-only per-render view handed to the renderer: the
// ordered visible rows (children of collapsed nodes are omitted) plus the
// configured toggle column order.
type Snapshot struct {
	Rows        []Row
	ToggleNames []string
	Seq         int
}

// Snapshot builds a fresh view of the current shape. It never caches;
// every call recomputes paths from scratch.
func (m *Model) Snapshot() *Snapshot {
	defer metrics.Timer(metrics.SnapshotBuild)()

	selected := make(map[string]bool, len(m.selection))
	for _, p := range m.selection {
		selected[p] = true
	}

	snap := &Snapshot{
		ToggleNames: m.schema.ToggleNames(),
		Seq:         m.renderSeq,
	}
	m.appendRows(snap, m.roots, "", 0, selected)
	return snap
}

func (m *Model) appendRows(snap *Snapshot, nodes []*model.Node, prefix string, depth int, selected map[string]bool) {
	for i, n := range nodes {
		path := treepath.Join(prefix, i)
		row := Row{
			Path:        path,
			Depth:       depth,
			Node:        n,
			Label:       n.Label,
			Type:        n.EffectiveType(),
			IconKey:     iconKey(n),
			Expanded:    n.IsExpanded(),
			HasChildren: !n.IsLeaf(),
			Selected:    selected[path],
		}
		for _, name := range snap.ToggleNames {
			cell := ToggleCell{
				Name:    name,
				Visible: m.resolver.IsVisible(n, name),
				Kind:    m.schema.Kind(name),
			}
			if cell.Visible && cell.Kind == model.KindValue {
				cell.Value = m.resolver.EffectiveValue(n, name)
			}
			row.Toggles = append(row.Toggles, cell)
		}
		snap.Rows = append(snap.Rows, row)

		if row.Expanded && row.HasChildren {
			m.appendRows(snap, n.Children, path, depth+1, selected)
		}
	}
}

// iconKey combines type and expand state into the renderer's icon lookup
// key. Resolving the key to an actual glyph is the renderer's business.
func iconKey(n *model.Node) string {
	switch {
	case n.IsLeaf():
		return n.EffectiveType() + "/leaf"
	case n.IsExpanded():
		return n.EffectiveType() + "/open"
	default:
		return n.EffectiveType() + "/closed"
	}
}

// RowAt returns the snapshot row at the given display index.
func (s *Snapshot) RowAt(i int) (Row, bool) {
	if i < 0 || i >= len(s.Rows) {
		return Row{}, false
	}
	return s.Rows[i], true
}

// IndexOfPath returns the display index of a path, or -1.
func (s *Snapshot) IndexOfPath(path string) int {
	for i, row := range s.Rows {
		if row.Path == path {
			return i
		}
	}
	return -1
}
