package tree

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lampmaker/guistuff/pkg/model"
	"github.com/lampmaker/guistuff/pkg/testutil"
)

// TestSnapshotCollapsedHidesChildren verifies only expanded subtrees
// contribute rows
func TestSnapshotCollapsedHidesChildren(t *testing.T) {
	m := newTestModel(t, nil)

	snap := m.Snapshot()
	if len(snap.Rows) != 2 {
		t.Fatalf("expected 2 rows while collapsed, got %d", len(snap.Rows))
	}

	m.SetExpanded("0", true)
	snap = m.Snapshot()
	if len(snap.Rows) != 4 {
		t.Fatalf("expected 4 rows after expanding, got %d", len(snap.Rows))
	}

	wantPaths := []string{"0", "0.0", "0.1", "1"}
	for i, want := range wantPaths {
		if snap.Rows[i].Path != want {
			t.Errorf("row %d path = %q, want %q", i, snap.Rows[i].Path, want)
		}
	}
	if snap.Rows[1].Depth != 1 || snap.Rows[0].Depth != 0 {
		t.Errorf("unexpected depths: %d, %d", snap.Rows[0].Depth, snap.Rows[1].Depth)
	}
}

// TestSnapshotIconKeys verifies the type and expand state combine into the
// icon lookup key
func TestSnapshotIconKeys(t *testing.T) {
	m := newTestModel(t, nil)
	m.SetExpanded("0", true)
	snap := m.Snapshot()

	cases := map[string]string{
		"0":   "folder/open",
		"0.0": "folder/leaf", // Textures has no children
		"0.1": "file/leaf",
		"1":   "layer/closed",
	}
	for path, want := range cases {
		i := snap.IndexOfPath(path)
		if i < 0 {
			t.Errorf("path %q missing from snapshot", path)
			continue
		}
		if got := snap.Rows[i].IconKey; got != want {
			t.Errorf("icon key for %q = %q, want %q", path, got, want)
		}
	}
}

// TestSnapshotToggleCells verifies per-row resolution of visibility, value
// and kind
func TestSnapshotToggleCells(t *testing.T) {
	m := newTestModel(t, nil)
	snap := m.Snapshot()

	layer := snap.Rows[snap.IndexOfPath("1")]
	cells := make(map[string]ToggleCell, len(layer.Toggles))
	for _, c := range layer.Toggles {
		cells[c.Name] = c
	}

	if c := cells["blend"]; !c.Visible || c.Value != "normal" || c.Kind != model.KindValue {
		t.Errorf("unexpected blend cell: %+v", c)
	}
	if c := cells["locked"]; c.Visible {
		t.Errorf("locked visible on a layer: %+v", c)
	}
	if c := cells["addChild"]; c.Visible || c.Kind != model.KindAction {
		// layers carry no addChild default, so the action stays hidden.
		t.Errorf("unexpected addChild cell: %+v", c)
	}

	folder := snap.Rows[snap.IndexOfPath("0")]
	for _, c := range folder.Toggles {
		if c.Name == "addChild" {
			if !c.Visible || c.Value != nil {
				t.Errorf("unexpected addChild cell on folder: %+v", c)
			}
		}
	}
}

// TestSnapshotSelection verifies selected paths are flagged on their rows
func TestSnapshotSelection(t *testing.T) {
	m := newTestModel(t, nil)
	m.Select("1")
	snap := m.Snapshot()

	if !snap.Rows[snap.IndexOfPath("1")].Selected {
		t.Error("selected row not flagged")
	}
	if snap.Rows[snap.IndexOfPath("0")].Selected {
		t.Error("unselected row flagged")
	}
}

// TestSnapshotToggleNamesOrder verifies the column order comes from the
// schema
func TestSnapshotToggleNamesOrder(t *testing.T) {
	m := newTestModel(t, nil)
	snap := m.Snapshot()

	want := []string{"visible", "locked", "blend", "addChild"}
	if len(snap.ToggleNames) != len(want) {
		t.Fatalf("toggle names = %v", snap.ToggleNames)
	}
	for i, name := range want {
		if snap.ToggleNames[i] != name {
			t.Errorf("column %d = %q, want %q", i, snap.ToggleNames[i], name)
		}
	}
}

// TestSnapshotOutlineGolden renders a snapshot as a text outline and compares
// it against the checked-in golden file (GENERATE_GOLDEN=1 regenerates)
func TestSnapshotOutlineGolden(t *testing.T) {
	roots := []*model.Node{
		{Label: "Assets", Type: "folder", Children: []*model.Node{
			{Label: "Textures", Type: "folder"},
			{Label: "hero.png", Type: "file", Toggles: map[string]any{"locked": true}},
		}},
		{Label: "Compositing", Type: "layer", Children: []*model.Node{
			{Label: "Shadows", Type: "layer", Toggles: map[string]any{"blend": "multiply"}},
		}},
	}
	m := New(roots, model.DefaultSchema())
	m.SetExpanded("0", true)

	var b strings.Builder
	for _, row := range m.Snapshot().Rows {
		b.WriteString(strings.Repeat("  ", row.Depth))
		fmt.Fprintf(&b, "%s <%s>", row.Label, row.IconKey)
		for _, c := range row.Toggles {
			if !c.Visible {
				continue
			}
			if c.Kind == model.KindValue {
				fmt.Fprintf(&b, " %s=%v", c.Name, c.Value)
			} else {
				fmt.Fprintf(&b, " [%s]", c.Name)
			}
		}
		b.WriteString("\n")
	}

	testutil.NewGoldenFile(t, "testdata", "snapshot_outline.golden").Assert(b.String())
}

// TestSnapshotRowAt verifies bounds checking on display indexes
func TestSnapshotRowAt(t *testing.T) {
	m := newTestModel(t, nil)
	snap := m.Snapshot()

	if _, ok := snap.RowAt(0); !ok {
		t.Error("expected row at index 0")
	}
	if _, ok := snap.RowAt(-1); ok {
		t.Error("negative index reported ok")
	}
	if _, ok := snap.RowAt(len(snap.Rows)); ok {
		t.Error("out-of-range index reported ok")
	}
	if snap.IndexOfPath("9.9") != -1 {
		t.Error("missing path did not report -1")
	}
}
