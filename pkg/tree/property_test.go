package tree

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/lampmaker/guistuff/pkg/model"
	"github.com/lampmaker/guistuff/pkg/testutil"
	"github.com/lampmaker/guistuff/pkg/treepath"
)

// TestAddRemoveRoundTripProperty verifies adding a child and removing it
// again restores the parent's children, on randomly shaped forests
func TestAddRemoveRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := testutil.NewGenerator(testutil.GeneratorConfig{
			Seed:        rapid.Int64().Draw(t, "seed"),
			LabelPrefix: "n",
			MaxChildren: 3,
		})
		m := New(g.Random(rapid.IntRange(1, 25).Draw(t, "count")), model.DefaultSchema())

		var paths []string
		treepath.Walk(m.Roots(), func(n *model.Node, path string) bool {
			paths = append(paths, path)
			return true
		})
		parentPath := rapid.SampledFrom(paths).Draw(t, "parent")
		parent, _ := treepath.Resolve(m.Roots(), parentPath)
		before := parent.Clone()

		if res := m.AddChild(parentPath, "file", nil); !res.OK {
			t.Fatalf("add rejected: %s", res.Reason)
		}
		childPath := treepath.Join(parentPath, len(parent.Children)-1)
		if res := m.Remove(childPath); !res.OK {
			t.Fatalf("remove rejected: %s", res.Reason)
		}

		if len(parent.Children) != len(before.Children) {
			t.Fatalf("child count after round trip = %d, want %d",
				len(parent.Children), len(before.Children))
		}
		for i := range parent.Children {
			if !parent.Children[i].Equal(before.Children[i]) {
				t.Fatalf("child %d differs after round trip", i)
			}
		}
	})
}

// TestMoveThenMoveIntoOwnSubtreeProperty verifies a moved subtree still
// rejects drops onto its own descendants at any depth below its new path
func TestMoveThenMoveIntoOwnSubtreeProperty(t *testing.T) {
	schema := model.DefaultSchema()
	rapid.Check(t, func(t *rapid.T) {
		length := rapid.IntRange(2, 6).Draw(t, "length")
		g := testutil.NewGenerator(testutil.GeneratorConfig{LabelPrefix: "chain"})
		roots := append(g.Chain(length), &model.Node{Label: "Dest", Type: "folder"})

		roots, res := Reparent(roots, schema, "0", "1")
		if !res.Valid {
			t.Fatalf("move under Dest rejected: %s", res.Reason)
		}

		// Dest shifted to root 0 with the chain head at 0.0; everything
		// below the head is now its descendant.
		source := "0.0"
		below := rapid.IntRange(1, length-1).Draw(t, "below")
		target := source + strings.Repeat(".0", below)

		res = ValidateMove(roots, schema, source, target)
		if res.Valid {
			t.Fatalf("drop of %s onto %s reported valid", source, target)
		}
		if !strings.Contains(res.Reason, "descendant") {
			t.Fatalf("unexpected reason: %q", res.Reason)
		}
	})
}
