package treepath

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/lampmaker/guistuff/pkg/model"
)

// testForest builds a small fixed forest:
//
//	0: a
//	   0.0: a0
//	   0.1: a1
//	        0.1.0: a10
//	1: b
func testForest() []*model.Node {
	return []*model.Node{
		{Label: "a", Children: []*model.Node{
			{Label: "a0"},
			{Label: "a1", Children: []*model.Node{
				{Label: "a10"},
			}},
		}},
		{Label: "b"},
	}
}

// TestParseFormatRoundTrip verifies Format inverts Parse for well-formed paths
func TestParseFormatRoundTrip(t *testing.T) {
	for _, path := range []string{"0", "3", "0.2.1", "10.0.7.4"} {
		if got := Format(Parse(path)); got != path {
			t.Errorf("Format(Parse(%q)) = %q", path, got)
		}
	}
}

// TestParseEmpty verifies the empty path yields no segments
func TestParseEmpty(t *testing.T) {
	if segs := Parse(""); len(segs) != 0 {
		t.Errorf("expected no segments, got %v", segs)
	}
	if got := Format(nil); got != "" {
		t.Errorf("expected empty path, got %q", got)
	}
}

// TestParseMalformedPanics verifies non-numeric and negative segments panic
func TestParseMalformedPanics(t *testing.T) {
	for _, path := range []string{"a", "0.x.1", "1.-2", "0..1"} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Parse(%q) did not panic", path)
				}
			}()
			Parse(path)
		}()
	}
}

// TestJoinSplit verifies Join and Split are inverses
func TestJoinSplit(t *testing.T) {
	if got := Join("", 3); got != "3" {
		t.Errorf("Join root = %q", got)
	}
	if got := Join("0.2", 1); got != "0.2.1" {
		t.Errorf("Join nested = %q", got)
	}

	parent, idx, ok := Split("0.2.1")
	if !ok || parent != "0.2" || idx != 1 {
		t.Errorf("Split(0.2.1) = %q, %d, %v", parent, idx, ok)
	}
	parent, idx, ok = Split("4")
	if !ok || parent != "" || idx != 4 {
		t.Errorf("Split(4) = %q, %d, %v", parent, idx, ok)
	}
	if _, _, ok = Split(""); ok {
		t.Error("Split of empty path reported ok")
	}
}

// TestIsDescendantOrSelf verifies the lexical prefix check, including that
// sibling paths sharing a digit prefix ("1" vs "10") are not related
func TestIsDescendantOrSelf(t *testing.T) {
	cases := []struct {
		source, target string
		want           bool
	}{
		{"0", "0", true},
		{"0", "0.1", true},
		{"0.1", "0.1.5.2", true},
		{"0.1", "0.2", false},
		{"1", "10", false},
		{"1", "10.2", false},
		{"0.1", "0", false},
	}
	for _, tc := range cases {
		if got := IsDescendantOrSelf(tc.source, tc.target); got != tc.want {
			t.Errorf("IsDescendantOrSelf(%q, %q) = %v, want %v", tc.source, tc.target, got, tc.want)
		}
	}
}

// TestResolve verifies lookup of every node plus out-of-bounds behavior
func TestResolve(t *testing.T) {
	roots := testForest()
	cases := []struct {
		path  string
		label string
		ok    bool
	}{
		{"0", "a", true},
		{"0.0", "a0", true},
		{"0.1", "a1", true},
		{"0.1.0", "a10", true},
		{"1", "b", true},
		{"2", "", false},
		{"0.2", "", false},
		{"0.0.0", "", false}, // descent through a leaf
		{"", "", false},
	}
	for _, tc := range cases {
		n, ok := Resolve(roots, tc.path)
		if ok != tc.ok {
			t.Errorf("Resolve(%q) ok = %v, want %v", tc.path, ok, tc.ok)
			continue
		}
		if ok && n.Label != tc.label {
			t.Errorf("Resolve(%q) = %q, want %q", tc.path, n.Label, tc.label)
		}
	}
}

// TestWalkPreOrder verifies pre-order traversal pairs nodes with their paths
func TestWalkPreOrder(t *testing.T) {
	var labels, paths []string
	Walk(testForest(), func(n *model.Node, path string) bool {
		labels = append(labels, n.Label)
		paths = append(paths, path)
		return true
	})

	wantLabels := []string{"a", "a0", "a1", "a10", "b"}
	wantPaths := []string{"0", "0.0", "0.1", "0.1.0", "1"}
	if !reflect.DeepEqual(labels, wantLabels) {
		t.Errorf("walk order = %v, want %v", labels, wantLabels)
	}
	if !reflect.DeepEqual(paths, wantPaths) {
		t.Errorf("walk paths = %v, want %v", paths, wantPaths)
	}
}

// TestWalkEarlyStop verifies returning false halts the traversal
func TestWalkEarlyStop(t *testing.T) {
	count := 0
	Walk(testForest(), func(n *model.Node, path string) bool {
		count++
		return n.Label != "a1"
	})
	if count != 3 {
		t.Errorf("expected walk to stop after 3 visits, got %d", count)
	}
}

// TestRemoveAtRoot verifies splicing a root shifts later root paths
func TestRemoveAtRoot(t *testing.T) {
	roots := testForest()
	roots, ok := RemoveAt(roots, "0")
	if !ok {
		t.Fatal("expected removal to succeed")
	}
	if len(roots) != 1 || roots[0].Label != "b" {
		t.Errorf("unexpected roots after removal: %v", roots)
	}
}

// TestRemoveAtNested verifies splicing a nested child out of its parent
func TestRemoveAtNested(t *testing.T) {
	roots := testForest()
	roots, ok := RemoveAt(roots, "0.0")
	if !ok {
		t.Fatal("expected removal to succeed")
	}
	a := roots[0]
	if len(a.Children) != 1 || a.Children[0].Label != "a1" {
		t.Errorf("unexpected children after removal: %v", a.Children)
	}
	// The former 0.1 is now addressable as 0.0.
	if n, ok := Resolve(roots, "0.0"); !ok || n.Label != "a1" {
		t.Errorf("expected a1 at shifted path 0.0, got %v, %v", n, ok)
	}
}

// TestRemoveAtMissing verifies an unresolvable path leaves the forest intact
func TestRemoveAtMissing(t *testing.T) {
	roots := testForest()
	got, ok := RemoveAt(roots, "0.5")
	if ok {
		t.Error("expected removal to fail")
	}
	if len(got) != 2 || got[0].Count() != 4 {
		t.Errorf("forest changed by failed removal: %v", got)
	}
}

// TestPathRoundTripProperty verifies Parse/Format are inverses on generated
// paths
func TestPathRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segs := rapid.SliceOfN(rapid.IntRange(0, 99), 1, 8).Draw(t, "segs")
		path := Format(segs)
		if !reflect.DeepEqual(Parse(path), segs) {
			t.Fatalf("Parse(Format(%v)) = %v", segs, Parse(path))
		}
	})
}

// TestWalkResolveProperty verifies every walked path resolves back to the
// node it was paired with
func TestWalkResolveProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		roots := genForest(t, 3)
		Walk(roots, func(n *model.Node, path string) bool {
			got, ok := Resolve(roots, path)
			if !ok || got != n {
				t.Fatalf("path %q did not resolve to its node", path)
			}
			return true
		})
	})
}

// genForest draws a random forest up to the given depth.
func genForest(t *rapid.T, depth int) []*model.Node {
	count := rapid.IntRange(0, 4).Draw(t, "count")
	nodes := make([]*model.Node, count)
	for i := range nodes {
		nodes[i] = &model.Node{Label: rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "label")}
		if depth > 0 {
			nodes[i].Children = genForest(t, depth-1)
		}
	}
	return nodes
}
