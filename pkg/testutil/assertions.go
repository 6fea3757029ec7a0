// Package testutil provides shared assertions, golden file helpers and tree
// fixture generators.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/lampmaker/guistuff/pkg/model"
	"github.com/lampmaker/guistuff/pkg/treepath"
)

// AssertNodeCount verifies the total number of nodes in a forest.
func AssertNodeCount(t *testing.T, roots []*model.Node, expected int) {
	t.Helper()
	total := 0
	for _, r := range roots {
		total += r.Count()
	}
	if total != expected {
		t.Errorf("expected %d nodes, got %d", expected, total)
	}
}

// AssertResolves verifies that a path addresses a node with the given label.
func AssertResolves(t *testing.T, roots []*model.Node, path, label string) {
	t.Helper()
	n, ok := treepath.Resolve(roots, path)
	if !ok {
		t.Errorf("path %q does not resolve", path)
		return
	}
	if n.Label != label {
		t.Errorf("path %q resolves to %q, want %q", path, n.Label, label)
	}
}

// AssertNotResolves verifies that a path addresses nothing.
func AssertNotResolves(t *testing.T, roots []*model.Node, path string) {
	t.Helper()
	if n, ok := treepath.Resolve(roots, path); ok {
		t.Errorf("path %q unexpectedly resolves to %q", path, n.Label)
	}
}

// AssertForestsEqual verifies deep structural equality of two forests.
func AssertForestsEqual(t *testing.T, got, want []*model.Node) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("root count mismatch: %d vs %d", len(got), len(want))
		return
	}
	for i := range got {
		if !got[i].Equal(want[i]) {
			t.Errorf("root %d differs", i)
		}
	}
}

// AssertAllValid verifies every root subtree passes structural validation.
func AssertAllValid(t *testing.T, roots []*model.Node) {
	t.Helper()
	for i, r := range roots {
		if err := r.Validate(); err != nil {
			t.Errorf("root %d invalid: %v", i, err)
		}
	}
}

// AssertJSONEqual compares two values after JSON round-tripping. Useful for
// comparing structures with differing in-memory representations but
// equivalent JSON forms.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If the GENERATE_GOLDEN env var is set, golden files are updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file, or updates the
// file when GENERATE_GOLDEN is set.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()

	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) != actual {
		expectedLines := strings.Split(string(expected), "\n")
		actualLines := strings.Split(actual, "\n")
		for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
			var expLine, actLine string
			if i < len(expectedLines) {
				expLine = expectedLines[i]
			}
			if i < len(actualLines) {
				actLine = actualLines[i]
			}
			if expLine != actLine {
				g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, expLine, actLine)
				return
			}
		}
		g.t.Errorf("golden file mismatch: %s", path)
	}
}
