package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lampmaker/guistuff/pkg/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalDoc = `{"roots": [{"label": "Root", "type": "folder"}]}`

// TestGetTreeDirEnvOverride verifies GST_DIR wins over the base path
func TestGetTreeDirEnvOverride(t *testing.T) {
	t.Setenv(TreeDirEnvVar, "/custom/trees")
	dir, err := GetTreeDir("/ignored")
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/custom/trees" {
		t.Errorf("dir = %q", dir)
	}
}

// TestGetTreeDirDefault verifies the .gst convention under the base path
func TestGetTreeDirDefault(t *testing.T) {
	t.Setenv(TreeDirEnvVar, "")
	dir, err := GetTreeDir("/some/project")
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/some/project", ".gst") {
		t.Errorf("dir = %q", dir)
	}
}

// TestFindDocumentPathPreference verifies tree.json beats document.json
func TestFindDocumentPathPreference(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "document.json", minimalDoc)
	want := writeFile(t, dir, "tree.json", minimalDoc)

	got, err := FindDocumentPath(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

// TestFindDocumentPathSkipsEmpty verifies empty preferred files are passed
// over for non-empty fallbacks
func TestFindDocumentPathSkipsEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tree.json", "")
	want := writeFile(t, dir, "scene.json", minimalDoc)

	got, err := FindDocumentPath(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

// TestFindDocumentPathSkipsArtifacts verifies backups and view state are
// never selected, with a warning for artifacts
func TestFindDocumentPathSkipsArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tree.json.backup.json", minimalDoc)
	writeFile(t, dir, "tree.orig.json", minimalDoc)
	writeFile(t, dir, "tree-state.json", `{"expanded": {}}`)
	want := writeFile(t, dir, "tree.json", minimalDoc)

	var warnings []string
	got, err := FindDocumentPathWithWarnings(dir, func(msg string) {
		warnings = append(warnings, msg)
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "tree.orig.json") {
		t.Errorf("warnings = %v", warnings)
	}
}

// TestFindDocumentPathNone verifies an empty directory reports an error
func TestFindDocumentPathNone(t *testing.T) {
	if _, err := FindDocumentPath(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}

// TestFindSchemaPath verifies schema lookup next to the document
func TestFindSchemaPath(t *testing.T) {
	dir := t.TempDir()
	if got := FindSchemaPath(dir); got != "" {
		t.Errorf("expected no schema, got %q", got)
	}
	want := writeFile(t, dir, SchemaFileName, "types: {}\ntoggles: {}\n")
	if got := FindSchemaPath(dir); got != want {
		t.Errorf("schema path = %q, want %q", got, want)
	}
}

// TestLoadDocumentFromFile verifies loading including BOM stripping
func TestLoadDocumentFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tree.json", "\xEF\xBB\xBF"+minimalDoc)

	doc, err := LoadDocumentFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Roots) != 1 || doc.Roots[0].Label != "Root" {
		t.Errorf("unexpected document: %+v", doc)
	}
}

// TestLoadDocumentEmptyFile verifies an empty file warns and yields an empty
// document
func TestLoadDocumentEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tree.json", "  \n")

	var warned bool
	doc, err := LoadDocumentFromFileWithOptions(path, LoadOptions{
		WarningHandler: func(string) { warned = true },
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Roots) != 0 {
		t.Errorf("expected empty document, got %+v", doc)
	}
	if !warned {
		t.Error("expected a warning for the empty file")
	}
}

// TestLoadDocumentMissing verifies a useful error for absent files
func TestLoadDocumentMissing(t *testing.T) {
	_, err := LoadDocumentFromFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil || !strings.Contains(err.Error(), "no tree document") {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestLoadDocumentSizeLimit verifies oversized documents are rejected
func TestLoadDocumentSizeLimit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tree.json", minimalDoc)

	_, err := LoadDocumentFromFileWithOptions(path, LoadOptions{MaxSize: 4})
	if err == nil || !strings.Contains(err.Error(), "size limit") {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestLoadDocumentMalformed verifies parse errors carry the path
func TestLoadDocumentMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tree.json", `{"roots": [`)

	_, err := LoadDocumentFromFile(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestSaveDocumentRoundTrip verifies atomic save and reload
func TestSaveDocumentRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.json")

	doc := &model.Document{Roots: []*model.Node{
		{Label: "Scene", Type: "folder", Toggles: map[string]any{"visible": true, "locked": nil}},
	}}
	if err := SaveDocument(doc, path); err != nil {
		t.Fatal(err)
	}

	again, err := LoadDocumentFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Roots[0].Equal(doc.Roots[0]) {
		t.Error("document changed across save and reload")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("unexpected directory contents: %v", entries)
	}
}

// TestLoadDocumentDirConvention verifies the end-to-end directory lookup
func TestLoadDocumentDirConvention(t *testing.T) {
	base := t.TempDir()
	gstDir := filepath.Join(base, ".gst")
	if err := os.MkdirAll(gstDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, gstDir, "tree.json", minimalDoc)
	t.Setenv(TreeDirEnvVar, "")

	doc, err := LoadDocument(base)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Roots) != 1 {
		t.Errorf("unexpected document: %+v", doc)
	}
}
