// Package loader locates and reads tree documents from a .gst directory.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lampmaker/guistuff/pkg/metrics"
	"github.com/lampmaker/guistuff/pkg/model"
)

// TreeDirEnvVar overrides the tree directory lookup when set.
const TreeDirEnvVar = "GST_DIR"

// PreferredDocumentNames defines the priority order for document files inside
// a tree directory.
var PreferredDocumentNames = []string{"tree.json", "document.json"}

// SchemaFileName is the conventional schema file next to the document.
const SchemaFileName = "schema.yaml"

// GetTreeDir returns the tree directory path, respecting the GST_DIR
// environment variable. Otherwise it falls back to .gst under the given base
// path (or the working directory when empty).
func GetTreeDir(basePath string) (string, error) {
	if envDir := os.Getenv(TreeDirEnvVar); envDir != "" {
		return envDir, nil
	}

	if basePath == "" {
		var err error
		basePath, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %w", err)
		}
	}

	return filepath.Join(basePath, ".gst"), nil
}

// FindDocumentPath locates the tree document in the given directory.
// Prefers tree.json over document.json; skips backup and editor artifacts.
func FindDocumentPath(dir string) (string, error) {
	return FindDocumentPathWithWarnings(dir, nil)
}

// FindDocumentPathWithWarnings is like FindDocumentPath but reports skipped
// backup artifacts through the provided callback.
func FindDocumentPathWithWarnings(dir string, warnFunc func(msg string)) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read tree directory: %w", err)
	}

	var candidates []string
	var artifacts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()

		if !strings.HasSuffix(name, ".json") {
			continue
		}
		// View state lives next to the document but is not a document.
		if name == "tree-state.json" {
			continue
		}
		if strings.Contains(name, ".backup") ||
			strings.Contains(name, ".orig") ||
			strings.Contains(name, ".merge") {
			artifacts = append(artifacts, name)
			continue
		}

		candidates = append(candidates, name)
	}

	if len(artifacts) > 0 && warnFunc != nil {
		warnFunc(fmt.Sprintf("Backup artifact files detected: %s. Consider removing them.",
			strings.Join(artifacts, ", ")))
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("no tree document found in %s", dir)
	}

	for _, preferred := range PreferredDocumentNames {
		for _, name := range candidates {
			if name == preferred {
				path := filepath.Join(dir, name)
				if info, err := os.Stat(path); err == nil && info.Size() > 0 {
					return path, nil
				}
			}
		}
	}

	// Fall back to the first non-empty candidate.
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return path, nil
		}
	}

	return filepath.Join(dir, candidates[0]), nil
}

// FindSchemaPath returns the conventional schema path in a tree directory, or
// "" when no schema file exists there.
func FindSchemaPath(dir string) string {
	path := filepath.Join(dir, SchemaFileName)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// LoadOptions configures document loading.
type LoadOptions struct {
	// WarningHandler receives non-fatal messages (artifact files, oversized
	// documents). If nil, warnings go to stderr.
	WarningHandler func(string)

	// MaxSize rejects documents larger than this many bytes. Zero uses
	// DefaultMaxSize.
	MaxSize int64
}

// DefaultMaxSize is the default document size limit (50MB).
const DefaultMaxSize = 50 * 1024 * 1024

// LoadDocument reads the tree document from the conventional directory under
// basePath (respecting GST_DIR).
func LoadDocument(basePath string) (*model.Document, error) {
	dir, err := GetTreeDir(basePath)
	if err != nil {
		return nil, err
	}
	path, err := FindDocumentPath(dir)
	if err != nil {
		return nil, err
	}
	return LoadDocumentFromFile(path)
}

// LoadDocumentFromFile reads a tree document from a specific path.
func LoadDocumentFromFile(path string) (*model.Document, error) {
	return LoadDocumentFromFileWithOptions(path, LoadOptions{})
}

// LoadDocumentFromFileWithOptions reads a tree document with custom options.
func LoadDocumentFromFileWithOptions(path string, opts LoadOptions) (*model.Document, error) {
	warn := opts.WarningHandler
	if warn == nil {
		warn = func(msg string) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
		}
	}

	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("no tree document found at %s", path)
	}
	if err == nil && info.Size() > maxSize {
		return nil, fmt.Errorf("document %s exceeds size limit (%d > %d bytes)", path, info.Size(), maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	data = stripBOM(data)
	if len(bytes.TrimSpace(data)) == 0 {
		warn(fmt.Sprintf("document %s is empty, starting with no roots", path))
		return &model.Document{}, nil
	}

	defer metrics.Timer(metrics.DocumentParse)()
	doc, err := model.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", path, err)
	}
	return doc, nil
}

// SaveDocument writes the document back atomically: encode to a temp file in
// the same directory, then rename over the original.
func SaveDocument(doc *model.Document, path string) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tree-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}

// stripBOM removes the UTF-8 byte order mark if present.
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
