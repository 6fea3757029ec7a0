package export

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/lampmaker/guistuff/pkg/analysis"
	"github.com/lampmaker/guistuff/pkg/model"
)

// BundleOptions selects the artifacts written by a bundle export.
type BundleOptions struct {
	OutputDir string
	Title     string

	SQLite bool // tree.sqlite3
	SVG    bool // tree.svg
	PNG    bool // tree.png
	Stats  bool // stats.json
}

// DefaultBundleOptions enables the database and SVG artifacts.
func DefaultBundleOptions(outputDir string) BundleOptions {
	return BundleOptions{
		OutputDir: outputDir,
		SQLite:    true,
		SVG:       true,
		Stats:     true,
	}
}

// BundleResult lists the artifact paths that were written.
type BundleResult struct {
	SQLitePath string
	SVGPath    string
	PNGPath    string
	StatsPath  string
}

// WriteBundle writes the selected artifacts. The artifacts are independent of
// each other, so they are written concurrently; the first failure cancels the
// rest and is returned.
func WriteBundle(roots []*model.Node, schema *model.Schema, opts BundleOptions) (BundleResult, error) {
	var res BundleResult
	if opts.OutputDir == "" {
		return res, fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}

	var g errgroup.Group

	if opts.SQLite {
		res.SQLitePath = filepath.Join(opts.OutputDir, "tree.sqlite3")
		g.Go(func() error {
			exp := NewSQLiteExporter(roots, schema)
			exp.Title = opts.Title
			return exp.Export(res.SQLitePath)
		})
	}

	if opts.SVG {
		res.SVGPath = filepath.Join(opts.OutputDir, "tree.svg")
		g.Go(func() error {
			return SaveSnapshot(SnapshotOptions{
				Path:   res.SVGPath,
				Format: "svg",
				Title:  opts.Title,
				Roots:  roots,
				Schema: schema,
				All:    true,
			})
		})
	}

	if opts.PNG {
		res.PNGPath = filepath.Join(opts.OutputDir, "tree.png")
		g.Go(func() error {
			return SaveSnapshot(SnapshotOptions{
				Path:   res.PNGPath,
				Format: "png",
				Title:  opts.Title,
				Roots:  roots,
				Schema: schema,
				All:    true,
			})
		})
	}

	if opts.Stats {
		res.StatsPath = filepath.Join(opts.OutputDir, "stats.json")
		g.Go(func() error {
			data, err := json.MarshalIndent(analysis.Compute(roots), "", "  ")
			if err != nil {
				return fmt.Errorf("encode stats: %w", err)
			}
			return os.WriteFile(res.StatsPath, append(data, '\n'), 0o644)
		})
	}

	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}
