package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/lampmaker/guistuff/pkg/model"
)

// Wizard drives the interactive export flow behind the --export flag.
type Wizard struct {
	roots  []*model.Node
	schema *model.Schema
	opts   BundleOptions
}

// NewWizard creates an export wizard for a loaded document.
func NewWizard(roots []*model.Node, schema *model.Schema) *Wizard {
	return &Wizard{
		roots:  roots,
		schema: schema,
		opts:   DefaultBundleOptions("export"),
	}
}

// isTerminal reports whether stdin is connected to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm applies the shared theme and falls back to accessible mode when
// stdin is not a TTY (scripted runs, CI).
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run prompts for artifact selection and output location, then writes the
// bundle.
func (w *Wizard) Run() (BundleResult, error) {
	artifacts := []string{"sqlite", "svg", "stats"}
	outputDir := w.opts.OutputDir
	title := w.opts.Title

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output directory").
				Description("Artifacts are written here; existing files are replaced").
				Value(&outputDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("output directory is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Title").
				Description("Shown in snapshot headers and export metadata (optional)").
				Value(&title),
			huh.NewMultiSelect[string]().
				Title("Artifacts").
				Options(
					huh.NewOption("SQLite database (tree.sqlite3)", "sqlite"),
					huh.NewOption("SVG snapshot (tree.svg)", "svg"),
					huh.NewOption("PNG snapshot (tree.png)", "png"),
					huh.NewOption("Structure statistics (stats.json)", "stats"),
				).
				Value(&artifacts).
				Validate(func(selected []string) error {
					if len(selected) == 0 {
						return fmt.Errorf("select at least one artifact")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return BundleResult{}, fmt.Errorf("export wizard: %w", err)
	}

	w.opts = BundleOptions{
		OutputDir: strings.TrimSpace(outputDir),
		Title:     strings.TrimSpace(title),
	}
	for _, a := range artifacts {
		switch a {
		case "sqlite":
			w.opts.SQLite = true
		case "svg":
			w.opts.SVG = true
		case "png":
			w.opts.PNG = true
		case "stats":
			w.opts.Stats = true
		}
	}

	return WriteBundle(w.roots, w.schema, w.opts)
}
