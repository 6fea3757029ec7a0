package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lampmaker/guistuff/pkg/analysis"
	"github.com/lampmaker/guistuff/pkg/config"
	"github.com/lampmaker/guistuff/pkg/debug"
	"github.com/lampmaker/guistuff/pkg/export"
	"github.com/lampmaker/guistuff/pkg/loader"
	"github.com/lampmaker/guistuff/pkg/model"
	"github.com/lampmaker/guistuff/pkg/ui"
	"github.com/lampmaker/guistuff/pkg/version"
	"github.com/lampmaker/guistuff/pkg/watcher"

	json "github.com/goccy/go-json"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	docFlag := flag.String("doc", "", "Document path (overrides config and discovery)")
	schemaFlag := flag.String("schema", "", "Schema path (overrides config and discovery)")
	exportSQLite := flag.String("export-sqlite", "", "Export the tree to a SQLite file and exit")
	snapshotFlag := flag.String("snapshot", "", "Render the tree to an SVG or PNG file and exit")
	exportWizard := flag.Bool("export", false, "Run the interactive export wizard and exit")
	statsFlag := flag.Bool("stats", false, "Print tree statistics as JSON and exit")
	multiSelect := flag.Bool("multi-select", false, "Accumulating selection mode")
	noWatch := flag.Bool("no-watch", false, "Disable live reload on document changes")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: gst [options]")
		fmt.Println("\nA TUI browser for path-addressed node trees.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("gst %s\n", version.Version)
		os.Exit(0)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults.
		cfg = config.DefaultConfig()
	}

	docPath, err := resolveDocumentPath(*docFlag, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating document: %v\n", err)
		fmt.Fprintln(os.Stderr, "Create a tree.json in ./.gst/ or point --doc at one.")
		os.Exit(1)
	}

	doc, err := loader.LoadDocumentFromFile(docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading document: %v\n", err)
		os.Exit(1)
	}

	schema, err := config.LoadSchema(resolveSchemaPath(*schemaFlag, cfg, docPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading schema: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *exportSQLite != "":
		exp := export.NewSQLiteExporter(doc.Roots, schema)
		exp.Title = filepath.Base(docPath)
		if err := exp.Export(*exportSQLite); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d nodes to %s\n", doc.NodeCount(), *exportSQLite)
		os.Exit(0)

	case *snapshotFlag != "":
		err := export.SaveSnapshot(export.SnapshotOptions{
			Path:   *snapshotFlag,
			Title:  filepath.Base(docPath),
			Roots:  doc.Roots,
			Schema: schema,
			All:    true,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Snapshot failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Snapshot written to %s\n", *snapshotFlag)
		os.Exit(0)

	case *exportWizard:
		result, err := export.NewWizard(doc.Roots, schema).Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		for _, p := range []string{result.SQLitePath, result.SVGPath, result.PNGPath, result.StatsPath} {
			if p != "" {
				fmt.Println(p)
			}
		}
		os.Exit(0)

	case *statsFlag:
		stats := analysis.Compute(doc.Roots)
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding stats: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		os.Exit(0)
	}

	app := ui.NewApp(doc.Roots, schema, *multiSelect || cfg.UI.MultiSelect,
		ui.WithDocumentPath(docPath),
		ui.WithPersistState(cfg.UI.PersistState),
		ui.WithReload(func() ([]*model.Node, error) {
			reloaded, err := loader.LoadDocumentFromFile(docPath)
			if err != nil {
				return nil, err
			}
			return reloaded.Roots, nil
		}),
		ui.WithSave(func(roots []*model.Node) error {
			return loader.SaveDocument(&model.Document{Roots: roots}, docPath)
		}),
	)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	if !*noWatch {
		w, err := watcher.New(docPath,
			watcher.WithOnChange(func() {
				p.Send(ui.FileChangedMsg{})
			}),
			watcher.WithOnError(func(err error) {
				debug.Log("watch error: %v", err)
			}),
		)
		if err != nil {
			debug.Log("watcher setup failed: %v", err)
		} else if err := w.Start(); err != nil {
			debug.Log("watcher start failed: %v", err)
		} else {
			defer w.Stop()
		}
	}

	if err := runTUIProgram(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error running tree browser: %v\n", err)
		os.Exit(1)
	}
}

// resolveDocumentPath picks the document: explicit flag, then the configured
// default, then directory discovery under ./.gst (or GST_DIR).
func resolveDocumentPath(flagValue string, cfg config.Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.Document != "" {
		return cfg.Document, nil
	}
	dir, err := loader.GetTreeDir("")
	if err != nil {
		return "", err
	}
	return loader.FindDocumentPathWithWarnings(dir, func(msg string) {
		fmt.Fprintln(os.Stderr, msg)
	})
}

// resolveSchemaPath picks the schema: explicit flag, then the configured
// default, then schema.yaml next to the document. An empty result means the
// built-in schema.
func resolveSchemaPath(flagValue string, cfg config.Config, docPath string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.Schema != "" {
		return cfg.Schema
	}
	return loader.FindSchemaPath(filepath.Dir(docPath))
}

func runTUIProgram(p *tea.Program) error {
	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set GST_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("GST_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
