// Package export writes tree documents out as queryable and visual
// artifacts: a SQLite database with fully resolved toggle state, and static
// SVG/PNG snapshots of the tree.
package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/lampmaker/guistuff/pkg/analysis"
	"github.com/lampmaker/guistuff/pkg/metrics"
	"github.com/lampmaker/guistuff/pkg/model"
	"github.com/lampmaker/guistuff/pkg/tree"
	"github.com/lampmaker/guistuff/pkg/treepath"
)

// SQLiteExporter writes a document and its schema to a SQLite database. The
// database carries resolved toggle state per node, so consumers can query
// effective visibility without reimplementing the resolution rules.
type SQLiteExporter struct {
	Roots  []*model.Node
	Schema *model.Schema
	Title  string
}

// NewSQLiteExporter creates an exporter over a forest and its finalized
// schema.
func NewSQLiteExporter(roots []*model.Node, schema *model.Schema) *SQLiteExporter {
	return &SQLiteExporter{Roots: roots, Schema: schema}
}

const sqliteSchema = `
CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE nodes (
	path        TEXT PRIMARY KEY,
	parent_path TEXT,
	node_id     TEXT,
	label       TEXT NOT NULL,
	type        TEXT NOT NULL,
	depth       INTEGER NOT NULL,
	expanded    INTEGER NOT NULL,
	child_count INTEGER NOT NULL
);

CREATE TABLE node_toggles (
	path     TEXT NOT NULL,
	name     TEXT NOT NULL,
	kind     TEXT NOT NULL,
	visible  INTEGER NOT NULL,
	value    TEXT,
	explicit INTEGER NOT NULL,
	hidden   INTEGER NOT NULL,
	PRIMARY KEY (path, name)
);

CREATE TABLE schema_types (
	name             TEXT PRIMARY KEY,
	icon             TEXT,
	allowed_children TEXT NOT NULL,
	default_toggles  TEXT NOT NULL
);

CREATE TABLE schema_toggles (
	name       TEXT PRIMARY KEY,
	label      TEXT,
	kind       TEXT NOT NULL,
	value_list TEXT NOT NULL,
	ord        INTEGER NOT NULL
);

CREATE INDEX idx_nodes_parent ON nodes(parent_path);
CREATE INDEX idx_nodes_type ON nodes(type);
`

// Export writes the database to path, replacing any existing file.
func (e *SQLiteExporter) Export(path string) error {
	defer metrics.Timer(metrics.SQLiteExport)()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if err := e.insertNodes(db); err != nil {
		return fmt.Errorf("insert nodes: %w", err)
	}
	if err := e.insertToggles(db); err != nil {
		return fmt.Errorf("insert toggles: %w", err)
	}
	if err := e.insertSchemaTables(db); err != nil {
		return fmt.Errorf("insert schema: %w", err)
	}
	if err := e.insertMeta(db); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	return nil
}

func (e *SQLiteExporter) insertNodes(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO nodes (path, parent_path, node_id, label, type, depth, expanded, child_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var walkErr error
	treepath.Walk(e.Roots, func(n *model.Node, path string) bool {
		parent, _, _ := treepath.Split(path)
		depth := len(treepath.Parse(path)) - 1

		_, err := stmt.Exec(
			path,
			nullIfEmpty(parent),
			nullIfEmpty(n.ID),
			n.Label,
			n.EffectiveType(),
			depth,
			boolInt(n.IsExpanded()),
			len(n.Children),
		)
		if err != nil {
			walkErr = fmt.Errorf("insert node %s: %w", path, err)
			return false
		}
		return true
	})
	if walkErr != nil {
		return walkErr
	}

	return tx.Commit()
}

func (e *SQLiteExporter) insertToggles(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO node_toggles (path, name, kind, visible, value, explicit, hidden)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	resolver := tree.NewToggleResolver(e.Schema)

	var walkErr error
	treepath.Walk(e.Roots, func(n *model.Node, path string) bool {
		for _, name := range e.Schema.ToggleNames() {
			kind := e.Schema.Kind(name)
			visible := resolver.IsVisible(n, name)
			_, hidden, explicit := n.ToggleEntry(name)

			var value *string
			if visible && kind == model.KindValue {
				data, err := json.Marshal(resolver.EffectiveValue(n, name))
				if err != nil {
					walkErr = fmt.Errorf("encode toggle %s on %s: %w", name, path, err)
					return false
				}
				s := string(data)
				value = &s
			}

			_, err := stmt.Exec(
				path,
				name,
				kind.String(),
				boolInt(visible),
				value,
				boolInt(explicit && !hidden),
				boolInt(hidden),
			)
			if err != nil {
				walkErr = fmt.Errorf("insert toggle %s on %s: %w", name, path, err)
				return false
			}
		}
		return true
	})
	if walkErr != nil {
		return walkErr
	}

	return tx.Commit()
}

func (e *SQLiteExporter) insertSchemaTables(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	typeStmt, err := tx.Prepare(`
		INSERT INTO schema_types (name, icon, allowed_children, default_toggles)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer typeStmt.Close()

	for name, def := range e.Schema.Types {
		children, err := json.Marshal(orEmptySlice(def.AllowedChildren))
		if err != nil {
			return err
		}
		defaults, err := json.Marshal(orEmptyMap(def.DefaultToggles))
		if err != nil {
			return err
		}
		if _, err := typeStmt.Exec(name, nullIfEmpty(def.Icon), string(children), string(defaults)); err != nil {
			return fmt.Errorf("insert type %s: %w", name, err)
		}
	}

	toggleStmt, err := tx.Prepare(`
		INSERT INTO schema_toggles (name, label, kind, value_list, ord)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer toggleStmt.Close()

	for name, def := range e.Schema.Toggles {
		values, err := json.Marshal(orEmptySlice(def.Values))
		if err != nil {
			return err
		}
		if _, err := toggleStmt.Exec(name, nullIfEmpty(def.Label), e.Schema.Kind(name).String(), string(values), def.Order); err != nil {
			return fmt.Errorf("insert toggle %s: %w", name, err)
		}
	}

	return tx.Commit()
}

func (e *SQLiteExporter) insertMeta(db *sql.DB) error {
	stats := analysis.Compute(e.Roots)
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	entries := map[string]string{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"title":        e.Title,
		"node_count":   fmt.Sprintf("%d", stats.NodeCount),
		"root_count":   fmt.Sprintf("%d", stats.RootCount),
		"max_depth":    fmt.Sprintf("%d", stats.MaxDepth),
		"stats":        string(statsJSON),
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO meta (key, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range entries {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("insert meta %s: %w", key, err)
		}
	}

	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orEmptySlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func orEmptyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
