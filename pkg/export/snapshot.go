package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/lampmaker/guistuff/pkg/metrics"
	"github.com/lampmaker/guistuff/pkg/model"
	"github.com/lampmaker/guistuff/pkg/tree"
)

// SnapshotOptions controls tree snapshot rendering.
type SnapshotOptions struct {
	Path   string         // Output path; format inferred from extension when Format empty
	Format string         // "svg" or "png" (case-insensitive)
	Title  string         // Optional title for the summary block
	Roots  []*model.Node  // Forest to render
	Schema *model.Schema  // Finalized schema for toggle resolution
	All    bool           // Render every node instead of only expanded rows
}

// SaveSnapshot renders the tree as a static image: one row per node in
// display order, indented by depth, with the resolved toggle state next to
// each label.
func SaveSnapshot(opts SnapshotOptions) error {
	defer metrics.Timer(metrics.GraphRender)()

	if opts.Schema == nil {
		return fmt.Errorf("schema is required for snapshot export")
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		case ".svg":
			format = "svg"
		default:
			format = "svg"
			if filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildSnapshotLayout(opts)

	switch format {
	case "png":
		return renderPNG(opts.Path, layout)
	default:
		return renderSVGFile(opts.Path, layout)
	}
}

type snapshotRow struct {
	Path    string
	Label   string
	Type    string
	Depth   int
	Toggles string // compact resolved-toggle summary
	X, Y    float64
}

type snapshotLayout struct {
	Rows   []snapshotRow
	Width  int
	Height int
	Title  string
	Count  int
}

const (
	snapPadding   = 24.0
	snapHeader    = 56.0
	snapRowH      = 26.0
	snapRowW      = 300.0
	snapIndent    = 22.0
	snapToggleGap = 16.0
)

func buildSnapshotLayout(opts SnapshotOptions) snapshotLayout {
	resolver := tree.NewToggleResolver(opts.Schema)

	var rows []snapshotRow
	maxDepth := 0

	var walk func(nodes []*model.Node, depth int)
	walk = func(nodes []*model.Node, depth int) {
		for _, n := range nodes {
			if depth > maxDepth {
				maxDepth = depth
			}
			rows = append(rows, snapshotRow{
				Label:   truncate(n.Label, 36),
				Type:    n.EffectiveType(),
				Depth:   depth,
				Toggles: toggleSummary(resolver, opts.Schema, n),
			})
			if opts.All || n.IsExpanded() {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(opts.Roots, 0)

	for i := range rows {
		rows[i].X = snapPadding + float64(rows[i].Depth)*snapIndent
		rows[i].Y = snapPadding + snapHeader + float64(i)*snapRowH
	}

	width := int(snapPadding*2 + float64(maxDepth)*snapIndent + snapRowW + 160)
	if width < 480 {
		width = 480
	}
	height := int(snapPadding*2 + snapHeader + float64(len(rows))*snapRowH)
	if height < 200 {
		height = 200
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Tree Snapshot"
	}

	return snapshotLayout{
		Rows:   rows,
		Width:  width,
		Height: height,
		Title:  title,
		Count:  len(rows),
	}
}

// toggleSummary renders the resolved toggles of a node as compact text, e.g.
// "visible=true blend=normal +addChild".
func toggleSummary(r tree.ToggleResolver, s *model.Schema, n *model.Node) string {
	var parts []string
	for _, name := range s.ToggleNames() {
		if !r.IsVisible(n, name) {
			continue
		}
		if s.Kind(name) == model.KindAction {
			parts = append(parts, "+"+name)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", name, r.EffectiveValue(n, name)))
	}
	return strings.Join(parts, " ")
}

var (
	snapBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	snapHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	snapStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	snapText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	snapSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}

	typeColors = map[string]color.RGBA{
		"folder": {0xff, 0xf3, 0xe0, 0xff},
		"file":   {0xc8, 0xe6, 0xc9, 0xff},
		"layer":  {0xbb, 0xde, 0xfb, 0xff},
	}
	typeColorOther = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
)

func typeColor(t string) color.RGBA {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return typeColorOther
}

func renderPNG(path string, layout snapshotLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(snapBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(snapHeaderBG)
	dc.DrawRoundedRectangle(12, 12, float64(layout.Width)-24, snapHeader-12, 8)
	dc.Fill()
	dc.SetColor(snapText)
	dc.DrawStringAnchored(layout.Title, snapPadding, 32, 0, 0.5)
	dc.SetColor(snapSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("nodes: %d", layout.Count), snapPadding, 48, 0, 0.5)

	for _, row := range layout.Rows {
		dc.SetColor(typeColor(row.Type))
		dc.DrawRoundedRectangle(row.X, row.Y, snapRowW, snapRowH-6, 5)
		dc.Fill()
		dc.SetColor(snapStroke)
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(row.X, row.Y, snapRowW, snapRowH-6, 5)
		dc.Stroke()

		dc.SetColor(snapText)
		dc.DrawStringAnchored(row.Label, row.X+8, row.Y+(snapRowH-6)/2, 0, 0.5)
		dc.SetColor(snapSubtle)
		dc.DrawStringAnchored(row.Toggles, row.X+snapRowW+snapToggleGap, row.Y+(snapRowH-6)/2, 0, 0.5)
	}

	return dc.SavePNG(path)
}

func renderSVGFile(path string, layout snapshotLayout) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return renderSVG(file, layout)
}

func renderSVG(w io.Writer, layout snapshotLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, "fill:"+css(snapBackdrop))
	canvas.Roundrect(12, 12, layout.Width-24, int(snapHeader)-12, 8, 8, "fill:"+css(snapHeaderBG))
	canvas.Text(int(snapPadding), 34, layout.Title,
		fmt.Sprintf("fill:%s;font-size:15px;font-family:monospace;font-weight:bold", css(snapText)))
	canvas.Text(int(snapPadding), 50, fmt.Sprintf("nodes: %d", layout.Count),
		fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(snapSubtle)))

	for _, row := range layout.Rows {
		x, y := int(row.X), int(row.Y)
		canvas.Roundrect(x, y, int(snapRowW), int(snapRowH)-6, 5, 5,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(typeColor(row.Type)), css(snapStroke)))
		canvas.Text(x+8, y+14, row.Label,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(snapText)))
		canvas.Text(x+int(snapRowW)+int(snapToggleGap), y+14, row.Toggles,
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(snapSubtle)))
	}

	canvas.End()
	return nil
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
