package testutil

import (
	"fmt"
	"math/rand"

	"github.com/lampmaker/guistuff/pkg/model"
)

// GeneratorConfig controls tree fixture generation.
type GeneratorConfig struct {
	Seed        int64    // Random seed for determinism
	LabelPrefix string   // Prefix for node labels (default "node")
	Types       []string // Type distribution (nil = all "folder")
	MaxChildren int      // Maximum children per node (default 4)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42,
		LabelPrefix: "node",
		Types:       []string{"folder"},
		MaxChildren: 4,
	}
}

// Generator creates deterministic tree fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
	seq int
}

// NewGenerator creates a generator from the given config.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.LabelPrefix == "" {
		cfg.LabelPrefix = "node"
	}
	if len(cfg.Types) == 0 {
		cfg.Types = []string{"folder"}
	}
	if cfg.MaxChildren <= 0 {
		cfg.MaxChildren = 4
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Chain generates a single path of the given length: each node has exactly
// one child.
func (g *Generator) Chain(length int) []*model.Node {
	if length <= 0 {
		return nil
	}
	root := g.newNode()
	current := root
	for i := 1; i < length; i++ {
		child := g.newNode()
		current.Children = []*model.Node{child}
		current.SetExpanded(true)
		current = child
	}
	return []*model.Node{root}
}

// Balanced generates a tree where every non-leaf node has the same number of
// children, down to the given depth.
func (g *Generator) Balanced(depth, fanout int) []*model.Node {
	return []*model.Node{g.balanced(depth, fanout)}
}

func (g *Generator) balanced(depth, fanout int) *model.Node {
	n := g.newNode()
	if depth <= 0 {
		return n
	}
	n.SetExpanded(true)
	for i := 0; i < fanout; i++ {
		n.Children = append(n.Children, g.balanced(depth-1, fanout))
	}
	return n
}

// Random generates a forest of the given node count with random shape,
// deterministic for a fixed seed.
func (g *Generator) Random(count int) []*model.Node {
	if count <= 0 {
		return nil
	}
	var roots []*model.Node
	var all []*model.Node
	for i := 0; i < count; i++ {
		n := g.newNode()
		if len(all) == 0 || g.rng.Intn(4) == 0 {
			roots = append(roots, n)
		} else {
			parent := all[g.rng.Intn(len(all))]
			for len(parent.Children) >= g.cfg.MaxChildren {
				parent = all[g.rng.Intn(len(all))]
			}
			parent.Children = append(parent.Children, n)
			parent.SetExpanded(true)
		}
		all = append(all, n)
	}
	return roots
}

func (g *Generator) newNode() *model.Node {
	g.seq++
	return &model.Node{
		Label: fmt.Sprintf("%s-%d", g.cfg.LabelPrefix, g.seq),
		Type:  g.cfg.Types[g.rng.Intn(len(g.cfg.Types))],
	}
}
