// Package analysis computes structural statistics over a tree document:
// depth and branching distributions, type frequencies, and toggle usage.
// The browser surfaces these in its stats overlay and exports embed them as
// metadata.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/lampmaker/guistuff/pkg/model"
	"github.com/lampmaker/guistuff/pkg/treepath"
)

// Distribution summarizes a sample of per-node measurements.
type Distribution struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
}

// ToggleUsage reports how one toggle is used across the document.
type ToggleUsage struct {
	Name     string `json:"name"`
	Explicit int    `json:"explicit"` // nodes carrying a concrete entry
	Hidden   int    `json:"hidden"`   // nodes carrying the hide sentinel
}

// Stats is the structural profile of a document.
type Stats struct {
	NodeCount  int `json:"node_count"`
	RootCount  int `json:"root_count"`
	LeafCount  int `json:"leaf_count"`
	MaxDepth   int `json:"max_depth"`
	TypedCount int `json:"typed_count"` // nodes with an explicit type field

	Depth     Distribution `json:"depth"`
	Branching Distribution `json:"branching"` // children per non-leaf node

	TypeCounts  map[string]int `json:"type_counts"`
	ToggleUsage []ToggleUsage  `json:"toggle_usage"`
}

// Compute walks the forest once and derives the full profile. An empty forest
// yields zero-valued distributions.
func Compute(roots []*model.Node) Stats {
	s := Stats{
		RootCount:  len(roots),
		TypeCounts: make(map[string]int),
	}

	var depths, branchings []float64
	toggles := make(map[string]*ToggleUsage)

	treepath.Walk(roots, func(n *model.Node, path string) bool {
		s.NodeCount++
		s.TypeCounts[n.EffectiveType()]++
		if n.Type != "" {
			s.TypedCount++
		}

		depth := len(treepath.Parse(path)) - 1
		depths = append(depths, float64(depth))
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}

		if n.IsLeaf() {
			s.LeafCount++
		} else {
			branchings = append(branchings, float64(len(n.Children)))
		}

		for name, v := range n.Toggles {
			u := toggles[name]
			if u == nil {
				u = &ToggleUsage{Name: name}
				toggles[name] = u
			}
			if v == nil {
				u.Hidden++
			} else {
				u.Explicit++
			}
		}
		return true
	})

	s.Depth = summarize(depths)
	s.Branching = summarize(branchings)

	for _, u := range toggles {
		s.ToggleUsage = append(s.ToggleUsage, *u)
	}
	sort.Slice(s.ToggleUsage, func(i, j int) bool {
		return s.ToggleUsage[i].Name < s.ToggleUsage[j].Name
	})

	return s
}

// summarize reduces a sample to its distribution. Quantile requires a sorted
// sample; the slices here are scratch space, so sorting in place is fine.
func summarize(sample []float64) Distribution {
	if len(sample) == 0 {
		return Distribution{}
	}
	sort.Float64s(sample)
	d := Distribution{
		Min:    sample[0],
		Max:    sample[len(sample)-1],
		Mean:   stat.Mean(sample, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sample, nil),
	}
	if len(sample) > 1 {
		d.StdDev = stat.StdDev(sample, nil)
	}
	return d
}
