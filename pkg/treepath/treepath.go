// Package treepath converts between a node forest and flat dotted-index path
// strings.
//
// A path like "0.2.1" addresses the root sequence's 1st entry, its 3rd child,
// then its 2nd child. Paths are coordinates, not identifiers: any structural
// mutation upstream of a node shifts the paths of everything after it, so a
// path is only valid against the tree shape that produced it. Nothing in this
// package caches.
package treepath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lampmaker/guistuff/pkg/model"
)

// Parse splits a dotted path into child indexes. An empty path yields no
// segments. Non-numeric or negative segments are a malformed calling
// convention, not user input, and panic.
func Parse(path string) []int {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	segs := make([]int, len(parts))
	for i, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			panic(fmt.Sprintf("treepath: malformed path %q: segment %q", path, part))
		}
		segs[i] = idx
	}
	return segs
}

// Format joins child indexes back into a dotted path.
func Format(segs []int) string {
	if len(segs) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, seg := range segs {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(seg))
	}
	return sb.String()
}

// Join appends a child index to a parent path.
func Join(parent string, idx int) string {
	if parent == "" {
		return strconv.Itoa(idx)
	}
	return parent + "." + strconv.Itoa(idx)
}

// Split returns the parent path and final child index. ok is false for the
// empty path.
func Split(path string) (parent string, idx int, ok bool) {
	segs := Parse(path)
	if len(segs) == 0 {
		return "", 0, false
	}
	return Format(segs[:len(segs)-1]), segs[len(segs)-1], true
}

// IsDescendantOrSelf reports whether target addresses the same node as
// source, or one inside source's subtree. This is purely lexical; it is what
// makes a reparent into one's own subtree detectable before resolving
// anything.
func IsDescendantOrSelf(source, target string) bool {
	return target == source || strings.HasPrefix(target, source+".")
}

// Resolve walks the path from roots, descending into Children at every
// non-final segment. It never panics for paths that merely don't fit the
// current tree shape: out-of-bounds indexes and descents through leaves
// report found=false.
func Resolve(roots []*model.Node, path string) (*model.Node, bool) {
	segs := Parse(path)
	if len(segs) == 0 {
		return nil, false
	}
	level := roots
	var node *model.Node
	for _, idx := range segs {
		if idx >= len(level) {
			return nil, false
		}
		node = level[idx]
		level = node.Children
	}
	return node, true
}

// Walk visits every node in pre-order, pairing it with its path. The
// traversal is recomputed from the current shape on every call. Returning
// false from visit stops the walk.
func Walk(roots []*model.Node, visit func(n *model.Node, path string) bool) {
	walkLevel(roots, "", visit)
}

func walkLevel(nodes []*model.Node, prefix string, visit func(n *model.Node, path string) bool) bool {
	for i, n := range nodes {
		path := Join(prefix, i)
		if !visit(n, path) {
			return false
		}
		if !walkLevel(n.Children, path, visit) {
			return false
		}
	}
	return true
}

// RemoveAt splices the addressed node out of its parent's Children, or out of
// the root sequence for single-segment paths. Removal destroys the subtree:
// ownership is exclusive, so dropping the reference is sufficient. The
// (possibly new) root slice is returned; removed is false when the path does
// not resolve, in which case roots come back unchanged.
func RemoveAt(roots []*model.Node, path string) ([]*model.Node, bool) {
	segs := Parse(path)
	if len(segs) == 0 {
		return roots, false
	}

	if len(segs) == 1 {
		idx := segs[0]
		if idx >= len(roots) {
			return roots, false
		}
		return append(roots[:idx:idx], roots[idx+1:]...), true
	}

	parent, ok := Resolve(roots, Format(segs[:len(segs)-1]))
	if !ok {
		return roots, false
	}
	idx := segs[len(segs)-1]
	if idx >= len(parent.Children) {
		return roots, false
	}
	parent.Children = append(parent.Children[:idx:idx], parent.Children[idx+1:]...)
	return roots, true
}
