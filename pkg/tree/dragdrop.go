package tree

import (
	"fmt"
	"strings"

	"github.com/lampmaker/guistuff/pkg/metrics"
	"github.com/lampmaker/guistuff/pkg/model"
	"github.com/lampmaker/guistuff/pkg/treepath"
)

// MoveResult reports whether a proposed reparent is legal. Reason is empty
// for valid moves and a user-presentable explanation otherwise.
type MoveResult struct {
	Valid  bool
	Reason string
}

func invalidMove(format string, args ...any) MoveResult {
	return MoveResult{Reason: fmt.Sprintf(format, args...)}
}

// ValidateMove decides whether moving the node at sourcePath under the node
// at targetPath is legal. Checks run in order and the first failure wins:
//
//  1. identical paths are a no-op;
//  2. a target inside the source's subtree would create a cycle;
//  3. both paths must resolve against the current shape;
//  4. the source's type must be in the target's allowed-children whitelist
//     (node override, else type default, else the empty set).
//
// The validator is advisory only: it never mutates the tree, so an aborted
// drag leaves the forest byte-for-byte identical.
func ValidateMove(roots []*model.Node, schema *model.Schema, sourcePath, targetPath string) MoveResult {
	defer metrics.Timer(metrics.MoveValidate)()

	if sourcePath == targetPath {
		return invalidMove("no-op")
	}
	if treepath.IsDescendantOrSelf(sourcePath, targetPath) {
		return invalidMove("cannot drop into self or descendant")
	}

	source, okSrc := treepath.Resolve(roots, sourcePath)
	target, okTgt := treepath.Resolve(roots, targetPath)
	if !okSrc || !okTgt {
		return invalidMove("source or target not found")
	}

	allowed := schema.AllowedChildrenOf(target)
	sourceType := source.EffectiveType()
	if len(allowed) == 0 || !containsType(allowed, sourceType) {
		return invalidMove("type %q cannot be attached to %q (allowed children: [%s])",
			sourceType, target.EffectiveType(), strings.Join(allowed, ", "))
	}

	return MoveResult{Valid: true}
}

// Reparent performs a validated move: the source subtree is deep-copied,
// the copy appended to the target's children (creating the slice if absent),
// the target expanded, and only then is the original removed. Copy before
// remove avoids the path invalidation hazard between the two steps when the
// source is an earlier sibling of something on the target's path.
//
// The (possibly new) root slice is returned together with the validation
// result; on an invalid move the forest is returned untouched.
func Reparent(roots []*model.Node, schema *model.Schema, sourcePath, targetPath string) ([]*model.Node, MoveResult) {
	res := ValidateMove(roots, schema, sourcePath, targetPath)
	if !res.Valid {
		return roots, res
	}

	source, _ := treepath.Resolve(roots, sourcePath)
	target, _ := treepath.Resolve(roots, targetPath)

	target.Children = append(target.Children, source.Clone())
	target.SetExpanded(true)

	roots, _ = treepath.RemoveAt(roots, sourcePath)
	return roots, res
}

func containsType(types []string, t string) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
