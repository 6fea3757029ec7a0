// Package model defines the tree document data model: nodes, the type and
// toggle schema tables, and their JSON forms.
//
// A document is an ordered forest of nodes. Nodes own their children
// exclusively; there are no shared subtrees. Everything here serializes to
// JSON verbatim, so a document can be edited in place and written back
// without a separate persistence model.
package model

import (
	"fmt"
	"math"
	"reflect"
)

// DefaultType is the type assigned to nodes whose "type" field is absent.
const DefaultType = "custom"

// Node is the tree's unit of structure.
//
// Expanded is tri-state: nil means "never set" and is treated as collapsed.
// Toggles maps toggle names to either a concrete value or nil; a nil entry is
// the explicit-hide sentinel (it round-trips as JSON null) and is distinct
// from both a concrete false and from the key being absent.
type Node struct {
	ID              string         `json:"id,omitempty"`
	Label           string         `json:"label"`
	Type            string         `json:"type,omitempty"`
	Children        []*Node        `json:"children,omitempty"`
	Expanded        *bool          `json:"expanded,omitempty"`
	Toggles         map[string]any `json:"toggles,omitempty"`
	AllowedChildren []string       `json:"allowedChildren,omitempty"`
}

// EffectiveType returns the node's type, falling back to DefaultType.
func (n *Node) EffectiveType() string {
	if n.Type == "" {
		return DefaultType
	}
	return n.Type
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// IsExpanded reports the node's expand state; unset counts as collapsed.
func (n *Node) IsExpanded() bool {
	return n.Expanded != nil && *n.Expanded
}

// SetExpanded materializes the expand flag.
func (n *Node) SetExpanded(expanded bool) {
	n.Expanded = &expanded
}

// ToggleEntry returns the node's own entry for a toggle name.
// ok is false when the key is absent. A present key with a nil value is the
// explicit-hide sentinel; callers must check hidden before using value.
func (n *Node) ToggleEntry(name string) (value any, hidden, ok bool) {
	if n.Toggles == nil {
		return nil, false, false
	}
	v, ok := n.Toggles[name]
	if !ok {
		return nil, false, false
	}
	return v, v == nil, true
}

// SetToggle materializes the Toggles map and sets the named entry.
func (n *Node) SetToggle(name string, value any) {
	if n.Toggles == nil {
		n.Toggles = make(map[string]any)
	}
	n.Toggles[name] = value
}

// HideToggle records the explicit-hide sentinel for a toggle name.
func (n *Node) HideToggle(name string) {
	n.SetToggle(name, nil)
}

// Clone returns a deep copy of the node and its entire subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		ID:    n.ID,
		Label: n.Label,
		Type:  n.Type,
	}
	if n.Expanded != nil {
		e := *n.Expanded
		c.Expanded = &e
	}
	if n.Toggles != nil {
		c.Toggles = make(map[string]any, len(n.Toggles))
		for k, v := range n.Toggles {
			c.Toggles[k] = v
		}
	}
	if n.AllowedChildren != nil {
		c.AllowedChildren = append([]string(nil), n.AllowedChildren...)
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}

// Equal reports deep structural equality of two subtrees.
// Toggle values are compared with numeric normalization so that a document
// round-tripped through JSON (where numbers become float64) still compares
// equal to its in-memory original.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.ID != o.ID || n.Label != o.Label || n.Type != o.Type {
		return false
	}
	if n.IsExpanded() != o.IsExpanded() {
		return false
	}
	if len(n.Toggles) != len(o.Toggles) {
		return false
	}
	for k, v := range n.Toggles {
		ov, ok := o.Toggles[k]
		if !ok {
			return false
		}
		if (v == nil) != (ov == nil) {
			return false
		}
		if v != nil && !ValuesEqual(v, ov) {
			return false
		}
	}
	if len(n.AllowedChildren) != len(o.AllowedChildren) {
		return false
	}
	for i, t := range n.AllowedChildren {
		if o.AllowedChildren[i] != t {
			return false
		}
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for i, child := range n.Children {
		if !child.Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Validate checks structural integrity of the subtree: no nil children.
// A nil entry in Children would otherwise surface as a confusing panic deep
// inside traversal code.
func (n *Node) Validate() error {
	for i, child := range n.Children {
		if child == nil {
			return fmt.Errorf("node %q: child %d is nil", n.Label, i)
		}
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of nodes in the subtree, including the receiver.
func (n *Node) Count() int {
	total := 1
	for _, child := range n.Children {
		total += child.Count()
	}
	return total
}

// ValuesEqual compares two toggle values. JSON decoding turns all numbers
// into float64 while schema files may carry int, so numeric values compare
// by magnitude. Everything else compares with DeepEqual.
func ValuesEqual(a, b any) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af == bf || (math.IsNaN(af) && math.IsNaN(bf))
	}
	if aok != bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}
