// Package tree implements the path-addressed tree editing core: toggle
// resolution, drag-and-drop validation, and the mutating model that drives a
// renderer through callbacks.
package tree

import (
	"errors"

	"github.com/lampmaker/guistuff/pkg/model"
)

// ErrActionToggle is returned when a caller attempts to value-cycle an action
// toggle. Action toggles carry no persisted value; callers must special-case
// them and fire a side-effect callback instead.
var ErrActionToggle = errors.New("tree: action toggles have no value to cycle")

// ToggleResolver computes the effective value and visibility of toggles for a
// node, honoring per-node overrides and the explicit-hide sentinel. It is
// stateless apart from the schema tables it reads.
type ToggleResolver struct {
	schema *model.Schema
}

// NewToggleResolver returns a resolver over a finalized schema.
func NewToggleResolver(schema *model.Schema) ToggleResolver {
	return ToggleResolver{schema: schema}
}

// IsVisible resolves whether a toggle shows up on a node:
//
//  1. an explicit-hide sentinel on the node wins over everything;
//  2. any other entry on the node is an explicit opt-in;
//  3. a key in the type's default toggles applies: for action toggles only
//     when the default is strictly true, for value toggles regardless of the
//     default's truthiness;
//  4. otherwise the toggle is not visible.
//
// Step 3 treats the kinds differently: a false action default means the
// action is configured but switched off, while a value default always marks
// the column as shown.
func (r ToggleResolver) IsVisible(n *model.Node, name string) bool {
	kind := r.schema.Kind(name) // panics on unknown toggle: config error

	_, hidden, present := n.ToggleEntry(name)
	if hidden {
		return false
	}
	if present {
		return true
	}

	defaults := r.schema.TypeOf(n).DefaultToggles
	dv, ok := defaults[name]
	if !ok {
		return false
	}
	if kind == model.KindAction {
		b, isBool := dv.(bool)
		return isBool && b
	}
	return true
}

// EffectiveValue resolves the value a visible value toggle carries: the
// node's own entry, else the type default, else the first legal value, else
// false. Only meaningful for value toggles; an action toggle resolves through
// the same chain but the result carries no semantics.
func (r ToggleResolver) EffectiveValue(n *model.Node, name string) any {
	r.schema.Kind(name)

	if v, hidden, present := n.ToggleEntry(name); present && !hidden {
		return v
	}
	if dv, ok := r.schema.TypeOf(n).DefaultToggles[name]; ok {
		return dv
	}
	if values := r.schema.Toggles[name].Values; len(values) > 0 {
		return values[0]
	}
	return false
}

// CycleValue advances a value toggle to the next entry of its values
// sequence, wrapping past the end. When the current effective value is not
// found in the sequence the cycle restarts at the first entry. Writing the
// new value materializes the node's Toggles map, which makes the toggle
// permanently explicit on this node.
//
// Cycling an action toggle is rejected with ErrActionToggle and mutates
// nothing.
func (r ToggleResolver) CycleValue(n *model.Node, name string) (oldValue, newValue any, err error) {
	if r.schema.Kind(name) == model.KindAction {
		return nil, nil, ErrActionToggle
	}

	values := r.schema.Toggles[name].Values
	oldValue = r.EffectiveValue(n, name)

	idx := -1
	for i, v := range values {
		if model.ValuesEqual(v, oldValue) {
			idx = i
			break
		}
	}
	newValue = values[(idx+1)%len(values)]
	n.SetToggle(name, newValue)
	return oldValue, newValue, nil
}
