package tree

import (
	"fmt"
	"strings"

	"github.com/lampmaker/guistuff/pkg/debug"
	"github.com/lampmaker/guistuff/pkg/model"
	"github.com/lampmaker/guistuff/pkg/treepath"
)

// DefaultAddChildToggle is the action toggle name reported with the
// add_child kind unless overridden with WithAddChildToggle.
const DefaultAddChildToggle = "addChild"

// Option configures a Model.
type Option func(*Model)

// WithHooks installs the collaborator callbacks.
func WithHooks(h Hooks) Option {
	return func(m *Model) {
		m.hooks = h
	}
}

// WithMultiSelect switches the selection set between single (size ≤ 1) and
// accumulating modes.
func WithMultiSelect(multi bool) Option {
	return func(m *Model) {
		m.multiSelect = multi
	}
}

// WithAddChildToggle names the action toggle that is reported with kind
// add_child instead of plain action.
func WithAddChildToggle(name string) Option {
	return func(m *Model) {
		m.addChildToggle = name
	}
}

// Model owns the node forest and is the only thing that mutates it. Every
// structural or toggle mutation triggers exactly one render notification
// before the operation returns; gestures run to completion one at a time, so
// no locking is needed.
type Model struct {
	roots    []*model.Node
	schema   *model.Schema
	resolver ToggleResolver
	hooks    Hooks

	multiSelect    bool
	addChildToggle string

	selection []string
	renderSeq int
}

// New creates a model over the given forest and finalized schema. The model
// takes ownership of the roots slice.
func New(roots []*model.Node, schema *model.Schema, opts ...Option) *Model {
	m := &Model{
		roots:          roots,
		schema:         schema,
		resolver:       NewToggleResolver(schema),
		addChildToggle: DefaultAddChildToggle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Roots exposes the forest for read-only walking (rendering, export,
// persistence). Mutations must go through the model.
func (m *Model) Roots() []*model.Node {
	return m.roots
}

// Schema returns the configuration tables the model was built with.
func (m *Model) Schema() *model.Schema {
	return m.schema
}

// Resolver returns the model's toggle resolver.
func (m *Model) Resolver() ToggleResolver {
	return m.resolver
}

// RenderSeq returns the number of render notifications issued so far. Paths
// handed out by a snapshot are only valid while this number is unchanged.
func (m *Model) RenderSeq() int {
	return m.renderSeq
}

// SetRoots replaces the whole forest (live reload). Selection entries whose
// paths no longer resolve are dropped silently.
func (m *Model) SetRoots(roots []*model.Node) {
	m.roots = roots
	m.revalidateSelection()
	m.render()
}

// render issues the single post-mutation notification.
func (m *Model) render() {
	m.renderSeq++
	if m.hooks.OnRender != nil {
		m.hooks.OnRender(m.Snapshot())
	}
}

// SetExpanded flips a node's expand state. Already being in the requested
// state is a successful no-op and triggers no render.
func (m *Model) SetExpanded(path string, expanded bool) OpResult {
	n, ok := treepath.Resolve(m.roots, path)
	if !ok {
		return resultFail("node not found")
	}
	if n.IsExpanded() == expanded {
		return resultOK()
	}
	n.SetExpanded(expanded)
	m.render()
	if m.hooks.OnNodeExpand != nil {
		m.hooks.OnNodeExpand(path, expanded)
	}
	return resultOK()
}

// ToggleClick handles a click on a toggle cell. Action toggles fire the
// collaborator callback and mutate nothing; value toggles cycle to their
// next value and re-render. Referencing an unknown toggle name panics: that
// is a misconfigured embedder, not user input.
func (m *Model) ToggleClick(path, name string) OpResult {
	n, ok := treepath.Resolve(m.roots, path)
	if !ok {
		return resultFail("node not found")
	}

	if m.schema.Kind(name) == model.KindAction {
		kind := KindAction
		if name == m.addChildToggle {
			kind = KindAddChild
		}
		if m.hooks.OnToggleClick != nil {
			m.hooks.OnToggleClick(ToggleEvent{
				Path: path,
				Name: name,
				Node: n,
				Kind: kind,
			})
		}
		return resultOK()
	}

	oldValue, newValue, err := m.resolver.CycleValue(n, name)
	if err != nil {
		return resultFail(err.Error())
	}
	debug.Log("toggle %s on %s: %v -> %v", name, path, oldValue, newValue)
	m.render()
	if m.hooks.OnToggleClick != nil {
		m.hooks.OnToggleClick(ToggleEvent{
			Path:     path,
			Name:     name,
			OldValue: oldValue,
			NewValue: newValue,
			Node:     n,
			Kind:     KindToggle,
		})
	}
	return resultOK()
}

// AddChild synthesizes a child of the given type under the addressed node.
// The child type must be in the node's allowed-children set, the same policy
// ValidateMove applies to reparenting. A nil factory uses the schema's
// default node synthesis; a factory that returns nil fails the add.
func (m *Model) AddChild(path, childType string, factory func(childType string) *model.Node) OpResult {
	n, ok := treepath.Resolve(m.roots, path)
	if !ok {
		return resultFail("node not found")
	}

	allowed := m.schema.AllowedChildrenOf(n)
	if len(allowed) == 0 || !containsType(allowed, childType) {
		return resultFail(fmt.Sprintf("type %q cannot be attached to %q (allowed children: [%s])",
			childType, n.EffectiveType(), strings.Join(allowed, ", ")))
	}

	if factory == nil {
		factory = m.schema.NewNode
	}
	child := factory(childType)
	if child == nil {
		return resultFail("factory returned no node")
	}
	n.Children = append(n.Children, child)
	n.SetExpanded(true)
	m.render()
	if m.hooks.OnNodeAdd != nil {
		m.hooks.OnNodeAdd(NodeAddEvent{
			Parent:    n,
			Child:     child,
			Action:    KindAddChild,
			ChildType: childType,
		})
	}
	return resultOK()
}

// Move validates and performs a reparent. The validation result is returned
// so the gesture layer can report failures; the forest is untouched when the
// move is invalid.
func (m *Model) Move(sourcePath, targetPath string) MoveResult {
	source, _ := treepath.Resolve(m.roots, sourcePath)
	target, _ := treepath.Resolve(m.roots, targetPath)

	roots, res := Reparent(m.roots, m.schema, sourcePath, targetPath)
	if !res.Valid {
		if m.hooks.OnNodeDrop != nil {
			m.hooks.OnNodeDrop(DropEvent{
				SourcePath: sourcePath,
				TargetPath: targetPath,
				Action:     DropActionFailed,
				Source:     source,
				Target:     target,
				Reason:     res.Reason,
			})
		}
		return res
	}

	m.roots = roots
	m.revalidateSelection()
	m.render()
	if m.hooks.OnNodeDrop != nil {
		m.hooks.OnNodeDrop(DropEvent{
			SourcePath: sourcePath,
			TargetPath: targetPath,
			Action:     DropActionDrop,
			Source:     source,
			Target:     target,
		})
	}
	return res
}

// ReportDrag forwards gesture-level drag lifecycle events (dragstart,
// dragend) to the drop hook without touching the tree. An aborted drag is a
// dragend with no preceding drop.
func (m *Model) ReportDrag(action, sourcePath, targetPath string) {
	if m.hooks.OnNodeDrop == nil {
		return
	}
	source, _ := treepath.Resolve(m.roots, sourcePath)
	target, _ := treepath.Resolve(m.roots, targetPath)
	m.hooks.OnNodeDrop(DropEvent{
		SourcePath: sourcePath,
		TargetPath: targetPath,
		Action:     action,
		Source:     source,
		Target:     target,
	})
}

// Remove splices the addressed node (and with it the whole subtree) out of
// the forest.
func (m *Model) Remove(path string) OpResult {
	roots, ok := treepath.RemoveAt(m.roots, path)
	if !ok {
		return resultFail("node not found")
	}
	m.roots = roots
	m.revalidateSelection()
	m.render()
	return resultOK()
}

// SetSelection replaces the selection set. Paths that do not resolve are
// dropped silently; in single-select mode only the last valid path is kept.
func (m *Model) SetSelection(paths []string) {
	var valid []string
	var last *model.Node
	for _, p := range paths {
		if n, ok := treepath.Resolve(m.roots, p); ok {
			valid = append(valid, p)
			last = n
		}
	}
	if !m.multiSelect && len(valid) > 1 {
		valid = valid[len(valid)-1:]
	}
	m.selection = valid
	if m.hooks.OnSelectionChange != nil {
		m.hooks.OnSelectionChange(m.Selection(), last)
	}
}

// Select adds one path to the selection (replacing it in single-select
// mode).
func (m *Model) Select(path string) {
	if m.multiSelect {
		for _, p := range m.selection {
			if p == path {
				return
			}
		}
		m.SetSelection(append(m.Selection(), path))
		return
	}
	m.SetSelection([]string{path})
}

// ClearSelection empties the selection set.
func (m *Model) ClearSelection() {
	m.SetSelection(nil)
}

// Selection returns a copy of the currently selected paths.
func (m *Model) Selection() []string {
	return append([]string(nil), m.selection...)
}

// revalidateSelection drops selected paths that no longer resolve after a
// structural mutation. Dropping is silent per the selection contract.
func (m *Model) revalidateSelection() {
	if len(m.selection) == 0 {
		return
	}
	kept := m.selection[:0]
	for _, p := range m.selection {
		if _, ok := treepath.Resolve(m.roots, p); ok {
			kept = append(kept, p)
		}
	}
	m.selection = kept
}
