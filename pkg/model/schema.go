package model

import (
	"fmt"
	"sort"
)

// ToggleKind discriminates the two kinds of toggles. The kind is resolved
// once from the schema when it is finalized, never re-derived at call sites.
type ToggleKind int

const (
	// KindValue is a toggle that carries a persisted value cycled through
	// the definition's Values sequence.
	KindValue ToggleKind = iota
	// KindAction is a stateless toggle (empty Values). Clicking it fires a
	// side-effect callback instead of mutating the node.
	KindAction
)

// String returns a human-readable label for the toggle kind.
func (k ToggleKind) String() string {
	if k == KindAction {
		return "action"
	}
	return "value"
}

// TypeDef describes one node type: which child types may be attached and
// which toggles apply by default. Icon is carried for embedders but never
// interpreted by the core.
type TypeDef struct {
	Icon            string         `yaml:"icon,omitempty" json:"icon,omitempty"`
	AllowedChildren []string       `yaml:"allowed_children,omitempty" json:"allowedChildren,omitempty"`
	DefaultToggles  map[string]any `yaml:"default_toggles,omitempty" json:"defaultToggles,omitempty"`
}

// ToggleDef describes one toggle: the ordered sequence of legal values (empty
// marks an action toggle) and presentation metadata. Order fixes the column
// layout used by renderers.
type ToggleDef struct {
	Label  string `yaml:"label,omitempty" json:"label,omitempty"`
	Values []any  `yaml:"values,omitempty" json:"values,omitempty"`
	Order  int    `yaml:"order,omitempty" json:"order,omitempty"`
}

// Schema is the process-wide configuration: the node type table and the
// toggle definition table. It is loaded once at startup and read-only
// afterward; Finalize must be called before the schema is handed to a tree
// model.
type Schema struct {
	Types   map[string]TypeDef   `yaml:"types" json:"types"`
	Toggles map[string]ToggleDef `yaml:"toggles" json:"toggles"`

	kinds       map[string]ToggleKind
	toggleNames []string
}

// Finalize validates cross-references and resolves the kind of every toggle.
// It must be called exactly once after loading; the zero-value and loaded
// schemas are not usable before this.
func (s *Schema) Finalize() error {
	if s.Types == nil {
		s.Types = make(map[string]TypeDef)
	}
	if s.Toggles == nil {
		s.Toggles = make(map[string]ToggleDef)
	}

	s.kinds = make(map[string]ToggleKind, len(s.Toggles))
	s.toggleNames = s.toggleNames[:0]
	for name, def := range s.Toggles {
		if len(def.Values) == 0 {
			s.kinds[name] = KindAction
		} else {
			s.kinds[name] = KindValue
		}
		s.toggleNames = append(s.toggleNames, name)
	}
	sort.Slice(s.toggleNames, func(i, j int) bool {
		a, b := s.toggleNames[i], s.toggleNames[j]
		if s.Toggles[a].Order != s.Toggles[b].Order {
			return s.Toggles[a].Order < s.Toggles[b].Order
		}
		return a < b
	})

	// A type referencing an unknown toggle or child type is a misconfigured
	// embedding application, not runtime input.
	for typeName, def := range s.Types {
		for toggleName := range def.DefaultToggles {
			if _, ok := s.Toggles[toggleName]; !ok {
				return fmt.Errorf("type %q: default toggle %q is not defined", typeName, toggleName)
			}
		}
		for _, child := range def.AllowedChildren {
			if _, ok := s.Types[child]; !ok {
				return fmt.Errorf("type %q: allowed child type %q is not defined", typeName, child)
			}
		}
	}
	return nil
}

// Kind returns the resolved kind for a toggle name. Referencing an unknown
// toggle is a programmer error and panics.
func (s *Schema) Kind(name string) ToggleKind {
	kind, ok := s.kinds[name]
	if !ok {
		panic(fmt.Sprintf("model: unknown toggle %q referenced", name))
	}
	return kind
}

// HasToggle reports whether the toggle name is defined.
func (s *Schema) HasToggle(name string) bool {
	_, ok := s.Toggles[name]
	return ok
}

// ToggleNames returns all configured toggle names in column order (Order
// field, then name). The slice is shared; callers must not mutate it.
func (s *Schema) ToggleNames() []string {
	return s.toggleNames
}

// TypeOf returns the type definition for a node, resolving the default type
// for untyped nodes. Unknown types yield an empty definition: the node's
// type comes from document data, so a missing table entry degrades to "no
// defaults, no allowed children" rather than a panic.
func (s *Schema) TypeOf(n *Node) TypeDef {
	return s.Types[n.EffectiveType()]
}

// AllowedChildrenOf returns the effective allowed-children whitelist for a
// node: the node's own override when present, else the type default, else
// the empty set.
func (s *Schema) AllowedChildrenOf(n *Node) []string {
	if n.AllowedChildren != nil {
		return n.AllowedChildren
	}
	return s.TypeOf(n).AllowedChildren
}

// NewNode synthesizes a node of the given type with the type's default value
// toggles materialized. Action-toggle defaults stay in the type table so
// their truthy-default visibility rule keeps working.
func (s *Schema) NewNode(typeName string) *Node {
	n := &Node{
		Label: typeName,
		Type:  typeName,
	}
	def := s.Types[typeName]
	for name, value := range def.DefaultToggles {
		if s.kinds[name] == KindValue {
			n.SetToggle(name, value)
		}
	}
	return n
}

// DefaultSchema returns the built-in schema used by the demo browser and by
// tests: a small folder/file/layer vocabulary with visibility, lock and
// add-child toggles.
func DefaultSchema() *Schema {
	s := &Schema{
		Types: map[string]TypeDef{
			"folder": {
				Icon:            "folder",
				AllowedChildren: []string{"folder", "file", "layer"},
				DefaultToggles: map[string]any{
					"visible":  true,
					"addChild": true,
				},
			},
			"file": {
				Icon: "file",
				DefaultToggles: map[string]any{
					"visible": true,
					"locked":  false,
				},
			},
			"layer": {
				Icon:            "layer",
				AllowedChildren: []string{"layer", "file"},
				DefaultToggles: map[string]any{
					"visible": true,
					"blend":   "normal",
				},
			},
			DefaultType: {},
		},
		Toggles: map[string]ToggleDef{
			"visible": {
				Label:  "Visible",
				Values: []any{true, false},
				Order:  0,
			},
			"locked": {
				Label:  "Locked",
				Values: []any{false, true},
				Order:  1,
			},
			"blend": {
				Label:  "Blend",
				Values: []any{"normal", "multiply", "screen"},
				Order:  2,
			},
			"addChild": {
				Label: "Add child",
				Order: 3,
			},
		},
	}
	if err := s.Finalize(); err != nil {
		// The built-in schema is internally consistent; a failure here is a
		// bug in this package.
		panic(err)
	}
	return s
}
