package tree

import "github.com/lampmaker/guistuff/pkg/model"

// OpResult is the structured outcome of a model operation. Data-driven
// failures (bad path, disallowed child type, invalid move) come back as
// {OK: false, Reason} rather than errors; whether to surface the reason to
// the user is the embedder's call.
type OpResult struct {
	OK     bool
	Reason string
}

func resultOK() OpResult {
	return OpResult{OK: true}
}

func resultFail(reason string) OpResult {
	return OpResult{Reason: reason}
}

// Toggle click kinds reported through Hooks.OnToggleClick.
const (
	KindToggle   = "toggle"    // a value toggle was cycled
	KindAction   = "action"    // an action toggle fired
	KindAddChild = "add_child" // the configured add-child action fired
)

// Drop actions reported through Hooks.OnNodeDrop. The dragstart and dragend
// actions are fired by the gesture layer via ReportDrag; drop and
// drop_failed come out of Move.
const (
	DropActionStart  = "dragstart"
	DropActionDrop   = "drop"
	DropActionFailed = "drop_failed"
	DropActionEnd    = "dragend"
)

// ToggleEvent describes a toggle interaction on the node actually addressed,
// never on its descendants.
type ToggleEvent struct {
	Path     string
	Name     string
	OldValue any
	NewValue any
	Node     *model.Node
	Kind     string
}

// NodeAddEvent describes a child synthesized by AddChild.
type NodeAddEvent struct {
	Parent    *model.Node
	Child     *model.Node
	Action    string
	ChildType string
}

// DropEvent describes one step of a drag gesture.
type DropEvent struct {
	SourcePath string
	TargetPath string
	Action     string
	Source     *model.Node
	Target     *model.Node
	Reason     string
}

// Hooks are the collaborator callbacks the model invokes. All hooks are
// optional and fire synchronously, after the render that reflects the
// mutation they describe. Hook implementations must not mutate the tree
// re-entrantly.
type Hooks struct {
	// OnRender fires once after every structural or toggle mutation with a
	// fresh read-only snapshot.
	OnRender func(snap *Snapshot)

	OnSelectionChange func(paths []string, last *model.Node)
	OnNodeExpand      func(path string, expanded bool)
	OnToggleClick     func(ev ToggleEvent)
	OnNodeAdd         func(ev NodeAddEvent)
	OnNodeDrop        func(ev DropEvent)
}
