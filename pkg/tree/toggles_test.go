package tree

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/lampmaker/guistuff/pkg/model"
)

func newResolver(t testing.TB) (ToggleResolver, *model.Schema) {
	t.Helper()
	s := model.DefaultSchema()
	return NewToggleResolver(s), s
}

// TestIsVisibleHideSentinel verifies an explicit hide beats every other rule
func TestIsVisibleHideSentinel(t *testing.T) {
	r, _ := newResolver(t)
	n := &model.Node{Label: "x", Type: "folder"} // folder defaults visible: true
	n.HideToggle("visible")
	if r.IsVisible(n, "visible") {
		t.Error("hidden toggle reported visible")
	}
}

// TestIsVisibleExplicitEntry verifies any concrete node entry is an opt-in,
// even a falsy one
func TestIsVisibleExplicitEntry(t *testing.T) {
	r, _ := newResolver(t)
	n := &model.Node{Label: "x"} // custom type: no defaults
	if r.IsVisible(n, "locked") {
		t.Error("toggle visible without entry or default")
	}
	n.SetToggle("locked", false)
	if !r.IsVisible(n, "locked") {
		t.Error("concrete false entry did not opt the toggle in")
	}
}

// TestIsVisibleTypeDefaultValueToggle verifies value toggles show whenever
// the type default carries the key, regardless of the default's truthiness
func TestIsVisibleTypeDefaultValueToggle(t *testing.T) {
	r, _ := newResolver(t)
	// file defaults locked: false; a falsy default still shows a value toggle.
	n := &model.Node{Label: "x", Type: "file"}
	if !r.IsVisible(n, "locked") {
		t.Error("falsy value-toggle default did not make the toggle visible")
	}
}

// TestIsVisibleTypeDefaultActionToggle verifies action toggles need a
// strictly true default
func TestIsVisibleTypeDefaultActionToggle(t *testing.T) {
	s := model.DefaultSchema()
	s.Types["half"] = model.TypeDef{DefaultToggles: map[string]any{"addChild": false}}
	s.Types["odd"] = model.TypeDef{DefaultToggles: map[string]any{"addChild": 1}}
	if err := s.Finalize(); err != nil {
		t.Fatal(err)
	}
	r := NewToggleResolver(s)

	if !r.IsVisible(&model.Node{Label: "x", Type: "folder"}, "addChild") {
		t.Error("true action default did not make the toggle visible")
	}
	if r.IsVisible(&model.Node{Label: "x", Type: "half"}, "addChild") {
		t.Error("false action default made the toggle visible")
	}
	if r.IsVisible(&model.Node{Label: "x", Type: "odd"}, "addChild") {
		t.Error("non-bool action default made the toggle visible")
	}
	if r.IsVisible(&model.Node{Label: "x", Type: "file"}, "addChild") {
		t.Error("absent action default made the toggle visible")
	}
}

// TestIsVisibleUnknownTogglePanics verifies resolution enforces the schema
func TestIsVisibleUnknownTogglePanics(t *testing.T) {
	r, _ := newResolver(t)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown toggle")
		}
	}()
	r.IsVisible(&model.Node{Label: "x"}, "nonexistent")
}

// TestEffectiveValueChain verifies the node entry, type default, first legal
// value, false fallback order
func TestEffectiveValueChain(t *testing.T) {
	r, _ := newResolver(t)

	n := &model.Node{Label: "x", Type: "layer"} // layer defaults blend: "normal"
	if got := r.EffectiveValue(n, "blend"); got != "normal" {
		t.Errorf("expected type default, got %v", got)
	}

	n.SetToggle("blend", "screen")
	if got := r.EffectiveValue(n, "blend"); got != "screen" {
		t.Errorf("expected node entry, got %v", got)
	}

	// custom type has no defaults; locked falls back to Values[0].
	bare := &model.Node{Label: "x"}
	if got := r.EffectiveValue(bare, "locked"); got != false {
		t.Errorf("expected first legal value, got %v", got)
	}
}

// TestCycleValueWraps verifies cycling advances through the values sequence
// and wraps at the end
func TestCycleValueWraps(t *testing.T) {
	r, _ := newResolver(t)
	n := &model.Node{Label: "x", Type: "layer"}

	want := []struct{ old, new any }{
		{"normal", "multiply"},
		{"multiply", "screen"},
		{"screen", "normal"},
	}
	for i, w := range want {
		oldV, newV, err := r.CycleValue(n, "blend")
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if oldV != w.old || newV != w.new {
			t.Errorf("step %d: %v -> %v, want %v -> %v", i, oldV, newV, w.old, w.new)
		}
	}
}

// TestCycleValueUnknownCurrent verifies an off-sequence current value
// restarts the cycle at the first entry
func TestCycleValueUnknownCurrent(t *testing.T) {
	r, _ := newResolver(t)
	n := &model.Node{Label: "x", Type: "layer"}
	n.SetToggle("blend", "overlay") // not in the legal sequence

	_, newV, err := r.CycleValue(n, "blend")
	if err != nil {
		t.Fatal(err)
	}
	if newV != "normal" {
		t.Errorf("expected restart at first value, got %v", newV)
	}
}

// TestCycleValueActionToggle verifies action toggles reject cycling without
// mutating the node
func TestCycleValueActionToggle(t *testing.T) {
	r, _ := newResolver(t)
	n := &model.Node{Label: "x", Type: "folder"}

	_, _, err := r.CycleValue(n, "addChild")
	if !errors.Is(err, ErrActionToggle) {
		t.Errorf("expected ErrActionToggle, got %v", err)
	}
	if n.Toggles != nil {
		t.Error("failed cycle materialized the toggle map")
	}
}

// TestCycleValueMakesExplicit verifies a cycled toggle becomes a node entry
func TestCycleValueMakesExplicit(t *testing.T) {
	r, _ := newResolver(t)
	n := &model.Node{Label: "x", Type: "file"}

	if _, _, ok := n.ToggleEntry("locked"); ok {
		t.Fatal("entry present before cycling")
	}
	if _, _, err := r.CycleValue(n, "locked"); err != nil {
		t.Fatal(err)
	}
	if v, hidden, ok := n.ToggleEntry("locked"); !ok || hidden || v != true {
		t.Errorf("expected explicit true entry, got %v, %v, %v", v, hidden, ok)
	}
}

// TestCycleGroupProperty verifies cycling len(values) times returns to the
// starting effective value, from any starting point
func TestCycleGroupProperty(t *testing.T) {
	r, s := newResolver(t)
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.SampledFrom([]string{"visible", "locked", "blend"}).Draw(t, "toggle")
		values := s.Toggles[name].Values

		n := &model.Node{Label: "x"}
		if rapid.Bool().Draw(t, "preset") {
			n.SetToggle(name, rapid.SampledFrom(values).Draw(t, "start"))
		}

		start := r.EffectiveValue(n, name)
		for i := 0; i < len(values); i++ {
			if _, _, err := r.CycleValue(n, name); err != nil {
				t.Fatal(err)
			}
		}
		if end := r.EffectiveValue(n, name); !model.ValuesEqual(start, end) {
			t.Fatalf("cycle of length %d did not return to %v (got %v)", len(values), start, end)
		}
	})
}
