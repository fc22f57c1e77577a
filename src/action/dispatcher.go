package action

import (
	"log"

	"screen-annotator/src/drawing"
)

// Store is the history surface the dispatcher drives.
type Store interface {
	Undo() bool
	Redo() bool
	Clear() bool
}

// Tools is the tool-state surface the dispatcher drives.
type Tools interface {
	SetTool(drawing.Tool) bool
	SetColor(string) bool
	ToggleSpotlight() bool
}

// Shell receives the actions that belong to the host window.
type Shell interface {
	ToggleDrawingMode()
	Minimize()
}

// Dispatcher maps action tokens onto store, tool-state and shell operations.
// It is owned by the event loop goroutine.
type Dispatcher struct {
	table map[Action]func()
	tools Tools
}

// NewDispatcher builds the lookup table once.
func NewDispatcher(store Store, tools Tools, shell Shell) *Dispatcher {
	d := &Dispatcher{table: make(map[Action]func()), tools: tools}
	for _, t := range drawing.Tools {
		t := t
		d.table[ForTool(t)] = func() { tools.SetTool(t) }
	}
	for name, hex := range drawing.ColorPresets {
		hex := hex
		d.table[ForColor(name)] = func() { tools.SetColor(hex) }
	}
	d.table[Undo] = func() { store.Undo() }
	d.table[Redo] = func() { store.Redo() }
	d.table[Clear] = func() { store.Clear() }
	d.table[Spotlight] = func() { tools.ToggleSpotlight() }
	d.table[ToggleDrawing] = shell.ToggleDrawingMode
	d.table[ToggleVisibility] = shell.Minimize
	return d
}

// Handle installs or replaces the handler for a.
func (d *Dispatcher) Handle(a Action, fn func()) { d.table[a] = fn }

// Dispatch runs the handler for a and reports whether a was known. Unknown tokens are ignored.
func (d *Dispatcher) Dispatch(a Action) bool {
	if fn, ok := d.table[a]; ok {
		fn()
		return true
	}
	if hex, ok := a.Color(); ok {
		return d.tools.SetColor(hex)
	}
	log.Printf("action: ignoring unknown action %q", a)
	return false
}
