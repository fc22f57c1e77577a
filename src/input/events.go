package input

import (
	"screen-annotator/src/action"
	"screen-annotator/src/drawing"
	"screen-annotator/src/host"
	"screen-annotator/src/shortcut"
)

// Event is anything posted onto the event loop's queue.
type Event interface {
	event()
}

type PointerDown struct{ At drawing.Point }

type PointerMove struct{ At drawing.Point }

type PointerUp struct{ At drawing.Point }

// PointerLeave is handled like PointerUp.
type PointerLeave struct{}

// KeyPressed is a key press. Global is set for system-wide presses seen while the overlay
// may not have focus.
type KeyPressed struct {
	Key    shortcut.KeyEvent
	Global bool
}

type MousePressed struct {
	Button shortcut.MouseEvent
	Global bool
}

// TextConfirmed is sent when the text-entry surface is confirmed or loses focus.
type TextConfirmed struct{ Text string }

// TextCancelled is sent when text entry is abandoned with Escape.
type TextCancelled struct{}

// Command carries a host command from the window or the tray.
type Command struct{ Command host.Command }

// ActionRequested asks for one action directly (tray menu entries).
type ActionRequested struct{ Action action.Action }

// ShortcutsEdited is sent by the settings window when the user saves new bindings.
type ShortcutsEdited struct{ Map shortcut.Map }

// ShortcutsReloaded is sent when the persisted bindings changed on disk.
type ShortcutsReloaded struct{ Map shortcut.Map }

// SettingsClosed is sent when the settings window closes without saving.
type SettingsClosed struct{}

// JobFinished reports a background job's result back to the loop.
type JobFinished struct {
	Name string
	Err  error
}

func (PointerDown) event()       {}
func (PointerMove) event()       {}
func (PointerUp) event()         {}
func (PointerLeave) event()      {}
func (KeyPressed) event()        {}
func (MousePressed) event()      {}
func (TextConfirmed) event()     {}
func (TextCancelled) event()     {}
func (Command) event()           {}
func (ActionRequested) event()   {}
func (ShortcutsEdited) event()   {}
func (ShortcutsReloaded) event() {}
func (SettingsClosed) event()    {}
func (JobFinished) event()       {}
