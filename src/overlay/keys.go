package overlay

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"screen-annotator/src/shortcut"
)

// modTracker follows modifier keys from a canvas's key-down/key-up callbacks.
type modTracker struct {
	ctrl, shift, alt bool
}

// down records a key press and reports whether it was a modifier.
func (m *modTracker) down(name fyne.KeyName) bool {
	return m.set(name, true)
}

func (m *modTracker) up(name fyne.KeyName) {
	m.set(name, false)
}

func (m *modTracker) set(name fyne.KeyName, pressed bool) bool {
	switch name {
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		m.ctrl = pressed
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		m.shift = pressed
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		m.alt = pressed
	case desktop.KeySuperLeft, desktop.KeySuperRight, desktop.KeyMenu:
	default:
		return false
	}
	return true
}

func (m *modTracker) reset() { *m = modTracker{} }

func (m *modTracker) keyEvent(name fyne.KeyName) shortcut.KeyEvent {
	return shortcut.KeyEvent{Key: keyName(name), Ctrl: m.ctrl, Shift: m.shift, Alt: m.alt}
}

// keyName lower-cases Fyne key names ("A" -> "a", "Escape" -> "escape").
func keyName(name fyne.KeyName) string {
	return strings.ToLower(string(name))
}

func mouseEvent(e *desktop.MouseEvent) (shortcut.MouseEvent, bool) {
	var button int
	switch e.Button {
	case desktop.MouseButtonPrimary:
		button = shortcut.MouseLeft
	case desktop.MouseButtonTertiary:
		button = shortcut.MouseMiddle
	case desktop.MouseButtonSecondary:
		button = shortcut.MouseRight
	default:
		return shortcut.MouseEvent{}, false
	}
	return shortcut.MouseEvent{
		Button: button,
		Ctrl:   e.Modifier&fyne.KeyModifierControl != 0,
		Shift:  e.Modifier&fyne.KeyModifierShift != 0,
		Alt:    e.Modifier&fyne.KeyModifierAlt != 0,
	}, true
}
