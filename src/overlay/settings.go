package overlay

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"screen-annotator/src/action"
	"screen-annotator/src/input"
	"screen-annotator/src/shortcut"
)

// bindingEditor is the state behind the settings window: a working copy of the map and
// the action currently waiting for a key or mouse button.
type bindingEditor struct {
	working   shortcut.Map
	capturing action.Action
	mods      modTracker
}

func newBindingEditor(m shortcut.Map) *bindingEditor {
	return &bindingEditor{working: m.Clone()}
}

func (b *bindingEditor) startCapture(a action.Action) {
	b.capturing = a
	b.mods.reset()
}

// keyDown feeds one key press. It returns done=true when the press finished a capture
// and closeWindow=true when Escape was pressed outside a capture.
func (b *bindingEditor) keyDown(name fyne.KeyName) (done, closeWindow bool) {
	if b.mods.down(name) {
		return false, false
	}
	if b.capturing == "" {
		return false, name == fyne.KeyEscape
	}
	if name == fyne.KeyEscape {
		b.capturing = ""
		return true, false
	}
	ev := b.mods.keyEvent(name)
	b.working[b.capturing] = shortcut.Key(ev.Key, ev.Ctrl, ev.Shift, ev.Alt)
	b.capturing = ""
	return true, false
}

func (b *bindingEditor) keyUp(name fyne.KeyName) { b.mods.up(name) }

// mouseDown binds a mouse button while capturing.
func (b *bindingEditor) mouseDown(ev shortcut.MouseEvent) bool {
	if b.capturing == "" {
		return false
	}
	b.working[b.capturing] = shortcut.Mouse(ev.Button, ev.Ctrl, ev.Shift, ev.Alt)
	b.capturing = ""
	return true
}

func (b *bindingEditor) disable(a action.Action) { b.working[a] = shortcut.Disabled() }

func (b *bindingEditor) resetDefaults() {
	b.working = shortcut.Defaults()
	b.capturing = ""
}

// conflicts lists the other actions bound exactly like a.
func (b *bindingEditor) conflicts(a action.Action) []action.Action {
	s := b.working[a]
	if s.IsDisabled() {
		return nil
	}
	var out []action.Action
	for _, other := range b.working.Actions() {
		if other != a && b.working[other].Equal(s) {
			out = append(out, other)
		}
	}
	return out
}

// capturePad receives mouse buttons while a binding is being captured.
type capturePad struct {
	widget.Label
	onMouse func(shortcut.MouseEvent)
}

func newCapturePad(onMouse func(shortcut.MouseEvent)) *capturePad {
	p := &capturePad{onMouse: onMouse}
	p.ExtendBaseWidget(p)
	p.Alignment = fyne.TextAlignCenter
	p.SetText("Click here with a mouse button to bind it")
	return p
}

func (p *capturePad) MouseDown(e *desktop.MouseEvent) {
	if ev, ok := mouseEvent(e); ok {
		p.onMouse(ev)
	}
}

func (p *capturePad) MouseUp(*desktop.MouseEvent) {}

// showSettings opens the shortcut editor. Saving posts ShortcutsEdited; any other way
// of closing posts SettingsClosed. Must run on the Fyne main goroutine.
func (s *Shell) showSettings(m shortcut.Map) {
	if s.settings != nil {
		s.settings.RequestFocus()
		return
	}
	ed := newBindingEditor(m)
	w := s.app.NewWindow("Configure shortcuts")
	s.settings = w

	status := widget.NewLabel("")
	buttons := make(map[action.Action]*widget.Button)
	refresh := func() {
		for a, btn := range buttons {
			if a == ed.capturing {
				btn.SetText("Press a key...")
			} else {
				btn.SetText(ed.working[a].String())
			}
		}
		if ed.capturing != "" {
			status.SetText(fmt.Sprintf("Binding %s (Esc cancels)", ed.capturing))
		}
	}
	report := func(a action.Action) {
		if c := ed.conflicts(a); len(c) > 0 {
			status.SetText(fmt.Sprintf("%s is also bound to %v", ed.working[a], c))
		} else {
			status.SetText("")
		}
	}

	rows := container.NewVBox()
	for _, a := range ed.working.Actions() {
		a := a
		btn := widget.NewButton(ed.working[a].String(), func() {
			ed.startCapture(a)
			refresh()
		})
		buttons[a] = btn
		off := widget.NewButton("Disable", func() {
			ed.disable(a)
			refresh()
		})
		rows.Add(container.NewBorder(nil, nil, widget.NewLabel(string(a)), off, btn))
	}

	saved := false
	save := widget.NewButton("Save", func() {
		saved = true
		s.postEvent(input.ShortcutsEdited{Map: ed.working.Clone()})
		w.Close()
	})
	save.Importance = widget.HighImportance
	reset := widget.NewButton("Reset to defaults", func() {
		ed.resetDefaults()
		refresh()
		status.SetText("Defaults restored; save to apply")
	})
	cancel := widget.NewButton("Cancel", func() { w.Close() })

	pad := newCapturePad(func(ev shortcut.MouseEvent) {
		a := ed.capturing
		if ed.mouseDown(ev) {
			refresh()
			report(a)
		}
	})

	if dc, ok := w.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			a := ed.capturing
			done, closeWindow := ed.keyDown(ev.Name)
			if closeWindow {
				w.Close()
				return
			}
			if done {
				refresh()
				report(a)
			}
		})
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) { ed.keyUp(ev.Name) })
	}

	w.SetOnClosed(func() {
		s.settings = nil
		if !saved {
			s.postEvent(input.SettingsClosed{})
		}
	})

	footer := container.NewVBox(pad, status, container.NewHBox(reset, cancel, save))
	w.SetContent(container.NewBorder(nil, footer, nil, nil, container.NewVScroll(rows)))
	w.Resize(fyne.NewSize(520, 640))
	w.CenterOnScreen()
	w.Show()
}
