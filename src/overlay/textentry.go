package overlay

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"screen-annotator/src/input"
)

const textEntryWidth = 240

// textEntry is the floating single-line editor used by the text tool. Enter or focus
// loss confirms, Escape cancels; either way exactly one event is posted per opening.
type textEntry struct {
	widget.Entry

	post   PostFunc
	active bool
}

func newTextEntry(post PostFunc) *textEntry {
	e := &textEntry{post: post}
	e.ExtendBaseWidget(e)
	e.OnSubmitted = func(string) { e.confirm() }
	e.Hide()
	return e
}

func (e *textEntry) open(at fyne.Position) {
	e.SetText("")
	e.active = true
	e.Move(at)
	e.Resize(fyne.NewSize(textEntryWidth, e.MinSize().Height))
	e.Show()
}

func (e *textEntry) close() {
	e.active = false
	e.Hide()
}

func (e *textEntry) TypedKey(k *fyne.KeyEvent) {
	if k.Name == fyne.KeyEscape {
		e.cancel()
		return
	}
	e.Entry.TypedKey(k)
}

func (e *textEntry) FocusLost() {
	e.Entry.FocusLost()
	e.confirm()
}

func (e *textEntry) confirm() {
	if !e.active {
		return
	}
	e.active = false
	e.post(input.TextConfirmed{Text: e.Text})
}

func (e *textEntry) cancel() {
	if !e.active {
		return
	}
	e.active = false
	e.post(input.TextCancelled{})
}
