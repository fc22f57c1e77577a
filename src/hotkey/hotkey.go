package hotkey

import (
	"context"
	"log"
	"strconv"
	"strings"

	gohook "github.com/robotn/gohook"

	"screen-annotator/src/input"
	"screen-annotator/src/shortcut"
)

// PostFunc delivers a translated event; it is normally eventloop.Loop.Post.
type PostFunc func(input.Event) bool

// Listen starts the system-wide hook and posts every key and mouse-button press as a
// global KeyPressed/MousePressed event until ctx ends. Matching against the shortcut map
// happens in the event loop.
func Listen(ctx context.Context, post PostFunc) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()

		log.Printf("Starting gohook event loop...")
		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("ERROR: gohook.Start() returned nil channel")
			return
		}
		defer gohook.End()

		b := newBinder()
		for {
			select {
			case <-ctx.Done():
				log.Printf("hotkey: stopping")
				return
			case ev, ok := <-evChan:
				if !ok {
					log.Printf("Event channel closed")
					return
				}
				if out := b.translate(ev); out != nil {
					if !post(out) {
						return
					}
				}
			}
		}
	}()
}

// binder turns raw hook events into shortcut events. It tracks held modifiers and
// suppresses auto-repeat so a held key fires once.
type binder struct {
	down    map[uint16]bool
	buttons map[uint16]bool
}

func newBinder() *binder {
	return &binder{down: make(map[uint16]bool), buttons: make(map[uint16]bool)}
}

func (b *binder) translate(ev gohook.Event) input.Event {
	switch ev.Kind {
	case gohook.KeyDown, gohook.KeyHold:
		if b.down[ev.Rawcode] {
			return nil
		}
		b.down[ev.Rawcode] = true
		name, ok := rawcodeNames[ev.Rawcode]
		if !ok || isModifier(name) {
			return nil
		}
		ctrl, shift, alt := b.modifiers()
		return input.KeyPressed{
			Key:    shortcut.KeyEvent{Key: name, Ctrl: ctrl, Shift: shift, Alt: alt},
			Global: true,
		}
	case gohook.KeyUp:
		delete(b.down, ev.Rawcode)
	case gohook.MouseHold:
		if b.buttons[ev.Button] {
			return nil
		}
		b.buttons[ev.Button] = true
		button, ok := mouseButton(ev.Button)
		if !ok {
			return nil
		}
		ctrl, shift, alt := b.modifiers()
		return input.MousePressed{
			Button: shortcut.MouseEvent{Button: button, Ctrl: ctrl, Shift: shift, Alt: alt},
			Global: true,
		}
	case gohook.MouseUp, gohook.MouseDown:
		delete(b.buttons, ev.Button)
	}
	return nil
}

func (b *binder) modifiers() (ctrl, shift, alt bool) {
	return b.anyDown("ctrl"), b.anyDown("shift"), b.anyDown("alt")
}

func (b *binder) anyDown(name string) bool {
	for _, code := range keyNameToRawcodes(name) {
		if b.down[code] {
			return true
		}
	}
	return false
}

// mouseButton maps the hook's 1-based buttons (1 left, 2 right, 3 middle) to the
// browser numbering used by shortcuts.
func mouseButton(b uint16) (int, bool) {
	switch b {
	case 1:
		return shortcut.MouseLeft, true
	case 2:
		return shortcut.MouseRight, true
	case 3:
		return shortcut.MouseMiddle, true
	case 4:
		return shortcut.MouseBack, true
	case 5:
		return shortcut.MouseForward, true
	}
	return 0, false
}

func isModifier(name string) bool {
	switch name {
	case "ctrl", "shift", "alt", "cmd":
		return true
	}
	return false
}

// Windows virtual key codes. Names are the lower-cased key names the overlay window
// reports, so a binding matches the same way locally and globally.
var keyRawcodes = map[string][]uint16{
	"ctrl":  {162, 163, 17}, // VK_LCONTROL, VK_RCONTROL, VK_CONTROL
	"alt":   {164, 165, 18}, // VK_LMENU, VK_RMENU, VK_MENU
	"shift": {160, 161, 16}, // VK_LSHIFT, VK_RSHIFT, VK_SHIFT
	"cmd":   {91, 92},       // VK_LWIN, VK_RWIN

	"space":     {32},
	"return":    {13},
	"escape":    {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"insert":    {45},
	"home":      {36},
	"end":       {35},
	"prior":     {33}, // page up
	"next":      {34}, // page down
	"left":      {37},
	"up":        {38},
	"right":     {39},
	"down":      {40},
}

var keyAliases = map[string]string{
	"win":      "cmd",
	"super":    "cmd",
	"enter":    "return",
	"esc":      "escape",
	"del":      "delete",
	"ins":      "insert",
	"pageup":   "prior",
	"pgup":     "prior",
	"pagedown": "next",
	"pgdn":     "next",
}

// rawcodeNames is the reverse of keyRawcodes, filled in init.
var rawcodeNames = map[uint16]string{}

func init() {
	for c := 'a'; c <= 'z'; c++ {
		keyRawcodes[string(c)] = []uint16{uint16(c - 'a' + 65)}
	}
	for c := '0'; c <= '9'; c++ {
		keyRawcodes[string(c)] = []uint16{uint16(c - '0' + 48)}
	}
	for n := 1; n <= 24; n++ {
		keyRawcodes["f"+strconv.Itoa(n)] = []uint16{uint16(111 + n)} // VK_F1 = 112
	}
	for name, codes := range keyRawcodes {
		for _, code := range codes {
			rawcodeNames[code] = name
		}
	}
}

// keyNameToRawcodes maps a key name to its rawcodes (left and right variants for modifiers).
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))
	if alias, ok := keyAliases[keyName]; ok {
		keyName = alias
	}
	codes, ok := keyRawcodes[keyName]
	if !ok {
		log.Printf("WARNING: Unknown key name '%s', cannot map to rawcode", keyName)
		return nil
	}
	return codes
}
