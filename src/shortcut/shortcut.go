package shortcut

import (
	"fmt"
	"sort"
	"strings"

	"screen-annotator/src/action"
	"screen-annotator/src/drawing"
)

// Mouse buttons, numbered the way browsers number them.
const (
	MouseLeft    = 0
	MouseMiddle  = 1
	MouseRight   = 2
	MouseBack    = 3
	MouseForward = 4
)

// Shortcut binds either a key or a mouse button, plus exact modifier flags.
// With both Key and Mouse nil the binding is disabled.
type Shortcut struct {
	Key   *string `json:"key"`
	Ctrl  bool    `json:"ctrl"`
	Shift bool    `json:"shift"`
	Alt   bool    `json:"alt"`
	Mouse *int    `json:"mouse"`
}

// KeyEvent is a key press together with the modifiers held at the time.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Shift bool
	Alt   bool
}

// MouseEvent is a mouse button press together with the modifiers held at the time.
type MouseEvent struct {
	Button int
	Ctrl   bool
	Shift  bool
	Alt    bool
}

// Map binds actions to shortcuts.
type Map map[action.Action]Shortcut

func Key(key string, ctrl, shift, alt bool) Shortcut {
	k := strings.ToLower(key)
	return Shortcut{Key: &k, Ctrl: ctrl, Shift: shift, Alt: alt}
}

func Mouse(button int, ctrl, shift, alt bool) Shortcut {
	b := button
	return Shortcut{Mouse: &b, Ctrl: ctrl, Shift: shift, Alt: alt}
}

func Disabled() Shortcut { return Shortcut{} }

func (s Shortcut) IsDisabled() bool { return s.Key == nil && s.Mouse == nil }

// Valid reports whether the binding names at most one trigger.
func (s Shortcut) Valid() bool {
	if s.Key != nil && s.Mouse != nil {
		return false
	}
	return s.Key == nil || NormalizeKey(*s.Key) != ""
}

// NormalizeKey lower-cases a key name. A literal space is the space bar.
func NormalizeKey(k string) string {
	if k != "" && strings.TrimSpace(k) == "" {
		return "space"
	}
	return strings.ToLower(strings.TrimSpace(k))
}

func (s Shortcut) MatchesKey(ev KeyEvent) bool {
	if s.Key == nil || s.Mouse != nil {
		return false
	}
	return strings.EqualFold(*s.Key, ev.Key) && s.Ctrl == ev.Ctrl && s.Shift == ev.Shift && s.Alt == ev.Alt
}

func (s Shortcut) MatchesMouse(ev MouseEvent) bool {
	if s.Mouse == nil || s.Key != nil {
		return false
	}
	return *s.Mouse == ev.Button && s.Ctrl == ev.Ctrl && s.Shift == ev.Shift && s.Alt == ev.Alt
}

// Equal compares bindings by value.
func (s Shortcut) Equal(o Shortcut) bool {
	if s.Ctrl != o.Ctrl || s.Shift != o.Shift || s.Alt != o.Alt {
		return false
	}
	if (s.Key == nil) != (o.Key == nil) || (s.Mouse == nil) != (o.Mouse == nil) {
		return false
	}
	if s.Key != nil && !strings.EqualFold(*s.Key, *o.Key) {
		return false
	}
	return s.Mouse == nil || *s.Mouse == *o.Mouse
}

// String renders the binding for menus and the settings window, e.g. "Ctrl+Shift+C".
func (s Shortcut) String() string {
	if s.IsDisabled() {
		return "-"
	}
	var parts []string
	if s.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if s.Shift {
		parts = append(parts, "Shift")
	}
	if s.Alt {
		parts = append(parts, "Alt")
	}
	if s.Key != nil {
		parts = append(parts, keyLabel(*s.Key))
	} else {
		parts = append(parts, mouseLabel(*s.Mouse))
	}
	return strings.Join(parts, "+")
}

func keyLabel(k string) string {
	if len(k) == 1 {
		return strings.ToUpper(k)
	}
	return strings.ToUpper(k[:1]) + k[1:]
}

func mouseLabel(b int) string {
	switch b {
	case MouseLeft:
		return "Mouse Left"
	case MouseMiddle:
		return "Mouse Middle"
	case MouseRight:
		return "Mouse Right"
	default:
		return fmt.Sprintf("Mouse %d", b+1)
	}
}

// Clone returns a deep copy of m.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for a, s := range m {
		out[a] = s.clone()
	}
	return out
}

func (s Shortcut) clone() Shortcut {
	out := Shortcut{Ctrl: s.Ctrl, Shift: s.Shift, Alt: s.Alt}
	if s.Key != nil {
		k := *s.Key
		out.Key = &k
	}
	if s.Mouse != nil {
		b := *s.Mouse
		out.Mouse = &b
	}
	return out
}

// Actions returns the bound actions in sorted order.
func (m Map) Actions() []action.Action {
	out := make([]action.Action, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MatchKey returns the first action, in sorted order, whose binding matches ev.
func (m Map) MatchKey(ev KeyEvent) (action.Action, bool) {
	for _, a := range m.Actions() {
		if m[a].MatchesKey(ev) {
			return a, true
		}
	}
	return "", false
}

// MatchMouse returns the first action, in sorted order, whose binding matches ev.
func (m Map) MatchMouse(ev MouseEvent) (action.Action, bool) {
	for _, a := range m.Actions() {
		if m[a].MatchesMouse(ev) {
			return a, true
		}
	}
	return "", false
}

// Defaults returns the built-in bindings.
func Defaults() Map {
	m := Map{
		action.ForTool(drawing.ToolPen):         Key("1", true, false, false),
		action.ForTool(drawing.ToolHighlighter): Key("2", true, false, false),
		action.ForTool(drawing.ToolRectangle):   Key("3", true, false, false),
		action.ForTool(drawing.ToolCircle):      Key("4", true, false, false),
		action.ForTool(drawing.ToolArrow):       Key("5", true, false, false),
		action.ForTool(drawing.ToolLine):        Key("6", true, false, false),
		action.ForTool(drawing.ToolText):        Key("t", false, false, false),
		action.ForTool(drawing.ToolEraser):      Key("e", true, false, false),
		action.Undo:                             Key("z", true, false, false),
		action.Redo:                             Key("y", true, false, false),
		action.Clear:                            Key("c", true, true, false),
		action.Spotlight:                        Key("s", true, true, false),
		action.ToggleDrawing:                    Key("d", true, true, false),
		action.ToggleVisibility:                 Key("a", true, true, false),
		action.CopySnapshot:                     Disabled(),
	}
	for _, c := range action.ShortcutColors {
		m[action.ForColor(c)] = Disabled()
	}
	return m
}
