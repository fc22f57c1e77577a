package action

import (
	"sort"
	"strings"

	"screen-annotator/src/drawing"
)

// Action is an abstract command token shared by shortcuts, the tray and IPC.
type Action string

const (
	Undo             Action = "undo"
	Redo             Action = "redo"
	Clear            Action = "clear"
	Spotlight        Action = "spotlight"
	ToggleDrawing    Action = "toggle-drawing"
	ToggleVisibility Action = "toggle-visibility"
	CopySnapshot     Action = "copy-snapshot"

	toolPrefix  = "tool-"
	colorPrefix = "color-"
)

// ShortcutColors are the colour presets that get a configurable shortcut.
var ShortcutColors = []string{"red", "green", "blue", "yellow", "magenta", "cyan", "white", "black"}

func ForTool(t drawing.Tool) Action { return Action(toolPrefix + string(t)) }

func ForColor(name string) Action { return Action(colorPrefix + strings.ToLower(name)) }

// Tool returns the tool named by a tool-* action.
func (a Action) Tool() (drawing.Tool, bool) {
	name, ok := strings.CutPrefix(string(a), toolPrefix)
	if !ok {
		return "", false
	}
	return drawing.ParseTool(name)
}

// Color returns the hex colour named by a color-* action. Both preset names and hex digits
// are accepted, so color-red and color-ff0000 are the same action.
func (a Action) Color() (string, bool) {
	name, ok := strings.CutPrefix(string(a), colorPrefix)
	if !ok {
		return "", false
	}
	return drawing.ResolveColor(name)
}

// Global reports whether the action may be triggered by system-wide input while the
// overlay does not have focus.
func (a Action) Global() bool {
	return a == ToggleDrawing || a == ToggleVisibility
}

// All returns every action that can carry a shortcut, sorted.
func All() []Action {
	var out []Action
	for _, t := range drawing.Tools {
		out = append(out, ForTool(t))
	}
	for _, c := range ShortcutColors {
		out = append(out, ForColor(c))
	}
	out = append(out, Undo, Redo, Clear, Spotlight, ToggleDrawing, ToggleVisibility, CopySnapshot)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
