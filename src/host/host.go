package host

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"screen-annotator/src/drawing"
	"screen-annotator/src/shortcut"
)

// CommandName identifies a command sent from the host shell (tray, window, IPC) to the core.
type CommandName string

const (
	ClearCanvas        CommandName = "clear-canvas"
	Undo               CommandName = "undo"
	Redo               CommandName = "redo"
	SetTool            CommandName = "set-tool"
	ToggleSpotlight    CommandName = "toggle-spotlight"
	DrawingModeChanged CommandName = "drawing-mode-changed"
	OpenSettings       CommandName = "open-settings"
	SetStrokeSize      CommandName = "set-stroke-size"
	SetSpotlightSize   CommandName = "set-spotlight-size"
	SetColor           CommandName = "set-color"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command is one host-to-core command. Tool is set for set-tool, Enabled for
// drawing-mode-changed, Size for the size setters and Color for set-color.
type Command struct {
	Name    CommandName
	Tool    drawing.Tool
	Enabled bool
	Size    float64
	Color   string
}

// String renders the command in its line form, e.g. "set-tool arrow".
func (c Command) String() string {
	switch c.Name {
	case SetTool:
		return fmt.Sprintf("%s %s", c.Name, c.Tool)
	case DrawingModeChanged:
		return fmt.Sprintf("%s %t", c.Name, c.Enabled)
	case SetStrokeSize, SetSpotlightSize:
		return fmt.Sprintf("%s %g", c.Name, c.Size)
	case SetColor:
		return fmt.Sprintf("%s %s", c.Name, c.Color)
	default:
		return string(c.Name)
	}
}

// ParseCommand parses the line form produced by Command.String.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}
	name := CommandName(strings.ToLower(fields[0]))
	args := fields[1:]
	switch name {
	case ClearCanvas, Undo, Redo, ToggleSpotlight, OpenSettings:
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", name)
		}
		return Command{Name: name}, nil
	case SetTool:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%s needs a tool name", name)
		}
		tool, ok := drawing.ParseTool(args[0])
		if !ok {
			return Command{}, fmt.Errorf("%s: unknown tool %q", name, args[0])
		}
		return Command{Name: name, Tool: tool}, nil
	case DrawingModeChanged:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%s needs true or false", name)
		}
		on, err := strconv.ParseBool(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("%s: %w", name, err)
		}
		return Command{Name: name, Enabled: on}, nil
	case SetStrokeSize, SetSpotlightSize:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%s needs a size", name)
		}
		size, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return Command{}, fmt.Errorf("%s: %w", name, err)
		}
		if !(size > 0) || math.IsInf(size, 0) {
			return Command{}, fmt.Errorf("%s: size must be positive, got %q", name, args[0])
		}
		return Command{Name: name, Size: size}, nil
	case SetColor:
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%s needs a preset name or #RRGGBB", name)
		}
		hex, ok := drawing.ResolveColor(args[0])
		if !ok {
			return Command{}, fmt.Errorf("%s: invalid color %q", name, args[0])
		}
		return Command{Name: name, Color: hex}, nil
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
}

// Shell is what the core asks of the host window.
type Shell interface {
	// SetIgnoreMouse lets pointer input pass through the overlay.
	SetIgnoreMouse(ignore bool)
	Minimize()
	ToggleDrawingMode()
	PersistShortcuts(m shortcut.Map)
	OpenSettings(m shortcut.Map)
	OpenTextEntry(at drawing.Point)
	CloseTextEntry()
}
