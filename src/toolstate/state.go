package toolstate

import (
	"screen-annotator/src/drawing"
)

const (
	DefaultStrokeSize    = 3
	MinStrokeSize        = 1
	MaxStrokeSize        = 50
	DefaultSpotlightSize = 200
	MinSpotlightSize     = 100
	MaxSpotlightSize     = 500
)

// Snapshot is a value copy of the tool and style settings.
type Snapshot struct {
	Tool          drawing.Tool
	Color         string
	StrokeSize    float64
	DrawingMode   bool
	Spotlight     bool
	SpotlightSize float64
}

// Style returns the colour, stroke width and opacity a gesture with the snapshot's tool uses.
func (s Snapshot) Style() (color string, width, opacity float64) {
	return s.Color, s.Tool.StrokeWidth(s.StrokeSize), s.Tool.Preset().Opacity
}

// State is the owned, mutable tool configuration. The event loop passes it by reference
// to whoever needs it; gestures read it through Snapshot.
type State struct {
	snap Snapshot
}

// Defaults returns the startup settings.
func Defaults() Snapshot {
	return Snapshot{
		Tool:          drawing.ToolPen,
		Color:         drawing.DefaultColor,
		StrokeSize:    DefaultStrokeSize,
		DrawingMode:   true,
		SpotlightSize: DefaultSpotlightSize,
	}
}

// New returns a state initialised from initial; out-of-range values are clamped and
// invalid tool or colour values fall back to the defaults.
func New(initial Snapshot) *State {
	s := &State{snap: Defaults()}
	s.SetTool(initial.Tool)
	s.SetColor(initial.Color)
	if initial.StrokeSize != 0 {
		s.SetStrokeSize(initial.StrokeSize)
	}
	if initial.SpotlightSize != 0 {
		s.SetSpotlightSize(initial.SpotlightSize)
	}
	s.snap.DrawingMode = initial.DrawingMode
	s.snap.Spotlight = initial.Spotlight
	return s
}

// Snapshot returns a copy of the current settings.
func (s *State) Snapshot() Snapshot { return s.snap }

func (s *State) SetTool(t drawing.Tool) bool {
	if _, ok := drawing.ParseTool(string(t)); !ok {
		return false
	}
	s.snap.Tool = t
	return true
}

func (s *State) SetColor(c string) bool {
	hex, ok := drawing.ResolveColor(c)
	if !ok {
		return false
	}
	s.snap.Color = hex
	return true
}

func (s *State) SetStrokeSize(size float64) {
	s.snap.StrokeSize = clamp(size, MinStrokeSize, MaxStrokeSize)
}

func (s *State) SetSpotlightSize(size float64) {
	s.snap.SpotlightSize = clamp(size, MinSpotlightSize, MaxSpotlightSize)
}

func (s *State) SetDrawingMode(on bool) { s.snap.DrawingMode = on }

// ToggleDrawingMode flips drawing mode and returns the new value.
func (s *State) ToggleDrawingMode() bool {
	s.snap.DrawingMode = !s.snap.DrawingMode
	return s.snap.DrawingMode
}

// ToggleSpotlight flips the spotlight and returns the new value.
func (s *State) ToggleSpotlight() bool {
	s.snap.Spotlight = !s.snap.Spotlight
	return s.snap.Spotlight
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
