package stroke

import (
	"log"

	"screen-annotator/src/drawing"
	"screen-annotator/src/toolstate"
)

// StyleSource supplies the current tool and style settings.
type StyleSource interface {
	Snapshot() toolstate.Snapshot
}

// State is the gesture state.
type State int

const (
	Idle State = iota
	Active
	TextEntry
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case TextEntry:
		return "text-entry"
	default:
		return "idle"
	}
}

// Outcome reports what a pointer-down did.
type Outcome int

const (
	Ignored Outcome = iota
	Started
	TextEntryOpened
)

// Session turns one pointer gesture into at most one drawable.
// Tool, colour, width and opacity are frozen when the gesture begins; box and segment
// tools pick up colour and size changes on every move since they are recomputed.
type Session struct {
	style   StyleSource
	state   State
	frozen  toolstate.Snapshot
	id      string
	start   drawing.Point
	current drawing.Drawable
}

// New returns an idle session reading its settings from style.
func New(style StyleSource) *Session {
	return &Session{style: style}
}

func (s *Session) State() State { return s.state }

// Current returns the in-progress drawable, or nil.
func (s *Session) Current() drawing.Drawable { return s.current }

// TextAnchor returns where the text-entry surface was opened.
func (s *Session) TextAnchor() (drawing.Point, bool) {
	return s.start, s.state == TextEntry
}

// Begin handles a pointer-down at p.
func (s *Session) Begin(p drawing.Point) Outcome {
	if s.state != Idle {
		return Ignored
	}
	snap := s.style.Snapshot()
	if !snap.DrawingMode || snap.Spotlight {
		return Ignored
	}
	s.frozen = snap
	s.id = drawing.NewID()
	s.start = p
	s.current = nil

	if snap.Tool == drawing.ToolText {
		s.state = TextEntry
		return TextEntryOpened
	}

	s.state = Active
	if snap.Tool.IsPath() {
		s.current = s.pathWith([]drawing.Point{p})
	}
	return Started
}

// Move handles a pointer-move at p and reports whether the in-progress drawable changed.
func (s *Session) Move(p drawing.Point) bool {
	if s.state != Active {
		return false
	}
	live := s.style.Snapshot()
	if !live.DrawingMode {
		return false
	}

	tool := s.frozen.Tool
	switch {
	case tool.IsPath():
		var prev []drawing.Point
		switch d := s.current.(type) {
		case drawing.Path:
			prev = d.Points
		case drawing.Eraser:
			prev = d.Points
		}
		points := make([]drawing.Point, len(prev), len(prev)+1)
		copy(points, prev)
		s.current = s.pathWith(append(points, p))
	case tool.IsBox():
		box := drawing.NormalizeBox(s.start, p)
		width := tool.StrokeWidth(live.StrokeSize)
		opacity := tool.Preset().Opacity
		if tool == drawing.ToolCircle {
			s.current = drawing.Circle{ID: s.id, Color: live.Color, StrokeWidth: width, Opacity: opacity, Box: box}
		} else {
			s.current = drawing.Rectangle{ID: s.id, Color: live.Color, StrokeWidth: width, Opacity: opacity, Box: box}
		}
	case tool.IsSegment():
		s.current = drawing.LineSeg{
			ID:          s.id,
			Color:       live.Color,
			StrokeWidth: tool.StrokeWidth(live.StrokeSize),
			Opacity:     tool.Preset().Opacity,
			Start:       s.start,
			End:         p,
			Arrow:       tool == drawing.ToolArrow,
		}
	default:
		return false
	}
	return true
}

// End handles pointer-up (and pointer-leave). It returns the finished drawable, or nil
// when the gesture produced none.
func (s *Session) End() drawing.Drawable {
	if s.state != Active {
		return nil
	}
	d := s.current
	s.reset()
	return d
}

// Cancel abandons the gesture or text entry in progress.
func (s *Session) Cancel() {
	if s.state != Idle {
		log.Printf("stroke: %s gesture cancelled", s.state)
	}
	s.reset()
}

// ConfirmText finishes text entry. Blank text aborts and returns nil.
func (s *Session) ConfirmText(text string) drawing.Drawable {
	if s.state != TextEntry {
		return nil
	}
	t, ok := drawing.NewText(s.id, s.frozen.Color, s.frozen.StrokeSize, s.start, text)
	s.reset()
	if !ok {
		return nil
	}
	return t
}

// CancelText aborts text entry.
func (s *Session) CancelText() {
	if s.state == TextEntry {
		s.reset()
	}
}

func (s *Session) pathWith(points []drawing.Point) drawing.Drawable {
	color, width, opacity := s.frozen.Style()
	if s.frozen.Tool == drawing.ToolEraser {
		return drawing.Eraser{ID: s.id, StrokeWidth: width, Points: points}
	}
	return drawing.Path{ID: s.id, Color: color, StrokeWidth: width, Opacity: opacity, Points: points}
}

func (s *Session) reset() {
	s.state = Idle
	s.current = nil
	s.id = ""
}
