package drawing

import "github.com/google/uuid"

// Point is a position in overlay-local pixels.
type Point struct {
	X float64
	Y float64
}

// Kind names a drawable variant the way it is shown in logs and tests.
type Kind string

const (
	KindPath      Kind = "path"
	KindEraser    Kind = "eraser"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindLine      Kind = "line"
	KindArrow     Kind = "arrow"
	KindText      Kind = "text"
)

// Drawable is one committed or in-progress visual entity.
// The set of implementations is closed: Path, Eraser, Rectangle, Circle, LineSeg and Text.
// Values are never mutated after they are handed to the history store.
type Drawable interface {
	Kind() Kind
	DrawableID() string
	drawable()
}

// NewID returns a fresh drawable identifier.
func NewID() string { return uuid.NewString() }

// Path is a freehand stroke (pen or highlighter).
type Path struct {
	ID          string
	Color       string
	StrokeWidth float64
	Opacity     float64
	Points      []Point
}

// Eraser is a freehand stroke that removes previously painted pixels.
type Eraser struct {
	ID          string
	StrokeWidth float64
	Points      []Point
}

// Box is an axis-aligned box with non-negative extent.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Rectangle is an outlined box.
type Rectangle struct {
	ID          string
	Color       string
	StrokeWidth float64
	Opacity     float64
	Box
}

// Circle is an outlined ellipse inscribed in its box.
type Circle struct {
	ID          string
	Color       string
	StrokeWidth float64
	Opacity     float64
	Box
}

// LineSeg is a straight segment, optionally finished with an arrow head at End.
type LineSeg struct {
	ID          string
	Color       string
	StrokeWidth float64
	Opacity     float64
	Start       Point
	End         Point
	Arrow       bool
}

// Text is a single typed label anchored at its top-left corner.
type Text struct {
	ID    string
	Color string
	Size  float64
	X     float64
	Y     float64
	Text  string
}

func (Path) Kind() Kind      { return KindPath }
func (Eraser) Kind() Kind    { return KindEraser }
func (Rectangle) Kind() Kind { return KindRectangle }
func (Circle) Kind() Kind    { return KindCircle }
func (Text) Kind() Kind      { return KindText }

func (l LineSeg) Kind() Kind {
	if l.Arrow {
		return KindArrow
	}
	return KindLine
}

func (p Path) DrawableID() string      { return p.ID }
func (e Eraser) DrawableID() string    { return e.ID }
func (r Rectangle) DrawableID() string { return r.ID }
func (c Circle) DrawableID() string    { return c.ID }
func (l LineSeg) DrawableID() string   { return l.ID }
func (t Text) DrawableID() string      { return t.ID }

func (Path) drawable()      {}
func (Eraser) drawable()    {}
func (Rectangle) drawable() {}
func (Circle) drawable()    {}
func (LineSeg) drawable()   {}
func (Text) drawable()      {}

// FontSize is the rendered glyph size for the text's stroke size.
func (t Text) FontSize() float64 { return t.Size * textSizeMultiplier }
