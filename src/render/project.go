package render

import (
	"log"

	"screen-annotator/src/drawing"
)

// Shape is the primitive an Op draws.
type Shape int

const (
	Polyline Shape = iota
	Rect
	Ellipse
	Polygon
	Label
)

// Composite is how an Op's coverage combines with what is already painted.
type Composite int

const (
	// SourceOver paints the op's colour over the buffer.
	SourceOver Composite = iota
	// DestinationOut removes previously painted pixels where the op covers them.
	DestinationOut
)

// Op is one draw operation. Ops are replayed strictly in order.
type Op struct {
	Key       string
	Shape     Shape
	Composite Composite
	// Points holds polyline and polygon vertices.
	Points []drawing.Point
	// Box holds rectangle and ellipse bounds, and the label's top-left corner.
	Box      drawing.Box
	Color    string
	Opacity  float64
	Width    float64
	Text     string
	FontSize float64
}

const headSuffix = "/head"

// Project turns the committed sequence and the optional in-progress drawable into draw
// operations in history order, the in-progress drawable last. It has no side effects.
func Project(committed []drawing.Drawable, live drawing.Drawable) []Op {
	ops := make([]Op, 0, len(committed)+2)
	for _, d := range committed {
		ops = append(ops, project(d)...)
	}
	if live != nil {
		ops = append(ops, project(live)...)
	}
	return ops
}

func project(d drawing.Drawable) []Op {
	switch v := d.(type) {
	case drawing.Path:
		return []Op{{
			Key:     v.ID,
			Shape:   Polyline,
			Points:  v.Points,
			Color:   v.Color,
			Opacity: v.Opacity,
			Width:   v.StrokeWidth,
		}}
	case drawing.Eraser:
		return []Op{{
			Key:       v.ID,
			Shape:     Polyline,
			Composite: DestinationOut,
			Points:    v.Points,
			Opacity:   1,
			Width:     v.StrokeWidth,
		}}
	case drawing.Rectangle:
		return []Op{{Key: v.ID, Shape: Rect, Box: v.Box, Color: v.Color, Opacity: v.Opacity, Width: v.StrokeWidth}}
	case drawing.Circle:
		return []Op{{Key: v.ID, Shape: Ellipse, Box: v.Box, Color: v.Color, Opacity: v.Opacity, Width: v.StrokeWidth}}
	case drawing.LineSeg:
		ops := []Op{{
			Key:     v.ID,
			Shape:   Polyline,
			Points:  []drawing.Point{v.Start, v.End},
			Color:   v.Color,
			Opacity: v.Opacity,
			Width:   v.StrokeWidth,
		}}
		if v.Arrow {
			head := drawing.ArrowHead(v)
			ops = append(ops, Op{
				Key:     v.ID + headSuffix,
				Shape:   Polygon,
				Points:  head[:],
				Color:   v.Color,
				Opacity: v.Opacity,
			})
		}
		return ops
	case drawing.Text:
		return []Op{{
			Key:      v.ID,
			Shape:    Label,
			Box:      drawing.Box{X: v.X, Y: v.Y},
			Color:    v.Color,
			Opacity:  1,
			Text:     v.Text,
			FontSize: v.FontSize(),
		}}
	default:
		log.Printf("render: unhandled drawable %T", d)
		return nil
	}
}

// Spotlight darkens everything except a circle around Center.
type Spotlight struct {
	Enabled  bool
	Center   drawing.Point
	Diameter float64
}

// Frame is everything the presenter needs to paint one overlay frame.
type Frame struct {
	Ops       []Op
	Spotlight Spotlight
}
