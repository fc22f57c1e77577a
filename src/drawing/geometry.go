package drawing

import (
	"math"
	"strings"
)

const (
	arrowHeadFactor = 4
	arrowHeadAngle  = math.Pi / 6
)

// NormalizeBox returns the box spanned by two corners, whichever diagonal they describe.
func NormalizeBox(start, cur Point) Box {
	return Box{
		X:      math.Min(start.X, cur.X),
		Y:      math.Min(start.Y, cur.Y),
		Width:  math.Abs(cur.X - start.X),
		Height: math.Abs(cur.Y - start.Y),
	}
}

// ArrowHead returns the head triangle of an arrow: the tip at End followed by the two
// barbs, each 4x the stroke width long and 30 degrees off the shaft.
func ArrowHead(l LineSeg) [3]Point {
	angle := math.Atan2(l.End.Y-l.Start.Y, l.End.X-l.Start.X)
	length := l.StrokeWidth * arrowHeadFactor
	return [3]Point{
		l.End,
		{
			X: l.End.X - length*math.Cos(angle-arrowHeadAngle),
			Y: l.End.Y - length*math.Sin(angle-arrowHeadAngle),
		},
		{
			X: l.End.X - length*math.Cos(angle+arrowHeadAngle),
			Y: l.End.Y - length*math.Sin(angle+arrowHeadAngle),
		},
	}
}

// NewText builds a text drawable; it reports false when the text is blank.
func NewText(id, color string, size float64, at Point, text string) (Text, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Text{}, false
	}
	return Text{ID: id, Color: color, Size: size, X: at.X, Y: at.Y, Text: trimmed}, true
}
