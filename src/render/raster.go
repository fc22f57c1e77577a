package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"sync"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"screen-annotator/src/drawing"
)

const spotlightAlpha = 0.7

// Rasterizer paints frames into RGBA buffers. The same frame always produces the same
// pixels. It is safe for concurrent use.
type Rasterizer struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewRasterizer loads the bundled Go Regular face used for text labels.
func NewRasterizer() (*Rasterizer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Rasterizer{font: f, faces: make(map[float64]font.Face)}, nil
}

// Render paints the frame on a transparent w x h buffer.
func (r *Rasterizer) Render(f Frame, w, h int) *image.NRGBA {
	img := r.Draw(f.Ops, w, h)
	if f.Spotlight.Enabled {
		r.drawSpotlight(img, f.Spotlight)
	}
	return img
}

// Draw replays ops in order on a transparent w x h buffer.
func (r *Rasterizer) Draw(ops []Op, w, h int) *image.NRGBA {
	bounds := image.Rect(0, 0, w, h)
	dst := image.NewNRGBA(bounds)
	if w <= 0 || h <= 0 {
		return dst
	}
	c := newCanvas(bounds)
	for _, op := range ops {
		area := opBounds(op).Intersect(bounds)
		if op.Shape == Label {
			area = bounds
		}
		if area.Empty() {
			continue
		}
		c.reset(area)
		if !r.cover(c, op) {
			continue
		}
		composite(dst, c.mask, area, op)
	}
	return dst
}

// canvas holds the coverage mask and the rasterx pipeline writing into it.
type canvas struct {
	mask    *image.Alpha
	scanner *rasterx.ScannerGV
	stroker *rasterx.Stroker
	filler  *rasterx.Filler
}

func newCanvas(bounds image.Rectangle) *canvas {
	w, h := bounds.Dx(), bounds.Dy()
	mask := image.NewAlpha(bounds)
	scanner := rasterx.NewScannerGV(w, h, mask, bounds)
	c := &canvas{
		mask:    mask,
		scanner: scanner,
		stroker: rasterx.NewStroker(w, h, scanner),
		filler:  rasterx.NewFiller(w, h, scanner),
	}
	c.stroker.SetColor(color.Alpha{A: 0xff})
	c.filler.SetColor(color.Alpha{A: 0xff})
	return c
}

func (c *canvas) reset(area image.Rectangle) {
	for y := area.Min.Y; y < area.Max.Y; y++ {
		clear(c.mask.Pix[c.mask.PixOffset(area.Min.X, y):c.mask.PixOffset(area.Max.X, y)])
	}
	c.stroker.Clear()
	c.filler.Clear()
	c.scanner.SetClip(area)
}

// cover rasterises the op's coverage into the canvas mask and reports whether anything
// was drawn.
func (r *Rasterizer) cover(c *canvas, op Op) bool {
	switch op.Shape {
	case Polyline:
		return c.polyline(op.Points, op.Width)
	case Rect:
		if op.Box.Width == 0 && op.Box.Height == 0 {
			return false
		}
		c.setStroke(op.Width, rasterx.ButtCap, rasterx.Miter)
		rasterx.AddRect(op.Box.X, op.Box.Y, op.Box.X+op.Box.Width, op.Box.Y+op.Box.Height, 0, c.stroker)
		c.stroker.Draw()
		return true
	case Ellipse:
		if op.Box.Width == 0 || op.Box.Height == 0 {
			return false
		}
		rx, ry := op.Box.Width/2, op.Box.Height/2
		c.setStroke(op.Width, rasterx.RoundCap, rasterx.Round)
		rasterx.AddEllipse(op.Box.X+rx, op.Box.Y+ry, rx, ry, 0, c.stroker)
		c.stroker.Draw()
		return true
	case Polygon:
		if len(op.Points) < 3 {
			return false
		}
		c.filler.Start(toFixed(op.Points[0]))
		for _, p := range op.Points[1:] {
			c.filler.Line(toFixed(p))
		}
		c.filler.Stop(true)
		c.filler.Draw()
		return true
	case Label:
		return r.label(c.mask, op)
	default:
		log.Printf("render: unhandled shape %d", op.Shape)
		return false
	}
}

func (c *canvas) setStroke(width float64, capFn rasterx.CapFunc, join rasterx.JoinMode) {
	c.stroker.SetStroke(fixed.Int26_6(width*64), fixed.Int26_6(4*64), capFn, capFn, rasterx.RoundGap, join)
}

func (c *canvas) polyline(points []drawing.Point, width float64) bool {
	switch distinct(points) {
	case 0:
		return false
	case 1:
		// A tap with a path tool paints a round dot the size of the stroke.
		rasterx.AddEllipse(points[0].X, points[0].Y, width/2, width/2, 0, c.filler)
		c.filler.Draw()
		return true
	}
	c.setStroke(width, rasterx.RoundCap, rasterx.Round)
	c.stroker.Start(toFixed(points[0]))
	for _, p := range points[1:] {
		c.stroker.Line(toFixed(p))
	}
	c.stroker.Stop(false)
	c.stroker.Draw()
	return true
}

func (r *Rasterizer) label(mask *image.Alpha, op Op) bool {
	if op.Text == "" || op.FontSize <= 0 {
		return false
	}
	face, err := r.face(op.FontSize)
	if err != nil {
		log.Printf("render: %v", err)
		return false
	}
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(int(math.Round(op.Box.X)), int(math.Round(op.Box.Y))+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(op.Text)
	return true
}

func (r *Rasterizer) face(size float64) (font.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("font face %.1f: %w", size, err)
	}
	r.faces[size] = f
	return f, nil
}

func composite(dst *image.NRGBA, mask *image.Alpha, area image.Rectangle, op Op) {
	if op.Composite == DestinationOut {
		erase(dst, mask, area)
		return
	}
	c, err := drawing.ParseHex(op.Color)
	if err != nil {
		log.Printf("render: op %s: %v", op.Key, err)
		return
	}
	c.A = uint8(math.Round(float64(c.A) * clamp01(op.Opacity)))
	draw.DrawMask(dst, area, image.NewUniform(c), image.Point{}, mask, area.Min, draw.Over)
}

// erase scales destination alpha by the uncovered fraction of each mask pixel. NRGBA is
// not premultiplied, so colour channels stay as they are.
func erase(dst *image.NRGBA, mask *image.Alpha, area image.Rectangle) {
	area = area.Intersect(dst.Bounds()).Intersect(mask.Bounds())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			m := uint32(mask.AlphaAt(x, y).A)
			if m == 0 {
				continue
			}
			i := dst.PixOffset(x, y) + 3
			dst.Pix[i] = uint8(uint32(dst.Pix[i]) * (255 - m) / 255)
		}
	}
}

func (r *Rasterizer) drawSpotlight(dst *image.NRGBA, s Spotlight) {
	bounds := dst.Bounds()
	layer := image.NewNRGBA(bounds)
	shade := color.NRGBA{A: uint8(math.Round(255 * spotlightAlpha))}
	draw.Draw(layer, bounds, image.NewUniform(shade), image.Point{}, draw.Src)

	radius := s.Diameter / 2
	hole := Op{
		Shape:     Ellipse,
		Composite: DestinationOut,
		Box:       drawing.Box{X: s.Center.X - radius, Y: s.Center.Y - radius, Width: s.Diameter, Height: s.Diameter},
	}
	area := opBounds(hole).Intersect(bounds)
	if !area.Empty() && radius > 0 {
		c := newCanvas(bounds)
		c.reset(area)
		rasterx.AddEllipse(s.Center.X, s.Center.Y, radius, radius, 0, c.filler)
		c.filler.Draw()
		composite(layer, c.mask, area, hole)
	}
	draw.Draw(dst, bounds, layer, bounds.Min, draw.Over)
}

// opBounds is a conservative pixel bound of what the op can touch.
func opBounds(op Op) image.Rectangle {
	pad := op.Width/2 + 2
	var minX, minY, maxX, maxY float64
	switch op.Shape {
	case Polyline, Polygon:
		if len(op.Points) == 0 {
			return image.Rectangle{}
		}
		minX, minY = op.Points[0].X, op.Points[0].Y
		maxX, maxY = minX, minY
		for _, p := range op.Points[1:] {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	default:
		minX, minY = op.Box.X, op.Box.Y
		maxX, maxY = op.Box.X+op.Box.Width, op.Box.Y+op.Box.Height
	}
	// Miter joins on rectangles can reach past half the width.
	pad += op.Width
	return image.Rect(
		int(math.Floor(minX-pad)), int(math.Floor(minY-pad)),
		int(math.Ceil(maxX+pad)), int(math.Ceil(maxY+pad)),
	)
}

func distinct(points []drawing.Point) int {
	switch len(points) {
	case 0:
		return 0
	case 1:
		return 1
	}
	for _, p := range points[1:] {
		if p != points[0] {
			return 2
		}
	}
	return 1
}

func toFixed(p drawing.Point) fixed.Point26_6 {
	return rasterx.ToFixedP(p.X, p.Y)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
