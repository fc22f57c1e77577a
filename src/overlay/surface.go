package overlay

import (
	"image"
	"image/draw"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"screen-annotator/src/drawing"
	"screen-annotator/src/input"
	"screen-annotator/src/render"
)

// PostFunc delivers an event to the event loop.
type PostFunc func(input.Event) bool

// surface is the full-window drawing widget. It paints the latest frame and forwards
// pointer input as events; it keeps no drawing state of its own.
type surface struct {
	widget.BaseWidget

	raster *render.Rasterizer
	img    *canvas.Raster
	post   PostFunc

	mu      sync.Mutex
	frame   render.Frame
	pressed bool
}

var _ fyne.Widget = (*surface)(nil)
var _ fyne.Draggable = (*surface)(nil)
var _ desktop.Mouseable = (*surface)(nil)
var _ desktop.Hoverable = (*surface)(nil)

func newSurface(r *render.Rasterizer, post PostFunc) *surface {
	s := &surface{raster: r, post: post}
	s.img = canvas.NewRaster(s.generate)
	s.ExtendBaseWidget(s)
	return s
}

func (s *surface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.img)
}

// setFrame stores f and schedules a repaint. Safe from any goroutine.
func (s *surface) setFrame(f render.Frame) {
	s.mu.Lock()
	s.frame = f
	s.mu.Unlock()
	fyne.Do(s.img.Refresh)
}

// generate is the raster callback; w and h are in device pixels, as are frame coordinates.
func (s *surface) generate(w, h int) image.Image {
	s.mu.Lock()
	f := s.frame
	s.mu.Unlock()

	layer := s.raster.Render(f, w, h)
	if keyColor.A == 0 {
		return layer
	}
	out := image.NewNRGBA(layer.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(keyColor), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), layer, image.Point{}, draw.Over)
	return out
}

// scale converts canvas units to device pixels.
func (s *surface) scale() float32 {
	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(s); c != nil {
			return c.Scale()
		}
	}
	return 1
}

func (s *surface) toPoint(p fyne.Position) drawing.Point {
	sc := s.scale()
	return drawing.Point{X: float64(p.X * sc), Y: float64(p.Y * sc)}
}

func (s *surface) toPosition(p drawing.Point) fyne.Position {
	sc := s.scale()
	return fyne.NewPos(float32(p.X)/sc, float32(p.Y)/sc)
}

func (s *surface) MouseDown(e *desktop.MouseEvent) {
	if me, ok := mouseEvent(e); ok {
		s.post(input.MousePressed{Button: me})
	}
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	s.mu.Lock()
	s.pressed = true
	s.mu.Unlock()
	s.post(input.PointerDown{At: s.toPoint(e.Position)})
}

func (s *surface) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !s.release() {
		return
	}
	s.post(input.PointerUp{At: s.toPoint(e.Position)})
}

func (s *surface) Dragged(e *fyne.DragEvent) {
	s.post(input.PointerMove{At: s.toPoint(e.Position)})
}

func (s *surface) DragEnd() {}

func (s *surface) MouseIn(e *desktop.MouseEvent) {
	s.post(input.PointerMove{At: s.toPoint(e.Position)})
}

func (s *surface) MouseMoved(e *desktop.MouseEvent) {
	s.post(input.PointerMove{At: s.toPoint(e.Position)})
}

func (s *surface) MouseOut() {
	if s.release() {
		s.post(input.PointerLeave{})
	}
}

// release clears the pressed flag and reports whether it was set.
func (s *surface) release() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.pressed
	s.pressed = false
	return was
}
