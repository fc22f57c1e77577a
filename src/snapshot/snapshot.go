package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"

	"screen-annotator/src/clipboard"
	"screen-annotator/src/render"
	"screen-annotator/src/screenshot"
)

// CaptureFunc grabs the screen area under the overlay.
type CaptureFunc func() (*image.RGBA, error)

// WriteFunc receives the encoded PNG.
type WriteFunc func(png []byte) error

// Exporter copies the screen with the current annotations on top to the clipboard.
type Exporter struct {
	raster  *render.Rasterizer
	capture CaptureFunc
	write   WriteFunc
}

// New returns an exporter that captures the primary display and writes to the system
// clipboard.
func New(r *render.Rasterizer) *Exporter {
	return NewWith(r, capturePrimary, clipboard.WriteImage)
}

func NewWith(r *render.Rasterizer, capture CaptureFunc, write WriteFunc) *Exporter {
	return &Exporter{raster: r, capture: capture, write: write}
}

func capturePrimary() (*image.RGBA, error) {
	bounds, err := screenshot.PrimaryBounds()
	if err != nil {
		return nil, err
	}
	return screenshot.CaptureRect(bounds)
}

// Export matches eventloop.SnapshotFunc. The frame's spotlight is ignored by the caller.
func (e *Exporter) Export(ctx context.Context, f render.Frame) error {
	bg, err := e.capture()
	if err != nil {
		return fmt.Errorf("capture screen: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Compose(e.raster, bg, f)
	if err != nil {
		return err
	}
	if err := e.write(data); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	log.Printf("snapshot: copied %dx%d image (%d bytes)", bg.Bounds().Dx(), bg.Bounds().Dy(), len(data))
	return nil
}

// Compose paints the frame over bg and returns the result as PNG. Frame coordinates are
// relative to bg's top-left corner.
func Compose(r *render.Rasterizer, bg *image.RGBA, f render.Frame) ([]byte, error) {
	b := bg.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), bg, b.Min, draw.Src)
	layer := r.Render(f, b.Dx(), b.Dy())
	draw.Draw(out, out.Bounds(), layer, image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}
