package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"runtime"
	"testing"

	"screen-annotator/src/drawing"
	"screen-annotator/src/toolstate"
)

func TestTooltip(t *testing.T) {
	s := toolstate.Defaults()
	if got := tooltip("Screen Annotator", s); got != "Screen Annotator - pen, #FF0000 3, drawing" {
		t.Errorf("unexpected tooltip %q", got)
	}
	s.Tool = drawing.ToolArrow
	s.DrawingMode = false
	s.Spotlight = true
	if got := tooltip("SA", s); got != "SA - arrow, #FF0000 3, pass-through, spotlight" {
		t.Errorf("unexpected tooltip %q", got)
	}
}

func TestIcon(t *testing.T) {
	data, err := Icon()
	if err != nil {
		t.Fatalf("Icon failed: %v", err)
	}
	if runtime.GOOS == "windows" {
		data = data[22:]
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode icon: %v", err)
	}
	if b := img.Bounds(); b.Dx() != iconSize || b.Dy() != iconSize {
		t.Errorf("unexpected icon bounds %v", b)
	}
}

func TestWrapICO(t *testing.T) {
	payload := []byte("\x89PNGdata")
	ico := wrapICO(payload, 32)
	if len(ico) != 22+len(payload) {
		t.Fatalf("unexpected length %d", len(ico))
	}
	le := binary.LittleEndian
	if le.Uint16(ico[2:]) != 1 || le.Uint16(ico[4:]) != 1 {
		t.Error("Expected a single-image icon header")
	}
	if ico[6] != 32 || ico[7] != 32 {
		t.Errorf("unexpected dimensions %d x %d", ico[6], ico[7])
	}
	if le.Uint32(ico[14:]) != uint32(len(payload)) || le.Uint32(ico[18:]) != 22 {
		t.Error("unexpected size or offset")
	}
	if !bytes.Equal(ico[22:], payload) {
		t.Error("Expected the PNG payload after the header")
	}
}
