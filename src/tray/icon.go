package tray

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/png"
	"runtime"

	"screen-annotator/src/drawing"
	"screen-annotator/src/render"
)

const iconSize = 32

// iconShapes is a red pen stroke under a blue frame.
var iconShapes = []drawing.Drawable{
	drawing.Rectangle{ID: "frame", Color: "#0078D4", StrokeWidth: 3, Opacity: 1, Box: drawing.Box{X: 3, Y: 3, Width: 26, Height: 26}},
	drawing.Path{ID: "stroke", Color: "#FF0000", StrokeWidth: 4, Opacity: 1, Points: []drawing.Point{
		{X: 8, Y: 22}, {X: 13, Y: 12}, {X: 18, Y: 20}, {X: 24, Y: 9},
	}},
}

// Icon renders the tray icon: PNG, wrapped in an ICO container on Windows.
func Icon() ([]byte, error) {
	r, err := render.NewRasterizer()
	if err != nil {
		return nil, err
	}
	img := r.Draw(render.Project(iconShapes, nil), iconSize, iconSize)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode icon: %w", err)
	}
	if runtime.GOOS == "windows" {
		return wrapICO(buf.Bytes(), iconSize), nil
	}
	return buf.Bytes(), nil
}

// wrapICO puts one PNG image into an ICO file (supported since Windows Vista).
func wrapICO(pngData []byte, size int) []byte {
	const headerLen = 6 + 16
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, [3]uint16{0, 1, 1}) // reserved, type=icon, count
	dim := uint8(size)
	if size >= 256 {
		dim = 0
	}
	buf.Write([]byte{dim, dim, 0, 0}) // width, height, palette, reserved
	_ = binary.Write(&buf, le, uint16(1))  // planes
	_ = binary.Write(&buf, le, uint16(32)) // bits per pixel
	_ = binary.Write(&buf, le, uint32(len(pngData)))
	_ = binary.Write(&buf, le, uint32(headerLen))
	buf.Write(pngData)
	return buf.Bytes()
}
