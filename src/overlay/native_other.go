//go:build !windows

package overlay

import (
	"image/color"
	"log"

	"fyne.io/fyne/v2"
)

var keyColor = color.NRGBA{}

func prepareWindow(fyne.Window) {
	log.Printf("overlay: see-through window not supported on this platform")
}

func setClickThrough(_ fyne.Window, ignore bool) {
	log.Printf("overlay: click-through (%v) not supported on this platform", ignore)
}
