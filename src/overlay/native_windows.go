//go:build windows

package overlay

import (
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
	"golang.org/x/sys/windows"
)

const (
	wsExLayered     = 0x00080000
	wsExTransparent = 0x00000020
	wsExToolWindow  = 0x00000080
	lwaColorKey     = 0x00000001
	swpNoMove       = 0x0002
	swpNoSize       = 0x0001
)

var (
	user32                         = windows.NewLazySystemDLL("user32.dll")
	procGetWindowLongPtrW          = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW          = user32.NewProc("SetWindowLongPtrW")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
	procSetWindowPos               = user32.NewProc("SetWindowPos")

	exStyleIndex = int32(-20) // GWL_EXSTYLE
	hwndTopmost  = int32(-1)  // HWND_TOPMOST
)

// keyColor is painted wherever nothing is drawn; the layered window makes it see-through.
var keyColor = color.NRGBA{R: 1, G: 2, B: 3, A: 255}

// prepareWindow turns the window into a top-most layered tool window keyed on keyColor.
func prepareWindow(w fyne.Window) {
	withHWND(w, func(hwnd uintptr) {
		style, _, _ := procGetWindowLongPtrW.Call(hwnd, uintptr(exStyleIndex))
		procSetWindowLongPtrW.Call(hwnd, uintptr(exStyleIndex), style|wsExLayered|wsExToolWindow)
		key := uintptr(keyColor.R) | uintptr(keyColor.G)<<8 | uintptr(keyColor.B)<<16 // COLORREF
		if ret, _, err := procSetLayeredWindowAttributes.Call(hwnd, key, 0, lwaColorKey); ret == 0 {
			log.Printf("overlay: SetLayeredWindowAttributes failed: %v", err)
		}
		procSetWindowPos.Call(hwnd, uintptr(hwndTopmost), 0, 0, 0, 0, swpNoMove|swpNoSize)
	})
}

// setClickThrough toggles WS_EX_TRANSPARENT so pointer input reaches the windows below.
func setClickThrough(w fyne.Window, ignore bool) {
	withHWND(w, func(hwnd uintptr) {
		style, _, _ := procGetWindowLongPtrW.Call(hwnd, uintptr(exStyleIndex))
		if ignore {
			style |= wsExTransparent
		} else {
			style &^= wsExTransparent
		}
		procSetWindowLongPtrW.Call(hwnd, uintptr(exStyleIndex), style)
	})
}

func withHWND(w fyne.Window, fn func(hwnd uintptr)) {
	nw, ok := w.(driver.NativeWindow)
	if !ok {
		log.Printf("overlay: window has no native handle")
		return
	}
	nw.RunNative(func(ctx any) {
		if wc, ok := ctx.(driver.WindowsWindowContext); ok {
			fn(wc.HWND)
		}
	})
}
