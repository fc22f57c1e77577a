package clipboard

import (
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
	writeMu  sync.Mutex
)

// Init prepares the system clipboard. It is safe to call more than once.
func Init() error {
	initOnce.Do(func() { initErr = clipboard.Init() })
	return initErr
}

// WriteImage puts PNG-encoded bytes on the clipboard.
func WriteImage(png []byte) error {
	return write(clipboard.FmtImage, png)
}

// Write puts text on the clipboard.
func Write(text string) error {
	return write(clipboard.FmtText, []byte(text))
}

// write is mutex-guarded so parallel writers cannot interleave.
func write(format clipboard.Format, data []byte) error {
	if err := Init(); err != nil {
		return err
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	clipboard.Write(format, data)
	return nil
}
