//go:build windows

package notification

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func showMessageBox(title, message string) error {
	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return fmt.Errorf("encode title: %w", err)
	}
	messagePtr, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	_, err = windows.MessageBox(0, messagePtr, titlePtr, windows.MB_OK|windows.MB_ICONERROR|windows.MB_TOPMOST)
	return err
}
