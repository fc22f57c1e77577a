//go:build !windows

package notification

func showMessageBox(title, message string) error { return nil }
