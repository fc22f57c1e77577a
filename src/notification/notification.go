package notification

import (
	"log"

	"screen-annotator/src/logutil"
)

const maxMessageLen = 500

// ShowBlockingError reports a problem that stops the overlay from starting. On Windows it
// opens a message box and returns once the user dismisses it; elsewhere it only logs.
func ShowBlockingError(title, message string) {
	log.Printf("%s: %s", title, logutil.Sanitize(message))
	if err := showMessageBox(title, truncate(message, maxMessageLen)); err != nil {
		log.Printf("Failed to show message box: %v", err)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
