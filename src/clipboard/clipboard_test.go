package clipboard

import (
	"testing"
)

func TestWrite(t *testing.T) {
	if err := Init(); err != nil {
		t.Skipf("clipboard unavailable: %v", err)
	}
	if err := Write("test text"); err != nil {
		t.Errorf("Failed to write to clipboard: %v", err)
	}
}
