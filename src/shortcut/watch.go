package shortcut

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the map whenever the file is written, replaced or removed, and passes the
// result to onChange. The parent directory is watched so atomic replacements are seen.
// It blocks until ctx is cancelled.
func (f *FileStore) Watch(ctx context.Context, onChange func(Map)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create shortcut dir: %w", err)
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Printf("shortcut: watching %s", f.path)

	target := filepath.Clean(f.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
				continue
			}
			log.Printf("shortcut: %s changed (%s), reloading", f.path, ev.Op)
			onChange(f.Load())
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("shortcut: watcher error: %v", err)
		}
	}
}
