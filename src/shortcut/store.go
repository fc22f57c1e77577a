package shortcut

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"screen-annotator/src/action"
)

const fileName = "shortcuts.json"

// DefaultPath returns <user config dir>/screen-annotator/shortcuts.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "screen-annotator", fileName), nil
}

// FileStore persists a shortcut map as JSON.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

func (f *FileStore) Path() string { return f.path }

// Load reads the stored map merged over the defaults. A missing or unreadable file
// yields the defaults; it never fails.
func (f *FileStore) Load() Map {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("shortcut: read %s: %v; using defaults", f.path, err)
		}
		return Defaults()
	}
	m, err := Decode(data)
	if err != nil {
		log.Printf("shortcut: %s is corrupt (%v); using defaults", f.path, err)
		return Defaults()
	}
	return m
}

// Save writes m atomically.
func (f *FileStore) Save(m Map) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create shortcut dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), fileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write shortcuts: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close shortcuts: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	log.Printf("shortcut: saved %d bindings to %s", len(m), f.path)
	return nil
}

// Decode parses a stored map and merges it over the defaults. Entries for unknown actions
// and malformed entries are skipped; a document that is not a JSON object is an error.
func Decode(data []byte) (Map, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode shortcuts: %w", err)
	}
	m := Defaults()
	for name, msg := range raw {
		a := action.Action(name)
		if _, known := m[a]; !known {
			log.Printf("shortcut: skipping unknown action %q", name)
			continue
		}
		var s Shortcut
		if err := json.Unmarshal(msg, &s); err != nil || !s.Valid() {
			log.Printf("shortcut: skipping malformed binding for %q", name)
			continue
		}
		if s.Key != nil {
			k := NormalizeKey(*s.Key)
			s.Key = &k
		}
		m[a] = s
	}
	return m, nil
}

// Encode renders m as indented JSON.
func Encode(m Map) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode shortcuts: %w", err)
	}
	return data, nil
}
