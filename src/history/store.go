package history

import (
	"log"

	"screen-annotator/src/drawing"
)

// Store owns the committed drawing list and the redo stack.
// It is not safe for concurrent use; the event loop goroutine is its only caller.
type Store struct {
	committed []drawing.Drawable
	// Each redo entry is reinstated as a unit. Undo pushes single-item entries,
	// Clear pushes the whole committed sequence as one entry.
	redo [][]drawing.Drawable
}

// New returns an empty store.
func New() *Store { return &Store{} }

// Commit appends d and drops all redo history.
func (s *Store) Commit(d drawing.Drawable) {
	if d == nil {
		return
	}
	s.committed = append(s.committed, d)
	s.redo = nil
}

// Undo moves the most recent drawable onto the redo stack. It reports false when there is
// nothing to undo.
func (s *Store) Undo() bool {
	n := len(s.committed)
	if n == 0 {
		return false
	}
	last := s.committed[n-1]
	s.committed = s.committed[:n-1:n-1]
	s.redo = append(s.redo, []drawing.Drawable{last})
	return true
}

// Redo reinstates the most recently undone entry. A cleared canvas comes back in full.
func (s *Store) Redo() bool {
	n := len(s.redo)
	if n == 0 {
		return false
	}
	entry := s.redo[n-1]
	s.redo = s.redo[:n-1]
	s.committed = append(s.committed, entry...)
	return true
}

// Clear moves the whole committed sequence into the redo stack, replacing whatever was
// there. A following Undo is a no-op; only Redo restores the cleared drawing.
func (s *Store) Clear() bool {
	if len(s.committed) == 0 {
		return false
	}
	log.Printf("history: clearing %d drawables", len(s.committed))
	s.redo = [][]drawing.Drawable{s.committed}
	s.committed = nil
	return true
}

// Committed returns a copy of the committed sequence, oldest first.
func (s *Store) Committed() []drawing.Drawable {
	out := make([]drawing.Drawable, len(s.committed))
	copy(out, s.committed)
	return out
}

// RedoPool returns a copy of the redo stack flattened in order, most recently undone last.
func (s *Store) RedoPool() []drawing.Drawable {
	var out []drawing.Drawable
	for _, entry := range s.redo {
		out = append(out, entry...)
	}
	return out
}

func (s *Store) Len() int { return len(s.committed) }

func (s *Store) CanUndo() bool { return len(s.committed) > 0 }

func (s *Store) CanRedo() bool { return len(s.redo) > 0 }
