package overlay

import (
	"context"
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"screen-annotator/src/drawing"
	"screen-annotator/src/host"
	"screen-annotator/src/input"
	"screen-annotator/src/render"
	"screen-annotator/src/shortcut"
	"screen-annotator/src/worker"
)

// Shell is the Fyne host: a borderless full-screen window holding the drawing surface
// and the text-entry widget, plus the settings window on demand. It implements
// host.Shell and eventloop.Presenter.
type Shell struct {
	app     fyne.App
	win     fyne.Window
	surface *surface
	entry   *textEntry
	store   *shortcut.FileStore
	pool    *worker.Pool
	keys    modTracker

	mu      sync.Mutex
	post    PostFunc
	drawing bool
	visible bool

	// settings is only touched on the Fyne main goroutine.
	settings fyne.Window
}

var _ host.Shell = (*Shell)(nil)

// New builds the overlay window. Call it on the main goroutine before app.Run, then
// Attach the event loop's Post.
func New(app fyne.App, r *render.Rasterizer, store *shortcut.FileStore, pool *worker.Pool) *Shell {
	s := &Shell{app: app, store: store, pool: pool, drawing: true, visible: true}

	if drv, ok := app.Driver().(desktop.Driver); ok {
		s.win = drv.CreateSplashWindow()
	} else {
		s.win = app.NewWindow("Screen Annotator")
	}
	s.win.SetTitle("Screen Annotator")
	s.win.SetPadded(false)
	s.win.SetFullScreen(true)

	s.surface = newSurface(r, s.postEvent)
	s.entry = newTextEntry(s.postEvent)
	s.win.SetContent(container.NewStack(s.surface, container.NewWithoutLayout(s.entry)))

	if dc, ok := s.win.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(s.keyDown)
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) { s.keys.up(ev.Name) })
	}
	app.Lifecycle().SetOnStarted(func() {
		prepareWindow(s.win)
		s.mu.Lock()
		ignore := !s.drawing
		s.mu.Unlock()
		setClickThrough(s.win, ignore)
	})
	return s
}

// Attach sets where the window's input goes.
func (s *Shell) Attach(post PostFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.post = post
}

// Show displays the overlay window.
func (s *Shell) Show() { s.win.Show() }

func (s *Shell) postEvent(ev input.Event) bool {
	s.mu.Lock()
	post := s.post
	s.mu.Unlock()
	if post == nil {
		log.Printf("overlay: dropping %T, no loop attached", ev)
		return false
	}
	return post(ev)
}

func (s *Shell) keyDown(ev *fyne.KeyEvent) {
	if s.keys.down(ev.Name) {
		return
	}
	s.postEvent(input.KeyPressed{Key: s.keys.keyEvent(ev.Name)})
}

// Present implements eventloop.Presenter.
func (s *Shell) Present(f render.Frame) { s.surface.setFrame(f) }

// SetIgnoreMouse follows the loop's drawing mode: pointer input passes through while
// drawing is off.
func (s *Shell) SetIgnoreMouse(ignore bool) {
	s.mu.Lock()
	s.drawing = !ignore
	s.mu.Unlock()
	fyne.Do(func() { setClickThrough(s.win, ignore) })
}

// Minimize hides the overlay, or brings it back when already hidden.
func (s *Shell) Minimize() { s.ToggleVisible() }

func (s *Shell) ToggleVisible() {
	s.mu.Lock()
	s.visible = !s.visible
	visible := s.visible
	s.mu.Unlock()
	fyne.Do(func() {
		if visible {
			s.win.Show()
		} else {
			s.win.Hide()
		}
	})
	log.Printf("overlay: visible=%v", visible)
}

// ToggleDrawingMode flips the mode and reports it back as a drawing-mode-changed
// command. The post happens off the caller's goroutine because the caller may be the
// event loop itself.
func (s *Shell) ToggleDrawingMode() {
	s.mu.Lock()
	s.drawing = !s.drawing
	on := s.drawing
	s.mu.Unlock()
	go s.postEvent(input.Command{Command: host.Command{Name: host.DrawingModeChanged, Enabled: on}})
}

// PersistShortcuts saves m on the worker pool and reports the result as a JobFinished event.
func (s *Shell) PersistShortcuts(m shortcut.Map) {
	store := s.store
	ok := s.pool.Submit(context.Background(), "persist-shortcuts", func(context.Context) error {
		return store.Save(m)
	}, func(name string, err error) {
		s.postEvent(input.JobFinished{Name: name, Err: err})
	})
	if !ok {
		log.Printf("overlay: persist queue full, shortcuts not saved")
	}
}

func (s *Shell) OpenSettings(m shortcut.Map) {
	fyne.Do(func() { s.showSettings(m) })
}

func (s *Shell) OpenTextEntry(at drawing.Point) {
	pos := s.surface.toPosition(at)
	fyne.Do(func() {
		s.entry.open(pos)
		s.win.Canvas().Focus(s.entry)
	})
}

func (s *Shell) CloseTextEntry() {
	fyne.Do(func() {
		s.entry.close()
		s.win.Canvas().Unfocus()
		s.keys.reset()
	})
}
