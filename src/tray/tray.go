package tray

import (
	"fmt"
	"log"
	"sync"

	"github.com/getlantern/systray"

	"screen-annotator/src/toolstate"
)

// Config wires the menu entries. Callbacks run on the tray's goroutine and should only
// post events.
type Config struct {
	Title           string
	Tooltip         string
	OnShowHide      func()
	OnToggleDrawing func()
	OnClear         func()
	OnCopySnapshot  func()
	OnSettings      func()
	OnStrokeSize    func(size float64)
	OnExit          func()
}

// strokeSizes are the presets offered in the stroke size submenu.
var strokeSizes = []float64{2, 3, 5, 8, 12, 20}

// Tray is the system tray icon and menu. It implements eventloop.StatusSink.
type Tray struct {
	cfg Config

	mu      sync.Mutex
	drawing *systray.MenuItem
	status  toolstate.Snapshot
	ready   bool
}

func New(cfg Config) *Tray {
	if cfg.Title == "" {
		cfg.Title = "Screen Annotator"
	}
	if cfg.Tooltip == "" {
		cfg.Tooltip = cfg.Title
	}
	return &Tray{cfg: cfg, status: toolstate.Defaults()}
}

// Run blocks until Quit is called or the Quit item is chosen.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	if icon, err := Icon(); err != nil {
		log.Printf("tray: icon: %v", err)
	} else {
		systray.SetIcon(icon)
	}
	systray.SetTitle(t.cfg.Title)

	mShowHide := systray.AddMenuItem("Show/Hide", "Show or hide the overlay")
	mDrawing := systray.AddMenuItemCheckbox("Drawing mode", "Capture the pointer for drawing", true)
	systray.AddSeparator()
	mClear := systray.AddMenuItem("Clear screen", "Remove all annotations")
	mCopy := systray.AddMenuItem("Copy snapshot", "Copy the screen with annotations to the clipboard")
	mSettings := systray.AddMenuItem("Configure shortcuts", "Edit keyboard and mouse shortcuts")
	mSize := systray.AddMenuItem("Stroke size", "Set the stroke size of new annotations")
	for _, size := range strokeSizes {
		item := mSize.AddSubMenuItem(fmt.Sprintf("%g px", size), "")
		go func(size float64) {
			for range item.ClickedCh {
				if t.cfg.OnStrokeSize != nil {
					t.cfg.OnStrokeSize(size)
				}
			}
		}(size)
	}
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	t.mu.Lock()
	t.drawing = mDrawing
	t.ready = true
	status := t.status
	t.mu.Unlock()
	t.apply(status)

	go func() {
		for {
			select {
			case <-mShowHide.ClickedCh:
				call(t.cfg.OnShowHide)
			case <-mDrawing.ClickedCh:
				call(t.cfg.OnToggleDrawing)
			case <-mClear.ClickedCh:
				call(t.cfg.OnClear)
			case <-mCopy.ClickedCh:
				call(t.cfg.OnCopySnapshot)
			case <-mSettings.ClickedCh:
				call(t.cfg.OnSettings)
			case <-mQuit.ClickedCh:
				log.Printf("tray: quit requested")
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	call(t.cfg.OnExit)
}

// SetStatus mirrors the tool state into the checkbox and tooltip.
func (t *Tray) SetStatus(s toolstate.Snapshot) {
	t.mu.Lock()
	t.status = s
	ready := t.ready
	t.mu.Unlock()
	if ready {
		t.apply(s)
	}
}

func (t *Tray) apply(s toolstate.Snapshot) {
	t.mu.Lock()
	item := t.drawing
	t.mu.Unlock()
	if item != nil {
		if s.DrawingMode {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
	systray.SetTooltip(tooltip(t.cfg.Tooltip, s))
}

func tooltip(prefix string, s toolstate.Snapshot) string {
	mode := "drawing"
	if !s.DrawingMode {
		mode = "pass-through"
	}
	tip := fmt.Sprintf("%s - %s, %s %g, %s", prefix, s.Tool, s.Color, s.StrokeSize, mode)
	if s.Spotlight {
		tip += ", spotlight"
	}
	return tip
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
