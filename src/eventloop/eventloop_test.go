package eventloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"screen-annotator/src/action"
	"screen-annotator/src/drawing"
	"screen-annotator/src/host"
	"screen-annotator/src/input"
	"screen-annotator/src/render"
	"screen-annotator/src/shortcut"
	"screen-annotator/src/toolstate"
)

type fakeShell struct {
	ignoreMouse []bool
	minimised   int
	toggled     int
	persisted   []shortcut.Map
	settings    int
	textOpen    bool
}

func (f *fakeShell) SetIgnoreMouse(ignore bool)     { f.ignoreMouse = append(f.ignoreMouse, ignore) }
func (f *fakeShell) Minimize()                      { f.minimised++ }
func (f *fakeShell) ToggleDrawingMode()             { f.toggled++ }
func (f *fakeShell) PersistShortcuts(m shortcut.Map) { f.persisted = append(f.persisted, m) }
func (f *fakeShell) OpenSettings(shortcut.Map)      { f.settings++ }
func (f *fakeShell) OpenTextEntry(drawing.Point)    { f.textOpen = true }
func (f *fakeShell) CloseTextEntry()                { f.textOpen = false }

type fakePresenter struct {
	mu     sync.Mutex
	frames []render.Frame
}

func (p *fakePresenter) Present(f render.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, f)
}

func (p *fakePresenter) last() render.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.frames) == 0 {
		return render.Frame{}
	}
	return p.frames[len(p.frames)-1]
}

func newLoop(opts Options) (*Loop, *fakeShell) {
	shell := &fakeShell{}
	return New(shell, &fakePresenter{}, opts), shell
}

func at(x, y float64) drawing.Point { return drawing.Point{X: x, Y: y} }

func TestPenGestureCommits(t *testing.T) {
	l, _ := newLoop(Options{})
	l.handle(input.PointerDown{At: at(10, 10)})
	l.handle(input.PointerMove{At: at(20, 10)})
	if ops := l.Frame().Ops; len(ops) != 1 {
		t.Fatalf("Expected the live stroke to be projected, got %d ops", len(ops))
	}
	l.handle(input.PointerMove{At: at(20, 20)})
	l.handle(input.PointerUp{At: at(20, 20)})

	committed := l.store.Committed()
	if len(committed) != 1 {
		t.Fatalf("Expected 1 committed drawable, got %d", len(committed))
	}
	p := committed[0].(drawing.Path)
	if len(p.Points) != 3 || p.Color != "#FF0000" || p.StrokeWidth != 3 {
		t.Errorf("unexpected path %+v", p)
	}
}

func TestPointerLeaveCommits(t *testing.T) {
	l, _ := newLoop(Options{})
	l.handle(input.ActionRequested{Action: action.ForTool(drawing.ToolRectangle)})
	l.handle(input.PointerDown{At: at(50, 40)})
	l.handle(input.PointerMove{At: at(10, 10)})
	l.handle(input.PointerLeave{})
	committed := l.store.Committed()
	if len(committed) != 1 {
		t.Fatalf("Expected commit on pointer-leave, got %d", len(committed))
	}
	r := committed[0].(drawing.Rectangle)
	if r.Box != (drawing.Box{X: 10, Y: 10, Width: 40, Height: 30}) {
		t.Errorf("unexpected box %+v", r.Box)
	}
}

func TestShortcutsDriveHistory(t *testing.T) {
	l, _ := newLoop(Options{})
	for i := 0; i < 2; i++ {
		l.handle(input.PointerDown{At: at(0, 0)})
		l.handle(input.PointerUp{At: at(0, 0)})
	}
	l.handle(input.KeyPressed{Key: shortcut.KeyEvent{Key: "z", Ctrl: true}})
	if l.store.Len() != 1 {
		t.Fatalf("Expected undo, got %d committed", l.store.Len())
	}
	l.handle(input.KeyPressed{Key: shortcut.KeyEvent{Key: "y", Ctrl: true}})
	l.handle(input.KeyPressed{Key: shortcut.KeyEvent{Key: "c", Ctrl: true, Shift: true}})
	if l.store.Len() != 0 || len(l.store.RedoPool()) != 2 {
		t.Fatalf("Expected clear, got %d committed", l.store.Len())
	}
	l.handle(input.Command{Command: host.Command{Name: host.Undo}})
	if l.store.Len() != 0 {
		t.Fatal("Expected undo after clear to be a no-op")
	}
	l.handle(input.Command{Command: host.Command{Name: host.Redo}})
	if l.store.Len() != 2 {
		t.Fatalf("Expected redo to restore the cleared drawing, got %d", l.store.Len())
	}
}

func TestGlobalKeysOnlyTriggerGlobalActions(t *testing.T) {
	l, shell := newLoop(Options{GlobalHotkeys: true})
	l.handle(input.PointerDown{At: at(0, 0)})
	l.handle(input.PointerUp{At: at(0, 0)})

	l.handle(input.KeyPressed{Key: shortcut.KeyEvent{Key: "z", Ctrl: true}, Global: true})
	if l.store.Len() != 1 {
		t.Error("Expected global undo press to be ignored")
	}
	l.handle(input.KeyPressed{Key: shortcut.KeyEvent{Key: "d", Ctrl: true, Shift: true}, Global: true})
	if shell.toggled != 1 {
		t.Errorf("Expected global toggle-drawing, got %d", shell.toggled)
	}
	l.handle(input.KeyPressed{Key: shortcut.KeyEvent{Key: "d", Ctrl: true, Shift: true}})
	if shell.toggled != 1 {
		t.Error("Expected local press of a global binding to be left to the global binder")
	}
	l.handle(input.KeyPressed{Key: shortcut.KeyEvent{Key: "a", Ctrl: true, Shift: true}, Global: true})
	if shell.minimised != 1 {
		t.Error("Expected global toggle-visibility")
	}
}

func TestLocalGlobalActionsWithoutBinder(t *testing.T) {
	l, shell := newLoop(Options{})
	l.handle(input.KeyPressed{Key: shortcut.KeyEvent{Key: "d", Ctrl: true, Shift: true}})
	if shell.toggled != 1 {
		t.Error("Expected local toggle-drawing when no global binder runs")
	}
}

func TestTextEntryFlow(t *testing.T) {
	l, shell := newLoop(Options{})
	l.handle(input.KeyPressed{Key: shortcut.KeyEvent{Key: "t"}})
	l.handle(input.PointerDown{At: at(30, 40)})
	if !shell.textOpen {
		t.Fatal("Expected text entry to open")
	}
	// shortcuts are suppressed while typing
	l.handle(input.KeyPressed{Key: shortcut.KeyEvent{Key: "1", Ctrl: true}})
	if l.tools.Snapshot().Tool != drawing.ToolText {
		t.Error("Expected shortcut to be suppressed during text entry")
	}
	l.handle(input.TextConfirmed{Text: "  note  "})
	if shell.textOpen {
		t.Error("Expected text entry to close")
	}
	committed := l.store.Committed()
	if len(committed) != 1 || committed[0].(drawing.Text).Text != "note" {
		t.Fatalf("unexpected commit %+v", committed)
	}

	l.handle(input.PointerDown{At: at(0, 0)})
	l.handle(input.TextConfirmed{Text: "   "})
	l.handle(input.PointerDown{At: at(0, 0)})
	l.handle(input.TextCancelled{})
	if l.store.Len() != 1 {
		t.Errorf("Expected blank and cancelled text to commit nothing, got %d", l.store.Len())
	}
}

func TestDrawingModeChanged(t *testing.T) {
	l, shell := newLoop(Options{})
	l.handle(input.PointerDown{At: at(0, 0)})
	l.handle(input.PointerMove{At: at(5, 5)})
	l.handle(input.Command{Command: host.Command{Name: host.DrawingModeChanged, Enabled: false}})
	if l.session.Current() != nil {
		t.Error("Expected gesture to be abandoned")
	}
	if n := len(shell.ignoreMouse); n == 0 || !shell.ignoreMouse[n-1] {
		t.Errorf("Expected click-through request, got %v", shell.ignoreMouse)
	}
	l.handle(input.PointerDown{At: at(0, 0)})
	l.handle(input.PointerUp{At: at(0, 0)})
	if l.store.Len() != 0 {
		t.Error("Expected no drawing while drawing mode is off")
	}
	l.handle(input.Command{Command: host.Command{Name: host.DrawingModeChanged, Enabled: true}})
	if n := len(shell.ignoreMouse); shell.ignoreMouse[n-1] {
		t.Error("Expected pointer capture to be requested again")
	}
}

func TestSizeCommandRestylesLiveRectangle(t *testing.T) {
	l, _ := newLoop(Options{})
	l.handle(input.Command{Command: host.Command{Name: host.SetTool, Tool: drawing.ToolRectangle}})
	l.handle(input.PointerDown{At: at(10, 10)})
	l.handle(input.PointerMove{At: at(40, 40)})
	if r := l.session.Current().(drawing.Rectangle); r.StrokeWidth != 3 {
		t.Fatalf("Expected default width 3, got %g", r.StrokeWidth)
	}

	l.handle(input.Command{Command: host.Command{Name: host.SetStrokeSize, Size: 10}})
	l.handle(input.Command{Command: host.Command{Name: host.SetColor, Color: "#0000FF"}})
	l.handle(input.PointerMove{At: at(60, 50)})
	r := l.session.Current().(drawing.Rectangle)
	if r.StrokeWidth != 10 || r.Color != "#0000FF" {
		t.Errorf("Expected live rectangle restyled to 10 #0000FF, got %g %s", r.StrokeWidth, r.Color)
	}
	l.handle(input.PointerUp{At: at(60, 50)})
	if c := l.store.Committed()[0].(drawing.Rectangle); c.StrokeWidth != 10 {
		t.Errorf("Expected committed width 10, got %g", c.StrokeWidth)
	}
}

func TestSizeCommandsClamp(t *testing.T) {
	tests := []struct {
		name  string
		cmd   host.Command
		field func(toolstate.Snapshot) float64
		want  float64
	}{
		{"stroke size", host.Command{Name: host.SetStrokeSize, Size: 12}, func(s toolstate.Snapshot) float64 { return s.StrokeSize }, 12},
		{"stroke size above max", host.Command{Name: host.SetStrokeSize, Size: 500}, func(s toolstate.Snapshot) float64 { return s.StrokeSize }, toolstate.MaxStrokeSize},
		{"spotlight size", host.Command{Name: host.SetSpotlightSize, Size: 320}, func(s toolstate.Snapshot) float64 { return s.SpotlightSize }, 320},
		{"spotlight size below min", host.Command{Name: host.SetSpotlightSize, Size: 10}, func(s toolstate.Snapshot) float64 { return s.SpotlightSize }, toolstate.MinSpotlightSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newLoop(Options{})
			if err := l.apply(tt.cmd); err != nil {
				t.Fatalf("apply failed: %v", err)
			}
			if got := tt.field(l.tools.Snapshot()); got != tt.want {
				t.Errorf("Expected %g, got %g", tt.want, got)
			}
		})
	}
}

func TestSetColorRejectsInvalid(t *testing.T) {
	l, _ := newLoop(Options{})
	if err := l.apply(host.Command{Name: host.SetColor, Color: "mauve"}); err == nil {
		t.Error("Expected an error for an unknown color")
	}
	if c := l.tools.Snapshot().Color; c != "#FF0000" {
		t.Errorf("Expected color unchanged, got %s", c)
	}
}

func TestSpotlightBlocksDrawing(t *testing.T) {
	l, _ := newLoop(Options{})
	l.handle(input.Command{Command: host.Command{Name: host.ToggleSpotlight}})
	l.handle(input.PointerMove{At: at(70, 80)})
	l.handle(input.PointerDown{At: at(70, 80)})
	l.handle(input.PointerUp{At: at(70, 80)})
	if l.store.Len() != 0 {
		t.Error("Expected no drawing while spotlight is on")
	}
	f := l.Frame()
	if !f.Spotlight.Enabled || f.Spotlight.Center != at(70, 80) || f.Spotlight.Diameter != 200 {
		t.Errorf("unexpected spotlight %+v", f.Spotlight)
	}
}

func TestSettingsFlow(t *testing.T) {
	l, shell := newLoop(Options{})
	l.handle(input.Command{Command: host.Command{Name: host.OpenSettings}})
	if shell.settings != 1 {
		t.Fatal("Expected settings to open")
	}
	l.handle(input.KeyPressed{Key: shortcut.KeyEvent{Key: "5", Ctrl: true}})
	if l.tools.Snapshot().Tool != drawing.ToolPen {
		t.Error("Expected shortcuts suppressed while settings are open")
	}

	m := shortcut.Defaults()
	m[action.ForTool(drawing.ToolArrow)] = shortcut.Key("a", false, false, true)
	l.handle(input.ShortcutsEdited{Map: m})
	if len(shell.persisted) != 1 {
		t.Fatal("Expected edited shortcuts to be persisted")
	}
	l.handle(input.KeyPressed{Key: shortcut.KeyEvent{Key: "a", Alt: true}})
	if l.tools.Snapshot().Tool != drawing.ToolArrow {
		t.Error("Expected the new binding to be active")
	}
}

func TestShortcutsReloaded(t *testing.T) {
	l, shell := newLoop(Options{})
	m := shortcut.Defaults()
	m[action.Undo] = shortcut.Mouse(shortcut.MouseBack, false, false, false)
	l.handle(input.ShortcutsReloaded{Map: m})
	l.handle(input.PointerDown{At: at(0, 0)})
	l.handle(input.PointerUp{At: at(0, 0)})
	l.handle(input.MousePressed{Button: shortcut.MouseEvent{Button: shortcut.MouseBack}})
	if l.store.Len() != 0 {
		t.Error("Expected mouse binding to undo")
	}
	if len(shell.persisted) != 0 {
		t.Error("Expected reload not to persist")
	}
}

func TestInitialToolState(t *testing.T) {
	snap := toolstate.Defaults()
	snap.Tool = drawing.ToolHighlighter
	snap.Color = "#00FF00"
	l, _ := newLoop(Options{Tools: snap})
	l.handle(input.PointerDown{At: at(0, 0)})
	l.handle(input.PointerUp{At: at(0, 0)})
	p := l.store.Committed()[0].(drawing.Path)
	if p.Color != "#00FF00" || p.Opacity != 0.4 {
		t.Errorf("unexpected path %+v", p)
	}
}

func TestCopySnapshotRunsOnPool(t *testing.T) {
	got := make(chan render.Frame, 1)
	l, _ := newLoop(Options{Snapshot: func(_ context.Context, f render.Frame) error {
		got <- f
		return nil
	}})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	l.Post(input.PointerDown{At: at(1, 1)})
	l.Post(input.PointerUp{At: at(1, 1)})
	l.Post(input.ActionRequested{Action: action.CopySnapshot})

	select {
	case f := <-got:
		if len(f.Ops) != 1 {
			t.Errorf("Expected 1 op in snapshot, got %d", len(f.Ops))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot was not exported")
	}
}

func TestRunPresentsFrames(t *testing.T) {
	shell := &fakeShell{}
	p := &fakePresenter{}
	l := New(shell, p, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(stopped)
	}()

	l.Post(input.PointerDown{At: at(0, 0)})
	l.Post(input.PointerMove{At: at(4, 4)})
	deadline := time.After(2 * time.Second)
	for len(p.last().Ops) == 0 {
		select {
		case <-deadline:
			t.Fatal("no frame with the live stroke was presented")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-stopped
	if l.Post(input.PointerUp{}) {
		t.Error("Expected Post to fail after the loop stopped")
	}
}
