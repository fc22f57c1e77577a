package eventloop

import (
	"context"
	"fmt"
	"log"

	"screen-annotator/src/action"
	"screen-annotator/src/drawing"
	"screen-annotator/src/history"
	"screen-annotator/src/host"
	"screen-annotator/src/input"
	"screen-annotator/src/logutil"
	"screen-annotator/src/render"
	"screen-annotator/src/shortcut"
	"screen-annotator/src/singleinstance"
	"screen-annotator/src/stroke"
	"screen-annotator/src/toolstate"
	"screen-annotator/src/worker"
)

// Presenter paints frames. Present is called from the loop goroutine and must not block
// on the loop.
type Presenter interface {
	Present(f render.Frame)
}

// StatusSink mirrors tool state outside the overlay (tray tooltip, menu checkbox).
type StatusSink interface {
	SetStatus(s toolstate.Snapshot)
}

// SnapshotFunc exports one frame; it runs on the worker pool.
type SnapshotFunc func(ctx context.Context, f render.Frame) error

// Options configures a Loop. Zero values select the defaults.
type Options struct {
	Tools     toolstate.Snapshot
	Shortcuts shortcut.Map
	// GlobalHotkeys means a system-wide binder delivers the global actions, so local
	// presses of those bindings are ignored to avoid firing twice.
	GlobalHotkeys bool
	Server        singleinstance.Server
	Status        StatusSink
	Snapshot      SnapshotFunc
}

// Loop is the single-threaded coordinator. It owns the history store, the tool state,
// the stroke session and the active shortcut map; everything else reaches them by
// posting events.
type Loop struct {
	events chan input.Event
	done   chan struct{}
	ctx    context.Context

	store      *history.Store
	tools      *toolstate.State
	session    *stroke.Session
	dispatcher *action.Dispatcher
	shortcuts  shortcut.Map

	shell     host.Shell
	presenter Presenter
	status    StatusSink
	srv       singleinstance.Server
	pool      *worker.Pool
	snapshot  SnapshotFunc

	globalHotkeys bool
	settingsOpen  bool
	pointer       drawing.Point
	lastStatus    toolstate.Snapshot
}

// New creates a loop. shell and presenter are required.
func New(shell host.Shell, presenter Presenter, opts Options) *Loop {
	initial := opts.Tools
	if initial == (toolstate.Snapshot{}) {
		initial = toolstate.Defaults()
	}
	shortcuts := opts.Shortcuts
	if shortcuts == nil {
		shortcuts = shortcut.Defaults()
	}

	l := &Loop{
		events:        make(chan input.Event, 64),
		done:          make(chan struct{}),
		ctx:           context.Background(),
		store:         history.New(),
		tools:         toolstate.New(initial),
		shortcuts:     shortcuts.Clone(),
		shell:         shell,
		presenter:     presenter,
		status:        opts.Status,
		srv:           opts.Server,
		pool:          worker.New(1),
		snapshot:      opts.Snapshot,
		globalHotkeys: opts.GlobalHotkeys,
	}
	l.session = stroke.New(l.tools)
	l.dispatcher = action.NewDispatcher(l.store, l.tools, shell)
	l.dispatcher.Handle(action.CopySnapshot, l.copySnapshot)
	return l
}

// Post queues ev for the loop. It blocks until the event is queued and returns false once
// the loop has stopped.
func (l *Loop) Post(ev input.Event) bool {
	select {
	case l.events <- ev:
		return true
	case <-l.done:
		return false
	}
}

// TryPost queues ev without blocking; it returns false when the queue is full or the loop
// has stopped. Use it from code that may run on the loop goroutine itself.
func (l *Loop) TryPost(ev input.Event) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- ev:
		return true
	default:
		return false
	}
}

// Run processes events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.ctx = ctx
	defer l.pool.Close()
	defer close(l.done)

	var reqCh chan singleinstance.Conn
	if l.srv != nil {
		if err := l.srv.Start(ctx); err != nil {
			return err
		}
		if p := l.srv.Port(); p > 0 {
			log.Printf("Resident listening on 127.0.0.1:%d", p)
		}
		// Accept loop in background so connections never stall input handling
		reqCh = make(chan singleinstance.Conn, 4)
		go func() {
			for {
				conn, err := l.srv.Next(ctx)
				if err != nil {
					close(reqCh)
					return
				}
				reqCh <- conn
			}
		}()
	}

	l.shell.SetIgnoreMouse(!l.tools.Snapshot().DrawingMode)
	l.present()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-l.events:
			l.handle(ev)
			l.present()
		case conn, ok := <-reqCh:
			if !ok {
				reqCh = nil
				continue
			}
			l.handleConn(conn)
			l.present()
		}
	}
}

func (l *Loop) handle(ev input.Event) {
	switch e := ev.(type) {
	case input.PointerDown:
		l.handlePointerDown(e.At)
	case input.PointerMove:
		l.pointer = e.At
		l.session.Move(e.At)
	case input.PointerUp:
		l.pointer = e.At
		l.finishGesture()
	case input.PointerLeave:
		l.finishGesture()
	case input.KeyPressed:
		l.handleKey(e)
	case input.MousePressed:
		l.handleMouse(e)
	case input.TextConfirmed:
		d := l.session.ConfirmText(e.Text)
		l.shell.CloseTextEntry()
		if d != nil {
			l.commit(d)
		} else {
			log.Printf("handle: empty text discarded")
		}
	case input.TextCancelled:
		l.session.CancelText()
		l.shell.CloseTextEntry()
	case input.Command:
		if err := l.apply(e.Command); err != nil {
			log.Printf("handle: command %s: %v", e.Command, err)
		}
	case input.ActionRequested:
		l.dispatcher.Dispatch(e.Action)
	case input.ShortcutsEdited:
		l.settingsOpen = false
		l.shortcuts = e.Map.Clone()
		l.shell.PersistShortcuts(e.Map.Clone())
	case input.ShortcutsReloaded:
		l.shortcuts = e.Map.Clone()
		log.Printf("handle: shortcuts reloaded (%d bindings)", len(e.Map))
	case input.SettingsClosed:
		l.settingsOpen = false
	case input.JobFinished:
		if e.Err != nil {
			log.Printf("handle: job %s failed: %v", e.Name, e.Err)
		} else {
			log.Printf("handle: job %s finished", e.Name)
		}
	default:
		log.Printf("handle: unknown event %T", ev)
	}
}

func (l *Loop) handlePointerDown(at drawing.Point) {
	l.pointer = at
	if l.settingsOpen {
		return
	}
	if l.session.Begin(at) == stroke.TextEntryOpened {
		l.shell.OpenTextEntry(at)
	}
}

func (l *Loop) finishGesture() {
	if d := l.session.End(); d != nil {
		l.commit(d)
	}
}

func (l *Loop) commit(d drawing.Drawable) {
	l.store.Commit(d)
	log.Printf("commit: %s %s (history=%d)", d.Kind(), d.DrawableID(), l.store.Len())
}

func (l *Loop) shortcutsSuppressed() bool {
	return l.settingsOpen || l.session.State() == stroke.TextEntry
}

func (l *Loop) handleKey(e input.KeyPressed) {
	if !e.Global && l.shortcutsSuppressed() {
		return
	}
	a, ok := l.shortcuts.MatchKey(e.Key)
	if !ok {
		return
	}
	l.trigger(a, e.Global)
}

func (l *Loop) handleMouse(e input.MousePressed) {
	if !e.Global && l.shortcutsSuppressed() {
		return
	}
	a, ok := l.shortcuts.MatchMouse(e.Button)
	if !ok {
		return
	}
	l.trigger(a, e.Global)
}

func (l *Loop) trigger(a action.Action, global bool) {
	if global && !a.Global() {
		return
	}
	if !global && a.Global() && l.globalHotkeys {
		return
	}
	log.Printf("shortcut: %s (global=%v)", a, global)
	l.dispatcher.Dispatch(a)
}

// apply runs one host command.
func (l *Loop) apply(c host.Command) error {
	switch c.Name {
	case host.ClearCanvas:
		l.dispatcher.Dispatch(action.Clear)
	case host.Undo:
		l.dispatcher.Dispatch(action.Undo)
	case host.Redo:
		l.dispatcher.Dispatch(action.Redo)
	case host.SetTool:
		l.dispatcher.Dispatch(action.ForTool(c.Tool))
	case host.ToggleSpotlight:
		l.dispatcher.Dispatch(action.Spotlight)
	case host.DrawingModeChanged:
		l.setDrawingMode(c.Enabled)
	case host.OpenSettings:
		l.settingsOpen = true
		l.shell.OpenSettings(l.shortcuts.Clone())
	case host.SetStrokeSize:
		l.tools.SetStrokeSize(c.Size)
		log.Printf("stroke size: %g", l.tools.Snapshot().StrokeSize)
	case host.SetSpotlightSize:
		l.tools.SetSpotlightSize(c.Size)
		log.Printf("spotlight size: %g", l.tools.Snapshot().SpotlightSize)
	case host.SetColor:
		if !l.tools.SetColor(c.Color) {
			return fmt.Errorf("invalid color %q", c.Color)
		}
	default:
		return host.ErrUnknownCommand
	}
	return nil
}

func (l *Loop) setDrawingMode(on bool) {
	l.tools.SetDrawingMode(on)
	if !on {
		if l.session.State() == stroke.TextEntry {
			l.shell.CloseTextEntry()
		}
		l.session.Cancel()
	}
	l.shell.SetIgnoreMouse(!on)
	log.Printf("drawing mode: %v", on)
}

func (l *Loop) handleConn(conn singleinstance.Conn) {
	defer conn.Close()
	line := conn.Request().Line
	cmd, err := host.ParseCommand(line)
	if err != nil {
		log.Printf("handleConn: %q: %v", logutil.Sanitize(line), err)
		_ = conn.RespondError(err.Error())
		return
	}
	if err := l.apply(cmd); err != nil {
		_ = conn.RespondError(err.Error())
		return
	}
	if err := conn.RespondOK(); err != nil {
		log.Printf("handleConn: respond: %v", err)
	}
}

func (l *Loop) copySnapshot() {
	if l.snapshot == nil {
		log.Printf("copySnapshot: no exporter configured")
		return
	}
	frame := l.Frame()
	frame.Spotlight.Enabled = false
	export := l.snapshot
	submitted := l.pool.Submit(l.ctx, "snapshot", func(ctx context.Context) error {
		return export(ctx, frame)
	}, func(name string, err error) {
		l.Post(input.JobFinished{Name: name, Err: err})
	})
	if !submitted {
		log.Printf("copySnapshot: busy, skipping")
	}
}

// Frame returns what the overlay should show now. Only call it from the loop goroutine
// or while the loop is not running.
func (l *Loop) Frame() render.Frame {
	snap := l.tools.Snapshot()
	return render.Frame{
		Ops: render.Project(l.store.Committed(), l.session.Current()),
		Spotlight: render.Spotlight{
			Enabled:  snap.Spotlight,
			Center:   l.pointer,
			Diameter: snap.SpotlightSize,
		},
	}
}

func (l *Loop) present() {
	if l.presenter != nil {
		l.presenter.Present(l.Frame())
	}
	if l.status == nil {
		return
	}
	if snap := l.tools.Snapshot(); snap != l.lastStatus {
		l.lastStatus = snap
		l.status.SetStatus(snap)
	}
}
