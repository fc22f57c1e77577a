package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"screen-annotator/src/action"
	"screen-annotator/src/clipboard"
	"screen-annotator/src/config"
	"screen-annotator/src/eventloop"
	"screen-annotator/src/host"
	"screen-annotator/src/hotkey"
	"screen-annotator/src/input"
	"screen-annotator/src/logutil"
	"screen-annotator/src/notification"
	"screen-annotator/src/overlay"
	"screen-annotator/src/render"
	"screen-annotator/src/shortcut"
	"screen-annotator/src/singleinstance"
	"screen-annotator/src/snapshot"
	"screen-annotator/src/tray"
	"screen-annotator/src/worker"
)

const appID = "io.github.screen-annotator"

type mainOptions struct {
	shortcutsPath string
	tool          string
	send          string
	verbose       bool
}

// sender is the part of singleinstance.Client used for delegation.
type sender interface {
	Send(ctx context.Context, line string) error
}

var errAlreadyRunning = errors.New("an overlay is already running")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"screen-annotator"}
	}
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "screen-annotator",
		Short:         "Draw annotations on a transparent overlay above the desktop",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.send != "" {
				// Load .env early so SINGLEINSTANCE_PORT_* apply to the scan.
				_, _ = config.Load()
				logutil.Setup(false, opts.verbose)
				return handleSend(cmd.Context(), opts.send, singleinstance.NewClient())
			}
			return runResident(*opts)
		},
	}

	cmd.Flags().StringVar(&opts.shortcutsPath, "shortcuts-path", "", "Path to the shortcuts JSON file (highest precedence)")
	cmd.Flags().StringVar(&opts.tool, "tool", "", "Tool selected at startup (pen, highlighter, rectangle, circle, arrow, line, text, eraser)")
	cmd.Flags().StringVar(&opts.send, "send", "", "Send a command such as \"set-tool arrow\" to the running overlay and exit")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	return cmd
}

// normalizeLegacyArgs maps single-dash long flags to their double-dash form.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	normalized := make([]string, len(args))
	copy(normalized, args)

	long := []string{"shortcuts-path", "tool", "send", "verbose"}
	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range long {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}
	return normalized
}

// handleSend validates line and delivers it to the resident overlay.
func handleSend(ctx context.Context, line string, client sender) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cmd, err := host.ParseCommand(line)
	if err != nil {
		return err
	}
	if err := client.Send(ctx, cmd.String()); err != nil {
		if errors.Is(err, singleinstance.ErrNoResident) {
			return fmt.Errorf("cannot send %q: %w", cmd, err)
		}
		return fmt.Errorf("send %q: %w", cmd, err)
	}
	log.Printf("Delegated %q to resident", cmd)
	return nil
}

// preflight claims the first port of the range and releases it, failing when a resident
// already holds it.
func preflight() error {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if port, ok := singleinstance.DetectResidentPort(ctx); ok {
		log.Printf("Pre-flight: resident answered on port %d", port)
		return fmt.Errorf("%w on port %d", errAlreadyRunning, port)
	}

	startPort, _ := singleinstance.GetPortRangeForDebug()
	addr := fmt.Sprintf("127.0.0.1:%d", startPort)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("Pre-flight: port %d busy: %v", startPort, err)
		return fmt.Errorf("port %d is taken by another program: %w", startPort, err)
	}
	_ = listener.Close()
	log.Printf("Pre-flight: port %d free", startPort)
	return nil
}

func runResident(opts mainOptions) error {
	// DPI awareness must be set before any window exists.
	enableDPIAwareness()

	// Load .env early so SINGLEINSTANCE_PORT_* are available for pre-flight.
	_, _ = config.Load()
	if err := preflight(); err != nil {
		notification.ShowBlockingError("Screen Annotator", fmt.Sprintf("%v.\n\nUse the tray icon of the running overlay, or send it commands with --send.", err))
		return err
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ShortcutsPathOverride: opts.shortcutsPath,
		DefaultToolOverride:   opts.tool,
	})
	if err != nil {
		notification.ShowBlockingError("Screen Annotator", fmt.Sprintf("Failed to load configuration: %v", err))
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logutil.Setup(cfg.EnableFileLogging, opts.verbose)
	logMonitorConfiguration()

	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard unavailable, snapshots will fail: %v", err)
	}

	raster, err := render.NewRasterizer()
	if err != nil {
		return fmt.Errorf("init rasterizer: %w", err)
	}
	store := shortcut.NewFileStore(cfg.ShortcutsPath)
	shortcuts := store.Load()
	log.Printf("Shortcuts: %s", store.Path())
	log.Printf("Tool: %s, color %s, size %g", cfg.DefaultTool, cfg.DefaultColor, cfg.StrokeSize)

	pool := worker.New(1)
	defer pool.Close()

	a := app.NewWithID(appID)
	shell := overlay.New(a, raster, store, pool)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var loop *eventloop.Loop
	post := func(ev input.Event) { loop.Post(ev) }
	trayIcon := tray.New(tray.Config{
		Title:           "Screen Annotator",
		OnShowHide:      shell.ToggleVisible,
		OnToggleDrawing: shell.ToggleDrawingMode,
		OnClear:         func() { post(input.Command{Command: host.Command{Name: host.ClearCanvas}}) },
		OnCopySnapshot:  func() { post(input.ActionRequested{Action: action.CopySnapshot}) },
		OnSettings:      func() { post(input.Command{Command: host.Command{Name: host.OpenSettings}}) },
		OnStrokeSize: func(size float64) {
			post(input.Command{Command: host.Command{Name: host.SetStrokeSize, Size: size}})
		},
		OnExit:          cancel,
	})

	loop = eventloop.New(shell, shell, eventloop.Options{
		Tools:         cfg.Tools(),
		Shortcuts:     shortcuts,
		GlobalHotkeys: cfg.GlobalHotkeys,
		Server:        singleinstance.NewServer(),
		Status:        trayIcon,
		Snapshot:      snapshot.New(raster).Export,
	})
	shell.Attach(loop.Post)

	if cfg.GlobalHotkeys {
		hotkey.Listen(ctx, loop.Post)
	}
	if cfg.WatchShortcuts {
		go func() {
			err := store.Watch(ctx, func(m shortcut.Map) {
				loop.Post(input.ShortcutsReloaded{Map: m})
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Shortcut watcher stopped: %v", err)
			}
		}()
	}

	go trayIcon.Run()
	defer trayIcon.Quit()

	// Handle SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()

	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("event loop stopped: %v", err)
		}
		cancel()
		fyne.Do(a.Quit)
	}()

	log.Printf("Screen Annotator started")
	shell.Show()
	a.Run()
	log.Printf("Screen Annotator exiting")
	return nil
}
