package config

import (
	"os"
	"path/filepath"
	"testing"

	"screen-annotator/src/drawing"
)

func TestLoad(t *testing.T) {
	t.Setenv("ENABLE_FILE_LOGGING", "true")
	t.Setenv("SHORTCUTS_PATH", "/tmp/annotator/shortcuts.json")
	t.Setenv("DEFAULT_TOOL", "Arrow")
	t.Setenv("DEFAULT_COLOR", "blue")
	t.Setenv("DEFAULT_STROKE_SIZE", "7")
	t.Setenv("SPOTLIGHT_SIZE", "320")
	t.Setenv("WATCH_SHORTCUTS", "false")
	t.Setenv("GLOBAL_HOTKEYS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.EnableFileLogging {
		t.Errorf("Expected EnableFileLogging to be true, got %v", cfg.EnableFileLogging)
	}
	if cfg.ShortcutsPath != "/tmp/annotator/shortcuts.json" {
		t.Errorf("Expected ShortcutsPath from env, got '%s'", cfg.ShortcutsPath)
	}
	if cfg.DefaultTool != drawing.ToolArrow {
		t.Errorf("Expected DefaultTool to be arrow, got '%s'", cfg.DefaultTool)
	}
	if cfg.DefaultColor != drawing.ColorPresets["blue"] {
		t.Errorf("Expected DefaultColor to resolve the preset, got '%s'", cfg.DefaultColor)
	}
	if cfg.StrokeSize != 7 || cfg.SpotlightSize != 320 {
		t.Errorf("unexpected sizes %v/%v", cfg.StrokeSize, cfg.SpotlightSize)
	}
	if cfg.WatchShortcuts || cfg.GlobalHotkeys {
		t.Errorf("Expected watcher and global hotkeys disabled, got %v/%v", cfg.WatchShortcuts, cfg.GlobalHotkeys)
	}

	snap := cfg.Tools()
	if snap.Tool != drawing.ToolArrow || snap.StrokeSize != 7 || !snap.DrawingMode {
		t.Errorf("unexpected tool snapshot %+v", snap)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SHORTCUTS_PATH", "/tmp/annotator/shortcuts.json")
	t.Setenv("DEFAULT_TOOL", "crayon")
	t.Setenv("DEFAULT_COLOR", "#GG0000")
	t.Setenv("DEFAULT_STROKE_SIZE", "-4")
	t.Setenv("SPOTLIGHT_SIZE", "big")
	t.Setenv("WATCH_SHORTCUTS", "maybe")
	t.Setenv("ENABLE_FILE_LOGGING", "")
	t.Setenv("GLOBAL_HOTKEYS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DefaultTool != drawing.ToolPen {
		t.Errorf("Expected pen, got %s", cfg.DefaultTool)
	}
	if cfg.DefaultColor != drawing.DefaultColor {
		t.Errorf("Expected default colour, got %s", cfg.DefaultColor)
	}
	if cfg.StrokeSize != 3 || cfg.SpotlightSize != 200 {
		t.Errorf("Expected default sizes, got %v/%v", cfg.StrokeSize, cfg.SpotlightSize)
	}
	if !cfg.WatchShortcuts || !cfg.GlobalHotkeys || cfg.EnableFileLogging {
		t.Errorf("unexpected flags %+v", cfg)
	}
}

func TestLoadOptionsOverride(t *testing.T) {
	t.Setenv("SHORTCUTS_PATH", "/tmp/from-env.json")
	t.Setenv("DEFAULT_TOOL", "pen")

	cfg, err := LoadWithOptions(LoadOptions{
		ShortcutsPathOverride: " /tmp/from-flag.json ",
		DefaultToolOverride:   "eraser",
	})
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.ShortcutsPath != "/tmp/from-flag.json" {
		t.Errorf("Expected override path, got %q", cfg.ShortcutsPath)
	}
	if cfg.DefaultTool != drawing.ToolEraser {
		t.Errorf("Expected override tool, got %q", cfg.DefaultTool)
	}
}

func TestAltEnvFile(t *testing.T) {
	execPath, err := os.Executable()
	if err == nil {
		if _, err := os.Stat(filepath.Join(filepath.Dir(execPath), ".env")); err == nil {
			t.Skip(".env next to the test binary takes priority")
		}
	}

	dir := t.TempDir()
	envFile := filepath.Join(dir, "annotator.env")
	if err := os.WriteFile(envFile, []byte("SHORTCUTS_PATH=/tmp/from-dotenv.json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(AltEnvVar, envFile)
	t.Setenv("SHORTCUTS_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.ShortcutsPath != "/tmp/from-dotenv.json" {
		t.Errorf("Expected path from the alternate .env, got %q", cfg.ShortcutsPath)
	}
}
