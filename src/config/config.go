package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"screen-annotator/src/drawing"
	"screen-annotator/src/shortcut"
	"screen-annotator/src/toolstate"
)

const (
	AltEnvVar           = "SCREEN_ANNOTATOR"
	ShortcutsPathEnvVar = "SHORTCUTS_PATH"
)

// LoadOptions carries command-line overrides; empty fields leave the environment value.
type LoadOptions struct {
	ShortcutsPathOverride string
	DefaultToolOverride   string
}

type Config struct {
	EnableFileLogging bool
	ShortcutsPath     string
	DefaultTool       drawing.Tool
	DefaultColor      string
	StrokeSize        float64
	SpotlightSize     float64
	WatchShortcuts    bool
	GlobalHotkeys     bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use SCREEN_ANNOTATOR env var as a path to a config file
	// Variables already set in the process environment win over the file.
	envPath := resolveEnvPath()
	dotenvValues := readDotenvValues(envPath)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	shortcutsPath, err := resolveShortcutsPath(opts, dotenvValues)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		EnableFileLogging: parseBool(os.Getenv("ENABLE_FILE_LOGGING"), false),
		ShortcutsPath:     shortcutsPath,
		DefaultTool:       resolveTool(opts),
		DefaultColor:      resolveColor(os.Getenv("DEFAULT_COLOR")),
		StrokeSize:        parseSize(os.Getenv("DEFAULT_STROKE_SIZE"), toolstate.DefaultStrokeSize),
		SpotlightSize:     parseSize(os.Getenv("SPOTLIGHT_SIZE"), toolstate.DefaultSpotlightSize),
		WatchShortcuts:    parseBool(os.Getenv("WATCH_SHORTCUTS"), true),
		GlobalHotkeys:     parseBool(os.Getenv("GLOBAL_HOTKEYS"), true),
	}

	return cfg, nil
}

// Tools returns the startup tool state described by cfg. The toolstate package clamps sizes.
func (c *Config) Tools() toolstate.Snapshot {
	snap := toolstate.Defaults()
	snap.Tool = c.DefaultTool
	snap.Color = c.DefaultColor
	snap.StrokeSize = c.StrokeSize
	snap.SpotlightSize = c.SpotlightSize
	return snap
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(AltEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func readDotenvValues(envPath string) map[string]string {
	if envPath == "" {
		return map[string]string{}
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		return map[string]string{}
	}

	return values
}

// resolveShortcutsPath picks the override, then the .env value, then the environment, then
// the per-user default. The default is only looked up when nothing else is set.
func resolveShortcutsPath(opts LoadOptions, dotenvValues map[string]string) (string, error) {
	var path string

	if envPath := strings.TrimSpace(os.Getenv(ShortcutsPathEnvVar)); envPath != "" {
		path = envPath
	}

	if dotenvPath := strings.TrimSpace(dotenvValues[ShortcutsPathEnvVar]); dotenvPath != "" {
		path = dotenvPath
	}

	if override := strings.TrimSpace(opts.ShortcutsPathOverride); override != "" {
		path = override
	}

	if path != "" {
		return path, nil
	}
	return shortcut.DefaultPath()
}

func resolveTool(opts LoadOptions) drawing.Tool {
	value := os.Getenv("DEFAULT_TOOL")
	if override := strings.TrimSpace(opts.DefaultToolOverride); override != "" {
		value = override
	}
	if t, ok := drawing.ParseTool(value); ok {
		return t
	}
	return drawing.ToolPen
}

func resolveColor(value string) string {
	if hex, ok := drawing.ResolveColor(value); ok {
		return hex
	}
	return drawing.DefaultColor
}

func parseSize(value string, fallback float64) float64 {
	if n, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && n > 0 {
		return n
	}
	return fallback
}

func parseBool(value string, fallback bool) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
		return b
	}
	return fallback
}
