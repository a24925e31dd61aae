package config

import (
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/dshills/gridterm/internal/config/loader"
	"github.com/dshills/gridterm/internal/renderer/backend"
)

// Config is the complete gridterm configuration.
type Config struct {
	Window  WindowConfig
	Font    FontConfig
	Loop    LoopConfig
	Render  RenderConfig
	Logging LoggingConfig
	Script  ScriptConfig
}

// WindowConfig describes the initial window.
type WindowConfig struct {
	// Width and Height are the requested inner size in pixels. The window is
	// shrunk to a whole number of glyph cells.
	Width  int
	Height int

	Title      string
	Fullscreen bool
}

// FontConfig selects the glyph atlas.
type FontConfig struct {
	// Path is a PNG or BMP atlas of 16x16 glyphs. Empty uses the built-in font.
	Path string
}

// LoopConfig controls the frame loop.
type LoopConfig struct {
	// TargetFPS paces the loop; 0 runs unpaced.
	TargetFPS int

	// MaxFrames stops the loop after that many frames; 0 means no limit.
	MaxFrames int

	// ExitKey names the key that ends the loop, or "none".
	ExitKey string

	// FullscreenToggle enables Alt+Enter.
	FullscreenToggle bool
}

// RenderConfig tunes damage tracking.
type RenderConfig struct {
	// MaxDamageRegions is the number of separate damaged regions kept before
	// they are widened to whole rows.
	MaxDamageRegions int

	// FullRedrawPercent is the damaged share of the grid above which the
	// whole frame is repainted.
	FullRedrawPercent int
}

// FullRedrawRatio returns FullRedrawPercent as a fraction.
func (r RenderConfig) FullRedrawRatio() float64 {
	return float64(r.FullRedrawPercent) / 100
}

// LoggingConfig controls diagnostics.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string

	// File receives log output. Empty discards logs in terminal mode and
	// writes to stderr otherwise.
	File string
}

// ScriptConfig selects a Lua program.
type ScriptConfig struct {
	Path  string
	Watch bool
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "gridterm",
		},
		Loop: LoopConfig{
			TargetFPS:        60,
			ExitKey:          "escape",
			FullscreenToggle: true,
		},
		Render: RenderConfig{
			MaxDamageRegions:  32,
			FullRedrawPercent: 50,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// settings maps each setting path to its field.
var settings = map[string]func(c *Config) any{
	"window.width":               func(c *Config) any { return &c.Window.Width },
	"window.height":              func(c *Config) any { return &c.Window.Height },
	"window.title":               func(c *Config) any { return &c.Window.Title },
	"window.fullscreen":          func(c *Config) any { return &c.Window.Fullscreen },
	"font.path":                  func(c *Config) any { return &c.Font.Path },
	"loop.target_fps":            func(c *Config) any { return &c.Loop.TargetFPS },
	"loop.max_frames":            func(c *Config) any { return &c.Loop.MaxFrames },
	"loop.exit_key":              func(c *Config) any { return &c.Loop.ExitKey },
	"loop.fullscreen_toggle":     func(c *Config) any { return &c.Loop.FullscreenToggle },
	"render.max_damage_regions":  func(c *Config) any { return &c.Render.MaxDamageRegions },
	"render.full_redraw_percent": func(c *Config) any { return &c.Render.FullRedrawPercent },
	"logging.level":              func(c *Config) any { return &c.Logging.Level },
	"logging.file":               func(c *Config) any { return &c.Logging.File },
	"script.path":                func(c *Config) any { return &c.Script.Path },
	"script.watch":               func(c *Config) any { return &c.Script.Watch },
}

// Paths returns every setting path in sorted order.
func Paths() []string {
	return slices.Sorted(maps.Keys(settings))
}

// Load builds a configuration from the defaults, the file at path and the
// GRIDTERM_* environment. An empty path skips the file layer; a named file
// that does not exist is an error.
func Load(path string) (*Config, error) {
	return LoadFrom(loader.DefaultFS(), path, loader.NewEnvLoader(loader.EnvPrefix))
}

// LoadFrom is Load with an explicit file system and environment source.
// A nil env skips the environment layer.
func LoadFrom(fsys loader.FileSystem, path string, env loader.Loader) (*Config, error) {
	merged := make(map[string]any)

	if path != "" {
		if _, err := fsys.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		l, err := loader.ForPath(fsys, path)
		if err != nil {
			return nil, err
		}
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	if env != nil {
		data, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg := Default()
	if err := cfg.Apply(merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply sets every value of a nested settings map. All problems are
// reported together as ValidationErrors.
func (c *Config) Apply(m map[string]any) error {
	flat := loader.Flatten(m)
	var errs ValidationErrors
	for _, path := range slices.Sorted(maps.Keys(flat)) {
		if err := c.Set(path, flat[path]); err != nil {
			errs = append(errs, toValidationError(path, flat[path], err))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func toValidationError(path string, value any, err error) *ValidationError {
	code := ErrCodeTypeMismatch
	if err == ErrSettingNotFound {
		code = ErrCodeUnknownSetting
	}
	return &ValidationError{Path: path, Message: err.Error(), Value: value, Code: code}
}

// Set assigns a single setting. Integers are accepted for int settings in
// any numeric form without a fractional part; booleans and numbers are
// formatted for string settings.
func (c *Config) Set(path string, value any) error {
	field, ok := settings[path]
	if !ok {
		return ErrSettingNotFound
	}

	switch p := field(c).(type) {
	case *int:
		n, ok := toInt(value)
		if !ok {
			return &TypeError{Path: path, Expected: "int", Actual: fmt.Sprintf("%T", value)}
		}
		*p = n
	case *bool:
		b, ok := value.(bool)
		if !ok {
			return &TypeError{Path: path, Expected: "bool", Actual: fmt.Sprintf("%T", value)}
		}
		*p = b
	case *string:
		switch v := value.(type) {
		case string:
			*p = v
		case int64, int, bool:
			*p = fmt.Sprint(v)
		default:
			return &TypeError{Path: path, Expected: "string", Actual: fmt.Sprintf("%T", value)}
		}
	}
	return nil
}

// Get returns the current value of a setting.
func (c *Config) Get(path string) (any, error) {
	field, ok := settings[path]
	if !ok {
		return nil, ErrSettingNotFound
	}
	switch p := field(c).(type) {
	case *int:
		return *p, nil
	case *bool:
		return *p, nil
	case *string:
		return *p, nil
	}
	return nil, ErrSettingNotFound
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(path string, value any, code ValidationErrorCode, msg string) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value, Code: code})
	}

	if c.Window.Width <= 0 {
		add("window.width", c.Window.Width, ErrCodeOutOfRange, "must be positive")
	}
	if c.Window.Height <= 0 {
		add("window.height", c.Window.Height, ErrCodeOutOfRange, "must be positive")
	}
	if c.Loop.TargetFPS < 0 || c.Loop.TargetFPS > 1000 {
		add("loop.target_fps", c.Loop.TargetFPS, ErrCodeOutOfRange, "must be between 0 and 1000")
	}
	if c.Loop.MaxFrames < 0 {
		add("loop.max_frames", c.Loop.MaxFrames, ErrCodeOutOfRange, "must not be negative")
	}
	if c.Render.MaxDamageRegions < 1 || c.Render.MaxDamageRegions > 4096 {
		add("render.max_damage_regions", c.Render.MaxDamageRegions, ErrCodeOutOfRange, "must be between 1 and 4096")
	}
	if c.Render.FullRedrawPercent < 1 || c.Render.FullRedrawPercent > 100 {
		add("render.full_redraw_percent", c.Render.FullRedrawPercent, ErrCodeOutOfRange, "must be between 1 and 100")
	}
	if _, err := c.ExitKey(); err != nil {
		add("loop.exit_key", c.Loop.ExitKey, ErrCodeInvalidEnum, "unknown key name")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("logging.level", c.Logging.Level, ErrCodeInvalidEnum, "must be debug, info, warn or error")
	}
	if c.Script.Watch && c.Script.Path == "" {
		add("script.watch", c.Script.Watch, ErrCodeOutOfRange, "requires script.path")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ExitKey resolves Loop.ExitKey. An empty name or "none" disables the exit
// key.
func (c *Config) ExitKey() (backend.Key, error) {
	name := strings.ToLower(strings.TrimSpace(c.Loop.ExitKey))
	if name == "" {
		return backend.KeyNone, nil
	}
	k, ok := backend.ParseKey(name)
	if !ok || k == backend.KeyRune {
		return backend.KeyNone, fmt.Errorf("%w: exit key %q", ErrValidationFailed, c.Loop.ExitKey)
	}
	return k, nil
}

// DefaultPath returns the first of gridterm.toml, gridterm.yaml and
// gridterm.yml found in the user configuration directory, or "" if none
// exists.
func DefaultPath(fsys loader.FileSystem) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"gridterm.toml", "gridterm.yaml", "gridterm.yml"} {
		path := filepath.Join(dir, "gridterm", name)
		if _, err := fsys.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
