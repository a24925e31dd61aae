package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dshills/gridterm/internal/app"
	"github.com/dshills/gridterm/internal/config"
	"github.com/dshills/gridterm/internal/font"
	"github.com/dshills/gridterm/internal/renderer"
	"github.com/dshills/gridterm/internal/renderer/backend"
	"github.com/dshills/gridterm/internal/renderer/raster"
	"github.com/dshills/gridterm/internal/script"
)

// session holds everything built for one run. Components are created in
// dependency order and closed in reverse by cleanup.
type session struct {
	cfg    *config.Config
	flags  cliOptions
	logger *app.Logger

	program app.Program
	script  *script.Program
	backend backend.Backend
	surface renderer.Surface
	canvas  *raster.Canvas

	closers []func()
}

func newSession(cfg *config.Config, flags cliOptions) *session {
	return &session{cfg: cfg, flags: flags}
}

// build creates the logger, program and backend. On failure everything
// already created is released.
func (s *session) build() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"logger", s.initLogger},
		{"program", s.initProgram},
		{"backend", s.initBackend},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			s.cleanup()
			return &app.InitError{Component: step.name, Err: err}
		}
	}
	return nil
}

// cleanup releases components in reverse creation order.
func (s *session) cleanup() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func (s *session) initLogger() error {
	var out io.Writer = io.Discard
	switch {
	case s.cfg.Logging.File != "":
		f, err := os.OpenFile(s.cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		s.closers = append(s.closers, func() { f.Close() })
		out = f
	case s.flags.Headless:
		// The screen is not in use, so stderr is safe.
		out = os.Stderr
	}

	s.logger = app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(s.cfg.Logging.Level),
		Output: out,
		Prefix: "gridterm",
	})
	return nil
}

func (s *session) initProgram() error {
	if s.cfg.Script.Path == "" {
		s.program = &hello{}
		return nil
	}

	p, err := script.Load(s.cfg.Script.Path, script.WithLogger(s.logger))
	if err != nil {
		return err
	}
	s.closers = append(s.closers, func() { p.Close() })
	if s.cfg.Script.Watch {
		if err := p.Watch(); err != nil {
			return err
		}
	}
	s.script = p
	s.program = p
	return nil
}

func (s *session) initBackend() error {
	if s.flags.Headless {
		return s.initHeadless()
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal (use -headless)")
	}
	t, err := backend.NewTerminal()
	if err != nil {
		return err
	}
	s.backend = t
	return nil
}

// initHeadless renders into an off-screen canvas sized like the configured
// window.
func (s *session) initHeadless() error {
	fnt := font.Default()
	if s.cfg.Font.Path != "" {
		f, err := font.LoadFile(s.cfg.Font.Path)
		if err != nil {
			return err
		}
		fnt = f
	}

	w, h := renderer.FitWindow(s.cfg.Window.Width, s.cfg.Window.Height, fnt.CellW, fnt.CellH)
	s.canvas = raster.New(fnt)
	s.surface = s.canvas
	s.backend = backend.NewNullBackend(w, h, fnt.CellW, fnt.CellH)
	s.logger.Debug("headless %dx%d px, font cell %dx%d", w, h, fnt.CellW, fnt.CellH)
	return nil
}

// options converts the configuration to application options.
func (s *session) options() (app.Options, error) {
	exitKey, err := s.cfg.ExitKey()
	if err != nil {
		return app.Options{}, err
	}

	opts := app.Options{
		Title:                   s.cfg.Window.Title,
		TargetFPS:               s.cfg.Loop.TargetFPS,
		MaxFrames:               s.cfg.Loop.MaxFrames,
		ExitKey:                 exitKey,
		DisableFullscreenToggle: !s.cfg.Loop.FullscreenToggle,
		StartFullscreen:         s.cfg.Window.Fullscreen,
		MaxDamageRegions:        s.cfg.Render.MaxDamageRegions,
		FullRedrawRatio:         s.cfg.Render.FullRedrawRatio(),
		Logger:                  s.logger,
	}
	if s.flags.Headless {
		opts.TargetFPS = 0
		if opts.MaxFrames == 0 {
			opts.MaxFrames = 1
		}
	}
	return opts, nil
}
