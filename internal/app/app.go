// Package app runs a Program against a backend: it drains input events,
// calls the program's update and draw steps, and presents changed frames.
package app

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/gridterm/internal/renderer"
	"github.com/dshills/gridterm/internal/renderer/backend"
)

// Application is the frame loop scheduler.
type Application struct {
	mu sync.Mutex

	program  Program
	backend  backend.Backend
	surface  renderer.Surface
	renderer *renderer.Renderer

	logger  *Logger
	metrics *Metrics
	session string

	// Input carried between iterations
	key   KeyState
	mouse *MouseState

	lastTick time.Time
	frames   int
	closing  bool

	running atomic.Bool
	opts    Options
}

// Options configures the application.
type Options struct {
	// Title is the window title.
	Title string

	// TargetFPS paces Run; zero runs iterations back to back.
	TargetFPS int

	// MaxFrames stops Run after that many iterations; zero means no limit.
	MaxFrames int

	// ExitKey ends the loop when pressed, before the program sees it.
	// KeyNone disables it.
	ExitKey backend.Key

	// DisableFullscreenToggle forwards Alt+Enter to the program instead of
	// toggling fullscreen.
	DisableFullscreenToggle bool

	// StartFullscreen toggles fullscreen once at startup.
	StartFullscreen bool

	// MaxDamageRegions and FullRedrawRatio tune the renderer's damage
	// coalescing. Zero keeps the renderer defaults.
	MaxDamageRegions int
	FullRedrawRatio  float64

	// Logger receives loop diagnostics. Defaults to a null logger.
	Logger *Logger

	// Metrics receives loop counters. Defaults to a fresh tracker.
	Metrics *Metrics

	// Now supplies the clock for TickInput.DT. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the standard options: Escape exits, Alt+Enter
// toggles fullscreen and the loop is paced at 60 frames per second.
func DefaultOptions() Options {
	return Options{
		Title:     "gridterm",
		TargetFPS: 60,
		ExitKey:   backend.KeyEscape,
	}
}

// New creates an application. The surface receives rendered frames; when nil
// the backend presents them itself.
func New(program Program, b backend.Backend, surface renderer.Surface, opts Options) (*Application, error) {
	if program == nil {
		return nil, ErrNoProgram
	}
	if b == nil {
		return nil, ErrNoBackend
	}
	if surface == nil {
		surface = b
	}
	if opts.Logger == nil {
		opts.Logger = NewNullLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	logger, session := opts.Logger.WithSession()
	return &Application{
		program: program,
		backend: b,
		surface: surface,
		logger:  logger,
		metrics: opts.Metrics,
		session: session,
		opts:    opts,
	}, nil
}

// Start initializes the backend and sizes the frame buffer. Step may be
// called once Start succeeds.
func (app *Application) Start() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	if err := app.backend.Init(); err != nil {
		app.running.Store(false)
		return &InitError{Component: "backend", Err: err}
	}

	w, h := app.backend.Size()
	cw, ch := app.backend.CellSize()
	r, err := renderer.New(app.surface, cw, ch, w, h)
	if err != nil {
		app.backend.Shutdown()
		app.running.Store(false)
		return &InitError{Component: "renderer", Err: err}
	}
	if app.opts.MaxDamageRegions > 0 || app.opts.FullRedrawRatio > 0 {
		maxRegions, ratio := app.opts.MaxDamageRegions, app.opts.FullRedrawRatio
		if maxRegions <= 0 {
			maxRegions = renderer.DefaultMaxDamageRegions
		}
		if ratio <= 0 {
			ratio = renderer.DefaultFullRedrawRatio
		}
		r.SetDamageLimits(maxRegions, ratio)
	}

	app.mu.Lock()
	app.renderer = r
	app.key = KeyState{}
	app.mouse = nil
	app.lastTick = time.Time{}
	app.frames = 0
	app.closing = false
	app.mu.Unlock()

	if app.opts.Title != "" {
		app.backend.SetTitle(app.opts.Title)
	}
	if app.opts.StartFullscreen && !app.backend.Fullscreen() {
		app.backend.ToggleFullscreen()
	}

	cols, rows := r.CharsSize()
	app.logger.Info("started %dx%d cells (%dx%d px, cell %dx%d)", cols, rows, w, h, cw, ch)
	return nil
}

// Stop shuts the backend down. If the program implements Close, it is
// closed too and its error returned.
func (app *Application) Stop() error {
	if !app.running.CompareAndSwap(true, false) {
		return nil
	}

	errs := NewErrorList()
	if c, ok := app.program.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs.Add(NewComponentError("program", "close", err))
		}
	}
	app.backend.Shutdown()

	snap := app.metrics.Snapshot()
	app.logger.Info("stopped after %d frames, %d renders, %.1f fps",
		snap.FrameCount, snap.RenderCount, snap.AvgFPS())
	if r := app.Renderer(); r != nil {
		rs := r.Stats()
		app.logger.Debug("renderer: %d full redraws, %d empty presents, %d damaged cells, last damage %d regions (%.0f%%)",
			rs.FullRedraws, rs.EmptyPresents, rs.DamagedCells, rs.LastDamage.RegionCount, rs.LastDamage.DirtyRatio*100)
	}
	return errs.AsError()
}

// Run starts the application and drives the loop until the program stops,
// the exit key is pressed, the window closes, MaxFrames is reached or ctx is
// cancelled. Cancellation is a normal exit and returns nil.
func (app *Application) Run(ctx context.Context) (err error) {
	if err := app.Start(); err != nil {
		return err
	}
	defer func() {
		if stopErr := app.Stop(); err == nil {
			err = stopErr
		}
	}()

	var tick <-chan time.Time
	if app.opts.TargetFPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(app.opts.TargetFPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		res, err := app.Step()
		if err != nil {
			return err
		}
		if res == Stop {
			return nil
		}
		if app.opts.MaxFrames > 0 && app.Frames() >= app.opts.MaxFrames {
			app.logger.Debug("frame limit %d reached", app.opts.MaxFrames)
			return nil
		}
	}
}

// Step runs one loop iteration: drain events, update, draw and, when the
// program reports changes, render. It returns Stop when the loop should end.
func (app *Application) Step() (res TickResult, err error) {
	if !app.running.Load() {
		return Stop, ErrNotRunning
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	timer := StartTimer()
	defer func() {
		if r := recover(); r != nil {
			res = Stop
			err = NewComponentError("program", "step", NewRecoveredPanicError(r, string(debug.Stack())))
			app.logger.Error("program panicked: %v", r)
		}
	}()

	now := app.opts.Now()
	var dt time.Duration
	if !app.lastTick.IsZero() {
		dt = now.Sub(app.lastTick)
	}
	app.lastTick = now

	if app.drainEvents() == Stop {
		app.logger.Debug("exit key pressed")
		return Stop, nil
	}

	cols, rows := app.renderer.CharsSize()
	in := TickInput{
		DT:     dt,
		Width:  cols,
		Height: rows,
		Key:    app.key,
		Mouse:  app.mouse,
	}
	res = app.program.Update(in)

	app.key.Pressed = false
	app.key.Key = backend.KeyNone
	app.key.Char = 0
	app.mouse = nil

	if res == Stop {
		app.logger.Debug("program stopped")
		return Stop, nil
	}

	drawn := app.draw()

	if drawn == Changed {
		if err := app.render(); err != nil {
			return Stop, err
		}
	} else {
		app.metrics.RecordRenderSkipped()
	}

	app.frames++
	app.metrics.RecordFrame(timer.Elapsed())

	if app.closing {
		app.logger.Debug("window closed")
		return Stop, nil
	}
	return Continue, nil
}

// draw lends the frame buffer to the program. The view is released even
// when Draw panics.
func (app *Application) draw() DrawResult {
	frame := app.renderer.Frame()
	defer frame.Release()
	return app.program.Draw(frame)
}

// render presents the frame buffer and handles surface failures. Only an
// out-of-memory failure is returned.
func (app *Application) render() error {
	timer := StartTimer()
	err := app.renderer.Render()
	switch {
	case err == nil:
		app.metrics.RecordRender(timer.Elapsed())
		return nil
	case errors.Is(err, renderer.ErrSurfaceLost):
		w, h := app.backend.Size()
		app.renderer.Recover(w, h)
		app.metrics.RecordSurfaceLost()
		app.logger.Warn("surface lost, recovered at %dx%d", w, h)
		return nil
	case errors.Is(err, renderer.ErrOutOfMemory):
		app.logger.Error("render: %v", err)
		return NewComponentError("renderer", "render", err)
	default:
		app.metrics.RecordRenderError()
		app.logger.Error("render: %v", err)
		return nil
	}
}

// Frames returns the number of completed iterations since Start.
func (app *Application) Frames() int {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.frames
}

// IsRunning returns true between Start and Stop.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Renderer returns the renderer, or nil before Start.
func (app *Application) Renderer() *renderer.Renderer {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.renderer
}

// Backend returns the backend.
func (app *Application) Backend() backend.Backend {
	return app.backend
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Logger returns the application's session logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Session returns the id tagging this application's log lines.
func (app *Application) Session() string {
	return app.session
}
