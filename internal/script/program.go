package script

import (
	"fmt"
	"sync/atomic"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gridterm/internal/app"
	"github.com/dshills/gridterm/internal/grid"
)

// Program runs a Lua script as an app.Program.
//
// The script may define two global functions:
//
//	function update(input) ... end  -- return false or "stop" to end the loop
//	function draw() ... end         -- return true when the frame changed
//
// A missing update always continues and a missing draw never changes the
// frame. The input table carries dt (seconds), width, height, key and mouse;
// mouse is nil when there was no mouse event.
type Program struct {
	path    string
	logger  *app.Logger
	timeout time.Duration

	state   *State
	frame   *grid.Frame
	watcher *Watcher

	reload  atomic.Bool
	reloads int

	// redraw forces Changed after a reload so the new script's first frame
	// is presented.
	redraw bool

	// failed is set when a callback errors while watching; callbacks are
	// skipped until the next successful reload.
	failed bool
	err    error
}

// Option configures a Program.
type Option func(*Program)

// WithLogger sets the logger for script output and reload messages.
func WithLogger(l *app.Logger) Option {
	return func(p *Program) {
		p.logger = l
	}
}

// WithTimeout bounds every script call. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(p *Program) {
		p.timeout = d
	}
}

// Load runs the script at path and returns the program.
func Load(path string, opts ...Option) (*Program, error) {
	p := &Program{
		path:    path,
		logger:  app.NewNullLogger(),
		timeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithComponent("script")

	state, err := p.newState()
	if err != nil {
		return nil, err
	}
	p.state = state
	return p, nil
}

func (p *Program) newState() (*State, error) {
	s := NewState(
		WithExecutionTimeout(p.timeout),
		WithPrint(func(msg string) { p.logger.Info("%s", msg) }),
	)
	registerGrid(s, func() *grid.Frame { return p.frame })
	if err := s.DoFile(p.path); err != nil {
		s.Close()
		return nil, &ScriptError{Path: p.path, Err: err}
	}
	return s, nil
}

// Watch reloads the script whenever the file changes. The reload itself
// happens at the start of the next Update.
func (p *Program) Watch() error {
	if p.watcher != nil {
		return nil
	}
	w, err := NewWatcher(p.path,
		func() { p.reload.Store(true) },
		func(err error) { p.logger.Warn("watch %s: %v", p.path, err) },
	)
	if err != nil {
		return fmt.Errorf("watch %s: %w", p.path, err)
	}
	p.watcher = w
	p.logger.Debug("watching %s", w.File())
	return nil
}

// Reload replaces the running script with a fresh load of the file. On
// failure the previous script keeps running.
func (p *Program) Reload() error {
	state, err := p.newState()
	if err != nil {
		return err
	}
	p.state.Close()
	p.state = state
	p.reloads++
	p.redraw = true
	p.failed = false
	p.logger.Info("reloaded %s", p.path)
	return nil
}

// Reloads returns the number of successful reloads.
func (p *Program) Reloads() int {
	return p.reloads
}

// Err returns the error that stopped the program, if any.
func (p *Program) Err() error {
	return p.err
}

// Update calls the script's update function.
func (p *Program) Update(in app.TickInput) app.TickResult {
	if p.reload.Swap(false) {
		if err := p.Reload(); err != nil {
			p.logger.Warn("reload failed: %v", err)
		}
	}
	if p.failed {
		return app.Continue
	}

	ret, err := p.state.Call("update", inputTable(p.state.L, in))
	if err != nil {
		return p.fail("update", err)
	}
	if ret == lua.LFalse || ret == lua.LString("stop") {
		return app.Stop
	}
	return app.Continue
}

// Draw calls the script's draw function with f as the drawing target.
func (p *Program) Draw(f *grid.Frame) app.DrawResult {
	if p.failed {
		return app.NoChanges
	}

	p.frame = f
	ret, err := p.state.Call("draw")
	p.frame = nil

	if err != nil {
		p.fail("draw", err)
		return app.NoChanges
	}

	changed := lua.LVAsBool(ret) || p.redraw
	p.redraw = false
	if changed {
		return app.Changed
	}
	return app.NoChanges
}

// fail records a callback error. While watching, the program waits for a
// fixed script; otherwise it stops.
func (p *Program) fail(fn string, err error) app.TickResult {
	serr := &ScriptError{Path: p.path, Func: fn, Err: err}
	if p.watcher != nil {
		p.logger.Error("%v (waiting for a change)", serr)
		p.failed = true
		return app.Continue
	}
	p.err = serr
	return app.Stop
}

// Close stops the watcher and releases the Lua state.
func (p *Program) Close() error {
	var err error
	if p.watcher != nil {
		err = p.watcher.Close()
		p.watcher = nil
	}
	if p.state != nil {
		p.state.Close()
	}
	return err
}

// inputTable converts a TickInput to the table passed to update.
func inputTable(L *lua.LState, in app.TickInput) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("dt", lua.LNumber(in.DT.Seconds()))
	t.RawSetString("width", lua.LNumber(in.Width))
	t.RawSetString("height", lua.LNumber(in.Height))

	key := L.NewTable()
	key.RawSetString("pressed", lua.LBool(in.Key.Pressed))
	key.RawSetString("shift", lua.LBool(in.Key.Shift))
	key.RawSetString("ctrl", lua.LBool(in.Key.Ctrl))
	key.RawSetString("alt", lua.LBool(in.Key.Alt))
	key.RawSetString("name", lua.LString(in.Key.Key.String()))
	if in.Key.Char != 0 {
		key.RawSetString("char", lua.LString(string(in.Key.Char)))
	}
	t.RawSetString("key", key)

	if m := in.Mouse; m != nil {
		mouse := L.NewTable()
		mouse.RawSetString("x", lua.LNumber(m.X))
		mouse.RawSetString("y", lua.LNumber(m.Y))
		mouse.RawSetString("primary", lua.LBool(m.PrimaryPressed))
		mouse.RawSetString("secondary", lua.LBool(m.SecondaryPressed))
		mouse.RawSetString("on_window", lua.LBool(m.OnWindow))
		t.RawSetString("mouse", mouse)
	}
	return t
}
