package app

import (
	"time"

	"github.com/dshills/gridterm/internal/grid"
	"github.com/dshills/gridterm/internal/renderer/backend"
)

// TickResult tells the scheduler whether to keep running after an update.
type TickResult int

const (
	Continue TickResult = iota
	Stop
)

func (r TickResult) String() string {
	if r == Stop {
		return "stop"
	}
	return "continue"
}

// DrawResult tells the scheduler whether the frame buffer needs presenting.
type DrawResult int

const (
	NoChanges DrawResult = iota
	Changed
)

func (r DrawResult) String() string {
	if r == Changed {
		return "changed"
	}
	return "no changes"
}

// KeyState is the keyboard as seen by one update.
// Shift, Ctrl and Alt persist until the modifiers change. Pressed, Key and
// Char describe a single key press and are cleared after every update.
type KeyState struct {
	Pressed bool
	Shift   bool
	Ctrl    bool
	Alt     bool
	Key     backend.Key
	Char    rune
}

// MouseState is the mouse as seen by one update.
type MouseState struct {
	OnWindow         bool
	PrimaryPressed   bool
	SecondaryPressed bool
	X, Y             int
}

// TickInput is everything an update step can see.
type TickInput struct {
	// DT is the time since the previous update; zero on the first.
	DT time.Duration

	// Width and Height are the frame buffer size in glyph cells.
	Width  int
	Height int

	Key KeyState

	// Mouse is nil when no mouse event arrived since the previous update.
	Mouse *MouseState
}

// Program is an application driven by the frame loop.
//
// Update advances the program's state and may stop the loop. Draw paints
// the frame buffer through a view that is only valid for the duration of the
// call, and reports whether anything changed.
type Program interface {
	Update(in TickInput) TickResult
	Draw(f *grid.Frame) DrawResult
}

// ProgramFuncs adapts a pair of functions to Program. A nil Update always
// continues and a nil Draw never changes anything.
type ProgramFuncs struct {
	UpdateFunc func(in TickInput) TickResult
	DrawFunc   func(f *grid.Frame) DrawResult
}

func (p ProgramFuncs) Update(in TickInput) TickResult {
	if p.UpdateFunc == nil {
		return Continue
	}
	return p.UpdateFunc(in)
}

func (p ProgramFuncs) Draw(f *grid.Frame) DrawResult {
	if p.DrawFunc == nil {
		return NoChanges
	}
	return p.DrawFunc(f)
}
