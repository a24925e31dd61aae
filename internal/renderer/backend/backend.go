// Package backend provides the window and input abstraction the frame loop
// runs against. A backend delivers input events, reports its pixel and glyph
// cell sizes, and presents finished character grids.
package backend

import (
	"errors"
	"sync"

	"github.com/dshills/gridterm/internal/grid"
	"github.com/dshills/gridterm/internal/renderer/dirty"
)

// ErrNotInitialized is returned when a backend is used before Init.
var ErrNotInitialized = errors.New("backend not initialized")

// EventType identifies the type of backend event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventModifiers
	EventMouse
	EventResize
	EventClose
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventModifiers:
		return "modifiers"
	case EventMouse:
		return "mouse"
	case EventResize:
		return "resize"
	case EventClose:
		return "close"
	default:
		return "none"
	}
}

// Event is a single input or window event.
type Event struct {
	Type EventType

	// Key events
	Key  Key
	Rune rune

	// Key, modifier and mouse events
	Mod ModMask

	// Mouse events, in character cells
	MouseX, MouseY int
	Buttons        ButtonMask
	OnWindow       bool

	// Resize events, in pixels
	Width, Height int
}

// Key represents a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // printable character, see Event.Rune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyRune:      "rune",
	KeyEscape:    "escape",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pageup",
	KeyPageDown:  "pagedown",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
	KeyF6:        "f6",
	KeyF7:        "f7",
	KeyF8:        "f8",
	KeyF9:        "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
}

// String returns the lower-case key name used in configuration files.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKey returns the key with the given configuration name.
func ParseKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return KeyNone, false
}

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// ButtonMask is the set of mouse buttons held down.
type ButtonMask int

const (
	ButtonNone    ButtonMask = 0
	ButtonPrimary ButtonMask = 1 << iota
	ButtonSecondary
	ButtonMiddle
)

// Has returns true if the mask contains the given button.
func (b ButtonMask) Has(button ButtonMask) bool {
	return b&button != 0
}

// Backend is a window that produces input events and presents frames.
type Backend interface {
	// Init prepares the backend. Must be called before any other method.
	Init() error

	// Shutdown releases resources and restores the terminal or window.
	Shutdown()

	// Size returns the drawable area in pixels.
	Size() (width, height int)

	// CellSize returns the pixel size of one glyph cell.
	CellSize() (width, height int)

	// PollEvent returns the next pending event without blocking.
	// The second result is false when the queue is empty.
	PollEvent() (Event, bool)

	// ToggleFullscreen switches between windowed and fullscreen mode.
	ToggleFullscreen()

	// Fullscreen reports whether the backend is in fullscreen mode.
	Fullscreen() bool

	// SetTitle sets the window title, where the backend has one.
	SetTitle(title string)

	// Close asks the frame loop to stop. It is safe to call from any
	// goroutine; the loop sees an EventClose on its next drain.
	Close()

	// Present shows frame, repainting at least the damaged regions.
	Present(frame *grid.Image, damage []dirty.Region) error
}

// Presentation is one recorded NullBackend.Present call.
type Presentation struct {
	Frame  *grid.Image
	Damage []dirty.Region
}

// NullBackend is an in-memory backend for tests and headless runs.
// Events are queued with PostEvent and presents are recorded.
type NullBackend struct {
	mu sync.Mutex

	width, height int
	cellW, cellH  int
	initialized   bool
	fullscreen    bool
	toggles       int
	title         string

	events      []Event
	presents    []Presentation
	presentErrs []error
}

// NewNullBackend creates a null backend with the given pixel and cell size.
func NewNullBackend(width, height, cellW, cellH int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		cellW:  cellW,
		cellH:  cellH,
	}
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.initialized = true
	return nil
}

func (b *NullBackend) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.initialized = false
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.width, b.height
}

func (b *NullBackend) CellSize() (int, int) {
	return b.cellW, b.cellH
}

func (b *NullBackend) PollEvent() (Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) == 0 {
		return Event{}, false
	}
	ev := b.events[0]
	b.events = b.events[1:]
	return ev, true
}

// PostEvent queues an event for the next PollEvent.
func (b *NullBackend) PostEvent(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = append(b.events, ev)
}

// PostKey queues a key press with the given modifiers.
func (b *NullBackend) PostKey(key Key, r rune, mod ModMask) {
	b.PostEvent(Event{Type: EventKey, Key: key, Rune: r, Mod: mod})
}

// Resize changes the pixel size and queues the matching resize event.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width = width
	b.height = height
	b.mu.Unlock()

	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

// Close queues an EventClose.
func (b *NullBackend) Close() {
	b.PostEvent(Event{Type: EventClose})
}

// Pending returns the number of queued events.
func (b *NullBackend) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.events)
}

func (b *NullBackend) ToggleFullscreen() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.fullscreen = !b.fullscreen
	b.toggles++
}

func (b *NullBackend) Fullscreen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.fullscreen
}

// Toggles returns how many times fullscreen was toggled.
func (b *NullBackend) Toggles() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.toggles
}

func (b *NullBackend) SetTitle(title string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.title = title
}

// Title returns the last title set.
func (b *NullBackend) Title() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.title
}

// FailPresent makes the next Present calls return errs in order.
func (b *NullBackend) FailPresent(errs ...error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.presentErrs = append(b.presentErrs, errs...)
}

// Present records a copy of frame. A queued failure is returned instead and
// nothing is recorded.
func (b *NullBackend) Present(frame *grid.Image, damage []dirty.Region) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return ErrNotInitialized
	}
	if len(b.presentErrs) > 0 {
		err := b.presentErrs[0]
		b.presentErrs = b.presentErrs[1:]
		return err
	}

	b.presents = append(b.presents, Presentation{
		Frame:  frame.Clone(),
		Damage: append([]dirty.Region(nil), damage...),
	})
	return nil
}

// Presents returns the number of successful Present calls.
func (b *NullBackend) Presents() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.presents)
}

// LastPresent returns the most recent successful presentation.
func (b *NullBackend) LastPresent() (Presentation, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.presents) == 0 {
		return Presentation{}, false
	}
	return b.presents[len(b.presents)-1], true
}
