package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gridterm/internal/grid"
	"github.com/dshills/gridterm/internal/palette"
	"github.com/dshills/gridterm/internal/renderer/dirty"
)

// eventBuffer is the capacity of the channel between the tcell pump and the
// frame loop.
const eventBuffer = 256

// Terminal implements Backend on a tcell screen. One glyph cell is one
// terminal character, so pixel sizes equal character sizes.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen

	events  chan tcell.Event
	quit    chan struct{}
	done    chan struct{}
	pending []Event

	mods        ModMask
	fullscreen  bool
	initialized bool
}

// NewTerminal creates a terminal backend on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen creates a terminal backend on an existing screen,
// such as a tcell simulation screen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{
		screen:     screen,
		fullscreen: true,
	}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.HideCursor()
	t.screen.Clear()

	t.events = make(chan tcell.Event, eventBuffer)
	t.quit = make(chan struct{})
	t.done = make(chan struct{})
	t.initialized = true

	go t.pump()
	return nil
}

// pump moves tcell events onto the event channel until the screen is
// finalized or the backend shuts down.
func (t *Terminal) pump() {
	defer close(t.done)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.quit:
			return
		}
	}
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	if !t.initialized {
		t.mu.Unlock()
		return
	}
	t.initialized = false
	close(t.quit)
	t.mu.Unlock()

	t.screen.Fini()
	<-t.done
}

func (t *Terminal) Size() (int, int) {
	return t.screen.Size()
}

func (t *Terminal) CellSize() (int, int) {
	return 1, 1
}

// Close asks the frame loop to stop by queueing a close event.
func (t *Terminal) Close() {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil)) // queue may be full; the loop will still see Shutdown
}

func (t *Terminal) PollEvent() (Event, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for len(t.pending) == 0 {
		select {
		case ev := <-t.events:
			t.pending = t.convertEvent(ev)
		default:
			return Event{}, false
		}
	}
	ev := t.pending[0]
	t.pending = t.pending[1:]
	return ev, true
}

// convertEvent translates one tcell event. A key or mouse event whose
// modifiers differ from the last seen set is preceded by a modifier event,
// since terminals never report modifier changes on their own.
func (t *Terminal) convertEvent(ev tcell.Event) []Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		key, r, mod := convertKey(e)
		return t.withMods(mod, Event{Type: EventKey, Key: key, Rune: r, Mod: mod})

	case *tcell.EventMouse:
		x, y := e.Position()
		w, h := t.screen.Size()
		mod := convertMod(e.Modifiers())
		return t.withMods(mod, Event{
			Type:     EventMouse,
			MouseX:   x,
			MouseY:   y,
			Buttons:  convertButtons(e.Buttons()),
			OnWindow: x >= 0 && y >= 0 && x < w && y < h,
			Mod:      mod,
		})

	case *tcell.EventResize:
		w, h := e.Size()
		return []Event{{Type: EventResize, Width: w, Height: h}}

	case *tcell.EventInterrupt:
		return []Event{{Type: EventClose}}

	default:
		return nil
	}
}

func (t *Terminal) withMods(mod ModMask, ev Event) []Event {
	if mod == t.mods {
		return []Event{ev}
	}
	t.mods = mod
	return []Event{{Type: EventModifiers, Mod: mod}, ev}
}

func (t *Terminal) ToggleFullscreen() {
	t.mu.Lock()
	t.fullscreen = !t.fullscreen
	t.mu.Unlock()

	t.screen.Sync()
}

func (t *Terminal) Fullscreen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.fullscreen
}

func (t *Terminal) SetTitle(title string) {
	t.screen.SetTitle(title)
}

// Present writes the damaged cells of frame to the screen and shows it.
func (t *Terminal) Present(frame *grid.Image, damage []dirty.Region) error {
	t.mu.Lock()
	ready := t.initialized
	t.mu.Unlock()
	if !ready {
		return ErrNotInitialized
	}

	sw, sh := t.screen.Size()
	visible := dirty.NewRect(0, 0, min(frame.Width, sw), min(frame.Height, sh))
	for _, region := range damage {
		region = region.Intersect(visible)
		if region.IsEmpty() {
			continue
		}
		x0, y0, w, h := region.Bounds(frame.Width)
		for y := y0; y < y0+h; y++ {
			row := y * frame.Width
			for x := x0; x < x0+w; x++ {
				i := row + x
				style := tcell.StyleDefault.
					Foreground(convertColour(frame.Ink[i])).
					Background(convertColour(frame.Paper[i]))
				t.screen.SetContent(x, y, glyphRune(frame.Code[i]), nil, style)
			}
		}
	}
	t.screen.Show()
	return nil
}

// glyphRune returns the printable rune for a glyph code. Control codes
// render as blanks.
func glyphRune(code uint32) rune {
	r := grid.Decode(code)
	if r < 0x20 || r == 0x7f {
		return ' '
	}
	return r
}

func convertColour(c uint32) tcell.Color {
	r, g, b, _ := palette.Unpack(c)
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,
}

// convertKey translates a tcell key event. Control letters arrive as
// dedicated tcell keys and are turned back into the letter plus ModCtrl.
func convertKey(e *tcell.EventKey) (Key, rune, ModMask) {
	mod := convertMod(e.Modifiers())
	k := e.Key()
	if k == tcell.KeyRune {
		return KeyRune, e.Rune(), mod
	}
	if key, ok := tcellKeys[k]; ok {
		return key, 0, mod
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return KeyRune, 'a' + rune(k-tcell.KeyCtrlA), mod | ModCtrl
	}
	return KeyNone, 0, mod
}

func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&(tcell.ModAlt|tcell.ModMeta) != 0 {
		result |= ModAlt
	}
	return result
}

func convertButtons(b tcell.ButtonMask) ButtonMask {
	var result ButtonMask
	if b&tcell.ButtonPrimary != 0 {
		result |= ButtonPrimary
	}
	if b&tcell.ButtonSecondary != 0 {
		result |= ButtonSecondary
	}
	if b&tcell.ButtonMiddle != 0 {
		result |= ButtonMiddle
	}
	return result
}
