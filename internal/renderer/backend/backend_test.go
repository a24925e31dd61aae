package backend

import (
	"errors"
	"testing"

	"github.com/dshills/gridterm/internal/grid"
	"github.com/dshills/gridterm/internal/renderer/dirty"
)

func TestNullBackendInit(t *testing.T) {
	b := NewNullBackend(800, 600, 8, 8)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if w, h := b.Size(); w != 800 || h != 600 {
		t.Errorf("Size() = (%d, %d), want (800, 600)", w, h)
	}
	if w, h := b.CellSize(); w != 8 || h != 8 {
		t.Errorf("CellSize() = (%d, %d), want (8, 8)", w, h)
	}
}

func TestNullBackendEventsFIFO(t *testing.T) {
	b := NewNullBackend(80, 24, 1, 1)
	b.PostKey(KeyRune, 'a', ModNone)
	b.PostEvent(Event{Type: EventModifiers, Mod: ModShift})
	b.PostEvent(Event{Type: EventClose})

	want := []EventType{EventKey, EventModifiers, EventClose}
	for i, typ := range want {
		ev, ok := b.PollEvent()
		if !ok {
			t.Fatalf("PollEvent %d returned no event", i)
		}
		if ev.Type != typ {
			t.Errorf("event %d type = %v, want %v", i, ev.Type, typ)
		}
	}

	if _, ok := b.PollEvent(); ok {
		t.Error("PollEvent on an empty queue should return false")
	}
}

func TestNullBackendResize(t *testing.T) {
	b := NewNullBackend(80, 24, 1, 1)
	b.Resize(100, 40)

	if w, h := b.Size(); w != 100 || h != 40 {
		t.Errorf("Size() = (%d, %d), want (100, 40)", w, h)
	}
	ev, ok := b.PollEvent()
	if !ok || ev.Type != EventResize || ev.Width != 100 || ev.Height != 40 {
		t.Errorf("PollEvent() = %+v, %v, want resize 100x40", ev, ok)
	}
}

func TestNullBackendPresent(t *testing.T) {
	b := NewNullBackend(4, 2, 1, 1)

	frame := grid.New(4, 2)
	if err := b.Present(frame, nil); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Present before Init = %v, want ErrNotInitialized", err)
	}

	b.Init()
	frame.DrawChar(grid.Pt(1, 1), grid.NewCell('x', 1, 2))
	damage := []dirty.Region{dirty.NewRows(1, 1)}
	if err := b.Present(frame, damage); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	// Later changes must not leak into the recorded copy.
	frame.Clear(0, 0)

	p, ok := b.LastPresent()
	if !ok {
		t.Fatal("LastPresent returned nothing")
	}
	if c, _ := p.Frame.At(1, 1); c.Code != 'x' {
		t.Errorf("recorded cell code = %q, want 'x'", rune(c.Code))
	}
	if len(p.Damage) != 1 || p.Damage[0] != dirty.NewRows(1, 1) {
		t.Errorf("recorded damage = %+v, want row 1", p.Damage)
	}
	if b.Presents() != 1 {
		t.Errorf("Presents() = %d, want 1", b.Presents())
	}
}

func TestNullBackendFailPresent(t *testing.T) {
	errLost := errors.New("lost")
	b := NewNullBackend(4, 2, 1, 1)
	b.Init()
	b.FailPresent(errLost)

	if err := b.Present(grid.New(4, 2), nil); !errors.Is(err, errLost) {
		t.Errorf("first Present = %v, want %v", err, errLost)
	}
	if err := b.Present(grid.New(4, 2), nil); err != nil {
		t.Errorf("second Present = %v, want nil", err)
	}
	if b.Presents() != 1 {
		t.Errorf("Presents() = %d, want 1", b.Presents())
	}
}

func TestNullBackendFullscreen(t *testing.T) {
	b := NewNullBackend(4, 2, 1, 1)

	b.ToggleFullscreen()
	if !b.Fullscreen() {
		t.Error("Fullscreen() should be true after one toggle")
	}
	b.ToggleFullscreen()
	if b.Fullscreen() {
		t.Error("Fullscreen() should be false after two toggles")
	}
	if b.Toggles() != 2 {
		t.Errorf("Toggles() = %d, want 2", b.Toggles())
	}

	b.SetTitle("demo")
	if b.Title() != "demo" {
		t.Errorf("Title() = %q, want %q", b.Title(), "demo")
	}
}

func TestModMaskHas(t *testing.T) {
	m := ModShift | ModAlt

	if !m.Has(ModShift) || !m.Has(ModAlt) {
		t.Error("mask should contain shift and alt")
	}
	if m.Has(ModCtrl) {
		t.Error("mask should not contain ctrl")
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name string
		want Key
		ok   bool
	}{
		{"escape", KeyEscape, true},
		{"f12", KeyF12, true},
		{"enter", KeyEnter, true},
		{"hyper", KeyNone, false},
	}

	for _, tt := range tests {
		got, ok := ParseKey(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseKey(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
		if ok && got.String() != tt.name {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), tt.name)
		}
	}
}

func TestEventTypeString(t *testing.T) {
	if EventModifiers.String() != "modifiers" {
		t.Errorf("EventModifiers.String() = %q", EventModifiers.String())
	}
	if EventType(42).String() != "none" {
		t.Errorf("EventType(42).String() = %q, want none", EventType(42).String())
	}
}

func TestNullBackendClose(t *testing.T) {
	var b Backend = NewNullBackend(10, 10, 1, 1)
	b.Close()

	ev, ok := b.PollEvent()
	if !ok || ev.Type != EventClose {
		t.Errorf("PollEvent() = %v, %v, want EventClose", ev.Type, ok)
	}
}
