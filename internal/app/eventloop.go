package app

import (
	"github.com/dshills/gridterm/internal/renderer/backend"
)

// drainEvents applies every pending backend event to the input state.
// It returns Stop as soon as the exit key is pressed; later events stay
// queued.
func (app *Application) drainEvents() TickResult {
	for {
		ev, ok := app.backend.PollEvent()
		if !ok {
			return Continue
		}
		app.metrics.RecordEvent()
		if app.handleBackendEvent(ev) == Stop {
			return Stop
		}
	}
}

// handleBackendEvent routes one event.
func (app *Application) handleBackendEvent(ev backend.Event) TickResult {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventModifiers:
		app.key.Shift = ev.Mod.Has(backend.ModShift)
		app.key.Ctrl = ev.Mod.Has(backend.ModCtrl)
		app.key.Alt = ev.Mod.Has(backend.ModAlt)
	case backend.EventMouse:
		app.mouse = &MouseState{
			OnWindow:         ev.OnWindow,
			PrimaryPressed:   ev.Buttons.Has(backend.ButtonPrimary),
			SecondaryPressed: ev.Buttons.Has(backend.ButtonSecondary),
			X:                ev.MouseX,
			Y:                ev.MouseY,
		}
	case backend.EventResize:
		app.handleResize(ev)
	case backend.EventClose:
		app.closing = true
	}
	return Continue
}

// handleKeyEvent records a key press and applies the reserved keys.
// The exit key ends the loop without an update. Alt+Enter with no other
// modifier and no character toggles fullscreen and is not forwarded.
func (app *Application) handleKeyEvent(ev backend.Event) TickResult {
	app.key.Pressed = true
	app.key.Key = ev.Key
	app.key.Char = 0
	if ev.Key == backend.KeyRune {
		app.key.Char = ev.Rune
	}

	if app.opts.ExitKey != backend.KeyNone && ev.Key == app.opts.ExitKey {
		return Stop
	}

	if !app.opts.DisableFullscreenToggle && app.isFullscreenChord() {
		app.backend.ToggleFullscreen()
		app.metrics.RecordFullscreenToggle()
		app.logger.Debug("fullscreen %v", app.backend.Fullscreen())
		app.key.Pressed = false
		app.key.Key = backend.KeyNone
	}
	return Continue
}

func (app *Application) isFullscreenChord() bool {
	k := app.key
	return k.Pressed && k.Key == backend.KeyEnter &&
		k.Alt && !k.Shift && !k.Ctrl && k.Char == 0
}

// handleResize refits the renderer. The frame buffer is replaced only when
// the number of cells changes.
func (app *Application) handleResize(ev backend.Event) {
	if !app.renderer.Resize(ev.Width, ev.Height) {
		return
	}
	app.metrics.RecordResize()
	cols, rows := app.renderer.CharsSize()
	app.logger.Debug("resized to %dx%d cells", cols, rows)
}
