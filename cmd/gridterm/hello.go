package main

import (
	"github.com/dshills/gridterm/internal/app"
	"github.com/dshills/gridterm/internal/grid"
	"github.com/dshills/gridterm/internal/palette"
)

// hello is the built-in demo: "Hello" near the top left corner and "World!"
// near the bottom right, composed off screen and blitted over the frame.
type hello struct {
	width, height int
	drawn         bool
}

func (h *hello) Update(in app.TickInput) app.TickResult {
	if in.Width != h.width || in.Height != h.height {
		h.width, h.height = in.Width, in.Height
		h.drawn = false
	}
	return app.Continue
}

func (h *hello) Draw(f *grid.Frame) app.DrawResult {
	if h.drawn {
		return app.NoChanges
	}

	img := grid.New(f.Width(), f.Height())
	img.Clear(palette.White.Packed(), palette.Black.Packed())
	img.DrawString(grid.Pt(1, 1), "Hello", palette.Yellow.Packed(), palette.Blue.Packed())
	img.DrawString(grid.Pt(img.Width-7, img.Height-2), "World!", palette.Blue.Packed(), palette.Yellow.Packed())
	f.BlitScreen(img)

	h.drawn = true
	return app.Changed
}
