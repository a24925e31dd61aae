// Package renderer owns the frame buffer and hands finished frames to a
// presentation surface.
//
// The renderer is responsible for:
//   - Sizing the character grid from the surface's pixel size
//   - Lending the frame buffer to a program through a scoped grid.Frame
//   - Diffing each frame against the last presented one
//   - Recovering from a lost surface with a full redraw
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│        Frame loop (internal/app)        │
//	├─────────────────────────────────────────┤
//	│  Renderer │ grid.Image │ dirty.Tracker  │
//	├─────────────────────────────────────────┤
//	│           Surface abstraction           │
//	├─────────────────────────────────────────┤
//	│  Terminal (tcell) │ raster.Canvas (PNG) │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	w, h := term.Size()
//	r, _ := renderer.New(term, 1, 1, w, h)
//	f := r.Frame()
//	f.Clear(ink, paper)
//	f.Release()
//	r.Render()
package renderer
