package renderer

import "errors"

// Surface errors. A surface returns these (possibly wrapped) from Present so
// the frame loop can decide whether to recover or give up.
var (
	// ErrSurfaceLost means the surface must be reconfigured before the next
	// present. Recoverable with Renderer.Recover.
	ErrSurfaceLost = errors.New("presentation surface lost")

	// ErrOutOfMemory means the surface could not allocate a frame. Fatal.
	ErrOutOfMemory = errors.New("presentation surface out of memory")
)

// Construction errors.
var (
	ErrNoSurface       = errors.New("renderer requires a surface")
	ErrInvalidCellSize = errors.New("glyph cell size must be positive")
)
