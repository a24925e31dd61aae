package renderer

import (
	"fmt"
	"sync"

	"github.com/dshills/gridterm/internal/grid"
	"github.com/dshills/gridterm/internal/renderer/dirty"
)

// Damage coalescing defaults, matching a fresh dirty.Tracker.
const (
	DefaultMaxDamageRegions = 32
	DefaultFullRedrawRatio  = 0.5
)

// Surface receives finished frames. Damage lists the regions that changed
// since the previous successful present; a surface may repaint more.
type Surface interface {
	Present(frame *grid.Image, damage []dirty.Region) error
}

// Stats counts renderer activity.
type Stats struct {
	Renders       uint64
	FullRedraws   uint64
	EmptyPresents uint64 // presents with no damage at all
	Resizes       uint64
	Recoveries    uint64
	DamagedCells  uint64

	// LastDamage is the tracker state handed to the most recent present.
	LastDamage dirty.TrackerStats
}

// Renderer owns the frame buffer and presents it to a surface.
type Renderer struct {
	mu sync.Mutex

	surface      Surface
	cellW, cellH int
	pixelW       int
	pixelH       int

	frame   *grid.Image
	last    *grid.Image
	tracker *dirty.Tracker

	stats Stats
}

// New creates a renderer whose frame buffer fills pixelW x pixelH with glyph
// cells of cellW x cellH pixels.
func New(surface Surface, cellW, cellH, pixelW, pixelH int) (*Renderer, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	if cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidCellSize, cellW, cellH)
	}

	cols, rows := CharsSize(pixelW, pixelH, cellW, cellH)
	return &Renderer{
		surface: surface,
		cellW:   cellW,
		cellH:   cellH,
		pixelW:  pixelW,
		pixelH:  pixelH,
		frame:   grid.New(cols, rows),
		tracker: dirty.NewTracker(cols, rows),
	}, nil
}

// CharsSize returns the frame buffer size in glyph cells.
func (r *Renderer) CharsSize() (cols, rows int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.frame.Size()
}

// CellSize returns the glyph cell size in pixels.
func (r *Renderer) CellSize() (width, height int) {
	return r.cellW, r.cellH
}

// PixelSize returns the surface size the renderer was last fitted to.
func (r *Renderer) PixelSize() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pixelW, r.pixelH
}

// Frame lends the live frame buffer. The caller must Release the view when
// drawing is done; a later Resize replaces the buffer the view points at.
func (r *Renderer) Frame() *grid.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	return grid.NewFrame(r.frame)
}

// Image returns the live frame buffer for read access.
func (r *Renderer) Image() *grid.Image {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.frame
}

// Render presents the frame buffer. Only regions that differ from the last
// successful present are reported as damage. On error the damage is kept and
// reported again on the next call.
func (r *Renderer) Render() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tracker.Diff(r.last, r.frame)
	full := r.tracker.NeedsFullRedraw()
	clean := !r.tracker.IsDirty()
	damage := r.tracker.Regions()
	snapshot := r.tracker.Stats()

	if err := r.surface.Present(r.frame, damage); err != nil {
		return err
	}

	r.stats.Renders++
	if full {
		r.stats.FullRedraws++
	}
	if clean {
		r.stats.EmptyPresents++
	}
	r.stats.LastDamage = snapshot
	for _, d := range damage {
		_, _, w, h := d.Bounds(r.frame.Width)
		r.stats.DamagedCells += uint64(w * h)
	}

	r.remember()
	r.tracker.Clear()
	return nil
}

// remember copies the frame buffer into the last-presented snapshot.
func (r *Renderer) remember() {
	if r.last == nil || r.last.Width != r.frame.Width || r.last.Height != r.frame.Height {
		r.last = r.frame.Clone()
		return
	}
	copy(r.last.Ink, r.frame.Ink)
	copy(r.last.Paper, r.frame.Paper)
	copy(r.last.Code, r.frame.Code)
}

// Resize fits the renderer to a new surface size. The frame buffer is
// replaced with a zero-filled one only when the number of glyph cells
// changes, which Resize reports by returning true.
func (r *Renderer) Resize(pixelW, pixelH int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.resize(pixelW, pixelH)
}

func (r *Renderer) resize(pixelW, pixelH int) bool {
	r.pixelW, r.pixelH = pixelW, pixelH

	cols, rows := CharsSize(pixelW, pixelH, r.cellW, r.cellH)
	if cols == r.frame.Width && rows == r.frame.Height {
		return false
	}

	r.frame = grid.New(cols, rows)
	r.last = nil
	r.tracker.SetSize(cols, rows)
	r.stats.Resizes++
	return true
}

// Recover refits the renderer after the surface was lost and forces the next
// Render to repaint everything.
func (r *Renderer) Recover(pixelW, pixelH int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resize(pixelW, pixelH)
	r.last = nil
	r.tracker.MarkChange(dirty.Change{Kind: dirty.ChangeRecover})
	r.stats.Recoveries++
}

// SetDamageLimits tunes damage coalescing. Once more than maxRegions
// separate regions are pending they are widened to whole rows, and once
// the damaged fraction of the grid exceeds fullRedraw the whole frame is
// repainted instead.
func (r *Renderer) SetDamageLimits(maxRegions int, fullRedraw float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tracker.SetMaxRegions(maxRegions)
	r.tracker.SetCoalesceThreshold(fullRedraw)
}

// Stats returns a snapshot of the renderer counters.
func (r *Renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stats
}
