package dirty

import (
	"slices"
	"sync"

	"github.com/dshills/gridterm/internal/grid"
)

// ChangeKind classifies why part of the grid became dirty.
type ChangeKind uint8

const (
	// ChangeCells indicates cell contents changed inside a region.
	ChangeCells ChangeKind = iota

	// ChangeResize indicates the grid dimensions changed.
	ChangeResize

	// ChangeRecover indicates the presentation surface was rebuilt.
	ChangeRecover
)

// String returns the string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeCells:
		return "cells"
	case ChangeResize:
		return "resize"
	case ChangeRecover:
		return "recover"
	default:
		return "unknown"
	}
}

// Change is a single damage event.
type Change struct {
	Kind   ChangeKind
	Region Region
}

// Tracker accumulates dirty regions between presents and coalesces them.
type Tracker struct {
	mu sync.RWMutex

	regions    []Region
	fullRedraw bool

	// maxRegions is the region count above which regions are coalesced.
	maxRegions int

	width  int
	height int

	// coalesceThreshold is the dirty fraction of the grid that triggers a
	// full redraw.
	coalesceThreshold float64
}

// NewTracker creates a tracker for a width x height grid.
// Negative dimensions are treated as zero. A new tracker starts with a full
// redraw pending, since nothing has been presented yet.
func NewTracker(width, height int) *Tracker {
	return &Tracker{
		regions:           make([]Region, 0, 16),
		fullRedraw:        true,
		maxRegions:        32,
		width:             max(width, 0),
		height:            max(height, 0),
		coalesceThreshold: 0.5,
	}
}

// SetSize updates the grid dimensions and forces a full redraw.
func (t *Tracker) SetSize(width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.width = max(width, 0)
	t.height = max(height, 0)
	t.fullRedraw = true
	t.regions = t.regions[:0]
}

// MarkFullRedraw marks the entire grid as needing a repaint.
func (t *Tracker) MarkFullRedraw() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.fullRedraw = true
	t.regions = t.regions[:0]
}

// MarkChange records a damage event.
func (t *Tracker) MarkChange(change Change) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fullRedraw {
		return
	}

	switch change.Kind {
	case ChangeResize, ChangeRecover:
		t.fullRedraw = true
		t.regions = t.regions[:0]
	default:
		t.addRegion(change.Region)
	}
}

// Diff marks every cell whose glyph or colours differ between prev and cur.
// Each row contributes at most one span, from its first to its last changed
// column. A nil prev or a size mismatch marks a full redraw.
func (t *Tracker) Diff(prev, cur *grid.Image) {
	if cur == nil {
		return
	}
	if prev == nil || prev.Width != cur.Width || prev.Height != cur.Height {
		t.MarkFullRedraw()
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fullRedraw {
		return
	}

	w := cur.Width
	for y := range cur.Height {
		row := y * w
		first, last := -1, -1
		for x := range w {
			i := row + x
			if prev.Code[i] != cur.Code[i] ||
				prev.Ink[i] != cur.Ink[i] ||
				prev.Paper[i] != cur.Paper[i] {
				if first < 0 {
					first = x
				}
				last = x
			}
		}
		if first >= 0 {
			t.addRegion(NewSpan(y, first, last+1))
			if t.fullRedraw {
				return
			}
		}
	}
}

// addRegion clamps region to the grid and merges it into the set.
func (t *Tracker) addRegion(region Region) {
	if t.width == 0 || t.height == 0 {
		return
	}

	region = region.clamp(t.width, t.height)
	if region.IsEmpty() {
		return
	}

	merged := false
	for i := range t.regions {
		if m, ok := t.regions[i].Merge(region); ok {
			t.regions[i] = m
			t.coalesceRegions()
			merged = true
			break
		}
	}
	if !merged {
		t.regions = append(t.regions, region)
		if len(t.regions) > t.maxRegions {
			t.collapseRows()
		}
	}

	if t.dirtyAreaRatio() > t.coalesceThreshold {
		t.fullRedraw = true
		t.regions = t.regions[:0]
	}
}

// coalesceRegions merges overlapping or adjacent regions until none remain.
func (t *Tracker) coalesceRegions() {
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(t.regions) && !changed; i++ {
			for j := i + 1; j < len(t.regions); j++ {
				if m, ok := t.regions[i].Merge(t.regions[j]); ok {
					t.regions[i] = m
					t.regions = slices.Delete(t.regions, j, j+1)
					changed = true
					break
				}
			}
		}
	}
}

// collapseRows widens every region to full rows so vertically adjacent
// damage merges, keeping the region count bounded.
func (t *Tracker) collapseRows() {
	for i := range t.regions {
		t.regions[i] = NewRows(t.regions[i].Top, t.regions[i].Bottom)
	}
	t.coalesceRegions()
}

// dirtyAreaRatio returns the fraction of the grid covered by regions.
func (t *Tracker) dirtyAreaRatio() float64 {
	if t.width == 0 || t.height == 0 {
		return 0
	}

	total := float64(t.width) * float64(t.height)
	area := 0.0
	for _, r := range t.regions {
		area += float64(r.Rows()) * float64(r.Cols(t.width))
	}
	return area / total
}

// IsDirty returns true if anything needs repainting.
func (t *Tracker) IsDirty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.fullRedraw || len(t.regions) > 0
}

// NeedsFullRedraw returns true if the whole grid needs repainting.
func (t *Tracker) NeedsFullRedraw() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.fullRedraw
}

// Regions returns a copy of the dirty regions, sorted top to bottom.
// A pending full redraw is reported as one region covering every row.
func (t *Tracker) Regions() []Region {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.fullRedraw {
		if t.height == 0 || t.width == 0 {
			return nil
		}
		return []Region{NewRows(0, t.height-1)}
	}

	result := slices.Clone(t.regions)
	slices.SortFunc(result, func(a, b Region) int {
		if a.Top != b.Top {
			return a.Top - b.Top
		}
		return a.Left - b.Left
	})
	return result
}

// Clear forgets all damage. Called after a successful present.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.regions = t.regions[:0]
	t.fullRedraw = false
}

// SetMaxRegions sets the region count above which regions are collapsed to
// whole rows. Values less than 1 are clamped to 1.
func (t *Tracker) SetMaxRegions(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.maxRegions = max(n, 1)
}

// SetCoalesceThreshold sets the dirty fraction that triggers a full redraw.
func (t *Tracker) SetCoalesceThreshold(threshold float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.coalesceThreshold = min(max(threshold, 0), 1)
}

// Stats returns a snapshot of the tracker state.
func (t *Tracker) Stats() TrackerStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return TrackerStats{
		RegionCount:   len(t.regions),
		FullRedraw:    t.fullRedraw,
		DirtyRatio:    t.dirtyAreaRatio(),
		Width:         t.width,
		Height:        t.height,
		MaxRegions:    t.maxRegions,
		CoalThreshold: t.coalesceThreshold,
	}
}

// TrackerStats contains statistics about the tracker state.
type TrackerStats struct {
	RegionCount   int
	FullRedraw    bool
	DirtyRatio    float64
	Width         int
	Height        int
	MaxRegions    int
	CoalThreshold float64
}
