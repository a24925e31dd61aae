// Package dirty tracks which cells of a character grid changed between two
// presented frames, so a surface can repaint only the damaged rows.
// Adjacent and overlapping regions are coalesced, and the tracker falls back
// to a full redraw once too much of the grid is damaged.
package dirty

// Region is a rectangle of grid cells that needs repainting.
type Region struct {
	// Top is the first row of the region (inclusive).
	Top int

	// Bottom is the last row of the region (inclusive).
	Bottom int

	// Left is the first column of the region (inclusive).
	// Ignored when FullWidth is true.
	Left int

	// Right is the last column of the region (exclusive).
	// Ignored when FullWidth is true.
	Right int

	// FullWidth indicates the region spans every column.
	FullWidth bool
}

// NewRows creates a region covering whole rows.
func NewRows(top, bottom int) Region {
	if bottom < top {
		top, bottom = bottom, top
	}
	return Region{Top: top, Bottom: bottom, FullWidth: true}
}

// NewSpan creates a region covering columns [left, right) of one row.
func NewSpan(row, left, right int) Region {
	if right < left {
		left, right = right, left
	}
	return Region{Top: row, Bottom: row, Left: left, Right: right}
}

// NewRect creates a rectangular region from a cell origin and extent.
func NewRect(x, y, w, h int) Region {
	return Region{Top: y, Bottom: y + h - 1, Left: x, Right: x + w}
}

// IsEmpty returns true if the region covers no cells.
func (r Region) IsEmpty() bool {
	if r.Top > r.Bottom {
		return true
	}
	return !r.FullWidth && r.Left >= r.Right
}

// Rows returns the number of rows covered by the region.
func (r Region) Rows() int {
	if r.Top > r.Bottom {
		return 0
	}
	return r.Bottom - r.Top + 1
}

// Cols returns the number of columns covered, given the grid width for
// full-width regions.
func (r Region) Cols(width int) int {
	if r.FullWidth {
		return width
	}
	if r.Left >= r.Right {
		return 0
	}
	return r.Right - r.Left
}

// Bounds returns the region as an origin and extent, resolving full-width
// regions against the grid width.
func (r Region) Bounds(width int) (x, y, w, h int) {
	if r.FullWidth {
		return 0, r.Top, width, r.Rows()
	}
	return r.Left, r.Top, r.Cols(width), r.Rows()
}

// ContainsRow returns true if the region covers the given row.
func (r Region) ContainsRow(row int) bool {
	return row >= r.Top && row <= r.Bottom
}

// Overlaps returns true if two regions share at least one cell.
func (r Region) Overlaps(other Region) bool {
	if r.Bottom < other.Top || r.Top > other.Bottom {
		return false
	}
	if r.FullWidth || other.FullWidth {
		return true
	}
	return r.Right > other.Left && r.Left < other.Right
}

// Adjacent returns true if two regions touch and can be merged without
// covering extra cells.
func (r Region) Adjacent(other Region) bool {
	if r.Bottom+1 == other.Top || other.Bottom+1 == r.Top {
		if r.FullWidth && other.FullWidth {
			return true
		}
		if !r.FullWidth && !other.FullWidth {
			return r.Left == other.Left && r.Right == other.Right
		}
		return false
	}

	if !r.FullWidth && !other.FullWidth &&
		r.Top == other.Top && r.Bottom == other.Bottom {
		return r.Right == other.Left || other.Right == r.Left
	}

	return false
}

// Merge combines two regions into one covering both.
// Returns false when the regions neither overlap nor touch.
func (r Region) Merge(other Region) (Region, bool) {
	if !r.Overlaps(other) && !r.Adjacent(other) {
		return Region{}, false
	}

	merged := Region{
		Top:    min(r.Top, other.Top),
		Bottom: max(r.Bottom, other.Bottom),
	}
	if r.FullWidth || other.FullWidth {
		merged.FullWidth = true
	} else {
		merged.Left = min(r.Left, other.Left)
		merged.Right = max(r.Right, other.Right)
	}
	return merged, true
}

// Intersect returns the cells common to both regions.
// The result is empty when they don't overlap.
func (r Region) Intersect(other Region) Region {
	if !r.Overlaps(other) {
		return Region{Top: 1, Bottom: 0}
	}

	result := Region{
		Top:    max(r.Top, other.Top),
		Bottom: min(r.Bottom, other.Bottom),
	}
	switch {
	case r.FullWidth && other.FullWidth:
		result.FullWidth = true
	case r.FullWidth:
		result.Left, result.Right = other.Left, other.Right
	case other.FullWidth:
		result.Left, result.Right = r.Left, r.Right
	default:
		result.Left = max(r.Left, other.Left)
		result.Right = min(r.Right, other.Right)
	}
	return result
}

// clamp restricts the region to a width x height grid.
func (r Region) clamp(width, height int) Region {
	r.Top = max(r.Top, 0)
	r.Bottom = min(r.Bottom, height-1)
	if !r.FullWidth {
		r.Left = max(r.Left, 0)
		r.Right = min(r.Right, width)
		if r.Left == 0 && r.Right == width {
			r.FullWidth = true
			r.Left, r.Right = 0, 0
		}
	}
	return r
}
