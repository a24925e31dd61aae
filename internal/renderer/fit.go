package renderer

// Minimum window size in glyph cells.
const (
	MinCols = 20
	MinRows = 20
)

// FitWindow rounds a requested inner window size in pixels down to a whole
// number of glyph cells, never going below MinCols x MinRows cells.
// Non-positive cell sizes return the request unchanged.
func FitWindow(innerW, innerH, cellW, cellH int) (width, height int) {
	if cellW <= 0 || cellH <= 0 {
		return innerW, innerH
	}
	width = max(MinCols*cellW, innerW) / cellW * cellW
	height = max(MinRows*cellH, innerH) / cellH * cellH
	return width, height
}

// MinWindow returns the smallest window size in pixels for the cell size.
func MinWindow(cellW, cellH int) (width, height int) {
	return MinCols * cellW, MinRows * cellH
}

// CharsSize returns how many whole glyph cells fit in a pixel area.
func CharsSize(pixelW, pixelH, cellW, cellH int) (cols, rows int) {
	if cellW <= 0 || cellH <= 0 || pixelW <= 0 || pixelH <= 0 {
		return 0, 0
	}
	return pixelW / cellW, pixelH / cellH
}
