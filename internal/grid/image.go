package grid

import "slices"

// Point is a cell coordinate. Either component may be negative when used as
// the anchor of a draw operation; clipping happens inside the primitive.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Cell is a single character with its colours.
// Only the low 8 bits of Code select a glyph; the rest are reserved.
type Cell struct {
	Code  uint32
	Ink   uint32
	Paper uint32
}

// NewCell creates a cell from a glyph byte.
func NewCell(ch byte, ink, paper uint32) Cell {
	return Cell{Code: uint32(ch), Ink: ink, Paper: paper}
}

// Glyph returns the glyph index the renderer will draw for this cell.
func (c Cell) Glyph() byte {
	return byte(c.Code)
}

// Image is a rectangular grid of cells stored as three parallel slices.
// Ink, Paper and Code always have length Width*Height.
type Image struct {
	Width  int
	Height int
	Ink    []uint32
	Paper  []uint32
	Code   []uint32
}

// New allocates a zero-filled image. Negative dimensions are treated as zero.
func New(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	return &Image{
		Width:  width,
		Height: height,
		Ink:    make([]uint32, size),
		Paper:  make([]uint32, size),
		Code:   make([]uint32, size),
	}
}

// Size returns the image dimensions.
func (img *Image) Size() (width, height int) {
	return img.Width, img.Height
}

// Len returns the number of cells.
func (img *Image) Len() int {
	return len(img.Code)
}

// Index converts a coordinate to a slice index.
// Returns false when the coordinate is outside the image.
func (img *Image) Index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return 0, false
	}
	return y*img.Width + x, true
}

// At returns the cell at the given position.
func (img *Image) At(x, y int) (Cell, bool) {
	i, ok := img.Index(x, y)
	if !ok {
		return Cell{}, false
	}
	return Cell{Code: img.Code[i], Ink: img.Ink[i], Paper: img.Paper[i]}, true
}

// Clip fits a rectangle anchored at p to the image bounds.
// A negative anchor shrinks the extent by the overhang and moves the anchor
// to zero; the far edge is then clamped to the image. A rectangle that
// misses the image clips to all zeros. Callers must treat a non-positive
// width or height as "nothing to draw".
func (img *Image) Clip(p Point, width, height int) (x, y, w, h int) {
	if width <= 0 || height <= 0 {
		return 0, 0, 0, 0
	}
	x, y, w, h = p.X, p.Y, width, height
	if x < 0 {
		if x <= -w {
			return 0, 0, 0, 0
		}
		w += x
		x = 0
	}
	if y < 0 {
		if y <= -h {
			return 0, 0, 0, 0
		}
		h += y
		y = 0
	}
	if x >= img.Width || y >= img.Height {
		return 0, 0, 0, 0
	}
	w = min(w, img.Width-x)
	h = min(h, img.Height-y)
	return x, y, w, h
}

// Clone returns a deep copy of the image.
func (img *Image) Clone() *Image {
	return &Image{
		Width:  img.Width,
		Height: img.Height,
		Ink:    slices.Clone(img.Ink),
		Paper:  slices.Clone(img.Paper),
		Code:   slices.Clone(img.Code),
	}
}

// Equal reports whether two images have the same size and contents.
func (img *Image) Equal(other *Image) bool {
	if img == nil || other == nil {
		return img == other
	}
	return img.Width == other.Width &&
		img.Height == other.Height &&
		slices.Equal(img.Ink, other.Ink) &&
		slices.Equal(img.Paper, other.Paper) &&
		slices.Equal(img.Code, other.Code)
}
