package grid

import "math"

// fill sets every element of s to v by doubling the filled prefix.
func fill(s []uint32, v uint32) {
	if len(s) == 0 {
		return
	}
	s[0] = v
	for filled := 1; filled < len(s); filled *= 2 {
		copy(s[filled:], s[:filled])
	}
}

// Clear fills the whole image with spaces in the given colours.
func (img *Image) Clear(ink, paper uint32) {
	fill(img.Ink, ink)
	fill(img.Paper, paper)
	fill(img.Code, ' ')
}

// Fill sets every cell of the image to c.
func (img *Image) Fill(c Cell) {
	fill(img.Ink, c.Ink)
	fill(img.Paper, c.Paper)
	fill(img.Code, c.Code)
}

// DrawChar writes a single cell. Positions outside the image are ignored.
func (img *Image) DrawChar(p Point, c Cell) {
	i, ok := img.Index(p.X, p.Y)
	if !ok {
		return
	}
	img.Ink[i] = c.Ink
	img.Paper[i] = c.Paper
	img.Code[i] = c.Code
}

// DrawString writes text as one horizontal run starting at p.
// The run is clipped to the image; when it starts left of the image the
// hidden leading glyphs are skipped.
func (img *Image) DrawString(p Point, text string, ink, paper uint32) {
	img.DrawGlyphs(p, Encode(text), ink, paper)
}

// DrawGlyphs is DrawString for text that is already glyph-encoded.
func (img *Image) DrawGlyphs(p Point, glyphs []byte, ink, paper uint32) {
	x, y, w, h := img.Clip(p, len(glyphs), 1)
	if w <= 0 || h <= 0 {
		return
	}
	skip := x - p.X
	i := y*img.Width + x
	fill(img.Ink[i:i+w], ink)
	fill(img.Paper[i:i+w], paper)
	for j, g := range glyphs[skip : skip+w] {
		img.Code[i+j] = uint32(g)
	}
}

// DrawRectFilled fills a width×height rectangle anchored at p with c.
func (img *Image) DrawRectFilled(p Point, width, height int, c Cell) {
	x, y, w, h := img.Clip(p, width, height)
	if w <= 0 || h <= 0 {
		return
	}
	i := y*img.Width + x
	for range h {
		fill(img.Ink[i:i+w], c.Ink)
		fill(img.Paper[i:i+w], c.Paper)
		fill(img.Code[i:i+w], c.Code)
		i += img.Width
	}
}

// DrawRect draws the one-cell border of a rectangle.
// Rectangles narrower or shorter than 3 cells have no interior and are
// filled instead.
func (img *Image) DrawRect(p Point, width, height int, c Cell) {
	if width < 3 || height < 3 {
		img.DrawRectFilled(p, width, height, c)
		return
	}
	if p.X >= img.Width || p.Y >= img.Height {
		return
	}
	// top and left, excluding the bottom corner
	img.DrawRectFilled(p, width, 1, c)
	img.DrawRectFilled(Point{X: p.X, Y: p.Y + 1}, 1, height-2, c)
	// bottom and right only when their row or column is representable
	if bottom, ok := lastCell(p.Y, height); ok {
		img.DrawRectFilled(Point{X: p.X, Y: bottom}, width, 1, c)
	}
	if right, ok := lastCell(p.X, width); ok {
		img.DrawRectFilled(Point{X: right, Y: p.Y + 1}, 1, height-2, c)
	}
}

// lastCell returns the coordinate of the last cell of an n-cell run
// starting at a. ok is false when it would exceed math.MaxInt, which is off
// every image.
func lastCell(a, n int) (int, bool) {
	if a > 0 && n-1 > math.MaxInt-a {
		return 0, false
	}
	return a + n - 1, true
}
