package grid

// Frame lends an image to a draw call.
//
// A Frame is valid from its creation until Release. After Release every
// method is a no-op and the accessors return zero values, so a view that
// escapes the draw call cannot write into later frames. Slices obtained from
// Ink, Paper or Code must not be kept past the draw call either.
type Frame struct {
	img *Image
}

// NewFrame creates a view over img.
func NewFrame(img *Image) *Frame {
	return &Frame{img: img}
}

// Release ends the loan. It is safe to call more than once.
func (f *Frame) Release() {
	f.img = nil
}

// Active reports whether the view still refers to a live image.
func (f *Frame) Active() bool {
	return f != nil && f.img != nil
}

// Width returns the frame width in cells.
func (f *Frame) Width() int {
	if !f.Active() {
		return 0
	}
	return f.img.Width
}

// Height returns the frame height in cells.
func (f *Frame) Height() int {
	if !f.Active() {
		return 0
	}
	return f.img.Height
}

// Ink returns the ink colour slice.
func (f *Frame) Ink() []uint32 {
	if !f.Active() {
		return nil
	}
	return f.img.Ink
}

// Paper returns the paper colour slice.
func (f *Frame) Paper() []uint32 {
	if !f.Active() {
		return nil
	}
	return f.img.Paper
}

// Code returns the glyph code slice.
func (f *Frame) Code() []uint32 {
	if !f.Active() {
		return nil
	}
	return f.img.Code
}

// At returns the cell at the given position.
func (f *Frame) At(x, y int) (Cell, bool) {
	if !f.Active() {
		return Cell{}, false
	}
	return f.img.At(x, y)
}

// Clear fills the frame with spaces in the given colours.
func (f *Frame) Clear(ink, paper uint32) {
	if f.Active() {
		f.img.Clear(ink, paper)
	}
}

// DrawChar writes a single cell.
func (f *Frame) DrawChar(p Point, c Cell) {
	if f.Active() {
		f.img.DrawChar(p, c)
	}
}

// DrawString writes text as one horizontal run starting at p.
func (f *Frame) DrawString(p Point, text string, ink, paper uint32) {
	if f.Active() {
		f.img.DrawString(p, text, ink, paper)
	}
}

// DrawRect draws the one-cell border of a rectangle.
func (f *Frame) DrawRect(p Point, width, height int, c Cell) {
	if f.Active() {
		f.img.DrawRect(p, width, height, c)
	}
}

// DrawRectFilled fills a width×height rectangle anchored at p.
func (f *Frame) DrawRectFilled(p Point, width, height int, c Cell) {
	if f.Active() {
		f.img.DrawRectFilled(p, width, height, c)
	}
}

// Blit copies src into a dstWidth×dstHeight region anchored at p.
func (f *Frame) Blit(p Point, dstWidth, dstHeight int, src *Image) {
	if f.Active() {
		f.img.Blit(p, dstWidth, dstHeight, src)
	}
}

// BlitAt copies the whole of src with its top-left corner at p.
func (f *Frame) BlitAt(p Point, src *Image) {
	if f.Active() {
		f.img.BlitAt(p, src)
	}
}

// BlitRegion copies srcRect of src into dstRect of the frame.
func (f *Frame) BlitRegion(src *Image, srcRect, dstRect Rect) {
	if f.Active() {
		f.img.BlitRegion(src, srcRect, dstRect)
	}
}

// BlitScreen copies src onto the frame at the origin.
func (f *Frame) BlitScreen(src *Image) {
	if f.Active() {
		f.img.BlitScreen(src)
	}
}
