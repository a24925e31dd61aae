package grid

// Rect is an axis-aligned rectangle in cell coordinates.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// BlitOps describes a copy between two canvases.
type BlitOps struct {
	Src     Rect // full source canvas, origin assumed at 0,0
	Dst     Rect // full destination canvas, origin assumed at 0,0
	SrcBlit Rect // region of the source to read
	DstBlit Rect // region of the destination to write, may hang off any edge
}

// Span is the clipped result of BlitOps: copy a W×H block from (SX, SY) in
// the source to (DX, DY) in the destination.
type Span struct {
	SX, SY int
	DX, DY int
	W, H   int
}

// Empty reports whether the span copies nothing.
func (s Span) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// clipAxis clips one axis of a blit. s/sw describe the source run, d/dw the
// destination run, srcExtent and dstExtent the canvas sizes on this axis.
// A run that misses either canvas clips to zero length at offset 0. No sum
// is formed that can overflow, so any int input is safe.
func clipAxis(s, sw, d, dw, srcExtent, dstExtent int) (int, int, int) {
	if sw <= 0 || dw <= 0 {
		return 0, 0, 0
	}
	// Destination starts off-canvas: the visible part begins partway into
	// the source.
	if d < 0 {
		if d <= -dw {
			return 0, 0, 0
		}
		k := -d
		if sw <= k || (s >= 0 && s >= srcExtent-k) {
			return 0, 0, 0
		}
		s += k
		sw -= k
		dw -= k
		d = 0
	}
	if s < 0 {
		if s <= -sw {
			return 0, 0, 0
		}
		k := -s
		if dw <= k || d >= dstExtent-k {
			return 0, 0, 0
		}
		d += k
		sw -= k
		dw -= k
		s = 0
	}
	if s >= srcExtent || d >= dstExtent {
		return 0, 0, 0
	}
	sw = min(sw, srcExtent-s)
	dw = min(dw, dstExtent-d)
	return s, d, min(sw, dw)
}

// Plan clips the blit on both axes and returns the block to copy.
func (ops BlitOps) Plan() Span {
	sx, dx, w := clipAxis(ops.SrcBlit.X, ops.SrcBlit.W, ops.DstBlit.X, ops.DstBlit.W, ops.Src.W, ops.Dst.W)
	sy, dy, h := clipAxis(ops.SrcBlit.Y, ops.SrcBlit.H, ops.DstBlit.Y, ops.DstBlit.H, ops.Src.H, ops.Dst.H)
	return Span{SX: sx, SY: sy, DX: dx, DY: dy, W: w, H: h}
}

// blit copies span rows from src to dst, whose row strides are srcW and dstW.
func blit(src, dst []uint32, srcW, dstW int, sp Span) {
	si := sp.SY*srcW + sp.SX
	di := sp.DY*dstW + sp.DX
	for range sp.H {
		copy(dst[di:di+sp.W], src[si:si+sp.W])
		si += srcW
		di += dstW
	}
}

// BlitRegion copies srcRect of src into dstRect of img, clipping both sides.
// The copied block is the overlap of the two rectangles once each has been
// fitted to its own canvas.
func (img *Image) BlitRegion(src *Image, srcRect, dstRect Rect) {
	if src == nil {
		return
	}
	ops := BlitOps{
		Src:     Rect{W: src.Width, H: src.Height},
		Dst:     Rect{W: img.Width, H: img.Height},
		SrcBlit: srcRect,
		DstBlit: dstRect,
	}
	sp := ops.Plan()
	if sp.Empty() {
		return
	}
	blit(src.Ink, img.Ink, src.Width, img.Width, sp)
	blit(src.Paper, img.Paper, src.Width, img.Width, sp)
	blit(src.Code, img.Code, src.Width, img.Width, sp)
}

// Blit copies the whole of src into a dstWidth×dstHeight region of img
// anchored at p.
func (img *Image) Blit(p Point, dstWidth, dstHeight int, src *Image) {
	if src == nil {
		return
	}
	img.BlitRegion(src, NewRect(0, 0, src.Width, src.Height), NewRect(p.X, p.Y, dstWidth, dstHeight))
}

// BlitScreen copies src onto img at the origin.
func (img *Image) BlitScreen(src *Image) {
	img.Blit(Point{}, img.Width, img.Height, src)
}

// BlitAt copies the whole of src with its top-left corner at p.
func (img *Image) BlitAt(p Point, src *Image) {
	if src == nil {
		return
	}
	img.Blit(p, src.Width, src.Height, src)
}
