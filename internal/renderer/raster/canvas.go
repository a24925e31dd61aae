// Package raster composites character grids into RGBA images using a glyph
// atlas. It backs headless runs and PNG snapshots.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"sync"

	"golang.org/x/image/draw"

	"github.com/dshills/gridterm/internal/font"
	"github.com/dshills/gridterm/internal/grid"
	"github.com/dshills/gridterm/internal/palette"
	"github.com/dshills/gridterm/internal/renderer"
	"github.com/dshills/gridterm/internal/renderer/dirty"
)

// DefaultMaxPixels bounds the canvas size; larger frames fail to present
// with renderer.ErrOutOfMemory.
const DefaultMaxPixels = 64 << 20

// Canvas is a renderer.Surface that paints frames into an RGBA image.
type Canvas struct {
	mu        sync.Mutex
	font      *font.Font
	img       *image.RGBA
	maxPixels int
	lost      bool
	presents  int
}

// New creates a canvas drawing glyphs from f.
func New(f *font.Font) *Canvas {
	return &Canvas{font: f, maxPixels: DefaultMaxPixels}
}

// SetMaxPixels changes the largest image the canvas will allocate.
func (c *Canvas) SetMaxPixels(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maxPixels = n
}

// CellSize returns the glyph cell size of the canvas font.
func (c *Canvas) CellSize() (int, int) {
	return c.font.CellW, c.font.CellH
}

// Lose discards the canvas image. The next Present fails with
// renderer.ErrSurfaceLost and the one after repaints from scratch.
func (c *Canvas) Lose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.img = nil
	c.lost = true
}

// Present paints the damaged cells of frame. When the frame size changed
// since the last present, every cell is painted.
func (c *Canvas) Present(frame *grid.Image, damage []dirty.Region) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lost {
		c.lost = false
		return renderer.ErrSurfaceLost
	}

	w := frame.Width * c.font.CellW
	h := frame.Height * c.font.CellH
	if w*h > c.maxPixels {
		return fmt.Errorf("%w: %dx%d pixels", renderer.ErrOutOfMemory, w, h)
	}

	if c.img == nil || c.img.Rect.Dx() != w || c.img.Rect.Dy() != h {
		c.img = image.NewRGBA(image.Rect(0, 0, w, h))
		damage = []dirty.Region{dirty.NewRows(0, frame.Height-1)}
	}

	for _, region := range damage {
		x0, y0, rw, rh := region.Bounds(frame.Width)
		x0, y0, rw, rh = frame.Clip(grid.Pt(x0, y0), rw, rh)
		for y := y0; y < y0+rh; y++ {
			for x := x0; x < x0+rw; x++ {
				i := y*frame.Width + x
				c.paintCell(x, y, byte(frame.Code[i]), frame.Ink[i], frame.Paper[i])
			}
		}
	}
	c.presents++
	return nil
}

// paintCell blends ink over paper through the glyph's coverage mask.
func (c *Canvas) paintCell(cx, cy int, code byte, ink, paper uint32) {
	fg := rgba(ink)
	bg := rgba(paper)
	ox := cx * c.font.CellW
	oy := cy * c.font.CellH
	for y := range c.font.CellH {
		for x := range c.font.CellW {
			cov := c.font.Coverage(code, x, y)
			c.img.SetRGBA(ox+x, oy+y, mix(bg, fg, cov))
		}
	}
}

func rgba(packed uint32) color.RGBA {
	r, g, b, a := palette.Unpack(packed)
	return color.RGBA{R: r, G: g, B: b, A: a}
}

func mix(bg, fg color.RGBA, cov uint8) color.RGBA {
	switch cov {
	case 0:
		return bg
	case 0xff:
		return fg
	}
	t := uint16(cov)
	lerp := func(a, b uint8) uint8 {
		return uint8((uint16(a)*(255-t) + uint16(b)*t) / 255)
	}
	return color.RGBA{
		R: lerp(bg.R, fg.R),
		G: lerp(bg.G, fg.G),
		B: lerp(bg.B, fg.B),
		A: lerp(bg.A, fg.A),
	}
}

// Presents returns the number of successful presents.
func (c *Canvas) Presents() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.presents
}

// Snapshot returns a copy of the canvas scaled up by an integer factor with
// nearest-neighbour sampling. It returns nil before the first present.
func (c *Canvas) Snapshot(scale int) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.img == nil {
		return nil
	}
	scale = max(scale, 1)
	b := c.img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	if scale == 1 {
		copy(out.Pix, c.img.Pix)
		return out
	}
	draw.NearestNeighbor.Scale(out, out.Bounds(), c.img, b, draw.Src, nil)
	return out
}

// WritePNG encodes a snapshot as PNG.
func (c *Canvas) WritePNG(w io.Writer, scale int) error {
	img := c.Snapshot(scale)
	if img == nil {
		return fmt.Errorf("snapshot: nothing presented yet")
	}
	return png.Encode(w, img)
}

// SavePNG writes a PNG snapshot to path.
func (c *Canvas) SavePNG(path string, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.WritePNG(f, scale); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}
