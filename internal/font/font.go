// Package font loads glyph atlases. An atlas is an image holding 256 glyphs
// in a 16x16 grid, indexed by code page 437 code; glyph cells are the image
// size divided by 16 in each direction.
package font

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // register PNG atlases
	"io"
	"os"

	_ "golang.org/x/image/bmp" // register BMP atlases
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/encoding/charmap"
)

// GlyphsPerSide is the number of glyphs along each side of an atlas.
const GlyphsPerSide = 16

// ErrBadFont is returned when an atlas cannot be decoded or its glyph cells
// would be empty.
var ErrBadFont = errors.New("bad font")

// Font is a decoded glyph atlas.
type Font struct {
	Atlas *image.RGBA
	CellW int
	CellH int
}

// Load decodes a PNG or BMP atlas.
func Load(r io.Reader) (*Font, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFont, err)
	}
	return FromImage(img)
}

// LoadFile decodes the atlas stored at path.
func LoadFile(path string) (*Font, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fnt, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", path, err)
	}
	return fnt, nil
}

// FromImage builds a font from an already decoded atlas image.
func FromImage(img image.Image) (*Font, error) {
	b := img.Bounds()
	cellW := b.Dx() / GlyphsPerSide
	cellH := b.Dy() / GlyphsPerSide
	if cellW == 0 || cellH == 0 {
		return nil, fmt.Errorf("%w: atlas %dx%d is smaller than %d glyphs a side",
			ErrBadFont, b.Dx(), b.Dy(), GlyphsPerSide)
	}

	atlas := image.NewRGBA(image.Rect(0, 0, cellW*GlyphsPerSide, cellH*GlyphsPerSide))
	draw.Draw(atlas, atlas.Bounds(), img, b.Min, draw.Src)
	return &Font{Atlas: atlas, CellW: cellW, CellH: cellH}, nil
}

// Default returns the built-in 7x13 font with code page 437 glyph order.
// Codes with no printable rune in the face are left blank.
func Default() *Font {
	face := basicfont.Face7x13
	cellW, cellH := face.Advance, face.Height
	atlas := image.NewRGBA(image.Rect(0, 0, cellW*GlyphsPerSide, cellH*GlyphsPerSide))

	d := font.Drawer{
		Dst:  atlas,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	for code := range 256 {
		r := charmap.CodePage437.DecodeByte(byte(code))
		if r < 0x20 || r == 0x7f {
			continue
		}
		x := (code % GlyphsPerSide) * cellW
		y := (code / GlyphsPerSide) * cellH
		d.Dot = fixed.P(x, y+face.Ascent)
		d.DrawString(string(r))
	}
	return &Font{Atlas: atlas, CellW: cellW, CellH: cellH}
}

// Glyph returns the atlas rectangle holding the glyph for code.
func (f *Font) Glyph(code byte) image.Rectangle {
	x := int(code%GlyphsPerSide) * f.CellW
	y := int(code/GlyphsPerSide) * f.CellH
	return image.Rect(x, y, x+f.CellW, y+f.CellH)
}

// Coverage returns how much of the atlas pixel at (x, y) inside the glyph
// for code is ink, from 0 (paper) to 255 (ink). Bright opaque pixels are ink;
// dark or transparent pixels are paper.
func (f *Font) Coverage(code byte, x, y int) uint8 {
	r := f.Glyph(code)
	p := f.Atlas.RGBAAt(r.Min.X+x, r.Min.Y+y)
	return uint8(uint16(p.R) * uint16(p.A) / 255)
}
