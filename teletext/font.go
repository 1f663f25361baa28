package teletext

import (
	"image"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Glyph geometry.
const (
	Width  = 12 // active pixel columns in a row bitmap
	Rows   = 20 // pixel rows per character line
	Glyphs = 96 // characters per variant, starting at Space
)

// Glyph is a handle for one character of a Font. The zero Glyph is the
// space of the standard variant.
type Glyph struct {
	Variant Variant
	Index   uint8 // code - Space
}

// SpaceGlyph is the blank cell.
var SpaceGlyph = Glyph{}

// Font is a set of glyph bitmaps for every Variant. Each row is a
// bitmap of Width pixels with the leftmost pixel in bit 0.
type Font struct {
	rows [Variants][Glyphs][Rows]uint16
}

// Glyph returns the glyph for the printable code c in mode m.
func (f *Font) Glyph(m Mode, c Code) Glyph {
	return Glyph{Variant: m.Variant(), Index: uint8(c&0x7f) - uint8(Space)}
}

// Row returns pixel row r of g.
func (f *Font) Row(g Glyph, r int) uint16 {
	return f.rows[g.Variant][g.Index][r]
}

var (
	defaultFont     *Font
	defaultFontOnce sync.Once
)

// DefaultFont returns the built-in font. It is built on first use and
// never modified afterwards.
func DefaultFont() *Font {
	defaultFontOnce.Do(func() { defaultFont = NewFont() })
	return defaultFont
}

// NewFont builds a Font. Alphanumerics are scaled up from a 7x13 bitmap
// face; mosaics are generated.
func NewFont() *Font {
	f := &Font{}
	for i := 0; i < Glyphs; i++ {
		c := Space + Code(i)
		alpha := alphaGlyph(c)
		f.rows[Std][i] = alpha
		if c < 0x40 || c >= 0x60 {
			f.rows[Graphic][i] = mosaicGlyph(c, false)
			f.rows[SepGraphic][i] = mosaicGlyph(c, true)
		} else {
			// Capitals blast through in graphics mode.
			f.rows[Graphic][i] = alpha
			f.rows[SepGraphic][i] = alpha
		}
	}
	for _, base := range []Variant{Std, Graphic, SepGraphic} {
		for i := range f.rows[base] {
			src := &f.rows[base][i]
			for r := 0; r < Rows; r++ {
				f.rows[base+upper][i][r] = src[r/2]
				f.rows[base+lower][i][r] = src[Rows/2+r/2]
			}
		}
	}
	return f
}

// Characters of the teletext G0 English set that differ from ASCII and
// that the source face can draw.
var alphaSubst = map[Code]rune{
	0x23: '£',
	0x5c: '½',
	0x5f: '#',
	0x7b: '¼',
	0x7c: '¦',
	0x7d: '¾',
	0x7e: '÷',
}

// alphaGlyph renders c from basicfont.Face7x13 into a 12x20 cell, with
// one blank row above and below.
func alphaGlyph(c Code) (rows [Rows]uint16) {
	if c == Block {
		for r := range rows {
			rows[r] = 1<<Width - 1
		}
		return
	}
	if c == Space {
		return
	}
	r, ok := alphaSubst[c]
	if !ok {
		r = rune(c)
	}
	face := basicfont.Face7x13
	dr, mask, mp, _, ok := face.Glyph(fixed.P(0, face.Ascent), r)
	if !ok {
		return
	}
	dst := image.NewAlpha(image.Rect(0, 0, Width, Rows))
	xdraw.NearestNeighbor.Scale(dst, image.Rect(0, 1, Width, Rows-1),
		mask, image.Rectangle{Min: mp, Max: mp.Add(dr.Size())}, xdraw.Src, nil)
	for y := 0; y < Rows; y++ {
		for x := 0; x < Width; x++ {
			if dst.AlphaAt(x, y).A >= 0x80 {
				rows[y] |= 1 << x
			}
		}
	}
	return
}

// Sextant bands, top to bottom, as pixel row ranges.
var bands = [3][2]int{{0, 6}, {6, 14}, {14, Rows}}

// mosaicGlyph returns the 2x3 block graphic for c. Bits 0-4 of the code
// select the top left, top right, middle left, middle right and bottom
// left sextants; bit 6 selects the bottom right. Separated mosaics leave
// a two pixel gutter on the left of and below each sextant.
func mosaicGlyph(c Code, separated bool) (rows [Rows]uint16) {
	sextants := byte(c)&0x1f | byte(c)&0x40>>1
	for s := 0; s < 6; s++ {
		if sextants>>s&1 == 0 {
			continue
		}
		var (
			band   = bands[s/2]
			x0, x1 = (s % 2) * Width / 2, (s%2 + 1) * Width / 2
			y0, y1 = band[0], band[1]
		)
		if separated {
			x0 += 2
			y1 -= 2
		}
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				rows[y] |= 1 << x
			}
		}
	}
	return
}
