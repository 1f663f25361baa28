// Package fifo provides the 32-bit words consumed by the pixel serializer
// and the bounded lanes that carry them.
package fifo

import "fmt"

// Word is one entry in a serializer lane. It takes one of three shapes:
//
//	pixel word:  bit 15 set, foreground in bits 8-14, background in
//	             bits 0-7, one glyph row in bits 16-31
//	timing word: bits 0-15 clear, a delay in clock ticks in bits 16-31
//	pulse pair:  sync lane only, low and high widths in the two halves
//
// The pixel path tells the first two apart by bit 15 alone, so a pixel
// word must never be built with that bit clear.
type Word uint32

const marker = 0x8000

// PulseOffset is the number of ticks the sync program adds to each half
// of a pulse pair.
const PulseOffset = 2

// Pixel returns a pixel word carrying the given colours and one row of
// glyph pixels. The leftmost pixel is bit 0 of bits.
func Pixel(fg, bg byte, bits uint16) Word {
	return Word(uint32(bits)<<16 | marker | uint32(fg&0x7f)<<8 | uint32(bg))
}

// Timing returns a timing word that makes the pixel path blank its
// outputs, wait for the next HSYNC and then wait delay ticks.
func Timing(delay uint16) Word {
	return Word(uint32(delay) << 16)
}

// PulsePair returns a sync lane word that drives the sync line low for
// low ticks and then high for high ticks. Both widths must be at least
// PulseOffset.
func PulsePair(low, high uint32) Word {
	return Word((low - PulseOffset) | (high-PulseOffset)<<16)
}

// IsPixel reports whether w is a pixel word.
func (w Word) IsPixel() bool { return w&marker != 0 }

// Foreground returns the foreground colour of a pixel word.
func (w Word) Foreground() byte { return byte(w>>8) & 0x7f }

// Background returns the background colour of a pixel word.
func (w Word) Background() byte { return byte(w) }

// Bits returns the glyph row of a pixel word.
func (w Word) Bits() uint16 { return uint16(w >> 16) }

// Lit reports whether pixel i (0 is leftmost) of a pixel word shows the
// foreground colour.
func (w Word) Lit(i int) bool { return w.Bits()>>uint(i)&1 != 0 }

// Colour returns the colour of pixel i of a pixel word.
func (w Word) Colour(i int) byte {
	if w.Lit(i) {
		return w.Foreground()
	}
	return w.Background()
}

// Delay returns the delay carried by a timing word.
func (w Word) Delay() uint16 { return uint16(w >> 16) }

// Low returns the low width in ticks of a pulse pair.
func (w Word) Low() uint32 { return uint32(w&0xffff) + PulseOffset }

// High returns the high width in ticks of a pulse pair.
func (w Word) High() uint32 { return uint32(w>>16) + PulseOffset }

func (w Word) String() string {
	if w.IsPixel() {
		return fmt.Sprintf("px(%d/%d %.3x)", w.Foreground(), w.Background(), w.Bits())
	}
	return fmt.Sprintf("wait(%d)", w.Delay())
}
