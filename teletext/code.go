package teletext

import "fmt"

// Code is a teletext character code. Only the low 7 bits are significant.
type Code byte

// Control codes. Codes below Space that are not listed here occupy a
// blank cell and have no other effect.
const (
	AlphaRed Code = iota + 0x01
	AlphaGreen
	AlphaYellow
	AlphaBlue
	AlphaMagenta
	AlphaCyan
	AlphaWhite
	Flash
	Steady
	EndBox
	StartBox
	NormalHeight
	DoubleHeight
)

const (
	MosaicRed Code = iota + 0x11
	MosaicGreen
	MosaicYellow
	MosaicBlue
	MosaicMagenta
	MosaicCyan
	MosaicWhite
	Conceal
	Contiguous
	Separated
	Escape
	BlackBackground
	NewBackground
	Hold
	Release
	Space
)

// Block is the solid block, in both alphanumeric and mosaic sets.
const Block Code = 0x7f

// Control reports whether c is a control code.
func (c Code) Control() bool { return c&0x7f < Space }

// Alpha reports whether c selects an alphanumeric foreground colour.
func (c Code) Alpha() bool { return c&0x7f >= AlphaRed && c&0x7f <= AlphaWhite }

// Mosaic reports whether c selects a mosaic foreground colour.
func (c Code) Mosaic() bool { return c&0x7f >= MosaicRed && c&0x7f <= MosaicWhite }

// Colour returns the colour selected by an Alpha or Mosaic code.
func (c Code) Colour() byte { return byte(c) & 7 }

// Holdable reports whether c is a mosaic character in graphics mode and
// so may be remembered for Hold Graphics. Codes 0x40-0x5f display as
// capitals even in graphics mode and are not held.
func (c Code) Holdable() bool {
	c &= 0x7f
	return c >= Space && c < 0x40 || c > 0x60
}

var codeNames = [Space]string{
	0x00: "NUL",
	AlphaRed:        "AlphaRed",
	AlphaGreen:      "AlphaGreen",
	AlphaYellow:     "AlphaYellow",
	AlphaBlue:       "AlphaBlue",
	AlphaMagenta:    "AlphaMagenta",
	AlphaCyan:       "AlphaCyan",
	AlphaWhite:      "AlphaWhite",
	Flash:           "Flash",
	Steady:          "Steady",
	EndBox:          "EndBox",
	StartBox:        "StartBox",
	NormalHeight:    "NormalHeight",
	DoubleHeight:    "DoubleHeight",
	0x0e:            "SO",
	0x0f:            "SI",
	0x10:            "DLE",
	MosaicRed:       "MosaicRed",
	MosaicGreen:     "MosaicGreen",
	MosaicYellow:    "MosaicYellow",
	MosaicBlue:      "MosaicBlue",
	MosaicMagenta:   "MosaicMagenta",
	MosaicCyan:      "MosaicCyan",
	MosaicWhite:     "MosaicWhite",
	Conceal:         "Conceal",
	Contiguous:      "Contiguous",
	Separated:       "Separated",
	Escape:          "Escape",
	BlackBackground: "BlackBackground",
	NewBackground:   "NewBackground",
	Hold:            "Hold",
	Release:         "Release",
}

func (c Code) String() string {
	c &= 0x7f
	if c.Control() {
		return codeNames[c]
	}
	if c == Block {
		return "Block"
	}
	return fmt.Sprintf("%q", rune(c))
}
