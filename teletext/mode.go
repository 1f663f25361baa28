package teletext

import "strings"

// Mode holds the decode state bits that select a font variant.
// Each of the 16 values maps to exactly one Variant.
type Mode uint8

const (
	ModeDouble    Mode = 1 << iota // double height active
	ModeSecondRow                  // rendering the lower half of a double height row
	ModeGraphics                   // mosaic characters
	ModeSeparated                  // separated mosaics
)

// Modes is the number of distinct Mode values.
const Modes = 16

// Has reports whether all bits of b are set in m.
func (m Mode) Has(b Mode) bool { return m&b == b }

// Variant returns the font variant selected by m. ModeSecondRow only
// matters for double height characters, and ModeSeparated only in
// graphics mode.
func (m Mode) Variant() Variant {
	v := Std
	if m.Has(ModeGraphics) {
		v = Graphic
		if m.Has(ModeSeparated) {
			v = SepGraphic
		}
	}
	if m.Has(ModeDouble) {
		if m.Has(ModeSecondRow) {
			v += lower
		} else {
			v += upper
		}
	}
	return v
}

func (m Mode) String() string {
	var s []string
	for _, b := range []struct {
		bit  Mode
		name string
	}{
		{ModeDouble, "double"},
		{ModeSecondRow, "second"},
		{ModeGraphics, "graphics"},
		{ModeSeparated, "separated"},
	} {
		if m.Has(b.bit) {
			s = append(s, b.name)
		}
	}
	if len(s) == 0 {
		return "normal"
	}
	return strings.Join(s, "|")
}

// Variant identifies one of the glyph sets in a Font.
type Variant uint8

const (
	Std Variant = iota
	StdUpper
	StdLower
	Graphic
	GraphicUpper
	GraphicLower
	SepGraphic
	SepGraphicUpper
	SepGraphicLower

	Variants = iota
)

// offsets from a base variant to its double height halves
const (
	upper = 1
	lower = 2
)

var variantNames = [Variants]string{
	"std", "std-upper", "std-lower",
	"graphic", "graphic-upper", "graphic-lower",
	"sep", "sep-upper", "sep-lower",
}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "invalid"
}

// base returns the single height variant that v is derived from.
func (v Variant) base() Variant { return v - v%3 }
