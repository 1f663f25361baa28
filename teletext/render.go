// Package teletext implements a Mode 7 style teletext decoder that
// turns a page of character codes into serializer words, one word per
// character per pixel row.
package teletext

import "github.com/nf/mode7/fifo"

// RowState is the decode state of one character row. It is reset at
// the start of every row, except for ModeSecondRow which carries the
// double height emulation from one row to the next.
type RowState struct {
	Fg, Bg  byte
	Mode    Mode
	Flash   bool
	Conceal bool
	Hold    bool
	Held    Glyph // last mosaic seen, shown by held control cells
	Double  bool  // DoubleHeight seen in this row
}

// Reset prepares s for a new row: white on black, steady, revealed,
// single height alphanumerics.
func (s *RowState) Reset() {
	*s = RowState{
		Fg:   7,
		Mode: s.Mode & ModeSecondRow,
	}
}

// Before applies the effects of control code c that take hold in the
// cell where c appears, which are the background changes.
func (s *RowState) Before(c Code) {
	switch c & 0x7f {
	case BlackBackground:
		s.Bg = 0
	case NewBackground:
		s.Bg = s.Fg
	}
}

// After applies the effects of control code c that take hold from the
// cell following c.
func (s *RowState) After(c Code) {
	c &= 0x7f
	switch {
	case c.Alpha():
		s.Fg = c.Colour()
		s.Mode &^= ModeGraphics
	case c.Mosaic():
		s.Fg = c.Colour()
		s.Mode |= ModeGraphics
	}
	switch c {
	case Flash:
		s.Flash = true
	case Steady:
		s.Flash = false
	case NormalHeight:
		s.Mode &^= ModeDouble
	case DoubleHeight:
		s.Mode |= ModeDouble
		s.Double = true
	case Conceal:
		s.Conceal = true
	case Contiguous:
		s.Mode &^= ModeSeparated
	case Separated:
		s.Mode |= ModeSeparated
	case Hold:
		s.Hold = true
	case Release:
		s.Hold = false
	}
}

// Carry settles the double height emulation at the end of a character
// row. A row that was the lower half clears the carry; otherwise a row
// that asked for double height makes the next row its lower half.
// Pages are laid out for the BBC Micro, so the lower half row carries
// its own copy of the text.
func (s *RowState) Carry() {
	if s.Mode.Has(ModeSecondRow) {
		s.Mode &^= ModeSecondRow
	} else if s.Double {
		s.Mode |= ModeSecondRow
	}
}

// Renderer streams teletext fields to a serializer lane.
type Renderer struct {
	Font *Font
	Out  fifo.Pusher

	// BackPorch is the delay carried by the timing word that ends each
	// pixel row, from the falling edge of HSYNC to the first pixel.
	BackPorch uint16

	// HideConcealed blanks characters that follow a Conceal code.
	// When false concealed text is shown.
	HideConcealed bool
}

// Field renders one interlaced field of p: every other pixel row of all
// 25 character lines, starting at row 0 for the odd field and row 1 for
// the even field. Characters that flash are shown only when flashOn is
// set. Field blocks whenever Out is full.
func (r *Renderer) Field(p *Page, flashOn, odd bool) {
	var (
		row = 1
		s   RowState
	)
	if odd {
		row = 0
	}
	for line := 0; line < Lines; {
		s.Reset()
		for _, b := range p.Line(line) {
			r.Out.Put(r.cell(&s, Code(b&0x7f), row, flashOn))
		}
		r.Out.Put(fifo.Timing(r.BackPorch))

		row += 2
		if row >= Rows {
			row -= Rows
			line++
			s.Carry()
		}
	}
}

// cell decodes one character cell for pixel row row, updating s.
func (r *Renderer) cell(s *RowState, c Code, row int, flashOn bool) fifo.Word {
	g := SpaceGlyph
	if c.Control() {
		s.Before(c)
		if s.Mode.Has(ModeGraphics) && s.Hold {
			g = s.Held
		}
	} else {
		g = r.Font.Glyph(s.Mode, c)
	}
	if s.Mode.Has(ModeGraphics) && c.Holdable() {
		s.Held = g
	}
	if s.Mode&(ModeSecondRow|ModeDouble) == ModeSecondRow {
		// Single height characters have no lower half.
		g = SpaceGlyph
	}
	if s.Flash && !flashOn {
		g = SpaceGlyph
	}
	if s.Conceal && r.HideConcealed {
		g = SpaceGlyph
	}
	w := fifo.Pixel(s.Fg, s.Bg, r.Font.Row(g, row))
	if c.Control() {
		s.After(c)
	}
	return w
}
