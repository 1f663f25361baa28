package video

import (
	"image"
	"image/color"
	"sync"

	"github.com/nf/mode7/fifo"
)

// Monitor frame geometry.
const (
	FrameWidth  = 640
	FrameHeight = 576 // two fields of 288 lines

	firstLine = 20  // lines after the field's first HSYNC not shown
	leftEdge  = 120 // pixels after the falling edge of HSYNC not shown
)

// Palette maps a 3-bit colour to RGB: bit 0 red, bit 1 green, bit 2 blue.
var Palette = [8]color.RGBA{
	{0x00, 0x00, 0x00, 0xff},
	{0xff, 0x00, 0x00, 0xff},
	{0x00, 0xff, 0x00, 0xff},
	{0xff, 0xff, 0x00, 0xff},
	{0x00, 0x00, 0xff, 0xff},
	{0xff, 0x00, 0xff, 0xff},
	{0x00, 0xff, 0xff, 0xff},
	{0xff, 0xff, 0xff, 0xff},
}

// Monitor is a Display that behaves like a PAL television: it locks to
// the sync pulses it is given and draws pixels on an interlaced frame.
// Its methods may be called from any goroutine.
type Monitor struct {
	timing Timing

	mu       sync.Mutex
	frame    *image.RGBA
	level    bool
	fell     int64 // falling edge of the current pulse
	vsync    bool  // VSYNC seen, waiting for the field's first HSYNC
	vsyncEnd int64
	line     int // line within the field, or -1 before the first field
	start    int64
	odd      bool
	fields   int
	ops      int // count of pixel words drawn
}

// NewMonitor returns a blank monitor for t.
func NewMonitor(t Timing) *Monitor {
	m := &Monitor{
		timing: t,
		frame:  image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight)),
		level:  true,
		line:   -1,
	}
	m.clear()
	return m
}

func (m *Monitor) clear() {
	for b := m.frame.Pix; len(b) >= 4; b = b[4:] {
		b[0], b[1], b[2], b[3] = 0, 0, 0, 0xff
	}
}

// Sync implements Display.
func (m *Monitor) Sync(t int64, level bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if level == m.level {
		return
	}
	m.level = level
	if !level {
		m.fell = t
		return
	}
	mhz := int64(m.timing.ClockMHz)
	switch width := (t - m.fell) / mhz; {
	case width > VSyncMin:
		m.vsync = true
		m.vsyncEnd = t
	case width > HSyncMin && width < HSyncMax:
		if m.vsync {
			m.vsync = false
			m.line = 0
			m.odd = (m.fell-m.vsyncEnd)/mhz%LineMicros < LineMicros/2
			m.fields++
		} else if m.line >= 0 {
			m.line++
		}
		m.start = m.fell
		if y := m.y(); y >= 0 {
			row := m.frame.Pix[y*m.frame.Stride : (y+1)*m.frame.Stride]
			for b := row; len(b) >= 4; b = b[4:] {
				b[0], b[1], b[2] = 0, 0, 0
			}
		}
	}
}

// y returns the frame row of the current line, or -1 if it is not
// shown.
func (m *Monitor) y() int {
	if m.line < firstLine {
		return -1
	}
	y := 2 * (m.line - firstLine)
	if !m.odd {
		y++
	}
	if y >= FrameHeight {
		return -1
	}
	return y
}

// Pixels implements Display.
func (m *Monitor) Pixels(t int64, w fifo.Word) {
	m.mu.Lock()
	defer m.mu.Unlock()
	y := m.y()
	if y < 0 {
		return
	}
	m.ops++
	x := int((t-m.start)*PixelMHz/int64(m.timing.ClockMHz)) - leftEdge
	for i := 0; i < 12; i, x = i+1, x+1 {
		if x >= 0 && x < FrameWidth {
			m.frame.SetRGBA(x, y, Palette[w.Colour(i)&7])
		}
	}
}

// Fields returns the number of fields the monitor has locked to.
func (m *Monitor) Fields() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fields
}

// Odd reports the parity of the field being drawn.
func (m *Monitor) Odd() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.odd
}

// Ops returns the number of pixel words drawn so far. It changes
// whenever the frame does.
func (m *Monitor) Ops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ops
}

// CopyTo copies the frame into dst, which must be FrameWidth by
// FrameHeight.
func (m *Monitor) CopyTo(dst *image.RGBA) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(dst.Pix, m.frame.Pix)
}

// Frame returns a copy of the frame.
func (m *Monitor) Frame() *image.RGBA {
	dst := image.NewRGBA(m.frame.Rect)
	m.CopyTo(dst)
	return dst
}
