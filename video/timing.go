// Package video runs the teletext renderer against a simulated pixel
// serializer: it generates and detects PAL sync, feeds fields to the
// serializer lanes, and decodes the serializer's output on a monitor.
package video

import "fmt"

// Timing holds the configuration from which every tick count is derived.
type Timing struct {
	// ClockMHz is the serializer clock. Pixels are clocked at 12 MHz, so
	// it must be a multiple of 12.
	ClockMHz int

	// BackPorch10 is the delay from the falling edge of HSYNC to the
	// first pixel of a row, in tenths of a microsecond.
	BackPorch10 int

	// VerticalPos is the number of lines skipped after the first HSYNC
	// that follows VSYNC.
	VerticalPos int
}

// DefaultTiming returns the standard configuration.
func DefaultTiming() Timing {
	return Timing{
		ClockMHz:    192,
		BackPorch10: 172,
		VerticalPos: 30,
	}
}

// PixelMHz is the pixel clock.
const PixelMHz = 12

// Sync pulse classification thresholds, in microseconds.
const (
	VSyncMin = 25 // pulses longer than this are VSYNC
	HSyncMin = 2  // HSYNC pulses are longer than this
	HSyncMax = 7  // and shorter than this
)

// LineMicros is the PAL line period.
const LineMicros = 64

// Validate reports whether t describes a configuration that the
// serializer's 16-bit delay fields can express.
func (t Timing) Validate() error {
	if t.ClockMHz <= 0 || t.ClockMHz%PixelMHz != 0 {
		return fmt.Errorf("clock %d MHz is not a positive multiple of %d MHz", t.ClockMHz, PixelMHz)
	}
	if t.BackPorch10 < 0 || t.VerticalPos < 0 {
		return fmt.Errorf("negative back porch or vertical position")
	}
	for _, c := range []struct {
		name  string
		ticks int
	}{
		{"VSYNC", t.VSync()},
		{"line", t.Line()},
		{"back porch", t.BackPorch()},
	} {
		if c.ticks-2 > 0xffff {
			return fmt.Errorf("%s of %d ticks at %d MHz does not fit in 16 bits", c.name, c.ticks, t.ClockMHz)
		}
	}
	if active := t.BackPorch() + 480*t.PixelTicks(); active > t.Line() {
		return fmt.Errorf("back porch %d.%dµs leaves no room for a row", t.BackPorch10/10, t.BackPorch10%10)
	}
	return nil
}

// Micros returns the number of ticks in us microseconds.
func (t Timing) Micros(us int) int { return t.ClockMHz * us }

// Line is the PAL line period in ticks.
func (t Timing) Line() int { return t.Micros(LineMicros) }

// HSync is the width of an HSYNC pulse, 4.7µs.
func (t Timing) HSync() int { return t.ClockMHz * 47 / 10 }

// VSync is the width of a VSYNC pulse, 2.5 lines.
func (t Timing) VSync() int { return t.Micros(160) }

// BackPorch is the delay carried by a timing word.
func (t Timing) BackPorch() int { return t.ClockMHz * t.BackPorch10 / 10 }

// PixelTicks is the duration of one pixel.
func (t Timing) PixelTicks() int { return t.ClockMHz / PixelMHz }
