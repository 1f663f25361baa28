package video

import "github.com/nf/mode7/fifo"

// Parity identifies the field of an interlaced frame.
type Parity bool

const (
	Even Parity = false
	Odd  Parity = true
)

func (p Parity) String() string {
	if p == Odd {
		return "odd"
	}
	return "even"
}

// SyncInput is the sync line as seen by the detector. Sync pulses are
// low going.
type SyncInput interface {
	// Level samples the line, allowing time to pass.
	Level() bool
	// Micros returns a free running microsecond timestamp.
	Micros() uint32
}

// Detector locks the render loop to the sync line.
type Detector struct {
	In     SyncInput
	Out    fifo.Pusher
	Timing Timing

	log *backlog
}

// WaitForVSync suspends the caller until it has seen a VSYNC followed
// by an HSYNC. It then pushes VerticalPos timing words to Out so that
// the next word pushed is the first pixel of the first visible row, and
// returns the parity of the field that is starting.
//
// The line need not be high on entry: a pulse already in progress is
// measured short, which at worst costs one more pass. A dead sync line
// blocks forever.
func (d *Detector) WaitForVSync() Parity {
	var (
		falling, rising, vsyncEnd uint32
		gotVSync                  bool
	)
	for {
		for d.In.Level() {
		}
		falling = d.In.Micros()
		for !d.In.Level() {
		}
		rising = d.In.Micros()

		width := rising - falling
		if width > VSyncMin {
			gotVSync = true
			vsyncEnd = rising
			d.log.LazyPrintf("detect: VSYNC %dµs at %d", width, rising)
		} else if width > HSyncMin && width < HSyncMax && gotVSync {
			break
		}
	}
	w := fifo.Timing(uint16(d.Timing.BackPorch()))
	for i := 0; i < d.Timing.VerticalPos; i++ {
		d.Out.Put(w)
	}
	// A field starts 17 or 49µs after VSYNC, give or take whole lines of
	// equalising pulses.
	p := Parity((falling-vsyncEnd)%LineMicros < LineMicros/2)
	d.log.LazyPrintf("detect: HSYNC at %d, %v field", falling, p)
	return p
}
