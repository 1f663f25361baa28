package video

import (
	"sync/atomic"

	"github.com/nf/mode7/fifo"
)

// FrameEvents is the number of pulse pairs in one frame of the
// sequencer's schedule. A VSYNC pulse spans several lines, so this is
// not the PAL line count.
const FrameEvents = 622

// Sequencer generates Electron style PAL sync: one long VSYNC per field
// and no equalising pulses. It is driven by the sync lane's empty-queue
// interrupt and is the only writer of its line counter.
type Sequencer struct {
	lowVSync, lowHSync uint32
	highLine           uint32
	highOdd, highEven  uint32 // gaps after each VSYNC
	highLast, highWide uint32 // gaps before each VSYNC

	line atomic.Uint32
}

// NewSequencer returns a sequencer for t, positioned at the start of a
// frame.
func NewSequencer(t Timing) *Sequencer {
	hsync := uint32(t.HSync())
	return &Sequencer{
		lowVSync: uint32(t.VSync()),
		lowHSync: hsync,
		highLine: uint32(t.Line()) - hsync,
		highOdd:  uint32(t.Micros(17)),
		highEven: uint32(t.Micros(49)),
		highWide: uint32(t.Micros(47)) - hsync,
		highLast: uint32(t.Micros(15)) - hsync,
	}
}

// Next advances the line counter and returns the pulse pair for the
// line it was on.
func (q *Sequencer) Next() fifo.Word {
	n := q.line.Load()
	next := n + 1
	var w fifo.Word
	switch n {
	case 0:
		// First field VSYNC, short gap to the first HSYNC.
		w = fifo.PulsePair(q.lowVSync, q.highOdd)
	case 311:
		// Last HSYNC before the second field VSYNC.
		w = fifo.PulsePair(q.lowHSync, q.highWide)
	case 312:
		w = fifo.PulsePair(q.lowVSync, q.highEven)
	case FrameEvents - 1:
		w = fifo.PulsePair(q.lowHSync, q.highLast)
		next = 0
	default:
		w = fifo.PulsePair(q.lowHSync, q.highLine)
	}
	q.line.Store(next)
	return w
}

// Line returns the line counter. It may be called from any goroutine.
func (q *Sequencer) Line() int { return int(q.line.Load()) }

// Handler returns an interrupt handler that pushes the next pulse pair
// to out each time it runs.
func (q *Sequencer) Handler(out fifo.Pusher) func() {
	return func() { out.Put(q.Next()) }
}
