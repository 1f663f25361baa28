package video

import "github.com/nf/mode7/fifo"

// Trace is a SyncInput that plays back a fixed sync waveform, for
// driving a Detector without a serializer. Each call to Level lets up to
// one microsecond pass, stopping early at an edge. Once the waveform is
// exhausted Level panics with fifo.ErrStopped.
type Trace struct {
	Timing Timing
	Now    int64 // current time in ticks; may be set before the first call

	edges []int64 // level toggles, starting high
	next  int     // index of the first edge after Now
}

// NewTrace returns a trace of the pulse pairs ws played back to back
// from tick 0.
func NewTrace(t Timing, ws ...fifo.Word) *Trace {
	tr := &Trace{Timing: t}
	var at int64
	for _, w := range ws {
		tr.edges = append(tr.edges, at)
		at += int64(w.Low())
		tr.edges = append(tr.edges, at)
		at += int64(w.High())
	}
	tr.edges = append(tr.edges, at) // trailing edge ends the trace
	return tr
}

// End returns the time of the end of the waveform.
func (tr *Trace) End() int64 { return tr.edges[len(tr.edges)-1] }

func (tr *Trace) Level() bool {
	for tr.next < len(tr.edges) && tr.edges[tr.next] <= tr.Now {
		tr.next++
	}
	if tr.next >= len(tr.edges) {
		panic(fifo.ErrStopped)
	}
	tr.Now += int64(tr.Timing.ClockMHz)
	if e := tr.edges[tr.next]; tr.Now >= e {
		tr.Now = e
		tr.next++
	}
	return tr.next%2 == 0
}

func (tr *Trace) Micros() uint32 { return uint32(tr.Now / int64(tr.Timing.ClockMHz)) }
