package video

import (
	"testing"

	"github.com/nf/mode7/fifo"
)

// waveform builds sync waveforms in microseconds.
type waveform struct {
	tm Timing
	ws []fifo.Word
}

func (w *waveform) pulse(lowUS, highUS int) *waveform {
	w.ws = append(w.ws, fifo.PulsePair(uint32(w.tm.Micros(lowUS)), uint32(w.tm.Micros(highUS))))
	return w
}

func (w *waveform) lines(n int) *waveform {
	for i := 0; i < n; i++ {
		hs := uint32(w.tm.HSync())
		w.ws = append(w.ws, fifo.PulsePair(hs, uint32(w.tm.Line())-hs))
	}
	return w
}

func (w *waveform) vsync(gapUS int) *waveform {
	w.ws = append(w.ws, fifo.PulsePair(uint32(w.tm.VSync()), uint32(w.tm.Micros(gapUS))))
	return w
}

func (w *waveform) ticks(n int) int64 {
	var t int64
	for _, p := range w.ws[:n] {
		t += int64(p.Low() + p.High())
	}
	return t
}

func TestWaitForVSync(t *testing.T) {
	tm := DefaultTiming()
	wave := func() *waveform { return &waveform{tm: tm} }
	for _, c := range []struct {
		name  string
		wave  *waveform
		start int64
		want  Parity
		after int // index of the first pair after the VSYNC that counts
	}{
		{"odd", wave().lines(3).vsync(17).lines(3), 0, Odd, 3},
		{"even", wave().lines(3).vsync(49).lines(3), 0, Even, 3},
		{"odd plus a line", wave().lines(3).vsync(17 + 64).lines(3), 0, Odd, 3},
		{"even plus two lines", wave().lines(3).vsync(49 + 128).lines(3), 0, Even, 3},
		{"starts in vsync", wave().vsync(17).lines(3).vsync(49).lines(3), int64(tm.VSync() - tm.Micros(10)), Even, 4},
		{"glitches", wave().lines(2).vsync(5).pulse(1, 5).pulse(10, 1).lines(2), 0, Odd, 2},
	} {
		t.Run(c.name, func(t *testing.T) {
			var (
				in  = NewTrace(tm, c.wave.ws...)
				rec fifo.Recorder
				d   = &Detector{In: in, Out: &rec, Timing: tm}
			)
			in.Now = c.start
			if g := d.WaitForVSync(); g != c.want {
				t.Errorf("parity %v, want %v", g, c.want)
			}
			if in.Now < c.wave.ticks(c.after) {
				t.Errorf("returned at tick %d, before the VSYNC ended at %d", in.Now, c.wave.ticks(c.after))
			}
			if len(rec.Words) != tm.VerticalPos {
				t.Fatalf("pushed %d words, want %d", len(rec.Words), tm.VerticalPos)
			}
			for _, w := range rec.Words {
				if w != fifo.Timing(uint16(tm.BackPorch())) {
					t.Fatalf("pushed %v, want a back porch timing word", w)
				}
			}
		})
	}
}

func TestWaitForVSyncReturnsAfterHSync(t *testing.T) {
	tm := DefaultTiming()
	w := (&waveform{tm: tm}).lines(2).vsync(17).lines(3)
	in := NewTrace(tm, w.ws...)
	d := &Detector{In: in, Out: &fifo.Recorder{}, Timing: tm}
	d.WaitForVSync()
	// The HSYNC after the VSYNC has just ended.
	if want := w.ticks(3) + int64(tm.HSync()); in.Now != want {
		t.Errorf("returned at tick %d, want %d", in.Now, want)
	}
}

func TestWaitForVSyncNoVSync(t *testing.T) {
	tm := DefaultTiming()
	in := NewTrace(tm, (&waveform{tm: tm}).lines(20).pulse(20, 40).ws...)
	d := &Detector{In: in, Out: &fifo.Recorder{}, Timing: tm}
	defer func() {
		if e := recover(); e != fifo.ErrStopped {
			t.Errorf("recovered %v, want %v", e, fifo.ErrStopped)
		}
		if in.Now != in.End() {
			t.Errorf("stopped at tick %d, want the end of the trace at %d", in.Now, in.End())
		}
	}()
	p := d.WaitForVSync()
	t.Errorf("WaitForVSync returned %v without a VSYNC", p)
}
