package video

import (
	"errors"
	"testing"
	"time"

	"github.com/nf/mode7/fifo"
)

// scope is a Display that records everything it is shown.
type scope struct {
	edges  []edge
	pixels []pixelEvent
}

type edge struct {
	t     int64
	level bool
}

type pixelEvent struct {
	t int64
	w fifo.Word
}

func (s *scope) Sync(t int64, level bool)    { s.edges = append(s.edges, edge{t, level}) }
func (s *scope) Pixels(t int64, w fifo.Word) { s.pixels = append(s.pixels, pixelEvent{t, w}) }

// falling reports whether the scope saw the sync line fall at t.
func (s *scope) falling(t int64) bool {
	for _, e := range s.edges {
		if e.t == t && !e.level {
			return true
		}
	}
	return false
}

func startSerializer(t *testing.T, tm Timing) (*Serializer, *scope) {
	t.Helper()
	sc := &scope{}
	s := NewSerializer(tm, sc)
	Init(s)
	if err := StartSyncGen(s, NewSequencer(tm)); err != nil {
		t.Fatal(err)
	}
	s.Start()
	return s, sc
}

func stop(s *Serializer) {
	s.Stop()
	<-s.Done()
}

func TestInit(t *testing.T) {
	tm := DefaultTiming()
	s := NewSerializer(tm, &scope{})
	if s.OutputsEnabled() {
		t.Fatal("outputs enabled before Init")
	}
	Init(s)
	if !s.OutputsEnabled() {
		t.Error("outputs not enabled by Init")
	}
	w, ok := s.Pixels.TryGet()
	if want := fifo.Timing(uint16(tm.BackPorch())); !ok || w != want {
		t.Errorf("Init queued %v, %v; want %v", w, ok, want)
	}
}

func TestStartSyncGenExclusive(t *testing.T) {
	tm := DefaultTiming()
	s := NewSerializer(tm, &scope{})
	if err := StartSyncGen(s, NewSequencer(tm)); err != nil {
		t.Fatal(err)
	}
	if err := StartSyncGen(s, NewSequencer(tm)); !errors.Is(err, ErrHandlerSet) {
		t.Errorf("second StartSyncGen returned %v, want %v", err, ErrHandlerSet)
	}
}

func TestSerializerParity(t *testing.T) {
	tm := DefaultTiming()
	s, sc := startSerializer(t, tm)
	d := &Detector{In: s.Input(), Out: s.Pixels, Timing: tm}
	var got []Parity
	for i := 0; i < 5; i++ {
		got = append(got, d.WaitForVSync())
	}
	stop(s)

	// Init's timing word runs past the first VSYNC, so the first field
	// found is even.
	for i, p := range got {
		if want := Parity(i%2 == 1); p != want {
			t.Errorf("field %d: %v, want %v", i, p, want)
		}
	}
	// The sync line plays the sequencer's pulses exactly.
	if len(sc.edges) < 2*FrameEvents {
		t.Fatalf("only %d sync edges", len(sc.edges))
	}
	q := NewSequencer(tm)
	for i := 0; i+1 < len(sc.edges) && i < 2*FrameEvents; i += 2 {
		w := q.Next()
		fall, rise := sc.edges[i], sc.edges[i+1]
		if fall.level || !rise.level {
			t.Fatalf("edge %d: levels %v %v", i, fall.level, rise.level)
		}
		if g := rise.t - fall.t; g != int64(w.Low()) {
			t.Errorf("pulse %d is %d ticks, want %d", i/2, g, w.Low())
		}
		if i+2 < len(sc.edges) {
			if g := sc.edges[i+2].t - rise.t; g != int64(w.High()) {
				t.Errorf("gap after pulse %d is %d ticks, want %d", i/2, g, w.High())
			}
		}
	}
}

func TestSerializerPixels(t *testing.T) {
	tm := DefaultTiming()
	s, sc := startSerializer(t, tm)
	d := &Detector{In: s.Input(), Out: s.Pixels, Timing: tm}
	d.WaitForVSync()
	var row []fifo.Word
	for i := 0; i < 40; i++ {
		row = append(row, fifo.Pixel(byte(i%8), 0, uint16(i)))
	}
	for _, w := range row {
		s.Pixels.Put(w)
	}
	s.Pixels.Put(fifo.Timing(uint16(tm.BackPorch())))
	d.WaitForVSync()
	stop(s)

	if len(sc.pixels) != len(row) {
		t.Fatalf("%d pixel words shown, want %d", len(sc.pixels), len(row))
	}
	first := sc.pixels[0].t
	if !sc.falling(first - int64(tm.BackPorch())) {
		t.Errorf("first pixel at %d is not a back porch after HSYNC", first)
	}
	for i, p := range sc.pixels {
		if p.w != row[i] {
			t.Errorf("word %d: %v, want %v", i, p.w, row[i])
		}
		if want := first + int64(i*12*tm.PixelTicks()); p.t != want {
			t.Errorf("word %d at %d, want %d", i, p.t, want)
		}
	}
}

func TestSerializerWaitsForWords(t *testing.T) {
	tm := DefaultTiming()
	s, _ := startSerializer(t, tm)
	defer stop(s)
	time.Sleep(10 * time.Millisecond)
	// Only the timing word from Init has run.
	if g, max := s.Ticks(), int64(4*tm.Line()); g > max {
		t.Errorf("clock ran to %d ticks with nothing to do", g)
	}
}

func TestSerializerExternalSync(t *testing.T) {
	tm := DefaultTiming()
	sc := &scope{}
	s := NewSerializer(tm, sc)
	Init(s)
	s.SetExternalSync(NewSequencer(tm).Next)
	s.Start()
	d := &Detector{In: s.Input(), Out: s.Pixels, Timing: tm}
	p1, p2 := d.WaitForVSync(), d.WaitForVSync()
	stop(s)
	if p1 != Even || p2 != Odd {
		t.Errorf("fields %v %v, want even odd", p1, p2)
	}
	if s.Syncs.Len() != 0 {
		t.Errorf("sync lane used with external sync")
	}
}

func TestSerializerStopReleasesProducer(t *testing.T) {
	tm := DefaultTiming()
	s := NewSerializer(tm, &scope{})
	s.Start()
	done := make(chan any)
	go func() {
		defer func() { done <- recover() }()
		for {
			s.Pixels.Put(fifo.Timing(0)) // no sync, so this fills up
		}
	}()
	time.Sleep(time.Millisecond)
	stop(s)
	if e := <-done; e != fifo.ErrStopped {
		t.Errorf("producer recovered %v, want %v", e, fifo.ErrStopped)
	}
	func() {
		defer func() {
			if e := recover(); e != fifo.ErrStopped {
				t.Errorf("Level after Stop recovered %v", e)
			}
		}()
		s.Input().Level()
	}()
}
