package video

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/nf/mode7/fifo"
)

// Display receives the output of a Serializer.
type Display interface {
	// Sync reports that the sync line changed to level at tick t.
	Sync(t int64, level bool)
	// Pixels reports a pixel word whose first pixel starts at tick t.
	Pixels(t int64, w fifo.Word)
}

// Serializer simulates the programmable pixel serializer on a virtual
// clock. It runs two state machines:
//
// The sync machine takes pulse pairs from Syncs and drives the sync
// line low and then high for their widths. Each time it takes a pair
// and Syncs has room, the sync interrupt handler, if enabled, runs.
//
// The pixel machine takes words from Pixels. A pixel word shifts out 12
// pixels at the pixel clock. A timing word blanks the outputs, waits for
// the next falling edge of the sync line and then waits out its delay.
//
// Time only passes while the pixel machine has something to do or while
// a SyncInput poll needs it to, so the output does not depend on how
// quickly the producers run.
type Serializer struct {
	Pixels *fifo.Lane
	Syncs  *fifo.Lane

	timing   Timing
	display  Display
	external func() fifo.Word

	handler atomic.Pointer[func()]
	irq     atomic.Bool
	outputs atomic.Bool
	clock   atomic.Int64

	polls    chan pollKind
	replies  chan pollReply
	stop     chan bool
	stopOnce sync.Once
	done     chan bool

	// Owned by the run goroutine.
	now     int64
	sync    syncMachine
	pixel   pixelMachine
	pending pollKind
}

type syncMachine struct {
	level   bool
	stalled bool  // no pulse pair to play; the line idles high
	edge    int64 // time of the next edge
	high    int64 // width of the high half of the current pair
}

type pixelState int

const (
	pixelIdle  pixelState = iota // waiting for a word
	pixelShift                   // shifting out a pixel word
	pixelSync                    // waiting for a falling edge
	pixelDelay                   // waiting out a timing word's delay
)

type pixelMachine struct {
	state pixelState
	until int64
	delay int64
}

type pollKind int

const (
	pollNone pollKind = iota
	pollLevel
	pollMicros
)

type pollReply struct {
	level  bool
	micros uint32
}

// ErrHandlerSet is returned when a second sync interrupt handler is
// registered.
var ErrHandlerSet = errors.New("sync interrupt handler already set")

// NewSerializer returns a stopped serializer that clocks its output to d.
func NewSerializer(t Timing, d Display) *Serializer {
	return &Serializer{
		Pixels:  fifo.NewLane(fifo.Depth),
		Syncs:   fifo.NewLane(fifo.Depth),
		timing:  t,
		display: d,
		polls:   make(chan pollKind),
		replies: make(chan pollReply),
		stop:    make(chan bool),
		done:    make(chan bool),
	}
}

// Timing returns the configuration s was built with.
func (s *Serializer) Timing() Timing { return s.timing }

// SetSyncHandler registers h as the sync lane's interrupt handler. It
// runs on the serializer's goroutine and must push exactly one word to
// Syncs. Only one handler may be registered.
func (s *Serializer) SetSyncHandler(h func()) error {
	if !s.handler.CompareAndSwap(nil, &h) {
		return ErrHandlerSet
	}
	return nil
}

// EnableSyncIRQ enables or disables the sync interrupt.
func (s *Serializer) EnableSyncIRQ(on bool) { s.irq.Store(on) }

// EnableOutputs connects the colour outputs to the display. Until then
// pixel words are consumed but not shown.
func (s *Serializer) EnableOutputs() { s.outputs.Store(true) }

// OutputsEnabled reports whether EnableOutputs has been called.
func (s *Serializer) OutputsEnabled() bool { return s.outputs.Load() }

// SetExternalSync makes the sync machine take its pulse pairs from next
// instead of the Syncs lane, as when sync is supplied by the host
// computer. It must be called before Start.
func (s *Serializer) SetExternalSync(next func() fifo.Word) { s.external = next }

// Ticks returns the virtual time. It may be called from any goroutine.
func (s *Serializer) Ticks() int64 { return s.clock.Load() }

// Input returns the sync line as a SyncInput. Only one goroutine may
// poll it at a time.
func (s *Serializer) Input() SyncInput { return serialInput{s} }

// Start runs s on a new goroutine.
func (s *Serializer) Start() { go s.run() }

// Stop halts s. Producers blocked on its lanes and callers blocked on
// its input panic with fifo.ErrStopped.
func (s *Serializer) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.Pixels.Stop()
		s.Syncs.Stop()
	})
}

// Done is closed when the serializer's goroutine has exited.
func (s *Serializer) Done() <-chan bool { return s.done }

func (s *Serializer) run() {
	defer close(s.done)
	defer func() {
		if e := recover(); e != nil && e != fifo.ErrStopped {
			panic(e)
		}
	}()
	s.sync = syncMachine{level: true, stalled: true}
	for {
		select {
		case <-s.stop:
			return
		default:
		}
		s.interrupt()
		s.pullSync()

		switch s.pixel.state {
		case pixelIdle:
			if w, ok := s.Pixels.TryGet(); ok {
				s.start(w)
				continue
			}
			if s.pending != pollNone {
				s.serve()
				continue
			}
			select {
			case w := <-s.Pixels.C():
				s.start(w)
			case p := <-s.polls:
				// Look for words pushed before the poll first.
				s.pending = p
			case <-s.stop:
				return
			}
		case pixelSync:
			if s.sync.stalled {
				// Nothing will happen until there is sync.
				select {
				case w := <-s.Syncs.C():
					s.playSync(w)
				case <-s.stop:
					return
				}
				continue
			}
			s.step(s.sync.edge)
		default:
			s.step(s.pixel.until)
		}
	}
}

// step advances time to the earliest of limit and the next sync edge,
// and handles whatever happens then.
func (s *Serializer) step(limit int64) {
	if !s.sync.stalled && s.sync.edge < limit {
		limit = s.sync.edge
	}
	s.now = limit
	s.clock.Store(limit)
	if !s.sync.stalled && s.sync.edge == s.now {
		s.syncEdge()
	}
	switch s.pixel.state {
	case pixelShift, pixelDelay:
		if s.pixel.until == s.now {
			s.pixel.state = pixelIdle
		}
	}
}

func (s *Serializer) syncEdge() {
	if !s.sync.level {
		s.sync.level = true
		s.sync.edge = s.now + s.sync.high
		s.display.Sync(s.now, true)
		return
	}
	s.sync.stalled = true
	s.pullSync()
	s.interrupt()
}

// pullSync starts the next pulse pair if the sync machine is idle and
// one is available.
func (s *Serializer) pullSync() {
	if !s.sync.stalled {
		return
	}
	if s.external != nil {
		s.playSync(s.external())
		return
	}
	if w, ok := s.Syncs.TryGet(); ok {
		s.playSync(w)
	}
}

func (s *Serializer) playSync(w fifo.Word) {
	s.sync = syncMachine{
		level: false,
		edge:  s.now + int64(w.Low()),
		high:  int64(w.High()),
	}
	s.display.Sync(s.now, false)
	if s.pixel.state == pixelSync {
		s.pixel = pixelMachine{state: pixelDelay, until: s.now + s.pixel.delay}
	}
}

// interrupt runs the sync handler while the sync lane has room, which
// is how the level triggered "not full" interrupt behaves.
func (s *Serializer) interrupt() {
	if s.external != nil || !s.irq.Load() {
		return
	}
	h := s.handler.Load()
	if h == nil {
		return
	}
	for s.Syncs.Len() < s.Syncs.Cap() {
		n := s.Syncs.Len()
		(*h)()
		if s.Syncs.Len() == n {
			break
		}
	}
}

func (s *Serializer) start(w fifo.Word) {
	if !w.IsPixel() {
		s.pixel = pixelMachine{state: pixelSync, delay: int64(w.Delay())}
		return
	}
	if s.outputs.Load() {
		s.display.Pixels(s.now, w)
	}
	s.pixel = pixelMachine{
		state: pixelShift,
		until: s.now + int64(12*s.timing.PixelTicks()),
	}
}

// serve answers the pending poll. A level poll lets up to a microsecond
// pass, stopping early at a sync edge.
func (s *Serializer) serve() {
	var r pollReply
	switch s.pending {
	case pollLevel:
		s.step(s.now + int64(s.timing.ClockMHz))
		r.level = s.sync.level
	case pollMicros:
		r.micros = uint32(s.now / int64(s.timing.ClockMHz))
	}
	s.pending = pollNone
	select {
	case s.replies <- r:
	case <-s.stop:
		panic(fifo.ErrStopped)
	}
}

func (s *Serializer) poll(k pollKind) pollReply {
	select {
	case s.polls <- k:
	case <-s.stop:
		panic(fifo.ErrStopped)
	}
	select {
	case r := <-s.replies:
		return r
	case <-s.stop:
		panic(fifo.ErrStopped)
	}
}

type serialInput struct{ s *Serializer }

func (in serialInput) Level() bool    { return in.s.poll(pollLevel).level }
func (in serialInput) Micros() uint32 { return in.s.poll(pollMicros).micros }
