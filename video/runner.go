package video

import (
	"fmt"
	"sync"
	"time"

	"github.com/nf/mode7/fifo"
	"github.com/nf/mode7/teletext"
)

// FlashFields is the number of fields between flash phase changes.
const FlashFields = 16

// FieldTime is the period of a PAL field.
const FieldTime = time.Second / 50

// Config configures a Runner.
type Config struct {
	Timing Timing

	// HideConcealed starts the display with concealed text hidden.
	HideConcealed bool

	// ExternalSync plays the sync waveform into the serializer as if it
	// came from the host computer, rather than generating it from the
	// sync lane's interrupt.
	ExternalSync bool

	// RealTime holds the render loop to one field per FieldTime.
	RealTime bool

	// StateFunc, if set, is called by the render loop after each field.
	StateFunc func(State)
}

// State describes the render loop after a field.
type State struct {
	Field    int64
	Parity   Parity
	Page     int
	Pages    int
	FlashOn  bool
	Reveal   bool
	SyncLine int
	Ticks    int64
	Digest   uint64 // of the field's pixel lane words
}

func (s State) String() string {
	return fmt.Sprintf("field %d %v  page %d/%d  flash %v  reveal %v\nsync line %3d  t=%dµs  digest %.16x",
		s.Field, s.Parity, s.Page+1, s.Pages, s.FlashOn, s.Reveal, s.SyncLine, s.Ticks, s.Digest)
}

// Runner is the render loop: it waits for VSYNC, renders the current
// page into the pixel lane and repeats, applying page commands between
// fields.
type Runner struct {
	cfg Config

	ser *Serializer
	mon *Monitor
	seq *Sequencer
	det *Detector
	ren *teletext.Renderer
	dig *fifo.Digest
	log backlog

	cmds chan func(*carousel)
	exit chan bool

	mu      sync.Mutex
	cond    *sync.Cond
	fields  int64
	stopped bool

	car carousel // owned by the render loop
}

type carousel struct {
	pages   []*teletext.Page
	cur     int
	flashOn bool
}

// NewRunner returns a Runner that shows pages.
func NewRunner(cfg Config, pages []*teletext.Page) (*Runner, error) {
	if err := cfg.Timing.Validate(); err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages")
	}
	var (
		t   = cfg.Timing
		mon = NewMonitor(t)
		ser = NewSerializer(t, mon)
		dig = fifo.NewDigest(ser.Pixels)
	)
	r := &Runner{
		cfg: cfg,
		ser: ser,
		mon: mon,
		seq: NewSequencer(t),
		dig: dig,
		ren: &teletext.Renderer{
			Font:          teletext.DefaultFont(),
			Out:           dig,
			BackPorch:     uint16(t.BackPorch()),
			HideConcealed: cfg.HideConcealed,
		},
		cmds: make(chan func(*carousel), 16),
		exit: make(chan bool),
		car:  carousel{pages: pages, flashOn: true},
	}
	r.det = &Detector{In: ser.Input(), Out: ser.Pixels, Timing: t, log: &r.log}
	r.cond = sync.NewCond(&r.mu)
	return r, nil
}

// Monitor returns the display the serializer drives.
func (r *Runner) Monitor() *Monitor { return r.mon }

// Start brings up the serializer and the sync generator and starts the
// render loop.
func (r *Runner) Start() error {
	Init(r.ser)
	if r.cfg.ExternalSync {
		r.ser.SetExternalSync(r.seq.Next)
	} else if err := StartSyncGen(r.ser, r.seq); err != nil {
		return err
	}
	r.ser.Start()
	go r.loop()
	return nil
}

// Stop halts the render loop and the serializer.
func (r *Runner) Stop() {
	r.ser.Stop()
	<-r.exit
	<-r.ser.Done()
}

// Done is closed when the render loop has exited.
func (r *Runner) Done() <-chan bool { return r.exit }

// Run starts r and, if gui is set, shows the monitor in a window until
// it is closed. Otherwise it waits for r to stop.
func (r *Runner) Run(gui bool) error {
	if err := r.Start(); err != nil {
		return err
	}
	if gui {
		err := NewGUI(r).Run(r.exit)
		r.Stop()
		return err
	}
	<-r.exit
	return nil
}

func (r *Runner) loop() {
	defer func() {
		e := recover()
		r.mu.Lock()
		r.stopped = true
		r.cond.Broadcast()
		r.mu.Unlock()
		close(r.exit)
		if e != nil && e != fifo.ErrStopped {
			r.log.Emit()
			panic(e)
		}
	}()
	var deadline time.Time
	for n := int64(0); ; n++ {
		r.drain()
		parity := r.det.WaitForVSync()

		c := &r.car
		r.dig.Reset()
		r.ren.Field(c.pages[c.cur], c.flashOn, bool(parity))
		st := State{
			Field:    n,
			Parity:   parity,
			Page:     c.cur,
			Pages:    len(c.pages),
			FlashOn:  c.flashOn,
			Reveal:   !r.ren.HideConcealed,
			SyncLine: r.seq.Line(),
			Ticks:    r.ser.Ticks() / int64(r.cfg.Timing.ClockMHz),
			Digest:   r.dig.Sum(),
		}
		r.log.LazyPrintf("field %d: %v page %d digest %.16x", n, parity, c.cur, st.Digest)
		if n%FlashFields == FlashFields-1 {
			c.flashOn = !c.flashOn
		}

		r.mu.Lock()
		r.fields = n + 1
		r.cond.Broadcast()
		r.mu.Unlock()
		if f := r.cfg.StateFunc; f != nil {
			f(st)
		}

		if r.cfg.RealTime {
			now := time.Now()
			if deadline.IsZero() || now.Sub(deadline) > 5*FieldTime {
				deadline = now
			}
			deadline = deadline.Add(FieldTime)
			time.Sleep(deadline.Sub(now))
		}
	}
}

// drain applies queued commands.
func (r *Runner) drain() {
	for {
		select {
		case f := <-r.cmds:
			f(&r.car)
		default:
			return
		}
	}
}

// do queues f to run on the render loop between fields.
func (r *Runner) do(f func(*carousel)) {
	select {
	case r.cmds <- f:
	case <-r.exit:
	}
}

// Fields returns the number of fields rendered.
func (r *Runner) Fields() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fields
}

// WaitFields blocks until n fields have been rendered, and reports
// whether they were before the loop stopped.
func (r *Runner) WaitFields(n int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.fields < n && !r.stopped {
		r.cond.Wait()
	}
	return r.fields >= n
}

// NextPage shows the next page, wrapping around.
func (r *Runner) NextPage() {
	r.do(func(c *carousel) { c.cur = (c.cur + 1) % len(c.pages) })
}

// PrevPage shows the previous page, wrapping around.
func (r *Runner) PrevPage() {
	r.do(func(c *carousel) { c.cur = (c.cur + len(c.pages) - 1) % len(c.pages) })
}

// SelectPage shows page n, counting from 0. Out of range pages are
// ignored.
func (r *Runner) SelectPage(n int) {
	r.do(func(c *carousel) {
		if n >= 0 && n < len(c.pages) {
			c.cur = n
		}
	})
}

// SetPages replaces the carousel, keeping the current page number if it
// still exists.
func (r *Runner) SetPages(ps []*teletext.Page) {
	if len(ps) == 0 {
		return
	}
	r.do(func(c *carousel) {
		c.pages = ps
		if c.cur >= len(ps) {
			c.cur = 0
		}
	})
}

// ToggleReveal shows or hides concealed text.
func (r *Runner) ToggleReveal() {
	r.do(func(*carousel) { r.ren.HideConcealed = !r.ren.HideConcealed })
}

// EmitBacklog logs the render loop's recent trace messages.
func (r *Runner) EmitBacklog() {
	r.do(func(*carousel) { r.log.Emit() })
}
