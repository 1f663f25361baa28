package fifo

import (
	"encoding/binary"
	"errors"
	"hash"
	"sync"

	"github.com/cespare/xxhash"
)

// ErrStopped is the value panicked by blocking lane operations once the
// lane has been stopped. Loops that run for the life of the hardware
// recover it to exit cleanly.
var ErrStopped = errors.New("fifo: lane stopped")

// Pusher is the producer side of a lane.
type Pusher interface {
	// Put appends w to the lane, suspending the caller until there is
	// room for it.
	Put(w Word)
}

// Depth is the depth of a serializer lane.
const Depth = 8

// Lane is a bounded single-producer FIFO of words.
type Lane struct {
	c    chan Word
	stop chan struct{}
	once sync.Once
}

// NewLane returns an empty lane that holds up to depth words.
func NewLane(depth int) *Lane {
	return &Lane{
		c:    make(chan Word, depth),
		stop: make(chan struct{}),
	}
}

// Put implements Pusher. It panics with ErrStopped if the lane is
// stopped while the caller is waiting.
func (l *Lane) Put(w Word) {
	select {
	case l.c <- w:
	case <-l.stop:
		panic(ErrStopped)
	}
}

// TryGet removes the oldest word from the lane, if any.
func (l *Lane) TryGet() (Word, bool) {
	select {
	case w := <-l.c:
		return w, true
	default:
		return 0, false
	}
}

// C returns the channel from which a consumer may wait for words.
func (l *Lane) C() <-chan Word { return l.c }

// Len returns the number of words waiting in the lane.
func (l *Lane) Len() int { return len(l.c) }

// Cap returns the depth of the lane.
func (l *Lane) Cap() int { return cap(l.c) }

// Stop releases any producer blocked in Put. It is safe to call more
// than once.
func (l *Lane) Stop() { l.once.Do(func() { close(l.stop) }) }

// Done is closed once Stop has been called.
func (l *Lane) Done() <-chan struct{} { return l.stop }

// Recorder is a Pusher that never blocks and keeps every word it is
// given.
type Recorder struct {
	Words []Word
}

func (r *Recorder) Put(w Word) { r.Words = append(r.Words, w) }

func (r *Recorder) Reset() { r.Words = r.Words[:0] }

// Rows splits the recorded words into rows of pixel words, each row
// terminated by a timing word. Timing words with no pixels before them
// yield empty rows. Trailing pixel words with no terminator are dropped.
func (r *Recorder) Rows() [][]Word {
	var (
		rows  [][]Word
		start int
	)
	for i, w := range r.Words {
		if !w.IsPixel() {
			rows = append(rows, r.Words[start:i])
			start = i + 1
		}
	}
	return rows
}

// Sum returns the digest of the recorded words.
func (r *Recorder) Sum() uint64 {
	b := make([]byte, 4*len(r.Words))
	for i, w := range r.Words {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(w))
	}
	return xxhash.Sum64(b)
}

// Digest is a Pusher that hashes every word on its way to Out.
type Digest struct {
	Out Pusher // may be nil

	h   hash.Hash64
	buf [4]byte
}

func NewDigest(out Pusher) *Digest {
	return &Digest{Out: out, h: xxhash.New()}
}

func (d *Digest) Put(w Word) {
	binary.LittleEndian.PutUint32(d.buf[:], uint32(w))
	d.h.Write(d.buf[:])
	if d.Out != nil {
		d.Out.Put(w)
	}
}

// Sum returns the digest of the words seen since the last Reset.
// It agrees with Recorder.Sum for the same words.
func (d *Digest) Sum() uint64 { return d.h.Sum64() }

func (d *Digest) Reset() { d.h.Reset() }
