package video

import "github.com/nf/mode7/fifo"

// Init readies the pixel path of s. It queues one timing word, which
// holds the outputs black until the first HSYNC, and only then enables
// the outputs so that they never show an undefined state.
func Init(s *Serializer) {
	s.Pixels.Put(fifo.Timing(uint16(s.Timing().BackPorch())))
	s.EnableOutputs()
}

// StartSyncGen makes q the exclusive sync interrupt handler of s and
// enables the interrupt. From then on q runs whenever the sync lane has
// room.
func StartSyncGen(s *Serializer, q *Sequencer) error {
	if err := s.SetSyncHandler(q.Handler(s.Syncs)); err != nil {
		return err
	}
	s.EnableSyncIRQ(true)
	return nil
}
