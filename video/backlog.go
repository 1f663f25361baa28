package video

import "log"

// backlog keeps the most recent trace messages of the render loop
// without formatting them, so that tracing never slows a field down.
// It must only be used from one goroutine. A nil backlog discards
// everything.
type backlog struct {
	entries []logEntry
	n       int
}

type logEntry struct {
	format string
	args   []any
}

const maxBacklog = 200

func (b *backlog) LazyPrintf(format string, args ...any) {
	if b == nil {
		return
	}
	if b.n < len(b.entries) {
		b.entries[b.n] = logEntry{format, args}
	} else {
		b.entries = append(b.entries, logEntry{format, args})
	}
	b.n = (b.n + 1) % maxBacklog
}

// Emit logs the retained messages, oldest first.
func (b *backlog) Emit() {
	if b == nil || len(b.entries) == 0 {
		return
	}
	for i := b.n; ; i++ {
		i %= len(b.entries)
		log.Printf(b.entries[i].format, b.entries[i].args...)
		if (i+1)%maxBacklog == b.n {
			break
		}
	}
}
