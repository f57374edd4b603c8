package audio

import (
	"runtime"
	"sync/atomic"
)

type eventKind int

const (
	eventTrigger eventKind = iota
	eventRelease
)

type controlEvent struct {
	kind eventKind
}

// eventQueue is a lock-free spsc ring. Control threads serialize pushes
// behind the engine's control mutex; the audio callback is the only
// consumer.
type eventQueue struct {
	events      []controlEvent
	read, write *uint32
}

func newEventQueue(size int) *eventQueue {
	if size <= 0 || size&(size-1) != 0 {
		panic("event queue size must be a power of 2")
	}
	return &eventQueue{
		events: make([]controlEvent, size),
		read:   new(uint32),
		write:  new(uint32),
	}
}

func (q *eventQueue) push(ev controlEvent) {
	for atomic.LoadUint32(q.write)-atomic.LoadUint32(q.read) == uint32(len(q.events)) {
		runtime.Gosched()
	}
	write := atomic.LoadUint32(q.write)
	q.events[write%uint32(len(q.events))] = ev
	atomic.StoreUint32(q.write, write+1)
}

// drain consumes all pending events in push order.
func (q *eventQueue) drain(f func(controlEvent)) {
	read := atomic.LoadUint32(q.read)
	write := atomic.LoadUint32(q.write)
	if read == write {
		return
	}
	for read != write {
		f(q.events[read%uint32(len(q.events))])
		read++
	}
	atomic.StoreUint32(q.read, read)
}
